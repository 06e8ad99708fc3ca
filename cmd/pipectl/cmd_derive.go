package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"pipeline-builder/domain/core/templates"
	"pipeline-builder/domain/core/valueobjects"
)

var deriveFlags struct {
	node string
}

var deriveCmd = &cobra.Command{
	Use:   "derive [TEXT]",
	Short: "Show the ports a template text produces",
	Long:  "Derive lists the {{variable}} inputs and the output handle of a text\nnode. The text is read from stdin when no argument is given.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDerive,
}

func init() {
	deriveCmd.Flags().StringVar(&deriveFlags.node, "node", "text-1", "Node id used to name handles")
}

func runDerive(cmd *cobra.Command, args []string) error {
	nodeID, err := valueobjects.NewNodeIDFromString(deriveFlags.node)
	if err != nil {
		return err
	}

	var text string
	if len(args) == 1 {
		text = args[0]
	} else {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read text: %w", err)
		}
		text = strings.TrimRight(string(data), "\n")
	}

	p := templates.Derive(nodeID, text)
	size := templates.Footprint(text, len(p.Variables))

	out := cmd.OutOrStdout()
	if len(p.Variables) == 0 {
		fmt.Fprintln(out, "Variables: (none)")
	} else {
		fmt.Fprintf(out, "Variables: %s\n", strings.Join(p.Variables, ", "))
	}
	fmt.Fprintln(out, "Handles:")
	for _, h := range p.Handles {
		fmt.Fprintf(out, "  %-6s %-5s %.2f  %s\n", h.Direction, h.Side, h.Offset, h.ID)
	}
	fmt.Fprintf(out, "Size: %.0fx%.0f\n", size.Width, size.Height)
	return nil
}
