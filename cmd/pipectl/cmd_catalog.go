package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"pipeline-builder/domain/catalog"
	"pipeline-builder/infrastructure/catalogfile"
)

var catalogFlags struct {
	overlay string
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the node catalog",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List node types with their handles and fields",
	Args:  cobra.NoArgs,
	RunE:  runCatalogList,
}

var catalogCheckCmd = &cobra.Command{
	Use:   "check FILE",
	Short: "Validate a catalog overlay file",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogCheck,
}

func init() {
	catalogListCmd.Flags().StringVar(&catalogFlags.overlay, "overlay", "", "Overlay file applied to the built-in catalog")

	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogCheckCmd)
}

func runCatalogList(cmd *cobra.Command, _ []string) error {
	cat := catalog.Default()
	if catalogFlags.overlay != "" {
		var err error
		if cat, err = catalogfile.Load(catalogFlags.overlay, cat); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	for _, d := range cat.Types() {
		fmt.Fprintf(out, "%s\t%s\n", d.Type, d.Label)
		if len(d.Handles) > 0 {
			names := make([]string, 0, len(d.Handles))
			for _, h := range d.Handles {
				names = append(names, fmt.Sprintf("%s:%s", h.Direction, h.Name))
			}
			fmt.Fprintf(out, "  handles: %s\n", strings.Join(names, " "))
		}
		if len(d.Fields) > 0 {
			names := make([]string, 0, len(d.Fields))
			for _, f := range d.Fields {
				names = append(names, fmt.Sprintf("%s(%s)", f.Field().Name, f.Kind()))
			}
			fmt.Fprintf(out, "  fields:  %s\n", strings.Join(names, " "))
		}
	}
	return nil
}

func runCatalogCheck(cmd *cobra.Command, args []string) error {
	cat, err := catalogfile.Load(args[0], catalog.Default())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: ok, %d node types\n", args[0], cat.Len())
	return nil
}
