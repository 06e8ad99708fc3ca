package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	verbose bool
}

var rootCmd = &cobra.Command{
	Use:   "pipectl",
	Short: "Inspect and submit node pipelines",
	Long:  "pipectl submits serialized pipelines to the validation service,\nderives template ports and inspects the node catalog.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&rootFlags.verbose, "verbose", "v", false, "Log to stderr")

	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(deriveCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.Version = version
}

// newLogger returns a development logger with -v and a no-op one otherwise
func newLogger() *zap.Logger {
	if !rootFlags.verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
