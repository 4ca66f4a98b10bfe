// Package cmd implements the vdom CLI commands.
//
// The root command dispatches to subcommands (render, bench, version).
// Each subcommand registers itself from an init function.
package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

// configPath overrides the vdom.yaml lookup in the project root.
var configPath string

var rootCmd = &cobra.Command{
	Use:   "vdom",
	Short: "vdom - a declarative UI reconciliation engine",
	Long: `vdom reconciles trees of element descriptors against a host tree,
running class and function components with hooks and a batching scheduler.

The CLI renders a demo application into an in-memory document and
benchmarks the reconciler.

Use "vdom <command> --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to vdom.yaml (default: <project root>/vdom.yaml)")
}

// RegisterCommand adds a command to the CLI.
func RegisterCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}

// Execute runs the CLI with os.Args.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
