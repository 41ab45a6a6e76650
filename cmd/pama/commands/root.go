// Package commands provides the CLI commands for the pama tool.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "pama",
	Short: "Pattern matching engine for structured values",
	Long: `pama compiles pattern templates and matches them against values.

This tool provides:
  - Validation of pattern templates (pama check)
  - Matching JSON subjects against patterns (pama match)

Usage:
  pama check 'Point(x, 0) | 1 | ... | 9'   Validate and print a pattern
  pama match '(a, *rest)' '[1, 2, 3]'      Match a JSON subject
  pama version                             Print version`,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable match tracing")
}

// logger builds the tracing logger selected by the --verbose flag.
func logger() *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	log, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return log
}
