// Package cli provides the Cobra command structure for treemark.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/treemark/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root treemark command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var color string

	rootCmd := &cobra.Command{
		Use:   "treemark",
		Short: "A directive-based markup parser",
		Long: `treemark parses markup documents built from paragraphs, span and block
directives, and substitution references into a document tree.

Malformed input never aborts a parse: unrecognized constructs degrade to
literal text and invalid directive usage becomes an invalid-node placeholder
carrying every validation problem. The check command reports those
placeholders as diagnostics.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	// Add subcommands.
	rootCmd.AddCommand(newParseCommand())
	rootCmd.AddCommand(newCheckCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	// Apply styled help formatting.
	helpFormatter := NewHelpFormatter(color, os.Stdout)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}
