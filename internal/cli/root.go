// Package cli defines the Cobra command tree for the echoes CLI.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// version, commit, date are set via -ldflags at build time.
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "echoes",
	Short: "Personal semantic memory engine for your own content",
	Long: `Echoes remembers everything you create — notes, transcripts, threads,
articles — and lets you search it by meaning, not keywords.

Beyond search, Echoes deconstructs your best content into the prompts
that could have produced it, and turns your working process into
reusable workflow blueprints.

Run 'echoes setup' once, then 'echoes ingest' to start building memory.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute(v, c, d string) {
	version, commit, date = v, c, d
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(
		newSetupCmd(),
		newIngestCmd(),
		newAskCmd(),
		newProcessCmd(),
		newAnalyzeCmd(),
		newBlueprintCmd(),
		newGenerateCmd(),
		newStatusCmd(),
		newForgetCmd(),
		newExportCmd(),
		newServeCmd(),
		newVersionCmd(),
	)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("echoes %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}
