package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/echoes-os/echoes/internal/blueprint"
	"github.com/echoes-os/echoes/internal/config"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		model  string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "analyze <content|file|->",
		Short: "Reverse-engineer the workflow behind a piece of content",
		Long: `Infer the tools and steps that likely produced the given content,
as a reusable workflow blueprint.

Examples:
  echoes analyze posts/deep-work-thread.md
  echoes analyze "just published my newsletter on pricing" --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readInput(strings.Join(args, " "))
			if err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := cliLogger()

			llm, err := newCompleter(cfg, log, model)
			if err != nil {
				return err
			}

			analysis := blueprint.AnalyzeWorkflow(cmd.Context(), llm, content)
			if analysis == nil {
				return fmt.Errorf("nothing to analyze: input is empty")
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(analysis)
			}

			fmt.Printf("Content type: %s (confidence %.2f)\n\n", analysis.ContentType, analysis.Confidence)
			fmt.Println("Workflow:")
			for _, step := range analysis.Steps {
				fmt.Printf("  %d. %s — %s", step.Order, step.Tool, step.Action)
				if step.Note != "" {
					fmt.Printf(" (%s)", step.Note)
				}
				fmt.Println()
			}

			if len(analysis.Insights) > 0 {
				fmt.Println("\nInsights:")
				for _, ins := range analysis.Insights {
					fmt.Printf("  • %s\n", ins)
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "", "LLM provider override: claude, openai, gemini, ollama")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the analysis as JSON")

	return cmd
}
