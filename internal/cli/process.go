package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/echoes-os/echoes/internal/config"
	"github.com/echoes-os/echoes/internal/engine"
	"github.com/echoes-os/echoes/internal/retrieval"
)

func newProcessCmd() *cobra.Command {
	var (
		model  string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "process <input|file|->",
		Short: "Classify input and run retrieval and/or workflow analysis",
		Long: `Figure out whether the input is a question, a piece of content, or both,
then route it: questions search memory, content gets a workflow blueprint,
mixed input gets both.

Examples:
  echoes process "how do I structure a launch thread?"
  echoes process drafts/launch-thread.md
  echoes process "my morning routine post" --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(strings.Join(args, " "))
			if err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := cliLogger()

			database, store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer database.Close()

			embedder, err := newEmbeddingGateway(cfg, log)
			if err != nil {
				return err
			}

			llm, err := newCompleter(cfg, log, model)
			if err != nil {
				return err
			}

			ret := retrieval.NewService(embedder, store, log)
			classifier := engine.NewClassifier(llm, log)
			orch := engine.NewOrchestrator(classifier, ret, llm, log)

			result, err := orch.Process(cmd.Context(), input)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}

			fmt.Printf("Classified as: %s (confidence %.2f)\n\n", result.Analysis.ContentType, result.Analysis.Confidence)

			if len(result.Memories) > 0 {
				fmt.Println("Related memories:")
				printResults(result.Memories)
			}

			if len(result.ReversePrompts) > 0 {
				fmt.Println("Reverse prompts:")
				for i, p := range result.ReversePrompts {
					fmt.Printf("  %d. %s\n", i+1, p.Prompt)
				}
				fmt.Println()
			}

			if len(result.Blueprint) > 0 {
				fmt.Println("Workflow blueprint:")
				for _, step := range result.Blueprint {
					fmt.Printf("  %d. %s — %s", step.Order, step.Tool, step.Action)
					if step.Note != "" {
						fmt.Printf(" (%s)", step.Note)
					}
					fmt.Println()
				}
				fmt.Println()
			}

			if len(result.Analysis.Insights) > 0 {
				fmt.Println("Insights:")
				for _, ins := range result.Analysis.Insights {
					fmt.Printf("  • %s\n", ins)
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "", "LLM provider override: claude, openai, gemini, ollama")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the full result as JSON")

	return cmd
}
