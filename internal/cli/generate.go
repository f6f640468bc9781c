package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/echoes-os/echoes/internal/blueprint"
	"github.com/echoes-os/echoes/internal/config"
)

func newGenerateCmd() *cobra.Command {
	var model string

	cmd := &cobra.Command{
		Use:   "generate <prompt|file|->",
		Short: "Generate content from a prompt",
		Long: `Run a writing prompt — typically one produced by 'echoes blueprint' —
through the configured LLM and print the result.

Examples:
  echoes generate prompts/launch-recap.txt
  echoes blueprint essay.md -t "On focus" | echoes generate -`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt, err := readInput(strings.Join(args, " "))
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

			out, err := blueprint.GenerateContent(cmd.Context(), llm, prompt)
			if err != nil {
				return err
			}

			fmt.Println(out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "", "LLM provider override: claude, openai, gemini, ollama")

	return cmd
}
