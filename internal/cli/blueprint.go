package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/echoes-os/echoes/internal/blueprint"
	"github.com/echoes-os/echoes/internal/config"
)

func newBlueprintCmd() *cobra.Command {
	var (
		model       string
		title       string
		topics      []string
		contextText string
		generate    bool
	)

	cmd := &cobra.Command{
		Use:   "blueprint <content|file|->",
		Short: "Deconstruct content into reverse prompts, then compose a new one",
		Long: `Two-stage creative blueprinting.

Stage 1 deconstructs existing content into the prompts that could have
produced it. Stage 2 combines those prompts with a new title, topics, and
context to compose a generation prompt for a fresh piece in the same style.

Missing composition fields are prompted for interactively.

Examples:
  echoes blueprint essays/best-essay.md --title "On focus" --topics focus,attention
  echoes blueprint thread.txt --title "Launch recap" --generate`,
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

			session := blueprint.NewSession(llm, log)

			fmt.Fprintln(os.Stderr, "Deconstructing content...")
			prompts, err := session.Deconstruct(cmd.Context(), content)
			if err != nil {
				return err
			}
			if len(prompts) == 0 {
				fmt.Println("No reverse prompts could be extracted from this content.")
				return nil
			}

			fmt.Println("Reverse prompts:")
			for i, p := range prompts {
				fmt.Printf("  %d. %s\n", i+1, p.Prompt)
				if p.Rationale != "" {
					fmt.Printf("     (%s)\n", p.Rationale)
				}
			}
			fmt.Println()

			reader := bufio.NewReader(os.Stdin)
			if title == "" {
				fmt.Print("Title for the new piece: ")
				title = readLineBuf(reader)
			}
			if len(topics) == 0 {
				fmt.Print("Topics (comma-separated): ")
				for _, t := range strings.Split(readLineBuf(reader), ",") {
					if t = strings.TrimSpace(t); t != "" {
						topics = append(topics, t)
					}
				}
			}
			if contextText == "" {
				fmt.Print("Context (audience, goal, constraints): ")
				contextText = readLineBuf(reader)
			}

			fmt.Fprintln(os.Stderr, "Composing generation prompt...")
			finalPrompt, err := session.Reconstruct(cmd.Context(), blueprint.CompositionRequest{
				Title:   title,
				Topics:  topics,
				Context: contextText,
			})
			if err != nil {
				return err
			}

			fmt.Println("=== Generation prompt ===")
			fmt.Println(finalPrompt)

			if generate {
				fmt.Fprintln(os.Stderr, "\nGenerating content...")
				out, err := session.Generate(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Println("\n=== Generated content ===")
				fmt.Println(out)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "", "LLM provider override: claude, openai, gemini, ollama")
	cmd.Flags().StringVarP(&title, "title", "t", "", "title for the composed piece")
	cmd.Flags().StringSliceVar(&topics, "topics", nil, "topics for the composed piece")
	cmd.Flags().StringVarP(&contextText, "context", "c", "", "audience/goal context for the composed piece")
	cmd.Flags().BoolVarP(&generate, "generate", "g", false, "generate the content after composing the prompt")

	return cmd
}
