package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/echoes-os/echoes/internal/config"
)

func newSetupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Interactive first-time configuration",
		Long:  "Configure API keys, default LLM model, and embedding provider for Echoes.",
		RunE: func(cmd *cobra.Command, args []string) error {
			reader := bufio.NewReader(os.Stdin)

			fmt.Println("Welcome to Echoes! Let's set up your personal memory engine.")
			fmt.Println()

			cfg := config.Default()

			// Step 1: Choose LLM provider.
			fmt.Println("Which LLM should power blueprints and workflow analysis?")
			fmt.Println("  [1] OpenAI (GPT-4o)")
			fmt.Println("  [2] Claude (Anthropic)")
			fmt.Println("  [3] Gemini (Google)")
			fmt.Println("  [4] Ollama (local)")
			fmt.Print("> ")

			choice := readLineBuf(reader)
			switch strings.TrimSpace(choice) {
			case "2":
				cfg.DefaultModel = "claude"
				if key := readSecret("Enter your Anthropic API key (or press Enter to set ANTHROPIC_API_KEY later): "); key != "" {
					cfg.Keys.Anthropic = key
				}
			case "3":
				cfg.DefaultModel = "gemini"
				if key := readSecret("Enter your Gemini API key (or press Enter to set GEMINI_API_KEY later): "); key != "" {
					cfg.Keys.Gemini = key
				}
			case "4":
				cfg.DefaultModel = "ollama"
				fmt.Printf("Ollama host (press Enter for %s): ", cfg.Ollama.Host)
				if host := readLineBuf(reader); host != "" {
					cfg.Ollama.Host = host
				}
			default:
				cfg.DefaultModel = "openai"
				if key := readSecret("Enter your OpenAI API key (or press Enter to set OPENAI_API_KEY later): "); key != "" {
					cfg.Keys.OpenAI = key
				}
			}

			fmt.Println()

			// Step 2: Choose embedding provider.
			fmt.Println("For embeddings (semantic search), use:")
			fmt.Println("  [1] OpenAI embeddings (best quality, small cost)")
			fmt.Println("  [2] Local embeddings via Ollama (private, free — requires Ollama)")
			fmt.Print("> ")

			embedChoice := readLineBuf(reader)
			switch strings.TrimSpace(embedChoice) {
			case "2":
				cfg.DefaultEmbedder = "ollama"
				cfg.Memory.EmbeddingDimension = 768
				fmt.Printf("Ollama host (press Enter for %s): ", cfg.Ollama.Host)
				if host := readLineBuf(reader); host != "" {
					cfg.Ollama.Host = host
				}
			default:
				cfg.DefaultEmbedder = "openai"
				cfg.Memory.EmbeddingDimension = 1536
				if cfg.Keys.OpenAI == "" {
					cfg.Keys.OpenAI = readSecret("Enter your OpenAI API key: ")
				}
			}

			fmt.Println()

			if err := config.Save(cfg); err != nil {
				return fmt.Errorf("save config: %w", err)
			}

			path, _ := config.Path()
			fmt.Printf("Configuration saved to %s\n", path)
			fmt.Println("Run `echoes ingest <file>` to store your first memory.")

			return nil
		},
	}
}

// readSecret prompts for a value without echoing it when stdin is a
// terminal. Piped input falls back to a plain line read.
func readSecret(prompt string) string {
	fmt.Print(prompt)
	if term.IsTerminal(int(os.Stdin.Fd())) {
		secret, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return ""
		}
		return strings.TrimSpace(string(secret))
	}
	reader := bufio.NewReader(os.Stdin)
	return strings.TrimSpace(readLineBuf(reader))
}
