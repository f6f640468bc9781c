package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/echoes-os/echoes/internal/adapter"
	"github.com/echoes-os/echoes/internal/chunker"
	"github.com/echoes-os/echoes/internal/config"
	"github.com/echoes-os/echoes/internal/db"
	"github.com/echoes-os/echoes/internal/gateway"
	"github.com/echoes-os/echoes/internal/logger"
	"github.com/echoes-os/echoes/internal/memory"
	"github.com/echoes-os/echoes/internal/tokenizer"
)

// cliLogger returns the process-wide logger. ECHOES_DEBUG enables debug output.
func cliLogger() zerolog.Logger {
	return logger.New(os.Getenv("ECHOES_DEBUG") != "")
}

// openStore opens the memory database and wraps it in a store.
// The caller must Close the returned DB.
func openStore(cfg config.Config) (*db.DB, *memory.Store, error) {
	database, err := db.Open(config.DBPath(), cfg.Memory.EmbeddingDimension)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	return database, memory.NewStore(database), nil
}

// apiKey returns the correct API key from the config for the given provider.
func apiKey(cfg config.Config, provider string) string {
	switch provider {
	case adapter.ProviderClaude:
		return cfg.Keys.Anthropic
	case adapter.ProviderOpenAI:
		return cfg.Keys.OpenAI
	case adapter.ProviderGemini:
		return cfg.Keys.Gemini
	default:
		return ""
	}
}

// newEmbeddingGateway wires the configured embedding provider into the
// batching/retry gateway used by ingestion and retrieval.
func newEmbeddingGateway(cfg config.Config, log zerolog.Logger) (*gateway.EmbeddingGateway, error) {
	embedder, err := adapter.New(cfg.DefaultEmbedder, cfg.Ollama.EmbedModel, apiKey(cfg, cfg.DefaultEmbedder), cfg.Ollama.Host)
	if err != nil {
		return nil, fmt.Errorf("init embedder: %w", err)
	}

	tok, err := tokenizer.New()
	if err != nil {
		return nil, fmt.Errorf("init tokenizer: %w", err)
	}

	return gateway.NewEmbeddingGateway(embedder, tok, log, gateway.EmbeddingOptions{
		Dimension:      cfg.Memory.EmbeddingDimension,
		MaxBatchTexts:  cfg.Memory.MaxBatchTexts,
		MaxBatchTokens: cfg.Memory.MaxBatchTokens,
	}), nil
}

// newCompleter wires the configured (or overridden) LLM provider into the
// circuit-breaking generation gateway.
func newCompleter(cfg config.Config, log zerolog.Logger, override string) (*gateway.GenerationGateway, error) {
	providerName := cfg.DefaultModel
	if override != "" {
		providerName = override
	}

	llm, err := adapter.New(providerName, "", apiKey(cfg, providerName), cfg.Ollama.Host)
	if err != nil {
		return nil, fmt.Errorf("init LLM adapter: %w", err)
	}

	return gateway.NewGenerationGateway(llm, log), nil
}

// newChunker builds the document chunker from config.
func newChunker(cfg config.Config) (*chunker.Chunker, error) {
	tok, err := tokenizer.New()
	if err != nil {
		return nil, fmt.Errorf("init tokenizer: %w", err)
	}
	return chunker.New(tok, cfg.Chunking.MaxTokens, cfg.Chunking.OverlapTokens), nil
}

// readInput resolves the command's text input: an inline argument, a file
// path (when the argument names a readable file), or stdin when "-".
func readInput(arg string) (string, error) {
	if arg == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	if fi, err := os.Stat(arg); err == nil && !fi.IsDir() {
		data, err := os.ReadFile(arg)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", arg, err)
		}
		return string(data), nil
	}
	return arg, nil
}

// confirmPrompt asks for a yes/no confirmation on stdin.
func confirmPrompt(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, _ := reader.ReadString('\n')
	line = strings.TrimSpace(strings.ToLower(line))
	return line == "y" || line == "yes"
}

// readLineBuf reads a trimmed line from a bufio.Reader.
func readLineBuf(r *bufio.Reader) string {
	line, _ := r.ReadString('\n')
	return strings.TrimRight(line, "\r\n")
}
