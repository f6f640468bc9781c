// Package config manages the global (~/.config/echoes/config.toml)
// configuration for Echoes.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds user-wide settings.
type Config struct {
	DefaultModel    string         `toml:"default_model"`
	DefaultEmbedder string         `toml:"default_embedder"`
	Keys            KeysConfig     `toml:"keys"`
	Ollama          OllamaConfig   `toml:"ollama"`
	Memory          MemoryConfig   `toml:"memory"`
	Chunking        ChunkingConfig `toml:"chunking"`
	Query           QueryConfig    `toml:"query"`
	Output          OutputConfig   `toml:"output"`
}

type KeysConfig struct {
	Anthropic string `toml:"anthropic"`
	OpenAI    string `toml:"openai"`
	Gemini    string `toml:"gemini"`
}

type OllamaConfig struct {
	Host            string `toml:"host"`
	EmbedModel      string `toml:"embed_model"`
	CompletionModel string `toml:"completion_model"`
}

// MemoryConfig controls the vector store and the embedding gateway.
type MemoryConfig struct {
	// EmbeddingDimension must match the embedder in use:
	// text-embedding-3-small produces 1536, nomic-embed-text 768.
	EmbeddingDimension int `toml:"embedding_dimension"`
	// MaxBatchTexts and MaxBatchTokens bound a single embedding request;
	// larger batches are split transparently by the gateway.
	MaxBatchTexts  int `toml:"max_batch_texts"`
	MaxBatchTokens int `toml:"max_batch_tokens"`
}

// ChunkingConfig controls how ingested documents are split.
type ChunkingConfig struct {
	MaxTokens     int `toml:"max_tokens"`
	OverlapTokens int `toml:"overlap_tokens"`
}

// QueryConfig holds the two query-time tunables.
type QueryConfig struct {
	Limit          int     `toml:"limit"`
	ScoreThreshold float64 `toml:"score_threshold"`
}

type OutputConfig struct {
	Verbose bool `toml:"verbose"`
}

// Default returns sensible defaults.
func Default() Config {
	return Config{
		DefaultModel:    "openai",
		DefaultEmbedder: "openai",
		Ollama: OllamaConfig{
			Host:            "http://localhost:11434",
			EmbedModel:      "nomic-embed-text",
			CompletionModel: "llama3.2",
		},
		Memory: MemoryConfig{
			EmbeddingDimension: 1536,
			MaxBatchTexts:      64,
			MaxBatchTokens:     8000,
		},
		Chunking: ChunkingConfig{
			MaxTokens:     800,
			OverlapTokens: 100,
		},
		Query: QueryConfig{
			Limit:          5,
			ScoreThreshold: 0.3,
		},
	}
}

// Path returns the path to the config file.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "echoes", "config.toml"), nil
}

// DBPath returns the path to the memory database. ECHOES_DB overrides the
// default location, which keeps tests and scripts away from real memories.
func DBPath() string {
	if v := os.Getenv("ECHOES_DB"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "echoes.db")
	}
	return filepath.Join(home, ".local", "share", "echoes", "memory.db")
}

// Load reads the config file, applying defaults for any missing values.
// A missing file is not an error; the defaults are returned.
func Load() (Config, error) {
	cfg := Default()

	path, err := Path()
	if err != nil {
		return cfg, nil // Return defaults if we can't determine home dir.
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		applyEnvOverrides(&cfg)
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("config: load: %w", err)
	}

	applyEnvOverrides(&cfg)
	return cfg, nil
}

// applyEnvOverrides lets env vars override config file API keys.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		cfg.Keys.Anthropic = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Keys.OpenAI = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.Keys.Gemini = v
	}
}

// Save writes the config to disk.
func Save(cfg Config) error {
	path, err := Path()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: mkdir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("config: create: %w", err)
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// APIKey returns the configured key for the named provider, or empty.
func (c Config) APIKey(provider string) string {
	switch provider {
	case "claude":
		return c.Keys.Anthropic
	case "openai":
		return c.Keys.OpenAI
	case "gemini":
		return c.Keys.Gemini
	}
	return ""
}
