package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/echoes-os/echoes/internal/config"
	"github.com/echoes-os/echoes/internal/engine"
	"github.com/echoes-os/echoes/internal/fetch"
	"github.com/echoes-os/echoes/internal/ingest"
	mcpserver "github.com/echoes-os/echoes/internal/mcp"
	"github.com/echoes-os/echoes/internal/retrieval"
)

func newServeCmd() *cobra.Command {
	var model string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run Echoes as an MCP server over stdio",
		Long: `Expose memory search, processing, workflow analysis, and ingestion as
MCP tools so AI assistants can use Echoes directly.

Add to your MCP client config:

  {
    "mcpServers": {
      "echoes": { "command": "echoes", "args": ["serve"] }
    }
  }`,
		RunE: func(cmd *cobra.Command, args []string) error {
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

			ch, err := newChunker(cfg)
			if err != nil {
				return err
			}

			ret := retrieval.NewService(embedder, store, log)
			classifier := engine.NewClassifier(llm, log)
			orch := engine.NewOrchestrator(classifier, ret, llm, log)
			ing := ingest.NewService(ch, embedder, store, nil, fetch.New(), log)

			srv := mcpserver.NewServer(ret, orch, ing, version, log)

			fmt.Fprintln(os.Stderr, "Echoes MCP server listening on stdio")
			return srv.Serve()
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "", "LLM provider override: claude, openai, gemini, ollama")

	return cmd
}
