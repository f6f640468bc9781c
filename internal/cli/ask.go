package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/echoes-os/echoes/internal/config"
	"github.com/echoes-os/echoes/internal/memory"
	"github.com/echoes-os/echoes/internal/retrieval"
)

func newAskCmd() *cobra.Command {
	var (
		limit     int
		threshold float64
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Search your memories by meaning",
		Long: `Embed the question and return the most relevant stored memories,
ranked by semantic similarity.

Examples:
  echoes ask "what did I write about habit formation?"
  echoes ask "pricing strategy notes" --limit 10
  echoes ask "onboarding ideas" --threshold 0.5 --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")

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

			if limit == 0 {
				limit = cfg.Query.Limit
			}
			if threshold == 0 {
				threshold = cfg.Query.ScoreThreshold
			}

			svc := retrieval.NewService(embedder, store, log)
			results, err := svc.Ask(cmd.Context(), query, limit, threshold)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(results)
			}

			printResults(results)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of results")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "minimum similarity score (0-1)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit results as JSON")

	return cmd
}

func printResults(results []memory.SearchResult) {
	if len(results) == 0 {
		fmt.Println("No memories matched. Try a broader question or a lower --threshold.")
		return
	}

	for i, r := range results {
		title := r.Title
		if title == "" {
			title = r.ContentID
		}
		fmt.Printf("%d. %s  (score %.2f)\n", i+1, title, r.Score)
		if r.SourceRef != "" {
			fmt.Printf("   source: %s\n", r.SourceRef)
		}
		fmt.Printf("   %s\n\n", snippet(r.Content, 240))
	}
}

// snippet trims content to at most n bytes on a word boundary.
func snippet(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= n {
		return s
	}
	cut := s[:n]
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return cut + "…"
}
