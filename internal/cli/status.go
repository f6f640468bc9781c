package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/echoes-os/echoes/internal/config"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show what Echoes currently remembers",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			database, store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer database.Close()

			stats, err := store.GetStats(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Printf("\nDatabase:   %s\n", config.DBPath())
			fmt.Printf("Documents:  %d\n", stats.Documents)
			fmt.Printf("Chunks:     %d\n", stats.Chunks)

			if len(stats.ByType) > 0 {
				fmt.Print("By type:    ")
				first := true
				for t, n := range stats.ByType {
					if !first {
						fmt.Print(", ")
					}
					fmt.Printf("%s: %d", t, n)
					first = false
				}
				fmt.Println()
			}

			if !stats.LastIngest.IsZero() {
				fmt.Printf("Last saved: %s\n", stats.LastIngest.Format("2006-01-02 15:04"))
			}
			if fi, err := os.Stat(config.DBPath()); err == nil {
				fmt.Printf("Size:       %.1f MB\n", float64(fi.Size())/(1024*1024))
			}

			fmt.Printf("\nModel:      %s (embeddings: %s, %d dims)\n",
				cfg.DefaultModel, cfg.DefaultEmbedder, cfg.Memory.EmbeddingDimension)

			return nil
		},
	}
}
