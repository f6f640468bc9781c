package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/echoes-os/echoes/internal/config"
	"github.com/echoes-os/echoes/internal/export"
)

func newExportCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all stored memories as markdown or JSON",
		Long: `Render the full memory store in a portable format.
Output is written to stdout — pipe it to a file.

Examples:
  echoes export --format markdown > memories.md
  echoes export --format json > memories.json`,
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

			exporter, ok := export.Get(strings.ToLower(format))
			if !ok {
				return fmt.Errorf("unknown format %q; valid formats: %s",
					format, strings.Join(export.ValidFormats(), ", "))
			}

			stats, err := store.GetStats(cmd.Context())
			if err != nil {
				return fmt.Errorf("get stats: %w", err)
			}

			docs, err := store.ListDocuments(cmd.Context())
			if err != nil {
				return fmt.Errorf("list documents: %w", err)
			}

			chunks, err := store.ListAllChunks(cmd.Context())
			if err != nil {
				return fmt.Errorf("list chunks: %w", err)
			}

			output, err := exporter.Export(export.ExportData{
				Stats:     stats,
				Documents: docs,
				Chunks:    chunks,
			})
			if err != nil {
				return fmt.Errorf("render export: %w", err)
			}

			fmt.Println(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "markdown", "output format: markdown, json")

	return cmd
}
