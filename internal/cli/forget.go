package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/echoes-os/echoes/internal/config"
)

func newForgetCmd() *cobra.Command {
	var (
		docID string
		all   bool
	)

	cmd := &cobra.Command{
		Use:   "forget",
		Short: "Remove a stored document or reset all memory",
		Long: `Remove memories from the store.

Examples:
  echoes forget --id 6f1c9c2e-...
  echoes forget --all`,
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

			switch {
			case all:
				if !confirmPrompt("This will delete ALL stored memories. Continue?") {
					fmt.Println("Aborted.")
					return nil
				}
				n, err := store.DeleteAll(cmd.Context())
				if err != nil {
					return fmt.Errorf("delete memories: %w", err)
				}
				fmt.Printf("Deleted %d chunk(s).\n", n)

			case docID != "":
				n, err := store.DeleteByContentID(cmd.Context(), docID)
				if err != nil {
					return fmt.Errorf("delete document: %w", err)
				}
				if n == 0 {
					fmt.Printf("No document found with id %s.\n", docID)
					return nil
				}
				fmt.Printf("Deleted document %s (%d chunks).\n", docID, n)

			default:
				return fmt.Errorf("specify --id <document-id> or --all")
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&docID, "id", "", "document id to remove")
	cmd.Flags().BoolVar(&all, "all", false, "remove every stored memory")

	return cmd
}
