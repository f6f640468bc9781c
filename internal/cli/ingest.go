package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/echoes-os/echoes/internal/adapter"
	"github.com/echoes-os/echoes/internal/config"
	"github.com/echoes-os/echoes/internal/fetch"
	"github.com/echoes-os/echoes/internal/ingest"
	"github.com/echoes-os/echoes/internal/memory"
)

func newIngestCmd() *cobra.Command {
	var (
		title    string
		url      string
		media    string
		textType string
	)

	cmd := &cobra.Command{
		Use:   "ingest [text|file|-]",
		Short: "Store content in semantic memory",
		Long: `Chunk, embed, and store content so it can be found by meaning later.

The argument may be inline text, a path to a text file, or "-" for stdin.
Use --url to ingest a web page or --media to transcribe an audio/video file.

Examples:
  echoes ingest notes/atomic-habits.md --title "Atomic Habits notes"
  echoes ingest "shipped the new onboarding flow today" --title "Changelog"
  cat transcript.txt | echoes ingest - --title "Podcast ep. 12"
  echoes ingest thread.txt --type social
  echoes ingest --url https://example.com/essay
  echoes ingest --media interviews/kickoff.mp3 --title "Kickoff call"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && url == "" && media == "" {
				return fmt.Errorf("nothing to ingest: pass text, a file, --url, or --media")
			}

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

			ch, err := newChunker(cfg)
			if err != nil {
				return err
			}

			// Transcription always goes through Whisper, regardless of the
			// configured completion provider.
			var transcriber ingest.Transcriber
			if media != "" {
				openaiAdapter, err := adapter.New(adapter.ProviderOpenAI, "", cfg.Keys.OpenAI, "")
				if err != nil {
					return fmt.Errorf("init transcriber: %w", err)
				}
				tr, ok := openaiAdapter.(adapter.Transcriber)
				if !ok {
					return fmt.Errorf("transcription unavailable for the configured provider")
				}
				transcriber = tr
			}

			svc := ingest.NewService(ch, embedder, store, transcriber, fetch.New(), log)

			bar := progressbar.NewOptions(-1,
				progressbar.OptionSetDescription("  Ingesting"),
				progressbar.OptionSpinnerType(14),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionClearOnFinish(),
			)

			var (
				docID  string
				chunks int
			)
			switch {
			case url != "":
				docID, chunks, err = svc.IngestURL(cmd.Context(), url, title)
			case media != "":
				if title == "" {
					title = strings.TrimSuffix(filepath.Base(media), filepath.Ext(media))
				}
				docID, chunks, err = svc.IngestMedia(cmd.Context(), media, title)
			default:
				text, readErr := readInput(args[0])
				if readErr != nil {
					return readErr
				}
				if title == "" && args[0] != "-" && args[0] != text {
					title = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
				}
				if textType != "" && textType != string(memory.TypeText) {
					docID, chunks, err = svc.IngestTextAs(cmd.Context(), text, title, memory.ContentType(textType))
				} else {
					docID, chunks, err = svc.IngestText(cmd.Context(), text, title)
				}
			}
			_ = bar.Finish()

			if err != nil {
				return err
			}

			fmt.Printf("Stored %d chunk(s) as document %s\n", chunks, docID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "title for the stored document")
	cmd.Flags().StringVarP(&url, "url", "u", "", "fetch and ingest a web page")
	cmd.Flags().StringVarP(&media, "media", "m", "", "transcribe and ingest an audio/video file")
	cmd.Flags().StringVar(&textType, "type", "text", "content type for text input: text, transcript, social")

	return cmd
}
