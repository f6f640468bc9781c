// Package ingest turns raw content into stored, searchable memory:
// clean, chunk, embed, persist, one document at a time.
package ingest

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/echoes-os/echoes/internal/chunker"
	"github.com/echoes-os/echoes/internal/echoerr"
	"github.com/echoes-os/echoes/internal/memory"
)

// Embedder turns chunk texts into vectors, preserving order.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Transcriber turns an audio or video file into text.
type Transcriber interface {
	Transcribe(ctx context.Context, mediaPath string) (string, error)
}

// Fetcher retrieves readable text from a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (text, title string, err error)
}

// Store persists chunks and their document record.
type Store interface {
	UpsertChunks(ctx context.Context, chunks []memory.Chunk) error
	InsertDocument(ctx context.Context, d memory.Document) error
}

// Service ingests documents end to end.
type Service struct {
	chunker     *chunker.Chunker
	embedder    Embedder
	store       Store
	transcriber Transcriber
	fetcher     Fetcher
	log         zerolog.Logger
}

// NewService creates an ingestion Service. transcriber and fetcher may
// be nil; the corresponding ingest paths then report validation errors.
func NewService(ch *chunker.Chunker, embedder Embedder, store Store, transcriber Transcriber, fetcher Fetcher, log zerolog.Logger) *Service {
	return &Service{
		chunker:     ch,
		embedder:    embedder,
		store:       store,
		transcriber: transcriber,
		fetcher:     fetcher,
		log:         log,
	}
}

// IngestText stores raw text as one document. Returns the document ID
// and the number of chunks stored.
func (s *Service) IngestText(ctx context.Context, text, title string) (string, int, error) {
	return s.ingest(ctx, text, title, "", memory.TypeText)
}

// IngestTextAs stores raw text under an explicit content type, such as a
// social thread that needs its own cleaning pass.
func (s *Service) IngestTextAs(ctx context.Context, text, title string, contentType memory.ContentType) (string, int, error) {
	if !memory.ValidContentType(contentType) {
		return "", 0, echoerr.Validation(fmt.Sprintf("unknown content type %q", contentType))
	}
	return s.ingest(ctx, text, title, "", contentType)
}

// IngestMedia transcribes an audio or video file and stores the result.
func (s *Service) IngestMedia(ctx context.Context, mediaPath, title string) (string, int, error) {
	if s.transcriber == nil {
		return "", 0, echoerr.Validation("no transcription provider configured")
	}
	text, err := s.transcriber.Transcribe(ctx, mediaPath)
	if err != nil {
		return "", 0, err
	}
	return s.ingest(ctx, text, title, mediaPath, memory.TypeTranscript)
}

// IngestURL fetches a page, extracts its readable text, and stores it.
func (s *Service) IngestURL(ctx context.Context, url, title string) (string, int, error) {
	if s.fetcher == nil {
		return "", 0, echoerr.Validation("no URL fetcher configured")
	}
	text, pageTitle, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return "", 0, err
	}
	if title == "" {
		title = pageTitle
	}
	return s.ingest(ctx, text, title, url, memory.TypeURL)
}

func (s *Service) ingest(ctx context.Context, text, title, sourceRef string, contentType memory.ContentType) (string, int, error) {
	cleaned := chunker.Sanitize(chunker.CleanByType(text, string(contentType)))
	if strings.TrimSpace(cleaned) == "" {
		return "", 0, echoerr.Validation("content must not be blank")
	}

	// Every chunk carries provenance and a human label, even when the
	// caller supplied neither.
	if sourceRef == "" {
		sourceRef = "pasted-text"
	}
	if strings.TrimSpace(title) == "" {
		title = placeholderTitle(cleaned)
	}

	pieces := s.chunker.Chunk(cleaned)
	if len(pieces) == 0 {
		return "", 0, echoerr.Validation("content produced no chunks")
	}

	vectors, err := s.embedder.EmbedBatch(ctx, pieces)
	if err != nil {
		return "", 0, err
	}
	if len(vectors) != len(pieces) {
		return "", 0, echoerr.Provider(
			fmt.Sprintf("got %d vectors for %d chunks", len(vectors), len(pieces)), nil)
	}

	docID := uuid.NewString()
	chunks := make([]memory.Chunk, len(pieces))
	for i, piece := range pieces {
		chunks[i] = memory.Chunk{
			ID:          fmt.Sprintf("%s_chunk_%d", docID, i),
			Content:     piece,
			Title:       title,
			SourceRef:   sourceRef,
			ContentID:   docID,
			ChunkIndex:  i,
			ContentType: contentType,
			Embedding:   vectors[i],
		}
	}

	if err := s.store.UpsertChunks(ctx, chunks); err != nil {
		return "", 0, err
	}
	if err := s.store.InsertDocument(ctx, memory.Document{
		ID:          docID,
		Title:       title,
		SourceRef:   sourceRef,
		ContentType: contentType,
		ChunkCount:  len(chunks),
	}); err != nil {
		return "", 0, err
	}

	s.log.Info().
		Str("document", docID).
		Str("type", string(contentType)).
		Int("chunks", len(chunks)).
		Msg("document ingested")
	return docID, len(chunks), nil
}

const placeholderTitleWords = 6

// placeholderTitle labels untitled content with its opening words.
func placeholderTitle(text string) string {
	words := strings.Fields(text)
	if len(words) <= placeholderTitleWords {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:placeholderTitleWords], " ") + "…"
}
