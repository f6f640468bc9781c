// Package gateway normalizes calls to the external embedding and
// generation providers: batching, bounded retry, circuit breaking, and
// mapping provider failures into the shared error taxonomy.
package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/echoes-os/echoes/internal/adapter"
	"github.com/echoes-os/echoes/internal/echoerr"
	"github.com/echoes-os/echoes/internal/retry"
	"github.com/echoes-os/echoes/internal/tokenizer"
)

// EmbeddingGateway batches and retries calls to an external embedder.
type EmbeddingGateway struct {
	embedder  adapter.Embedder
	retrier   *retry.Retrier
	tok       *tokenizer.Tokenizer
	log       zerolog.Logger
	dimension int

	maxBatchTexts  int
	maxBatchTokens int
}

// EmbeddingOptions configures an EmbeddingGateway.
type EmbeddingOptions struct {
	// Dimension is the expected vector dimension; 0 disables the check.
	Dimension int
	// MaxBatchTexts caps the number of texts per provider request.
	MaxBatchTexts int
	// MaxBatchTokens caps the summed token count per provider request.
	MaxBatchTokens int
}

// NewEmbeddingGateway creates an EmbeddingGateway around embedder.
func NewEmbeddingGateway(embedder adapter.Embedder, tok *tokenizer.Tokenizer, log zerolog.Logger, opts EmbeddingOptions) *EmbeddingGateway {
	if opts.MaxBatchTexts <= 0 {
		opts.MaxBatchTexts = 64
	}
	if opts.MaxBatchTokens <= 0 {
		opts.MaxBatchTokens = 8000
	}
	return &EmbeddingGateway{
		embedder:       embedder,
		retrier:        retry.NewDefaultRetrier(),
		tok:            tok,
		log:            log,
		dimension:      opts.Dimension,
		maxBatchTexts:  opts.MaxBatchTexts,
		maxBatchTokens: opts.MaxBatchTokens,
	}
}

// Embed embeds a single text.
func (g *EmbeddingGateway) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := g.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch embeds texts, preserving input order one-to-one. Oversized
// batches are split transparently under the gateway's text and token
// budgets and re-joined in original order.
func (g *EmbeddingGateway) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	out := make([][]float32, 0, len(texts))
	for _, batch := range g.split(texts) {
		vecs, err := g.embedOnce(ctx, batch)
		if err != nil {
			return nil, err
		}
		out = append(out, vecs...)
	}
	return out, nil
}

// embedOnce embeds one provider-sized batch with retries.
func (g *EmbeddingGateway) embedOnce(ctx context.Context, batch []string) ([][]float32, error) {
	var vecs [][]float32

	err := g.retrier.DoIf(ctx, func() error {
		var embedErr error
		vecs, embedErr = g.embedder.Embed(ctx, batch)
		if embedErr != nil {
			g.log.Debug().Err(embedErr).Int("batch_size", len(batch)).Msg("embedding attempt failed")
		}
		return embedErr
	}, isTransient)
	if err != nil {
		if mapped := echoerr.FromContext(err, "embedding aborted"); echoerr.IsKind(mapped, echoerr.KindTimeout) {
			return nil, mapped
		}
		return nil, echoerr.Provider("embedding failed after retries", err)
	}

	if len(vecs) != len(batch) {
		return nil, echoerr.Provider(
			fmt.Sprintf("embedder returned %d vectors for %d texts", len(vecs), len(batch)), nil)
	}
	for i, v := range vecs {
		if len(v) == 0 {
			return nil, echoerr.Provider(fmt.Sprintf("embedder returned an empty vector at index %d", i), nil)
		}
		if g.dimension > 0 && len(v) != g.dimension {
			return nil, echoerr.Provider(
				fmt.Sprintf("embedding dimension %d does not match the configured %d", len(v), g.dimension), nil)
		}
	}
	return vecs, nil
}

// split partitions texts into batches under the text-count and token budgets.
// A single text over the token budget still forms its own batch; the
// provider enforces its own hard limit.
func (g *EmbeddingGateway) split(texts []string) [][]string {
	var batches [][]string
	var current []string
	tokens := 0

	for _, text := range texts {
		n := g.tok.Count(text)
		if len(current) > 0 && (len(current) >= g.maxBatchTexts || tokens+n > g.maxBatchTokens) {
			batches = append(batches, current)
			current = nil
			tokens = 0
		}
		current = append(current, text)
		tokens += n
	}
	if len(current) > 0 {
		batches = append(batches, current)
	}
	return batches
}

// isTransient reports whether an error is worth retrying. Context
// cancellation is permanent from the caller's point of view.
func isTransient(err error) bool {
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}
