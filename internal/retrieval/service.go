// Package retrieval answers semantic queries against stored memories.
package retrieval

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/echoes-os/echoes/internal/echoerr"
	"github.com/echoes-os/echoes/internal/memory"
)

const (
	// DefaultLimit caps how many memories one query returns.
	DefaultLimit = 5
	// DefaultThreshold is the similarity below which a chunk is treated
	// as unrelated to the query.
	DefaultThreshold = 0.3
)

// Embedder turns query text into a vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Searcher runs a vector similarity query.
type Searcher interface {
	Search(ctx context.Context, queryVector []float32, limit int, threshold float64) ([]memory.SearchResult, error)
}

// Service embeds a query and searches the store.
type Service struct {
	embedder Embedder
	store    Searcher
	log      zerolog.Logger
}

// NewService creates a retrieval Service.
func NewService(embedder Embedder, store Searcher, log zerolog.Logger) *Service {
	return &Service{embedder: embedder, store: store, log: log}
}

// Ask retrieves the memories most similar to query. Results come back
// in descending score order, at most one per source document, capped at
// limit, with everything under threshold excluded. A query matching
// nothing returns an empty list, not an error.
func (s *Service) Ask(ctx context.Context, query string, limit int, threshold float64) ([]memory.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, echoerr.Validation("query must not be blank")
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	// A document chunked into N pieces can dominate a result list with
	// near-duplicate hits. Fetch extra, keep the best chunk per
	// document, then cut to limit.
	results, err := s.store.Search(ctx, vector, limit*2, threshold)
	if err != nil {
		return nil, err
	}

	deduped := dedupeByContentID(results)
	if len(deduped) > limit {
		deduped = deduped[:limit]
	}

	s.log.Debug().
		Str("query", query).
		Int("raw", len(results)).
		Int("returned", len(deduped)).
		Msg("ask completed")
	return deduped, nil
}

// dedupeByContentID keeps the first (highest-scoring) result per source
// document, preserving order.
func dedupeByContentID(results []memory.SearchResult) []memory.SearchResult {
	seen := make(map[string]bool, len(results))
	out := results[:0:0]
	for _, r := range results {
		key := r.ContentID
		if key == "" {
			key = r.ID
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	return out
}
