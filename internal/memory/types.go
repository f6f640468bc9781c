// Package memory owns chunk persistence: the SQLite rows, the
// sqlite-vec index beside them, and similarity search over both.
package memory

import "time"

// ContentType classifies the origin of an ingested document.
type ContentType string

const (
	TypeText       ContentType = "text"
	TypeTranscript ContentType = "transcript"
	TypeSocial     ContentType = "social"
	TypeURL        ContentType = "url"
)

// ValidContentType returns true if t is a recognised content type.
func ValidContentType(t ContentType) bool {
	switch t {
	case TypeText, TypeTranscript, TypeSocial, TypeURL:
		return true
	}
	return false
}

// Chunk is a retrievable unit of past content. Chunks are created at
// ingestion and read-only afterward; re-embedding produces a new chunk
// rather than mutating one in place.
type Chunk struct {
	ID          string      `json:"id"`
	Content     string      `json:"content"`
	Title       string      `json:"title"`
	SourceRef   string      `json:"source_ref"`
	ContentID   string      `json:"content_id"`
	ChunkIndex  int         `json:"chunk_index"`
	ContentType ContentType `json:"content_type"`
	Embedding   []float32   `json:"-"`
	CreatedAt   time.Time   `json:"created_at"`
}

// Document is the ingestion-level record a chunk descends from.
type Document struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	SourceRef   string      `json:"source_ref"`
	ContentType ContentType `json:"content_type"`
	ChunkCount  int         `json:"chunk_count"`
	CreatedAt   time.Time   `json:"created_at"`
}

// SearchResult is a chunk plus its similarity score against one query.
// The score lives in [0,1] and is valid only within the result set that
// produced it; it is never persisted.
type SearchResult struct {
	Chunk
	Score float64 `json:"score"`
}

// Stats summarises what the store holds.
type Stats struct {
	Documents  int
	Chunks     int
	ByType     map[ContentType]int
	LastIngest time.Time
}
