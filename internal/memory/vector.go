package memory

import (
	"context"
	"encoding/binary"
	"math"
	"sort"

	"github.com/echoes-os/echoes/internal/echoerr"
)

// Search finds the chunks most similar to queryVector: descending by
// score, ties broken by most-recent creation, capped at limit, with
// anything under threshold excluded.
//
// The vec_chunks index is cosine-metric, so the reported distance is
// 1 − cosine similarity; the score is that similarity clamped to [0,1].
func (s *Store) Search(ctx context.Context, queryVector []float32, limit int, threshold float64) ([]SearchResult, error) {
	if len(queryVector) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		return nil, nil
	}

	// Over-fetch so threshold filtering does not starve the result set.
	// vec0 KNN queries only accept ORDER BY distance; the recency
	// tie-break happens below.
	rows, err := s.db.Conn().QueryContext(ctx, `
		SELECT c.id, c.content, c.title, c.source_ref, c.content_id, c.chunk_index,
		       c.content_type, c.created_at, v.distance
		FROM vec_chunks v
		JOIN chunks c ON c.id = v.id
		WHERE v.embedding MATCH ? AND k = ?
		ORDER BY v.distance`,
		float32SliceToBlob(queryVector), limit*2,
	)
	if err != nil {
		return nil, echoerr.Storage("vector search", err)
	}
	defer func() { _ = rows.Close() }()

	var out []SearchResult
	for rows.Next() {
		var r SearchResult
		var createdAt, contentType string
		var distance float64
		if err := rows.Scan(&r.ID, &r.Content, &r.Title, &r.SourceRef, &r.ContentID,
			&r.ChunkIndex, &contentType, &createdAt, &distance); err != nil {
			return nil, echoerr.Storage("scan search result", err)
		}
		r.ContentType = ContentType(contentType)
		r.CreatedAt = parseTime(createdAt)
		r.Score = clampScore(1.0 - distance)

		if r.Score >= threshold {
			out = append(out, r)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, echoerr.Storage("iterate search results", err)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func clampScore(score float64) float64 {
	return math.Max(0, math.Min(1, score))
}

// float32SliceToBlob serialises a float32 slice to a little-endian byte blob.
// This is the format expected by sqlite-vec's BLOB column input.
func float32SliceToBlob(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// BlobToFloat32Slice deserialises a little-endian byte blob to a float32 slice.
func BlobToFloat32Slice(b []byte) []float32 {
	result := make([]float32, len(b)/4)
	for i := range result {
		bits := binary.LittleEndian.Uint32(b[i*4:])
		result[i] = math.Float32frombits(bits)
	}
	return result
}
