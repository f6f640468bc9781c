package memory

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/echoes-os/echoes/internal/db"
	"github.com/echoes-os/echoes/internal/echoerr"
)

// Store provides read/write access to the chunk tables. All writes to a
// chunk and its vector row happen in one transaction, so a cancelled or
// failed upsert leaves no partial state behind.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given DB.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Conn exposes the underlying *sql.DB for low-level queries.
func (s *Store) Conn() *sql.DB {
	return s.db.Conn()
}

// Dimension returns the vector width the store was opened with.
func (s *Store) Dimension() int {
	return s.db.Dimension()
}

// ---- Chunks ----

// UpsertChunks stores chunks and their embeddings atomically. Upserting
// an existing id replaces the row and its vector; concurrent upserts to
// the same id are last-writer-wins. Every chunk must carry an embedding
// of the store's dimension.
func (s *Store) UpsertChunks(ctx context.Context, chunks []Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	for _, c := range chunks {
		if len(c.Embedding) != s.db.Dimension() {
			return echoerr.Validation(fmt.Sprintf(
				"chunk %s has embedding dimension %d, store expects %d",
				c.ID, len(c.Embedding), s.db.Dimension()))
		}
	}

	tx, err := s.db.Conn().BeginTx(ctx, nil)
	if err != nil {
		return echoerr.Storage("begin upsert transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, c := range chunks {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO chunks (id, content, title, source_ref, content_id, chunk_index, content_type)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
			    content      = excluded.content,
			    title        = excluded.title,
			    source_ref   = excluded.source_ref,
			    content_id   = excluded.content_id,
			    chunk_index  = excluded.chunk_index,
			    content_type = excluded.content_type`,
			c.ID, c.Content, c.Title, c.SourceRef, c.ContentID, c.ChunkIndex, string(c.ContentType),
		)
		if err != nil {
			return echoerr.Storage(fmt.Sprintf("upsert chunk %s", c.ID), err)
		}

		// vec0 virtual tables reject ON CONFLICT; delete-then-insert
		// inside the transaction gives the same replace semantics.
		if _, err := tx.ExecContext(ctx, `DELETE FROM vec_chunks WHERE id = ?`, c.ID); err != nil {
			return echoerr.Storage(fmt.Sprintf("replace vector for chunk %s", c.ID), err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO vec_chunks (id, embedding) VALUES (?, ?)`,
			c.ID, float32SliceToBlob(c.Embedding),
		)
		if err != nil {
			return echoerr.Storage(fmt.Sprintf("insert vector for chunk %s", c.ID), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return echoerr.Storage("commit upsert transaction", err)
	}
	return nil
}

// InsertDocument records the document a batch of chunks came from.
func (s *Store) InsertDocument(ctx context.Context, d Document) error {
	_, err := s.db.Conn().ExecContext(ctx, `
		INSERT INTO documents (id, title, source_ref, content_type, chunk_count)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
		    title        = excluded.title,
		    source_ref   = excluded.source_ref,
		    content_type = excluded.content_type,
		    chunk_count  = excluded.chunk_count`,
		d.ID, d.Title, d.SourceRef, string(d.ContentType), d.ChunkCount,
	)
	if err != nil {
		return echoerr.Storage(fmt.Sprintf("insert document %s", d.ID), err)
	}
	return nil
}

// GetChunkByID returns a single chunk without its embedding.
func (s *Store) GetChunkByID(ctx context.Context, id string) (Chunk, error) {
	var c Chunk
	var createdAt, contentType string
	err := s.db.Conn().QueryRowContext(ctx, `
		SELECT id, content, title, source_ref, content_id, chunk_index, content_type, created_at
		FROM chunks WHERE id = ?`, id,
	).Scan(&c.ID, &c.Content, &c.Title, &c.SourceRef, &c.ContentID, &c.ChunkIndex, &contentType, &createdAt)
	if err == sql.ErrNoRows {
		return c, echoerr.Validation(fmt.Sprintf("chunk %q not found", id))
	}
	if err != nil {
		return c, echoerr.Storage(fmt.Sprintf("get chunk %s", id), err)
	}
	c.ContentType = ContentType(contentType)
	c.CreatedAt = parseTime(createdAt)
	return c, nil
}

// ListChunksByContentID returns a document's chunks in storage order.
func (s *Store) ListChunksByContentID(ctx context.Context, contentID string) ([]Chunk, error) {
	rows, err := s.db.Conn().QueryContext(ctx, `
		SELECT id, content, title, source_ref, content_id, chunk_index, content_type, created_at
		FROM chunks WHERE content_id = ? ORDER BY chunk_index`, contentID)
	if err != nil {
		return nil, echoerr.Storage(fmt.Sprintf("list chunks for %s", contentID), err)
	}
	defer func() { _ = rows.Close() }()
	return scanChunks(rows)
}

// ListDocuments returns every document in ingestion order.
func (s *Store) ListDocuments(ctx context.Context) ([]Document, error) {
	rows, err := s.db.Conn().QueryContext(ctx, `
		SELECT id, title, source_ref, content_type, chunk_count, created_at
		FROM documents ORDER BY created_at, id`)
	if err != nil {
		return nil, echoerr.Storage("list documents", err)
	}
	defer func() { _ = rows.Close() }()

	var docs []Document
	for rows.Next() {
		var d Document
		var createdAt, contentType string
		if err := rows.Scan(&d.ID, &d.Title, &d.SourceRef, &contentType, &d.ChunkCount, &createdAt); err != nil {
			return nil, err
		}
		d.ContentType = ContentType(contentType)
		d.CreatedAt = parseTime(createdAt)
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// ListAllChunks returns every chunk (used for export).
func (s *Store) ListAllChunks(ctx context.Context) ([]Chunk, error) {
	rows, err := s.db.Conn().QueryContext(ctx, `
		SELECT id, content, title, source_ref, content_id, chunk_index, content_type, created_at
		FROM chunks ORDER BY created_at, content_id, chunk_index`)
	if err != nil {
		return nil, echoerr.Storage("list all chunks", err)
	}
	defer func() { _ = rows.Close() }()
	return scanChunks(rows)
}

// DeleteByContentID removes a document, its chunks, and their vectors.
// Returns the number of chunks removed.
func (s *Store) DeleteByContentID(ctx context.Context, contentID string) (int, error) {
	tx, err := s.db.Conn().BeginTx(ctx, nil)
	if err != nil {
		return 0, echoerr.Storage("begin delete transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM vec_chunks WHERE id IN (SELECT id FROM chunks WHERE content_id = ?)`,
		contentID,
	); err != nil {
		return 0, echoerr.Storage(fmt.Sprintf("delete vectors for %s", contentID), err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM chunks WHERE content_id = ?`, contentID)
	if err != nil {
		return 0, echoerr.Storage(fmt.Sprintf("delete chunks for %s", contentID), err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, contentID); err != nil {
		return 0, echoerr.Storage(fmt.Sprintf("delete document %s", contentID), err)
	}

	if err := tx.Commit(); err != nil {
		return 0, echoerr.Storage("commit delete transaction", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// DeleteAll removes every document, chunk, and vector.
func (s *Store) DeleteAll(ctx context.Context) (int, error) {
	tx, err := s.db.Conn().BeginTx(ctx, nil)
	if err != nil {
		return 0, echoerr.Storage("begin purge transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM vec_chunks`); err != nil {
		return 0, echoerr.Storage("purge vectors", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM chunks`)
	if err != nil {
		return 0, echoerr.Storage("purge chunks", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM documents`); err != nil {
		return 0, echoerr.Storage("purge documents", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, echoerr.Storage("commit purge transaction", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// ---- Stats ----

// CountChunks returns the total number of stored chunks.
func (s *Store) CountChunks(ctx context.Context) (int, error) {
	var n int
	err := s.db.Conn().QueryRowContext(ctx, `SELECT COUNT(*) FROM chunks`).Scan(&n)
	return n, err
}

// CountDocuments returns the total number of ingested documents.
func (s *Store) CountDocuments(ctx context.Context) (int, error) {
	var n int
	err := s.db.Conn().QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&n)
	return n, err
}

// GetStats summarises what the store holds.
func (s *Store) GetStats(ctx context.Context) (Stats, error) {
	var st Stats
	var err error

	if st.Chunks, err = s.CountChunks(ctx); err != nil {
		return st, echoerr.Storage("count chunks", err)
	}
	if st.Documents, err = s.CountDocuments(ctx); err != nil {
		return st, echoerr.Storage("count documents", err)
	}

	rows, err := s.db.Conn().QueryContext(ctx,
		`SELECT content_type, COUNT(*) FROM chunks GROUP BY content_type`)
	if err != nil {
		return st, echoerr.Storage("count chunks by type", err)
	}
	defer func() { _ = rows.Close() }()

	st.ByType = make(map[ContentType]int)
	for rows.Next() {
		var t string
		var n int
		if err := rows.Scan(&t, &n); err != nil {
			return st, err
		}
		st.ByType[ContentType(t)] = n
	}
	if err := rows.Err(); err != nil {
		return st, err
	}

	var last sql.NullString
	if err := s.db.Conn().QueryRowContext(ctx,
		`SELECT MAX(created_at) FROM documents`).Scan(&last); err == nil && last.Valid {
		st.LastIngest = parseTime(last.String)
	}
	return st, nil
}

// ---- Helpers ----

func scanChunks(rows *sql.Rows) ([]Chunk, error) {
	var chunks []Chunk
	for rows.Next() {
		var c Chunk
		var createdAt, contentType string
		if err := rows.Scan(&c.ID, &c.Content, &c.Title, &c.SourceRef, &c.ContentID,
			&c.ChunkIndex, &contentType, &createdAt); err != nil {
			return nil, err
		}
		c.ContentType = ContentType(contentType)
		c.CreatedAt = parseTime(createdAt)
		chunks = append(chunks, c)
	}
	return chunks, rows.Err()
}

// parseTime handles the formats SQLite hands back for DATETIME columns.
func parseTime(s string) time.Time {
	for _, layout := range []string{
		"2006-01-02 15:04:05",
		time.RFC3339,
		"2006-01-02T15:04:05Z",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
