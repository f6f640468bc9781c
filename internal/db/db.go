package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"
)

func init() {
	// Register sqlite-vec as an auto-extension so every SQLite connection
	// opened by this process has the vec0 virtual table module available.
	vec.Auto()
}

// DefaultEmbeddingDimension matches text-embedding-3-small, the default
// embedder. Stores created with another dimension must be opened with it.
const DefaultEmbeddingDimension = 1536

// DB wraps a *sql.DB and exposes helpers.
type DB struct {
	conn      *sql.DB
	dimension int
}

// Open opens (or creates) the SQLite database at path and applies
// migrations. dimension fixes the width of the vector index; pass 0 for
// the default.
func Open(path string, dimension int) (*DB, error) {
	if dimension <= 0 {
		dimension = DefaultEmbeddingDimension
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000", absPath)
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// Single writer, multiple readers.
	conn.SetMaxOpenConns(1)

	if err := applyMigrations(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	if err := applyVectorTables(conn, dimension); err != nil {
		conn.Close()
		return nil, fmt.Errorf("create vector tables: %w", err)
	}

	return &DB{conn: conn, dimension: dimension}, nil
}

// Conn returns the underlying *sql.DB for use by the store layer.
func (d *DB) Conn() *sql.DB {
	return d.conn
}

// Dimension returns the vector width this store was opened with.
func (d *DB) Dimension() int {
	return d.dimension
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.conn.Close()
}

// Ping checks the connection is live.
func (d *DB) Ping() error {
	return d.conn.Ping()
}
