package blob

import (
	"context"
	"fmt"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/TSunny007/AudioStore/internal/digest"
	"github.com/TSunny007/AudioStore/internal/store"
)

// Compile-time check that SQLiteStore implements Store.
var _ Store = (*SQLiteStore)(nil)

// SQLiteStore persists blobs in the file_store table.
type SQLiteStore struct {
	pool *store.Pool
}

// NewSQLiteStore creates a blob store backed by the shared pool.
func NewSQLiteStore(pool *store.Pool) *SQLiteStore {
	return &SQLiteStore{pool: pool}
}

// Put inserts the blob if no row exists for the digest. INSERT OR
// IGNORE makes concurrent puts of the same content collapse into one
// row without error.
func (s *SQLiteStore) Put(ctx context.Context, d digest.Digest, content []byte) error {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("blob put: %w", err)
	}
	defer s.pool.Put(conn)

	err = sqlitex.Execute(conn,
		"INSERT OR IGNORE INTO file_store (content_hash, content) VALUES (?, ?)",
		&sqlitex.ExecOptions{
			Args: []any{d.String(), content},
		})
	if err != nil {
		return fmt.Errorf("blob put %s: %w", d, err)
	}
	return nil
}

// Get returns the bytes stored under the digest.
func (s *SQLiteStore) Get(ctx context.Context, d digest.Digest) ([]byte, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("blob get: %w", err)
	}
	defer s.pool.Put(conn)

	var content []byte
	err = sqlitex.Execute(conn,
		"SELECT content FROM file_store WHERE content_hash = ?",
		&sqlitex.ExecOptions{
			Args: []any{d.String()},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				content = make([]byte, stmt.ColumnLen(0))
				stmt.ColumnBytes(0, content)
				return nil
			},
		})
	if err != nil {
		return nil, fmt.Errorf("blob get %s: %w", d, err)
	}
	if content == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, d)
	}
	return content, nil
}
