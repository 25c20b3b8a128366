package chunk

import (
	"context"
	"fmt"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/TSunny007/AudioStore/internal/store"
)

// Compile-time check that SQLiteRepository implements Repository.
var _ Repository = (*SQLiteRepository)(nil)

// SQLiteRepository persists cached chunks in the file_chunks table.
type SQLiteRepository struct {
	pool *store.Pool
}

// NewSQLiteRepository creates a chunk repository backed by the shared
// pool.
func NewSQLiteRepository(pool *store.Pool) *SQLiteRepository {
	return &SQLiteRepository{pool: pool}
}

// Get returns the cached bytes for the key, or ErrNotCached.
func (r *SQLiteRepository) Get(ctx context.Context, name string, start, end int) ([]byte, error) {
	conn, err := r.pool.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("chunk get: %w", err)
	}
	defer r.pool.Put(conn)

	var content []byte
	err = sqlitex.Execute(conn,
		"SELECT content FROM file_chunks WHERE name = ? AND start_frame = ? AND end_frame = ?",
		&sqlitex.ExecOptions{
			Args: []any{name, start, end},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				content = make([]byte, stmt.ColumnLen(0))
				stmt.ColumnBytes(0, content)
				return nil
			},
		})
	if err != nil {
		return nil, fmt.Errorf("chunk get %s[%d:%d]: %w", name, start, end, err)
	}
	if content == nil {
		return nil, fmt.Errorf("%w: %s[%d:%d]", ErrNotCached, name, start, end)
	}
	return content, nil
}

// Put stores rendered bytes under the key. INSERT OR IGNORE plus the
// UNIQUE(name, start_frame, end_frame) constraint make racing inserts
// benign.
func (r *SQLiteRepository) Put(ctx context.Context, name string, start, end int, content []byte) error {
	conn, err := r.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("chunk put: %w", err)
	}
	defer r.pool.Put(conn)

	err = sqlitex.Execute(conn,
		"INSERT OR IGNORE INTO file_chunks (name, start_frame, end_frame, content) VALUES (?, ?, ?, ?)",
		&sqlitex.ExecOptions{
			Args: []any{name, start, end, content},
		})
	if err != nil {
		return fmt.Errorf("chunk put %s[%d:%d]: %w", name, start, end, err)
	}
	return nil
}

// DeleteByName drops every cached chunk for a name.
func (r *SQLiteRepository) DeleteByName(ctx context.Context, name string) error {
	conn, err := r.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("chunk delete: %w", err)
	}
	defer r.pool.Put(conn)

	err = sqlitex.Execute(conn,
		"DELETE FROM file_chunks WHERE name = ?",
		&sqlitex.ExecOptions{
			Args: []any{name},
		})
	if err != nil {
		return fmt.Errorf("chunk delete %s: %w", name, err)
	}
	return nil
}

// Trim evicts the oldest entries until at most maxEntries remain.
func (r *SQLiteRepository) Trim(ctx context.Context, maxEntries int) error {
	conn, err := r.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("chunk trim: %w", err)
	}
	defer r.pool.Put(conn)

	err = sqlitex.Execute(conn,
		`DELETE FROM file_chunks WHERE id NOT IN
			(SELECT id FROM file_chunks ORDER BY id DESC LIMIT ?)`,
		&sqlitex.ExecOptions{
			Args: []any{maxEntries},
		})
	if err != nil {
		return fmt.Errorf("chunk trim: %w", err)
	}
	return nil
}
