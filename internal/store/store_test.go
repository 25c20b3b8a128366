package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open(Config{})
	require.Error(t, err)
}

func TestOpen_CreatesSchema(t *testing.T) {
	pool, err := Open(Config{
		Path:     filepath.Join(t.TempDir(), "test.db"),
		PoolSize: 2,
	})
	require.NoError(t, err)
	defer pool.Close()

	conn, err := pool.Take(context.Background())
	require.NoError(t, err)
	defer pool.Put(conn)

	var tables []string
	err = sqlitex.Execute(conn,
		"SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name",
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				tables = append(tables, stmt.ColumnText(0))
				return nil
			},
		})
	require.NoError(t, err)

	assert.Contains(t, tables, "file_info")
	assert.Contains(t, tables, "file_store")
	assert.Contains(t, tables, "file_chunks")
}

func TestPool_TakeRespectsContext(t *testing.T) {
	pool, err := Open(Config{
		Path:     filepath.Join(t.TempDir(), "test.db"),
		PoolSize: 1,
	})
	require.NoError(t, err)
	defer pool.Close()

	conn, err := pool.Take(context.Background())
	require.NoError(t, err)

	// The only connection is out; a cancelled context must not block.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = pool.Take(ctx)
	assert.Error(t, err)

	pool.Put(conn)
}
