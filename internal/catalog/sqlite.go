package catalog

import (
	"context"
	"fmt"
	"strings"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/TSunny007/AudioStore/internal/digest"
	"github.com/TSunny007/AudioStore/internal/store"
)

// Compile-time check that SQLiteRepository implements Repository.
var _ Repository = (*SQLiteRepository)(nil)

// SQLiteRepository persists catalog rows in the file_info table.
type SQLiteRepository struct {
	pool *store.Pool
}

// NewSQLiteRepository creates a catalog repository backed by the
// shared pool.
func NewSQLiteRepository(pool *store.Pool) *SQLiteRepository {
	return &SQLiteRepository{pool: pool}
}

// Exists reports whether a (name, digest) row is present.
func (r *SQLiteRepository) Exists(ctx context.Context, name string, d digest.Digest) (bool, error) {
	conn, err := r.pool.Take(ctx)
	if err != nil {
		return false, fmt.Errorf("catalog exists: %w", err)
	}
	defer r.pool.Put(conn)

	var count int64
	err = sqlitex.Execute(conn,
		"SELECT COUNT(*) FROM file_info WHERE name = ? AND content_hash = ?",
		&sqlitex.ExecOptions{
			Args: []any{name, d.String()},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				count = stmt.ColumnInt64(0)
				return nil
			},
		})
	if err != nil {
		return false, fmt.Errorf("catalog exists %s: %w", name, err)
	}
	return count > 0, nil
}

// Insert adds a catalog row. The UNIQUE(name, content_hash) constraint
// plus INSERT OR IGNORE collapse racing duplicate uploads into one row.
func (r *SQLiteRepository) Insert(ctx context.Context, file *AudioFile) error {
	conn, err := r.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("catalog insert: %w", err)
	}
	defer r.pool.Put(conn)

	err = sqlitex.Execute(conn,
		`INSERT OR IGNORE INTO file_info
			(name, content_hash, channels, framerate, frames, duration, comptype)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
		&sqlitex.ExecOptions{
			Args: []any{
				file.Name,
				file.ContentHash.String(),
				file.Channels,
				file.FrameRate,
				file.Frames,
				file.Duration,
				file.CompType,
			},
		})
	if err != nil {
		return fmt.Errorf("catalog insert %s: %w", file.Name, err)
	}
	return nil
}

const audioFileColumns = "name, content_hash, channels, framerate, frames, duration, comptype"

// Find returns all rows for name, or every row when name is empty.
func (r *SQLiteRepository) Find(ctx context.Context, name string) ([]AudioFile, error) {
	conn, err := r.pool.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog find: %w", err)
	}
	defer r.pool.Put(conn)

	query := "SELECT " + audioFileColumns + " FROM file_info"
	var args []any
	if name != "" {
		query += " WHERE name = ?"
		args = append(args, name)
	}
	query += " ORDER BY id"

	var files []AudioFile
	err = sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
		Args: args,
		ResultFunc: func(stmt *sqlite.Stmt) error {
			file, err := scanAudioFile(stmt)
			if err != nil {
				return err
			}
			files = append(files, file)
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("catalog find %q: %w", name, err)
	}
	return files, nil
}

// LatestByName returns the most recently inserted row for name.
func (r *SQLiteRepository) LatestByName(ctx context.Context, name string) (*AudioFile, error) {
	conn, err := r.pool.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog latest: %w", err)
	}
	defer r.pool.Put(conn)

	var file *AudioFile
	err = sqlitex.Execute(conn,
		"SELECT "+audioFileColumns+" FROM file_info WHERE name = ? ORDER BY id DESC LIMIT 1",
		&sqlitex.ExecOptions{
			Args: []any{name},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				scanned, err := scanAudioFile(stmt)
				if err != nil {
					return err
				}
				file = &scanned
				return nil
			},
		})
	if err != nil {
		return nil, fmt.Errorf("catalog latest %q: %w", name, err)
	}
	if file == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return file, nil
}

// List returns the names of rows satisfying every filter. Filters come
// pre-validated from ParseFilters, so the column and operator are
// always from the allow-list; only values are bound as parameters.
func (r *SQLiteRepository) List(ctx context.Context, filters []Filter) ([]string, error) {
	conn, err := r.pool.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog list: %w", err)
	}
	defer r.pool.Put(conn)

	var conditions []string
	var args []any
	for _, f := range filters {
		conditions = append(conditions, f.Column+" "+f.Op+" ?")
		args = append(args, f.Value)
	}

	query := "SELECT name FROM file_info"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY id"

	names := []string{}
	err = sqlitex.Execute(conn, query, &sqlitex.ExecOptions{
		Args: args,
		ResultFunc: func(stmt *sqlite.Stmt) error {
			names = append(names, stmt.ColumnText(0))
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("catalog list: %w", err)
	}
	return names, nil
}

func scanAudioFile(stmt *sqlite.Stmt) (AudioFile, error) {
	// Columns: name(0), content_hash(1), channels(2), framerate(3),
	// frames(4), duration(5), comptype(6)
	hash, err := digest.Parse(stmt.ColumnText(1))
	if err != nil {
		return AudioFile{}, fmt.Errorf("scan catalog row: %w", err)
	}
	return AudioFile{
		Name:        stmt.ColumnText(0),
		ContentHash: hash,
		Channels:    stmt.ColumnInt(2),
		FrameRate:   stmt.ColumnInt(3),
		Frames:      stmt.ColumnInt(4),
		Duration:    stmt.ColumnFloat(5),
		CompType:    stmt.ColumnText(6),
	}, nil
}
