package catalog

import (
	"context"

	"github.com/TSunny007/AudioStore/internal/digest"
)

// Repository defines the interface for catalog persistence.
// It acts as a port in the hexagonal architecture pattern.
type Repository interface {
	// Exists reports whether a row with this exact (name, digest) pair
	// is present. Keyed on the pair, not the digest alone: the same
	// bytes under a new name still create a new row.
	Exists(ctx context.Context, name string, d digest.Digest) (bool, error)

	// Insert adds a catalog row. Inserting a (name, digest) pair that
	// already exists is a no-op, so racing duplicate uploads are
	// benign.
	Insert(ctx context.Context, file *AudioFile) error

	// Find returns all rows for name, oldest first. An empty name
	// matches every row. An empty result is not an error.
	Find(ctx context.Context, name string) ([]AudioFile, error)

	// LatestByName returns the most recently inserted row for name.
	// Returns ErrNotFound if the name is absent. This resolves the
	// name→digest ambiguity for chunk and download lookups.
	LatestByName(ctx context.Context, name string) (*AudioFile, error)

	// List returns the names of rows satisfying every filter,
	// in insertion order.
	List(ctx context.Context, filters []Filter) ([]string, error)
}
