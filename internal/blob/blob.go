// Package blob provides content-addressed storage for raw audio bytes.
// It defines the Store interface (port) and implementations backed by
// SQLite, S3, and memory. Content is keyed by digest: at most one copy
// is held per distinct digest, regardless of how many catalog names
// reference it.
package blob

import (
	"context"
	"errors"

	"github.com/TSunny007/AudioStore/internal/digest"
)

// ErrNotFound is returned when no blob exists for a digest.
var ErrNotFound = errors.New("blob not found")

// Store defines the interface for blob persistence.
type Store interface {
	// Put stores content under its digest. Put is idempotent: a second
	// put for an existing digest is a no-op, preserving the dedup
	// invariant. Callers guarantee that content hashes to d.
	Put(ctx context.Context, d digest.Digest, content []byte) error

	// Get returns the bytes stored under d.
	// Returns ErrNotFound if no blob exists for the digest.
	Get(ctx context.Context, d digest.Digest) ([]byte, error)
}
