// Package chunk serves frame-range sub-clips of stored audio, caching
// each rendered clip under its (name, start, end) key so repeated
// requests skip the blob fetch, decode, and re-encode.
package chunk

import (
	"context"
	"errors"
)

// ErrNotCached is returned by Repository.Get when no chunk is stored
// for the key. It never escapes the service: a miss triggers
// derivation.
var ErrNotCached = errors.New("chunk not cached")

// Repository defines the interface for chunk cache persistence.
// It acts as a port in the hexagonal architecture pattern.
type Repository interface {
	// Get returns the rendered WAV bytes stored under the key.
	// Returns ErrNotCached when absent.
	Get(ctx context.Context, name string, start, end int) ([]byte, error)

	// Put stores rendered bytes under the key. Racing puts for the
	// same key keep whichever row landed first; the contents are
	// deterministic, so either is correct.
	Put(ctx context.Context, name string, start, end int, content []byte) error

	// DeleteByName drops every cached chunk for a name. Called when
	// the name is re-bound to different content.
	DeleteByName(ctx context.Context, name string) error

	// Trim evicts the oldest entries until at most maxEntries remain.
	Trim(ctx context.Context, maxEntries int) error
}
