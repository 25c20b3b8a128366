package chunk

import (
	"context"
	"fmt"
	"sync"
)

// Compile-time check that MemoryRepository implements Repository.
var _ Repository = (*MemoryRepository)(nil)

type chunkKey struct {
	name       string
	start, end int
}

type chunkEntry struct {
	key     chunkKey
	content []byte
}

// MemoryRepository is an in-memory implementation of Repository.
// Entries are kept in insertion order so Trim can evict the oldest.
// Suitable for tests; swap for SQLite storage in production.
type MemoryRepository struct {
	mu      sync.RWMutex
	entries []chunkEntry
}

// NewMemoryRepository creates a new in-memory chunk repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// Get returns the cached bytes for the key, or ErrNotCached.
func (r *MemoryRepository) Get(_ context.Context, name string, start, end int) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	key := chunkKey{name: name, start: start, end: end}
	for i := range r.entries {
		if r.entries[i].key == key {
			content := make([]byte, len(r.entries[i].content))
			copy(content, r.entries[i].content)
			return content, nil
		}
	}
	return nil, fmt.Errorf("%w: %s[%d:%d]", ErrNotCached, name, start, end)
}

// Put stores rendered bytes unless the key already exists.
func (r *MemoryRepository) Put(_ context.Context, name string, start, end int, content []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := chunkKey{name: name, start: start, end: end}
	for i := range r.entries {
		if r.entries[i].key == key {
			return nil
		}
	}
	stored := make([]byte, len(content))
	copy(stored, content)
	r.entries = append(r.entries, chunkEntry{key: key, content: stored})
	return nil
}

// DeleteByName drops every cached chunk for a name.
func (r *MemoryRepository) DeleteByName(_ context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.entries[:0]
	for i := range r.entries {
		if r.entries[i].key.name != name {
			kept = append(kept, r.entries[i])
		}
	}
	r.entries = kept
	return nil
}

// Trim evicts the oldest entries until at most maxEntries remain.
func (r *MemoryRepository) Trim(_ context.Context, maxEntries int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if excess := len(r.entries) - maxEntries; excess > 0 {
		r.entries = append(r.entries[:0:0], r.entries[excess:]...)
	}
	return nil
}

// Len returns the number of cached chunks.
func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
