package blob

import (
	"context"
	"fmt"
	"sync"

	"github.com/TSunny007/AudioStore/internal/digest"
)

// Compile-time check that MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)

// MemoryStore is an in-memory implementation of Store.
// Suitable for tests; swap for SQLite or S3 storage in production.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[digest.Digest][]byte
}

// NewMemoryStore creates a new in-memory blob store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		blobs: make(map[digest.Digest][]byte),
	}
}

// Put stores a copy of content under its digest. A second put for an
// existing digest is a no-op.
func (s *MemoryStore) Put(_ context.Context, d digest.Digest, content []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.blobs[d]; ok {
		return nil
	}
	stored := make([]byte, len(content))
	copy(stored, content)
	s.blobs[d] = stored
	return nil
}

// Get returns a copy of the bytes stored under the digest.
func (s *MemoryStore) Get(_ context.Context, d digest.Digest) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	content, ok := s.blobs[d]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, d)
	}
	out := make([]byte, len(content))
	copy(out, content)
	return out, nil
}

// Len returns the number of stored blobs.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}
