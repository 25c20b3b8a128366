package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/TSunny007/AudioStore/internal/digest"
)

// Compile-time check that MemoryRepository implements Repository.
var _ Repository = (*MemoryRepository)(nil)

// MemoryRepository is an in-memory implementation of Repository.
// It keeps rows in insertion order behind an RWMutex.
// Suitable for tests; swap for SQLite storage in production.
type MemoryRepository struct {
	mu    sync.RWMutex
	files []AudioFile
}

// NewMemoryRepository creates a new in-memory catalog repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// Exists reports whether a (name, digest) row is present.
func (r *MemoryRepository) Exists(_ context.Context, name string, d digest.Digest) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.files {
		if r.files[i].Name == name && r.files[i].ContentHash == d {
			return true, nil
		}
	}
	return false, nil
}

// Insert adds a row unless the (name, digest) pair already exists.
func (r *MemoryRepository) Insert(_ context.Context, file *AudioFile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.files {
		if r.files[i].Name == file.Name && r.files[i].ContentHash == file.ContentHash {
			return nil
		}
	}
	r.files = append(r.files, *file)
	return nil
}

// Find returns all rows for name, or every row when name is empty.
func (r *MemoryRepository) Find(_ context.Context, name string) ([]AudioFile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []AudioFile
	for i := range r.files {
		if name == "" || r.files[i].Name == name {
			result = append(result, r.files[i])
		}
	}
	return result, nil
}

// LatestByName returns the most recently inserted row for name.
func (r *MemoryRepository) LatestByName(_ context.Context, name string) (*AudioFile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := len(r.files) - 1; i >= 0; i-- {
		if r.files[i].Name == name {
			file := r.files[i]
			return &file, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
}

// List returns the names of rows satisfying every filter.
func (r *MemoryRepository) List(_ context.Context, filters []Filter) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := []string{}
	for i := range r.files {
		if matchesAll(&r.files[i], filters) {
			names = append(names, r.files[i].Name)
		}
	}
	return names, nil
}

func matchesAll(file *AudioFile, filters []Filter) bool {
	for _, f := range filters {
		var value float64
		switch f.Column {
		case "channels":
			value = float64(file.Channels)
		case "framerate":
			value = float64(file.FrameRate)
		case "frames":
			value = float64(file.Frames)
		case "duration":
			value = file.Duration
		default:
			return false
		}
		switch f.Op {
		case "=":
			if value != f.Value {
				return false
			}
		case "<=":
			if value > f.Value {
				return false
			}
		case ">=":
			if value < f.Value {
				return false
			}
		default:
			return false
		}
	}
	return true
}
