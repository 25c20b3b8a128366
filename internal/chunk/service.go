package chunk

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"github.com/TSunny007/AudioStore/internal/blob"
	"github.com/TSunny007/AudioStore/internal/catalog"
	"github.com/TSunny007/AudioStore/internal/wavcodec"
)

// Service serves frame-range sub-clips. A hit returns the cached bytes
// directly; a miss renders the chunk from the stored blob and caches
// the result. Concurrent misses for the same key are collapsed into a
// single render through the flight group.
type Service struct {
	cache      Repository
	files      catalog.Repository
	blobs      blob.Store
	logger     *slog.Logger
	maxEntries int
	group      singleflight.Group
}

// NewService creates a new chunk Service. maxEntries caps the number
// of cached chunks; zero means unbounded.
func NewService(cache Repository, files catalog.Repository, blobs blob.Store, maxEntries int, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		cache:      cache,
		files:      files,
		blobs:      blobs,
		logger:     logger,
		maxEntries: maxEntries,
	}
}

// Get returns the WAV bytes of frames [start, end] of the latest file
// stored under name. A negative start is ErrInvalidRange; an end past
// the final frame is clamped; start beyond end yields a valid
// zero-frame clip. Results are cached by (name, start, end).
func (s *Service) Get(ctx context.Context, name string, start, end int) ([]byte, error) {
	if start < 0 {
		return nil, fmt.Errorf("%w: start %d", wavcodec.ErrInvalidRange, start)
	}

	content, err := s.cache.Get(ctx, name, start, end)
	if err == nil {
		return content, nil
	}
	if !errors.Is(err, ErrNotCached) {
		return nil, err
	}

	key := fmt.Sprintf("%s\x00%d\x00%d", name, start, end)
	v, err, _ := s.group.Do(key, func() (any, error) {
		return s.render(ctx, name, start, end)
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (s *Service) render(ctx context.Context, name string, start, end int) ([]byte, error) {
	// A concurrent flight may have finished between our miss and this
	// call landing. Recheck before paying for the render.
	if content, err := s.cache.Get(ctx, name, start, end); err == nil {
		return content, nil
	} else if !errors.Is(err, ErrNotCached) {
		return nil, err
	}

	file, err := s.files.LatestByName(ctx, name)
	if err != nil {
		return nil, err
	}

	raw, err := s.blobs.Get(ctx, file.ContentHash)
	if err != nil {
		return nil, err
	}

	clip, err := wavcodec.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("decode stored blob %s: %w", file.ContentHash, err)
	}

	sub, err := clip.Slice(start, end)
	if err != nil {
		return nil, err
	}

	content, err := wavcodec.Encode(sub)
	if err != nil {
		return nil, fmt.Errorf("encode chunk %s[%d:%d]: %w", name, start, end, err)
	}

	if err := s.cache.Put(ctx, name, start, end, content); err != nil {
		return nil, err
	}
	if s.maxEntries > 0 {
		if err := s.cache.Trim(ctx, s.maxEntries); err != nil {
			return nil, err
		}
	}

	s.logger.Info("chunk rendered",
		slog.String("name", name),
		slog.Int("start", start),
		slog.Int("end", end),
		slog.Int("frames", sub.FrameCount()),
	)
	return content, nil
}
