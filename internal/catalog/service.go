package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/TSunny007/AudioStore/internal/blob"
	"github.com/TSunny007/AudioStore/internal/digest"
	"github.com/TSunny007/AudioStore/internal/wavcodec"
)

// ChunkInvalidator drops cached chunks for a name. Implemented by the
// chunk repository; declared here so the catalog does not depend on
// the chunk package.
type ChunkInvalidator interface {
	DeleteByName(ctx context.Context, name string) error
}

// Service orchestrates uploads and catalog reads. It coordinates the
// digest engine, WAV codec, catalog repository, and blob store.
type Service struct {
	repo   Repository
	blobs  blob.Store
	chunks ChunkInvalidator
	logger *slog.Logger
}

// NewService creates a new catalog Service.
func NewService(repo Repository, blobs blob.Store, chunks ChunkInvalidator, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:   repo,
		blobs:  blobs,
		chunks: chunks,
		logger: logger,
	}
}

// Upload stores one named payload. Invalid WAV bytes yield a Rejected
// outcome with nothing persisted; an exact (name, digest) repeat yields
// AlreadyExists. New content is stored once per digest no matter how
// many names reference it. When the name previously mapped to different
// content, its cached chunks are invalidated before the new row lands.
//
// The returned error is reserved for infrastructure failures; per-file
// problems are reported through the outcome so sibling files in a batch
// keep processing.
func (s *Service) Upload(ctx context.Context, name string, content []byte) (UploadOutcome, error) {
	d := digest.Sum(content)

	clip, err := wavcodec.Decode(content)
	if err != nil {
		if errors.Is(err, wavcodec.ErrMalformedAudio) {
			s.logger.Warn("upload rejected",
				slog.String("name", name),
				slog.String("error", err.Error()),
			)
			return UploadOutcome{Name: name, Status: StatusRejected}, nil
		}
		return UploadOutcome{}, err
	}

	exists, err := s.repo.Exists(ctx, name, d)
	if err != nil {
		return UploadOutcome{}, err
	}
	if exists {
		return UploadOutcome{Name: name, Status: StatusAlreadyExists}, nil
	}

	// Same name, different bytes: the name now resolves to the new
	// digest, so chunks rendered from the old content are stale.
	previous, err := s.repo.LatestByName(ctx, name)
	switch {
	case err == nil && previous.ContentHash != d:
		if err := s.chunks.DeleteByName(ctx, name); err != nil {
			return UploadOutcome{}, err
		}
	case err != nil && !errors.Is(err, ErrNotFound):
		return UploadOutcome{}, err
	}

	// Blob first so a visible catalog row always has its content.
	if err := s.blobs.Put(ctx, d, content); err != nil {
		return UploadOutcome{}, err
	}

	file := &AudioFile{
		Name:        name,
		ContentHash: d,
		Channels:    clip.Channels,
		FrameRate:   clip.FrameRate,
		Frames:      clip.FrameCount(),
		Duration:    clip.Duration(),
		CompType:    clip.SampleFormat(),
	}
	if err := s.repo.Insert(ctx, file); err != nil {
		return UploadOutcome{}, err
	}

	s.logger.Info("file uploaded",
		slog.String("name", name),
		slog.String("digest", d.String()),
		slog.Int("frames", file.Frames),
		slog.Int("framerate", file.FrameRate),
	)
	return UploadOutcome{Name: name, Status: StatusCreated}, nil
}

// Download returns every matching catalog row paired with its raw
// bytes. An empty name matches all rows. No match is ErrNotFound.
func (s *Service) Download(ctx context.Context, name string) ([]FileContent, error) {
	files, err := s.repo.Find(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	result := make([]FileContent, 0, len(files))
	for i := range files {
		data, err := s.blobs.Get(ctx, files[i].ContentHash)
		if err != nil {
			return nil, err
		}
		result = append(result, FileContent{Name: files[i].Name, Data: data})
	}
	return result, nil
}

// Info returns the metadata of every matching catalog row, without
// content. An empty name matches all rows. No match is ErrNotFound.
func (s *Service) Info(ctx context.Context, name string) ([]AudioFile, error) {
	files, err := s.repo.Find(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return files, nil
}

// List returns the names matching every filter. An empty result is a
// valid answer, not an error.
func (s *Service) List(ctx context.Context, filters []Filter) ([]string, error) {
	return s.repo.List(ctx, filters)
}
