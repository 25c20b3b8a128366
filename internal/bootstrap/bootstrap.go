// Package bootstrap provides dependency initialization for the audio store API.
package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/TSunny007/AudioStore/internal/blob"
	"github.com/TSunny007/AudioStore/internal/catalog"
	"github.com/TSunny007/AudioStore/internal/chunk"
	"github.com/TSunny007/AudioStore/internal/config"
	"github.com/TSunny007/AudioStore/internal/store"
)

// Dependencies holds all initialized dependencies for the HTTP server.
type Dependencies struct {
	Pool           *store.Pool
	CatalogService *catalog.Service
	ChunkService   *chunk.Service
}

// NewDependencies creates and initializes all dependencies for the application.
func NewDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	pool, err := store.Open(store.Config{
		Path:     cfg.DBPath,
		PoolSize: cfg.DBPoolSize,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	blobs, err := initBlobStore(cfg, pool, logger)
	if err != nil {
		pool.Close()
		return nil, err
	}

	catalogRepo := catalog.NewSQLiteRepository(pool)
	chunkRepo := chunk.NewSQLiteRepository(pool)

	catalogSvc := catalog.NewService(catalogRepo, blobs, chunkRepo, logger)
	chunkSvc := chunk.NewService(chunkRepo, catalogRepo, blobs, cfg.ChunkCacheMaxEntries, logger)

	return &Dependencies{
		Pool:           pool,
		CatalogService: catalogSvc,
		ChunkService:   chunkSvc,
	}, nil
}

// Close releases everything NewDependencies opened.
func (d *Dependencies) Close() error {
	return d.Pool.Close()
}

// initBlobStore creates the appropriate blob backend based on configuration.
func initBlobStore(cfg *config.Config, pool *store.Pool, logger *slog.Logger) (blob.Store, error) {
	if cfg.S3Enabled() {
		s3Store, err := blob.NewS3Store(blob.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		})
		if err != nil {
			return nil, fmt.Errorf("create S3 blob store: %w", err)
		}
		logger.Info("S3 blob store configured",
			slog.String("bucket", cfg.S3Bucket),
			slog.String("region", cfg.S3Region),
		)
		return s3Store, nil
	}

	logger.Info("SQLite blob store configured",
		slog.String("path", cfg.DBPath),
	)
	return blob.NewSQLiteStore(pool), nil
}
