//go:generate mockgen -source=interfaces.go -destination=../mocks/mock_repository.go -package=mocks

// ABOUTME: Repository layer common interfaces for storage access
// ABOUTME: Defines contracts for object storage, watermark, checkpoint and artifact persistence

package repository

import (
	"context"

	"compliance-archiver/models"
)

// ObjectStore is the storage write primitive the archiver persists through.
// Keys are slash-separated hierarchical paths; every Put is a whole-object
// overwrite.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// WatermarkRepository manages the persisted last-run state bounding
// incremental fetch windows.
type WatermarkRepository interface {
	// Load returns nil (never an error) when no watermark exists or the
	// stored one cannot be read.
	Load(ctx context.Context) *models.Watermark

	// Save overwrites the single watermark key.
	Save(ctx context.Context, watermark *models.Watermark) error
}

// CheckpointRepository manages the pagination cursor checkpoint used to
// resume an interrupted listing.
type CheckpointRepository interface {
	// Load returns nil when no checkpoint exists or it cannot be read.
	Load(ctx context.Context) *models.Checkpoint

	Save(ctx context.Context, checkpoint *models.Checkpoint) error

	// Clear removes the checkpoint after a completed run.
	Clear(ctx context.Context) error
}

// ArtifactRepository serializes partitioned conversation data and
// summaries to the storage backend.
type ArtifactRepository interface {
	WriteArtifact(ctx context.Context, userID, date string, records []models.ConversationRecord) error
	WriteSummary(ctx context.Context, date string, summary *models.DailySummary) error
}
