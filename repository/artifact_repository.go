// ABOUTME: ObjectStore-backed implementation of the ArtifactRepository interface
// ABOUTME: Serializes partitioned conversation data and daily summaries to storage keys

package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"compliance-archiver/models"
)

// StoreArtifactRepository implements ArtifactRepository on an ObjectStore.
// Every write is an independent, idempotent overwrite of one key; a failure
// carries the key and cause so the orchestrator can abort the run before
// the watermark advances.
type StoreArtifactRepository struct {
	store  ObjectStore
	source string
	logger *slog.Logger
}

// NewStoreArtifactRepository creates an artifact repository. The source is
// recorded in artifact metadata for provenance.
func NewStoreArtifactRepository(store ObjectStore, source string, logger *slog.Logger) *StoreArtifactRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &StoreArtifactRepository{
		store:  store,
		source: source,
		logger: logger,
	}
}

// WriteArtifact writes the conversations for one (user, date) partition to
// its hierarchical key.
func (r *StoreArtifactRepository) WriteArtifact(ctx context.Context, userID, date string, records []models.ConversationRecord) error {
	key, err := models.ArtifactKey(userID, date)
	if err != nil {
		return fmt.Errorf("artifact key for user %s: %w", userID, err)
	}

	artifact := models.Artifact{
		Date:              date,
		UserID:            userID,
		ConversationCount: len(records),
		Conversations:     records,
		Metadata: models.ArtifactMetadata{
			BackupTimestamp: time.Now().UTC().Format(time.RFC3339),
			Source:          r.source,
		},
	}

	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode artifact %s: %w", key, err)
	}

	if err := r.store.Put(ctx, key, data); err != nil {
		return fmt.Errorf("failed to write artifact %s: %w", key, err)
	}

	r.logger.Info("Wrote conversations artifact",
		"user_id", userID,
		"date", date,
		"conversation_count", len(records),
		"key", key)

	return nil
}

// WriteSummary writes the daily summary for one date to its key.
func (r *StoreArtifactRepository) WriteSummary(ctx context.Context, date string, summary *models.DailySummary) error {
	key, err := models.SummaryKey(date)
	if err != nil {
		return fmt.Errorf("summary key for date %s: %w", date, err)
	}

	summary.BackupTimestamp = time.Now().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode summary %s: %w", key, err)
	}

	if err := r.store.Put(ctx, key, data); err != nil {
		return fmt.Errorf("failed to write summary %s: %w", key, err)
	}

	r.logger.Info("Wrote daily summary",
		"date", date,
		"total_conversations", summary.TotalConversations,
		"key", key)

	return nil
}
