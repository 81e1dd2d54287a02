// ABOUTME: ObjectStore-backed implementation of the CheckpointRepository interface
// ABOUTME: Manages the pagination cursor checkpoint for resuming interrupted listings

package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"compliance-archiver/models"
)

// CheckpointKey is the pagination checkpoint's path below the output root.
const CheckpointKey = ".download_progress.json"

// StoreCheckpointRepository implements CheckpointRepository on an
// ObjectStore.
type StoreCheckpointRepository struct {
	store  ObjectStore
	key    string
	logger *slog.Logger
}

// NewStoreCheckpointRepository creates a checkpoint repository persisting at
// the given key.
func NewStoreCheckpointRepository(store ObjectStore, key string, logger *slog.Logger) *StoreCheckpointRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &StoreCheckpointRepository{
		store:  store,
		key:    key,
		logger: logger,
	}
}

// Load reads the pagination checkpoint, returning nil when absent or
// unreadable. A lost checkpoint only costs re-fetching from the window
// start.
func (r *StoreCheckpointRepository) Load(ctx context.Context) *models.Checkpoint {
	data, err := r.store.Get(ctx, r.key)
	if err != nil {
		if !errors.Is(err, ErrObjectNotFound) {
			r.logger.Warn("Could not load progress checkpoint",
				"key", r.key,
				"error", err)
		}
		return nil
	}

	var checkpoint models.Checkpoint
	if err := json.Unmarshal(data, &checkpoint); err != nil {
		r.logger.Warn("Could not decode progress checkpoint",
			"key", r.key,
			"error", err)
		return nil
	}

	r.logger.Info("Resuming from checkpoint", "last_id", checkpoint.LastID)
	return &checkpoint
}

// Save overwrites the checkpoint with the given cursor state.
func (r *StoreCheckpointRepository) Save(ctx context.Context, checkpoint *models.Checkpoint) error {
	data, err := json.MarshalIndent(checkpoint, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode checkpoint: %w", err)
	}

	if err := r.store.Put(ctx, r.key, data); err != nil {
		return fmt.Errorf("failed to save checkpoint: %w", err)
	}
	return nil
}

// Clear removes the checkpoint after a completed run.
func (r *StoreCheckpointRepository) Clear(ctx context.Context) error {
	if err := r.store.Delete(ctx, r.key); err != nil {
		return fmt.Errorf("failed to clear checkpoint: %w", err)
	}
	return nil
}
