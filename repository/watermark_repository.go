// ABOUTME: ObjectStore-backed implementation of the WatermarkRepository interface
// ABOUTME: Manages the persisted last-run state bounding incremental fetch windows

package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"compliance-archiver/models"
)

// ObjectStoreWatermarkKey is the watermark's logical path on an object store
// backend; LocalWatermarkKey is the hidden-file equivalent for local output
// directories.
const (
	ObjectStoreWatermarkKey = "_backup_state/last_run.json"
	LocalWatermarkKey       = ".download_state.json"
)

// StoreWatermarkRepository implements WatermarkRepository on an ObjectStore.
type StoreWatermarkRepository struct {
	store  ObjectStore
	key    string
	logger *slog.Logger
}

// NewStoreWatermarkRepository creates a watermark repository persisting at
// the given key.
func NewStoreWatermarkRepository(store ObjectStore, key string, logger *slog.Logger) *StoreWatermarkRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &StoreWatermarkRepository{
		store:  store,
		key:    key,
		logger: logger,
	}
}

// Load reads the persisted watermark. Any failure, including "not found",
// is treated as absent: it logs and returns nil, never an error. A missing
// or unreadable watermark simply makes the next run a first run.
func (r *StoreWatermarkRepository) Load(ctx context.Context) *models.Watermark {
	data, err := r.store.Get(ctx, r.key)
	if err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			r.logger.Info("No previous run state found - this is the first run")
		} else {
			r.logger.Warn("Error reading last run state, treating as absent",
				"key", r.key,
				"error", err)
		}
		return nil
	}

	var watermark models.Watermark
	if err := json.Unmarshal(data, &watermark); err != nil {
		r.logger.Warn("Could not decode last run state, treating as absent",
			"key", r.key,
			"error", err)
		return nil
	}

	return &watermark
}

// Save overwrites the watermark key with the given state.
func (r *StoreWatermarkRepository) Save(ctx context.Context, watermark *models.Watermark) error {
	data, err := json.MarshalIndent(watermark, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode run state: %w", err)
	}

	if err := r.store.Put(ctx, r.key, data); err != nil {
		return fmt.Errorf("failed to save run state: %w", err)
	}

	r.logger.Info("Saved run state",
		"last_processed_timestamp", watermark.LastProcessedTimestamp,
		"last_run_date", watermark.LastRunDate)

	return nil
}
