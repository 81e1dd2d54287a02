// ABOUTME: Run orchestrator composing window computation, fetch, partition and write
// ABOUTME: Handles watermark advancement only after artifacts are durably written

package service

import (
	"context"
	"log/slog"
	"time"

	"compliance-archiver/models"
	"compliance-archiver/repository"
)

// ConversationFetcher is the paginated fetch operation the orchestrator
// drives.
type ConversationFetcher interface {
	Fetch(ctx context.Context, window models.FetchWindow, resume bool, stats *models.RunStats) ([]models.ConversationRecord, error)
}

// RunOptions controls one archive run.
type RunOptions struct {
	// Window, when non-nil, overrides watermark-based window computation
	// verbatim.
	Window *models.FetchWindow

	// Resume continues a previously interrupted listing from its
	// pagination checkpoint.
	Resume bool

	// SmartIncremental enables watermark-based incremental windows. When
	// disabled the run always starts from the initial epoch with an open
	// upper bound and the watermark is neither read nor written.
	SmartIncremental bool
}

// BackupRunService composes the fetch, partition and write stages into one
// end-to-end run. Runs are sequential and single-writer: the caller must
// not execute two runs against the same watermark or output target
// concurrently.
type BackupRunService struct {
	fetcher     ConversationFetcher
	partitioner *PartitionService
	artifacts   repository.ArtifactRepository
	watermarks  repository.WatermarkRepository
	checkpoints repository.CheckpointRepository
	logger      *slog.Logger
	now         func() time.Time
}

// NewBackupRunService creates a run orchestrator. The checkpoint repository
// may be nil when mid-listing resume is not supported by the backend.
func NewBackupRunService(
	fetcher ConversationFetcher,
	partitioner *PartitionService,
	artifacts repository.ArtifactRepository,
	watermarks repository.WatermarkRepository,
	checkpoints repository.CheckpointRepository,
	logger *slog.Logger,
) *BackupRunService {
	if logger == nil {
		logger = slog.Default()
	}

	return &BackupRunService{
		fetcher:     fetcher,
		partitioner: partitioner,
		artifacts:   artifacts,
		watermarks:  watermarks,
		checkpoints: checkpoints,
		logger:      logger,
		now:         time.Now,
	}
}

// Run executes one archive run: compute window, fetch, partition, write,
// advance watermark. It always returns a result with an explicit status and
// never panics on ordinary failure paths. The watermark advances only after
// every artifact and summary write succeeded; artifacts already written
// before a failure stay in place (no rollback).
func (s *BackupRunService) Run(ctx context.Context, opts RunOptions) *models.RunResult {
	window := s.computeWindow(ctx, opts)
	result := models.NewRunResult(window)
	stats := models.NewRunStats()
	result.Stats = stats

	s.logger.Info("Starting compliance archive run",
		"run_id", result.RunID,
		"since_timestamp", window.Since,
		"until_timestamp", window.Until,
		"since_date", time.Unix(window.Since, 0).UTC().Format("2006-01-02"))

	records, err := s.fetcher.Fetch(ctx, window, opts.Resume, stats)
	if err != nil {
		s.logger.Error("Conversation fetch failed", "error", err)
		return result.Fail(err)
	}

	if len(records) == 0 {
		s.logger.Info("No conversations found for the time range",
			"since_timestamp", window.Since,
			"until_timestamp", window.Until)

		// There is nothing later to bound by, so the window's end becomes
		// the new high-water mark.
		if opts.SmartIncremental && window.Bounded() {
			s.saveWatermark(ctx, window.Until)
		}

		result.Status = models.RunStatusSuccess
		return result
	}

	partitioned := s.partitioner.Partition(records)
	summaries := s.partitioner.Summarize(partitioned)
	stats.TotalUsers = len(partitioned)

	for userID, dates := range partitioned {
		for date, conversations := range dates {
			if err := s.artifacts.WriteArtifact(ctx, userID, date, conversations); err != nil {
				s.logger.Error("Artifact write failed, aborting run before watermark advancement",
					"user_id", userID,
					"date", date,
					"error", err)
				return result.Fail(err)
			}
			result.FilesUploaded++
		}
	}

	for date, summary := range summaries {
		if err := s.artifacts.WriteSummary(ctx, date, summary); err != nil {
			s.logger.Error("Summary write failed, aborting run before watermark advancement",
				"date", date,
				"error", err)
			return result.Fail(err)
		}
	}

	// Advance to the maximum timestamp actually observed, not the window's
	// nominal end: a run that stopped partway through the window must not
	// claim completeness past its last record.
	maxProcessed := models.MaxTimestamp(records)
	result.MaxProcessedTimestamp = maxProcessed

	if opts.SmartIncremental {
		s.saveWatermark(ctx, maxProcessed)
	}

	if s.checkpoints != nil {
		if err := s.checkpoints.Clear(ctx); err != nil {
			s.logger.Warn("Could not clear progress checkpoint", "error", err)
		}
	}

	result.Status = models.RunStatusSuccess
	result.TotalUsers = len(partitioned)
	result.TotalConversations = len(records)

	s.logger.Info("Compliance archive run completed",
		"run_id", result.RunID,
		"total_conversations", result.TotalConversations,
		"total_users", result.TotalUsers,
		"files_uploaded", result.FilesUploaded,
		"max_processed_timestamp", maxProcessed,
		"total_requests", stats.TotalRequests,
		"failed_requests", stats.FailedRequests,
		"elapsed", stats.Elapsed())

	return result
}

// computeWindow derives the fetch window from the override, the persisted
// watermark, or the initial epoch.
func (s *BackupRunService) computeWindow(ctx context.Context, opts RunOptions) models.FetchWindow {
	if opts.Window != nil {
		s.logger.Info("Using manual window override",
			"since_timestamp", opts.Window.Since,
			"until_timestamp", opts.Window.Until)
		return *opts.Window
	}

	if !opts.SmartIncremental {
		s.logger.Info("Smart incremental disabled, processing from initial start date")
		return models.FetchWindow{Since: models.InitialStartDate.Unix()}
	}

	watermark := s.watermarks.Load(ctx)
	window := models.ComputeWindow(watermark, nil, s.now())
	if watermark == nil {
		s.logger.Info("First run detected, processing from initial start date",
			"since_timestamp", window.Since)
	} else {
		s.logger.Info("Incremental run",
			"since_timestamp", window.Since,
			"last_run_date", watermark.LastRunDate)
	}
	return window
}

// saveWatermark persists the new high-water mark. A failure here is logged
// but does not fail the run: the artifacts are already durable and the next
// run will simply re-fetch an overlapping window.
func (s *BackupRunService) saveWatermark(ctx context.Context, lastProcessed int64) {
	if err := s.watermarks.Save(ctx, models.NewWatermark(lastProcessed)); err != nil {
		s.logger.Error("Failed to save run state", "error", err)
	}
}
