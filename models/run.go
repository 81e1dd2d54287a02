// ABOUTME: This file defines run-level result, statistics and checkpoint models
// ABOUTME: Handles structured reporting of one archive run and pagination resume state

package models

import (
	"time"

	"github.com/google/uuid"
)

// RunStatus is the terminal outcome of one archive run.
type RunStatus string

const (
	RunStatusSuccess RunStatus = "success"
	RunStatusFailure RunStatus = "failure"
)

// RunStats accumulates counters across a run's fetch loop. It is passed by
// reference through the fetch service rather than kept as ambient state.
type RunStats struct {
	TotalRequests      int       `json:"total_requests"`
	FailedRequests     int       `json:"failed_requests"`
	Pages              int       `json:"pages"`
	TotalConversations int       `json:"total_conversations"`
	TotalUsers         int       `json:"total_users"`
	StartTime          time.Time `json:"start_time"`
}

// NewRunStats creates run statistics anchored at the current time.
func NewRunStats() *RunStats {
	return &RunStats{StartTime: time.Now()}
}

// Elapsed returns the wall-clock duration since the run started.
func (s *RunStats) Elapsed() time.Duration {
	return time.Since(s.StartTime)
}

// RunResult is the structured outcome returned by the run orchestrator. The
// invocation surface always returns a result with an explicit status; an
// ordinary failure never propagates past it.
type RunResult struct {
	RunID                 uuid.UUID `json:"run_id"`
	Status                RunStatus `json:"status"`
	SinceTimestamp        int64     `json:"since_timestamp"`
	UntilTimestamp        int64     `json:"until_timestamp"`
	MaxProcessedTimestamp int64     `json:"max_processed_timestamp,omitempty"`
	TotalUsers            int       `json:"total_users"`
	TotalConversations    int       `json:"total_conversations"`
	FilesUploaded         int       `json:"files_uploaded"`
	Stats                 *RunStats `json:"stats,omitempty"`
	Err                   error     `json:"-"`
	ErrorMessage          string    `json:"error,omitempty"`
}

// NewRunResult creates a result for a run over the given window.
func NewRunResult(window FetchWindow) *RunResult {
	return &RunResult{
		RunID:          uuid.New(),
		SinceTimestamp: window.Since,
		UntilTimestamp: window.Until,
	}
}

// Fail marks the result as failed with the given cause.
func (r *RunResult) Fail(err error) *RunResult {
	r.Status = RunStatusFailure
	r.Err = err
	if err != nil {
		r.ErrorMessage = err.Error()
	}
	return r
}

// Checkpoint is the pagination resume state written after every fetched
// page and deleted once a run completes. It lets the next invocation resume
// mid-listing after an abort, via the last seen cursor.
type Checkpoint struct {
	LastID    string    `json:"last_id"`
	Timestamp string    `json:"timestamp"`
	Stats     *RunStats `json:"stats,omitempty"`
}

// NewCheckpoint creates a checkpoint for the given cursor.
func NewCheckpoint(lastID string, stats *RunStats) *Checkpoint {
	return &Checkpoint{
		LastID:    lastID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Stats:     stats,
	}
}
