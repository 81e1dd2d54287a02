// ABOUTME: This file defines watermark state for incremental fetch window tracking
// ABOUTME: Handles window computation from the previous run's high-water mark

package models

import (
	"time"
)

// InitialStartDate is the historical epoch used for the first run, before
// any watermark exists.
var InitialStartDate = time.Date(2025, time.July, 2, 0, 0, 0, 0, time.UTC)

// Watermark is the persisted state of the last successful run. Exactly one
// live instance exists across runs and it is written only after a run
// completes.
type Watermark struct {
	LastProcessedTimestamp int64  `json:"last_processed_timestamp"`
	RunTimestamp           string `json:"run_timestamp"`
	LastRunDate            string `json:"last_run_date"`
}

// NewWatermark creates a watermark for the given high-water timestamp.
func NewWatermark(lastProcessedTimestamp int64) *Watermark {
	return &Watermark{
		LastProcessedTimestamp: lastProcessedTimestamp,
		RunTimestamp:           time.Now().UTC().Format(time.RFC3339),
		LastRunDate:            time.Unix(lastProcessedTimestamp, 0).UTC().Format("2006-01-02"),
	}
}

// FetchWindow bounds one run's fetch. Until is open-ended when zero.
type FetchWindow struct {
	Since int64
	Until int64
}

// Bounded reports whether the window has an upper bound.
func (w FetchWindow) Bounded() bool {
	return w.Until > 0
}

// Contains reports whether a timestamp falls inside the window's upper
// bound. Records below Since can legitimately appear when the remote API's
// boundaries differ, so only the upper bound filters.
func (w FetchWindow) Contains(timestamp int64) bool {
	return !w.Bounded() || timestamp <= w.Until
}

// ComputeWindow derives the fetch window for a run. An explicit override is
// used verbatim. Otherwise an absent watermark means first run, starting at
// InitialStartDate; a present watermark resumes one second past its
// high-water mark. Until defaults to now.
func ComputeWindow(watermark *Watermark, override *FetchWindow, now time.Time) FetchWindow {
	if override != nil {
		return *override
	}

	window := FetchWindow{Until: now.UTC().Unix()}
	if watermark == nil {
		window.Since = InitialStartDate.Unix()
	} else {
		window.Since = watermark.LastProcessedTimestamp + 1
	}
	return window
}
