// ABOUTME: Paginated fetch service driving the compliance listing API across pages
// ABOUTME: Handles rate pacing, bounded retry with backoff, window filtering and graceful stop

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync/atomic"
	"time"

	"compliance-archiver/driver"
	"compliance-archiver/models"
	"compliance-archiver/repository"
)

// ComplianceAPI is the listing endpoint consumed by the fetch service.
type ComplianceAPI interface {
	ListConversations(ctx context.Context, opts driver.ListConversationsOptions) (*driver.ConversationListResponse, error)
}

// RetryConfig defines per-page retry behavior for transient failures.
// Rate-limit waits are not counted against MaxRetries.
type RetryConfig struct {
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// DefaultRetryConfig returns the standard retry policy for listing requests.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:   3,
		InitialDelay: 1 * time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
}

// backoff returns the delay before the given retry attempt (1-based).
func (c *RetryConfig) backoff(attempt int) time.Duration {
	delay := time.Duration(float64(c.InitialDelay) * math.Pow(c.Multiplier, float64(attempt-1)))
	if delay > c.MaxDelay {
		delay = c.MaxDelay
	}
	return delay
}

// FetchConfig holds pacing and paging settings for the listing loop.
type FetchConfig struct {
	// PageSize is fixed at the maximum the remote API allows.
	PageSize int

	// RateLimitDelay is slept before every request, including the first.
	RateLimitDelay time.Duration

	// Users optionally restricts the listing to specific user IDs.
	Users []string
}

// DefaultFetchConfig returns pacing settings matching the remote API's
// 50 requests/minute limit and 500-record page maximum.
func DefaultFetchConfig() FetchConfig {
	return FetchConfig{
		PageSize:       500,
		RateLimitDelay: 1200 * time.Millisecond,
	}
}

// ConversationFetchService drives the remote listing API across pages and
// accumulates records inside one fetch window. Output preserves the order
// records are returned by the API.
type ConversationFetchService struct {
	client      ComplianceAPI
	checkpoints repository.CheckpointRepository
	config      FetchConfig
	retryConfig *RetryConfig
	logger      *slog.Logger
	stopped     atomic.Bool
}

// NewConversationFetchService creates a fetch service. The checkpoint
// repository may be nil, which disables mid-listing resume.
func NewConversationFetchService(
	client ComplianceAPI,
	checkpoints repository.CheckpointRepository,
	config FetchConfig,
	logger *slog.Logger,
) *ConversationFetchService {
	if logger == nil {
		logger = slog.Default()
	}

	return &ConversationFetchService{
		client:      client,
		checkpoints: checkpoints,
		config:      config,
		retryConfig: DefaultRetryConfig(),
		logger:      logger,
	}
}

// SetRetryConfig overrides the per-page retry policy.
func (s *ConversationFetchService) SetRetryConfig(config *RetryConfig) {
	s.retryConfig = config
}

// Stop requests a graceful stop: the loop finishes the in-flight request,
// stops accepting new pages and returns whatever was accumulated so far.
// Safe to call from a signal handler goroutine.
func (s *ConversationFetchService) Stop() {
	s.stopped.Store(true)
}

// Fetch retrieves all conversations inside the window. The first page
// carries since_timestamp; subsequent pages carry only the server-issued
// cursor. Records whose extracted timestamp exceeds a bounded window's
// until are dropped individually; fetching continues on the cursor even
// when a whole page is filtered out, since records are not guaranteed to
// arrive in timestamp order. Retry exhaustion or a fatal auth error aborts
// the fetch and discards accumulated pages.
func (s *ConversationFetchService) Fetch(ctx context.Context, window models.FetchWindow, resume bool, stats *models.RunStats) ([]models.ConversationRecord, error) {
	var after string
	if resume && s.checkpoints != nil {
		if checkpoint := s.checkpoints.Load(ctx); checkpoint != nil {
			after = checkpoint.LastID
		}
	}

	var all []models.ConversationRecord
	pageCount := 0

	for {
		if s.stopped.Load() {
			s.logger.Info("Stop requested, returning accumulated conversations",
				"pages", pageCount,
				"conversations", len(all))
			return all, nil
		}

		pageCount++
		s.logger.Info("Fetching conversation page", "page", pageCount)

		opts := driver.ListConversationsOptions{
			Limit: s.config.PageSize,
			Users: s.config.Users,
			After: after,
		}
		if after == "" {
			opts.SinceTimestamp = window.Since
		}

		page, err := s.fetchPage(ctx, opts, stats)
		if err != nil {
			return nil, err
		}
		stats.Pages = pageCount

		if page.Empty() {
			s.logger.Info("No more conversations to fetch", "pages", pageCount)
			break
		}

		kept := 0
		for _, record := range page.Data {
			if !window.Contains(record.Timestamp()) {
				continue
			}
			all = append(all, record)
			kept++
		}
		stats.TotalConversations = len(all)

		s.logger.Info("Conversation page processed",
			"page", pageCount,
			"records", len(page.Data),
			"kept", kept,
			"total", len(all))

		if page.LastID != "" && s.checkpoints != nil {
			if err := s.checkpoints.Save(ctx, models.NewCheckpoint(page.LastID, stats)); err != nil {
				s.logger.Warn("Could not save progress checkpoint", "error", err)
			}
		}

		if !page.HasMore {
			s.logger.Info("Fetched all available conversations",
				"pages", pageCount,
				"total", len(all))
			break
		}
		after = page.LastID
	}

	return all, nil
}

// fetchPage requests one page with pacing and retry. Transient failures
// retry with exponential backoff up to the configured maximum; rate limits
// wait out the server-supplied delay without consuming the retry budget;
// auth failures abort immediately.
func (s *ConversationFetchService) fetchPage(ctx context.Context, opts driver.ListConversationsOptions, stats *models.RunStats) (*driver.ConversationListResponse, error) {
	var lastErr error

	for attempt := 0; attempt <= s.retryConfig.MaxRetries; {
		if attempt > 0 {
			delay := s.retryConfig.backoff(attempt)
			s.logger.Info("Retrying conversation page",
				"attempt", attempt,
				"delay", delay)
			if err := sleepContext(ctx, delay); err != nil {
				return nil, err
			}
		}

		// Pace every request to respect the remote rate limit.
		if err := sleepContext(ctx, s.config.RateLimitDelay); err != nil {
			return nil, err
		}

		stats.TotalRequests++
		page, err := s.client.ListConversations(ctx, opts)
		if err == nil {
			return page, nil
		}

		if driver.IsFatal(err) {
			stats.FailedRequests++
			s.logger.Error("Fatal API error, aborting fetch", "error", err)
			return nil, err
		}

		var rateLimited *driver.RateLimitedError
		if errors.As(err, &rateLimited) {
			s.logger.Warn("Rate limited, waiting before retry",
				"retry_after", rateLimited.RetryAfter)
			if err := sleepContext(ctx, rateLimited.RetryAfter); err != nil {
				return nil, err
			}
			// Not counted against the retry budget.
			continue
		}

		stats.FailedRequests++
		lastErr = err
		attempt++
	}

	return nil, fmt.Errorf("page fetch failed after %d retries: %w", s.retryConfig.MaxRetries, lastErr)
}

// sleepContext sleeps for the given duration unless the context ends first.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
