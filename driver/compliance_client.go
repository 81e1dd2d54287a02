// ABOUTME: Low-level HTTP client for the compliance export API
// ABOUTME: Handles bearer authentication, request building and status classification

package driver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Classification errors for API responses. The fetch service decides retry
// behavior from these: auth failures abort, rate limits wait, everything
// else is transient.
var (
	ErrUnauthorized = errors.New("authentication failed (401): check the API key")
	ErrForbidden    = errors.New("access forbidden (403): check API key permissions")
	ErrNotFound     = errors.New("resource not found (404): check the workspace ID")
	ErrTransient    = errors.New("transient API failure")
)

// RateLimitedError is returned on a 429 response and carries the
// server-supplied wait before the request may be repeated.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited (429): retry after %s", e.RetryAfter)
}

// defaultRetryAfter is used when a 429 response omits the Retry-After header.
const defaultRetryAfter = 60 * time.Second

// ListConversationsOptions are the query parameters for one listing request.
// SinceTimestamp applies to the first page only; subsequent pages carry the
// opaque After cursor instead.
type ListConversationsOptions struct {
	Limit          int
	SinceTimestamp int64
	After          string
	Users          []string
}

// ComplianceClient handles low-level HTTP communication with the compliance
// export API.
type ComplianceClient struct {
	apiKey      string
	workspaceID string
	baseURL     string
	httpClient  *http.Client
	logger      *slog.Logger
}

// NewComplianceClient creates a client for the given workspace.
func NewComplianceClient(apiKey, workspaceID, baseURL string, timeout time.Duration, logger *slog.Logger) *ComplianceClient {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &ComplianceClient{
		apiKey:      apiKey,
		workspaceID: workspaceID,
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		logger:      logger,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				TLSHandshakeTimeout:   10 * time.Second,
				ResponseHeaderTimeout: timeout,
				IdleConnTimeout:       90 * time.Second,
				MaxIdleConns:          10,
				MaxIdleConnsPerHost:   2,
			},
		},
	}
}

// ListConversations requests one page of the workspace conversation listing.
// It performs a single request; retry policy belongs to the caller.
func (c *ComplianceClient) ListConversations(ctx context.Context, opts ListConversationsOptions) (*ConversationListResponse, error) {
	endpoint := fmt.Sprintf("%s/compliance/workspaces/%s/conversations", c.baseURL, url.PathEscape(c.workspaceID))

	params := url.Values{}
	params.Set("limit", strconv.Itoa(opts.Limit))
	if opts.After != "" {
		params.Set("after", opts.After)
	} else if opts.SinceTimestamp > 0 {
		params.Set("since_timestamp", strconv.FormatInt(opts.SinceTimestamp, 10))
	}
	for _, user := range opts.Users {
		params.Add("users", user)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create listing request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "compliance-archiver/1.0")

	c.logger.Debug("Requesting conversation listing page",
		"has_cursor", opts.After != "",
		"since_timestamp", opts.SinceTimestamp,
		"limit", opts.Limit)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: listing request failed: %v", ErrTransient, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.classifyStatus(resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read listing response body: %v", ErrTransient, err)
	}

	var page ConversationListResponse
	if err := json.Unmarshal(body, &page); err != nil {
		c.logger.Error("Failed to unmarshal listing response",
			"error", err,
			"body_length", len(body))
		return nil, fmt.Errorf("%w: malformed listing response: %v", ErrTransient, err)
	}

	c.logger.Debug("Conversation listing page received",
		"records", len(page.Data),
		"has_more", page.HasMore,
		"last_id", page.LastID)

	return &page, nil
}

// classifyStatus maps a non-200 response to a classification error.
func (c *ComplianceClient) classifyStatus(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusTooManyRequests:
		retryAfter := parseRetryAfter(resp.Header.Get("Retry-After"))
		c.logger.Warn("Rate limited by compliance API",
			"retry_after", retryAfter)
		return &RateLimitedError{RetryAfter: retryAfter}
	default:
		c.logger.Warn("Listing request failed",
			"status_code", resp.StatusCode,
			"body_preview", string(body))
		return fmt.Errorf("%w: unexpected status %d", ErrTransient, resp.StatusCode)
	}
}

// parseRetryAfter handles both delta-seconds and HTTP-date forms of the
// Retry-After header.
func parseRetryAfter(header string) time.Duration {
	header = strings.TrimSpace(header)
	if header == "" {
		return defaultRetryAfter
	}
	if secs, err := strconv.Atoi(header); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if when, err := http.ParseTime(header); err == nil {
		if d := time.Until(when); d > 0 {
			return d
		}
		return 0
	}
	return defaultRetryAfter
}

// IsFatal reports whether an error from ListConversations must abort the
// fetch without retry.
func IsFatal(err error) bool {
	return errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrNotFound)
}
