package driver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*ComplianceClient, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewComplianceClient("test-api-key", "ws-123", server.URL, 5*time.Second, nil)
	return client, server
}

func TestComplianceClient_ListConversations_Success(t *testing.T) {
	var gotPath, gotAuth string
	var gotQuery map[string][]string

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.Query()

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"data": [
				{"id": "conv-1", "user_id": "user-a", "updated_at": 1751500000},
				{"id": "conv-2", "user_id": "user-b", "updated_at": 1751500100}
			],
			"has_more": true,
			"last_id": "conv-2"
		}`))
	})

	page, err := client.ListConversations(context.Background(), ListConversationsOptions{
		Limit:          500,
		SinceTimestamp: 1751400000,
	})

	require.NoError(t, err)
	assert.Equal(t, "/compliance/workspaces/ws-123/conversations", gotPath)
	assert.Equal(t, "Bearer test-api-key", gotAuth)
	assert.Equal(t, []string{"500"}, gotQuery["limit"])
	assert.Equal(t, []string{"1751400000"}, gotQuery["since_timestamp"])

	assert.Len(t, page.Data, 2)
	assert.True(t, page.HasMore)
	assert.Equal(t, "conv-2", page.LastID)
	assert.Equal(t, "user-a", page.Data[0].UserID())
}

func TestComplianceClient_ListConversations_CursorOmitsSinceTimestamp(t *testing.T) {
	var gotQuery map[string][]string

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`{"data": [], "has_more": false, "last_id": ""}`))
	})

	_, err := client.ListConversations(context.Background(), ListConversationsOptions{
		Limit:          500,
		SinceTimestamp: 1751400000,
		After:          "conv-2",
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"conv-2"}, gotQuery["after"])
	assert.NotContains(t, gotQuery, "since_timestamp")
}

func TestComplianceClient_ListConversations_UserFilter(t *testing.T) {
	var gotQuery map[string][]string

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`{"data": [], "has_more": false, "last_id": ""}`))
	})

	_, err := client.ListConversations(context.Background(), ListConversationsOptions{
		Limit: 500,
		Users: []string{"user-a", "user-b"},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"user-a", "user-b"}, gotQuery["users"])
}

func TestComplianceClient_ListConversations_StatusClassification(t *testing.T) {
	tests := map[string]struct {
		status   int
		expected error
	}{
		"unauthorized": {status: http.StatusUnauthorized, expected: ErrUnauthorized},
		"forbidden":    {status: http.StatusForbidden, expected: ErrForbidden},
		"not_found":    {status: http.StatusNotFound, expected: ErrNotFound},
		"server_error": {status: http.StatusInternalServerError, expected: ErrTransient},
		"bad_gateway":  {status: http.StatusBadGateway, expected: ErrTransient},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			})

			_, err := client.ListConversations(context.Background(), ListConversationsOptions{Limit: 500})
			assert.ErrorIs(t, err, tc.expected)
		})
	}
}

func TestComplianceClient_ListConversations_RateLimited(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "17")
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.ListConversations(context.Background(), ListConversationsOptions{Limit: 500})

	var rateLimited *RateLimitedError
	require.True(t, errors.As(err, &rateLimited))
	assert.Equal(t, 17*time.Second, rateLimited.RetryAfter)
	assert.False(t, IsFatal(err))
}

func TestComplianceClient_ListConversations_MalformedBodyIsTransient(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": [truncated`))
	})

	_, err := client.ListConversations(context.Background(), ListConversationsOptions{Limit: 500})
	assert.ErrorIs(t, err, ErrTransient)
}

func TestIsFatal(t *testing.T) {
	assert.True(t, IsFatal(ErrUnauthorized))
	assert.True(t, IsFatal(ErrForbidden))
	assert.True(t, IsFatal(ErrNotFound))
	assert.False(t, IsFatal(ErrTransient))
	assert.False(t, IsFatal(nil))
}

func TestParseRetryAfter(t *testing.T) {
	tests := map[string]struct {
		header   string
		expected time.Duration
	}{
		"delta_seconds": {header: "30", expected: 30 * time.Second},
		"zero":          {header: "0", expected: 0},
		"empty_header":  {header: "", expected: defaultRetryAfter},
		"garbage":       {header: "soon", expected: defaultRetryAfter},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.expected, parseRetryAfter(tc.header))
		})
	}
}
