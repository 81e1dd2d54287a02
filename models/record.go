// ABOUTME: This file defines the conversation record type fetched from the compliance API
// ABOUTME: Handles duck-typed extraction of timestamps, user identity and message counts

package models

import (
	"time"
)

// UnknownUserID is assigned when no user identity field resolves on a record.
const UnknownUserID = "unknown_user"

// timestampFields is the ordered list of candidate timestamp field names.
// The first present and parseable field wins.
var timestampFields = []string{"updated_at", "created_at", "last_active_at", "created_time", "update_time"}

// ConversationRecord is one conversation as returned by the compliance API.
// The schema is not controlled by this system, so the record stays an opaque
// field map and all access goes through probing accessors.
type ConversationRecord map[string]any

// Timestamp extracts the record's canonical epoch-seconds timestamp. It
// probes the known timestamp fields in order, coercing numeric values
// directly and parsing string values as ISO-8601 (a trailing Z is UTC).
// A parse failure on one candidate moves on to the next. When nothing
// resolves it falls back to the current wall-clock time; extraction never
// fails.
func (r ConversationRecord) Timestamp() int64 {
	for _, field := range timestampFields {
		value, ok := r[field]
		if !ok {
			continue
		}

		switch v := value.(type) {
		case float64:
			return int64(v)
		case int64:
			return v
		case int:
			return int64(v)
		case string:
			if ts, err := parseISOTimestamp(v); err == nil {
				return ts
			}
		}
	}

	return time.Now().Unix()
}

// UserID extracts the record's user identity. It probes a direct user_id
// field, then owner.user_id, then created_by, then the first participant's
// user_id, and defaults to UnknownUserID when none resolve.
func (r ConversationRecord) UserID() string {
	if userID, ok := r["user_id"].(string); ok && userID != "" {
		return userID
	}

	if owner, ok := r["owner"].(map[string]any); ok {
		if userID, ok := owner["user_id"].(string); ok && userID != "" {
			return userID
		}
	}

	if createdBy, ok := r["created_by"].(string); ok && createdBy != "" {
		return createdBy
	}

	if participants, ok := r["participants"].([]any); ok && len(participants) > 0 {
		if first, ok := participants[0].(map[string]any); ok {
			if userID, ok := first["user_id"].(string); ok && userID != "" {
				return userID
			}
		}
	}

	return UnknownUserID
}

// Date returns the record's timestamp formatted as a YYYY-MM-DD UTC date,
// matching the convention used for artifact path construction.
func (r ConversationRecord) Date() string {
	return time.Unix(r.Timestamp(), 0).UTC().Format("2006-01-02")
}

// MessageCount returns the length of the record's messages field, treating
// an absent or malformed field as zero.
func (r ConversationRecord) MessageCount() int {
	if messages, ok := r["messages"].([]any); ok {
		return len(messages)
	}
	return 0
}

// parseISOTimestamp parses an ISO-8601 timestamp string into epoch seconds.
func parseISOTimestamp(value string) (int64, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		// Some payloads omit the offset entirely.
		t, err = time.Parse("2006-01-02T15:04:05", value)
		if err != nil {
			return 0, err
		}
		t = t.UTC()
	}
	return t.Unix(), nil
}

// MaxTimestamp returns the maximum extracted timestamp across records, or
// zero for an empty set.
func MaxTimestamp(records []ConversationRecord) int64 {
	var max int64
	for _, record := range records {
		if ts := record.Timestamp(); ts > max {
			max = ts
		}
	}
	return max
}
