package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConversationRecord_Timestamp(t *testing.T) {
	tests := map[string]struct {
		record   ConversationRecord
		expected int64
	}{
		"numeric_updated_at": {
			record:   ConversationRecord{"updated_at": float64(1751500000)},
			expected: 1751500000,
		},
		"numeric_created_at": {
			record:   ConversationRecord{"created_at": float64(1751400000)},
			expected: 1751400000,
		},
		"updated_at_wins_over_created_at": {
			record: ConversationRecord{
				"created_at": float64(1751400000),
				"updated_at": float64(1751500000),
			},
			expected: 1751500000,
		},
		"iso_string_with_z_suffix": {
			record:   ConversationRecord{"created_at": "2025-07-02T12:00:00Z"},
			expected: time.Date(2025, 7, 2, 12, 0, 0, 0, time.UTC).Unix(),
		},
		"iso_string_with_offset": {
			record:   ConversationRecord{"last_active_at": "2025-07-02T12:00:00+02:00"},
			expected: time.Date(2025, 7, 2, 10, 0, 0, 0, time.UTC).Unix(),
		},
		"fallback_variant_created_time": {
			record:   ConversationRecord{"created_time": float64(1751450000)},
			expected: 1751450000,
		},
		"unparseable_candidate_continues_probing": {
			record: ConversationRecord{
				"updated_at": "not-a-timestamp",
				"created_at": float64(1751400000),
			},
			expected: 1751400000,
		},
		"int_timestamp": {
			record:   ConversationRecord{"update_time": int64(1751460000)},
			expected: 1751460000,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.record.Timestamp())
		})
	}
}

func TestConversationRecord_Timestamp_NoRecognizableField(t *testing.T) {
	record := ConversationRecord{"id": "conv-1", "title": "untimestamped"}

	before := time.Now().Unix()
	ts := record.Timestamp()
	after := time.Now().Unix()

	// Extraction never fails; it degrades to the current wall clock.
	assert.GreaterOrEqual(t, ts, before)
	assert.LessOrEqual(t, ts, after)
}

func TestConversationRecord_UserID(t *testing.T) {
	tests := map[string]struct {
		record   ConversationRecord
		expected string
	}{
		"direct_user_id": {
			record:   ConversationRecord{"user_id": "user-123"},
			expected: "user-123",
		},
		"owner_nested_user_id": {
			record: ConversationRecord{
				"owner": map[string]any{"user_id": "user-456"},
			},
			expected: "user-456",
		},
		"created_by": {
			record:   ConversationRecord{"created_by": "user-789"},
			expected: "user-789",
		},
		"first_participant": {
			record: ConversationRecord{
				"participants": []any{
					map[string]any{"user_id": "user-abc"},
					map[string]any{"user_id": "user-def"},
				},
			},
			expected: "user-abc",
		},
		"direct_wins_over_owner": {
			record: ConversationRecord{
				"user_id": "user-123",
				"owner":   map[string]any{"user_id": "user-456"},
			},
			expected: "user-123",
		},
		"owner_without_user_id_falls_through": {
			record: ConversationRecord{
				"owner":      map[string]any{"name": "someone"},
				"created_by": "user-789",
			},
			expected: "user-789",
		},
		"no_identity_field": {
			record:   ConversationRecord{"id": "conv-1"},
			expected: UnknownUserID,
		},
		"empty_participants": {
			record:   ConversationRecord{"participants": []any{}},
			expected: UnknownUserID,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.record.UserID())
		})
	}
}

func TestConversationRecord_Date(t *testing.T) {
	record := ConversationRecord{"created_at": "2025-07-02T23:30:00Z"}
	assert.Equal(t, "2025-07-02", record.Date())
}

func TestConversationRecord_MessageCount(t *testing.T) {
	tests := map[string]struct {
		record   ConversationRecord
		expected int
	}{
		"three_messages": {
			record:   ConversationRecord{"messages": []any{"a", "b", "c"}},
			expected: 3,
		},
		"absent_messages": {
			record:   ConversationRecord{},
			expected: 0,
		},
		"malformed_messages": {
			record:   ConversationRecord{"messages": "oops"},
			expected: 0,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.record.MessageCount())
		})
	}
}

func TestMaxTimestamp(t *testing.T) {
	records := []ConversationRecord{
		{"updated_at": float64(1751500000)},
		{"updated_at": float64(1751600000)},
		{"updated_at": float64(1751400000)},
	}

	assert.Equal(t, int64(1751600000), MaxTimestamp(records))
	assert.Equal(t, int64(0), MaxTimestamp(nil))
}
