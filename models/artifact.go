// ABOUTME: This file defines persisted artifact and daily summary payloads
// ABOUTME: Handles hierarchical object key construction for the storage layout

package models

import (
	"fmt"
	"time"
)

// Artifact is the per-(user, date) object written to storage. The key is not
// unique across runs: a later run landing on the same (user, date) overwrites
// the prior artifact wholesale (last-write-wins, no merge, no dedup of
// records re-fetched across overlapping windows).
type Artifact struct {
	Date              string               `json:"date"`
	UserID            string               `json:"user_id"`
	ConversationCount int                  `json:"conversation_count"`
	Conversations     []ConversationRecord `json:"conversations"`
	Metadata          ArtifactMetadata     `json:"metadata"`
}

// ArtifactMetadata records provenance for one written artifact.
type ArtifactMetadata struct {
	BackupTimestamp string `json:"backup_timestamp"`
	Source          string `json:"source"`
}

// UserStatistics summarizes one user's activity within a single date.
type UserStatistics struct {
	ConversationCount int `json:"conversation_count"`
	TotalMessages     int `json:"total_messages"`
}

// DailySummary aggregates per-date statistics across all users observed in
// one run. It overwrites any prior summary at the same date key.
type DailySummary struct {
	Date               string                    `json:"date"`
	TotalUsers         int                       `json:"total_users"`
	TotalConversations int                       `json:"total_conversations"`
	UserStatistics     map[string]UserStatistics `json:"user_statistics"`
	BackupTimestamp    string                    `json:"backup_timestamp,omitempty"`
}

// ArtifactKey builds the hierarchical object key for a (user, date) artifact:
// {user_id}/{YYYY}/{MM}/{DD}/conversations.json.
func ArtifactKey(userID, date string) (string, error) {
	year, month, day, err := splitDate(date)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s/%s/%s/conversations.json", userID, year, month, day), nil
}

// SummaryKey builds the object key for a daily summary:
// _daily_summaries/{YYYY}/{MM}/{DD}/summary.json.
func SummaryKey(date string) (string, error) {
	year, month, day, err := splitDate(date)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("_daily_summaries/%s/%s/%s/summary.json", year, month, day), nil
}

func splitDate(date string) (year, month, day string, err error) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return "", "", "", fmt.Errorf("invalid date %q: %w", date, err)
	}
	return t.Format("2006"), t.Format("01"), t.Format("02"), nil
}
