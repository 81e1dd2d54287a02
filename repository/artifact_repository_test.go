package repository

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"compliance-archiver/models"
)

func TestStoreArtifactRepository_WriteArtifact(t *testing.T) {
	store, err := NewLocalObjectStore(t.TempDir(), nil)
	require.NoError(t, err)
	repo := NewStoreArtifactRepository(store, "compliance-archiver", nil)
	ctx := context.Background()

	records := []models.ConversationRecord{
		{"id": "conv-1", "user_id": "user-a", "updated_at": float64(1751500000)},
		{"id": "conv-2", "user_id": "user-a", "updated_at": float64(1751500100)},
	}

	require.NoError(t, repo.WriteArtifact(ctx, "user-a", "2025-07-02", records))

	data, err := store.Get(ctx, "user-a/2025/07/02/conversations.json")
	require.NoError(t, err)

	var artifact models.Artifact
	require.NoError(t, json.Unmarshal(data, &artifact))
	assert.Equal(t, "2025-07-02", artifact.Date)
	assert.Equal(t, "user-a", artifact.UserID)
	assert.Equal(t, 2, artifact.ConversationCount)
	assert.Len(t, artifact.Conversations, 2)
	assert.Equal(t, "compliance-archiver", artifact.Metadata.Source)
	assert.NotEmpty(t, artifact.Metadata.BackupTimestamp)
}

func TestStoreArtifactRepository_WriteArtifact_InvalidDate(t *testing.T) {
	store, err := NewLocalObjectStore(t.TempDir(), nil)
	require.NoError(t, err)
	repo := NewStoreArtifactRepository(store, "compliance-archiver", nil)

	err = repo.WriteArtifact(context.Background(), "user-a", "02-07-2025", nil)
	assert.Error(t, err)
}

func TestStoreArtifactRepository_WriteSummary(t *testing.T) {
	store, err := NewLocalObjectStore(t.TempDir(), nil)
	require.NoError(t, err)
	repo := NewStoreArtifactRepository(store, "compliance-archiver", nil)
	ctx := context.Background()

	summary := &models.DailySummary{
		Date:               "2025-07-02",
		TotalUsers:         2,
		TotalConversations: 3,
		UserStatistics: map[string]models.UserStatistics{
			"user-a": {ConversationCount: 2, TotalMessages: 10},
			"user-b": {ConversationCount: 1, TotalMessages: 4},
		},
	}

	require.NoError(t, repo.WriteSummary(ctx, "2025-07-02", summary))

	data, err := store.Get(ctx, "_daily_summaries/2025/07/02/summary.json")
	require.NoError(t, err)

	var loaded models.DailySummary
	require.NoError(t, json.Unmarshal(data, &loaded))
	assert.Equal(t, 3, loaded.TotalConversations)
	assert.Equal(t, 2, loaded.UserStatistics["user-a"].ConversationCount)
	assert.NotEmpty(t, loaded.BackupTimestamp)
}
