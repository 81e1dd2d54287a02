// ABOUTME: Partition service grouping fetched conversations by user and date
// ABOUTME: Handles deterministic bucketing and per-date aggregate statistics

package service

import (
	"log/slog"

	"compliance-archiver/models"
)

// PartitionedConversations maps user ID, then YYYY-MM-DD date, to the
// conversations landing in that bucket. Every input record lands in exactly
// one bucket.
type PartitionedConversations map[string]map[string][]models.ConversationRecord

// PartitionService groups conversation records into (user, date) buckets
// and computes daily aggregate statistics.
type PartitionService struct {
	logger *slog.Logger
}

// NewPartitionService creates a partition service.
func NewPartitionService(logger *slog.Logger) *PartitionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PartitionService{logger: logger}
}

// Partition assigns every record to exactly one (user, date) bucket using
// the record's extracted user identity and UTC date.
func (s *PartitionService) Partition(records []models.ConversationRecord) PartitionedConversations {
	organized := make(PartitionedConversations)

	for _, record := range records {
		userID := record.UserID()
		date := record.Date()

		if _, ok := organized[userID]; !ok {
			organized[userID] = make(map[string][]models.ConversationRecord)
		}
		organized[userID][date] = append(organized[userID][date], record)
	}

	s.logger.Info("Partitioned conversations by user and date",
		"total_conversations", len(records),
		"total_users", len(organized))

	return organized
}

// Summarize builds one DailySummary per distinct date observed in the
// partitioned set. For each date, total_conversations equals the sum of the
// per-user conversation counts.
func (s *PartitionService) Summarize(partitioned PartitionedConversations) map[string]*models.DailySummary {
	summaries := make(map[string]*models.DailySummary)

	for userID, dates := range partitioned {
		for date, conversations := range dates {
			summary, ok := summaries[date]
			if !ok {
				summary = &models.DailySummary{
					Date:           date,
					UserStatistics: make(map[string]models.UserStatistics),
				}
				summaries[date] = summary
			}

			totalMessages := 0
			for _, conversation := range conversations {
				totalMessages += conversation.MessageCount()
			}

			summary.TotalUsers++
			summary.TotalConversations += len(conversations)
			summary.UserStatistics[userID] = models.UserStatistics{
				ConversationCount: len(conversations),
				TotalMessages:     totalMessages,
			}
		}
	}

	return summaries
}
