// ABOUTME: This file defines structured response types for the compliance listing endpoint
// ABOUTME: Handles JSON binding of paginated conversation list responses

package driver

import (
	"compliance-archiver/models"
)

// ConversationListResponse is one page of the workspace conversation listing.
type ConversationListResponse struct {
	Data    []models.ConversationRecord `json:"data"`
	HasMore bool                        `json:"has_more"`
	LastID  string                      `json:"last_id"`
}

// Empty reports whether the page carried no records.
func (r *ConversationListResponse) Empty() bool {
	return len(r.Data) == 0
}
