package dto

import "time"

// PublishChatTurnMessage is the internal pub/sub payload emitted after every
// completed chat turn, consumed for analytics persistence.
type PublishChatTurnMessage struct {
	UserId            string    `json:"user_id"`
	Outcome           string    `json:"outcome"`
	RoutedCollections []string  `json:"routed_collections"`
	CandidateCount    int       `json:"candidate_count"`
	SelectedCount     int       `json:"selected_count"`
	ElapsedMs         int64     `json:"elapsed_ms"`
	OccurredAt        time.Time `json:"occurred_at"`
}
