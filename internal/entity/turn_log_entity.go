package entity

import (
	"time"

	"github.com/google/uuid"
)

// TurnLog is one persisted analytics row per finished conversation turn
type TurnLog struct {
	Id                uuid.UUID
	UserId            string
	Outcome           string
	RoutedCollections []string
	CandidateCount    int
	SelectedCount     int
	ElapsedMs         int64
	CreatedAt         time.Time
}
