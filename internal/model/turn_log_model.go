package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type TurnLog struct {
	Id                uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId            string         `gorm:"type:varchar(128);not null;index"`
	Outcome           string         `gorm:"type:varchar(32);not null"`
	RoutedCollections datatypes.JSON `gorm:"type:jsonb"`
	CandidateCount    int            `gorm:"default:0"`
	SelectedCount     int            `gorm:"default:0"`
	ElapsedMs         int64          `gorm:"default:0"`
	CreatedAt         time.Time      `gorm:"autoCreateTime;index"`
}

func (TurnLog) TableName() string {
	return "turn_logs"
}
