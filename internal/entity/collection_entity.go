package entity

import (
	"time"

	"github.com/google/uuid"
)

type Collection struct {
	Id          uuid.UUID
	Slug        string
	Name        string
	Description string
	Metadata    map[string]interface{}
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}
