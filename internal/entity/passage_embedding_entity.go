package entity

import (
	"time"

	"github.com/google/uuid"
)

type PassageEmbedding struct {
	Id             uuid.UUID
	PassageKey     string // stable external id shown to the relevance filter
	Document       string
	EmbeddingValue []float32
	CollectionId   uuid.UUID
	ChunkIndex     int
	CreatedAt      time.Time
	UpdatedAt      *time.Time
	DeletedAt      *time.Time
	IsDeleted      bool
}
