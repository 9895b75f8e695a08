package contract

import (
	"context"

	"kb-assistant-be/internal/entity"

	"github.com/google/uuid"
)

// ScoredPassageEmbedding wraps PassageEmbedding with its similarity score
type ScoredPassageEmbedding struct {
	Embedding      *entity.PassageEmbedding
	CollectionSlug string
	Similarity     float64 // 0.0 to 1.0 (1.0 = identical)
}

type PassageEmbeddingRepository interface {
	Create(ctx context.Context, embedding *entity.PassageEmbedding) error
	CreateBulk(ctx context.Context, embeddings []*entity.PassageEmbedding) error
	DeleteByCollectionId(ctx context.Context, collectionId uuid.UUID) error
	CountByCollectionId(ctx context.Context, collectionId uuid.UUID) (int64, error)
	// SearchSimilarWithScore runs a cosine similarity search scoped to a single
	// collection, identified by slug, ordered by descending similarity.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, collectionSlug string) ([]*ScoredPassageEmbedding, error)
}
