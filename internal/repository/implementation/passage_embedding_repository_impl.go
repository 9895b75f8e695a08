package implementation

import (
	"context"

	"kb-assistant-be/internal/entity"
	"kb-assistant-be/internal/mapper"
	"kb-assistant-be/internal/model"
	"kb-assistant-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type PassageEmbeddingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PassageEmbeddingMapper
}

func NewPassageEmbeddingRepository(db *gorm.DB) contract.PassageEmbeddingRepository {
	return &PassageEmbeddingRepositoryImpl{
		db:     db,
		mapper: mapper.NewPassageEmbeddingMapper(),
	}
}

func (r *PassageEmbeddingRepositoryImpl) Create(ctx context.Context, embedding *entity.PassageEmbedding) error {
	m := r.mapper.ToModel(embedding)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*embedding = *r.mapper.ToEntity(m)
	return nil
}

func (r *PassageEmbeddingRepositoryImpl) CreateBulk(ctx context.Context, embeddings []*entity.PassageEmbedding) error {
	if len(embeddings) == 0 {
		return nil
	}
	models := r.mapper.ToModels(embeddings)
	if err := r.db.WithContext(ctx).CreateInBatches(models, 100).Error; err != nil {
		return err
	}
	for i, m := range models {
		*embeddings[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *PassageEmbeddingRepositoryImpl) DeleteByCollectionId(ctx context.Context, collectionId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("collection_id = ?", collectionId).Delete(&model.PassageEmbedding{}).Error
}

func (r *PassageEmbeddingRepositoryImpl) CountByCollectionId(ctx context.Context, collectionId uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.PassageEmbedding{}).
		Where("collection_id = ?", collectionId).
		Count(&count).Error
	return count, err
}

// SearchSimilarWithScore searches a single collection with pgvector cosine
// distance. Similarity is 1 - (embedding_value <=> query_vector).
func (r *PassageEmbeddingRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, collectionSlug string) ([]*contract.ScoredPassageEmbedding, error) {
	if limit <= 0 {
		limit = 5
	}

	type result struct {
		model.PassageEmbedding
		Slug       string
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("passage_embeddings").
		Select("passage_embeddings.*, collections.slug as slug, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Joins("JOIN collections ON collections.id = passage_embeddings.collection_id").
		Where("collections.slug = ?", collectionSlug).
		Where("passage_embeddings.deleted_at IS NULL").
		Order("similarity DESC").
		Limit(limit).
		Find(&results).Error

	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredPassageEmbedding, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredPassageEmbedding{
			Embedding:      r.mapper.ToEntity(&res.PassageEmbedding),
			CollectionSlug: res.Slug,
			Similarity:     res.Similarity,
		}
	}
	return scored, nil
}
