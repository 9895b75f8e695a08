package service

import (
	"context"
	"fmt"
	"time"

	"kb-assistant-be/internal/entity"
	"kb-assistant-be/internal/pkg/logger"
	"kb-assistant-be/internal/repository/contract"
	"kb-assistant-be/pkg/embedding"
	"kb-assistant-be/pkg/utils"

	"github.com/google/uuid"
)

const (
	// Chunking geometry for ingested documents. 1500 chars is roughly 375
	// tokens, well inside every embedding model's context window.
	ingestChunkSize    = 1500
	ingestChunkOverlap = 200
)

type IIngestService interface {
	RegisterCollection(ctx context.Context, slug, name, description string) (*entity.Collection, error)
	IngestDocument(ctx context.Context, collectionSlug, documentKey, text string) (int, error)
}

// ingestService is the write side of the knowledge base: it registers
// collections and turns raw documents into embedded passages.
type ingestService struct {
	collectionRepository       contract.CollectionRepository
	passageEmbeddingRepository contract.PassageEmbeddingRepository
	embeddingProvider          embedding.EmbeddingProvider
	logger                     logger.ILogger
}

func NewIngestService(
	collectionRepository contract.CollectionRepository,
	passageEmbeddingRepository contract.PassageEmbeddingRepository,
	embeddingProvider embedding.EmbeddingProvider,
	log logger.ILogger,
) IIngestService {
	return &ingestService{
		collectionRepository:       collectionRepository,
		passageEmbeddingRepository: passageEmbeddingRepository,
		embeddingProvider:          embeddingProvider,
		logger:                     log,
	}
}

// RegisterCollection creates the collection if the slug is new and returns
// the existing row otherwise.
func (s *ingestService) RegisterCollection(ctx context.Context, slug, name, description string) (*entity.Collection, error) {
	existing, err := s.collectionRepository.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	collection := &entity.Collection{
		Id:          uuid.New(),
		Slug:        slug,
		Name:        name,
		Description: description,
		CreatedAt:   time.Now(),
	}
	if err := s.collectionRepository.Create(ctx, collection); err != nil {
		return nil, err
	}

	s.logger.Info("ingest_service", "Registered collection", map[string]interface{}{"slug": slug})
	return collection, nil
}

// IngestDocument chunks the text, embeds every chunk and stores the batch.
// Returns the number of passages written. Passage keys are stable:
// "<documentKey>#<chunkIndex>".
func (s *ingestService) IngestDocument(ctx context.Context, collectionSlug, documentKey, text string) (int, error) {
	collection, err := s.collectionRepository.FindBySlug(ctx, collectionSlug)
	if err != nil {
		return 0, err
	}
	if collection == nil {
		return 0, fmt.Errorf("collection %q is not registered", collectionSlug)
	}

	chunks := utils.SplitText(text, ingestChunkSize, ingestChunkOverlap)

	embeddings := make([]*entity.PassageEmbedding, 0, len(chunks))
	for i, chunk := range chunks {
		res, err := s.embeddingProvider.Generate(chunk, "RETRIEVAL_DOCUMENT")
		if err != nil {
			return 0, fmt.Errorf("embed chunk %d of %q: %w", i, documentKey, err)
		}

		embeddings = append(embeddings, &entity.PassageEmbedding{
			Id:             uuid.New(),
			PassageKey:     fmt.Sprintf("%s#%d", documentKey, i),
			Document:       chunk,
			EmbeddingValue: res.Embedding.Values,
			CollectionId:   collection.Id,
			ChunkIndex:     i,
			CreatedAt:      time.Now(),
		})
	}

	if err := s.passageEmbeddingRepository.CreateBulk(ctx, embeddings); err != nil {
		return 0, err
	}

	s.logger.Info("ingest_service", "Ingested document", map[string]interface{}{
		"collection": collectionSlug,
		"document":   documentKey,
		"passages":   len(embeddings),
	})
	return len(embeddings), nil
}
