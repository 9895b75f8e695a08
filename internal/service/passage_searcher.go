package service

import (
	"context"

	"kb-assistant-be/internal/repository/contract"
	"kb-assistant-be/pkg/rag/retrieval"
)

// PassageSearcher adapts the pgvector-backed embedding repository to the
// retrieval.Searcher contract used by the aggregator.
type PassageSearcher struct {
	passageEmbeddingRepository contract.PassageEmbeddingRepository
}

func NewPassageSearcher(passageEmbeddingRepository contract.PassageEmbeddingRepository) *PassageSearcher {
	return &PassageSearcher{
		passageEmbeddingRepository: passageEmbeddingRepository,
	}
}

func (s *PassageSearcher) Search(ctx context.Context, collectionID string, queryEmbedding []float32, topK int) ([]retrieval.Passage, error) {
	scored, err := s.passageEmbeddingRepository.SearchSimilarWithScore(ctx, queryEmbedding, topK, collectionID)
	if err != nil {
		return nil, err
	}

	passages := make([]retrieval.Passage, 0, len(scored))
	for _, sc := range scored {
		if sc.Embedding == nil {
			continue
		}
		passages = append(passages, retrieval.Passage{
			ID:               sc.Embedding.PassageKey,
			Text:             sc.Embedding.Document,
			Score:            float32(sc.Similarity),
			SourceCollection: sc.CollectionSlug,
		})
	}
	return passages, nil
}
