package retrieval

import (
	"context"
	"errors"
	"fmt"

	"kb-assistant-be/internal/constant"
	"kb-assistant-be/internal/pkg/logger"
	"kb-assistant-be/pkg/embedding"
)

// Aggregator runs the routed collections' similarity searches and
// concatenates results in router order. No global re-ranking across
// collections: per-collection rank order is preserved.
type Aggregator struct {
	embeddingProvider embedding.EmbeddingProvider
	searcher          Searcher
	topK              int
	logger            logger.ILogger
}

func NewAggregator(embeddingProvider embedding.EmbeddingProvider, searcher Searcher, topK int, log logger.ILogger) *Aggregator {
	if topK <= 0 {
		topK = constant.SimilarityTopK
	}
	return &Aggregator{
		embeddingProvider: embeddingProvider,
		searcher:          searcher,
		topK:              topK,
		logger:            log,
	}
}

// Retrieve embeds the query once and searches each selected collection.
// A collection that cannot be queried contributes empty results and the
// others still run. An all-empty result is not an error here; the caller
// maps it to the no-context path.
func (a *Aggregator) Retrieve(ctx context.Context, query string, collectionIDs []string) ([]Passage, error) {
	if len(collectionIDs) == 0 {
		return nil, nil
	}

	embeddingRes, err := a.embeddingProvider.Generate(query, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}

	var passages []Passage
	for _, collectionID := range collectionIDs {
		results, err := a.searcher.Search(ctx, collectionID, embeddingRes.Embedding.Values, a.topK)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			// Empty or unreachable backing store degrades to no results
			// for this collection only
			a.logger.Warn("retrieval", "Collection could not be searched, skipping", map[string]interface{}{
				"collection": collectionID,
				"error":      err.Error(),
			})
			continue
		}
		passages = append(passages, results...)
	}

	a.logger.Debug("retrieval", "Aggregated similarity search results", map[string]interface{}{
		"collections": collectionIDs,
		"passages":    len(passages),
	})

	return passages, nil
}
