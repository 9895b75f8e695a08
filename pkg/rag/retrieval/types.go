package retrieval

import (
	"context"
	"errors"
)

// ErrNoData signals a collection whose backing store holds nothing to
// search. Recovered locally as empty results, never fatal for the turn.
var ErrNoData = errors.New("collection has no indexed data")

// Passage is one retrieved unit of text. Created by a similarity search
// call, never mutated, lives for one turn.
type Passage struct {
	ID               string
	Text             string
	Score            float32
	SourceCollection string
}

// Searcher runs a top-K similarity search against one collection's index
type Searcher interface {
	Search(ctx context.Context, collectionID string, queryEmbedding []float32, topK int) ([]Passage, error)
}
