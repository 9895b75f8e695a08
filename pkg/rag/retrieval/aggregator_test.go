package retrieval

import (
	"context"
	"errors"
	"testing"

	"kb-assistant-be/internal/pkg/logger"
	"kb-assistant-be/pkg/embedding"
)

type fakeEmbedder struct {
	calls    int
	taskType string
	err      error
}

func (f *fakeEmbedder) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	f.calls++
	f.taskType = taskType
	if f.err != nil {
		return nil, f.err
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{0.1, 0.2, 0.3}},
	}, nil
}

type fakeSearcher struct {
	byCollection map[string][]Passage
	errs         map[string]error
	searched     []string
	lastTopK     int
}

func (f *fakeSearcher) Search(ctx context.Context, collectionID string, queryEmbedding []float32, topK int) ([]Passage, error) {
	f.searched = append(f.searched, collectionID)
	f.lastTopK = topK
	if err, ok := f.errs[collectionID]; ok {
		return nil, err
	}
	return f.byCollection[collectionID], nil
}

func TestRetrievePreservesRouterOrder(t *testing.T) {
	searcher := &fakeSearcher{
		byCollection: map[string][]Passage{
			"finance":     {{ID: "f#0", SourceCollection: "finance"}, {ID: "f#1", SourceCollection: "finance"}},
			"hr-policies": {{ID: "h#0", SourceCollection: "hr-policies"}},
		},
	}
	agg := NewAggregator(&fakeEmbedder{}, searcher, 5, logger.NewNopLogger())

	passages, err := agg.Retrieve(context.Background(), "query", []string{"finance", "hr-policies"})
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}

	wantIDs := []string{"f#0", "f#1", "h#0"}
	if len(passages) != len(wantIDs) {
		t.Fatalf("got %d passages, want %d", len(passages), len(wantIDs))
	}
	for i, want := range wantIDs {
		if passages[i].ID != want {
			t.Errorf("passage %d = %s, want %s", i, passages[i].ID, want)
		}
	}
}

func TestRetrieveEmbedsQueryOnce(t *testing.T) {
	embedder := &fakeEmbedder{}
	searcher := &fakeSearcher{}
	agg := NewAggregator(embedder, searcher, 5, logger.NewNopLogger())

	if _, err := agg.Retrieve(context.Background(), "query", []string{"a", "b", "c"}); err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if embedder.calls != 1 {
		t.Errorf("embedding calls = %d, want 1", embedder.calls)
	}
	if embedder.taskType != "RETRIEVAL_QUERY" {
		t.Errorf("task type = %s, want RETRIEVAL_QUERY", embedder.taskType)
	}
	if len(searcher.searched) != 3 {
		t.Errorf("searched %v, want all 3 collections", searcher.searched)
	}
	if searcher.lastTopK != 5 {
		t.Errorf("topK = %d, want 5", searcher.lastTopK)
	}
}

func TestRetrieveFailingCollectionIsSkipped(t *testing.T) {
	searcher := &fakeSearcher{
		byCollection: map[string][]Passage{
			"good": {{ID: "g#0"}},
		},
		errs: map[string]error{
			"broken": ErrNoData,
		},
	}
	agg := NewAggregator(&fakeEmbedder{}, searcher, 5, logger.NewNopLogger())

	passages, err := agg.Retrieve(context.Background(), "query", []string{"broken", "good"})
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if len(passages) != 1 || passages[0].ID != "g#0" {
		t.Errorf("passages = %v, want only the good collection's result", passages)
	}
}

func TestRetrieveContextCancellationAborts(t *testing.T) {
	searcher := &fakeSearcher{
		errs: map[string]error{
			"a": context.Canceled,
		},
	}
	agg := NewAggregator(&fakeEmbedder{}, searcher, 5, logger.NewNopLogger())

	_, err := agg.Retrieve(context.Background(), "query", []string{"a", "b"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if len(searcher.searched) != 1 {
		t.Errorf("searched %v, cancellation must stop the loop", searcher.searched)
	}
}

func TestRetrieveNoCollections(t *testing.T) {
	embedder := &fakeEmbedder{}
	agg := NewAggregator(embedder, &fakeSearcher{}, 5, logger.NewNopLogger())

	passages, err := agg.Retrieve(context.Background(), "query", nil)
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if passages != nil {
		t.Errorf("passages = %v, want nil", passages)
	}
	if embedder.calls != 0 {
		t.Error("no collections must mean no embedding call")
	}
}

func TestRetrieveEmbeddingFailure(t *testing.T) {
	embedder := &fakeEmbedder{err: errors.New("provider down")}
	agg := NewAggregator(embedder, &fakeSearcher{}, 5, logger.NewNopLogger())

	_, err := agg.Retrieve(context.Background(), "query", []string{"a"})
	if err == nil {
		t.Fatal("expected the embedding error to surface")
	}
}
