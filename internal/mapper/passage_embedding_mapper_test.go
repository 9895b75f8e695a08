package mapper

import (
	"testing"
	"time"

	"kb-assistant-be/internal/entity"

	"github.com/google/uuid"
)

func TestPassageEmbeddingMapperRoundTrip(t *testing.T) {
	m := NewPassageEmbeddingMapper()

	now := time.Now()
	src := &entity.PassageEmbedding{
		Id:             uuid.New(),
		PassageKey:     "handbook#3",
		Document:       "Annual leave is 25 days.",
		EmbeddingValue: []float32{0.1, 0.2, 0.3},
		CollectionId:   uuid.New(),
		ChunkIndex:     3,
		CreatedAt:      now,
	}

	got := m.ToEntity(m.ToModel(src))
	if got.PassageKey != src.PassageKey || got.Document != src.Document {
		t.Errorf("got %+v", got)
	}
	if got.ChunkIndex != 3 || got.CollectionId != src.CollectionId {
		t.Errorf("got %+v", got)
	}
	if len(got.EmbeddingValue) != 3 || got.EmbeddingValue[1] != 0.2 {
		t.Errorf("embedding = %v", got.EmbeddingValue)
	}
	if got.IsDeleted {
		t.Error("round trip must not mark the row deleted")
	}
}

func TestPassageEmbeddingMapperSoftDelete(t *testing.T) {
	m := NewPassageEmbeddingMapper()

	deletedAt := time.Now()
	src := &entity.PassageEmbedding{
		Id:        uuid.New(),
		DeletedAt: &deletedAt,
	}

	got := m.ToEntity(m.ToModel(src))
	if !got.IsDeleted || got.DeletedAt == nil {
		t.Errorf("soft delete lost in round trip: %+v", got)
	}
}

func TestPassageEmbeddingMapperNil(t *testing.T) {
	m := NewPassageEmbeddingMapper()
	if m.ToEntity(nil) != nil || m.ToModel(nil) != nil {
		t.Error("nil must map to nil")
	}
}
