package mapper

import (
	"encoding/json"
	"time"

	"kb-assistant-be/internal/entity"
	"kb-assistant-be/internal/model"

	"gorm.io/datatypes"
)

type CollectionMapper struct{}

func NewCollectionMapper() *CollectionMapper {
	return &CollectionMapper{}
}

func (m *CollectionMapper) ToEntity(e *model.Collection) *entity.Collection {
	if e == nil {
		return nil
	}

	var updatedAt *time.Time
	if !e.UpdatedAt.IsZero() {
		t := e.UpdatedAt
		updatedAt = &t
	}

	var metadata map[string]any
	if len(e.Metadata) > 0 {
		// Malformed metadata is tolerated, the row stays usable without it.
		_ = json.Unmarshal(e.Metadata, &metadata)
	}

	return &entity.Collection{
		Id:          e.Id,
		Slug:        e.Slug,
		Name:        e.Name,
		Description: e.Description,
		Metadata:    metadata,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

func (m *CollectionMapper) ToModel(e *entity.Collection) *model.Collection {
	if e == nil {
		return nil
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	var metadata datatypes.JSON
	if len(e.Metadata) > 0 {
		if raw, err := json.Marshal(e.Metadata); err == nil {
			metadata = raw
		}
	}

	return &model.Collection{
		Id:          e.Id,
		Slug:        e.Slug,
		Name:        e.Name,
		Description: e.Description,
		Metadata:    metadata,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

func (m *CollectionMapper) ToEntities(collections []*model.Collection) []*entity.Collection {
	entities := make([]*entity.Collection, len(collections))
	for i, e := range collections {
		entities[i] = m.ToEntity(e)
	}
	return entities
}
