package contract

import (
	"context"

	"kb-assistant-be/internal/entity"
)

type CollectionRepository interface {
	Create(ctx context.Context, collection *entity.Collection) error
	FindAll(ctx context.Context) ([]*entity.Collection, error)
	FindBySlug(ctx context.Context, slug string) (*entity.Collection, error)
}
