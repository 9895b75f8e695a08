package service

import (
	"context"

	"kb-assistant-be/internal/repository/contract"
	"kb-assistant-be/pkg/rag/registry"
)

// LoadCollectionRegistry reads every collection row and freezes it into the
// in-process registry. An empty table yields registry.ErrEmptyRegistry, the
// caller is expected to treat that as fatal at startup.
func LoadCollectionRegistry(ctx context.Context, repo contract.CollectionRepository) (*registry.Registry, error) {
	rows, err := repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	collections := make([]registry.Collection, 0, len(rows))
	for _, row := range rows {
		collections = append(collections, registry.Collection{
			ID:          row.Slug,
			Name:        row.Name,
			Description: row.Description,
			Metadata:    row.Metadata,
		})
	}

	return registry.NewRegistry(collections)
}
