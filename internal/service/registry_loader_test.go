package service

import (
	"context"
	"errors"
	"testing"

	"kb-assistant-be/internal/entity"
	"kb-assistant-be/pkg/rag/registry"

	"github.com/google/uuid"
)

type fakeCollectionRepo struct {
	rows []*entity.Collection
	err  error
}

func (f *fakeCollectionRepo) Create(ctx context.Context, collection *entity.Collection) error {
	f.rows = append(f.rows, collection)
	return nil
}

func (f *fakeCollectionRepo) FindAll(ctx context.Context) ([]*entity.Collection, error) {
	return f.rows, f.err
}

func (f *fakeCollectionRepo) FindBySlug(ctx context.Context, slug string) (*entity.Collection, error) {
	for _, row := range f.rows {
		if row.Slug == slug {
			return row, nil
		}
	}
	return nil, nil
}

func TestLoadCollectionRegistry(t *testing.T) {
	repo := &fakeCollectionRepo{rows: []*entity.Collection{
		{Id: uuid.New(), Slug: "hr-policies", Name: "HR", Description: "Employment policies"},
		{Id: uuid.New(), Slug: "finance", Name: "Finance", Description: "Expenses and budgets"},
	}}

	reg, err := LoadCollectionRegistry(context.Background(), repo)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	all := reg.All()
	if len(all) != 2 || all[0].ID != "hr-policies" || all[1].ID != "finance" {
		t.Errorf("registry order = %v, want table order", all)
	}
}

func TestLoadCollectionRegistryEmptyTableIsFatal(t *testing.T) {
	_, err := LoadCollectionRegistry(context.Background(), &fakeCollectionRepo{})
	if !errors.Is(err, registry.ErrEmptyRegistry) {
		t.Errorf("error = %v, want ErrEmptyRegistry", err)
	}
}

func TestLoadCollectionRegistryRepoError(t *testing.T) {
	repoErr := errors.New("db down")
	_, err := LoadCollectionRegistry(context.Background(), &fakeCollectionRepo{err: repoErr})
	if !errors.Is(err, repoErr) {
		t.Errorf("error = %v, want the repository error", err)
	}
}
