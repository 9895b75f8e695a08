package registry

import (
	"errors"
	"fmt"
)

var ErrEmptyRegistry = errors.New("collection registry is empty")

// Collection is a named partition of the knowledge base. The description is
// what the router sees when deciding where a query belongs.
type Collection struct {
	ID          string
	Name        string
	Description string
	Metadata    map[string]interface{}
}

// Registry is the immutable id -> collection mapping loaded at startup.
// Order is load order and is preserved for router prompting.
type Registry struct {
	ordered []Collection
	byID    map[string]Collection
}

func NewRegistry(collections []Collection) (*Registry, error) {
	if len(collections) == 0 {
		return nil, ErrEmptyRegistry
	}

	byID := make(map[string]Collection, len(collections))
	for _, c := range collections {
		if c.ID == "" || c.Description == "" {
			return nil, fmt.Errorf("collection %q is missing id or description", c.Name)
		}
		if _, exists := byID[c.ID]; exists {
			return nil, fmt.Errorf("duplicate collection id %q", c.ID)
		}
		byID[c.ID] = c
	}

	return &Registry{
		ordered: collections,
		byID:    byID,
	}, nil
}

func (r *Registry) Len() int {
	return len(r.ordered)
}

// All returns the collections in load order
func (r *Registry) All() []Collection {
	out := make([]Collection, len(r.ordered))
	copy(out, r.ordered)
	return out
}

func (r *Registry) Get(id string) (Collection, bool) {
	c, ok := r.byID[id]
	return c, ok
}

func (r *Registry) Has(id string) bool {
	_, ok := r.byID[id]
	return ok
}
