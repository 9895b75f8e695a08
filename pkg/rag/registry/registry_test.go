package registry

import (
	"errors"
	"testing"
)

func TestNewRegistry(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		_, err := NewRegistry(nil)
		if !errors.Is(err, ErrEmptyRegistry) {
			t.Errorf("error = %v, want ErrEmptyRegistry", err)
		}
	})

	t.Run("missing description", func(t *testing.T) {
		_, err := NewRegistry([]Collection{{ID: "a", Name: "A"}})
		if err == nil {
			t.Error("expected an error for missing description")
		}
	})

	t.Run("duplicate id", func(t *testing.T) {
		_, err := NewRegistry([]Collection{
			{ID: "a", Description: "first"},
			{ID: "a", Description: "second"},
		})
		if err == nil {
			t.Error("expected an error for duplicate id")
		}
	})

	t.Run("order preserved", func(t *testing.T) {
		reg, err := NewRegistry([]Collection{
			{ID: "z", Description: "last alphabetically, first loaded"},
			{ID: "a", Description: "first alphabetically, last loaded"},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		all := reg.All()
		if all[0].ID != "z" || all[1].ID != "a" {
			t.Errorf("order = %v, want load order", all)
		}

		if !reg.Has("z") || reg.Has("missing") {
			t.Error("membership checks failed")
		}
		if got, ok := reg.Get("a"); !ok || got.Description == "" {
			t.Errorf("Get(a) = %v, %v", got, ok)
		}
		if reg.Len() != 2 {
			t.Errorf("Len = %d", reg.Len())
		}
	})
}
