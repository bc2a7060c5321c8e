// Package category holds the fixed set of categories transactions are recorded against.
package category

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/spice-ledger/internal/model"
)

// Registry errors.
var (
	ErrEmptyName     = errors.New("category name cannot be empty")
	ErrDuplicateName = errors.New("duplicate category name")
	ErrInvalidType   = errors.New("invalid category type")
)

// Registry is an immutable, ordered set of categories.
// It is built once at startup and passed to whatever needs to resolve category names.
type Registry struct {
	byName     map[string]model.Category
	categories []model.Category
}

// New builds a registry from categories in registration order.
func New(categories ...model.Category) (*Registry, error) {
	r := &Registry{
		byName:     make(map[string]model.Category, len(categories)),
		categories: make([]model.Category, 0, len(categories)),
	}

	for _, cat := range categories {
		if strings.TrimSpace(cat.Name) == "" {
			return nil, ErrEmptyName
		}
		if _, err := model.ParseCategoryType(string(cat.Type)); err != nil {
			return nil, fmt.Errorf("%w: %s has type %q", ErrInvalidType, cat.Name, cat.Type)
		}
		if _, exists := r.byName[cat.Name]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateName, cat.Name)
		}
		r.byName[cat.Name] = cat
		r.categories = append(r.categories, cat)
	}

	return r, nil
}

// MustNew is like New but panics on an invalid category list.
func MustNew(categories ...model.Category) *Registry {
	r, err := New(categories...)
	if err != nil {
		panic(err)
	}
	return r
}

// FindByName returns the category with the given name.
// The second result is false when no such category exists.
func (r *Registry) FindByName(name string) (model.Category, bool) {
	cat, ok := r.byName[name]
	return cat, ok
}

// ListByType returns the categories of the given type in registration order.
func (r *Registry) ListByType(t model.CategoryType) []model.Category {
	var out []model.Category
	for _, cat := range r.categories {
		if cat.Type == t {
			out = append(out, cat)
		}
	}
	return out
}

// All returns every category in registration order.
func (r *Registry) All() []model.Category {
	out := make([]model.Category, len(r.categories))
	copy(out, r.categories)
	return out
}

// Len returns the number of registered categories.
func (r *Registry) Len() int {
	return len(r.categories)
}
