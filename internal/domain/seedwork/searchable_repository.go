package seedwork

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

type SearchOrder int

const (
	OrderAsc SearchOrder = iota
	OrderDesc
)

const (
	DefaultPerPage = 15
	MaxPerPage     = 100
)

// ParseSearchOrder accepts "asc"/"desc" in any case; anything else is ascending.
func ParseSearchOrder(s string) SearchOrder {
	if strings.EqualFold(strings.TrimSpace(s), "desc") {
		return OrderDesc
	}
	return OrderAsc
}

// SearchInput is the generic search-by-criteria request.
type SearchInput struct {
	Page    int
	PerPage int
	Search  string
	OrderBy string
	Order   SearchOrder
}

// Normalize clamps paging to sane bounds.
func (in SearchInput) Normalize() SearchInput {
	if in.Page < 1 {
		in.Page = 1
	}
	if in.PerPage < 1 {
		in.PerPage = DefaultPerPage
	}
	if in.PerPage > MaxPerPage {
		in.PerPage = MaxPerPage
	}
	in.Search = strings.TrimSpace(in.Search)
	return in
}

// Offset is the number of items skipped before the requested page.
func (in SearchInput) Offset() int {
	return (in.Page - 1) * in.PerPage
}

type SearchOutput[T any] struct {
	CurrentPage int
	PerPage     int
	Total       int
	Items       []T
}

// SearchableRepository searches aggregates by criteria.
type SearchableRepository[T any] interface {
	Search(ctx context.Context, in SearchInput) (SearchOutput[T], error)
}

// Repository is the CRUD contract shared by every persisted type.
type Repository[T Identifiable] interface {
	SearchableRepository[T]
	Insert(ctx context.Context, item T) error
	Get(ctx context.Context, id uuid.UUID) (T, error)
	Update(ctx context.Context, item T) error
	Delete(ctx context.Context, item T) error
}
