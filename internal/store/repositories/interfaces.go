package repositories

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a delete or lookup matches no row.
var ErrNotFound = errors.New("not found")

// ListParams is a resolved page request against one table.
type ListParams struct {
	Search        string
	SortField     string
	SortDirection string // "asc" or "desc"
	Limit         int
	Offset        int
}

// ListRepository defines the contract for list-backed content tables
type ListRepository[T any] interface {
	List(ctx context.Context, p ListParams) ([]T, error)
	Count(ctx context.Context, p ListParams) (int, error)
	Delete(ctx context.Context, id int64) error
}
