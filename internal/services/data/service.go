package data

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"newsdesk/internal/domain/content"
	"newsdesk/internal/store/repositories"

	"golang.org/x/sync/errgroup"
)

var (
	ErrUnknownResource = errors.New("unknown resource")
	ErrInvalidRequest  = errors.New("invalid list request")
	ErrNotFound        = repositories.ErrNotFound
)

type collection interface {
	list(ctx context.Context, p repositories.ListParams) (any, int, error)
	delete(ctx context.Context, id int64) error
}

type typedCollection[T any] struct {
	repo repositories.ListRepository[T]
}

func (c typedCollection[T]) list(ctx context.Context, p repositories.ListParams) (any, int, error) {
	var (
		items []T
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = c.repo.List(gctx, p)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = c.repo.Count(gctx, p)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	if items == nil {
		items = []T{}
	}
	return items, total, nil
}

func (c typedCollection[T]) delete(ctx context.Context, id int64) error {
	return c.repo.Delete(ctx, id)
}

// Service handles list and delete operations for every content resource
type Service struct {
	maxLimit    int
	collections map[content.Resource]collection
}

// NewService creates a new data service
func NewService(maxLimit int) *Service {
	return &Service{
		maxLimit:    maxLimit,
		collections: make(map[content.Resource]collection),
	}
}

// Register binds a repository to a resource name.
func Register[T any](s *Service, r content.Resource, repo repositories.ListRepository[T]) {
	s.collections[r] = typedCollection[T]{repo: repo}
}

// Resources returns the registered resource names, sorted.
func (s *Service) Resources() []content.Resource {
	out := make([]content.Resource, 0, len(s.collections))
	for r := range s.collections {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// List retrieves one page plus the total match count for a resource
func (s *Service) List(ctx context.Context, r content.Resource, req ListRequest) (*ListResponse, error) {
	c, ok := s.collections[r]
	if !ok {
		return nil, &ServiceError{Op: "list_" + string(r), Err: ErrUnknownResource}
	}

	req.Normalize(s.maxLimit)
	if err := req.Validate(); err != nil {
		return nil, &ServiceError{Op: "list_" + string(r), Err: fmt.Errorf("%w: %v", ErrInvalidRequest, err)}
	}

	items, total, err := c.list(ctx, req.params())
	if err != nil {
		return nil, &ServiceError{Op: "list_" + string(r), Err: err}
	}

	return &ListResponse{
		Data:       items,
		TotalItems: total,
		TotalPages: TotalPages(total, req.Limit),
	}, nil
}

// Delete removes one entity of a resource
func (s *Service) Delete(ctx context.Context, r content.Resource, id int64) error {
	c, ok := s.collections[r]
	if !ok {
		return &ServiceError{Op: "delete_" + string(r), Err: ErrUnknownResource}
	}
	if err := c.delete(ctx, id); err != nil {
		return &ServiceError{Op: "delete_" + string(r), Err: err}
	}
	return nil
}

// ServiceError represents a data service error
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	return "data service " + e.Op + ": " + e.Err.Error()
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}
