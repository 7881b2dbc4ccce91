package data

import (
	"context"
	"errors"
	"sync"
	"testing"

	"newsdesk/internal/domain/content"
	"newsdesk/internal/store/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	mu      sync.Mutex
	items   []content.Tag
	total   int
	listErr error
	params  []repositories.ListParams
	deleted []int64
}

func (f *fakeRepo) List(_ context.Context, p repositories.ListParams) ([]content.Tag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.params = append(f.params, p)
	return f.items, f.listErr
}

func (f *fakeRepo) Count(_ context.Context, _ repositories.ListParams) (int, error) {
	return f.total, nil
}

func (f *fakeRepo) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id == 404 {
		return repositories.ErrNotFound
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func newTestService(repo *fakeRepo) *Service {
	svc := NewService(50)
	Register[content.Tag](svc, content.ResourceTags, repo)
	return svc
}

func TestListReturnsPageAndTotals(t *testing.T) {
	repo := &fakeRepo{items: []content.Tag{{ID: 1, Name: "go"}}, total: 25}
	svc := newTestService(repo)

	resp, err := svc.List(context.Background(), content.ResourceTags, ListRequest{Page: 3, Limit: 10, Search: "  go ", SortField: "name"})
	require.NoError(t, err)

	assert.Equal(t, 25, resp.TotalItems)
	assert.Equal(t, 3, resp.TotalPages)
	assert.Nil(t, resp.Error)
	assert.Len(t, resp.Data, 1)

	require.Len(t, repo.params, 1)
	assert.Equal(t, repositories.ListParams{Search: "go", SortField: "name", SortDirection: "desc", Limit: 10, Offset: 20}, repo.params[0])
}

func TestListEmptyResultStillHasOnePage(t *testing.T) {
	svc := newTestService(&fakeRepo{})

	resp, err := svc.List(context.Background(), content.ResourceTags, ListRequest{})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.TotalPages)
	assert.Equal(t, []content.Tag{}, resp.Data)
}

func TestListClampsLimitToMax(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo)

	_, err := svc.List(context.Background(), content.ResourceTags, ListRequest{Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, 50, repo.params[0].Limit)
}

func TestListRejectsBadDirection(t *testing.T) {
	svc := newTestService(&fakeRepo{})

	_, err := svc.List(context.Background(), content.ResourceTags, ListRequest{SortField: "name", SortDirection: "sideways"})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestListRejectsPageBeyondMax(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo)

	_, err := svc.List(context.Background(), content.ResourceTags, ListRequest{Page: MaxPage + 1, Limit: 100})
	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.Empty(t, repo.params)

	_, err = svc.List(context.Background(), content.ResourceTags, ListRequest{Page: MaxPage, Limit: 100})
	require.NoError(t, err)
	require.Len(t, repo.params, 1)
	assert.Equal(t, (MaxPage-1)*50, repo.params[0].Offset)
}

func TestListUnknownResource(t *testing.T) {
	svc := newTestService(&fakeRepo{})

	_, err := svc.List(context.Background(), content.ResourcePhotos, ListRequest{})
	assert.ErrorIs(t, err, ErrUnknownResource)
}

func TestListWrapsRepositoryError(t *testing.T) {
	boom := errors.New("connection refused")
	svc := newTestService(&fakeRepo{listErr: boom})

	_, err := svc.List(context.Background(), content.ResourceTags, ListRequest{})
	var se *ServiceError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "list_tags", se.Op)
	assert.ErrorIs(t, err, boom)
}

func TestDelete(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo)

	require.NoError(t, svc.Delete(context.Background(), content.ResourceTags, 7))
	assert.Equal(t, []int64{7}, repo.deleted)

	err := svc.Delete(context.Background(), content.ResourceTags, 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 1, TotalPages(0, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 2, TotalPages(11, 10))
	assert.Equal(t, 1, TotalPages(5, 0))
}
