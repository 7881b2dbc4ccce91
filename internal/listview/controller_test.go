package listview

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestController(t *testing.T, src *fakeSource, rawURL string, perPage int, edit func(*Config[row])) (*Controller[row], *MemoryLocation) {
	t.Helper()
	loc, err := ParseLocation(rawURL)
	require.NoError(t, err)
	cfg := Config[row]{
		Name:           "rows",
		Codec:          testCodec(perPage),
		Columns:        testColumns,
		Source:         src,
		Location:       loc,
		IDOf:           func(r row) string { return r.ID },
		LabelOf:        func(r row) string { return r.Title },
		SearchDebounce: 20 * time.Millisecond,
	}
	if edit != nil {
		edit(&cfg)
	}
	c := New(cfg)
	c.Mount(context.Background())
	t.Cleanup(c.Unmount)
	return c, loc
}

func TestMountDecodesLocation(t *testing.T) {
	src := newFakeSource(12)
	c, _ := newTestController(t, src, "/rows?page=2&limit=5", 10, nil)

	assert.Equal(t, 2, c.Query().Page)
	assert.Equal(t, 5, c.Query().ItemsPerPage)
	res := c.Result()
	require.Len(t, res.Items, 5)
	assert.Equal(t, "6", res.Items[0].ID)
	assert.Equal(t, 3, res.TotalPages)
}

func TestHandleSearchResetsPage(t *testing.T) {
	src := newFakeSource(40)
	c, loc := newTestController(t, src, "/rows?page=3", 5, nil)

	assert.True(t, c.HandleSearch("  row 1 "))
	assert.Equal(t, 1, c.Query().Page)
	assert.Equal(t, "row 1", c.Query().SearchQuery)
	assert.Equal(t, "1", loc.Values().Get("page"))
	assert.Equal(t, "row 1", loc.Values().Get("query"))

	c.Wait()
	assert.Equal(t, 10, c.Result().TotalItems)
}

func TestHandlePageChangeSamePageIsNoop(t *testing.T) {
	src := newFakeSource(40)
	c, loc := newTestController(t, src, "/rows?page=2", 5, nil)
	calls, entries, before := src.callCount(), loc.Len(), loc.String()

	assert.False(t, c.HandlePageChange(2))
	c.Wait()

	assert.Equal(t, calls, src.callCount())
	assert.Equal(t, entries, loc.Len())
	assert.Equal(t, before, loc.String())
}

func TestHandlePageChangeClampsToLastPage(t *testing.T) {
	src := newFakeSource(23)
	c, loc := newTestController(t, src, "/rows", 10, nil)
	require.Equal(t, 3, c.Result().TotalPages)
	assert.Equal(t, "created_at", c.Query().SortField)
	assert.Equal(t, SortDesc, c.Query().SortDirection)

	assert.True(t, c.HandlePageChange(4))
	c.Wait()

	assert.Equal(t, 3, c.Query().Page)
	assert.Equal(t, "3", loc.Values().Get("page"))
	assert.Len(t, c.Result().Items, 3)

	assert.True(t, c.HandlePageChange(-2))
	assert.Equal(t, 1, c.Query().Page)
}

func TestPageChangeAfterFailedMount(t *testing.T) {
	src := newFakeSource(30)
	src.listErr = errors.New("dial tcp 127.0.0.1:8080: connect: connection refused")
	c, loc := newTestController(t, src, "/rows", 10, nil)
	require.Error(t, c.Result().Error)
	require.Equal(t, 1, c.Result().TotalPages)

	src.setListErr(nil)
	calls := src.callCount()

	assert.True(t, c.HandlePageChange(2))
	c.Wait()

	assert.Equal(t, calls+1, src.callCount())
	assert.Equal(t, "2", loc.Values().Get("page"))
	assert.NoError(t, c.Result().Error)
	assert.Equal(t, "11", c.Result().Items[0].ID)
}

func TestPageChangeRetriesFailedPage(t *testing.T) {
	src := newFakeSource(30)
	c, loc := newTestController(t, src, "/rows", 10, nil)
	require.Equal(t, 3, c.Result().TotalPages)

	src.setListErr(errors.New("api: status 502: bad gateway"))
	require.True(t, c.HandlePageChange(2))
	c.Wait()
	require.Error(t, c.Result().Error)

	src.setListErr(nil)
	entries := loc.Len()
	assert.True(t, c.HandlePageChange(2))
	c.Wait()

	assert.Equal(t, entries, loc.Len())
	assert.NoError(t, c.Result().Error)
	assert.Equal(t, "11", c.Result().Items[0].ID)
	assert.False(t, c.HandlePageChange(2))

	src.setListErr(errors.New("api: status 502: bad gateway"))
	require.True(t, c.HandlePageChange(1))
	c.Wait()
	require.Error(t, c.Result().Error)
	src.setListErr(nil)

	// the failed load does not shrink the known page range
	assert.True(t, c.HandlePageChange(9))
	c.Wait()
	assert.Equal(t, 3, c.Query().Page)
	assert.Equal(t, "21", c.Result().Items[0].ID)
}

func TestWaitCoversFetchesIssuedWhileWaiting(t *testing.T) {
	src := newFakeSource(40)
	c, _ := newTestController(t, src, "/rows", 5, nil)
	release := src.hold(func(q ListQuery) bool { return q.Page == 2 })
	require.True(t, c.HandlePageChange(2))

	done := make(chan struct{})
	go func() {
		c.Wait()
		close(done)
	}()

	c.HandleSearchInput("row 3")
	require.Eventually(t, func() bool { return c.Query().SearchQuery == "row 3" }, time.Second, 5*time.Millisecond)
	select {
	case <-done:
		t.Fatal("Wait returned while a fetch was held")
	default:
	}
	release()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Wait did not return")
	}
	assert.Equal(t, 10, c.Result().TotalItems)
}

func TestLatestIssuedFetchWins(t *testing.T) {
	src := newFakeSource(30)
	c, _ := newTestController(t, src, "/rows", 10, nil)
	release := src.hold(func(q ListQuery) bool { return q.SortField == "title" && q.Page == 1 })

	require.NoError(t, c.HandleSort("title"))
	require.True(t, c.HandlePageChange(2))

	require.Eventually(t, func() bool {
		res := c.Result()
		return len(res.Items) > 0 && res.Items[0].ID == "11"
	}, time.Second, 5*time.Millisecond)

	release()
	c.Wait()

	assert.Equal(t, 2, c.Query().Page)
	assert.Equal(t, "11", c.Result().Items[0].ID)
}

func TestHandleSortRejectsUnsortableField(t *testing.T) {
	src := newFakeSource(5)
	c, loc := newTestController(t, src, "/rows", 10, nil)
	entries := loc.Len()

	err := c.HandleSort("actions")

	assert.True(t, errors.Is(err, ErrNotSortable))
	assert.Equal(t, entries, loc.Len())
	assert.Equal(t, "created_at", c.Query().SortField)
}

func TestHandleSortCyclesThroughURL(t *testing.T) {
	src := newFakeSource(5)
	c, loc := newTestController(t, src, "/rows", 10, nil)

	require.NoError(t, c.HandleSort("title"))
	assert.Equal(t, Sort{"title", SortAsc}, c.Query().Sort())
	require.NoError(t, c.HandleSort("title"))
	assert.Equal(t, Sort{"title", SortDesc}, c.Query().Sort())
	require.NoError(t, c.HandleSort("title"))
	assert.True(t, c.Query().Sort().IsZero())

	v := loc.Values()
	_, present := v["sortField"]
	assert.True(t, present)
	assert.Equal(t, "", v.Get("sortField"))
	c.Wait()
}

func TestHandleItemsPerPageChange(t *testing.T) {
	src := newFakeSource(40)
	obs := &recordingObserver{}
	c, _ := newTestController(t, src, "/rows?page=3", 5, func(cfg *Config[row]) { cfg.Observer = obs })

	require.NoError(t, c.HandleItemsPerPageChange(20))
	c.Wait()

	assert.Equal(t, 1, c.Query().Page)
	assert.Equal(t, 20, c.Query().ItemsPerPage)
	assert.Len(t, c.Result().Items, 20)
	obs.mu.Lock()
	assert.Equal(t, []Presentation{PresentSkeleton, PresentSkeleton}, obs.loading)
	obs.mu.Unlock()

	assert.True(t, errors.Is(c.HandleItemsPerPageChange(0), ErrInvalidItemsPerPage))
}

func TestBackNavigationRefetches(t *testing.T) {
	src := newFakeSource(40)
	c, loc := newTestController(t, src, "/rows", 5, nil)

	require.True(t, c.HandlePageChange(4))
	c.Wait()
	require.True(t, loc.Back())
	c.Wait()

	assert.Equal(t, 1, c.Query().Page)
	assert.Equal(t, "1", c.Result().Items[0].ID)
	require.True(t, loc.Forward())
	c.Wait()
	assert.Equal(t, 4, c.Query().Page)
}

func TestDebouncedSearchInput(t *testing.T) {
	src := newFakeSource(40)
	c, loc := newTestController(t, src, "/rows?page=2", 5, nil)
	entries := loc.Len()

	for _, text := range []string{"r", "ro", "row", "row 2"} {
		c.HandleSearchInput(text)
	}
	require.Eventually(t, func() bool { return c.Query().SearchQuery == "row 2" }, time.Second, 5*time.Millisecond)
	c.Wait()

	assert.Equal(t, entries+1, loc.Len())
	assert.Equal(t, 1, c.Query().Page)

	c.HandleClearSearch()
	assert.Equal(t, "", c.Query().SearchQuery)
	c.Wait()
	assert.Equal(t, 40, c.Result().TotalItems)
}

func TestUnmountStopsHandlers(t *testing.T) {
	src := newFakeSource(10)
	c, loc := newTestController(t, src, "/rows", 5, nil)
	c.Unmount()
	entries := loc.Len()

	assert.False(t, c.HandlePageChange(2))
	loc.Push(url.Values{"page": {"2"}})
	c.Wait()

	assert.Equal(t, entries+1, loc.Len())
	assert.Equal(t, 1, c.Query().Page)
}

func TestCanDeleteUsesRoleLookup(t *testing.T) {
	src := newFakeSource(3)
	role := "editor"
	c, _ := newTestController(t, src, "/rows", 5, func(cfg *Config[row]) {
		cfg.Roles = RoleFunc(func(context.Context) (string, error) { return role, nil })
		cfg.DeleteRoles = []string{"admin"}
	})

	assert.False(t, c.CanDelete(context.Background()))
	_, err := c.HandleDelete(context.Background(), row{ID: "1"})
	assert.True(t, errors.Is(err, ErrForbidden))

	role = "Admin"
	assert.True(t, c.CanDelete(context.Background()))
}
