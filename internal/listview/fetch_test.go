package listview

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveDerivesTotalPages(t *testing.T) {
	src := newFakeSource(23)
	o := NewOrchestrator[row]("rows", src, nil, nil)

	res, applied := o.Resolve(context.Background(), ListQuery{Page: 1, ItemsPerPage: 10}, KindInitial)

	require.True(t, applied)
	assert.Len(t, res.Items, 10)
	assert.Equal(t, 23, res.TotalItems)
	assert.Equal(t, 3, res.TotalPages)
	assert.Equal(t, res, o.Current())
}

func TestResolveDropsStaleResult(t *testing.T) {
	src := newFakeSource(30)
	o := NewOrchestrator[row]("rows", src, nil, nil)
	releaseFirst := src.hold(func(q ListQuery) bool { return q.SortField == "title" })

	first := o.Issue(context.Background(), ListQuery{Page: 1, ItemsPerPage: 10, SortField: "title", SortDirection: SortAsc}, KindSort)
	second := o.Issue(context.Background(), ListQuery{Page: 2, ItemsPerPage: 10}, KindPage)

	b := <-second
	releaseFirst()
	a := <-first

	assert.True(t, b.Applied)
	assert.False(t, a.Applied)
	assert.Equal(t, b.Result, o.Current())
	assert.Equal(t, "11", o.Current().Items[0].ID)
}

func TestObserverReceivesLatestResultLast(t *testing.T) {
	src := newFakeSource(30)
	src.listErr = errors.New("read tcp 10.0.0.2:5432: connection reset by peer")
	n := newStallingNotifier()
	obs := &recordingObserver{}
	o := NewOrchestrator[row]("rows", src, n, obs)

	first := o.Issue(context.Background(), ListQuery{Page: 1, ItemsPerPage: 10}, KindInitial)
	<-n.entered
	src.setListErr(nil)
	second := o.Issue(context.Background(), ListQuery{Page: 2, ItemsPerPage: 10}, KindPage)
	require.Eventually(t, func() bool {
		res := o.Current()
		return res.Error == nil && len(res.Items) == 10
	}, time.Second, 5*time.Millisecond)

	close(n.release)
	<-first
	b := <-second

	require.True(t, b.Applied)
	q, res := obs.last()
	assert.Equal(t, 2, q.Page)
	assert.NoError(t, res.Error)
	assert.Equal(t, o.Current(), res)
	assert.Equal(t, "11", res.Items[0].ID)
}

func TestPageCountIgnoresFailedResults(t *testing.T) {
	src := newFakeSource(23)
	o := NewOrchestrator[row]("rows", src, nil, nil)
	_, ok := o.PageCount()
	assert.False(t, ok)

	o.Resolve(context.Background(), ListQuery{Page: 1, ItemsPerPage: 10}, KindInitial)
	src.setListErr(errors.New("api: status 503: unavailable"))
	res, _ := o.Resolve(context.Background(), ListQuery{Page: 2, ItemsPerPage: 10}, KindPage)
	require.Error(t, res.Error)

	pages, ok := o.PageCount()
	assert.True(t, ok)
	assert.Equal(t, 3, pages)
}

func TestResolveSoftErrorIsSilentlyEmpty(t *testing.T) {
	src := newFakeSource(3)
	src.listErr = fmt.Errorf("query articles: %w", ErrNoRows)
	n := &recordingNotifier{}
	o := NewOrchestrator[row]("rows", src, n, nil)

	res, applied := o.Resolve(context.Background(), ListQuery{Page: 1, ItemsPerPage: 10}, KindSearch)

	require.True(t, applied)
	assert.True(t, res.Empty())
	assert.NoError(t, res.Error)
	assert.Equal(t, 1, res.TotalPages)
	assert.Zero(t, n.errorCount())
}

func TestResolveCriticalErrorIsSurfaced(t *testing.T) {
	src := newFakeSource(3)
	src.listErr = errors.New(`relation "articles" does not exist`)
	n := &recordingNotifier{}
	o := NewOrchestrator[row]("articles", src, n, nil)

	res, applied := o.Resolve(context.Background(), ListQuery{Page: 2, ItemsPerPage: 10}, KindPage)

	require.True(t, applied)
	assert.True(t, res.Empty())
	assert.Error(t, res.Error)
	assert.Equal(t, 1, res.TotalPages)
	assert.Equal(t, 1, n.errorCount())
}

func TestResolveKeepsResultWhenCallerCancels(t *testing.T) {
	src := newFakeSource(5)
	o := NewOrchestrator[row]("rows", src, nil, nil)
	first, _ := o.Resolve(context.Background(), ListQuery{Page: 1, ItemsPerPage: 10}, KindInitial)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	src.listErr = context.Canceled
	_, applied := o.Resolve(ctx, ListQuery{Page: 1, ItemsPerPage: 2}, KindPageSize)

	assert.False(t, applied)
	assert.Equal(t, first, o.Current())
}

func TestPresentationFor(t *testing.T) {
	assert.Equal(t, PresentSkeleton, PresentationFor(KindInitial))
	assert.Equal(t, PresentSkeleton, PresentationFor(KindPageSize))
	assert.Equal(t, PresentInline, PresentationFor(KindSearch))
	assert.Equal(t, PresentInline, PresentationFor(KindSort))
	assert.Equal(t, PresentInline, PresentationFor(KindPage))
	assert.Equal(t, PresentSilent, PresentationFor(KindPostDelete))
}

func TestClassify(t *testing.T) {
	assert.Equal(t, SeverityNone, Classify(nil))
	assert.Equal(t, SeveritySoft, Classify(ErrNoRows))
	assert.Equal(t, SeveritySoft, Classify(errors.New("JSON object requested, multiple (or no) rows returned: PGRST116")))
	assert.Equal(t, SeverityCritical, Classify(errors.New("failed to connect to `host=db`: dial error")))
	assert.Equal(t, SeverityCritical, Classify(&net.OpError{Op: "dial", Err: errors.New("boom")}))
	assert.Equal(t, SeverityCritical, Classify(errors.New("api: status 502: bad gateway")))
	assert.Equal(t, SeverityCritical, Classify(errors.New("something odd")))
}

func TestEmptyMessage(t *testing.T) {
	assert.Equal(t, "No items yet.", EmptyMessage(ListQuery{}))
	assert.Equal(t, "No items match your search.", EmptyMessage(ListQuery{SearchQuery: "x"}))
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 1, TotalPages(0, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 3, TotalPages(23, 10))
	assert.Equal(t, 3, TotalPages(11, 5))
}
