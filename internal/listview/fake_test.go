package listview

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

type row struct {
	ID    string
	Title string
}

// fakeSource serves rows from memory. Calls can be held open with gates.
type fakeSource struct {
	mu        sync.Mutex
	rows      []row
	calls     []ListQuery
	deletes   []string
	listErr   error
	deleteErr error
	gates     []gate
}

type gate struct {
	match func(ListQuery) bool
	ch    chan struct{}
}

func newFakeSource(n int) *fakeSource {
	s := &fakeSource{}
	for i := 1; i <= n; i++ {
		s.rows = append(s.rows, row{ID: fmt.Sprint(i), Title: fmt.Sprintf("row %02d", i)})
	}
	return s
}

// hold makes List calls matching match block until the returned func runs.
func (s *fakeSource) hold(match func(ListQuery) bool) func() {
	ch := make(chan struct{})
	s.mu.Lock()
	s.gates = append(s.gates, gate{match: match, ch: ch})
	s.mu.Unlock()
	return func() { close(ch) }
}

func (s *fakeSource) List(ctx context.Context, q ListQuery) (Page[row], error) {
	s.mu.Lock()
	s.calls = append(s.calls, q)
	var wait chan struct{}
	for _, g := range s.gates {
		if g.match(q) {
			wait = g.ch
			break
		}
	}
	s.mu.Unlock()
	if wait != nil {
		<-wait
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return Page[row]{}, s.listErr
	}
	var matched []row
	for _, r := range s.rows {
		if q.SearchQuery == "" || strings.Contains(r.Title, q.SearchQuery) {
			matched = append(matched, r)
		}
	}
	if q.SortField == "title" {
		sort.SliceStable(matched, func(i, j int) bool {
			if q.SortDirection == SortDesc {
				return matched[i].Title > matched[j].Title
			}
			return matched[i].Title < matched[j].Title
		})
	}
	start := q.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + q.ItemsPerPage
	if end > len(matched) {
		end = len(matched)
	}
	return Page[row]{Items: append([]row(nil), matched[start:end]...), TotalItems: len(matched)}, nil
}

func (s *fakeSource) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deletes = append(s.deletes, id)
	for i, r := range s.rows {
		if r.ID == id {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			return nil
		}
	}
	return ErrNoRows
}

func (s *fakeSource) setListErr(err error) {
	s.mu.Lock()
	s.listErr = err
	s.mu.Unlock()
}

func (s *fakeSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (n *recordingNotifier) Success(msg string) {
	n.mu.Lock()
	n.successes = append(n.successes, msg)
	n.mu.Unlock()
}

func (n *recordingNotifier) Error(msg string) {
	n.mu.Lock()
	n.errors = append(n.errors, msg)
	n.mu.Unlock()
}

func (n *recordingNotifier) errorCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.errors)
}

type recordingObserver struct {
	mu      sync.Mutex
	loading []Presentation
	queries []ListQuery
	result  ListResult[row]
}

func (o *recordingObserver) OnLoading(_ TransitionKind, p Presentation) {
	o.mu.Lock()
	o.loading = append(o.loading, p)
	o.mu.Unlock()
}

func (o *recordingObserver) OnResult(q ListQuery, res ListResult[row]) {
	o.mu.Lock()
	o.queries = append(o.queries, q)
	o.result = res
	o.mu.Unlock()
}

func (o *recordingObserver) last() (ListQuery, ListResult[row]) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.queries) == 0 {
		return ListQuery{}, ListResult[row]{}
	}
	return o.queries[len(o.queries)-1], o.result
}

// stallingNotifier blocks inside its first Error call until released.
type stallingNotifier struct {
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func newStallingNotifier() *stallingNotifier {
	return &stallingNotifier{entered: make(chan struct{}), release: make(chan struct{})}
}

func (n *stallingNotifier) Success(string) {}

func (n *stallingNotifier) Error(string) {
	n.once.Do(func() {
		close(n.entered)
		<-n.release
	})
}

var testColumns = Columns[row]{
	{Field: "title", Label: "Title", Sortable: true, Render: func(r row) string { return r.Title }},
	{Field: "created_at", Label: "Created", Sortable: true},
	{Field: "actions", Label: "", Sortable: false},
}

func testCodec(perPage int) Codec {
	return NewCodec(DefaultParams, Defaults{ItemsPerPage: perPage, SortField: "created_at", SortDirection: SortDesc})
}
