package listview

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

var (
	// ErrNotSortable is returned by HandleSort for a column that cannot be sorted.
	ErrNotSortable = errors.New("listview: field is not sortable")
	// ErrInvalidItemsPerPage is returned for a page size outside the codec bounds.
	ErrInvalidItemsPerPage = errors.New("listview: invalid items per page")
	// ErrForbidden is returned by HandleDelete when the acting role may not delete.
	ErrForbidden = errors.New("listview: not allowed")
	// ErrNotMounted is returned by handlers used before Mount or after Unmount.
	ErrNotMounted = errors.New("listview: controller is not mounted")
)

// Config wires a Controller for one list screen.
type Config[T any] struct {
	Name     string
	Codec    Codec
	Columns  Columns[T]
	Source   Source[T]
	Location Location

	// IDOf and LabelOf identify an entity for deletes and prompts.
	IDOf    func(T) string
	LabelOf func(T) string

	Notifier  Notifier
	Observer  Observer[T]
	Confirmer Confirmer
	Self      SelfGuard
	Navigator Navigator
	LoginPath string

	// Roles and DeleteRoles gate HandleDelete. An empty DeleteRoles allows
	// every role.
	Roles       RoleLookup
	DeleteRoles []string

	SearchDebounce time.Duration
}

// Controller keeps a remote paginated collection in sync with a URL. Handlers
// only compute the next ListQuery and push it to the Location; the location
// subscription is the single place fetches are issued from.
type Controller[T any] struct {
	cfg     Config[T]
	fetcher *Orchestrator[T]
	deleter *DeleteCoordinator[T]
	search  *Debouncer

	// actionMu serializes handlers so each one computes from the query the
	// previous one produced.
	actionMu sync.Mutex

	mu          sync.Mutex
	query       ListQuery
	mounted     bool
	ctx         context.Context
	cancel      context.CancelFunc
	unsubscribe func()

	// inflight counts tracked fetches; settled is closed when it drops to zero.
	inflight int
	settled  chan struct{}
}

// New builds an unmounted Controller.
func New[T any](cfg Config[T]) *Controller[T] {
	if cfg.Codec.Params.Page == "" {
		cfg.Codec = NewCodec(cfg.Codec.Params, cfg.Codec.Defaults)
	}
	if cfg.Notifier == nil {
		cfg.Notifier = nopNotifier{}
	}
	if cfg.LabelOf == nil {
		cfg.LabelOf = cfg.IDOf
	}
	c := &Controller[T]{cfg: cfg, query: cfg.Codec.DefaultQuery()}
	c.fetcher = NewOrchestrator(cfg.Name, cfg.Source, cfg.Notifier, cfg.Observer)
	c.deleter = NewDeleteCoordinator(DeleteConfig[T]{
		Name:      cfg.Name,
		Source:    cfg.Source,
		Fetcher:   c.fetcher,
		Notifier:  cfg.Notifier,
		Confirmer: cfg.Confirmer,
		Self:      cfg.Self,
		Navigator: cfg.Navigator,
		LoginPath: cfg.LoginPath,
	}, c)
	c.search = NewDebouncer(cfg.SearchDebounce, func(term string) {
		_ = c.HandleSearch(term)
	})
	return c
}

// Mount reads the query from the Location, subscribes to it and performs the
// initial fetch.
func (c *Controller[T]) Mount(ctx context.Context) ListResult[T] {
	c.mu.Lock()
	if c.mounted {
		c.mu.Unlock()
		return c.fetcher.Current()
	}
	c.query = c.cfg.Codec.Decode(c.cfg.Location.Values())
	c.ctx, c.cancel = context.WithCancel(ctx)
	c.mounted = true
	q, mountCtx := c.query, c.ctx
	c.mu.Unlock()

	unsubscribe := c.cfg.Location.Subscribe(c.onNavigate)
	c.mu.Lock()
	c.unsubscribe = unsubscribe
	c.mu.Unlock()

	res, _ := c.fetcher.Resolve(mountCtx, q, KindInitial)
	return res
}

// Unmount stops observing the Location and drops in-flight and pending work.
func (c *Controller[T]) Unmount() {
	c.mu.Lock()
	if !c.mounted {
		c.mu.Unlock()
		return
	}
	c.mounted = false
	unsubscribe, cancel := c.unsubscribe, c.cancel
	c.unsubscribe, c.cancel = nil, nil
	c.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	c.search.Stop()
	c.fetcher.Cancel()
	if cancel != nil {
		cancel()
	}
	c.Wait()
}

// Query returns the current ListQuery.
func (c *Controller[T]) Query() ListQuery {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

// Result returns the displayed ListResult.
func (c *Controller[T]) Result() ListResult[T] {
	return c.fetcher.Current()
}

// Loading reports the pending transition and how to present it.
func (c *Controller[T]) Loading() (TransitionKind, Presentation, bool) {
	return c.fetcher.Loading()
}

// DeleteState exposes the delete state machine for disabling affordances.
func (c *Controller[T]) DeleteState() DeleteState {
	return c.deleter.State()
}

// Columns returns the screen's column descriptors.
func (c *Controller[T]) Columns() Columns[T] {
	return c.cfg.Columns
}

// Codec returns the screen's URL codec.
func (c *Controller[T]) Codec() Codec {
	return c.cfg.Codec
}

// EmptyMessage is the empty-state text for the current query.
func (c *Controller[T]) EmptyMessage() string {
	return EmptyMessage(c.Query())
}

// Wait blocks until every fetch issued by a navigation or retry has settled,
// including ones issued while waiting.
func (c *Controller[T]) Wait() {
	for {
		c.mu.Lock()
		if c.inflight == 0 {
			c.mu.Unlock()
			return
		}
		settled := c.settled
		c.mu.Unlock()
		<-settled
	}
}

// HandlePageChange navigates to page, clamped to the page range of the last
// result that loaded. When the displayed result is an error, asking for the
// same page fetches it again. It reports whether a fetch was issued.
func (c *Controller[T]) HandlePageChange(page int) bool {
	c.actionMu.Lock()
	defer c.actionMu.Unlock()

	if page < 1 {
		page = 1
	}
	if total, ok := c.fetcher.PageCount(); ok && page > total {
		page = total
	}
	cur := c.Query()
	next := cur
	next.Page = page
	if c.navigate(cur, next) {
		return true
	}
	if next.Normalize().Equal(cur) && c.fetcher.Current().Error != nil {
		return c.retry(cur)
	}
	return false
}

// HandleSort advances the sort cycle for field.
func (c *Controller[T]) HandleSort(field string) error {
	if !c.cfg.Columns.Sortable(field) {
		return fmt.Errorf("%w: %q", ErrNotSortable, field)
	}
	c.actionMu.Lock()
	defer c.actionMu.Unlock()

	cur := c.Query()
	next := cur.WithSort(NextSort(cur.Sort(), field))
	c.navigate(cur, next)
	return nil
}

// HandleSearch applies term immediately and returns to the first page.
func (c *Controller[T]) HandleSearch(term string) bool {
	c.actionMu.Lock()
	defer c.actionMu.Unlock()

	cur := c.Query()
	next := cur
	next.SearchQuery = strings.TrimSpace(term)
	next.Page = 1
	return c.navigate(cur, next)
}

// HandleSearchInput feeds one keystroke's worth of text into the debouncer.
func (c *Controller[T]) HandleSearchInput(text string) {
	c.search.Input(text)
}

// HandleClearSearch clears the search without waiting for the debounce.
func (c *Controller[T]) HandleClearSearch() {
	c.search.Clear()
}

// HandleItemsPerPageChange changes the page size and returns to the first page.
func (c *Controller[T]) HandleItemsPerPageChange(limit int) error {
	if limit < 1 || limit > c.cfg.Codec.Defaults.MaxItemsPerPage {
		return fmt.Errorf("%w: %d", ErrInvalidItemsPerPage, limit)
	}
	c.actionMu.Lock()
	defer c.actionMu.Unlock()

	cur := c.Query()
	next := cur
	next.ItemsPerPage = limit
	next.Page = 1
	c.navigate(cur, next)
	return nil
}

// CanDelete reports whether the acting role may delete on this screen.
func (c *Controller[T]) CanDelete(ctx context.Context) bool {
	if c.cfg.Roles == nil || len(c.cfg.DeleteRoles) == 0 {
		return true
	}
	role, err := c.cfg.Roles.Role(ctx)
	if err != nil {
		return false
	}
	for _, r := range c.cfg.DeleteRoles {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}

// HandleDelete confirms and deletes item, then rebalances the page.
func (c *Controller[T]) HandleDelete(ctx context.Context, item T) (DeleteOutcome, error) {
	if !c.isMounted() {
		return DeleteCancelled, ErrNotMounted
	}
	if !c.CanDelete(ctx) {
		return DeleteCancelled, ErrForbidden
	}
	if c.cfg.IDOf == nil {
		return DeleteCancelled, errors.New("listview: screen has no id accessor")
	}
	return c.deleter.Delete(ctx, Target{ID: c.cfg.IDOf(item), Label: c.cfg.LabelOf(item)})
}

// SetPage records page without issuing a fetch. The delete coordinator uses
// it to step back after emptying the last page.
func (c *Controller[T]) SetPage(page int) ListQuery {
	c.mu.Lock()
	c.query.Page = page
	q := c.query
	c.mu.Unlock()

	// the observer sees an unchanged query and does not fetch; the emptied
	// page is replaced so Back skips it
	c.cfg.Location.Replace(c.cfg.Codec.Encode(q, true))
	return q
}

func (c *Controller[T]) isMounted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mounted
}

// navigate pushes next unless it equals cur. Callers hold actionMu.
func (c *Controller[T]) navigate(cur, next ListQuery) bool {
	next = next.Normalize()
	if next.Equal(cur) {
		return false
	}
	c.mu.Lock()
	if !c.mounted {
		c.mu.Unlock()
		return false
	}
	c.mu.Unlock()

	c.cfg.Location.Push(c.cfg.Codec.Encode(next, true))
	return true
}

// onNavigate is the Location subscription. It runs synchronously inside
// Push, so the query is updated before the handler returns.
func (c *Controller[T]) onNavigate(v url.Values) {
	next := c.cfg.Codec.Decode(v)

	c.mu.Lock()
	if !c.mounted {
		c.mu.Unlock()
		return
	}
	prev := c.query
	if next.Equal(prev) {
		c.mu.Unlock()
		return
	}
	c.query = next
	ctx := c.ctx
	c.trackLocked()
	c.mu.Unlock()

	c.await(c.fetcher.Issue(ctx, next, transitionBetween(prev, next)))
}

// retry fetches q again without touching the Location.
func (c *Controller[T]) retry(q ListQuery) bool {
	c.mu.Lock()
	if !c.mounted {
		c.mu.Unlock()
		return false
	}
	ctx := c.ctx
	c.trackLocked()
	c.mu.Unlock()

	log.Debug().Str("screen", c.cfg.Name).Int("page", q.Page).Msg("listview: retrying failed fetch")
	c.await(c.fetcher.Issue(ctx, q, KindPage))
	return true
}

func (c *Controller[T]) trackLocked() {
	if c.inflight == 0 {
		c.settled = make(chan struct{})
	}
	c.inflight++
}

func (c *Controller[T]) await(done <-chan Outcome[T]) {
	go func() {
		<-done
		c.mu.Lock()
		c.inflight--
		if c.inflight == 0 {
			close(c.settled)
		}
		c.mu.Unlock()
	}()
}
