package listview

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Orchestrator resolves queries against a Source and owns the current
// ListResult. Only the most recently issued fetch may apply its result: each
// call takes a sequence token and cancels its predecessor.
type Orchestrator[T any] struct {
	name     string
	source   Source[T]
	notifier Notifier
	observer Observer[T]

	// deliverMu orders notifier and observer callbacks so a superseded
	// result is never delivered after a newer one.
	deliverMu sync.Mutex

	mu         sync.Mutex
	seq        uint64
	cancel     context.CancelFunc
	current    ListResult[T]
	loaded     bool
	lastPages  int
	loading    bool
	kind       TransitionKind
	presenting Presentation
}

// NewOrchestrator wires a Source to its notification and observer surfaces.
// Nil collaborators are replaced with no-ops.
func NewOrchestrator[T any](name string, source Source[T], notifier Notifier, observer Observer[T]) *Orchestrator[T] {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if observer == nil {
		observer = nopObserver[T]{}
	}
	return &Orchestrator[T]{
		name:     name,
		source:   source,
		notifier: notifier,
		observer: observer,
		current:  emptyResult[T](nil),
	}
}

// Outcome is the settled state of an issued fetch.
type Outcome[T any] struct {
	Result  ListResult[T]
	Applied bool
}

type ticket struct {
	token  uint64
	ctx    context.Context
	cancel context.CancelFunc
	parent context.Context
	query  ListQuery
	kind   TransitionKind
}

// Resolve fetches q and applies the result if no newer fetch was issued in
// the meantime. applied reports whether the result became current.
func (o *Orchestrator[T]) Resolve(ctx context.Context, q ListQuery, kind TransitionKind) (res ListResult[T], applied bool) {
	return o.finish(o.begin(ctx, q, kind))
}

// Issue takes the sequence token immediately and resolves q in the
// background. Issue order, not completion order, decides which result wins.
func (o *Orchestrator[T]) Issue(ctx context.Context, q ListQuery, kind TransitionKind) <-chan Outcome[T] {
	t := o.begin(ctx, q, kind)
	ch := make(chan Outcome[T], 1)
	go func() {
		res, applied := o.finish(t)
		ch <- Outcome[T]{Result: res, Applied: applied}
		close(ch)
	}()
	return ch
}

func (o *Orchestrator[T]) begin(ctx context.Context, q ListQuery, kind TransitionKind) *ticket {
	fetchCtx, cancel := context.WithCancel(ctx)

	o.mu.Lock()
	o.seq++
	t := &ticket{token: o.seq, ctx: fetchCtx, cancel: cancel, parent: ctx, query: q, kind: kind}
	if o.cancel != nil {
		o.cancel()
	}
	o.cancel = cancel
	o.loading = true
	o.kind = kind
	o.presenting = PresentationFor(kind)
	presenting := o.presenting
	o.mu.Unlock()

	o.observer.OnLoading(kind, presenting)
	return t
}

func (o *Orchestrator[T]) finish(t *ticket) (res ListResult[T], applied bool) {
	defer t.cancel()
	q, kind := t.query, t.kind

	start := time.Now()
	page, err := o.source.List(t.ctx, q)
	took := time.Since(start)

	o.mu.Lock()
	if t.token != o.seq {
		latest := o.seq
		o.mu.Unlock()
		log.Debug().
			Str("screen", o.name).
			Uint64("token", t.token).
			Uint64("latest", latest).
			Str("kind", string(kind)).
			Msg("listview: dropping stale result")
		return ListResult[T]{}, false
	}
	o.cancel = nil
	o.loading = false

	if err != nil && (errors.Is(err, context.Canceled) || t.parent.Err() != nil) {
		// the caller went away; keep whatever is displayed
		res = o.current
		o.mu.Unlock()
		return res, false
	}

	switch Classify(err) {
	case SeverityNone:
		res = resultFromPage(page, q)
	case SeveritySoft:
		log.Debug().Err(err).Str("screen", o.name).Msg("listview: empty result")
		res = emptyResult[T](nil)
	default:
		log.Error().Err(err).Str("screen", o.name).Str("kind", string(kind)).Dur("took", took).Msg("listview: fetch failed")
		res = emptyResult[T](err)
	}
	o.current = res
	o.loaded = true
	if res.Error == nil {
		o.lastPages = res.TotalPages
	}
	o.mu.Unlock()

	o.deliverMu.Lock()
	defer o.deliverMu.Unlock()
	if !o.isLatest(t.token) {
		return res, true
	}
	if res.Error != nil {
		o.notifier.Error("Could not load " + o.name + ": " + res.Error.Error())
		if !o.isLatest(t.token) {
			return res, true
		}
	}
	log.Debug().
		Str("screen", o.name).
		Str("kind", string(kind)).
		Int("page", q.Page).
		Int("items", len(res.Items)).
		Int("total", res.TotalItems).
		Dur("took", took).
		Msg("listview: result applied")
	o.observer.OnResult(q, res)
	return res, true
}

func (o *Orchestrator[T]) isLatest(token uint64) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return token == o.seq
}

// Current is the displayed result. During an inline load it is still the
// previous collection.
func (o *Orchestrator[T]) Current() ListResult[T] {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.current
}

// Loaded reports whether any result has been applied yet.
func (o *Orchestrator[T]) Loaded() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.loaded
}

// PageCount is the page count of the last result that loaded without error.
// It reports false until one has.
func (o *Orchestrator[T]) PageCount() (int, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastPages, o.lastPages > 0
}

// Loading returns the pending transition and its presentation, if any.
func (o *Orchestrator[T]) Loading() (TransitionKind, Presentation, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.kind, o.presenting, o.loading
}

// Cancel aborts the in-flight fetch, if any. Its result will be dropped.
func (o *Orchestrator[T]) Cancel() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.seq++
	o.loading = false
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
}
