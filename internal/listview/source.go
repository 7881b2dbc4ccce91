package listview

import (
	"context"
	"errors"
	"net"
	"strings"
)

// Source is the remote collection a screen lists and mutates.
type Source[T any] interface {
	// List resolves q. A zero TotalPages is derived from TotalItems.
	List(ctx context.Context, q ListQuery) (Page[T], error)
	// Delete removes the entity with the given id.
	Delete(ctx context.Context, id string) error
}

// Page is one page of a collection as returned by a Source.
type Page[T any] struct {
	Items      []T
	TotalItems int
	TotalPages int
}

// ListResult is the applied outcome of resolving a ListQuery.
type ListResult[T any] struct {
	Items      []T
	TotalItems int
	TotalPages int
	Error      error
}

// Empty reports whether the result has no rows.
func (r ListResult[T]) Empty() bool {
	return len(r.Items) == 0
}

// TotalPages returns ceil(totalItems/perPage), never less than 1.
func TotalPages(totalItems, perPage int) int {
	if perPage <= 0 || totalItems <= 0 {
		return 1
	}
	return (totalItems + perPage - 1) / perPage
}

func resultFromPage[T any](p Page[T], q ListQuery) ListResult[T] {
	if p.TotalItems < 0 {
		p.TotalItems = 0
	}
	pages := p.TotalPages
	if pages <= 0 {
		pages = TotalPages(p.TotalItems, q.ItemsPerPage)
	}
	return ListResult[T]{Items: p.Items, TotalItems: p.TotalItems, TotalPages: pages}
}

func emptyResult[T any](err error) ListResult[T] {
	return ListResult[T]{Items: nil, TotalItems: 0, TotalPages: 1, Error: err}
}

// TransitionKind tags a fetch with the interaction that caused it.
type TransitionKind string

const (
	KindInitial    TransitionKind = "initial"
	KindSearch     TransitionKind = "search"
	KindSort       TransitionKind = "sort"
	KindPage       TransitionKind = "page"
	KindPageSize   TransitionKind = "page-size"
	KindPostDelete TransitionKind = "post-delete"
)

// Presentation is how a pending fetch should be shown.
type Presentation string

const (
	// PresentSkeleton replaces the collection with a loading skeleton.
	PresentSkeleton Presentation = "skeleton"
	// PresentInline keeps the previous collection with a small indicator.
	PresentInline Presentation = "inline"
	// PresentSilent shows nothing.
	PresentSilent Presentation = "silent"
)

// PresentationFor maps a transition to its loading presentation.
func PresentationFor(kind TransitionKind) Presentation {
	switch kind {
	case KindInitial, KindPageSize:
		return PresentSkeleton
	case KindPostDelete:
		return PresentSilent
	default:
		return PresentInline
	}
}

// transitionBetween derives the kind of an observed query change.
func transitionBetween(prev, next ListQuery) TransitionKind {
	switch {
	case prev.ItemsPerPage != next.ItemsPerPage:
		return KindPageSize
	case prev.SearchQuery != next.SearchQuery:
		return KindSearch
	case prev.SortField != next.SortField || prev.SortDirection != next.SortDirection:
		return KindSort
	default:
		return KindPage
	}
}

// Severity classifies a fetch failure.
type Severity int

const (
	SeverityNone Severity = iota
	// SeveritySoft is an empty or missing result; shown as an empty state.
	SeveritySoft
	// SeverityCritical is a structural or connectivity failure; surfaced to the user.
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeveritySoft:
		return "soft"
	case SeverityCritical:
		return "critical"
	}
	return "none"
}

// ErrNoRows may be returned by a Source when nothing matched.
var ErrNoRows = errors.New("no rows in result set")

var softMarkers = []string{
	"no rows",
	"not found",
	"pgrst116",
	"0 rows",
}

var criticalMarkers = []string{
	"connection",
	"connect:",
	"relation",
	"does not exist",
	"syntax",
	"permission denied",
	"timeout",
	"network",
	"refused",
	"unavailable",
	"status 5",
}

// Classify decides how a fetch error is presented. Errors that match no
// marker are treated as critical so failures are never hidden.
func Classify(err error) Severity {
	if err == nil {
		return SeverityNone
	}
	if errors.Is(err, ErrNoRows) {
		return SeveritySoft
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return SeverityCritical
	}
	msg := strings.ToLower(err.Error())
	for _, m := range criticalMarkers {
		if strings.Contains(msg, m) {
			return SeverityCritical
		}
	}
	for _, m := range softMarkers {
		if strings.Contains(msg, m) {
			return SeveritySoft
		}
	}
	return SeverityCritical
}

// EmptyMessage is the empty-state text for q.
func EmptyMessage(q ListQuery) string {
	if strings.TrimSpace(q.SearchQuery) != "" {
		return "No items match your search."
	}
	return "No items yet."
}

// Notifier is the toast surface.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Observer receives presentation updates from the orchestrator.
type Observer[T any] interface {
	OnLoading(kind TransitionKind, p Presentation)
	OnResult(q ListQuery, r ListResult[T])
}

// RoleLookup exposes the acting user's role to screens.
type RoleLookup interface {
	Role(ctx context.Context) (string, error)
}

// RoleFunc adapts a function to RoleLookup.
type RoleFunc func(ctx context.Context) (string, error)

// Role calls f.
func (f RoleFunc) Role(ctx context.Context) (string, error) { return f(ctx) }

type nopNotifier struct{}

func (nopNotifier) Success(string) {}
func (nopNotifier) Error(string)   {}

type nopObserver[T any] struct{}

func (nopObserver[T]) OnLoading(TransitionKind, Presentation) {}
func (nopObserver[T]) OnResult(ListQuery, ListResult[T])      {}
