package listview

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

// DeleteState is the position of a DeleteCoordinator in its state machine.
type DeleteState int

const (
	DeleteIdle DeleteState = iota
	DeleteConfirming
	DeleteDeleting
	DeleteRefetching
)

func (s DeleteState) String() string {
	switch s {
	case DeleteConfirming:
		return "confirming"
	case DeleteDeleting:
		return "deleting"
	case DeleteRefetching:
		return "refetching"
	}
	return "idle"
}

// DeleteOutcome is how a delete request ended.
type DeleteOutcome int

const (
	DeleteCancelled DeleteOutcome = iota
	DeleteFailed
	DeleteCompleted
	// DeleteSignedOut means the acting user deleted their own account.
	DeleteSignedOut
)

func (o DeleteOutcome) String() string {
	switch o {
	case DeleteFailed:
		return "failed"
	case DeleteCompleted:
		return "completed"
	case DeleteSignedOut:
		return "signed-out"
	}
	return "cancelled"
}

// ErrDeleteInProgress is returned when a delete starts while another is
// still running.
var ErrDeleteInProgress = errors.New("listview: a delete is already in progress")

// Target identifies the entity a delete applies to.
type Target struct {
	ID    string
	Label string
}

// Prompt is what the confirmation surface shows.
type Prompt struct {
	Title   string
	Message string
	Target  Target
}

// Confirmer asks the user to confirm a destructive action. It must not block
// other interaction; it returns once the user has decided.
type Confirmer interface {
	Confirm(ctx context.Context, p Prompt) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, p Prompt) (bool, error)

// Confirm calls f.
func (f ConfirmFunc) Confirm(ctx context.Context, p Prompt) (bool, error) { return f(ctx, p) }

// SelfGuard recognises the acting user's own account and tears down the
// session after it has been deleted.
type SelfGuard interface {
	IsSelf(id string) bool
	Teardown(ctx context.Context) error
}

// Navigator performs a hard redirect outside the list screen.
type Navigator interface {
	Redirect(path string)
}

// Pager is the view of the controller the coordinator needs.
type Pager interface {
	Query() ListQuery
	// SetPage records page as current without triggering a fetch and
	// returns the updated query.
	SetPage(page int) ListQuery
}

// DefaultLoginPath is where a self-delete redirects.
const DefaultLoginPath = "/login"

// DeleteConfig wires a DeleteCoordinator.
type DeleteConfig[T any] struct {
	Name      string
	Source    Source[T]
	Fetcher   *Orchestrator[T]
	Notifier  Notifier
	Confirmer Confirmer
	Self      SelfGuard
	Navigator Navigator
	LoginPath string
}

// DeleteCoordinator runs Idle -> Confirming -> Deleting -> Refetching -> Idle.
type DeleteCoordinator[T any] struct {
	cfg   DeleteConfig[T]
	pager Pager

	mu    sync.Mutex
	state DeleteState
}

// NewDeleteCoordinator returns a coordinator operating on pager's query.
func NewDeleteCoordinator[T any](cfg DeleteConfig[T], pager Pager) *DeleteCoordinator[T] {
	if cfg.Notifier == nil {
		cfg.Notifier = nopNotifier{}
	}
	if cfg.Confirmer == nil {
		cfg.Confirmer = ConfirmFunc(func(context.Context, Prompt) (bool, error) { return true, nil })
	}
	if cfg.LoginPath == "" {
		cfg.LoginPath = DefaultLoginPath
	}
	return &DeleteCoordinator[T]{cfg: cfg, pager: pager}
}

// State returns the current state. Presentation disables the delete
// affordance while it is not DeleteIdle.
func (d *DeleteCoordinator[T]) State() DeleteState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

func (d *DeleteCoordinator[T]) set(s DeleteState) {
	d.mu.Lock()
	d.state = s
	d.mu.Unlock()
}

// Delete asks for confirmation, deletes t and refetches the current page,
// stepping back one page if the current one became empty.
func (d *DeleteCoordinator[T]) Delete(ctx context.Context, t Target) (DeleteOutcome, error) {
	d.mu.Lock()
	if d.state != DeleteIdle {
		d.mu.Unlock()
		return DeleteCancelled, ErrDeleteInProgress
	}
	d.state = DeleteConfirming
	d.mu.Unlock()

	label := t.Label
	if label == "" {
		label = t.ID
	}

	ok, err := d.cfg.Confirmer.Confirm(ctx, Prompt{
		Title:   "Delete " + label + "?",
		Message: "This cannot be undone.",
		Target:  t,
	})
	if err != nil || !ok {
		d.set(DeleteIdle)
		if err != nil {
			return DeleteCancelled, fmt.Errorf("confirm delete: %w", err)
		}
		return DeleteCancelled, nil
	}

	d.set(DeleteDeleting)
	if err := d.cfg.Source.Delete(ctx, t.ID); err != nil {
		d.set(DeleteIdle)
		log.Error().Err(err).Str("screen", d.cfg.Name).Str("id", t.ID).Msg("listview: delete failed")
		d.cfg.Notifier.Error("Failed to delete " + label + ": " + err.Error())
		return DeleteFailed, fmt.Errorf("delete %s: %w", t.ID, err)
	}
	d.cfg.Notifier.Success(label + " deleted.")

	if d.cfg.Self != nil && d.cfg.Self.IsSelf(t.ID) {
		if err := d.cfg.Self.Teardown(ctx); err != nil {
			log.Warn().Err(err).Str("screen", d.cfg.Name).Msg("listview: session teardown failed")
		}
		if d.cfg.Navigator != nil {
			d.cfg.Navigator.Redirect(d.cfg.LoginPath)
		}
		d.set(DeleteIdle)
		return DeleteSignedOut, nil
	}

	d.set(DeleteRefetching)
	defer d.set(DeleteIdle)

	q := d.pager.Query()
	res, applied := d.cfg.Fetcher.Resolve(ctx, q, KindPostDelete)
	if !applied || res.Error != nil || !res.Empty() || q.Page <= 1 {
		return DeleteCompleted, nil
	}

	// The deleted row was the last one on this page. Step back once and
	// accept whatever that page holds.
	q = d.pager.SetPage(q.Page - 1)
	log.Debug().Str("screen", d.cfg.Name).Int("page", q.Page).Msg("listview: rebalancing after delete")
	d.cfg.Fetcher.Resolve(ctx, q, KindPostDelete)
	return DeleteCompleted, nil
}
