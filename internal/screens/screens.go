// Package screens configures one list controller per dashboard resource.
package screens

import (
	"context"
	"fmt"
	"time"

	"newsdesk/internal/client"
	"newsdesk/internal/domain/content"
	"newsdesk/internal/listview"
)

// Layout is a resource's URL vocabulary and paging defaults. Param names
// differ between screens and bookmarks depend on them.
type Layout struct {
	Params       listview.Params
	ItemsPerPage int
}

var layouts = map[content.Resource]Layout{
	content.ResourceArticles:      {Params: listview.Params{ItemsPerPage: "limit", Search: "query"}, ItemsPerPage: 10},
	content.ResourceAuthors:       {Params: listview.Params{ItemsPerPage: "itemsPerPage", Search: "search"}, ItemsPerPage: 8},
	content.ResourceCategories:    {Params: listview.Params{ItemsPerPage: "limit", Search: "search"}, ItemsPerPage: 10},
	content.ResourceSubcategories: {Params: listview.Params{ItemsPerPage: "limit", Search: "search"}, ItemsPerPage: 10},
	content.ResourceTags:          {Params: listview.Params{ItemsPerPage: "itemsPerPage", Search: "query"}, ItemsPerPage: 12},
	content.ResourceUsers:         {Params: listview.Params{ItemsPerPage: "itemsPerPage", Search: "search"}, ItemsPerPage: 5},
	content.ResourcePhotos:        {Params: listview.Params{ItemsPerPage: "limit", Search: "query"}, ItemsPerPage: 12},
}

// Codec returns the URL codec of a resource's screen.
func Codec(r content.Resource, maxItemsPerPage int) (listview.Codec, error) {
	l, ok := layouts[r]
	if !ok {
		return listview.Codec{}, fmt.Errorf("no screen for resource %q", r)
	}
	return listview.NewCodec(l.Params, listview.Defaults{
		ItemsPerPage:    l.ItemsPerPage,
		MaxItemsPerPage: maxItemsPerPage,
		SortField:       "created_at",
		SortDirection:   listview.SortDesc,
	}), nil
}

// Deps are the collaborators shared by every screen.
type Deps struct {
	HTTP      *client.HTTPClient
	Account   *client.Account
	Location  listview.Location
	Notifier  listview.Notifier
	Confirmer listview.Confirmer
	Navigator listview.Navigator

	MaxItemsPerPage int
	SearchDebounce  time.Duration
}

// View is a rendering-ready snapshot of a screen.
type View struct {
	Resource     content.Resource
	Query        listview.ListQuery
	Fields       []string
	Headers      []string
	Rows         [][]string
	IDs          []string
	TotalItems   int
	TotalPages   int
	Err          error
	Severity     listview.Severity
	EmptyMessage string
	Loading      bool
	Presentation listview.Presentation
	DeleteState  listview.DeleteState
}

// Screen is a mounted list controller with its entity type erased.
type Screen interface {
	Resource() content.Resource
	Mount(ctx context.Context) View
	Unmount()
	Wait()
	View() View

	HandlePageChange(page int) bool
	HandleSort(field string) error
	HandleSearch(term string) bool
	HandleSearchInput(text string)
	HandleClearSearch()
	HandleItemsPerPageChange(limit int) error
	CanDelete(ctx context.Context) bool
	DeleteByID(ctx context.Context, id string) (listview.DeleteOutcome, error)
}

type screen[T any] struct {
	resource content.Resource
	idOf     func(T) string
	*listview.Controller[T]
}

func (s *screen[T]) Resource() content.Resource { return s.resource }

func (s *screen[T]) Mount(ctx context.Context) View {
	s.Controller.Mount(ctx)
	return s.View()
}

func (s *screen[T]) View() View {
	res := s.Result()
	cols := s.Columns()
	_, pres, loading := s.Loading()
	v := View{
		Resource:     s.resource,
		Query:        s.Query(),
		Headers:      cols.Headers(),
		TotalItems:   res.TotalItems,
		TotalPages:   res.TotalPages,
		Err:          res.Error,
		Severity:     listview.Classify(res.Error),
		EmptyMessage: s.EmptyMessage(),
		Loading:      loading,
		Presentation: pres,
		DeleteState:  s.DeleteState(),
	}
	for _, c := range cols {
		v.Fields = append(v.Fields, c.Field)
	}
	for _, item := range res.Items {
		v.Rows = append(v.Rows, cols.Row(item))
		v.IDs = append(v.IDs, s.idOf(item))
	}
	return v
}

// DeleteByID deletes an item shown on the current page.
func (s *screen[T]) DeleteByID(ctx context.Context, id string) (listview.DeleteOutcome, error) {
	for _, item := range s.Result().Items {
		if s.idOf(item) == id {
			return s.HandleDelete(ctx, item)
		}
	}
	return listview.DeleteCancelled, fmt.Errorf("no %s with id %s on this page", s.resource, id)
}

func open[T any](r content.Resource, d Deps, cols listview.Columns[T], idOf func(T) int64, labelOf func(T) string, self listview.SelfGuard) (Screen, error) {
	codec, err := Codec(r, d.MaxItemsPerPage)
	if err != nil {
		return nil, err
	}
	ids := func(item T) string { return content.FormatID(idOf(item)) }
	cfg := listview.Config[T]{
		Name:           string(r),
		Codec:          codec,
		Columns:        cols,
		Source:         client.NewRemoteSource[T](d.HTTP, r),
		Location:       d.Location,
		IDOf:           ids,
		LabelOf:        labelOf,
		Notifier:       d.Notifier,
		Confirmer:      d.Confirmer,
		Self:           self,
		Navigator:      d.Navigator,
		DeleteRoles:    []string{string(content.RoleAdmin)},
		SearchDebounce: d.SearchDebounce,
	}
	if d.Account != nil {
		cfg.Roles = d.Account
	}
	return &screen[T]{resource: r, idOf: ids, Controller: listview.New(cfg)}, nil
}

// Open builds the screen of a resource.
func Open(r content.Resource, d Deps) (Screen, error) {
	switch r {
	case content.ResourceArticles:
		return open(r, d, articleColumns, func(a content.Article) int64 { return a.ID }, func(a content.Article) string { return a.Title }, nil)
	case content.ResourceAuthors:
		return open(r, d, authorColumns, func(a content.Author) int64 { return a.ID }, func(a content.Author) string { return a.Name }, nil)
	case content.ResourceCategories:
		return open(r, d, categoryColumns, func(c content.Category) int64 { return c.ID }, func(c content.Category) string { return c.Name }, nil)
	case content.ResourceSubcategories:
		return open(r, d, subcategoryColumns, func(c content.Subcategory) int64 { return c.ID }, func(c content.Subcategory) string { return c.Name }, nil)
	case content.ResourceTags:
		return open(r, d, tagColumns, func(t content.Tag) int64 { return t.ID }, func(t content.Tag) string { return t.Name }, nil)
	case content.ResourceUsers:
		var self listview.SelfGuard
		if d.Account != nil {
			self = d.Account
		}
		return open(r, d, userColumns, func(u content.User) int64 { return u.ID }, func(u content.User) string { return u.Name }, self)
	case content.ResourcePhotos:
		return open(r, d, photoColumns, func(p content.Photo) int64 { return p.ID }, func(p content.Photo) string { return p.Title }, nil)
	}
	return nil, fmt.Errorf("no screen for resource %q", r)
}
