package client

import (
	"context"
	"errors"
	"net/url"
	"strconv"

	"newsdesk/internal/domain/content"
	"newsdesk/internal/listview"
)

type listEnvelope[T any] struct {
	Data       []T     `json:"data"`
	Error      *string `json:"error"`
	TotalItems int     `json:"totalItems"`
	TotalPages int     `json:"totalPages"`
}

type deleteEnvelope struct {
	Success bool    `json:"success"`
	Error   *string `json:"error"`
}

// RemoteSource lists and deletes one resource through the dashboard API.
type RemoteSource[T any] struct {
	http     *HTTPClient
	resource content.Resource
}

var _ listview.Source[content.Article] = (*RemoteSource[content.Article])(nil)

func NewRemoteSource[T any](c *HTTPClient, r content.Resource) *RemoteSource[T] {
	return &RemoteSource[T]{http: c, resource: r}
}

// queryValues uses the API's fixed parameter names, whatever the screen's URL uses.
func queryValues(q listview.ListQuery) url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("limit", strconv.Itoa(q.ItemsPerPage))
	if q.SearchQuery != "" {
		v.Set("query", q.SearchQuery)
	}
	if q.SortField != "" && q.SortDirection != listview.SortNone {
		v.Set("sortField", q.SortField)
		v.Set("sortDirection", string(q.SortDirection))
	}
	return v
}

func (s *RemoteSource[T]) List(ctx context.Context, q listview.ListQuery) (listview.Page[T], error) {
	resp, err := s.http.Get(ctx, "/api/v1/"+string(s.resource), queryValues(q))
	if err != nil {
		return listview.Page[T]{}, err
	}
	var env listEnvelope[T]
	if err := resp.UnmarshalJSON(&env); err != nil {
		return listview.Page[T]{}, err
	}
	if env.Error != nil {
		return listview.Page[T]{}, errors.New(*env.Error)
	}
	return listview.Page[T]{Items: env.Data, TotalItems: env.TotalItems, TotalPages: env.TotalPages}, nil
}

func (s *RemoteSource[T]) Delete(ctx context.Context, id string) error {
	resp, err := s.http.Delete(ctx, "/api/v1/"+string(s.resource)+"/"+url.PathEscape(id))
	if err != nil {
		return err
	}
	var env deleteEnvelope
	if err := resp.UnmarshalJSON(&env); err != nil {
		return err
	}
	if !env.Success {
		msg := "delete failed"
		if env.Error != nil {
			msg = *env.Error
		}
		return errors.New(msg)
	}
	return nil
}
