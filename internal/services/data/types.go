package data

import (
	"strings"

	"newsdesk/internal/store/repositories"

	"github.com/go-playground/validator/v10"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
	MaxPage      = 1000000
)

var validate = validator.New()

// ListRequest represents one page request against a content resource
type ListRequest struct {
	Page          int    `json:"page" validate:"min=1,max=1000000"`
	Limit         int    `json:"limit" validate:"min=1,max=100"`
	Search        string `json:"query,omitempty" validate:"max=200"`
	SortField     string `json:"sortField,omitempty" validate:"omitempty,max=64"`
	SortDirection string `json:"sortDirection,omitempty" validate:"omitempty,oneof=asc desc"`
}

// Normalize fills defaults and clamps the limit to maxLimit.
func (req *ListRequest) Normalize(maxLimit int) {
	if maxLimit <= 0 || maxLimit > MaxLimit {
		maxLimit = MaxLimit
	}
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.Limit <= 0 {
		req.Limit = DefaultLimit
	}
	if req.Limit > maxLimit {
		req.Limit = maxLimit
	}
	req.Search = strings.TrimSpace(req.Search)
	req.SortField = strings.TrimSpace(req.SortField)
	req.SortDirection = strings.ToLower(strings.TrimSpace(req.SortDirection))
	if req.SortField != "" && req.SortDirection == "" {
		req.SortDirection = "desc"
	}
}

// Validate checks the normalized request.
func (req *ListRequest) Validate() error {
	return validate.Struct(req)
}

func (req ListRequest) params() repositories.ListParams {
	return repositories.ListParams{
		Search:        req.Search,
		SortField:     req.SortField,
		SortDirection: req.SortDirection,
		Limit:         req.Limit,
		Offset:        (req.Page - 1) * req.Limit,
	}
}

// ListResponse is the list envelope returned to dashboard clients
type ListResponse struct {
	Data       any     `json:"data"`
	Error      *string `json:"error"`
	TotalItems int     `json:"totalItems"`
	TotalPages int     `json:"totalPages"`
}

// DeleteResponse is the delete envelope returned to dashboard clients
type DeleteResponse struct {
	Success bool    `json:"success"`
	Error   *string `json:"error"`
}

// TotalPages is never less than one so an empty list still has a first page.
func TotalPages(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 1
	}
	return (total + limit - 1) / limit
}
