package listview

import (
	"net/url"
	"strconv"
	"strings"
)

// SortDirection is the ordering applied to ListQuery.SortField.
type SortDirection string

const (
	SortNone SortDirection = ""
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// ParseSortDirection accepts asc/desc in any case. Anything else reports false.
func ParseSortDirection(raw string) (SortDirection, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "asc":
		return SortAsc, true
	case "desc":
		return SortDesc, true
	}
	return SortNone, false
}

// MaxPage bounds page numbers so row offsets cannot overflow.
const MaxPage = 1_000_000

// ListQuery is the serializable description of what a list screen is showing.
type ListQuery struct {
	Page          int
	ItemsPerPage  int
	SortField     string
	SortDirection SortDirection
	SearchQuery   string
}

// Sort returns the sort part of the query.
func (q ListQuery) Sort() Sort {
	return Sort{Field: q.SortField, Direction: q.SortDirection}
}

// WithSort returns a copy carrying s.
func (q ListQuery) WithSort(s Sort) ListQuery {
	q.SortField = s.Field
	q.SortDirection = s.Direction
	return q.Normalize()
}

// Normalize keeps SortDirection defined exactly when SortField is.
func (q ListQuery) Normalize() ListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Page > MaxPage {
		q.Page = MaxPage
	}
	if q.SortField == "" {
		q.SortDirection = SortNone
	} else if q.SortDirection == SortNone {
		q.SortDirection = SortDesc
	}
	return q
}

// Equal reports whether two queries describe the same view.
func (q ListQuery) Equal(o ListQuery) bool {
	return q == o
}

// Offset is the zero-based row offset of the first item on the page.
func (q ListQuery) Offset() int {
	if q.Page < 1 || q.ItemsPerPage < 1 {
		return 0
	}
	if q.Page > MaxPage {
		q.Page = MaxPage
	}
	return (q.Page - 1) * q.ItemsPerPage
}

// Params names the URL query keys a screen uses. The names differ per entity
// and existing bookmarks depend on them.
type Params struct {
	Page          string
	ItemsPerPage  string
	Search        string
	SortField     string
	SortDirection string
}

// DefaultParams is the most common naming across screens.
var DefaultParams = Params{
	Page:          "page",
	ItemsPerPage:  "limit",
	Search:        "query",
	SortField:     "sortField",
	SortDirection: "sortDirection",
}

// Defaults are the values a missing URL field decodes to.
type Defaults struct {
	ItemsPerPage    int
	MaxItemsPerPage int
	SortField       string
	SortDirection   SortDirection
}

// Codec converts between ListQuery and url.Values for one screen.
type Codec struct {
	Params   Params
	Defaults Defaults
}

// NewCodec fills unset param names and defaults.
func NewCodec(params Params, defaults Defaults) Codec {
	if params.Page == "" {
		params.Page = DefaultParams.Page
	}
	if params.ItemsPerPage == "" {
		params.ItemsPerPage = DefaultParams.ItemsPerPage
	}
	if params.Search == "" {
		params.Search = DefaultParams.Search
	}
	if params.SortField == "" {
		params.SortField = DefaultParams.SortField
	}
	if params.SortDirection == "" {
		params.SortDirection = DefaultParams.SortDirection
	}
	if defaults.ItemsPerPage <= 0 {
		defaults.ItemsPerPage = 10
	}
	if defaults.MaxItemsPerPage < defaults.ItemsPerPage {
		defaults.MaxItemsPerPage = 100
		if defaults.MaxItemsPerPage < defaults.ItemsPerPage {
			defaults.MaxItemsPerPage = defaults.ItemsPerPage
		}
	}
	if defaults.SortDirection == SortNone {
		defaults.SortDirection = SortDesc
	}
	return Codec{Params: params, Defaults: defaults}
}

// DefaultQuery is what an empty URL decodes to.
func (c Codec) DefaultQuery() ListQuery {
	return ListQuery{
		Page:          1,
		ItemsPerPage:  c.Defaults.ItemsPerPage,
		SortField:     c.Defaults.SortField,
		SortDirection: c.Defaults.SortDirection,
	}.Normalize()
}

// Decode reads a ListQuery from URL values. Malformed values fall back to
// defaults and are never reported.
//
// A sortField key that is present but empty means the user removed the sort;
// a missing key means the screen default.
func (c Codec) Decode(v url.Values) ListQuery {
	q := c.DefaultQuery()

	if n, err := strconv.Atoi(strings.TrimSpace(v.Get(c.Params.Page))); err == nil && n >= 1 && n <= MaxPage {
		q.Page = n
	}
	if n, err := strconv.Atoi(strings.TrimSpace(v.Get(c.Params.ItemsPerPage))); err == nil && n >= 1 && n <= c.Defaults.MaxItemsPerPage {
		q.ItemsPerPage = n
	}
	q.SearchQuery = v.Get(c.Params.Search)

	if fields, ok := v[c.Params.SortField]; ok {
		field := ""
		if len(fields) > 0 {
			field = strings.TrimSpace(fields[0])
		}
		q.SortField = field
		q.SortDirection = SortNone
	}
	if q.SortField != "" {
		if raw, ok := v[c.Params.SortDirection]; ok && len(raw) > 0 {
			if dir, ok := ParseSortDirection(raw[0]); ok {
				q.SortDirection = dir
			}
		}
		if q.SortDirection == SortNone {
			q.SortDirection = c.Defaults.SortDirection
		}
	}
	return q.Normalize()
}

// Encode writes q as URL values, leaving out fields equal to their default.
// Once navigated is true the page is always written so history entries stay
// distinguishable.
func (c Codec) Encode(q ListQuery, navigated bool) url.Values {
	q = q.Normalize()
	def := c.DefaultQuery()
	v := url.Values{}

	if q.Page != 1 || navigated {
		v.Set(c.Params.Page, strconv.Itoa(q.Page))
	}
	if q.ItemsPerPage != def.ItemsPerPage {
		v.Set(c.Params.ItemsPerPage, strconv.Itoa(q.ItemsPerPage))
	}
	if q.SearchQuery != "" {
		v.Set(c.Params.Search, q.SearchQuery)
	}
	if q.SortField != def.SortField {
		v.Set(c.Params.SortField, q.SortField)
	}
	if q.SortField != "" && q.SortDirection != c.Defaults.SortDirection {
		v.Set(c.Params.SortDirection, string(q.SortDirection))
	}
	return v
}
