package listview

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeAppliesDefaults(t *testing.T) {
	c := testCodec(8)

	q := c.Decode(url.Values{})

	assert.Equal(t, ListQuery{Page: 1, ItemsPerPage: 8, SortField: "created_at", SortDirection: SortDesc}, q)
}

func TestDecodeToleratesMalformedInput(t *testing.T) {
	c := testCodec(10)

	q := c.Decode(url.Values{
		"page":          {"abc"},
		"limit":         {"-3"},
		"sortDirection": {"sideways"},
	})

	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 10, q.ItemsPerPage)
	assert.Equal(t, SortDesc, q.SortDirection)

	q = c.Decode(url.Values{"page": {"0"}, "limit": {"5000"}})
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 10, q.ItemsPerPage)

	q = c.Decode(url.Values{"page": {"9223372036854775807"}})
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, MaxPage, ListQuery{Page: MaxPage + 5}.Normalize().Page)
	assert.Equal(t, (MaxPage-1)*10, ListQuery{Page: MaxPage + 5, ItemsPerPage: 10}.Offset())
}

func TestDecodeEmptySortFieldMeansUnsorted(t *testing.T) {
	c := testCodec(10)

	q := c.Decode(url.Values{"sortField": {""}, "sortDirection": {"asc"}})

	assert.Equal(t, "", q.SortField)
	assert.Equal(t, SortNone, q.SortDirection)
}

func TestEncodeOmitsDefaults(t *testing.T) {
	c := testCodec(10)

	v := c.Encode(c.DefaultQuery(), false)
	assert.Empty(t, v)

	v = c.Encode(c.DefaultQuery(), true)
	assert.Equal(t, url.Values{"page": {"1"}}, v)
}

func TestEncodeUsesScreenParamNames(t *testing.T) {
	c := NewCodec(Params{ItemsPerPage: "itemsPerPage", Search: "search"}, Defaults{ItemsPerPage: 12, SortField: "created_at"})

	v := c.Encode(ListQuery{Page: 2, ItemsPerPage: 24, SortField: "title", SortDirection: SortAsc, SearchQuery: "go"}, true)

	assert.Equal(t, "2", v.Get("page"))
	assert.Equal(t, "24", v.Get("itemsPerPage"))
	assert.Equal(t, "go", v.Get("search"))
	assert.Equal(t, "title", v.Get("sortField"))
	assert.Equal(t, "asc", v.Get("sortDirection"))
	assert.Empty(t, v.Get("limit"))
	assert.Empty(t, v.Get("query"))
}

func TestCodecRoundTrip(t *testing.T) {
	c := testCodec(10)
	queries := []ListQuery{
		c.DefaultQuery(),
		{Page: 3, ItemsPerPage: 10, SortField: "created_at", SortDirection: SortDesc},
		{Page: 1, ItemsPerPage: 25, SortField: "created_at", SortDirection: SortAsc},
		{Page: 7, ItemsPerPage: 5, SortField: "title", SortDirection: SortDesc, SearchQuery: "a&b=c d"},
		{Page: 2, ItemsPerPage: 10, SearchQuery: "unsorted"},
		{Page: 1, ItemsPerPage: 100, SortField: "title", SortDirection: SortAsc, SearchQuery: "ünïcode"},
	}
	for _, q := range queries {
		for _, navigated := range []bool{false, true} {
			encoded := c.Encode(q, navigated)
			parsed, err := url.ParseQuery(encoded.Encode())
			require.NoError(t, err)
			assert.Equal(t, q, c.Decode(parsed), "navigated=%v encoded=%s", navigated, encoded.Encode())
		}
	}
}

func TestNormalizeKeepsSortInvariant(t *testing.T) {
	assert.Equal(t, SortNone, ListQuery{SortDirection: SortAsc}.Normalize().SortDirection)
	assert.Equal(t, SortDesc, ListQuery{SortField: "title"}.Normalize().SortDirection)
}
