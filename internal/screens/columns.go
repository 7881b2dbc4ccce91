package screens

import (
	"time"

	"newsdesk/internal/domain/content"
	"newsdesk/internal/listview"
)

const dateLayout = "2006-01-02"

func date(t time.Time) string { return t.Format(dateLayout) }

func optDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return date(*t)
}

func optID(id *int64) string {
	if id == nil {
		return "-"
	}
	return content.FormatID(*id)
}

var articleColumns = listview.Columns[content.Article]{
	{Field: "id", Label: "ID", Render: func(a content.Article) string { return content.FormatID(a.ID) }},
	{Field: "title", Label: "Title", Sortable: true, Render: func(a content.Article) string { return a.Title }},
	{Field: "status", Label: "Status", Sortable: true, Render: func(a content.Article) string { return a.Status }},
	{Field: "author_id", Label: "Author", Render: func(a content.Article) string { return optID(a.AuthorID) }},
	{Field: "published_at", Label: "Published", Sortable: true, Render: func(a content.Article) string { return optDate(a.PublishedAt) }},
	{Field: "created_at", Label: "Created", Sortable: true, Render: func(a content.Article) string { return date(a.CreatedAt) }},
	{Field: "actions", Label: "Actions"},
}

var authorColumns = listview.Columns[content.Author]{
	{Field: "id", Label: "ID", Render: func(a content.Author) string { return content.FormatID(a.ID) }},
	{Field: "name", Label: "Name", Sortable: true, Render: func(a content.Author) string { return a.Name }},
	{Field: "email", Label: "Email", Sortable: true, Render: func(a content.Author) string { return a.Email }},
	{Field: "created_at", Label: "Created", Sortable: true, Render: func(a content.Author) string { return date(a.CreatedAt) }},
	{Field: "actions", Label: "Actions"},
}

var categoryColumns = listview.Columns[content.Category]{
	{Field: "id", Label: "ID", Render: func(c content.Category) string { return content.FormatID(c.ID) }},
	{Field: "name", Label: "Name", Sortable: true, Render: func(c content.Category) string { return c.Name }},
	{Field: "slug", Label: "Slug", Render: func(c content.Category) string { return c.Slug }},
	{Field: "created_at", Label: "Created", Sortable: true, Render: func(c content.Category) string { return date(c.CreatedAt) }},
	{Field: "actions", Label: "Actions"},
}

var subcategoryColumns = listview.Columns[content.Subcategory]{
	{Field: "id", Label: "ID", Render: func(c content.Subcategory) string { return content.FormatID(c.ID) }},
	{Field: "name", Label: "Name", Sortable: true, Render: func(c content.Subcategory) string { return c.Name }},
	{Field: "category_id", Label: "Category", Sortable: true, Render: func(c content.Subcategory) string { return content.FormatID(c.CategoryID) }},
	{Field: "created_at", Label: "Created", Sortable: true, Render: func(c content.Subcategory) string { return date(c.CreatedAt) }},
	{Field: "actions", Label: "Actions"},
}

var tagColumns = listview.Columns[content.Tag]{
	{Field: "id", Label: "ID", Render: func(t content.Tag) string { return content.FormatID(t.ID) }},
	{Field: "name", Label: "Name", Sortable: true, Render: func(t content.Tag) string { return t.Name }},
	{Field: "slug", Label: "Slug", Render: func(t content.Tag) string { return t.Slug }},
	{Field: "created_at", Label: "Created", Sortable: true, Render: func(t content.Tag) string { return date(t.CreatedAt) }},
	{Field: "actions", Label: "Actions"},
}

var userColumns = listview.Columns[content.User]{
	{Field: "id", Label: "ID", Render: func(u content.User) string { return content.FormatID(u.ID) }},
	{Field: "name", Label: "Name", Sortable: true, Render: func(u content.User) string { return u.Name }},
	{Field: "email", Label: "Email", Sortable: true, Render: func(u content.User) string { return u.Email }},
	{Field: "role", Label: "Role", Sortable: true, Render: func(u content.User) string { return string(u.Role) }},
	{Field: "created_at", Label: "Created", Sortable: true, Render: func(u content.User) string { return date(u.CreatedAt) }},
	{Field: "actions", Label: "Actions"},
}

var photoColumns = listview.Columns[content.Photo]{
	{Field: "id", Label: "ID", Render: func(p content.Photo) string { return content.FormatID(p.ID) }},
	{Field: "title", Label: "Title", Sortable: true, Render: func(p content.Photo) string { return p.Title }},
	{Field: "url", Label: "URL", Render: func(p content.Photo) string { return p.URL }},
	{Field: "created_at", Label: "Created", Sortable: true, Render: func(p content.Photo) string { return date(p.CreatedAt) }},
	{Field: "actions", Label: "Actions"},
}
