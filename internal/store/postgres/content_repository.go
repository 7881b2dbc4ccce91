package postgres

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"newsdesk/internal/domain/content"
	"newsdesk/internal/store/repositories"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// table describes how one content table is listed.
type table struct {
	name     string
	columns  []string
	search   []string
	sortable map[string]bool
}

func newTable(name string, columns, search, sortable []string) table {
	t := table{name: name, columns: columns, search: search, sortable: make(map[string]bool, len(sortable))}
	for _, c := range sortable {
		t.sortable[c] = true
	}
	return t
}

var (
	articlesTable = newTable("articles",
		[]string{"id", "title", "slug", "status", "author_id", "category_id", "subcategory_id", "published_at", "created_at"},
		[]string{"title", "slug"},
		[]string{"title", "status", "published_at", "created_at"})
	authorsTable = newTable("authors",
		[]string{"id", "name", "email", "bio", "created_at"},
		[]string{"name", "email"},
		[]string{"name", "email", "created_at"})
	categoriesTable = newTable("categories",
		[]string{"id", "name", "slug", "created_at"},
		[]string{"name", "slug"},
		[]string{"name", "created_at"})
	subcategoriesTable = newTable("subcategories",
		[]string{"id", "category_id", "name", "slug", "created_at"},
		[]string{"name", "slug"},
		[]string{"name", "category_id", "created_at"})
	tagsTable = newTable("tags",
		[]string{"id", "name", "slug", "created_at"},
		[]string{"name", "slug"},
		[]string{"name", "created_at"})
	usersTable = newTable("users",
		[]string{"id", "name", "email", "role", "created_at"},
		[]string{"name", "email"},
		[]string{"name", "email", "role", "created_at"})
	photosTable = newTable("photos",
		[]string{"id", "title", "url", "alt_text", "created_at"},
		[]string{"title", "alt_text"},
		[]string{"title", "created_at"})
)

// orderBy falls back to newest first when no sort, or an unknown one, is asked for.
func (t table) orderBy(p repositories.ListParams) string {
	dir := "ASC"
	if strings.EqualFold(p.SortDirection, "desc") {
		dir = "DESC"
	}
	if !t.sortable[p.SortField] {
		return "created_at DESC, id DESC"
	}
	return p.SortField + " " + dir + ", id " + dir
}

func (t table) where(p repositories.ListParams, args []any) (string, []any) {
	term := strings.TrimSpace(p.Search)
	if term == "" || len(t.search) == 0 {
		return "", args
	}
	args = append(args, "%"+escapeLike(term)+"%")
	n := "$" + strconv.Itoa(len(args))
	parts := make([]string, 0, len(t.search))
	for _, c := range t.search {
		parts = append(parts, c+" ILIKE "+n)
	}
	return " WHERE (" + strings.Join(parts, " OR ") + ")", args
}

func (t table) listSQL(p repositories.ListParams) (string, []any) {
	where, args := t.where(p, nil)
	args = append(args, p.Limit, p.Offset)
	q := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY %s LIMIT $%d OFFSET $%d",
		strings.Join(t.columns, ", "), t.name, where, t.orderBy(p), len(args)-1, len(args))
	return q, args
}

func (t table) countSQL(p repositories.ListParams) (string, []any) {
	where, args := t.where(p, nil)
	return "SELECT count(*) FROM " + t.name + where, args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// contentRepository implements ListRepository for one table with pure data access
type contentRepository[T any] struct {
	db    *pgxpool.Pool
	table table
}

func newContentRepository[T any](db *pgxpool.Pool, t table) *contentRepository[T] {
	return &contentRepository[T]{db: db, table: t}
}

// List returns one page of rows
func (r *contentRepository[T]) List(ctx context.Context, p repositories.ListParams) ([]T, error) {
	q, args := r.table.listSQL(p)
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.table.name, err)
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", r.table.name, err)
	}
	return items, nil
}

// Count returns the number of rows matching the search
func (r *contentRepository[T]) Count(ctx context.Context, p repositories.ListParams) (int, error) {
	q, args := r.table.countSQL(p)
	var n int
	if err := r.db.QueryRow(ctx, q, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", r.table.name, err)
	}
	return n, nil
}

// Delete removes a row by id
func (r *contentRepository[T]) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM "+r.table.name+" WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete %s %d: %w", r.table.name, id, err)
	}
	if tag.RowsAffected() == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// Articles returns the articles repository.
func (r *Repo) Articles() repositories.ListRepository[content.Article] {
	return newContentRepository[content.Article](r.db, articlesTable)
}

// Authors returns the authors repository.
func (r *Repo) Authors() repositories.ListRepository[content.Author] {
	return newContentRepository[content.Author](r.db, authorsTable)
}

// Categories returns the categories repository.
func (r *Repo) Categories() repositories.ListRepository[content.Category] {
	return newContentRepository[content.Category](r.db, categoriesTable)
}

// Subcategories returns the subcategories repository.
func (r *Repo) Subcategories() repositories.ListRepository[content.Subcategory] {
	return newContentRepository[content.Subcategory](r.db, subcategoriesTable)
}

// Tags returns the tags repository.
func (r *Repo) Tags() repositories.ListRepository[content.Tag] {
	return newContentRepository[content.Tag](r.db, tagsTable)
}

// Users returns the users repository.
func (r *Repo) Users() repositories.ListRepository[content.User] {
	return newContentRepository[content.User](r.db, usersTable)
}

// Photos returns the photos repository.
func (r *Repo) Photos() repositories.ListRepository[content.Photo] {
	return newContentRepository[content.Photo](r.db, photosTable)
}
