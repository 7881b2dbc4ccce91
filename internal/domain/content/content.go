package content

import (
	"strconv"
	"strings"
	"time"
)

// Resource names a list-backed collection of the dashboard.
type Resource string

const (
	ResourceArticles      Resource = "articles"
	ResourceAuthors       Resource = "authors"
	ResourceCategories    Resource = "categories"
	ResourceSubcategories Resource = "subcategories"
	ResourceTags          Resource = "tags"
	ResourceUsers         Resource = "users"
	ResourcePhotos        Resource = "photos"
)

// Resources lists every list-backed collection in menu order.
func Resources() []Resource {
	return []Resource{
		ResourceArticles,
		ResourceAuthors,
		ResourceCategories,
		ResourceSubcategories,
		ResourceTags,
		ResourceUsers,
		ResourcePhotos,
	}
}

// ParseResource accepts a resource name in any case.
func ParseResource(raw string) (Resource, bool) {
	r := Resource(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range Resources() {
		if r == known {
			return r, true
		}
	}
	return "", false
}

// Role is a dashboard user's role.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleAuthor Role = "author"
)

// Article is a published or draft piece.
type Article struct {
	ID            int64      `db:"id" json:"id"`
	Title         string     `db:"title" json:"title"`
	Slug          string     `db:"slug" json:"slug"`
	Status        string     `db:"status" json:"status"`
	AuthorID      *int64     `db:"author_id" json:"author_id,omitempty"`
	CategoryID    *int64     `db:"category_id" json:"category_id,omitempty"`
	SubcategoryID *int64     `db:"subcategory_id" json:"subcategory_id,omitempty"`
	PublishedAt   *time.Time `db:"published_at" json:"published_at,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
}

// Author writes articles.
type Author struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Bio       string    `db:"bio" json:"bio"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Category is a top-level section.
type Category struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Slug      string    `db:"slug" json:"slug"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Subcategory belongs to a category.
type Subcategory struct {
	ID         int64     `db:"id" json:"id"`
	CategoryID int64     `db:"category_id" json:"category_id"`
	Name       string    `db:"name" json:"name"`
	Slug       string    `db:"slug" json:"slug"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// Tag labels articles.
type Tag struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Slug      string    `db:"slug" json:"slug"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// User is a dashboard account.
type User struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Role      Role      `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Photo is a media library image.
type Photo struct {
	ID        int64     `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	URL       string    `db:"url" json:"url"`
	AltText   string    `db:"alt_text" json:"alt_text"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// FormatID renders an entity id for URLs.
func FormatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// ParseID parses an id from a URL segment.
func ParseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
