package models

import "time"

// Post lifecycle statuses.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

// TOCEntry is a single generated table-of-contents item.
type TOCEntry struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Level int    `json:"level"`
}

// Post is the central blog entity. Relations to Category and Author are kept
// as bare string identifiers, never as embedded objects.
type Post struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Slug           string     `json:"slug"`
	Content        string     `json:"content"`
	Excerpt        string     `json:"excerpt"`
	HeroImage      string     `json:"hero_image,omitempty"`
	CategoryID     string     `json:"category"`
	Tags           []string   `json:"tags"`
	AuthorID       string     `json:"author"`
	Status         string     `json:"status"`
	Featured       bool       `json:"featured"`
	Views          int        `json:"views"`
	ReadTime       int        `json:"read_time"`
	PublishedAt    time.Time  `json:"published_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	SEOTitle       string     `json:"seo_title,omitempty"`
	SEODescription string     `json:"seo_description,omitempty"`
	SEOKeywords    []string   `json:"seo_keywords,omitempty"`
	TOC            []TOCEntry `json:"table_of_contents,omitempty"`
}

// Published reports whether the post is visible to readers.
func (p Post) Published() bool {
	return p.Status == StatusPublished
}

// Category groups posts. PostCount is a derived cache of published posts
// referencing the category, recomputed after every post mutation.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
	Image       string `json:"image,omitempty"`
	PostCount   int    `json:"post_count"`
}

type Author struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Email       string            `json:"email"`
	Bio         string            `json:"bio,omitempty"`
	Avatar      string            `json:"avatar,omitempty"`
	SocialLinks map[string]string `json:"social_links,omitempty"`
}

type BlogStats struct {
	TotalPosts      int `json:"total_posts"`
	PublishedPosts  int `json:"published_posts"`
	DraftPosts      int `json:"draft_posts"`
	TotalViews      int `json:"total_views"`
	TotalCategories int `json:"total_categories"`
	TotalAuthors    int `json:"total_authors"`
}

// PostInput carries the caller-supplied fields for post creation. ID, slug,
// timestamps, views and read time are assigned by the repository.
type PostInput struct {
	Title          string   `validate:"required,min=5"`
	Content        string   `validate:"required,min=100"`
	Excerpt        string   `validate:"required,min=50"`
	HeroImage      string
	CategoryID     string `validate:"required"`
	Tags           []string `validate:"required,min=1"`
	AuthorID       string `validate:"required"`
	Status         string `validate:"omitempty,oneof=draft published archived"`
	Featured       bool
	SEOTitle       string
	SEODescription string
	SEOKeywords    []string
}

// PostPatch is a partial update: nil fields are left untouched.
type PostPatch struct {
	Title          *string
	Content        *string
	Excerpt        *string
	HeroImage      *string
	CategoryID     *string
	Tags           *[]string
	AuthorID       *string
	Status         *string
	Featured       *bool
	SEOTitle       *string
	SEODescription *string
	SEOKeywords    *[]string
}

type CategoryInput struct {
	Name        string `validate:"required,min=2"`
	Description string
	Color       string
	Image       string
}

type CategoryPatch struct {
	Name        *string
	Description *string
	Color       *string
	Image       *string
}

// ListOptions selects one page of a list operation. The zero value means
// "no pagination": the local repository returns the full collection, the
// remote one falls back to the backend defaults.
type ListOptions struct {
	Page    int
	PerPage int
}
