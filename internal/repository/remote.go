package repository

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"meetblog/internal/apiclient"
	"meetblog/internal/domain/models"
)

// Backend resource paths, trailing slash included.
const (
	pathPosts      = "/api/blog/posts/"
	pathCategories = "/api/blog/categories/"
	pathAuthors    = "/api/blog/authors/"
	pathStats      = "/api/blog/stats/"
)

// RemoteRepository reads and writes content through the headless blog
// backend. List responses arrive paginated; detail lookups use the slug or
// id as the path segment.
type RemoteRepository struct {
	log      *slog.Logger
	client   *apiclient.Client
	pageSize int
}

func NewRemoteRepository(log *slog.Logger, client *apiclient.Client, pageSize int) *RemoteRepository {
	return &RemoteRepository{log: log, client: client, pageSize: pageSize}
}

// Wire shapes. Reads embed the full category and author objects, writes
// reference them by bare id.

type postWire struct {
	ID             string       `json:"id"`
	Title          string       `json:"title"`
	Slug           string       `json:"slug"`
	Content        string       `json:"content"`
	Excerpt        string       `json:"excerpt"`
	HeroImage      string       `json:"hero_image"`
	Category       categoryWire `json:"category"`
	Author         authorWire   `json:"author"`
	Tags           []string     `json:"tags"`
	Status         string       `json:"status"`
	Featured       bool         `json:"featured"`
	Views          int          `json:"views"`
	ReadTime       int          `json:"read_time"`
	PublishedAt    *time.Time   `json:"published_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
	SEOTitle       string       `json:"seo_title"`
	SEODescription string       `json:"seo_description"`
	SEOKeywords    []string     `json:"seo_keywords"`
}

type categoryWire struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Image       string `json:"image"`
	PostCount   int    `json:"post_count"`
}

type authorWire struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Email       string            `json:"email"`
	Bio         string            `json:"bio"`
	Avatar      string            `json:"avatar"`
	SocialLinks map[string]string `json:"social_links"`
}

type statsWire struct {
	TotalPosts      int `json:"total_posts"`
	PublishedPosts  int `json:"published_posts"`
	DraftPosts      int `json:"draft_posts"`
	TotalViews      int `json:"total_views"`
	TotalCategories int `json:"total_categories"`
	TotalAuthors    int `json:"total_authors"`
}

type postRequest struct {
	Title          string   `json:"title"`
	Content        string   `json:"content"`
	Excerpt        string   `json:"excerpt"`
	HeroImage      string   `json:"hero_image,omitempty"`
	Category       string   `json:"category"`
	Tags           []string `json:"tags"`
	Author         string   `json:"author"`
	Status         string   `json:"status"`
	Featured       bool     `json:"featured"`
	SEOTitle       string   `json:"seo_title,omitempty"`
	SEODescription string   `json:"seo_description,omitempty"`
	SEOKeywords    []string `json:"seo_keywords,omitempty"`
}

func postFromWire(w postWire) models.Post {
	p := models.Post{
		ID:             w.ID,
		Title:          w.Title,
		Slug:           w.Slug,
		Content:        w.Content,
		Excerpt:        w.Excerpt,
		HeroImage:      w.HeroImage,
		CategoryID:     w.Category.ID,
		Tags:           w.Tags,
		AuthorID:       w.Author.ID,
		Status:         w.Status,
		Featured:       w.Featured,
		Views:          w.Views,
		ReadTime:       w.ReadTime,
		UpdatedAt:      w.UpdatedAt,
		SEOTitle:       w.SEOTitle,
		SEODescription: w.SEODescription,
		SEOKeywords:    w.SEOKeywords,
	}
	if w.PublishedAt != nil {
		p.PublishedAt = *w.PublishedAt
	}
	return p
}

func categoryFromWire(w categoryWire) models.Category {
	return models.Category{
		ID:          w.ID,
		Name:        w.Name,
		Slug:        w.Slug,
		Description: w.Description,
		Color:       w.Color,
		Image:       w.Image,
		PostCount:   w.PostCount,
	}
}

func authorFromWire(w authorWire) models.Author {
	return models.Author{
		ID:          w.ID,
		Name:        w.Name,
		Email:       w.Email,
		Bio:         w.Bio,
		Avatar:      w.Avatar,
		SocialLinks: w.SocialLinks,
	}
}

func (r *RemoteRepository) listQuery(opts models.ListOptions) url.Values {
	q := url.Values{}
	if opts.Page > 0 {
		q.Set("page", strconv.Itoa(opts.Page))
	}
	perPage := opts.PerPage
	if perPage <= 0 {
		perPage = r.pageSize
	}
	if perPage > 0 {
		q.Set("page_size", strconv.Itoa(perPage))
	}
	return q
}

func (r *RemoteRepository) listPosts(ctx context.Context, op string, query url.Values) ([]models.Post, error) {
	var page apiclient.Paginated[postWire]
	if err := r.client.Get(ctx, pathPosts, query, &page); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	posts := make([]models.Post, 0, len(page.Results))
	for _, w := range page.Results {
		posts = append(posts, postFromWire(w))
	}
	return posts, nil
}

func (r *RemoteRepository) GetAllPosts(ctx context.Context, opts models.ListOptions) ([]models.Post, error) {
	return r.listPosts(ctx, "repository.remote.GetAllPosts", r.listQuery(opts))
}

func (r *RemoteRepository) GetPublishedPosts(ctx context.Context, opts models.ListOptions) ([]models.Post, error) {
	q := r.listQuery(opts)
	q.Set("status", models.StatusPublished)
	return r.listPosts(ctx, "repository.remote.GetPublishedPosts", q)
}

func (r *RemoteRepository) getPost(ctx context.Context, op, key string) (*models.Post, error) {
	var w postWire
	err := r.client.Get(ctx, pathPosts+key+"/", nil, &w)
	if apiclient.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	post := postFromWire(w)
	return &post, nil
}

func (r *RemoteRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	return r.getPost(ctx, "repository.remote.GetPostByID", id)
}

func (r *RemoteRepository) GetPostBySlug(ctx context.Context, slug string) (*models.Post, error) {
	return r.getPost(ctx, "repository.remote.GetPostBySlug", slug)
}

func (r *RemoteRepository) GetPostsByCategory(ctx context.Context, categoryID string) ([]models.Post, error) {
	q := url.Values{}
	q.Set("category", categoryID)
	return r.listPosts(ctx, "repository.remote.GetPostsByCategory", q)
}

func (r *RemoteRepository) GetPostsByAuthor(ctx context.Context, authorID string) ([]models.Post, error) {
	q := url.Values{}
	q.Set("author", authorID)
	return r.listPosts(ctx, "repository.remote.GetPostsByAuthor", q)
}

func (r *RemoteRepository) GetFeaturedPosts(ctx context.Context) ([]models.Post, error) {
	q := url.Values{}
	q.Set("featured", "true")
	return r.listPosts(ctx, "repository.remote.GetFeaturedPosts", q)
}

func (r *RemoteRepository) SearchPosts(ctx context.Context, query string) ([]models.Post, error) {
	const op = "repository.remote.SearchPosts"

	q := url.Values{}
	q.Set("query", query)

	var parsed struct {
		Results []postWire `json:"results"`
		Count   int        `json:"count"`
	}
	if err := r.client.Get(ctx, pathPosts+"search/", q, &parsed); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	posts := make([]models.Post, 0, len(parsed.Results))
	for _, w := range parsed.Results {
		posts = append(posts, postFromWire(w))
	}
	return posts, nil
}

func (r *RemoteRepository) CreatePost(ctx context.Context, input models.PostInput) (*models.Post, error) {
	const op = "repository.remote.CreatePost"

	status := input.Status
	if status == "" {
		status = models.StatusDraft
	}

	body := postRequest{
		Title:          input.Title,
		Content:        input.Content,
		Excerpt:        input.Excerpt,
		HeroImage:      input.HeroImage,
		Category:       input.CategoryID,
		Tags:           input.Tags,
		Author:         input.AuthorID,
		Status:         status,
		Featured:       input.Featured,
		SEOTitle:       input.SEOTitle,
		SEODescription: input.SEODescription,
		SEOKeywords:    input.SEOKeywords,
	}

	var w postWire
	if err := r.client.Post(ctx, pathPosts, body, &w); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	post := postFromWire(w)
	return &post, nil
}

func (r *RemoteRepository) UpdatePost(ctx context.Context, id string, patch models.PostPatch) (*models.Post, error) {
	const op = "repository.remote.UpdatePost"

	body := map[string]any{}
	if patch.Title != nil {
		body["title"] = *patch.Title
	}
	if patch.Content != nil {
		body["content"] = *patch.Content
	}
	if patch.Excerpt != nil {
		body["excerpt"] = *patch.Excerpt
	}
	if patch.HeroImage != nil {
		body["hero_image"] = *patch.HeroImage
	}
	if patch.CategoryID != nil {
		body["category"] = *patch.CategoryID
	}
	if patch.Tags != nil {
		body["tags"] = *patch.Tags
	}
	if patch.AuthorID != nil {
		body["author"] = *patch.AuthorID
	}
	if patch.Status != nil {
		body["status"] = *patch.Status
	}
	if patch.Featured != nil {
		body["featured"] = *patch.Featured
	}
	if patch.SEOTitle != nil {
		body["seo_title"] = *patch.SEOTitle
	}
	if patch.SEODescription != nil {
		body["seo_description"] = *patch.SEODescription
	}
	if patch.SEOKeywords != nil {
		body["seo_keywords"] = *patch.SEOKeywords
	}

	var w postWire
	err := r.client.Patch(ctx, pathPosts+id+"/", body, &w)
	if apiclient.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	post := postFromWire(w)
	return &post, nil
}

func (r *RemoteRepository) DeletePost(ctx context.Context, id string) (bool, error) {
	const op = "repository.remote.DeletePost"

	err := r.client.Delete(ctx, pathPosts+id+"/")
	if apiclient.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return true, nil
}

// IncrementViews is a no-op against the backend: it counts a view on every
// detail read itself.
func (r *RemoteRepository) IncrementViews(ctx context.Context, slug string) error {
	return nil
}

func (r *RemoteRepository) GetAllCategories(ctx context.Context) ([]models.Category, error) {
	const op = "repository.remote.GetAllCategories"

	var page apiclient.Paginated[categoryWire]
	if err := r.client.Get(ctx, pathCategories, nil, &page); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	categories := make([]models.Category, 0, len(page.Results))
	for _, w := range page.Results {
		categories = append(categories, categoryFromWire(w))
	}
	return categories, nil
}

func (r *RemoteRepository) getCategory(ctx context.Context, op, key string) (*models.Category, error) {
	var w categoryWire
	err := r.client.Get(ctx, pathCategories+key+"/", nil, &w)
	if apiclient.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	category := categoryFromWire(w)
	return &category, nil
}

func (r *RemoteRepository) GetCategoryByID(ctx context.Context, id string) (*models.Category, error) {
	return r.getCategory(ctx, "repository.remote.GetCategoryByID", id)
}

func (r *RemoteRepository) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return r.getCategory(ctx, "repository.remote.GetCategoryBySlug", slug)
}

func (r *RemoteRepository) CreateCategory(ctx context.Context, input models.CategoryInput) (*models.Category, error) {
	const op = "repository.remote.CreateCategory"

	body := map[string]any{
		"name":        input.Name,
		"description": input.Description,
		"color":       input.Color,
		"image":       input.Image,
	}

	var w categoryWire
	if err := r.client.Post(ctx, pathCategories, body, &w); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	category := categoryFromWire(w)
	return &category, nil
}

func (r *RemoteRepository) UpdateCategory(ctx context.Context, id string, patch models.CategoryPatch) (*models.Category, error) {
	const op = "repository.remote.UpdateCategory"

	body := map[string]any{}
	if patch.Name != nil {
		body["name"] = *patch.Name
	}
	if patch.Description != nil {
		body["description"] = *patch.Description
	}
	if patch.Color != nil {
		body["color"] = *patch.Color
	}
	if patch.Image != nil {
		body["image"] = *patch.Image
	}

	var w categoryWire
	err := r.client.Patch(ctx, pathCategories+id+"/", body, &w)
	if apiclient.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	category := categoryFromWire(w)
	return &category, nil
}

func (r *RemoteRepository) DeleteCategory(ctx context.Context, id string) (bool, error) {
	const op = "repository.remote.DeleteCategory"

	err := r.client.Delete(ctx, pathCategories+id+"/")
	if apiclient.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return true, nil
}

func (r *RemoteRepository) GetAllAuthors(ctx context.Context) ([]models.Author, error) {
	const op = "repository.remote.GetAllAuthors"

	var page apiclient.Paginated[authorWire]
	if err := r.client.Get(ctx, pathAuthors, nil, &page); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	authors := make([]models.Author, 0, len(page.Results))
	for _, w := range page.Results {
		authors = append(authors, authorFromWire(w))
	}
	return authors, nil
}

func (r *RemoteRepository) GetAuthorByID(ctx context.Context, id string) (*models.Author, error) {
	const op = "repository.remote.GetAuthorByID"

	var w authorWire
	err := r.client.Get(ctx, pathAuthors+id+"/", nil, &w)
	if apiclient.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	author := authorFromWire(w)
	return &author, nil
}

func (r *RemoteRepository) GetStats(ctx context.Context) (models.BlogStats, error) {
	const op = "repository.remote.GetStats"

	var w statsWire
	if err := r.client.Get(ctx, pathStats, nil, &w); err != nil {
		return models.BlogStats{}, fmt.Errorf("%s: %w", op, err)
	}

	return models.BlogStats{
		TotalPosts:      w.TotalPosts,
		PublishedPosts:  w.PublishedPosts,
		DraftPosts:      w.DraftPosts,
		TotalViews:      w.TotalViews,
		TotalCategories: w.TotalCategories,
		TotalAuthors:    w.TotalAuthors,
	}, nil
}
