package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"meetblog/internal/domain/models"
	"meetblog/internal/lib/htmltext"
	"meetblog/internal/lib/logger/sl"
	"meetblog/internal/lib/slug"
	"meetblog/internal/storage/kv"
)

// Fixed keys the local repository keeps its collections under.
const (
	keyPosts      = "blog:posts"
	keyCategories = "blog:categories"
	keyAuthors    = "blog:authors"
)

// ErrCategoryInUse is returned by DeleteCategory while posts still
// reference the category.
var ErrCategoryInUse = errors.New("category still has posts")

// LocalRepository stores all three collections as JSON arrays in a
// key-value store. Read-modify-write cycles are not serialized: the store
// is not transactional under concurrent writers, which is acceptable for a
// single-instance marketing blog.
type LocalRepository struct {
	log   *slog.Logger
	store kv.Store
}

// NewLocalRepository builds the repository and seeds the demo dataset if
// the store is empty. Seeding is idempotent: existing data is never
// duplicated or altered.
func NewLocalRepository(ctx context.Context, log *slog.Logger, store kv.Store) (*LocalRepository, error) {
	const op = "repository.NewLocalRepository"

	r := &LocalRepository{log: log, store: store}

	if err := r.bootstrap(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return r, nil
}

func (r *LocalRepository) bootstrap(ctx context.Context) error {
	const op = "repository.bootstrap"

	log := r.log.With(slog.String("op", op))

	_, err := r.store.Get(ctx, keyPosts)
	if err == nil {
		return nil
	}
	if !errors.Is(err, kv.ErrKeyNotFound) {
		return err
	}

	log.Info("empty store, seeding demo dataset")

	if err := r.save(ctx, keyPosts, samplePosts()); err != nil {
		return err
	}

	if _, err := r.store.Get(ctx, keyCategories); errors.Is(err, kv.ErrKeyNotFound) {
		if err := r.save(ctx, keyCategories, sampleCategories()); err != nil {
			return err
		}
	}

	if _, err := r.store.Get(ctx, keyAuthors); errors.Is(err, kv.ErrKeyNotFound) {
		if err := r.save(ctx, keyAuthors, sampleAuthors()); err != nil {
			return err
		}
	}

	if err := r.recomputeCategoryCounts(ctx); err != nil {
		return err
	}

	log.Info("demo dataset seeded")

	return nil
}

// load decodes the collection under key. A missing key is an empty
// collection; undecodable data is surfaced as an error so that corruption
// is never silently read back as "no data".
func load[T any](ctx context.Context, r *LocalRepository, key string) ([]T, error) {
	raw, err := r.store.Get(ctx, key)
	if errors.Is(err, kv.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("corrupted data under %q: %w", key, err)
	}

	return items, nil
}

func (r *LocalRepository) save(ctx context.Context, key string, items any) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, key, raw)
}

// recomputeCategoryCounts rescans the full post collection and rewrites
// every category's cached published-post count. Deliberately O(posts x
// categories) per mutation, trading efficiency for an impossible-to-drift
// counter.
func (r *LocalRepository) recomputeCategoryCounts(ctx context.Context) error {
	posts, err := load[models.Post](ctx, r, keyPosts)
	if err != nil {
		return err
	}
	categories, err := load[models.Category](ctx, r, keyCategories)
	if err != nil {
		return err
	}

	for i := range categories {
		count := 0
		for _, p := range posts {
			if p.CategoryID == categories[i].ID && p.Published() {
				count++
			}
		}
		categories[i].PostCount = count
	}

	return r.save(ctx, keyCategories, categories)
}

func (r *LocalRepository) GetAllPosts(ctx context.Context, opts models.ListOptions) ([]models.Post, error) {
	const op = "repository.local.GetAllPosts"

	posts, err := load[models.Post](ctx, r, keyPosts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return paginate(posts, opts), nil
}

func (r *LocalRepository) GetPublishedPosts(ctx context.Context, opts models.ListOptions) ([]models.Post, error) {
	const op = "repository.local.GetPublishedPosts"

	posts, err := load[models.Post](ctx, r, keyPosts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	published := make([]models.Post, 0, len(posts))
	for _, p := range posts {
		if p.Published() {
			published = append(published, p)
		}
	}

	return paginate(published, opts), nil
}

func (r *LocalRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	const op = "repository.local.GetPostByID"

	posts, err := load[models.Post](ctx, r, keyPosts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, p := range posts {
		if p.ID == id {
			return &p, nil
		}
	}

	return nil, nil
}

func (r *LocalRepository) GetPostBySlug(ctx context.Context, postSlug string) (*models.Post, error) {
	const op = "repository.local.GetPostBySlug"

	posts, err := load[models.Post](ctx, r, keyPosts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, p := range posts {
		if p.Slug == postSlug {
			return &p, nil
		}
	}

	return nil, nil
}

// GetPostsByCategory filters published posts by category identifier, not by
// category slug. Callers resolve the category first.
func (r *LocalRepository) GetPostsByCategory(ctx context.Context, categoryID string) ([]models.Post, error) {
	const op = "repository.local.GetPostsByCategory"

	posts, err := r.GetPublishedPosts(ctx, models.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	matched := make([]models.Post, 0)
	for _, p := range posts {
		if p.CategoryID == categoryID {
			matched = append(matched, p)
		}
	}

	return matched, nil
}

func (r *LocalRepository) GetPostsByAuthor(ctx context.Context, authorID string) ([]models.Post, error) {
	const op = "repository.local.GetPostsByAuthor"

	posts, err := r.GetPublishedPosts(ctx, models.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	matched := make([]models.Post, 0)
	for _, p := range posts {
		if p.AuthorID == authorID {
			matched = append(matched, p)
		}
	}

	return matched, nil
}

func (r *LocalRepository) GetFeaturedPosts(ctx context.Context) ([]models.Post, error) {
	const op = "repository.local.GetFeaturedPosts"

	posts, err := r.GetPublishedPosts(ctx, models.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	featured := make([]models.Post, 0)
	for _, p := range posts {
		if p.Featured {
			featured = append(featured, p)
		}
	}

	return featured, nil
}

// SearchPosts matches the lowercased query as a substring of title, excerpt
// or any tag. No ranking: matches keep collection order.
func (r *LocalRepository) SearchPosts(ctx context.Context, query string) ([]models.Post, error) {
	const op = "repository.local.SearchPosts"

	posts, err := r.GetPublishedPosts(ctx, models.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	term := strings.ToLower(query)
	matched := make([]models.Post, 0)

	for _, p := range posts {
		if strings.Contains(strings.ToLower(p.Title), term) ||
			strings.Contains(strings.ToLower(p.Excerpt), term) ||
			anyTagMatches(p.Tags, term) {
			matched = append(matched, p)
		}
	}

	return matched, nil
}

func anyTagMatches(tags []string, term string) bool {
	for _, tag := range tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return false
}

func (r *LocalRepository) CreatePost(ctx context.Context, input models.PostInput) (*models.Post, error) {
	const op = "repository.local.CreatePost"

	log := r.log.With(slog.String("op", op), slog.String("title", input.Title))

	posts, err := load[models.Post](ctx, r, keyPosts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	status := input.Status
	if status == "" {
		status = models.StatusDraft
	}

	now := time.Now().UTC()
	post := models.Post{
		ID:             uuid.NewString(),
		Title:          input.Title,
		Slug:           uniqueSlug(slug.Generate(input.Title), posts),
		Content:        input.Content,
		Excerpt:        input.Excerpt,
		HeroImage:      input.HeroImage,
		CategoryID:     input.CategoryID,
		Tags:           input.Tags,
		AuthorID:       input.AuthorID,
		Status:         status,
		Featured:       input.Featured,
		Views:          0,
		ReadTime:       htmltext.ReadTime(input.Content),
		PublishedAt:    now,
		UpdatedAt:      now,
		SEOTitle:       input.SEOTitle,
		SEODescription: input.SEODescription,
		SEOKeywords:    input.SEOKeywords,
		TOC:            htmltext.TableOfContents(input.Content),
	}

	posts = append(posts, post)

	if err := r.save(ctx, keyPosts, posts); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := r.recomputeCategoryCounts(ctx); err != nil {
		log.Error("failed to recompute category counts", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("post created", slog.String("post_id", post.ID), slog.String("slug", post.Slug))

	return &post, nil
}

// uniqueSlug appends -2, -3, ... until the slug is unused. Creating a post
// never overwrites an existing one.
func uniqueSlug(base string, posts []models.Post) string {
	taken := make(map[string]bool, len(posts))
	for _, p := range posts {
		taken[p.Slug] = true
	}

	if !taken[base] {
		return base
	}

	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s-%d", base, i)
		if !taken[candidate] {
			return candidate
		}
	}
}

func (r *LocalRepository) UpdatePost(ctx context.Context, id string, patch models.PostPatch) (*models.Post, error) {
	const op = "repository.local.UpdatePost"

	log := r.log.With(slog.String("op", op), slog.String("post_id", id))

	posts, err := load[models.Post](ctx, r, keyPosts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	idx := -1
	for i := range posts {
		if posts[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, nil
	}

	p := &posts[idx]

	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Content != nil {
		p.Content = *patch.Content
		p.ReadTime = htmltext.ReadTime(p.Content)
		p.TOC = htmltext.TableOfContents(p.Content)
	}
	if patch.Excerpt != nil {
		p.Excerpt = *patch.Excerpt
	}
	if patch.HeroImage != nil {
		p.HeroImage = *patch.HeroImage
	}
	if patch.CategoryID != nil {
		p.CategoryID = *patch.CategoryID
	}
	if patch.Tags != nil {
		p.Tags = *patch.Tags
	}
	if patch.AuthorID != nil {
		p.AuthorID = *patch.AuthorID
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.Featured != nil {
		p.Featured = *patch.Featured
	}
	if patch.SEOTitle != nil {
		p.SEOTitle = *patch.SEOTitle
	}
	if patch.SEODescription != nil {
		p.SEODescription = *patch.SEODescription
	}
	if patch.SEOKeywords != nil {
		p.SEOKeywords = *patch.SEOKeywords
	}

	// publishedAt is never touched by updates, only updatedAt moves.
	p.UpdatedAt = time.Now().UTC()

	if err := r.save(ctx, keyPosts, posts); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := r.recomputeCategoryCounts(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("post updated")

	updated := posts[idx]
	return &updated, nil
}

func (r *LocalRepository) DeletePost(ctx context.Context, id string) (bool, error) {
	const op = "repository.local.DeletePost"

	posts, err := load[models.Post](ctx, r, keyPosts)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	kept := make([]models.Post, 0, len(posts))
	for _, p := range posts {
		if p.ID != id {
			kept = append(kept, p)
		}
	}

	if len(kept) == len(posts) {
		return false, nil
	}

	if err := r.save(ctx, keyPosts, kept); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if err := r.recomputeCategoryCounts(ctx); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	r.log.Info("post deleted", slog.String("op", op), slog.String("post_id", id))

	return true, nil
}

// IncrementViews bumps the counter of the post with the given slug.
// A missing slug is a no-op, not an error.
func (r *LocalRepository) IncrementViews(ctx context.Context, postSlug string) error {
	const op = "repository.local.IncrementViews"

	posts, err := load[models.Post](ctx, r, keyPosts)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	for i := range posts {
		if posts[i].Slug == postSlug {
			posts[i].Views++
			if err := r.save(ctx, keyPosts, posts); err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}
			return nil
		}
	}

	return nil
}

func (r *LocalRepository) GetAllCategories(ctx context.Context) ([]models.Category, error) {
	const op = "repository.local.GetAllCategories"

	categories, err := load[models.Category](ctx, r, keyCategories)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return categories, nil
}

func (r *LocalRepository) GetCategoryByID(ctx context.Context, id string) (*models.Category, error) {
	const op = "repository.local.GetCategoryByID"

	categories, err := load[models.Category](ctx, r, keyCategories)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, c := range categories {
		if c.ID == id {
			return &c, nil
		}
	}

	return nil, nil
}

func (r *LocalRepository) GetCategoryBySlug(ctx context.Context, categorySlug string) (*models.Category, error) {
	const op = "repository.local.GetCategoryBySlug"

	categories, err := load[models.Category](ctx, r, keyCategories)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, c := range categories {
		if c.Slug == categorySlug {
			return &c, nil
		}
	}

	return nil, nil
}

func (r *LocalRepository) CreateCategory(ctx context.Context, input models.CategoryInput) (*models.Category, error) {
	const op = "repository.local.CreateCategory"

	categories, err := load[models.Category](ctx, r, keyCategories)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	category := models.Category{
		ID:          uuid.NewString(),
		Name:        input.Name,
		Slug:        slug.Generate(input.Name),
		Description: input.Description,
		Color:       input.Color,
		Image:       input.Image,
		PostCount:   0,
	}

	categories = append(categories, category)

	if err := r.save(ctx, keyCategories, categories); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	r.log.Info("category created", slog.String("op", op), slog.String("category_id", category.ID))

	return &category, nil
}

func (r *LocalRepository) UpdateCategory(ctx context.Context, id string, patch models.CategoryPatch) (*models.Category, error) {
	const op = "repository.local.UpdateCategory"

	categories, err := load[models.Category](ctx, r, keyCategories)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for i := range categories {
		if categories[i].ID != id {
			continue
		}

		c := &categories[i]
		if patch.Name != nil {
			c.Name = *patch.Name
		}
		if patch.Description != nil {
			c.Description = *patch.Description
		}
		if patch.Color != nil {
			c.Color = *patch.Color
		}
		if patch.Image != nil {
			c.Image = *patch.Image
		}

		if err := r.save(ctx, keyCategories, categories); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		updated := categories[i]
		return &updated, nil
	}

	return nil, nil
}

// DeleteCategory removes an empty category. Categories still referenced by
// posts (of any status) cannot be removed.
func (r *LocalRepository) DeleteCategory(ctx context.Context, id string) (bool, error) {
	const op = "repository.local.DeleteCategory"

	posts, err := load[models.Post](ctx, r, keyPosts)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	for _, p := range posts {
		if p.CategoryID == id {
			return false, fmt.Errorf("%s: %w", op, ErrCategoryInUse)
		}
	}

	categories, err := load[models.Category](ctx, r, keyCategories)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	kept := make([]models.Category, 0, len(categories))
	for _, c := range categories {
		if c.ID != id {
			kept = append(kept, c)
		}
	}

	if len(kept) == len(categories) {
		return false, nil
	}

	if err := r.save(ctx, keyCategories, kept); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return true, nil
}

func (r *LocalRepository) GetAllAuthors(ctx context.Context) ([]models.Author, error) {
	const op = "repository.local.GetAllAuthors"

	authors, err := load[models.Author](ctx, r, keyAuthors)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return authors, nil
}

func (r *LocalRepository) GetAuthorByID(ctx context.Context, id string) (*models.Author, error) {
	const op = "repository.local.GetAuthorByID"

	authors, err := load[models.Author](ctx, r, keyAuthors)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, a := range authors {
		if a.ID == id {
			return &a, nil
		}
	}

	return nil, nil
}

func (r *LocalRepository) GetStats(ctx context.Context) (models.BlogStats, error) {
	const op = "repository.local.GetStats"

	posts, err := load[models.Post](ctx, r, keyPosts)
	if err != nil {
		return models.BlogStats{}, fmt.Errorf("%s: %w", op, err)
	}
	categories, err := load[models.Category](ctx, r, keyCategories)
	if err != nil {
		return models.BlogStats{}, fmt.Errorf("%s: %w", op, err)
	}
	authors, err := load[models.Author](ctx, r, keyAuthors)
	if err != nil {
		return models.BlogStats{}, fmt.Errorf("%s: %w", op, err)
	}

	stats := models.BlogStats{
		TotalPosts:      len(posts),
		TotalCategories: len(categories),
		TotalAuthors:    len(authors),
	}
	for _, p := range posts {
		stats.TotalViews += p.Views
		switch p.Status {
		case models.StatusPublished:
			stats.PublishedPosts++
		case models.StatusDraft:
			stats.DraftPosts++
		}
	}

	return stats, nil
}

func paginate(items []models.Post, opts models.ListOptions) []models.Post {
	if opts.Page < 1 || opts.PerPage < 1 {
		return items
	}

	start := (opts.Page - 1) * opts.PerPage
	if start >= len(items) {
		return []models.Post{}
	}

	end := start + opts.PerPage
	if end > len(items) {
		end = len(items)
	}

	return items[start:end]
}
