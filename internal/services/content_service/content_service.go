package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"meetblog/internal/domain/models"
	"meetblog/internal/lib/datefmt"
	"meetblog/internal/lib/logger/sl"
	"meetblog/internal/lib/seo"
	"meetblog/internal/repository"
)

// Default limits matching the public site widgets.
const (
	defaultRelatedLimit = 3
	defaultLatestLimit  = 10
	defaultPopularLimit = 5
)

// Related post scoring: same category beats any number of shared tags
// shy of four.
const (
	sameCategoryScore = 10
	sharedTagScore    = 3
)

// ValidationError carries all violations of a submitted post at once, in
// the same order the fields are declared.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "валидация не пройдена: " + strings.Join(e.Errors, ", ")
}

// ValidationResult is the check outcome handed to editorial UI.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// Breadcrumb is one element of the navigation trail for a post page.
type Breadcrumb struct {
	Name string `json:"name"`
	Href string `json:"href"`
}

// ContentService is the reading and editorial facade over the content
// repository. It owns ranking, validation and presentation helpers; the
// repository stays a dumb collection.
type ContentService struct {
	log      *slog.Logger
	repo     repository.ContentRepository
	validate *validator.Validate
	baseURL  string
}

func NewContentService(log *slog.Logger, repo repository.ContentRepository, baseURL string) *ContentService {
	if baseURL == "" {
		baseURL = "https://mymeet.ai"
	}
	return &ContentService{
		log:      log,
		repo:     repo,
		validate: validator.New(),
		baseURL:  baseURL,
	}
}

func (s *ContentService) GetAllPosts(ctx context.Context, opts models.ListOptions) ([]models.Post, error) {
	return s.repo.GetAllPosts(ctx, opts)
}

func (s *ContentService) GetPublishedPosts(ctx context.Context, opts models.ListOptions) ([]models.Post, error) {
	return s.repo.GetPublishedPosts(ctx, opts)
}

// GetPostBySlug returns the post and counts the read. Only published posts
// accumulate views: previews of drafts leave the counter alone.
func (s *ContentService) GetPostBySlug(ctx context.Context, slug string) (*models.Post, error) {
	const op = "content_service.GetPostBySlug"

	post, err := s.repo.GetPostBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if post == nil {
		return nil, nil
	}

	if post.Published() {
		if err := s.repo.IncrementViews(ctx, slug); err != nil {
			// A lost view is not worth failing the page for.
			s.log.Warn("failed to increment views",
				slog.String("op", op), slog.String("slug", slug), sl.Err(err))
		} else {
			post.Views++
		}
	}

	return post, nil
}

func (s *ContentService) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	return s.repo.GetPostByID(ctx, id)
}

// GetRelatedPosts ranks other published posts against the one with the
// given slug: the same category scores 10, every shared tag scores 3.
// Posts with zero score are dropped; ties keep collection order.
func (s *ContentService) GetRelatedPosts(ctx context.Context, slug string, limit int) ([]models.Post, error) {
	const op = "content_service.GetRelatedPosts"

	if limit <= 0 {
		limit = defaultRelatedLimit
	}

	current, err := s.repo.GetPostBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if current == nil {
		return []models.Post{}, nil
	}

	all, err := s.repo.GetPublishedPosts(ctx, models.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	type scored struct {
		post  models.Post
		score int
	}

	candidates := make([]scored, 0, len(all))
	for _, p := range all {
		if p.ID == current.ID {
			continue
		}

		score := 0
		if p.CategoryID == current.CategoryID {
			score += sameCategoryScore
		}
		for _, tag := range p.Tags {
			if containsTag(current.Tags, tag) {
				score += sharedTagScore
			}
		}

		if score > 0 {
			candidates = append(candidates, scored{post: p, score: score})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	related := make([]models.Post, 0, len(candidates))
	for _, c := range candidates {
		related = append(related, c.post)
	}
	return related, nil
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// GetLatestPosts returns published posts newest first.
func (s *ContentService) GetLatestPosts(ctx context.Context, limit int) ([]models.Post, error) {
	const op = "content_service.GetLatestPosts"

	if limit <= 0 {
		limit = defaultLatestLimit
	}

	posts, err := s.repo.GetPublishedPosts(ctx, models.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].PublishedAt.After(posts[j].PublishedAt)
	})

	if len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

// GetPopularPosts returns published posts by view count, most read first.
func (s *ContentService) GetPopularPosts(ctx context.Context, limit int) ([]models.Post, error) {
	const op = "content_service.GetPopularPosts"

	if limit <= 0 {
		limit = defaultPopularLimit
	}

	posts, err := s.repo.GetPublishedPosts(ctx, models.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Views > posts[j].Views
	})

	if len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

// GetPostsByCategorySlug resolves the category first; an unknown slug is an
// empty list, not an error.
func (s *ContentService) GetPostsByCategorySlug(ctx context.Context, categorySlug string, limit int) ([]models.Post, error) {
	const op = "content_service.GetPostsByCategorySlug"

	category, err := s.repo.GetCategoryBySlug(ctx, categorySlug)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if category == nil {
		return []models.Post{}, nil
	}

	posts, err := s.repo.GetPostsByCategory(ctx, category.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if limit > 0 && len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

func (s *ContentService) GetFeaturedPosts(ctx context.Context, limit int) ([]models.Post, error) {
	const op = "content_service.GetFeaturedPosts"

	posts, err := s.repo.GetFeaturedPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if limit > 0 && len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

func (s *ContentService) GetAuthorPosts(ctx context.Context, authorID string, limit int) ([]models.Post, error) {
	const op = "content_service.GetAuthorPosts"

	posts, err := s.repo.GetPostsByAuthor(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if limit > 0 && len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

func (s *ContentService) SearchPosts(ctx context.Context, query string) ([]models.Post, error) {
	return s.repo.SearchPosts(ctx, query)
}

// CreatePost validates editorial input before the repository sees it.
// Invalid input comes back as *ValidationError with every violation.
func (s *ContentService) CreatePost(ctx context.Context, input models.PostInput) (*models.Post, error) {
	const op = "content_service.CreatePost"

	log := s.log.With(slog.String("op", op), slog.String("title", input.Title))

	if result := s.ValidatePost(input); !result.Valid {
		log.Warn("post rejected by validation", slog.Int("violations", len(result.Errors)))
		return nil, &ValidationError{Errors: result.Errors}
	}

	post, err := s.repo.CreatePost(ctx, input)
	if err != nil {
		log.Error("failed to create post", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return post, nil
}

func (s *ContentService) UpdatePost(ctx context.Context, id string, patch models.PostPatch) (*models.Post, error) {
	return s.repo.UpdatePost(ctx, id, patch)
}

func (s *ContentService) DeletePost(ctx context.Context, id string) (bool, error) {
	return s.repo.DeletePost(ctx, id)
}

func (s *ContentService) GetAllCategories(ctx context.Context) ([]models.Category, error) {
	return s.repo.GetAllCategories(ctx)
}

// GetCategoriesWithPosts drops categories with nothing published in them.
func (s *ContentService) GetCategoriesWithPosts(ctx context.Context) ([]models.Category, error) {
	const op = "content_service.GetCategoriesWithPosts"

	categories, err := s.repo.GetAllCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	filled := make([]models.Category, 0, len(categories))
	for _, c := range categories {
		if c.PostCount > 0 {
			filled = append(filled, c)
		}
	}
	return filled, nil
}

func (s *ContentService) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return s.repo.GetCategoryBySlug(ctx, slug)
}

func (s *ContentService) CreateCategory(ctx context.Context, input models.CategoryInput) (*models.Category, error) {
	const op = "content_service.CreateCategory"

	if err := s.validate.Struct(input); err != nil {
		return nil, &ValidationError{Errors: []string{"Название категории должно содержать минимум 2 символа"}}
	}

	category, err := s.repo.CreateCategory(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return category, nil
}

func (s *ContentService) UpdateCategory(ctx context.Context, id string, patch models.CategoryPatch) (*models.Category, error) {
	return s.repo.UpdateCategory(ctx, id, patch)
}

func (s *ContentService) DeleteCategory(ctx context.Context, id string) (bool, error) {
	return s.repo.DeleteCategory(ctx, id)
}

func (s *ContentService) GetAllAuthors(ctx context.Context) ([]models.Author, error) {
	return s.repo.GetAllAuthors(ctx)
}

func (s *ContentService) GetAuthorByID(ctx context.Context, id string) (*models.Author, error) {
	return s.repo.GetAuthorByID(ctx, id)
}

func (s *ContentService) GetStats(ctx context.Context) (models.BlogStats, error) {
	return s.repo.GetStats(ctx)
}

// ValidatePost checks editorial input and reports every violation, not
// just the first. Messages are shown to editors as is.
func (s *ContentService) ValidatePost(input models.PostInput) ValidationResult {
	err := s.validate.Struct(input)
	if err == nil {
		return ValidationResult{Valid: true, Errors: []string{}}
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return ValidationResult{Valid: false, Errors: []string{err.Error()}}
	}

	messages := make([]string, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		messages = append(messages, postFieldMessage(fieldErr.Field()))
	}

	return ValidationResult{Valid: false, Errors: messages}
}

func postFieldMessage(field string) string {
	switch field {
	case "Title":
		return "Заголовок должен содержать минимум 5 символов"
	case "Content":
		return "Контент должен содержать минимум 100 символов"
	case "Excerpt":
		return "Краткое описание должно содержать минимум 50 символов"
	case "CategoryID":
		return "Необходимо выбрать категорию"
	case "AuthorID":
		return "Необходимо указать автора"
	case "Tags":
		return "Необходимо добавить хотя бы один тег"
	case "Status":
		return "Недопустимый статус публикации"
	default:
		return "Некорректное значение поля " + field
	}
}

// SEOData assembles page metadata, falling back from the dedicated SEO
// fields to the post's own title, excerpt and tags.
func (s *ContentService) SEOData(post models.Post) seo.Metadata {
	return seo.ForPost(post)
}

// ShareLinks builds pre-filled share URLs for the common networks.
func (s *ContentService) ShareLinks(post models.Post) seo.ShareURLs {
	return seo.Share(post, s.baseURL)
}

// Breadcrumbs builds the navigation trail for a post page.
func (s *ContentService) Breadcrumbs(post models.Post, category *models.Category) []Breadcrumb {
	trail := []Breadcrumb{
		{Name: "Главная", Href: "/"},
		{Name: "Блог", Href: "/blog"},
	}
	if category != nil {
		trail = append(trail, Breadcrumb{Name: category.Name, Href: "/blog/category/" + category.Slug})
	}
	return append(trail, Breadcrumb{Name: post.Title, Href: "/blog/" + post.Slug})
}

// FormatDate renders an absolute publication date for the article page.
func (s *ContentService) FormatDate(t time.Time) string {
	return datefmt.Absolute(t)
}

// FormatDateRelative renders a publication date relative to now.
func (s *ContentService) FormatDateRelative(t time.Time) string {
	return datefmt.Relative(t, time.Now())
}
