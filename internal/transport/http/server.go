package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	gocache "github.com/patrickmn/go-cache"

	"meetblog/internal/domain/models"
	"meetblog/internal/lib/logger/sl"
	"meetblog/internal/lib/seo"
	"meetblog/internal/metrics"
	"meetblog/internal/repository"
	contentservice "meetblog/internal/services/content_service"
	storage "meetblog/internal/storage/filestorage"
	"meetblog/internal/transport/http/dto"
	"meetblog/internal/transport/http/dto/request"
	"meetblog/internal/transport/http/dto/response"
)

// Cache keys for the short-lived read cache. Related posts are computed
// fresh on every request and never cached.
const (
	cacheKeyStats      = "stats"
	cacheKeyCategories = "categories"
)

type ContentService interface {
	GetAllPosts(ctx context.Context, opts models.ListOptions) ([]models.Post, error)
	GetPublishedPosts(ctx context.Context, opts models.ListOptions) ([]models.Post, error)
	GetPostBySlug(ctx context.Context, slug string) (*models.Post, error)
	GetRelatedPosts(ctx context.Context, slug string, limit int) ([]models.Post, error)
	GetLatestPosts(ctx context.Context, limit int) ([]models.Post, error)
	GetPopularPosts(ctx context.Context, limit int) ([]models.Post, error)
	GetFeaturedPosts(ctx context.Context, limit int) ([]models.Post, error)
	GetPostsByCategorySlug(ctx context.Context, categorySlug string, limit int) ([]models.Post, error)
	GetAuthorPosts(ctx context.Context, authorID string, limit int) ([]models.Post, error)
	SearchPosts(ctx context.Context, query string) ([]models.Post, error)
	CreatePost(ctx context.Context, input models.PostInput) (*models.Post, error)
	UpdatePost(ctx context.Context, id string, patch models.PostPatch) (*models.Post, error)
	DeletePost(ctx context.Context, id string) (bool, error)
	ValidatePost(input models.PostInput) contentservice.ValidationResult
	GetAllCategories(ctx context.Context) ([]models.Category, error)
	GetCategoriesWithPosts(ctx context.Context) ([]models.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
	CreateCategory(ctx context.Context, input models.CategoryInput) (*models.Category, error)
	UpdateCategory(ctx context.Context, id string, patch models.CategoryPatch) (*models.Category, error)
	DeleteCategory(ctx context.Context, id string) (bool, error)
	GetAllAuthors(ctx context.Context) ([]models.Author, error)
	GetAuthorByID(ctx context.Context, id string) (*models.Author, error)
	GetStats(ctx context.Context) (models.BlogStats, error)
	SEOData(post models.Post) seo.Metadata
	ShareLinks(post models.Post) seo.ShareURLs
	Breadcrumbs(post models.Post, category *models.Category) []contentservice.Breadcrumb
	FormatDate(t time.Time) string
	FormatDateRelative(t time.Time) string
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*models.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error)
	Logout(ctx context.Context, userID string) error
}

type Routers struct {
	log     *slog.Logger
	Content ContentService
	Auth    AuthService
	Files   storage.FileStorage
	cache   *gocache.Cache
}

func NewRouter(log *slog.Logger, content ContentService, auth AuthService, files storage.FileStorage) *Routers {
	return &Routers{
		log:     log,
		Content: content,
		Auth:    auth,
		Files:   files,
		cache:   gocache.New(time.Minute, 5*time.Minute),
	}
}

func (r *Routers) Login(c echo.Context) error {
	const op = "http.routers.Login"

	log := r.log.With(slog.String("op", op))

	var req request.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}
	if err := c.Validate(req); err != nil {
		log.Warn("invalid login payload")
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
	}

	pair, err := r.Auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(map[string]string{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	}))
}

func (r *Routers) Refresh(c echo.Context) error {
	const op = "http.routers.Refresh"

	var req request.RefreshRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	pair, err := r.Auth.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		r.log.Warn("refresh rejected", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(map[string]string{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	}))
}

func (r *Routers) Logout(c echo.Context) error {
	const op = "http.routers.Logout"

	userID := userIDFromToken(c)
	if userID == "" {
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
	}

	if err := r.Auth.Logout(c.Request().Context(), userID); err != nil {
		r.log.Error("logout failed", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.Response{Status: "success", Message: "logged out"})
}

func userIDFromToken(c echo.Context) string {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return ""
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}
	uid, _ := claims["uid"].(string)
	return uid
}

func (r *Routers) ListPosts(c echo.Context) error {
	const op = "http.routers.ListPosts"

	opts := models.ListOptions{
		Page:    queryInt(c, "page"),
		PerPage: queryInt(c, "per_page"),
	}

	posts, err := r.Content.GetPublishedPosts(c.Request().Context(), opts)
	if err != nil {
		r.log.Error("failed to list posts", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(posts))
}

// GetPost is the article page payload: the post itself plus everything the
// page head and footer need.
func (r *Routers) GetPost(c echo.Context) error {
	const op = "http.routers.GetPost"

	slug := c.Param("slug")

	post, err := r.Content.GetPostBySlug(c.Request().Context(), slug)
	if err != nil {
		r.log.Error("failed to get post", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}
	if post == nil {
		return c.JSON(http.StatusNotFound, response.ErrNotFound)
	}

	metrics.PostViewsTotal.Inc()

	var category *models.Category
	if post.CategoryID != "" {
		// Best effort: the trail degrades gracefully without the category.
		categories, err := r.Content.GetAllCategories(c.Request().Context())
		if err == nil {
			for i := range categories {
				if categories[i].ID == post.CategoryID {
					category = &categories[i]
					break
				}
			}
		}
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(map[string]any{
		"post":               post,
		"seo":                r.Content.SEOData(*post),
		"share_urls":         r.Content.ShareLinks(*post),
		"breadcrumbs":        r.Content.Breadcrumbs(*post, category),
		"published_at_human": r.Content.FormatDateRelative(post.PublishedAt),
		"published_at_full":  r.Content.FormatDate(post.PublishedAt),
	}))
}

func (r *Routers) GetRelatedPosts(c echo.Context) error {
	const op = "http.routers.GetRelatedPosts"

	posts, err := r.Content.GetRelatedPosts(c.Request().Context(), c.Param("slug"), queryInt(c, "limit"))
	if err != nil {
		r.log.Error("failed to get related posts", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(posts))
}

func (r *Routers) GetLatestPosts(c echo.Context) error {
	const op = "http.routers.GetLatestPosts"

	posts, err := r.Content.GetLatestPosts(c.Request().Context(), queryInt(c, "limit"))
	if err != nil {
		r.log.Error("failed to get latest posts", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(posts))
}

func (r *Routers) GetPopularPosts(c echo.Context) error {
	const op = "http.routers.GetPopularPosts"

	posts, err := r.Content.GetPopularPosts(c.Request().Context(), queryInt(c, "limit"))
	if err != nil {
		r.log.Error("failed to get popular posts", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(posts))
}

func (r *Routers) GetFeaturedPosts(c echo.Context) error {
	const op = "http.routers.GetFeaturedPosts"

	posts, err := r.Content.GetFeaturedPosts(c.Request().Context(), queryInt(c, "limit"))
	if err != nil {
		r.log.Error("failed to get featured posts", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(posts))
}

func (r *Routers) SearchPosts(c echo.Context) error {
	const op = "http.routers.SearchPosts"

	query := c.QueryParam("q")
	if query == "" {
		return c.JSON(http.StatusBadRequest,
			response.ErrorResponseWithDetails("invalid_request", "query parameter q is required"))
	}

	posts, err := r.Content.SearchPosts(c.Request().Context(), query)
	if err != nil {
		r.log.Error("search failed", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(posts))
}

func (r *Routers) ListCategories(c echo.Context) error {
	const op = "http.routers.ListCategories"

	if cached, ok := r.cache.Get(cacheKeyCategories); ok {
		return c.JSON(http.StatusOK, response.SuccessResponse(cached))
	}

	categories, err := r.Content.GetAllCategories(c.Request().Context())
	if err != nil {
		r.log.Error("failed to list categories", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	r.cache.SetDefault(cacheKeyCategories, categories)

	return c.JSON(http.StatusOK, response.SuccessResponse(categories))
}

func (r *Routers) GetCategory(c echo.Context) error {
	const op = "http.routers.GetCategory"

	category, err := r.Content.GetCategoryBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		r.log.Error("failed to get category", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}
	if category == nil {
		return c.JSON(http.StatusNotFound, response.ErrNotFound)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(category))
}

func (r *Routers) GetCategoryPosts(c echo.Context) error {
	const op = "http.routers.GetCategoryPosts"

	posts, err := r.Content.GetPostsByCategorySlug(c.Request().Context(), c.Param("slug"), queryInt(c, "limit"))
	if err != nil {
		r.log.Error("failed to get category posts", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(posts))
}

func (r *Routers) ListAuthors(c echo.Context) error {
	const op = "http.routers.ListAuthors"

	authors, err := r.Content.GetAllAuthors(c.Request().Context())
	if err != nil {
		r.log.Error("failed to list authors", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(authors))
}

func (r *Routers) GetAuthor(c echo.Context) error {
	const op = "http.routers.GetAuthor"

	author, err := r.Content.GetAuthorByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		r.log.Error("failed to get author", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}
	if author == nil {
		return c.JSON(http.StatusNotFound, response.ErrNotFound)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(author))
}

func (r *Routers) GetAuthorPosts(c echo.Context) error {
	const op = "http.routers.GetAuthorPosts"

	posts, err := r.Content.GetAuthorPosts(c.Request().Context(), c.Param("id"), queryInt(c, "limit"))
	if err != nil {
		r.log.Error("failed to get author posts", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(posts))
}

func (r *Routers) GetStats(c echo.Context) error {
	const op = "http.routers.GetStats"

	if cached, ok := r.cache.Get(cacheKeyStats); ok {
		return c.JSON(http.StatusOK, response.SuccessResponse(cached))
	}

	stats, err := r.Content.GetStats(c.Request().Context())
	if err != nil {
		r.log.Error("failed to get stats", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	r.cache.SetDefault(cacheKeyStats, stats)

	return c.JSON(http.StatusOK, response.SuccessResponse(stats))
}

// Admin handlers. All of them invalidate the read cache: stats and category
// counts change with every content mutation.

func (r *Routers) AdminListPosts(c echo.Context) error {
	const op = "http.routers.AdminListPosts"

	opts := models.ListOptions{
		Page:    queryInt(c, "page"),
		PerPage: queryInt(c, "per_page"),
	}

	posts, err := r.Content.GetAllPosts(c.Request().Context(), opts)
	if err != nil {
		r.log.Error("failed to list all posts", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(posts))
}

func (r *Routers) CreatePost(c echo.Context) error {
	const op = "http.routers.CreatePost"

	log := r.log.With(slog.String("op", op))

	var req dto.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	post, err := r.Content.CreatePost(c.Request().Context(), req.ToInput())
	if err != nil {
		var validationErr *contentservice.ValidationError
		if errors.As(err, &validationErr) {
			return c.JSON(http.StatusBadRequest, response.ValidationFailed(validationErr.Errors))
		}

		log.Error("failed to create post", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	r.cache.Flush()

	return c.JSON(http.StatusCreated, response.SuccessResponse(post))
}

func (r *Routers) ValidatePost(c echo.Context) error {
	var req dto.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(r.Content.ValidatePost(req.ToInput())))
}

func (r *Routers) UpdatePost(c echo.Context) error {
	const op = "http.routers.UpdatePost"

	var req dto.UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	post, err := r.Content.UpdatePost(c.Request().Context(), c.Param("id"), req.ToPatch())
	if err != nil {
		r.log.Error("failed to update post", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}
	if post == nil {
		return c.JSON(http.StatusNotFound, response.ErrNotFound)
	}

	r.cache.Flush()

	return c.JSON(http.StatusOK, response.SuccessResponse(post))
}

func (r *Routers) DeletePost(c echo.Context) error {
	const op = "http.routers.DeletePost"

	deleted, err := r.Content.DeletePost(c.Request().Context(), c.Param("id"))
	if err != nil {
		r.log.Error("failed to delete post", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}
	if !deleted {
		return c.JSON(http.StatusNotFound, response.ErrNotFound)
	}

	r.cache.Flush()

	return c.JSON(http.StatusOK, response.Response{Status: "success", Message: "post deleted"})
}

func (r *Routers) CreateCategory(c echo.Context) error {
	const op = "http.routers.CreateCategory"

	var req dto.CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
	}

	category, err := r.Content.CreateCategory(c.Request().Context(), req.ToInput())
	if err != nil {
		var validationErr *contentservice.ValidationError
		if errors.As(err, &validationErr) {
			return c.JSON(http.StatusBadRequest, response.ValidationFailed(validationErr.Errors))
		}

		r.log.Error("failed to create category", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	r.cache.Flush()

	return c.JSON(http.StatusCreated, response.SuccessResponse(category))
}

func (r *Routers) UpdateCategory(c echo.Context) error {
	const op = "http.routers.UpdateCategory"

	var req dto.UpdateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	category, err := r.Content.UpdateCategory(c.Request().Context(), c.Param("id"), req.ToPatch())
	if err != nil {
		r.log.Error("failed to update category", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}
	if category == nil {
		return c.JSON(http.StatusNotFound, response.ErrNotFound)
	}

	r.cache.Flush()

	return c.JSON(http.StatusOK, response.SuccessResponse(category))
}

func (r *Routers) DeleteCategory(c echo.Context) error {
	const op = "http.routers.DeleteCategory"

	deleted, err := r.Content.DeleteCategory(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrCategoryInUse) {
			return c.JSON(http.StatusConflict, response.ErrCategoryInUse)
		}

		r.log.Error("failed to delete category", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}
	if !deleted {
		return c.JSON(http.StatusNotFound, response.ErrNotFound)
	}

	r.cache.Flush()

	return c.JSON(http.StatusOK, response.Response{Status: "success", Message: "category deleted"})
}

func (r *Routers) UploadFile(c echo.Context) error {
	const op = "http.routers.UploadFile"

	log := r.log.With(slog.String("op", op))

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest,
			response.ErrorResponseWithDetails("invalid_request", "form field file is required"))
	}

	url, size, err := r.Files.Save(c.Request().Context(), fileHeader)
	if err != nil {
		log.Error("failed to store upload", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	log.Info("file uploaded",
		slog.String("filename", fileHeader.Filename),
		slog.Int64("size", size),
	)

	return c.JSON(http.StatusCreated, response.SuccessResponse(dto.UploadResponse{
		URL:         url,
		Filename:    fileHeader.Filename,
		Size:        size,
		ContentType: fileHeader.Header.Get("Content-Type"),
	}))
}

func queryInt(c echo.Context, name string) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val < 0 {
		return 0
	}
	return val
}
