package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"meetblog/internal/domain/models"
	"meetblog/internal/lib/seo"
	"meetblog/internal/repository"
	contentservice "meetblog/internal/services/content_service"
)

type MockContentService struct {
	mock.Mock
}

func (m *MockContentService) GetAllPosts(ctx context.Context, opts models.ListOptions) ([]models.Post, error) {
	args := m.Called(ctx, opts)
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockContentService) GetPublishedPosts(ctx context.Context, opts models.ListOptions) ([]models.Post, error) {
	args := m.Called(ctx, opts)
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockContentService) GetPostBySlug(ctx context.Context, slug string) (*models.Post, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockContentService) GetRelatedPosts(ctx context.Context, slug string, limit int) ([]models.Post, error) {
	args := m.Called(ctx, slug, limit)
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockContentService) GetLatestPosts(ctx context.Context, limit int) ([]models.Post, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockContentService) GetPopularPosts(ctx context.Context, limit int) ([]models.Post, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockContentService) GetFeaturedPosts(ctx context.Context, limit int) ([]models.Post, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockContentService) GetPostsByCategorySlug(ctx context.Context, categorySlug string, limit int) ([]models.Post, error) {
	args := m.Called(ctx, categorySlug, limit)
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockContentService) GetAuthorPosts(ctx context.Context, authorID string, limit int) ([]models.Post, error) {
	args := m.Called(ctx, authorID, limit)
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockContentService) SearchPosts(ctx context.Context, query string) ([]models.Post, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockContentService) CreatePost(ctx context.Context, input models.PostInput) (*models.Post, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockContentService) UpdatePost(ctx context.Context, id string, patch models.PostPatch) (*models.Post, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockContentService) DeletePost(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockContentService) ValidatePost(input models.PostInput) contentservice.ValidationResult {
	args := m.Called(input)
	return args.Get(0).(contentservice.ValidationResult)
}

func (m *MockContentService) GetAllCategories(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockContentService) GetCategoriesWithPosts(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockContentService) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockContentService) CreateCategory(ctx context.Context, input models.CategoryInput) (*models.Category, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockContentService) UpdateCategory(ctx context.Context, id string, patch models.CategoryPatch) (*models.Category, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockContentService) DeleteCategory(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockContentService) GetAllAuthors(ctx context.Context) ([]models.Author, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Author), args.Error(1)
}

func (m *MockContentService) GetAuthorByID(ctx context.Context, id string) (*models.Author, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Author), args.Error(1)
}

func (m *MockContentService) GetStats(ctx context.Context) (models.BlogStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.BlogStats), args.Error(1)
}

func (m *MockContentService) SEOData(post models.Post) seo.Metadata {
	args := m.Called(post)
	return args.Get(0).(seo.Metadata)
}

func (m *MockContentService) ShareLinks(post models.Post) seo.ShareURLs {
	args := m.Called(post)
	return args.Get(0).(seo.ShareURLs)
}

func (m *MockContentService) Breadcrumbs(post models.Post, category *models.Category) []contentservice.Breadcrumb {
	args := m.Called(post, category)
	return args.Get(0).([]contentservice.Breadcrumb)
}

func (m *MockContentService) FormatDate(t time.Time) string {
	args := m.Called(t)
	return args.String(0)
}

func (m *MockContentService) FormatDateRelative(t time.Time) string {
	args := m.Called(t)
	return args.String(0)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*models.TokenPair, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TokenPair), args.Error(1)
}

func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TokenPair), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockFileStorage struct {
	mock.Mock
}

func (m *MockFileStorage) Save(ctx context.Context, file *multipart.FileHeader) (string, int64, error) {
	args := m.Called(ctx, file)
	return args.String(0), args.Get(1).(int64), args.Error(2)
}

func (m *MockFileStorage) Delete(ctx context.Context, filename string) error {
	args := m.Called(ctx, filename)
	return args.Error(0)
}

func (m *MockFileStorage) BaseDir() string {
	args := m.Called()
	return args.String(0)
}

type testValidator struct {
	validate *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

func newTestContext(t *testing.T, method, target string, body io.Reader) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	e.Validator = &testValidator{validate: validator.New()}

	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec), rec
}

func newTestRouter(content *MockContentService, auth *MockAuthService, files *MockFileStorage) *Routers {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRouter(log, content, auth, files)
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body struct {
		Status string         `json:"status"`
		Data   map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Data
}

func TestListPosts(t *testing.T) {
	content := new(MockContentService)
	content.On("GetPublishedPosts", mock.Anything, models.ListOptions{Page: 2, PerPage: 5}).
		Return([]models.Post{{ID: "a"}, {ID: "b"}}, nil)

	r := newTestRouter(content, nil, nil)
	c, rec := newTestContext(t, http.MethodGet, "/api/v1/posts?page=2&per_page=5", nil)

	require.NoError(t, r.ListPosts(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	content.AssertExpectations(t)
}

func TestListPostsIgnoresMalformedPagination(t *testing.T) {
	content := new(MockContentService)
	content.On("GetPublishedPosts", mock.Anything, models.ListOptions{}).
		Return([]models.Post{}, nil)

	r := newTestRouter(content, nil, nil)
	c, rec := newTestContext(t, http.MethodGet, "/api/v1/posts?page=abc&per_page=-1", nil)

	require.NoError(t, r.ListPosts(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	content.AssertExpectations(t)
}

func TestGetPostAssemblesPagePayload(t *testing.T) {
	published := time.Date(2024, 12, 15, 0, 0, 0, 0, time.UTC)
	post := &models.Post{
		ID:          "post-1",
		Slug:        "test-post",
		Title:       "Тестовая статья",
		CategoryID:  "tech-ai",
		PublishedAt: published,
		Status:      models.StatusPublished,
	}

	content := new(MockContentService)
	content.On("GetPostBySlug", mock.Anything, "test-post").Return(post, nil)
	content.On("GetAllCategories", mock.Anything).
		Return([]models.Category{{ID: "tech-ai", Name: "Технологии и ИИ", Slug: "tech-ai"}}, nil)
	content.On("SEOData", *post).Return(seo.Metadata{Title: "Тестовая статья"})
	content.On("ShareLinks", *post).Return(seo.ShareURLs{Telegram: "https://t.me/share/url?..."})
	content.On("Breadcrumbs", *post, mock.AnythingOfType("*models.Category")).
		Return([]contentservice.Breadcrumb{{Name: "Главная", Href: "/"}})
	content.On("FormatDateRelative", published).Return("2 недели назад")
	content.On("FormatDate", published).Return("15 декабря 2024")

	r := newTestRouter(content, nil, nil)
	c, rec := newTestContext(t, http.MethodGet, "/api/v1/posts/test-post", nil)
	c.SetParamNames("slug")
	c.SetParamValues("test-post")

	require.NoError(t, r.GetPost(c))
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeData(t, rec)
	assert.Contains(t, data, "post")
	assert.Contains(t, data, "seo")
	assert.Contains(t, data, "share_urls")
	assert.Contains(t, data, "breadcrumbs")
	assert.Equal(t, "2 недели назад", data["published_at_human"])
	content.AssertExpectations(t)
}

func TestGetPostNotFound(t *testing.T) {
	content := new(MockContentService)
	content.On("GetPostBySlug", mock.Anything, "missing").Return(nil, nil)

	r := newTestRouter(content, nil, nil)
	c, rec := newTestContext(t, http.MethodGet, "/api/v1/posts/missing", nil)
	c.SetParamNames("slug")
	c.SetParamValues("missing")

	require.NoError(t, r.GetPost(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSearchPostsRequiresQuery(t *testing.T) {
	content := new(MockContentService)

	r := newTestRouter(content, nil, nil)
	c, rec := newTestContext(t, http.MethodGet, "/api/v1/posts/search", nil)

	require.NoError(t, r.SearchPosts(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	content.AssertNotCalled(t, "SearchPosts")
}

func TestStatsAreCached(t *testing.T) {
	content := new(MockContentService)
	content.On("GetStats", mock.Anything).
		Return(models.BlogStats{TotalPosts: 7, PublishedPosts: 5}, nil).Once()

	r := newTestRouter(content, nil, nil)

	for i := 0; i < 3; i++ {
		c, rec := newTestContext(t, http.MethodGet, "/api/v1/stats", nil)
		require.NoError(t, r.GetStats(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	content.AssertNumberOfCalls(t, "GetStats", 1)
}

func TestCreatePostInvalidatesStatsCache(t *testing.T) {
	content := new(MockContentService)
	content.On("GetStats", mock.Anything).Return(models.BlogStats{TotalPosts: 1}, nil)
	content.On("CreatePost", mock.Anything, mock.AnythingOfType("models.PostInput")).
		Return(&models.Post{ID: "new"}, nil)

	r := newTestRouter(content, nil, nil)

	c, _ := newTestContext(t, http.MethodGet, "/api/v1/stats", nil)
	require.NoError(t, r.GetStats(c))

	c, _ = newTestContext(t, http.MethodPost, "/api/v1/admin/posts", strings.NewReader(`{"title":"x"}`))
	require.NoError(t, r.CreatePost(c))

	c, _ = newTestContext(t, http.MethodGet, "/api/v1/stats", nil)
	require.NoError(t, r.GetStats(c))

	content.AssertNumberOfCalls(t, "GetStats", 2)
}

func TestCreatePostValidationFailure(t *testing.T) {
	content := new(MockContentService)
	content.On("CreatePost", mock.Anything, mock.AnythingOfType("models.PostInput")).
		Return(nil, &contentservice.ValidationError{Errors: []string{
			"Заголовок должен содержать минимум 5 символов",
			"Необходимо выбрать категорию",
		}})

	r := newTestRouter(content, nil, nil)
	c, rec := newTestContext(t, http.MethodPost, "/api/v1/admin/posts", strings.NewReader(`{"title":"x"}`))

	require.NoError(t, r.CreatePost(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Errors []string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Errors, 2)
	assert.Contains(t, body.Errors, "Необходимо выбрать категорию")
}

func TestUpdatePostNotFound(t *testing.T) {
	content := new(MockContentService)
	content.On("UpdatePost", mock.Anything, "ghost", mock.AnythingOfType("models.PostPatch")).
		Return(nil, nil)

	r := newTestRouter(content, nil, nil)
	c, rec := newTestContext(t, http.MethodPatch, "/api/v1/admin/posts/ghost", strings.NewReader(`{"title":"Новый заголовок"}`))
	c.SetParamNames("id")
	c.SetParamValues("ghost")

	require.NoError(t, r.UpdatePost(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteCategoryConflict(t *testing.T) {
	content := new(MockContentService)
	content.On("DeleteCategory", mock.Anything, "tech-ai").
		Return(false, repository.ErrCategoryInUse)

	r := newTestRouter(content, nil, nil)
	c, rec := newTestContext(t, http.MethodDelete, "/api/v1/admin/categories/tech-ai", nil)
	c.SetParamNames("id")
	c.SetParamValues("tech-ai")

	require.NoError(t, r.DeleteCategory(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestLogin(t *testing.T) {
	auth := new(MockAuthService)
	auth.On("Login", mock.Anything, "admin@mymeet.ai", "strong-password").
		Return(&models.TokenPair{AccessToken: "access", RefreshToken: "refresh"}, nil)

	r := newTestRouter(nil, auth, nil)
	c, rec := newTestContext(t, http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"email":"admin@mymeet.ai","password":"strong-password"}`))

	require.NoError(t, r.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeData(t, rec)
	assert.Equal(t, "access", data["access_token"])
	assert.Equal(t, "refresh", data["refresh_token"])
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	auth := new(MockAuthService)
	auth.On("Login", mock.Anything, "admin@mymeet.ai", "wrong-password").
		Return(nil, assert.AnError)

	r := newTestRouter(nil, auth, nil)
	c, rec := newTestContext(t, http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"email":"admin@mymeet.ai","password":"wrong-password"}`))

	require.NoError(t, r.Login(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginRejectsShortPassword(t *testing.T) {
	auth := new(MockAuthService)

	r := newTestRouter(nil, auth, nil)
	c, rec := newTestContext(t, http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"email":"admin@mymeet.ai","password":"short"}`))

	require.NoError(t, r.Login(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	auth.AssertNotCalled(t, "Login")
}

func TestUploadFile(t *testing.T) {
	files := new(MockFileStorage)
	files.On("Save", mock.Anything, mock.AnythingOfType("*multipart.FileHeader")).
		Return("/uploads/abc.png", int64(4), nil)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "cover.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("data"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/upload", &buf)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	r := newTestRouter(nil, nil, files)
	require.NoError(t, r.UploadFile(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	data := decodeData(t, rec)
	assert.Equal(t, "/uploads/abc.png", data["url"])
	assert.Equal(t, "cover.png", data["filename"])
	files.AssertExpectations(t)
}

func TestUploadFileMissingField(t *testing.T) {
	r := newTestRouter(nil, nil, new(MockFileStorage))
	c, rec := newTestContext(t, http.MethodPost, "/api/v1/admin/upload", nil)

	require.NoError(t, r.UploadFile(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
