package repository

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meetblog/internal/domain/models"
	"meetblog/internal/storage/kv"
)

func newTestRepo(t *testing.T) (*LocalRepository, kv.Store) {
	t.Helper()

	store := kv.NewMemoryStore()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	repo, err := NewLocalRepository(context.Background(), log, store)
	require.NoError(t, err)

	return repo, store
}

func TestLocalRepository_BootstrapIdempotent(t *testing.T) {
	ctx := context.Background()
	repo, store := newTestRepo(t)

	first, err := repo.GetAllPosts(ctx, models.ListOptions{})
	require.NoError(t, err)
	require.NotEmpty(t, first)

	// Second construction over the same store must not duplicate anything.
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo2, err := NewLocalRepository(ctx, log, store)
	require.NoError(t, err)

	second, err := repo2.GetAllPosts(ctx, models.ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, len(first), len(second))

	categories, err := repo2.GetAllCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 6)

	authors, err := repo2.GetAllAuthors(ctx)
	require.NoError(t, err)
	assert.Len(t, authors, 3)
}

func TestLocalRepository_BootstrapCategoryCounts(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	techAI, err := repo.GetCategoryByID(ctx, "tech-ai")
	require.NoError(t, err)
	require.NotNil(t, techAI)
	assert.Equal(t, 1, techAI.PostCount)

	salesArt, err := repo.GetCategoryByID(ctx, "sales-art")
	require.NoError(t, err)
	require.NotNil(t, salesArt)
	assert.Equal(t, 0, salesArt.PostCount)
}

func validInput() models.PostInput {
	return models.PostInput{
		Title:      "Как вести заметки на встречах эффективно",
		Content:    "<h2>Подготовка</h2><p>" + loremRu + "</p>",
		Excerpt:    "Практическое руководство по ведению заметок на рабочих встречах без потери контекста.",
		CategoryID: "meeting-tips",
		Tags:       []string{"заметки", "встречи"},
		AuthorID:   "maria-petrov",
		Status:     models.StatusPublished,
	}
}

const loremRu = "Хорошие заметки превращают встречу в источник решений, а не в потерянное время. " +
	"Записывайте договорённости сразу, отмечайте ответственных и сроки, а после встречи рассылайте " +
	"итоги всем участникам. Так команда всегда знает, кто что делает и к какому сроку."

func TestLocalRepository_CreatePost(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	post, err := repo.CreatePost(ctx, validInput())
	require.NoError(t, err)
	require.NotNil(t, post)

	assert.NotEmpty(t, post.ID)
	assert.Equal(t, "как-вести-заметки-на-встречах-эффективно", post.Slug)
	assert.Equal(t, 0, post.Views)
	assert.Greater(t, post.ReadTime, 0)
	assert.False(t, post.PublishedAt.IsZero())
	assert.Equal(t, post.PublishedAt, post.UpdatedAt)

	// Content headings become the table of contents.
	require.Len(t, post.TOC, 1)
	assert.Equal(t, "Подготовка", post.TOC[0].Title)
	assert.Equal(t, 2, post.TOC[0].Level)
}

func TestLocalRepository_CreatePost_DefaultStatus(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	input := validInput()
	input.Status = ""

	post, err := repo.CreatePost(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDraft, post.Status)
}

func TestLocalRepository_CreatePost_SlugCollision(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	first, err := repo.CreatePost(ctx, validInput())
	require.NoError(t, err)

	second, err := repo.CreatePost(ctx, validInput())
	require.NoError(t, err)

	third, err := repo.CreatePost(ctx, validInput())
	require.NoError(t, err)

	assert.Equal(t, first.Slug+"-2", second.Slug)
	assert.Equal(t, first.Slug+"-3", third.Slug)
}

func TestLocalRepository_CreatePost_UpdatesCategoryCount(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	_, err := repo.CreatePost(ctx, validInput())
	require.NoError(t, err)

	category, err := repo.GetCategoryByID(ctx, "meeting-tips")
	require.NoError(t, err)
	assert.Equal(t, 1, category.PostCount)

	// Drafts do not count.
	draft := validInput()
	draft.Status = models.StatusDraft
	_, err = repo.CreatePost(ctx, draft)
	require.NoError(t, err)

	category, err = repo.GetCategoryByID(ctx, "meeting-tips")
	require.NoError(t, err)
	assert.Equal(t, 1, category.PostCount)
}

func TestLocalRepository_UpdatePost(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	post, err := repo.CreatePost(ctx, validInput())
	require.NoError(t, err)

	newTitle := "Обновлённый заголовок статьи"
	updated, err := repo.UpdatePost(ctx, post.ID, models.PostPatch{Title: &newTitle})
	require.NoError(t, err)
	require.NotNil(t, updated)

	assert.Equal(t, newTitle, updated.Title)
	assert.Equal(t, post.Slug, updated.Slug, "slug is fixed at creation")
	assert.Equal(t, post.PublishedAt, updated.PublishedAt)
	assert.True(t, updated.UpdatedAt.After(post.UpdatedAt) || updated.UpdatedAt.Equal(post.UpdatedAt))
}

func TestLocalRepository_UpdatePost_ContentRecomputesReadTime(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	post, err := repo.CreatePost(ctx, validInput())
	require.NoError(t, err)

	short := "<p>Совсем короткий текст.</p>"
	updated, err := repo.UpdatePost(ctx, post.ID, models.PostPatch{Content: &short})
	require.NoError(t, err)

	assert.Equal(t, 1, updated.ReadTime)
	assert.Empty(t, updated.TOC)
}

func TestLocalRepository_UpdatePost_NotFound(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	title := "x"
	updated, err := repo.UpdatePost(ctx, "no-such-id", models.PostPatch{Title: &title})
	require.NoError(t, err)
	assert.Nil(t, updated)
}

func TestLocalRepository_DeletePost(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	post, err := repo.CreatePost(ctx, validInput())
	require.NoError(t, err)

	ok, err := repo.DeletePost(ctx, post.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := repo.GetPostByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	ok, err = repo.DeletePost(ctx, post.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLocalRepository_GetPostBySlug_Missing(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	got, err := repo.GetPostBySlug(ctx, "никакой-статьи-нет")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestLocalRepository_IncrementViews(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	before, err := repo.GetPostBySlug(ctx, "9-chrome-extensions")
	require.NoError(t, err)
	require.NotNil(t, before)

	require.NoError(t, repo.IncrementViews(ctx, before.Slug))

	after, err := repo.GetPostBySlug(ctx, before.Slug)
	require.NoError(t, err)
	assert.Equal(t, before.Views+1, after.Views)

	// Unknown slug is a no-op.
	require.NoError(t, repo.IncrementViews(ctx, "missing-slug"))
}

func TestLocalRepository_SearchPosts(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{name: "title match, mixed case", query: "CHROME", want: 1},
		{name: "tag match in cyrillic", query: "транскрипция", want: 1},
		{name: "excerpt match", query: "браузерных", want: 1},
		{name: "no match", query: "kubernetes", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.SearchPosts(ctx, tt.query)
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestLocalRepository_SearchSkipsDrafts(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	draft := validInput()
	draft.Status = models.StatusDraft
	_, err := repo.CreatePost(ctx, draft)
	require.NoError(t, err)

	got, err := repo.SearchPosts(ctx, "заметки")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLocalRepository_Pagination(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	for i := 0; i < 4; i++ {
		_, err := repo.CreatePost(ctx, validInput())
		require.NoError(t, err)
	}

	all, err := repo.GetPublishedPosts(ctx, models.ListOptions{})
	require.NoError(t, err)
	require.Len(t, all, 5) // 1 seeded + 4 created

	page1, err := repo.GetPublishedPosts(ctx, models.ListOptions{Page: 1, PerPage: 2})
	require.NoError(t, err)
	assert.Len(t, page1, 2)

	page3, err := repo.GetPublishedPosts(ctx, models.ListOptions{Page: 3, PerPage: 2})
	require.NoError(t, err)
	assert.Len(t, page3, 1)

	page4, err := repo.GetPublishedPosts(ctx, models.ListOptions{Page: 4, PerPage: 2})
	require.NoError(t, err)
	assert.Empty(t, page4)
}

func TestLocalRepository_DeleteCategoryInUse(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	ok, err := repo.DeleteCategory(ctx, "tech-ai")
	require.ErrorIs(t, err, ErrCategoryInUse)
	assert.False(t, ok)

	// Empty categories delete fine.
	ok, err = repo.DeleteCategory(ctx, "sales-art")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.DeleteCategory(ctx, "sales-art")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLocalRepository_CreateCategory(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	created, err := repo.CreateCategory(ctx, models.CategoryInput{
		Name:        "Интеграции",
		Description: "Подключение mymeet.ai к внешним сервисам",
	})
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.Equal(t, "интеграции", created.Slug)
	assert.Equal(t, 0, created.PostCount)

	got, err := repo.GetCategoryBySlug(ctx, "интеграции")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, created.ID, got.ID)
}

func TestLocalRepository_GetStats(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	draft := validInput()
	draft.Status = models.StatusDraft
	_, err := repo.CreatePost(ctx, draft)
	require.NoError(t, err)

	stats, err := repo.GetStats(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TotalPosts)
	assert.Equal(t, 1, stats.PublishedPosts)
	assert.Equal(t, 1, stats.DraftPosts)
	assert.Equal(t, 1247, stats.TotalViews)
	assert.Equal(t, 6, stats.TotalCategories)
	assert.Equal(t, 3, stats.TotalAuthors)
}

func TestLocalRepository_CorruptedDataSurfaced(t *testing.T) {
	ctx := context.Background()
	repo, store := newTestRepo(t)

	require.NoError(t, store.Set(ctx, "blog:posts", []byte("{not json")))

	_, err := repo.GetAllPosts(ctx, models.ListOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "corrupted data")
}
