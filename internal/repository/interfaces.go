package repository

import (
	"context"
	"time"

	"meetblog/internal/domain/models"
)

// ContentRepository is the single logical contract both the KV-backed local
// implementation and the HTTP-backed remote one satisfy. The facade in
// services/content_service talks to this interface only.
//
// "Not found" is never an error: single-entity lookups return (nil, nil),
// list operations return an empty slice. Errors are reserved for storage
// corruption, transport failures and structured API failures.
type ContentRepository interface {
	GetAllPosts(ctx context.Context, opts models.ListOptions) ([]models.Post, error)
	GetPublishedPosts(ctx context.Context, opts models.ListOptions) ([]models.Post, error)
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	GetPostBySlug(ctx context.Context, slug string) (*models.Post, error)
	GetPostsByCategory(ctx context.Context, categoryID string) ([]models.Post, error)
	GetPostsByAuthor(ctx context.Context, authorID string) ([]models.Post, error)
	GetFeaturedPosts(ctx context.Context) ([]models.Post, error)
	SearchPosts(ctx context.Context, query string) ([]models.Post, error)

	CreatePost(ctx context.Context, input models.PostInput) (*models.Post, error)
	UpdatePost(ctx context.Context, id string, patch models.PostPatch) (*models.Post, error)
	DeletePost(ctx context.Context, id string) (bool, error)
	IncrementViews(ctx context.Context, slug string) error

	GetAllCategories(ctx context.Context) ([]models.Category, error)
	GetCategoryByID(ctx context.Context, id string) (*models.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
	CreateCategory(ctx context.Context, input models.CategoryInput) (*models.Category, error)
	UpdateCategory(ctx context.Context, id string, patch models.CategoryPatch) (*models.Category, error)
	DeleteCategory(ctx context.Context, id string) (bool, error)

	GetAllAuthors(ctx context.Context) ([]models.Author, error)
	GetAuthorByID(ctx context.Context, id string) (*models.Author, error)

	GetStats(ctx context.Context) (models.BlogStats, error)
}

type TokenRepository interface {
	SaveRefreshToken(ctx context.Context, userID, token string, exp time.Duration) error
	GetRefreshToken(ctx context.Context, userID, token string) (bool, error)
	DeleteRefreshToken(ctx context.Context, userID, token string) error
	DeleteAllUserTokens(ctx context.Context, userID string) error
}
