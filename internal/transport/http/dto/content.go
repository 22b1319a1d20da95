package dto

import (
	"meetblog/internal/domain/models"
)

// CreatePostRequest is the editorial payload for a new post. Slug, read
// time and the table of contents are derived server side.
type CreatePostRequest struct {
	Title          string   `json:"title" validate:"required,min=5"`
	Content        string   `json:"content" validate:"required,min=100"`
	Excerpt        string   `json:"excerpt" validate:"required,min=50"`
	HeroImage      string   `json:"hero_image"`
	CategoryID     string   `json:"category" validate:"required"`
	Tags           []string `json:"tags" validate:"required,min=1"`
	AuthorID       string   `json:"author" validate:"required"`
	Status         string   `json:"status" validate:"omitempty,oneof=draft published archived"`
	Featured       bool     `json:"featured"`
	SEOTitle       string   `json:"seo_title"`
	SEODescription string   `json:"seo_description"`
	SEOKeywords    []string `json:"seo_keywords"`
}

func (r CreatePostRequest) ToInput() models.PostInput {
	return models.PostInput{
		Title:          r.Title,
		Content:        r.Content,
		Excerpt:        r.Excerpt,
		HeroImage:      r.HeroImage,
		CategoryID:     r.CategoryID,
		Tags:           r.Tags,
		AuthorID:       r.AuthorID,
		Status:         r.Status,
		Featured:       r.Featured,
		SEOTitle:       r.SEOTitle,
		SEODescription: r.SEODescription,
		SEOKeywords:    r.SEOKeywords,
	}
}

// UpdatePostRequest is a partial update: absent fields stay untouched.
type UpdatePostRequest struct {
	Title          *string   `json:"title"`
	Content        *string   `json:"content"`
	Excerpt        *string   `json:"excerpt"`
	HeroImage      *string   `json:"hero_image"`
	CategoryID     *string   `json:"category"`
	Tags           *[]string `json:"tags"`
	AuthorID       *string   `json:"author"`
	Status         *string   `json:"status"`
	Featured       *bool     `json:"featured"`
	SEOTitle       *string   `json:"seo_title"`
	SEODescription *string   `json:"seo_description"`
	SEOKeywords    *[]string `json:"seo_keywords"`
}

func (r UpdatePostRequest) ToPatch() models.PostPatch {
	return models.PostPatch{
		Title:          r.Title,
		Content:        r.Content,
		Excerpt:        r.Excerpt,
		HeroImage:      r.HeroImage,
		CategoryID:     r.CategoryID,
		Tags:           r.Tags,
		AuthorID:       r.AuthorID,
		Status:         r.Status,
		Featured:       r.Featured,
		SEOTitle:       r.SEOTitle,
		SEODescription: r.SEODescription,
		SEOKeywords:    r.SEOKeywords,
	}
}

type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,min=2"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Image       string `json:"image"`
}

func (r CreateCategoryRequest) ToInput() models.CategoryInput {
	return models.CategoryInput{
		Name:        r.Name,
		Description: r.Description,
		Color:       r.Color,
		Image:       r.Image,
	}
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
	Image       *string `json:"image"`
}

func (r UpdateCategoryRequest) ToPatch() models.CategoryPatch {
	return models.CategoryPatch{
		Name:        r.Name,
		Description: r.Description,
		Color:       r.Color,
		Image:       r.Image,
	}
}

// UploadResponse describes a stored file.
type UploadResponse struct {
	URL         string `json:"url"`
	Filename    string `json:"filename"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}
