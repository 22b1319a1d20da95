// Package seo derives head-tag metadata and share links from a post.
// Pure string shaping, no network and no storage access.
package seo

import (
	"fmt"
	"net/url"
	"time"

	"meetblog/internal/domain/models"
)

// Metadata is the canonical head-tag bundle for a post page.
type Metadata struct {
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Keywords      []string  `json:"keywords"`
	Image         string    `json:"image,omitempty"`
	Type          string    `json:"type"`
	PublishedTime time.Time `json:"published_time"`
	ModifiedTime  time.Time `json:"modified_time"`
	Author        string    `json:"author"`
	Section       string    `json:"section"`
	Tags          []string  `json:"tags"`
}

// ShareURLs holds pre-formatted share links for the common destinations.
type ShareURLs struct {
	Twitter  string `json:"twitter"`
	Facebook string `json:"facebook"`
	LinkedIn string `json:"linkedin"`
	Telegram string `json:"telegram"`
	WhatsApp string `json:"whatsapp"`
	Email    string `json:"email"`
}

// ForPost builds the metadata bundle, falling back from the SEO overrides to
// the post's own title/excerpt/tags.
func ForPost(post models.Post) Metadata {
	meta := Metadata{
		Title:         post.SEOTitle,
		Description:   post.SEODescription,
		Keywords:      post.SEOKeywords,
		Image:         post.HeroImage,
		Type:          "article",
		PublishedTime: post.PublishedAt,
		ModifiedTime:  post.UpdatedAt,
		Author:        post.AuthorID,
		Section:       post.CategoryID,
		Tags:          post.Tags,
	}

	if meta.Title == "" {
		meta.Title = post.Title
	}
	if meta.Description == "" {
		meta.Description = post.Excerpt
	}
	if len(meta.Keywords) == 0 {
		meta.Keywords = post.Tags
	}

	return meta
}

// Share builds the share links for a post hosted under baseURL.
func Share(post models.Post, baseURL string) ShareURLs {
	postURL := fmt.Sprintf("%s/blog/%s", baseURL, post.Slug)
	text := fmt.Sprintf("%s - %s", post.Title, post.Excerpt)

	return ShareURLs{
		Twitter: fmt.Sprintf("https://twitter.com/intent/tweet?url=%s&text=%s",
			url.QueryEscape(postURL), url.QueryEscape(text)),
		Facebook: fmt.Sprintf("https://www.facebook.com/sharer/sharer.php?u=%s",
			url.QueryEscape(postURL)),
		LinkedIn: fmt.Sprintf("https://www.linkedin.com/sharing/share-offsite/?url=%s",
			url.QueryEscape(postURL)),
		Telegram: fmt.Sprintf("https://t.me/share/url?url=%s&text=%s",
			url.QueryEscape(postURL), url.QueryEscape(text)),
		WhatsApp: fmt.Sprintf("https://api.whatsapp.com/send?text=%s",
			url.QueryEscape(text+" "+postURL)),
		Email: fmt.Sprintf("mailto:?subject=%s&body=%s",
			url.QueryEscape(post.Title), url.QueryEscape(text+"\n\n"+postURL)),
	}
}
