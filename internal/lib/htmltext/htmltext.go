// Package htmltext contains pure derivation helpers over HTML post content:
// tag stripping, read-time estimation, table-of-contents extraction.
package htmltext

import (
	"regexp"
	"strings"

	"meetblog/internal/domain/models"
	"meetblog/internal/lib/slug"
)

const wordsPerMinute = 200

var (
	tagRe     = regexp.MustCompile(`<[^>]*>`)
	headingRe = regexp.MustCompile(`(?i)<h([1-6])[^>]*>([^<]*)</h[1-6]>`)
)

// StripTags removes HTML markup, leaving plain text.
func StripTags(content string) string {
	return strings.TrimSpace(tagRe.ReplaceAllString(content, ""))
}

// ReadTime estimates reading time in minutes: ceil(words / 200).
func ReadTime(content string) int {
	words := len(strings.Fields(StripTags(content)))
	return (words + wordsPerMinute - 1) / wordsPerMinute
}

// TableOfContents extracts heading entries from HTML content in document
// order. Anchor ids are derived from the heading text the same way post
// slugs are.
func TableOfContents(content string) []models.TOCEntry {
	var toc []models.TOCEntry

	for _, m := range headingRe.FindAllStringSubmatch(content, -1) {
		title := strings.TrimSpace(m[2])
		if title == "" {
			continue
		}
		toc = append(toc, models.TOCEntry{
			ID:    slug.Generate(title),
			Title: title,
			Level: int(m[1][0] - '0'),
		})
	}

	return toc
}

// Excerpt builds a plain-text excerpt of at most maxLength characters,
// cutting at the last complete word.
func Excerpt(content string, maxLength int) string {
	plain := StripTags(content)

	runes := []rune(plain)
	if len(runes) <= maxLength {
		return plain
	}

	truncated := string(runes[:maxLength])
	if i := strings.LastIndex(truncated, " "); i > 0 {
		truncated = truncated[:i]
	}

	return truncated + "..."
}
