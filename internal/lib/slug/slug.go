// Package slug derives URL-safe slugs from post and category titles.
package slug

import (
	"regexp"
	"strings"
)

var (
	// nonAlphanumeric drops anything that is not a latin or cyrillic letter,
	// a digit, whitespace or a hyphen. Cyrillic is kept: most of the content
	// is Russian and the site serves cyrillic slugs as-is.
	nonAlphanumeric = regexp.MustCompile(`[^a-zа-яё0-9\s-]`)
	whitespace      = regexp.MustCompile(`\s+`)
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Generate makes a slug from an arbitrary title.
// "9 лучших расширений Chrome!" -> "9-лучших-расширений-chrome"
func Generate(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = nonAlphanumeric.ReplaceAllString(s, "")
	s = whitespace.ReplaceAllString(s, "-")
	s = multipleHyphens.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
