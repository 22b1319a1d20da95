package htmltext

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripTags(t *testing.T) {
	got := StripTags(`<p class="lead">Первый абзац.</p><h2 id="x">Заголовок</h2>`)
	assert.Equal(t, "Первый абзац.Заголовок", got)
}

func TestReadTime(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
	}{
		{
			name:    "exactly 400 words is two minutes",
			content: strings.TrimSpace(strings.Repeat("word ", 400)),
			want:    2,
		},
		{
			name:    "199 words rounds up to one minute",
			content: strings.TrimSpace(strings.Repeat("word ", 199)),
			want:    1,
		},
		{
			name:    "201 words rounds up to two minutes",
			content: strings.TrimSpace(strings.Repeat("word ", 201)),
			want:    2,
		},
		{
			name:    "html markup is not counted",
			content: "<p>" + strings.TrimSpace(strings.Repeat("слово ", 200)) + "</p>",
			want:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReadTime(tt.content))
		})
	}
}

func TestTableOfContents(t *testing.T) {
	content := `
		<h2 id="intro">Введение</h2>
		<p>текст</p>
		<h3>Почему это важно</h3>
		<h2>Conclusion And Summary</h2>`

	toc := TableOfContents(content)

	assert.Len(t, toc, 3)
	assert.Equal(t, "введение", toc[0].ID)
	assert.Equal(t, 2, toc[0].Level)
	assert.Equal(t, "почему-это-важно", toc[1].ID)
	assert.Equal(t, 3, toc[1].Level)
	assert.Equal(t, "conclusion-and-summary", toc[2].ID)
	assert.Equal(t, "Conclusion And Summary", toc[2].Title)
}

func TestTableOfContents_NoHeadings(t *testing.T) {
	assert.Empty(t, TableOfContents("<p>только параграфы</p>"))
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "short text", Excerpt("<p>short text</p>", 160))

	long := strings.TrimSpace(strings.Repeat("word ", 100))
	assert.Equal(t, "word word word word...", Excerpt(long, 22))
}
