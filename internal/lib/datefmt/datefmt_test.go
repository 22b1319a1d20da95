package datefmt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRelative(t *testing.T) {
	now := time.Date(2024, 12, 20, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		ago  time.Duration
		want string
	}{
		{"exactly one day", 24 * time.Hour, "вчера"},
		{"a few hours rounds up to yesterday", 3 * time.Hour, "вчера"},
		{"exactly six days", 6 * 24 * time.Hour, "6 дней назад"},
		{"exactly seven days becomes one week", 7 * 24 * time.Hour, "1 недель назад"},
		{"29 days stays in the week bucket", 29 * 24 * time.Hour, "5 недель назад"},
		{"exactly 30 days becomes one month", 30 * 24 * time.Hour, "1 месяцев назад"},
		{"120 days is four months", 120 * 24 * time.Hour, "4 месяцев назад"},
		{"exactly 365 days becomes one year", 365 * 24 * time.Hour, "1 лет назад"},
		{"800 days is three years", 800 * 24 * time.Hour, "3 лет назад"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Relative(now.Add(-tt.ago), now))
		})
	}
}

func TestAbsolute(t *testing.T) {
	assert.Equal(t, "15 декабря 2024", Absolute(time.Date(2024, 12, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "1 января 2025", Absolute(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
}
