// Package datefmt formats post timestamps for display.
package datefmt

import (
	"fmt"
	"time"
)

// Relative maps a timestamp to a coarse "N ... назад" bucket relative to now.
// Buckets are intentionally approximate: 7-day weeks, 30-day months, 365-day
// years, with day counts rounded up. Exactly one day back is "вчера".
func Relative(t, now time.Time) string {
	diff := now.Sub(t)
	if diff < 0 {
		diff = -diff
	}

	days := int((diff + 24*time.Hour - 1) / (24 * time.Hour))

	switch {
	case days <= 1:
		return "вчера"
	case days < 7:
		return fmt.Sprintf("%d дней назад", days)
	case days < 30:
		return fmt.Sprintf("%d недель назад", ceilDiv(days, 7))
	case days < 365:
		return fmt.Sprintf("%d месяцев назад", ceilDiv(days, 30))
	default:
		return fmt.Sprintf("%d лет назад", ceilDiv(days, 365))
	}
}

// Absolute renders a full date, e.g. "15 декабря 2024".
func Absolute(t time.Time) string {
	months := [...]string{
		"января", "февраля", "марта", "апреля", "мая", "июня",
		"июля", "августа", "сентября", "октября", "ноября", "декабря",
	}
	return fmt.Sprintf("%d %s %d", t.Day(), months[t.Month()-1], t.Year())
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
