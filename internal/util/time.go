package util

import (
	"fmt"
	"time"
)

// RelativeTime formats a time as relative (e.g., "2 hours ago")
func RelativeTime(t time.Time) string {
	return relativeTime(time.Now(), t)
}

func relativeTime(now, t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	diff := now.Sub(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		m := int(diff.Minutes())
		if m == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", m)
	case diff < 24*time.Hour:
		h := int(diff.Hours())
		if h == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", h)
	default:
		return t.Format("Jan 2, 15:04")
	}
}
