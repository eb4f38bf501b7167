package scheduler

import (
	"fmt"
	"time"
)

// FormatInterval renders a minute interval as a human-readable duration:
// minutes under an hour, hours under a day, days otherwise.
func FormatInterval(minutes int) string {
	switch {
	case minutes < 60:
		return fmt.Sprintf("%d minutes", minutes)
	case minutes < minutesPerDay:
		return fmt.Sprintf("%d hours", minutes/60)
	default:
		return fmt.Sprintf("%d days", minutes/minutesPerDay)
	}
}

// FormatDueTime describes how far a card is from its due time, in
// minutes, relative to now.
func FormatDueTime(nextReview, now time.Time) string {
	diff := now.Sub(nextReview)
	if diff > 0 {
		return fmt.Sprintf("Overdue by %d minutes", int(diff.Minutes()))
	}
	return fmt.Sprintf("Due in %d minutes", int((-diff).Minutes()))
}
