package review

import (
	"fmt"
	"time"
)

// Summary is the end-of-session report.
type Summary struct {
	DeckName      string
	NothingDue    bool
	TotalCards    int
	ReviewedCards int
	CorrectCards  int
	Accuracy      float64 // 0..1, zero when nothing was reviewed
	Duration      time.Duration
}

// Headline is the one-line version of the summary. An empty session
// reads differently from a finished one.
func (s Summary) Headline() string {
	if s.NothingDue {
		return "Nothing due right now — come back later"
	}
	return fmt.Sprintf("Reviewed %d cards, %d correct (%.0f%%)",
		s.ReviewedCards, s.CorrectCards, s.Accuracy*100)
}

func summarize(s Session, now time.Time) Summary {
	sum := Summary{
		DeckName:      s.DeckName,
		NothingDue:    s.NothingDue,
		TotalCards:    s.TotalCards,
		ReviewedCards: s.ReviewedCards,
		CorrectCards:  s.CorrectCards,
		Duration:      now.Sub(s.StartedAt),
	}
	if s.ReviewedCards > 0 {
		sum.Accuracy = float64(s.CorrectCards) / float64(s.ReviewedCards)
	}
	return sum
}
