// Package deck defines the domain types shared across mnemo: decks,
// cards with their scheduling state, and review records.
package deck

import (
	"errors"
	"time"
)

var (
	// ErrDeckNotFound is returned when a deck identifier matches nothing.
	ErrDeckNotFound = errors.New("deck not found")

	// ErrCardNotFound is returned when a card identifier matches nothing.
	ErrCardNotFound = errors.New("card not found")
)

// Deck groups cards under a name.
type Deck struct {
	ID          string
	Name        string
	Description string
	CardCount   int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Card is a single flashcard with its spaced repetition state.
//
// Interval is expressed in minutes and is always >= 1. A card with
// ReviewCount == 0 is "new" regardless of NextReviewDate.
type Card struct {
	ID     string
	DeckID string
	Front  string
	Back   string
	Tags   []string

	Interval       int
	Repetitions    int
	EaseFactor     float64
	NextReviewDate time.Time
	LastReviewed   time.Time // zero value means never reviewed
	ReviewCount    int

	// Version increments on every scheduling update. Writers must pass
	// the version they read; a mismatch means another session won.
	Version int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsNew reports whether the card has never been reviewed.
func (c *Card) IsNew() bool {
	return c.ReviewCount == 0
}

// IsDue reports whether the card is due at the given time.
func (c *Card) IsDue(now time.Time) bool {
	return !now.Before(c.NextReviewDate)
}

// ReviewRecord is an immutable, append-only log entry for one answered
// card. Records are never mutated or deleted.
type ReviewRecord struct {
	ID             string
	CardID         string
	DeckID         string
	Difficulty     string
	ResponseTime   int // seconds, non-negative
	IntervalBefore int
	IntervalAfter  int
	ReviewedAt     time.Time
}

// DefaultEaseFactor is the ease assigned to freshly created cards.
const DefaultEaseFactor = 2.5
