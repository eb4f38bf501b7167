// Package due selects the cards a review session should present.
package due

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/mnemo-cli/mnemo/internal/deck"
	"github.com/mnemo-cli/mnemo/internal/scheduler"
	"github.com/mnemo-cli/mnemo/internal/store"
)

// CardInfo is a due card annotated for presentation.
type CardInfo struct {
	deck.Card

	IsNew       bool
	IsOverdue   bool
	TimeDisplay string

	// LastReview is the most recent review record, nil for new cards.
	LastReview *deck.ReviewRecord
}

// Stats summarizes the selection. TotalCards counts the whole deck;
// the other counts describe the selected set, before any limit is
// applied.
type Stats struct {
	TotalCards  int
	DueCards    int
	NewCards    int
	ReviewCards int
}

// Selection is the result of a due-card query: the deck, the ordered
// cards to review, and deck-wide stats.
type Selection struct {
	Deck  deck.Deck
	Cards []CardInfo
	Stats Stats
}

// Selector queries which cards are due. It only reads; scheduling
// state changes go through the review controller.
type Selector struct {
	Decks   store.DeckRepo
	Cards   store.CardRepo
	Reviews store.ReviewRepo
}

// NewSelector returns a Selector backed by the given store.
func NewSelector(s *store.Store) *Selector {
	return &Selector{Decks: s.Decks(), Cards: s.Cards(), Reviews: s.Reviews()}
}

// Select returns the cards in deckID that are due at now, ordered by
// next review date and then creation order. A card qualifies when its
// next review date has arrived, or when includeNew is set and it has
// never been reviewed. limit > 0 truncates the list after ordering;
// limit <= 0 means no limit. The limit never changes the stats, only
// how many cards come back.
func (s *Selector) Select(ctx context.Context, deckID string, now time.Time, includeNew bool, limit int) (*Selection, error) {
	d, err := s.Decks.Get(ctx, deckID)
	if err != nil {
		return nil, err
	}

	all, err := s.Cards.ListByDeck(ctx, deckID)
	if err != nil {
		return nil, fmt.Errorf("load cards: %w", err)
	}

	sel := &Selection{Deck: *d}
	sel.Stats.TotalCards = len(all)

	var due []deck.Card
	for _, c := range all {
		if !c.IsDue(now) && !(includeNew && c.IsNew()) {
			continue
		}
		due = append(due, c)
		sel.Stats.DueCards++
		if c.IsNew() {
			sel.Stats.NewCards++
		} else {
			sel.Stats.ReviewCards++
		}
	}

	// ListByDeck returns creation order; a stable sort keeps that as
	// the tie-break for equal review dates.
	sort.SliceStable(due, func(i, j int) bool {
		return due[i].NextReviewDate.Before(due[j].NextReviewDate)
	})
	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}

	sel.Cards = make([]CardInfo, 0, len(due))
	for _, c := range due {
		info := CardInfo{
			Card:        c,
			IsNew:       c.IsNew(),
			IsOverdue:   now.After(c.NextReviewDate),
			TimeDisplay: scheduler.FormatDueTime(c.NextReviewDate, now),
		}
		if !info.IsNew {
			rec, err := s.Reviews.LatestByCard(ctx, c.ID)
			if err != nil {
				return nil, fmt.Errorf("load last review: %w", err)
			}
			info.LastReview = rec
		}
		sel.Cards = append(sel.Cards, info)
	}
	return sel, nil
}
