package api

import (
	"time"

	"github.com/mnemo-cli/mnemo/internal/deck"
	"github.com/mnemo-cli/mnemo/internal/due"
)

type deckResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CardCount   int       `json:"cardCount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type cardResponse struct {
	ID             string     `json:"id"`
	DeckID         string     `json:"deckId"`
	Front          string     `json:"front"`
	Back           string     `json:"back"`
	Tags           []string   `json:"tags"`
	Interval       int        `json:"interval"`
	Repetitions    int        `json:"repetitions"`
	EaseFactor     float64    `json:"easeFactor"`
	NextReviewDate time.Time  `json:"nextReviewDate"`
	LastReviewed   *time.Time `json:"lastReviewed,omitempty"`
	ReviewCount    int        `json:"reviewCount"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

type reviewRecordResponse struct {
	ID             string    `json:"id"`
	Difficulty     string    `json:"difficulty"`
	ResponseTime   int       `json:"responseTime"`
	IntervalBefore int       `json:"intervalBefore"`
	IntervalAfter  int       `json:"intervalAfter"`
	ReviewedAt     time.Time `json:"reviewedAt"`
}

type dueCardResponse struct {
	cardResponse
	IsNew       bool                  `json:"isNew"`
	IsOverdue   bool                  `json:"isOverdue"`
	TimeDisplay string                `json:"timeDisplay"`
	LastReview  *reviewRecordResponse `json:"lastReview,omitempty"`
}

type statsResponse struct {
	TotalCards  int `json:"totalCards"`
	DueCards    int `json:"dueCards"`
	NewCards    int `json:"newCards"`
	ReviewCards int `json:"reviewCards"`
}

type selectionResponse struct {
	Deck  deckRef           `json:"deck"`
	Cards []dueCardResponse `json:"cards"`
	Stats statsResponse     `json:"stats"`
}

type deckRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func mapDeck(d *deck.Deck) deckResponse {
	return deckResponse{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		CardCount:   d.CardCount,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func mapCard(c *deck.Card) cardResponse {
	var last *time.Time
	if !c.LastReviewed.IsZero() {
		t := c.LastReviewed
		last = &t
	}
	tags := c.Tags
	if tags == nil {
		tags = []string{}
	}
	return cardResponse{
		ID:             c.ID,
		DeckID:         c.DeckID,
		Front:          c.Front,
		Back:           c.Back,
		Tags:           tags,
		Interval:       c.Interval,
		Repetitions:    c.Repetitions,
		EaseFactor:     c.EaseFactor,
		NextReviewDate: c.NextReviewDate,
		LastReviewed:   last,
		ReviewCount:    c.ReviewCount,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func mapSelection(sel *due.Selection) selectionResponse {
	out := selectionResponse{
		Deck:  deckRef{ID: sel.Deck.ID, Name: sel.Deck.Name},
		Cards: make([]dueCardResponse, 0, len(sel.Cards)),
		Stats: statsResponse(sel.Stats),
	}
	for _, ci := range sel.Cards {
		dc := dueCardResponse{
			cardResponse: mapCard(&ci.Card),
			IsNew:        ci.IsNew,
			IsOverdue:    ci.IsOverdue,
			TimeDisplay:  ci.TimeDisplay,
		}
		if ci.LastReview != nil {
			dc.LastReview = &reviewRecordResponse{
				ID:             ci.LastReview.ID,
				Difficulty:     ci.LastReview.Difficulty,
				ResponseTime:   ci.LastReview.ResponseTime,
				IntervalBefore: ci.LastReview.IntervalBefore,
				IntervalAfter:  ci.LastReview.IntervalAfter,
				ReviewedAt:     ci.LastReview.ReviewedAt,
			}
		}
		out.Cards = append(out.Cards, dc)
	}
	return out
}
