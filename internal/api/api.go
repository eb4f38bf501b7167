// Package api exposes decks, cards, and the review flow over HTTP.
// It is thin plumbing: all scheduling decisions live in the scheduler
// and due packages.
package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mnemo-cli/mnemo/internal/deck"
	"github.com/mnemo-cli/mnemo/internal/due"
	"github.com/mnemo-cli/mnemo/internal/scheduler"
	"github.com/mnemo-cli/mnemo/internal/store"
)

type API struct {
	store    *store.Store
	selector *due.Selector
	now      func() time.Time
}

func New(st *store.Store) *API {
	return &API{
		store:    st,
		selector: due.NewSelector(st),
		now:      time.Now,
	}
}

// Register mounts routes under the provided group (e.g., /api).
func (a *API) Register(r *gin.RouterGroup) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/decks", a.listDecks)
	r.POST("/decks", a.createDeck)
	r.GET("/decks/:id", a.getDeck)
	r.PUT("/decks/:id", a.updateDeck)
	r.DELETE("/decks/:id", a.deleteDeck)
	r.GET("/decks/:id/cards", a.listCards)
	r.POST("/decks/:id/cards", a.addCards)
	r.GET("/decks/:id/due-cards", a.dueCards)
	r.DELETE("/cards/:id", a.deleteCard)
	r.POST("/cards/:id/review", a.reviewCard)
}

type deckRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type cardRequest struct {
	Front string   `json:"front"`
	Back  string   `json:"back"`
	Tags  []string `json:"tags"`
}

type addCardsRequest struct {
	Cards []cardRequest `json:"cards"`
}

type reviewRequest struct {
	Difficulty   string `json:"difficulty"`
	ResponseTime int    `json:"responseTime"`
	TotalCards   int    `json:"totalCards"`
}

func (a *API) listDecks(c *gin.Context) {
	decks, err := a.store.Decks().List(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, err.Error())
		return
	}
	out := make([]deckResponse, 0, len(decks))
	for _, d := range decks {
		out = append(out, mapDeck(&d))
	}
	c.JSON(http.StatusOK, out)
}

func (a *API) createDeck(c *gin.Context) {
	var req deckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Name == "" {
		writeError(c, http.StatusBadRequest, "deck name is required")
		return
	}
	d, err := a.store.Decks().Create(c.Request.Context(), req.Name, req.Description, a.now())
	if err != nil {
		writeError(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusCreated, mapDeck(d))
}

func (a *API) getDeck(c *gin.Context) {
	d, err := a.store.Decks().Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapDeck(d))
}

func (a *API) updateDeck(c *gin.Context) {
	var req deckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Name == "" {
		writeError(c, http.StatusBadRequest, "deck name is required")
		return
	}
	ctx := c.Request.Context()
	id := c.Param("id")
	if err := a.store.Decks().Rename(ctx, id, req.Name, req.Description, a.now()); err != nil {
		writeDomainError(c, err)
		return
	}
	d, err := a.store.Decks().Get(ctx, id)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapDeck(d))
}

func (a *API) deleteDeck(c *gin.Context) {
	if err := a.store.Decks().Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (a *API) listCards(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	if _, err := a.store.Decks().Get(ctx, id); err != nil {
		writeDomainError(c, err)
		return
	}
	cards, err := a.store.Cards().ListByDeck(ctx, id)
	if err != nil {
		writeError(c, http.StatusInternalServerError, err.Error())
		return
	}
	out := make([]cardResponse, 0, len(cards))
	for _, card := range cards {
		out = append(out, mapCard(&card))
	}
	c.JSON(http.StatusOK, out)
}

func (a *API) addCards(c *gin.Context) {
	var req addCardsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if len(req.Cards) == 0 {
		writeError(c, http.StatusBadRequest, "at least one card is required")
		return
	}
	newCards := make([]store.NewCard, 0, len(req.Cards))
	for i, cr := range req.Cards {
		if cr.Front == "" || cr.Back == "" {
			writeError(c, http.StatusBadRequest, "card "+strconv.Itoa(i+1)+": front and back are required")
			return
		}
		newCards = append(newCards, store.NewCard{Front: cr.Front, Back: cr.Back, Tags: cr.Tags})
	}

	created, err := a.store.Cards().Insert(c.Request.Context(), c.Param("id"), newCards, a.now())
	if err != nil {
		writeDomainError(c, err)
		return
	}
	out := make([]cardResponse, 0, len(created))
	for _, card := range created {
		out = append(out, mapCard(&card))
	}
	c.JSON(http.StatusCreated, out)
}

func (a *API) dueCards(c *gin.Context) {
	includeNew := c.Query("includeNew") == "true"
	limit := 0
	if l := c.Query("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 0 {
			writeError(c, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	sel, err := a.selector.Select(c.Request.Context(), c.Param("id"), a.now(), includeNew, limit)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSelection(sel))
}

func (a *API) deleteCard(c *gin.Context) {
	if err := a.store.Cards().Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (a *API) reviewCard(c *gin.Context) {
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	difficulty, err := scheduler.ParseDifficulty(req.Difficulty)
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid difficulty level")
		return
	}
	if req.ResponseTime < 0 {
		writeError(c, http.StatusBadRequest, "responseTime must be non-negative")
		return
	}

	ctx := c.Request.Context()
	card, err := a.store.Cards().Get(ctx, c.Param("id"))
	if err != nil {
		writeDomainError(c, err)
		return
	}

	// The client may report the deck size it reviewed against; fall
	// back to the actual count.
	totalCards := req.TotalCards
	if totalCards <= 0 {
		d, err := a.store.Decks().Get(ctx, card.DeckID)
		if err != nil {
			writeDomainError(c, err)
			return
		}
		totalCards = d.CardCount
	}

	now := a.now()
	result := scheduler.Compute(difficulty, card.Interval, card.Repetitions, card.EaseFactor, totalCards)
	nextReview := now.Add(time.Duration(result.Interval) * time.Minute)

	_, err = a.store.Reviews().RecordReview(ctx, store.CardUpdate{
		CardID:         card.ID,
		Version:        card.Version,
		Interval:       result.Interval,
		Repetitions:    result.Repetitions,
		EaseFactor:     result.EaseFactor,
		NextReviewDate: nextReview,
	}, store.NewReview{
		Difficulty:     string(difficulty),
		ResponseTime:   req.ResponseTime,
		IntervalBefore: card.Interval,
		IntervalAfter:  result.Interval,
	}, now)
	if err != nil {
		if errors.Is(err, store.ErrStaleCard) {
			writeError(c, http.StatusConflict, err.Error())
			return
		}
		writeDomainError(c, err)
		return
	}

	updated, err := a.store.Cards().Get(ctx, card.ID)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"card":    mapCard(updated),
		"nextReview": gin.H{
			"date":     nextReview,
			"interval": result.Interval,
			"display":  scheduler.FormatInterval(result.Interval),
		},
	})
}

func writeDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, deck.ErrDeckNotFound), errors.Is(err, deck.ErrCardNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, err.Error())
	}
}

func writeError(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}
