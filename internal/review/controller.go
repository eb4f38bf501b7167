package review

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mnemo-cli/mnemo/internal/deck"
	"github.com/mnemo-cli/mnemo/internal/due"
	"github.com/mnemo-cli/mnemo/internal/scheduler"
	"github.com/mnemo-cli/mnemo/internal/store"
)

// ErrNotReady is returned when Submit is called before the answer is
// revealed, while browsing, or while a write is still outstanding.
var ErrNotReady = errors.New("session not ready for an answer")

// Controller drives a session: it loads cards through the selector,
// computes new schedules, persists answers, and applies the resulting
// events to the session value it holds.
type Controller struct {
	selector *due.Selector
	reviews  store.ReviewRepo

	includeNew bool
	limit      int

	session Session
}

// NewController returns a controller for one deck's review session.
func NewController(selector *due.Selector, reviews store.ReviewRepo, includeNew bool, limit int) *Controller {
	return &Controller{
		selector:   selector,
		reviews:    reviews,
		includeNew: includeNew,
		limit:      limit,
	}
}

// Session returns the current session value.
func (c *Controller) Session() Session {
	return c.session
}

// Start loads the due cards for deckID and activates the session.
// With nothing due the session completes immediately.
func (c *Controller) Start(ctx context.Context, deckID string, now time.Time) error {
	c.session = NewSession(deckID, now)

	sel, err := c.selector.Select(ctx, deckID, now, c.includeNew, c.limit)
	if err != nil {
		c.session = Apply(c.session, LoadFailed{Err: err})
		return err
	}
	c.session = Apply(c.session, Loaded{Selection: sel, Now: now})
	return nil
}

// Reveal shows the current card's back.
func (c *Controller) Reveal() {
	c.session = Apply(c.session, Revealed{})
}

// Submit persists an answer for the active card: the recomputed
// schedule and the review record land in one transaction. On success
// the session advances; on failure it stays on the current card.
// store.ErrStaleCard means another session updated the card first; the
// caller may retry, which will re-read and lose nothing.
func (c *Controller) Submit(ctx context.Context, difficulty scheduler.Difficulty, now time.Time) error {
	if !c.session.CanSubmit() {
		return ErrNotReady
	}
	card, ok := c.session.CurrentCard()
	if !ok {
		return ErrNotReady
	}

	c.session = Apply(c.session, SubmitStarted{})

	result := scheduler.Compute(difficulty, card.Interval, card.Repetitions,
		card.EaseFactor, c.session.Stats.TotalCards)

	responseTime := int(now.Sub(c.session.CardStartTime).Seconds())
	if responseTime < 0 {
		responseTime = 0
	}

	_, err := c.reviews.RecordReview(ctx, store.CardUpdate{
		CardID:         card.ID,
		Version:        card.Version,
		Interval:       result.Interval,
		Repetitions:    result.Repetitions,
		EaseFactor:     result.EaseFactor,
		NextReviewDate: now.Add(time.Duration(result.Interval) * time.Minute),
	}, store.NewReview{
		Difficulty:     string(difficulty),
		ResponseTime:   responseTime,
		IntervalBefore: card.Interval,
		IntervalAfter:  result.Interval,
	}, now)
	if err != nil {
		fatal := errors.Is(err, deck.ErrCardNotFound)
		c.session = Apply(c.session, SubmitFailed{Err: err, Fatal: fatal})
		return fmt.Errorf("record review: %w", err)
	}

	c.session = Apply(c.session, SubmitSucceeded{
		Difficulty: difficulty,
		Result:     result,
		NewVersion: card.Version + 1,
		Now:        now,
	})
	return nil
}

// Back navigates to the previous answered card for browsing.
func (c *Controller) Back() {
	c.session = Apply(c.session, WentBack{})
}

// Advance navigates forward after browsing back.
func (c *Controller) Advance(now time.Time) {
	c.session = Apply(c.session, Advanced{Now: now})
}

// Summary describes the finished (or empty) session.
func (c *Controller) Summary(now time.Time) Summary {
	return summarize(c.session, now)
}
