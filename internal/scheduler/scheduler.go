// Package scheduler implements the spaced repetition interval
// computation. Compute is a pure function: the card's next scheduling
// state is fully determined by the previous state and the recall
// difficulty the learner reported.
package scheduler

import (
	"fmt"
	"math"
)

// Difficulty is the learner's self-reported recall quality.
type Difficulty string

const (
	Again Difficulty = "again"
	Hard  Difficulty = "hard"
	Good  Difficulty = "good"
	Easy  Difficulty = "easy"
)

// ParseDifficulty validates a raw difficulty string.
func ParseDifficulty(s string) (Difficulty, error) {
	switch Difficulty(s) {
	case Again, Hard, Good, Easy:
		return Difficulty(s), nil
	}
	return "", fmt.Errorf("invalid difficulty level: %q", s)
}

// Ease factor bounds and steps.
const (
	MinEaseFactor = 1.3
	MaxEaseFactor = 2.5

	againEasePenalty = 0.2
	hardEasePenalty  = 0.15
	easyEaseBonus    = 0.15
)

// minutesPerDay converts between the minute-based interval storage and
// the whole-day granularity used once a card has three repetitions.
const minutesPerDay = 24 * 60

// Result is the recomputed scheduling state for a card.
type Result struct {
	Interval    int // minutes until next review, >= 1
	EaseFactor  float64
	Repetitions int
}

// baseIntervals holds the minute intervals for a first-pass answer,
// scaled by deck size.
type baseIntervals struct {
	again, hard, good, easy int
}

// ScaleFactor grows base intervals for larger decks: a 50-card deck gets
// 2x the wait of an empty one, capped at 2x overall.
func ScaleFactor(totalCardsInDeck int) float64 {
	return math.Min(2, 1+float64(totalCardsInDeck)/50)
}

func scaledBases(totalCardsInDeck int) baseIntervals {
	scale := ScaleFactor(totalCardsInDeck)
	return baseIntervals{
		again: maxInt(1, int(3*scale)),
		hard:  maxInt(2, int(6*scale)),
		good:  maxInt(4, int(10*scale)),
		easy:  maxInt(6, int(15*scale)),
	}
}

// Compute derives a card's next scheduling state from its current state
// and the reported difficulty. totalCardsInDeck feeds the deck-size
// scaling of base intervals. The difficulty must already be validated.
func Compute(difficulty Difficulty, currentInterval, repetitions int, easeFactor float64, totalCardsInDeck int) Result {
	base := scaledBases(totalCardsInDeck)

	r := Result{
		Interval:    currentInterval,
		EaseFactor:  easeFactor,
		Repetitions: repetitions,
	}

	switch difficulty {
	case Again:
		// Reset progress, show again soon.
		r.Repetitions = 0
		r.EaseFactor = math.Max(MinEaseFactor, easeFactor-againEasePenalty)
		r.Interval = base.again

	case Hard:
		// No repetition progress, but the card gets harder to grow.
		r.Repetitions = maxInt(0, repetitions)
		r.EaseFactor = math.Max(MinEaseFactor, easeFactor-hardEasePenalty)
		if repetitions == 0 {
			r.Interval = base.hard
		} else {
			r.Interval = int(float64(currentInterval) * 1.2)
		}

	case Good:
		r.Repetitions = repetitions + 1
		switch r.Repetitions {
		case 1:
			r.Interval = base.good
		case 2:
			r.Interval = base.good * 2
		default:
			// After two successful reviews, switch to day-scale growth.
			// The day-snap below bounds the product, so the extra
			// minutesPerDay factor cannot run away.
			r.Interval = int(float64(currentInterval) * easeFactor * minutesPerDay)
		}

	case Easy:
		r.Repetitions = repetitions + 1
		r.EaseFactor = math.Min(MaxEaseFactor, easeFactor+easyEaseBonus)
		switch r.Repetitions {
		case 1:
			r.Interval = base.easy
		case 2:
			r.Interval = base.easy * 3
		default:
			r.Interval = int(float64(currentInterval) * easeFactor * minutesPerDay * 1.3)
		}
	}

	// Mature cards snap to whole days, bounded by repetitions * ease so
	// high-ease cards cannot run away.
	if r.Repetitions >= 3 {
		days := minInt(r.Interval/minutesPerDay, int(float64(r.Repetitions)*r.EaseFactor))
		r.Interval = maxInt(1, days) * minutesPerDay
	}

	if r.Interval < 1 {
		r.Interval = 1
	}

	return r
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
