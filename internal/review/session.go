// Package review runs a flashcard review session: a queue of due cards,
// reveal/answer transitions, and counters for the end-of-session summary.
//
// Session is a value and Apply is a pure reducer: every transition takes
// a Session and an event and returns the next Session. Side effects
// (loading cards, persisting reviews) live in the Controller, which
// feeds their outcomes back in as events.
package review

import (
	"time"

	"github.com/mnemo-cli/mnemo/internal/due"
	"github.com/mnemo-cli/mnemo/internal/scheduler"
)

// State is the session lifecycle phase.
type State int

const (
	StateLoading  State = iota // Fetching due cards
	StateActive                // Presenting cards
	StateComplete              // All queue tasks answered (or nothing was due)
	StateError                 // Unrecoverable failure
)

// Task is one queue entry: a reference to a card plus its position.
// A card answered "again" gets a second task appended to the queue
// tail; the card itself is never duplicated.
type Task struct {
	CardID   string
	QueuePos int
	Answered bool
}

// Session is the full state of a review session. It is copied by value
// through Apply; the queue is the only shared slice and Apply copies it
// before appending.
type Session struct {
	State    State
	DeckID   string
	DeckName string

	// Cards holds the selected cards keyed by ID; tasks reference into it.
	Cards map[string]due.CardInfo
	Queue []Task

	// Current indexes the queue. Positions below Frontier have been
	// answered and may be revisited read-only; Frontier is the active
	// unanswered task.
	Current  int
	Frontier int

	ShowAnswer bool

	// InFlight guards the single allowed outstanding persistence write.
	InFlight bool

	// TotalCards is the number of distinct cards selected at start; it
	// does not grow when "again" extends the queue.
	TotalCards    int
	ReviewedCards int
	CorrectCards  int

	// Stats is the deck snapshot taken at load time.
	Stats due.Stats

	StartedAt     time.Time
	CardStartTime time.Time

	NothingDue bool

	// LastErr holds a retryable submission error; the session stays on
	// the current card until a submit succeeds.
	LastErr error
	// Err is set when the session enters StateError.
	Err error
}

// NewSession returns a session in the loading state.
func NewSession(deckID string, now time.Time) Session {
	return Session{
		State:     StateLoading,
		DeckID:    deckID,
		StartedAt: now,
	}
}

// CurrentCard returns the card for the current queue position.
func (s Session) CurrentCard() (due.CardInfo, bool) {
	if s.Current < 0 || s.Current >= len(s.Queue) {
		return due.CardInfo{}, false
	}
	c, ok := s.Cards[s.Queue[s.Current].CardID]
	return c, ok
}

// Browsing reports whether the session is showing an already-answered
// card rather than the active one.
func (s Session) Browsing() bool {
	return s.State == StateActive && s.Current < s.Frontier
}

// CanSubmit reports whether an answer may be submitted right now: the
// session is active, the answer is revealed, the current card is the
// active unanswered one, and no write is outstanding.
func (s Session) CanSubmit() bool {
	return s.State == StateActive && s.ShowAnswer && !s.InFlight && s.Current == s.Frontier
}

// Event is a session transition input.
type Event interface{ isEvent() }

// Loaded carries the due-card selection into the session.
type Loaded struct {
	Selection *due.Selection
	Now       time.Time
}

// LoadFailed aborts the session before it starts.
type LoadFailed struct{ Err error }

// Revealed flips the current card to show its back.
type Revealed struct{}

// SubmitStarted marks a persistence write as outstanding.
type SubmitStarted struct{}

// SubmitSucceeded records the outcome of a persisted answer.
// NewVersion is the card's version after the write; a requeued copy of
// the card must carry it or its own submit would fail the optimistic
// concurrency check.
type SubmitSucceeded struct {
	Difficulty scheduler.Difficulty
	Result     scheduler.Result
	NewVersion int64
	Now        time.Time
}

// SubmitFailed reports a failed write. Fatal failures end the session;
// others leave it on the current card for a retry.
type SubmitFailed struct {
	Err   error
	Fatal bool
}

// WentBack navigates to the previous answered card. Pure browsing:
// counters and the queue are untouched, and the answer starts hidden.
type WentBack struct{}

// Advanced navigates forward, at most back to the active card.
type Advanced struct{ Now time.Time }

func (Loaded) isEvent()          {}
func (LoadFailed) isEvent()      {}
func (Revealed) isEvent()        {}
func (SubmitStarted) isEvent()   {}
func (SubmitSucceeded) isEvent() {}
func (SubmitFailed) isEvent()    {}
func (WentBack) isEvent()        {}
func (Advanced) isEvent()        {}

// Apply returns the session after ev. Unknown or out-of-phase events
// leave the session unchanged.
func Apply(s Session, ev Event) Session {
	switch e := ev.(type) {
	case Loaded:
		if s.State != StateLoading {
			return s
		}
		return applyLoaded(s, e)

	case LoadFailed:
		if s.State != StateLoading {
			return s
		}
		s.State = StateError
		s.Err = e.Err
		return s

	case Revealed:
		if s.State != StateActive {
			return s
		}
		s.ShowAnswer = true
		return s

	case SubmitStarted:
		if !s.CanSubmit() {
			return s
		}
		s.InFlight = true
		s.LastErr = nil
		return s

	case SubmitSucceeded:
		if s.State != StateActive || !s.InFlight {
			return s
		}
		return applySubmit(s, e)

	case SubmitFailed:
		if s.State != StateActive || !s.InFlight {
			return s
		}
		s.InFlight = false
		if e.Fatal {
			s.State = StateError
			s.Err = e.Err
			return s
		}
		s.LastErr = e.Err
		return s

	case WentBack:
		if s.State != StateActive || s.InFlight || s.Current == 0 {
			return s
		}
		s.Current--
		s.ShowAnswer = false
		return s

	case Advanced:
		if s.State != StateActive || !s.Browsing() {
			return s
		}
		s.Current++
		s.ShowAnswer = false
		if s.Current == s.Frontier {
			s.CardStartTime = e.Now
		}
		return s
	}
	return s
}

func applyLoaded(s Session, e Loaded) Session {
	s.DeckName = e.Selection.Deck.Name
	s.Stats = e.Selection.Stats

	if len(e.Selection.Cards) == 0 {
		s.State = StateComplete
		s.NothingDue = true
		return s
	}

	s.Cards = make(map[string]due.CardInfo, len(e.Selection.Cards))
	s.Queue = make([]Task, len(e.Selection.Cards))
	for i, c := range e.Selection.Cards {
		s.Cards[c.ID] = c
		s.Queue[i] = Task{CardID: c.ID, QueuePos: i}
	}
	s.TotalCards = len(e.Selection.Cards)
	s.State = StateActive
	s.CardStartTime = e.Now
	return s
}

func applySubmit(s Session, e SubmitSucceeded) Session {
	s.InFlight = false
	s.LastErr = nil

	queue := make([]Task, len(s.Queue))
	copy(queue, s.Queue)
	queue[s.Current].Answered = true

	s.ReviewedCards++
	if e.Difficulty == scheduler.Good || e.Difficulty == scheduler.Easy {
		s.CorrectCards++
	}

	// "Again" means see this card once more before the session ends.
	if e.Difficulty == scheduler.Again {
		queue = append(queue, Task{
			CardID:   queue[s.Current].CardID,
			QueuePos: len(queue),
		})
	}
	s.Queue = queue

	// Refresh the cached card state so a requeued task shows the
	// updated scheduling fields.
	if c, ok := s.Cards[queue[s.Current].CardID]; ok {
		c.Interval = e.Result.Interval
		c.EaseFactor = e.Result.EaseFactor
		c.Repetitions = e.Result.Repetitions
		c.Version = e.NewVersion
		c.ReviewCount++
		c.IsNew = false
		cards := make(map[string]due.CardInfo, len(s.Cards))
		for k, v := range s.Cards {
			cards[k] = v
		}
		cards[c.ID] = c
		s.Cards = cards
	}

	s.Frontier++
	s.Current = s.Frontier
	s.ShowAnswer = false
	s.CardStartTime = e.Now

	if s.Frontier >= len(s.Queue) {
		s.State = StateComplete
	}
	return s
}
