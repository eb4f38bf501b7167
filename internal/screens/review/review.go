// Package review is the session screen: it drives a review controller
// through reveal, difficulty submission, and navigation.
package review

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/mnemo-cli/mnemo/internal/due"
	"github.com/mnemo-cli/mnemo/internal/review"
	"github.com/mnemo-cli/mnemo/internal/router"
	"github.com/mnemo-cli/mnemo/internal/scheduler"
	"github.com/mnemo-cli/mnemo/internal/screen"
	"github.com/mnemo-cli/mnemo/internal/screens/summary"
	"github.com/mnemo-cli/mnemo/internal/store"
	"github.com/mnemo-cli/mnemo/internal/ui/components"
	"github.com/mnemo-cli/mnemo/internal/ui/layout"
	"github.com/mnemo-cli/mnemo/internal/ui/theme"
)

// sessionStartedMsg is sent when the due cards have been loaded.
type sessionStartedMsg struct {
	Err error
}

// submitDoneMsg is sent when an answer write has finished.
type submitDoneMsg struct {
	Err error
}

// ReviewScreen runs one deck's review session.
type ReviewScreen struct {
	ctrl   *review.Controller
	deckID string

	// submitting blocks further difficulty keys until the outstanding
	// write reports back.
	submitting bool
}

var _ screen.Screen = (*ReviewScreen)(nil)
var _ screen.KeyHintProvider = (*ReviewScreen)(nil)

// New creates a review screen for the given deck. New cards are
// included; the session has no card limit.
func New(st *store.Store, deckID string) *ReviewScreen {
	return &ReviewScreen{
		ctrl:   review.NewController(due.NewSelector(st), st.Reviews(), true, 0),
		deckID: deckID,
	}
}

func (s *ReviewScreen) Init() tea.Cmd {
	return func() tea.Msg {
		err := s.ctrl.Start(context.Background(), s.deckID, time.Now())
		return sessionStartedMsg{Err: err}
	}
}

func (s *ReviewScreen) Title() string {
	return "Review"
}

func (s *ReviewScreen) KeyHints() []layout.KeyHint {
	sess := s.ctrl.Session()
	switch {
	case sess.Browsing():
		return []layout.KeyHint{
			{Key: "←→", Description: "Browse"},
			{Key: "Space", Description: "Show answer"},
			{Key: "Esc", Description: "End session"},
		}
	case sess.ShowAnswer:
		return []layout.KeyHint{
			{Key: "1", Description: "Again"},
			{Key: "2", Description: "Hard"},
			{Key: "3", Description: "Good"},
			{Key: "4", Description: "Easy"},
			{Key: "Esc", Description: "End session"},
		}
	default:
		return []layout.KeyHint{
			{Key: "Space", Description: "Show answer"},
			{Key: "←", Description: "Previous card"},
			{Key: "Esc", Description: "End session"},
		}
	}
}

func (s *ReviewScreen) submit(d scheduler.Difficulty) tea.Cmd {
	return func() tea.Msg {
		err := s.ctrl.Submit(context.Background(), d, time.Now())
		return submitDoneMsg{Err: err}
	}
}

// finish swaps this screen for the summary, keeping the stack depth so
// Esc still returns to the deck list.
func (s *ReviewScreen) finish() tea.Cmd {
	sum := s.ctrl.Summary(time.Now())
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: summary.New(sum)}
	}
}

func (s *ReviewScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionStartedMsg:
		if s.ctrl.Session().State == review.StateComplete {
			// Nothing due: straight to the summary.
			return s, s.finish()
		}
		return s, nil

	case submitDoneMsg:
		s.submitting = false
		if s.ctrl.Session().State == review.StateComplete {
			return s, s.finish()
		}
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *ReviewScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	sess := s.ctrl.Session()
	if sess.State != review.StateActive || s.submitting {
		return s, nil
	}

	switch msg.String() {
	case " ", "space", "enter":
		if !sess.ShowAnswer {
			s.ctrl.Reveal()
		}
		return s, nil

	case "left", "h":
		s.ctrl.Back()
		return s, nil

	case "right", "l":
		s.ctrl.Advance(time.Now())
		return s, nil

	case "1", "a":
		return s.trySubmit(scheduler.Again)
	case "2":
		return s.trySubmit(scheduler.Hard)
	case "3", "g":
		return s.trySubmit(scheduler.Good)
	case "4", "e":
		return s.trySubmit(scheduler.Easy)
	}
	return s, nil
}

func (s *ReviewScreen) trySubmit(d scheduler.Difficulty) (screen.Screen, tea.Cmd) {
	if !s.ctrl.Session().CanSubmit() {
		return s, nil
	}
	s.submitting = true
	return s, s.submit(d)
}

func (s *ReviewScreen) View(width, height int) string {
	sess := s.ctrl.Session()

	switch sess.State {
	case review.StateLoading:
		return centered(width, theme.Hint.Render("Loading due cards..."))
	case review.StateError:
		return centered(width,
			lipgloss.NewStyle().Foreground(theme.Error).Render("Session failed: "+sess.Err.Error()))
	case review.StateComplete:
		return ""
	}

	card, ok := sess.CurrentCard()
	if !ok {
		return ""
	}

	var b strings.Builder

	// Progress across the queue, which grows when cards come back.
	answered := sess.Frontier
	bar := components.NewProgressBar(
		fmt.Sprintf("Card %d of %d", sess.Current+1, len(sess.Queue)),
		float64(answered)/float64(len(sess.Queue)),
		false, min(width-8, 60))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
	b.WriteString("\n\n")

	// Card status line.
	status := card.TimeDisplay
	if card.IsNew {
		status = "New card"
	}
	if sess.Browsing() {
		status = "Browsing an answered card"
	}
	b.WriteString(centered(width, theme.Hint.Render(status)))
	b.WriteString("\n\n")

	front := theme.Card.Width(min(width-8, 70)).Render(card.Front)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, front))
	b.WriteString("\n\n")

	if sess.ShowAnswer {
		back := theme.Card.Width(min(width-8, 70)).
			BorderForeground(theme.Secondary).
			Render(card.Back)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, back))
		b.WriteString("\n\n")
		if !sess.Browsing() {
			b.WriteString(centered(width, theme.Hint.Render("How well did you remember?")))
			b.WriteString("\n")
		}
	} else {
		b.WriteString(centered(width, theme.Hint.Render("Press Space to reveal the answer")))
		b.WriteString("\n")
	}

	if sess.LastErr != nil {
		b.WriteString("\n")
		b.WriteString(centered(width, lipgloss.NewStyle().
			Foreground(theme.Error).
			Render("Could not save the answer — press a difficulty key to retry")))
	}

	return b.String()
}

func centered(width int, s string) string {
	return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(s)
}
