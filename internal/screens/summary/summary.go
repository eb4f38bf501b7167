// Package summary shows the end-of-session report.
package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/mnemo-cli/mnemo/internal/review"
	"github.com/mnemo-cli/mnemo/internal/router"
	"github.com/mnemo-cli/mnemo/internal/screen"
	"github.com/mnemo-cli/mnemo/internal/ui/components"
	"github.com/mnemo-cli/mnemo/internal/ui/layout"
	"github.com/mnemo-cli/mnemo/internal/ui/theme"
)

// SummaryScreen displays the session summary.
type SummaryScreen struct {
	summary review.Summary
	done    components.Button
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(summary review.Summary) *SummaryScreen {
	return &SummaryScreen{
		summary: summary,
		done: components.NewButton("Back to decks", true, func() tea.Cmd {
			return func() tea.Msg { return router.PopScreenMsg{} }
		}),
	}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Session Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Back to decks"},
		{Key: "Esc", Description: "Back to decks"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok && kmsg.String() == "esc" {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	var cmd tea.Cmd
	s.done, cmd = s.done.Update(msg)
	return s, cmd
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	var b strings.Builder

	center := func(style lipgloss.Style, text string) {
		b.WriteString(style.Width(width).Align(lipgloss.Center).Render(text))
		b.WriteString("\n")
	}

	// An empty session reads differently from a finished one.
	if sum.NothingDue {
		center(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true), "Nothing due right now")
		b.WriteString("\n")
		center(lipgloss.NewStyle().Foreground(theme.TextDim),
			fmt.Sprintf("All cards in %q are scheduled ahead. Come back later.", sum.DeckName))
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.done.View()))
		return b.String()
	}

	center(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true), "Session complete!")
	b.WriteString("\n")

	mins := int(sum.Duration.Minutes())
	secs := int(sum.Duration.Seconds()) % 60
	center(lipgloss.NewStyle().Foreground(theme.TextDim),
		fmt.Sprintf("Deck: %s    Duration: %d:%02d", sum.DeckName, mins, secs))
	b.WriteString("\n")

	statsLine := fmt.Sprintf("Cards: %d        Reviewed: %d        Correct: %d        Accuracy: %.0f%%",
		sum.TotalCards, sum.ReviewedCards, sum.CorrectCards, sum.Accuracy*100)
	center(lipgloss.NewStyle().Foreground(theme.Text), statsLine)
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.done.View()))

	return b.String()
}
