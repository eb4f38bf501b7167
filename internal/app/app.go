// Package app hosts the root Bubble Tea model: a screen router inside
// a header/footer frame.
package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/mnemo-cli/mnemo/internal/router"
	"github.com/mnemo-cli/mnemo/internal/screen"
	"github.com/mnemo-cli/mnemo/internal/screens/decks"
	reviewscreen "github.com/mnemo-cli/mnemo/internal/screens/review"
	"github.com/mnemo-cli/mnemo/internal/store"
	"github.com/mnemo-cli/mnemo/internal/ui/layout"
)

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	width  int
	height int
}

func newAppModel(initial screen.Screen) AppModel {
	return AppModel{
		router: router.New(initial),
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case router.PopScreenMsg:
		// Popping the root screen ends the program. This is how a
		// session started directly with `mnemo review` exits from its
		// summary screen.
		if m.router.Depth() <= 1 {
			return m, tea.Quit
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			// Only pop above the root screen; the root screen may use
			// esc itself (cancelling the new-deck prompt).
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, "", m.width)

	footerHints := []layout.KeyHint{
		{Key: "Ctrl+C", Description: "Quit"},
	}
	if provider, ok := active.(screen.KeyHintProvider); ok {
		if hints := provider.KeyHints(); len(hints) > 0 {
			footerHints = hints
		}
	}
	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the TUI on the deck list.
func Run(st *store.Store) error {
	return runProgram(decks.New(st))
}

// RunReview starts the TUI directly in a review session for one deck.
func RunReview(st *store.Store, deckID string) error {
	return runProgram(reviewscreen.New(st, deckID))
}

func runProgram(initial screen.Screen) error {
	p := tea.NewProgram(newAppModel(initial))
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
