// Package decks is the deck list screen: pick a deck to review, or
// create a new one.
package decks

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/mnemo-cli/mnemo/internal/deck"
	"github.com/mnemo-cli/mnemo/internal/router"
	"github.com/mnemo-cli/mnemo/internal/screen"
	reviewscreen "github.com/mnemo-cli/mnemo/internal/screens/review"
	"github.com/mnemo-cli/mnemo/internal/store"
	"github.com/mnemo-cli/mnemo/internal/ui/components"
	"github.com/mnemo-cli/mnemo/internal/ui/layout"
	"github.com/mnemo-cli/mnemo/internal/ui/theme"
)

// decksLoadedMsg carries the deck list from the store.
type decksLoadedMsg struct {
	Decks []deck.Deck
	Err   error
}

// deckCreatedMsg is sent when a new deck has been stored.
type deckCreatedMsg struct {
	Err error
}

// DecksScreen lists decks and launches review sessions.
type DecksScreen struct {
	store  *store.Store
	decks  []deck.Deck
	menu   components.Menu
	loaded bool
	errMsg string

	creating bool
	input    components.TextInput
}

var _ screen.Screen = (*DecksScreen)(nil)
var _ screen.KeyHintProvider = (*DecksScreen)(nil)

// New creates the deck list screen.
func New(st *store.Store) *DecksScreen {
	return &DecksScreen{store: st}
}

func (s *DecksScreen) Init() tea.Cmd {
	return s.loadDecks()
}

func (s *DecksScreen) Title() string {
	return "Decks"
}

func (s *DecksScreen) KeyHints() []layout.KeyHint {
	if s.creating {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Create"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Review"},
		{Key: "N", Description: "New deck"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *DecksScreen) loadDecks() tea.Cmd {
	return func() tea.Msg {
		decks, err := s.store.Decks().List(context.Background())
		return decksLoadedMsg{Decks: decks, Err: err}
	}
}

func (s *DecksScreen) createDeck(name string) tea.Cmd {
	return func() tea.Msg {
		_, err := s.store.Decks().Create(context.Background(), name, "", time.Now())
		return deckCreatedMsg{Err: err}
	}
}

// buildMenu rebuilds the deck menu, keeping the previous selection
// when possible.
func (s *DecksScreen) buildMenu() {
	items := make([]components.MenuItem, len(s.decks))
	for i, d := range s.decks {
		d := d
		items[i] = components.MenuItem{
			Label: fmt.Sprintf("%s  (%d cards)", d.Name, d.CardCount),
			Action: func() tea.Cmd {
				next := reviewscreen.New(s.store, d.ID)
				return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
			},
		}
	}
	selected := s.menu.Selected
	s.menu = components.NewMenu(items)
	if selected < len(items) {
		s.menu.Selected = selected
	}
}

func (s *DecksScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case decksLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.loaded = true
		s.errMsg = ""
		s.decks = msg.Decks
		s.buildMenu()
		return s, nil

	case deckCreatedMsg:
		s.creating = false
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		return s, s.loadDecks()

	case tea.KeyMsg:
		if s.creating {
			return s.updateCreating(msg)
		}
		if msg.String() == "n" {
			s.creating = true
			s.errMsg = ""
			s.input = components.NewTextInput("Deck name...", false, 60)
			return s, s.input.Init()
		}
		var cmd tea.Cmd
		s.menu, cmd = s.menu.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *DecksScreen) updateCreating(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		s.creating = false
		return s, nil
	case "enter":
		name := strings.TrimSpace(s.input.Value())
		if name == "" {
			return s, nil
		}
		return s, s.createDeck(name)
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *DecksScreen) View(width, height int) string {
	var b strings.Builder

	if s.errMsg != "" {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render(s.errMsg))
		b.WriteString("\n\n")
	}

	if s.creating {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Text).
			Render("Name for the new deck:"))
		b.WriteString("\n\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.input.View()))
		return b.String()
	}

	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("Loading decks...")
	}

	if len(s.decks) == 0 {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("No decks yet. Press N to create one."))
		return b.String()
	}

	b.WriteString(s.menu.View())
	return b.String()
}
