package due

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mnemo-cli/mnemo/internal/deck"
	"github.com/mnemo-cli/mnemo/internal/store"
)

type fixture struct {
	store *store.Store
	deck  *deck.Deck
	sel   *Selector
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s, err := store.Open("file:due_" + t.Name() + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	d, err := s.Decks().Create(context.Background(), "test deck", "", baseTime())
	if err != nil {
		t.Fatalf("create deck: %v", err)
	}
	return &fixture{store: s, deck: d, sel: NewSelector(s)}
}

func baseTime() time.Time {
	return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

// addCard inserts a card and forces its scheduling state, since Insert
// always creates immediately-due new cards.
func (f *fixture) addCard(t *testing.T, front string, nextReview time.Time, reviewCount int) deck.Card {
	t.Helper()
	ctx := context.Background()
	cards, err := f.store.Cards().Insert(ctx, f.deck.ID, []store.NewCard{{Front: front, Back: "back"}}, baseTime())
	if err != nil {
		t.Fatalf("insert card: %v", err)
	}
	c := cards[0]
	_, err = f.store.DB().ExecContext(ctx, `
		UPDATE cards SET next_review_date = ?, review_count = ? WHERE id = ?
	`, nextReview, reviewCount, c.ID)
	if err != nil {
		t.Fatalf("force scheduling state: %v", err)
	}
	c.NextReviewDate = nextReview
	c.ReviewCount = reviewCount
	return c
}

func TestSelectUnknownDeck(t *testing.T) {
	f := newFixture(t)

	_, err := f.sel.Select(context.Background(), "missing", baseTime(), false, 0)
	if !errors.Is(err, deck.ErrDeckNotFound) {
		t.Errorf("err = %v, want ErrDeckNotFound", err)
	}
}

func TestSelectPredicate(t *testing.T) {
	f := newFixture(t)
	now := baseTime()

	f.addCard(t, "overdue", now.Add(-30*time.Minute), 3)
	f.addCard(t, "due exactly", now, 1)
	f.addCard(t, "future", now.Add(2*time.Hour), 2)
	f.addCard(t, "new future", now.Add(time.Hour), 0)

	// Without new cards: only cards whose review date has arrived.
	sel, err := f.sel.Select(context.Background(), f.deck.ID, now, false, 0)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if got := fronts(sel.Cards); len(got) != 2 || got[0] != "overdue" || got[1] != "due exactly" {
		t.Errorf("cards = %v, want [overdue, due exactly]", got)
	}

	// includeNew pulls in never-reviewed cards regardless of date.
	sel, err = f.sel.Select(context.Background(), f.deck.ID, now, true, 0)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	got := fronts(sel.Cards)
	if len(got) != 3 || got[2] != "new future" {
		t.Errorf("cards = %v, want new future last", got)
	}
}

func TestSelectOrderAndLimit(t *testing.T) {
	f := newFixture(t)
	now := baseTime()

	// Same review date as "b": creation order breaks the tie.
	f.addCard(t, "a", now.Add(-10*time.Minute), 1)
	f.addCard(t, "b", now.Add(-10*time.Minute), 1)
	f.addCard(t, "c", now.Add(-60*time.Minute), 1)

	sel, err := f.sel.Select(context.Background(), f.deck.ID, now, false, 0)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if got := fronts(sel.Cards); got[0] != "c" || got[1] != "a" || got[2] != "b" {
		t.Errorf("order = %v, want [c a b]", got)
	}

	// Limit truncates after ordering.
	sel, err = f.sel.Select(context.Background(), f.deck.ID, now, false, 2)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if got := fronts(sel.Cards); len(got) != 2 || got[0] != "c" || got[1] != "a" {
		t.Errorf("limited = %v, want [c a]", got)
	}
	// The limit changes how many cards come back, never the stats.
	if sel.Stats.DueCards != 3 {
		t.Errorf("due cards = %d, want 3", sel.Stats.DueCards)
	}
}

func TestSelectAnnotations(t *testing.T) {
	f := newFixture(t)
	now := baseTime()

	f.addCard(t, "overdue", now.Add(-45*time.Minute), 2)
	f.addCard(t, "fresh", now.Add(30*time.Minute), 0)

	sel, err := f.sel.Select(context.Background(), f.deck.ID, now, true, 0)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(sel.Cards) != 2 {
		t.Fatalf("len(cards) = %d, want 2", len(sel.Cards))
	}

	over := sel.Cards[0]
	if over.IsNew || !over.IsOverdue {
		t.Errorf("overdue flags = new:%v overdue:%v", over.IsNew, over.IsOverdue)
	}
	if over.TimeDisplay != "Overdue by 45 minutes" {
		t.Errorf("display = %q", over.TimeDisplay)
	}

	fresh := sel.Cards[1]
	if !fresh.IsNew || fresh.IsOverdue {
		t.Errorf("fresh flags = new:%v overdue:%v", fresh.IsNew, fresh.IsOverdue)
	}
	if fresh.TimeDisplay != "Due in 30 minutes" {
		t.Errorf("display = %q", fresh.TimeDisplay)
	}
	if fresh.LastReview != nil {
		t.Error("new card should have no last review")
	}
}

func TestSelectStats(t *testing.T) {
	f := newFixture(t)
	now := baseTime()

	// Five cards: two due, one new (not yet due), two scheduled ahead.
	f.addCard(t, "due1", now.Add(-time.Minute), 4)
	f.addCard(t, "due2", now.Add(-2*time.Hour), 2)
	f.addCard(t, "new", now.Add(time.Hour), 0)
	f.addCard(t, "ahead1", now.Add(time.Hour), 1)
	f.addCard(t, "ahead2", now.Add(2*time.Hour), 3)

	sel, err := f.sel.Select(context.Background(), f.deck.ID, now, true, 0)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	want := Stats{TotalCards: 5, DueCards: 3, NewCards: 1, ReviewCards: 2}
	if sel.Stats != want {
		t.Errorf("stats = %+v, want %+v", sel.Stats, want)
	}

	// Without new cards only the two due ones are selected.
	sel, err = f.sel.Select(context.Background(), f.deck.ID, now, false, 0)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	want = Stats{TotalCards: 5, DueCards: 2, NewCards: 0, ReviewCards: 2}
	if sel.Stats != want {
		t.Errorf("stats = %+v, want %+v", sel.Stats, want)
	}
}

func TestSelectEmptyDeck(t *testing.T) {
	f := newFixture(t)

	sel, err := f.sel.Select(context.Background(), f.deck.ID, baseTime(), true, 0)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(sel.Cards) != 0 {
		t.Errorf("cards = %v, want empty", sel.Cards)
	}
	if sel.Stats.TotalCards != 0 {
		t.Errorf("total = %d, want 0", sel.Stats.TotalCards)
	}
}

func fronts(cards []CardInfo) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.Front
	}
	return out
}
