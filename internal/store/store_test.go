package store

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mnemo-cli/mnemo/internal/deck"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	s, err := Open("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestDeckCreateGetList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	d, err := s.Decks().Create(ctx, "Spanish", "vocab basics", now)
	if err != nil {
		t.Fatalf("create deck: %v", err)
	}
	if d.ID == "" {
		t.Fatal("expected generated deck ID")
	}

	got, err := s.Decks().Get(ctx, d.ID)
	if err != nil {
		t.Fatalf("get deck: %v", err)
	}
	if got.Name != "Spanish" || got.Description != "vocab basics" {
		t.Errorf("got %q/%q, want Spanish/vocab basics", got.Name, got.Description)
	}
	if got.CardCount != 0 {
		t.Errorf("new deck card count = %d, want 0", got.CardCount)
	}

	if _, err := s.Decks().Create(ctx, "French", "", now.Add(time.Minute)); err != nil {
		t.Fatalf("create second deck: %v", err)
	}
	decks, err := s.Decks().List(ctx)
	if err != nil {
		t.Fatalf("list decks: %v", err)
	}
	if len(decks) != 2 {
		t.Fatalf("len(decks) = %d, want 2", len(decks))
	}
	// Most recently updated first.
	if decks[0].Name != "French" {
		t.Errorf("decks[0] = %q, want French", decks[0].Name)
	}
}

func TestDeckNotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.Decks().Get(ctx, "missing"); !errors.Is(err, deck.ErrDeckNotFound) {
		t.Errorf("Get: err = %v, want ErrDeckNotFound", err)
	}
	if err := s.Decks().Delete(ctx, "missing"); !errors.Is(err, deck.ErrDeckNotFound) {
		t.Errorf("Delete: err = %v, want ErrDeckNotFound", err)
	}
	if err := s.Decks().Rename(ctx, "missing", "x", "", time.Now()); !errors.Is(err, deck.ErrDeckNotFound) {
		t.Errorf("Rename: err = %v, want ErrDeckNotFound", err)
	}
}

func TestCardInsertDefaults(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	d, err := s.Decks().Create(ctx, "Go", "", now)
	if err != nil {
		t.Fatalf("create deck: %v", err)
	}

	cards, err := s.Cards().Insert(ctx, d.ID, []NewCard{
		{Front: "goroutine", Back: "lightweight thread", Tags: []string{"concurrency"}},
		{Front: "channel", Back: "typed conduit"},
	}, now)
	if err != nil {
		t.Fatalf("insert cards: %v", err)
	}
	if len(cards) != 2 {
		t.Fatalf("len(cards) = %d, want 2", len(cards))
	}

	got, err := s.Cards().Get(ctx, cards[0].ID)
	if err != nil {
		t.Fatalf("get card: %v", err)
	}
	if got.Interval != 1 || got.Repetitions != 0 || got.EaseFactor != deck.DefaultEaseFactor {
		t.Errorf("scheduling defaults = %d/%d/%.2f, want 1/0/%.2f",
			got.Interval, got.Repetitions, got.EaseFactor, deck.DefaultEaseFactor)
	}
	if !got.IsNew() {
		t.Error("fresh card should be new")
	}
	if !got.IsDue(now) {
		t.Error("fresh card should be due immediately")
	}
	if !got.LastReviewed.IsZero() {
		t.Errorf("last reviewed = %v, want zero", got.LastReviewed)
	}
	if len(got.Tags) != 1 || got.Tags[0] != "concurrency" {
		t.Errorf("tags = %v, want [concurrency]", got.Tags)
	}

	// Card counts reflect the insert.
	dd, err := s.Decks().Get(ctx, d.ID)
	if err != nil {
		t.Fatalf("get deck: %v", err)
	}
	if dd.CardCount != 2 {
		t.Errorf("card count = %d, want 2", dd.CardCount)
	}
}

func TestCardInsertMissingDeck(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Cards().Insert(ctx, "missing", []NewCard{{Front: "a", Back: "b"}}, time.Now())
	if !errors.Is(err, deck.ErrDeckNotFound) {
		t.Errorf("err = %v, want ErrDeckNotFound", err)
	}
}

func TestCardListOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	d, _ := s.Decks().Create(ctx, "Order", "", now)
	if _, err := s.Cards().Insert(ctx, d.ID, []NewCard{{Front: "first", Back: "1"}}, now); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := s.Cards().Insert(ctx, d.ID, []NewCard{{Front: "second", Back: "2"}}, now.Add(time.Minute)); err != nil {
		t.Fatalf("insert: %v", err)
	}

	cards, err := s.Cards().ListByDeck(ctx, d.ID)
	if err != nil {
		t.Fatalf("list cards: %v", err)
	}
	if len(cards) != 2 || cards[0].Front != "first" || cards[1].Front != "second" {
		t.Errorf("unexpected order: %+v", cards)
	}
}

func TestDeckDeleteCascades(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	d, _ := s.Decks().Create(ctx, "Doomed", "", now)
	cards, err := s.Cards().Insert(ctx, d.ID, []NewCard{{Front: "a", Back: "b"}}, now)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	if err := s.Decks().Delete(ctx, d.ID); err != nil {
		t.Fatalf("delete deck: %v", err)
	}
	if _, err := s.Cards().Get(ctx, cards[0].ID); !errors.Is(err, deck.ErrCardNotFound) {
		t.Errorf("card after cascade: err = %v, want ErrCardNotFound", err)
	}
}

func TestRecordReview(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	d, _ := s.Decks().Create(ctx, "Reviews", "", now)
	cards, err := s.Cards().Insert(ctx, d.ID, []NewCard{{Front: "a", Back: "b"}}, now)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	c := cards[0]

	later := now.Add(5 * time.Minute)
	rec, err := s.Reviews().RecordReview(ctx, CardUpdate{
		CardID:         c.ID,
		Version:        c.Version,
		Interval:       10,
		Repetitions:    1,
		EaseFactor:     2.5,
		NextReviewDate: later.Add(10 * time.Minute),
	}, NewReview{
		Difficulty:     "good",
		ResponseTime:   4200,
		IntervalBefore: c.Interval,
		IntervalAfter:  10,
	}, later)
	if err != nil {
		t.Fatalf("record review: %v", err)
	}
	if rec.DeckID != d.ID || rec.Difficulty != "good" {
		t.Errorf("record = %+v", rec)
	}

	got, err := s.Cards().Get(ctx, c.ID)
	if err != nil {
		t.Fatalf("get card: %v", err)
	}
	if got.Interval != 10 || got.Repetitions != 1 {
		t.Errorf("card state = %d/%d, want 10/1", got.Interval, got.Repetitions)
	}
	if got.ReviewCount != 1 {
		t.Errorf("review count = %d, want 1", got.ReviewCount)
	}
	if got.Version != c.Version+1 {
		t.Errorf("version = %d, want %d", got.Version, c.Version+1)
	}
	if got.LastReviewed.IsZero() {
		t.Error("last reviewed should be set")
	}
	if got.IsNew() {
		t.Error("reviewed card should no longer be new")
	}

	latest, err := s.Reviews().LatestByCard(ctx, c.ID)
	if err != nil {
		t.Fatalf("latest by card: %v", err)
	}
	if latest == nil || latest.ID != rec.ID {
		t.Errorf("latest = %+v, want record %s", latest, rec.ID)
	}
}

func TestRecordReviewStaleVersion(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	d, _ := s.Decks().Create(ctx, "Stale", "", now)
	cards, err := s.Cards().Insert(ctx, d.ID, []NewCard{{Front: "a", Back: "b"}}, now)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	c := cards[0]

	upd := CardUpdate{
		CardID: c.ID, Version: c.Version,
		Interval: 3, Repetitions: 0, EaseFactor: 2.3,
		NextReviewDate: now.Add(3 * time.Minute),
	}
	rev := NewReview{Difficulty: "again", IntervalBefore: 1, IntervalAfter: 3}
	if _, err := s.Reviews().RecordReview(ctx, upd, rev, now); err != nil {
		t.Fatalf("first review: %v", err)
	}

	// Same version again: the first write bumped it, so this must lose.
	_, err = s.Reviews().RecordReview(ctx, upd, rev, now.Add(time.Second))
	if !errors.Is(err, ErrStaleCard) {
		t.Errorf("err = %v, want ErrStaleCard", err)
	}

	// The losing attempt must not leave a review record behind.
	counts, err := s.Reviews().CountByDeck(ctx, d.ID)
	if err != nil {
		t.Fatalf("count reviews: %v", err)
	}
	if counts["again"] != 1 {
		t.Errorf("again count = %d, want 1", counts["again"])
	}
}

func TestRecordReviewMissingCard(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Reviews().RecordReview(ctx, CardUpdate{CardID: "missing", Version: 1},
		NewReview{Difficulty: "good"}, time.Now())
	if !errors.Is(err, deck.ErrCardNotFound) {
		t.Errorf("err = %v, want ErrCardNotFound", err)
	}
}

func TestLatestByCardEmpty(t *testing.T) {
	s := newTestStore(t)

	rec, err := s.Reviews().LatestByCard(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("latest by card: %v", err)
	}
	if rec != nil {
		t.Errorf("rec = %+v, want nil", rec)
	}
}
