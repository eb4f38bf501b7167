package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mnemo-cli/mnemo/internal/deck"
)

// NewCard is the caller-supplied content for a card being created.
// Scheduling state is initialized by the repository.
type NewCard struct {
	Front string
	Back  string
	Tags  []string
}

// CardRepo manages card rows.
type CardRepo interface {
	// Insert creates cards in the given deck. New cards start with an
	// interval of 1 minute, zero repetitions, the default ease factor,
	// and a next review date of now, so they surface immediately when
	// new cards are included.
	Insert(ctx context.Context, deckID string, cards []NewCard, now time.Time) ([]deck.Card, error)

	// Get returns a card, or deck.ErrCardNotFound.
	Get(ctx context.Context, id string) (*deck.Card, error)

	// ListByDeck returns all cards in a deck in creation order.
	ListByDeck(ctx context.Context, deckID string) ([]deck.Card, error)

	// Delete removes a card and its review records.
	Delete(ctx context.Context, id string) error
}

type cardRepo struct {
	db *sql.DB
}

const cardColumns = `id, deck_id, front, back, tags, interval, repetitions,
	ease_factor, next_review_date, last_reviewed, review_count, version,
	created_at, updated_at`

func (r *cardRepo) Insert(ctx context.Context, deckID string, cards []NewCard, now time.Time) ([]deck.Card, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin insert cards: %w", err)
	}
	defer tx.Rollback()

	// The deck must exist before cards can join it.
	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM decks WHERE id = ?`, deckID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check deck %s: %w", deckID, err)
	}
	if exists == 0 {
		return nil, deck.ErrDeckNotFound
	}

	created := make([]deck.Card, 0, len(cards))
	for _, nc := range cards {
		c := deck.Card{
			ID:             uuid.New().String(),
			DeckID:         deckID,
			Front:          nc.Front,
			Back:           nc.Back,
			Tags:           nc.Tags,
			Interval:       1,
			Repetitions:    0,
			EaseFactor:     deck.DefaultEaseFactor,
			NextReviewDate: now,
			ReviewCount:    0,
			Version:        1,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		tags, err := encodeTags(c.Tags)
		if err != nil {
			return nil, err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO cards (id, deck_id, front, back, tags, interval, repetitions,
				ease_factor, next_review_date, last_reviewed, review_count, version,
				created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, NULL, ?, ?, ?, ?)
		`, c.ID, c.DeckID, c.Front, c.Back, tags, c.Interval, c.Repetitions,
			c.EaseFactor, c.NextReviewDate, c.ReviewCount, c.Version,
			c.CreatedAt, c.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("insert card: %w", err)
		}
		created = append(created, c)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE decks SET updated_at = ? WHERE id = ?`, now, deckID); err != nil {
		return nil, fmt.Errorf("touch deck %s: %w", deckID, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit insert cards: %w", err)
	}
	return created, nil
}

func (r *cardRepo) Get(ctx context.Context, id string) (*deck.Card, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+cardColumns+` FROM cards WHERE id = ?`, id)
	c, err := scanCard(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, deck.ErrCardNotFound
		}
		return nil, fmt.Errorf("get card %s: %w", id, err)
	}
	return c, nil
}

func (r *cardRepo) ListByDeck(ctx context.Context, deckID string) ([]deck.Card, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+cardColumns+` FROM cards
		WHERE deck_id = ?
		ORDER BY created_at ASC, rowid ASC
	`, deckID)
	if err != nil {
		return nil, fmt.Errorf("list cards for deck %s: %w", deckID, err)
	}
	defer rows.Close()

	var cards []deck.Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("scan card row: %w", err)
		}
		cards = append(cards, *c)
	}
	return cards, rows.Err()
}

func (r *cardRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cards WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete card %s: %w", id, err)
	}
	return requireRow(res, deck.ErrCardNotFound)
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (*deck.Card, error) {
	var (
		c            deck.Card
		tags         string
		lastReviewed sql.NullTime
	)
	err := row.Scan(&c.ID, &c.DeckID, &c.Front, &c.Back, &tags, &c.Interval,
		&c.Repetitions, &c.EaseFactor, &c.NextReviewDate, &lastReviewed,
		&c.ReviewCount, &c.Version, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if lastReviewed.Valid {
		c.LastReviewed = lastReviewed.Time
	}
	if err := json.Unmarshal([]byte(tags), &c.Tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	return &c, nil
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("encode tags: %w", err)
	}
	return string(b), nil
}
