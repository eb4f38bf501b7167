package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mnemo-cli/mnemo/internal/deck"
)

// DeckRepo manages deck rows.
type DeckRepo interface {
	// Create stores a new deck and returns it.
	Create(ctx context.Context, name, description string, now time.Time) (*deck.Deck, error)

	// Get returns a deck with its card count, or deck.ErrDeckNotFound.
	Get(ctx context.Context, id string) (*deck.Deck, error)

	// List returns all decks with card counts, most recently updated first.
	List(ctx context.Context) ([]deck.Deck, error)

	// Rename updates a deck's name and description.
	Rename(ctx context.Context, id, name, description string, now time.Time) error

	// Delete removes a deck and, via cascade, its cards and reviews.
	Delete(ctx context.Context, id string) error

	// Touch bumps a deck's updated_at timestamp.
	Touch(ctx context.Context, id string, now time.Time) error
}

type deckRepo struct {
	db *sql.DB
}

func (r *deckRepo) Create(ctx context.Context, name, description string, now time.Time) (*deck.Deck, error) {
	d := &deck.Deck{
		ID:          uuid.New().String(),
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO decks (id, name, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, d.ID, d.Name, d.Description, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert deck: %w", err)
	}
	return d, nil
}

func (r *deckRepo) Get(ctx context.Context, id string) (*deck.Deck, error) {
	var d deck.Deck
	row := r.db.QueryRowContext(ctx, `
		SELECT d.id, d.name, d.description, d.created_at, d.updated_at,
		       (SELECT COUNT(*) FROM cards c WHERE c.deck_id = d.id)
		FROM decks d WHERE d.id = ?
	`, id)
	err := row.Scan(&d.ID, &d.Name, &d.Description, &d.CreatedAt, &d.UpdatedAt, &d.CardCount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, deck.ErrDeckNotFound
		}
		return nil, fmt.Errorf("get deck %s: %w", id, err)
	}
	return &d, nil
}

func (r *deckRepo) List(ctx context.Context) ([]deck.Deck, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT d.id, d.name, d.description, d.created_at, d.updated_at,
		       (SELECT COUNT(*) FROM cards c WHERE c.deck_id = d.id)
		FROM decks d
		ORDER BY d.updated_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list decks: %w", err)
	}
	defer rows.Close()

	var decks []deck.Deck
	for rows.Next() {
		var d deck.Deck
		if err := rows.Scan(&d.ID, &d.Name, &d.Description, &d.CreatedAt, &d.UpdatedAt, &d.CardCount); err != nil {
			return nil, fmt.Errorf("scan deck row: %w", err)
		}
		decks = append(decks, d)
	}
	return decks, rows.Err()
}

func (r *deckRepo) Rename(ctx context.Context, id, name, description string, now time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE decks SET name = ?, description = ?, updated_at = ? WHERE id = ?
	`, name, description, now, id)
	if err != nil {
		return fmt.Errorf("rename deck %s: %w", id, err)
	}
	return requireRow(res, deck.ErrDeckNotFound)
}

func (r *deckRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM decks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete deck %s: %w", id, err)
	}
	return requireRow(res, deck.ErrDeckNotFound)
}

func (r *deckRepo) Touch(ctx context.Context, id string, now time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE decks SET updated_at = ? WHERE id = ?`, now, id)
	if err != nil {
		return fmt.Errorf("touch deck %s: %w", id, err)
	}
	return nil
}

// requireRow converts a zero-rows-affected result into notFound.
func requireRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
