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

// CardUpdate is the recomputed scheduling state applied to a card when
// a review is recorded.
type CardUpdate struct {
	CardID         string
	Version        int64 // version read before scheduling; stale writes are rejected
	Interval       int
	Repetitions    int
	EaseFactor     float64
	NextReviewDate time.Time
}

// NewReview is the review-record half of a submission.
type NewReview struct {
	Difficulty     string
	ResponseTime   int
	IntervalBefore int
	IntervalAfter  int
}

// ReviewRepo manages the append-only review log and the transactional
// card-state update that accompanies each entry.
type ReviewRepo interface {
	// RecordReview applies the card update and appends the review record
	// in one transaction. Either both land or neither does. Returns
	// ErrStaleCard when the card's version no longer matches, and
	// deck.ErrCardNotFound when the card is gone.
	RecordReview(ctx context.Context, upd CardUpdate, rev NewReview, now time.Time) (*deck.ReviewRecord, error)

	// LatestByCard returns the most recent review record for a card,
	// or nil when the card has never been reviewed.
	LatestByCard(ctx context.Context, cardID string) (*deck.ReviewRecord, error)

	// CountByDeck returns per-difficulty review counts for a deck.
	CountByDeck(ctx context.Context, deckID string) (map[string]int, error)
}

type reviewRepo struct {
	db *sql.DB
}

func (r *reviewRepo) RecordReview(ctx context.Context, upd CardUpdate, rev NewReview, now time.Time) (*deck.ReviewRecord, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin record review: %w", err)
	}
	defer tx.Rollback()

	var deckID string
	err = tx.QueryRowContext(ctx, `SELECT deck_id FROM cards WHERE id = ?`, upd.CardID).Scan(&deckID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, deck.ErrCardNotFound
		}
		return nil, fmt.Errorf("lookup card %s: %w", upd.CardID, err)
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE cards
		SET interval = ?, repetitions = ?, ease_factor = ?,
		    next_review_date = ?, last_reviewed = ?,
		    review_count = review_count + 1,
		    version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?
	`, upd.Interval, upd.Repetitions, upd.EaseFactor,
		upd.NextReviewDate, now, now, upd.CardID, upd.Version)
	if err != nil {
		return nil, fmt.Errorf("update card %s: %w", upd.CardID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		// The card exists but its version moved: another session got
		// there first.
		return nil, ErrStaleCard
	}

	rec := &deck.ReviewRecord{
		ID:             uuid.New().String(),
		CardID:         upd.CardID,
		DeckID:         deckID,
		Difficulty:     rev.Difficulty,
		ResponseTime:   rev.ResponseTime,
		IntervalBefore: rev.IntervalBefore,
		IntervalAfter:  rev.IntervalAfter,
		ReviewedAt:     now,
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO reviews (id, card_id, deck_id, difficulty, response_time,
			interval_before, interval_after, reviewed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.CardID, rec.DeckID, rec.Difficulty, rec.ResponseTime,
		rec.IntervalBefore, rec.IntervalAfter, rec.ReviewedAt)
	if err != nil {
		return nil, fmt.Errorf("insert review record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit record review: %w", err)
	}
	return rec, nil
}

func (r *reviewRepo) LatestByCard(ctx context.Context, cardID string) (*deck.ReviewRecord, error) {
	var rec deck.ReviewRecord
	row := r.db.QueryRowContext(ctx, `
		SELECT id, card_id, deck_id, difficulty, response_time,
		       interval_before, interval_after, reviewed_at
		FROM reviews
		WHERE card_id = ?
		ORDER BY reviewed_at DESC, rowid DESC
		LIMIT 1
	`, cardID)
	err := row.Scan(&rec.ID, &rec.CardID, &rec.DeckID, &rec.Difficulty,
		&rec.ResponseTime, &rec.IntervalBefore, &rec.IntervalAfter, &rec.ReviewedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("latest review for card %s: %w", cardID, err)
	}
	return &rec, nil
}

func (r *reviewRepo) CountByDeck(ctx context.Context, deckID string) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT difficulty, COUNT(*)
		FROM reviews
		WHERE deck_id = ?
		GROUP BY difficulty
	`, deckID)
	if err != nil {
		return nil, fmt.Errorf("count reviews for deck %s: %w", deckID, err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var difficulty string
		var n int
		if err := rows.Scan(&difficulty, &n); err != nil {
			return nil, fmt.Errorf("scan review count: %w", err)
		}
		counts[difficulty] = n
	}
	return counts, rows.Err()
}
