package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmlarson/deckard/internal/domain"
)

// DueCard pairs a card with its scheduling state for due-queue queries.
type DueCard struct {
	Card       *domain.Card
	Scheduling *domain.Scheduling
}

// SchedulingStore defines the interface for per-user, per-card
// scheduling state persistence. State rows are keyed by the
// (user_id, card_id) pair and created implicitly on first grading.
type SchedulingStore interface {
	// Get retrieves the scheduling state for the given user and card.
	// Returns ErrSchedulingNotFound if no state exists for the pair.
	Get(ctx context.Context, userID, cardID uuid.UUID) (*domain.Scheduling, error)

	// Upsert inserts the scheduling state, or replaces the existing row
	// for the same (user_id, card_id) pair. Returns validation errors
	// from the domain Scheduling if data is invalid.
	Upsert(ctx context.Context, scheduling *domain.Scheduling) error

	// ListDue retrieves cards owned by the user whose scheduling state
	// is due at or before the given time, ordered by due timestamp
	// ascending with update timestamp ascending as the tiebreaker, up
	// to limit rows.
	ListDue(ctx context.Context, userID uuid.UUID, dueBefore time.Time, limit int) ([]*DueCard, error)

	// CountDue returns how many of the user's cards are due at or
	// before the given time.
	CountDue(ctx context.Context, userID uuid.UUID, dueBefore time.Time) (int, error)

	// WithTx returns a new SchedulingStore instance that uses the provided
	// transaction. The transaction should be created and managed by the
	// caller (typically a service).
	WithTx(tx *sql.Tx) SchedulingStore
}
