package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmlarson/deckard/internal/domain"
)

// ReviewLogStore defines the interface for the append-only review history.
type ReviewLogStore interface {
	// Append saves a new review log entry. Entries are never updated or
	// deleted through this interface.
	Append(ctx context.Context, log *domain.ReviewLog) error

	// ListByCard retrieves the review history for the given user and
	// card, newest first, up to limit entries.
	ListByCard(ctx context.Context, userID, cardID uuid.UUID, limit int) ([]*domain.ReviewLog, error)

	// WithTx returns a new ReviewLogStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) ReviewLogStore
}

// SessionStore defines the interface for review session summaries.
type SessionStore interface {
	// Create saves a new session summary.
	// Returns validation errors from the domain ReviewSession if data is invalid.
	Create(ctx context.Context, session *domain.ReviewSession) error

	// ListByUser retrieves a user's session summaries, newest first, up
	// to limit entries.
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.ReviewSession, error)

	// WithTx returns a new SessionStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) SessionStore
}
