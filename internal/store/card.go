package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmlarson/deckard/internal/domain"
)

// CardStore defines the interface for card data persistence.
type CardStore interface {
	// CreateMultiple saves multiple cards to the store.
	// This method MUST be run within a transaction for atomicity; use
	// WithTx together with store.RunInTransaction. All cards must be
	// valid according to domain validation rules.
	CreateMultiple(ctx context.Context, cards []*domain.Card) error

	// GetByID retrieves a card by its unique ID.
	// Returns ErrCardNotFound if the card does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error)

	// GetByIDs retrieves the cards with the given IDs, in the order the
	// IDs are supplied. IDs with no matching card are skipped silently.
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Card, error)

	// UpdateContent replaces an existing card's front and back.
	// Returns ErrCardNotFound if the card does not exist.
	// Returns validation errors if the new content is invalid.
	UpdateContent(ctx context.Context, id uuid.UUID, front, back string) error

	// Delete removes a card from the store by its ID.
	// Returns ErrCardNotFound if the card does not exist.
	// Associated scheduling state and review history rows are removed by
	// ON DELETE CASCADE constraints in the schema.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListByUser retrieves all cards owned by the given user, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Card, error)

	// ListUnscheduled retrieves cards owned by the user that have no
	// scheduling state yet, oldest first, up to limit.
	ListUnscheduled(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Card, error)

	// ListRecent retrieves the user's most recently created cards,
	// newest first, up to limit. Used by the practice-ahead path, which
	// ignores due timestamps entirely.
	ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Card, error)

	// WithTx returns a new CardStore instance that uses the provided transaction.
	// The transaction should be created and managed by the caller (typically a service).
	WithTx(tx *sql.Tx) CardStore
}
