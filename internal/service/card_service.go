package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jmlarson/deckard/internal/domain"
	"github.com/jmlarson/deckard/internal/store"
)

// CardService provides card management operations: manual authoring,
// editing, deletion, and listing. Review-loop operations live in the
// review package.
type CardService interface {
	// CreateCard creates a single manually-authored card for the user.
	CreateCard(ctx context.Context, userID uuid.UUID, front, back string) (*domain.Card, error)

	// CreateCards saves a batch of cards atomically. All cards must
	// belong to the same user and pass domain validation.
	CreateCards(ctx context.Context, cards []*domain.Card) error

	// GetCard retrieves a card, enforcing ownership.
	// Returns ErrCardNotFound if the card does not exist.
	// Returns ErrNotOwned if the card belongs to another user.
	GetCard(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error)

	// UpdateCard replaces a card's front and back, enforcing ownership.
	UpdateCard(ctx context.Context, userID, cardID uuid.UUID, front, back string) (*domain.Card, error)

	// DeleteCard removes a card and, through cascading deletes, its
	// scheduling state and review history. Enforces ownership.
	DeleteCard(ctx context.Context, userID, cardID uuid.UUID) error

	// ListCards retrieves all of the user's cards, newest first.
	ListCards(ctx context.Context, userID uuid.UUID) ([]*domain.Card, error)
}

// CardServiceError wraps errors from the card service with context.
type CardServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for CardServiceError.
func (e *CardServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("card service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("card service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *CardServiceError) Unwrap() error {
	return e.Err
}

// NewCardServiceError creates a new CardServiceError.
// Known sentinel errors pass through unwrapped so callers can match them.
func NewCardServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrCardNotFound) || errors.Is(err, ErrNotOwned) {
		return err
	}
	if errors.Is(err, store.ErrCardNotFound) {
		return ErrCardNotFound
	}

	return &CardServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// cardServiceImpl implements the CardService interface
type cardServiceImpl struct {
	db        *sql.DB
	cardStore store.CardStore
	logger    *slog.Logger
}

// NewCardService creates a new CardService.
func NewCardService(db *sql.DB, cardStore store.CardStore, logger *slog.Logger) CardService {
	if db == nil {
		panic("db cannot be nil")
	}
	if cardStore == nil {
		panic("cardStore cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &cardServiceImpl{
		db:        db,
		cardStore: cardStore,
		logger:    logger.With("component", "card_service"),
	}
}

// CreateCard creates a single manually-authored card.
func (s *cardServiceImpl) CreateCard(
	ctx context.Context,
	userID uuid.UUID,
	front, back string,
) (*domain.Card, error) {
	card, err := domain.NewCard(userID, front, back)
	if err != nil {
		s.logger.Warn("invalid card content",
			"error", err,
			"user_id", userID)
		return nil, err
	}

	if err := s.CreateCards(ctx, []*domain.Card{card}); err != nil {
		return nil, err
	}
	return card, nil
}

// CreateCards saves a batch of cards atomically.
func (s *cardServiceImpl) CreateCards(ctx context.Context, cards []*domain.Card) error {
	if len(cards) == 0 {
		return nil
	}

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.cardStore.WithTx(tx).CreateMultiple(ctx, cards)
	})
	if err != nil {
		s.logger.Error("failed to create cards",
			"error", err,
			"count", len(cards))
		return NewCardServiceError("create_cards", "failed to save cards", err)
	}

	s.logger.Info("cards created",
		"count", len(cards),
		"user_id", cards[0].UserID)
	return nil
}

// GetCard retrieves a card, enforcing ownership.
func (s *cardServiceImpl) GetCard(
	ctx context.Context,
	userID, cardID uuid.UUID,
) (*domain.Card, error) {
	card, err := s.cardStore.GetByID(ctx, cardID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrCardNotFound
		}
		s.logger.Error("failed to retrieve card",
			"error", err,
			"card_id", cardID)
		return nil, NewCardServiceError("get_card", "failed to retrieve card", err)
	}

	if card.UserID != userID {
		s.logger.Warn("card access denied",
			"card_id", cardID,
			"user_id", userID,
			"owner_id", card.UserID)
		return nil, ErrNotOwned
	}

	return card, nil
}

// UpdateCard replaces a card's content, enforcing ownership.
func (s *cardServiceImpl) UpdateCard(
	ctx context.Context,
	userID, cardID uuid.UUID,
	front, back string,
) (*domain.Card, error) {
	card, err := s.GetCard(ctx, userID, cardID)
	if err != nil {
		return nil, err
	}

	if err := card.UpdateContent(front, back); err != nil {
		return nil, err
	}

	if err := s.cardStore.UpdateContent(ctx, cardID, front, back); err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrCardNotFound
		}
		s.logger.Error("failed to update card",
			"error", err,
			"card_id", cardID)
		return nil, NewCardServiceError("update_card", "failed to update card", err)
	}

	s.logger.Info("card updated", "card_id", cardID)
	return card, nil
}

// DeleteCard removes a card, enforcing ownership.
func (s *cardServiceImpl) DeleteCard(ctx context.Context, userID, cardID uuid.UUID) error {
	if _, err := s.GetCard(ctx, userID, cardID); err != nil {
		return err
	}

	if err := s.cardStore.Delete(ctx, cardID); err != nil {
		if store.IsNotFoundError(err) {
			return ErrCardNotFound
		}
		s.logger.Error("failed to delete card",
			"error", err,
			"card_id", cardID)
		return NewCardServiceError("delete_card", "failed to delete card", err)
	}

	s.logger.Info("card deleted", "card_id", cardID)
	return nil
}

// ListCards retrieves all of the user's cards.
func (s *cardServiceImpl) ListCards(ctx context.Context, userID uuid.UUID) ([]*domain.Card, error) {
	cards, err := s.cardStore.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list cards",
			"error", err,
			"user_id", userID)
		return nil, NewCardServiceError("list_cards", "failed to list cards", err)
	}
	return cards, nil
}
