package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jmlarson/deckard/internal/domain"
	"github.com/jmlarson/deckard/internal/platform/logger"
	"github.com/jmlarson/deckard/internal/store"
)

// PostgresCardStore implements the store.CardStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCardStore creates a new PostgreSQL implementation of the CardStore
// interface. It accepts a database connection or transaction managed by the
// caller. If logger is nil, the default logger is used.
func NewPostgresCardStore(db store.DBTX, logger *slog.Logger) *PostgresCardStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store")),
	}
}

// Ensure PostgresCardStore implements store.CardStore interface
var _ store.CardStore = (*PostgresCardStore)(nil)

// WithTx implements store.CardStore.WithTx
func (s *PostgresCardStore) WithTx(tx *sql.Tx) store.CardStore {
	return &PostgresCardStore{
		db:     tx,
		logger: s.logger,
	}
}

// CreateMultiple implements store.CardStore.CreateMultiple
// It saves all cards or none; run it within a transaction via WithTx.
// Returns store.ErrInvalidEntity if a card references a missing user or note.
func (s *PostgresCardStore) CreateMultiple(ctx context.Context, cards []*domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(cards) == 0 {
		return nil
	}

	for _, card := range cards {
		if err := card.Validate(); err != nil {
			log.Warn("card validation failed during create",
				slog.String("error", err.Error()),
				slog.String("card_id", card.ID.String()))
			return err
		}
	}

	query := `
		INSERT INTO cards (id, user_id, note_id, front, back, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	for _, card := range cards {
		_, err := s.db.ExecContext(
			ctx,
			query,
			card.ID,
			card.UserID,
			card.NoteID,
			card.Front,
			card.Back,
			card.CreatedAt,
			card.UpdatedAt,
		)
		if err != nil {
			if IsForeignKeyViolation(err) {
				log.Warn("foreign key violation during card creation",
					slog.String("error", err.Error()),
					slog.String("card_id", card.ID.String()),
					slog.String("user_id", card.UserID.String()))
				return fmt.Errorf("%w: referenced user or note not found",
					store.ErrInvalidEntity)
			}
			log.Error("failed to create card",
				slog.String("error", err.Error()),
				slog.String("card_id", card.ID.String()))
			return MapError(err)
		}
	}

	log.Info("cards created successfully",
		slog.Int("count", len(cards)))
	return nil
}

// GetByID implements store.CardStore.GetByID
// Returns store.ErrCardNotFound if the card does not exist.
func (s *PostgresCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, note_id, front, back, created_at, updated_at
		FROM cards
		WHERE id = $1
	`

	var card domain.Card
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&card.ID,
		&card.UserID,
		&card.NoteID,
		&card.Front,
		&card.Back,
		&card.CreatedAt,
		&card.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("card not found", slog.String("card_id", id.String()))
			return nil, store.ErrCardNotFound
		}
		log.Error("failed to get card by ID",
			slog.String("error", err.Error()),
			slog.String("card_id", id.String()))
		return nil, MapError(err)
	}

	return &card, nil
}

// GetByIDs implements store.CardStore.GetByIDs
// Cards are returned in the order the IDs are supplied; missing IDs are skipped.
func (s *PostgresCardStore) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(ids) == 0 {
		return []*domain.Card{}, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	query := fmt.Sprintf(`
		SELECT id, user_id, note_id, front, back, created_at, updated_at
		FROM cards
		WHERE id IN (%s)
	`, strings.Join(placeholders, ", "))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query cards by IDs",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer closeRows(rows, log)

	byID := make(map[uuid.UUID]*domain.Card, len(ids))
	for rows.Next() {
		var card domain.Card
		err := rows.Scan(
			&card.ID,
			&card.UserID,
			&card.NoteID,
			&card.Front,
			&card.Back,
			&card.CreatedAt,
			&card.UpdatedAt,
		)
		if err != nil {
			log.Error("failed to scan card row",
				slog.String("error", err.Error()))
			return nil, err
		}
		byID[card.ID] = &card
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	cards := make([]*domain.Card, 0, len(byID))
	for _, id := range ids {
		if card, ok := byID[id]; ok {
			cards = append(cards, card)
		}
	}
	return cards, nil
}

// UpdateContent implements store.CardStore.UpdateContent
// Returns store.ErrCardNotFound if the card does not exist.
func (s *PostgresCardStore) UpdateContent(ctx context.Context, id uuid.UUID, front, back string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if front == "" {
		return domain.ErrCardFrontEmpty
	}
	if back == "" {
		return domain.ErrCardBackEmpty
	}

	query := `
		UPDATE cards
		SET front = $1, back = $2, updated_at = $3
		WHERE id = $4
	`

	result, err := s.db.ExecContext(ctx, query, front, back, time.Now().UTC(), id)
	if err != nil {
		log.Error("failed to update card content",
			slog.String("error", err.Error()),
			slog.String("card_id", id.String()))
		return MapError(err)
	}

	if rowsErr := CheckRowsAffected(result, "card"); rowsErr != nil {
		log.Debug("card not found for content update",
			slog.String("card_id", id.String()))
		return store.ErrCardNotFound
	}

	log.Info("card content updated successfully",
		slog.String("card_id", id.String()))
	return nil
}

// Delete implements store.CardStore.Delete
// Returns store.ErrCardNotFound if the card does not exist.
// Scheduling state and review history rows are removed by ON DELETE CASCADE.
func (s *PostgresCardStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM cards WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		log.Error("failed to delete card",
			slog.String("error", err.Error()),
			slog.String("card_id", id.String()))
		return MapError(err)
	}

	if rowsErr := CheckRowsAffected(result, "card"); rowsErr != nil {
		log.Debug("card not found for delete",
			slog.String("card_id", id.String()))
		return store.ErrCardNotFound
	}

	log.Info("card deleted successfully",
		slog.String("card_id", id.String()))
	return nil
}

// ListByUser implements store.CardStore.ListByUser
func (s *PostgresCardStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Card, error) {
	query := `
		SELECT id, user_id, note_id, front, back, created_at, updated_at
		FROM cards
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	return s.queryCards(ctx, query, userID)
}

// ListUnscheduled implements store.CardStore.ListUnscheduled
// It returns the user's cards with no scheduling row yet, oldest first.
func (s *PostgresCardStore) ListUnscheduled(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]*domain.Card, error) {
	query := `
		SELECT c.id, c.user_id, c.note_id, c.front, c.back, c.created_at, c.updated_at
		FROM cards c
		LEFT JOIN scheduling s ON s.card_id = c.id AND s.user_id = c.user_id
		WHERE c.user_id = $1 AND s.card_id IS NULL
		ORDER BY c.created_at ASC
		LIMIT $2
	`
	return s.queryCards(ctx, query, userID, limit)
}

// ListRecent implements store.CardStore.ListRecent
func (s *PostgresCardStore) ListRecent(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]*domain.Card, error) {
	query := `
		SELECT id, user_id, note_id, front, back, created_at, updated_at
		FROM cards
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	return s.queryCards(ctx, query, userID, limit)
}

// queryCards runs a card SELECT and scans the results.
func (s *PostgresCardStore) queryCards(
	ctx context.Context,
	query string,
	args ...any,
) ([]*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query cards",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer closeRows(rows, log)

	var cards []*domain.Card
	for rows.Next() {
		var card domain.Card
		err := rows.Scan(
			&card.ID,
			&card.UserID,
			&card.NoteID,
			&card.Front,
			&card.Back,
			&card.CreatedAt,
			&card.UpdatedAt,
		)
		if err != nil {
			log.Error("failed to scan card row",
				slog.String("error", err.Error()))
			return nil, err
		}
		cards = append(cards, &card)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	if cards == nil {
		cards = []*domain.Card{}
	}
	return cards, nil
}

// closeRows closes rows and logs close failures.
func closeRows(rows *sql.Rows, log *slog.Logger) {
	if err := rows.Close(); err != nil {
		log.Error("failed to close rows", slog.String("error", err.Error()))
	}
}
