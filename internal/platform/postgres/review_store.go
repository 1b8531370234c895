package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jmlarson/deckard/internal/domain"
	"github.com/jmlarson/deckard/internal/platform/logger"
	"github.com/jmlarson/deckard/internal/store"
)

// PostgresReviewLogStore implements the store.ReviewLogStore interface
// using a PostgreSQL database as the storage backend. The backing table
// is append-only.
type PostgresReviewLogStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresReviewLogStore creates a new PostgreSQL implementation of the
// ReviewLogStore interface. If logger is nil, the default logger is used.
func NewPostgresReviewLogStore(db store.DBTX, logger *slog.Logger) *PostgresReviewLogStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresReviewLogStore{
		db:     db,
		logger: logger.With(slog.String("component", "review_log_store")),
	}
}

// Ensure PostgresReviewLogStore implements store.ReviewLogStore interface
var _ store.ReviewLogStore = (*PostgresReviewLogStore)(nil)

// WithTx implements store.ReviewLogStore.WithTx
func (s *PostgresReviewLogStore) WithTx(tx *sql.Tx) store.ReviewLogStore {
	return &PostgresReviewLogStore{
		db:     tx,
		logger: s.logger,
	}
}

// Append implements store.ReviewLogStore.Append
func (s *PostgresReviewLogStore) Append(ctx context.Context, entry *domain.ReviewLog) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := entry.Validate(); err != nil {
		log.Warn("review log validation failed during append",
			slog.String("error", err.Error()),
			slog.String("card_id", entry.CardID.String()))
		return err
	}

	query := `
		INSERT INTO review_log (id, user_id, card_id, grade,
		                        prev_ease, prev_interval_days, prev_repetitions,
		                        new_ease, new_interval_days, new_repetitions,
		                        due_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := s.db.ExecContext(
		ctx,
		query,
		entry.ID,
		entry.UserID,
		entry.CardID,
		int(entry.Grade),
		entry.PrevEase,
		entry.PrevIntervalDays,
		entry.PrevRepetitions,
		entry.NewEase,
		entry.NewIntervalDays,
		entry.NewRepetitions,
		entry.DueAt,
		entry.CreatedAt,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during review log append",
				slog.String("error", err.Error()),
				slog.String("card_id", entry.CardID.String()))
			return fmt.Errorf("%w: referenced user or card not found",
				store.ErrInvalidEntity)
		}
		log.Error("failed to append review log",
			slog.String("error", err.Error()),
			slog.String("card_id", entry.CardID.String()))
		return MapError(err)
	}

	log.Debug("review log appended",
		slog.String("card_id", entry.CardID.String()),
		slog.String("grade", entry.Grade.String()))
	return nil
}

// ListByCard implements store.ReviewLogStore.ListByCard
func (s *PostgresReviewLogStore) ListByCard(
	ctx context.Context,
	userID, cardID uuid.UUID,
	limit int,
) ([]*domain.ReviewLog, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, card_id, grade,
		       prev_ease, prev_interval_days, prev_repetitions,
		       new_ease, new_interval_days, new_repetitions,
		       due_at, created_at
		FROM review_log
		WHERE user_id = $1 AND card_id = $2
		ORDER BY created_at DESC
		LIMIT $3
	`

	rows, err := s.db.QueryContext(ctx, query, userID, cardID, limit)
	if err != nil {
		log.Error("failed to query review log",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return nil, MapError(err)
	}
	defer closeRows(rows, log)

	var entries []*domain.ReviewLog
	for rows.Next() {
		var entry domain.ReviewLog
		var grade int

		err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.CardID,
			&grade,
			&entry.PrevEase,
			&entry.PrevIntervalDays,
			&entry.PrevRepetitions,
			&entry.NewEase,
			&entry.NewIntervalDays,
			&entry.NewRepetitions,
			&entry.DueAt,
			&entry.CreatedAt,
		)
		if err != nil {
			log.Error("failed to scan review log row",
				slog.String("error", err.Error()))
			return nil, err
		}

		entry.Grade = domain.Grade(grade)
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	if entries == nil {
		entries = []*domain.ReviewLog{}
	}
	return entries, nil
}

// PostgresSessionStore implements the store.SessionStore interface
// using a PostgreSQL database as the storage backend.
type PostgresSessionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSessionStore creates a new PostgreSQL implementation of the
// SessionStore interface. If logger is nil, the default logger is used.
func NewPostgresSessionStore(db store.DBTX, logger *slog.Logger) *PostgresSessionStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSessionStore{
		db:     db,
		logger: logger.With(slog.String("component", "session_store")),
	}
}

// Ensure PostgresSessionStore implements store.SessionStore interface
var _ store.SessionStore = (*PostgresSessionStore)(nil)

// WithTx implements store.SessionStore.WithTx
func (s *PostgresSessionStore) WithTx(tx *sql.Tx) store.SessionStore {
	return &PostgresSessionStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.SessionStore.Create
func (s *PostgresSessionStore) Create(ctx context.Context, session *domain.ReviewSession) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := session.Validate(); err != nil {
		log.Warn("session validation failed during create",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return err
	}

	query := `
		INSERT INTO review_sessions (id, user_id, cards_reviewed, cards_correct,
		                             accuracy, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.db.ExecContext(
		ctx,
		query,
		session.ID,
		session.UserID,
		session.CardsReviewed,
		session.CardsCorrect,
		session.Accuracy,
		session.CreatedAt,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during session creation",
				slog.String("error", err.Error()),
				slog.String("user_id", session.UserID.String()))
			return fmt.Errorf("%w: user with ID %s not found",
				store.ErrInvalidEntity, session.UserID)
		}
		log.Error("failed to create review session",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return MapError(err)
	}

	log.Info("review session recorded",
		slog.String("session_id", session.ID.String()),
		slog.String("user_id", session.UserID.String()),
		slog.Int("cards_reviewed", session.CardsReviewed),
		slog.Int("cards_correct", session.CardsCorrect))
	return nil
}

// ListByUser implements store.SessionStore.ListByUser
func (s *PostgresSessionStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]*domain.ReviewSession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, cards_reviewed, cards_correct, accuracy, created_at
		FROM review_sessions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := s.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		log.Error("failed to query review sessions",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer closeRows(rows, log)

	var sessions []*domain.ReviewSession
	for rows.Next() {
		var session domain.ReviewSession
		err := rows.Scan(
			&session.ID,
			&session.UserID,
			&session.CardsReviewed,
			&session.CardsCorrect,
			&session.Accuracy,
			&session.CreatedAt,
		)
		if err != nil {
			log.Error("failed to scan session row",
				slog.String("error", err.Error()))
			return nil, err
		}
		sessions = append(sessions, &session)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	if sessions == nil {
		sessions = []*domain.ReviewSession{}
	}
	return sessions, nil
}
