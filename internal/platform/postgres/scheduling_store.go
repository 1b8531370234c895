package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jmlarson/deckard/internal/domain"
	"github.com/jmlarson/deckard/internal/platform/logger"
	"github.com/jmlarson/deckard/internal/store"
)

// PostgresSchedulingStore implements the store.SchedulingStore interface
// using a PostgreSQL database as the storage backend. State rows are keyed
// by the (user_id, card_id) pair.
type PostgresSchedulingStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSchedulingStore creates a new PostgreSQL implementation of the
// SchedulingStore interface. It accepts a database connection or transaction
// managed by the caller. If logger is nil, the default logger is used.
func NewPostgresSchedulingStore(db store.DBTX, logger *slog.Logger) *PostgresSchedulingStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSchedulingStore{
		db:     db,
		logger: logger.With(slog.String("component", "scheduling_store")),
	}
}

// Ensure PostgresSchedulingStore implements store.SchedulingStore interface
var _ store.SchedulingStore = (*PostgresSchedulingStore)(nil)

// WithTx implements store.SchedulingStore.WithTx
func (s *PostgresSchedulingStore) WithTx(tx *sql.Tx) store.SchedulingStore {
	return &PostgresSchedulingStore{
		db:     tx,
		logger: s.logger,
	}
}

// Get implements store.SchedulingStore.Get
// Returns store.ErrSchedulingNotFound if no state exists for the pair.
func (s *PostgresSchedulingStore) Get(
	ctx context.Context,
	userID, cardID uuid.UUID,
) (*domain.Scheduling, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT user_id, card_id, ease, interval_days, repetitions,
		       due_at, last_reviewed_at, created_at, updated_at
		FROM scheduling
		WHERE user_id = $1 AND card_id = $2
	`

	var sched domain.Scheduling
	var lastReviewedAt sql.NullTime

	err := s.db.QueryRowContext(ctx, query, userID, cardID).Scan(
		&sched.UserID,
		&sched.CardID,
		&sched.Ease,
		&sched.IntervalDays,
		&sched.Repetitions,
		&sched.DueAt,
		&lastReviewedAt,
		&sched.CreatedAt,
		&sched.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("scheduling state not found",
				slog.String("user_id", userID.String()),
				slog.String("card_id", cardID.String()))
			return nil, store.ErrSchedulingNotFound
		}
		log.Error("failed to get scheduling state",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("card_id", cardID.String()))
		return nil, MapError(err)
	}

	if lastReviewedAt.Valid {
		sched.LastReviewedAt = lastReviewedAt.Time
	}
	return &sched, nil
}

// Upsert implements store.SchedulingStore.Upsert
// It inserts the state, or replaces the existing row for the same
// (user_id, card_id) pair.
func (s *PostgresSchedulingStore) Upsert(ctx context.Context, sched *domain.Scheduling) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := sched.Validate(); err != nil {
		log.Warn("scheduling validation failed during upsert",
			slog.String("error", err.Error()),
			slog.String("card_id", sched.CardID.String()))
		return err
	}

	var lastReviewedAt sql.NullTime
	if !sched.LastReviewedAt.IsZero() {
		lastReviewedAt = sql.NullTime{Time: sched.LastReviewedAt, Valid: true}
	}

	query := `
		INSERT INTO scheduling (user_id, card_id, ease, interval_days, repetitions,
		                        due_at, last_reviewed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id, card_id) DO UPDATE SET
			ease = EXCLUDED.ease,
			interval_days = EXCLUDED.interval_days,
			repetitions = EXCLUDED.repetitions,
			due_at = EXCLUDED.due_at,
			last_reviewed_at = EXCLUDED.last_reviewed_at,
			updated_at = EXCLUDED.updated_at
	`

	_, err := s.db.ExecContext(
		ctx,
		query,
		sched.UserID,
		sched.CardID,
		sched.Ease,
		sched.IntervalDays,
		sched.Repetitions,
		sched.DueAt,
		lastReviewedAt,
		sched.CreatedAt,
		sched.UpdatedAt,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during scheduling upsert",
				slog.String("error", err.Error()),
				slog.String("user_id", sched.UserID.String()),
				slog.String("card_id", sched.CardID.String()))
			return store.ErrInvalidEntity
		}
		log.Error("failed to upsert scheduling state",
			slog.String("error", err.Error()),
			slog.String("user_id", sched.UserID.String()),
			slog.String("card_id", sched.CardID.String()))
		return MapError(err)
	}

	log.Debug("scheduling state upserted",
		slog.String("user_id", sched.UserID.String()),
		slog.String("card_id", sched.CardID.String()),
		slog.Int("interval_days", sched.IntervalDays))
	return nil
}

// ListDue implements store.SchedulingStore.ListDue
// Results are ordered by due timestamp ascending, then update timestamp
// ascending, so long-overdue and least-recently-touched cards come first.
func (s *PostgresSchedulingStore) ListDue(
	ctx context.Context,
	userID uuid.UUID,
	dueBefore time.Time,
	limit int,
) ([]*store.DueCard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT c.id, c.user_id, c.note_id, c.front, c.back, c.created_at, c.updated_at,
		       s.ease, s.interval_days, s.repetitions,
		       s.due_at, s.last_reviewed_at, s.created_at, s.updated_at
		FROM scheduling s
		JOIN cards c ON c.id = s.card_id
		WHERE s.user_id = $1 AND s.due_at <= $2
		ORDER BY s.due_at ASC, s.updated_at ASC
		LIMIT $3
	`

	rows, err := s.db.QueryContext(ctx, query, userID, dueBefore, limit)
	if err != nil {
		log.Error("failed to query due cards",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer closeRows(rows, log)

	var due []*store.DueCard
	for rows.Next() {
		var card domain.Card
		var sched domain.Scheduling
		var lastReviewedAt sql.NullTime

		err := rows.Scan(
			&card.ID,
			&card.UserID,
			&card.NoteID,
			&card.Front,
			&card.Back,
			&card.CreatedAt,
			&card.UpdatedAt,
			&sched.Ease,
			&sched.IntervalDays,
			&sched.Repetitions,
			&sched.DueAt,
			&lastReviewedAt,
			&sched.CreatedAt,
			&sched.UpdatedAt,
		)
		if err != nil {
			log.Error("failed to scan due card row",
				slog.String("error", err.Error()))
			return nil, err
		}

		sched.UserID = card.UserID
		sched.CardID = card.ID
		if lastReviewedAt.Valid {
			sched.LastReviewedAt = lastReviewedAt.Time
		}

		due = append(due, &store.DueCard{Card: &card, Scheduling: &sched})
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	if due == nil {
		due = []*store.DueCard{}
	}

	log.Debug("due cards listed",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(due)))
	return due, nil
}

// CountDue implements store.SchedulingStore.CountDue
func (s *PostgresSchedulingStore) CountDue(
	ctx context.Context,
	userID uuid.UUID,
	dueBefore time.Time,
) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT COUNT(*)
		FROM scheduling
		WHERE user_id = $1 AND due_at <= $2
	`

	var count int
	err := s.db.QueryRowContext(ctx, query, userID, dueBefore).Scan(&count)
	if err != nil {
		log.Error("failed to count due cards",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return 0, MapError(err)
	}

	return count, nil
}
