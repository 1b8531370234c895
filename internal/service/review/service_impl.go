package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jmlarson/deckard/internal/domain"
	"github.com/jmlarson/deckard/internal/domain/scheduler"
	"github.com/jmlarson/deckard/internal/platform/logger"
	"github.com/jmlarson/deckard/internal/store"
)

// Verify interface compliance at compile time
var _ ReviewService = (*reviewServiceImpl)(nil)

// reviewServiceImpl implements the ReviewService interface.
type reviewServiceImpl struct {
	db           *sql.DB
	cardStore    store.CardStore
	schedStore   store.SchedulingStore
	logStore     store.ReviewLogStore
	sessionStore store.SessionStore
	scheduler    scheduler.Service
	batchSize    int
	fetchLimit   int
	timeFunc     func() time.Time
	logger       *slog.Logger
}

// NewReviewService creates a new ReviewService implementation.
// batchSize is the maximum number of cards in a review batch; fetchLimit is
// how many due rows are fetched before the batch is capped, and must be at
// least batchSize.
func NewReviewService(
	db *sql.DB,
	cardStore store.CardStore,
	schedStore store.SchedulingStore,
	logStore store.ReviewLogStore,
	sessionStore store.SessionStore,
	schedulerSvc scheduler.Service,
	batchSize int,
	fetchLimit int,
	logger *slog.Logger,
) ReviewService {
	if db == nil {
		panic("db cannot be nil")
	}
	if cardStore == nil {
		panic("cardStore cannot be nil")
	}
	if schedStore == nil {
		panic("schedStore cannot be nil")
	}
	if logStore == nil {
		panic("logStore cannot be nil")
	}
	if sessionStore == nil {
		panic("sessionStore cannot be nil")
	}
	if schedulerSvc == nil {
		panic("schedulerSvc cannot be nil")
	}
	if batchSize <= 0 {
		panic("batchSize must be positive")
	}
	if fetchLimit < batchSize {
		panic("fetchLimit must be at least batchSize")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &reviewServiceImpl{
		db:           db,
		cardStore:    cardStore,
		schedStore:   schedStore,
		logStore:     logStore,
		sessionStore: sessionStore,
		scheduler:    schedulerSvc,
		batchSize:    batchSize,
		fetchLimit:   fetchLimit,
		timeFunc:     func() time.Time { return time.Now().UTC() },
		logger:       logger.With(slog.String("component", "review_service")),
	}
}

// GetReviewBatch implements ReviewService.GetReviewBatch.
func (s *reviewServiceImpl) GetReviewBatch(
	ctx context.Context,
	userID uuid.UUID,
	force bool,
) ([]*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if force {
		return s.forceBatch(ctx, userID, log)
	}

	now := s.timeFunc()

	due, err := s.schedStore.ListDue(ctx, userID, now, s.fetchLimit)
	if err != nil {
		log.Error("failed to list due cards",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewGetReviewBatchError("failed to list due cards", err)
	}

	batch := make([]*domain.Card, 0, s.batchSize)
	for _, dc := range due {
		if len(batch) == s.batchSize {
			break
		}
		batch = append(batch, dc.Card)
	}

	// Top up with cards that have never been graded, oldest first.
	if len(batch) < s.batchSize {
		fresh, err := s.cardStore.ListUnscheduled(ctx, userID, s.batchSize-len(batch))
		if err != nil {
			log.Error("failed to list unscheduled cards",
				slog.String("error", err.Error()),
				slog.String("user_id", userID.String()))
			return nil, NewGetReviewBatchError("failed to list unscheduled cards", err)
		}
		batch = append(batch, fresh...)
	}

	if len(batch) == 0 {
		log.Debug("no cards due for review", slog.String("user_id", userID.String()))
		return nil, ErrNoCardsDue
	}

	log.Debug("review batch assembled",
		slog.String("user_id", userID.String()),
		slog.Int("due", len(due)),
		slog.Int("batch", len(batch)))
	return batch, nil
}

// forceBatch assembles a practice-ahead batch that ignores due timestamps.
func (s *reviewServiceImpl) forceBatch(
	ctx context.Context,
	userID uuid.UUID,
	log *slog.Logger,
) ([]*domain.Card, error) {
	cards, err := s.cardStore.ListRecent(ctx, userID, s.batchSize)
	if err != nil {
		log.Error("failed to list recent cards",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewGetReviewBatchError("failed to list recent cards", err)
	}

	if len(cards) == 0 {
		log.Debug("no cards available for forced review",
			slog.String("user_id", userID.String()))
		return nil, ErrNoCardsDue
	}

	log.Debug("forced review batch assembled",
		slog.String("user_id", userID.String()),
		slog.Int("batch", len(cards)))
	return cards, nil
}

// SubmitGrade implements ReviewService.SubmitGrade.
func (s *reviewServiceImpl) SubmitGrade(
	ctx context.Context,
	userID uuid.UUID,
	cardID uuid.UUID,
	grade domain.Grade,
) (*domain.Scheduling, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !grade.Valid() {
		log.Warn("invalid grade submitted",
			slog.String("user_id", userID.String()),
			slog.String("card_id", cardID.String()),
			slog.Int("grade", int(grade)))
		return nil, ErrInvalidGrade
	}

	now := s.timeFunc()

	var prior, next *domain.Scheduling
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txCards := s.cardStore.WithTx(tx)
		txSched := s.schedStore.WithTx(tx)

		card, err := txCards.GetByID(ctx, cardID)
		if err != nil {
			if store.IsNotFoundError(err) {
				log.Warn("card not found for grading",
					slog.String("user_id", userID.String()),
					slog.String("card_id", cardID.String()))
				return ErrCardNotFound
			}
			return fmt.Errorf("failed to get card: %w", err)
		}

		if card.UserID != userID {
			log.Warn("user does not own card",
				slog.String("user_id", userID.String()),
				slog.String("card_id", cardID.String()),
				slog.String("owner_id", card.UserID.String()))
			return ErrCardNotOwned
		}

		prior, err = txSched.Get(ctx, userID, cardID)
		if err != nil {
			if !store.IsNotFoundError(err) {
				return fmt.Errorf("failed to get scheduling state: %w", err)
			}
			// First grading of this card: start from the defaults.
			prior, err = domain.NewScheduling(userID, cardID)
			if err != nil {
				return fmt.Errorf("failed to create scheduling state: %w", err)
			}
		}

		next, err = s.scheduler.Grade(prior, grade, now)
		if err != nil {
			return fmt.Errorf("failed to compute next schedule: %w", err)
		}

		if err := txSched.Upsert(ctx, next); err != nil {
			return fmt.Errorf("failed to save scheduling state: %w", err)
		}

		return nil
	})

	if err != nil {
		if errors.Is(err, ErrCardNotFound) ||
			errors.Is(err, ErrCardNotOwned) {
			return nil, err
		}

		log.Error("failed to submit grade",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("card_id", cardID.String()))
		return nil, NewSubmitGradeError("failed to submit grade", err)
	}

	// History is best effort: a failed append never undoes the grading.
	s.appendHistory(ctx, log, grade, prior, next)

	log.Debug("grade submitted",
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()),
		slog.String("grade", grade.String()),
		slog.Int("ease", next.Ease),
		slog.Int("interval_days", next.IntervalDays),
		slog.Time("due_at", next.DueAt))
	return next, nil
}

// appendHistory writes the review log entry for a completed grading.
// Failures are logged and swallowed.
func (s *reviewServiceImpl) appendHistory(
	ctx context.Context,
	log *slog.Logger,
	grade domain.Grade,
	prior, next *domain.Scheduling,
) {
	entry, err := domain.NewReviewLog(grade, prior, next)
	if err != nil {
		log.Error("failed to build review log entry",
			slog.String("error", err.Error()),
			slog.String("card_id", next.CardID.String()))
		return
	}

	if err := s.logStore.Append(ctx, entry); err != nil {
		log.Error("failed to append review log entry",
			slog.String("error", err.Error()),
			slog.String("card_id", next.CardID.String()))
	}
}

// RecordSession implements ReviewService.RecordSession.
func (s *reviewServiceImpl) RecordSession(
	ctx context.Context,
	userID uuid.UUID,
	cardsReviewed, cardsCorrect int,
) (*domain.ReviewSession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	session, err := domain.NewReviewSession(userID, cardsReviewed, cardsCorrect)
	if err != nil {
		log.Warn("invalid session summary",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}

	if err := s.sessionStore.Create(ctx, session); err != nil {
		log.Error("failed to record review session",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}

	return session, nil
}
