package review

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/jmlarson/deckard/internal/domain"
	"github.com/jmlarson/deckard/internal/store"
)

// mockCardStore implements store.CardStore for testing.
type mockCardStore struct {
	cards map[uuid.UUID]*domain.Card

	unscheduled []*domain.Card
	recent      []*domain.Card

	getByIDErr       error
	listRecentErr    error
	listUnschedErr   error
	unscheduledCalls []int
}

func newMockCardStore() *mockCardStore {
	return &mockCardStore{cards: make(map[uuid.UUID]*domain.Card)}
}

func (m *mockCardStore) CreateMultiple(ctx context.Context, cards []*domain.Card) error {
	for _, c := range cards {
		m.cards[c.ID] = c
	}
	return nil
}

func (m *mockCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	if m.getByIDErr != nil {
		return nil, m.getByIDErr
	}
	card, ok := m.cards[id]
	if !ok {
		return nil, store.ErrCardNotFound
	}
	return card, nil
}

func (m *mockCardStore) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Card, error) {
	var out []*domain.Card
	for _, id := range ids {
		if c, ok := m.cards[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockCardStore) UpdateContent(ctx context.Context, id uuid.UUID, front, back string) error {
	card, ok := m.cards[id]
	if !ok {
		return store.ErrCardNotFound
	}
	return card.UpdateContent(front, back)
}

func (m *mockCardStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.cards[id]; !ok {
		return store.ErrCardNotFound
	}
	delete(m.cards, id)
	return nil
}

func (m *mockCardStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Card, error) {
	var out []*domain.Card
	for _, c := range m.cards {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockCardStore) ListUnscheduled(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]*domain.Card, error) {
	m.unscheduledCalls = append(m.unscheduledCalls, limit)
	if m.listUnschedErr != nil {
		return nil, m.listUnschedErr
	}
	if len(m.unscheduled) > limit {
		return m.unscheduled[:limit], nil
	}
	return m.unscheduled, nil
}

func (m *mockCardStore) ListRecent(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]*domain.Card, error) {
	if m.listRecentErr != nil {
		return nil, m.listRecentErr
	}
	if len(m.recent) > limit {
		return m.recent[:limit], nil
	}
	return m.recent, nil
}

func (m *mockCardStore) WithTx(tx *sql.Tx) store.CardStore { return m }

// mockSchedulingStore implements store.SchedulingStore for testing.
type mockSchedulingStore struct {
	states map[string]*domain.Scheduling
	due    []*store.DueCard

	getErr     error
	upsertErr  error
	listDueErr error

	listDueLimit int
}

func newMockSchedulingStore() *mockSchedulingStore {
	return &mockSchedulingStore{states: make(map[string]*domain.Scheduling)}
}

func schedKey(userID, cardID uuid.UUID) string {
	return userID.String() + "/" + cardID.String()
}

func (m *mockSchedulingStore) Get(
	ctx context.Context,
	userID, cardID uuid.UUID,
) (*domain.Scheduling, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	state, ok := m.states[schedKey(userID, cardID)]
	if !ok {
		return nil, store.ErrSchedulingNotFound
	}
	return state, nil
}

func (m *mockSchedulingStore) Upsert(ctx context.Context, sched *domain.Scheduling) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.states[schedKey(sched.UserID, sched.CardID)] = sched
	return nil
}

func (m *mockSchedulingStore) ListDue(
	ctx context.Context,
	userID uuid.UUID,
	dueBefore time.Time,
	limit int,
) ([]*store.DueCard, error) {
	m.listDueLimit = limit
	if m.listDueErr != nil {
		return nil, m.listDueErr
	}
	if len(m.due) > limit {
		return m.due[:limit], nil
	}
	return m.due, nil
}

func (m *mockSchedulingStore) CountDue(
	ctx context.Context,
	userID uuid.UUID,
	dueBefore time.Time,
) (int, error) {
	return len(m.due), nil
}

func (m *mockSchedulingStore) WithTx(tx *sql.Tx) store.SchedulingStore { return m }

// mockReviewLogStore implements store.ReviewLogStore for testing.
type mockReviewLogStore struct {
	entries   []*domain.ReviewLog
	appendErr error
}

func (m *mockReviewLogStore) Append(ctx context.Context, entry *domain.ReviewLog) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockReviewLogStore) ListByCard(
	ctx context.Context,
	userID, cardID uuid.UUID,
	limit int,
) ([]*domain.ReviewLog, error) {
	return m.entries, nil
}

func (m *mockReviewLogStore) WithTx(tx *sql.Tx) store.ReviewLogStore { return m }

// mockSessionStore implements store.SessionStore for testing.
type mockSessionStore struct {
	sessions  []*domain.ReviewSession
	createErr error
}

func (m *mockSessionStore) Create(ctx context.Context, session *domain.ReviewSession) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.sessions = append(m.sessions, session)
	return nil
}

func (m *mockSessionStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]*domain.ReviewSession, error) {
	return m.sessions, nil
}

func (m *mockSessionStore) WithTx(tx *sql.Tx) store.SessionStore { return m }
