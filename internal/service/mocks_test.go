package service

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/jmlarson/deckard/internal/domain"
	"github.com/jmlarson/deckard/internal/events"
	"github.com/jmlarson/deckard/internal/store"
)

// mockCardStore is an in-memory CardStore for service tests.
type mockCardStore struct {
	cards map[uuid.UUID]*domain.Card

	createErr error
	getErr    error
	updateErr error
	deleteErr error
	listErr   error
}

var _ store.CardStore = (*mockCardStore)(nil)

func newMockCardStore() *mockCardStore {
	return &mockCardStore{cards: make(map[uuid.UUID]*domain.Card)}
}

func (m *mockCardStore) CreateMultiple(ctx context.Context, cards []*domain.Card) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, c := range cards {
		m.cards[c.ID] = c
	}
	return nil
}

func (m *mockCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	card, ok := m.cards[id]
	if !ok {
		return nil, store.ErrCardNotFound
	}
	cp := *card
	return &cp, nil
}

func (m *mockCardStore) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Card, error) {
	var out []*domain.Card
	for _, id := range ids {
		if card, ok := m.cards[id]; ok {
			cp := *card
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockCardStore) UpdateContent(ctx context.Context, id uuid.UUID, front, back string) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	card, ok := m.cards[id]
	if !ok {
		return store.ErrCardNotFound
	}
	card.Front, card.Back = front, back
	return nil
}

func (m *mockCardStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.cards[id]; !ok {
		return store.ErrCardNotFound
	}
	delete(m.cards, id)
	return nil
}

func (m *mockCardStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Card, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := []*domain.Card{}
	for _, card := range m.cards {
		if card.UserID == userID {
			cp := *card
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockCardStore) ListUnscheduled(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]*domain.Card, error) {
	return nil, nil
}

func (m *mockCardStore) ListRecent(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]*domain.Card, error) {
	return nil, nil
}

func (m *mockCardStore) WithTx(tx *sql.Tx) store.CardStore {
	return m
}

// mockNoteStore is an in-memory NoteStore for service tests.
type mockNoteStore struct {
	notes map[uuid.UUID]*domain.Note

	createErr error
	getErr    error
	updateErr error
}

var _ store.NoteStore = (*mockNoteStore)(nil)

func newMockNoteStore() *mockNoteStore {
	return &mockNoteStore{notes: make(map[uuid.UUID]*domain.Note)}
}

func (m *mockNoteStore) Create(ctx context.Context, note *domain.Note) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.notes[note.ID] = note
	return nil
}

func (m *mockNoteStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Note, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	note, ok := m.notes[id]
	if !ok {
		return nil, store.ErrNoteNotFound
	}
	cp := *note
	return &cp, nil
}

func (m *mockNoteStore) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	status domain.NoteStatus,
) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	note, ok := m.notes[id]
	if !ok {
		return store.ErrNoteNotFound
	}
	note.Status = status
	return nil
}

func (m *mockNoteStore) WithTx(tx *sql.Tx) store.NoteStore {
	return m
}

// mockEventEmitter records emitted events and optionally fails.
type mockEventEmitter struct {
	emitted []*events.TaskRequestEvent
	emitErr error
}

var _ events.EventEmitter = (*mockEventEmitter)(nil)

func (m *mockEventEmitter) EmitEvent(ctx context.Context, event *events.TaskRequestEvent) error {
	if m.emitErr != nil {
		return m.emitErr
	}
	m.emitted = append(m.emitted, event)
	return nil
}
