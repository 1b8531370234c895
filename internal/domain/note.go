package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// NoteStatus represents the lifecycle state of a note in the card
// generation pipeline.
type NoteStatus string

// Possible note status values
const (
	NoteStatusPending    NoteStatus = "pending"
	NoteStatusProcessing NoteStatus = "processing"
	NoteStatusCompleted  NoteStatus = "completed"
	NoteStatusFailed     NoteStatus = "failed"
)

// Note-specific validation errors
var (
	ErrNoteIDEmpty       = errors.New("note ID cannot be empty")
	ErrNoteUserIDEmpty   = errors.New("note user ID cannot be empty")
	ErrNoteTextEmpty     = errors.New("note text cannot be empty")
	ErrInvalidNoteStatus = errors.New("invalid note status")
)

// Note is a piece of free text submitted by a user as source material for
// AI card generation. Its status tracks the generation task's progress.
type Note struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	Text      string     `json:"text"`
	Status    NoteStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewNote creates a new Note in the pending state.
func NewNote(userID uuid.UUID, text string) (*Note, error) {
	now := time.Now().UTC()
	note := &Note{
		ID:        uuid.New(),
		UserID:    userID,
		Text:      text,
		Status:    NoteStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := note.Validate(); err != nil {
		return nil, err
	}

	return note, nil
}

// Validate checks if the Note has valid data.
func (n *Note) Validate() error {
	if n.ID == uuid.Nil {
		return ErrNoteIDEmpty
	}

	if n.UserID == uuid.Nil {
		return ErrNoteUserIDEmpty
	}

	if n.Text == "" {
		return ErrNoteTextEmpty
	}

	switch n.Status {
	case NoteStatusPending, NoteStatusProcessing, NoteStatusCompleted, NoteStatusFailed:
		return nil
	default:
		return ErrInvalidNoteStatus
	}
}
