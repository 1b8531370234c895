package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmlarson/deckard/internal/api/shared"
	"github.com/jmlarson/deckard/internal/domain"
	"github.com/jmlarson/deckard/internal/service"
)

// testLogger returns a logger that discards everything; handler tests
// assert on responses, not log output.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockCardService implements service.CardService with function fields.
type mockCardService struct {
	createFn func(ctx context.Context, userID uuid.UUID, front, back string) (*domain.Card, error)
	getFn    func(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error)
	updateFn func(ctx context.Context, userID, cardID uuid.UUID, front, back string) (*domain.Card, error)
	deleteFn func(ctx context.Context, userID, cardID uuid.UUID) error
	listFn   func(ctx context.Context, userID uuid.UUID) ([]*domain.Card, error)
}

func (m *mockCardService) CreateCard(
	ctx context.Context,
	userID uuid.UUID,
	front, back string,
) (*domain.Card, error) {
	return m.createFn(ctx, userID, front, back)
}

func (m *mockCardService) CreateCards(ctx context.Context, cards []*domain.Card) error {
	return nil
}

func (m *mockCardService) GetCard(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error) {
	return m.getFn(ctx, userID, cardID)
}

func (m *mockCardService) UpdateCard(
	ctx context.Context,
	userID, cardID uuid.UUID,
	front, back string,
) (*domain.Card, error) {
	return m.updateFn(ctx, userID, cardID, front, back)
}

func (m *mockCardService) DeleteCard(ctx context.Context, userID, cardID uuid.UUID) error {
	return m.deleteFn(ctx, userID, cardID)
}

func (m *mockCardService) ListCards(ctx context.Context, userID uuid.UUID) ([]*domain.Card, error) {
	return m.listFn(ctx, userID)
}

// withUserID attaches the authenticated user ID to the request context.
func withUserID(req *http.Request, userID uuid.UUID) *http.Request {
	ctx := context.WithValue(req.Context(), shared.UserIDContextKey, userID)
	return req.WithContext(ctx)
}

// withCardIDParam attaches a chi route context carrying the {id} URL
// parameter, mirroring what the router does in production.
func withCardIDParam(req *http.Request, cardID string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", cardID)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func testCard(userID uuid.UUID) *domain.Card {
	now := time.Now().UTC()
	return &domain.Card{
		ID:        uuid.New(),
		UserID:    userID,
		Front:     "What is the capital of France?",
		Back:      "Paris",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestCreateCardHandler(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("valid request creates the card", func(t *testing.T) {
		t.Parallel()

		card := testCard(userID)
		svc := &mockCardService{
			createFn: func(ctx context.Context, uid uuid.UUID, front, back string) (*domain.Card, error) {
				assert.Equal(t, userID, uid)
				assert.Equal(t, "What is the capital of France?", front)
				assert.Equal(t, "Paris", back)
				return card, nil
			},
		}
		handler := NewCardHandler(svc, testLogger())

		req := withUserID(postJSON(t, "/cards", CreateCardRequest{
			Front: "What is the capital of France?",
			Back:  "Paris",
		}), userID)
		rr := httptest.NewRecorder()
		handler.CreateCard(rr, req)

		require.Equal(t, http.StatusCreated, rr.Code)

		var resp CardResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.Equal(t, card.ID.String(), resp.ID)
		assert.Equal(t, "Paris", resp.Back)
		assert.Empty(t, resp.NoteID)
	})

	t.Run("missing front fails validation", func(t *testing.T) {
		t.Parallel()

		handler := NewCardHandler(&mockCardService{}, testLogger())

		req := withUserID(postJSON(t, "/cards", CreateCardRequest{Back: "Paris"}), userID)
		rr := httptest.NewRecorder()
		handler.CreateCard(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("unauthenticated request yields 401", func(t *testing.T) {
		t.Parallel()

		handler := NewCardHandler(&mockCardService{}, testLogger())

		req := postJSON(t, "/cards", CreateCardRequest{Front: "f", Back: "b"})
		rr := httptest.NewRecorder()
		handler.CreateCard(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("service failure yields sanitized 500", func(t *testing.T) {
		t.Parallel()

		svc := &mockCardService{
			createFn: func(ctx context.Context, uid uuid.UUID, front, back string) (*domain.Card, error) {
				return nil, errors.New("connection refused to db host 10.0.0.5")
			},
		}
		handler := NewCardHandler(svc, testLogger())

		req := withUserID(postJSON(t, "/cards", CreateCardRequest{Front: "f", Back: "b"}), userID)
		rr := httptest.NewRecorder()
		handler.CreateCard(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.NotContains(t, rr.Body.String(), "10.0.0.5")

		var resp shared.ErrorResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.Equal(t, "Failed to create card", resp.Error)
	})
}

func TestGetCardHandler(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	card := testCard(userID)

	tests := []struct {
		name           string
		cardID         string
		serviceErr     error
		expectedStatus int
	}{
		{
			name:           "owned card is returned",
			cardID:         card.ID.String(),
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing card yields 404",
			cardID:         uuid.New().String(),
			serviceErr:     service.ErrCardNotFound,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "card owned by someone else yields 403",
			cardID:         uuid.New().String(),
			serviceErr:     service.ErrNotOwned,
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "malformed card ID yields 400",
			cardID:         "not-a-uuid",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svc := &mockCardService{
				getFn: func(ctx context.Context, uid, cid uuid.UUID) (*domain.Card, error) {
					if tc.serviceErr != nil {
						return nil, tc.serviceErr
					}
					return card, nil
				},
			}
			handler := NewCardHandler(svc, testLogger())

			req := httptest.NewRequest(http.MethodGet, "/cards/"+tc.cardID, nil)
			req = withCardIDParam(withUserID(req, userID), tc.cardID)
			rr := httptest.NewRecorder()
			handler.GetCard(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)
		})
	}
}

func TestUpdateCardHandler(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	card := testCard(userID)

	t.Run("valid update returns the new content", func(t *testing.T) {
		t.Parallel()

		svc := &mockCardService{
			updateFn: func(ctx context.Context, uid, cid uuid.UUID, front, back string) (*domain.Card, error) {
				updated := *card
				updated.Front = front
				updated.Back = back
				return &updated, nil
			},
		}
		handler := NewCardHandler(svc, testLogger())

		req := postJSON(t, "/cards/"+card.ID.String(), UpdateCardRequest{
			Front: "New front",
			Back:  "New back",
		})
		req = withCardIDParam(withUserID(req, userID), card.ID.String())
		rr := httptest.NewRecorder()
		handler.UpdateCard(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		var resp CardResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.Equal(t, "New front", resp.Front)
		assert.Equal(t, "New back", resp.Back)
	})

	t.Run("domain content error yields 400", func(t *testing.T) {
		t.Parallel()

		svc := &mockCardService{
			updateFn: func(ctx context.Context, uid, cid uuid.UUID, front, back string) (*domain.Card, error) {
				return nil, domain.ErrCardFrontEmpty
			},
		}
		handler := NewCardHandler(svc, testLogger())

		req := postJSON(t, "/cards/"+card.ID.String(), UpdateCardRequest{
			Front: "   ",
			Back:  "b",
		})
		req = withCardIDParam(withUserID(req, userID), card.ID.String())
		rr := httptest.NewRecorder()
		handler.UpdateCard(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestDeleteCardHandler(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	cardID := uuid.New()

	t.Run("successful delete returns 204 with no body", func(t *testing.T) {
		t.Parallel()

		svc := &mockCardService{
			deleteFn: func(ctx context.Context, uid, cid uuid.UUID) error {
				assert.Equal(t, cardID, cid)
				return nil
			},
		}
		handler := NewCardHandler(svc, testLogger())

		req := httptest.NewRequest(http.MethodDelete, "/cards/"+cardID.String(), nil)
		req = withCardIDParam(withUserID(req, userID), cardID.String())
		rr := httptest.NewRecorder()
		handler.DeleteCard(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Zero(t, rr.Body.Len())
	})

	t.Run("deleting a missing card yields 404", func(t *testing.T) {
		t.Parallel()

		svc := &mockCardService{
			deleteFn: func(ctx context.Context, uid, cid uuid.UUID) error {
				return service.ErrCardNotFound
			},
		}
		handler := NewCardHandler(svc, testLogger())

		req := httptest.NewRequest(http.MethodDelete, "/cards/"+cardID.String(), nil)
		req = withCardIDParam(withUserID(req, userID), cardID.String())
		rr := httptest.NewRecorder()
		handler.DeleteCard(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestListCardsHandler(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("returns all of the user's cards", func(t *testing.T) {
		t.Parallel()

		cards := []*domain.Card{testCard(userID), testCard(userID)}
		svc := &mockCardService{
			listFn: func(ctx context.Context, uid uuid.UUID) ([]*domain.Card, error) {
				return cards, nil
			},
		}
		handler := NewCardHandler(svc, testLogger())

		req := withUserID(httptest.NewRequest(http.MethodGet, "/cards", nil), userID)
		rr := httptest.NewRecorder()
		handler.ListCards(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		var resp []CardResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.Len(t, resp, 2)
	})

	t.Run("no cards yields an empty array, not null", func(t *testing.T) {
		t.Parallel()

		svc := &mockCardService{
			listFn: func(ctx context.Context, uid uuid.UUID) ([]*domain.Card, error) {
				return nil, nil
			},
		}
		handler := NewCardHandler(svc, testLogger())

		req := withUserID(httptest.NewRequest(http.MethodGet, "/cards", nil), userID)
		rr := httptest.NewRecorder()
		handler.ListCards(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "[]", strings.TrimSpace(rr.Body.String()))
	})
}
