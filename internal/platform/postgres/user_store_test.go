package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jmlarson/deckard/internal/domain"
	"github.com/jmlarson/deckard/internal/store"
)

func newUserStoreForTest(t *testing.T) (*PostgresUserStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	// MinCost keeps the hashing fast in tests.
	return NewPostgresUserStore(db, bcrypt.MinCost, nil), mock
}

func TestPostgresUserStoreCreate(t *testing.T) {
	t.Parallel()

	t.Run("hashes the password and inserts the row", func(t *testing.T) {
		t.Parallel()
		userStore, mock := newUserStoreForTest(t)

		user, err := domain.NewUser("test@example.com", "correct horse battery")
		require.NoError(t, err)

		mock.ExpectExec(`INSERT INTO users`).
			WithArgs(user.ID, user.Email, sqlmock.AnyArg(), user.CreatedAt, user.UpdatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = userStore.Create(context.Background(), user)
		require.NoError(t, err)

		assert.Empty(t, user.Password, "plaintext should be cleared after hashing")
		assert.NoError(t,
			bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte("correct horse battery")))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate email maps to ErrEmailExists", func(t *testing.T) {
		t.Parallel()
		userStore, mock := newUserStoreForTest(t)

		user, err := domain.NewUser("taken@example.com", "correct horse battery")
		require.NoError(t, err)

		mock.ExpectExec(`INSERT INTO users`).
			WillReturnError(pgError(uniqueViolationCode))

		err = userStore.Create(context.Background(), user)
		assert.ErrorIs(t, err, store.ErrEmailExists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invalid user is rejected before touching the database", func(t *testing.T) {
		t.Parallel()
		userStore, mock := newUserStoreForTest(t)

		user := &domain.User{ID: uuid.New(), Email: "bad", Password: "correct horse battery"}
		err := userStore.Create(context.Background(), user)
		assert.ErrorIs(t, err, domain.ErrInvalidEmail)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresUserStoreGetByID(t *testing.T) {
	t.Parallel()

	t.Run("found", func(t *testing.T) {
		t.Parallel()
		userStore, mock := newUserStoreForTest(t)

		id := uuid.New()
		now := time.Now().UTC()
		mock.ExpectQuery(`SELECT id, email, hashed_password, created_at, updated_at`).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(
				[]string{"id", "email", "hashed_password", "created_at", "updated_at"},
			).AddRow(id, "test@example.com", "$2a$04$hash", now, now))

		user, err := userStore.GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, id, user.ID)
		assert.Equal(t, "test@example.com", user.Email)
		assert.Equal(t, "$2a$04$hash", user.HashedPassword)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing maps to ErrUserNotFound", func(t *testing.T) {
		t.Parallel()
		userStore, mock := newUserStoreForTest(t)

		id := uuid.New()
		mock.ExpectQuery(`SELECT id, email, hashed_password, created_at, updated_at`).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(
				[]string{"id", "email", "hashed_password", "created_at", "updated_at"}))

		user, err := userStore.GetByID(context.Background(), id)
		assert.Nil(t, user)
		assert.ErrorIs(t, err, store.ErrUserNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresUserStoreDelete(t *testing.T) {
	t.Parallel()

	t.Run("deletes the row", func(t *testing.T) {
		t.Parallel()
		userStore, mock := newUserStoreForTest(t)

		id := uuid.New()
		mock.ExpectExec(`DELETE FROM users`).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, userStore.Delete(context.Background(), id))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing maps to ErrUserNotFound", func(t *testing.T) {
		t.Parallel()
		userStore, mock := newUserStoreForTest(t)

		id := uuid.New()
		mock.ExpectExec(`DELETE FROM users`).
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, userStore.Delete(context.Background(), id), store.ErrUserNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
