package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userRowColumns = []string{"id", "username", "email", "password_hash", "role", "created_at", "updated_at"}

func newStoredUser() *domain.User {
	now := time.Now().UTC()
	return &domain.User{
		ID:             uuid.New(),
		Email:          "a@x.com",
		HashedPassword: "$2a$04$abcdefghijklmnopqrstuu",
		Role:           domain.RoleStudent,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func TestNewPostgresUserStore_PanicsOnNilDB(t *testing.T) {
	assert.Panics(t, func() { NewPostgresUserStore(nil, nil) })
}

func TestPostgresUserStore_Create(t *testing.T) {
	insert := regexp.QuoteMeta("INSERT INTO users (id, username, email, password_hash, role, created_at, updated_at)")

	t.Run("inserts hash and role", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPostgresUserStore(db, nil)
		user := newStoredUser()

		mock.ExpectExec(insert).
			WithArgs(user.ID, nil, user.Email, user.HashedPassword, user.Role, user.CreatedAt, user.UpdatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.Create(context.Background(), user))
	})

	t.Run("unique violation is email exists", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPostgresUserStore(db, nil)

		mock.ExpectExec(insert).
			WillReturnError(&pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "users_email_key"})

		err := s.Create(context.Background(), newStoredUser())
		assert.ErrorIs(t, err, store.ErrEmailExists)
		assert.ErrorIs(t, err, store.ErrDuplicate)
	})

	t.Run("missing hash never reaches the database", func(t *testing.T) {
		db, _ := newMockDB(t)
		s := NewPostgresUserStore(db, nil)
		user := newStoredUser()
		user.Password = "pw123"
		user.HashedPassword = ""

		assert.ErrorIs(t, s.Create(context.Background(), user), domain.ErrEmptyHashedPassword)
	})

	t.Run("invalid user never reaches the database", func(t *testing.T) {
		db, _ := newMockDB(t)
		s := NewPostgresUserStore(db, nil)
		user := newStoredUser()
		user.Email = "nope"

		assert.ErrorIs(t, s.Create(context.Background(), user), domain.ErrInvalidEmail)
	})
}

func TestPostgresUserStore_GetByEmail(t *testing.T) {
	query := regexp.QuoteMeta("FROM users WHERE email = $1")

	t.Run("found", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPostgresUserStore(db, nil)
		user := newStoredUser()

		mock.ExpectQuery(query).
			WithArgs(user.Email).
			WillReturnRows(sqlmock.NewRows(userRowColumns).AddRow(
				user.ID.String(), "alice", user.Email, user.HashedPassword, "student", user.CreatedAt, user.UpdatedAt,
			))

		got, err := s.GetByEmail(context.Background(), user.Email)
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.Equal(t, "alice", got.Username)
		assert.Equal(t, domain.RoleStudent, got.Role)
		assert.Equal(t, user.HashedPassword, got.HashedPassword)
		assert.Empty(t, got.Password)
	})

	t.Run("not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPostgresUserStore(db, nil)

		mock.ExpectQuery(query).WithArgs("b@x.com").WillReturnRows(sqlmock.NewRows(userRowColumns))

		_, err := s.GetByEmail(context.Background(), "b@x.com")
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})

	t.Run("query failure", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPostgresUserStore(db, nil)
		dbErr := errors.New("connection refused")

		mock.ExpectQuery(query).WillReturnError(dbErr)

		_, err := s.GetByEmail(context.Background(), "a@x.com")
		assert.ErrorIs(t, err, dbErr)
		assert.NotErrorIs(t, err, store.ErrNotFound)
	})
}

func TestPostgresUserStore_GetByID(t *testing.T) {
	query := regexp.QuoteMeta("FROM users WHERE id = $1")
	db, mock := newMockDB(t)
	s := NewPostgresUserStore(db, nil)
	user := newStoredUser()

	mock.ExpectQuery(query).
		WithArgs(user.ID).
		WillReturnRows(sqlmock.NewRows(userRowColumns).AddRow(
			user.ID.String(), nil, user.Email, user.HashedPassword, "admin", user.CreatedAt, user.UpdatedAt,
		))
	missing := uuid.New()
	mock.ExpectQuery(query).WithArgs(missing).WillReturnRows(sqlmock.NewRows(userRowColumns))

	got, err := s.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, got.Role)
	assert.Empty(t, got.Username)

	_, err = s.GetByID(context.Background(), missing)
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestPostgresUserStore_WithTx(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostgresUserStore(db, nil)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).
		WillReturnRows(sqlmock.NewRows(userRowColumns))
	mock.ExpectRollback()

	tx, err := db.Begin()
	require.NoError(t, err)
	_, err = s.WithTx(tx).GetByEmail(context.Background(), "a@x.com")
	assert.ErrorIs(t, err, store.ErrUserNotFound)
	require.NoError(t, tx.Rollback())
}
