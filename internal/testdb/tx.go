package testdb

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/stretchr/testify/require"
)

// WithTx runs fn inside a transaction that is always rolled back afterwards,
// including when fn panics.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err, "Failed to begin transaction")

	defer func() {
		err := tx.Rollback()
		// sql.ErrTxDone is expected if tx is already committed or rolled back
		if err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("Warning: failed to rollback transaction: %v", err)
		}
	}()

	fn(t, tx)
}

// CreateTestUser inserts a student with a placeholder password hash.
func CreateTestUser(t *testing.T, tx *sql.Tx, email string) *domain.User {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Microsecond)
	user := &domain.User{
		ID:             uuid.New(),
		Email:          email,
		HashedPassword: "$2a$04$placeholderplaceholderplaceholderplaceholderplacehold",
		Role:           domain.RoleStudent,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	_, err := tx.Exec(
		`INSERT INTO users (id, email, password_hash, role, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		user.ID, user.Email, user.HashedPassword, user.Role, user.CreatedAt, user.UpdatedAt,
	)
	require.NoError(t, err, "Failed to insert test user")
	return user
}

// CountTasks returns how many task rows userID owns.
func CountTasks(t *testing.T, tx *sql.Tx, userID uuid.UUID) int {
	t.Helper()

	var n int
	err := tx.QueryRow(`SELECT COUNT(*) FROM tasks WHERE user_id = $1`, userID).Scan(&n)
	require.NoError(t, err, "Failed to count tasks")
	return n
}
