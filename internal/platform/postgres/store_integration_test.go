//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/platform/postgres"
	"github.com/phrazzld/tasktrack-api/internal/store"
	"github.com/phrazzld/tasktrack-api/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTask(t *testing.T, owner *domain.User, title, description string, status domain.TaskStatus) *domain.Task {
	t.Helper()
	task, err := domain.NewTask(owner.ID, title, description, status, "", nil)
	require.NoError(t, err)
	return task
}

func TestUserStore_Integration(t *testing.T) {
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		users := postgres.NewPostgresUserStore(tx, nil)

		user, err := domain.NewUser("integration@x.com", "pw123", "")
		require.NoError(t, err)
		user.HashedPassword = "$2a$04$hash"
		require.NoError(t, users.Create(ctx, user))

		found, err := users.GetByEmail(ctx, "integration@x.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
		assert.Equal(t, domain.RoleStudent, found.Role)
		assert.Empty(t, found.Username)

		dup, err := domain.NewUser("integration@x.com", "pw123", "")
		require.NoError(t, err)
		dup.HashedPassword = "$2a$04$hash"
		assert.ErrorIs(t, users.Create(ctx, dup), store.ErrEmailExists)
	})
}

func TestTaskStore_OwnershipIsolation(t *testing.T) {
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		tasks := postgres.NewPostgresTaskStore(tx, nil)
		alice := testdb.CreateTestUser(t, tx, "alice@x.com")
		bob := testdb.CreateTestUser(t, tx, "bob@x.com")

		task := newTask(t, alice, "private", "", "")
		require.NoError(t, tasks.Create(ctx, task))

		_, err := tasks.GetByID(ctx, task.ID, bob.ID)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)

		assert.ErrorIs(t, tasks.UpdateStatus(ctx, task.ID, bob.ID, domain.TaskStatusCompleted), store.ErrTaskNotFound)
		assert.ErrorIs(t, tasks.Delete(ctx, task.ID, bob.ID), store.ErrTaskNotFound)

		bobs, err := tasks.ListByUser(ctx, bob.ID)
		require.NoError(t, err)
		assert.Empty(t, bobs)

		stored, err := tasks.GetByID(ctx, task.ID, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.TaskStatusPending, stored.Status)
		assert.Equal(t, 1, testdb.CountTasks(t, tx, alice.ID))
	})
}

func TestTaskStore_FilterAndSearch_Integration(t *testing.T) {
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		tasks := postgres.NewPostgresTaskStore(tx, nil)
		owner := testdb.CreateTestUser(t, tx, "search@x.com")

		done := newTask(t, owner, "Write report", "quarterly numbers", domain.TaskStatusCompleted)
		open := newTask(t, owner, "Sale prep", "50% off banner", domain.TaskStatusPending)
		due := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
		open.DueDate = &due
		require.NoError(t, tasks.Create(ctx, done))
		require.NoError(t, tasks.Create(ctx, open))

		completed := domain.TaskStatusCompleted
		got, err := tasks.Filter(ctx, owner.ID, store.TaskFilter{Status: &completed})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, done.ID, got[0].ID)

		got, err = tasks.Filter(ctx, owner.ID, store.TaskFilter{Search: "50%"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, open.ID, got[0].ID)

		got, err = tasks.Search(ctx, owner.ID, store.TaskSearch{
			Query: "REPORT",
			Sort:  store.SortByTitle,
			Order: store.SortAsc,
		})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, done.ID, got[0].ID)

		got, err = tasks.Search(ctx, owner.ID, store.TaskSearch{
			DueDate: &due,
			Sort:    store.SortByPriority,
			Order:   store.SortDesc,
		})
		require.NoError(t, err)
		require.Len(t, got, 1)
		require.NotNil(t, got[0].DueDate)
		assert.Equal(t, "2025-06-01", got[0].DueDate.Format(domain.DateLayout))
	})
}
