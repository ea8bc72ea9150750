package postgres

import (
	"context"
	"database/sql/driver"
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

var taskRowColumns = []string{
	"id", "user_id", "title", "description", "status", "priority", "due_date", "created_at", "updated_at",
}

func newTestTask(userID uuid.UUID) *domain.Task {
	task, err := domain.NewTask(userID, "T1", "first task", "", "", nil)
	if err != nil {
		panic(err)
	}
	return task
}

func addTaskRow(rows *sqlmock.Rows, task *domain.Task) *sqlmock.Rows {
	var due any
	if task.DueDate != nil {
		due = *task.DueDate
	}
	return rows.AddRow(
		task.ID.String(),
		task.UserID.String(),
		task.Title,
		task.Description,
		string(task.Status),
		string(task.Priority),
		due,
		task.CreatedAt,
		task.UpdatedAt,
	)
}

func TestPostgresTaskStore_Create(t *testing.T) {
	insert := regexp.QuoteMeta("INSERT INTO tasks (id, user_id, title")
	userID := uuid.New()

	t.Run("inserts with formatted due date", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPostgresTaskStore(db, nil)
		task := newTestTask(userID)
		due := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
		task.DueDate = &due

		mock.ExpectExec(insert).
			WithArgs(task.ID, userID, "T1", "first task", "pending", "medium", "2025-06-01",
				task.CreatedAt, task.UpdatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.Create(context.Background(), task))
	})

	t.Run("unknown owner is invalid entity", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPostgresTaskStore(db, nil)

		mock.ExpectExec(insert).WillReturnError(&pgconn.PgError{Code: foreignKeyViolationCode})

		err := s.Create(context.Background(), newTestTask(userID))
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})

	t.Run("value wider than its column is invalid entity", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPostgresTaskStore(db, nil)

		mock.ExpectExec(insert).WillReturnError(&pgconn.PgError{Code: stringDataRightTruncationCode})

		err := s.Create(context.Background(), newTestTask(userID))
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})

	t.Run("invalid task never reaches the database", func(t *testing.T) {
		db, _ := newMockDB(t)
		s := NewPostgresTaskStore(db, nil)
		task := newTestTask(userID)
		task.Status = "archived"

		assert.ErrorIs(t, s.Create(context.Background(), task), domain.ErrInvalidStatus)
	})
}

func TestPostgresTaskStore_GetByID_IsOwnerScoped(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostgresTaskStore(db, nil)
	owner := uuid.New()
	other := uuid.New()
	task := newTestTask(owner)
	query := regexp.QuoteMeta("FROM tasks WHERE id = $1 AND user_id = $2")

	mock.ExpectQuery(query).
		WithArgs(task.ID, owner).
		WillReturnRows(addTaskRow(sqlmock.NewRows(taskRowColumns), task))
	mock.ExpectQuery(query).
		WithArgs(task.ID, other).
		WillReturnRows(sqlmock.NewRows(taskRowColumns))

	got, err := s.GetByID(context.Background(), task.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, task.ID, got.ID)
	assert.Equal(t, domain.TaskStatusPending, got.Status)
	assert.Nil(t, got.DueDate)

	_, err = s.GetByID(context.Background(), task.ID, other)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestPostgresTaskStore_GetByIDForUpdate_LocksRow(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostgresTaskStore(db, nil)
	task := newTestTask(uuid.New())

	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1 AND user_id = $2 FOR UPDATE")).
		WithArgs(task.ID, task.UserID).
		WillReturnRows(addTaskRow(sqlmock.NewRows(taskRowColumns), task))

	got, err := s.GetByIDForUpdate(context.Background(), task.ID, task.UserID)
	require.NoError(t, err)
	assert.Equal(t, task.Title, got.Title)
}

func TestPostgresTaskStore_ListByUser(t *testing.T) {
	userID := uuid.New()
	query := regexp.QuoteMeta("FROM tasks WHERE user_id = $1 ORDER BY created_at DESC, id")

	t.Run("returns rows in order", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPostgresTaskStore(db, nil)
		first := newTestTask(userID)
		second := newTestTask(userID)
		due := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
		second.DueDate = &due

		rows := sqlmock.NewRows(taskRowColumns)
		addTaskRow(rows, first)
		addTaskRow(rows, second)
		mock.ExpectQuery(query).WithArgs(userID).WillReturnRows(rows)

		tasks, err := s.ListByUser(context.Background(), userID)
		require.NoError(t, err)
		require.Len(t, tasks, 2)
		assert.Equal(t, first.ID, tasks[0].ID)
		require.NotNil(t, tasks[1].DueDate)
		assert.Equal(t, "2025-01-02", tasks[1].DueDate.Format(domain.DateLayout))
	})

	t.Run("empty result is an empty slice", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPostgresTaskStore(db, nil)
		mock.ExpectQuery(query).WithArgs(userID).WillReturnRows(sqlmock.NewRows(taskRowColumns))

		tasks, err := s.ListByUser(context.Background(), userID)
		require.NoError(t, err)
		assert.NotNil(t, tasks)
		assert.Empty(t, tasks)
	})
}

func TestPostgresTaskStore_Update(t *testing.T) {
	query := regexp.QuoteMeta("UPDATE tasks") + ".*" + regexp.QuoteMeta("WHERE id = $7 AND user_id = $8")

	t.Run("updates owned row", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPostgresTaskStore(db, nil)
		task := newTestTask(uuid.New())
		task.Title = "Renamed"

		mock.ExpectExec(query).
			WithArgs("Renamed", task.Description, "pending", "medium", nil, sqlmock.AnyArg(), task.ID, task.UserID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.Update(context.Background(), task))
	})

	t.Run("no matching row is not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPostgresTaskStore(db, nil)

		mock.ExpectExec(query).WillReturnResult(sqlmock.NewResult(0, 0))

		err := s.Update(context.Background(), newTestTask(uuid.New()))
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})
}

func TestPostgresTaskStore_UpdateStatus(t *testing.T) {
	query := regexp.QuoteMeta("UPDATE tasks SET status = $1, updated_at = $2 WHERE id = $3 AND user_id = $4")
	id, userID := uuid.New(), uuid.New()

	t.Run("sets status", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPostgresTaskStore(db, nil)
		mock.ExpectExec(query).
			WithArgs("completed", sqlmock.AnyArg(), id, userID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.UpdateStatus(context.Background(), id, userID, domain.TaskStatusCompleted))
	})

	t.Run("unknown status issues no statement", func(t *testing.T) {
		db, _ := newMockDB(t)
		s := NewPostgresTaskStore(db, nil)

		err := s.UpdateStatus(context.Background(), id, userID, domain.TaskStatus("done"))
		assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	})

	t.Run("other owner is not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPostgresTaskStore(db, nil)
		mock.ExpectExec(query).WillReturnResult(sqlmock.NewResult(0, 0))

		err := s.UpdateStatus(context.Background(), id, userID, domain.TaskStatusPending)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})
}

func TestPostgresTaskStore_UpdatePriority(t *testing.T) {
	query := regexp.QuoteMeta("UPDATE tasks SET priority = $1, updated_at = $2 WHERE id = $3 AND user_id = $4")
	id, userID := uuid.New(), uuid.New()

	db, mock := newMockDB(t)
	s := NewPostgresTaskStore(db, nil)
	mock.ExpectExec(query).
		WithArgs("high", sqlmock.AnyArg(), id, userID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.UpdatePriority(context.Background(), id, userID, domain.TaskPriorityHigh))
	assert.ErrorIs(t, s.UpdatePriority(context.Background(), id, userID, "urgent"), domain.ErrInvalidPriority)
}

func TestPostgresTaskStore_Delete(t *testing.T) {
	query := regexp.QuoteMeta("DELETE FROM tasks WHERE id = $1 AND user_id = $2")
	id, userID := uuid.New(), uuid.New()

	db, mock := newMockDB(t)
	s := NewPostgresTaskStore(db, nil)
	mock.ExpectExec(query).WithArgs(id, userID).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(query).WithArgs(id, userID).WillReturnResult(sqlmock.NewResult(0, 0))
	dbErr := errors.New("connection reset")
	mock.ExpectExec(query).WithArgs(id, userID).WillReturnError(dbErr)

	require.NoError(t, s.Delete(context.Background(), id, userID))
	assert.ErrorIs(t, s.Delete(context.Background(), id, userID), store.ErrTaskNotFound)
	assert.ErrorIs(t, s.Delete(context.Background(), id, userID), dbErr)
}

func TestPostgresTaskStore_Filter(t *testing.T) {
	userID := uuid.New()
	completed := domain.TaskStatusCompleted
	high := domain.TaskPriorityHigh

	tests := []struct {
		name  string
		f     store.TaskFilter
		where string
		args  []driver.Value
	}{
		{
			name:  "owner only",
			f:     store.TaskFilter{},
			where: "WHERE user_id = $1 ORDER BY created_at DESC, id",
			args:  []driver.Value{userID},
		},
		{
			name:  "status",
			f:     store.TaskFilter{Status: &completed},
			where: "WHERE user_id = $1 AND status = $2 ORDER BY",
			args:  []driver.Value{userID, "completed"},
		},
		{
			name:  "all predicates",
			f:     store.TaskFilter{Status: &completed, Priority: &high, Search: "50%_off"},
			where: `WHERE user_id = $1 AND status = $2 AND priority = $3 AND (title ILIKE $4 ESCAPE '\' OR description ILIKE $4 ESCAPE '\')`,
			args:  []driver.Value{userID, "completed", "high", `%50\%\_off%`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			s := NewPostgresTaskStore(db, nil)

			mock.ExpectQuery(regexp.QuoteMeta(tt.where)).
				WithArgs(tt.args...).
				WillReturnRows(sqlmock.NewRows(taskRowColumns))

			tasks, err := s.Filter(context.Background(), userID, tt.f)
			require.NoError(t, err)
			assert.Empty(t, tasks)
		})
	}

	t.Run("invalid status issues no statement", func(t *testing.T) {
		db, _ := newMockDB(t)
		s := NewPostgresTaskStore(db, nil)
		bad := domain.TaskStatus("pending' OR '1'='1")

		_, err := s.Filter(context.Background(), userID, store.TaskFilter{Status: &bad})
		assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	})
}

func TestPostgresTaskStore_Search(t *testing.T) {
	userID := uuid.New()
	due := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		q     store.TaskSearch
		query string
		args  []driver.Value
	}{
		{
			name:  "defaults",
			q:     store.TaskSearch{},
			query: "WHERE user_id = $1 ORDER BY created_at DESC NULLS LAST, id",
			args:  []driver.Value{userID},
		},
		{
			name:  "text and due date ascending by title",
			q:     store.TaskSearch{Query: "report", DueDate: &due, Sort: store.SortByTitle, Order: store.SortAsc},
			query: `WHERE user_id = $1 AND (title ILIKE $2 ESCAPE '\' OR description ILIKE $2 ESCAPE '\') AND due_date = $3 ORDER BY title ASC NULLS LAST, id`,
			args:  []driver.Value{userID, "%report%", "2025-06-01"},
		},
		{
			name:  "priority sorts by rank",
			q:     store.TaskSearch{Sort: store.SortByPriority, Order: store.SortDesc},
			query: "ORDER BY CASE priority WHEN 'low' THEN 1 WHEN 'medium' THEN 2 WHEN 'high' THEN 3 END DESC",
			args:  []driver.Value{userID},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			s := NewPostgresTaskStore(db, nil)
			task := newTestTask(userID)

			mock.ExpectQuery(regexp.QuoteMeta(tt.query)).
				WithArgs(tt.args...).
				WillReturnRows(addTaskRow(sqlmock.NewRows(taskRowColumns), task))

			tasks, err := s.Search(context.Background(), userID, tt.q)
			require.NoError(t, err)
			require.Len(t, tasks, 1)
			assert.Equal(t, task.ID, tasks[0].ID)
		})
	}

	t.Run("sort outside allow-list issues no statement", func(t *testing.T) {
		db, _ := newMockDB(t)
		s := NewPostgresTaskStore(db, nil)

		_, err := s.Search(context.Background(), userID, store.TaskSearch{Sort: "id; DROP TABLE tasks"})
		assert.ErrorIs(t, err, store.ErrInvalidSortField)

		_, err = s.Search(context.Background(), userID, store.TaskSearch{Order: "sideways"})
		assert.ErrorIs(t, err, store.ErrInvalidSortOrder)
	})
}

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%abc%", containsPattern("abc"))
	assert.Equal(t, `%a\%b\_c\\d%`, containsPattern(`a%b_c\d`))
}
