package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasktrack-api/internal/domain"
)

// TaskSortField is a column that task search results may be ordered by.
type TaskSortField string

// Allowed sort fields. The value doubles as the column name.
const (
	SortByCreatedAt TaskSortField = "created_at"
	SortByUpdatedAt TaskSortField = "updated_at"
	SortByDueDate   TaskSortField = "due_date"
	SortByTitle     TaskSortField = "title"
	SortByPriority  TaskSortField = "priority"
	SortByStatus    TaskSortField = "status"
)

// SortOrder is the direction of a task search ordering.
type SortOrder string

// Allowed sort orders.
const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Defaults applied when a search does not name a sort.
const (
	DefaultSortField = SortByCreatedAt
	DefaultSortOrder = SortDesc
)

var (
	ErrInvalidSortField = fmt.Errorf(
		"%w: sort must be one of created_at, updated_at, due_date, title, priority, status",
		domain.ErrInvalidValue,
	)
	ErrInvalidSortOrder = fmt.Errorf("%w: order must be asc or desc", domain.ErrInvalidValue)
)

// IsValid reports whether f is in the sort allow-list.
func (f TaskSortField) IsValid() bool {
	switch f {
	case SortByCreatedAt, SortByUpdatedAt, SortByDueDate, SortByTitle, SortByPriority, SortByStatus:
		return true
	}
	return false
}

// IsValid reports whether o is asc or desc.
func (o SortOrder) IsValid() bool {
	return o == SortAsc || o == SortDesc
}

// ParseTaskSort validates raw sort and order values against the allow-lists.
// Empty values fall back to DefaultSortField and DefaultSortOrder.
func ParseTaskSort(sort, order string) (TaskSortField, SortOrder, error) {
	field := TaskSortField(strings.ToLower(strings.TrimSpace(sort)))
	if field == "" {
		field = DefaultSortField
	}
	if !field.IsValid() {
		return "", "", ErrInvalidSortField
	}

	dir := SortOrder(strings.ToLower(strings.TrimSpace(order)))
	if dir == "" {
		dir = DefaultSortOrder
	}
	if !dir.IsValid() {
		return "", "", ErrInvalidSortOrder
	}

	return field, dir, nil
}

// TaskFilter holds the optional predicates of a filter request.
// Nil or empty fields are not applied.
type TaskFilter struct {
	Status   *domain.TaskStatus
	Priority *domain.TaskPriority
	Search   string
}

// TaskSearch holds the parameters of a search request.
type TaskSearch struct {
	Query   string
	DueDate *time.Time
	Sort    TaskSortField
	Order   SortOrder
}

// TaskStore defines the interface for task data persistence.
// Every read and write is scoped to the owning user; a task owned by
// someone else behaves exactly like a missing one.
type TaskStore interface {
	// Create saves a new task to the store.
	// Returns validation errors from the domain Task if data is invalid.
	// Returns ErrInvalidEntity if the owner does not exist.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by ID for its owner.
	// Returns ErrTaskNotFound if the task does not exist or is not owned by userID.
	GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.Task, error)

	// GetByIDForUpdate is GetByID with a row lock held until the surrounding
	// transaction ends. It must be called on a store bound with WithTx.
	GetByIDForUpdate(ctx context.Context, id, userID uuid.UUID) (*domain.Task, error)

	// ListByUser returns all tasks of userID, newest first.
	// Returns an empty slice if the user has no tasks.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)

	// Update saves all mutable fields of the task and refreshes UpdatedAt.
	// The update is scoped to task.UserID.
	// Returns ErrTaskNotFound if no owned row matched.
	Update(ctx context.Context, task *domain.Task) error

	// UpdateStatus sets the status of an owned task.
	// Returns domain.ErrInvalidStatus without touching the database for unknown values.
	UpdateStatus(ctx context.Context, id, userID uuid.UUID, status domain.TaskStatus) error

	// UpdatePriority sets the priority of an owned task.
	// Returns domain.ErrInvalidPriority without touching the database for unknown values.
	UpdatePriority(ctx context.Context, id, userID uuid.UUID, priority domain.TaskPriority) error

	// Delete removes an owned task.
	// Returns ErrTaskNotFound if no owned row matched.
	Delete(ctx context.Context, id, userID uuid.UUID) error

	// Filter returns the owner's tasks matching every set predicate of f, newest first.
	Filter(ctx context.Context, userID uuid.UUID, f TaskFilter) ([]*domain.Task, error)

	// Search returns the owner's tasks matching s, ordered by s.Sort and s.Order.
	// Returns ErrInvalidSortField or ErrInvalidSortOrder for values outside the allow-lists.
	Search(ctx context.Context, userID uuid.UUID, s TaskSearch) ([]*domain.Task, error)

	// WithTx returns a new TaskStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) TaskStore
}
