package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/platform/logger"
	"github.com/phrazzld/tasktrack-api/internal/store"
)

// TaskServiceError wraps unexpected errors from the task service with context.
type TaskServiceError struct {
	// Operation is the operation that failed (e.g., "update_task", "update_status")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for TaskServiceError.
func (e *TaskServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("task service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("task service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *TaskServiceError) Unwrap() error {
	return e.Err
}

// NewTaskServiceError creates a new TaskServiceError.
func NewTaskServiceError(operation, message string, err error) *TaskServiceError {
	return &TaskServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// CreateTaskParams carries the raw fields of a new task.
// Empty Status and Priority select the defaults.
type CreateTaskParams struct {
	Title       string
	Description string
	Status      string
	Priority    string
	DueDate     string
}

// UpdateTaskParams carries the fields of an update. Nil fields keep their
// stored value; an empty DueDate clears it.
type UpdateTaskParams struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	DueDate     *string
}

// FilterTaskParams carries the raw query of a filter request.
type FilterTaskParams struct {
	Status   string
	Priority string
	Search   string
}

// SearchTaskParams carries the raw query of a search request.
type SearchTaskParams struct {
	Query   string
	DueDate string
	Sort    string
	Order   string
}

// TaskService provides owner-scoped task operations.
// Every method takes the authenticated caller's ID; tasks of other users
// are reported as store.ErrTaskNotFound.
type TaskService interface {
	CreateTask(ctx context.Context, userID uuid.UUID, params CreateTaskParams) (*domain.Task, error)
	ListTasks(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)
	GetTask(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error)
	UpdateTask(ctx context.Context, userID, taskID uuid.UUID, params UpdateTaskParams) (*domain.Task, error)
	DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error

	// UpdateTaskStatus sets the status and returns the value it replaced
	// together with the value it wrote.
	// Unknown values fail with domain.ErrInvalidStatus before any database access.
	UpdateTaskStatus(
		ctx context.Context,
		userID, taskID uuid.UUID,
		status string,
	) (previous, current domain.TaskStatus, err error)

	// UpdateTaskPriority sets the priority and returns the value it replaced
	// together with the value it wrote.
	// Unknown values fail with domain.ErrInvalidPriority before any database access.
	UpdateTaskPriority(
		ctx context.Context,
		userID, taskID uuid.UUID,
		priority string,
	) (previous, current domain.TaskPriority, err error)

	FilterTasks(ctx context.Context, userID uuid.UUID, params FilterTaskParams) ([]*domain.Task, error)
	SearchTasks(ctx context.Context, userID uuid.UUID, params SearchTaskParams) ([]*domain.Task, error)
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	taskStore store.TaskStore
	db        *sql.DB
	logger    *slog.Logger
}

// NewTaskService creates a new TaskService.
// It returns an error if any of the required dependencies are nil.
func NewTaskService(taskStore store.TaskStore, db *sql.DB, logger *slog.Logger) (TaskService, error) {
	if taskStore == nil {
		return nil, domain.NewValidationError("taskStore", "cannot be nil", domain.ErrValidation)
	}
	if db == nil {
		return nil, domain.NewValidationError("db", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		taskStore: taskStore,
		db:        db,
		logger:    logger.With(slog.String("component", "task_service")),
	}, nil
}

// wrap passes expected conditions through unchanged and wraps everything else.
func wrap(operation, message string, err error) error {
	if errors.Is(err, store.ErrNotFound) || errors.Is(err, domain.ErrValidation) {
		return err
	}
	return NewTaskServiceError(operation, message, err)
}

// CreateTask implements TaskService.CreateTask
func (s *taskServiceImpl) CreateTask(
	ctx context.Context,
	userID uuid.UUID,
	params CreateTaskParams,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var (
		status   domain.TaskStatus
		priority domain.TaskPriority
		err      error
	)
	if strings.TrimSpace(params.Status) != "" {
		if status, err = domain.ParseTaskStatus(params.Status); err != nil {
			return nil, err
		}
	}
	if strings.TrimSpace(params.Priority) != "" {
		if priority, err = domain.ParseTaskPriority(params.Priority); err != nil {
			return nil, err
		}
	}
	dueDate, err := domain.ParseDueDate(params.DueDate)
	if err != nil {
		return nil, err
	}

	task, err := domain.NewTask(userID, params.Title, params.Description, status, priority, dueDate)
	if err != nil {
		return nil, err
	}

	if err := s.taskStore.Create(ctx, task); err != nil {
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, wrap("create_task", "failed to save task", err)
	}

	return task, nil
}

// ListTasks implements TaskService.ListTasks
func (s *taskServiceImpl) ListTasks(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	tasks, err := s.taskStore.ListByUser(ctx, userID)
	if err != nil {
		return nil, wrap("list_tasks", "failed to list tasks", err)
	}
	return tasks, nil
}

// GetTask implements TaskService.GetTask
func (s *taskServiceImpl) GetTask(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error) {
	task, err := s.taskStore.GetByID(ctx, taskID, userID)
	if err != nil {
		return nil, wrap("get_task", "failed to get task", err)
	}
	return task, nil
}

// UpdateTask implements TaskService.UpdateTask
// The read, merge and write run in one transaction with the row locked.
func (s *taskServiceImpl) UpdateTask(
	ctx context.Context,
	userID, taskID uuid.UUID,
	params UpdateTaskParams,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var updated *domain.Task
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.taskStore.WithTx(tx)

		task, err := txStore.GetByIDForUpdate(ctx, taskID, userID)
		if err != nil {
			return err
		}

		if err := applyUpdate(task, params); err != nil {
			return err
		}
		task.UpdatedAt = time.Now().UTC()
		if err := task.Validate(); err != nil {
			return err
		}

		if err := txStore.Update(ctx, task); err != nil {
			return err
		}
		updated = task
		return nil
	})
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) && !errors.Is(err, domain.ErrValidation) {
			log.Error("failed to update task",
				slog.String("error", err.Error()),
				slog.String("task_id", taskID.String()))
		}
		return nil, wrap("update_task", "failed to update task", err)
	}

	return updated, nil
}

func applyUpdate(task *domain.Task, params UpdateTaskParams) error {
	if params.Title != nil {
		task.Title = strings.TrimSpace(*params.Title)
	}
	if params.Description != nil {
		task.Description = *params.Description
	}
	if params.Status != nil {
		status, err := domain.ParseTaskStatus(*params.Status)
		if err != nil {
			return err
		}
		task.Status = status
	}
	if params.Priority != nil {
		priority, err := domain.ParseTaskPriority(*params.Priority)
		if err != nil {
			return err
		}
		task.Priority = priority
	}
	if params.DueDate != nil {
		dueDate, err := domain.ParseDueDate(*params.DueDate)
		if err != nil {
			return err
		}
		task.DueDate = dueDate
	}
	return nil
}

// DeleteTask implements TaskService.DeleteTask
func (s *taskServiceImpl) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error {
	if err := s.taskStore.Delete(ctx, taskID, userID); err != nil {
		return wrap("delete_task", "failed to delete task", err)
	}
	return nil
}

// UpdateTaskStatus implements TaskService.UpdateTaskStatus
func (s *taskServiceImpl) UpdateTaskStatus(
	ctx context.Context,
	userID, taskID uuid.UUID,
	raw string,
) (domain.TaskStatus, domain.TaskStatus, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	status, err := domain.ParseTaskStatus(raw)
	if err != nil {
		return "", "", err
	}

	var previous domain.TaskStatus
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.taskStore.WithTx(tx)

		task, err := txStore.GetByIDForUpdate(ctx, taskID, userID)
		if err != nil {
			return err
		}
		previous = task.Status

		return txStore.UpdateStatus(ctx, taskID, userID, status)
	})
	if err != nil {
		return "", "", wrap("update_status", "failed to update task status", err)
	}

	log.Info("task status updated",
		slog.String("task_id", taskID.String()),
		slog.String("previous_status", string(previous)),
		slog.String("status", string(status)))
	return previous, status, nil
}

// UpdateTaskPriority implements TaskService.UpdateTaskPriority
func (s *taskServiceImpl) UpdateTaskPriority(
	ctx context.Context,
	userID, taskID uuid.UUID,
	raw string,
) (domain.TaskPriority, domain.TaskPriority, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	priority, err := domain.ParseTaskPriority(raw)
	if err != nil {
		return "", "", err
	}

	var previous domain.TaskPriority
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.taskStore.WithTx(tx)

		task, err := txStore.GetByIDForUpdate(ctx, taskID, userID)
		if err != nil {
			return err
		}
		previous = task.Priority

		return txStore.UpdatePriority(ctx, taskID, userID, priority)
	})
	if err != nil {
		return "", "", wrap("update_priority", "failed to update task priority", err)
	}

	log.Info("task priority updated",
		slog.String("task_id", taskID.String()),
		slog.String("previous_priority", string(previous)),
		slog.String("priority", string(priority)))
	return previous, priority, nil
}

// FilterTasks implements TaskService.FilterTasks
func (s *taskServiceImpl) FilterTasks(
	ctx context.Context,
	userID uuid.UUID,
	params FilterTaskParams,
) ([]*domain.Task, error) {
	var filter store.TaskFilter

	if strings.TrimSpace(params.Status) != "" {
		status, err := domain.ParseTaskStatus(params.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = &status
	}
	if strings.TrimSpace(params.Priority) != "" {
		priority, err := domain.ParseTaskPriority(params.Priority)
		if err != nil {
			return nil, err
		}
		filter.Priority = &priority
	}
	filter.Search = strings.TrimSpace(params.Search)

	tasks, err := s.taskStore.Filter(ctx, userID, filter)
	if err != nil {
		return nil, wrap("filter_tasks", "failed to filter tasks", err)
	}
	return tasks, nil
}

// SearchTasks implements TaskService.SearchTasks
func (s *taskServiceImpl) SearchTasks(
	ctx context.Context,
	userID uuid.UUID,
	params SearchTaskParams,
) ([]*domain.Task, error) {
	sortField, order, err := store.ParseTaskSort(params.Sort, params.Order)
	if err != nil {
		return nil, err
	}
	dueDate, err := domain.ParseDueDate(params.DueDate)
	if err != nil {
		return nil, err
	}

	tasks, err := s.taskStore.Search(ctx, userID, store.TaskSearch{
		Query:   strings.TrimSpace(params.Query),
		DueDate: dueDate,
		Sort:    sortField,
		Order:   order,
	})
	if err != nil {
		return nil, wrap("search_tasks", "failed to search tasks", err)
	}
	return tasks, nil
}
