package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/service"
)

// MockUserService implements service.UserService for handler tests.
type MockUserService struct {
	SignupFn  func(ctx context.Context, email, password, username string) (*domain.User, error)
	LoginFn   func(ctx context.Context, email, password string) (*domain.User, error)
	GetUserFn func(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

var _ service.UserService = (*MockUserService)(nil)

// Signup implements service.UserService
func (m *MockUserService) Signup(ctx context.Context, email, password, username string) (*domain.User, error) {
	return m.SignupFn(ctx, email, password, username)
}

// Login implements service.UserService
func (m *MockUserService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	return m.LoginFn(ctx, email, password)
}

// GetUser implements service.UserService
func (m *MockUserService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return m.GetUserFn(ctx, userID)
}

// MockTaskService implements service.TaskService for handler tests.
// Unset functions return Err.
type MockTaskService struct {
	CreateTaskFn         func(ctx context.Context, userID uuid.UUID, p service.CreateTaskParams) (*domain.Task, error)
	ListTasksFn          func(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)
	GetTaskFn            func(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error)
	UpdateTaskFn         func(ctx context.Context, userID, taskID uuid.UUID, p service.UpdateTaskParams) (*domain.Task, error)
	DeleteTaskFn         func(ctx context.Context, userID, taskID uuid.UUID) error
	UpdateTaskStatusFn   func(ctx context.Context, userID, taskID uuid.UUID, status string) (domain.TaskStatus, domain.TaskStatus, error)
	UpdateTaskPriorityFn func(ctx context.Context, userID, taskID uuid.UUID, priority string) (domain.TaskPriority, domain.TaskPriority, error)
	FilterTasksFn        func(ctx context.Context, userID uuid.UUID, p service.FilterTaskParams) ([]*domain.Task, error)
	SearchTasksFn        func(ctx context.Context, userID uuid.UUID, p service.SearchTaskParams) ([]*domain.Task, error)

	Err error
}

var _ service.TaskService = (*MockTaskService)(nil)

// CreateTask implements service.TaskService
func (m *MockTaskService) CreateTask(
	ctx context.Context,
	userID uuid.UUID,
	p service.CreateTaskParams,
) (*domain.Task, error) {
	if m.CreateTaskFn != nil {
		return m.CreateTaskFn(ctx, userID, p)
	}
	return nil, m.Err
}

// ListTasks implements service.TaskService
func (m *MockTaskService) ListTasks(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	if m.ListTasksFn != nil {
		return m.ListTasksFn(ctx, userID)
	}
	return nil, m.Err
}

// GetTask implements service.TaskService
func (m *MockTaskService) GetTask(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error) {
	if m.GetTaskFn != nil {
		return m.GetTaskFn(ctx, userID, taskID)
	}
	return nil, m.Err
}

// UpdateTask implements service.TaskService
func (m *MockTaskService) UpdateTask(
	ctx context.Context,
	userID, taskID uuid.UUID,
	p service.UpdateTaskParams,
) (*domain.Task, error) {
	if m.UpdateTaskFn != nil {
		return m.UpdateTaskFn(ctx, userID, taskID, p)
	}
	return nil, m.Err
}

// DeleteTask implements service.TaskService
func (m *MockTaskService) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error {
	if m.DeleteTaskFn != nil {
		return m.DeleteTaskFn(ctx, userID, taskID)
	}
	return m.Err
}

// UpdateTaskStatus implements service.TaskService
func (m *MockTaskService) UpdateTaskStatus(
	ctx context.Context,
	userID, taskID uuid.UUID,
	status string,
) (domain.TaskStatus, domain.TaskStatus, error) {
	if m.UpdateTaskStatusFn != nil {
		return m.UpdateTaskStatusFn(ctx, userID, taskID, status)
	}
	return "", "", m.Err
}

// UpdateTaskPriority implements service.TaskService
func (m *MockTaskService) UpdateTaskPriority(
	ctx context.Context,
	userID, taskID uuid.UUID,
	priority string,
) (domain.TaskPriority, domain.TaskPriority, error) {
	if m.UpdateTaskPriorityFn != nil {
		return m.UpdateTaskPriorityFn(ctx, userID, taskID, priority)
	}
	return "", "", m.Err
}

// FilterTasks implements service.TaskService
func (m *MockTaskService) FilterTasks(
	ctx context.Context,
	userID uuid.UUID,
	p service.FilterTaskParams,
) ([]*domain.Task, error) {
	if m.FilterTasksFn != nil {
		return m.FilterTasksFn(ctx, userID, p)
	}
	return nil, m.Err
}

// SearchTasks implements service.TaskService
func (m *MockTaskService) SearchTasks(
	ctx context.Context,
	userID uuid.UUID,
	p service.SearchTaskParams,
) ([]*domain.Task, error) {
	if m.SearchTasksFn != nil {
		return m.SearchTasksFn(ctx, userID, p)
	}
	return nil, m.Err
}
