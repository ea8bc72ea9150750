package mocks

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/store"
)

// MockTaskStore implements store.TaskStore as an owner-scoped in-memory store.
// Set Err to make every call fail with it.
type MockTaskStore struct {
	Tasks map[uuid.UUID]*domain.Task
	Err   error

	mu sync.Mutex
}

// NewMockTaskStore creates an empty in-memory task store.
func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{Tasks: make(map[uuid.UUID]*domain.Task)}
}

var _ store.TaskStore = (*MockTaskStore)(nil)

func (m *MockTaskStore) owned(id, userID uuid.UUID) (*domain.Task, error) {
	task, ok := m.Tasks[id]
	if !ok || task.UserID != userID {
		return nil, store.ErrTaskNotFound
	}
	return task, nil
}

// Create implements store.TaskStore.Create
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if err := task.Validate(); err != nil {
		return err
	}
	copied := *task
	m.Tasks[task.ID] = &copied
	return nil
}

// GetByID implements store.TaskStore.GetByID
func (m *MockTaskStore) GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	task, err := m.owned(id, userID)
	if err != nil {
		return nil, err
	}
	copied := *task
	return &copied, nil
}

// GetByIDForUpdate implements store.TaskStore.GetByIDForUpdate
func (m *MockTaskStore) GetByIDForUpdate(ctx context.Context, id, userID uuid.UUID) (*domain.Task, error) {
	return m.GetByID(ctx, id, userID)
}

// ListByUser implements store.TaskStore.ListByUser
func (m *MockTaskStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	return m.collect(userID, func(*domain.Task) bool { return true }, store.SortByCreatedAt, store.SortDesc)
}

// Update implements store.TaskStore.Update
func (m *MockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if _, err := m.owned(task.ID, task.UserID); err != nil {
		return err
	}
	task.UpdatedAt = time.Now().UTC()
	copied := *task
	m.Tasks[task.ID] = &copied
	return nil
}

// UpdateStatus implements store.TaskStore.UpdateStatus
func (m *MockTaskStore) UpdateStatus(ctx context.Context, id, userID uuid.UUID, status domain.TaskStatus) error {
	if !status.IsValid() {
		return domain.ErrInvalidStatus
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	task, err := m.owned(id, userID)
	if err != nil {
		return err
	}
	task.Status = status
	task.UpdatedAt = time.Now().UTC()
	return nil
}

// UpdatePriority implements store.TaskStore.UpdatePriority
func (m *MockTaskStore) UpdatePriority(
	ctx context.Context,
	id, userID uuid.UUID,
	priority domain.TaskPriority,
) error {
	if !priority.IsValid() {
		return domain.ErrInvalidPriority
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	task, err := m.owned(id, userID)
	if err != nil {
		return err
	}
	task.Priority = priority
	task.UpdatedAt = time.Now().UTC()
	return nil
}

// Delete implements store.TaskStore.Delete
func (m *MockTaskStore) Delete(ctx context.Context, id, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if _, err := m.owned(id, userID); err != nil {
		return err
	}
	delete(m.Tasks, id)
	return nil
}

// Filter implements store.TaskStore.Filter
func (m *MockTaskStore) Filter(ctx context.Context, userID uuid.UUID, f store.TaskFilter) ([]*domain.Task, error) {
	return m.collect(userID, func(t *domain.Task) bool {
		if f.Status != nil && t.Status != *f.Status {
			return false
		}
		if f.Priority != nil && t.Priority != *f.Priority {
			return false
		}
		return contains(t, f.Search)
	}, store.SortByCreatedAt, store.SortDesc)
}

// Search implements store.TaskStore.Search
func (m *MockTaskStore) Search(ctx context.Context, userID uuid.UUID, s store.TaskSearch) ([]*domain.Task, error) {
	sortField, order := s.Sort, s.Order
	if sortField == "" {
		sortField = store.DefaultSortField
	}
	if order == "" {
		order = store.DefaultSortOrder
	}
	if !sortField.IsValid() {
		return nil, store.ErrInvalidSortField
	}
	if !order.IsValid() {
		return nil, store.ErrInvalidSortOrder
	}
	return m.collect(userID, func(t *domain.Task) bool {
		if s.DueDate != nil && (t.DueDate == nil || !t.DueDate.Equal(*s.DueDate)) {
			return false
		}
		return contains(t, s.Query)
	}, sortField, order)
}

// WithTx implements store.TaskStore.WithTx
func (m *MockTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return m
}

func contains(t *domain.Task, term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(t.Title), term) ||
		strings.Contains(strings.ToLower(t.Description), term)
}

func (m *MockTaskStore) collect(
	userID uuid.UUID,
	match func(*domain.Task) bool,
	field store.TaskSortField,
	order store.SortOrder,
) ([]*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	tasks := []*domain.Task{}
	for _, t := range m.Tasks {
		if t.UserID == userID && match(t) {
			copied := *t
			tasks = append(tasks, &copied)
		}
	}

	less := func(a, b *domain.Task) bool {
		switch field {
		case store.SortByTitle:
			return a.Title < b.Title
		case store.SortByUpdatedAt:
			return a.UpdatedAt.Before(b.UpdatedAt)
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		if order == store.SortDesc {
			return less(tasks[j], tasks[i])
		}
		return less(tasks[i], tasks[j])
	})
	return tasks, nil
}
