package postgres

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

const taskColumns = `id, user_id, title, description, status, priority, due_date, created_at, updated_at`

// sortExpressions maps each allow-listed sort field to its ORDER BY expression.
// Enumerations sort by rank rather than alphabetically.
var sortExpressions = map[store.TaskSortField]string{
	store.SortByCreatedAt: "created_at",
	store.SortByUpdatedAt: "updated_at",
	store.SortByDueDate:   "due_date",
	store.SortByTitle:     "title",
	store.SortByPriority:  "CASE priority WHEN 'low' THEN 1 WHEN 'medium' THEN 2 WHEN 'high' THEN 3 END",
	store.SortByStatus:    "CASE status WHEN 'pending' THEN 1 WHEN 'in_progress' THEN 2 WHEN 'completed' THEN 3 END",
}

// likeEscaper escapes LIKE metacharacters so user input matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern turns a search term into a LIKE pattern matching it anywhere.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// WithTx implements store.TaskStore.WithTx
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.TaskStore.Create
// Returns store.ErrInvalidEntity if the owner does not exist.
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	query := `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		task.ID,
		task.UserID,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		nullDate(task.DueDate),
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during task creation",
				slog.String("task_id", task.ID.String()),
				slog.String("user_id", task.UserID.String()))
			return fmt.Errorf("%w: user with ID %s not found", store.ErrInvalidEntity, task.UserID)
		}
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return MapError(err)
	}

	log.Info("task created successfully",
		slog.String("task_id", task.ID.String()),
		slog.String("user_id", task.UserID.String()))
	return nil
}

// GetByID implements store.TaskStore.GetByID
func (s *PostgresTaskStore) GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND user_id = $2`
	return s.getOne(ctx, query, id, userID)
}

// GetByIDForUpdate implements store.TaskStore.GetByIDForUpdate
func (s *PostgresTaskStore) GetByIDForUpdate(ctx context.Context, id, userID uuid.UUID) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND user_id = $2 FOR UPDATE`
	return s.getOne(ctx, query, id, userID)
}

func (s *PostgresTaskStore) getOne(ctx context.Context, query string, id, userID uuid.UUID) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found",
				slog.String("task_id", id.String()),
				slog.String("user_id", userID.String()))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task by ID",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, MapError(err)
	}

	return task, nil
}

// ListByUser implements store.TaskStore.ListByUser
func (s *PostgresTaskStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1 ORDER BY created_at DESC, id`
	return s.queryTasks(ctx, query, userID)
}

// Update implements store.TaskStore.Update
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during update",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	task.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE tasks
		SET title = $1, description = $2, status = $3, priority = $4, due_date = $5, updated_at = $6
		WHERE id = $7 AND user_id = $8
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		nullDate(task.DueDate),
		task.UpdatedAt,
		task.ID,
		task.UserID,
	)
	if err != nil {
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrTaskNotFound); err != nil {
		if !errors.Is(err, store.ErrTaskNotFound) {
			log.Error("failed to get rows affected",
				slog.String("error", err.Error()),
				slog.String("task_id", task.ID.String()))
		}
		return err
	}

	log.Info("task updated successfully", slog.String("task_id", task.ID.String()))
	return nil
}

// UpdateStatus implements store.TaskStore.UpdateStatus
func (s *PostgresTaskStore) UpdateStatus(
	ctx context.Context,
	id, userID uuid.UUID,
	status domain.TaskStatus,
) error {
	if !status.IsValid() {
		return domain.ErrInvalidStatus
	}
	return s.updateField(ctx, "status", string(status), id, userID)
}

// UpdatePriority implements store.TaskStore.UpdatePriority
func (s *PostgresTaskStore) UpdatePriority(
	ctx context.Context,
	id, userID uuid.UUID,
	priority domain.TaskPriority,
) error {
	if !priority.IsValid() {
		return domain.ErrInvalidPriority
	}
	return s.updateField(ctx, "priority", string(priority), id, userID)
}

// updateField sets one enumerated column of an owned task.
// column is always a constant from this file.
func (s *PostgresTaskStore) updateField(
	ctx context.Context,
	column, value string,
	id, userID uuid.UUID,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `UPDATE tasks SET ` + column + ` = $1, updated_at = $2 WHERE id = $3 AND user_id = $4`
	result, err := s.db.ExecContext(ctx, query, value, time.Now().UTC(), id, userID)
	if err != nil {
		log.Error("failed to update task "+column,
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrTaskNotFound); err != nil {
		return err
	}

	log.Debug("task field updated",
		slog.String("task_id", id.String()),
		slog.String("field", column),
		slog.String("value", value))
	return nil
}

// Delete implements store.TaskStore.Delete
func (s *PostgresTaskStore) Delete(ctx context.Context, id, userID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrTaskNotFound); err != nil {
		return err
	}

	log.Info("task deleted successfully", slog.String("task_id", id.String()))
	return nil
}

// Filter implements store.TaskStore.Filter
func (s *PostgresTaskStore) Filter(
	ctx context.Context,
	userID uuid.UUID,
	f store.TaskFilter,
) ([]*domain.Task, error) {
	w := newWhereBuilder(userID)
	if f.Status != nil {
		if !f.Status.IsValid() {
			return nil, domain.ErrInvalidStatus
		}
		w.add("status = %s", string(*f.Status))
	}
	if f.Priority != nil {
		if !f.Priority.IsValid() {
			return nil, domain.ErrInvalidPriority
		}
		w.add("priority = %s", string(*f.Priority))
	}
	if f.Search != "" {
		w.addContains(f.Search)
	}

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE ` + w.String() + ` ORDER BY created_at DESC, id`
	return s.queryTasks(ctx, query, w.args...)
}

// Search implements store.TaskStore.Search
func (s *PostgresTaskStore) Search(
	ctx context.Context,
	userID uuid.UUID,
	q store.TaskSearch,
) ([]*domain.Task, error) {
	sortField := q.Sort
	if sortField == "" {
		sortField = store.DefaultSortField
	}
	orderBy, ok := sortExpressions[sortField]
	if !ok {
		return nil, store.ErrInvalidSortField
	}

	order := q.Order
	if order == "" {
		order = store.DefaultSortOrder
	}
	if !order.IsValid() {
		return nil, store.ErrInvalidSortOrder
	}
	direction := "ASC"
	if order == store.SortDesc {
		direction = "DESC"
	}

	w := newWhereBuilder(userID)
	if q.Query != "" {
		w.addContains(q.Query)
	}
	if q.DueDate != nil {
		w.add("due_date = %s", q.DueDate.Format(domain.DateLayout))
	}

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE ` + w.String() +
		` ORDER BY ` + orderBy + ` ` + direction + ` NULLS LAST, id`
	return s.queryTasks(ctx, query, w.args...)
}

func (s *PostgresTaskStore) queryTasks(ctx context.Context, query string, args ...any) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query tasks", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	tasks := []*domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			log.Error("failed to scan task row", slog.String("error", err.Error()))
			return nil, err
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	log.Debug("tasks queried", slog.Int("count", len(tasks)))
	return tasks, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		task     domain.Task
		status   string
		priority string
		dueDate  sql.NullTime
	)
	err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Description,
		&status,
		&priority,
		&dueDate,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	task.Status = domain.TaskStatus(status)
	task.Priority = domain.TaskPriority(priority)
	if dueDate.Valid {
		d := dueDate.Time.UTC()
		task.DueDate = &d
	}
	return &task, nil
}

func nullDate(d *time.Time) any {
	if d == nil {
		return nil
	}
	return d.Format(domain.DateLayout)
}

// whereBuilder accumulates ANDed predicates with numbered placeholders.
// The owner predicate is always first.
type whereBuilder struct {
	clauses []string
	args    []any
}

func newWhereBuilder(userID uuid.UUID) *whereBuilder {
	return &whereBuilder{
		clauses: []string{"user_id = $1"},
		args:    []any{userID},
	}
}

// add appends a predicate; format receives the placeholder for value.
func (w *whereBuilder) add(format string, value any) {
	w.args = append(w.args, value)
	w.clauses = append(w.clauses, fmt.Sprintf(format, fmt.Sprintf("$%d", len(w.args))))
}

// addContains matches term as a case-insensitive substring of title or description.
func (w *whereBuilder) addContains(term string) {
	w.args = append(w.args, containsPattern(term))
	p := fmt.Sprintf("$%d", len(w.args))
	w.clauses = append(w.clauses,
		fmt.Sprintf(`(title ILIKE %s ESCAPE '\' OR description ILIKE %s ESCAPE '\')`, p, p))
}

func (w *whereBuilder) String() string {
	return strings.Join(w.clauses, " AND ")
}
