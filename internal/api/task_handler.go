package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/tasktrack-api/internal/api/shared"
	"github.com/phrazzld/tasktrack-api/internal/platform/logger"
	"github.com/phrazzld/tasktrack-api/internal/service"
)

// TaskHandler handles the owner-scoped task endpoints.
type TaskHandler struct {
	taskService service.TaskService
	logger      *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService service.TaskService, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskHandler{
		taskService: taskService,
		logger:      logger.With(slog.String("component", "task_handler")),
	}
}

// CreateTask handles POST /api/tasks.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	user, ok := getAuthenticatedUser(w, r)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	task, err := h.taskService.CreateTask(r.Context(), user.ID, service.CreateTaskParams{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create task")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).
		Info("task created", slog.String("task_id", task.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, newTaskResponse(task))
}

// ListTasks handles GET /api/tasks.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	user, ok := getAuthenticatedUser(w, r)
	if !ok {
		return
	}

	tasks, err := h.taskService.ListTasks(r.Context(), user.ID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list tasks")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newTaskResponses(tasks))
}

// GetTask handles GET /api/tasks/{id}.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	user, taskID, ok := handleUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(r.Context(), user.ID, taskID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newTaskResponse(task))
}

// UpdateTask handles PUT /api/tasks/{id}.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	user, taskID, ok := handleUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	task, err := h.taskService.UpdateTask(r.Context(), user.ID, taskID, service.UpdateTaskParams{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newTaskResponse(task))
}

// DeleteTask handles DELETE /api/tasks/{id}.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	user, taskID, ok := handleUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(r.Context(), user.ID, taskID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete task")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).
		Info("task deleted", slog.String("task_id", taskID.String()))
	w.WriteHeader(http.StatusNoContent)
}

// UpdateTaskStatus handles PUT /api/tasks/{id}/status.
func (h *TaskHandler) UpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	user, taskID, ok := handleUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req StatusUpdateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	previous, current, err := h.taskService.UpdateTaskStatus(r.Context(), user.ID, taskID, req.Status)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update task status")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, StatusUpdateResponse{
		Message:        fmt.Sprintf("Task status updated from %s to %s", previous, current),
		PreviousStatus: previous,
		Status:         current,
	})
}

// UpdateTaskPriority handles PUT /api/tasks/{id}/priority.
func (h *TaskHandler) UpdateTaskPriority(w http.ResponseWriter, r *http.Request) {
	user, taskID, ok := handleUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req PriorityUpdateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	previous, current, err := h.taskService.UpdateTaskPriority(r.Context(), user.ID, taskID, req.Priority)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update task priority")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, PriorityUpdateResponse{
		Message:          fmt.Sprintf("Task priority updated from %s to %s", previous, current),
		PreviousPriority: previous,
		Priority:         current,
	})
}

// FilterTasks handles GET /api/tasks/filter?status=&priority=&search=.
func (h *TaskHandler) FilterTasks(w http.ResponseWriter, r *http.Request) {
	user, ok := getAuthenticatedUser(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	tasks, err := h.taskService.FilterTasks(r.Context(), user.ID, service.FilterTaskParams{
		Status:   q.Get("status"),
		Priority: q.Get("priority"),
		Search:   q.Get("search"),
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to filter tasks")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newTaskResponses(tasks))
}

// SearchTasks handles GET /api/tasks/search?q=&due_date=&sort=&order=.
func (h *TaskHandler) SearchTasks(w http.ResponseWriter, r *http.Request) {
	user, ok := getAuthenticatedUser(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	tasks, err := h.taskService.SearchTasks(r.Context(), user.ID, service.SearchTaskParams{
		Query:   q.Get("q"),
		DueDate: q.Get("due_date"),
		Sort:    q.Get("sort"),
		Order:   q.Get("order"),
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to search tasks")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newTaskResponses(tasks))
}
