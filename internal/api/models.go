package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasktrack-api/internal/domain"
)

// SignupRequest defines the payload for the user registration endpoint.
type SignupRequest struct {
	Email    string `json:"email"              validate:"required,max=255,email"`
	Password string `json:"password"           validate:"required,max=72"`
	Username string `json:"username,omitempty" validate:"omitempty,max=255"`
}

// SignupResponse defines the successful response for the registration endpoint.
type SignupResponse struct {
	Message string    `json:"message"`
	UserID  uuid.UUID `json:"user_id"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserResponse is the public view of a user record.
type UserResponse struct {
	ID       uuid.UUID   `json:"id"`
	Email    string      `json:"email"`
	Username string      `json:"username,omitempty"`
	Role     domain.Role `json:"role"`
}

// LoginResponse defines the successful response for the login endpoint.
type LoginResponse struct {
	// Token is the JWT used for API authorization
	Token string `json:"token"`

	// ExpiresAt is the RFC 3339 timestamp when the token expires
	ExpiresAt string `json:"expires_at"`

	User UserResponse `json:"user"`
}

// CreateTaskRequest defines the payload for creating a task.
// Status and priority default to pending and medium when omitted; their
// values are checked by the domain parsers, as on update.
type CreateTaskRequest struct {
	Title       string `json:"title"       validate:"required,max=255"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	DueDate     string `json:"due_date"    validate:"omitempty,datetime=2006-01-02"`
}

// UpdateTaskRequest defines the payload for updating a task.
// Omitted fields keep their stored value; an empty due_date clears it.
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
	DueDate     *string `json:"due_date"`
}

// StatusUpdateRequest defines the payload for the status endpoint.
type StatusUpdateRequest struct {
	Status string `json:"status" validate:"required"`
}

// StatusUpdateResponse reports a status change together with the replaced value.
type StatusUpdateResponse struct {
	Message        string            `json:"message"`
	PreviousStatus domain.TaskStatus `json:"previous_status"`
	Status         domain.TaskStatus `json:"status"`
}

// PriorityUpdateRequest defines the payload for the priority endpoint.
type PriorityUpdateRequest struct {
	Priority string `json:"priority" validate:"required"`
}

// PriorityUpdateResponse reports a priority change together with the replaced value.
type PriorityUpdateResponse struct {
	Message          string              `json:"message"`
	PreviousPriority domain.TaskPriority `json:"previous_priority"`
	Priority         domain.TaskPriority `json:"priority"`
}

// TaskResponse is the wire form of a task.
type TaskResponse struct {
	ID          uuid.UUID           `json:"id"`
	UserID      uuid.UUID           `json:"user_id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      domain.TaskStatus   `json:"status"`
	Priority    domain.TaskPriority `json:"priority"`
	DueDate     *string             `json:"due_date"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// MessageResponse is the payload of the demo endpoints.
type MessageResponse struct {
	Message string        `json:"message"`
	User    *UserResponse `json:"user,omitempty"`
}

func newUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:       user.ID,
		Email:    user.Email,
		Username: user.Username,
		Role:     user.Role,
	}
}

func newTaskResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		UserID:      task.UserID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
		DueDate:     domain.FormatDueDate(task.DueDate),
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

func newTaskResponses(tasks []*domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, newTaskResponse(task))
	}
	return out
}
