package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/tasktrack-api/internal/api/shared"
	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/stretchr/testify/require"
)

// newJSONRequest builds a request whose body is body encoded as JSON.
// A string body is sent verbatim.
func newJSONRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// asUser attaches an authenticated caller to the request.
func asUser(req *http.Request, user shared.AuthenticatedUser) *http.Request {
	return req.WithContext(shared.WithUser(req.Context(), user))
}

// withURLParam adds a chi path parameter to the request.
func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(req.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decodeBody[shared.ErrorResponse](t, rec).Error
}

func testCaller() shared.AuthenticatedUser {
	return shared.AuthenticatedUser{ID: uuid.New(), Email: "a@x.com", Role: domain.RoleStudent}
}

func testTask(userID uuid.UUID) *domain.Task {
	due := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	return &domain.Task{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       "T1",
		Description: "first task",
		Status:      domain.TaskStatusPending,
		Priority:    domain.TaskPriorityMedium,
		DueDate:     &due,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
