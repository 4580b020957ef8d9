package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studyflow/studyflow-api/internal/api/shared"
	"github.com/studyflow/studyflow-api/internal/domain"
	"github.com/studyflow/studyflow-api/internal/service"
)

// withUser attaches an authenticated user ID to the request context the
// way the auth middleware would.
func withUser(r *http.Request, userID uuid.UUID) *http.Request {
	ctx := context.WithValue(r.Context(), shared.UserIDContextKey, userID)
	return r.WithContext(ctx)
}

func testPlan(t *testing.T, userID uuid.UUID) *domain.Plan {
	t.Helper()

	task, err := domain.NewTask("Read chapter", 1800, domain.DifficultyHigh)
	require.NoError(t, err)
	plan, err := domain.NewPlan(userID, "Exam prep", 7200, []domain.Task{task})
	require.NoError(t, err)
	return plan
}

func TestPlanHandler_CreatePlan(t *testing.T) {
	userID := uuid.New()

	t.Run("success", func(t *testing.T) {
		svc := &stubPlanService{
			createPlanFn: func(ctx context.Context, gotUser uuid.UUID, input service.CreatePlanInput) (*domain.Plan, error) {
				assert.Equal(t, userID, gotUser)
				assert.Equal(t, "Exam prep", input.Name)
				assert.Equal(t, "2:00:00", input.TotalDuration)
				require.Len(t, input.Tasks, 1)
				return testPlan(t, gotUser), nil
			},
		}
		handler := NewPlanHandler(svc)

		body := `{
			"name": "Exam prep",
			"total_duration": "2:00:00",
			"tasks": [{"name": "Read chapter", "estimated_time": 1800, "difficulty": "high"}]
		}`
		req := withUser(httptest.NewRequest(http.MethodPost, "/api/plans", strings.NewReader(body)), userID)
		rr := httptest.NewRecorder()

		handler.CreatePlan(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
		var got domain.Plan
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.Equal(t, "Exam prep", got.Name)
		assert.Equal(t, 1, got.CurrentVersion)
	})

	t.Run("missing user", func(t *testing.T) {
		handler := NewPlanHandler(&stubPlanService{})

		req := httptest.NewRequest(http.MethodPost, "/api/plans", strings.NewReader(`{}`))
		rr := httptest.NewRecorder()

		handler.CreatePlan(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		handler := NewPlanHandler(&stubPlanService{})

		req := withUser(httptest.NewRequest(http.MethodPost, "/api/plans", strings.NewReader(`{not json`)), userID)
		rr := httptest.NewRecorder()

		handler.CreatePlan(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("missing tasks rejected", func(t *testing.T) {
		handler := NewPlanHandler(&stubPlanService{})

		body := `{"name": "Exam prep", "total_duration": "1 day", "tasks": []}`
		req := withUser(httptest.NewRequest(http.MethodPost, "/api/plans", strings.NewReader(body)), userID)
		rr := httptest.NewRecorder()

		handler.CreatePlan(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestPlanHandler_GetCurrentPlan(t *testing.T) {
	userID := uuid.New()

	t.Run("success", func(t *testing.T) {
		svc := &stubPlanService{
			currentPlanFn: func(ctx context.Context, gotUser uuid.UUID) (*domain.Plan, error) {
				return testPlan(t, gotUser), nil
			},
		}
		handler := NewPlanHandler(svc)

		req := withUser(httptest.NewRequest(http.MethodGet, "/api/plans/current", nil), userID)
		rr := httptest.NewRecorder()

		handler.GetCurrentPlan(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("no current plan", func(t *testing.T) {
		svc := &stubPlanService{
			currentPlanFn: func(ctx context.Context, gotUser uuid.UUID) (*domain.Plan, error) {
				return nil, service.ErrNoCurrentPlan
			},
		}
		handler := NewPlanHandler(svc)

		req := withUser(httptest.NewRequest(http.MethodGet, "/api/plans/current", nil), userID)
		rr := httptest.NewRecorder()

		handler.GetCurrentPlan(rr, req)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestPlanHandler_GetTodayExecution(t *testing.T) {
	userID := uuid.New()

	t.Run("not materialized", func(t *testing.T) {
		svc := &stubPlanService{
			todayFn: func(ctx context.Context, gotUser uuid.UUID) (*domain.DailyExecution, error) {
				return nil, service.ErrExecutionNotFound
			},
		}
		handler := NewPlanHandler(svc)

		req := withUser(httptest.NewRequest(http.MethodGet, "/api/executions/today", nil), userID)
		rr := httptest.NewRecorder()

		handler.GetTodayExecution(rr, req)
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("success", func(t *testing.T) {
		plan := testPlan(t, userID)
		date := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
		exec, err := domain.NewDailyExecution(userID, plan.ID, 1, date, nil)
		require.NoError(t, err)

		svc := &stubPlanService{
			todayFn: func(ctx context.Context, gotUser uuid.UUID) (*domain.DailyExecution, error) {
				return exec, nil
			},
		}
		handler := NewPlanHandler(svc)

		req := withUser(httptest.NewRequest(http.MethodGet, "/api/executions/today", nil), userID)
		rr := httptest.NewRecorder()

		handler.GetTodayExecution(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
	})
}

func TestPlanHandler_UpdateScheduleItem(t *testing.T) {
	userID := uuid.New()
	itemID := uuid.New()

	newRouter := func(svc service.PlanService) http.Handler {
		r := chi.NewRouter()
		handler := NewPlanHandler(svc)
		r.Put("/api/executions/today/items/{itemID}", func(w http.ResponseWriter, req *http.Request) {
			handler.UpdateScheduleItem(w, withUser(req, userID))
		})
		return r
	}

	t.Run("success with replan", func(t *testing.T) {
		plan := testPlan(t, userID)
		date := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
		exec, err := domain.NewDailyExecution(userID, plan.ID, 1, date, nil)
		require.NoError(t, err)

		svc := &stubPlanService{
			updateItemFn: func(ctx context.Context, gotUser, gotItem uuid.UUID, status domain.TaskStatus, actualTime *int) (*service.UpdateResult, error) {
				assert.Equal(t, itemID, gotItem)
				assert.Equal(t, domain.TaskStatusPartial, status)
				require.NotNil(t, actualTime)
				assert.Equal(t, 20, *actualTime)
				return &service.UpdateResult{
					Execution: exec,
					Replan:    service.GenerationOutcome{Attempted: true},
				}, nil
			},
		}

		body := `{"status": "partial", "actual_time": 20}`
		req := httptest.NewRequest(
			http.MethodPut,
			"/api/executions/today/items/"+itemID.String(),
			strings.NewReader(body),
		)
		rr := httptest.NewRecorder()
		newRouter(svc).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var got struct {
			Replanned bool `json:"replanned"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
		assert.True(t, got.Replanned)
	})

	t.Run("invalid item id", func(t *testing.T) {
		req := httptest.NewRequest(
			http.MethodPut,
			"/api/executions/today/items/not-a-uuid",
			strings.NewReader(`{"status": "completed"}`),
		)
		rr := httptest.NewRecorder()
		newRouter(&stubPlanService{}).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("invalid status", func(t *testing.T) {
		req := httptest.NewRequest(
			http.MethodPut,
			"/api/executions/today/items/"+itemID.String(),
			strings.NewReader(`{"status": "done"}`),
		)
		rr := httptest.NewRecorder()
		newRouter(&stubPlanService{}).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("unknown item", func(t *testing.T) {
		svc := &stubPlanService{
			updateItemFn: func(ctx context.Context, gotUser, gotItem uuid.UUID, status domain.TaskStatus, actualTime *int) (*service.UpdateResult, error) {
				return nil, domain.ErrScheduleItemNotFound
			},
		}

		req := httptest.NewRequest(
			http.MethodPut,
			"/api/executions/today/items/"+itemID.String(),
			strings.NewReader(`{"status": "completed"}`),
		)
		rr := httptest.NewRecorder()
		newRouter(svc).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestPlanHandler_GetProgress(t *testing.T) {
	userID := uuid.New()

	svc := &stubPlanService{
		progressFn: func(ctx context.Context, gotUser uuid.UUID) (*service.PlanProgress, error) {
			return &service.PlanProgress{
				PlanName:       "Exam prep",
				Versions:       2,
				TotalTasks:     4,
				CompletedTasks: 1,
			}, nil
		},
	}
	handler := NewPlanHandler(svc)

	req := withUser(httptest.NewRequest(http.MethodGet, "/api/plans/progress", nil), userID)
	rr := httptest.NewRecorder()

	handler.GetProgress(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var got service.PlanProgress
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "Exam prep", got.PlanName)
	assert.Equal(t, 2, got.Versions)
}
