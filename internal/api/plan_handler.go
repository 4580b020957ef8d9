package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/studyflow/studyflow-api/internal/api/shared"
	"github.com/studyflow/studyflow-api/internal/domain"
	"github.com/studyflow/studyflow-api/internal/service"
)

// PlanHandler handles plan and daily-schedule HTTP requests
type PlanHandler struct {
	planService service.PlanService
	validator   *validator.Validate
}

// NewPlanHandler creates a new PlanHandler
func NewPlanHandler(planService service.PlanService) *PlanHandler {
	return &PlanHandler{
		planService: planService,
		validator:   validator.New(),
	}
}

// CreatePlan handles POST /api/plans requests
func (h *PlanHandler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req CreatePlanRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	input := service.CreatePlanInput{
		Name:          req.Name,
		TotalDuration: req.TotalDuration,
	}
	for _, t := range req.Tasks {
		input.Tasks = append(input.Tasks, service.TaskInput{
			Name:          t.Name,
			EstimatedTime: t.EstimatedTime,
			Difficulty:    t.Difficulty,
		})
	}

	plan, err := h.planService.CreatePlan(r.Context(), userID, input)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) || isDomainValidationError(err) {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid plan data")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to create plan", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, plan)
}

// GetCurrentPlan handles GET /api/plans/current requests
func (h *PlanHandler) GetCurrentPlan(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	plan, err := h.planService.CurrentPlan(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoCurrentPlan), errors.Is(err, service.ErrPlanNotFound):
			shared.RespondWithError(w, r, http.StatusNotFound, "No current plan")
		default:
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to load plan", err)
		}
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, plan)
}

// GetProgress handles GET /api/plans/progress requests
func (h *PlanHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	progress, err := h.planService.Progress(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoCurrentPlan), errors.Is(err, service.ErrPlanNotFound):
			shared.RespondWithError(w, r, http.StatusNotFound, "No current plan")
		default:
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to load progress", err)
		}
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, progress)
}

// GetTodayExecution handles GET /api/executions/today requests
func (h *PlanHandler) GetTodayExecution(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	exec, err := h.planService.TodayExecution(r.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrExecutionNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "No schedule for today")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to load schedule", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, exec)
}

// UpdateScheduleItem handles PATCH /api/executions/today/items/{itemID} requests
func (h *PlanHandler) UpdateScheduleItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	itemID, err := uuid.Parse(chi.URLParam(r, "itemID"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid item ID")
		return
	}

	var req UpdateScheduleItemRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	result, err := h.planService.UpdateScheduleItem(
		r.Context(),
		userID,
		itemID,
		domain.TaskStatus(req.Status),
		req.ActualTime,
	)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrExecutionNotFound):
			shared.RespondWithError(w, r, http.StatusNotFound, "No schedule for today")
		case errors.Is(err, domain.ErrScheduleItemNotFound):
			shared.RespondWithError(w, r, http.StatusNotFound, "Schedule item not found")
		case errors.Is(err, domain.ErrInvalidTaskStatus), errors.Is(err, domain.ErrTaskActualTimeInvalid):
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid status update")
		default:
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to update schedule", err)
		}
		return
	}

	// The update succeeded even when the follow-up replan did not; the
	// replanned flag tells the client whether a fresh plan version exists.
	shared.RespondWithJSON(w, r, http.StatusOK, struct {
		Execution *domain.DailyExecution `json:"execution"`
		Replanned bool                   `json:"replanned"`
	}{
		Execution: result.Execution,
		Replanned: result.Replan.Attempted && result.Replan.Err == nil,
	})
}

// requireUserID extracts the authenticated user ID set by the auth
// middleware, responding 401 if it is missing.
func requireUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return uuid.Nil, false
	}
	return userID, true
}

// isDomainValidationError reports whether err is one of the domain's
// field validation sentinels.
func isDomainValidationError(err error) bool {
	for _, sentinel := range []error{
		domain.ErrTaskNameEmpty,
		domain.ErrTaskEstimatedTimeInvalid,
		domain.ErrInvalidDifficulty,
		domain.ErrPlanNameEmpty,
		domain.ErrPlanDurationInvalid,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
