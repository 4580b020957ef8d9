package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/studyflow/studyflow-api/internal/domain"
	"github.com/studyflow/studyflow-api/internal/planner"
	"github.com/studyflow/studyflow-api/internal/store"
)

// TaskInput describes one task of a new plan as entered by the user.
type TaskInput struct {
	Name          string
	EstimatedTime int // in seconds
	Difficulty    string
}

// CreatePlanInput carries everything needed to create a plan.
// TotalDuration accepts the human-entered duration shapes understood by
// planner.ParseDuration ("H:MM:SS", "N days", bare seconds).
type CreatePlanInput struct {
	Name          string
	TotalDuration string
	Tasks         []TaskInput
}

// GenerationOutcome reports the secondary, best-effort generation step
// that follows a primary mutation. Callers log it; they never fail the
// primary action because of it.
type GenerationOutcome struct {
	Attempted bool
	Err       error
}

// UpdateResult is the two-phase result of a schedule status update: the
// updated execution plus the outcome of the conditional replan.
type UpdateResult struct {
	Execution *domain.DailyExecution
	Replan    GenerationOutcome
}

// ExecutionSummary is one day's entry in a progress report.
type ExecutionSummary struct {
	Date             time.Time             `json:"date"`
	Completed        bool                  `json:"completed"`
	TotalPlannedTime int                   `json:"total_planned_time"`
	TotalActualTime  int                   `json:"total_actual_time"`
	Tasks            []domain.ScheduleItem `json:"tasks"`
}

// PlanProgress aggregates how far a user has come on their current plan.
type PlanProgress struct {
	PlanName       string             `json:"plan_name"`
	Versions       int                `json:"versions"`
	TotalTasks     int                `json:"total_tasks"`
	CompletedTasks int                `json:"completed_tasks"`
	Executions     []ExecutionSummary `json:"executions"`
}

// PlanService provides plan-related operations for the API layer.
type PlanService interface {
	// CreatePlan creates a plan with version 1, makes it the user's
	// current plan, and triggers initial daily generation. Generation is
	// best-effort: its failure is logged but does not fail the creation.
	CreatePlan(ctx context.Context, userID uuid.UUID, input CreatePlanInput) (*domain.Plan, error)

	// CurrentPlan returns the user's current plan.
	// Returns ErrNoCurrentPlan if the user has none selected.
	CurrentPlan(ctx context.Context, userID uuid.UUID) (*domain.Plan, error)

	// TodayExecution returns today's daily execution for the user.
	// Returns ErrExecutionNotFound if today has no materialized schedule.
	TodayExecution(ctx context.Context, userID uuid.UUID) (*domain.DailyExecution, error)

	// UpdateScheduleItem updates the status (and optionally the actual
	// minutes) of one item in today's schedule, then conditionally
	// replans: if any item of today remains incomplete, a replan is
	// attempted and its outcome reported alongside the primary result.
	UpdateScheduleItem(
		ctx context.Context,
		userID, itemID uuid.UUID,
		status domain.TaskStatus,
		actualTime *int,
	) (*UpdateResult, error)

	// Progress reports version count, task completion, and per-day
	// execution summaries for the user's current plan.
	Progress(ctx context.Context, userID uuid.UUID) (*PlanProgress, error)
}

// planServiceImpl implements the PlanService interface.
type planServiceImpl struct {
	userStore store.UserStore
	planStore store.PlanStore
	execStore store.ExecutionStore
	generator GeneratorService
	streaks   *StreakService
	logger    *slog.Logger
	timeFunc  func() time.Time
}

// NewPlanService creates a new PlanService.
// The streak service is optional; all other dependencies are required.
func NewPlanService(
	userStore store.UserStore,
	planStore store.PlanStore,
	execStore store.ExecutionStore,
	generator GeneratorService,
	streaks *StreakService,
	logger *slog.Logger,
) (PlanService, error) {
	if userStore == nil {
		return nil, &ServiceError{Operation: "create_plan_service", Message: "userStore cannot be nil"}
	}
	if planStore == nil {
		return nil, &ServiceError{Operation: "create_plan_service", Message: "planStore cannot be nil"}
	}
	if execStore == nil {
		return nil, &ServiceError{Operation: "create_plan_service", Message: "execStore cannot be nil"}
	}
	if generator == nil {
		return nil, &ServiceError{Operation: "create_plan_service", Message: "generator cannot be nil"}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &planServiceImpl{
		userStore: userStore,
		planStore: planStore,
		execStore: execStore,
		generator: generator,
		streaks:   streaks,
		logger:    logger.With("component", "plan_service"),
		timeFunc:  time.Now,
	}, nil
}

// CreatePlan implements PlanService.CreatePlan.
func (s *planServiceImpl) CreatePlan(
	ctx context.Context,
	userID uuid.UUID,
	input CreatePlanInput,
) (*domain.Plan, error) {
	tasks := make([]domain.Task, 0, len(input.Tasks))
	for _, in := range input.Tasks {
		task, err := domain.NewTask(in.Name, in.EstimatedTime, domain.Difficulty(in.Difficulty))
		if err != nil {
			return nil, NewServiceError("create_plan", "invalid task", err)
		}
		tasks = append(tasks, task)
	}

	durationSeconds := planner.ParseDuration(input.TotalDuration)

	plan, err := domain.NewPlan(userID, input.Name, durationSeconds, tasks)
	if err != nil {
		return nil, NewServiceError("create_plan", "invalid plan", err)
	}

	if err := s.planStore.Create(ctx, plan); err != nil {
		return nil, NewServiceError("create_plan", "failed to save plan", err)
	}

	// Make it the user's current plan.
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, NewServiceError("create_plan", "failed to load user", err)
	}
	user.CurrentPlanID = &plan.ID
	if err := s.userStore.Update(ctx, user); err != nil {
		return nil, NewServiceError("create_plan", "failed to set current plan", err)
	}

	// Materialize the upcoming days. Best-effort: the plan exists either
	// way, and the caller can retrigger generation later.
	if err := s.generator.Generate(ctx, userID, plan.ID, false); err != nil {
		s.logger.Warn("initial daily generation failed",
			"error", err,
			"user_id", userID,
			"plan_id", plan.ID)
	}

	s.logger.Info("plan created",
		"plan_id", plan.ID,
		"user_id", userID,
		"total_duration", durationSeconds,
		"task_count", len(tasks))
	return plan, nil
}

// CurrentPlan implements PlanService.CurrentPlan.
func (s *planServiceImpl) CurrentPlan(ctx context.Context, userID uuid.UUID) (*domain.Plan, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return nil, NewServiceError("get_current_plan", "failed to load user", err)
	}
	if user.CurrentPlanID == nil {
		return nil, ErrNoCurrentPlan
	}

	plan, err := s.planStore.GetByID(ctx, *user.CurrentPlanID)
	if err != nil {
		return nil, NewServiceError("get_current_plan", "failed to load plan", err)
	}
	return plan, nil
}

// TodayExecution implements PlanService.TodayExecution.
func (s *planServiceImpl) TodayExecution(ctx context.Context, userID uuid.UUID) (*domain.DailyExecution, error) {
	today := midnight(s.timeFunc())

	exec, err := s.execStore.GetByUserAndDate(ctx, userID, today)
	if err != nil {
		return nil, NewServiceError("get_today_execution", "failed to load execution", err)
	}
	return exec, nil
}

// UpdateScheduleItem implements PlanService.UpdateScheduleItem.
func (s *planServiceImpl) UpdateScheduleItem(
	ctx context.Context,
	userID, itemID uuid.UUID,
	status domain.TaskStatus,
	actualTime *int,
) (*UpdateResult, error) {
	today := midnight(s.timeFunc())

	exec, err := s.execStore.GetByUserAndDate(ctx, userID, today)
	if err != nil {
		return nil, NewServiceError("update_schedule_item", "failed to load today's execution", err)
	}

	if err := exec.UpdateItem(itemID, status, actualTime); err != nil {
		return nil, NewServiceError("update_schedule_item", "failed to update schedule item", err)
	}

	if err := s.execStore.Update(ctx, exec); err != nil {
		return nil, NewServiceError("update_schedule_item", "failed to save execution", err)
	}

	// Streak bookkeeping is an optional side effect, never a failure.
	if status == domain.TaskStatusCompleted && s.streaks != nil {
		if err := s.streaks.RecordStudy(ctx, userID); err != nil {
			s.logger.Warn("streak update failed",
				"error", err,
				"user_id", userID)
		}
	}

	result := &UpdateResult{Execution: exec}

	// Conditional replan: any incomplete item left today triggers an
	// attempt to redistribute the unfinished work. The primary update has
	// already been committed, so a replan failure is only reported, not
	// propagated.
	if len(exec.IncompleteItems()) > 0 {
		result.Replan.Attempted = true
		if err := s.generator.Generate(ctx, userID, exec.PlanID, true); err != nil {
			result.Replan.Err = err
			s.logger.Warn("automatic replan failed",
				"error", err,
				"user_id", userID,
				"plan_id", exec.PlanID)
		}
	}

	return result, nil
}

// Progress implements PlanService.Progress.
func (s *planServiceImpl) Progress(ctx context.Context, userID uuid.UUID) (*PlanProgress, error) {
	plan, err := s.CurrentPlan(ctx, userID)
	if err != nil {
		return nil, err
	}

	executions, err := s.execStore.ListByPlan(ctx, userID, plan.ID)
	if err != nil {
		return nil, NewServiceError("get_progress", "failed to load executions", err)
	}

	current := plan.Current()
	completed := 0
	for _, t := range current.Tasks {
		if t.Completed {
			completed++
		}
	}

	// ListByPlan is date-descending; the report reads oldest first.
	summaries := make([]ExecutionSummary, 0, len(executions))
	for i := len(executions) - 1; i >= 0; i-- {
		exec := executions[i]
		summaries = append(summaries, ExecutionSummary{
			Date:             exec.Date,
			Completed:        exec.Completed,
			TotalPlannedTime: exec.TotalPlannedTime,
			TotalActualTime:  exec.TotalActualTime,
			Tasks:            exec.Schedule,
		})
	}

	return &PlanProgress{
		PlanName:       plan.Name,
		Versions:       len(plan.Versions),
		TotalTasks:     len(current.Tasks),
		CompletedTasks: completed,
		Executions:     summaries,
	}, nil
}
