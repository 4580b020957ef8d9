package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/studyflow/studyflow-api/internal/domain"
	"github.com/studyflow/studyflow-api/internal/planner"
	"github.com/studyflow/studyflow-api/internal/store"
)

// maxDaysAhead bounds how far into the future executions are
// materialized per generation call; replanning cost and storage stay
// bounded because each call writes at most a week.
const maxDaysAhead = 7

// GeneratorService is the entry point the rest of the system calls to
// (re)materialize daily executions for a plan.
type GeneratorService interface {
	// Generate materializes daily executions for the upcoming window of
	// the given plan. With isReplan set and at least one prior execution
	// on record, it first appends a new plan version that carries
	// forward and splits unfinished work.
	//
	// Generation is idempotent per day: days that already have an
	// execution are skipped, never overwritten. A persistence failure
	// aborts the call, but executions already written for earlier days
	// in the window stay committed.
	//
	// Returns ErrPlanNotFound if the plan does not exist.
	Generate(ctx context.Context, userID, planID uuid.UUID, isReplan bool) error
}

// generatorImpl implements the GeneratorService interface.
type generatorImpl struct {
	planStore store.PlanStore
	execStore store.ExecutionStore
	logger    *slog.Logger
	timeFunc  func() time.Time // injectable so tests can fix "today"

	// Per-plan locks serialize generation: two concurrent replans on the
	// same plan would race to append conflicting versions.
	mu        sync.Mutex
	planLocks map[uuid.UUID]*sync.Mutex
}

// NewGeneratorService creates a new GeneratorService.
// It returns an error if any of the required dependencies are nil.
func NewGeneratorService(
	planStore store.PlanStore,
	execStore store.ExecutionStore,
	logger *slog.Logger,
) (GeneratorService, error) {
	if planStore == nil {
		return nil, &ServiceError{Operation: "create_generator", Message: "planStore cannot be nil"}
	}
	if execStore == nil {
		return nil, &ServiceError{Operation: "create_generator", Message: "execStore cannot be nil"}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &generatorImpl{
		planStore: planStore,
		execStore: execStore,
		logger:    logger.With("component", "generator_service"),
		timeFunc:  time.Now,
		planLocks: map[uuid.UUID]*sync.Mutex{},
	}, nil
}

// lockPlan returns the mutex serializing generation for one plan.
func (g *generatorImpl) lockPlan(planID uuid.UUID) *sync.Mutex {
	g.mu.Lock()
	defer g.mu.Unlock()

	lock, ok := g.planLocks[planID]
	if !ok {
		lock = &sync.Mutex{}
		g.planLocks[planID] = lock
	}
	return lock
}

// Generate implements GeneratorService.Generate.
func (g *generatorImpl) Generate(ctx context.Context, userID, planID uuid.UUID, isReplan bool) error {
	lock := g.lockPlan(planID)
	lock.Lock()
	defer lock.Unlock()

	plan, err := g.planStore.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, store.ErrPlanNotFound) {
			return ErrPlanNotFound
		}
		return NewServiceError("generate_daily_plan", "failed to load plan", err)
	}

	executions, err := g.execStore.ListByPlan(ctx, userID, planID)
	if err != nil {
		return NewServiceError("generate_daily_plan", "failed to load prior executions", err)
	}

	var tasksToSchedule []domain.Task
	if isReplan && len(executions) > 0 {
		tasksToSchedule, err = g.replan(ctx, plan, executions[0])
		if err != nil {
			return err
		}
	} else {
		tasksToSchedule = notCompleted(plan.Current().Tasks)
	}

	totalDays := planner.DaySpan(plan.TotalDuration)
	startDate := midnight(g.timeFunc())
	buckets := planner.Distribute(tasksToSchedule, totalDays)

	window := totalDays
	if window > maxDaysAhead {
		window = maxDaysAhead
	}

	for day := 0; day < window; day++ {
		if len(buckets[day]) == 0 {
			continue
		}

		executionDate := startDate.AddDate(0, 0, day)
		schedule := planner.BuildSchedule(buckets[day], day == 0)

		exec, err := domain.NewDailyExecution(userID, plan.ID, plan.CurrentVersion, executionDate, schedule)
		if err != nil {
			return NewServiceError("generate_daily_plan", "failed to build daily execution", err)
		}

		err = g.execStore.Create(ctx, exec)
		if errors.Is(err, store.ErrExecutionExists) {
			// Idempotence: a day that is already materialized is never
			// overwritten.
			g.logger.Debug("execution already exists, skipping day",
				"user_id", userID,
				"date", executionDate)
			continue
		}
		if err != nil {
			// Earlier days in the window stay committed; generation is
			// at-least-partial-progress, not atomic.
			return NewServiceError("generate_daily_plan", "failed to persist daily execution", err)
		}
	}

	g.logger.Info("daily plan generated",
		"user_id", userID,
		"plan_id", planID,
		"plan_version", plan.CurrentVersion,
		"is_replan", isReplan,
		"total_days", totalDays)
	return nil
}

// replan appends a new plan version that carries forward unfinished work
// from the most recent execution, splitting oversized tasks, and returns
// the tasks the new version leaves to schedule.
func (g *generatorImpl) replan(
	ctx context.Context,
	plan *domain.Plan,
	lastExecution *domain.DailyExecution,
) ([]domain.Task, error) {
	current := plan.Current()
	tasks := make([]domain.Task, len(current.Tasks))
	copy(tasks, current.Tasks)

	// Flag every task whose schedule item was left incomplete.
	incomplete := map[uuid.UUID]bool{}
	for _, item := range lastExecution.IncompleteItems() {
		incomplete[item.TaskID] = true
	}
	for i := range tasks {
		if incomplete[tasks[i].ID] {
			tasks[i].CarriedForward = true
		}
	}

	// Persist the flags on the active version before superseding it.
	if err := g.planStore.UpdateVersionTasks(ctx, plan.ID, current.Version, tasks); err != nil {
		return nil, NewServiceError("generate_daily_plan", "failed to flag carried-forward tasks", err)
	}

	var candidates []domain.Task
	for _, t := range tasks {
		if t.CarriedForward || t.Status != domain.TaskStatusCompleted {
			candidates = append(candidates, t)
		}
	}

	adjusted := planner.SplitOversized(candidates)

	newVersion := domain.PlanVersion{
		Version:       plan.CurrentVersion + 1,
		Tasks:         adjusted,
		TotalDuration: plan.TotalDuration,
		Reason:        domain.ReasonAutomaticAdaptation,
		CreatedAt:     g.timeFunc().UTC(),
	}

	if err := plan.AppendVersion(newVersion); err != nil {
		return nil, NewServiceError("generate_daily_plan", "failed to append plan version", err)
	}
	if err := g.planStore.AppendVersion(ctx, plan.ID, newVersion); err != nil {
		return nil, NewServiceError("generate_daily_plan", "failed to persist plan version", err)
	}

	g.logger.Info("plan adapted for incomplete tasks",
		"plan_id", plan.ID,
		"new_version", newVersion.Version,
		"task_count", len(adjusted))

	return notCompleted(adjusted), nil
}

// notCompleted filters out tasks already marked completed.
func notCompleted(tasks []domain.Task) []domain.Task {
	var out []domain.Task
	for _, t := range tasks {
		if !t.Completed {
			out = append(out, t)
		}
	}
	return out
}

// midnight strips the time-of-day portion, anchoring to local midnight.
func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
