package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studyflow/studyflow-api/internal/domain"
)

// fixedNow is an arbitrary mid-plan instant used to pin "today" in tests.
var fixedNow = time.Date(2025, time.March, 10, 14, 30, 0, 0, time.UTC)

func newTestGenerator(
	t *testing.T,
	planStore *fakePlanStore,
	execStore *fakeExecutionStore,
) *generatorImpl {
	t.Helper()

	svc, err := NewGeneratorService(planStore, execStore, slog.Default())
	require.NoError(t, err)

	gen := svc.(*generatorImpl)
	gen.timeFunc = func() time.Time { return fixedNow }
	return gen
}

func mustTask(t *testing.T, name string, seconds int, difficulty domain.Difficulty) domain.Task {
	t.Helper()
	task, err := domain.NewTask(name, seconds, difficulty)
	require.NoError(t, err)
	return task
}

func TestGeneratorService_Generate_InitialPlan(t *testing.T) {
	planStore := newFakePlanStore()
	execStore := newFakeExecutionStore()
	gen := newTestGenerator(t, planStore, execStore)

	userID := uuid.New()
	tasks := []domain.Task{
		mustTask(t, "Read chapter", 1800, domain.DifficultyHigh),
		mustTask(t, "Practice problems", 1800, domain.DifficultyMedium),
		mustTask(t, "Flashcards", 1800, domain.DifficultyLow),
	}
	plan, err := domain.NewPlan(userID, "Exam prep", 7200, tasks)
	require.NoError(t, err)
	require.NoError(t, planStore.Create(context.Background(), plan))

	err = gen.Generate(context.Background(), userID, plan.ID, false)
	require.NoError(t, err)

	// A two-hour plan spans a single day, so exactly one execution exists.
	exec, err := execStore.GetByUserAndDate(context.Background(), userID, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, plan.ID, exec.PlanID)
	assert.Equal(t, 1, exec.PlanVersion)
	assert.Equal(t, time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC), exec.Date)

	require.Len(t, exec.Schedule, 3)
	assert.Equal(t, "Read chapter", exec.Schedule[0].TaskName)
	assert.Equal(t, "Practice problems", exec.Schedule[1].TaskName)
	assert.Equal(t, "Flashcards", exec.Schedule[2].TaskName)

	assert.Equal(t, "09:00", exec.Schedule[0].StartTime)
	assert.Equal(t, "09:30", exec.Schedule[0].EndTime)
	assert.Equal(t, "09:30", exec.Schedule[1].StartTime)
	assert.Equal(t, "10:00", exec.Schedule[1].EndTime)
	assert.Equal(t, "10:00", exec.Schedule[2].StartTime)
	assert.Equal(t, "10:30", exec.Schedule[2].EndTime)

	assert.Equal(t, 90, exec.TotalPlannedTime)
	assert.False(t, exec.Completed)
}

func TestGeneratorService_Generate_Idempotent(t *testing.T) {
	planStore := newFakePlanStore()
	execStore := newFakeExecutionStore()
	gen := newTestGenerator(t, planStore, execStore)

	userID := uuid.New()
	plan, err := domain.NewPlan(userID, "Exam prep", 7200, []domain.Task{
		mustTask(t, "Read chapter", 1800, domain.DifficultyHigh),
	})
	require.NoError(t, err)
	require.NoError(t, planStore.Create(context.Background(), plan))

	require.NoError(t, gen.Generate(context.Background(), userID, plan.ID, false))

	first, err := execStore.GetByUserAndDate(context.Background(), userID, fixedNow)
	require.NoError(t, err)

	// A second run skips the already materialized day untouched.
	require.NoError(t, gen.Generate(context.Background(), userID, plan.ID, false))

	second, err := execStore.GetByUserAndDate(context.Background(), userID, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, execStore.execs, 1)
}

func TestGeneratorService_Generate_PlanNotFound(t *testing.T) {
	gen := newTestGenerator(t, newFakePlanStore(), newFakeExecutionStore())

	err := gen.Generate(context.Background(), uuid.New(), uuid.New(), false)
	assert.ErrorIs(t, err, ErrPlanNotFound)
}

func TestGeneratorService_Generate_Replan(t *testing.T) {
	planStore := newFakePlanStore()
	execStore := newFakeExecutionStore()
	gen := newTestGenerator(t, planStore, execStore)

	userID := uuid.New()
	bigTask := mustTask(t, "Deep work", 10800, domain.DifficultyHigh)
	doneTask := mustTask(t, "Warmup", 1800, domain.DifficultyLow)
	doneTask.Status = domain.TaskStatusCompleted
	doneTask.Completed = true

	plan, err := domain.NewPlan(userID, "Two day sprint", 172800, []domain.Task{bigTask, doneTask})
	require.NoError(t, err)
	require.NoError(t, planStore.Create(context.Background(), plan))

	// Today already has an execution whose big-task slot was left pending.
	today := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	exec, err := domain.NewDailyExecution(userID, plan.ID, 1, today, []domain.ScheduleItem{
		{
			ID:       uuid.New(),
			TaskID:   bigTask.ID,
			TaskName: bigTask.Name,
			Duration: 180,
			Status:   domain.TaskStatusPending,
		},
	})
	require.NoError(t, err)
	require.NoError(t, execStore.Create(context.Background(), exec))

	err = gen.Generate(context.Background(), userID, plan.ID, true)
	require.NoError(t, err)

	stored, err := planStore.GetByID(context.Background(), plan.ID)
	require.NoError(t, err)

	// The unfinished task is flagged on the superseded version.
	require.Len(t, stored.Versions, 2)
	v1 := stored.Versions[0]
	require.Equal(t, bigTask.ID, v1.Tasks[0].ID)
	assert.True(t, v1.Tasks[0].CarriedForward)

	// The new version splits the three-hour task into hour-long parts and
	// drops the completed one.
	assert.Equal(t, 2, stored.CurrentVersion)
	v2 := stored.Versions[1]
	assert.Equal(t, domain.ReasonAutomaticAdaptation, v2.Reason)
	require.Len(t, v2.Tasks, 3)
	for i, part := range v2.Tasks {
		assert.Equal(t, fmt.Sprintf("Deep work (Part %d)", i+1), part.Name)
		assert.Equal(t, 3600, part.EstimatedTime)
		assert.True(t, part.CarriedForward)
		assert.Equal(t, domain.DifficultyHigh, part.Difficulty)
	}

	// Today's execution is preserved; only the not-yet-materialized day of
	// the two-day window gets a fresh schedule.
	todayExec, err := execStore.GetByUserAndDate(context.Background(), userID, today)
	require.NoError(t, err)
	assert.Equal(t, exec.ID, todayExec.ID)
	assert.Equal(t, 1, todayExec.PlanVersion)

	tomorrow, err := execStore.GetByUserAndDate(context.Background(), userID, today.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, 2, tomorrow.PlanVersion)
	require.Len(t, tomorrow.Schedule, 1)
	assert.Equal(t, 60, tomorrow.Schedule[0].Duration)
}

func TestGeneratorService_Generate_PartialPersistFailure(t *testing.T) {
	planStore := newFakePlanStore()
	execStore := newFakeExecutionStore()
	gen := newTestGenerator(t, planStore, execStore)

	userID := uuid.New()
	plan, err := domain.NewPlan(userID, "Three day sprint", 259200, []domain.Task{
		mustTask(t, "Day one work", 1800, domain.DifficultyHigh),
		mustTask(t, "Day two work", 1800, domain.DifficultyMedium),
		mustTask(t, "Day three work", 1800, domain.DifficultyLow),
	})
	require.NoError(t, err)
	require.NoError(t, planStore.Create(context.Background(), plan))

	execStore.failOnCreate = 2
	execStore.createErr = errors.New("connection reset")

	err = gen.Generate(context.Background(), userID, plan.ID, false)
	require.Error(t, err)

	// The day written before the failure stays committed.
	assert.Len(t, execStore.execs, 1)
	_, err = execStore.GetByUserAndDate(context.Background(), userID, fixedNow)
	assert.NoError(t, err)
}
