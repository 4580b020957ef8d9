package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Execution-specific validation errors
var (
	// ErrExecutionIDEmpty is returned when an execution ID is empty or nil.
	ErrExecutionIDEmpty = errors.New("execution ID cannot be empty")

	// ErrExecutionUserIDEmpty is returned when an execution's user ID is empty or nil.
	ErrExecutionUserIDEmpty = errors.New("execution user ID cannot be empty")

	// ErrExecutionPlanIDEmpty is returned when an execution's plan ID is empty or nil.
	ErrExecutionPlanIDEmpty = errors.New("execution plan ID cannot be empty")

	// ErrExecutionVersionInvalid is returned when an execution's plan version
	// is zero or negative.
	ErrExecutionVersionInvalid = errors.New("execution plan version must be positive")

	// ErrExecutionDateZero is returned when an execution's date is unset.
	ErrExecutionDateZero = errors.New("execution date cannot be zero")

	// ErrScheduleItemNotFound is returned when a schedule item ID does not
	// match any item in the execution's schedule.
	ErrScheduleItemNotFound = errors.New("schedule item not found")
)

// ScheduleItem is one time-boxed slot in a day's schedule. It is created
// once by the schedule builder and afterwards only its Status and
// ActualTime change; items are never removed, so a day's execution is a
// permanent record.
type ScheduleItem struct {
	ID         uuid.UUID  `json:"id"`
	TaskID     uuid.UUID  `json:"task_id"`
	TaskName   string     `json:"task_name"`  // denormalized; task names can change across versions
	StartTime  string     `json:"start_time"` // HH:MM
	EndTime    string     `json:"end_time"`   // HH:MM
	Duration   int        `json:"duration"`   // in minutes
	Status     TaskStatus `json:"status"`
	ActualTime int        `json:"actual_time"` // in minutes
}

// DailyExecution is the materialized schedule for one calendar day.
// There is at most one execution per (user, day) regardless of plan.
// PlanVersion records the version the schedule was generated against and
// keeps reporting it even after that version is superseded.
type DailyExecution struct {
	ID               uuid.UUID      `json:"id"`
	UserID           uuid.UUID      `json:"user_id"`
	PlanID           uuid.UUID      `json:"plan_id"`
	PlanVersion      int            `json:"plan_version"`
	Date             time.Time      `json:"date"` // anchored to local midnight
	Schedule         []ScheduleItem `json:"schedule"`
	TotalPlannedTime int            `json:"total_planned_time"` // in minutes
	TotalActualTime  int            `json:"total_actual_time"`  // in minutes
	Completed        bool           `json:"completed"`
	CreatedAt        time.Time      `json:"created_at"`
}

// NewDailyExecution creates a DailyExecution for the given day and
// schedule. TotalPlannedTime is derived from the schedule items.
// Returns an error if validation fails.
func NewDailyExecution(
	userID, planID uuid.UUID,
	planVersion int,
	date time.Time,
	schedule []ScheduleItem,
) (*DailyExecution, error) {
	planned := 0
	for _, item := range schedule {
		planned += item.Duration
	}

	exec := &DailyExecution{
		ID:               uuid.New(),
		UserID:           userID,
		PlanID:           planID,
		PlanVersion:      planVersion,
		Date:             date,
		Schedule:         schedule,
		TotalPlannedTime: planned,
		CreatedAt:        time.Now().UTC(),
	}

	if err := exec.Validate(); err != nil {
		return nil, err
	}

	return exec, nil
}

// Validate checks if the DailyExecution has valid data.
// Returns an error if any field fails validation.
func (e *DailyExecution) Validate() error {
	if e.ID == uuid.Nil {
		return ErrExecutionIDEmpty
	}

	if e.UserID == uuid.Nil {
		return ErrExecutionUserIDEmpty
	}

	if e.PlanID == uuid.Nil {
		return ErrExecutionPlanIDEmpty
	}

	if e.PlanVersion <= 0 {
		return ErrExecutionVersionInvalid
	}

	if e.Date.IsZero() {
		return ErrExecutionDateZero
	}

	for _, item := range e.Schedule {
		if !isValidTaskStatus(item.Status) {
			return ErrInvalidTaskStatus
		}
	}

	return nil
}

// UpdateItem sets the status (and optionally actual minutes) of the
// schedule item with the given ID, then recomputes TotalActualTime and
// the day's Completed flag. Returns ErrScheduleItemNotFound if no item
// matches.
func (e *DailyExecution) UpdateItem(itemID uuid.UUID, status TaskStatus, actualTime *int) error {
	if !isValidTaskStatus(status) {
		return ErrInvalidTaskStatus
	}

	idx := -1
	for i := range e.Schedule {
		if e.Schedule[i].ID == itemID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrScheduleItemNotFound
	}

	e.Schedule[idx].Status = status
	if actualTime != nil {
		if *actualTime < 0 {
			return ErrTaskActualTimeInvalid
		}
		e.Schedule[idx].ActualTime = *actualTime
	}

	total := 0
	completed := true
	for _, item := range e.Schedule {
		total += item.ActualTime
		if item.Status != TaskStatusCompleted {
			completed = false
		}
	}
	e.TotalActualTime = total
	e.Completed = completed

	return nil
}

// IncompleteItems returns the schedule items whose status is anything
// other than completed.
func (e *DailyExecution) IncompleteItems() []ScheduleItem {
	var items []ScheduleItem
	for _, item := range e.Schedule {
		if item.Status != TaskStatusCompleted {
			items = append(items, item)
		}
	}
	return items
}
