package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Difficulty represents how hard a study task is expected to be.
type Difficulty string

// Possible task difficulty levels
const (
	DifficultyLow    Difficulty = "low"
	DifficultyMedium Difficulty = "medium"
	DifficultyHigh   Difficulty = "high"
)

// Rank returns a numeric weight for difficulty ordering.
// Higher means harder; used to front-load hard work onto earlier days.
func (d Difficulty) Rank() int {
	switch d {
	case DifficultyHigh:
		return 3
	case DifficultyMedium:
		return 2
	case DifficultyLow:
		return 1
	default:
		return 0
	}
}

// TaskStatus represents the execution state of a task.
type TaskStatus string

// Possible task status values
const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusPartial   TaskStatus = "partial"
	TaskStatusMissed    TaskStatus = "missed"
)

// Task-specific validation errors
var (
	// ErrTaskIDEmpty is returned when a task ID is empty or nil.
	ErrTaskIDEmpty = errors.New("task ID cannot be empty")

	// ErrTaskNameEmpty is returned when a task's name is empty.
	ErrTaskNameEmpty = errors.New("task name cannot be empty")

	// ErrTaskEstimatedTimeInvalid is returned when a task's estimated time
	// is zero or negative.
	ErrTaskEstimatedTimeInvalid = errors.New("task estimated time must be positive")

	// ErrTaskActualTimeInvalid is returned when a task's actual time is negative.
	ErrTaskActualTimeInvalid = errors.New("task actual time cannot be negative")
)

// Task is a single unit of study work embedded in a plan version.
// Task identity is stable within a version: the ID is generated once
// and carried through carry-forward so execution records can always be
// matched back to the task they were scheduled from.
type Task struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	EstimatedTime  int        `json:"estimated_time"` // in seconds
	Difficulty     Difficulty `json:"difficulty"`
	Completed      bool       `json:"completed"`
	Status         TaskStatus `json:"status"`
	ActualTime     int        `json:"actual_time"` // in seconds
	CarriedForward bool       `json:"carried_forward"`
}

// NewTask creates a new pending Task with the given name, estimated time
// in seconds, and difficulty. An empty difficulty defaults to medium.
// Returns an error if validation fails.
func NewTask(name string, estimatedTime int, difficulty Difficulty) (Task, error) {
	if difficulty == "" {
		difficulty = DifficultyMedium
	}

	task := Task{
		ID:            uuid.New(),
		Name:          name,
		EstimatedTime: estimatedTime,
		Difficulty:    difficulty,
		Status:        TaskStatusPending,
	}

	if err := task.Validate(); err != nil {
		return Task{}, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrTaskIDEmpty
	}

	if t.Name == "" {
		return ErrTaskNameEmpty
	}

	if t.EstimatedTime <= 0 {
		return ErrTaskEstimatedTimeInvalid
	}

	if !isValidDifficulty(t.Difficulty) {
		return ErrInvalidDifficulty
	}

	if !isValidTaskStatus(t.Status) {
		return ErrInvalidTaskStatus
	}

	if t.ActualTime < 0 {
		return ErrTaskActualTimeInvalid
	}

	return nil
}

// isValidDifficulty checks if the given difficulty is a known level.
func isValidDifficulty(d Difficulty) bool {
	switch d {
	case DifficultyLow, DifficultyMedium, DifficultyHigh:
		return true
	default:
		return false
	}
}

// isValidTaskStatus checks if the given status is a valid TaskStatus.
func isValidTaskStatus(s TaskStatus) bool {
	switch s {
	case TaskStatusPending, TaskStatusCompleted, TaskStatusPartial, TaskStatusMissed:
		return true
	default:
		return false
	}
}

// Plan version reasons recorded in the version history.
const (
	// ReasonInitialPlan marks version 1, created with the plan itself.
	ReasonInitialPlan = "Initial plan creation"

	// ReasonAutomaticAdaptation marks versions appended by the generator
	// when prior-day work was left incomplete.
	ReasonAutomaticAdaptation = "Automatic adaptation due to incomplete tasks"
)

// PlanVersion is one immutable snapshot of a plan's task list.
// Once a newer version exists, the only permitted mutation of an older
// version is flagging tasks as carried forward just before it is
// superseded.
type PlanVersion struct {
	Version       int       `json:"version"`
	Tasks         []Task    `json:"tasks"`
	TotalDuration int       `json:"total_duration"` // in seconds
	Reason        string    `json:"reason"`
	CreatedAt     time.Time `json:"created_at"`
}

// Plan-specific validation errors
var (
	// ErrPlanIDEmpty is returned when a plan ID is empty or nil.
	ErrPlanIDEmpty = errors.New("plan ID cannot be empty")

	// ErrPlanUserIDEmpty is returned when a plan's user ID is empty or nil.
	ErrPlanUserIDEmpty = errors.New("plan user ID cannot be empty")

	// ErrPlanNameEmpty is returned when a plan's name is empty.
	ErrPlanNameEmpty = errors.New("plan name cannot be empty")

	// ErrPlanDurationInvalid is returned when a plan's total duration is
	// zero or negative.
	ErrPlanDurationInvalid = errors.New("plan total duration must be positive")

	// ErrPlanVersionsEmpty is returned when a plan has no versions.
	ErrPlanVersionsEmpty = errors.New("plan must have at least one version")
)

// Plan is the versioned container for a user's full task list and time
// budget. Versions form an append-only history with contiguous numbers
// starting at 1; CurrentVersion always equals the last version number.
type Plan struct {
	ID             uuid.UUID     `json:"id"`
	UserID         uuid.UUID     `json:"user_id"`
	Name           string        `json:"name"`
	TotalDuration  int           `json:"total_duration"` // in seconds
	CurrentVersion int           `json:"current_version"`
	Versions       []PlanVersion `json:"versions"`
	Active         bool          `json:"active"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// NewPlan creates a new Plan for the given user with version 1 holding
// the provided tasks. The total duration is in seconds.
// Returns an error if validation fails.
func NewPlan(userID uuid.UUID, name string, totalDuration int, tasks []Task) (*Plan, error) {
	now := time.Now().UTC()

	plan := &Plan{
		ID:             uuid.New(),
		UserID:         userID,
		Name:           name,
		TotalDuration:  totalDuration,
		CurrentVersion: 1,
		Versions: []PlanVersion{
			{
				Version:       1,
				Tasks:         tasks,
				TotalDuration: totalDuration,
				Reason:        ReasonInitialPlan,
				CreatedAt:     now,
			},
		},
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := plan.Validate(); err != nil {
		return nil, err
	}

	return plan, nil
}

// Validate checks the Plan and its version-history invariants.
// Returns an error if any field or invariant fails validation.
func (p *Plan) Validate() error {
	if p.ID == uuid.Nil {
		return ErrPlanIDEmpty
	}

	if p.UserID == uuid.Nil {
		return ErrPlanUserIDEmpty
	}

	if p.Name == "" {
		return ErrPlanNameEmpty
	}

	if p.TotalDuration <= 0 {
		return ErrPlanDurationInvalid
	}

	if len(p.Versions) == 0 {
		return ErrPlanVersionsEmpty
	}

	for i, v := range p.Versions {
		if v.Version != i+1 {
			return ErrVersionNotContiguous
		}
		for _, t := range v.Tasks {
			if err := t.Validate(); err != nil {
				return err
			}
		}
	}

	if p.CurrentVersion != p.Versions[len(p.Versions)-1].Version {
		return ErrVersionNotContiguous
	}

	return nil
}

// Current returns the active (most recent) plan version.
// The plan must hold at least one version; NewPlan and AppendVersion
// preserve that invariant.
func (p *Plan) Current() *PlanVersion {
	return &p.Versions[len(p.Versions)-1]
}

// AppendVersion appends a new version to the plan's history and advances
// CurrentVersion. The version number must be exactly CurrentVersion+1.
// Returns ErrVersionNotContiguous otherwise.
func (p *Plan) AppendVersion(v PlanVersion) error {
	if v.Version != p.CurrentVersion+1 {
		return ErrVersionNotContiguous
	}

	for _, t := range v.Tasks {
		if err := t.Validate(); err != nil {
			return err
		}
	}

	p.Versions = append(p.Versions, v)
	p.CurrentVersion = v.Version
	p.UpdatedAt = time.Now().UTC()
	return nil
}
