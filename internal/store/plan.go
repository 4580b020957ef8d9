package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/studyflow/studyflow-api/internal/domain"
)

// PlanStore defines the interface for plan and plan-version persistence.
//
// Plan versions are an append-only history: there is no delete
// operation, and implementations must preserve the contiguous 1..N
// version numbering of each plan.
type PlanStore interface {
	// Create saves a new plan together with its initial version.
	// Implementations must persist the plan row and version 1 atomically.
	// Returns validation errors if the plan data is invalid.
	Create(ctx context.Context, plan *domain.Plan) error

	// GetByID retrieves a plan with its full version history, versions
	// ordered ascending. Returns ErrPlanNotFound if the plan does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Plan, error)

	// AppendVersion appends a new version to the plan's history and
	// advances the plan's current version pointer. Implementations must
	// perform both writes atomically and enforce contiguity: the new
	// version number must be exactly the stored current version plus one.
	// Returns ErrVersionConflict otherwise, and ErrPlanNotFound if the
	// plan does not exist.
	AppendVersion(ctx context.Context, planID uuid.UUID, version domain.PlanVersion) error

	// UpdateVersionTasks replaces the task list of an existing version.
	// This is only legitimate for flagging tasks as carried forward on
	// the active version just before a new version supersedes it; any
	// other post-hoc edit of a version's tasks violates the immutability
	// contract. Returns ErrPlanNotFound if the plan or version does not
	// exist.
	UpdateVersionTasks(ctx context.Context, planID uuid.UUID, version int, tasks []domain.Task) error
}
