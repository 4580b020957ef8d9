package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/studyflow/studyflow-api/internal/domain"
)

// ExecutionStore defines the interface for daily execution persistence.
//
// At most one execution exists per (user, date); implementations back
// this with a unique constraint so Create doubles as an atomic
// insert-if-absent.
type ExecutionStore interface {
	// Create inserts a new daily execution. If an execution already
	// exists for the same (user, date) pair, Create writes nothing and
	// returns ErrExecutionExists; callers that materialize days
	// idempotently treat that as "skip".
	Create(ctx context.Context, exec *domain.DailyExecution) error

	// GetByUserAndDate retrieves the execution for the given user and
	// calendar day (the time-of-day portion of date is ignored).
	// Returns ErrExecutionNotFound if no execution exists for that day.
	GetByUserAndDate(ctx context.Context, userID uuid.UUID, date time.Time) (*domain.DailyExecution, error)

	// ListByPlan retrieves all executions for the given user and plan,
	// sorted by date descending (most recent first).
	ListByPlan(ctx context.Context, userID, planID uuid.UUID) ([]*domain.DailyExecution, error)

	// Update saves changes to an existing execution's schedule and
	// aggregate fields. Returns ErrExecutionNotFound if the execution
	// does not exist.
	Update(ctx context.Context, exec *domain.DailyExecution) error
}
