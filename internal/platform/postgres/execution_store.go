package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/studyflow/studyflow-api/internal/domain"
	"github.com/studyflow/studyflow-api/internal/platform/logger"
	"github.com/studyflow/studyflow-api/internal/store"
)

// PostgresExecutionStore implements the store.ExecutionStore interface
// using a PostgreSQL database as the storage backend.
type PostgresExecutionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresExecutionStore creates a new PostgreSQL implementation of
// the ExecutionStore interface. It accepts a database connection or
// transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresExecutionStore(db store.DBTX, logger *slog.Logger) *PostgresExecutionStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresExecutionStore{
		db:     db,
		logger: logger.With(slog.String("component", "execution_store")),
	}
}

// Ensure PostgresExecutionStore implements store.ExecutionStore interface
var _ store.ExecutionStore = (*PostgresExecutionStore)(nil)

// Create implements store.ExecutionStore.Create
// The insert is conditional on the unique (user_id, date) index:
// ON CONFLICT DO NOTHING turns "a record already exists for that day"
// into zero affected rows, which is reported as store.ErrExecutionExists.
// This makes the existence check and the write a single atomic step.
func (s *PostgresExecutionStore) Create(ctx context.Context, exec *domain.DailyExecution) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := exec.Validate(); err != nil {
		log.Warn("execution validation failed during create",
			slog.String("error", err.Error()),
			slog.String("execution_id", exec.ID.String()))
		return err
	}

	scheduleJSON, err := json.Marshal(exec.Schedule)
	if err != nil {
		return fmt.Errorf("failed to marshal schedule: %w", err)
	}

	query := `
		INSERT INTO daily_executions
			(id, user_id, plan_id, plan_version, date, schedule, total_planned_time, total_actual_time, completed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id, date) DO NOTHING
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		exec.ID,
		exec.UserID,
		exec.PlanID,
		exec.PlanVersion,
		exec.Date,
		scheduleJSON,
		exec.TotalPlannedTime,
		exec.TotalActualTime,
		exec.Completed,
		exec.CreatedAt,
	)
	if err != nil {
		log.Error("failed to create daily execution",
			slog.String("error", err.Error()),
			slog.String("execution_id", exec.ID.String()),
			slog.String("user_id", exec.UserID.String()))
		return MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		log.Debug("daily execution already exists for date",
			slog.String("user_id", exec.UserID.String()),
			slog.Time("date", exec.Date))
		return store.ErrExecutionExists
	}

	log.Info("daily execution created",
		slog.String("execution_id", exec.ID.String()),
		slog.String("user_id", exec.UserID.String()),
		slog.Time("date", exec.Date),
		slog.Int("plan_version", exec.PlanVersion))
	return nil
}

// GetByUserAndDate implements store.ExecutionStore.GetByUserAndDate
// The date comparison is on the calendar day only.
func (s *PostgresExecutionStore) GetByUserAndDate(
	ctx context.Context,
	userID uuid.UUID,
	date time.Time,
) (*domain.DailyExecution, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, plan_id, plan_version, date, schedule, total_planned_time, total_actual_time, completed, created_at
		FROM daily_executions
		WHERE user_id = $1 AND date = $2
	`

	exec, err := scanExecution(s.db.QueryRowContext(ctx, query, userID, date))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("daily execution not found",
				slog.String("user_id", userID.String()),
				slog.Time("date", date))
			return nil, store.ErrExecutionNotFound
		}
		log.Error("failed to get daily execution",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}

	return exec, nil
}

// ListByPlan implements store.ExecutionStore.ListByPlan
// Executions are returned sorted by date descending so the first element
// is the most recent day.
func (s *PostgresExecutionStore) ListByPlan(
	ctx context.Context,
	userID, planID uuid.UUID,
) ([]*domain.DailyExecution, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, plan_id, plan_version, date, schedule, total_planned_time, total_actual_time, completed, created_at
		FROM daily_executions
		WHERE user_id = $1 AND plan_id = $2
		ORDER BY date DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID, planID)
	if err != nil {
		log.Error("failed to list daily executions",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("plan_id", planID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var execs []*domain.DailyExecution
	for rows.Next() {
		exec, err := scanExecution(rows)
		if err != nil {
			return nil, MapError(err)
		}
		execs = append(execs, exec)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	if execs == nil {
		execs = []*domain.DailyExecution{}
	}

	return execs, nil
}

// Update implements store.ExecutionStore.Update
// Only the mutable fields change: the schedule (item statuses and actual
// times) and the aggregates derived from it.
func (s *PostgresExecutionStore) Update(ctx context.Context, exec *domain.DailyExecution) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := exec.Validate(); err != nil {
		log.Warn("execution validation failed during update",
			slog.String("error", err.Error()),
			slog.String("execution_id", exec.ID.String()))
		return err
	}

	scheduleJSON, err := json.Marshal(exec.Schedule)
	if err != nil {
		return fmt.Errorf("failed to marshal schedule: %w", err)
	}

	query := `
		UPDATE daily_executions
		SET schedule = $1, total_actual_time = $2, completed = $3
		WHERE id = $4
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		scheduleJSON,
		exec.TotalActualTime,
		exec.Completed,
		exec.ID,
	)
	if err != nil {
		log.Error("failed to update daily execution",
			slog.String("error", err.Error()),
			slog.String("execution_id", exec.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "daily execution"); err != nil {
		return store.ErrExecutionNotFound
	}

	return nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanExecution reads one execution row, decoding the JSONB schedule.
func scanExecution(row rowScanner) (*domain.DailyExecution, error) {
	var exec domain.DailyExecution
	var scheduleJSON []byte

	err := row.Scan(
		&exec.ID,
		&exec.UserID,
		&exec.PlanID,
		&exec.PlanVersion,
		&exec.Date,
		&scheduleJSON,
		&exec.TotalPlannedTime,
		&exec.TotalActualTime,
		&exec.Completed,
		&exec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(scheduleJSON, &exec.Schedule); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schedule: %w", err)
	}

	return &exec, nil
}
