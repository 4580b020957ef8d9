package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/studyflow/studyflow-api/internal/domain"
	"github.com/studyflow/studyflow-api/internal/platform/logger"
	"github.com/studyflow/studyflow-api/internal/store"
)

// PostgresPlanStore implements the store.PlanStore interface using a
// PostgreSQL database as the storage backend. It holds a *sql.DB rather
// than a DBTX because version appends need their own transactions.
type PostgresPlanStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresPlanStore creates a new PostgreSQL implementation of the
// PlanStore interface. It accepts a database connection that should be
// initialized and managed by the caller. If logger is nil, a default
// logger will be used.
func NewPostgresPlanStore(db *sql.DB, logger *slog.Logger) *PostgresPlanStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresPlanStore{
		db:     db,
		logger: logger.With(slog.String("component", "plan_store")),
	}
}

// Ensure PostgresPlanStore implements store.PlanStore interface
var _ store.PlanStore = (*PostgresPlanStore)(nil)

// Create implements store.PlanStore.Create
// It saves the plan row and all of its versions (version 1 at creation
// time) atomically in a single transaction.
func (s *PostgresPlanStore) Create(ctx context.Context, plan *domain.Plan) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := plan.Validate(); err != nil {
		log.Warn("plan validation failed during create",
			slog.String("error", err.Error()),
			slog.String("plan_id", plan.ID.String()))
		return err
	}

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		query := `
			INSERT INTO plans (id, user_id, name, total_duration, current_version, active, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`
		_, err := tx.ExecContext(
			ctx,
			query,
			plan.ID,
			plan.UserID,
			plan.Name,
			plan.TotalDuration,
			plan.CurrentVersion,
			plan.Active,
			plan.CreatedAt,
			plan.UpdatedAt,
		)
		if err != nil {
			return MapError(err)
		}

		for _, v := range plan.Versions {
			if err := insertVersion(ctx, tx, plan.ID, v); err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		log.Error("failed to create plan",
			slog.String("error", err.Error()),
			slog.String("plan_id", plan.ID.String()),
			slog.String("user_id", plan.UserID.String()))
		return err
	}

	log.Info("plan created successfully",
		slog.String("plan_id", plan.ID.String()),
		slog.String("user_id", plan.UserID.String()),
		slog.Int("version", plan.CurrentVersion))
	return nil
}

// insertVersion writes one plan version row; tasks are serialized to JSONB.
func insertVersion(ctx context.Context, db store.DBTX, planID uuid.UUID, v domain.PlanVersion) error {
	tasksJSON, err := json.Marshal(v.Tasks)
	if err != nil {
		return fmt.Errorf("failed to marshal version tasks: %w", err)
	}

	query := `
		INSERT INTO plan_versions (plan_id, version, tasks, total_duration, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = db.ExecContext(
		ctx,
		query,
		planID,
		v.Version,
		tasksJSON,
		v.TotalDuration,
		v.Reason,
		v.CreatedAt,
	)
	if err != nil {
		return MapError(err)
	}
	return nil
}

// GetByID implements store.PlanStore.GetByID
// It retrieves a plan together with its full version history, versions
// ordered ascending. Returns store.ErrPlanNotFound if the plan does not
// exist.
func (s *PostgresPlanStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Plan, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, name, total_duration, current_version, active, created_at, updated_at
		FROM plans
		WHERE id = $1
	`

	var plan domain.Plan
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&plan.ID,
		&plan.UserID,
		&plan.Name,
		&plan.TotalDuration,
		&plan.CurrentVersion,
		&plan.Active,
		&plan.CreatedAt,
		&plan.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("plan not found", slog.String("plan_id", id.String()))
			return nil, store.ErrPlanNotFound
		}
		log.Error("failed to get plan by ID",
			slog.String("error", err.Error()),
			slog.String("plan_id", id.String()))
		return nil, MapError(err)
	}

	versions, err := s.loadVersions(ctx, id)
	if err != nil {
		log.Error("failed to load plan versions",
			slog.String("error", err.Error()),
			slog.String("plan_id", id.String()))
		return nil, err
	}
	plan.Versions = versions

	return &plan, nil
}

// loadVersions reads all versions of a plan ordered by version number.
func (s *PostgresPlanStore) loadVersions(ctx context.Context, planID uuid.UUID) ([]domain.PlanVersion, error) {
	query := `
		SELECT version, tasks, total_duration, reason, created_at
		FROM plan_versions
		WHERE plan_id = $1
		ORDER BY version ASC
	`

	rows, err := s.db.QueryContext(ctx, query, planID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			s.logger.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var versions []domain.PlanVersion
	for rows.Next() {
		var v domain.PlanVersion
		var tasksJSON []byte

		if err := rows.Scan(&v.Version, &tasksJSON, &v.TotalDuration, &v.Reason, &v.CreatedAt); err != nil {
			return nil, MapError(err)
		}
		if err := json.Unmarshal(tasksJSON, &v.Tasks); err != nil {
			return nil, fmt.Errorf("failed to unmarshal version tasks: %w", err)
		}
		versions = append(versions, v)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return versions, nil
}

// AppendVersion implements store.PlanStore.AppendVersion
// It inserts the new version row and advances the plan's current version
// pointer in one transaction. Contiguity is enforced by a conditional
// UPDATE on the stored current version: if another writer already
// appended, the update matches no row and the transaction rolls back
// with store.ErrVersionConflict.
func (s *PostgresPlanStore) AppendVersion(
	ctx context.Context,
	planID uuid.UUID,
	version domain.PlanVersion,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		query := `
			UPDATE plans
			SET current_version = $1, updated_at = now()
			WHERE id = $2 AND current_version = $3
		`
		result, err := tx.ExecContext(ctx, query, version.Version, planID, version.Version-1)
		if err != nil {
			return MapError(err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			// Distinguish a missing plan from a concurrent append.
			var exists bool
			checkErr := tx.QueryRowContext(
				ctx, `SELECT EXISTS (SELECT 1 FROM plans WHERE id = $1)`, planID,
			).Scan(&exists)
			if checkErr != nil {
				return MapError(checkErr)
			}
			if !exists {
				return store.ErrPlanNotFound
			}
			return store.ErrVersionConflict
		}

		return insertVersion(ctx, tx, planID, version)
	})

	if err != nil {
		log.Error("failed to append plan version",
			slog.String("error", err.Error()),
			slog.String("plan_id", planID.String()),
			slog.Int("version", version.Version))
		return err
	}

	log.Info("plan version appended",
		slog.String("plan_id", planID.String()),
		slog.Int("version", version.Version),
		slog.String("reason", version.Reason))
	return nil
}

// UpdateVersionTasks implements store.PlanStore.UpdateVersionTasks
// It replaces the task list of one stored version. Used only to flag
// carried-forward tasks on the active version right before a replan
// supersedes it.
func (s *PostgresPlanStore) UpdateVersionTasks(
	ctx context.Context,
	planID uuid.UUID,
	version int,
	tasks []domain.Task,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	tasksJSON, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("failed to marshal version tasks: %w", err)
	}

	query := `
		UPDATE plan_versions
		SET tasks = $1
		WHERE plan_id = $2 AND version = $3
	`
	result, err := s.db.ExecContext(ctx, query, tasksJSON, planID, version)
	if err != nil {
		log.Error("failed to update version tasks",
			slog.String("error", err.Error()),
			slog.String("plan_id", planID.String()),
			slog.Int("version", version))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "plan version"); err != nil {
		return store.ErrPlanNotFound
	}

	return nil
}
