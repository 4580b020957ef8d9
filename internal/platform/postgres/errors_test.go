package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studyflow/studyflow-api/internal/store"
)

func TestMapError(t *testing.T) {
	t.Run("nil passes through", func(t *testing.T) {
		assert.NoError(t, MapError(nil))
	})

	t.Run("no rows maps to not found", func(t *testing.T) {
		err := MapError(sql.ErrNoRows)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("wrapped no rows maps to not found", func(t *testing.T) {
		err := MapError(fmt.Errorf("query plan: %w", sql.ErrNoRows))
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("unique violation maps to duplicate", func(t *testing.T) {
		pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "daily_executions_user_date_unique"}
		err := MapError(pgErr)
		assert.ErrorIs(t, err, store.ErrDuplicate)
	})

	t.Run("foreign key violation maps to invalid entity", func(t *testing.T) {
		pgErr := &pgconn.PgError{Code: "23503", ConstraintName: "plans_user_id_fkey"}
		err := MapError(pgErr)
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
		assert.Contains(t, err.Error(), "plans_user_id_fkey")
	})

	t.Run("unknown errors pass through unchanged", func(t *testing.T) {
		original := errors.New("connection reset")
		assert.Equal(t, original, MapError(original))
	})
}

func TestViolationPredicates(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505"}
	fk := &pgconn.PgError{Code: "23503"}

	assert.True(t, IsUniqueViolation(unique))
	assert.False(t, IsUniqueViolation(fk))
	assert.True(t, IsForeignKeyViolation(fk))
	assert.False(t, IsForeignKeyViolation(errors.New("plain")))

	// Wrapped errors are still recognized.
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert user: %w", unique)))
}

// fakeResult implements sql.Result for CheckRowsAffected tests.
type fakeResult struct {
	rows int64
	err  error
}

func (r fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.rows, r.err }

func TestCheckRowsAffected(t *testing.T) {
	t.Run("rows affected", func(t *testing.T) {
		assert.NoError(t, CheckRowsAffected(fakeResult{rows: 1}, "user"))
	})

	t.Run("zero rows is not found", func(t *testing.T) {
		err := CheckRowsAffected(fakeResult{rows: 0}, "user")
		require.Error(t, err)
		assert.ErrorIs(t, err, store.ErrNotFound)
		assert.Contains(t, err.Error(), "user")
	})

	t.Run("nil result", func(t *testing.T) {
		assert.Error(t, CheckRowsAffected(nil, "user"))
	})
}
