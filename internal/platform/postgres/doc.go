// Package postgres provides PostgreSQL implementations of the store
// interfaces. Task lists and daily schedules are persisted as JSONB
// columns, mirroring how they are embedded in their owning aggregates;
// the unique index on daily_executions(user_id, date) backs the atomic
// insert-if-absent the generator relies on.
package postgres
