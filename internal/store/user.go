package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/studyflow/studyflow-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store.
	// Returns ErrEmailExists if the email is already in use.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by their email address.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update saves changes to an existing user (current plan pointer,
	// streak bookkeeping). Returns ErrUserNotFound if the user does not
	// exist.
	Update(ctx context.Context, user *domain.User) error
}
