package domain

import (
	"errors"
	"net/mail"
	"time"

	"github.com/google/uuid"
)

// User-specific validation errors
var (
	// ErrUserIDEmpty is returned when a user ID is empty or nil.
	ErrUserIDEmpty = errors.New("user ID cannot be empty")

	// ErrUserNameEmpty is returned when a user's name is empty.
	ErrUserNameEmpty = errors.New("user name cannot be empty")

	// ErrUserEmailEmpty is returned when a user's email is empty.
	ErrUserEmailEmpty = errors.New("user email cannot be empty")

	// ErrUserPasswordEmpty is returned when a user's hashed password is empty.
	ErrUserPasswordEmpty = errors.New("user hashed password cannot be empty")
)

// User represents a learner account. The streak fields track consecutive
// study days and are maintained by the streak service, not by the
// planning core itself.
type User struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	HashedPassword string     `json:"-"`
	CurrentPlanID  *uuid.UUID `json:"current_plan_id,omitempty"`
	Streak         int        `json:"streak"`
	LastStudyDate  *time.Time `json:"last_study_date,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// NewUser creates a new User with the given name, email, and hashed password.
// It generates a new UUID for the user ID and sets the creation timestamp.
// Returns an error if validation fails.
func NewUser(name, email, hashedPassword string) (*User, error) {
	user := &User{
		ID:             uuid.New(),
		Name:           name,
		Email:          email,
		HashedPassword: hashedPassword,
		CreatedAt:      time.Now().UTC(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrUserIDEmpty
	}

	if u.Name == "" {
		return ErrUserNameEmpty
	}

	if u.Email == "" {
		return ErrUserEmailEmpty
	}

	if _, err := mail.ParseAddress(u.Email); err != nil {
		return ErrInvalidEmail
	}

	if u.HashedPassword == "" {
		return ErrUserPasswordEmpty
	}

	return nil
}
