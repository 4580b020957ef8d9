package api

import (
	"github.com/google/uuid"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Name     string `json:"name"     validate:"required,min=1,max=100"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user
	UserID uuid.UUID `json:"user_id"`

	// AccessToken is the JWT token used for API authorization
	AccessToken string `json:"token"`

	// RefreshToken is the JWT token used to obtain new access tokens
	RefreshToken string `json:"refresh_token,omitempty"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse defines the successful response for the token refresh endpoint.
type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// MeResponse defines the response for the current-user endpoint.
type MeResponse struct {
	UserID        uuid.UUID  `json:"user_id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	CurrentPlanID *uuid.UUID `json:"current_plan_id,omitempty"`
	Streak        int        `json:"streak"`
}

// TaskRequest defines one task in a plan creation payload.
// EstimatedTime is in seconds; an empty difficulty defaults to medium.
type TaskRequest struct {
	Name          string `json:"name"           validate:"required,min=1,max=200"`
	EstimatedTime int    `json:"estimated_time" validate:"required,gt=0"`
	Difficulty    string `json:"difficulty"     validate:"omitempty,oneof=low medium high"`
}

// CreatePlanRequest defines the payload for the plan creation endpoint.
// TotalDuration accepts "H:MM:SS", "N days", or bare seconds.
type CreatePlanRequest struct {
	Name          string        `json:"name"           validate:"required,min=1,max=200"`
	TotalDuration string        `json:"total_duration" validate:"required"`
	Tasks         []TaskRequest `json:"tasks"          validate:"required,min=1,dive"`
}

// UpdateScheduleItemRequest defines the payload for updating one item of
// today's schedule. ActualTime is in minutes.
type UpdateScheduleItemRequest struct {
	Status     string `json:"status"      validate:"required,oneof=pending completed partial missed"`
	ActualTime *int   `json:"actual_time" validate:"omitempty,gte=0"`
}
