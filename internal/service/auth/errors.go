package auth

import "errors"

// Common authentication service errors
var (
	// ErrInvalidToken indicates the token format is invalid or signature doesn't match
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token has expired
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrWrongTokenType indicates a token was presented in the wrong
	// context (e.g. a refresh token where an access token is required)
	ErrWrongTokenType = errors.New("wrong authentication token type")

	// ErrInvalidCredentials indicates an email/password pair that does
	// not match a registered user
	ErrInvalidCredentials = errors.New("invalid credentials")
)
