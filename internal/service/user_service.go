package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/studyflow/studyflow-api/internal/domain"
	"github.com/studyflow/studyflow-api/internal/service/auth"
	"github.com/studyflow/studyflow-api/internal/store"
)

// ErrEmailExists indicates registration with an email already in use.
var ErrEmailExists = errors.New("email already in use")

// TokenPair is an access/refresh token pair issued on login or refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthResult is the outcome of a successful register or login.
type AuthResult struct {
	User   *domain.User
	Tokens TokenPair
}

// UserService handles registration and authentication.
type UserService interface {
	// Register creates a new user account and issues an initial token pair.
	// Returns ErrEmailExists if the email is already registered.
	Register(ctx context.Context, name, email, password string) (*AuthResult, error)

	// Login verifies credentials and issues a token pair.
	// Returns auth.ErrInvalidCredentials on unknown email or wrong password.
	Login(ctx context.Context, email, password string) (*AuthResult, error)

	// Refresh exchanges a valid refresh token for a fresh token pair.
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)

	// Get returns the user by ID.
	Get(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// userServiceImpl implements the UserService interface.
type userServiceImpl struct {
	userStore store.UserStore
	hasher    auth.PasswordHasher
	jwt       auth.JWTService
	logger    *slog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(
	userStore store.UserStore,
	hasher auth.PasswordHasher,
	jwt auth.JWTService,
	logger *slog.Logger,
) (UserService, error) {
	if userStore == nil {
		return nil, &ServiceError{Operation: "create_user_service", Message: "userStore cannot be nil"}
	}
	if hasher == nil {
		return nil, &ServiceError{Operation: "create_user_service", Message: "hasher cannot be nil"}
	}
	if jwt == nil {
		return nil, &ServiceError{Operation: "create_user_service", Message: "jwt service cannot be nil"}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &userServiceImpl{
		userStore: userStore,
		hasher:    hasher,
		jwt:       jwt,
		logger:    logger.With("component", "user_service"),
	}, nil
}

// Register implements UserService.Register.
func (s *userServiceImpl) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return nil, NewServiceError("register", "failed to hash password", err)
	}

	user, err := domain.NewUser(name, email, hashed)
	if err != nil {
		return nil, NewServiceError("register", "invalid user", err)
	}

	if err := s.userStore.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			return nil, ErrEmailExists
		}
		return nil, NewServiceError("register", "failed to save user", err)
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "user_id", user.ID)
	return &AuthResult{User: user, Tokens: tokens}, nil
}

// Login implements UserService.Login.
func (s *userServiceImpl) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, auth.ErrInvalidCredentials
		}
		return nil, NewServiceError("login", "failed to load user", err)
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		return nil, auth.ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, Tokens: tokens}, nil
}

// Refresh implements UserService.Refresh.
func (s *userServiceImpl) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.jwt.ValidateRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userStore.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, auth.ErrInvalidToken
		}
		return nil, NewServiceError("refresh", "failed to load user", err)
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	return &tokens, nil
}

// Get implements UserService.Get.
func (s *userServiceImpl) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userStore.GetByID(ctx, id)
	if err != nil {
		return nil, NewServiceError("get_user", "failed to load user", err)
	}
	return user, nil
}

// issueTokens signs a fresh access/refresh pair for the user.
func (s *userServiceImpl) issueTokens(ctx context.Context, user *domain.User) (TokenPair, error) {
	access, err := s.jwt.GenerateToken(ctx, user.ID)
	if err != nil {
		return TokenPair{}, NewServiceError("issue_tokens", "failed to sign access token", err)
	}
	refresh, err := s.jwt.GenerateRefreshToken(ctx, user.ID)
	if err != nil {
		return TokenPair{}, NewServiceError("issue_tokens", "failed to sign refresh token", err)
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
