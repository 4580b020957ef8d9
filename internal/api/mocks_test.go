package api

import (
	"context"

	"github.com/google/uuid"
	"github.com/studyflow/studyflow-api/internal/domain"
	"github.com/studyflow/studyflow-api/internal/service"
)

// stubPlanService is a canned-response service.PlanService for handler
// tests. Each field holds the result of the matching method.
type stubPlanService struct {
	createPlanFn  func(ctx context.Context, userID uuid.UUID, input service.CreatePlanInput) (*domain.Plan, error)
	currentPlanFn func(ctx context.Context, userID uuid.UUID) (*domain.Plan, error)
	todayFn       func(ctx context.Context, userID uuid.UUID) (*domain.DailyExecution, error)
	updateItemFn  func(ctx context.Context, userID, itemID uuid.UUID, status domain.TaskStatus, actualTime *int) (*service.UpdateResult, error)
	progressFn    func(ctx context.Context, userID uuid.UUID) (*service.PlanProgress, error)
}

func (s *stubPlanService) CreatePlan(
	ctx context.Context,
	userID uuid.UUID,
	input service.CreatePlanInput,
) (*domain.Plan, error) {
	return s.createPlanFn(ctx, userID, input)
}

func (s *stubPlanService) CurrentPlan(ctx context.Context, userID uuid.UUID) (*domain.Plan, error) {
	return s.currentPlanFn(ctx, userID)
}

func (s *stubPlanService) TodayExecution(ctx context.Context, userID uuid.UUID) (*domain.DailyExecution, error) {
	return s.todayFn(ctx, userID)
}

func (s *stubPlanService) UpdateScheduleItem(
	ctx context.Context,
	userID, itemID uuid.UUID,
	status domain.TaskStatus,
	actualTime *int,
) (*service.UpdateResult, error) {
	return s.updateItemFn(ctx, userID, itemID, status, actualTime)
}

func (s *stubPlanService) Progress(ctx context.Context, userID uuid.UUID) (*service.PlanProgress, error) {
	return s.progressFn(ctx, userID)
}

// stubUserService is a canned-response service.UserService for handler
// tests.
type stubUserService struct {
	registerFn func(ctx context.Context, name, email, password string) (*service.AuthResult, error)
	loginFn    func(ctx context.Context, email, password string) (*service.AuthResult, error)
	refreshFn  func(ctx context.Context, refreshToken string) (*service.TokenPair, error)
	getFn      func(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

func (s *stubUserService) Register(ctx context.Context, name, email, password string) (*service.AuthResult, error) {
	return s.registerFn(ctx, name, email, password)
}

func (s *stubUserService) Login(ctx context.Context, email, password string) (*service.AuthResult, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubUserService) Refresh(ctx context.Context, refreshToken string) (*service.TokenPair, error) {
	return s.refreshFn(ctx, refreshToken)
}

func (s *stubUserService) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.getFn(ctx, id)
}
