package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/studyflow/studyflow-api/internal/store"
)

// StreakService tracks consecutive study days per user. A day counts as
// studied once any schedule item is completed on it.
type StreakService struct {
	userStore store.UserStore
	logger    *slog.Logger
	timeFunc  func() time.Time
}

// NewStreakService creates a new StreakService.
func NewStreakService(userStore store.UserStore, logger *slog.Logger) (*StreakService, error) {
	if userStore == nil {
		return nil, &ServiceError{Operation: "create_streak_service", Message: "userStore cannot be nil"}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &StreakService{
		userStore: userStore,
		logger:    logger.With("component", "streak_service"),
		timeFunc:  time.Now,
	}, nil
}

// RecordStudy marks today as a study day for the user and adjusts the
// streak: same day is a no-op, a study day yesterday extends the streak,
// any longer gap resets it to 1.
func (s *StreakService) RecordStudy(ctx context.Context, userID uuid.UUID) error {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return NewServiceError("record_study", "failed to load user", err)
	}

	today := midnight(s.timeFunc())
	if user.LastStudyDate != nil {
		last := midnight(*user.LastStudyDate)
		switch {
		case last.Equal(today):
			return nil
		case last.Equal(today.AddDate(0, 0, -1)):
			user.Streak++
		default:
			user.Streak = 1
		}
	} else {
		user.Streak = 1
	}
	user.LastStudyDate = &today

	if err := s.userStore.Update(ctx, user); err != nil {
		return NewServiceError("record_study", "failed to save streak", err)
	}

	s.logger.Debug("streak updated",
		"user_id", userID,
		"streak", user.Streak)
	return nil
}

// CurrentStreak returns the user's streak as of today: the stored value
// if they studied today or yesterday, otherwise 0.
func (s *StreakService) CurrentStreak(ctx context.Context, userID uuid.UUID) (int, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return 0, NewServiceError("get_streak", "failed to load user", err)
	}
	if user.LastStudyDate == nil {
		return 0, nil
	}

	today := midnight(s.timeFunc())
	last := midnight(*user.LastStudyDate)
	if last.Equal(today) || last.Equal(today.AddDate(0, 0, -1)) {
		return user.Streak, nil
	}
	return 0, nil
}
