package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/convergex/campus-events/internal/core/domain"
	"github.com/convergex/campus-events/internal/core/ports"
)

const notificationListLimit = 50

// UserService covers profile management and the caller's notification inbox.
type UserService struct {
	users         ports.UserRepository
	notifications ports.NotificationRepository
	logger        zerolog.Logger
}

func NewUserService(users ports.UserRepository, notifications ports.NotificationRepository, logger zerolog.Logger) *UserService {
	return &UserService{users: users, notifications: notifications, logger: logger}
}

// UpdateProfile applies the editable fields to the caller's account. Email,
// password hash and roles are untouchable through this path.
func (s *UserService) UpdateProfile(ctx context.Context, user *domain.User, in ports.ProfileUpdateInput) (*domain.User, error) {
	user.Name = in.Name
	user.PhoneNumber = in.PhoneNumber
	user.Department = in.Department
	user.YearOfStudy = in.YearOfStudy
	user.Interests = in.Interests
	user.UpdatedAt = time.Now().UTC()

	if err := s.users.UpdateProfile(ctx, user); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}

// Notifications lists the caller's notifications, newest first.
func (s *UserService) Notifications(ctx context.Context, userID string) ([]*domain.Notification, error) {
	return s.notifications.ListByUser(ctx, userID, notificationListLimit)
}
