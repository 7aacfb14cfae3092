package ports

import (
	"context"

	"github.com/convergex/campus-events/internal/core/domain"
)

// ProfileUpdateInput carries the editable profile fields. The email, password
// and role set are never updatable through this path.
type ProfileUpdateInput struct {
	Name        string
	PhoneNumber string
	Department  string
	YearOfStudy string
	Interests   []string
}

type UserService interface {
	UpdateProfile(ctx context.Context, user *domain.User, in ProfileUpdateInput) (*domain.User, error)
	Notifications(ctx context.Context, userID string) ([]*domain.Notification, error)
}

// NotificationJob is a fan-out unit of work: one new event to announce to all
// followers of its club.
type NotificationJob struct {
	EventID    string
	EventTitle string
	ClubID     string
	ClubName   string
}

// NotificationService delivers a NotificationJob to every follower of the club.
type NotificationService interface {
	Fanout(ctx context.Context, job NotificationJob) error
}
