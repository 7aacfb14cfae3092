package ports

import (
	"context"

	"github.com/convergex/campus-events/internal/core/domain"
)

// EventRepository persists club events.
type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) (*domain.Event, error)
	FindByID(ctx context.Context, id string) (*domain.Event, error)
	FindAll(ctx context.Context) ([]*domain.Event, error)
	FindByClubIDs(ctx context.Context, clubIDs []string) ([]*domain.Event, error)
	FindByPostedBy(ctx context.Context, userID string) ([]*domain.Event, error)
	FindByIDs(ctx context.Context, ids []string) ([]*domain.Event, error)
	SearchByTitle(ctx context.Context, query string) ([]*domain.Event, error)
	Update(ctx context.Context, event *domain.Event) error
	Delete(ctx context.Context, id string) error
}

// ClubRepository persists clubs.
type ClubRepository interface {
	Create(ctx context.Context, club *domain.Club) (*domain.Club, error)
	FindByID(ctx context.Context, id string) (*domain.Club, error)
	FindByName(ctx context.Context, name string) (*domain.Club, error)
}

// FollowRepository tracks which users follow which clubs. Create returns
// domain.ErrAlreadyFollowing on a duplicate pair; Delete returns
// domain.ErrNotFollowing when no follow record exists.
type FollowRepository interface {
	Create(ctx context.Context, userID, clubID string) error
	Delete(ctx context.Context, userID, clubID string) error
	Exists(ctx context.Context, userID, clubID string) (bool, error)
	ClubIDsByUser(ctx context.Context, userID string) ([]string, error)
	FollowerIDsByClub(ctx context.Context, clubID string) ([]string, error)
}

// SavedEventRepository tracks per-user saved events. Create returns
// domain.ErrEventAlreadySaved on a duplicate pair; Delete returns
// domain.ErrEventNotSaved when nothing was saved.
type SavedEventRepository interface {
	Create(ctx context.Context, userID, eventID string) error
	Delete(ctx context.Context, userID, eventID string) error
	Exists(ctx context.Context, userID, eventID string) (bool, error)
	EventIDsByUser(ctx context.Context, userID string) ([]string, error)
}

// RegistrationRepository tracks event registrations. Create returns
// domain.ErrAlreadyRegistered on a duplicate pair.
type RegistrationRepository interface {
	Create(ctx context.Context, userID, eventID string) error
	Exists(ctx context.Context, userID, eventID string) (bool, error)
	EventIDsByUser(ctx context.Context, userID string) ([]string, error)
	CountByEvent(ctx context.Context, eventID string) (int64, error)
}

// NotificationRepository persists fan-out notifications.
type NotificationRepository interface {
	InsertMany(ctx context.Context, notifications []*domain.Notification) error
	ListByUser(ctx context.Context, userID string, limit int64) ([]*domain.Notification, error)
}
