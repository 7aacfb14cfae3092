package ports

import (
	"context"

	"github.com/convergex/campus-events/internal/core/domain"
)

// EventDetails is an event annotated with the calling user's relationship to it.
type EventDetails struct {
	Event        *domain.Event `json:"event"`
	IsSaved      bool          `json:"is_saved"`
	IsRegistered bool          `json:"is_registered"`
	IsFollowing  bool          `json:"is_following"`
}

// EventStats summarizes one of an organizer's posted events.
type EventStats struct {
	Event             *domain.Event `json:"event"`
	RegistrationCount int64         `json:"registration_count"`
}

// CreateEventInput carries the fields for creating or updating an event.
type CreateEventInput struct {
	Title       string
	Description string
	EventDate   string
	EventTime   string
	Location    string
	ClubName    string
	ImageURLs   []string
}

type EventService interface {
	List(ctx context.Context, viewer *domain.User) ([]EventDetails, error)
	Feed(ctx context.Context, viewer *domain.User) ([]EventDetails, error)
	Get(ctx context.Context, viewer *domain.User, id string) (*EventDetails, error)
	Search(ctx context.Context, query string) ([]*domain.Event, error)
	Create(ctx context.Context, actor *domain.User, in CreateEventInput) (*domain.Event, error)
	Update(ctx context.Context, actor *domain.User, id string, in CreateEventInput) (*domain.Event, error)
	Delete(ctx context.Context, actor *domain.User, id string) error

	Save(ctx context.Context, userID, eventID string) error
	Unsave(ctx context.Context, userID, eventID string) error
	SavedEvents(ctx context.Context, userID string) ([]*domain.Event, error)

	Register(ctx context.Context, userID, eventID string) error
	RegisteredEvents(ctx context.Context, userID string) ([]*domain.Event, error)

	MyPostedEvents(ctx context.Context, userID string) ([]EventStats, error)
}

// FollowService manages user→club follow relations.
type FollowService interface {
	Follow(ctx context.Context, userID, clubID string) error
	Unfollow(ctx context.Context, userID, clubID string) error
}
