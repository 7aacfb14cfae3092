package domain

import (
	"errors"
	"time"
)

var ErrEventNotFound = errors.New("event not found")
var ErrClubNotFound = errors.New("club not found")
var ErrEventAlreadySaved = errors.New("event already saved")
var ErrEventNotSaved = errors.New("event is not saved")
var ErrAlreadyRegistered = errors.New("already registered for this event")
var ErrAlreadyFollowing = errors.New("already following this club")
var ErrNotFollowing = errors.New("not following this club")

// Club is a campus club. It is created implicitly the first time an admin
// posts an event under a new club name; the creator becomes the club admin.
type Club struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	AdminID     string    `json:"admin_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// Event is a club event posted by an admin.
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	EventDate   string    `json:"event_date"`
	EventTime   string    `json:"event_time"`
	Location    string    `json:"location"`
	ClubID      string    `json:"club_id"`
	ClubName    string    `json:"club_name"`
	PostedByID  string    `json:"posted_by_id"`
	ImageURLs   []string  `json:"image_urls,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
