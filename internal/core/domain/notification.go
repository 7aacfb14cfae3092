package domain

import "time"

// Notification tells a follower that one of their clubs posted a new event.
// Delivery is best-effort fan-out; a lost notification is never an error
// surfaced to the event creator.
type Notification struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	EventID    string    `json:"event_id"`
	EventTitle string    `json:"event_title"`
	ClubName   string    `json:"club_name"`
	CreatedAt  time.Time `json:"created_at"`
}
