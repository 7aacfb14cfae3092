package domain

import (
	"errors"
	"time"
)

// RequestStatus represents the lifecycle state of an admin request.
type RequestStatus string

const (
	RequestPending  RequestStatus = "PENDING"
	RequestApproved RequestStatus = "APPROVED"
	RequestRejected RequestStatus = "REJECTED"
)

// validRequestTransitions defines the allowed state machine transitions.
// APPROVED and REJECTED are terminal.
var validRequestTransitions = map[RequestStatus][]RequestStatus{
	RequestPending: {RequestApproved, RequestRejected},
}

var ErrRequestNotFound = errors.New("admin request not found")
var ErrRequestNotPending = errors.New("admin request is not pending")
var ErrRequestPendingExists = errors.New("a pending admin request already exists")
var ErrRequestAlreadyApproved = errors.New("admin request already approved")
var ErrRequestExists = errors.New("an admin request already exists for this user")
var ErrAlreadyAdmin = errors.New("user already holds an admin role")

// CanTransitionTo reports whether a transition from the current status to next is valid.
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	for _, allowed := range validRequestTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// AdminRequest tracks a user's petition for the admin role. At most one
// record exists per user, enforced by a unique index on UserID.
type AdminRequest struct {
	ID          string        `json:"id"`
	UserID      string        `json:"user_id"`
	Status      RequestStatus `json:"status"`
	RequestedAt time.Time     `json:"requested_at"`
	ReviewedAt  *time.Time    `json:"reviewed_at,omitempty"`
}
