package ports

import (
	"context"
	"time"

	"github.com/convergex/campus-events/internal/core/domain"
)

// PendingAdminRequest is a pending workflow record joined with a summary of
// the requesting user, as shown to reviewers.
type PendingAdminRequest struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	UserName    string    `json:"user_name"`
	UserEmail   string    `json:"user_email"`
	RequestedAt time.Time `json:"requested_at"`
}

type AdminRequestService interface {
	Submit(ctx context.Context, actor *domain.User) (*domain.AdminRequest, error)
	Approve(ctx context.Context, id string) error
	Reject(ctx context.Context, id string) error
	ListPending(ctx context.Context) ([]PendingAdminRequest, error)
}
