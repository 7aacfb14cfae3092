package ports

import (
	"context"

	"github.com/convergex/campus-events/internal/core/domain"
)

// AdminRequestRepository persists the admin-request workflow records.
//
// Create must fail with domain.ErrRequestExists when a record for the same
// user already exists, regardless of its status; the store's unique index on
// user_id serializes concurrent submissions.
//
// Approve and Reject are atomic PENDING-check-then-write transitions: when the
// request is not currently PENDING they return domain.ErrRequestNotPending and
// change nothing. Approve additionally grants domain.RoleAdmin to the target
// user in the same atomic unit, adding it at most once.
type AdminRequestRepository interface {
	Create(ctx context.Context, req *domain.AdminRequest) (*domain.AdminRequest, error)
	FindByID(ctx context.Context, id string) (*domain.AdminRequest, error)
	FindByUserID(ctx context.Context, userID string) (*domain.AdminRequest, error)
	ListByStatus(ctx context.Context, status domain.RequestStatus) ([]*domain.AdminRequest, error)
	Approve(ctx context.Context, id string) (*domain.AdminRequest, error)
	Reject(ctx context.Context, id string) (*domain.AdminRequest, error)
}
