package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/convergex/campus-events/internal/core/domain"
	"github.com/convergex/campus-events/internal/core/ports"
	"github.com/convergex/campus-events/internal/pkg/metrics"
)

// AdminRequestService drives the admin-request workflow:
// PENDING → {APPROVED, REJECTED}, both terminal.
type AdminRequestService struct {
	requests ports.AdminRequestRepository
	users    ports.UserRepository
	logger   zerolog.Logger
}

func NewAdminRequestService(
	requests ports.AdminRequestRepository,
	users ports.UserRepository,
	logger zerolog.Logger,
) *AdminRequestService {
	return &AdminRequestService{requests: requests, users: users, logger: logger}
}

// Submit files a new PENDING request for the actor. Actors that already hold
// an elevated role are rejected, as is any actor with an existing record in
// any status: a rejected user has no resubmission path through this workflow.
func (s *AdminRequestService) Submit(ctx context.Context, actor *domain.User) (*domain.AdminRequest, error) {
	if actor.IsPrivileged() {
		metrics.AdminRequestsTotal.WithLabelValues("submit", "rejected").Inc()
		return nil, domain.ErrAlreadyAdmin
	}

	if existing, err := s.requests.FindByUserID(ctx, actor.ID); err == nil {
		metrics.AdminRequestsTotal.WithLabelValues("submit", "rejected").Inc()
		switch existing.Status {
		case domain.RequestPending:
			return nil, domain.ErrRequestPendingExists
		case domain.RequestApproved:
			return nil, domain.ErrRequestAlreadyApproved
		default:
			return nil, domain.ErrRequestExists
		}
	} else if !errors.Is(err, domain.ErrRequestNotFound) {
		return nil, fmt.Errorf("submit admin request: %w", err)
	}

	req := &domain.AdminRequest{
		UserID:      actor.ID,
		Status:      domain.RequestPending,
		RequestedAt: time.Now().UTC(),
	}

	// The unique index on user_id closes the check-then-insert race: a
	// concurrent duplicate insert fails with ErrRequestExists.
	created, err := s.requests.Create(ctx, req)
	if err != nil {
		metrics.AdminRequestsTotal.WithLabelValues("submit", "rejected").Inc()
		return nil, err
	}

	metrics.AdminRequestsTotal.WithLabelValues("submit", "ok").Inc()
	s.logger.Info().Str("request_id", created.ID).Str("user_id", actor.ID).Msg("admin request submitted")
	return created, nil
}

// Approve transitions a PENDING request to APPROVED and grants ROLE_ADMIN to
// its user. The repository applies both writes as one atomic unit; of two
// concurrent approves exactly one succeeds and the other observes not-pending.
func (s *AdminRequestService) Approve(ctx context.Context, id string) error {
	req, err := s.requests.Approve(ctx, id)
	if err != nil {
		metrics.AdminRequestsTotal.WithLabelValues("approve", "rejected").Inc()
		return err
	}

	metrics.AdminRequestsTotal.WithLabelValues("approve", "ok").Inc()
	s.logger.Info().Str("request_id", req.ID).Str("user_id", req.UserID).Msg("admin request approved")
	return nil
}

// Reject transitions a PENDING request to REJECTED. No role change.
func (s *AdminRequestService) Reject(ctx context.Context, id string) error {
	req, err := s.requests.Reject(ctx, id)
	if err != nil {
		metrics.AdminRequestsTotal.WithLabelValues("reject", "rejected").Inc()
		return err
	}

	metrics.AdminRequestsTotal.WithLabelValues("reject", "ok").Inc()
	s.logger.Info().Str("request_id", req.ID).Str("user_id", req.UserID).Msg("admin request rejected")
	return nil
}

// ListPending returns all PENDING requests with their requester summaries,
// ordered by requested_at ascending.
func (s *AdminRequestService) ListPending(ctx context.Context) ([]ports.PendingAdminRequest, error) {
	reqs, err := s.requests.ListByStatus(ctx, domain.RequestPending)
	if err != nil {
		return nil, fmt.Errorf("list pending requests: %w", err)
	}

	out := make([]ports.PendingAdminRequest, 0, len(reqs))
	for _, req := range reqs {
		item := ports.PendingAdminRequest{
			ID:          req.ID,
			UserID:      req.UserID,
			RequestedAt: req.RequestedAt,
		}
		user, err := s.users.FindByID(ctx, req.UserID)
		if err != nil {
			// An orphaned request is a data problem; skip it rather than
			// failing the whole listing.
			s.logger.Warn().Err(err).Str("request_id", req.ID).Str("user_id", req.UserID).Msg("pending request without user")
			continue
		}
		item.UserName = user.Name
		item.UserEmail = user.Email
		out = append(out, item)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].RequestedAt.Before(out[j].RequestedAt) })
	return out, nil
}
