package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/convergex/campus-events/internal/core/domain"
)

// stubAdminRequestRepo mirrors the Mongo repository's contract: one record
// per user, atomic PENDING-gated transitions, role grant on approve.
type stubAdminRequestRepo struct {
	users    *stubUserRepo
	byID     map[string]*domain.AdminRequest
	byUserID map[string]*domain.AdminRequest
	nextID   int
}

func newStubAdminRequestRepo(users *stubUserRepo) *stubAdminRequestRepo {
	return &stubAdminRequestRepo{
		users:    users,
		byID:     make(map[string]*domain.AdminRequest),
		byUserID: make(map[string]*domain.AdminRequest),
	}
}

func (r *stubAdminRequestRepo) Create(_ context.Context, req *domain.AdminRequest) (*domain.AdminRequest, error) {
	if _, ok := r.byUserID[req.UserID]; ok {
		return nil, domain.ErrRequestExists
	}
	r.nextID++
	clone := *req
	clone.ID = fmt.Sprintf("req_%d", r.nextID)
	r.byID[clone.ID] = &clone
	r.byUserID[clone.UserID] = &clone
	out := clone
	return &out, nil
}

func (r *stubAdminRequestRepo) FindByID(_ context.Context, id string) (*domain.AdminRequest, error) {
	req, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrRequestNotFound
	}
	clone := *req
	return &clone, nil
}

func (r *stubAdminRequestRepo) FindByUserID(_ context.Context, userID string) (*domain.AdminRequest, error) {
	req, ok := r.byUserID[userID]
	if !ok {
		return nil, domain.ErrRequestNotFound
	}
	clone := *req
	return &clone, nil
}

func (r *stubAdminRequestRepo) ListByStatus(_ context.Context, status domain.RequestStatus) ([]*domain.AdminRequest, error) {
	var out []*domain.AdminRequest
	for _, req := range r.byID {
		if req.Status == status {
			clone := *req
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubAdminRequestRepo) transition(id string, to domain.RequestStatus) (*domain.AdminRequest, error) {
	req, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrRequestNotFound
	}
	if !req.Status.CanTransitionTo(to) {
		return nil, domain.ErrRequestNotPending
	}
	now := time.Now().UTC()
	req.Status = to
	req.ReviewedAt = &now
	clone := *req
	return &clone, nil
}

func (r *stubAdminRequestRepo) Approve(_ context.Context, id string) (*domain.AdminRequest, error) {
	req, err := r.transition(id, domain.RequestApproved)
	if err != nil {
		return nil, err
	}
	r.users.grantRole(req.UserID, domain.RoleAdmin)
	return req, nil
}

func (r *stubAdminRequestRepo) Reject(_ context.Context, id string) (*domain.AdminRequest, error) {
	return r.transition(id, domain.RequestRejected)
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

func newWorkflowFixture(t *testing.T) (*AdminRequestService, *stubUserRepo, *stubAdminRequestRepo) {
	t.Helper()
	users := newStubUserRepo()
	requests := newStubAdminRequestRepo(users)
	return NewAdminRequestService(requests, users, discardLogger), users, requests
}

func seedUser(t *testing.T, users *stubUserRepo, email string, roles ...domain.Role) *domain.User {
	t.Helper()
	if len(roles) == 0 {
		roles = []domain.Role{domain.RoleUser}
	}
	u, err := users.Create(context.Background(), &domain.User{
		Name:  "Member",
		Email: email,
		Roles: roles,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

// ---------------------------------------------------------------------------
// Submit
// ---------------------------------------------------------------------------

func TestAdminRequestService_Submit_Success(t *testing.T) {
	svc, users, requests := newWorkflowFixture(t)
	actor := seedUser(t, users, "m1@tkmce.ac.in")

	req, err := svc.Submit(context.Background(), actor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Status != domain.RequestPending {
		t.Errorf("expected PENDING, got %s", req.Status)
	}
	if req.RequestedAt.IsZero() {
		t.Error("RequestedAt must be set")
	}
	if req.ReviewedAt != nil {
		t.Error("ReviewedAt must be nil on a fresh request")
	}
	if len(requests.byID) != 1 {
		t.Errorf("expected 1 stored request, got %d", len(requests.byID))
	}
}

func TestAdminRequestService_Submit_AlreadyPrivileged(t *testing.T) {
	svc, users, requests := newWorkflowFixture(t)

	for _, role := range []domain.Role{domain.RoleAdmin, domain.RoleSuperAdmin} {
		actor := seedUser(t, users, fmt.Sprintf("%s@tkmce.ac.in", role), domain.RoleUser, role)
		if _, err := svc.Submit(context.Background(), actor); err != domain.ErrAlreadyAdmin {
			t.Errorf("role %s: expected ErrAlreadyAdmin, got %v", role, err)
		}
	}
	if len(requests.byID) != 0 {
		t.Errorf("no request should be recorded, got %d", len(requests.byID))
	}
}

func TestAdminRequestService_Submit_SecondWhilePending(t *testing.T) {
	svc, users, requests := newWorkflowFixture(t)
	actor := seedUser(t, users, "m1@tkmce.ac.in")

	if _, err := svc.Submit(context.Background(), actor); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Submit(context.Background(), actor); err != domain.ErrRequestPendingExists {
		t.Fatalf("expected ErrRequestPendingExists, got %v", err)
	}
	if len(requests.byID) != 1 {
		t.Errorf("expected exactly 1 request, got %d", len(requests.byID))
	}
}

func TestAdminRequestService_Submit_AfterApproval(t *testing.T) {
	svc, users, _ := newWorkflowFixture(t)
	actor := seedUser(t, users, "m1@tkmce.ac.in")

	req, err := svc.Submit(context.Background(), actor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Approve(context.Background(), req.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The actor object is stale here; reload so IsPrivileged reflects the
	// grant, which is what the authenticator does per request.
	reloaded, _ := users.FindByID(context.Background(), actor.ID)
	if _, err := svc.Submit(context.Background(), reloaded); err != domain.ErrAlreadyAdmin {
		t.Fatalf("expected ErrAlreadyAdmin after approval, got %v", err)
	}
}

// A rejected user has no resubmission path.
func TestAdminRequestService_Submit_AfterRejection(t *testing.T) {
	svc, users, _ := newWorkflowFixture(t)
	actor := seedUser(t, users, "m1@tkmce.ac.in")

	req, err := svc.Submit(context.Background(), actor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Reject(context.Background(), req.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.Submit(context.Background(), actor); err != domain.ErrRequestExists {
		t.Fatalf("expected ErrRequestExists after rejection, got %v", err)
	}
}

// wrappingRequestRepo decorates the stub so FindByUserID returns its
// not-found sentinel wrapped, the way an annotating repository would.
type wrappingRequestRepo struct {
	*stubAdminRequestRepo
}

func (r *wrappingRequestRepo) FindByUserID(ctx context.Context, userID string) (*domain.AdminRequest, error) {
	req, err := r.stubAdminRequestRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find request by user: %w", err)
	}
	return req, nil
}

func TestAdminRequestService_Submit_WrappedLookupMissStillSubmits(t *testing.T) {
	users := newStubUserRepo()
	requests := &wrappingRequestRepo{stubAdminRequestRepo: newStubAdminRequestRepo(users)}
	svc := NewAdminRequestService(requests, users, discardLogger)
	actor := seedUser(t, users, "m1@tkmce.ac.in")

	req, err := svc.Submit(context.Background(), actor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Status != domain.RequestPending {
		t.Fatalf("expected PENDING, got %s", req.Status)
	}
}

// ---------------------------------------------------------------------------
// Approve / Reject
// ---------------------------------------------------------------------------

func TestAdminRequestService_Approve_GrantsRoleOnce(t *testing.T) {
	svc, users, requests := newWorkflowFixture(t)
	actor := seedUser(t, users, "m1@tkmce.ac.in")

	req, err := svc.Submit(context.Background(), actor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Approve(context.Background(), req.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored, _ := requests.FindByID(context.Background(), req.ID)
	if stored.Status != domain.RequestApproved {
		t.Errorf("expected APPROVED, got %s", stored.Status)
	}
	if stored.ReviewedAt == nil {
		t.Error("ReviewedAt must be set after review")
	}

	user, _ := users.FindByID(context.Background(), actor.ID)
	if !user.HasRole(domain.RoleAdmin) {
		t.Error("user must hold ROLE_ADMIN after approval")
	}
	count := 0
	for _, r := range user.Roles {
		if r == domain.RoleAdmin {
			count++
		}
	}
	if count != 1 {
		t.Errorf("ROLE_ADMIN must appear exactly once, got %d", count)
	}
}

func TestAdminRequestService_Approve_SecondTimeFails(t *testing.T) {
	svc, users, _ := newWorkflowFixture(t)
	actor := seedUser(t, users, "m1@tkmce.ac.in")

	req, _ := svc.Submit(context.Background(), actor)
	if err := svc.Approve(context.Background(), req.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Approve(context.Background(), req.ID); err != domain.ErrRequestNotPending {
		t.Fatalf("expected ErrRequestNotPending, got %v", err)
	}
}

func TestAdminRequestService_Approve_NotFound(t *testing.T) {
	svc, _, _ := newWorkflowFixture(t)

	if err := svc.Approve(context.Background(), "req_missing"); err != domain.ErrRequestNotFound {
		t.Fatalf("expected ErrRequestNotFound, got %v", err)
	}
}

func TestAdminRequestService_Reject_NoRoleChange(t *testing.T) {
	svc, users, requests := newWorkflowFixture(t)
	actor := seedUser(t, users, "m1@tkmce.ac.in")

	req, _ := svc.Submit(context.Background(), actor)
	if err := svc.Reject(context.Background(), req.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored, _ := requests.FindByID(context.Background(), req.ID)
	if stored.Status != domain.RequestRejected {
		t.Errorf("expected REJECTED, got %s", stored.Status)
	}

	user, _ := users.FindByID(context.Background(), actor.ID)
	if user.HasRole(domain.RoleAdmin) {
		t.Error("rejection must not grant ROLE_ADMIN")
	}
}

func TestAdminRequestService_Reject_AfterApproveFails(t *testing.T) {
	svc, users, _ := newWorkflowFixture(t)
	actor := seedUser(t, users, "m1@tkmce.ac.in")

	req, _ := svc.Submit(context.Background(), actor)
	if err := svc.Approve(context.Background(), req.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Reject(context.Background(), req.ID); err != domain.ErrRequestNotPending {
		t.Fatalf("expected ErrRequestNotPending, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// ListPending
// ---------------------------------------------------------------------------

func TestAdminRequestService_ListPending_SortedOldestFirst(t *testing.T) {
	svc, users, requests := newWorkflowFixture(t)

	base := time.Now().UTC().Add(-time.Hour)
	for i, email := range []string{"c@tkmce.ac.in", "a@tkmce.ac.in", "b@tkmce.ac.in"} {
		u := seedUser(t, users, email)
		if _, err := requests.Create(context.Background(), &domain.AdminRequest{
			UserID:      u.ID,
			Status:      domain.RequestPending,
			RequestedAt: base.Add(time.Duration(3-i) * time.Minute),
		}); err != nil {
			t.Fatalf("seed request: %v", err)
		}
	}

	out, err := svc.ListPending(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 pending requests, got %d", len(out))
	}
	for i := 1; i < len(out); i++ {
		if out[i].RequestedAt.Before(out[i-1].RequestedAt) {
			t.Fatalf("pending list not sorted ascending at index %d", i)
		}
	}
	if out[0].UserEmail == "" || out[0].UserName == "" {
		t.Error("pending entries must carry the requester summary")
	}
}

func TestAdminRequestService_ListPending_SkipsOrphans(t *testing.T) {
	svc, users, requests := newWorkflowFixture(t)
	u := seedUser(t, users, "m1@tkmce.ac.in")

	if _, err := requests.Create(context.Background(), &domain.AdminRequest{
		UserID: u.ID, Status: domain.RequestPending, RequestedAt: time.Now().UTC(),
	}); err != nil {
		t.Fatalf("seed request: %v", err)
	}
	if _, err := requests.Create(context.Background(), &domain.AdminRequest{
		UserID: "user_deleted", Status: domain.RequestPending, RequestedAt: time.Now().UTC(),
	}); err != nil {
		t.Fatalf("seed orphan: %v", err)
	}

	out, err := svc.ListPending(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected the orphan to be skipped, got %d entries", len(out))
	}
	if out[0].UserID != u.ID {
		t.Errorf("unexpected entry %+v", out[0])
	}
}
