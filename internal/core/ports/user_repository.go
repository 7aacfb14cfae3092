package ports

import (
	"context"

	"github.com/convergex/campus-events/internal/core/domain"
)

// UserRepository defines the persistence boundary for user accounts.
// Email uniqueness is enforced at this boundary: Create returns
// domain.ErrUserExists when the email is already taken.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdateProfile(ctx context.Context, user *domain.User) error
}

// RoleRepository looks up the seeded role records. Roles are never created by
// business flows; a missing role is a seeding invariant violation
// (domain.ErrRoleNotSeeded), not a user error.
type RoleRepository interface {
	EnsureDefaults(ctx context.Context) error
	Find(ctx context.Context, name domain.Role) (domain.Role, error)
}
