package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/convergex/campus-events/internal/core/domain"
	"github.com/convergex/campus-events/internal/core/ports"
	"github.com/convergex/campus-events/internal/pkg/metrics"
)

// AuthService implements signup and login against the institutional
// allow-list rules.
type AuthService struct {
	users         ports.UserRepository
	roles         ports.RoleRepository
	tokens        *TokenService
	allowedDomain string
	seedEmail     string
	logger        zerolog.Logger
}

// NewAuthService builds an AuthService. allowedDomain is the bare institution
// domain (e.g. "tkmce.ac.in"); seedEmail is the one address bootstrapped with
// all roles at signup.
func NewAuthService(
	users ports.UserRepository,
	roles ports.RoleRepository,
	tokens *TokenService,
	allowedDomain string,
	seedEmail string,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:         users,
		roles:         roles,
		tokens:        tokens,
		allowedDomain: allowedDomain,
		seedEmail:     seedEmail,
		logger:        logger,
	}
}

func (s *AuthService) Signup(ctx context.Context, in ports.SignupInput) (*domain.User, error) {
	if !strings.HasSuffix(in.Email, "@"+s.allowedDomain) {
		metrics.SignupsTotal.WithLabelValues("domain_rejected").Inc()
		return nil, domain.ErrEmailDomainNotAllowed
	}

	exists, err := s.users.ExistsByEmail(ctx, in.Email)
	if err != nil {
		metrics.SignupsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("signup: %w", err)
	}
	if exists {
		metrics.SignupsTotal.WithLabelValues("duplicate").Inc()
		return nil, domain.ErrUserExists
	}

	roles, err := s.rolesForSignup(ctx, in.Email)
	if err != nil {
		metrics.SignupsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		metrics.SignupsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("signup: hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		PhoneNumber:  in.PhoneNumber,
		Department:   in.Department,
		YearOfStudy:  in.YearOfStudy,
		Roles:        roles,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			metrics.SignupsTotal.WithLabelValues("duplicate").Inc()
		} else {
			metrics.SignupsTotal.WithLabelValues("error").Inc()
		}
		return nil, err
	}

	metrics.SignupsTotal.WithLabelValues("ok").Inc()
	s.logger.Info().Str("user_id", created.ID).Str("email", created.Email).Msg("user registered")
	return created, nil
}

// rolesForSignup resolves the role set for a new account: the seed email gets
// all three roles, everyone else exactly ROLE_USER. Each role is looked up in
// the store so a missing seed surfaces as an invariant violation.
func (s *AuthService) rolesForSignup(ctx context.Context, email string) ([]domain.Role, error) {
	wanted := []domain.Role{domain.RoleUser}
	if email == s.seedEmail {
		wanted = domain.DefaultRoles
	}

	roles := make([]domain.Role, 0, len(wanted))
	for _, name := range wanted {
		role, err := s.roles.Find(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("signup: resolve role %s: %w", name, err)
		}
		roles = append(roles, role)
	}
	return roles, nil
}

// Login verifies credentials and issues a session token. An unknown email and
// a wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		metrics.LoginsTotal.WithLabelValues("rejected").Inc()
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("rejected").Inc()
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.LoginsTotal.WithLabelValues("rejected").Inc()
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", nil, fmt.Errorf("login: issue token: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues("ok").Inc()
	return token, user, nil
}
