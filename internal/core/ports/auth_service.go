package ports

import (
	"context"

	"github.com/convergex/campus-events/internal/core/domain"
)

// SignupInput carries the registration form fields.
type SignupInput struct {
	Name        string
	Email       string
	Password    string
	PhoneNumber string
	Department  string
	YearOfStudy string
}

type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}
