package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/convergex/campus-events/internal/core/domain"
	"github.com/convergex/campus-events/internal/core/ports"
	"github.com/convergex/campus-events/internal/core/service"
)

// identityKey is the echo context key the authenticated user is stored under.
const identityKey = "identity"

// TokenValidator validates a session token and returns its claims.
type TokenValidator interface {
	Validate(token string) (*service.TokenClaims, error)
}

// Authenticate resolves a bearer token into a live user record and attaches
// it to the request context. A missing, malformed, expired, or tampered token,
// or a token whose subject no longer exists, degrades to "request with no
// identity": rejection is the authorization gate's job, so public routes can
// share this middleware.
func Authenticate(tokens TokenValidator, users ports.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c)
			if !ok {
				return next(c)
			}

			claims, err := tokens.Validate(token)
			if err != nil {
				return next(c)
			}

			// Reload the live record so role changes made after token
			// issuance take effect on the very next request.
			user, err := users.FindByEmail(c.Request().Context(), claims.Subject)
			if err != nil {
				return next(c)
			}

			c.Set(identityKey, user)
			return next(c)
		}
	}
}

// Identity returns the authenticated user attached by Authenticate, if any.
func Identity(c echo.Context) (*domain.User, bool) {
	user, ok := c.Get(identityKey).(*domain.User)
	return user, ok
}

func bearerToken(c echo.Context) (string, bool) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
