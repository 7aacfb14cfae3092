package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/convergex/campus-events/internal/core/domain"
)

// TokenClaims is the payload embedded in a session token. The subject is the
// user's email; roles are a snapshot taken at issue time and are informational
// only; the request pipeline always reloads the live role set.
type TokenClaims struct {
	UserID string   `json:"uid"`
	Name   string   `json:"name"`
	Roles  []string `json:"roles"`
	jwt.RegisteredClaims
}

// TokenService issues and validates stateless HS256 session tokens. Tokens
// are never persisted; the only invalidation mechanism is expiry.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// Issue produces a signed token for the given user.
func (s *TokenService) Issue(user *domain.User) (string, error) {
	roles := make([]string, len(user.Roles))
	for i, r := range user.Roles {
		roles[i] = string(r)
	}

	now := time.Now().UTC()
	claims := TokenClaims{
		UserID: user.ID,
		Name:   user.Name,
		Roles:  roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Validate verifies signature and expiry. Every structural, cryptographic, or
// expiry failure collapses into domain.ErrInvalidToken; nothing escapes this
// boundary.
func (s *TokenService) Validate(token string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !tkn.Valid || claims.Subject == "" {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}
