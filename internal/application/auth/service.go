package auth

import (
	"context"
	"time"

	"github.com/openadmit/auth-service/internal/domain"
)

type Service struct {
	users  UserStore
	hasher PasswordHasher
	signer TokenSigner

	accessTTL time.Duration
}

type Config struct {
	AccessTTL time.Duration
}

func NewService(users UserStore, hasher PasswordHasher, signer TokenSigner, cfg Config) *Service {
	ttl := cfg.AccessTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{
		users:     users,
		hasher:    hasher,
		signer:    signer,
		accessTTL: ttl,
	}
}

// SigninResult is the common output for handlers/DTO mapping.
type SigninResult struct {
	User      domain.User
	Token     string
	TokenType string // "Bearer"
	ExpiresIn int64  // seconds
}

// GetUserByID backs the authenticated /me endpoint.
func (s *Service) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return s.users.GetByID(ctx, id)
}
