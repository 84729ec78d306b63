package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/openadmit/auth-service/internal/domain"
)

type SignupInput struct {
	FullName string
	Username string
	Email    string
	Phone    string
	Password string
}

// Signup creates a new account and returns its ID.
// Username and email are folded to lowercase before the uniqueness check and
// before storage; the plaintext password never reaches the store or the logs.
func (s *Service) Signup(ctx context.Context, in SignupInput) (string, error) {
	in.Username = domain.NormalizeKey(in.Username)
	in.Email = domain.NormalizeKey(in.Email)

	if in.Username == "" {
		return "", domain.ErrMissingField("username")
	}
	if in.Email == "" {
		return "", domain.ErrMissingField("email")
	}
	if in.Password == "" {
		return "", domain.ErrMissingField("password")
	}

	// Advisory pre-check. The store's unique constraint is the real guard
	// against concurrent duplicate signups.
	_, err := s.users.GetByUsernameOrEmail(ctx, in.Username, in.Email)
	if err == nil {
		return "", domain.ErrAccountConflict()
	}
	if !domain.Is(err, "user_not_found") {
		return "", err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return "", domain.ErrHashFailed(err)
	}

	u := domain.User{
		ID:           uuid.NewString(),
		FullName:     in.FullName,
		Username:     in.Username,
		Email:        in.Email,
		Phone:        in.Phone,
		PasswordHash: hash,
		Role:         string(domain.RoleUser),
	}

	created, err := s.users.Create(ctx, u)
	if err != nil {
		var de *domain.Error
		if errors.As(err, &de) {
			return "", err
		}
		return "", domain.ErrInternal(err)
	}

	return created.ID, nil
}
