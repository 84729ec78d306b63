package auth

import (
	"context"

	"github.com/openadmit/auth-service/internal/domain"
)

// ResetPassword overwrites the password hash of the account matching both
// username and email. The new hash is computed from scratch (bcrypt generates
// a fresh salt per call); id, username, email and role are untouched.
func (s *Service) ResetPassword(ctx context.Context, username, email, newPassword string) error {
	username = domain.NormalizeKey(username)
	email = domain.NormalizeKey(email)

	if username == "" {
		return domain.ErrMissingField("username")
	}
	if email == "" {
		return domain.ErrMissingField("email")
	}
	if newPassword == "" {
		return domain.ErrMissingField("newPassword")
	}

	u, err := s.users.GetByUsernameAndEmail(ctx, username, email)
	if err != nil {
		return err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return domain.ErrHashFailed(err)
	}

	return s.users.UpdatePasswordHash(ctx, u.ID, hash)
}
