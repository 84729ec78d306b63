package auth

import (
	"context"

	"github.com/openadmit/auth-service/internal/domain"
)

// VerifyUser confirms that username and email belong to the same account.
// It is an identity-confirmation step before password reset, not
// authentication: no token is issued and only non-sensitive fields should be
// rendered from the returned user.
func (s *Service) VerifyUser(ctx context.Context, username, email string) (domain.User, error) {
	username = domain.NormalizeKey(username)
	email = domain.NormalizeKey(email)

	if username == "" {
		return domain.User{}, domain.ErrMissingField("username")
	}
	if email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}

	return s.users.GetByUsernameAndEmail(ctx, username, email)
}
