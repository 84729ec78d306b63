package auth

import (
	"context"

	"github.com/openadmit/auth-service/internal/domain"
)

// Signin authenticates a user and issues a bearer token.
// IMPORTANT: an unknown username and a wrong password must produce the same
// error (avoid user enumeration).
func (s *Service) Signin(ctx context.Context, username, password string) (SigninResult, error) {
	username = domain.NormalizeKey(username)

	if username == "" || password == "" {
		return SigninResult{}, domain.ErrInvalidCredentials()
	}

	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		// Hide not-found behind invalid credentials; anything else is a
		// real failure (store outage etc.) and must surface as such.
		if domain.Is(err, "user_not_found") {
			return SigninResult{}, domain.ErrInvalidCredentials()
		}
		return SigninResult{}, err
	}

	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		return SigninResult{}, domain.ErrInvalidCredentials()
	}

	token, err := s.signer.SignAccessToken(u.ID, u.Username, u.Role, s.accessTTL)
	if err != nil {
		return SigninResult{}, domain.ErrTokenSignFailed(err)
	}

	return SigninResult{
		User:      u,
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int64(s.accessTTL.Seconds()),
	}, nil
}
