package auth

import (
	"context"
	"time"

	"github.com/openadmit/auth-service/internal/domain"
)

/*
UserStore
---------
Persistence port for users.
Only describes WHAT the credential service needs, not HOW it's stored.

All lookups are case-insensitive on username/email: implementations receive
already-normalized keys from the service, store them lowercase and MUST
enforce the username/email uniqueness invariant atomically (unique index or
equivalent); the service-level pre-check in Signup is advisory only.
*/
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (domain.User, error)
	GetByUsernameOrEmail(ctx context.Context, username, email string) (domain.User, error)
	GetByUsernameAndEmail(ctx context.Context, username, email string) (domain.User, error)
	GetByID(ctx context.Context, id string) (domain.User, error)
	Create(ctx context.Context, u domain.User) (domain.User, error)
	UpdatePasswordHash(ctx context.Context, userID string, newHash string) error
}

/*
PasswordHasher
--------------
Abstracts bcrypt / argon2. Hash must salt per call; Compare must be
constant-time with respect to the password.
*/
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error // nil if match
}

/*
TokenSigner
-----------
Issues and verifies bearer tokens (JWT).
Used by service + auth middleware.
*/
type TokenClaims struct {
	UserID   string
	Username string
	Role     string
	Exp      time.Time
}

type TokenSigner interface {
	SignAccessToken(userID, username, role string, ttl time.Duration) (string, error)
	VerifyAccessToken(token string) (TokenClaims, error)
}
