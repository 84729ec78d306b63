package domain

import (
	"strings"
	"time"
)

// User is the account record managed by the credential service.
// Username and Email are stored in normalized (lowercase) form and are
// unique across all users. PasswordHash is never serialized.
type User struct {
	ID           string
	FullName     string
	Username     string
	Email        string
	Phone        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NormalizeKey folds a username or email into the form used for uniqueness
// comparison, storage and lookup.
func NormalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
