package domain

type Role string

const (
	// RoleUser is the only role the signup flow assigns.
	RoleUser Role = "user"
	// RoleAdmin exists for operator tooling and token claims.
	RoleAdmin Role = "admin"
)

func IsValidRole(r string) bool {
	return r == string(RoleUser) || r == string(RoleAdmin)
}
