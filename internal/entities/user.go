package entities

import "time"

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type User struct {
	ID                  string     `json:"id"`
	Email               string     `json:"email"`
	PasswordHash        string     `json:"-"`
	Role                string     `json:"role"`
	FailedLoginAttempts int        `json:"failedLoginAttempts"`
	AccountLocked       bool       `json:"accountLocked"`
	Lang                string     `json:"lang"` // UI language preference
	CreatedAt           time.Time  `json:"createdAt"`
	Businesses          []Business `json:"businesses,omitempty"` // populated for admin listings only
	Logs                []AuditLog `json:"logs,omitempty"`       // populated for admin listings only
}

// ValidRole reports whether r is one of the known roles.
func ValidRole(r string) bool {
	return r == RoleUser || r == RoleAdmin
}
