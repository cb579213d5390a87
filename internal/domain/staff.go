package domain

import "time"

// Privilege levels for staff accounts (user_login.role).
const (
	RoleStandard = "user"
	RoleAdmin    = "admin"
)

// ValidRole reports whether role is one of the two privilege levels.
func ValidRole(role string) bool {
	return role == RoleStandard || role == RoleAdmin
}

// Identity is a Session Store identity (auth_identities table). Exactly one
// StaffAccount row is keyed by each identity; credentials live here, never on
// the staff row.
type Identity struct {
	ID             string    `db:"id" json:"id"`
	Email          string    `db:"email" json:"email"`
	PasswordHash   string    `db:"password_hash" json:"-"`
	EmailConfirmed bool      `db:"email_confirmed" json:"email_confirmed"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// StaffAccount is an application user record (user_login table), paired 1:1
// with an Identity by primary key.
type StaffAccount struct {
	ID        string     `db:"id" json:"id"`
	Name      string     `db:"nome" json:"nome"`
	Email     string     `db:"email" json:"email"`
	Role      string     `db:"role" json:"role"`
	IsActive  bool       `db:"is_active" json:"is_active"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt *time.Time `db:"updated_at" json:"updated_at"`
}

// IsAdmin reports whether the account holds administrative privilege.
func (s *StaffAccount) IsAdmin() bool {
	return s.Role == RoleAdmin
}
