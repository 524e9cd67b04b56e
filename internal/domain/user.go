package domain

import "time"

// Role enumerates helpdesk principal roles.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleStaff     Role = "staff"
	RoleRequester Role = "requester"
)

// IsStaff reports whether the role belongs to helpdesk personnel.
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleStaff
}

// User is any authenticated principal: requesters submit tickets, staff work
// them, admins manage reference data.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	DepartmentID *int64
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
