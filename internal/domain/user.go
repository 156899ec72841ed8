package domain

import (
	"errors"
	"time"
)

// User represents a back-office user.
type User struct {
	ID        string
	CompanyID string
	Email     string
	Name      string
	Role      Role
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Role represents a user's access level.
type Role string

const (
	// RoleAdmin has full access, including deletes and manual vouchers.
	RoleAdmin Role = "admin"

	// RoleManager can post, void and reverse, but not delete.
	RoleManager Role = "manager"

	// RoleCashier can create pledges and post receipts.
	RoleCashier Role = "cashier"

	// RoleViewer can only read, no mutations.
	RoleViewer Role = "viewer"
)

var validRoles = map[Role]bool{
	RoleAdmin:   true,
	RoleManager: true,
	RoleCashier: true,
	RoleViewer:  true,
}

// IsValid checks if the role is a known role.
func (r Role) IsValid() bool {
	return validRoles[r]
}

// CanPost checks if the role can create pledges and post receipts.
func (r Role) CanPost() bool {
	return r == RoleAdmin || r == RoleManager || r == RoleCashier
}

// CanVoid checks if the role can void receipts and reverse postings.
func (r Role) CanVoid() bool {
	return r == RoleAdmin || r == RoleManager
}

// CanDelete checks if the role can delete documents.
func (r Role) CanDelete() bool {
	return r == RoleAdmin
}

// CanManageAccounts checks if the role can edit the chart of accounts.
func (r Role) CanManageAccounts() bool {
	return r == RoleAdmin || r == RoleManager
}

// Authentication errors
var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInsufficientRole = errors.New("insufficient role for this operation")
)
