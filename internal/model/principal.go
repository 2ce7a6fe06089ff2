package model

import "github.com/google/uuid"

type UserRole string

const (
	UserRoleAdmin      UserRole = "ADMIN"
	UserRoleAccountant UserRole = "ACCOUNTANT"
	UserRoleContractor UserRole = "CONTRACTOR"
	UserRoleDriver     UserRole = "DRIVER"
)

type Principal struct {
	UserID   uuid.UUID
	OrgID    uuid.UUID
	UserName string
	Role     UserRole
}

func (p Principal) IsAdmin() bool {
	return p.Role == UserRoleAdmin
}

func (p Principal) IsAccountant() bool {
	return p.Role == UserRoleAccountant
}

func (p Principal) IsContractor() bool {
	return p.Role == UserRoleContractor
}

func (p Principal) IsDriver() bool {
	return p.Role == UserRoleDriver
}

// CanViewReports reports whether the principal may read billing reports at all.
func (p Principal) CanViewReports() bool {
	return p.IsAdmin() || p.IsAccountant() || p.IsContractor()
}

func (p Principal) CanViewAudit() bool {
	return p.IsAdmin()
}
