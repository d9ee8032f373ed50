package model

import "github.com/google/uuid"

type UserRole string

const (
	UserRoleCitizen    UserRole = "citizen"
	UserRoleStaff      UserRole = "staff"
	UserRoleOfficer    UserRole = "officer"
	UserRoleAdmin      UserRole = "admin"
	UserRoleSuperAdmin UserRole = "super_admin"
)

// Principal is the resolved caller identity, passed explicitly into
// every service operation instead of being read from request-ambient
// state.
type Principal struct {
	UserID       uuid.UUID  `json:"user_id"`
	Role         UserRole   `json:"role"`
	WardID       *uuid.UUID `json:"ward_id"`
	DepartmentID *uuid.UUID `json:"department_id"`
	FullName     string     `json:"full_name"`
}

func (p Principal) IsCitizen() bool {
	return p.Role == UserRoleCitizen
}

func (p Principal) IsStaff() bool {
	return p.Role == UserRoleStaff
}

func (p Principal) IsOfficer() bool {
	return p.Role == UserRoleOfficer
}

func (p Principal) IsAdmin() bool {
	return p.Role == UserRoleAdmin || p.Role == UserRoleSuperAdmin
}

// CanTransition covers the ordinary status-change path.
func (p Principal) CanTransition() bool {
	return p.IsAdmin() || p.IsStaff() || p.IsOfficer()
}

// CanEscalate excludes plain staff: escalation reclassifies priority
// and ownership, which belongs to officers and admins.
func (p Principal) CanEscalate() bool {
	return p.IsAdmin() || p.IsOfficer()
}

// CanOverride is the admin-only forced status change. It overlaps with
// CanTransition on purpose: an ordinary staff transition can already
// reach any status, so the tighter gate is kept as observed rather
// than reconciled.
func (p Principal) CanOverride() bool {
	return p.IsAdmin()
}
