package model

import "github.com/google/uuid"

type ScopeType string

const (
	ScopeCity       ScopeType = "CITY"
	ScopeDepartment ScopeType = "DEPARTMENT"
	ScopeWard       ScopeType = "WARD"
	ScopeOwn        ScopeType = "OWN"
)

// Scope bounds what complaint rows a principal may see. It is pushed
// down into repository queries rather than filtered after the fetch.
type Scope struct {
	Type         ScopeType
	UserID       *uuid.UUID
	WardID       *uuid.UUID
	DepartmentID *uuid.UUID
}

// ResolveScope maps a principal onto its visibility scope. Admins see
// the whole city, staff their department, officers their ward and
// citizens only their own complaints.
func ResolveScope(p Principal) (Scope, bool) {
	switch {
	case p.IsAdmin():
		return Scope{Type: ScopeCity}, true
	case p.IsStaff():
		if p.DepartmentID == nil {
			return Scope{}, false
		}
		return Scope{Type: ScopeDepartment, DepartmentID: p.DepartmentID}, true
	case p.IsOfficer():
		if p.WardID == nil {
			return Scope{}, false
		}
		return Scope{Type: ScopeWard, WardID: p.WardID}, true
	case p.IsCitizen():
		id := p.UserID
		return Scope{Type: ScopeOwn, UserID: &id}, true
	default:
		return Scope{}, false
	}
}

// AllowsComplaint re-checks a single already-fetched row against the
// scope, for paths that load by id before deciding.
func (s Scope) AllowsComplaint(c Complaint) bool {
	switch s.Type {
	case ScopeCity:
		return true
	case ScopeDepartment:
		return s.DepartmentID != nil && c.DepartmentID != nil && *s.DepartmentID == *c.DepartmentID
	case ScopeWard:
		return s.WardID != nil && *s.WardID == c.WardID
	case ScopeOwn:
		return s.UserID != nil && *s.UserID == c.CitizenID
	default:
		return false
	}
}
