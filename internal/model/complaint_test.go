package model_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"citizen-service/internal/model"
)

func TestComplaintIsOverdue(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	cases := []struct {
		name    string
		status  model.ComplaintStatus
		due     *time.Time
		overdue bool
	}{
		{"no deadline", model.ComplaintStatusNew, nil, false},
		{"deadline ahead", model.ComplaintStatusInProgress, &future, false},
		{"deadline passed, open", model.ComplaintStatusInProgress, &past, true},
		{"deadline passed, resolved", model.ComplaintStatusResolved, &past, false},
		{"deadline passed, closed", model.ComplaintStatusClosed, &past, false},
		{"deadline passed, rejected", model.ComplaintStatusRejected, &past, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := model.Complaint{Status: tc.status, SLADueAt: tc.due}
			assert.Equal(t, tc.overdue, c.IsOverdue(now))
		})
	}
}

func TestComplaintResolvedOnTime(t *testing.T) {
	due := time.Now()
	early := due.Add(-time.Hour)
	late := due.Add(time.Hour)

	assert.False(t, model.Complaint{}.ResolvedOnTime())
	assert.False(t, model.Complaint{ResolvedAt: &early}.ResolvedOnTime())
	assert.True(t, model.Complaint{SLADueAt: &due, ResolvedAt: &early}.ResolvedOnTime())
	assert.True(t, model.Complaint{SLADueAt: &due, ResolvedAt: &due}.ResolvedOnTime())
	assert.False(t, model.Complaint{SLADueAt: &due, ResolvedAt: &late}.ResolvedOnTime())
}

func TestComplaintStatusValid(t *testing.T) {
	assert.True(t, model.ComplaintStatusNew.Valid())
	assert.True(t, model.ComplaintStatusRejected.Valid())
	assert.False(t, model.ComplaintStatus("escalated").Valid())
	assert.False(t, model.ComplaintStatus("").Valid())
}

func TestResolveScopePerRole(t *testing.T) {
	wardID := uuid.New()
	deptID := uuid.New()

	admin := model.Principal{UserID: uuid.New(), Role: model.UserRoleAdmin}
	scope, ok := model.ResolveScope(admin)
	assert.True(t, ok)
	assert.Equal(t, model.ScopeCity, scope.Type)

	staff := model.Principal{UserID: uuid.New(), Role: model.UserRoleStaff, DepartmentID: &deptID}
	scope, ok = model.ResolveScope(staff)
	assert.True(t, ok)
	assert.Equal(t, model.ScopeDepartment, scope.Type)
	assert.Equal(t, deptID, *scope.DepartmentID)

	officer := model.Principal{UserID: uuid.New(), Role: model.UserRoleOfficer, WardID: &wardID}
	scope, ok = model.ResolveScope(officer)
	assert.True(t, ok)
	assert.Equal(t, model.ScopeWard, scope.Type)

	citizen := model.Principal{UserID: uuid.New(), Role: model.UserRoleCitizen}
	scope, ok = model.ResolveScope(citizen)
	assert.True(t, ok)
	assert.Equal(t, model.ScopeOwn, scope.Type)
	assert.Equal(t, citizen.UserID, *scope.UserID)

	// Staff without a department and officers without a ward have no
	// resolvable scope at all.
	_, ok = model.ResolveScope(model.Principal{UserID: uuid.New(), Role: model.UserRoleStaff})
	assert.False(t, ok)
	_, ok = model.ResolveScope(model.Principal{UserID: uuid.New(), Role: model.UserRoleOfficer})
	assert.False(t, ok)
}

func TestScopeAllowsComplaint(t *testing.T) {
	wardID := uuid.New()
	otherWard := uuid.New()
	citizenID := uuid.New()

	c := model.Complaint{CitizenID: citizenID, WardID: wardID}

	assert.True(t, model.Scope{Type: model.ScopeCity}.AllowsComplaint(c))
	assert.True(t, model.Scope{Type: model.ScopeWard, WardID: &wardID}.AllowsComplaint(c))
	assert.False(t, model.Scope{Type: model.ScopeWard, WardID: &otherWard}.AllowsComplaint(c))
	assert.True(t, model.Scope{Type: model.ScopeOwn, UserID: &citizenID}.AllowsComplaint(c))
	// Department scope needs the complaint routed to that department.
	deptID := uuid.New()
	assert.False(t, model.Scope{Type: model.ScopeDepartment, DepartmentID: &deptID}.AllowsComplaint(c))
	c.DepartmentID = &deptID
	assert.True(t, model.Scope{Type: model.ScopeDepartment, DepartmentID: &deptID}.AllowsComplaint(c))
}
