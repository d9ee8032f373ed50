package model

import (
	"time"

	"github.com/google/uuid"
)

type WardBrief struct {
	ID     uuid.UUID `json:"id"`
	Number int       `json:"number"`
	Name   string    `json:"name"`
}

type DepartmentBrief struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type CategoryBrief struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type UserBrief struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"full_name"`
}

// ComplaintRecord is the list/detail view shape: the complaint plus
// flattened lookups and the derived overdue flag.
type ComplaintRecord struct {
	Complaint  Complaint        `json:"complaint"`
	Overdue    bool             `json:"overdue"`
	Ward       *WardBrief       `json:"ward"`
	Department *DepartmentBrief `json:"department"`
	Category   *CategoryBrief   `json:"category"`
	Assignee   *UserBrief       `json:"assignee"`
}

func BuildComplaintRecord(c Complaint, now time.Time) ComplaintRecord {
	record := ComplaintRecord{
		Complaint: c,
		Overdue:   c.IsOverdue(now),
	}
	if c.Ward != nil {
		record.Ward = &WardBrief{ID: c.Ward.ID, Number: c.Ward.Number, Name: c.Ward.Name}
	}
	if c.Department != nil {
		record.Department = &DepartmentBrief{ID: c.Department.ID, Name: c.Department.Name}
	}
	if c.Category != nil {
		record.Category = &CategoryBrief{ID: c.Category.ID, Name: c.Category.Name}
	}
	if c.Assignee != nil {
		record.Assignee = &UserBrief{ID: c.Assignee.ID, FullName: c.Assignee.FullName}
	}
	return record
}
