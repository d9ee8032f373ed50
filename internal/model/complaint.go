package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ComplaintStatus string

const (
	ComplaintStatusNew        ComplaintStatus = "new"
	ComplaintStatusInProgress ComplaintStatus = "in_progress"
	ComplaintStatusResolved   ComplaintStatus = "resolved"
	ComplaintStatusClosed     ComplaintStatus = "closed"
	ComplaintStatusRejected   ComplaintStatus = "rejected"
)

func (s ComplaintStatus) Valid() bool {
	switch s {
	case ComplaintStatusNew, ComplaintStatusInProgress, ComplaintStatusResolved,
		ComplaintStatusClosed, ComplaintStatusRejected:
		return true
	}
	return false
}

// IsTerminal reports whether the status ends the complaint lifecycle.
// Terminal complaints are never hard-deleted, only left in place.
func (s ComplaintStatus) IsTerminal() bool {
	return s == ComplaintStatusResolved || s == ComplaintStatusClosed || s == ComplaintStatusRejected
}

type ComplaintPriority string

const (
	ComplaintPriorityLow      ComplaintPriority = "low"
	ComplaintPriorityMedium   ComplaintPriority = "medium"
	ComplaintPriorityHigh     ComplaintPriority = "high"
	ComplaintPriorityCritical ComplaintPriority = "critical"
)

func (p ComplaintPriority) Valid() bool {
	switch p {
	case ComplaintPriorityLow, ComplaintPriorityMedium, ComplaintPriorityHigh, ComplaintPriorityCritical:
		return true
	}
	return false
}

type Complaint struct {
	ID              uuid.UUID         `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	TrackingCode    string            `gorm:"type:varchar(32);not null;uniqueIndex" json:"tracking_code"`
	Title           string            `gorm:"type:varchar(255);not null" json:"title"`
	Description     string            `gorm:"type:text" json:"description"`
	Status          ComplaintStatus   `gorm:"type:complaint_status;not null;default:'new'" json:"status"`
	Priority        ComplaintPriority `gorm:"type:complaint_priority;not null;default:'medium'" json:"priority"`
	CitizenID       uuid.UUID         `gorm:"type:uuid;not null" json:"citizen_id"`
	WardID          uuid.UUID         `gorm:"type:uuid;not null" json:"ward_id"`
	DepartmentID    *uuid.UUID        `gorm:"type:uuid" json:"department_id"`
	CategoryID      *uuid.UUID        `gorm:"type:uuid" json:"category_id"`
	AssigneeID      *uuid.UUID        `gorm:"type:uuid" json:"assignee_id"`
	SLADueAt        *time.Time        `json:"sla_due_at"`
	ResolvedAt      *time.Time        `json:"resolved_at"`
	ResolutionNotes *string           `gorm:"type:text" json:"resolution_notes"`
	CreatedAt       time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	Ward        *Ward        `gorm:"foreignKey:WardID" json:"ward,omitempty"`
	Department  *Department  `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	Category    *Category    `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Assignee    *User        `gorm:"foreignKey:AssigneeID" json:"assignee,omitempty"`
	Attachments []Attachment `gorm:"foreignKey:ComplaintID" json:"attachments,omitempty"`
}

func (Complaint) TableName() string {
	return "complaints"
}

// IsOverdue is derived, not stored: the SLA deadline has passed while
// the complaint is still in a non-terminal status.
func (c Complaint) IsOverdue(now time.Time) bool {
	if c.SLADueAt == nil || c.Status.IsTerminal() {
		return false
	}
	return c.SLADueAt.Before(now)
}

// ResolvedOnTime reports whether the complaint was resolved on or
// before its SLA deadline. False when either timestamp is missing.
func (c Complaint) ResolvedOnTime() bool {
	if c.ResolvedAt == nil || c.SLADueAt == nil {
		return false
	}
	return !c.ResolvedAt.After(*c.SLADueAt)
}

type Attachment struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	ComplaintID uuid.UUID `gorm:"type:uuid;not null" json:"complaint_id"`
	FileName    string    `gorm:"type:varchar(255);not null" json:"file_name"`
	FileURL     string    `gorm:"type:text;not null" json:"file_url"`
	UploadedBy  uuid.UUID `gorm:"type:uuid;not null" json:"uploaded_by"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Attachment) TableName() string {
	return "complaint_attachments"
}

func (a *Attachment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
