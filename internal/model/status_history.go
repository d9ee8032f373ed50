package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StatusHistory is the append-only audit trail of a complaint. Entries
// are created once per transition and never mutated; ordered by
// created_at they reconstruct the full status trajectory.
type StatusHistory struct {
	ID            uuid.UUID        `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	ComplaintID   uuid.UUID        `gorm:"type:uuid;not null" json:"complaint_id"`
	OldStatus     *ComplaintStatus `gorm:"type:complaint_status" json:"old_status"`
	NewStatus     ComplaintStatus  `gorm:"type:complaint_status;not null" json:"new_status"`
	Reason        *string          `gorm:"type:text" json:"reason"`
	ChangedBy     *uuid.UUID       `gorm:"type:uuid" json:"changed_by"`
	ViaEscalation bool             `gorm:"not null;default:false" json:"via_escalation"`
	ViaOverride   bool             `gorm:"not null;default:false" json:"via_override"`
	CreatedAt     time.Time        `gorm:"autoCreateTime" json:"created_at"`
}

func (StatusHistory) TableName() string {
	return "complaint_status_history"
}

func (h *StatusHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}
