package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type NoticeStatus string

const (
	NoticeStatusDraft     NoticeStatus = "draft"
	NoticeStatusPublished NoticeStatus = "published"
	NoticeStatusArchived  NoticeStatus = "archived"
)

type NoticeType string

const (
	NoticeTypeGeneral     NoticeType = "general"
	NoticeTypeEvent       NoticeType = "event"
	NoticeTypeTender      NoticeType = "tender"
	NoticeTypeEmergency   NoticeType = "emergency"
	NoticeTypeMaintenance NoticeType = "maintenance"
)

type Notice struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Slug             string         `gorm:"type:varchar(255);not null;uniqueIndex" json:"slug"`
	Title            string         `gorm:"type:varchar(255);not null" json:"title"`
	TitleLocal       string         `gorm:"type:varchar(255)" json:"title_local"`
	Content          string         `gorm:"type:text;not null" json:"content"`
	ContentLocal     string         `gorm:"type:text" json:"content_local"`
	NoticeType       NoticeType     `gorm:"type:notice_type;not null;default:'general'" json:"notice_type"`
	Status           NoticeStatus   `gorm:"type:notice_status;not null;default:'draft'" json:"status"`
	Urgent           bool           `gorm:"not null;default:false" json:"urgent"`
	Featured         bool           `gorm:"not null;default:false" json:"featured"`
	Tags             pq.StringArray `gorm:"type:text[]" json:"tags"`
	WardIDs          pq.StringArray `gorm:"type:uuid[];column:ward_ids" json:"ward_ids"`
	DepartmentID     *uuid.UUID     `gorm:"type:uuid" json:"department_id"`
	CreatedBy        uuid.UUID      `gorm:"type:uuid;not null" json:"created_by"`
	PublishedAt      *time.Time     `json:"published_at"`
	FirstPublishedAt *time.Time     `json:"first_published_at"`
	ExpiresAt        *time.Time     `json:"expires_at"`
	CreatedAt        time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Notice) TableName() string {
	return "notices"
}

// Citywide notices carry no ward scope and fan out as a single
// broadcast notification instead of per-resident rows.
func (n Notice) Citywide() bool {
	return len(n.WardIDs) == 0
}

// ScopedWardIDs parses the stored ward scope, skipping anything that
// is not a UUID.
func (n Notice) ScopedWardIDs() []uuid.UUID {
	out := make([]uuid.UUID, 0, len(n.WardIDs))
	for _, raw := range n.WardIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			continue
		}
		out = append(out, id)
	}
	return out
}

func (n Notice) Expired(now time.Time) bool {
	return n.ExpiresAt != nil && n.ExpiresAt.Before(now)
}
