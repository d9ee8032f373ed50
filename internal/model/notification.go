package model

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationTypeNotice    NotificationType = "notice"
	NotificationTypeComplaint NotificationType = "complaint"
	NotificationTypePayment   NotificationType = "payment"
	NotificationTypeSystem    NotificationType = "system"
)

// Notification is a per-recipient inbox row. A nil UserID marks a
// broadcast visible to every citizen.
type Notification struct {
	ID                uuid.UUID        `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	UserID            *uuid.UUID       `gorm:"type:uuid" json:"user_id"`
	Title             string           `gorm:"type:varchar(255);not null" json:"title"`
	Message           string           `gorm:"type:text;not null" json:"message"`
	NotificationType  NotificationType `gorm:"type:notification_type;not null" json:"notification_type"`
	RelatedEntityType *string          `gorm:"type:varchar(64)" json:"related_entity_type"`
	RelatedEntityID   *uuid.UUID       `gorm:"type:uuid" json:"related_entity_id"`
	ActionURL         *string          `gorm:"type:text" json:"action_url"`
	IsRead            bool             `gorm:"not null;default:false" json:"is_read"`
	ReadAt            *time.Time       `json:"read_at"`
	CreatedAt         time.Time        `gorm:"autoCreateTime" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

func (n Notification) Broadcast() bool {
	return n.UserID == nil
}
