package model

import (
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusSuccess   PaymentStatus = "success"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

// Payment rows are read-only here: status changes originate from the
// external gateway callback service, not from this API.
type Payment struct {
	ID               uuid.UUID     `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	ReferenceCode    string        `gorm:"type:varchar(64);not null;uniqueIndex" json:"reference_code"`
	UserID           uuid.UUID     `gorm:"type:uuid;not null" json:"user_id"`
	Amount           int64         `gorm:"not null" json:"amount"`
	Currency         string        `gorm:"type:varchar(8);not null" json:"currency"`
	Status           PaymentStatus `gorm:"type:payment_status;not null;default:'pending'" json:"status"`
	Gateway          string        `gorm:"type:varchar(64)" json:"gateway"`
	Method           string        `gorm:"type:varchar(64)" json:"method"`
	LinkedEntityType *string       `gorm:"type:varchar(64)" json:"linked_entity_type"`
	LinkedEntityID   *uuid.UUID    `gorm:"type:uuid" json:"linked_entity_id"`
	PaidAt           *time.Time    `json:"paid_at"`
	CreatedAt        time.Time     `gorm:"autoCreateTime" json:"created_at"`
}

func (Payment) TableName() string {
	return "payments"
}
