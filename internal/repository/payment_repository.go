package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"citizen-service/internal/model"
)

// PaymentRepository is read-only: payment rows are written by the
// gateway callback service, this API only lists and inspects them.
type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

type PaymentFilter struct {
	UserID   *uuid.UUID
	Statuses []model.PaymentStatus
	Limit    int
	Offset   int
}

func (r *PaymentRepository) List(ctx context.Context, filter PaymentFilter) ([]model.Payment, error) {
	query := r.db.WithContext(ctx).Model(&model.Payment{})

	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	} else {
		query = query.Limit(100)
	}

	var payments []model.Payment
	if err := query.Order("created_at DESC").Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *PaymentRepository) GetByReference(ctx context.Context, referenceCode string) (*model.Payment, error) {
	var payment model.Payment
	if err := r.db.WithContext(ctx).First(&payment, "reference_code = ?", referenceCode).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}
