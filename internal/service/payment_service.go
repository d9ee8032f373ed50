package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"citizen-service/internal/model"
	"citizen-service/internal/repository"
)

type PaymentStore interface {
	List(ctx context.Context, filter repository.PaymentFilter) ([]model.Payment, error)
	GetByReference(ctx context.Context, referenceCode string) (*model.Payment, error)
}

// PaymentService is read-only; status transitions originate from the
// external gateway callback, not from this API.
type PaymentService struct {
	payments PaymentStore
}

func NewPaymentService(payments PaymentStore) *PaymentService {
	return &PaymentService{payments: payments}
}

type ListPaymentsOptions struct {
	UserID   *uuid.UUID
	Statuses []model.PaymentStatus
	Limit    int
	Offset   int
}

func (s *PaymentService) List(ctx context.Context, principal model.Principal, opts ListPaymentsOptions) ([]model.Payment, error) {
	filter := repository.PaymentFilter{
		Statuses: opts.Statuses,
		Limit:    opts.Limit,
		Offset:   opts.Offset,
	}
	if principal.IsAdmin() {
		filter.UserID = opts.UserID
	} else {
		id := principal.UserID
		filter.UserID = &id
	}
	return s.payments.List(ctx, filter)
}

func (s *PaymentService) GetByReference(ctx context.Context, principal model.Principal, referenceCode string) (*model.Payment, error) {
	payment, err := s.payments.GetByReference(ctx, referenceCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !principal.IsAdmin() && payment.UserID != principal.UserID {
		return nil, ErrNotFound
	}
	return payment, nil
}
