package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"citizen-service/internal/model"
)

type NotificationStore interface {
	ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit, offset int) ([]model.Notification, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID, readAt time.Time) error
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
}

// NotificationService is the recipient-facing inbox: listing and
// read-marking only, creation goes through the fan-out.
type NotificationService struct {
	notifications NotificationStore
}

func NewNotificationService(notifications NotificationStore) *NotificationService {
	return &NotificationService{notifications: notifications}
}

type Inbox struct {
	Items  []model.Notification `json:"items"`
	Unread int64                `json:"unread"`
}

func (s *NotificationService) List(ctx context.Context, principal model.Principal, unreadOnly bool, limit, offset int) (*Inbox, error) {
	items, err := s.notifications.ListForUser(ctx, principal.UserID, unreadOnly, limit, offset)
	if err != nil {
		return nil, err
	}
	unread, err := s.notifications.CountUnread(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}
	return &Inbox{Items: items, Unread: unread}, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, principal model.Principal, notificationID uuid.UUID) error {
	notification, err := s.notifications.GetByID(ctx, notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	// Broadcast rows are shared; only addressed notifications can be
	// marked read, and only by their recipient.
	if notification.UserID == nil || *notification.UserID != principal.UserID {
		return ErrPermissionDenied
	}
	if notification.IsRead {
		return nil
	}
	return s.notifications.MarkRead(ctx, notification.ID, time.Now())
}
