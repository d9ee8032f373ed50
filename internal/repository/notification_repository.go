package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"citizen-service/internal/model"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

type NotifyInput struct {
	UserID            *uuid.UUID
	Title             string
	Message           string
	NotificationType  model.NotificationType
	RelatedEntityType *string
	RelatedEntityID   *uuid.UUID
	ActionURL         *string
}

// Notify goes through the notify_user procedure, the single write
// boundary for outbound notifications. A nil UserID inserts a
// broadcast row.
func (r *NotificationRepository) Notify(ctx context.Context, input NotifyInput) error {
	return r.db.WithContext(ctx).
		Exec("SELECT notify_user(?, ?, ?, ?, ?, ?, ?)",
			input.UserID, input.Title, input.Message, input.NotificationType,
			input.RelatedEntityType, input.RelatedEntityID, input.ActionURL).Error
}

func (r *NotificationRepository) ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit, offset int) ([]model.Notification, error) {
	query := r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("(user_id = ? OR user_id IS NULL)", userID)
	if unreadOnly {
		query = query.Where("is_read = FALSE")
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if limit > 0 {
		query = query.Limit(limit)
	} else {
		query = query.Limit(100)
	}

	var notifications []model.Notification
	if err := query.Order("created_at DESC").Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *NotificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Notification, error) {
	var notification model.Notification
	if err := r.db.WithContext(ctx).First(&notification, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &notification, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id uuid.UUID, readAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": readAt,
		}).Error
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("(user_id = ? OR user_id IS NULL) AND is_read = FALSE", userID).
		Count(&count).Error
	return count, err
}
