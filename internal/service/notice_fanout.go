package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"citizen-service/internal/model"
	"citizen-service/internal/repository"
)

// RecipientDirectory enumerates citizens for ward-scoped notices.
type RecipientDirectory interface {
	ListCitizenIDsByWards(ctx context.Context, wardIDs []uuid.UUID) ([]uuid.UUID, error)
}

// DeliveryResult records the outcome of one recipient's notification.
// A nil UserID is the single broadcast emission.
type DeliveryResult struct {
	UserID *uuid.UUID
	Err    error
}

// NoticeFanout fans a published notice out to its recipients. Every
// emission is independent: one failure is logged, recorded in the
// result list and never aborts the rest.
type NoticeFanout struct {
	notifier   Notifier
	recipients RecipientDirectory
	log        zerolog.Logger
}

func NewNoticeFanout(notifier Notifier, recipients RecipientDirectory, log zerolog.Logger) *NoticeFanout {
	return &NoticeFanout{notifier: notifier, recipients: recipients, log: log}
}

func (f *NoticeFanout) Deliver(ctx context.Context, notice *model.Notice) []DeliveryResult {
	if notice.Citywide() {
		err := f.notifier.Notify(ctx, f.notifyInput(notice, nil))
		if err != nil {
			f.log.Warn().Err(err).
				Str("notice_id", notice.ID.String()).
				Msg("broadcast notification failed")
		}
		return []DeliveryResult{{UserID: nil, Err: err}}
	}

	userIDs, err := f.recipients.ListCitizenIDsByWards(ctx, notice.ScopedWardIDs())
	if err != nil {
		f.log.Warn().Err(err).
			Str("notice_id", notice.ID.String()).
			Msg("recipient lookup failed, fan-out skipped")
		return nil
	}

	results := make([]DeliveryResult, 0, len(userIDs))
	for _, userID := range userIDs {
		id := userID
		err := f.notifier.Notify(ctx, f.notifyInput(notice, &id))
		if err != nil {
			f.log.Warn().Err(err).
				Str("notice_id", notice.ID.String()).
				Str("user_id", id.String()).
				Msg("recipient notification failed")
		}
		results = append(results, DeliveryResult{UserID: &id, Err: err})
	}
	return results
}

func (f *NoticeFanout) notifyInput(notice *model.Notice, userID *uuid.UUID) repository.NotifyInput {
	entityType := "notice"
	actionURL := "/notices/" + notice.Slug
	return repository.NotifyInput{
		UserID:            userID,
		Title:             notice.Title,
		Message:           notice.Content,
		NotificationType:  model.NotificationTypeNotice,
		RelatedEntityType: &entityType,
		RelatedEntityID:   &notice.ID,
		ActionURL:         &actionURL,
	}
}
