package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"citizen-service/internal/model"
)

type NoticeRepository struct {
	db *gorm.DB
}

func NewNoticeRepository(db *gorm.DB) *NoticeRepository {
	return &NoticeRepository{db: db}
}

type NoticeFilter struct {
	Statuses []model.NoticeStatus
	Types    []model.NoticeType
	WardID   *uuid.UUID
	Urgent   *bool
	Featured *bool
	Search   string
	Limit    int
	Offset   int

	// PublicOnly restricts to currently published, unexpired notices
	// visible citywide or in WardID.
	PublicOnly bool
	Now        time.Time
}

func (r *NoticeRepository) List(ctx context.Context, filter NoticeFilter) ([]model.Notice, error) {
	query := r.db.WithContext(ctx).Model(&model.Notice{})

	if filter.PublicOnly {
		query = query.Where("notices.status = ?", model.NoticeStatusPublished)
		query = query.Where("(notices.expires_at IS NULL OR notices.expires_at > ?)", filter.Now)
		if filter.WardID != nil {
			query = query.Where("(notices.ward_ids IS NULL OR cardinality(notices.ward_ids) = 0 OR ? = ANY(notices.ward_ids))", *filter.WardID)
		} else {
			query = query.Where("(notices.ward_ids IS NULL OR cardinality(notices.ward_ids) = 0)")
		}
	} else {
		if len(filter.Statuses) > 0 {
			query = query.Where("notices.status IN ?", filter.Statuses)
		}
		if filter.WardID != nil {
			query = query.Where("? = ANY(notices.ward_ids)", *filter.WardID)
		}
	}
	if len(filter.Types) > 0 {
		query = query.Where("notices.notice_type IN ?", filter.Types)
	}
	if filter.Urgent != nil {
		query = query.Where("notices.urgent = ?", *filter.Urgent)
	}
	if filter.Featured != nil {
		query = query.Where("notices.featured = ?", *filter.Featured)
	}
	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		query = query.Where("(notices.title ILIKE ? OR notices.title_local ILIKE ?)", search, search)
	}

	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	} else {
		query = query.Limit(100)
	}

	var notices []model.Notice
	if err := query.
		Order("notices.urgent DESC, notices.published_at DESC NULLS LAST, notices.created_at DESC").
		Find(&notices).Error; err != nil {
		return nil, err
	}
	return notices, nil
}

func (r *NoticeRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Notice, error) {
	var notice model.Notice
	if err := r.db.WithContext(ctx).First(&notice, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &notice, nil
}

func (r *NoticeRepository) GetBySlug(ctx context.Context, slug string) (*model.Notice, error) {
	var notice model.Notice
	if err := r.db.WithContext(ctx).First(&notice, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &notice, nil
}

func (r *NoticeRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.Notice{}).
		Where("slug = ?", slug).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *NoticeRepository) Create(ctx context.Context, notice *model.Notice) error {
	return r.db.WithContext(ctx).Create(notice).Error
}

func (r *NoticeRepository) Update(ctx context.Context, notice *model.Notice) error {
	return r.db.WithContext(ctx).Save(notice).Error
}

func (r *NoticeRepository) SetStatus(ctx context.Context, id uuid.UUID, status model.NoticeStatus, updates map[string]interface{}) error {
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["status"] = status
	return r.db.WithContext(ctx).
		Model(&model.Notice{}).
		Where("id = ?", id).
		Updates(updates).Error
}
