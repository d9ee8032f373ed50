package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"citizen-service/internal/model"
	"citizen-service/internal/repository"
)

type NoticeStore interface {
	List(ctx context.Context, filter repository.NoticeFilter) ([]model.Notice, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Notice, error)
	GetBySlug(ctx context.Context, slug string) (*model.Notice, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Create(ctx context.Context, notice *model.Notice) error
	Update(ctx context.Context, notice *model.Notice) error
	SetStatus(ctx context.Context, id uuid.UUID, status model.NoticeStatus, updates map[string]interface{}) error
}

// Fanout delivers notifications for a freshly published notice.
type Fanout interface {
	Deliver(ctx context.Context, notice *model.Notice) []DeliveryResult
}

type NoticeService struct {
	notices NoticeStore
	fanout  Fanout
	log     zerolog.Logger
}

func NewNoticeService(notices NoticeStore, fanout Fanout, log zerolog.Logger) *NoticeService {
	return &NoticeService{notices: notices, fanout: fanout, log: log}
}

type ListNoticesOptions struct {
	Statuses []model.NoticeStatus
	Types    []model.NoticeType
	Urgent   *bool
	Featured *bool
	Search   string
	Limit    int
	Offset   int
}

// List applies visibility by role: admins see every notice in any
// status, everyone else sees published, unexpired notices scoped
// citywide or to their ward.
func (s *NoticeService) List(ctx context.Context, principal model.Principal, opts ListNoticesOptions) ([]model.Notice, error) {
	filter := repository.NoticeFilter{
		Types:    opts.Types,
		Urgent:   opts.Urgent,
		Featured: opts.Featured,
		Search:   opts.Search,
		Limit:    opts.Limit,
		Offset:   opts.Offset,
	}
	if principal.IsAdmin() {
		filter.Statuses = opts.Statuses
	} else {
		filter.PublicOnly = true
		filter.Now = time.Now()
		filter.WardID = principal.WardID
	}
	return s.notices.List(ctx, filter)
}

func (s *NoticeService) GetBySlug(ctx context.Context, principal model.Principal, slug string) (*model.Notice, error) {
	notice, err := s.notices.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if principal.IsAdmin() {
		return notice, nil
	}
	if notice.Status != model.NoticeStatusPublished || notice.Expired(time.Now()) {
		return nil, ErrNotFound
	}
	if !notice.Citywide() && !wardInScope(principal.WardID, notice.ScopedWardIDs()) {
		return nil, ErrNotFound
	}
	return notice, nil
}

type NoticeInput struct {
	Title        string
	TitleLocal   string
	Content      string
	ContentLocal string
	NoticeType   model.NoticeType
	Urgent       bool
	Featured     bool
	Tags         []string
	WardIDs      []uuid.UUID
	DepartmentID *uuid.UUID
	ExpiresAt    *time.Time
}

func (s *NoticeService) Create(ctx context.Context, principal model.Principal, input NoticeInput) (*model.Notice, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Content) == "" {
		return nil, ErrInvalidInput
	}

	noticeType := input.NoticeType
	if noticeType == "" {
		noticeType = model.NoticeTypeGeneral
	}

	slug, err := s.uniqueSlug(ctx, input.Title)
	if err != nil {
		return nil, err
	}

	notice := &model.Notice{
		Slug:         slug,
		Title:        strings.TrimSpace(input.Title),
		TitleLocal:   input.TitleLocal,
		Content:      input.Content,
		ContentLocal: input.ContentLocal,
		NoticeType:   noticeType,
		Status:       model.NoticeStatusDraft,
		Urgent:       input.Urgent,
		Featured:     input.Featured,
		Tags:         pq.StringArray(input.Tags),
		WardIDs:      wardIDStrings(input.WardIDs),
		DepartmentID: input.DepartmentID,
		CreatedBy:    principal.UserID,
		ExpiresAt:    input.ExpiresAt,
	}

	if err := s.notices.Create(ctx, notice); err != nil {
		return nil, err
	}
	return notice, nil
}

// Update is restricted to drafts: published content is immutable
// short of archiving and re-creating.
func (s *NoticeService) Update(ctx context.Context, principal model.Principal, noticeID uuid.UUID, input NoticeInput) (*model.Notice, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}

	notice, err := s.notices.GetByID(ctx, noticeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if notice.Status != model.NoticeStatusDraft {
		return nil, ErrConflict
	}
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Content) == "" {
		return nil, ErrInvalidInput
	}

	notice.Title = strings.TrimSpace(input.Title)
	notice.TitleLocal = input.TitleLocal
	notice.Content = input.Content
	notice.ContentLocal = input.ContentLocal
	if input.NoticeType != "" {
		notice.NoticeType = input.NoticeType
	}
	notice.Urgent = input.Urgent
	notice.Featured = input.Featured
	notice.Tags = pq.StringArray(input.Tags)
	notice.WardIDs = wardIDStrings(input.WardIDs)
	notice.DepartmentID = input.DepartmentID
	notice.ExpiresAt = input.ExpiresAt

	if err := s.notices.Update(ctx, notice); err != nil {
		return nil, err
	}
	return notice, nil
}

// Publish moves a notice into published and, on its first publish
// only, fans out notifications. The fan-out is strictly after the
// status write and its failures never roll the publish back.
func (s *NoticeService) Publish(ctx context.Context, principal model.Principal, noticeID uuid.UUID) (*model.Notice, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}

	notice, err := s.notices.GetByID(ctx, noticeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if notice.Status == model.NoticeStatusPublished {
		return nil, ErrConflict
	}

	now := time.Now()
	firstPublish := notice.FirstPublishedAt == nil

	updates := map[string]interface{}{
		"published_at": now,
	}
	if firstPublish {
		updates["first_published_at"] = now
	}
	if err := s.notices.SetStatus(ctx, notice.ID, model.NoticeStatusPublished, updates); err != nil {
		return nil, err
	}

	notice.Status = model.NoticeStatusPublished
	notice.PublishedAt = &now
	if firstPublish {
		notice.FirstPublishedAt = &now

		results := s.fanout.Deliver(ctx, notice)
		failed := 0
		for _, r := range results {
			if r.Err != nil {
				failed++
			}
		}
		s.log.Info().
			Str("notice_id", notice.ID.String()).
			Int("recipients", len(results)).
			Int("failed", failed).
			Msg("notice fan-out finished")
	}

	return notice, nil
}

func (s *NoticeService) Archive(ctx context.Context, principal model.Principal, noticeID uuid.UUID) (*model.Notice, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}

	notice, err := s.notices.GetByID(ctx, noticeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if notice.Status != model.NoticeStatusPublished {
		return nil, ErrConflict
	}

	if err := s.notices.SetStatus(ctx, notice.ID, model.NoticeStatusArchived, nil); err != nil {
		return nil, err
	}
	notice.Status = model.NoticeStatusArchived
	return notice, nil
}

// uniqueSlug derives a slug from the title and disambiguates a
// collision with a timestamp suffix.
func (s *NoticeService) uniqueSlug(ctx context.Context, title string) (string, error) {
	base := slugify(title)
	if base == "" {
		base = "notice"
	}
	exists, err := s.notices.SlugExists(ctx, base)
	if err != nil {
		return "", err
	}
	if !exists {
		return base, nil
	}
	return fmt.Sprintf("%s-%d", base, time.Now().Unix()), nil
}

func slugify(title string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.Trim(b.String(), "-")
}

func wardInScope(wardID *uuid.UUID, scope []uuid.UUID) bool {
	if wardID == nil {
		return false
	}
	for _, id := range scope {
		if id == *wardID {
			return true
		}
	}
	return false
}

func wardIDStrings(ids []uuid.UUID) pq.StringArray {
	out := make(pq.StringArray, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
