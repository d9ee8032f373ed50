package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"citizen-service/internal/model"
	"citizen-service/internal/repository"
	"citizen-service/internal/service"
)

type MockFanout struct {
	mock.Mock
}

func (m *MockFanout) Deliver(ctx context.Context, notice *model.Notice) []service.DeliveryResult {
	args := m.Called(ctx, notice)
	if v := args.Get(0); v != nil {
		return v.([]service.DeliveryResult)
	}
	return nil
}

func newNoticeService(store *MockNoticeStore, fanout *MockFanout) *service.NoticeService {
	return service.NewNoticeService(store, fanout, zerolog.Nop())
}

func TestSlugifyFromTitle(t *testing.T) {
	store := new(MockNoticeStore)
	svc := newNoticeService(store, new(MockFanout))

	store.On("SlugExists", mock.Anything, "road-repair-on-ring-road-2").Return(false, nil)

	var created *model.Notice
	store.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*model.Notice)
		}).
		Return(nil)

	_, err := svc.Create(context.Background(), adminPrincipal(), service.NoticeInput{
		Title:   "  Road Repair, on Ring Road #2!  ",
		Content: "Lane closures next week.",
	})

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "road-repair-on-ring-road-2", created.Slug)
	assert.Equal(t, model.NoticeStatusDraft, created.Status)
	assert.Equal(t, model.NoticeTypeGeneral, created.NoticeType)
}

func TestCreateSlugCollisionGetsSuffix(t *testing.T) {
	store := new(MockNoticeStore)
	svc := newNoticeService(store, new(MockFanout))

	store.On("SlugExists", mock.Anything, "holiday-closure").Return(true, nil)

	var created *model.Notice
	store.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*model.Notice)
		}).
		Return(nil)

	_, err := svc.Create(context.Background(), adminPrincipal(), service.NoticeInput{
		Title:   "Holiday Closure",
		Content: "Offices closed Friday.",
	})

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Regexp(t, `^holiday-closure-\d+$`, created.Slug)
}

func TestCreateDeniedForNonAdmin(t *testing.T) {
	store := new(MockNoticeStore)
	svc := newNoticeService(store, new(MockFanout))

	_, err := svc.Create(context.Background(), citizenPrincipal(), service.NoticeInput{
		Title:   "Unauthorized",
		Content: "Should never land.",
	})

	assert.ErrorIs(t, err, service.ErrPermissionDenied)
	store.AssertNotCalled(t, "Create")
}

func TestUpdateRestrictedToDrafts(t *testing.T) {
	store := new(MockNoticeStore)
	svc := newNoticeService(store, new(MockFanout))

	notice := publishedNotice()
	store.On("GetByID", mock.Anything, notice.ID).Return(notice, nil)

	_, err := svc.Update(context.Background(), adminPrincipal(), notice.ID, service.NoticeInput{
		Title:   "Edited title",
		Content: "Edited content.",
	})

	assert.ErrorIs(t, err, service.ErrConflict)
	store.AssertNotCalled(t, "Update")
}

func TestPublishFirstTimeFansOut(t *testing.T) {
	store := new(MockNoticeStore)
	fanout := new(MockFanout)
	svc := newNoticeService(store, fanout)

	notice := publishedNotice()
	notice.Status = model.NoticeStatusDraft
	notice.FirstPublishedAt = nil

	store.On("GetByID", mock.Anything, notice.ID).Return(notice, nil)
	store.On("SetStatus", mock.Anything, notice.ID, model.NoticeStatusPublished, mock.MatchedBy(func(updates map[string]interface{}) bool {
		_, hasFirst := updates["first_published_at"]
		_, hasPublished := updates["published_at"]
		return hasFirst && hasPublished
	})).Return(nil)
	fanout.On("Deliver", mock.Anything, notice).Return([]service.DeliveryResult{{UserID: nil, Err: nil}})

	published, err := svc.Publish(context.Background(), adminPrincipal(), notice.ID)

	require.NoError(t, err)
	assert.Equal(t, model.NoticeStatusPublished, published.Status)
	require.NotNil(t, published.FirstPublishedAt)
	fanout.AssertNumberOfCalls(t, "Deliver", 1)
}

func TestRepublishAfterArchiveDoesNotFanOutAgain(t *testing.T) {
	store := new(MockNoticeStore)
	fanout := new(MockFanout)
	svc := newNoticeService(store, fanout)

	first := time.Now().Add(-72 * time.Hour)
	notice := publishedNotice()
	notice.Status = model.NoticeStatusArchived
	notice.FirstPublishedAt = &first

	store.On("GetByID", mock.Anything, notice.ID).Return(notice, nil)
	store.On("SetStatus", mock.Anything, notice.ID, model.NoticeStatusPublished, mock.MatchedBy(func(updates map[string]interface{}) bool {
		_, hasFirst := updates["first_published_at"]
		return !hasFirst
	})).Return(nil)

	_, err := svc.Publish(context.Background(), adminPrincipal(), notice.ID)

	require.NoError(t, err)
	fanout.AssertNotCalled(t, "Deliver")
}

func TestPublishAlreadyPublishedConflicts(t *testing.T) {
	store := new(MockNoticeStore)
	fanout := new(MockFanout)
	svc := newNoticeService(store, fanout)

	notice := publishedNotice()
	store.On("GetByID", mock.Anything, notice.ID).Return(notice, nil)

	_, err := svc.Publish(context.Background(), adminPrincipal(), notice.ID)

	assert.ErrorIs(t, err, service.ErrConflict)
	store.AssertNotCalled(t, "SetStatus")
	fanout.AssertNotCalled(t, "Deliver")
}

func TestGetBySlugHidesDraftFromCitizens(t *testing.T) {
	store := new(MockNoticeStore)
	svc := newNoticeService(store, new(MockFanout))

	notice := publishedNotice()
	notice.Status = model.NoticeStatusDraft
	store.On("GetBySlug", mock.Anything, notice.Slug).Return(notice, nil)

	_, err := svc.GetBySlug(context.Background(), citizenPrincipal(), notice.Slug)
	assert.ErrorIs(t, err, service.ErrNotFound)

	got, err := svc.GetBySlug(context.Background(), adminPrincipal(), notice.Slug)
	require.NoError(t, err)
	assert.Equal(t, notice.ID, got.ID)
}

func TestGetBySlugEnforcesWardScope(t *testing.T) {
	store := new(MockNoticeStore)
	svc := newNoticeService(store, new(MockFanout))

	scopedWard := uuid.New()
	otherWard := uuid.New()
	notice := publishedNotice(scopedWard)
	store.On("GetBySlug", mock.Anything, notice.Slug).Return(notice, nil)

	inWard := model.Principal{UserID: uuid.New(), Role: model.UserRoleCitizen, WardID: &scopedWard}
	outOfWard := model.Principal{UserID: uuid.New(), Role: model.UserRoleCitizen, WardID: &otherWard}

	_, err := svc.GetBySlug(context.Background(), inWard, notice.Slug)
	assert.NoError(t, err)

	_, err = svc.GetBySlug(context.Background(), outOfWard, notice.Slug)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestListNonAdminForcedToPublicFilter(t *testing.T) {
	store := new(MockNoticeStore)
	svc := newNoticeService(store, new(MockFanout))

	wardID := uuid.New()
	principal := model.Principal{UserID: uuid.New(), Role: model.UserRoleCitizen, WardID: &wardID}

	store.On("List", mock.Anything, mock.MatchedBy(func(filter repository.NoticeFilter) bool {
		return filter.PublicOnly && filter.WardID != nil && *filter.WardID == wardID && len(filter.Statuses) == 0
	})).Return([]model.Notice{}, nil)

	_, err := svc.List(context.Background(), principal, service.ListNoticesOptions{
		Statuses: []model.NoticeStatus{model.NoticeStatusDraft},
	})

	require.NoError(t, err)
	store.AssertExpectations(t)
}
