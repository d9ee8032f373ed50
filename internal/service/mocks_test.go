package service_test

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"citizen-service/internal/model"
	"citizen-service/internal/repository"
)

type MockComplaintStore struct {
	mock.Mock
}

func (m *MockComplaintStore) List(ctx context.Context, filter repository.ComplaintFilter) ([]model.Complaint, error) {
	args := m.Called(ctx, filter)
	if v := args.Get(0); v != nil {
		return v.([]model.Complaint), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockComplaintStore) GetByID(ctx context.Context, scope model.Scope, id uuid.UUID) (*model.Complaint, error) {
	args := m.Called(ctx, scope, id)
	if v := args.Get(0); v != nil {
		return v.(*model.Complaint), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockComplaintStore) Create(ctx context.Context, complaint *model.Complaint) error {
	return m.Called(ctx, complaint).Error(0)
}

func (m *MockComplaintStore) TransitionStatus(ctx context.Context, complaintID uuid.UUID, next model.ComplaintStatus, reason string, changedBy uuid.UUID, viaEscalation, viaOverride bool) error {
	return m.Called(ctx, complaintID, next, reason, changedBy, viaEscalation, viaOverride).Error(0)
}

func (m *MockComplaintStore) UpdateStatusDirect(ctx context.Context, complaintID uuid.UUID, status model.ComplaintStatus) error {
	return m.Called(ctx, complaintID, status).Error(0)
}

func (m *MockComplaintStore) UpdateEscalation(ctx context.Context, complaintID uuid.UUID, priority model.ComplaintPriority, departmentID *uuid.UUID) error {
	return m.Called(ctx, complaintID, priority, departmentID).Error(0)
}

func (m *MockComplaintStore) UpdateResolutionNotes(ctx context.Context, complaintID uuid.UUID, notes string) error {
	return m.Called(ctx, complaintID, notes).Error(0)
}

func (m *MockComplaintStore) LogStatusChange(ctx context.Context, entry *model.StatusHistory) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockComplaintStore) ListHistory(ctx context.Context, complaintID uuid.UUID) ([]model.StatusHistory, error) {
	args := m.Called(ctx, complaintID)
	if v := args.Get(0); v != nil {
		return v.([]model.StatusHistory), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockComplaintStore) AddAttachment(ctx context.Context, attachment *model.Attachment) error {
	return m.Called(ctx, attachment).Error(0)
}

func (m *MockComplaintStore) TrackingCodeExists(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, input repository.NotifyInput) error {
	return m.Called(ctx, input).Error(0)
}

type MockCategoryDirectory struct {
	mock.Mock
}

func (m *MockCategoryDirectory) GetCategory(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*model.Category), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockRecipientDirectory struct {
	mock.Mock
}

func (m *MockRecipientDirectory) ListCitizenIDsByWards(ctx context.Context, wardIDs []uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, wardIDs)
	if v := args.Get(0); v != nil {
		return v.([]uuid.UUID), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockNoticeStore struct {
	mock.Mock
}

func (m *MockNoticeStore) List(ctx context.Context, filter repository.NoticeFilter) ([]model.Notice, error) {
	args := m.Called(ctx, filter)
	if v := args.Get(0); v != nil {
		return v.([]model.Notice), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockNoticeStore) GetByID(ctx context.Context, id uuid.UUID) (*model.Notice, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*model.Notice), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockNoticeStore) GetBySlug(ctx context.Context, slug string) (*model.Notice, error) {
	args := m.Called(ctx, slug)
	if v := args.Get(0); v != nil {
		return v.(*model.Notice), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockNoticeStore) SlugExists(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func (m *MockNoticeStore) Create(ctx context.Context, notice *model.Notice) error {
	return m.Called(ctx, notice).Error(0)
}

func (m *MockNoticeStore) Update(ctx context.Context, notice *model.Notice) error {
	return m.Called(ctx, notice).Error(0)
}

func (m *MockNoticeStore) SetStatus(ctx context.Context, id uuid.UUID, status model.NoticeStatus, updates map[string]interface{}) error {
	return m.Called(ctx, id, status, updates).Error(0)
}
