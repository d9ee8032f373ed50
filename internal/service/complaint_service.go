package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"citizen-service/internal/model"
	"citizen-service/internal/repository"
)

// ComplaintStore is the persistence surface the complaint workflow
// needs. Narrowed to an interface so authorization and fallback logic
// are testable without a database.
type ComplaintStore interface {
	List(ctx context.Context, filter repository.ComplaintFilter) ([]model.Complaint, error)
	GetByID(ctx context.Context, scope model.Scope, id uuid.UUID) (*model.Complaint, error)
	Create(ctx context.Context, complaint *model.Complaint) error
	TransitionStatus(ctx context.Context, complaintID uuid.UUID, next model.ComplaintStatus, reason string, changedBy uuid.UUID, viaEscalation, viaOverride bool) error
	UpdateStatusDirect(ctx context.Context, complaintID uuid.UUID, status model.ComplaintStatus) error
	UpdateEscalation(ctx context.Context, complaintID uuid.UUID, priority model.ComplaintPriority, departmentID *uuid.UUID) error
	UpdateResolutionNotes(ctx context.Context, complaintID uuid.UUID, notes string) error
	LogStatusChange(ctx context.Context, entry *model.StatusHistory) error
	ListHistory(ctx context.Context, complaintID uuid.UUID) ([]model.StatusHistory, error)
	AddAttachment(ctx context.Context, attachment *model.Attachment) error
	TrackingCodeExists(ctx context.Context, code string) (bool, error)
}

// Notifier is the outbound notification boundary (the notify_user
// procedure in production).
type Notifier interface {
	Notify(ctx context.Context, input repository.NotifyInput) error
}

// CategoryDirectory supplies SLA windows for new complaints.
type CategoryDirectory interface {
	GetCategory(ctx context.Context, id uuid.UUID) (*model.Category, error)
}

type ComplaintService struct {
	complaints ComplaintStore
	categories CategoryDirectory
	notifier   Notifier
	log        zerolog.Logger
}

func NewComplaintService(complaints ComplaintStore, categories CategoryDirectory, notifier Notifier, log zerolog.Logger) *ComplaintService {
	return &ComplaintService{
		complaints: complaints,
		categories: categories,
		notifier:   notifier,
		log:        log,
	}
}

type ListComplaintsOptions struct {
	Statuses     []model.ComplaintStatus
	Priorities   []model.ComplaintPriority
	WardID       *uuid.UUID
	DepartmentID *uuid.UUID
	CategoryID   *uuid.UUID
	AssigneeID   *uuid.UUID
	DateFrom     *time.Time
	DateTo       *time.Time
	Search       string
	OverdueOnly  bool
	Limit        int
	Offset       int
}

func (s *ComplaintService) List(ctx context.Context, principal model.Principal, opts ListComplaintsOptions) ([]model.ComplaintRecord, error) {
	scope, ok := model.ResolveScope(principal)
	if !ok {
		return nil, ErrPermissionDenied
	}

	filter := repository.ComplaintFilter{
		Scope:        scope,
		Statuses:     opts.Statuses,
		Priorities:   opts.Priorities,
		WardID:       opts.WardID,
		DepartmentID: opts.DepartmentID,
		CategoryID:   opts.CategoryID,
		AssigneeID:   opts.AssigneeID,
		DateFrom:     opts.DateFrom,
		DateTo:       opts.DateTo,
		Search:       opts.Search,
		OverdueOnly:  opts.OverdueOnly,
		Limit:        opts.Limit,
		Offset:       opts.Offset,
	}

	complaints, err := s.complaints.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	records := make([]model.ComplaintRecord, 0, len(complaints))
	for _, c := range complaints {
		records = append(records, model.BuildComplaintRecord(c, now))
	}
	return records, nil
}

type ComplaintDetails struct {
	Record  model.ComplaintRecord `json:"record"`
	History []model.StatusHistory `json:"history"`
}

func (s *ComplaintService) GetDetails(ctx context.Context, principal model.Principal, complaintID uuid.UUID) (*ComplaintDetails, error) {
	scope, ok := model.ResolveScope(principal)
	if !ok {
		return nil, ErrPermissionDenied
	}

	complaint, err := s.complaints.GetByID(ctx, scope, complaintID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	history, err := s.complaints.ListHistory(ctx, complaint.ID)
	if err != nil {
		return nil, err
	}

	return &ComplaintDetails{
		Record:  model.BuildComplaintRecord(*complaint, time.Now()),
		History: history,
	}, nil
}

type CreateComplaintInput struct {
	Title       string
	Description string
	WardID      *uuid.UUID
	CategoryID  *uuid.UUID
	Priority    model.ComplaintPriority
}

func (s *ComplaintService) Create(ctx context.Context, principal model.Principal, input CreateComplaintInput) (*model.ComplaintRecord, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrInvalidInput
	}

	wardID := input.WardID
	if wardID == nil {
		wardID = principal.WardID
	}
	if wardID == nil {
		return nil, ErrInvalidInput
	}

	priority := input.Priority
	if priority == "" {
		priority = model.ComplaintPriorityMedium
	}
	if !priority.Valid() {
		return nil, ErrInvalidInput
	}

	var slaDue *time.Time
	if input.CategoryID != nil {
		category, err := s.categories.GetCategory(ctx, *input.CategoryID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrInvalidInput
			}
			return nil, err
		}
		if category.SLAHours > 0 {
			due := time.Now().Add(time.Duration(category.SLAHours) * time.Hour)
			slaDue = &due
		}
	}

	code, err := s.newTrackingCode(ctx)
	if err != nil {
		return nil, err
	}

	complaint := &model.Complaint{
		TrackingCode: code,
		Title:        strings.TrimSpace(input.Title),
		Description:  input.Description,
		Status:       model.ComplaintStatusNew,
		Priority:     priority,
		CitizenID:    principal.UserID,
		WardID:       *wardID,
		CategoryID:   input.CategoryID,
		SLADueAt:     slaDue,
	}

	if err := s.complaints.Create(ctx, complaint); err != nil {
		return nil, err
	}

	if err := s.complaints.LogStatusChange(ctx, &model.StatusHistory{
		ComplaintID: complaint.ID,
		NewStatus:   model.ComplaintStatusNew,
		ChangedBy:   &principal.UserID,
	}); err != nil {
		return nil, err
	}

	record := model.BuildComplaintRecord(*complaint, time.Now())
	return &record, nil
}

type TransitionMode string

const (
	// TransitionAtomic means the stored procedure wrote the status and
	// the history entry in one transaction.
	TransitionAtomic TransitionMode = "atomic"
	// TransitionDegraded means the procedure failed and the status was
	// written directly, with no history entry. The audit trail has a
	// gap for this change.
	TransitionDegraded TransitionMode = "degraded"
)

type TransitionResult struct {
	Mode      TransitionMode        `json:"mode"`
	OldStatus model.ComplaintStatus `json:"old_status"`
	NewStatus model.ComplaintStatus `json:"new_status"`
}

type TransitionInput struct {
	ComplaintID uuid.UUID
	NextStatus  model.ComplaintStatus
	Note        string
}

// Transition applies a new status. There is no transition-legality
// table: any qualifying role may move a complaint between any of the
// five statuses, matching the behavior this service replaces.
func (s *ComplaintService) Transition(ctx context.Context, principal model.Principal, input TransitionInput) (*TransitionResult, error) {
	if !principal.CanTransition() {
		return nil, ErrPermissionDenied
	}
	if !input.NextStatus.Valid() {
		return nil, ErrInvalidStatus
	}

	scope, ok := model.ResolveScope(principal)
	if !ok {
		return nil, ErrPermissionDenied
	}

	complaint, err := s.complaints.GetByID(ctx, scope, input.ComplaintID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	result, err := s.applyTransition(ctx, complaint, input.NextStatus, input.Note, principal.UserID, false)
	if err != nil {
		return nil, err
	}

	if input.NextStatus == model.ComplaintStatusResolved && strings.TrimSpace(input.Note) != "" {
		if err := s.complaints.UpdateResolutionNotes(ctx, complaint.ID, strings.TrimSpace(input.Note)); err != nil {
			return nil, err
		}
	}

	s.notifyOwner(ctx, complaint, result.NewStatus)
	return result, nil
}

type EscalateInput struct {
	ComplaintID  uuid.UUID
	Priority     model.ComplaintPriority
	DepartmentID *uuid.UUID
	Reason       string
}

// Escalate reclassifies priority and optionally department. The
// mandatory reason is checked before any write; status is untouched.
func (s *ComplaintService) Escalate(ctx context.Context, principal model.Principal, input EscalateInput) error {
	if !principal.CanEscalate() {
		return ErrPermissionDenied
	}
	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		return ErrInvalidInput
	}
	if !input.Priority.Valid() {
		return ErrInvalidInput
	}

	scope, ok := model.ResolveScope(principal)
	if !ok {
		return ErrPermissionDenied
	}

	complaint, err := s.complaints.GetByID(ctx, scope, input.ComplaintID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.complaints.UpdateEscalation(ctx, complaint.ID, input.Priority, input.DepartmentID); err != nil {
		return err
	}

	current := complaint.Status
	return s.complaints.LogStatusChange(ctx, &model.StatusHistory{
		ComplaintID:   complaint.ID,
		OldStatus:     &current,
		NewStatus:     current,
		Reason:        &reason,
		ChangedBy:     &principal.UserID,
		ViaEscalation: true,
	})
}

type OverrideInput struct {
	ComplaintID uuid.UUID
	Status      model.ComplaintStatus
	Reason      string
}

// Override is the admin-only forced status change. Same write path as
// Transition, with the history entry flagged via_override and the
// reason mandatory.
func (s *ComplaintService) Override(ctx context.Context, principal model.Principal, input OverrideInput) (*TransitionResult, error) {
	if !principal.CanOverride() {
		return nil, ErrPermissionDenied
	}
	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		return nil, ErrInvalidInput
	}
	if !input.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	scope, ok := model.ResolveScope(principal)
	if !ok {
		return nil, ErrPermissionDenied
	}

	complaint, err := s.complaints.GetByID(ctx, scope, input.ComplaintID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	result, err := s.applyTransition(ctx, complaint, input.Status, reason, principal.UserID, true)
	if err != nil {
		return nil, err
	}

	s.notifyOwner(ctx, complaint, result.NewStatus)
	return result, nil
}

type AttachmentInput struct {
	FileName string
	FileURL  string
}

func (s *ComplaintService) AddAttachment(ctx context.Context, principal model.Principal, complaintID uuid.UUID, input AttachmentInput) (*model.Attachment, error) {
	if strings.TrimSpace(input.FileName) == "" || strings.TrimSpace(input.FileURL) == "" {
		return nil, ErrInvalidInput
	}

	scope, ok := model.ResolveScope(principal)
	if !ok {
		return nil, ErrPermissionDenied
	}

	complaint, err := s.complaints.GetByID(ctx, scope, complaintID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	attachment := &model.Attachment{
		ComplaintID: complaint.ID,
		FileName:    input.FileName,
		FileURL:     input.FileURL,
		UploadedBy:  principal.UserID,
	}
	if err := s.complaints.AddAttachment(ctx, attachment); err != nil {
		return nil, err
	}
	return attachment, nil
}

// applyTransition prefers the transactional procedure and falls back
// to a direct status write when it fails. The fallback skips the
// history insert, which the result mode surfaces to the caller.
func (s *ComplaintService) applyTransition(ctx context.Context, complaint *model.Complaint, next model.ComplaintStatus, reason string, changedBy uuid.UUID, viaOverride bool) (*TransitionResult, error) {
	result := &TransitionResult{
		Mode:      TransitionAtomic,
		OldStatus: complaint.Status,
		NewStatus: next,
	}

	err := s.complaints.TransitionStatus(ctx, complaint.ID, next, reason, changedBy, false, viaOverride)
	if err == nil {
		return result, nil
	}

	s.log.Warn().Err(err).
		Str("complaint_id", complaint.ID.String()).
		Str("next_status", string(next)).
		Msg("transition procedure failed, falling back to direct update without history")

	if err := s.complaints.UpdateStatusDirect(ctx, complaint.ID, next); err != nil {
		return nil, err
	}
	result.Mode = TransitionDegraded
	return result, nil
}

// notifyOwner is best-effort: a failure is logged and never surfaces
// to the caller, the status write has already committed.
func (s *ComplaintService) notifyOwner(ctx context.Context, complaint *model.Complaint, status model.ComplaintStatus) {
	entityType := "complaint"
	actionURL := "/complaints/" + complaint.TrackingCode
	owner := complaint.CitizenID
	input := repository.NotifyInput{
		UserID:            &owner,
		Title:             "Complaint " + complaint.TrackingCode + " updated",
		Message:           fmt.Sprintf("Status of %q is now %s", complaint.Title, status),
		NotificationType:  model.NotificationTypeComplaint,
		RelatedEntityType: &entityType,
		RelatedEntityID:   &complaint.ID,
		ActionURL:         &actionURL,
	}
	if err := s.notifier.Notify(ctx, input); err != nil {
		s.log.Warn().Err(err).
			Str("complaint_id", complaint.ID.String()).
			Msg("owner notification failed")
	}
}

func (s *ComplaintService) newTrackingCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		code := fmt.Sprintf("TRK-%06d", rand.Intn(1000000))
		exists, err := s.complaints.TrackingCodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	// Collisions five times in a row: fall back to a suffix that
	// cannot collide within the same nanosecond.
	return fmt.Sprintf("TRK-%06d-%d", rand.Intn(1000000), time.Now().UnixNano()%10000), nil
}
