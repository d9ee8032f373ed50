package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"citizen-service/internal/model"
)

type ComplaintRepository struct {
	db *gorm.DB
}

func NewComplaintRepository(db *gorm.DB) *ComplaintRepository {
	return &ComplaintRepository{db: db}
}

type ComplaintFilter struct {
	Scope        model.Scope
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

func (r *ComplaintRepository) List(ctx context.Context, filter ComplaintFilter) ([]model.Complaint, error) {
	query := r.db.WithContext(ctx).Model(&model.Complaint{})

	query = applyScopeFilter(query, filter.Scope)

	if len(filter.Statuses) > 0 {
		query = query.Where("complaints.status IN ?", filter.Statuses)
	}
	if len(filter.Priorities) > 0 {
		query = query.Where("complaints.priority IN ?", filter.Priorities)
	}
	if filter.WardID != nil {
		query = query.Where("complaints.ward_id = ?", *filter.WardID)
	}
	if filter.DepartmentID != nil {
		query = query.Where("complaints.department_id = ?", *filter.DepartmentID)
	}
	if filter.CategoryID != nil {
		query = query.Where("complaints.category_id = ?", *filter.CategoryID)
	}
	if filter.AssigneeID != nil {
		query = query.Where("complaints.assignee_id = ?", *filter.AssigneeID)
	}
	if filter.DateFrom != nil {
		query = query.Where("complaints.created_at >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("complaints.created_at <= ?", *filter.DateTo)
	}
	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		query = query.Where("(complaints.tracking_code ILIKE ? OR complaints.title ILIKE ?)", search, search)
	}
	if filter.OverdueOnly {
		query = query.Where("complaints.sla_due_at IS NOT NULL AND complaints.sla_due_at < NOW()").
			Where("complaints.status NOT IN ?", []model.ComplaintStatus{
				model.ComplaintStatusResolved, model.ComplaintStatusClosed, model.ComplaintStatusRejected,
			})
	}

	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	} else {
		query = query.Limit(200)
	}

	var complaints []model.Complaint
	if err := query.
		Order("complaints.created_at DESC").
		Preload("Ward").
		Preload("Department").
		Preload("Category").
		Preload("Assignee").
		Find(&complaints).Error; err != nil {
		return nil, err
	}

	return complaints, nil
}

func (r *ComplaintRepository) GetByID(ctx context.Context, scope model.Scope, id uuid.UUID) (*model.Complaint, error) {
	query := r.db.WithContext(ctx).
		Model(&model.Complaint{}).
		Where("complaints.id = ?", id)

	query = applyScopeFilter(query, scope)

	var complaint model.Complaint
	err := query.
		Preload("Ward").
		Preload("Department").
		Preload("Category").
		Preload("Assignee").
		Preload("Attachments").
		First(&complaint).Error
	if err != nil {
		return nil, err
	}
	return &complaint, nil
}

func (r *ComplaintRepository) Create(ctx context.Context, complaint *model.Complaint) error {
	return r.db.WithContext(ctx).Create(complaint).Error
}

// TransitionStatus is the primary transition path: the stored
// procedure locks the row, updates status and appends the history
// entry in one transaction.
func (r *ComplaintRepository) TransitionStatus(ctx context.Context, complaintID uuid.UUID, next model.ComplaintStatus, reason string, changedBy uuid.UUID, viaEscalation, viaOverride bool) error {
	return r.db.WithContext(ctx).
		Exec("SELECT transition_complaint_status(?, ?, ?, ?, ?, ?)",
			complaintID, next, reason, changedBy, viaEscalation, viaOverride).Error
}

// UpdateStatusDirect is the degraded fallback: status and updated_at
// only, no history insert.
func (r *ComplaintRepository) UpdateStatusDirect(ctx context.Context, complaintID uuid.UUID, status model.ComplaintStatus) error {
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}
	if status.IsTerminal() {
		updates["resolved_at"] = gorm.Expr("COALESCE(resolved_at, NOW())")
	}
	return r.db.WithContext(ctx).
		Model(&model.Complaint{}).
		Where("id = ?", complaintID).
		Updates(updates).Error
}

func (r *ComplaintRepository) UpdateEscalation(ctx context.Context, complaintID uuid.UUID, priority model.ComplaintPriority, departmentID *uuid.UUID) error {
	updates := map[string]interface{}{
		"priority": priority,
	}
	if departmentID != nil {
		updates["department_id"] = *departmentID
	}
	return r.db.WithContext(ctx).
		Model(&model.Complaint{}).
		Where("id = ?", complaintID).
		Updates(updates).Error
}

func (r *ComplaintRepository) UpdateResolutionNotes(ctx context.Context, complaintID uuid.UUID, notes string) error {
	return r.db.WithContext(ctx).
		Model(&model.Complaint{}).
		Where("id = ?", complaintID).
		Update("resolution_notes", notes).Error
}

func (r *ComplaintRepository) LogStatusChange(ctx context.Context, entry *model.StatusHistory) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *ComplaintRepository) ListHistory(ctx context.Context, complaintID uuid.UUID) ([]model.StatusHistory, error) {
	var entries []model.StatusHistory
	if err := r.db.WithContext(ctx).
		Where("complaint_id = ?", complaintID).
		Order("created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *ComplaintRepository) AddAttachment(ctx context.Context, attachment *model.Attachment) error {
	return r.db.WithContext(ctx).Create(attachment).Error
}

func (r *ComplaintRepository) TrackingCodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.Complaint{}).
		Where("tracking_code = ?", code).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func applyScopeFilter(query *gorm.DB, scope model.Scope) *gorm.DB {
	switch scope.Type {
	case model.ScopeCity:
		return query
	case model.ScopeDepartment:
		if scope.DepartmentID == nil {
			return query.Where("1=0")
		}
		return query.Where("complaints.department_id = ?", *scope.DepartmentID)
	case model.ScopeWard:
		if scope.WardID == nil {
			return query.Where("1=0")
		}
		return query.Where("complaints.ward_id = ?", *scope.WardID)
	case model.ScopeOwn:
		if scope.UserID == nil {
			return query.Where("1=0")
		}
		return query.Where("complaints.citizen_id = ?", *scope.UserID)
	default:
		return query.Where("1=0")
	}
}
