package service

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"citizen-service/internal/model"
	"citizen-service/internal/repository"
)

type DashboardService struct {
	complaints    ComplaintStore
	maxWindowRows int
}

func NewDashboardService(complaints ComplaintStore, maxWindowRows int) *DashboardService {
	return &DashboardService{complaints: complaints, maxWindowRows: maxWindowRows}
}

type DashboardFilters struct {
	DateFrom     *time.Time
	DateTo       *time.Time
	WardID       *uuid.UUID
	DepartmentID *uuid.UUID
	CategoryID   *uuid.UUID
}

type CategoryStat struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Total          int       `json:"total"`
	Resolved       int       `json:"resolved"`
	ResolutionRate int       `json:"resolution_rate"`
}

type WardStat struct {
	ID      uuid.UUID `json:"id"`
	Number  int       `json:"number"`
	Name    string    `json:"name"`
	Total   int       `json:"total"`
	Overdue int       `json:"overdue"`
}

type DepartmentStat struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Overdue int       `json:"overdue"`
}

type DashboardSnapshot struct {
	Total                int                           `json:"total"`
	ByStatus             map[model.ComplaintStatus]int `json:"by_status"`
	Overdue              int                           `json:"overdue"`
	AvgResolutionHours   float64                       `json:"avg_resolution_hours"`
	SLAComplianceRate    int                           `json:"sla_compliance_rate"`
	ResolvedToday        int                           `json:"resolved_today"`
	ActiveWards          int                           `json:"active_wards"`
	TopCategories        []CategoryStat                `json:"top_categories"`
	TopWards             []WardStat                    `json:"top_wards"`
	DepartmentsByOverdue []DepartmentStat              `json:"departments_by_overdue"`
}

// Snapshot fetches one bounded window of complaints and reduces it in
// a single pass. Scope push-down still applies: staff get department
// numbers, officers ward numbers, admins the whole city.
func (s *DashboardService) Snapshot(ctx context.Context, principal model.Principal, filters DashboardFilters) (*DashboardSnapshot, error) {
	if !principal.CanTransition() {
		return nil, ErrPermissionDenied
	}
	scope, ok := model.ResolveScope(principal)
	if !ok {
		return nil, ErrPermissionDenied
	}

	rows, err := s.complaints.List(ctx, repository.ComplaintFilter{
		Scope:        scope,
		WardID:       filters.WardID,
		DepartmentID: filters.DepartmentID,
		CategoryID:   filters.CategoryID,
		DateFrom:     filters.DateFrom,
		DateTo:       filters.DateTo,
		Limit:        s.maxWindowRows,
	})
	if err != nil {
		return nil, err
	}

	snapshot := BuildSnapshot(rows, time.Now())
	return &snapshot, nil
}

// BuildSnapshot reduces an already-materialized window of complaint
// rows. Pure so the arithmetic is testable against synthetic data.
func BuildSnapshot(rows []model.Complaint, now time.Time) DashboardSnapshot {
	snapshot := DashboardSnapshot{
		Total:    len(rows),
		ByStatus: make(map[model.ComplaintStatus]int),
	}

	var (
		resolvedTotal   int
		onTimeResolved  int
		resolutionHours float64
		wards           = make(map[uuid.UUID]*WardStat)
		categories      = make(map[uuid.UUID]*CategoryStat)
		departments     = make(map[uuid.UUID]*DepartmentStat)
	)

	today := now.Truncate(24 * time.Hour)

	for _, c := range rows {
		snapshot.ByStatus[c.Status]++

		overdue := c.IsOverdue(now)
		if overdue {
			snapshot.Overdue++
		}

		if c.ResolvedAt != nil {
			resolvedTotal++
			resolutionHours += c.ResolvedAt.Sub(c.CreatedAt).Hours()
			if c.ResolvedOnTime() {
				onTimeResolved++
			}
			if !c.ResolvedAt.Before(today) && c.ResolvedAt.Before(today.Add(24*time.Hour)) {
				snapshot.ResolvedToday++
			}
		}

		ward := wards[c.WardID]
		if ward == nil {
			ward = &WardStat{ID: c.WardID}
			if c.Ward != nil {
				ward.Number = c.Ward.Number
				ward.Name = c.Ward.Name
			}
			wards[c.WardID] = ward
		}
		ward.Total++
		if overdue {
			ward.Overdue++
		}

		if c.CategoryID != nil {
			category := categories[*c.CategoryID]
			if category == nil {
				category = &CategoryStat{ID: *c.CategoryID}
				if c.Category != nil {
					category.Name = c.Category.Name
				}
				categories[*c.CategoryID] = category
			}
			category.Total++
			if c.Status == model.ComplaintStatusResolved {
				category.Resolved++
			}
		}

		if c.DepartmentID != nil && overdue {
			department := departments[*c.DepartmentID]
			if department == nil {
				department = &DepartmentStat{ID: *c.DepartmentID}
				if c.Department != nil {
					department.Name = c.Department.Name
				}
				departments[*c.DepartmentID] = department
			}
			department.Overdue++
		}
	}

	snapshot.ActiveWards = len(wards)

	if resolvedTotal > 0 {
		snapshot.AvgResolutionHours = resolutionHours / float64(resolvedTotal)
		snapshot.SLAComplianceRate = int(math.Round(100 * float64(onTimeResolved) / float64(resolvedTotal)))
	}

	snapshot.TopCategories = topCategories(categories, 5)
	snapshot.TopWards = topWards(wards, 5)
	snapshot.DepartmentsByOverdue = departmentsByOverdue(departments)

	return snapshot
}

func topCategories(stats map[uuid.UUID]*CategoryStat, n int) []CategoryStat {
	out := make([]CategoryStat, 0, len(stats))
	for _, stat := range stats {
		if stat.Total > 0 {
			stat.ResolutionRate = int(math.Round(100 * float64(stat.Resolved) / float64(stat.Total)))
		}
		out = append(out, *stat)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func topWards(stats map[uuid.UUID]*WardStat, n int) []WardStat {
	out := make([]WardStat, 0, len(stats))
	for _, stat := range stats {
		out = append(out, *stat)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Number < out[j].Number
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func departmentsByOverdue(stats map[uuid.UUID]*DepartmentStat) []DepartmentStat {
	out := make([]DepartmentStat, 0, len(stats))
	for _, stat := range stats {
		out = append(out, *stat)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Overdue != out[j].Overdue {
			return out[i].Overdue > out[j].Overdue
		}
		return out[i].Name < out[j].Name
	})
	return out
}
