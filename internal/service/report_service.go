package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/hospital-helpdesk/helpdesk-service/internal/report"
	"github.com/hospital-helpdesk/helpdesk-service/internal/repository"
)

// ReportService produces the performance reports: per-technician, per
// department and daily activity. Aggregation runs in SQL; derivation of
// rates, insights and recommendations is pure.
type ReportService struct {
	reports    repository.ReportRepository
	activities repository.ActivityRepository
	users      repository.UserRepository
	insights   report.InsightConfig
	logger     *zap.Logger
}

// NewReportService constructs the service.
func NewReportService(reports repository.ReportRepository, activities repository.ActivityRepository, users repository.UserRepository, insights report.InsightConfig, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		reports:    reports,
		activities: activities,
		users:      users,
		insights:   insights,
		logger:     logger,
	}
}

// TechnicianReports builds per-technician rows for tickets created in
// [from, to], optionally scoped to one department.
func (s *ReportService) TechnicianReports(ctx context.Context, from, to time.Time, departmentID *int64) ([]report.TechnicianReport, error) {
	aggs, err := s.reports.TechnicianAggregates(ctx, repository.ReportWindow{From: from, To: to}, departmentID)
	if err != nil {
		return nil, err
	}
	rows := make([]report.TechnicianReport, 0, len(aggs))
	for _, agg := range aggs {
		rows = append(rows, report.DeriveTechnician(agg, s.insights))
	}
	return rows, nil
}

// DepartmentReports builds per-department rows with nested technicians.
func (s *ReportService) DepartmentReports(ctx context.Context, from, to time.Time) ([]report.DepartmentReport, error) {
	aggs, err := s.reports.DepartmentAggregates(ctx, repository.ReportWindow{From: from, To: to})
	if err != nil {
		return nil, err
	}
	rows := make([]report.DepartmentReport, 0, len(aggs))
	for _, agg := range aggs {
		rows = append(rows, report.DeriveDepartment(agg, s.insights))
	}
	return rows, nil
}

// DailyActivity groups the activity log per user per day for the window,
// optionally scoped to one user.
func (s *ReportService) DailyActivity(ctx context.Context, from, to time.Time, userID *int64) (*report.DailyActivityReport, error) {
	activities, err := s.activities.ListWindow(ctx, repository.ActivityFilter{
		UserID: userID,
		From:   &from,
		To:     &to,
	})
	if err != nil {
		return nil, err
	}

	seen := map[int64]struct{}{}
	var ids []int64
	for _, a := range activities {
		if _, ok := seen[a.UserID]; ok {
			continue
		}
		seen[a.UserID] = struct{}{}
		ids = append(ids, a.UserID)
	}
	names, err := s.users.NamesByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := report.BuildDailyActivity(activities, names)
	return &result, nil
}
