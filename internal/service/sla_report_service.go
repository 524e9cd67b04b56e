package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/hospital-helpdesk/helpdesk-service/internal/domain"
	"github.com/hospital-helpdesk/helpdesk-service/internal/repository"
	"github.com/hospital-helpdesk/helpdesk-service/internal/sla"
)

// SLAOverview is the combined compliance picture for one window.
type SLAOverview struct {
	From         time.Time          `json:"from"`
	To           time.Time          `json:"to"`
	Response     sla.Compliance     `json:"response"`
	Resolution   sla.Compliance     `json:"resolution"`
	ByDepartment []sla.BreakdownRow `json:"by_department"`
	ByPriority   []sla.BreakdownRow `json:"by_priority"`
}

// SLAReportService computes compliance reports over ticket windows. Results
// are cached in Redis with a short TTL; computation always reflects the
// ticket rows, never stored percentages.
type SLAReportService struct {
	tickets  repository.TicketRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewSLAReportService constructs the service. cache may be nil, which
// disables caching entirely.
func NewSLAReportService(tickets repository.TicketRepository, cache *redis.Client, cacheTTL time.Duration, logger *zap.Logger, clock func() time.Time) *SLAReportService {
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SLAReportService{
		tickets:  tickets,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
		now:      clock,
	}
}

// Overview computes response and resolution compliance plus department and
// priority breakdowns for tickets created in [from, to].
func (s *SLAReportService) Overview(ctx context.Context, from, to time.Time) (*SLAOverview, error) {
	cacheKey := fmt.Sprintf("report:sla:overview:%d:%d", from.Unix(), to.Unix())
	var cached SLAOverview
	if s.fromCache(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	tickets, err := s.windowTickets(ctx, from, to)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	overview := &SLAOverview{
		From:         from,
		To:           to,
		Response:     sla.ComputeResponseSLA(tickets, now),
		Resolution:   sla.ComputeResolutionSLA(tickets),
		ByDepartment: sla.BreakdownByDepartment(tickets, now),
		ByPriority:   sla.BreakdownByPriority(tickets, now),
	}
	s.toCache(ctx, cacheKey, overview)
	return overview, nil
}

// Trend computes the month-by-month compliance series for tickets created in
// [from, to].
func (s *SLAReportService) Trend(ctx context.Context, from, to time.Time) ([]sla.TrendPoint, error) {
	cacheKey := fmt.Sprintf("report:sla:trend:%d:%d", from.Unix(), to.Unix())
	var cached []sla.TrendPoint
	if s.fromCache(ctx, cacheKey, &cached) {
		return cached, nil
	}

	tickets, err := s.windowTickets(ctx, from, to)
	if err != nil {
		return nil, err
	}
	points := sla.MonthlyTrend(tickets, from, to, s.now().UTC())
	s.toCache(ctx, cacheKey, points)
	return points, nil
}

// ExportCSV renders the per-ticket compliance detail as CSV.
func (s *SLAReportService) ExportCSV(ctx context.Context, from, to time.Time) ([]byte, error) {
	tickets, err := s.windowTickets(ctx, from, to)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader()); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	for i := range tickets {
		if err := w.Write(exportRow(&tickets[i], now)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportXLSX renders the same detail as an Excel workbook with a summary
// sheet on top.
func (s *SLAReportService) ExportXLSX(ctx context.Context, from, to time.Time) ([]byte, error) {
	overview, err := s.Overview(ctx, from, to)
	if err != nil {
		return nil, err
	}
	tickets, err := s.windowTickets(ctx, from, to)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const summarySheet = "Summary"
	if err := f.SetSheetName(f.GetSheetName(0), summarySheet); err != nil {
		return nil, err
	}
	summaryRows := [][]interface{}{
		{"Metric", "Total", "Met", "Breached", "Pending", "Percentage"},
		{"Response", overview.Response.Total, overview.Response.Met, overview.Response.Breached, overview.Response.Pending, overview.Response.Percentage},
		{"Resolution", overview.Resolution.Total, overview.Resolution.Met, overview.Resolution.Breached, overview.Resolution.Pending, overview.Resolution.Percentage},
	}
	for i, row := range summaryRows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return nil, err
		}
	}

	const detailSheet = "Tickets"
	if _, err := f.NewSheet(detailSheet); err != nil {
		return nil, err
	}
	header := exportHeader()
	headerRow := make([]interface{}, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(detailSheet, "A1", &headerRow); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	for i := range tickets {
		values := exportRow(&tickets[i], now)
		row := make([]interface{}, len(values))
		for j, v := range values {
			row[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(detailSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *SLAReportService) windowTickets(ctx context.Context, from, to time.Time) ([]domain.Ticket, error) {
	return s.tickets.ListWithFilter(ctx, repository.TicketFilter{
		CreatedFrom: &from,
		CreatedTo:   &to,
	})
}

func (s *SLAReportService) fromCache(ctx context.Context, key string, out interface{}) bool {
	if s.cache == nil || s.cacheTTL <= 0 {
		return false
	}
	data, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("report cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		s.logger.Warn("report cache decode failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *SLAReportService) toCache(ctx context.Context, key string, value interface{}) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.cacheTTL).Err(); err != nil {
		s.logger.Warn("report cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func exportHeader() []string {
	return []string{
		"number", "title", "status", "priority_id", "department_id",
		"created_at", "response_due_at", "first_response_at",
		"resolution_due_at", "resolved_at", "response_outcome", "resolution_outcome",
	}
}

func exportRow(t *domain.Ticket, now time.Time) []string {
	return []string{
		t.Number,
		t.Title,
		t.StatusSlug,
		strconv.FormatInt(t.PriorityID, 10),
		strconv.FormatInt(t.DepartmentID, 10),
		t.CreatedAt.Format(time.RFC3339),
		timeCell(t.ResponseDueAt),
		timeCell(t.FirstResponseAt),
		timeCell(t.ResolutionDueAt),
		timeCell(t.ResolvedAt),
		responseOutcome(t, now),
		resolutionOutcome(t),
	}
}

func responseOutcome(t *domain.Ticket, now time.Time) string {
	if t.ResponseDueAt == nil {
		return "exempt"
	}
	switch {
	case t.FirstResponseAt != nil && !t.FirstResponseAt.After(*t.ResponseDueAt):
		return "met"
	case t.FirstResponseAt == nil && t.ResponseDueAt.Before(now):
		return "breached"
	case t.FirstResponseAt != nil:
		return "breached"
	default:
		return "pending"
	}
}

func resolutionOutcome(t *domain.Ticket) string {
	if t.ResolutionDueAt == nil {
		return "exempt"
	}
	switch {
	case t.ResolvedAt == nil:
		return "pending"
	case !t.ResolvedAt.After(*t.ResolutionDueAt):
		return "met"
	default:
		return "breached"
	}
}

func timeCell(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
