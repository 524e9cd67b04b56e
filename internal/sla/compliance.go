package sla

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/hospital-helpdesk/helpdesk-service/internal/domain"
)

// Compliance summarizes SLA attainment over a ticket set. Percentage is
// computed over counted tickets only (met+breached); tickets still inside
// their window do not drag the score down.
type Compliance struct {
	Total      int     `json:"total"`
	Met        int     `json:"met"`
	Breached   int     `json:"breached"`
	Pending    int     `json:"pending"`
	Percentage float64 `json:"percentage"`
}

// ComputeResponseSLA evaluates first-response attainment. Tickets without a
// response deadline are skipped. A ticket with no first response past its
// deadline counts as breached.
func ComputeResponseSLA(tickets []domain.Ticket, now time.Time) Compliance {
	var c Compliance
	for i := range tickets {
		t := &tickets[i]
		if t.ResponseDueAt == nil {
			continue
		}
		c.Total++
		switch {
		case t.FirstResponseAt != nil && !t.FirstResponseAt.After(*t.ResponseDueAt):
			c.Met++
		case t.FirstResponseAt == nil && t.ResponseDueAt.Before(now):
			c.Breached++
		case t.FirstResponseAt != nil && t.FirstResponseAt.After(*t.ResponseDueAt):
			c.Breached++
		default:
			c.Pending++
		}
	}
	c.Percentage = percentage(c.Met, c.Breached)
	return c
}

// ComputeResolutionSLA evaluates resolution attainment. Unlike the response
// metric, an unresolved ticket stays pending even after its deadline passes;
// breach requires an actual late resolution. The asymmetry is deliberate and
// mirrors how the compliance figures have always been reported.
func ComputeResolutionSLA(tickets []domain.Ticket) Compliance {
	var c Compliance
	for i := range tickets {
		t := &tickets[i]
		if t.ResolutionDueAt == nil {
			continue
		}
		c.Total++
		switch {
		case t.ResolvedAt == nil:
			c.Pending++
		case !t.ResolvedAt.After(*t.ResolutionDueAt):
			c.Met++
		default:
			c.Breached++
		}
	}
	c.Percentage = percentage(c.Met, c.Breached)
	return c
}

func percentage(met, breached int) float64 {
	counted := met + breached
	if counted == 0 {
		return 0.0
	}
	return math.Round(float64(met)/float64(counted)*1000) / 10
}

// TrendPoint carries both compliance figures for one calendar month.
type TrendPoint struct {
	Month      string     `json:"month"`
	Response   Compliance `json:"response"`
	Resolution Compliance `json:"resolution"`
}

// MonthlyTrend re-runs both computations per calendar month in [from, to],
// bucketing tickets by created_at. Month boundaries follow the server's
// local timezone.
func MonthlyTrend(tickets []domain.Ticket, from, to time.Time, now time.Time) []TrendPoint {
	start := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, from.Location())
	end := time.Date(to.Year(), to.Month(), 1, 0, 0, 0, 0, to.Location())

	var points []TrendPoint
	for month := start; !month.After(end); month = month.AddDate(0, 1, 0) {
		next := month.AddDate(0, 1, 0)
		var bucket []domain.Ticket
		for i := range tickets {
			created := tickets[i].CreatedAt
			if !created.Before(month) && created.Before(next) {
				bucket = append(bucket, tickets[i])
			}
		}
		points = append(points, TrendPoint{
			Month:      fmt.Sprintf("%04d-%02d", month.Year(), int(month.Month())),
			Response:   ComputeResponseSLA(bucket, now),
			Resolution: ComputeResolutionSLA(bucket),
		})
	}
	return points
}

// BreakdownRow carries met/breached counts for one group key. No percentage
// is reported at this granularity.
type BreakdownRow struct {
	Key                int64 `json:"key"`
	ResponseMet        int   `json:"response_met"`
	ResponseBreached   int   `json:"response_breached"`
	ResolutionMet      int   `json:"resolution_met"`
	ResolutionBreached int   `json:"resolution_breached"`
}

// BreakdownByDepartment groups met/breached counts by department id.
func BreakdownByDepartment(tickets []domain.Ticket, now time.Time) []BreakdownRow {
	return breakdown(tickets, now, func(t *domain.Ticket) int64 { return t.DepartmentID })
}

// BreakdownByPriority groups met/breached counts by priority id.
func BreakdownByPriority(tickets []domain.Ticket, now time.Time) []BreakdownRow {
	return breakdown(tickets, now, func(t *domain.Ticket) int64 { return t.PriorityID })
}

func breakdown(tickets []domain.Ticket, now time.Time, key func(*domain.Ticket) int64) []BreakdownRow {
	rows := map[int64]*BreakdownRow{}
	for i := range tickets {
		t := &tickets[i]
		k := key(t)
		row, ok := rows[k]
		if !ok {
			row = &BreakdownRow{Key: k}
			rows[k] = row
		}
		if t.ResponseDueAt != nil {
			switch {
			case t.FirstResponseAt != nil && !t.FirstResponseAt.After(*t.ResponseDueAt):
				row.ResponseMet++
			case t.FirstResponseAt == nil && t.ResponseDueAt.Before(now):
				row.ResponseBreached++
			case t.FirstResponseAt != nil:
				row.ResponseBreached++
			}
		}
		if t.ResolutionDueAt != nil && t.ResolvedAt != nil {
			if !t.ResolvedAt.After(*t.ResolutionDueAt) {
				row.ResolutionMet++
			} else {
				row.ResolutionBreached++
			}
		}
	}

	result := make([]BreakdownRow, 0, len(rows))
	for _, row := range rows {
		result = append(result, *row)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Key < result[j].Key })
	return result
}
