package sla

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hospital-helpdesk/helpdesk-service/internal/domain"
)

func tp(t time.Time) *time.Time { return &t }

func TestComputeResponseSLA(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	t.Run("MetBreachedPending", func(t *testing.T) {
		tickets := []domain.Ticket{
			// responded in time
			{ResponseDueAt: tp(now.Add(-time.Hour)), FirstResponseAt: tp(now.Add(-2 * time.Hour))},
			// responded late
			{ResponseDueAt: tp(now.Add(-2 * time.Hour)), FirstResponseAt: tp(now.Add(-time.Hour))},
			// unresponded and overdue
			{ResponseDueAt: tp(now.Add(-time.Minute))},
			// unresponded, still inside the window
			{ResponseDueAt: tp(now.Add(time.Hour))},
			// no deadline at all: not counted
			{},
		}
		c := ComputeResponseSLA(tickets, now)
		assert.Equal(t, 4, c.Total)
		assert.Equal(t, 1, c.Met)
		assert.Equal(t, 2, c.Breached)
		assert.Equal(t, 1, c.Pending)
		assert.InDelta(t, 33.3, c.Percentage, 0.001)
	})

	t.Run("AllPendingYieldsZeroPercentage", func(t *testing.T) {
		tickets := []domain.Ticket{
			{ResponseDueAt: tp(now.Add(time.Hour))},
			{ResponseDueAt: tp(now.Add(2 * time.Hour))},
			{ResponseDueAt: tp(now.Add(3 * time.Hour))},
		}
		c := ComputeResponseSLA(tickets, now)
		assert.Equal(t, Compliance{Total: 3, Pending: 3, Percentage: 0.0}, c)
	})

	t.Run("EmptySet", func(t *testing.T) {
		c := ComputeResponseSLA(nil, now)
		assert.Equal(t, Compliance{}, c)
	})

	t.Run("ResponseExactlyAtDeadlineIsMet", func(t *testing.T) {
		due := now.Add(-time.Hour)
		c := ComputeResponseSLA([]domain.Ticket{{ResponseDueAt: tp(due), FirstResponseAt: tp(due)}}, now)
		assert.Equal(t, 1, c.Met)
	})
}

func TestComputeResolutionSLA(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	t.Run("OverdueUnresolvedStaysPending", func(t *testing.T) {
		// The response metric would count the equivalent situation as
		// breached; the resolution metric only breaches on a late resolve.
		overdue := domain.Ticket{
			ResponseDueAt:   tp(now.Add(-time.Hour)),
			ResolutionDueAt: tp(now.Add(-time.Hour)),
		}
		resolution := ComputeResolutionSLA([]domain.Ticket{overdue})
		response := ComputeResponseSLA([]domain.Ticket{overdue}, now)

		assert.Equal(t, 1, resolution.Pending)
		assert.Equal(t, 0, resolution.Breached)
		assert.Equal(t, 1, response.Breached)
		assert.Equal(t, 0, response.Pending)
	})

	t.Run("LateResolutionBreaches", func(t *testing.T) {
		tickets := []domain.Ticket{
			{ResolutionDueAt: tp(now.Add(-2 * time.Hour)), ResolvedAt: tp(now.Add(-time.Hour))},
			{ResolutionDueAt: tp(now.Add(-2 * time.Hour)), ResolvedAt: tp(now.Add(-3 * time.Hour))},
		}
		c := ComputeResolutionSLA(tickets)
		assert.Equal(t, 1, c.Breached)
		assert.Equal(t, 1, c.Met)
		assert.InDelta(t, 50.0, c.Percentage, 0.001)
	})
}

func TestMonthlyTrend(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	jan := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)
	feb := time.Date(2026, 2, 20, 8, 0, 0, 0, time.UTC)

	tickets := []domain.Ticket{
		{CreatedAt: jan, ResponseDueAt: tp(jan.Add(time.Hour)), FirstResponseAt: tp(jan.Add(30 * time.Minute))},
		{CreatedAt: feb, ResponseDueAt: tp(feb.Add(time.Hour))},
	}

	points := MonthlyTrend(tickets, jan, now, now)
	require.Len(t, points, 3)

	assert.Equal(t, "2026-01", points[0].Month)
	assert.Equal(t, 1, points[0].Response.Met)

	assert.Equal(t, "2026-02", points[1].Month)
	assert.Equal(t, 1, points[1].Response.Breached)

	assert.Equal(t, "2026-03", points[2].Month)
	assert.Equal(t, 0, points[2].Response.Total)
}

func TestBreakdowns(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	tickets := []domain.Ticket{
		{DepartmentID: 1, PriorityID: 10, ResponseDueAt: tp(now.Add(-time.Hour)), FirstResponseAt: tp(now.Add(-2 * time.Hour))},
		{DepartmentID: 1, PriorityID: 20, ResponseDueAt: tp(now.Add(-time.Hour))},
		{DepartmentID: 2, PriorityID: 10, ResolutionDueAt: tp(now.Add(-time.Hour)), ResolvedAt: tp(now)},
	}

	t.Run("ByDepartment", func(t *testing.T) {
		rows := BreakdownByDepartment(tickets, now)
		require.Len(t, rows, 2)
		assert.Equal(t, int64(1), rows[0].Key)
		assert.Equal(t, 1, rows[0].ResponseMet)
		assert.Equal(t, 1, rows[0].ResponseBreached)
		assert.Equal(t, int64(2), rows[1].Key)
		assert.Equal(t, 1, rows[1].ResolutionBreached)
	})

	t.Run("ByPriority", func(t *testing.T) {
		rows := BreakdownByPriority(tickets, now)
		require.Len(t, rows, 2)
		assert.Equal(t, int64(10), rows[0].Key)
		assert.Equal(t, int64(20), rows[1].Key)
	})
}
