package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hospital-helpdesk/helpdesk-service/internal/domain"
)

func fp(v float64) *float64 { return &v }

func TestDeriveTechnician(t *testing.T) {
	cfg := DefaultInsightConfig()

	t.Run("HighPerformer", func(t *testing.T) {
		row := DeriveTechnician(TechnicianAggregate{
			TechnicianID:       7,
			Name:               "Ani",
			TotalTickets:       12,
			ResolvedTickets:    11,
			AvgResolutionHours: fp(10.5),
			Categories:         []NamedCount{{Name: "Network", Count: 6}, {Name: "Printer", Count: 3}},
			Tags:               []NamedCount{{Name: "icu", Count: 4}},
		}, cfg)

		require.NotNil(t, row.ResolutionRatePercent)
		assert.Equal(t, 92, *row.ResolutionRatePercent)
		assert.Contains(t, row.Insights, "resolution rate at or above 80%")
		assert.Contains(t, row.Insights, "average resolution time under 24 hours")
		assert.Contains(t, row.Insights, "handled 10 or more tickets this period")
		// top category and tag are always called out by name
		assert.Contains(t, row.Recommendations, `most handled tickets fall under category "Network" - consider preventive maintenance there`)
		assert.Contains(t, row.Recommendations, `tag "icu" dominates this technician's tickets`)
	})

	t.Run("LowPerformer", func(t *testing.T) {
		row := DeriveTechnician(TechnicianAggregate{
			TechnicianID:       8,
			TotalTickets:       6,
			ResolvedTickets:    3,
			AvgResolutionHours: fp(60),
		}, cfg)

		require.NotNil(t, row.ResolutionRatePercent)
		assert.Equal(t, 50, *row.ResolutionRatePercent)
		assert.Empty(t, row.Insights)
		assert.Contains(t, row.Recommendations, "resolution rate below 70% - prioritize this technician's open workload")
		assert.Contains(t, row.Recommendations, "average resolution time above 48 hours - review long-running tickets")
	})

	t.Run("NoTicketsMeansNoRate", func(t *testing.T) {
		row := DeriveTechnician(TechnicianAggregate{TechnicianID: 9}, cfg)
		assert.Nil(t, row.ResolutionRatePercent)
		assert.Empty(t, row.Insights)
		assert.Empty(t, row.Recommendations)
	})

	t.Run("ThresholdBoundaries", func(t *testing.T) {
		// exactly 80% counts as high; exactly 70% is not low
		row := DeriveTechnician(TechnicianAggregate{TotalTickets: 10, ResolvedTickets: 8}, cfg)
		assert.Contains(t, row.Insights, "resolution rate at or above 80%")

		row = DeriveTechnician(TechnicianAggregate{TotalTickets: 10, ResolvedTickets: 7}, cfg)
		for _, rec := range row.Recommendations {
			assert.NotContains(t, rec, "below 70%")
		}
		// exactly 24h is not "under"; exactly 48h is not "above"
		row = DeriveTechnician(TechnicianAggregate{TotalTickets: 1, ResolvedTickets: 1, AvgResolutionHours: fp(24)}, cfg)
		assert.NotContains(t, row.Insights, "average resolution time under 24 hours")
		row = DeriveTechnician(TechnicianAggregate{TotalTickets: 1, ResolvedTickets: 1, AvgResolutionHours: fp(48)}, cfg)
		for _, rec := range row.Recommendations {
			assert.NotContains(t, rec, "above 48 hours")
		}
	})
}

func TestDeriveDepartment(t *testing.T) {
	cfg := DefaultInsightConfig()
	row := DeriveDepartment(DepartmentAggregate{
		DepartmentID:    1,
		Name:            "IT",
		TotalTickets:    20,
		ResolvedTickets: 18,
		Categories:      []NamedCount{{Name: "Network", Count: 12}},
		Technicians: []TechnicianAggregate{
			{TechnicianID: 7, TotalTickets: 12, ResolvedTickets: 11},
		},
	}, cfg)

	assert.Equal(t, "IT", row.Name)
	require.Len(t, row.Technicians, 1)
	require.NotNil(t, row.Technicians[0].ResolutionRatePercent)
	assert.Equal(t, 92, *row.Technicians[0].ResolutionRatePercent)
}

func TestBuildDailyActivity(t *testing.T) {
	day1 := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)

	activities := []domain.TicketActivity{
		{UserID: 7, Action: domain.ActionStatusChanged, CreatedAt: day1},
		{UserID: 7, Action: domain.ActionCommented, CreatedAt: day1.Add(time.Hour)},
		{UserID: 8, Action: domain.ActionAssigned, CreatedAt: day1},
		{UserID: 7, Action: domain.ActionClosed, CreatedAt: day2},
	}

	result := BuildDailyActivity(activities, map[int64]string{7: "Ani", 8: "Budi"})
	require.Len(t, result.Groups, 3)

	assert.Equal(t, "2026-03-14", result.Groups[0].Date)
	assert.Equal(t, int64(7), result.Groups[0].UserID)
	assert.Equal(t, "Ani", result.Groups[0].UserName)
	assert.Len(t, result.Groups[0].Entries, 2)
	assert.Equal(t, 1, result.Groups[0].ActionCounts[domain.ActionCommented])

	assert.Equal(t, int64(8), result.Groups[1].UserID)
	assert.Equal(t, "2026-03-15", result.Groups[2].Date)

	assert.Equal(t, 2, result.Summary[domain.ActionStatusChanged]+result.Summary[domain.ActionClosed])
}

func TestLoadInsightConfigDefaults(t *testing.T) {
	cfg, err := LoadInsightConfig("")
	require.NoError(t, err)
	assert.Equal(t, 80, cfg.HighResolutionRatePercent)

	cfg, err = LoadInsightConfig("/nonexistent/insights.yaml")
	require.NoError(t, err)
	assert.Equal(t, 70, cfg.LowResolutionRatePercent)
}
