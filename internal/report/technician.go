package report

import (
	"fmt"
	"math"
)

// NamedCount is a label with a count, sorted descending by the repository.
type NamedCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// TechnicianAggregate is the raw group-by result for one technician over a
// closed-ticket window.
type TechnicianAggregate struct {
	TechnicianID       int64
	Name               string
	TotalTickets       int
	ResolvedTickets    int
	AvgResolutionHours *float64
	Categories         []NamedCount
	Tags               []NamedCount
}

// TechnicianReport is the derived per-technician report row.
type TechnicianReport struct {
	TechnicianID          int64        `json:"technician_id"`
	Name                  string       `json:"name"`
	TotalTickets          int          `json:"total_tickets"`
	ResolvedTickets       int          `json:"resolved_tickets"`
	ResolutionRatePercent *int         `json:"resolution_rate_percent"`
	AvgResolutionHours    *float64     `json:"avg_resolution_hours"`
	Categories            []NamedCount `json:"categories"`
	Tags                  []NamedCount `json:"tags"`
	Insights              []string     `json:"insights"`
	Recommendations       []string     `json:"recommendations"`
}

// DeriveTechnician turns a raw aggregate into the report row: resolution
// rate plus threshold-based insight and recommendation strings.
func DeriveTechnician(agg TechnicianAggregate, cfg InsightConfig) TechnicianReport {
	row := TechnicianReport{
		TechnicianID:       agg.TechnicianID,
		Name:               agg.Name,
		TotalTickets:       agg.TotalTickets,
		ResolvedTickets:    agg.ResolvedTickets,
		AvgResolutionHours: agg.AvgResolutionHours,
		Categories:         agg.Categories,
		Tags:               agg.Tags,
	}

	if agg.TotalTickets > 0 {
		rate := int(math.Round(100 * float64(agg.ResolvedTickets) / float64(agg.TotalTickets)))
		row.ResolutionRatePercent = &rate
	}

	row.Insights = insights(row, cfg)
	row.Recommendations = recommendations(row, cfg)
	return row
}

func insights(row TechnicianReport, cfg InsightConfig) []string {
	var out []string
	if row.ResolutionRatePercent != nil && *row.ResolutionRatePercent >= cfg.HighResolutionRatePercent {
		out = append(out, fmt.Sprintf(cfg.Messages.HighResolutionRate, cfg.HighResolutionRatePercent))
	}
	if row.AvgResolutionHours != nil && *row.AvgResolutionHours < float64(cfg.FastResolutionHours) {
		out = append(out, fmt.Sprintf(cfg.Messages.FastResolution, cfg.FastResolutionHours))
	}
	if row.TotalTickets >= cfg.HighThroughputTickets {
		out = append(out, fmt.Sprintf(cfg.Messages.HighThroughput, cfg.HighThroughputTickets))
	}
	return out
}

func recommendations(row TechnicianReport, cfg InsightConfig) []string {
	var out []string
	if row.ResolutionRatePercent != nil && *row.ResolutionRatePercent < cfg.LowResolutionRatePercent {
		out = append(out, fmt.Sprintf(cfg.Messages.LowResolutionRate, cfg.LowResolutionRatePercent))
	}
	if row.AvgResolutionHours != nil && *row.AvgResolutionHours > float64(cfg.SlowResolutionHours) {
		out = append(out, fmt.Sprintf(cfg.Messages.SlowResolution, cfg.SlowResolutionHours))
	}
	if len(row.Categories) > 0 {
		out = append(out, fmt.Sprintf(cfg.Messages.TopCategory, row.Categories[0].Name))
	}
	if len(row.Tags) > 0 {
		out = append(out, fmt.Sprintf(cfg.Messages.TopTag, row.Tags[0].Name))
	}
	return out
}
