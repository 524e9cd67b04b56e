package report

// DepartmentAggregate is the raw group-by result for one department over a
// closed-ticket window, with nested category/tag breakdowns and optional
// per-technician rows.
type DepartmentAggregate struct {
	DepartmentID    int64
	Name            string
	TotalTickets    int
	ResolvedTickets int
	Categories      []NamedCount
	Tags            []NamedCount
	Technicians     []TechnicianAggregate
}

// DepartmentReport is the derived department row with its technicians run
// through the same derivation as the technician report.
type DepartmentReport struct {
	DepartmentID    int64              `json:"department_id"`
	Name            string             `json:"name"`
	TotalTickets    int                `json:"total_tickets"`
	ResolvedTickets int                `json:"resolved_tickets"`
	Categories      []NamedCount       `json:"categories"`
	Tags            []NamedCount       `json:"tags"`
	Technicians     []TechnicianReport `json:"technicians,omitempty"`
}

// DeriveDepartment builds the department report row.
func DeriveDepartment(agg DepartmentAggregate, cfg InsightConfig) DepartmentReport {
	row := DepartmentReport{
		DepartmentID:    agg.DepartmentID,
		Name:            agg.Name,
		TotalTickets:    agg.TotalTickets,
		ResolvedTickets: agg.ResolvedTickets,
		Categories:      agg.Categories,
		Tags:            agg.Tags,
	}
	for _, tech := range agg.Technicians {
		row.Technicians = append(row.Technicians, DeriveTechnician(tech, cfg))
	}
	return row
}
