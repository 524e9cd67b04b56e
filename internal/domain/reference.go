package domain

import "time"

// Status is a configurable ticket status row. Slug values listed in ticket.go
// drive lifecycle behavior; the rest only affect labels and ordering.
type Status struct {
	ID        int64
	Slug      string
	Name      string
	SortOrder int
	IsClosed  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Priority carries default SLA targets used when no rule matches.
type Priority struct {
	ID              int64
	Slug            string
	Name            string
	SortOrder       int
	ResponseHours   *int
	ResolutionHours *int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ResponseMinutes converts the default response target to minutes.
func (p *Priority) ResponseMinutes() *int {
	if p.ResponseHours == nil {
		return nil
	}
	m := *p.ResponseHours * 60
	return &m
}

// ResolutionMinutes converts the default resolution target to minutes.
func (p *Priority) ResolutionMinutes() *int {
	if p.ResolutionHours == nil {
		return nil
	}
	m := *p.ResolutionHours * 60
	return &m
}

// TicketType classifies the nature of a request (incident, service request...).
type TicketType struct {
	ID        int64
	Slug      string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Category determines the owning department and whether SLA tracking applies.
// Development-flagged categories are exempt from SLA deadlines entirely.
type Category struct {
	ID            int64
	ParentID      *int64
	DepartmentID  int64
	Name          string
	IsDevelopment bool
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Department is an organizational unit owning categories and staff.
type Department struct {
	ID        int64
	Name      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Group is an optional pooled assignment target for tickets.
type Group struct {
	ID           int64
	DepartmentID int64
	Name         string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
