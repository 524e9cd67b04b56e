package dto

import "github.com/hospital-helpdesk/helpdesk-service/internal/domain"

// StatusResponse is a configurable status row.
type StatusResponse struct {
	ID        int64  `json:"id"`
	Slug      string `json:"slug"`
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
	IsClosed  bool   `json:"is_closed"`
}

// FromStatuses converts the status list.
func FromStatuses(statuses []domain.Status) []StatusResponse {
	items := make([]StatusResponse, 0, len(statuses))
	for _, s := range statuses {
		items = append(items, StatusResponse{
			ID:        s.ID,
			Slug:      s.Slug,
			Name:      s.Name,
			SortOrder: s.SortOrder,
			IsClosed:  s.IsClosed,
		})
	}
	return items
}

// PriorityResponse carries default SLA targets alongside the label.
type PriorityResponse struct {
	ID              int64  `json:"id"`
	Slug            string `json:"slug"`
	Name            string `json:"name"`
	SortOrder       int    `json:"sort_order"`
	ResponseHours   *int   `json:"response_hours"`
	ResolutionHours *int   `json:"resolution_hours"`
}

// FromPriorities converts the priority list.
func FromPriorities(priorities []domain.Priority) []PriorityResponse {
	items := make([]PriorityResponse, 0, len(priorities))
	for _, p := range priorities {
		items = append(items, PriorityResponse{
			ID:              p.ID,
			Slug:            p.Slug,
			Name:            p.Name,
			SortOrder:       p.SortOrder,
			ResponseHours:   p.ResponseHours,
			ResolutionHours: p.ResolutionHours,
		})
	}
	return items
}

// TicketTypeResponse is a request classification row.
type TicketTypeResponse struct {
	ID   int64  `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// FromTicketTypes converts the type list.
func FromTicketTypes(types []domain.TicketType) []TicketTypeResponse {
	items := make([]TicketTypeResponse, 0, len(types))
	for _, t := range types {
		items = append(items, TicketTypeResponse{ID: t.ID, Slug: t.Slug, Name: t.Name})
	}
	return items
}

// DepartmentResponse is an organizational unit.
type DepartmentResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

// FromDepartments converts the department list.
func FromDepartments(departments []domain.Department) []DepartmentResponse {
	items := make([]DepartmentResponse, 0, len(departments))
	for _, d := range departments {
		items = append(items, FromDepartment(&d))
	}
	return items
}

// FromDepartment converts a single department.
func FromDepartment(d *domain.Department) DepartmentResponse {
	return DepartmentResponse{ID: d.ID, Name: d.Name, IsActive: d.IsActive}
}

// FromStatus converts a single status.
func FromStatus(s *domain.Status) StatusResponse {
	return StatusResponse{ID: s.ID, Slug: s.Slug, Name: s.Name, SortOrder: s.SortOrder, IsClosed: s.IsClosed}
}

// FromPriority converts a single priority.
func FromPriority(p *domain.Priority) PriorityResponse {
	return PriorityResponse{
		ID:              p.ID,
		Slug:            p.Slug,
		Name:            p.Name,
		SortOrder:       p.SortOrder,
		ResponseHours:   p.ResponseHours,
		ResolutionHours: p.ResolutionHours,
	}
}

// FromTicketType converts a single ticket type.
func FromTicketType(t *domain.TicketType) TicketTypeResponse {
	return TicketTypeResponse{ID: t.ID, Slug: t.Slug, Name: t.Name}
}

// GroupResponse is an assignment group row.
type GroupResponse struct {
	ID           int64  `json:"id"`
	DepartmentID int64  `json:"department_id"`
	Name         string `json:"name"`
	IsActive     bool   `json:"is_active"`
}

// FromGroup converts a single group.
func FromGroup(g *domain.Group) GroupResponse {
	return GroupResponse{ID: g.ID, DepartmentID: g.DepartmentID, Name: g.Name, IsActive: g.IsActive}
}

// FromGroups converts the group list.
func FromGroups(groups []domain.Group) []GroupResponse {
	items := make([]GroupResponse, 0, len(groups))
	for _, g := range groups {
		items = append(items, FromGroup(&g))
	}
	return items
}
