package dto

import (
	"time"

	"github.com/hospital-helpdesk/helpdesk-service/internal/domain"
)

// SLARuleRequest creates or replaces an SLA rule.
type SLARuleRequest struct {
	TypeID            *int64 `json:"type_id"`
	PriorityID        *int64 `json:"priority_id" validate:"required"`
	CategoryID        *int64 `json:"category_id"`
	ResponseMinutes   *int   `json:"response_minutes"`
	ResolutionMinutes *int   `json:"resolution_minutes"`
	BusinessHoursOnly bool   `json:"business_hours_only"`
	IsActive          bool   `json:"is_active"`
}

// ToSLARule converts to the domain model.
func (r *SLARuleRequest) ToSLARule() *domain.SLARule {
	return &domain.SLARule{
		TypeID:            r.TypeID,
		PriorityID:        r.PriorityID,
		CategoryID:        r.CategoryID,
		ResponseMinutes:   r.ResponseMinutes,
		ResolutionMinutes: r.ResolutionMinutes,
		BusinessHoursOnly: r.BusinessHoursOnly,
		IsActive:          r.IsActive,
	}
}

// SLARuleResponse is the API representation of an SLA rule.
type SLARuleResponse struct {
	ID                int64     `json:"id"`
	TypeID            *int64    `json:"type_id"`
	PriorityID        *int64    `json:"priority_id"`
	CategoryID        *int64    `json:"category_id"`
	ResponseMinutes   *int      `json:"response_minutes"`
	ResolutionMinutes *int      `json:"resolution_minutes"`
	BusinessHoursOnly bool      `json:"business_hours_only"`
	IsActive          bool      `json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// FromSLARule converts a domain rule.
func FromSLARule(rule *domain.SLARule) SLARuleResponse {
	return SLARuleResponse{
		ID:                rule.ID,
		TypeID:            rule.TypeID,
		PriorityID:        rule.PriorityID,
		CategoryID:        rule.CategoryID,
		ResponseMinutes:   rule.ResponseMinutes,
		ResolutionMinutes: rule.ResolutionMinutes,
		BusinessHoursOnly: rule.BusinessHoursOnly,
		IsActive:          rule.IsActive,
		CreatedAt:         rule.CreatedAt,
		UpdatedAt:         rule.UpdatedAt,
	}
}

// FromSLARules converts a list.
func FromSLARules(rules []domain.SLARule) []SLARuleResponse {
	items := make([]SLARuleResponse, 0, len(rules))
	for i := range rules {
		items = append(items, FromSLARule(&rules[i]))
	}
	return items
}

// CategoryRequest creates or updates a category.
type CategoryRequest struct {
	ParentID      *int64 `json:"parent_id"`
	DepartmentID  int64  `json:"department_id" validate:"required"`
	Name          string `json:"name" validate:"required,max=255"`
	IsDevelopment bool   `json:"is_development"`
	IsActive      bool   `json:"is_active"`
}

// ToCategory converts to the domain model.
func (r *CategoryRequest) ToCategory() *domain.Category {
	return &domain.Category{
		ParentID:      r.ParentID,
		DepartmentID:  r.DepartmentID,
		Name:          r.Name,
		IsDevelopment: r.IsDevelopment,
		IsActive:      r.IsActive,
	}
}

// CategoryResponse is the API representation of a category.
type CategoryResponse struct {
	ID            int64  `json:"id"`
	ParentID      *int64 `json:"parent_id"`
	DepartmentID  int64  `json:"department_id"`
	Name          string `json:"name"`
	IsDevelopment bool   `json:"is_development"`
	IsActive      bool   `json:"is_active"`
}

// FromCategory converts a single category.
func FromCategory(c *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:            c.ID,
		ParentID:      c.ParentID,
		DepartmentID:  c.DepartmentID,
		Name:          c.Name,
		IsDevelopment: c.IsDevelopment,
		IsActive:      c.IsActive,
	}
}

// FromCategories converts a list.
func FromCategories(categories []domain.Category) []CategoryResponse {
	items := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		items = append(items, FromCategory(&categories[i]))
	}
	return items
}

// DepartmentRequest creates or updates a department.
type DepartmentRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	IsActive bool   `json:"is_active"`
}

// ToDepartment converts to the domain model.
func (r *DepartmentRequest) ToDepartment() *domain.Department {
	return &domain.Department{Name: r.Name, IsActive: r.IsActive}
}

// PriorityRequest creates or updates a priority level.
type PriorityRequest struct {
	Slug            string `json:"slug" validate:"max=64"`
	Name            string `json:"name" validate:"required,max=255"`
	SortOrder       int    `json:"sort_order"`
	ResponseHours   *int   `json:"response_hours"`
	ResolutionHours *int   `json:"resolution_hours"`
}

// ToPriority converts to the domain model.
func (r *PriorityRequest) ToPriority() *domain.Priority {
	return &domain.Priority{
		Slug:            r.Slug,
		Name:            r.Name,
		SortOrder:       r.SortOrder,
		ResponseHours:   r.ResponseHours,
		ResolutionHours: r.ResolutionHours,
	}
}

// StatusRequest creates or updates a workflow status.
type StatusRequest struct {
	Slug      string `json:"slug" validate:"max=64"`
	Name      string `json:"name" validate:"required,max=255"`
	SortOrder int    `json:"sort_order"`
	IsClosed  bool   `json:"is_closed"`
}

// ToStatus converts to the domain model.
func (r *StatusRequest) ToStatus() *domain.Status {
	return &domain.Status{Slug: r.Slug, Name: r.Name, SortOrder: r.SortOrder, IsClosed: r.IsClosed}
}

// TicketTypeRequest creates a ticket type.
type TicketTypeRequest struct {
	Slug string `json:"slug" validate:"required,max=64"`
	Name string `json:"name" validate:"required,max=255"`
}

// ToTicketType converts to the domain model.
func (r *TicketTypeRequest) ToTicketType() *domain.TicketType {
	return &domain.TicketType{Slug: r.Slug, Name: r.Name}
}

// GroupRequest creates an assignment group.
type GroupRequest struct {
	DepartmentID int64  `json:"department_id" validate:"required"`
	Name         string `json:"name" validate:"required,max=255"`
	IsActive     bool   `json:"is_active"`
}

// ToGroup converts to the domain model.
func (r *GroupRequest) ToGroup() *domain.Group {
	return &domain.Group{DepartmentID: r.DepartmentID, Name: r.Name, IsActive: r.IsActive}
}
