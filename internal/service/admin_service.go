package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/hospital-helpdesk/helpdesk-service/internal/domain"
	"github.com/hospital-helpdesk/helpdesk-service/internal/repository"
	apperrors "github.com/hospital-helpdesk/helpdesk-service/pkg/util"
)

// AdminService manages the reference data behind tickets: SLA rules and the
// category tree. Role checks happen at the router; this layer validates
// shape and referential consistency.
type AdminService struct {
	slaRules   repository.SLARuleRepository
	categories repository.CategoryRepository
	refs       repository.ReferenceRepository
	logger     *zap.Logger
}

// NewAdminService builds the service.
func NewAdminService(slaRules repository.SLARuleRepository, categories repository.CategoryRepository, refs repository.ReferenceRepository, logger *zap.Logger) *AdminService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminService{
		slaRules:   slaRules,
		categories: categories,
		refs:       refs,
		logger:     logger,
	}
}

// CreateSLARule stores a new rule. Edits never touch deadlines already
// stamped on existing tickets.
func (s *AdminService) CreateSLARule(ctx context.Context, rule *domain.SLARule) (*domain.SLARule, error) {
	if err := s.validateSLARule(ctx, rule); err != nil {
		return nil, err
	}
	if err := s.slaRules.Create(ctx, rule); err != nil {
		return nil, err
	}
	s.logger.Info("sla rule created", zap.Int64("rule_id", rule.ID))
	return rule, nil
}

// UpdateSLARule replaces a rule's fields.
func (s *AdminService) UpdateSLARule(ctx context.Context, rule *domain.SLARule) (*domain.SLARule, error) {
	if err := s.validateSLARule(ctx, rule); err != nil {
		return nil, err
	}
	if err := s.slaRules.Update(ctx, rule); err != nil {
		return nil, mapNotFound(err, "sla rule")
	}
	return rule, nil
}

// DeleteSLARule removes a rule.
func (s *AdminService) DeleteSLARule(ctx context.Context, id int64) error {
	return mapNotFound(s.slaRules.Delete(ctx, id), "sla rule")
}

// GetSLARule loads one rule.
func (s *AdminService) GetSLARule(ctx context.Context, id int64) (*domain.SLARule, error) {
	rule, err := s.slaRules.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, "sla rule")
	}
	return rule, nil
}

// ListSLARules lists all rules, active or not.
func (s *AdminService) ListSLARules(ctx context.Context) ([]domain.SLARule, error) {
	return s.slaRules.List(ctx)
}

func (s *AdminService) validateSLARule(ctx context.Context, rule *domain.SLARule) error {
	if rule.PriorityID == nil {
		return apperrors.NewValidationError("priority is required on every rule", nil)
	}
	if _, err := s.refs.GetPriority(ctx, *rule.PriorityID); err != nil {
		return mapNotFound(err, "priority")
	}
	if rule.TypeID != nil {
		if _, err := s.refs.GetTicketType(ctx, *rule.TypeID); err != nil {
			return mapNotFound(err, "ticket type")
		}
	}
	if rule.CategoryID != nil {
		if _, err := s.categories.GetByID(ctx, *rule.CategoryID); err != nil {
			return mapNotFound(err, "category")
		}
	}
	if rule.ResponseMinutes == nil && rule.ResolutionMinutes == nil {
		return apperrors.NewValidationError("rule needs a response or resolution target", nil)
	}
	if (rule.ResponseMinutes != nil && *rule.ResponseMinutes <= 0) ||
		(rule.ResolutionMinutes != nil && *rule.ResolutionMinutes <= 0) {
		return apperrors.NewValidationError("targets must be positive minutes", nil)
	}
	return nil
}

// CreateCategory adds a category (or subcategory when ParentID is set).
func (s *AdminService) CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	if err := s.validateCategory(ctx, category); err != nil {
		return nil, err
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// UpdateCategory replaces a category's fields. Tickets already routed keep
// their department and deadlines.
func (s *AdminService) UpdateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	if err := s.validateCategory(ctx, category); err != nil {
		return nil, err
	}
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, mapNotFound(err, "category")
	}
	return category, nil
}

// ListCategories lists categories, optionally only active ones.
func (s *AdminService) ListCategories(ctx context.Context, activeOnly bool) ([]domain.Category, error) {
	return s.categories.List(ctx, activeOnly)
}

func (s *AdminService) validateCategory(ctx context.Context, category *domain.Category) error {
	if category.Name == "" {
		return apperrors.NewValidationError("name required", nil)
	}
	if _, err := s.refs.GetDepartment(ctx, category.DepartmentID); err != nil {
		return mapNotFound(err, "department")
	}
	if category.ParentID != nil {
		parent, err := s.categories.GetByID(ctx, *category.ParentID)
		if err != nil {
			return mapNotFound(err, "parent category")
		}
		if parent.ParentID != nil {
			return apperrors.NewValidationError("categories nest one level deep", nil)
		}
	}
	return nil
}

// CreateDepartment registers a department. Routing only picks it up through
// categories that point at it.
func (s *AdminService) CreateDepartment(ctx context.Context, department *domain.Department) (*domain.Department, error) {
	if department.Name == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	if err := s.refs.CreateDepartment(ctx, department); err != nil {
		return nil, err
	}
	return department, nil
}

// UpdateDepartment replaces a department's fields. Existing tickets keep the
// department they were routed to.
func (s *AdminService) UpdateDepartment(ctx context.Context, department *domain.Department) (*domain.Department, error) {
	if department.Name == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	if err := s.refs.UpdateDepartment(ctx, department); err != nil {
		return nil, mapNotFound(err, "department")
	}
	return department, nil
}

// CreatePriority registers a priority level. Fallback SLA hours live here;
// rules in sla_rules take precedence.
func (s *AdminService) CreatePriority(ctx context.Context, priority *domain.Priority) (*domain.Priority, error) {
	if err := validatePriority(priority, true); err != nil {
		return nil, err
	}
	if err := s.refs.CreatePriority(ctx, priority); err != nil {
		return nil, err
	}
	return priority, nil
}

// UpdatePriority replaces a priority's fields. Deadlines already stamped on
// tickets never move.
func (s *AdminService) UpdatePriority(ctx context.Context, priority *domain.Priority) (*domain.Priority, error) {
	if err := validatePriority(priority, false); err != nil {
		return nil, err
	}
	if err := s.refs.UpdatePriority(ctx, priority); err != nil {
		return nil, mapNotFound(err, "priority")
	}
	return priority, nil
}

func validatePriority(priority *domain.Priority, requireSlug bool) error {
	if priority.Name == "" {
		return apperrors.NewValidationError("name required", nil)
	}
	if requireSlug && priority.Slug == "" {
		return apperrors.NewValidationError("slug required", nil)
	}
	if (priority.ResponseHours != nil && *priority.ResponseHours <= 0) ||
		(priority.ResolutionHours != nil && *priority.ResolutionHours <= 0) {
		return apperrors.NewValidationError("fallback hours must be positive", nil)
	}
	return nil
}

// CreateStatus registers a workflow status. The lifecycle transitions only
// recognize the built-in slugs; extra statuses are informational.
func (s *AdminService) CreateStatus(ctx context.Context, status *domain.Status) (*domain.Status, error) {
	if status.Slug == "" || status.Name == "" {
		return nil, apperrors.NewValidationError("slug and name required", nil)
	}
	if err := s.refs.CreateStatus(ctx, status); err != nil {
		return nil, err
	}
	return status, nil
}

// UpdateStatus replaces a status's display fields. Slugs are immutable since
// tickets and transition rules reference them.
func (s *AdminService) UpdateStatus(ctx context.Context, status *domain.Status) (*domain.Status, error) {
	if status.Name == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	if err := s.refs.UpdateStatus(ctx, status); err != nil {
		return nil, mapNotFound(err, "status")
	}
	return status, nil
}

// CreateTicketType registers a ticket type.
func (s *AdminService) CreateTicketType(ctx context.Context, ticketType *domain.TicketType) (*domain.TicketType, error) {
	if ticketType.Slug == "" || ticketType.Name == "" {
		return nil, apperrors.NewValidationError("slug and name required", nil)
	}
	if err := s.refs.CreateTicketType(ctx, ticketType); err != nil {
		return nil, err
	}
	return ticketType, nil
}

// CreateGroup registers an assignment group inside a department.
func (s *AdminService) CreateGroup(ctx context.Context, group *domain.Group) (*domain.Group, error) {
	if group.Name == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	if _, err := s.refs.GetDepartment(ctx, group.DepartmentID); err != nil {
		return nil, mapNotFound(err, "department")
	}
	if err := s.refs.CreateGroup(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

// ListGroups lists groups, optionally scoped to one department.
func (s *AdminService) ListGroups(ctx context.Context, departmentID *int64) ([]domain.Group, error) {
	return s.refs.ListGroups(ctx, departmentID)
}

// ListStatuses exposes the configured statuses for pickers.
func (s *AdminService) ListStatuses(ctx context.Context) ([]domain.Status, error) {
	return s.refs.ListStatuses(ctx)
}

// ListPriorities exposes the configured priorities for pickers.
func (s *AdminService) ListPriorities(ctx context.Context) ([]domain.Priority, error) {
	return s.refs.ListPriorities(ctx)
}

// ListTicketTypes exposes the configured ticket types for pickers.
func (s *AdminService) ListTicketTypes(ctx context.Context) ([]domain.TicketType, error) {
	return s.refs.ListTicketTypes(ctx)
}

// ListDepartments exposes the departments for pickers.
func (s *AdminService) ListDepartments(ctx context.Context) ([]domain.Department, error) {
	return s.refs.ListDepartments(ctx)
}
