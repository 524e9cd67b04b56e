package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/hospital-helpdesk/helpdesk-service/internal/api/dto"
	"github.com/hospital-helpdesk/helpdesk-service/internal/service"
	apperrors "github.com/hospital-helpdesk/helpdesk-service/pkg/util"
)

// AdminHandler exposes SLA rule, category and reference data management.
type AdminHandler struct {
	service *service.AdminService
}

// NewAdminHandler returns a new handler instance.
func NewAdminHandler(service *service.AdminService) *AdminHandler {
	return &AdminHandler{service: service}
}

// CreateSLARule adds a new SLA rule.
func (h *AdminHandler) CreateSLARule(c *fiber.Ctx) error {
	var req dto.SLARuleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(&req); err != nil {
		return err
	}

	rule, err := h.service.CreateSLARule(c.UserContext(), req.ToSLARule())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.FromSLARule(rule)})
}

// UpdateSLARule replaces an existing SLA rule.
func (h *AdminHandler) UpdateSLARule(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req dto.SLARuleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(&req); err != nil {
		return err
	}

	rule := req.ToSLARule()
	rule.ID = id
	updated, err := h.service.UpdateSLARule(c.UserContext(), rule)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromSLARule(updated)})
}

// DeleteSLARule removes an SLA rule. Existing ticket deadlines are untouched.
func (h *AdminHandler) DeleteSLARule(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteSLARule(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// GetSLARule fetches one SLA rule.
func (h *AdminHandler) GetSLARule(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	rule, err := h.service.GetSLARule(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromSLARule(rule)})
}

// ListSLARules returns all SLA rules ordered by ID.
func (h *AdminHandler) ListSLARules(c *fiber.Ctx) error {
	rules, err := h.service.ListSLARules(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromSLARules(rules)})
}

// CreateCategory adds a new category.
func (h *AdminHandler) CreateCategory(c *fiber.Ctx) error {
	var req dto.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(&req); err != nil {
		return err
	}

	category, err := h.service.CreateCategory(c.UserContext(), req.ToCategory())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.FromCategory(category)})
}

// UpdateCategory replaces an existing category.
func (h *AdminHandler) UpdateCategory(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req dto.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(&req); err != nil {
		return err
	}

	category := req.ToCategory()
	category.ID = id
	updated, err := h.service.UpdateCategory(c.UserContext(), category)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromCategory(updated)})
}

// ListCategories returns categories; pass active_only=true to filter.
func (h *AdminHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.service.ListCategories(c.UserContext(), c.QueryBool("active_only"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromCategories(categories)})
}

// CreateDepartment adds a department.
func (h *AdminHandler) CreateDepartment(c *fiber.Ctx) error {
	var req dto.DepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(&req); err != nil {
		return err
	}

	department, err := h.service.CreateDepartment(c.UserContext(), req.ToDepartment())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.FromDepartment(department)})
}

// UpdateDepartment replaces a department's fields.
func (h *AdminHandler) UpdateDepartment(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req dto.DepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(&req); err != nil {
		return err
	}

	department := req.ToDepartment()
	department.ID = id
	updated, err := h.service.UpdateDepartment(c.UserContext(), department)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromDepartment(updated)})
}

// CreatePriority adds a priority level.
func (h *AdminHandler) CreatePriority(c *fiber.Ctx) error {
	var req dto.PriorityRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(&req); err != nil {
		return err
	}

	priority, err := h.service.CreatePriority(c.UserContext(), req.ToPriority())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.FromPriority(priority)})
}

// UpdatePriority replaces a priority's fields. Tickets keep their stamped
// deadlines.
func (h *AdminHandler) UpdatePriority(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req dto.PriorityRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(&req); err != nil {
		return err
	}

	priority := req.ToPriority()
	priority.ID = id
	updated, err := h.service.UpdatePriority(c.UserContext(), priority)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromPriority(updated)})
}

// CreateStatus adds a workflow status.
func (h *AdminHandler) CreateStatus(c *fiber.Ctx) error {
	var req dto.StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(&req); err != nil {
		return err
	}

	status, err := h.service.CreateStatus(c.UserContext(), req.ToStatus())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.FromStatus(status)})
}

// UpdateStatus replaces a status's display fields.
func (h *AdminHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req dto.StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(&req); err != nil {
		return err
	}

	status := req.ToStatus()
	status.ID = id
	updated, err := h.service.UpdateStatus(c.UserContext(), status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromStatus(updated)})
}

// CreateTicketType adds a ticket type.
func (h *AdminHandler) CreateTicketType(c *fiber.Ctx) error {
	var req dto.TicketTypeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(&req); err != nil {
		return err
	}

	ticketType, err := h.service.CreateTicketType(c.UserContext(), req.ToTicketType())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.FromTicketType(ticketType)})
}

// CreateGroup adds an assignment group.
func (h *AdminHandler) CreateGroup(c *fiber.Ctx) error {
	var req dto.GroupRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(&req); err != nil {
		return err
	}

	group, err := h.service.CreateGroup(c.UserContext(), req.ToGroup())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.FromGroup(group)})
}

// ListGroups returns groups; pass department_id to scope.
func (h *AdminHandler) ListGroups(c *fiber.Ctx) error {
	departmentID, err := queryInt64Ptr(c, "department_id")
	if err != nil {
		return err
	}
	groups, err := h.service.ListGroups(c.UserContext(), departmentID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromGroups(groups)})
}

// ListStatuses returns the status catalog.
func (h *AdminHandler) ListStatuses(c *fiber.Ctx) error {
	statuses, err := h.service.ListStatuses(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromStatuses(statuses)})
}

// ListPriorities returns the priority catalog.
func (h *AdminHandler) ListPriorities(c *fiber.Ctx) error {
	priorities, err := h.service.ListPriorities(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromPriorities(priorities)})
}

// ListTicketTypes returns the ticket type catalog.
func (h *AdminHandler) ListTicketTypes(c *fiber.Ctx) error {
	types, err := h.service.ListTicketTypes(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromTicketTypes(types)})
}

// ListDepartments returns the department catalog.
func (h *AdminHandler) ListDepartments(c *fiber.Ctx) error {
	departments, err := h.service.ListDepartments(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromDepartments(departments)})
}
