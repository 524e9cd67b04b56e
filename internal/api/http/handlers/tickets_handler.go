package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/hospital-helpdesk/helpdesk-service/internal/api/dto"
	"github.com/hospital-helpdesk/helpdesk-service/internal/auth"
	"github.com/hospital-helpdesk/helpdesk-service/internal/lifecycle"
	"github.com/hospital-helpdesk/helpdesk-service/internal/repository"
	"github.com/hospital-helpdesk/helpdesk-service/internal/service"
	apperrors "github.com/hospital-helpdesk/helpdesk-service/pkg/util"
)

// TicketsHandler exposes the ticket lifecycle over HTTP.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler returns a new handler instance.
func NewTicketsHandler(service *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: service}
}

func requirePrincipal(c *fiber.Ctx) (*auth.Principal, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return principal, nil
}

// Create opens a new ticket.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(&req); err != nil {
		return err
	}

	ticket, err := h.service.CreateTicket(c.UserContext(), principal.Actor(), service.TicketCreateInput{
		Title:           req.Title,
		Description:     req.Description,
		TypeID:          req.TypeID,
		CategoryID:      req.CategoryID,
		SubcategoryID:   req.SubcategoryID,
		PriorityID:      req.PriorityID,
		DepartmentID:    req.DepartmentID,
		RelatedTicketID: req.RelatedTicketID,
		AssetID:         req.AssetID,
		Tags:            req.Tags,
		DueDate:         req.DueDate,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.FromTicket(ticket)})
}

// Get fetches one ticket by ID.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	ticket, err := h.service.GetTicket(c.UserContext(), principal.Actor(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromTicket(ticket)})
}

// GetByNumber fetches one ticket by its human-facing number.
func (h *TicketsHandler) GetByNumber(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	number := c.Params("number")
	if number == "" {
		return apperrors.NewValidationError("invalid number", nil)
	}

	ticket, err := h.service.GetTicketByNumber(c.UserContext(), principal.Actor(), number)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromTicket(ticket)})
}

// List returns tickets matching query filters. Requesters only ever see
// their own tickets regardless of filters.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	filter, err := parseTicketFilter(c)
	if err != nil {
		return err
	}

	tickets, err := h.service.ListTickets(c.UserContext(), principal.Actor(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromTickets(tickets)})
}

// Export streams tickets matching the same query filters as List, as CSV.
func (h *TicketsHandler) Export(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	filter, err := parseTicketFilter(c)
	if err != nil {
		return err
	}
	// export everything in range, not one page
	filter.Limit = 0
	filter.Offset = 0

	payload, err := h.service.ExportTicketsCSV(c.UserContext(), principal.Actor(), filter)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename=tickets.csv`)
	return c.Send(payload)
}

// Update applies a batched staff update to status, assignee, group and priority.
func (h *TicketsHandler) Update(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	update := lifecycle.Update{
		StatusSlug: req.Status,
		PriorityID: req.PriorityID,
	}
	if req.AssigneeID != nil || req.ClearAssignee {
		update.SetAssignee = true
		update.AssigneeID = req.AssigneeID
	}
	if req.GroupID != nil || req.ClearGroup {
		update.SetGroup = true
		update.GroupID = req.GroupID
	}

	ticket, err := h.service.UpdateTicket(c.UserContext(), principal.Actor(), id, update)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromTicket(ticket)})
}

// Delete soft-deletes a ticket. Admin only.
func (h *TicketsHandler) Delete(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.service.DeleteTicket(c.UserContext(), principal.Actor(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Activities returns the ticket audit trail.
func (h *TicketsHandler) Activities(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	activities, err := h.service.ListActivities(c.UserContext(), principal.Actor(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromActivities(activities)})
}

func parseTicketFilter(c *fiber.Ctx) (repository.TicketFilter, error) {
	var filter repository.TicketFilter
	var err error

	if filter.RequesterID, err = queryInt64Ptr(c, "requester_id"); err != nil {
		return filter, err
	}
	if filter.DepartmentID, err = queryInt64Ptr(c, "department_id"); err != nil {
		return filter, err
	}
	if filter.AssigneeID, err = queryInt64Ptr(c, "assignee_id"); err != nil {
		return filter, err
	}
	if filter.GroupID, err = queryInt64Ptr(c, "group_id"); err != nil {
		return filter, err
	}
	if filter.CategoryID, err = queryInt64Ptr(c, "category_id"); err != nil {
		return filter, err
	}
	if filter.CreatedFrom, err = queryTime(c, "created_from"); err != nil {
		return filter, err
	}
	if filter.CreatedTo, err = queryTime(c, "created_to"); err != nil {
		return filter, err
	}

	filter.StatusSlugs = queryCSV(c, "status")
	for _, raw := range queryCSV(c, "priority") {
		id, perr := strconv.ParseInt(raw, 10, 64)
		if perr != nil {
			return filter, apperrors.NewValidationError("invalid priority", map[string]any{"priority": raw})
		}
		filter.PriorityIDs = append(filter.PriorityIDs, id)
	}

	filter.OpenOnly = c.QueryBool("open_only")
	if term := c.Query("q"); term != "" {
		filter.SearchTerm = &term
	}
	filter.Limit = c.QueryInt("limit", 50)
	filter.Offset = c.QueryInt("offset", 0)
	return filter, nil
}
