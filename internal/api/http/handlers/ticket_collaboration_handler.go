package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/hospital-helpdesk/helpdesk-service/internal/api/dto"
	"github.com/hospital-helpdesk/helpdesk-service/internal/domain"
	"github.com/hospital-helpdesk/helpdesk-service/internal/service"
	apperrors "github.com/hospital-helpdesk/helpdesk-service/pkg/util"
)

// AddComment posts a comment on the ticket thread.
func (h *TicketsHandler) AddComment(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(&req); err != nil {
		return err
	}

	comment, err := h.service.AddComment(c.UserContext(), principal.Actor(), id, req.Body, req.IsInternal)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.FromComment(comment)})
}

// ListComments returns the thread; internal notes are filtered for requesters.
func (h *TicketsHandler) ListComments(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	comments, err := h.service.ListComments(c.UserContext(), principal.Actor(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromComments(comments)})
}

// AddCollaborator invites cross-department staff onto the ticket.
func (h *TicketsHandler) AddCollaborator(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req dto.AddCollaboratorRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(&req); err != nil {
		return err
	}

	collaborator, err := h.service.AddCollaborator(c.UserContext(), principal.Actor(), id, req.UserID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.FromCollaborator(collaborator)})
}

// RemoveCollaborator drops a collaborator from the ticket.
func (h *TicketsHandler) RemoveCollaborator(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	collaboratorID, err := pathID(c, "collaboratorId")
	if err != nil {
		return err
	}

	if err := h.service.RemoveCollaborator(c.UserContext(), principal.Actor(), id, collaboratorID); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ListCollaborators returns the collaborator roster.
func (h *TicketsHandler) ListCollaborators(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	collaborators, err := h.service.ListCollaborators(c.UserContext(), principal.Actor(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromCollaborators(collaborators)})
}

// AddAttachment records metadata for an uploaded file.
func (h *TicketsHandler) AddAttachment(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req dto.AddAttachmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(&req); err != nil {
		return err
	}

	attachment, err := h.service.AddAttachment(c.UserContext(), principal.Actor(), id, service.AttachmentInput{
		StorageKey: req.StorageKey,
		FileName:   req.FileName,
		MimeType:   req.MimeType,
		SizeBytes:  req.SizeBytes,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.FromAttachment(attachment)})
}

// ListAttachments returns attachment metadata for a ticket.
func (h *TicketsHandler) ListAttachments(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	attachments, err := h.service.ListAttachments(c.UserContext(), principal.Actor(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromAttachments(attachments)})
}

// DeleteAttachment removes attachment metadata.
func (h *TicketsHandler) DeleteAttachment(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	attachmentID, err := pathID(c, "attachmentId")
	if err != nil {
		return err
	}

	if err := h.service.DeleteAttachment(c.UserContext(), principal.Actor(), id, attachmentID); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// AddVendorCost records an external vendor expense.
func (h *TicketsHandler) AddVendorCost(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req dto.AddVendorCostRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(&req); err != nil {
		return err
	}

	cost, err := h.service.AddVendorCost(c.UserContext(), principal.Actor(), id, domain.TicketVendorCost{
		VendorName:  req.VendorName,
		Description: req.Description,
		Amount:      req.Amount,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.FromVendorCost(cost)})
}

// DeleteVendorCost removes a vendor expense line.
func (h *TicketsHandler) DeleteVendorCost(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	costID, err := pathID(c, "costId")
	if err != nil {
		return err
	}

	if err := h.service.DeleteVendorCost(c.UserContext(), principal.Actor(), id, costID); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// AddSparepart records a spare-part line item.
func (h *TicketsHandler) AddSparepart(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req dto.AddSparepartRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(&req); err != nil {
		return err
	}

	item, err := h.service.AddSparepartItem(c.UserContext(), principal.Actor(), id, domain.TicketSparepartItem{
		PartName:  req.PartName,
		Qty:       req.Qty,
		UnitPrice: req.UnitPrice,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.FromSparepart(item)})
}

// DeleteSparepart removes a spare-part line item.
func (h *TicketsHandler) DeleteSparepart(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	itemID, err := pathID(c, "itemId")
	if err != nil {
		return err
	}

	if err := h.service.DeleteSparepartItem(c.UserContext(), principal.Actor(), id, itemID); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Costs returns the itemized cost summary for a ticket.
func (h *TicketsHandler) Costs(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	costs, err := h.service.ListCosts(c.UserContext(), principal.Actor(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromCosts(costs.VendorCosts, costs.Spareparts, costs.Total)})
}
