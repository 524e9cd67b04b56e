package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/hospital-helpdesk/helpdesk-service/internal/domain"
	"github.com/hospital-helpdesk/helpdesk-service/internal/events"
	"github.com/hospital-helpdesk/helpdesk-service/internal/lifecycle"
	apperrors "github.com/hospital-helpdesk/helpdesk-service/pkg/util"
)

const commentPreviewLen = 120

// AddComment appends a comment. Requesters may only post public comments and
// only on tickets they can see.
func (s *TicketService) AddComment(ctx context.Context, actor lifecycle.Actor, ticketID int64, body string, isInternal bool) (*domain.TicketComment, error) {
	if strings.TrimSpace(body) == "" {
		return nil, apperrors.NewValidationError("comment body required", nil)
	}
	if isInternal && !actor.Role.IsStaff() {
		return nil, apperrors.NewForbidden("internal comments are staff only")
	}
	ticket, err := s.GetTicket(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	comment := &domain.TicketComment{
		TicketID:   ticket.ID,
		UserID:     actor.UserID,
		Body:       body,
		IsInternal: isInternal,
	}
	err = s.runTx(ctx, func(tx pgx.Tx) error {
		if err := s.comments.Create(ctx, tx, comment); err != nil {
			return err
		}
		return s.activities.Create(ctx, tx, &domain.TicketActivity{
			TicketID:    ticket.ID,
			UserID:      actor.UserID,
			Action:      domain.ActionCommented,
			Description: "comment added",
			CreatedAt:   now,
		})
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordTransition(string(domain.ActionCommented))
	s.publish(ctx, events.EventTicketCommented, ticket, actor, events.TicketCommentedPayload{
		CommentID:   comment.ID,
		IsInternal:  comment.IsInternal,
		BodyPreview: preview(body),
	})
	return comment, nil
}

// ListComments returns the thread; internal notes are filtered out for
// requesters.
func (s *TicketService) ListComments(ctx context.Context, actor lifecycle.Actor, ticketID int64) ([]domain.TicketComment, error) {
	if _, err := s.GetTicket(ctx, actor, ticketID); err != nil {
		return nil, err
	}
	return s.comments.ListByTicket(ctx, ticketID, actor.Role.IsStaff())
}

// AddCollaborator pulls in a second pair of hands from another department.
// Same-department staff should be assigned or grouped instead.
func (s *TicketService) AddCollaborator(ctx context.Context, actor lifecycle.Actor, ticketID, userID int64) (*domain.TicketCollaborator, error) {
	if !actor.Role.IsStaff() {
		return nil, apperrors.NewForbidden("staff role required")
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, mapNotFound(err, "ticket")
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, mapNotFound(err, "user")
	}
	if !user.Role.IsStaff() || !user.Active {
		return nil, apperrors.NewValidationError("collaborator must be active staff", nil)
	}
	if user.DepartmentID != nil && *user.DepartmentID == ticket.DepartmentID {
		return nil, apperrors.NewPreconditionFailed("collaborator must be from a different department", nil)
	}
	exists, err := s.collaborators.Exists(ctx, ticketID, userID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.NewConflict("already a collaborator", nil)
	}

	now := s.now().UTC()
	collaborator := &domain.TicketCollaborator{
		TicketID: ticketID,
		UserID:   userID,
		AddedBy:  actor.UserID,
	}
	err = s.runTx(ctx, func(tx pgx.Tx) error {
		if err := s.collaborators.Create(ctx, tx, collaborator); err != nil {
			return err
		}
		return s.activities.Create(ctx, tx, &domain.TicketActivity{
			TicketID:    ticketID,
			UserID:      actor.UserID,
			Action:      domain.ActionCollaboratorAdded,
			NewValue:    int64String(userID),
			Description: "collaborator added",
			CreatedAt:   now,
		})
	})
	if err != nil {
		return nil, err
	}
	s.metrics.RecordTransition(string(domain.ActionCollaboratorAdded))
	return collaborator, nil
}

// RemoveCollaborator drops a collaborator from the ticket.
func (s *TicketService) RemoveCollaborator(ctx context.Context, actor lifecycle.Actor, ticketID, collaboratorID int64) error {
	if !actor.Role.IsStaff() {
		return apperrors.NewForbidden("staff role required")
	}
	if _, err := s.tickets.GetByID(ctx, ticketID); err != nil {
		return mapNotFound(err, "ticket")
	}
	now := s.now().UTC()
	err := s.runTx(ctx, func(tx pgx.Tx) error {
		if err := s.collaborators.Delete(ctx, tx, ticketID, collaboratorID); err != nil {
			return err
		}
		return s.activities.Create(ctx, tx, &domain.TicketActivity{
			TicketID:    ticketID,
			UserID:      actor.UserID,
			Action:      domain.ActionCollaboratorRemoved,
			OldValue:    int64String(collaboratorID),
			Description: "collaborator removed",
			CreatedAt:   now,
		})
	})
	if err != nil {
		return mapNotFound(err, "collaborator")
	}
	s.metrics.RecordTransition(string(domain.ActionCollaboratorRemoved))
	return nil
}

// ListCollaborators lists the ticket's collaborators.
func (s *TicketService) ListCollaborators(ctx context.Context, actor lifecycle.Actor, ticketID int64) ([]domain.TicketCollaborator, error) {
	if _, err := s.GetTicket(ctx, actor, ticketID); err != nil {
		return nil, err
	}
	return s.collaborators.ListByTicket(ctx, ticketID)
}

// AttachmentInput describes upload metadata recorded alongside a ticket.
type AttachmentInput struct {
	StorageKey string
	FileName   string
	MimeType   string
	SizeBytes  int64
}

// AddAttachment records upload metadata for a file already placed in storage.
func (s *TicketService) AddAttachment(ctx context.Context, actor lifecycle.Actor, ticketID int64, input AttachmentInput) (*domain.TicketAttachment, error) {
	ticket, err := s.GetTicket(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	attachment := &domain.TicketAttachment{
		TicketID:   ticket.ID,
		UploadedBy: actor.UserID,
		StorageKey: input.StorageKey,
		FileName:   input.FileName,
		MimeType:   input.MimeType,
		SizeBytes:  input.SizeBytes,
	}
	err = s.runTx(ctx, func(tx pgx.Tx) error {
		if err := s.attachments.Create(ctx, tx, attachment); err != nil {
			return err
		}
		return s.activities.Create(ctx, tx, &domain.TicketActivity{
			TicketID:    ticket.ID,
			UserID:      actor.UserID,
			Action:      domain.ActionAttachmentAdded,
			NewValue:    &input.FileName,
			Description: "attachment added",
			CreatedAt:   now,
		})
	})
	if err != nil {
		return nil, err
	}
	s.metrics.RecordTransition(string(domain.ActionAttachmentAdded))
	return attachment, nil
}

// ListAttachments lists upload metadata for a ticket.
func (s *TicketService) ListAttachments(ctx context.Context, actor lifecycle.Actor, ticketID int64) ([]domain.TicketAttachment, error) {
	if _, err := s.GetTicket(ctx, actor, ticketID); err != nil {
		return nil, err
	}
	return s.attachments.ListByTicket(ctx, ticketID)
}

// DeleteAttachment removes attachment metadata. Uploader or staff only.
func (s *TicketService) DeleteAttachment(ctx context.Context, actor lifecycle.Actor, ticketID, attachmentID int64) error {
	if _, err := s.GetTicket(ctx, actor, ticketID); err != nil {
		return err
	}
	attachment, err := s.attachments.GetForTicket(ctx, ticketID, attachmentID)
	if err != nil {
		return mapNotFound(err, "attachment")
	}
	if attachment.UploadedBy != actor.UserID && !actor.Role.IsStaff() {
		return apperrors.NewForbidden("not the uploader")
	}
	err = s.runTx(ctx, func(tx pgx.Tx) error {
		return s.attachments.Delete(ctx, tx, ticketID, attachmentID)
	})
	return mapNotFound(err, "attachment")
}

// AddVendorCost records an itemized vendor expense. Staff only.
func (s *TicketService) AddVendorCost(ctx context.Context, actor lifecycle.Actor, ticketID int64, cost domain.TicketVendorCost) (*domain.TicketVendorCost, error) {
	if !actor.Role.IsStaff() {
		return nil, apperrors.NewForbidden("staff role required")
	}
	if cost.Amount < 0 {
		return nil, apperrors.NewValidationError("amount must not be negative", nil)
	}
	if _, err := s.tickets.GetByID(ctx, ticketID); err != nil {
		return nil, mapNotFound(err, "ticket")
	}

	now := s.now().UTC()
	cost.TicketID = ticketID
	cost.AddedBy = actor.UserID
	err := s.runTx(ctx, func(tx pgx.Tx) error {
		if err := s.costs.CreateVendorCost(ctx, tx, &cost); err != nil {
			return err
		}
		return s.activities.Create(ctx, tx, &domain.TicketActivity{
			TicketID:    ticketID,
			UserID:      actor.UserID,
			Action:      domain.ActionVendorCostAdded,
			NewValue:    &cost.VendorName,
			Description: "vendor cost added",
			CreatedAt:   now,
		})
	})
	if err != nil {
		return nil, err
	}
	s.metrics.RecordTransition(string(domain.ActionVendorCostAdded))
	return &cost, nil
}

// DeleteVendorCost removes a vendor expense line.
func (s *TicketService) DeleteVendorCost(ctx context.Context, actor lifecycle.Actor, ticketID, costID int64) error {
	if !actor.Role.IsStaff() {
		return apperrors.NewForbidden("staff role required")
	}
	err := s.runTx(ctx, func(tx pgx.Tx) error {
		return s.costs.DeleteVendorCost(ctx, tx, ticketID, costID)
	})
	return mapNotFound(err, "vendor cost")
}

// AddSparepartItem records a spare-part line item. Staff only.
func (s *TicketService) AddSparepartItem(ctx context.Context, actor lifecycle.Actor, ticketID int64, item domain.TicketSparepartItem) (*domain.TicketSparepartItem, error) {
	if !actor.Role.IsStaff() {
		return nil, apperrors.NewForbidden("staff role required")
	}
	if item.Qty <= 0 {
		return nil, apperrors.NewValidationError("qty must be positive", nil)
	}
	if item.UnitPrice < 0 {
		return nil, apperrors.NewValidationError("unit price must not be negative", nil)
	}
	if _, err := s.tickets.GetByID(ctx, ticketID); err != nil {
		return nil, mapNotFound(err, "ticket")
	}

	now := s.now().UTC()
	item.TicketID = ticketID
	item.AddedBy = actor.UserID
	err := s.runTx(ctx, func(tx pgx.Tx) error {
		if err := s.costs.CreateSparepartItem(ctx, tx, &item); err != nil {
			return err
		}
		return s.activities.Create(ctx, tx, &domain.TicketActivity{
			TicketID:    ticketID,
			UserID:      actor.UserID,
			Action:      domain.ActionSparepartAdded,
			NewValue:    &item.PartName,
			Description: "spare part added",
			CreatedAt:   now,
		})
	})
	if err != nil {
		return nil, err
	}
	s.metrics.RecordTransition(string(domain.ActionSparepartAdded))
	return &item, nil
}

// DeleteSparepartItem removes a spare-part line.
func (s *TicketService) DeleteSparepartItem(ctx context.Context, actor lifecycle.Actor, ticketID, itemID int64) error {
	if !actor.Role.IsStaff() {
		return apperrors.NewForbidden("staff role required")
	}
	err := s.runTx(ctx, func(tx pgx.Tx) error {
		return s.costs.DeleteSparepartItem(ctx, tx, ticketID, itemID)
	})
	return mapNotFound(err, "spare part")
}

// TicketCosts bundles both cost kinds with their grand total.
type TicketCosts struct {
	VendorCosts []domain.TicketVendorCost    `json:"vendor_costs"`
	Spareparts  []domain.TicketSparepartItem `json:"spareparts"`
	Total       float64                      `json:"total"`
}

// ListCosts returns all cost lines with a derived grand total.
func (s *TicketService) ListCosts(ctx context.Context, actor lifecycle.Actor, ticketID int64) (*TicketCosts, error) {
	if !actor.Role.IsStaff() {
		return nil, apperrors.NewForbidden("staff role required")
	}
	if _, err := s.tickets.GetByID(ctx, ticketID); err != nil {
		return nil, mapNotFound(err, "ticket")
	}
	vendorCosts, err := s.costs.ListVendorCosts(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	spareparts, err := s.costs.ListSparepartItems(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	result := &TicketCosts{VendorCosts: vendorCosts, Spareparts: spareparts}
	for _, c := range vendorCosts {
		result.Total += c.Amount
	}
	for i := range spareparts {
		result.Total += spareparts[i].Total()
	}
	return result, nil
}

func preview(body string) string {
	if len(body) <= commentPreviewLen {
		return body
	}
	return body[:commentPreviewLen]
}

func int64String(v int64) *string {
	s := strconv.FormatInt(v, 10)
	return &s
}
