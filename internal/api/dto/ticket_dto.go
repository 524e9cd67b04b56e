package dto

import (
	"time"

	"github.com/hospital-helpdesk/helpdesk-service/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title           string     `json:"title" validate:"required,max=255"`
	Description     string     `json:"description" validate:"required"`
	TypeID          *int64     `json:"type_id"`
	CategoryID      *int64     `json:"category_id"`
	SubcategoryID   *int64     `json:"subcategory_id"`
	PriorityID      int64      `json:"priority_id" validate:"required"`
	DepartmentID    *int64     `json:"department_id"`
	RelatedTicketID *int64     `json:"related_ticket_id"`
	AssetID         *int64     `json:"asset_id"`
	Tags            []string   `json:"tags" validate:"max=20,dive,max=64"`
	DueDate         *time.Time `json:"due_date"`
}

// UpdateTicketRequest is the batched staff update. Absent fields are left
// untouched; explicit nulls clear assignee/group.
type UpdateTicketRequest struct {
	Status        *string `json:"status"`
	AssigneeID    *int64  `json:"assignee_id"`
	ClearAssignee bool    `json:"clear_assignee"`
	GroupID       *int64  `json:"group_id"`
	ClearGroup    bool    `json:"clear_group"`
	PriorityID    *int64  `json:"priority_id"`
}

// ComplainRequest payload.
type ComplainRequest struct {
	Note string `json:"note" validate:"required"`
}

// SetPriorityRequest payload.
type SetPriorityRequest struct {
	PriorityID int64 `json:"priority_id" validate:"required"`
}

// SetDueDateRequest payload.
type SetDueDateRequest struct {
	DueDate *time.Time `json:"due_date"`
}

// CreateCommentRequest payload.
type CreateCommentRequest struct {
	Body       string `json:"body" validate:"required"`
	IsInternal bool   `json:"is_internal"`
}

// AddCollaboratorRequest payload.
type AddCollaboratorRequest struct {
	UserID int64 `json:"user_id" validate:"required"`
}

// AddAttachmentRequest records metadata of an already-uploaded file.
type AddAttachmentRequest struct {
	StorageKey string `json:"storage_key" validate:"required"`
	FileName   string `json:"file_name" validate:"required,max=255"`
	MimeType   string `json:"mime_type" validate:"required,max=128"`
	SizeBytes  int64  `json:"size_bytes" validate:"gte=0"`
}

// AddVendorCostRequest payload.
type AddVendorCostRequest struct {
	VendorName  string  `json:"vendor_name" validate:"required,max=255"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount" validate:"gte=0"`
}

// AddSparepartRequest payload.
type AddSparepartRequest struct {
	PartName  string  `json:"part_name" validate:"required,max=255"`
	Qty       int     `json:"qty" validate:"required,gt=0"`
	UnitPrice float64 `json:"unit_price" validate:"gte=0"`
}

// TicketResponse is the full ticket representation.
type TicketResponse struct {
	ID              int64      `json:"id"`
	Number          string     `json:"number"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	TypeID          *int64     `json:"type_id"`
	CategoryID      *int64     `json:"category_id"`
	SubcategoryID   *int64     `json:"subcategory_id"`
	PriorityID      int64      `json:"priority_id"`
	Status          string     `json:"status"`
	DepartmentID    int64      `json:"department_id"`
	RequesterID     int64      `json:"requester_id"`
	AssigneeID      *int64     `json:"assignee_id"`
	GroupID         *int64     `json:"group_id"`
	RelatedTicketID *int64     `json:"related_ticket_id"`
	AssetID         *int64     `json:"asset_id"`
	Tags            []string   `json:"tags"`
	DueDate         *time.Time `json:"due_date"`
	ResponseDueAt   *time.Time `json:"response_due_at"`
	ResolutionDueAt *time.Time `json:"resolution_due_at"`
	FirstResponseAt *time.Time `json:"first_response_at"`
	ResolvedAt      *time.Time `json:"resolved_at"`
	ClosedAt        *time.Time `json:"closed_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// FromTicket converts the domain aggregate.
func FromTicket(t *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:              t.ID,
		Number:          t.Number,
		Title:           t.Title,
		Description:     t.Description,
		TypeID:          t.TypeID,
		CategoryID:      t.CategoryID,
		SubcategoryID:   t.SubcategoryID,
		PriorityID:      t.PriorityID,
		Status:          t.StatusSlug,
		DepartmentID:    t.DepartmentID,
		RequesterID:     t.RequesterID,
		AssigneeID:      t.AssigneeID,
		GroupID:         t.GroupID,
		RelatedTicketID: t.RelatedTicketID,
		AssetID:         t.AssetID,
		Tags:            t.Tags,
		DueDate:         t.DueDate,
		ResponseDueAt:   t.ResponseDueAt,
		ResolutionDueAt: t.ResolutionDueAt,
		FirstResponseAt: t.FirstResponseAt,
		ResolvedAt:      t.ResolvedAt,
		ClosedAt:        t.ClosedAt,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

// FromTickets converts a list.
func FromTickets(tickets []domain.Ticket) []TicketResponse {
	items := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, FromTicket(&tickets[i]))
	}
	return items
}

// ActivityResponse is one audit trail entry.
type ActivityResponse struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Action      string    `json:"action"`
	OldValue    *string   `json:"old_value"`
	NewValue    *string   `json:"new_value"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// FromActivities converts the audit trail.
func FromActivities(activities []domain.TicketActivity) []ActivityResponse {
	items := make([]ActivityResponse, 0, len(activities))
	for _, a := range activities {
		items = append(items, ActivityResponse{
			ID:          a.ID,
			UserID:      a.UserID,
			Action:      string(a.Action),
			OldValue:    a.OldValue,
			NewValue:    a.NewValue,
			Description: a.Description,
			CreatedAt:   a.CreatedAt,
		})
	}
	return items
}

// CommentResponse is one thread entry.
type CommentResponse struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	Body       string    `json:"body"`
	IsInternal bool      `json:"is_internal"`
	CreatedAt  time.Time `json:"created_at"`
}

// FromComment converts a single thread entry.
func FromComment(c *domain.TicketComment) CommentResponse {
	return CommentResponse{
		ID:         c.ID,
		UserID:     c.UserID,
		Body:       c.Body,
		IsInternal: c.IsInternal,
		CreatedAt:  c.CreatedAt,
	}
}

// FromComments converts a thread.
func FromComments(comments []domain.TicketComment) []CommentResponse {
	items := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		items = append(items, FromComment(&comments[i]))
	}
	return items
}

// CollaboratorResponse is one cross-department contributor.
type CollaboratorResponse struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	AddedBy   int64     `json:"added_by"`
	CreatedAt time.Time `json:"created_at"`
}

// FromCollaborator converts a single collaborator.
func FromCollaborator(col *domain.TicketCollaborator) CollaboratorResponse {
	return CollaboratorResponse{
		ID:        col.ID,
		UserID:    col.UserID,
		AddedBy:   col.AddedBy,
		CreatedAt: col.CreatedAt,
	}
}

// FromCollaborators converts a roster.
func FromCollaborators(collaborators []domain.TicketCollaborator) []CollaboratorResponse {
	items := make([]CollaboratorResponse, 0, len(collaborators))
	for i := range collaborators {
		items = append(items, FromCollaborator(&collaborators[i]))
	}
	return items
}

// AttachmentResponse is upload metadata for one file.
type AttachmentResponse struct {
	ID         int64     `json:"id"`
	UploadedBy int64     `json:"uploaded_by"`
	StorageKey string    `json:"storage_key"`
	FileName   string    `json:"file_name"`
	MimeType   string    `json:"mime_type"`
	SizeBytes  int64     `json:"size_bytes"`
	CreatedAt  time.Time `json:"created_at"`
}

// FromAttachment converts a single attachment.
func FromAttachment(a *domain.TicketAttachment) AttachmentResponse {
	return AttachmentResponse{
		ID:         a.ID,
		UploadedBy: a.UploadedBy,
		StorageKey: a.StorageKey,
		FileName:   a.FileName,
		MimeType:   a.MimeType,
		SizeBytes:  a.SizeBytes,
		CreatedAt:  a.CreatedAt,
	}
}

// FromAttachments converts a list.
func FromAttachments(attachments []domain.TicketAttachment) []AttachmentResponse {
	items := make([]AttachmentResponse, 0, len(attachments))
	for i := range attachments {
		items = append(items, FromAttachment(&attachments[i]))
	}
	return items
}

// VendorCostResponse is one vendor expense line.
type VendorCostResponse struct {
	ID          int64     `json:"id"`
	AddedBy     int64     `json:"added_by"`
	VendorName  string    `json:"vendor_name"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	CreatedAt   time.Time `json:"created_at"`
}

// FromVendorCost converts a single expense line.
func FromVendorCost(vc *domain.TicketVendorCost) VendorCostResponse {
	return VendorCostResponse{
		ID:          vc.ID,
		AddedBy:     vc.AddedBy,
		VendorName:  vc.VendorName,
		Description: vc.Description,
		Amount:      vc.Amount,
		CreatedAt:   vc.CreatedAt,
	}
}

// SparepartResponse is one spare-part line with its derived total.
type SparepartResponse struct {
	ID        int64     `json:"id"`
	AddedBy   int64     `json:"added_by"`
	PartName  string    `json:"part_name"`
	Qty       int       `json:"qty"`
	UnitPrice float64   `json:"unit_price"`
	Total     float64   `json:"total"`
	CreatedAt time.Time `json:"created_at"`
}

// FromSparepart converts a single spare-part line.
func FromSparepart(item *domain.TicketSparepartItem) SparepartResponse {
	return SparepartResponse{
		ID:        item.ID,
		AddedBy:   item.AddedBy,
		PartName:  item.PartName,
		Qty:       item.Qty,
		UnitPrice: item.UnitPrice,
		Total:     item.Total(),
		CreatedAt: item.CreatedAt,
	}
}

// CostsResponse summarizes all expenses recorded on a ticket.
type CostsResponse struct {
	VendorCosts []VendorCostResponse `json:"vendor_costs"`
	Spareparts  []SparepartResponse  `json:"spareparts"`
	Total       float64              `json:"total"`
}

// FromCosts converts the cost summary.
func FromCosts(vendorCosts []domain.TicketVendorCost, spareparts []domain.TicketSparepartItem, total float64) CostsResponse {
	out := CostsResponse{
		VendorCosts: make([]VendorCostResponse, 0, len(vendorCosts)),
		Spareparts:  make([]SparepartResponse, 0, len(spareparts)),
		Total:       total,
	}
	for i := range vendorCosts {
		out.VendorCosts = append(out.VendorCosts, FromVendorCost(&vendorCosts[i]))
	}
	for i := range spareparts {
		out.Spareparts = append(out.Spareparts, FromSparepart(&spareparts[i]))
	}
	return out
}
