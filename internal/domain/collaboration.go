package domain

import "time"

// TicketComment is a threaded note on a ticket. Internal comments are hidden
// from the requester role and always visible to staff/admin.
type TicketComment struct {
	ID         int64
	TicketID   int64
	UserID     int64
	Body       string
	IsInternal bool
	CreatedAt  time.Time
}

// TicketCollaborator records a secondary staff contributor, by rule from a
// different department than the ticket's own.
type TicketCollaborator struct {
	ID        int64
	TicketID  int64
	UserID    int64
	AddedBy   int64
	CreatedAt time.Time
}

// TicketAttachment stores upload metadata; the storage backend is external.
type TicketAttachment struct {
	ID         int64
	TicketID   int64
	UploadedBy int64
	StorageKey string
	FileName   string
	MimeType   string
	SizeBytes  int64
	CreatedAt  time.Time
}

// TicketVendorCost is an itemized external vendor expense on a ticket.
type TicketVendorCost struct {
	ID          int64
	TicketID    int64
	AddedBy     int64
	VendorName  string
	Description string
	Amount      float64
	CreatedAt   time.Time
}

// TicketSparepartItem is a spare-part line item. Total is derived on read.
type TicketSparepartItem struct {
	ID        int64
	TicketID  int64
	AddedBy   int64
	PartName  string
	Qty       int
	UnitPrice float64
	CreatedAt time.Time
}

// Total returns qty multiplied by unit price; it is never persisted.
func (i *TicketSparepartItem) Total() float64 {
	return float64(i.Qty) * i.UnitPrice
}
