package domain

import "time"

// Well-known status slugs. These are load-bearing constants referenced by the
// lifecycle engine; every other status row is a purely data-driven label.
const (
	StatusNew                 = "new"
	StatusAssigned            = "assigned"
	StatusInProgress          = "in_progress"
	StatusPending             = "pending"
	StatusResolved            = "resolved"
	StatusWaitingConfirmation = "waiting_confirmation"
	StatusClosed              = "closed"
)

// Ticket is the central aggregate of the helpdesk.
type Ticket struct {
	ID              int64
	Number          string
	Title           string
	Description     string
	TypeID          *int64
	CategoryID      *int64
	SubcategoryID   *int64
	PriorityID      int64
	StatusID        int64
	StatusSlug      string
	DepartmentID    int64
	RequesterID     int64
	AssigneeID      *int64
	GroupID         *int64
	RelatedTicketID *int64
	AssetID         *int64
	Tags            []string
	DueDate         *time.Time
	ResponseDueAt   *time.Time
	ResolutionDueAt *time.Time
	FirstResponseAt *time.Time
	ResolvedAt      *time.Time
	ClosedAt        *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       *time.Time
}

// IsOpen reports whether the ticket is still in a non-closed status.
func (t *Ticket) IsOpen() bool {
	return t.ClosedAt == nil && t.DeletedAt == nil
}
