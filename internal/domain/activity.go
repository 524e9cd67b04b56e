package domain

import "time"

// ActivityAction enumerates kinds of ticket activity-log entries.
type ActivityAction string

const (
	ActionCreated             ActivityAction = "created"
	ActionStatusChanged       ActivityAction = "status_changed"
	ActionAssigned            ActivityAction = "assigned"
	ActionUnassigned          ActivityAction = "unassigned"
	ActionGroupChanged        ActivityAction = "group_changed"
	ActionPriorityChanged     ActivityAction = "priority_changed"
	ActionCommented           ActivityAction = "commented"
	ActionAttachmentAdded     ActivityAction = "attachment_added"
	ActionCollaboratorAdded   ActivityAction = "collaborator_added"
	ActionCollaboratorRemoved ActivityAction = "collaborator_removed"
	ActionVendorCostAdded     ActivityAction = "vendor_cost_added"
	ActionSparepartAdded      ActivityAction = "sparepart_added"
	ActionDueDateSet          ActivityAction = "due_date_set"
	ActionClosed              ActivityAction = "closed"
	ActionDeleted             ActivityAction = "deleted"
)

// TicketActivity is an append-only audit entry. Rows are never mutated or
// deleted once written.
type TicketActivity struct {
	ID          int64
	TicketID    int64
	UserID      int64
	Action      ActivityAction
	OldValue    *string
	NewValue    *string
	Description string
	CreatedAt   time.Time
}
