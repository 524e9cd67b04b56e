package lifecycle

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/hospital-helpdesk/helpdesk-service/internal/domain"
)

// Transition errors surfaced to the boundary as precondition violations.
var (
	ErrUnknownStatus           = errors.New("unknown status")
	ErrTicketClosed            = errors.New("ticket already closed")
	ErrNotAwaitingConfirmation = errors.New("ticket is not waiting for confirmation")
	ErrComplaintNoteRequired   = errors.New("complaint note required")
)

// Actor identifies who performs a transition. Handlers build it from the
// authenticated principal; the machine never consults ambient state.
type Actor struct {
	UserID int64
	Role   domain.Role
}

// Result is the outcome of a transition: a new ticket snapshot plus the
// activity entries to persist in the same transaction. The input ticket is
// never mutated.
type Result struct {
	Ticket     domain.Ticket
	Activities []domain.TicketActivity
}

// StatusSet indexes the configured statuses by slug and id.
type StatusSet struct {
	bySlug map[string]domain.Status
	byID   map[int64]domain.Status
}

// NewStatusSet builds the index from loaded status rows.
func NewStatusSet(statuses []domain.Status) StatusSet {
	set := StatusSet{
		bySlug: make(map[string]domain.Status, len(statuses)),
		byID:   make(map[int64]domain.Status, len(statuses)),
	}
	for _, s := range statuses {
		set.bySlug[s.Slug] = s
		set.byID[s.ID] = s
	}
	return set
}

// BySlug looks up a status by its slug.
func (s StatusSet) BySlug(slug string) (domain.Status, bool) {
	st, ok := s.bySlug[slug]
	return st, ok
}

// ByID looks up a status by its id.
func (s StatusSet) ByID(id int64) (domain.Status, bool) {
	st, ok := s.byID[id]
	return st, ok
}

// Update describes a batched mutation. Fields are evaluated in a fixed
// order: status, then assignee, then group, then priority. The order shapes
// the activity feed, not correctness.
type Update struct {
	StatusSlug  *string
	SetAssignee bool
	AssigneeID  *int64
	SetGroup    bool
	GroupID     *int64
	PriorityID  *int64
}

// Apply runs a batched update through the machine.
func Apply(t domain.Ticket, statuses StatusSet, update Update, actor Actor, now time.Time) (Result, error) {
	result := Result{Ticket: t}

	if update.StatusSlug != nil {
		r, err := SetStatus(result.Ticket, statuses, *update.StatusSlug, actor, now)
		if err != nil {
			return Result{}, err
		}
		result.merge(r)
	}
	if update.SetAssignee {
		r, err := Assign(result.Ticket, statuses, update.AssigneeID, actor, now)
		if err != nil {
			return Result{}, err
		}
		result.merge(r)
	}
	if update.SetGroup {
		result.merge(SetGroup(result.Ticket, update.GroupID, actor, now))
	}
	if update.PriorityID != nil && *update.PriorityID != result.Ticket.PriorityID {
		result.merge(ChangePriority(result.Ticket, *update.PriorityID, actor, now))
	}
	return result, nil
}

// SetStatus moves the ticket to the named status. A "resolved" target is
// always redirected to "waiting_confirmation" with resolved_at stamped: the
// requester still has to confirm or complain, so resolved is never a
// persisted terminal state.
func SetStatus(t domain.Ticket, statuses StatusSet, targetSlug string, actor Actor, now time.Time) (Result, error) {
	if targetSlug == domain.StatusResolved {
		targetSlug = domain.StatusWaitingConfirmation
		t.ResolvedAt = &now
	}
	target, ok := statuses.BySlug(targetSlug)
	if !ok {
		return Result{}, ErrUnknownStatus
	}

	oldSlug := t.StatusSlug
	if target.Slug == oldSlug {
		return Result{Ticket: t}, nil
	}
	if target.Slug == domain.StatusClosed {
		t.ClosedAt = &now
	}
	t.StatusID = target.ID
	t.StatusSlug = target.Slug

	return Result{
		Ticket: t,
		Activities: []domain.TicketActivity{
			statusActivity(actor, oldSlug, target.Slug, now),
		},
	}, nil
}

// Assign sets or clears the assignee. The first assignment ever doubles as
// the first staff response when none was recorded yet, and a ticket still in
// "new" auto-advances to "assigned".
func Assign(t domain.Ticket, statuses StatusSet, assigneeID *int64, actor Actor, now time.Time) (Result, error) {
	result := Result{Ticket: t}

	if assigneeID != nil && t.StatusSlug == domain.StatusNew {
		r, err := SetStatus(result.Ticket, statuses, domain.StatusAssigned, actor, now)
		if err != nil {
			return Result{}, err
		}
		result.merge(r)
	}

	ticket := result.Ticket
	oldAssignee := ticket.AssigneeID
	ticket.AssigneeID = assigneeID
	if assigneeID != nil && ticket.FirstResponseAt == nil {
		ticket.FirstResponseAt = &now
	}
	result.Ticket = ticket

	action := domain.ActionAssigned
	if assigneeID == nil {
		action = domain.ActionUnassigned
	}
	result.Activities = append(result.Activities, domain.TicketActivity{
		UserID:      actor.UserID,
		Action:      action,
		OldValue:    idString(oldAssignee),
		NewValue:    idString(assigneeID),
		Description: assignDescription(oldAssignee, assigneeID),
		CreatedAt:   now,
	})
	return result, nil
}

// QuickClose closes an open ticket directly.
func QuickClose(t domain.Ticket, statuses StatusSet, actor Actor, now time.Time) (Result, error) {
	if !t.IsOpen() {
		return Result{}, ErrTicketClosed
	}
	closed, ok := statuses.BySlug(domain.StatusClosed)
	if !ok {
		return Result{}, ErrUnknownStatus
	}
	oldSlug := t.StatusSlug
	t.StatusID = closed.ID
	t.StatusSlug = closed.Slug
	t.ClosedAt = &now
	return Result{
		Ticket: t,
		Activities: []domain.TicketActivity{{
			UserID:      actor.UserID,
			Action:      domain.ActionClosed,
			OldValue:    strp(oldSlug),
			NewValue:    strp(domain.StatusClosed),
			Description: "ticket closed",
			CreatedAt:   now,
		}},
	}, nil
}

// Confirm is the requester sign-off after resolution.
func Confirm(t domain.Ticket, statuses StatusSet, actor Actor, now time.Time) (Result, error) {
	if t.StatusSlug != domain.StatusWaitingConfirmation {
		return Result{}, ErrNotAwaitingConfirmation
	}
	closed, ok := statuses.BySlug(domain.StatusClosed)
	if !ok {
		return Result{}, ErrUnknownStatus
	}
	oldSlug := t.StatusSlug
	t.StatusID = closed.ID
	t.StatusSlug = closed.Slug
	t.ClosedAt = &now
	return Result{
		Ticket: t,
		Activities: []domain.TicketActivity{{
			UserID:      actor.UserID,
			Action:      domain.ActionClosed,
			OldValue:    strp(oldSlug),
			NewValue:    strp(domain.StatusClosed),
			Description: "confirmed by requester",
			CreatedAt:   now,
		}},
	}, nil
}

// Complain reopens a ticket the requester is not satisfied with: back to
// in_progress with resolved_at cleared. The accompanying complaint comment
// is appended by the caller.
func Complain(t domain.Ticket, statuses StatusSet, note string, actor Actor, now time.Time) (Result, error) {
	if t.StatusSlug != domain.StatusWaitingConfirmation {
		return Result{}, ErrNotAwaitingConfirmation
	}
	if note == "" {
		return Result{}, ErrComplaintNoteRequired
	}
	inProgress, ok := statuses.BySlug(domain.StatusInProgress)
	if !ok {
		return Result{}, ErrUnknownStatus
	}
	oldSlug := t.StatusSlug
	t.StatusID = inProgress.ID
	t.StatusSlug = inProgress.Slug
	t.ResolvedAt = nil
	return Result{
		Ticket: t,
		Activities: []domain.TicketActivity{
			statusActivity(actor, oldSlug, inProgress.Slug, now),
		},
	}, nil
}

// ChangePriority updates the priority. SLA deadlines are intentionally left
// as computed at creation time.
func ChangePriority(t domain.Ticket, priorityID int64, actor Actor, now time.Time) Result {
	old := t.PriorityID
	t.PriorityID = priorityID
	return Result{
		Ticket: t,
		Activities: []domain.TicketActivity{{
			UserID:      actor.UserID,
			Action:      domain.ActionPriorityChanged,
			OldValue:    strp(strconv.FormatInt(old, 10)),
			NewValue:    strp(strconv.FormatInt(priorityID, 10)),
			Description: "priority changed",
			CreatedAt:   now,
		}},
	}
}

// SetGroup moves the ticket to a pooled group (or clears it).
func SetGroup(t domain.Ticket, groupID *int64, actor Actor, now time.Time) Result {
	old := t.GroupID
	t.GroupID = groupID
	return Result{
		Ticket: t,
		Activities: []domain.TicketActivity{{
			UserID:      actor.UserID,
			Action:      domain.ActionGroupChanged,
			OldValue:    idString(old),
			NewValue:    idString(groupID),
			Description: "group changed",
			CreatedAt:   now,
		}},
	}
}

// SetDueDate records a manual due date.
func SetDueDate(t domain.Ticket, due *time.Time, actor Actor, now time.Time) Result {
	old := t.DueDate
	t.DueDate = due
	return Result{
		Ticket: t,
		Activities: []domain.TicketActivity{{
			UserID:      actor.UserID,
			Action:      domain.ActionDueDateSet,
			OldValue:    timeString(old),
			NewValue:    timeString(due),
			Description: "due date set",
			CreatedAt:   now,
		}},
	}
}

func (r *Result) merge(other Result) {
	r.Ticket = other.Ticket
	r.Activities = append(r.Activities, other.Activities...)
}

func statusActivity(actor Actor, oldSlug, newSlug string, now time.Time) domain.TicketActivity {
	return domain.TicketActivity{
		UserID:      actor.UserID,
		Action:      domain.ActionStatusChanged,
		OldValue:    strp(oldSlug),
		NewValue:    strp(newSlug),
		Description: fmt.Sprintf("status changed from %s to %s", oldSlug, newSlug),
		CreatedAt:   now,
	}
}

func assignDescription(oldID, newID *int64) string {
	switch {
	case newID == nil:
		return "assignee removed"
	case oldID == nil:
		return "ticket assigned"
	default:
		return "ticket reassigned"
	}
}

func strp(s string) *string { return &s }

func idString(id *int64) *string {
	if id == nil {
		return nil
	}
	return strp(strconv.FormatInt(*id, 10))
}

func timeString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	return strp(t.Format(time.RFC3339))
}
