package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hospital-helpdesk/helpdesk-service/internal/domain"
)

var testStatuses = NewStatusSet([]domain.Status{
	{ID: 1, Slug: domain.StatusNew},
	{ID: 2, Slug: domain.StatusAssigned},
	{ID: 3, Slug: domain.StatusInProgress},
	{ID: 4, Slug: domain.StatusPending},
	{ID: 5, Slug: domain.StatusResolved},
	{ID: 6, Slug: domain.StatusWaitingConfirmation},
	{ID: 7, Slug: domain.StatusClosed, IsClosed: true},
})

func newTicket(slug string) domain.Ticket {
	status, _ := testStatuses.BySlug(slug)
	return domain.Ticket{
		ID:         42,
		Number:     "TKT-20260314-0001",
		PriorityID: 10,
		StatusID:   status.ID,
		StatusSlug: status.Slug,
	}
}

var (
	staffActor     = Actor{UserID: 7, Role: domain.RoleStaff}
	requesterActor = Actor{UserID: 99, Role: domain.RoleRequester}
	now            = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
)

func TestSetStatus(t *testing.T) {
	t.Run("ResolvedRedirectsToWaitingConfirmation", func(t *testing.T) {
		result, err := SetStatus(newTicket(domain.StatusInProgress), testStatuses, domain.StatusResolved, staffActor, now)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusWaitingConfirmation, result.Ticket.StatusSlug)
		require.NotNil(t, result.Ticket.ResolvedAt)
		assert.Equal(t, now, *result.Ticket.ResolvedAt)

		require.Len(t, result.Activities, 1)
		assert.Equal(t, domain.ActionStatusChanged, result.Activities[0].Action)
		assert.Equal(t, domain.StatusWaitingConfirmation, *result.Activities[0].NewValue)
	})

	t.Run("ClosedStampsClosedAt", func(t *testing.T) {
		result, err := SetStatus(newTicket(domain.StatusInProgress), testStatuses, domain.StatusClosed, staffActor, now)
		require.NoError(t, err)
		require.NotNil(t, result.Ticket.ClosedAt)
		assert.Equal(t, now, *result.Ticket.ClosedAt)
	})

	t.Run("UnknownStatusRejected", func(t *testing.T) {
		_, err := SetStatus(newTicket(domain.StatusNew), testStatuses, "escalated", staffActor, now)
		assert.ErrorIs(t, err, ErrUnknownStatus)
	})

	t.Run("SameStatusEmitsNothing", func(t *testing.T) {
		result, err := SetStatus(newTicket(domain.StatusPending), testStatuses, domain.StatusPending, staffActor, now)
		require.NoError(t, err)
		assert.Empty(t, result.Activities)
	})
}

func TestAssign(t *testing.T) {
	assignee := int64(7)

	t.Run("FirstAssignmentSetsFirstResponseAndAdvances", func(t *testing.T) {
		result, err := Assign(newTicket(domain.StatusNew), testStatuses, &assignee, staffActor, now)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusAssigned, result.Ticket.StatusSlug)
		require.NotNil(t, result.Ticket.FirstResponseAt)
		assert.Equal(t, now, *result.Ticket.FirstResponseAt)

		// status entry first, then the assignment entry
		require.Len(t, result.Activities, 2)
		assert.Equal(t, domain.ActionStatusChanged, result.Activities[0].Action)
		assert.Equal(t, domain.ActionAssigned, result.Activities[1].Action)
	})

	t.Run("ReassignKeepsFirstResponse", func(t *testing.T) {
		earlier := now.Add(-time.Hour)
		ticket := newTicket(domain.StatusInProgress)
		other := int64(8)
		ticket.AssigneeID = &other
		ticket.FirstResponseAt = &earlier

		result, err := Assign(ticket, testStatuses, &assignee, staffActor, now)
		require.NoError(t, err)
		assert.Equal(t, earlier, *result.Ticket.FirstResponseAt)
		assert.Equal(t, domain.StatusInProgress, result.Ticket.StatusSlug)
		require.Len(t, result.Activities, 1)
		assert.Equal(t, "ticket reassigned", result.Activities[0].Description)
	})

	t.Run("Unassign", func(t *testing.T) {
		ticket := newTicket(domain.StatusAssigned)
		ticket.AssigneeID = &assignee
		result, err := Assign(ticket, testStatuses, nil, staffActor, now)
		require.NoError(t, err)
		assert.Nil(t, result.Ticket.AssigneeID)
		require.Len(t, result.Activities, 1)
		assert.Equal(t, domain.ActionUnassigned, result.Activities[0].Action)
	})
}

func TestConfirmAndComplain(t *testing.T) {
	t.Run("ConfirmClosesTicket", func(t *testing.T) {
		result, err := Confirm(newTicket(domain.StatusWaitingConfirmation), testStatuses, requesterActor, now)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusClosed, result.Ticket.StatusSlug)
		require.NotNil(t, result.Ticket.ClosedAt)
		require.Len(t, result.Activities, 1)
		assert.Equal(t, domain.ActionClosed, result.Activities[0].Action)
		assert.Equal(t, "confirmed by requester", result.Activities[0].Description)
	})

	t.Run("ConfirmOutsideWaitingConfirmationRejected", func(t *testing.T) {
		original := newTicket(domain.StatusInProgress)
		_, err := Confirm(original, testStatuses, requesterActor, now)
		assert.ErrorIs(t, err, ErrNotAwaitingConfirmation)
	})

	t.Run("ComplainReopensAndClearsResolvedAt", func(t *testing.T) {
		ticket := newTicket(domain.StatusWaitingConfirmation)
		resolved := now.Add(-time.Hour)
		ticket.ResolvedAt = &resolved

		result, err := Complain(ticket, testStatuses, "printer still jams", requesterActor, now)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusInProgress, result.Ticket.StatusSlug)
		assert.Nil(t, result.Ticket.ResolvedAt)
		require.Len(t, result.Activities, 1)
		assert.Equal(t, domain.ActionStatusChanged, result.Activities[0].Action)
	})

	t.Run("ComplainRequiresNote", func(t *testing.T) {
		_, err := Complain(newTicket(domain.StatusWaitingConfirmation), testStatuses, "", requesterActor, now)
		assert.ErrorIs(t, err, ErrComplaintNoteRequired)
	})

	t.Run("ComplainOutsideWaitingConfirmationRejected", func(t *testing.T) {
		_, err := Complain(newTicket(domain.StatusClosed), testStatuses, "note", requesterActor, now)
		assert.ErrorIs(t, err, ErrNotAwaitingConfirmation)
	})
}

func TestQuickClose(t *testing.T) {
	t.Run("ClosesOpenTicket", func(t *testing.T) {
		result, err := QuickClose(newTicket(domain.StatusInProgress), testStatuses, staffActor, now)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusClosed, result.Ticket.StatusSlug)
		require.NotNil(t, result.Ticket.ClosedAt)
	})

	t.Run("RejectsClosedTicket", func(t *testing.T) {
		ticket := newTicket(domain.StatusClosed)
		ticket.ClosedAt = &now
		_, err := QuickClose(ticket, testStatuses, staffActor, now)
		assert.ErrorIs(t, err, ErrTicketClosed)
	})
}

func TestChangePriority(t *testing.T) {
	ticket := newTicket(domain.StatusInProgress)
	due := now.Add(4 * time.Hour)
	ticket.ResponseDueAt = &due

	result := ChangePriority(ticket, 20, staffActor, now)
	assert.Equal(t, int64(20), result.Ticket.PriorityID)
	// deadlines computed at creation stay untouched
	assert.Equal(t, due, *result.Ticket.ResponseDueAt)
	require.Len(t, result.Activities, 1)
	assert.Equal(t, domain.ActionPriorityChanged, result.Activities[0].Action)
	assert.Equal(t, "10", *result.Activities[0].OldValue)
	assert.Equal(t, "20", *result.Activities[0].NewValue)
}

func TestApplyBatchedOrder(t *testing.T) {
	assignee := int64(7)
	group := int64(3)
	priority := int64(20)
	status := domain.StatusInProgress

	result, err := Apply(newTicket(domain.StatusAssigned), testStatuses, Update{
		StatusSlug:  &status,
		SetAssignee: true,
		AssigneeID:  &assignee,
		SetGroup:    true,
		GroupID:     &group,
		PriorityID:  &priority,
	}, staffActor, now)
	require.NoError(t, err)

	actions := make([]domain.ActivityAction, 0, len(result.Activities))
	for _, a := range result.Activities {
		actions = append(actions, a.Action)
	}
	assert.Equal(t, []domain.ActivityAction{
		domain.ActionStatusChanged,
		domain.ActionAssigned,
		domain.ActionGroupChanged,
		domain.ActionPriorityChanged,
	}, actions)
}

// The full requester loop: resolve, complain, resolve again, confirm. Every
// transition leaves exactly one log entry, so the feed has no gaps.
func TestComplaintLoop(t *testing.T) {
	ticket := newTicket(domain.StatusInProgress)
	var trail []domain.TicketActivity

	step := func(result Result, err error) domain.Ticket {
		require.NoError(t, err)
		trail = append(trail, result.Activities...)
		return result.Ticket
	}

	ticket = step(SetStatus(ticket, testStatuses, domain.StatusResolved, staffActor, now))
	ticket = step(Complain(ticket, testStatuses, "not fixed", requesterActor, now.Add(time.Hour)))
	ticket = step(SetStatus(ticket, testStatuses, domain.StatusResolved, staffActor, now.Add(2*time.Hour)))
	ticket = step(Confirm(ticket, testStatuses, requesterActor, now.Add(3*time.Hour)))

	assert.Equal(t, domain.StatusClosed, ticket.StatusSlug)
	require.NotNil(t, ticket.ClosedAt)
	require.NotNil(t, ticket.ResolvedAt)

	require.Len(t, trail, 4)
	assert.Equal(t, domain.ActionStatusChanged, trail[0].Action)
	assert.Equal(t, domain.ActionStatusChanged, trail[1].Action)
	assert.Equal(t, domain.ActionStatusChanged, trail[2].Action)
	assert.Equal(t, domain.ActionClosed, trail[3].Action)

	// closed after confirm is terminal
	_, err := Confirm(ticket, testStatuses, requesterActor, now.Add(4*time.Hour))
	assert.ErrorIs(t, err, ErrNotAwaitingConfirmation)
}

func TestFormatTicketNumber(t *testing.T) {
	day := time.Date(2026, 3, 14, 23, 59, 0, 0, time.Local)
	assert.Equal(t, "TKT-20260314-0001", FormatTicketNumber(day, 1))
	assert.Equal(t, "TKT-20260314-0042", FormatTicketNumber(day, 42))
	assert.Equal(t, "TKT-20261201-12345", FormatTicketNumber(time.Date(2026, 12, 1, 0, 0, 0, 0, time.Local), 12345))
}
