package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/hospital-helpdesk/helpdesk-service/internal/domain"
	"github.com/hospital-helpdesk/helpdesk-service/internal/events"
	"github.com/hospital-helpdesk/helpdesk-service/internal/lifecycle"
	"github.com/hospital-helpdesk/helpdesk-service/internal/observability"
	"github.com/hospital-helpdesk/helpdesk-service/internal/persistence"
	"github.com/hospital-helpdesk/helpdesk-service/internal/repository"
	"github.com/hospital-helpdesk/helpdesk-service/internal/sla"
	apperrors "github.com/hospital-helpdesk/helpdesk-service/pkg/util"
)

// complaintPrefix marks the auto-generated comment that accompanies a
// requester complaint.
const complaintPrefix = "[Complaint] "

// TxRunner executes fn atomically. Production wires the pgx pool runner;
// tests substitute a pass-through.
type TxRunner func(ctx context.Context, fn func(tx pgx.Tx) error) error

// TicketService coordinates ticket workflows: creation with SLA stamping,
// lifecycle transitions, comments, collaborators, attachments and costs.
// Every transition persists the ticket snapshot and its activity entries in
// one transaction.
type TicketService struct {
	runTx         TxRunner
	tickets       repository.TicketRepository
	activities    repository.ActivityRepository
	comments      repository.CommentRepository
	collaborators repository.CollaboratorRepository
	attachments   repository.AttachmentRepository
	costs         repository.CostRepository
	categories    repository.CategoryRepository
	refs          repository.ReferenceRepository
	users         repository.UserRepository
	slaRules      repository.SLARuleRepository
	dispatcher    events.Dispatcher
	metrics       *observability.Metrics
	logger        *zap.Logger
	now           func() time.Time
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	Pool             *pgxpool.Pool
	TxRunner         TxRunner
	TicketRepo       repository.TicketRepository
	ActivityRepo     repository.ActivityRepository
	CommentRepo      repository.CommentRepository
	CollaboratorRepo repository.CollaboratorRepository
	AttachmentRepo   repository.AttachmentRepository
	CostRepo         repository.CostRepository
	CategoryRepo     repository.CategoryRepository
	ReferenceRepo    repository.ReferenceRepository
	UserRepo         repository.UserRepository
	SLARuleRepo      repository.SLARuleRepository
	Dispatcher       events.Dispatcher
	Metrics          *observability.Metrics
	Logger           *zap.Logger
	Clock            func() time.Time
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	runTx := deps.TxRunner
	if runTx == nil {
		pool := deps.Pool
		runTx = func(ctx context.Context, fn func(tx pgx.Tx) error) error {
			return persistence.RunInTx(ctx, pool, fn)
		}
	}
	return &TicketService{
		runTx:         runTx,
		tickets:       deps.TicketRepo,
		activities:    deps.ActivityRepo,
		comments:      deps.CommentRepo,
		collaborators: deps.CollaboratorRepo,
		attachments:   deps.AttachmentRepo,
		costs:         deps.CostRepo,
		categories:    deps.CategoryRepo,
		refs:          deps.ReferenceRepo,
		users:         deps.UserRepo,
		slaRules:      deps.SLARuleRepo,
		dispatcher:    deps.Dispatcher,
		metrics:       deps.Metrics,
		logger:        logger,
		now:           clock,
	}
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title           string
	Description     string
	TypeID          *int64
	CategoryID      *int64
	SubcategoryID   *int64
	PriorityID      int64
	DepartmentID    *int64
	RelatedTicketID *int64
	AssetID         *int64
	Tags            []string
	DueDate         *time.Time
}

// CreateTicket opens a new ticket. The ticket number is allocated from the
// per-day sequence and SLA deadlines are stamped here, once, from the rules
// active at this moment.
func (s *TicketService) CreateTicket(ctx context.Context, actor lifecycle.Actor, input TicketCreateInput) (*domain.Ticket, error) {
	now := s.now().UTC()

	var category *domain.Category
	departmentID := int64(0)
	if input.CategoryID != nil {
		cat, err := s.categories.GetByID(ctx, *input.CategoryID)
		if err != nil {
			return nil, mapNotFound(err, "category")
		}
		if !cat.IsActive {
			return nil, apperrors.NewValidationError("category inactive", nil)
		}
		category = cat
		departmentID = cat.DepartmentID
	}
	if input.SubcategoryID != nil {
		sub, err := s.categories.GetByID(ctx, *input.SubcategoryID)
		if err != nil {
			return nil, mapNotFound(err, "subcategory")
		}
		if sub.ParentID == nil || input.CategoryID == nil || *sub.ParentID != *input.CategoryID {
			return nil, apperrors.NewValidationError("subcategory does not belong to category", nil)
		}
	}
	if departmentID == 0 {
		if input.DepartmentID == nil {
			return nil, apperrors.NewValidationError("department or category required", nil)
		}
		departmentID = *input.DepartmentID
	}
	dept, err := s.refs.GetDepartment(ctx, departmentID)
	if err != nil {
		return nil, mapNotFound(err, "department")
	}
	if !dept.IsActive {
		return nil, apperrors.NewValidationError("department inactive", nil)
	}
	if input.TypeID != nil {
		if _, err := s.refs.GetTicketType(ctx, *input.TypeID); err != nil {
			return nil, mapNotFound(err, "ticket type")
		}
	}

	priority, err := s.refs.GetPriority(ctx, input.PriorityID)
	if err != nil {
		return nil, mapNotFound(err, "priority")
	}

	statuses, err := s.statusSet(ctx)
	if err != nil {
		return nil, err
	}
	newStatus, ok := statuses.BySlug(domain.StatusNew)
	if !ok {
		return nil, apperrors.NewInternalError(errors.New("status new not configured"))
	}

	rules, err := s.slaRules.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	deadlines := sla.ComputeDeadlines(rules, priority, category, input.TypeID, now)

	ticket := &domain.Ticket{
		Title:           strings.TrimSpace(input.Title),
		Description:     input.Description,
		TypeID:          input.TypeID,
		CategoryID:      input.CategoryID,
		SubcategoryID:   input.SubcategoryID,
		PriorityID:      input.PriorityID,
		StatusID:        newStatus.ID,
		StatusSlug:      newStatus.Slug,
		DepartmentID:    departmentID,
		RequesterID:     actor.UserID,
		RelatedTicketID: input.RelatedTicketID,
		AssetID:         input.AssetID,
		Tags:            input.Tags,
		DueDate:         input.DueDate,
		ResponseDueAt:   deadlines.ResponseDueAt,
		ResolutionDueAt: deadlines.ResolutionDueAt,
	}

	err = s.runTx(ctx, func(tx pgx.Tx) error {
		seq, err := s.tickets.AllocateNumber(ctx, tx, now)
		if err != nil {
			return err
		}
		ticket.Number = lifecycle.FormatTicketNumber(now, seq)
		if err := s.tickets.Create(ctx, tx, ticket); err != nil {
			return err
		}
		return s.activities.Create(ctx, tx, &domain.TicketActivity{
			TicketID:    ticket.ID,
			UserID:      actor.UserID,
			Action:      domain.ActionCreated,
			Description: "ticket created",
			CreatedAt:   now,
		})
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordTransition(string(domain.ActionCreated))
	s.publish(ctx, events.EventTicketCreated, ticket, actor, events.TicketCreatedPayload{
		Title:        ticket.Title,
		DepartmentID: ticket.DepartmentID,
		PriorityID:   ticket.PriorityID,
		RequesterID:  ticket.RequesterID,
		ResponseDue:  ticket.ResponseDueAt,
	})
	s.logger.Info("ticket created",
		zap.String("number", ticket.Number),
		zap.Int64("ticket_id", ticket.ID),
		zap.Int64("requester_id", actor.UserID))
	return ticket, nil
}

// GetTicket loads one ticket with access control applied.
func (s *TicketService) GetTicket(ctx context.Context, actor lifecycle.Actor, id int64) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, "ticket")
	}
	if err := s.authorizeView(ctx, actor, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

// GetTicketByNumber loads one ticket by its human-readable number.
func (s *TicketService) GetTicketByNumber(ctx context.Context, actor lifecycle.Actor, number string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByNumber(ctx, number)
	if err != nil {
		return nil, mapNotFound(err, "ticket")
	}
	if err := s.authorizeView(ctx, actor, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

// ListTickets lists tickets. Requesters are always scoped to their own.
func (s *TicketService) ListTickets(ctx context.Context, actor lifecycle.Actor, filter repository.TicketFilter) ([]domain.Ticket, error) {
	if !actor.Role.IsStaff() {
		filter.RequesterID = &actor.UserID
	}
	return s.tickets.ListWithFilter(ctx, filter)
}

// UpdateTicket applies a batched staff update in a fixed field order.
func (s *TicketService) UpdateTicket(ctx context.Context, actor lifecycle.Actor, ticketID int64, update lifecycle.Update) (*domain.Ticket, error) {
	return s.transition(ctx, actor, ticketID, func(t domain.Ticket, statuses lifecycle.StatusSet, now time.Time) (lifecycle.Result, error) {
		return lifecycle.Apply(t, statuses, update, actor, now)
	})
}

// SetStatus moves a ticket to the named status.
func (s *TicketService) SetStatus(ctx context.Context, actor lifecycle.Actor, ticketID int64, statusSlug string) (*domain.Ticket, error) {
	return s.transition(ctx, actor, ticketID, func(t domain.Ticket, statuses lifecycle.StatusSet, now time.Time) (lifecycle.Result, error) {
		return lifecycle.SetStatus(t, statuses, statusSlug, actor, now)
	})
}

// Assign sets or clears the assignee.
func (s *TicketService) Assign(ctx context.Context, actor lifecycle.Actor, ticketID int64, assigneeID *int64) (*domain.Ticket, error) {
	if assigneeID != nil {
		assignee, err := s.users.GetByID(ctx, *assigneeID)
		if err != nil {
			return nil, mapNotFound(err, "assignee")
		}
		if !assignee.Role.IsStaff() || !assignee.Active {
			return nil, apperrors.NewValidationError("assignee must be active staff", nil)
		}
	}
	return s.transition(ctx, actor, ticketID, func(t domain.Ticket, statuses lifecycle.StatusSet, now time.Time) (lifecycle.Result, error) {
		return lifecycle.Assign(t, statuses, assigneeID, actor, now)
	})
}

// AssignToSelf is the staff shortcut for grabbing a ticket.
func (s *TicketService) AssignToSelf(ctx context.Context, actor lifecycle.Actor, ticketID int64) (*domain.Ticket, error) {
	return s.Assign(ctx, actor, ticketID, &actor.UserID)
}

// QuickClose closes an open ticket directly, skipping confirmation.
func (s *TicketService) QuickClose(ctx context.Context, actor lifecycle.Actor, ticketID int64) (*domain.Ticket, error) {
	return s.transition(ctx, actor, ticketID, func(t domain.Ticket, statuses lifecycle.StatusSet, now time.Time) (lifecycle.Result, error) {
		return lifecycle.QuickClose(t, statuses, actor, now)
	})
}

// Confirm is the requester sign-off that closes a resolved ticket.
func (s *TicketService) Confirm(ctx context.Context, actor lifecycle.Actor, ticketID int64) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, mapNotFound(err, "ticket")
	}
	if err := s.requireRequesterOrAdmin(actor, ticket); err != nil {
		return nil, err
	}
	return s.transitionAny(ctx, actor, ticketID, func(t domain.Ticket, statuses lifecycle.StatusSet, now time.Time) (lifecycle.Result, error) {
		return lifecycle.Confirm(t, statuses, actor, now)
	})
}

// Complain sends a ticket the requester is unhappy with back to work. The
// note is mandatory and lands as a comment prefixed with "[Complaint]".
func (s *TicketService) Complain(ctx context.Context, actor lifecycle.Actor, ticketID int64, note string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, mapNotFound(err, "ticket")
	}
	if err := s.requireRequesterOrAdmin(actor, ticket); err != nil {
		return nil, err
	}
	statuses, err := s.statusSet(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	result, err := lifecycle.Complain(*ticket, statuses, note, actor, now)
	if err != nil {
		return nil, mapLifecycleError(err)
	}

	comment := &domain.TicketComment{
		TicketID: ticket.ID,
		UserID:   actor.UserID,
		Body:     complaintPrefix + note,
	}
	err = s.runTx(ctx, func(tx pgx.Tx) error {
		if err := s.tickets.Update(ctx, tx, &result.Ticket); err != nil {
			return err
		}
		if err := s.comments.Create(ctx, tx, comment); err != nil {
			return err
		}
		result.Activities = append(result.Activities, domain.TicketActivity{
			UserID:      actor.UserID,
			Action:      domain.ActionCommented,
			Description: "comment added",
			CreatedAt:   now,
		})
		return s.insertActivities(ctx, tx, ticket.ID, result.Activities)
	})
	if err != nil {
		return nil, mapNotFound(err, "ticket")
	}

	s.recordTransitions(result.Activities)
	s.publish(ctx, events.EventTicketComplained, &result.Ticket, actor, events.TicketComplainedPayload{Note: note})
	return &result.Ticket, nil
}

// ChangePriority updates the priority without touching SLA deadlines.
func (s *TicketService) ChangePriority(ctx context.Context, actor lifecycle.Actor, ticketID, priorityID int64) (*domain.Ticket, error) {
	if _, err := s.refs.GetPriority(ctx, priorityID); err != nil {
		return nil, mapNotFound(err, "priority")
	}
	return s.transition(ctx, actor, ticketID, func(t domain.Ticket, statuses lifecycle.StatusSet, now time.Time) (lifecycle.Result, error) {
		if t.PriorityID == priorityID {
			return lifecycle.Result{Ticket: t}, nil
		}
		return lifecycle.ChangePriority(t, priorityID, actor, now), nil
	})
}

// SetGroup routes a ticket to a pooled group.
func (s *TicketService) SetGroup(ctx context.Context, actor lifecycle.Actor, ticketID int64, groupID *int64) (*domain.Ticket, error) {
	if groupID != nil {
		if _, err := s.refs.GetGroup(ctx, *groupID); err != nil {
			return nil, mapNotFound(err, "group")
		}
	}
	return s.transition(ctx, actor, ticketID, func(t domain.Ticket, statuses lifecycle.StatusSet, now time.Time) (lifecycle.Result, error) {
		return lifecycle.SetGroup(t, groupID, actor, now), nil
	})
}

// SetDueDate records a manual due date.
func (s *TicketService) SetDueDate(ctx context.Context, actor lifecycle.Actor, ticketID int64, due *time.Time) (*domain.Ticket, error) {
	return s.transition(ctx, actor, ticketID, func(t domain.Ticket, statuses lifecycle.StatusSet, now time.Time) (lifecycle.Result, error) {
		return lifecycle.SetDueDate(t, due, actor, now), nil
	})
}

// DeleteTicket soft-deletes. Admin only; the row stays for reporting.
func (s *TicketService) DeleteTicket(ctx context.Context, actor lifecycle.Actor, ticketID int64) error {
	if actor.Role != domain.RoleAdmin {
		return apperrors.NewForbidden("admin role required")
	}
	now := s.now().UTC()
	err := s.runTx(ctx, func(tx pgx.Tx) error {
		if err := s.tickets.SoftDelete(ctx, tx, ticketID, now); err != nil {
			return err
		}
		return s.activities.Create(ctx, tx, &domain.TicketActivity{
			TicketID:    ticketID,
			UserID:      actor.UserID,
			Action:      domain.ActionDeleted,
			Description: "ticket deleted",
			CreatedAt:   now,
		})
	})
	if err != nil {
		return mapNotFound(err, "ticket")
	}
	s.metrics.RecordTransition(string(domain.ActionDeleted))
	return nil
}

// ListActivities returns the ticket's audit trail in insertion order.
func (s *TicketService) ListActivities(ctx context.Context, actor lifecycle.Actor, ticketID int64) ([]domain.TicketActivity, error) {
	if _, err := s.GetTicket(ctx, actor, ticketID); err != nil {
		return nil, err
	}
	return s.activities.ListByTicket(ctx, ticketID)
}

// transition runs one lifecycle mutation: load, apply pure function, persist
// snapshot plus activities atomically, then emit metrics and events.
func (s *TicketService) transition(
	ctx context.Context,
	actor lifecycle.Actor,
	ticketID int64,
	fn func(t domain.Ticket, statuses lifecycle.StatusSet, now time.Time) (lifecycle.Result, error),
) (*domain.Ticket, error) {
	if !actor.Role.IsStaff() {
		return nil, apperrors.NewForbidden("staff role required")
	}
	return s.transitionAny(ctx, actor, ticketID, fn)
}

func (s *TicketService) transitionAny(
	ctx context.Context,
	actor lifecycle.Actor,
	ticketID int64,
	fn func(t domain.Ticket, statuses lifecycle.StatusSet, now time.Time) (lifecycle.Result, error),
) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, mapNotFound(err, "ticket")
	}
	statuses, err := s.statusSet(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	oldSlug := ticket.StatusSlug
	result, err := fn(*ticket, statuses, now)
	if err != nil {
		return nil, mapLifecycleError(err)
	}
	if len(result.Activities) == 0 {
		return ticket, nil
	}

	err = s.runTx(ctx, func(tx pgx.Tx) error {
		if err := s.tickets.Update(ctx, tx, &result.Ticket); err != nil {
			return err
		}
		return s.insertActivities(ctx, tx, ticket.ID, result.Activities)
	})
	if err != nil {
		return nil, mapNotFound(err, "ticket")
	}

	s.recordTransitions(result.Activities)
	s.publishTransitionEvents(ctx, &result.Ticket, oldSlug, actor, result.Activities)
	return &result.Ticket, nil
}

func (s *TicketService) insertActivities(ctx context.Context, q repository.Querier, ticketID int64, activities []domain.TicketActivity) error {
	for i := range activities {
		activities[i].TicketID = ticketID
		if err := s.activities.Create(ctx, q, &activities[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *TicketService) recordTransitions(activities []domain.TicketActivity) {
	for _, a := range activities {
		s.metrics.RecordTransition(string(a.Action))
	}
}

func (s *TicketService) publishTransitionEvents(ctx context.Context, ticket *domain.Ticket, oldSlug string, actor lifecycle.Actor, activities []domain.TicketActivity) {
	for _, a := range activities {
		switch a.Action {
		case domain.ActionStatusChanged:
			s.publish(ctx, events.EventTicketStatusChanged, ticket, actor, events.TicketStatusChangedPayload{
				OldStatus: oldSlug,
				NewStatus: ticket.StatusSlug,
			})
		case domain.ActionAssigned, domain.ActionUnassigned:
			s.publish(ctx, events.EventTicketAssigned, ticket, actor, events.TicketAssignedPayload{
				AssigneeID: ticket.AssigneeID,
				GroupID:    ticket.GroupID,
			})
		case domain.ActionPriorityChanged:
			s.publish(ctx, events.EventTicketPriorityChanged, ticket, actor, events.TicketPriorityChangedPayload{
				NewPriorityID: ticket.PriorityID,
			})
		case domain.ActionClosed:
			s.publish(ctx, events.EventTicketClosed, ticket, actor, nil)
		}
	}
}

func (s *TicketService) publish(ctx context.Context, eventType events.EventType, ticket *domain.Ticket, actor lifecycle.Actor, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:           uuid.NewString(),
		Type:         eventType,
		TicketID:     ticket.ID,
		TicketNumber: ticket.Number,
		Actor:        events.Actor{UserID: actor.UserID, Role: actor.Role},
		Timestamp:    s.now().UTC(),
		Payload:      payload,
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event publish failed", zap.String("type", string(eventType)), zap.Error(err))
	}
}

func (s *TicketService) statusSet(ctx context.Context) (lifecycle.StatusSet, error) {
	statuses, err := s.refs.ListStatuses(ctx)
	if err != nil {
		return lifecycle.StatusSet{}, err
	}
	return lifecycle.NewStatusSet(statuses), nil
}

// authorizeView allows staff/admin everywhere, requesters only on their own
// tickets or tickets they collaborate on.
func (s *TicketService) authorizeView(ctx context.Context, actor lifecycle.Actor, ticket *domain.Ticket) error {
	if actor.Role.IsStaff() {
		return nil
	}
	if ticket.RequesterID == actor.UserID {
		return nil
	}
	isCollaborator, err := s.collaborators.Exists(ctx, ticket.ID, actor.UserID)
	if err != nil {
		return err
	}
	if !isCollaborator {
		return apperrors.NewNotFound("ticket", nil)
	}
	return nil
}

func (s *TicketService) requireRequesterOrAdmin(actor lifecycle.Actor, ticket *domain.Ticket) error {
	if actor.UserID == ticket.RequesterID || actor.Role == domain.RoleAdmin {
		return nil
	}
	return apperrors.NewForbidden("only the requester can do this")
}

func mapLifecycleError(err error) error {
	switch {
	case errors.Is(err, lifecycle.ErrUnknownStatus),
		errors.Is(err, lifecycle.ErrTicketClosed),
		errors.Is(err, lifecycle.ErrNotAwaitingConfirmation),
		errors.Is(err, lifecycle.ErrComplaintNoteRequired):
		return apperrors.NewPreconditionFailed(err.Error(), nil)
	default:
		return err
	}
}

func mapNotFound(err error, resource string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound(resource, nil)
	}
	return err
}
