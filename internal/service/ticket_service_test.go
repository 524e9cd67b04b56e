package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hospital-helpdesk/helpdesk-service/internal/domain"
	"github.com/hospital-helpdesk/helpdesk-service/internal/lifecycle"
	"github.com/hospital-helpdesk/helpdesk-service/internal/repository"
	apperrors "github.com/hospital-helpdesk/helpdesk-service/pkg/util"
)

var (
	adminActor     = lifecycle.Actor{UserID: 1, Role: domain.RoleAdmin}
	staffActor     = lifecycle.Actor{UserID: 2, Role: domain.RoleStaff}
	requesterActor = lifecycle.Actor{UserID: 3, Role: domain.RoleRequester}
)

// fakeTicketRepo keeps tickets in memory with a per-day sequence counter.
type fakeTicketRepo struct {
	nextID  int64
	tickets map[int64]*domain.Ticket
	seqs    map[string]int64
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: map[int64]*domain.Ticket{}, seqs: map[string]int64{}}
}

func (r *fakeTicketRepo) AllocateNumber(_ context.Context, _ repository.Querier, day time.Time) (int64, error) {
	key := day.Format("2006-01-02")
	r.seqs[key]++
	return r.seqs[key], nil
}

func (r *fakeTicketRepo) Create(_ context.Context, _ repository.Querier, ticket *domain.Ticket) error {
	r.nextID++
	ticket.ID = r.nextID
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = ticket.CreatedAt
	copied := *ticket
	r.tickets[ticket.ID] = &copied
	return nil
}

func (r *fakeTicketRepo) Update(_ context.Context, _ repository.Querier, ticket *domain.Ticket) error {
	if _, ok := r.tickets[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *ticket
	r.tickets[ticket.ID] = &copied
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id int64) (*domain.Ticket, error) {
	t, ok := r.tickets[id]
	if !ok || t.DeletedAt != nil {
		return nil, pgx.ErrNoRows
	}
	copied := *t
	return &copied, nil
}

func (r *fakeTicketRepo) GetByNumber(_ context.Context, number string) (*domain.Ticket, error) {
	for _, t := range r.tickets {
		if t.Number == number && t.DeletedAt == nil {
			copied := *t
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeTicketRepo) ListWithFilter(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for _, t := range r.tickets {
		if t.DeletedAt != nil {
			continue
		}
		if filter.RequesterID != nil && t.RequesterID != *filter.RequesterID {
			continue
		}
		result = append(result, *t)
	}
	return result, nil
}

func (r *fakeTicketRepo) SoftDelete(_ context.Context, _ repository.Querier, id int64, now time.Time) error {
	t, ok := r.tickets[id]
	if !ok || t.DeletedAt != nil {
		return pgx.ErrNoRows
	}
	t.DeletedAt = &now
	return nil
}

type fakeActivityRepo struct {
	nextID  int64
	entries []domain.TicketActivity
}

func (r *fakeActivityRepo) Create(_ context.Context, _ repository.Querier, a *domain.TicketActivity) error {
	r.nextID++
	a.ID = r.nextID
	r.entries = append(r.entries, *a)
	return nil
}

func (r *fakeActivityRepo) ListByTicket(_ context.Context, ticketID int64) ([]domain.TicketActivity, error) {
	var result []domain.TicketActivity
	for _, a := range r.entries {
		if a.TicketID == ticketID {
			result = append(result, a)
		}
	}
	return result, nil
}

func (r *fakeActivityRepo) ListWindow(_ context.Context, _ repository.ActivityFilter) ([]domain.TicketActivity, error) {
	return r.entries, nil
}

func (r *fakeActivityRepo) forTicket(ticketID int64) []domain.TicketActivity {
	out, _ := r.ListByTicket(context.Background(), ticketID)
	return out
}

type fakeCommentRepo struct {
	nextID   int64
	comments []domain.TicketComment
}

func (r *fakeCommentRepo) Create(_ context.Context, _ repository.Querier, c *domain.TicketComment) error {
	r.nextID++
	c.ID = r.nextID
	c.CreatedAt = time.Now()
	r.comments = append(r.comments, *c)
	return nil
}

func (r *fakeCommentRepo) ListByTicket(_ context.Context, ticketID int64, includeInternal bool) ([]domain.TicketComment, error) {
	var result []domain.TicketComment
	for _, c := range r.comments {
		if c.TicketID != ticketID {
			continue
		}
		if c.IsInternal && !includeInternal {
			continue
		}
		result = append(result, c)
	}
	return result, nil
}

type fakeCollaboratorRepo struct {
	nextID int64
	rows   []domain.TicketCollaborator
}

func (r *fakeCollaboratorRepo) Create(_ context.Context, _ repository.Querier, c *domain.TicketCollaborator) error {
	r.nextID++
	c.ID = r.nextID
	r.rows = append(r.rows, *c)
	return nil
}

func (r *fakeCollaboratorRepo) Delete(_ context.Context, _ repository.Querier, ticketID, collaboratorID int64) error {
	for i, c := range r.rows {
		if c.ID == collaboratorID && c.TicketID == ticketID {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *fakeCollaboratorRepo) ListByTicket(_ context.Context, ticketID int64) ([]domain.TicketCollaborator, error) {
	var result []domain.TicketCollaborator
	for _, c := range r.rows {
		if c.TicketID == ticketID {
			result = append(result, c)
		}
	}
	return result, nil
}

func (r *fakeCollaboratorRepo) Exists(_ context.Context, ticketID, userID int64) (bool, error) {
	for _, c := range r.rows {
		if c.TicketID == ticketID && c.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

type fakeAttachmentRepo struct {
	nextID int64
	rows   []domain.TicketAttachment
}

func (r *fakeAttachmentRepo) Create(_ context.Context, _ repository.Querier, a *domain.TicketAttachment) error {
	r.nextID++
	a.ID = r.nextID
	r.rows = append(r.rows, *a)
	return nil
}

func (r *fakeAttachmentRepo) GetForTicket(_ context.Context, ticketID, attachmentID int64) (*domain.TicketAttachment, error) {
	for _, a := range r.rows {
		if a.ID == attachmentID && a.TicketID == ticketID {
			copied := a
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeAttachmentRepo) ListByTicket(_ context.Context, ticketID int64) ([]domain.TicketAttachment, error) {
	var result []domain.TicketAttachment
	for _, a := range r.rows {
		if a.TicketID == ticketID {
			result = append(result, a)
		}
	}
	return result, nil
}

func (r *fakeAttachmentRepo) Delete(_ context.Context, _ repository.Querier, ticketID, attachmentID int64) error {
	for i, a := range r.rows {
		if a.ID == attachmentID && a.TicketID == ticketID {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

type fakeCostRepo struct {
	nextID     int64
	vendor     []domain.TicketVendorCost
	spareparts []domain.TicketSparepartItem
}

func (r *fakeCostRepo) CreateVendorCost(_ context.Context, _ repository.Querier, c *domain.TicketVendorCost) error {
	r.nextID++
	c.ID = r.nextID
	r.vendor = append(r.vendor, *c)
	return nil
}

func (r *fakeCostRepo) DeleteVendorCost(_ context.Context, _ repository.Querier, ticketID, costID int64) error {
	for i, c := range r.vendor {
		if c.ID == costID && c.TicketID == ticketID {
			r.vendor = append(r.vendor[:i], r.vendor[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *fakeCostRepo) ListVendorCosts(_ context.Context, ticketID int64) ([]domain.TicketVendorCost, error) {
	var result []domain.TicketVendorCost
	for _, c := range r.vendor {
		if c.TicketID == ticketID {
			result = append(result, c)
		}
	}
	return result, nil
}

func (r *fakeCostRepo) CreateSparepartItem(_ context.Context, _ repository.Querier, item *domain.TicketSparepartItem) error {
	r.nextID++
	item.ID = r.nextID
	r.spareparts = append(r.spareparts, *item)
	return nil
}

func (r *fakeCostRepo) DeleteSparepartItem(_ context.Context, _ repository.Querier, ticketID, itemID int64) error {
	for i, item := range r.spareparts {
		if item.ID == itemID && item.TicketID == ticketID {
			r.spareparts = append(r.spareparts[:i], r.spareparts[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *fakeCostRepo) ListSparepartItems(_ context.Context, ticketID int64) ([]domain.TicketSparepartItem, error) {
	var result []domain.TicketSparepartItem
	for _, item := range r.spareparts {
		if item.TicketID == ticketID {
			result = append(result, item)
		}
	}
	return result, nil
}

type fakeCategoryRepo struct {
	categories map[int64]*domain.Category
}

func (r *fakeCategoryRepo) Create(_ context.Context, c *domain.Category) error {
	r.categories[c.ID] = c
	return nil
}

func (r *fakeCategoryRepo) Update(_ context.Context, c *domain.Category) error {
	if _, ok := r.categories[c.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.categories[c.ID] = c
	return nil
}

func (r *fakeCategoryRepo) GetByID(_ context.Context, id int64) (*domain.Category, error) {
	c, ok := r.categories[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *c
	return &copied, nil
}

func (r *fakeCategoryRepo) List(_ context.Context, _ bool) ([]domain.Category, error) {
	var result []domain.Category
	for _, c := range r.categories {
		result = append(result, *c)
	}
	return result, nil
}

func (r *fakeCategoryRepo) ListByDepartment(_ context.Context, _ int64) ([]domain.Category, error) {
	return nil, nil
}

type fakeReferenceRepo struct {
	statuses    []domain.Status
	priorities  map[int64]*domain.Priority
	types       map[int64]*domain.TicketType
	departments map[int64]*domain.Department
	groups      map[int64]*domain.Group
}

func (r *fakeReferenceRepo) ListStatuses(_ context.Context) ([]domain.Status, error) {
	return r.statuses, nil
}

func (r *fakeReferenceRepo) GetPriority(_ context.Context, id int64) (*domain.Priority, error) {
	p, ok := r.priorities[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return p, nil
}

func (r *fakeReferenceRepo) ListPriorities(_ context.Context) ([]domain.Priority, error) {
	var result []domain.Priority
	for _, p := range r.priorities {
		result = append(result, *p)
	}
	return result, nil
}

func (r *fakeReferenceRepo) GetTicketType(_ context.Context, id int64) (*domain.TicketType, error) {
	t, ok := r.types[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return t, nil
}

func (r *fakeReferenceRepo) ListTicketTypes(_ context.Context) ([]domain.TicketType, error) {
	return nil, nil
}

func (r *fakeReferenceRepo) GetDepartment(_ context.Context, id int64) (*domain.Department, error) {
	d, ok := r.departments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return d, nil
}

func (r *fakeReferenceRepo) ListDepartments(_ context.Context) ([]domain.Department, error) {
	return nil, nil
}

func (r *fakeReferenceRepo) GetGroup(_ context.Context, id int64) (*domain.Group, error) {
	g, ok := r.groups[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return g, nil
}

func (r *fakeReferenceRepo) ListGroups(_ context.Context, _ *int64) ([]domain.Group, error) {
	return nil, nil
}

func (r *fakeReferenceRepo) CreateStatus(_ context.Context, _ *domain.Status) error { return nil }

func (r *fakeReferenceRepo) UpdateStatus(_ context.Context, _ *domain.Status) error { return nil }

func (r *fakeReferenceRepo) CreatePriority(_ context.Context, _ *domain.Priority) error { return nil }

func (r *fakeReferenceRepo) UpdatePriority(_ context.Context, _ *domain.Priority) error { return nil }

func (r *fakeReferenceRepo) CreateTicketType(_ context.Context, _ *domain.TicketType) error {
	return nil
}

func (r *fakeReferenceRepo) CreateDepartment(_ context.Context, _ *domain.Department) error {
	return nil
}

func (r *fakeReferenceRepo) UpdateDepartment(_ context.Context, _ *domain.Department) error {
	return nil
}

func (r *fakeReferenceRepo) CreateGroup(_ context.Context, _ *domain.Group) error { return nil }

type fakeUserRepo struct {
	users map[int64]*domain.User
}

func (r *fakeUserRepo) Create(_ context.Context, u *domain.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *domain.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) ListByDepartment(_ context.Context, _ int64) ([]domain.User, error) {
	return nil, nil
}

func (r *fakeUserRepo) NamesByID(_ context.Context, ids []int64) (map[int64]string, error) {
	names := map[int64]string{}
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			names[id] = u.Name
		}
	}
	return names, nil
}

type fakeSLARuleRepo struct {
	rules []domain.SLARule
}

func (r *fakeSLARuleRepo) Create(_ context.Context, rule *domain.SLARule) error {
	rule.ID = int64(len(r.rules) + 1)
	r.rules = append(r.rules, *rule)
	return nil
}

func (r *fakeSLARuleRepo) Update(_ context.Context, _ *domain.SLARule) error { return nil }
func (r *fakeSLARuleRepo) Delete(_ context.Context, _ int64) error           { return nil }

func (r *fakeSLARuleRepo) GetByID(_ context.Context, _ int64) (*domain.SLARule, error) {
	return nil, pgx.ErrNoRows
}

func (r *fakeSLARuleRepo) List(_ context.Context) ([]domain.SLARule, error) {
	return r.rules, nil
}

func (r *fakeSLARuleRepo) ListActive(_ context.Context) ([]domain.SLARule, error) {
	var active []domain.SLARule
	for _, rule := range r.rules {
		if rule.IsActive {
			active = append(active, rule)
		}
	}
	return active, nil
}

type fixture struct {
	svc        *TicketService
	tickets    *fakeTicketRepo
	activities *fakeActivityRepo
	comments   *fakeCommentRepo
	collabs    *fakeCollaboratorRepo
	now        time.Time
}

func intp(v int) *int     { return &v }
func i64p(v int64) *int64 { return &v }

func newFixture(t *testing.T) *fixture {
	t.Helper()
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	refs := &fakeReferenceRepo{
		statuses: []domain.Status{
			{ID: 1, Slug: domain.StatusNew, Name: "New"},
			{ID: 2, Slug: domain.StatusAssigned, Name: "Assigned"},
			{ID: 3, Slug: domain.StatusInProgress, Name: "In Progress"},
			{ID: 4, Slug: domain.StatusPending, Name: "Pending"},
			{ID: 5, Slug: domain.StatusWaitingConfirmation, Name: "Waiting Confirmation"},
			{ID: 6, Slug: domain.StatusClosed, Name: "Closed", IsClosed: true},
		},
		priorities: map[int64]*domain.Priority{
			1: {ID: 1, Slug: "high", ResponseHours: intp(1), ResolutionHours: intp(4)},
			2: {ID: 2, Slug: "low", ResponseHours: intp(8), ResolutionHours: intp(48)},
		},
		types: map[int64]*domain.TicketType{
			1: {ID: 1, Slug: "incident"},
		},
		departments: map[int64]*domain.Department{
			1: {ID: 1, Name: "IT", IsActive: true},
			2: {ID: 2, Name: "Facilities", IsActive: true},
		},
		groups: map[int64]*domain.Group{
			1: {ID: 1, DepartmentID: 1, Name: "Network", IsActive: true},
		},
	}
	categories := &fakeCategoryRepo{categories: map[int64]*domain.Category{
		10: {ID: 10, DepartmentID: 1, Name: "Hardware", IsActive: true},
		11: {ID: 11, ParentID: i64p(10), DepartmentID: 1, Name: "Printers", IsActive: true},
		99: {ID: 99, DepartmentID: 1, Name: "Internal Development", IsDevelopment: true, IsActive: true},
	}}
	users := &fakeUserRepo{users: map[int64]*domain.User{
		1: {ID: 1, Name: "Alice Admin", Role: domain.RoleAdmin, Active: true},
		2: {ID: 2, Name: "Bob Staff", Role: domain.RoleStaff, DepartmentID: i64p(1), Active: true},
		3: {ID: 3, Name: "Rita Requester", Role: domain.RoleRequester, Active: true},
		4: {ID: 4, Name: "Frank Facilities", Role: domain.RoleStaff, DepartmentID: i64p(2), Active: true},
		5: {ID: 5, Name: "Olga Other", Role: domain.RoleRequester, Active: true},
	}}

	tickets := newFakeTicketRepo()
	activities := &fakeActivityRepo{}
	comments := &fakeCommentRepo{}
	collabs := &fakeCollaboratorRepo{}
	slaRules := &fakeSLARuleRepo{rules: []domain.SLARule{
		{ID: 1, PriorityID: i64p(1), ResponseMinutes: intp(30), ResolutionMinutes: intp(120), IsActive: true},
	}}

	svc := NewTicketService(TicketDependencies{
		TxRunner:         func(ctx context.Context, fn func(tx pgx.Tx) error) error { return fn(nil) },
		TicketRepo:       tickets,
		ActivityRepo:     activities,
		CommentRepo:      comments,
		CollaboratorRepo: collabs,
		AttachmentRepo:   &fakeAttachmentRepo{},
		CostRepo:         &fakeCostRepo{},
		CategoryRepo:     categories,
		ReferenceRepo:    refs,
		UserRepo:         users,
		SLARuleRepo:      slaRules,
		Clock:            func() time.Time { return now },
	})

	return &fixture{
		svc:        svc,
		tickets:    tickets,
		activities: activities,
		comments:   comments,
		collabs:    collabs,
		now:        now,
	}
}

func (f *fixture) createTicket(t *testing.T, input TicketCreateInput) *domain.Ticket {
	t.Helper()
	ticket, err := f.svc.CreateTicket(context.Background(), requesterActor, input)
	require.NoError(t, err)
	return ticket
}

func domainErrCode(t *testing.T, err error) string {
	t.Helper()
	var de *apperrors.DomainError
	require.True(t, errors.As(err, &de), "expected DomainError, got %v", err)
	return de.Code
}

func TestCreateTicketStampsNumberAndDeadlines(t *testing.T) {
	f := newFixture(t)

	ticket := f.createTicket(t, TicketCreateInput{
		Title:      "Ward printer jammed",
		CategoryID: i64p(10),
		PriorityID: 1,
	})

	assert.Equal(t, "TKT-20260314-0001", ticket.Number)
	assert.Equal(t, domain.StatusNew, ticket.StatusSlug)
	assert.Equal(t, int64(1), ticket.DepartmentID)

	// rule (30m/120m) beats the priority defaults (1h/4h)
	require.NotNil(t, ticket.ResponseDueAt)
	require.NotNil(t, ticket.ResolutionDueAt)
	assert.Equal(t, f.now.Add(30*time.Minute), *ticket.ResponseDueAt)
	assert.Equal(t, f.now.Add(120*time.Minute), *ticket.ResolutionDueAt)

	entries := f.activities.forTicket(ticket.ID)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.ActionCreated, entries[0].Action)
}

func TestCreateTicketSequenceIncrementsPerDay(t *testing.T) {
	f := newFixture(t)

	first := f.createTicket(t, TicketCreateInput{Title: "a", CategoryID: i64p(10), PriorityID: 1})
	second := f.createTicket(t, TicketCreateInput{Title: "b", CategoryID: i64p(10), PriorityID: 1})

	assert.Equal(t, "TKT-20260314-0001", first.Number)
	assert.Equal(t, "TKT-20260314-0002", second.Number)
}

func TestCreateTicketDevelopmentCategoryExemptFromSLA(t *testing.T) {
	f := newFixture(t)

	ticket := f.createTicket(t, TicketCreateInput{
		Title:      "New dashboard widget",
		CategoryID: i64p(99),
		PriorityID: 1,
	})

	assert.Nil(t, ticket.ResponseDueAt)
	assert.Nil(t, ticket.ResolutionDueAt)
}

func TestCreateTicketPriorityFallbackWhenNoRuleMatches(t *testing.T) {
	f := newFixture(t)

	// priority 2 has no rule; defaults 8h/48h apply
	ticket := f.createTicket(t, TicketCreateInput{
		Title:      "Flickering hallway light",
		CategoryID: i64p(10),
		PriorityID: 2,
	})

	require.NotNil(t, ticket.ResponseDueAt)
	assert.Equal(t, f.now.Add(8*time.Hour), *ticket.ResponseDueAt)
	require.NotNil(t, ticket.ResolutionDueAt)
	assert.Equal(t, f.now.Add(48*time.Hour), *ticket.ResolutionDueAt)
}

func TestCreateTicketSubcategoryMustBelongToCategory(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateTicket(context.Background(), requesterActor, TicketCreateInput{
		Title:         "bad pair",
		CategoryID:    i64p(99),
		SubcategoryID: i64p(11),
		PriorityID:    1,
	})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", domainErrCode(t, err))
}

func TestResolveRedirectsToWaitingConfirmation(t *testing.T) {
	f := newFixture(t)
	ticket := f.createTicket(t, TicketCreateInput{Title: "t", CategoryID: i64p(10), PriorityID: 1})

	updated, err := f.svc.SetStatus(context.Background(), staffActor, ticket.ID, domain.StatusResolved)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusWaitingConfirmation, updated.StatusSlug)
	require.NotNil(t, updated.ResolvedAt)
	assert.Equal(t, f.now, *updated.ResolvedAt)

	stored, err := f.tickets.GetByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusWaitingConfirmation, stored.StatusSlug)
}

func TestConfirmClosesAndRecordsActivity(t *testing.T) {
	f := newFixture(t)
	ticket := f.createTicket(t, TicketCreateInput{Title: "t", CategoryID: i64p(10), PriorityID: 1})
	_, err := f.svc.SetStatus(context.Background(), staffActor, ticket.ID, domain.StatusResolved)
	require.NoError(t, err)

	closed, err := f.svc.Confirm(context.Background(), requesterActor, ticket.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusClosed, closed.StatusSlug)
	require.NotNil(t, closed.ClosedAt)

	entries := f.activities.forTicket(ticket.ID)
	last := entries[len(entries)-1]
	assert.Equal(t, domain.ActionClosed, last.Action)
	assert.Equal(t, "confirmed by requester", last.Description)
}

func TestConfirmRequiresWaitingConfirmation(t *testing.T) {
	f := newFixture(t)
	ticket := f.createTicket(t, TicketCreateInput{Title: "t", CategoryID: i64p(10), PriorityID: 1})

	_, err := f.svc.Confirm(context.Background(), requesterActor, ticket.ID)
	require.Error(t, err)
	assert.Equal(t, "PRECONDITION_FAILED", domainErrCode(t, err))
}

func TestConfirmOnlyByRequesterOrAdmin(t *testing.T) {
	f := newFixture(t)
	ticket := f.createTicket(t, TicketCreateInput{Title: "t", CategoryID: i64p(10), PriorityID: 1})
	_, err := f.svc.SetStatus(context.Background(), staffActor, ticket.ID, domain.StatusResolved)
	require.NoError(t, err)

	other := lifecycle.Actor{UserID: 5, Role: domain.RoleRequester}
	_, err = f.svc.Confirm(context.Background(), other, ticket.ID)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", domainErrCode(t, err))
}

func TestComplainReopensWithComplaintComment(t *testing.T) {
	f := newFixture(t)
	ticket := f.createTicket(t, TicketCreateInput{Title: "t", CategoryID: i64p(10), PriorityID: 1})
	_, err := f.svc.SetStatus(context.Background(), staffActor, ticket.ID, domain.StatusResolved)
	require.NoError(t, err)

	reopened, err := f.svc.Complain(context.Background(), requesterActor, ticket.ID, "printer still jams")
	require.NoError(t, err)

	assert.Equal(t, domain.StatusInProgress, reopened.StatusSlug)
	assert.Nil(t, reopened.ResolvedAt)

	comments, err := f.comments.ListByTicket(context.Background(), ticket.ID, true)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.True(t, strings.HasPrefix(comments[0].Body, "[Complaint] "))
	assert.Contains(t, comments[0].Body, "printer still jams")
}

func TestComplainRequiresNote(t *testing.T) {
	f := newFixture(t)
	ticket := f.createTicket(t, TicketCreateInput{Title: "t", CategoryID: i64p(10), PriorityID: 1})
	_, err := f.svc.SetStatus(context.Background(), staffActor, ticket.ID, domain.StatusResolved)
	require.NoError(t, err)

	_, err = f.svc.Complain(context.Background(), requesterActor, ticket.ID, "")
	require.Error(t, err)
	assert.Equal(t, "PRECONDITION_FAILED", domainErrCode(t, err))
}

func TestAssignStampsFirstResponseAndAdvancesStatus(t *testing.T) {
	f := newFixture(t)
	ticket := f.createTicket(t, TicketCreateInput{Title: "t", CategoryID: i64p(10), PriorityID: 1})

	assigned, err := f.svc.AssignToSelf(context.Background(), staffActor, ticket.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusAssigned, assigned.StatusSlug)
	require.NotNil(t, assigned.AssigneeID)
	assert.Equal(t, staffActor.UserID, *assigned.AssigneeID)
	require.NotNil(t, assigned.FirstResponseAt)
	assert.Equal(t, f.now, *assigned.FirstResponseAt)

	entries := f.activities.forTicket(ticket.ID)
	// created, status_changed, assigned
	require.Len(t, entries, 3)
	assert.Equal(t, domain.ActionStatusChanged, entries[1].Action)
	assert.Equal(t, domain.ActionAssigned, entries[2].Action)
}

func TestChangePriorityKeepsDeadlines(t *testing.T) {
	f := newFixture(t)
	ticket := f.createTicket(t, TicketCreateInput{Title: "t", CategoryID: i64p(10), PriorityID: 1})
	originalResponse := *ticket.ResponseDueAt
	originalResolution := *ticket.ResolutionDueAt

	updated, err := f.svc.ChangePriority(context.Background(), staffActor, ticket.ID, 2)
	require.NoError(t, err)

	assert.Equal(t, int64(2), updated.PriorityID)
	assert.Equal(t, originalResponse, *updated.ResponseDueAt)
	assert.Equal(t, originalResolution, *updated.ResolutionDueAt)
}

func TestLifecycleTransitionsAreStaffOnly(t *testing.T) {
	f := newFixture(t)
	ticket := f.createTicket(t, TicketCreateInput{Title: "t", CategoryID: i64p(10), PriorityID: 1})

	_, err := f.svc.SetStatus(context.Background(), requesterActor, ticket.ID, domain.StatusInProgress)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", domainErrCode(t, err))
}

func TestRequesterCannotSeeForeignTickets(t *testing.T) {
	f := newFixture(t)
	ticket := f.createTicket(t, TicketCreateInput{Title: "t", CategoryID: i64p(10), PriorityID: 1})

	other := lifecycle.Actor{UserID: 5, Role: domain.RoleRequester}
	_, err := f.svc.GetTicket(context.Background(), other, ticket.ID)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", domainErrCode(t, err))
}

func TestAddCollaboratorRejectsSameDepartment(t *testing.T) {
	f := newFixture(t)
	ticket := f.createTicket(t, TicketCreateInput{Title: "t", CategoryID: i64p(10), PriorityID: 1})

	// Bob is in department 1, same as the ticket
	_, err := f.svc.AddCollaborator(context.Background(), staffActor, ticket.ID, 2)
	require.Error(t, err)
	assert.Equal(t, "PRECONDITION_FAILED", domainErrCode(t, err))

	// Frank is Facilities staff, fine
	collab, err := f.svc.AddCollaborator(context.Background(), staffActor, ticket.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(4), collab.UserID)
}

func TestInternalCommentsHiddenFromRequester(t *testing.T) {
	f := newFixture(t)
	ticket := f.createTicket(t, TicketCreateInput{Title: "t", CategoryID: i64p(10), PriorityID: 1})

	_, err := f.svc.AddComment(context.Background(), staffActor, ticket.ID, "swap the fuser unit", true)
	require.NoError(t, err)
	_, err = f.svc.AddComment(context.Background(), staffActor, ticket.ID, "we are on it", false)
	require.NoError(t, err)

	visible, err := f.svc.ListComments(context.Background(), requesterActor, ticket.ID)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, "we are on it", visible[0].Body)

	all, err := f.svc.ListComments(context.Background(), staffActor, ticket.ID)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestRequesterCannotPostInternalComment(t *testing.T) {
	f := newFixture(t)
	ticket := f.createTicket(t, TicketCreateInput{Title: "t", CategoryID: i64p(10), PriorityID: 1})

	_, err := f.svc.AddComment(context.Background(), requesterActor, ticket.ID, "secret", true)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", domainErrCode(t, err))
}

func TestQuickCloseRejectsClosedTicket(t *testing.T) {
	f := newFixture(t)
	ticket := f.createTicket(t, TicketCreateInput{Title: "t", CategoryID: i64p(10), PriorityID: 1})

	_, err := f.svc.QuickClose(context.Background(), staffActor, ticket.ID)
	require.NoError(t, err)

	_, err = f.svc.QuickClose(context.Background(), staffActor, ticket.ID)
	require.Error(t, err)
	assert.Equal(t, "PRECONDITION_FAILED", domainErrCode(t, err))
}

func TestDeleteTicketIsAdminOnly(t *testing.T) {
	f := newFixture(t)
	ticket := f.createTicket(t, TicketCreateInput{Title: "t", CategoryID: i64p(10), PriorityID: 1})

	err := f.svc.DeleteTicket(context.Background(), staffActor, ticket.ID)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", domainErrCode(t, err))

	require.NoError(t, f.svc.DeleteTicket(context.Background(), adminActor, ticket.ID))
	_, err = f.svc.GetTicket(context.Background(), adminActor, ticket.ID)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", domainErrCode(t, err))
}

func TestListTicketsScopesRequester(t *testing.T) {
	f := newFixture(t)
	f.createTicket(t, TicketCreateInput{Title: "mine", CategoryID: i64p(10), PriorityID: 1})

	otherTicket, err := f.svc.CreateTicket(context.Background(),
		lifecycle.Actor{UserID: 5, Role: domain.RoleRequester},
		TicketCreateInput{Title: "theirs", CategoryID: i64p(10), PriorityID: 1})
	require.NoError(t, err)

	mine, err := f.svc.ListTickets(context.Background(), requesterActor, repository.TicketFilter{})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "mine", mine[0].Title)

	all, err := f.svc.ListTickets(context.Background(), staffActor, repository.TicketFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
	_ = otherTicket
}
