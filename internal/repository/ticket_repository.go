package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hospital-helpdesk/helpdesk-service/internal/domain"
)

// TicketFilter captures list/search parameters.
type TicketFilter struct {
	RequesterID   *int64
	DepartmentID  *int64
	AssigneeID    *int64
	GroupID       *int64
	CategoryID    *int64
	StatusSlugs   []string
	PriorityIDs   []int64
	OpenOnly      bool
	SearchTerm    *string
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
	ClosedFrom    *time.Time
	ClosedTo      *time.Time
	Limit         int
	Offset        int
}

const ticketColumns = `t.id, t.number, t.title, t.description, t.type_id, t.category_id, t.subcategory_id,
       t.priority_id, t.status_id, s.slug, t.department_id, t.requester_id, t.assignee_id, t.group_id,
       t.related_ticket_id, t.asset_id, t.tags, t.due_date, t.response_due_at, t.resolution_due_at,
       t.first_response_at, t.resolved_at, t.closed_at, t.created_at, t.updated_at, t.deleted_at`

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	AllocateNumber(ctx context.Context, q Querier, day time.Time) (int64, error)
	Create(ctx context.Context, q Querier, ticket *domain.Ticket) error
	Update(ctx context.Context, q Querier, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id int64) (*domain.Ticket, error)
	GetByNumber(ctx context.Context, number string) (*domain.Ticket, error)
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	SoftDelete(ctx context.Context, q Querier, id int64, now time.Time) error
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

// AllocateNumber reserves the next per-day sequence value. The upsert locks
// the day row for the rest of the transaction, so two concurrent creations
// on the same calendar day can never observe the same suffix.
func (r *ticketRepository) AllocateNumber(ctx context.Context, q Querier, day time.Time) (int64, error) {
	const query = `
        INSERT INTO ticket_sequences (day, last_value)
        VALUES ($1, 1)
        ON CONFLICT (day) DO UPDATE SET last_value = ticket_sequences.last_value + 1
        RETURNING last_value`
	var seq int64
	if err := q.QueryRow(ctx, query, day.Format("2006-01-02")).Scan(&seq); err != nil {
		return 0, fmt.Errorf("allocate ticket number: %w", err)
	}
	return seq, nil
}

func (r *ticketRepository) Create(ctx context.Context, q Querier, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (number, title, description, type_id, category_id, subcategory_id, priority_id,
            status_id, department_id, requester_id, assignee_id, group_id, related_ticket_id, asset_id, tags,
            due_date, response_due_at, resolution_due_at, first_response_at, resolved_at, closed_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)
        RETURNING id, created_at, updated_at`
	return q.QueryRow(ctx, query,
		ticket.Number,
		ticket.Title,
		ticket.Description,
		ticket.TypeID,
		ticket.CategoryID,
		ticket.SubcategoryID,
		ticket.PriorityID,
		ticket.StatusID,
		ticket.DepartmentID,
		ticket.RequesterID,
		ticket.AssigneeID,
		ticket.GroupID,
		ticket.RelatedTicketID,
		ticket.AssetID,
		ticket.Tags,
		ticket.DueDate,
		ticket.ResponseDueAt,
		ticket.ResolutionDueAt,
		ticket.FirstResponseAt,
		ticket.ResolvedAt,
		ticket.ClosedAt,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) Update(ctx context.Context, q Querier, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET title=$1, description=$2, type_id=$3, category_id=$4, subcategory_id=$5,
            priority_id=$6, status_id=$7, department_id=$8, assignee_id=$9, group_id=$10,
            related_ticket_id=$11, asset_id=$12, tags=$13, due_date=$14, first_response_at=$15,
            resolved_at=$16, closed_at=$17, updated_at=NOW()
        WHERE id=$18 AND deleted_at IS NULL`
	cmd, err := q.Exec(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.TypeID,
		ticket.CategoryID,
		ticket.SubcategoryID,
		ticket.PriorityID,
		ticket.StatusID,
		ticket.DepartmentID,
		ticket.AssigneeID,
		ticket.GroupID,
		ticket.RelatedTicketID,
		ticket.AssetID,
		ticket.Tags,
		ticket.DueDate,
		ticket.FirstResponseAt,
		ticket.ResolvedAt,
		ticket.ClosedAt,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets t JOIN statuses s ON s.id = t.status_id WHERE t.id=$1 AND t.deleted_at IS NULL`, ticketColumns)
	return r.fetchSingle(ctx, query, id)
}

func (r *ticketRepository) GetByNumber(ctx context.Context, number string) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets t JOIN statuses s ON s.id = t.status_id WHERE t.number=$1 AND t.deleted_at IS NULL`, ticketColumns)
	return r.fetchSingle(ctx, query, number)
}

func (r *ticketRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Ticket, error) {
	row := r.pool.QueryRow(ctx, query, arg)
	ticket, err := scanTicket(row)
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	base := fmt.Sprintf(`SELECT %s FROM tickets t JOIN statuses s ON s.id = t.status_id`, ticketColumns)
	clauses := []string{"t.deleted_at IS NULL"}
	args := []any{}

	if filter.RequesterID != nil {
		args = append(args, *filter.RequesterID)
		clauses = append(clauses, fmt.Sprintf("t.requester_id=$%d", len(args)))
	}
	if filter.DepartmentID != nil {
		args = append(args, *filter.DepartmentID)
		clauses = append(clauses, fmt.Sprintf("t.department_id=$%d", len(args)))
	}
	if filter.AssigneeID != nil {
		args = append(args, *filter.AssigneeID)
		clauses = append(clauses, fmt.Sprintf("t.assignee_id=$%d", len(args)))
	}
	if filter.GroupID != nil {
		args = append(args, *filter.GroupID)
		clauses = append(clauses, fmt.Sprintf("t.group_id=$%d", len(args)))
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		clauses = append(clauses, fmt.Sprintf("t.category_id=$%d", len(args)))
	}
	if len(filter.StatusSlugs) > 0 {
		placeholders := make([]string, len(filter.StatusSlugs))
		for i, slug := range filter.StatusSlugs {
			args = append(args, slug)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("s.slug IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.PriorityIDs) > 0 {
		placeholders := make([]string, len(filter.PriorityIDs))
		for i, id := range filter.PriorityIDs {
			args = append(args, id)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("t.priority_id IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.OpenOnly {
		clauses = append(clauses, "t.closed_at IS NULL")
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("t.created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("t.created_at <= $%d", len(args)))
	}
	if filter.ClosedFrom != nil {
		args = append(args, *filter.ClosedFrom)
		clauses = append(clauses, fmt.Sprintf("t.closed_at >= $%d", len(args)))
	}
	if filter.ClosedTo != nil {
		args = append(args, *filter.ClosedTo)
		clauses = append(clauses, fmt.Sprintf("t.closed_at <= $%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(t.title) LIKE %s OR LOWER(t.description) LIKE %s OR LOWER(t.number) LIKE %s)", placeholder, placeholder, placeholder))
	}

	query := fmt.Sprintf("%s WHERE %s ORDER BY t.created_at DESC", base, strings.Join(clauses, " AND "))
	if filter.Limit > 0 {
		offset := filter.Offset
		if offset < 0 {
			offset = 0
		}
		query = fmt.Sprintf("%s LIMIT %d OFFSET %d", query, filter.Limit, offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) SoftDelete(ctx context.Context, q Querier, id int64, now time.Time) error {
	cmd, err := q.Exec(ctx, `UPDATE tickets SET deleted_at=$1, updated_at=NOW() WHERE id=$2 AND deleted_at IS NULL`, now, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var t domain.Ticket
	if err := row.Scan(
		&t.ID,
		&t.Number,
		&t.Title,
		&t.Description,
		&t.TypeID,
		&t.CategoryID,
		&t.SubcategoryID,
		&t.PriorityID,
		&t.StatusID,
		&t.StatusSlug,
		&t.DepartmentID,
		&t.RequesterID,
		&t.AssigneeID,
		&t.GroupID,
		&t.RelatedTicketID,
		&t.AssetID,
		&t.Tags,
		&t.DueDate,
		&t.ResponseDueAt,
		&t.ResolutionDueAt,
		&t.FirstResponseAt,
		&t.ResolvedAt,
		&t.ClosedAt,
		&t.CreatedAt,
		&t.UpdatedAt,
		&t.DeletedAt,
	); err != nil {
		return nil, err
	}
	return &t, nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}
