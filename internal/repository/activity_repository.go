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

// ActivityFilter narrows the daily-activity window.
type ActivityFilter struct {
	UserID *int64
	From   *time.Time
	To     *time.Time
}

// ActivityRepository stores the append-only audit log. Entries are inserted
// inside the same transaction as the ticket mutation they describe and are
// never updated or deleted.
type ActivityRepository interface {
	Create(ctx context.Context, q Querier, activity *domain.TicketActivity) error
	ListByTicket(ctx context.Context, ticketID int64) ([]domain.TicketActivity, error)
	ListWindow(ctx context.Context, filter ActivityFilter) ([]domain.TicketActivity, error)
}

type activityRepository struct {
	pool *pgxpool.Pool
}

// NewActivityRepository builds repository.
func NewActivityRepository(pool *pgxpool.Pool) ActivityRepository {
	return &activityRepository{pool: pool}
}

func (r *activityRepository) Create(ctx context.Context, q Querier, activity *domain.TicketActivity) error {
	const query = `
        INSERT INTO ticket_activities (ticket_id, user_id, action, old_value, new_value, description, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id`
	return q.QueryRow(ctx, query,
		activity.TicketID,
		activity.UserID,
		activity.Action,
		activity.OldValue,
		activity.NewValue,
		activity.Description,
		activity.CreatedAt,
	).Scan(&activity.ID)
}

func (r *activityRepository) ListByTicket(ctx context.Context, ticketID int64) ([]domain.TicketActivity, error) {
	const query = `
        SELECT id, ticket_id, user_id, action, old_value, new_value, description, created_at
        FROM ticket_activities WHERE ticket_id=$1 ORDER BY created_at ASC, id ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanActivities(rows)
}

func (r *activityRepository) ListWindow(ctx context.Context, filter ActivityFilter) ([]domain.TicketActivity, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		clauses = append(clauses, fmt.Sprintf("user_id=$%d", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	query := fmt.Sprintf(`
        SELECT id, ticket_id, user_id, action, old_value, new_value, description, created_at
        FROM ticket_activities WHERE %s ORDER BY created_at ASC, id ASC`, strings.Join(clauses, " AND "))
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanActivities(rows)
}

func scanActivities(rows pgx.Rows) ([]domain.TicketActivity, error) {
	var result []domain.TicketActivity
	for rows.Next() {
		var a domain.TicketActivity
		if err := rows.Scan(
			&a.ID,
			&a.TicketID,
			&a.UserID,
			&a.Action,
			&a.OldValue,
			&a.NewValue,
			&a.Description,
			&a.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}
