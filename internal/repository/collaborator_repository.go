package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hospital-helpdesk/helpdesk-service/internal/domain"
)

// CollaboratorRepository stores secondary contributors on tickets.
type CollaboratorRepository interface {
	Create(ctx context.Context, q Querier, collaborator *domain.TicketCollaborator) error
	Delete(ctx context.Context, q Querier, ticketID, collaboratorID int64) error
	ListByTicket(ctx context.Context, ticketID int64) ([]domain.TicketCollaborator, error)
	Exists(ctx context.Context, ticketID, userID int64) (bool, error)
}

type collaboratorRepository struct {
	pool *pgxpool.Pool
}

// NewCollaboratorRepository builds repository.
func NewCollaboratorRepository(pool *pgxpool.Pool) CollaboratorRepository {
	return &collaboratorRepository{pool: pool}
}

func (r *collaboratorRepository) Create(ctx context.Context, q Querier, collaborator *domain.TicketCollaborator) error {
	const query = `
        INSERT INTO ticket_collaborators (ticket_id, user_id, added_by)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	return q.QueryRow(ctx, query,
		collaborator.TicketID,
		collaborator.UserID,
		collaborator.AddedBy,
	).Scan(&collaborator.ID, &collaborator.CreatedAt)
}

// Delete removes a collaborator scoped to its parent ticket; a row belonging
// to another ticket reads as not-found.
func (r *collaboratorRepository) Delete(ctx context.Context, q Querier, ticketID, collaboratorID int64) error {
	cmd, err := q.Exec(ctx, `DELETE FROM ticket_collaborators WHERE id=$1 AND ticket_id=$2`, collaboratorID, ticketID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *collaboratorRepository) ListByTicket(ctx context.Context, ticketID int64) ([]domain.TicketCollaborator, error) {
	const query = `
        SELECT id, ticket_id, user_id, added_by, created_at
        FROM ticket_collaborators WHERE ticket_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketCollaborator
	for rows.Next() {
		var c domain.TicketCollaborator
		if err := rows.Scan(&c.ID, &c.TicketID, &c.UserID, &c.AddedBy, &c.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (r *collaboratorRepository) Exists(ctx context.Context, ticketID, userID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM ticket_collaborators WHERE ticket_id=$1 AND user_id=$2)`,
		ticketID, userID,
	).Scan(&exists)
	return exists, err
}
