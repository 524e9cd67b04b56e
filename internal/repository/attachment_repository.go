package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hospital-helpdesk/helpdesk-service/internal/domain"
)

// AttachmentRepository stores upload metadata. The storage backend is an
// external collaborator; only keys and file facts live here.
type AttachmentRepository interface {
	Create(ctx context.Context, q Querier, attachment *domain.TicketAttachment) error
	GetForTicket(ctx context.Context, ticketID, attachmentID int64) (*domain.TicketAttachment, error)
	ListByTicket(ctx context.Context, ticketID int64) ([]domain.TicketAttachment, error)
	Delete(ctx context.Context, q Querier, ticketID, attachmentID int64) error
}

type attachmentRepository struct {
	pool *pgxpool.Pool
}

// NewAttachmentRepository builds repository.
func NewAttachmentRepository(pool *pgxpool.Pool) AttachmentRepository {
	return &attachmentRepository{pool: pool}
}

func (r *attachmentRepository) Create(ctx context.Context, q Querier, attachment *domain.TicketAttachment) error {
	const query = `
        INSERT INTO ticket_attachments (ticket_id, uploaded_by, storage_key, file_name, mime_type, size_bytes)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at`
	return q.QueryRow(ctx, query,
		attachment.TicketID,
		attachment.UploadedBy,
		attachment.StorageKey,
		attachment.FileName,
		attachment.MimeType,
		attachment.SizeBytes,
	).Scan(&attachment.ID, &attachment.CreatedAt)
}

func (r *attachmentRepository) GetForTicket(ctx context.Context, ticketID, attachmentID int64) (*domain.TicketAttachment, error) {
	const query = `
        SELECT id, ticket_id, uploaded_by, storage_key, file_name, mime_type, size_bytes, created_at
        FROM ticket_attachments WHERE id=$1 AND ticket_id=$2`
	var a domain.TicketAttachment
	if err := r.pool.QueryRow(ctx, query, attachmentID, ticketID).Scan(
		&a.ID, &a.TicketID, &a.UploadedBy, &a.StorageKey, &a.FileName, &a.MimeType, &a.SizeBytes, &a.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *attachmentRepository) ListByTicket(ctx context.Context, ticketID int64) ([]domain.TicketAttachment, error) {
	const query = `
        SELECT id, ticket_id, uploaded_by, storage_key, file_name, mime_type, size_bytes, created_at
        FROM ticket_attachments WHERE ticket_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketAttachment
	for rows.Next() {
		var a domain.TicketAttachment
		if err := rows.Scan(&a.ID, &a.TicketID, &a.UploadedBy, &a.StorageKey, &a.FileName, &a.MimeType, &a.SizeBytes, &a.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

func (r *attachmentRepository) Delete(ctx context.Context, q Querier, ticketID, attachmentID int64) error {
	cmd, err := q.Exec(ctx, `DELETE FROM ticket_attachments WHERE id=$1 AND ticket_id=$2`, attachmentID, ticketID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
