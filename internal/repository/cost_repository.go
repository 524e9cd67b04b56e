package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hospital-helpdesk/helpdesk-service/internal/domain"
)

// CostRepository stores itemized vendor costs and spare-part line items.
// Sparepart totals are derived on read, never persisted.
type CostRepository interface {
	CreateVendorCost(ctx context.Context, q Querier, cost *domain.TicketVendorCost) error
	DeleteVendorCost(ctx context.Context, q Querier, ticketID, costID int64) error
	ListVendorCosts(ctx context.Context, ticketID int64) ([]domain.TicketVendorCost, error)
	CreateSparepartItem(ctx context.Context, q Querier, item *domain.TicketSparepartItem) error
	DeleteSparepartItem(ctx context.Context, q Querier, ticketID, itemID int64) error
	ListSparepartItems(ctx context.Context, ticketID int64) ([]domain.TicketSparepartItem, error)
}

type costRepository struct {
	pool *pgxpool.Pool
}

// NewCostRepository builds repository.
func NewCostRepository(pool *pgxpool.Pool) CostRepository {
	return &costRepository{pool: pool}
}

func (r *costRepository) CreateVendorCost(ctx context.Context, q Querier, cost *domain.TicketVendorCost) error {
	const query = `
        INSERT INTO ticket_vendor_costs (ticket_id, added_by, vendor_name, description, amount)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return q.QueryRow(ctx, query,
		cost.TicketID,
		cost.AddedBy,
		cost.VendorName,
		cost.Description,
		cost.Amount,
	).Scan(&cost.ID, &cost.CreatedAt)
}

func (r *costRepository) DeleteVendorCost(ctx context.Context, q Querier, ticketID, costID int64) error {
	cmd, err := q.Exec(ctx, `DELETE FROM ticket_vendor_costs WHERE id=$1 AND ticket_id=$2`, costID, ticketID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *costRepository) ListVendorCosts(ctx context.Context, ticketID int64) ([]domain.TicketVendorCost, error) {
	const query = `
        SELECT id, ticket_id, added_by, vendor_name, description, amount, created_at
        FROM ticket_vendor_costs WHERE ticket_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketVendorCost
	for rows.Next() {
		var c domain.TicketVendorCost
		if err := rows.Scan(&c.ID, &c.TicketID, &c.AddedBy, &c.VendorName, &c.Description, &c.Amount, &c.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (r *costRepository) CreateSparepartItem(ctx context.Context, q Querier, item *domain.TicketSparepartItem) error {
	const query = `
        INSERT INTO ticket_sparepart_items (ticket_id, added_by, part_name, qty, unit_price)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return q.QueryRow(ctx, query,
		item.TicketID,
		item.AddedBy,
		item.PartName,
		item.Qty,
		item.UnitPrice,
	).Scan(&item.ID, &item.CreatedAt)
}

func (r *costRepository) DeleteSparepartItem(ctx context.Context, q Querier, ticketID, itemID int64) error {
	cmd, err := q.Exec(ctx, `DELETE FROM ticket_sparepart_items WHERE id=$1 AND ticket_id=$2`, itemID, ticketID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *costRepository) ListSparepartItems(ctx context.Context, ticketID int64) ([]domain.TicketSparepartItem, error) {
	const query = `
        SELECT id, ticket_id, added_by, part_name, qty, unit_price, created_at
        FROM ticket_sparepart_items WHERE ticket_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketSparepartItem
	for rows.Next() {
		var item domain.TicketSparepartItem
		if err := rows.Scan(&item.ID, &item.TicketID, &item.AddedBy, &item.PartName, &item.Qty, &item.UnitPrice, &item.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}
