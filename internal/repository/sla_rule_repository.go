package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hospital-helpdesk/helpdesk-service/internal/domain"
)

// SLARuleRepository stores admin-managed SLA rules. Rules are slow-changing
// reference data; edits have no retroactive effect on existing tickets.
type SLARuleRepository interface {
	Create(ctx context.Context, rule *domain.SLARule) error
	Update(ctx context.Context, rule *domain.SLARule) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.SLARule, error)
	List(ctx context.Context) ([]domain.SLARule, error)
	ListActive(ctx context.Context) ([]domain.SLARule, error)
}

type slaRuleRepository struct {
	pool *pgxpool.Pool
}

// NewSLARuleRepository builds repository.
func NewSLARuleRepository(pool *pgxpool.Pool) SLARuleRepository {
	return &slaRuleRepository{pool: pool}
}

const slaRuleColumns = `id, type_id, priority_id, category_id, response_minutes, resolution_minutes,
       business_hours_only, is_active, created_at, updated_at`

func (r *slaRuleRepository) Create(ctx context.Context, rule *domain.SLARule) error {
	const query = `
        INSERT INTO sla_rules (type_id, priority_id, category_id, response_minutes, resolution_minutes, business_hours_only, is_active)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		rule.TypeID,
		rule.PriorityID,
		rule.CategoryID,
		rule.ResponseMinutes,
		rule.ResolutionMinutes,
		rule.BusinessHoursOnly,
		rule.IsActive,
	).Scan(&rule.ID, &rule.CreatedAt, &rule.UpdatedAt)
}

func (r *slaRuleRepository) Update(ctx context.Context, rule *domain.SLARule) error {
	const query = `
        UPDATE sla_rules SET type_id=$1, priority_id=$2, category_id=$3, response_minutes=$4,
            resolution_minutes=$5, business_hours_only=$6, is_active=$7, updated_at=NOW()
        WHERE id=$8`
	cmd, err := r.pool.Exec(ctx, query,
		rule.TypeID,
		rule.PriorityID,
		rule.CategoryID,
		rule.ResponseMinutes,
		rule.ResolutionMinutes,
		rule.BusinessHoursOnly,
		rule.IsActive,
		rule.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *slaRuleRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM sla_rules WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *slaRuleRepository) GetByID(ctx context.Context, id int64) (*domain.SLARule, error) {
	query := `SELECT ` + slaRuleColumns + ` FROM sla_rules WHERE id=$1`
	var rule domain.SLARule
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&rule.ID, &rule.TypeID, &rule.PriorityID, &rule.CategoryID,
		&rule.ResponseMinutes, &rule.ResolutionMinutes,
		&rule.BusinessHoursOnly, &rule.IsActive, &rule.CreatedAt, &rule.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *slaRuleRepository) List(ctx context.Context) ([]domain.SLARule, error) {
	return r.list(ctx, `SELECT `+slaRuleColumns+` FROM sla_rules ORDER BY id ASC`)
}

func (r *slaRuleRepository) ListActive(ctx context.Context) ([]domain.SLARule, error) {
	return r.list(ctx, `SELECT `+slaRuleColumns+` FROM sla_rules WHERE is_active = TRUE ORDER BY id ASC`)
}

func (r *slaRuleRepository) list(ctx context.Context, query string) ([]domain.SLARule, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.SLARule
	for rows.Next() {
		var rule domain.SLARule
		if err := rows.Scan(
			&rule.ID, &rule.TypeID, &rule.PriorityID, &rule.CategoryID,
			&rule.ResponseMinutes, &rule.ResolutionMinutes,
			&rule.BusinessHoursOnly, &rule.IsActive, &rule.CreatedAt, &rule.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, rule)
	}
	return result, rows.Err()
}
