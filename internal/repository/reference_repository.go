package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hospital-helpdesk/helpdesk-service/internal/domain"
)

// ReferenceRepository manages slow-changing lookup data: statuses,
// priorities, ticket types, departments and groups. Writes are admin-only and
// never touch existing tickets.
type ReferenceRepository interface {
	ListStatuses(ctx context.Context) ([]domain.Status, error)
	CreateStatus(ctx context.Context, status *domain.Status) error
	UpdateStatus(ctx context.Context, status *domain.Status) error
	GetPriority(ctx context.Context, id int64) (*domain.Priority, error)
	ListPriorities(ctx context.Context) ([]domain.Priority, error)
	CreatePriority(ctx context.Context, priority *domain.Priority) error
	UpdatePriority(ctx context.Context, priority *domain.Priority) error
	GetTicketType(ctx context.Context, id int64) (*domain.TicketType, error)
	ListTicketTypes(ctx context.Context) ([]domain.TicketType, error)
	CreateTicketType(ctx context.Context, ticketType *domain.TicketType) error
	GetDepartment(ctx context.Context, id int64) (*domain.Department, error)
	ListDepartments(ctx context.Context) ([]domain.Department, error)
	CreateDepartment(ctx context.Context, department *domain.Department) error
	UpdateDepartment(ctx context.Context, department *domain.Department) error
	GetGroup(ctx context.Context, id int64) (*domain.Group, error)
	ListGroups(ctx context.Context, departmentID *int64) ([]domain.Group, error)
	CreateGroup(ctx context.Context, group *domain.Group) error
}

type referenceRepository struct {
	pool *pgxpool.Pool
}

// NewReferenceRepository builds repository.
func NewReferenceRepository(pool *pgxpool.Pool) ReferenceRepository {
	return &referenceRepository{pool: pool}
}

func (r *referenceRepository) ListStatuses(ctx context.Context) ([]domain.Status, error) {
	const query = `
        SELECT id, slug, name, sort_order, is_closed, created_at, updated_at
        FROM statuses ORDER BY sort_order ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Status
	for rows.Next() {
		var s domain.Status
		if err := rows.Scan(&s.ID, &s.Slug, &s.Name, &s.SortOrder, &s.IsClosed, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

func (r *referenceRepository) GetPriority(ctx context.Context, id int64) (*domain.Priority, error) {
	const query = `
        SELECT id, slug, name, sort_order, response_hours, resolution_hours, created_at, updated_at
        FROM priorities WHERE id=$1`
	var p domain.Priority
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Slug, &p.Name, &p.SortOrder, &p.ResponseHours, &p.ResolutionHours, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *referenceRepository) ListPriorities(ctx context.Context) ([]domain.Priority, error) {
	const query = `
        SELECT id, slug, name, sort_order, response_hours, resolution_hours, created_at, updated_at
        FROM priorities ORDER BY sort_order ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Priority
	for rows.Next() {
		var p domain.Priority
		if err := rows.Scan(&p.ID, &p.Slug, &p.Name, &p.SortOrder, &p.ResponseHours, &p.ResolutionHours, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func (r *referenceRepository) GetTicketType(ctx context.Context, id int64) (*domain.TicketType, error) {
	var t domain.TicketType
	if err := r.pool.QueryRow(ctx,
		`SELECT id, slug, name, created_at, updated_at FROM ticket_types WHERE id=$1`, id,
	).Scan(&t.ID, &t.Slug, &t.Name, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *referenceRepository) ListTicketTypes(ctx context.Context) ([]domain.TicketType, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, slug, name, created_at, updated_at FROM ticket_types ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketType
	for rows.Next() {
		var t domain.TicketType
		if err := rows.Scan(&t.ID, &t.Slug, &t.Name, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

func (r *referenceRepository) GetDepartment(ctx context.Context, id int64) (*domain.Department, error) {
	var d domain.Department
	if err := r.pool.QueryRow(ctx,
		`SELECT id, name, is_active, created_at, updated_at FROM departments WHERE id=$1`, id,
	).Scan(&d.ID, &d.Name, &d.IsActive, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *referenceRepository) ListDepartments(ctx context.Context) ([]domain.Department, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, is_active, created_at, updated_at FROM departments ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Department
	for rows.Next() {
		var d domain.Department
		if err := rows.Scan(&d.ID, &d.Name, &d.IsActive, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	return result, rows.Err()
}

func (r *referenceRepository) CreateStatus(ctx context.Context, status *domain.Status) error {
	const query = `
        INSERT INTO statuses (slug, name, sort_order, is_closed)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query, status.Slug, status.Name, status.SortOrder, status.IsClosed).
		Scan(&status.ID, &status.CreatedAt, &status.UpdatedAt)
}

func (r *referenceRepository) UpdateStatus(ctx context.Context, status *domain.Status) error {
	const query = `
        UPDATE statuses SET name=$1, sort_order=$2, is_closed=$3, updated_at=NOW()
        WHERE id=$4`
	cmd, err := r.pool.Exec(ctx, query, status.Name, status.SortOrder, status.IsClosed, status.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *referenceRepository) CreatePriority(ctx context.Context, priority *domain.Priority) error {
	const query = `
        INSERT INTO priorities (slug, name, sort_order, response_hours, resolution_hours)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		priority.Slug, priority.Name, priority.SortOrder, priority.ResponseHours, priority.ResolutionHours,
	).Scan(&priority.ID, &priority.CreatedAt, &priority.UpdatedAt)
}

func (r *referenceRepository) UpdatePriority(ctx context.Context, priority *domain.Priority) error {
	const query = `
        UPDATE priorities SET name=$1, sort_order=$2, response_hours=$3, resolution_hours=$4, updated_at=NOW()
        WHERE id=$5`
	cmd, err := r.pool.Exec(ctx, query,
		priority.Name, priority.SortOrder, priority.ResponseHours, priority.ResolutionHours, priority.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *referenceRepository) CreateTicketType(ctx context.Context, ticketType *domain.TicketType) error {
	const query = `
        INSERT INTO ticket_types (slug, name)
        VALUES ($1,$2)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query, ticketType.Slug, ticketType.Name).
		Scan(&ticketType.ID, &ticketType.CreatedAt, &ticketType.UpdatedAt)
}

func (r *referenceRepository) CreateDepartment(ctx context.Context, department *domain.Department) error {
	const query = `
        INSERT INTO departments (name, is_active)
        VALUES ($1,$2)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query, department.Name, department.IsActive).
		Scan(&department.ID, &department.CreatedAt, &department.UpdatedAt)
}

func (r *referenceRepository) UpdateDepartment(ctx context.Context, department *domain.Department) error {
	const query = `
        UPDATE departments SET name=$1, is_active=$2, updated_at=NOW()
        WHERE id=$3`
	cmd, err := r.pool.Exec(ctx, query, department.Name, department.IsActive, department.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *referenceRepository) GetGroup(ctx context.Context, id int64) (*domain.Group, error) {
	var g domain.Group
	if err := r.pool.QueryRow(ctx,
		`SELECT id, department_id, name, is_active, created_at, updated_at FROM groups WHERE id=$1`, id,
	).Scan(&g.ID, &g.DepartmentID, &g.Name, &g.IsActive, &g.CreatedAt, &g.UpdatedAt); err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *referenceRepository) ListGroups(ctx context.Context, departmentID *int64) ([]domain.Group, error) {
	query := `SELECT id, department_id, name, is_active, created_at, updated_at FROM groups`
	args := []any{}
	if departmentID != nil {
		query += ` WHERE department_id=$1`
		args = append(args, *departmentID)
	}
	query += ` ORDER BY name ASC`
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Group
	for rows.Next() {
		var g domain.Group
		if err := rows.Scan(&g.ID, &g.DepartmentID, &g.Name, &g.IsActive, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, g)
	}
	return result, rows.Err()
}

func (r *referenceRepository) CreateGroup(ctx context.Context, group *domain.Group) error {
	const query = `
        INSERT INTO groups (department_id, name, is_active)
        VALUES ($1,$2,$3)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query, group.DepartmentID, group.Name, group.IsActive).
		Scan(&group.ID, &group.CreatedAt, &group.UpdatedAt)
}
