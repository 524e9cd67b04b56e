package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hospital-helpdesk/helpdesk-service/internal/report"
)

// ReportWindow bounds an aggregation query by ticket close time; only closed
// tickets appear in performance reports. The upper bound is exclusive.
type ReportWindow struct {
	From time.Time
	To   time.Time
}

// ReportRepository runs the group-by aggregation queries feeding the
// performance reports. Derivation (rates, insights) happens in the report
// package; this layer only counts.
type ReportRepository interface {
	TechnicianAggregates(ctx context.Context, window ReportWindow, departmentID *int64) ([]report.TechnicianAggregate, error)
	DepartmentAggregates(ctx context.Context, window ReportWindow) ([]report.DepartmentAggregate, error)
}

type reportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository builds repository.
func NewReportRepository(pool *pgxpool.Pool) ReportRepository {
	return &reportRepository{pool: pool}
}

// TechnicianAggregates groups the window's assigned tickets per technician.
// Tickets without an assignee are invisible here.
func (r *reportRepository) TechnicianAggregates(ctx context.Context, window ReportWindow, departmentID *int64) ([]report.TechnicianAggregate, error) {
	query := `
        SELECT u.id, u.name,
               COUNT(t.id),
               COUNT(t.resolved_at),
               AVG(EXTRACT(EPOCH FROM (t.resolved_at - t.created_at)) / 3600.0)
        FROM tickets t
        JOIN users u ON u.id = t.assignee_id
        WHERE t.deleted_at IS NULL
          AND t.closed_at >= $1 AND t.closed_at < $2`
	args := []interface{}{window.From, window.To}
	if departmentID != nil {
		query += ` AND t.department_id = $3`
		args = append(args, *departmentID)
	}
	query += ` GROUP BY u.id, u.name ORDER BY u.id ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var aggs []report.TechnicianAggregate
	index := make(map[int64]int)
	for rows.Next() {
		var agg report.TechnicianAggregate
		if err := rows.Scan(&agg.TechnicianID, &agg.Name, &agg.TotalTickets, &agg.ResolvedTickets, &agg.AvgResolutionHours); err != nil {
			return nil, err
		}
		index[agg.TechnicianID] = len(aggs)
		aggs = append(aggs, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachCategoryCounts(ctx, window, departmentID, aggs, index); err != nil {
		return nil, err
	}
	if err := r.attachTagCounts(ctx, window, departmentID, aggs, index); err != nil {
		return nil, err
	}
	return aggs, nil
}

func (r *reportRepository) attachCategoryCounts(ctx context.Context, window ReportWindow, departmentID *int64, aggs []report.TechnicianAggregate, index map[int64]int) error {
	query := `
        SELECT t.assignee_id, c.name, COUNT(*)
        FROM tickets t
        JOIN categories c ON c.id = t.category_id
        WHERE t.deleted_at IS NULL AND t.assignee_id IS NOT NULL
          AND t.closed_at >= $1 AND t.closed_at < $2`
	args := []interface{}{window.From, window.To}
	if departmentID != nil {
		query += ` AND t.department_id = $3`
		args = append(args, *departmentID)
	}
	query += ` GROUP BY t.assignee_id, c.name ORDER BY COUNT(*) DESC, c.name ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var technicianID int64
		var nc report.NamedCount
		if err := rows.Scan(&technicianID, &nc.Name, &nc.Count); err != nil {
			return err
		}
		if i, ok := index[technicianID]; ok {
			aggs[i].Categories = append(aggs[i].Categories, nc)
		}
	}
	return rows.Err()
}

func (r *reportRepository) attachTagCounts(ctx context.Context, window ReportWindow, departmentID *int64, aggs []report.TechnicianAggregate, index map[int64]int) error {
	query := `
        SELECT t.assignee_id, tag, COUNT(*)
        FROM tickets t, UNNEST(t.tags) AS tag
        WHERE t.deleted_at IS NULL AND t.assignee_id IS NOT NULL
          AND t.closed_at >= $1 AND t.closed_at < $2`
	args := []interface{}{window.From, window.To}
	if departmentID != nil {
		query += ` AND t.department_id = $3`
		args = append(args, *departmentID)
	}
	query += ` GROUP BY t.assignee_id, tag ORDER BY COUNT(*) DESC, tag ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var technicianID int64
		var nc report.NamedCount
		if err := rows.Scan(&technicianID, &nc.Name, &nc.Count); err != nil {
			return err
		}
		if i, ok := index[technicianID]; ok {
			aggs[i].Tags = append(aggs[i].Tags, nc)
		}
	}
	return rows.Err()
}

// DepartmentAggregates groups the window's tickets per owning department with
// nested per-technician rows.
func (r *reportRepository) DepartmentAggregates(ctx context.Context, window ReportWindow) ([]report.DepartmentAggregate, error) {
	const query = `
        SELECT d.id, d.name, COUNT(t.id), COUNT(t.resolved_at)
        FROM tickets t
        JOIN departments d ON d.id = t.department_id
        WHERE t.deleted_at IS NULL
          AND t.closed_at >= $1 AND t.closed_at < $2
        GROUP BY d.id, d.name
        ORDER BY d.id ASC`
	rows, err := r.pool.Query(ctx, query, window.From, window.To)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var aggs []report.DepartmentAggregate
	for rows.Next() {
		var agg report.DepartmentAggregate
		if err := rows.Scan(&agg.DepartmentID, &agg.Name, &agg.TotalTickets, &agg.ResolvedTickets); err != nil {
			return nil, err
		}
		aggs = append(aggs, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range aggs {
		deptID := aggs[i].DepartmentID
		if err := r.departmentBreakdowns(ctx, window, deptID, &aggs[i]); err != nil {
			return nil, err
		}
		techs, err := r.TechnicianAggregates(ctx, window, &deptID)
		if err != nil {
			return nil, err
		}
		aggs[i].Technicians = techs
	}
	return aggs, nil
}

func (r *reportRepository) departmentBreakdowns(ctx context.Context, window ReportWindow, departmentID int64, agg *report.DepartmentAggregate) error {
	const categoryQuery = `
        SELECT c.name, COUNT(*)
        FROM tickets t
        JOIN categories c ON c.id = t.category_id
        WHERE t.deleted_at IS NULL AND t.department_id = $1
          AND t.closed_at >= $2 AND t.closed_at < $3
        GROUP BY c.name ORDER BY COUNT(*) DESC, c.name ASC`
	rows, err := r.pool.Query(ctx, categoryQuery, departmentID, window.From, window.To)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var nc report.NamedCount
		if err := rows.Scan(&nc.Name, &nc.Count); err != nil {
			return err
		}
		agg.Categories = append(agg.Categories, nc)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	const tagQuery = `
        SELECT tag, COUNT(*)
        FROM tickets t, UNNEST(t.tags) AS tag
        WHERE t.deleted_at IS NULL AND t.department_id = $1
          AND t.closed_at >= $2 AND t.closed_at < $3
        GROUP BY tag ORDER BY COUNT(*) DESC, tag ASC`
	tagRows, err := r.pool.Query(ctx, tagQuery, departmentID, window.From, window.To)
	if err != nil {
		return err
	}
	defer tagRows.Close()
	for tagRows.Next() {
		var nc report.NamedCount
		if err := tagRows.Scan(&nc.Name, &nc.Count); err != nil {
			return err
		}
		agg.Tags = append(agg.Tags, nc)
	}
	return tagRows.Err()
}
