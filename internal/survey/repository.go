package survey

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stc-ops/fieldops/internal/scope"
	"github.com/stc-ops/fieldops/internal/shared/database"
	"github.com/stc-ops/fieldops/internal/shared/errors"
	"github.com/stc-ops/fieldops/internal/shared/metrics"
)

// countColumns whitelists the GROUP BY targets for survey aggregation.
var countColumns = map[string]bool{
	"zone":         true,
	"pc":           true,
	"constituency": true,
}

// CountRow is one bucket of a grouped survey count
type CountRow struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// Repository provides database operations for surveys
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new survey repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Save saves a new survey record
func (r *Repository) Save(ctx context.Context, s *Survey) error {
	query := `
		INSERT INTO surveys (
			id, owner_id, kind, state, zone, district, constituency, pc, booth,
			payload, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.pool.Exec(ctx, query,
		s.ID, s.OwnerID, s.Kind, s.State, s.Zone, s.District, s.Constituency, s.PC, s.Booth,
		s.Payload, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return errors.Wrap(err, "failed to save survey")
	}
	return nil
}

// List returns surveys matching the role scope plus explicit filters.
func (r *Repository) List(ctx context.Context, sf scope.Filter, filter ListFilter) ([]Survey, int, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("surveys.list", time.Since(start)) }()

	whereClause, args, argNum := buildWhere(sf, filter)

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM surveys %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "failed to count surveys")
	}

	limit := 50
	if filter.Limit > 0 && filter.Limit <= 200 {
		limit = filter.Limit
	}

	query := fmt.Sprintf(`
		SELECT id, owner_id, kind, state, zone, district, constituency, pc, booth,
			payload, created_at, updated_at
		FROM surveys
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, whereClause, argNum, argNum+1)

	args = append(args, limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to list surveys")
	}
	defer rows.Close()

	var items []Survey
	for rows.Next() {
		var s Survey
		err := rows.Scan(
			&s.ID, &s.OwnerID, &s.Kind, &s.State, &s.Zone, &s.District, &s.Constituency, &s.PC, &s.Booth,
			&s.Payload, &s.CreatedAt, &s.UpdatedAt,
		)
		if err != nil {
			return nil, 0, errors.Wrap(err, "failed to scan survey")
		}
		items = append(items, s)
	}

	return items, total, nil
}

// CountBy groups scoped surveys by a whitelisted geographic column.
func (r *Repository) CountBy(ctx context.Context, sf scope.Filter, column string, filter ListFilter) ([]CountRow, error) {
	if !countColumns[column] {
		return nil, errors.BadRequest(fmt.Sprintf("cannot count by %q", column))
	}

	whereClause, args, _ := buildWhere(sf, filter)

	query := fmt.Sprintf(`
		SELECT COALESCE(%s, ''), COUNT(*)
		FROM surveys
		%s
		GROUP BY %s
		ORDER BY COUNT(*) DESC`, column, whereClause, column)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count surveys")
	}
	defer rows.Close()

	var counts []CountRow
	for rows.Next() {
		var row CountRow
		if err := rows.Scan(&row.Key, &row.Count); err != nil {
			return nil, errors.Wrap(err, "failed to scan survey count")
		}
		counts = append(counts, row)
	}
	return counts, nil
}

// buildWhere merges the role scope with the explicit survey filters.
func buildWhere(sf scope.Filter, filter ListFilter) (string, []interface{}, int) {
	scopedSQL, args, argNum := database.ScopedWhere(sf, 1)

	var conds []string
	if scopedSQL != "" {
		conds = append(conds, scopedSQL)
	}
	if filter.Kind != "" {
		conds = append(conds, fmt.Sprintf("kind = $%d", argNum))
		args = append(args, filter.Kind)
		argNum++
	}
	if filter.Booth != "" {
		conds = append(conds, fmt.Sprintf("booth = $%d", argNum))
		args = append(args, filter.Booth)
		argNum++
	}

	if len(conds) == 0 {
		return "", args, argNum
	}
	return "WHERE " + strings.Join(conds, " AND "), args, argNum
}
