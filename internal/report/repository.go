package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stc-ops/fieldops/internal/scope"
	"github.com/stc-ops/fieldops/internal/shared/database"
	"github.com/stc-ops/fieldops/internal/shared/errors"
	"github.com/stc-ops/fieldops/internal/shared/metrics"
	"github.com/stc-ops/fieldops/internal/shared/types"
)

// countColumns whitelists the GROUP BY targets for grouped counts.
var countColumns = map[string]bool{
	"zone":         true,
	"pc":           true,
	"constituency": true,
}

// Repository provides database operations for reports
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new report repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Save saves a new report
func (r *Repository) Save(ctx context.Context, rep *Report) error {
	query := `
		INSERT INTO reports (
			id, owner_id, state, zone, district, constituency, pc,
			meeting_date, payload, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.pool.Exec(ctx, query,
		rep.ID, rep.OwnerID, rep.State, rep.Zone, rep.District, rep.Constituency, rep.PC,
		rep.MeetingDate, rep.Payload, rep.CreatedAt, rep.UpdatedAt,
	)
	if err != nil {
		return errors.Wrap(err, "failed to save report")
	}
	return nil
}

// FindByID finds a report by ID
func (r *Repository) FindByID(ctx context.Context, id types.ID) (*Report, error) {
	query := `
		SELECT id, owner_id, state, zone, district, constituency, pc,
			meeting_date, payload, created_at, updated_at
		FROM reports WHERE id = $1`

	rep := &Report{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&rep.ID, &rep.OwnerID, &rep.State, &rep.Zone, &rep.District, &rep.Constituency, &rep.PC,
		&rep.MeetingDate, &rep.Payload, &rep.CreatedAt, &rep.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("report", id.String())
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find report")
	}
	return rep, nil
}

// Update updates a report's mutable fields
func (r *Repository) Update(ctx context.Context, rep *Report) error {
	query := `
		UPDATE reports SET meeting_date = $2, payload = $3, updated_at = $4
		WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, rep.ID, rep.MeetingDate, rep.Payload, rep.UpdatedAt)
	if err != nil {
		return errors.Wrap(err, "failed to update report")
	}
	if result.RowsAffected() == 0 {
		return errors.NotFound("report", rep.ID.String())
	}
	return nil
}

// Delete deletes a report
func (r *Repository) Delete(ctx context.Context, id types.ID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM reports WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "failed to delete report")
	}
	if result.RowsAffected() == 0 {
		return errors.NotFound("report", id.String())
	}
	return nil
}

// List returns reports matching the role scope plus explicit filters.
func (r *Repository) List(ctx context.Context, sf scope.Filter, filter ListFilter) ([]Report, int, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("reports.list", time.Since(start)) }()

	whereClause, args, argNum := buildWhere(sf, filter)

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM reports %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "failed to count reports")
	}

	limit := 50
	if filter.Limit > 0 && filter.Limit <= 200 {
		limit = filter.Limit
	}

	query := fmt.Sprintf(`
		SELECT id, owner_id, state, zone, district, constituency, pc,
			meeting_date, payload, created_at, updated_at
		FROM reports
		%s
		ORDER BY meeting_date DESC, created_at DESC
		LIMIT $%d OFFSET $%d`, whereClause, argNum, argNum+1)

	args = append(args, limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to list reports")
	}
	defer rows.Close()

	var reports []Report
	for rows.Next() {
		var rep Report
		err := rows.Scan(
			&rep.ID, &rep.OwnerID, &rep.State, &rep.Zone, &rep.District, &rep.Constituency, &rep.PC,
			&rep.MeetingDate, &rep.Payload, &rep.CreatedAt, &rep.UpdatedAt,
		)
		if err != nil {
			return nil, 0, errors.Wrap(err, "failed to scan report")
		}
		reports = append(reports, rep)
	}

	return reports, total, nil
}

// CountBy groups scoped reports by a scoping column.
func (r *Repository) CountBy(ctx context.Context, sf scope.Filter, column string) ([]CountRow, error) {
	if !countColumns[column] {
		return nil, errors.BadRequest(fmt.Sprintf("cannot group by %s", column))
	}

	whereClause, args, _ := buildWhere(sf, ListFilter{})
	query := fmt.Sprintf(`
		SELECT %s, COUNT(*)
		FROM reports
		%s
		GROUP BY %s
		ORDER BY COUNT(*) DESC`, column, whereClause, column)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count reports")
	}
	defer rows.Close()

	var counts []CountRow
	for rows.Next() {
		var c CountRow
		if err := rows.Scan(&c.Key, &c.Count); err != nil {
			return nil, errors.Wrap(err, "failed to scan count")
		}
		counts = append(counts, c)
	}
	return counts, nil
}

// DistinctOwners returns the distinct owner ids among scoped reports.
func (r *Repository) DistinctOwners(ctx context.Context, sf scope.Filter) ([]string, error) {
	whereClause, args, _ := buildWhere(sf, ListFilter{})
	query := fmt.Sprintf(`SELECT DISTINCT owner_id FROM reports %s ORDER BY owner_id`, whereClause)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list report owners")
	}
	defer rows.Close()

	var owners []string
	for rows.Next() {
		var owner string
		if err := rows.Scan(&owner); err != nil {
			return nil, errors.Wrap(err, "failed to scan owner")
		}
		owners = append(owners, owner)
	}
	return owners, nil
}

// buildWhere combines the role-scope fragment with explicit filters.
func buildWhere(sf scope.Filter, filter ListFilter) (string, []interface{}, int) {
	scopedSQL, args, argNum := database.ScopedWhere(sf, 1)

	var conds []string
	if scopedSQL != "" {
		conds = append(conds, scopedSQL)
	}

	for _, f := range []struct {
		column string
		value  string
	}{
		{"zone", filter.Zone},
		{"district", filter.District},
		{"constituency", filter.Constituency},
		{"pc", filter.PC},
	} {
		if f.value == "" {
			continue
		}
		conds = append(conds, fmt.Sprintf("%s = $%d", f.column, argNum))
		args = append(args, f.value)
		argNum++
	}

	if filter.From != nil {
		conds = append(conds, fmt.Sprintf("meeting_date >= $%d", argNum))
		args = append(args, *filter.From)
		argNum++
	}
	if filter.To != nil {
		conds = append(conds, fmt.Sprintf("meeting_date <= $%d", argNum))
		args = append(args, *filter.To)
		argNum++
	}

	whereClause := ""
	if len(conds) > 0 {
		whereClause = "WHERE " + strings.Join(conds, " AND ")
	}
	return whereClause, args, argNum
}
