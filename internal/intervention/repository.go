package intervention

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

// Repository provides database operations for interventions
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new intervention repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Save saves a new intervention
func (r *Repository) Save(ctx context.Context, iv *Intervention) error {
	query := `
		INSERT INTO interventions (
			id, owner_id, state, zone, district, constituency, pc, ward,
			type, action, status, payload, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := r.pool.Exec(ctx, query,
		iv.ID, iv.OwnerID, iv.State, iv.Zone, iv.District, iv.Constituency, iv.PC, iv.Ward,
		iv.Type, iv.Action, iv.Status, iv.Payload, iv.CreatedAt, iv.UpdatedAt,
	)
	if err != nil {
		return errors.Wrap(err, "failed to save intervention")
	}
	return nil
}

// FindByID finds an intervention by ID
func (r *Repository) FindByID(ctx context.Context, id types.ID) (*Intervention, error) {
	query := `
		SELECT id, owner_id, state, zone, district, constituency, pc, ward,
			type, action, status, payload, created_at, updated_at
		FROM interventions WHERE id = $1`

	iv := &Intervention{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&iv.ID, &iv.OwnerID, &iv.State, &iv.Zone, &iv.District, &iv.Constituency, &iv.PC, &iv.Ward,
		&iv.Type, &iv.Action, &iv.Status, &iv.Payload, &iv.CreatedAt, &iv.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("intervention", id.String())
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find intervention")
	}
	return iv, nil
}

// Update updates an intervention's action and status
func (r *Repository) Update(ctx context.Context, iv *Intervention) error {
	query := `
		UPDATE interventions SET action = $2, status = $3, updated_at = $4
		WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, iv.ID, iv.Action, iv.Status, iv.UpdatedAt)
	if err != nil {
		return errors.Wrap(err, "failed to update intervention")
	}
	if result.RowsAffected() == 0 {
		return errors.NotFound("intervention", iv.ID.String())
	}
	return nil
}

// List returns interventions matching the role scope plus explicit filters.
func (r *Repository) List(ctx context.Context, sf scope.Filter, filter ListFilter) ([]Intervention, int, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("interventions.list", time.Since(start)) }()

	scopedSQL, args, argNum := database.ScopedWhere(sf, 1)

	var conds []string
	if scopedSQL != "" {
		conds = append(conds, scopedSQL)
	}
	for _, f := range []struct {
		column string
		value  string
	}{
		{"ward", filter.Ward},
		{"type", filter.Type},
		{"action", filter.Action},
		{"status", filter.Status},
	} {
		if f.value == "" {
			continue
		}
		conds = append(conds, fmt.Sprintf("%s = $%d", f.column, argNum))
		args = append(args, f.value)
		argNum++
	}

	whereClause := ""
	if len(conds) > 0 {
		whereClause = "WHERE " + strings.Join(conds, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM interventions %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "failed to count interventions")
	}

	limit := 50
	if filter.Limit > 0 && filter.Limit <= 200 {
		limit = filter.Limit
	}

	query := fmt.Sprintf(`
		SELECT id, owner_id, state, zone, district, constituency, pc, ward,
			type, action, status, payload, created_at, updated_at
		FROM interventions
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, whereClause, argNum, argNum+1)

	args = append(args, limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to list interventions")
	}
	defer rows.Close()

	var items []Intervention
	for rows.Next() {
		var iv Intervention
		err := rows.Scan(
			&iv.ID, &iv.OwnerID, &iv.State, &iv.Zone, &iv.District, &iv.Constituency, &iv.PC, &iv.Ward,
			&iv.Type, &iv.Action, &iv.Status, &iv.Payload, &iv.CreatedAt, &iv.UpdatedAt,
		)
		if err != nil {
			return nil, 0, errors.Wrap(err, "failed to scan intervention")
		}
		items = append(items, iv)
	}

	return items, total, nil
}
