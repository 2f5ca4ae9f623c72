package mapping

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stc-ops/fieldops/internal/shared/errors"
	"github.com/stc-ops/fieldops/internal/shared/metrics"
)

// Repository provides database operations for ward mappings
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new mapping repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Save saves a ward mapping
func (r *Repository) Save(ctx context.Context, m *WardMapping) error {
	query := `
		INSERT INTO ward_mappings (id, ward, constituency, zone, district, pc)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, query, m.ID, m.Ward, m.Constituency, m.Zone, m.District, m.PC)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return errors.Conflict("mapping for this ward and constituency already exists")
		}
		return errors.Wrap(err, "failed to save ward mapping")
	}
	return nil
}

// Resolve looks up a ward. A miss returns (nil, nil): enrichment callers
// proceed with scoping fields unset, while a real failure aborts their write.
func (r *Repository) Resolve(ctx context.Context, ward string) (*WardMapping, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("ward_mappings.resolve", time.Since(start)) }()

	query := `
		SELECT id, ward, constituency, zone, district, pc
		FROM ward_mappings WHERE ward = $1
		ORDER BY constituency LIMIT 1`

	m := &WardMapping{}
	err := r.pool.QueryRow(ctx, query, ward).Scan(
		&m.ID, &m.Ward, &m.Constituency, &m.Zone, &m.District, &m.PC,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve ward")
	}
	return m, nil
}

// DistinctWards returns the distinct ward names, optionally narrowed to one
// constituency.
func (r *Repository) DistinctWards(ctx context.Context, constituency string) ([]string, error) {
	query := `SELECT DISTINCT ward FROM ward_mappings ORDER BY ward`
	args := []interface{}{}
	if constituency != "" {
		query = `SELECT DISTINCT ward FROM ward_mappings WHERE constituency = $1 ORDER BY ward`
		args = append(args, constituency)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list wards")
	}
	defer rows.Close()

	var wards []string
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, errors.Wrap(err, "failed to scan ward")
		}
		wards = append(wards, w)
	}
	return wards, nil
}
