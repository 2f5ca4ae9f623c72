package hr

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

const requestColumns = `id, owner_id, kind, state, zone, district, constituency, pc,
	approver_email, status, leave_type, start_date, end_date, days,
	payload, created_at, updated_at`

// Repository provides database operations for HR requests
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new HR repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Save saves a new request
func (r *Repository) Save(ctx context.Context, req *Request) error {
	query := `
		INSERT INTO hr_requests (
			id, owner_id, kind, state, zone, district, constituency, pc,
			approver_email, status, leave_type, start_date, end_date, days,
			payload, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

	_, err := r.pool.Exec(ctx, query,
		req.ID, req.OwnerID, req.Kind, req.State, req.Zone, req.District, req.Constituency, req.PC,
		req.ApproverEmail, req.Status, req.LeaveType, req.StartDate, req.EndDate, req.Days,
		req.Payload, req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		return errors.Wrap(err, "failed to save request")
	}
	return nil
}

// FindByID finds a request by ID
func (r *Repository) FindByID(ctx context.Context, id types.ID) (*Request, error) {
	query := fmt.Sprintf(`SELECT %s FROM hr_requests WHERE id = $1`, requestColumns)

	req := &Request{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&req.ID, &req.OwnerID, &req.Kind, &req.State, &req.Zone, &req.District, &req.Constituency, &req.PC,
		&req.ApproverEmail, &req.Status, &req.LeaveType, &req.StartDate, &req.EndDate, &req.Days,
		&req.Payload, &req.CreatedAt, &req.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("request", id.String())
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find request")
	}
	return req, nil
}

// List returns requests matching the role scope plus explicit filters.
func (r *Repository) List(ctx context.Context, sf scope.Filter, filter ListFilter) ([]Request, int, error) {
	scopedSQL, args, argNum := database.ScopedWhere(sf, 1)

	var conds []string
	if scopedSQL != "" {
		conds = append(conds, scopedSQL)
	}
	conds, args, argNum = appendRequestFilters(conds, args, argNum, filter)

	return r.query(ctx, conds, args, argNum, filter)
}

// ListForApprover returns requests addressed to the given approver email.
func (r *Repository) ListForApprover(ctx context.Context, email string, filter ListFilter) ([]Request, int, error) {
	conds := []string{"approver_email = $1"}
	args := []interface{}{email}
	argNum := 2

	conds, args, argNum = appendRequestFilters(conds, args, argNum, filter)
	return r.query(ctx, conds, args, argNum, filter)
}

// ListAll returns every request matching the explicit filters. Admin inbox.
func (r *Repository) ListAll(ctx context.Context, filter ListFilter) ([]Request, int, error) {
	var conds []string
	var args []interface{}
	argNum := 1

	conds, args, argNum = appendRequestFilters(conds, args, argNum, filter)
	return r.query(ctx, conds, args, argNum, filter)
}

// UpdateStatus moves a pending request to the given terminal status. The
// pending guard lives in the WHERE clause so concurrent decisions cannot
// both win the transition.
func (r *Repository) UpdateStatus(ctx context.Context, id types.ID, status RequestStatus) error {
	query := `UPDATE hr_requests SET status = $2, updated_at = NOW() WHERE id = $1 AND status = 'pending'`

	result, err := r.pool.Exec(ctx, query, id, status)
	if err != nil {
		return errors.Wrap(err, "failed to update request status")
	}
	if result.RowsAffected() == 0 {
		if _, err := r.FindByID(ctx, id); err != nil {
			return err
		}
		return errors.Conflict("request already decided")
	}
	return nil
}

// Reopen returns a request to pending, undoing a decision whose balance
// deduction failed.
func (r *Repository) Reopen(ctx context.Context, id types.ID, from RequestStatus) error {
	query := `UPDATE hr_requests SET status = 'pending', updated_at = NOW() WHERE id = $1 AND status = $2`

	result, err := r.pool.Exec(ctx, query, id, from)
	if err != nil {
		return errors.Wrap(err, "failed to reopen request")
	}
	if result.RowsAffected() == 0 {
		return errors.NotFound("request", id.String())
	}
	return nil
}

func appendRequestFilters(conds []string, args []interface{}, argNum int, filter ListFilter) ([]string, []interface{}, int) {
	if filter.Kind != "" {
		conds = append(conds, fmt.Sprintf("kind = $%d", argNum))
		args = append(args, filter.Kind)
		argNum++
	}
	if filter.Status != "" {
		conds = append(conds, fmt.Sprintf("status = $%d", argNum))
		args = append(args, filter.Status)
		argNum++
	}
	return conds, args, argNum
}

func (r *Repository) query(ctx context.Context, conds []string, args []interface{}, argNum int, filter ListFilter) ([]Request, int, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("hr_requests.list", time.Since(start)) }()

	whereClause := ""
	if len(conds) > 0 {
		whereClause = "WHERE " + strings.Join(conds, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM hr_requests %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, errors.Wrap(err, "failed to count requests")
	}

	limit := 50
	if filter.Limit > 0 && filter.Limit <= 200 {
		limit = filter.Limit
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM hr_requests
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, requestColumns, whereClause, argNum, argNum+1)

	args = append(args, limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to list requests")
	}
	defer rows.Close()

	var items []Request
	for rows.Next() {
		var req Request
		err := rows.Scan(
			&req.ID, &req.OwnerID, &req.Kind, &req.State, &req.Zone, &req.District, &req.Constituency, &req.PC,
			&req.ApproverEmail, &req.Status, &req.LeaveType, &req.StartDate, &req.EndDate, &req.Days,
			&req.Payload, &req.CreatedAt, &req.UpdatedAt,
		)
		if err != nil {
			return nil, 0, errors.Wrap(err, "failed to scan request")
		}
		items = append(items, req)
	}

	return items, total, nil
}
