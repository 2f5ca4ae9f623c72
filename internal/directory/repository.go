package directory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stc-ops/fieldops/internal/shared/auth"
	"github.com/stc-ops/fieldops/internal/shared/errors"
	"github.com/stc-ops/fieldops/internal/shared/metrics"
	"github.com/stc-ops/fieldops/internal/shared/types"
)

// Repository provides database operations for the user directory
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new directory repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Save saves a new user and zero-initialized balances
func (r *Repository) Save(ctx context.Context, u *User) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO users (id, email, name, location, roles, manager_email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = tx.Exec(ctx, query,
		u.ID, u.Email, u.Name, u.Location, u.Roles, u.ManagerEmail, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return errors.Conflict("user with this email already exists")
		}
		return errors.Wrap(err, "failed to save user")
	}

	_, err = tx.Exec(ctx, `INSERT INTO employee_balances (user_id) VALUES ($1)`, u.ID)
	if err != nil {
		return errors.Wrap(err, "failed to initialize balances")
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}
	return nil
}

// FindByID finds a user by ID
func (r *Repository) FindByID(ctx context.Context, id types.ID) (*User, error) {
	query := `
		SELECT id, email, name, location, roles, manager_email, created_at, updated_at
		FROM users WHERE id = $1`

	u := &User{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&u.ID, &u.Email, &u.Name, &u.Location, &u.Roles, &u.ManagerEmail, &u.CreatedAt, &u.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("user", id.String())
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find user")
	}
	return u, nil
}

// FindByEmail finds a user by email
func (r *Repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	query := `
		SELECT id, email, name, location, roles, manager_email, created_at, updated_at
		FROM users WHERE email = $1`

	u := &User{}
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&u.ID, &u.Email, &u.Name, &u.Location, &u.Roles, &u.ManagerEmail, &u.CreatedAt, &u.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("user", email)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find user")
	}
	return u, nil
}

// ResolvePrincipal implements auth.Resolver: token claims are replaced by the
// directory's view of the user.
func (r *Repository) ResolvePrincipal(ctx context.Context, id types.ID) (*auth.Principal, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("directory.resolve_principal", time.Since(start)) }()

	u, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &auth.Principal{
		ID:       u.ID,
		Email:    u.Email,
		Name:     u.Name,
		Location: u.Location,
		Roles:    u.Roles,
	}, nil
}

// GetBalances returns the leave balances for a user
func (r *Repository) GetBalances(ctx context.Context, userID types.ID) (*Balances, error) {
	query := `
		SELECT user_id, sick_leave, paid_leave, restricted_holiday, menstrual_leave, updated_at
		FROM employee_balances WHERE user_id = $1`

	b := &Balances{}
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&b.UserID, &b.SickLeave, &b.PaidLeave, &b.RestrictedHoliday, &b.MenstrualLeave, &b.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("balances", userID.String())
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get balances")
	}
	return b, nil
}

// UpdateBalances sets the provided balance buckets
func (r *Repository) UpdateBalances(ctx context.Context, userID types.ID, req UpdateBalancesRequest) (*Balances, error) {
	var sets []string
	var args []interface{}
	argNum := 1

	for _, f := range []struct {
		column string
		value  *int
	}{
		{"sick_leave", req.SickLeave},
		{"paid_leave", req.PaidLeave},
		{"restricted_holiday", req.RestrictedHoliday},
		{"menstrual_leave", req.MenstrualLeave},
	} {
		if f.value == nil {
			continue
		}
		sets = append(sets, fmt.Sprintf("%s = $%d", f.column, argNum))
		args = append(args, *f.value)
		argNum++
	}
	if len(sets) == 0 {
		return r.GetBalances(ctx, userID)
	}

	sets = append(sets, "updated_at = NOW()")
	query := fmt.Sprintf(`UPDATE employee_balances SET %s WHERE user_id = $%d`,
		strings.Join(sets, ", "), argNum)
	args = append(args, userID)

	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to update balances")
	}
	if result.RowsAffected() == 0 {
		return nil, errors.NotFound("balances", userID.String())
	}
	return r.GetBalances(ctx, userID)
}

// DeductBalance atomically deducts days from one leave bucket. The guard in
// the WHERE clause keeps balances non-negative under concurrent approvals.
func (r *Repository) DeductBalance(ctx context.Context, userID types.ID, lt LeaveType, days int) error {
	if !lt.Valid() {
		return errors.BadRequest(fmt.Sprintf("unknown leave type: %s", lt))
	}
	if days <= 0 {
		return errors.BadRequest("days must be positive")
	}

	col := lt.column()
	query := fmt.Sprintf(`
		UPDATE employee_balances
		SET %s = %s - $2, updated_at = NOW()
		WHERE user_id = $1 AND %s >= $2`, col, col, col)

	result, err := r.pool.Exec(ctx, query, userID, days)
	if err != nil {
		return errors.Wrap(err, "failed to deduct balance")
	}
	if result.RowsAffected() == 0 {
		if _, err := r.GetBalances(ctx, userID); err != nil {
			return err
		}
		return errors.BadRequest(fmt.Sprintf("insufficient %s balance", lt))
	}
	return nil
}
