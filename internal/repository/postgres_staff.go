package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"tea-registry/internal/domain"
)

// PostgresStaffRepository implements StaffRepository on the user_login table.
type PostgresStaffRepository struct {
	db *sql.DB
}

func NewPostgresStaffRepository(db *sql.DB) *PostgresStaffRepository {
	return &PostgresStaffRepository{db: db}
}

var _ StaffRepository = (*PostgresStaffRepository)(nil)

const staffColumns = `id::text, nome, email, role, is_active, created_at, updated_at`

func scanStaff(row interface{ Scan(...any) error }) (*domain.StaffAccount, error) {
	var staff domain.StaffAccount
	var updatedAt sql.NullTime
	err := row.Scan(&staff.ID, &staff.Name, &staff.Email, &staff.Role,
		&staff.IsActive, &staff.CreatedAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if updatedAt.Valid {
		staff.UpdatedAt = &updatedAt.Time
	}
	return &staff, nil
}

func (r *PostgresStaffRepository) GetStaff(ctx context.Context, id string) (*domain.StaffAccount, error) {
	if id == "" {
		return nil, fmt.Errorf("staff id is required")
	}
	row := r.db.QueryRowContext(ctx,
		`SELECT `+staffColumns+` FROM user_login WHERE id = $1`, id)
	staff, err := scanStaff(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get staff account: %w", err)
	}
	return staff, nil
}

func (r *PostgresStaffRepository) ListStaff(ctx context.Context) ([]*domain.StaffAccount, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+staffColumns+` FROM user_login ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff accounts: %w", err)
	}
	defer rows.Close()

	var list []*domain.StaffAccount
	for rows.Next() {
		staff, err := scanStaff(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan staff account: %w", err)
		}
		list = append(list, staff)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate staff accounts: %w", err)
	}
	return list, nil
}

func (r *PostgresStaffRepository) CreateStaff(ctx context.Context, staff *domain.StaffAccount) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO user_login (id, nome, email, role, is_active)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`,
		staff.ID, staff.Name, staff.Email, staff.Role, staff.IsActive,
	).Scan(&staff.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create staff account: %w", err)
	}
	return nil
}

func (r *PostgresStaffRepository) UpdateStaff(ctx context.Context, id string, name, role string, isActive bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE user_login
		 SET nome = $2, role = $3, is_active = $4, updated_at = $5
		 WHERE id = $1`,
		id, name, role, isActive, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to update staff account: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresStaffRepository) DeleteStaff(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM user_login WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete staff account: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresStaffRepository) CountStaff(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM user_login`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count staff accounts: %w", err)
	}
	return count, nil
}
