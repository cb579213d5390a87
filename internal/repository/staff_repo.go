package repository

import (
	"context"

	"tea-registry/internal/domain"
)

// StaffRepository manages StaffAccount rows (user_login table).
type StaffRepository interface {
	// GetStaff returns ErrNotFound when no row matches the identity id.
	GetStaff(ctx context.Context, id string) (*domain.StaffAccount, error)

	// ListStaff returns every staff account, newest first.
	ListStaff(ctx context.Context) ([]*domain.StaffAccount, error)

	// CreateStaff inserts the user_login row for an already-created identity.
	CreateStaff(ctx context.Context, staff *domain.StaffAccount) error

	// UpdateStaff overwrites name, role and active flag.
	UpdateStaff(ctx context.Context, id string, name, role string, isActive bool) error

	// DeleteStaff removes the row. The paired identity is left in place (see
	// DESIGN.md on account deletion).
	DeleteStaff(ctx context.Context, id string) error

	// CountStaff is used by the dashboard.
	CountStaff(ctx context.Context) (int, error)
}
