package repository

import (
	"context"
	"time"

	"tea-registry/internal/domain"
)

// RegistrantFilters narrows registrant listings and reports. Zero values mean
// "no filter".
type RegistrantFilters struct {
	Search string     // matches name, CPF or guardians, case-insensitive
	From   *time.Time // created_at lower bound (inclusive)
	To     *time.Time // created_at upper bound (inclusive)
}

// RegistrantReport is one row of the registration report: the registrant plus
// the staff account that created it.
type RegistrantReport struct {
	ID             int64      `json:"id"`
	Name           string     `json:"nome"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at"`
	CreatedBy      string     `json:"user_id,omitempty"`
	CreatedByName  string     `json:"created_by_name,omitempty"`
	CreatedByEmail string     `json:"created_by_email,omitempty"`
}

// RegistrantsRepository manages Registrant rows (cadastros table).
type RegistrantsRepository interface {
	// GetRegistrant returns ErrNotFound when no row matches.
	GetRegistrant(ctx context.Context, id int64) (*domain.Registrant, error)

	// ListRegistrants returns registrants ordered by name, optionally
	// filtered.
	ListRegistrants(ctx context.Context, filters RegistrantFilters) ([]*domain.Registrant, error)

	// CreateRegistrant inserts a row and fills in the generated id and
	// created_at.
	CreateRegistrant(ctx context.Context, reg *domain.Registrant) error

	// UpdateRegistrant overwrites every scalar and document field. There is
	// no version check: the last write wins.
	UpdateRegistrant(ctx context.Context, reg *domain.Registrant) error

	// DeleteRegistrant removes exactly one row. A registrant still referenced
	// by visit notes returns ErrHasVisitNotes (the FK is ON DELETE RESTRICT).
	DeleteRegistrant(ctx context.Context, id int64) error

	// ListRegistrantReport joins each registrant with its creating staff
	// account, newest first.
	ListRegistrantReport(ctx context.Context, filters RegistrantFilters) ([]*RegistrantReport, error)

	// CountRegistrants is used by the dashboard.
	CountRegistrants(ctx context.Context) (int, error)
}
