package repository

import (
	"context"

	"tea-registry/internal/domain"
)

// IdentitiesRepository manages Session Store identities (auth_identities
// table). Identities carry credentials; staff profile data lives in
// user_login and is managed by StaffRepository.
type IdentitiesRepository interface {
	// CreateIdentity inserts a pre-confirmed identity and returns its
	// generated id. A duplicate email returns ErrDuplicateEmail.
	CreateIdentity(ctx context.Context, email, passwordHash string) (string, error)

	// GetIdentityByEmail returns ErrNotFound when no identity matches.
	GetIdentityByEmail(ctx context.Context, email string) (*domain.Identity, error)

	// DeleteIdentity removes an identity. Used as the saga compensation when
	// the staff-row insert fails after identity creation succeeded.
	DeleteIdentity(ctx context.Context, id string) error
}
