package repository

import (
	"context"
	"database/sql"
	"fmt"

	"tea-registry/internal/domain"
)

// PostgresIdentitiesRepository implements IdentitiesRepository on the
// auth_identities table.
type PostgresIdentitiesRepository struct {
	db *sql.DB
}

func NewPostgresIdentitiesRepository(db *sql.DB) *PostgresIdentitiesRepository {
	return &PostgresIdentitiesRepository{db: db}
}

var _ IdentitiesRepository = (*PostgresIdentitiesRepository)(nil)

func (r *PostgresIdentitiesRepository) CreateIdentity(ctx context.Context, email, passwordHash string) (string, error) {
	var id string
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO auth_identities (email, password_hash, email_confirmed)
		 VALUES ($1, $2, TRUE)
		 RETURNING id::text`,
		email, passwordHash,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return "", ErrDuplicateEmail
		}
		return "", fmt.Errorf("failed to create identity: %w", err)
	}
	return id, nil
}

func (r *PostgresIdentitiesRepository) GetIdentityByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	var identity domain.Identity
	err := r.db.QueryRowContext(ctx,
		`SELECT id::text, email, password_hash, email_confirmed, created_at
		 FROM auth_identities
		 WHERE email = $1`,
		email,
	).Scan(&identity.ID, &identity.Email, &identity.PasswordHash, &identity.EmailConfirmed, &identity.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get identity: %w", err)
	}
	return &identity, nil
}

func (r *PostgresIdentitiesRepository) DeleteIdentity(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM auth_identities WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete identity: %w", err)
	}
	return nil
}
