package service

import (
	"context"
	"errors"
	"fmt"

	"tea-registry/internal/domain"
	"tea-registry/internal/repository"
	"tea-registry/internal/session"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials covers unknown email and wrong password alike;
	// callers never learn which.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInactiveAccount means the staff account exists but was deactivated.
	ErrInactiveAccount = errors.New("account is inactive")
)

// AuthService exchanges credentials for sessions and answers the two
// questions every protected page asks: who is the caller, and are they
// administrative.
type AuthService struct {
	identities repository.IdentitiesRepository
	staff      repository.StaffRepository
	sessions   session.Store
	logger     *zap.Logger
}

func NewAuthService(identities repository.IdentitiesRepository, staff repository.StaffRepository,
	sessions session.Store, logger *zap.Logger) *AuthService {
	return &AuthService{
		identities: identities,
		staff:      staff,
		sessions:   sessions,
		logger:     logger,
	}
}

// Login verifies credentials and opens a session. The returned token goes
// into the session cookie.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.StaffAccount, string, error) {
	if email == "" || password == "" {
		return nil, "", ErrInvalidCredentials
	}

	identity, err := s.identities.GetIdentityByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("login lookup failed: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	staff, err := s.staff.GetStaff(ctx, identity.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Identity without a staff row (provisioning leftover): treated
			// as bad credentials, not as a half-working login.
			s.logger.Warn("login for identity without staff row", zap.String("identity_id", identity.ID))
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("staff lookup failed: %w", err)
	}
	if !staff.IsActive {
		return nil, "", ErrInactiveAccount
	}

	token, err := s.sessions.Create(ctx, identity.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Info("staff logged in", zap.String("staff_id", staff.ID), zap.String("role", staff.Role))
	return staff, token, nil
}

// Logout ends the session behind the token. Unknown tokens are a no-op.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Destroy(ctx, token)
}

// ResolveSession maps a session token to an identity id, sliding the session
// expiry forward. Any session-store failure reads as "no identity": protected
// paths fail closed.
func (s *AuthService) ResolveSession(ctx context.Context, token string) (string, bool) {
	identityID, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		if !errors.Is(err, session.ErrNoSession) {
			s.logger.Warn("session store unavailable, treating as unauthenticated", zap.Error(err))
		}
		return "", false
	}
	return identityID, true
}

// CurrentStaff returns the StaffAccount behind an identity, or nil when the
// row is missing or the lookup fails.
func (s *AuthService) CurrentStaff(ctx context.Context, identityID string) *domain.StaffAccount {
	staff, err := s.staff.GetStaff(ctx, identityID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("staff lookup failed", zap.String("identity_id", identityID), zap.Error(err))
		}
		return nil
	}
	return staff
}

// IsAdmin reports whether the identity holds administrative privilege. A
// missing row or a lookup error is "not administrative" (fail closed). The
// result gates navigation and admin views; admin handlers re-run the check at
// the point of execution, and the Record Store remains the enforcement point
// for data access.
func (s *AuthService) IsAdmin(ctx context.Context, identityID string) bool {
	staff, err := s.staff.GetStaff(ctx, identityID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("privilege lookup failed, denying admin", zap.String("identity_id", identityID), zap.Error(err))
		}
		return false
	}
	return staff.IsAdmin()
}
