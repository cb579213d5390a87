package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tea-registry/internal/domain"
	"tea-registry/internal/repository"
	"tea-registry/internal/session"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ErrValidation marks user-facing input errors; the message is safe to show.
type ErrValidation struct{ Msg string }

func (e *ErrValidation) Error() string { return e.Msg }

// StaffService provisions and manages staff accounts. Provisioning is a
// two-step saga over the Session Store (identity) and the Record Store
// (user_login row): the identity must exist first because the row is keyed by
// its generated id, and a failed second step compensates by deleting the
// identity rather than leaving it orphaned.
type StaffService struct {
	identities repository.IdentitiesRepository
	staff      repository.StaffRepository
	sessions   session.Store
	logger     *zap.Logger
}

func NewStaffService(identities repository.IdentitiesRepository, staff repository.StaffRepository,
	sessions session.Store, logger *zap.Logger) *StaffService {
	return &StaffService{
		identities: identities,
		staff:      staff,
		sessions:   sessions,
		logger:     logger,
	}
}

// ProvisionRequest carries the four required provisioning fields.
type ProvisionRequest struct {
	Name     string `json:"nome"`
	Email    string `json:"email"`
	Password string `json:"senha"`
	Role     string `json:"role"`
}

// ProvisionUser creates a Session Store identity and its StaffAccount row.
// The caller must already be verified as administrative.
func (s *StaffService) ProvisionUser(ctx context.Context, req ProvisionRequest) (*domain.StaffAccount, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Name == "" || req.Email == "" || req.Password == "" || req.Role == "" {
		return nil, &ErrValidation{Msg: "nome, email, senha e role são obrigatórios"}
	}
	if !domain.ValidRole(req.Role) {
		return nil, &ErrValidation{Msg: "role inválido"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// Step 1: identity, pre-confirmed. A duplicate email fails here and no
	// staff row is ever written.
	identityID, err := s.identities.CreateIdentity(ctx, req.Email, string(hash))
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, &ErrValidation{Msg: "email já cadastrado"}
		}
		return nil, fmt.Errorf("failed to create identity: %w", err)
	}

	// Step 2: the user_login row keyed by the identity id.
	staff := &domain.StaffAccount{
		ID:       identityID,
		Name:     req.Name,
		Email:    req.Email,
		Role:     req.Role,
		IsActive: true,
	}
	if err := s.staff.CreateStaff(ctx, staff); err != nil {
		// Compensation: remove the step-1 identity so no orphan is left. If
		// even that fails, report both so an operator can clean up by id.
		if compErr := s.identities.DeleteIdentity(ctx, identityID); compErr != nil {
			s.logger.Error("provisioning compensation failed, identity orphaned",
				zap.String("identity_id", identityID), zap.Error(compErr))
			return nil, fmt.Errorf("failed to create staff row (%v) and to remove identity %s: %w",
				err, identityID, compErr)
		}
		s.logger.Warn("staff row insert failed, identity rolled back",
			zap.String("identity_id", identityID), zap.Error(err))
		return nil, fmt.Errorf("failed to create staff row: %w", err)
	}

	s.logger.Info("staff account provisioned",
		zap.String("staff_id", staff.ID), zap.String("role", staff.Role))
	return staff, nil
}

// ListStaff returns every staff account.
func (s *StaffService) ListStaff(ctx context.Context) ([]*domain.StaffAccount, error) {
	return s.staff.ListStaff(ctx)
}

// UpdateStaff overwrites name, privilege and active flag. A privilege change
// is picked up on the account's next page load; nothing is cached.
func (s *StaffService) UpdateStaff(ctx context.Context, id, name, role string, isActive bool) (*domain.StaffAccount, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &ErrValidation{Msg: "nome é obrigatório"}
	}
	if !domain.ValidRole(role) {
		return nil, &ErrValidation{Msg: "role inválido"}
	}
	if err := s.staff.UpdateStaff(ctx, id, name, role, isActive); err != nil {
		return nil, err
	}
	return s.staff.GetStaff(ctx, id)
}

// DeleteStaff removes the user_login row and revokes the account's open
// sessions. The Session Store identity is intentionally kept (see DESIGN.md);
// without a staff row it can no longer complete a login.
func (s *StaffService) DeleteStaff(ctx context.Context, id string) error {
	if err := s.staff.DeleteStaff(ctx, id); err != nil {
		return err
	}
	if err := s.sessions.RevokeIdentity(ctx, id); err != nil {
		s.logger.Warn("failed to revoke sessions for deleted staff", zap.String("staff_id", id), zap.Error(err))
	}
	return nil
}
