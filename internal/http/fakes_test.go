package httpapi_test

import (
	"context"
	"fmt"
	"sync"

	"tea-registry/internal/domain"
	"tea-registry/internal/repository"
	"tea-registry/internal/session"
)

// fakeIdentitiesRepo backs the handler tests without a database.
type fakeIdentitiesRepo struct {
	mu     sync.Mutex
	byID   map[string]*domain.Identity
	nextID int
}

func newFakeIdentitiesRepo() *fakeIdentitiesRepo {
	return &fakeIdentitiesRepo{byID: make(map[string]*domain.Identity)}
}

var _ repository.IdentitiesRepository = (*fakeIdentitiesRepo)(nil)

func (f *fakeIdentitiesRepo) CreateIdentity(ctx context.Context, email, passwordHash string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range f.byID {
		if id.Email == email {
			return "", repository.ErrDuplicateEmail
		}
	}
	f.nextID++
	id := fmt.Sprintf("identity-%d", f.nextID)
	f.byID[id] = &domain.Identity{ID: id, Email: email, PasswordHash: passwordHash, EmailConfirmed: true}
	return id, nil
}

func (f *fakeIdentitiesRepo) GetIdentityByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range f.byID {
		if id.Email == email {
			copied := *id
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeIdentitiesRepo) DeleteIdentity(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.byID, id)
	return nil
}

type fakeStaffRepo struct {
	mu     sync.Mutex
	rows   map[string]*domain.StaffAccount
	getErr error
}

func newFakeStaffRepo() *fakeStaffRepo {
	return &fakeStaffRepo{rows: make(map[string]*domain.StaffAccount)}
}

var _ repository.StaffRepository = (*fakeStaffRepo)(nil)

func (f *fakeStaffRepo) GetStaff(ctx context.Context, id string) (*domain.StaffAccount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	staff, ok := f.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *staff
	return &copied, nil
}

func (f *fakeStaffRepo) ListStaff(ctx context.Context) ([]*domain.StaffAccount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*domain.StaffAccount, 0, len(f.rows))
	for _, staff := range f.rows {
		copied := *staff
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeStaffRepo) CreateStaff(ctx context.Context, staff *domain.StaffAccount) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *staff
	f.rows[staff.ID] = &copied
	return nil
}

func (f *fakeStaffRepo) UpdateStaff(ctx context.Context, id string, name, role string, isActive bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	staff, ok := f.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	staff.Name = name
	staff.Role = role
	staff.IsActive = isActive
	return nil
}

func (f *fakeStaffRepo) DeleteStaff(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeStaffRepo) CountStaff(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows), nil
}

type fakeSessionStore struct {
	mu         sync.Mutex
	tokens     map[string]string
	nextToken  int
	resolveErr error
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{tokens: make(map[string]string)}
}

var _ session.Store = (*fakeSessionStore)(nil)

func (f *fakeSessionStore) Create(ctx context.Context, identityID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextToken++
	token := fmt.Sprintf("token-%d", f.nextToken)
	f.tokens[token] = identityID
	return token, nil
}

func (f *fakeSessionStore) Resolve(ctx context.Context, token string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.resolveErr != nil {
		return "", f.resolveErr
	}
	identityID, ok := f.tokens[token]
	if !ok {
		return "", session.ErrNoSession
	}
	return identityID, nil
}

func (f *fakeSessionStore) Destroy(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.tokens, token)
	return nil
}

func (f *fakeSessionStore) RevokeIdentity(ctx context.Context, identityID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for token, owner := range f.tokens {
		if owner == identityID {
			delete(f.tokens, token)
		}
	}
	return nil
}
