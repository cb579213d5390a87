package service_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"tea-registry/internal/domain"
	"tea-registry/internal/repository"
	"tea-registry/internal/session"
)

// fakeIdentitiesRepo is an in-memory IdentitiesRepository for unit tests.
type fakeIdentitiesRepo struct {
	mu        sync.Mutex
	byID      map[string]*domain.Identity
	nextID    int
	createErr error
	deleteErr error
	deleted   []string
}

func newFakeIdentitiesRepo() *fakeIdentitiesRepo {
	return &fakeIdentitiesRepo{byID: make(map[string]*domain.Identity)}
}

var _ repository.IdentitiesRepository = (*fakeIdentitiesRepo)(nil)

func (f *fakeIdentitiesRepo) CreateIdentity(ctx context.Context, email, passwordHash string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return "", f.createErr
	}
	for _, id := range f.byID {
		if id.Email == email {
			return "", repository.ErrDuplicateEmail
		}
	}
	f.nextID++
	id := fmt.Sprintf("identity-%d", f.nextID)
	f.byID[id] = &domain.Identity{
		ID:             id,
		Email:          email,
		PasswordHash:   passwordHash,
		EmailConfirmed: true,
		CreatedAt:      time.Now(),
	}
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
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.byID, id)
	f.deleted = append(f.deleted, id)
	return nil
}

// fakeStaffRepo is an in-memory StaffRepository for unit tests.
type fakeStaffRepo struct {
	mu        sync.Mutex
	rows      map[string]*domain.StaffAccount
	createErr error
	getErr    error
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
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStaffRepo) CreateStaff(ctx context.Context, staff *domain.StaffAccount) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	copied := *staff
	copied.CreatedAt = time.Now()
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

// fakeRegistrantsRepo is an in-memory RegistrantsRepository. hasVisits marks
// ids whose delete must be refused, mirroring the RESTRICT foreign key.
type fakeRegistrantsRepo struct {
	mu        sync.Mutex
	rows      map[int64]*domain.Registrant
	nextID    int64
	hasVisits map[int64]bool
	createErr error
	updateErr error
}

func newFakeRegistrantsRepo() *fakeRegistrantsRepo {
	return &fakeRegistrantsRepo{
		rows:      make(map[int64]*domain.Registrant),
		hasVisits: make(map[int64]bool),
	}
}

var _ repository.RegistrantsRepository = (*fakeRegistrantsRepo)(nil)

func (f *fakeRegistrantsRepo) GetRegistrant(ctx context.Context, id int64) (*domain.Registrant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	reg, ok := f.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *reg
	return &copied, nil
}

func (f *fakeRegistrantsRepo) ListRegistrants(ctx context.Context, filters repository.RegistrantFilters) ([]*domain.Registrant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*domain.Registrant, 0, len(f.rows))
	for _, reg := range f.rows {
		copied := *reg
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeRegistrantsRepo) CreateRegistrant(ctx context.Context, reg *domain.Registrant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	reg.ID = f.nextID
	reg.CreatedAt = time.Now()
	copied := *reg
	f.rows[reg.ID] = &copied
	return nil
}

func (f *fakeRegistrantsRepo) UpdateRegistrant(ctx context.Context, reg *domain.Registrant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.rows[reg.ID]; !ok {
		return repository.ErrNotFound
	}
	copied := *reg
	f.rows[reg.ID] = &copied
	return nil
}

func (f *fakeRegistrantsRepo) DeleteRegistrant(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[id]; !ok {
		return repository.ErrNotFound
	}
	if f.hasVisits[id] {
		return repository.ErrHasVisitNotes
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeRegistrantsRepo) ListRegistrantReport(ctx context.Context, filters repository.RegistrantFilters) ([]*repository.RegistrantReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*repository.RegistrantReport, 0, len(f.rows))
	for _, reg := range f.rows {
		out = append(out, &repository.RegistrantReport{
			ID:        reg.ID,
			Name:      reg.Name,
			CreatedAt: reg.CreatedAt,
			UpdatedAt: reg.UpdatedAt,
			CreatedBy: reg.CreatedBy,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeRegistrantsRepo) CountRegistrants(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows), nil
}

// fakeVisitsRepo is an in-memory VisitNotesRepository. validRegistrants
// stands in for the foreign key to cadastros.
type fakeVisitsRepo struct {
	mu               sync.Mutex
	notes            []*domain.VisitNote
	nextID           int64
	validRegistrants map[int64]bool
}

func newFakeVisitsRepo() *fakeVisitsRepo {
	return &fakeVisitsRepo{validRegistrants: make(map[int64]bool)}
}

var _ repository.VisitNotesRepository = (*fakeVisitsRepo)(nil)

func (f *fakeVisitsRepo) CreateVisitNote(ctx context.Context, note *domain.VisitNote) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.validRegistrants[note.RegistrantID] {
		return repository.ErrNotFound
	}
	f.nextID++
	note.ID = f.nextID
	note.VisitedAt = time.Now()
	copied := *note
	f.notes = append(f.notes, &copied)
	return nil
}

func (f *fakeVisitsRepo) ListVisitNotes(ctx context.Context, registrantID int64) ([]*domain.VisitNote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.VisitNote
	for i := len(f.notes) - 1; i >= 0; i-- {
		if f.notes[i].RegistrantID == registrantID {
			copied := *f.notes[i]
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeVisitsRepo) ListVisitReport(ctx context.Context) ([]*repository.VisitReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*repository.VisitReport, 0, len(f.notes))
	for i := len(f.notes) - 1; i >= 0; i-- {
		n := f.notes[i]
		out = append(out, &repository.VisitReport{
			ID:           n.ID,
			VisitedAt:    n.VisitedAt,
			Title:        n.Title,
			Summary:      n.Summary,
			Notes:        n.Notes,
			RegistrantID: n.RegistrantID,
		})
	}
	return out, nil
}

func (f *fakeVisitsRepo) CountVisitNotes(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.notes), nil
}

// fakeSessionStore is an in-memory session.Store.
type fakeSessionStore struct {
	mu         sync.Mutex
	tokens     map[string]string
	nextToken  int
	createErr  error
	resolveErr error
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{tokens: make(map[string]string)}
}

var _ session.Store = (*fakeSessionStore)(nil)

func (f *fakeSessionStore) Create(ctx context.Context, identityID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return "", f.createErr
	}
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
