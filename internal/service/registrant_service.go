package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"tea-registry/internal/domain"
	"tea-registry/internal/repository"
	"tea-registry/internal/storage"

	"go.uber.org/zap"
)

// ErrRegistrantHasVisits maps the Record Store's RESTRICT policy: a
// registrant with visit notes cannot be deleted.
var ErrRegistrantHasVisits = errors.New("registrant has visit notes and cannot be deleted")

// DocumentUpload is one incoming file for a document slot.
type DocumentUpload struct {
	Kind        domain.DocumentKind
	Filename    string
	ContentType string
	Content     io.Reader
}

// RegistrantProfile is a registrant with its documents resolved to signed
// URLs. A nil URL means the document is absent or could not be resolved; the
// profile still renders either way.
type RegistrantProfile struct {
	*domain.Registrant
	PhotoURL          *string `json:"fotoUrl"`
	DocumentURL       *string `json:"documentoUrl"`
	GuardianDocURL    *string `json:"documentoResponsaveisUrl"`
	ClinicalReportURL *string `json:"laudoUrl"`
}

// RegistrantService implements the registrant CRUD flows, including the
// coupling between record writes and Object Store uploads.
type RegistrantService struct {
	registrants repository.RegistrantsRepository
	objects     storage.ObjectStore
	signer      *storage.URLSigner
	logger      *zap.Logger
}

func NewRegistrantService(registrants repository.RegistrantsRepository, objects storage.ObjectStore,
	signer *storage.URLSigner, logger *zap.Logger) *RegistrantService {
	return &RegistrantService{
		registrants: registrants,
		objects:     objects,
		signer:      signer,
		logger:      logger,
	}
}

// Create stores the uploaded documents, then inserts the record. Uploads are
// validated (bucket MIME allow-list) before anything is written. If the
// record insert fails the just-stored objects are removed again, so a failed
// create leaves no orphans behind.
func (s *RegistrantService) Create(ctx context.Context, reg *domain.Registrant, uploads []DocumentUpload) error {
	if strings.TrimSpace(reg.Name) == "" {
		return &ErrValidation{Msg: "nome é obrigatório"}
	}
	for _, up := range uploads {
		if !storage.AllowedMIME(up.Kind, up.ContentType) {
			return &ErrValidation{Msg: fmt.Sprintf("tipo de arquivo inválido para %s", up.Kind)}
		}
	}

	stored, err := s.storeUploads(reg.CreatedBy, uploads)
	if err != nil {
		return err
	}
	for kind, path := range stored {
		reg.SetDocumentPath(kind, path)
	}

	if err := s.registrants.CreateRegistrant(ctx, reg); err != nil {
		s.removeObjects(stored)
		return err
	}
	return nil
}

// Update overwrites every field of the record (last write wins — the registry
// has no conflict detection) and optionally replaces documents. Replaced
// objects are deleted only after the record write succeeds; if the write
// fails, the new uploads are removed and the old objects stay authoritative.
func (s *RegistrantService) Update(ctx context.Context, reg *domain.Registrant, uploads []DocumentUpload) error {
	if strings.TrimSpace(reg.Name) == "" {
		return &ErrValidation{Msg: "nome é obrigatório"}
	}
	for _, up := range uploads {
		if !storage.AllowedMIME(up.Kind, up.ContentType) {
			return &ErrValidation{Msg: fmt.Sprintf("tipo de arquivo inválido para %s", up.Kind)}
		}
	}

	current, err := s.registrants.GetRegistrant(ctx, reg.ID)
	if err != nil {
		return err
	}

	// Carry forward existing document paths, then overlay the new uploads.
	for _, kind := range domain.DocumentKinds {
		reg.SetDocumentPath(kind, current.DocumentPath(kind))
	}
	stored, err := s.storeUploads(current.CreatedBy, uploads)
	if err != nil {
		return err
	}
	replaced := map[domain.DocumentKind]string{}
	for kind, path := range stored {
		if old := current.DocumentPath(kind); old != "" {
			replaced[kind] = old
		}
		reg.SetDocumentPath(kind, path)
	}

	if err := s.registrants.UpdateRegistrant(ctx, reg); err != nil {
		s.removeObjects(stored)
		return err
	}
	s.removeObjects(replaced)
	return nil
}

// Delete removes the record and then its stored documents. A registrant with
// visit notes is refused (RESTRICT); its objects are untouched.
func (s *RegistrantService) Delete(ctx context.Context, id int64) error {
	reg, err := s.registrants.GetRegistrant(ctx, id)
	if err != nil {
		return err
	}
	if err := s.registrants.DeleteRegistrant(ctx, id); err != nil {
		if errors.Is(err, repository.ErrHasVisitNotes) {
			return ErrRegistrantHasVisits
		}
		return err
	}
	for _, kind := range domain.DocumentKinds {
		if path := reg.DocumentPath(kind); path != "" {
			if err := s.objects.Remove(kind, path); err != nil {
				s.logger.Warn("failed to remove document of deleted registrant",
					zap.String("bucket", string(kind)), zap.String("path", path), zap.Error(err))
			}
		}
	}
	return nil
}

// Get returns one registrant.
func (s *RegistrantService) Get(ctx context.Context, id int64) (*domain.Registrant, error) {
	return s.registrants.GetRegistrant(ctx, id)
}

// List returns registrants ordered by name, optionally filtered.
func (s *RegistrantService) List(ctx context.Context, filters repository.RegistrantFilters) ([]*domain.Registrant, error) {
	return s.registrants.ListRegistrants(ctx, filters)
}

// Profiles returns the registrant list with signed document URLs resolved
// server-side, once per document. Resolution never fails the listing: an
// absent document simply yields a nil URL.
func (s *RegistrantService) Profiles(ctx context.Context, filters repository.RegistrantFilters) ([]*RegistrantProfile, error) {
	regs, err := s.registrants.ListRegistrants(ctx, filters)
	if err != nil {
		return nil, err
	}
	profiles := make([]*RegistrantProfile, 0, len(regs))
	for _, reg := range regs {
		p := &RegistrantProfile{Registrant: reg}
		p.PhotoURL = s.signedURL(domain.DocPhoto, reg.Photo)
		p.DocumentURL = s.signedURL(domain.DocPersonal, reg.Document)
		p.GuardianDocURL = s.signedURL(domain.DocGuardian, reg.GuardianDoc)
		p.ClinicalReportURL = s.signedURL(domain.DocClinicalReport, reg.ClinicalReport)
		profiles = append(profiles, p)
	}
	return profiles, nil
}

func (s *RegistrantService) signedURL(kind domain.DocumentKind, path string) *string {
	if path == "" {
		return nil
	}
	u := s.signer.SignedURL(kind, path)
	return &u
}

func (s *RegistrantService) storeUploads(ownerID string, uploads []DocumentUpload) (map[domain.DocumentKind]string, error) {
	stored := map[domain.DocumentKind]string{}
	for _, up := range uploads {
		path, err := s.objects.Save(up.Kind, ownerID, up.Filename, up.ContentType, up.Content)
		if err != nil {
			s.removeObjects(stored)
			if errors.Is(err, storage.ErrInvalidMIME) {
				return nil, &ErrValidation{Msg: fmt.Sprintf("tipo de arquivo inválido para %s", up.Kind)}
			}
			return nil, fmt.Errorf("failed to store %s: %w", up.Kind, err)
		}
		stored[up.Kind] = path
	}
	return stored, nil
}

func (s *RegistrantService) removeObjects(paths map[domain.DocumentKind]string) {
	for kind, path := range paths {
		if err := s.objects.Remove(kind, path); err != nil {
			s.logger.Warn("failed to remove object",
				zap.String("bucket", string(kind)), zap.String("path", path), zap.Error(err))
		}
	}
}
