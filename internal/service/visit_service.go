package service

import (
	"context"
	"strings"

	"tea-registry/internal/domain"
	"tea-registry/internal/repository"

	"go.uber.org/zap"
)

// VisitService records clinical encounters. Visit notes are append-only:
// there is deliberately no update or delete here.
type VisitService struct {
	visits      repository.VisitNotesRepository
	registrants repository.RegistrantsRepository
	logger      *zap.Logger
}

func NewVisitService(visits repository.VisitNotesRepository, registrants repository.RegistrantsRepository,
	logger *zap.Logger) *VisitService {
	return &VisitService{
		visits:      visits,
		registrants: registrants,
		logger:      logger,
	}
}

// Create writes a visit note for a registrant. The authoring staff account
// comes from the caller's session, never from the request body.
func (s *VisitService) Create(ctx context.Context, registrantID int64, authorID, title, summary, notes string) (*domain.VisitNote, error) {
	if registrantID <= 0 {
		return nil, &ErrValidation{Msg: "selecione um paciente para registrar a consulta"}
	}
	if strings.TrimSpace(title) == "" && strings.TrimSpace(summary) == "" && strings.TrimSpace(notes) == "" {
		return nil, &ErrValidation{Msg: "a consulta não pode estar vazia"}
	}

	note := &domain.VisitNote{
		Title:        strings.TrimSpace(title),
		Summary:      strings.TrimSpace(summary),
		Notes:        strings.TrimSpace(notes),
		RegistrantID: registrantID,
		AuthorID:     authorID,
	}
	if err := s.visits.CreateVisitNote(ctx, note); err != nil {
		return nil, err
	}
	s.logger.Info("visit note recorded",
		zap.Int64("visit_id", note.ID), zap.Int64("registrant_id", registrantID))
	return note, nil
}

// ListForRegistrant returns a registrant's notes, newest first.
func (s *VisitService) ListForRegistrant(ctx context.Context, registrantID int64) ([]*domain.VisitNote, error) {
	return s.visits.ListVisitNotes(ctx, registrantID)
}

// Picker returns the minimal registrant list used to choose the consultation
// subject.
func (s *VisitService) Picker(ctx context.Context, search string) ([]*domain.Registrant, error) {
	return s.registrants.ListRegistrants(ctx, repository.RegistrantFilters{Search: search})
}
