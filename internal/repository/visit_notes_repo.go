package repository

import (
	"context"
	"time"

	"tea-registry/internal/domain"
)

// VisitReport is one row of the consultation report: the note joined with its
// registrant and authoring staff account.
type VisitReport struct {
	ID            int64     `json:"id"`
	VisitedAt     time.Time `json:"data_consulta"`
	Title         string    `json:"titulo"`
	Summary       string    `json:"resumo"`
	Notes         string    `json:"observacoes"`
	RegistrantID  int64     `json:"paciente_id"`
	Registrant    string    `json:"paciente_nome"`
	RegistrantCPF string    `json:"paciente_cpf,omitempty"`
	AuthorName    string    `json:"operador_nome,omitempty"`
	AuthorEmail   string    `json:"operador_email,omitempty"`
}

// VisitNotesRepository manages VisitNote rows (consultas table). Notes are
// append-only: the interface deliberately has no update or delete.
type VisitNotesRepository interface {
	// CreateVisitNote inserts a note and fills in the generated id and
	// timestamp. A missing registrant surfaces as ErrNotFound.
	CreateVisitNote(ctx context.Context, note *domain.VisitNote) error

	// ListVisitNotes returns the notes for one registrant, newest first.
	ListVisitNotes(ctx context.Context, registrantID int64) ([]*domain.VisitNote, error)

	// ListVisitReport joins every note with registrant and author, newest
	// first.
	ListVisitReport(ctx context.Context) ([]*VisitReport, error)

	// CountVisitNotes is used by the dashboard.
	CountVisitNotes(ctx context.Context) (int, error)
}
