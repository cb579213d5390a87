package domain

import "time"

// VisitNote is a clinical encounter record (consultas table). Notes are
// append-only: there is no edit or delete path once a note is written.
type VisitNote struct {
	ID           int64     `db:"id" json:"id"`
	VisitedAt    time.Time `db:"data_consulta" json:"data_consulta"`
	Title        string    `db:"titulo" json:"titulo"`
	Summary      string    `db:"resumo" json:"resumo"`
	Notes        string    `db:"observacoes" json:"observacoes"`
	RegistrantID int64     `db:"paciente_id" json:"paciente_id"`
	AuthorID     string    `db:"operador_id" json:"operador_id,omitempty"`
}
