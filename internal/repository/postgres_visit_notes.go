package repository

import (
	"context"
	"database/sql"
	"fmt"

	"tea-registry/internal/domain"
)

// PostgresVisitNotesRepository implements VisitNotesRepository on the
// consultas table.
type PostgresVisitNotesRepository struct {
	db *sql.DB
}

func NewPostgresVisitNotesRepository(db *sql.DB) *PostgresVisitNotesRepository {
	return &PostgresVisitNotesRepository{db: db}
}

var _ VisitNotesRepository = (*PostgresVisitNotesRepository)(nil)

func (r *PostgresVisitNotesRepository) CreateVisitNote(ctx context.Context, note *domain.VisitNote) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO consultas (titulo, resumo, observacoes, paciente_id, operador_id)
		 VALUES ($1, $2, $3, $4, NULLIF($5, '')::uuid)
		 RETURNING id, data_consulta`,
		note.Title, note.Summary, note.Notes, note.RegistrantID, note.AuthorID,
	).Scan(&note.ID, &note.VisitedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to create visit note: %w", err)
	}
	return nil
}

func (r *PostgresVisitNotesRepository) ListVisitNotes(ctx context.Context, registrantID int64) ([]*domain.VisitNote, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, data_consulta,
			COALESCE(titulo, '') as titulo,
			COALESCE(resumo, '') as resumo,
			COALESCE(observacoes, '') as observacoes,
			paciente_id,
			COALESCE(operador_id::text, '') as operador_id
		 FROM consultas
		 WHERE paciente_id = $1
		 ORDER BY data_consulta DESC`,
		registrantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list visit notes: %w", err)
	}
	defer rows.Close()

	var list []*domain.VisitNote
	for rows.Next() {
		var note domain.VisitNote
		if err := rows.Scan(&note.ID, &note.VisitedAt, &note.Title, &note.Summary,
			&note.Notes, &note.RegistrantID, &note.AuthorID); err != nil {
			return nil, fmt.Errorf("failed to scan visit note: %w", err)
		}
		list = append(list, &note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate visit notes: %w", err)
	}
	return list, nil
}

func (r *PostgresVisitNotesRepository) ListVisitReport(ctx context.Context) ([]*VisitReport, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT
			v.id,
			v.data_consulta,
			COALESCE(v.titulo, '') as titulo,
			COALESCE(v.resumo, '') as resumo,
			COALESCE(v.observacoes, '') as observacoes,
			v.paciente_id,
			c.nome as paciente_nome,
			COALESCE(c.cpf, '') as paciente_cpf,
			COALESCE(u.nome, '') as operador_nome,
			COALESCE(u.email, '') as operador_email
		 FROM consultas v
		 JOIN cadastros c ON c.id = v.paciente_id
		 LEFT JOIN user_login u ON u.id = v.operador_id
		 ORDER BY v.data_consulta DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list visit report: %w", err)
	}
	defer rows.Close()

	var list []*VisitReport
	for rows.Next() {
		var rep VisitReport
		if err := rows.Scan(&rep.ID, &rep.VisitedAt, &rep.Title, &rep.Summary,
			&rep.Notes, &rep.RegistrantID, &rep.Registrant, &rep.RegistrantCPF,
			&rep.AuthorName, &rep.AuthorEmail); err != nil {
			return nil, fmt.Errorf("failed to scan visit report row: %w", err)
		}
		list = append(list, &rep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate visit report: %w", err)
	}
	return list, nil
}

func (r *PostgresVisitNotesRepository) CountVisitNotes(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM consultas`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count visit notes: %w", err)
	}
	return count, nil
}
