package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"tea-registry/internal/domain"
)

// PostgresRegistrantsRepository implements RegistrantsRepository on the
// cadastros table.
type PostgresRegistrantsRepository struct {
	db *sql.DB
}

func NewPostgresRegistrantsRepository(db *sql.DB) *PostgresRegistrantsRepository {
	return &PostgresRegistrantsRepository{db: db}
}

var _ RegistrantsRepository = (*PostgresRegistrantsRepository)(nil)

// Document paths and user_id are nullable in the table; COALESCE keeps the
// scan targets plain strings ("" = absent).
const registrantColumns = `
	id,
	nome,
	COALESCE(data_nascimento, '') as data_nascimento,
	COALESCE(responsaveis, '') as responsaveis,
	COALESCE(cpf, '') as cpf,
	COALESCE(contatos, '') as contatos,
	COALESCE(diagnostico, '') as diagnostico,
	COALESCE(cid, '') as cid,
	COALESCE(tratamentos, '') as tratamentos,
	COALESCE(medicacoes, '') as medicacoes,
	COALESCE(local_atendimento, '') as local_atendimento,
	COALESCE(renda_bruta_familiar, '') as renda_bruta_familiar,
	COALESCE(pessoas_residencia, '') as pessoas_residencia,
	COALESCE(casa_situacao, '') as casa_situacao,
	COALESCE(recebe_beneficio, '') as recebe_beneficio,
	COALESCE(instituicao_ensino, '') as instituicao_ensino,
	COALESCE(endereco_escola, '') as endereco_escola,
	COALESCE(nivel_escolaridade, '') as nivel_escolaridade,
	COALESCE(acompanhamento_especializado, '') as acompanhamento_especializado,
	COALESCE(observacoes, '') as observacoes,
	COALESCE(foto, '') as foto,
	COALESCE(documento, '') as documento,
	COALESCE(documento_responsaveis, '') as documento_responsaveis,
	COALESCE(laudo, '') as laudo,
	COALESCE(user_id::text, '') as user_id,
	created_at,
	updated_at`

func scanRegistrant(row interface{ Scan(...any) error }) (*domain.Registrant, error) {
	var reg domain.Registrant
	var updatedAt sql.NullTime
	err := row.Scan(
		&reg.ID,
		&reg.Name,
		&reg.BirthDate,
		&reg.Guardians,
		&reg.CPF,
		&reg.Contacts,
		&reg.Diagnosis,
		&reg.CID,
		&reg.Treatments,
		&reg.Medications,
		&reg.CareLocation,
		&reg.FamilyIncome,
		&reg.HouseholdSize,
		&reg.HousingStatus,
		&reg.ReceivesAid,
		&reg.School,
		&reg.SchoolAddress,
		&reg.EducationLevel,
		&reg.SpecializedCare,
		&reg.Notes,
		&reg.Photo,
		&reg.Document,
		&reg.GuardianDoc,
		&reg.ClinicalReport,
		&reg.CreatedBy,
		&reg.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}
	if updatedAt.Valid {
		reg.UpdatedAt = &updatedAt.Time
	}
	return &reg, nil
}

func (r *PostgresRegistrantsRepository) GetRegistrant(ctx context.Context, id int64) (*domain.Registrant, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+registrantColumns+` FROM cadastros WHERE id = $1`, id)
	reg, err := scanRegistrant(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get registrant: %w", err)
	}
	return reg, nil
}

func (r *PostgresRegistrantsRepository) ListRegistrants(ctx context.Context, filters RegistrantFilters) ([]*domain.Registrant, error) {
	query := `SELECT ` + registrantColumns + ` FROM cadastros`
	var args []any
	appendRegistrantFilters(&query, &args, filters, "cadastros")
	query += ` ORDER BY nome ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrants: %w", err)
	}
	defer rows.Close()

	var list []*domain.Registrant
	for rows.Next() {
		reg, err := scanRegistrant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan registrant: %w", err)
		}
		list = append(list, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate registrants: %w", err)
	}
	return list, nil
}

func (r *PostgresRegistrantsRepository) CreateRegistrant(ctx context.Context, reg *domain.Registrant) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO cadastros (
			nome, data_nascimento, responsaveis, cpf, contatos,
			diagnostico, cid, tratamentos, medicacoes, local_atendimento,
			renda_bruta_familiar, pessoas_residencia, casa_situacao, recebe_beneficio,
			instituicao_ensino, endereco_escola, nivel_escolaridade,
			acompanhamento_especializado, observacoes,
			foto, documento, documento_responsaveis, laudo,
			user_id
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19,
			NULLIF($20, ''), NULLIF($21, ''), NULLIF($22, ''), NULLIF($23, ''),
			NULLIF($24, '')::uuid
		) RETURNING id, created_at`,
		reg.Name, reg.BirthDate, reg.Guardians, reg.CPF, reg.Contacts,
		reg.Diagnosis, reg.CID, reg.Treatments, reg.Medications, reg.CareLocation,
		reg.FamilyIncome, reg.HouseholdSize, reg.HousingStatus, reg.ReceivesAid,
		reg.School, reg.SchoolAddress, reg.EducationLevel,
		reg.SpecializedCare, reg.Notes,
		reg.Photo, reg.Document, reg.GuardianDoc, reg.ClinicalReport,
		reg.CreatedBy,
	).Scan(&reg.ID, &reg.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create registrant: %w", err)
	}
	return nil
}

func (r *PostgresRegistrantsRepository) UpdateRegistrant(ctx context.Context, reg *domain.Registrant) error {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`UPDATE cadastros SET
			nome = $2, data_nascimento = $3, responsaveis = $4, cpf = $5, contatos = $6,
			diagnostico = $7, cid = $8, tratamentos = $9, medicacoes = $10, local_atendimento = $11,
			renda_bruta_familiar = $12, pessoas_residencia = $13, casa_situacao = $14, recebe_beneficio = $15,
			instituicao_ensino = $16, endereco_escola = $17, nivel_escolaridade = $18,
			acompanhamento_especializado = $19, observacoes = $20,
			foto = NULLIF($21, ''), documento = NULLIF($22, ''),
			documento_responsaveis = NULLIF($23, ''), laudo = NULLIF($24, ''),
			updated_at = $25
		 WHERE id = $1`,
		reg.ID,
		reg.Name, reg.BirthDate, reg.Guardians, reg.CPF, reg.Contacts,
		reg.Diagnosis, reg.CID, reg.Treatments, reg.Medications, reg.CareLocation,
		reg.FamilyIncome, reg.HouseholdSize, reg.HousingStatus, reg.ReceivesAid,
		reg.School, reg.SchoolAddress, reg.EducationLevel,
		reg.SpecializedCare, reg.Notes,
		reg.Photo, reg.Document, reg.GuardianDoc, reg.ClinicalReport,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to update registrant: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	reg.UpdatedAt = &now
	return nil
}

func (r *PostgresRegistrantsRepository) DeleteRegistrant(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cadastros WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrHasVisitNotes
		}
		return fmt.Errorf("failed to delete registrant: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRegistrantsRepository) ListRegistrantReport(ctx context.Context, filters RegistrantFilters) ([]*RegistrantReport, error) {
	query := `
		SELECT
			c.id,
			c.nome,
			c.created_at,
			c.updated_at,
			COALESCE(c.user_id::text, '') as user_id,
			COALESCE(u.nome, '') as created_by_name,
			COALESCE(u.email, '') as created_by_email
		FROM cadastros c
		LEFT JOIN user_login u ON u.id = c.user_id`
	var args []any
	appendRegistrantFilters(&query, &args, filters, "c")
	query += ` ORDER BY c.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrant report: %w", err)
	}
	defer rows.Close()

	var list []*RegistrantReport
	for rows.Next() {
		var rep RegistrantReport
		var updatedAt sql.NullTime
		if err := rows.Scan(&rep.ID, &rep.Name, &rep.CreatedAt, &updatedAt,
			&rep.CreatedBy, &rep.CreatedByName, &rep.CreatedByEmail); err != nil {
			return nil, fmt.Errorf("failed to scan registrant report row: %w", err)
		}
		if updatedAt.Valid {
			rep.UpdatedAt = &updatedAt.Time
		}
		list = append(list, &rep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate registrant report: %w", err)
	}
	return list, nil
}

func (r *PostgresRegistrantsRepository) CountRegistrants(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cadastros`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count registrants: %w", err)
	}
	return count, nil
}

// appendRegistrantFilters appends WHERE conditions for the shared filter set.
func appendRegistrantFilters(query *string, args *[]any, filters RegistrantFilters, alias string) {
	var conds []string
	if s := strings.TrimSpace(filters.Search); s != "" {
		*args = append(*args, "%"+s+"%")
		idx := len(*args)
		conds = append(conds, fmt.Sprintf(
			`(%[1]s.nome ILIKE $%[2]d OR %[1]s.cpf ILIKE $%[2]d OR %[1]s.responsaveis ILIKE $%[2]d)`,
			alias, idx))
	}
	if filters.From != nil {
		*args = append(*args, *filters.From)
		conds = append(conds, fmt.Sprintf(`%s.created_at >= $%d`, alias, len(*args)))
	}
	if filters.To != nil {
		*args = append(*args, *filters.To)
		conds = append(conds, fmt.Sprintf(`%s.created_at <= $%d`, alias, len(*args)))
	}
	if len(conds) > 0 {
		*query += ` WHERE ` + strings.Join(conds, ` AND `)
	}
}
