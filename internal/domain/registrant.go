package domain

import "time"

// DocumentKind identifies one of the four registrant document slots. The
// values double as Object Store bucket names.
type DocumentKind string

const (
	DocPhoto          DocumentKind = "foto"
	DocPersonal       DocumentKind = "documento"
	DocGuardian       DocumentKind = "documento_responsaveis"
	DocClinicalReport DocumentKind = "laudo"
)

// DocumentKinds lists every slot in form order.
var DocumentKinds = []DocumentKind{DocPhoto, DocPersonal, DocGuardian, DocClinicalReport}

// Registrant is a tracked individual (cadastros table). Scalar fields mirror
// the registration form; the four document fields hold Object Store paths and
// are empty when no document was uploaded.
type Registrant struct {
	ID int64 `db:"id" json:"id"`

	Name           string `db:"nome" json:"nome"`
	BirthDate      string `db:"data_nascimento" json:"data_nascimento"`
	Guardians      string `db:"responsaveis" json:"responsaveis"`
	CPF            string `db:"cpf" json:"cpf"`
	Contacts       string `db:"contatos" json:"contatos"`
	Diagnosis      string `db:"diagnostico" json:"diagnostico"`
	CID            string `db:"cid" json:"cid"`
	Treatments     string `db:"tratamentos" json:"tratamentos"`
	Medications    string `db:"medicacoes" json:"medicacoes"`
	CareLocation   string `db:"local_atendimento" json:"local_atendimento"`
	FamilyIncome   string `db:"renda_bruta_familiar" json:"renda_bruta_familiar"`
	HouseholdSize  string `db:"pessoas_residencia" json:"pessoas_residencia"`
	HousingStatus  string `db:"casa_situacao" json:"casa_situacao"`
	ReceivesAid    string `db:"recebe_beneficio" json:"recebe_beneficio"`
	School         string `db:"instituicao_ensino" json:"instituicao_ensino"`
	SchoolAddress  string `db:"endereco_escola" json:"endereco_escola"`
	EducationLevel string `db:"nivel_escolaridade" json:"nivel_escolaridade"`
	SpecializedCare string `db:"acompanhamento_especializado" json:"acompanhamento_especializado"`
	Notes          string `db:"observacoes" json:"observacoes"`

	Photo          string `db:"foto" json:"foto,omitempty"`
	Document       string `db:"documento" json:"documento,omitempty"`
	GuardianDoc    string `db:"documento_responsaveis" json:"documento_responsaveis,omitempty"`
	ClinicalReport string `db:"laudo" json:"laudo,omitempty"`

	// Ownership is recorded, never enforced for reads: any authenticated
	// staff member may read/edit/delete any registrant.
	CreatedBy string     `db:"user_id" json:"user_id,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt *time.Time `db:"updated_at" json:"updated_at"`
}

// DocumentPath returns the stored object path for the given slot ("" when
// absent).
func (r *Registrant) DocumentPath(kind DocumentKind) string {
	switch kind {
	case DocPhoto:
		return r.Photo
	case DocPersonal:
		return r.Document
	case DocGuardian:
		return r.GuardianDoc
	case DocClinicalReport:
		return r.ClinicalReport
	}
	return ""
}

// SetDocumentPath stores an object path into the given slot.
func (r *Registrant) SetDocumentPath(kind DocumentKind, path string) {
	switch kind {
	case DocPhoto:
		r.Photo = path
	case DocPersonal:
		r.Document = path
	case DocGuardian:
		r.GuardianDoc = path
	case DocClinicalReport:
		r.ClinicalReport = path
	}
}
