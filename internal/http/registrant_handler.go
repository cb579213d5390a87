package httpapi

import (
	"mime/multipart"
	"net/http"
	"strings"

	"tea-registry/internal/domain"
	"tea-registry/internal/repository"
	"tea-registry/internal/service"

	"go.uber.org/zap"
)

const maxUploadBytes = 32 << 20

// RegistrantHandler serves the registration form, the editor and the profile
// listing.
type RegistrantHandler struct {
	registrants *service.RegistrantService
	logger      *zap.Logger
}

func NewRegistrantHandler(registrants *service.RegistrantService, logger *zap.Logger) *RegistrantHandler {
	return &RegistrantHandler{registrants: registrants, logger: logger}
}

// List serves GET /cadastros.
func (h *RegistrantHandler) List(w http.ResponseWriter, r *http.Request) {
	filters := repository.RegistrantFilters{Search: r.URL.Query().Get("busca")}
	regs, err := h.registrants.List(r.Context(), filters)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cadastros": regs})
}

// Create serves POST /cadastros (multipart: form fields + up to four files).
func (h *RegistrantHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller := CallerFrom(r.Context())
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "formulário inválido")
		return
	}

	reg := registrantFromForm(r)
	reg.CreatedBy = caller.StaffID()

	uploads, closeFiles, err := uploadsFromForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "arquivo inválido")
		return
	}
	defer closeFiles()

	if err := h.registrants.Create(r.Context(), reg, uploads); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"cadastro": reg})
}

// Editor serves /editar/{id}: GET detail, PUT overwrite, DELETE removal.
func (h *RegistrantHandler) Editor(w http.ResponseWriter, r *http.Request) {
	idStr := strings.TrimPrefix(r.URL.Path, "/editar/")
	id, ok := parseID(idStr)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		reg, err := h.registrants.Get(r.Context(), id)
		if err != nil {
			writeServiceError(w, h.logger, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"cadastro": reg})

	case http.MethodPut:
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			writeError(w, http.StatusBadRequest, "formulário inválido")
			return
		}
		reg := registrantFromForm(r)
		reg.ID = id

		uploads, closeFiles, err := uploadsFromForm(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "arquivo inválido")
			return
		}
		defer closeFiles()

		if err := h.registrants.Update(r.Context(), reg, uploads); err != nil {
			writeServiceError(w, h.logger, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"cadastro": reg})

	case http.MethodDelete:
		if err := h.registrants.Delete(r.Context(), id); err != nil {
			writeServiceError(w, h.logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// Profiles serves GET /PessoaTEA: the registrant list with signed document
// URLs resolved. Records without documents render with the URLs null.
func (h *RegistrantHandler) Profiles(w http.ResponseWriter, r *http.Request) {
	filters := repository.RegistrantFilters{Search: r.URL.Query().Get("busca")}
	profiles, err := h.registrants.Profiles(r.Context(), filters)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"pessoas": profiles})
}

func registrantFromForm(r *http.Request) *domain.Registrant {
	v := r.FormValue
	return &domain.Registrant{
		Name:            v("nome"),
		BirthDate:       v("data_nascimento"),
		Guardians:       v("responsaveis"),
		CPF:             v("cpf"),
		Contacts:        v("contatos"),
		Diagnosis:       v("diagnostico"),
		CID:             v("cid"),
		Treatments:      v("tratamentos"),
		Medications:     v("medicacoes"),
		CareLocation:    v("local_atendimento"),
		FamilyIncome:    v("renda_bruta_familiar"),
		HouseholdSize:   v("pessoas_residencia"),
		HousingStatus:   v("casa_situacao"),
		ReceivesAid:     v("recebe_beneficio"),
		School:          v("instituicao_ensino"),
		SchoolAddress:   v("endereco_escola"),
		EducationLevel:  v("nivel_escolaridade"),
		SpecializedCare: v("acompanhamento_especializado"),
		Notes:           v("observacoes"),
	}
}

// uploadsFromForm pulls the four optional document files out of the parsed
// multipart form. The caller closes the files after the service consumed
// them.
func uploadsFromForm(r *http.Request) ([]service.DocumentUpload, func(), error) {
	var uploads []service.DocumentUpload
	var files []multipart.File
	closeAll := func() {
		for _, f := range files {
			_ = f.Close()
		}
	}

	for _, kind := range domain.DocumentKinds {
		file, header, err := r.FormFile(string(kind))
		if err == http.ErrMissingFile {
			continue
		}
		if err != nil {
			closeAll()
			return nil, func() {}, err
		}
		files = append(files, file)
		uploads = append(uploads, service.DocumentUpload{
			Kind:        kind,
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Content:     file,
		})
	}
	return uploads, closeAll, nil
}
