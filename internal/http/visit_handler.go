package httpapi

import (
	"net/http"

	"tea-registry/internal/service"

	"go.uber.org/zap"
)

// VisitHandler serves the consultation flow.
type VisitHandler struct {
	visits *service.VisitService
	logger *zap.Logger
}

func NewVisitHandler(visits *service.VisitService, logger *zap.Logger) *VisitHandler {
	return &VisitHandler{visits: visits, logger: logger}
}

// Picker serves GET /consulta/pacientes: the minimal list used to pick the
// consultation subject.
func (h *VisitHandler) Picker(w http.ResponseWriter, r *http.Request) {
	regs, err := h.visits.Picker(r.Context(), r.URL.Query().Get("busca"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	type pickerRow struct {
		ID        int64  `json:"id"`
		Name      string `json:"nome"`
		CPF       string `json:"cpf"`
		Guardians string `json:"responsaveis"`
	}
	rows := make([]pickerRow, 0, len(regs))
	for _, reg := range regs {
		rows = append(rows, pickerRow{ID: reg.ID, Name: reg.Name, CPF: reg.CPF, Guardians: reg.Guardians})
	}
	writeJSON(w, http.StatusOK, map[string]any{"pacientes": rows})
}

// Create serves POST /consulta. The author comes from the session.
func (h *VisitHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller := CallerFrom(r.Context())

	var req struct {
		RegistrantID int64  `json:"paciente_id"`
		Title        string `json:"titulo"`
		Summary      string `json:"resumo"`
		Notes        string `json:"observacoes"`
	}
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeError(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}

	note, err := h.visits.Create(r.Context(), req.RegistrantID, caller.StaffID(),
		req.Title, req.Summary, req.Notes)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"consulta": note})
}

// ListForRegistrant serves GET /consulta?paciente_id=N.
func (h *VisitHandler) ListForRegistrant(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r.URL.Query().Get("paciente_id"))
	if !ok {
		writeError(w, http.StatusBadRequest, "paciente_id inválido")
		return
	}
	notes, err := h.visits.ListForRegistrant(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"consultas": notes})
}
