package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"tea-registry/internal/repository"
	"tea-registry/internal/service"

	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError emits the {error: message} shape every page consumes.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func readBodyJSON(r *http.Request, maxBytes int64, out any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBytes))
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func parseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// writeServiceError maps service/repository errors to responses. Validation
// messages pass through; backend detail is logged, never exposed.
func writeServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var verr *service.ErrValidation
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Msg)
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "registro não encontrado")
	case errors.Is(err, service.ErrRegistrantHasVisits):
		writeError(w, http.StatusConflict, "cadastro possui consultas registradas e não pode ser excluído")
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "email ou senha inválidos")
	case errors.Is(err, service.ErrInactiveAccount):
		writeError(w, http.StatusUnauthorized, "conta desativada")
	default:
		logger.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "erro inesperado, tente novamente")
	}
}
