package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"tea-registry/internal/service"

	"go.uber.org/zap"
)

// AdminUsersHandler serves staff-account management and the provisioning
// endpoint. Every operation re-verifies the caller's privilege at the point
// of execution; hiding the admin navigation is never the protection.
type AdminUsersHandler struct {
	auth   *service.AuthService
	staff  *service.StaffService
	logger *zap.Logger
}

func NewAdminUsersHandler(auth *service.AuthService, staff *service.StaffService, logger *zap.Logger) *AdminUsersHandler {
	return &AdminUsersHandler{auth: auth, staff: staff, logger: logger}
}

// requireAdmin re-resolves the caller's privilege. Non-admin callers get a
// blocking message (the admin view still mounts client-side), not a redirect.
func (h *AdminUsersHandler) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	caller := CallerFrom(r.Context())
	if caller == nil {
		writeError(w, http.StatusUnauthorized, "sessão expirada, faça login novamente")
		return false
	}
	if !h.auth.IsAdmin(r.Context(), caller.IdentityID) {
		writeError(w, http.StatusForbidden, "acesso restrito a administradores")
		return false
	}
	return true
}

// Manage serves /admin/usuarios and /admin/usuarios/{id}.
func (h *AdminUsersHandler) Manage(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/admin/usuarios")
	rest = strings.TrimPrefix(rest, "/")

	if rest == "" {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		list, err := h.staff.ListStaff(r.Context())
		if err != nil {
			writeServiceError(w, h.logger, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"usuarios": list})
		return
	}

	switch r.Method {
	case http.MethodPut:
		var req struct {
			Name     string `json:"nome"`
			Role     string `json:"role"`
			IsActive bool   `json:"is_active"`
		}
		if err := readBodyJSON(r, 1<<20, &req); err != nil {
			writeError(w, http.StatusBadRequest, "corpo da requisição inválido")
			return
		}
		staff, err := h.staff.UpdateStaff(r.Context(), rest, req.Name, req.Role, req.IsActive)
		if err != nil {
			writeServiceError(w, h.logger, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"user": staff})

	case http.MethodDelete:
		if err := h.staff.DeleteStaff(r.Context(), rest); err != nil {
			writeServiceError(w, h.logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// CreateUser serves POST /api/admin/create-user: the two-step provisioning
// operation. This endpoint alone propagates the backend's raw error message,
// which the admin screen displays verbatim.
func (h *AdminUsersHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !h.requireAdmin(w, r) {
		return
	}

	var req service.ProvisionRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeError(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}

	staff, err := h.staff.ProvisionUser(r.Context(), req)
	if err != nil {
		var verr *service.ErrValidation
		if errors.As(err, &verr) {
			writeError(w, http.StatusBadRequest, verr.Msg)
			return
		}
		// Creation failures propagate the raw store message on this endpoint.
		h.logger.Error("provisioning failed", zap.Error(err))
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"user": staff})
}
