package httpapi

import (
	"net/http"

	"tea-registry/internal/service"

	"go.uber.org/zap"
)

// AuthHandler serves the login surface endpoints.
type AuthHandler struct {
	auth   *service.AuthService
	gate   *AccessGate
	logger *zap.Logger
}

func NewAuthHandler(auth *service.AuthService, gate *AccessGate, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, gate: gate, logger: logger}
}

func (h *AuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/auth/login":
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.Login(w, r)
	case "/auth/logout":
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.Logout(w, r)
	case "/auth/me":
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.Me(w, r)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

// Login exchanges email/password for a session cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"senha"`
	}
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeError(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}

	staff, token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	h.gate.SetSessionCookie(w, token)
	writeJSON(w, http.StatusOK, map[string]any{"user": staff})
}

// Logout ends the caller's session and clears the cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(h.gate.cookieName); err == nil {
		if err := h.auth.Logout(r.Context(), cookie.Value); err != nil {
			h.logger.Warn("failed to destroy session", zap.Error(err))
		}
	}
	h.gate.ClearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// Me reports the resolved caller, including the privilege the navigation
// uses to show or hide the admin links.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	caller := CallerFrom(r.Context())
	if caller == nil {
		writeError(w, http.StatusUnauthorized, "sessão expirada, faça login novamente")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user":     caller.Staff,
		"is_admin": caller.IsAdmin,
	})
}
