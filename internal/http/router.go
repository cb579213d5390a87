package httpapi

import (
	"net/http"

	"go.uber.org/zap"
)

// Router wraps the standard library ServeMux (no third-party router needed
// for this surface).
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// RegisterAuthRoutes registers the login surface (never gated).
func (r *Router) RegisterAuthRoutes(h *AuthHandler) {
	r.Handle("/auth/login", h.ServeHTTP)
	r.Handle("/auth/logout", h.ServeHTTP)
	r.Handle("/auth/me", h.ServeHTTP)
}

// RegisterRegistrantRoutes registers the registration, editor and profile
// pages.
func (r *Router) RegisterRegistrantRoutes(h *RegistrantHandler) {
	r.Handle("/cadastros", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodGet:
			h.List(w, req)
		case http.MethodPost:
			h.Create(w, req)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
	r.Handle("/editar/", h.Editor)
	r.Handle("/PessoaTEA", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.Profiles(w, req)
	})
}

// RegisterVisitRoutes registers the consultation flow.
func (r *Router) RegisterVisitRoutes(h *VisitHandler) {
	r.Handle("/consulta", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodGet:
			h.ListForRegistrant(w, req)
		case http.MethodPost:
			h.Create(w, req)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
	r.Handle("/consulta/pacientes", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.Picker(w, req)
	})
}

// RegisterReportRoutes registers the reports pages and the dashboard.
func (r *Router) RegisterReportRoutes(h *ReportHandler) {
	r.Handle("/relatorios/cadastros", get(h.Registrations))
	r.Handle("/relatorios/consultas", get(h.Visits))
	r.Handle("/relatorios/export", get(h.Export))
	r.Handle("/dashboard", get(h.Dashboard))
}

// RegisterAdminRoutes registers staff management and provisioning.
func (r *Router) RegisterAdminRoutes(h *AdminUsersHandler) {
	r.Handle("/admin/usuarios", h.Manage)
	r.Handle("/admin/usuarios/", h.Manage)
	r.Handle("/api/admin/create-user", h.CreateUser)
}

// RegisterStorageRoutes registers signed object fetching.
func (r *Router) RegisterStorageRoutes(h *DocumentHandler) {
	r.Handle("/storage/", h.Fetch)
}

func get(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h(w, req)
	}
}
