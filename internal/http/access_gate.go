package httpapi

import (
	"net/http"
	"strings"
	"time"

	"tea-registry/internal/service"

	"go.uber.org/zap"
)

// protectedPrefixes is the static allow-list of gated paths, matching the
// registry's original route matcher. Everything else bypasses the gate's
// authorization decision (the session cookie is still refreshed when present).
var protectedPrefixes = []string{
	"/cadastros",
	"/dashboard",
	"/PessoaTEA",
	"/editar",
	"/admin/usuarios",
	"/relatorios",
	"/consulta",
}

// isProtected matches a prefix on a path-segment boundary, so /consultas-x
// does not accidentally fall under /consulta.
func isProtected(path string) bool {
	for _, p := range protectedPrefixes {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

// AccessGate intercepts every request: it resolves the caller's session
// against the Session Store (one round trip per navigation, never cached),
// refreshes the session cookie, and redirects unauthenticated requests to
// protected paths to the login surface before any protected content is
// produced. An unreachable Session Store counts as "no identity".
type AccessGate struct {
	auth          *service.AuthService
	cookieName    string
	cookieTTL     time.Duration
	secureCookies bool
	logger        *zap.Logger
}

func NewAccessGate(auth *service.AuthService, cookieName string, cookieTTL time.Duration,
	secureCookies bool, logger *zap.Logger) *AccessGate {
	return &AccessGate{
		auth:          auth,
		cookieName:    cookieName,
		cookieTTL:     cookieTTL,
		secureCookies: secureCookies,
		logger:        logger,
	}
}

// Wrap gates the next handler.
func (g *AccessGate) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		token := g.tokenFrom(r)
		identityID, ok := "", false
		if token != "" {
			identityID, ok = g.auth.ResolveSession(ctx, token)
		}

		if ok {
			// Cookie refresh happens regardless of the allow/deny outcome.
			g.SetSessionCookie(w, token)

			caller := &Caller{IdentityID: identityID}
			if staff := g.auth.CurrentStaff(ctx, identityID); staff != nil {
				caller.Staff = staff
				caller.IsAdmin = staff.IsAdmin()
			}
			next.ServeHTTP(w, r.WithContext(WithCaller(ctx, caller)))
			return
		}

		if isProtected(r.URL.Path) {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (g *AccessGate) tokenFrom(r *http.Request) string {
	cookie, err := r.Cookie(g.cookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// SetSessionCookie (re-)issues the session cookie with a full lifetime.
func (g *AccessGate) SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     g.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(g.cookieTTL / time.Second),
		HttpOnly: true,
		Secure:   g.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the cookie on logout.
func (g *AccessGate) ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     g.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   g.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}
