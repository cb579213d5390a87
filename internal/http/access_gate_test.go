package httpapi_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tea-registry/internal/domain"
	httpapi "tea-registry/internal/http"
	"tea-registry/internal/service"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testCookie = "tea_session"

type gateEnv struct {
	gate     *httpapi.AccessGate
	sessions *fakeSessionStore
	staff    *fakeStaffRepo
}

func newGateEnv(t *testing.T) *gateEnv {
	t.Helper()
	sessions := newFakeSessionStore()
	staff := newFakeStaffRepo()
	auth := service.NewAuthService(newFakeIdentitiesRepo(), staff, sessions, zap.NewNop())
	gate := httpapi.NewAccessGate(auth, testCookie, time.Hour, false, zap.NewNop())
	return &gateEnv{gate: gate, sessions: sessions, staff: staff}
}

// openSession issues a session and optionally a staff row for it.
func (e *gateEnv) openSession(t *testing.T, role string) string {
	t.Helper()
	token, err := e.sessions.Create(context.Background(), "identity-1")
	require.NoError(t, err)
	if role != "" {
		require.NoError(t, e.staff.CreateStaff(context.Background(), &domain.StaffAccount{
			ID: "identity-1", Name: "João", Email: "joao@exemplo.org", Role: role, IsActive: true,
		}))
	}
	return token
}

func gatedRequest(gate *httpapi.AccessGate, next http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: testCookie, Value: token})
	}
	rec := httptest.NewRecorder()
	gate.Wrap(next).ServeHTTP(rec, req)
	return rec
}

func TestAccessGate_RedirectsAnonymousFromProtectedPaths(t *testing.T) {
	env := newGateEnv(t)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("protected handler reached without a session: %s", r.URL.Path)
	})

	for _, path := range []string{
		"/cadastros", "/dashboard", "/PessoaTEA", "/editar/3",
		"/admin/usuarios", "/relatorios/cadastros", "/consulta",
	} {
		rec := gatedRequest(env.gate, next, path, "")
		require.Equal(t, http.StatusFound, rec.Code, path)
		require.Equal(t, "/login", rec.Header().Get("Location"), path)
	}
}

func TestAccessGate_ForwardsAnonymousOnPublicPaths(t *testing.T) {
	env := newGateEnv(t)
	reached := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached++
		require.Nil(t, httpapi.CallerFrom(r.Context()))
	})

	for _, path := range []string{"/", "/login", "/auth/login"} {
		rec := gatedRequest(env.gate, next, path, "")
		require.Equal(t, http.StatusOK, rec.Code, path)
	}
	require.Equal(t, 3, reached)
}

func TestAccessGate_PrefixMatchesOnSegmentBoundary(t *testing.T) {
	env := newGateEnv(t)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	// Shares the "/consulta" prefix as a string but not as a path segment.
	rec := gatedRequest(env.gate, next, "/consultoria", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = gatedRequest(env.gate, next, "/consulta/pacientes", "")
	require.Equal(t, http.StatusFound, rec.Code)
}

func TestAccessGate_ForwardsAuthenticatedCaller(t *testing.T) {
	env := newGateEnv(t)
	token := env.openSession(t, domain.RoleAdmin)

	var caller *httpapi.Caller
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller = httpapi.CallerFrom(r.Context())
	})

	rec := gatedRequest(env.gate, next, "/dashboard", token)
	require.Equal(t, http.StatusOK, rec.Code)

	require.NotNil(t, caller)
	require.Equal(t, "identity-1", caller.IdentityID)
	require.NotNil(t, caller.Staff)
	require.True(t, caller.IsAdmin)
	require.Equal(t, "identity-1", caller.StaffID())
}

func TestAccessGate_RefreshesCookieOnEveryNavigation(t *testing.T) {
	env := newGateEnv(t)
	token := env.openSession(t, domain.RoleStandard)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	// Refresh happens on public paths too, independent of the gate decision.
	for _, path := range []string{"/dashboard", "/login"} {
		rec := gatedRequest(env.gate, next, path, token)
		require.Equal(t, http.StatusOK, rec.Code, path)

		var refreshed *http.Cookie
		for _, c := range rec.Result().Cookies() {
			if c.Name == testCookie {
				refreshed = c
			}
		}
		require.NotNil(t, refreshed, path)
		require.Equal(t, token, refreshed.Value)
		require.Equal(t, 3600, refreshed.MaxAge)
		require.True(t, refreshed.HttpOnly)
	}
}

func TestAccessGate_IdentityWithoutStaffRowStillNavigates(t *testing.T) {
	env := newGateEnv(t)
	token := env.openSession(t, "")

	var caller *httpapi.Caller
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller = httpapi.CallerFrom(r.Context())
	})

	rec := gatedRequest(env.gate, next, "/dashboard", token)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, caller)
	require.Nil(t, caller.Staff)
	require.False(t, caller.IsAdmin)
	require.Empty(t, caller.StaffID())
}

func TestAccessGate_FailsClosedWhenSessionStoreDown(t *testing.T) {
	env := newGateEnv(t)
	token := env.openSession(t, domain.RoleAdmin)
	env.sessions.resolveErr = errors.New("connection refused")

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("protected handler reached while session store is down")
	})

	rec := gatedRequest(env.gate, next, "/cadastros", token)
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestAccessGate_StaleTokenRedirects(t *testing.T) {
	env := newGateEnv(t)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	rec := gatedRequest(env.gate, next, "/dashboard", "token-expirado")
	require.Equal(t, http.StatusFound, rec.Code)
}
