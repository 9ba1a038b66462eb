package proxy

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pucrs-ages/sarc-gateway/internal/httputil"
)

func newPagesMux(t *testing.T) http.Handler {
	t.Helper()
	p := newTestProxy(t, "http://localhost:8081")
	r := httputil.NewRouter()
	p.MountPages(r)
	return r
}

func TestProxy_PortalGates(t *testing.T) {
	t.Parallel()
	mux := newPagesMux(t)

	tests := []struct {
		name         string
		path         string
		roles        []string
		authed       bool
		wantStatus   int
		wantLocation string
	}{
		{"predios as admin", "/predios", []string{"ADMIN"}, true, http.StatusOK, ""},
		{"predios as coordenador", "/predios", []string{"COORDENADOR"}, true, http.StatusOK, ""},
		{"predios as aluno", "/predios", []string{"ALUNO"}, true, http.StatusFound, "/unauthorized"},
		{"predios anonymous", "/predios", nil, false, http.StatusFound, "/login"},
		{"salas as admin", "/predios/1/salas", []string{"ADMIN"}, true, http.StatusOK, ""},
		{"turmas as professor", "/turmas", []string{"PROFESSOR"}, true, http.StatusOK, ""},
		{"turmas as admin", "/turmas", []string{"ADMIN"}, true, http.StatusFound, "/unauthorized"},
		{"aulas as professor", "/aulas", []string{"PROFESSOR"}, true, http.StatusOK, ""},
		{"reservas as coordenador", "/reservas", []string{"COORDENADOR"}, true, http.StatusFound, "/unauthorized"},
		{"classes any role", "/classes", []string{"ALUNO"}, true, http.StatusOK, ""},
		{"classes only unknown roles", "/classes", []string{"VISITOR"}, true, http.StatusOK, ""},
		{"dashboard anonymous", "/", nil, false, http.StatusFound, "/login"},
		{"dashboard authed", "/", []string{"ALUNO"}, true, http.StatusOK, ""},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.authed {
				r = withSession(r, tc.roles...)
			} else {
				r = withoutSession(r)
			}
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, r)

			assert.Equal(t, tc.wantStatus, w.Code)
			assert.Equal(t, tc.wantLocation, w.Header().Get("Location"))
		})
	}
}

func TestProxy_Dashboard(t *testing.T) {
	t.Parallel()
	mux := newPagesMux(t)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, withSession(r, "PROFESSOR"))

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `href="/turmas"`)
	assert.Contains(t, body, `href="/aulas"`)
	assert.Contains(t, body, `href="/reservas"`)
	assert.Contains(t, body, `href="/classes"`)
	assert.NotContains(t, body, `href="/predios"`)
	assert.NotContains(t, body, `href="/recursos"`)
}

func TestProxy_SignInPage(t *testing.T) {
	t.Parallel()
	mux := newPagesMux(t)

	t.Run("anonymous sees the form", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/login", nil)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, withoutSession(r))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "form")
	})

	t.Run("signed-in visitor sent to dashboard", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/login", nil)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, withSession(r, "ALUNO"))

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))
	})
}

func TestProxy_UnauthorizedPage(t *testing.T) {
	t.Parallel()
	mux := newPagesMux(t)

	r := httptest.NewRequest(http.MethodGet, "/unauthorized", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, withoutSession(r))

	assert.Equal(t, http.StatusForbidden, w.Code)
}
