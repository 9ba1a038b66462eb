package proxy

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/pucrs-ages/sarc-gateway/authenticate"
	"github.com/pucrs-ages/sarc-gateway/internal/httputil"
	"github.com/pucrs-ages/sarc-gateway/internal/sessions"
	"github.com/pucrs-ages/sarc-gateway/pkg/roles"
)

// A portalPage is a server-rendered page behind a role gate. An empty role
// set means any authenticated user may view it.
type portalPage struct {
	Path     string
	Title    string
	DataPath string
	Roles    []roles.Role
}

var portalPages = []portalPage{
	{Path: "/predios", Title: "Prédios", DataPath: "/predios", Roles: []roles.Role{roles.Admin, roles.Coordenador}},
	{Path: "/predios/{predioId}/salas", Title: "Salas", DataPath: "/salas", Roles: []roles.Role{roles.Admin, roles.Coordenador}},
	{Path: "/turmas", Title: "Turmas", DataPath: "/turmas", Roles: []roles.Role{roles.Professor, roles.Coordenador}},
	{Path: "/aulas", Title: "Aulas", DataPath: "/aulas", Roles: []roles.Role{roles.Professor}},
	{Path: "/reservas", Title: "Reservas", DataPath: "/reservas", Roles: []roles.Role{roles.Professor}},
	{Path: "/recursos", Title: "Recursos", DataPath: "/recursos", Roles: []roles.Role{roles.Admin, roles.Coordenador}},
	{Path: "/classes", Title: "Classes", DataPath: "/classes"},
}

// MountPages registers the portal page routes. The session and role checks
// run server-side on every request.
func (p *Proxy) MountPages(r *mux.Router) {
	r.Handle(authenticate.SignInPath, httputil.HandlerFunc(p.SignInPage)).Methods(http.MethodGet)
	r.Handle(authenticate.UnauthorizedPath, httputil.HandlerFunc(p.UnauthorizedPage)).Methods(http.MethodGet)
	r.Handle("/", authenticate.RequireRolesPage()(httputil.HandlerFunc(p.Dashboard))).Methods(http.MethodGet)

	for _, page := range portalPages {
		r.Handle(page.Path,
			authenticate.RequireRolesPage(page.Roles...)(httputil.HandlerFunc(p.portalPageHandler(page)))).
			Methods(http.MethodGet)
	}
}

// SignInPage renders the login form. Already signed-in visitors are sent to
// the dashboard.
func (p *Proxy) SignInPage(w http.ResponseWriter, r *http.Request) error {
	if _, err := sessions.FromContext(r.Context()); err == nil {
		httputil.Redirect(w, r, "/", http.StatusFound)
		return nil
	}
	return p.templates.ExecuteTemplate(w, "login.html", nil)
}

// UnauthorizedPage renders the forbidden page.
func (p *Proxy) UnauthorizedPage(w http.ResponseWriter, _ *http.Request) error {
	w.WriteHeader(http.StatusForbidden)
	return p.templates.ExecuteTemplate(w, "unauthorized.html", nil)
}

// Dashboard lists the pages the signed-in user may visit.
func (p *Proxy) Dashboard(w http.ResponseWriter, r *http.Request) error {
	state, err := sessions.FromContext(r.Context())
	if err != nil {
		return httputil.NewError(http.StatusUnauthorized, err)
	}

	type link struct{ Href, Label string }
	var links []link
	for _, page := range portalPages {
		if strings.Contains(page.Path, "{") {
			continue
		}
		if roles.Intersects(state.Roles(), page.Roles) {
			links = append(links, link{Href: page.Path, Label: page.Title})
		}
	}
	return p.templates.ExecuteTemplate(w, "dashboard.html", map[string]any{
		"User":  state.User(),
		"Links": links,
	})
}

func (p *Proxy) portalPageHandler(page portalPage) httputil.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) error {
		state, err := sessions.FromContext(r.Context())
		if err != nil {
			return httputil.NewError(http.StatusUnauthorized, err)
		}
		return p.templates.ExecuteTemplate(w, "page.html", map[string]any{
			"Title":    page.Title,
			"DataPath": page.DataPath,
			"User":     state.User(),
		})
	}
}
