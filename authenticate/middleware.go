package authenticate

import (
	"errors"
	"net/http"

	"github.com/pucrs-ages/sarc-gateway/internal/httputil"
	"github.com/pucrs-ages/sarc-gateway/internal/log"
	"github.com/pucrs-ages/sarc-gateway/internal/sessions"
	"github.com/pucrs-ages/sarc-gateway/pkg/roles"
)

// Paths unauthenticated and unauthorized page visitors are sent to.
const (
	SignInPath       = "/login"
	UnauthorizedPath = "/unauthorized"
)

// RequireRolesAPI denies API requests whose session is absent, invalid, or
// lacks every required role. An empty requirement means any authenticated
// session is sufficient. The check runs fresh on every request.
func RequireRolesAPI(want ...roles.Role) func(http.Handler) http.Handler {
	return requireRoles(want, func(w http.ResponseWriter, r *http.Request, err error) {
		httputil.ErrorFor(err).ErrorResponse(w, r)
	})
}

// RequireRolesPage is the page-route variant: unauthenticated visitors are
// redirected to the login page, unauthorized ones to the forbidden page.
func RequireRolesPage(want ...roles.Role) func(http.Handler) http.Handler {
	return requireRoles(want, func(w http.ResponseWriter, r *http.Request, err error) {
		var httpErr *httputil.HTTPError
		if errors.As(err, &httpErr) && httpErr.Status == http.StatusForbidden {
			httputil.Redirect(w, r, UnauthorizedPath, http.StatusFound)
			return
		}
		httputil.Redirect(w, r, SignInPath, http.StatusFound)
	})
}

func requireRoles(want []roles.Role, deny func(http.ResponseWriter, *http.Request, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			state, err := sessions.FromContext(r.Context())
			if err != nil {
				// absent vs. invalid only matters for the log line
				msg := "Token inválido"
				if errors.Is(err, sessions.ErrNoSessionFound) {
					msg = "Token não encontrado"
				}
				deny(w, r, httputil.NewErrorMessage(http.StatusUnauthorized, err, msg))
				return
			}

			if !roles.Intersects(state.Roles(), want) {
				log.Debug(r.Context()).
					Str("user", state.PreferredUsername).
					Strs("required", roles.Strings(want)).
					Msg("authenticate: insufficient role")
				deny(w, r, httputil.NewErrorMessage(http.StatusForbidden, errors.New("insufficient role"), "Acesso negado"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
