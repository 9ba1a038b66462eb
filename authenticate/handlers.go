package authenticate

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pucrs-ages/sarc-gateway/internal/httputil"
	"github.com/pucrs-ages/sarc-gateway/internal/identity"
	"github.com/pucrs-ages/sarc-gateway/internal/log"
	"github.com/pucrs-ages/sarc-gateway/internal/sessions"
)

// SignIn accepts a credential pair and, on success, establishes the session
// cookies and returns the user. Issuance is all-or-nothing: any failure
// leaves cookie state untouched.
func (a *Authenticate) SignIn(w http.ResponseWriter, r *http.Request) error {
	var payload struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		return httputil.NewErrorMessage(http.StatusBadRequest, err, "Requisição inválida")
	}

	session, err := a.authenticator.Authenticate(r.Context(), payload.Username, payload.Password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			return httputil.NewErrorMessage(http.StatusUnauthorized, err, "Credenciais inválidas")
		}
		log.Error(r.Context()).Err(err).Str("strategy", a.authenticator.Name()).
			Msg("authenticate: identity backend failure")
		return httputil.NewErrorMessage(http.StatusInternalServerError, err, "Erro interno do servidor")
	}

	var state sessions.State
	if err := a.decoder.Unmarshal([]byte(session.AccessToken), &state); err != nil {
		log.Error(r.Context()).Err(err).Msg("authenticate: issued token failed verification")
		return httputil.NewErrorMessage(http.StatusInternalServerError, err, "Erro interno do servidor")
	}

	if err := a.sessionStore.SaveSession(w, r, session); err != nil {
		return httputil.NewErrorMessage(http.StatusInternalServerError, err, "Erro interno do servidor")
	}

	log.Info(r.Context()).Str("user", state.PreferredUsername).Msg("authenticate: session issued")
	httputil.RenderJSON(w, http.StatusOK, map[string]any{"user": state.User()})
	return nil
}

// CurrentUser returns the identity derived from the verified session.
func (a *Authenticate) CurrentUser(w http.ResponseWriter, r *http.Request) error {
	state, err := sessions.FromContext(r.Context())
	if err != nil {
		if errors.Is(err, sessions.ErrNoSessionFound) {
			return httputil.NewErrorMessage(http.StatusUnauthorized, err, "Token não encontrado")
		}
		return httputil.NewErrorMessage(http.StatusUnauthorized, err, "Token inválido")
	}

	httputil.RenderJSON(w, http.StatusOK, map[string]any{"user": state.User()})
	return nil
}

// SignOut clears every session cookie. When the session was issued by an
// external identity provider the refresh credential is revoked best-effort,
// and the browser is redirected to the provider's end-session endpoint when
// one is configured. Terminating an absent session is a no-op success.
func (a *Authenticate) SignOut(w http.ResponseWriter, r *http.Request) error {
	endSessionURL, err := a.authenticator.SignOut(r.Context(),
		sessions.RawRefreshToken(r), sessions.RawIDToken(r))
	if err != nil {
		// upstream failure never blocks local sign out
		log.Warn(r.Context()).Err(err).Str("strategy", a.authenticator.Name()).
			Msg("authenticate: provider sign out failed")
	}

	a.sessionStore.ClearSession(w, r)

	if endSessionURL != "" {
		httputil.Redirect(w, r, endSessionURL, http.StatusFound)
		return nil
	}
	httputil.RenderJSON(w, http.StatusOK, map[string]string{"message": "Logout realizado com sucesso"})
	return nil
}
