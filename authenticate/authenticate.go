// Package authenticate issues, reports and terminates browser sessions for
// the SARC gateway.
package authenticate

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/pucrs-ages/sarc-gateway/config"
	"github.com/pucrs-ages/sarc-gateway/internal/encoding"
	"github.com/pucrs-ages/sarc-gateway/internal/encoding/jwks"
	"github.com/pucrs-ages/sarc-gateway/internal/encoding/jws"
	"github.com/pucrs-ages/sarc-gateway/internal/httputil"
	"github.com/pucrs-ages/sarc-gateway/internal/identity"
	"github.com/pucrs-ages/sarc-gateway/internal/sessions"
)

// Authenticate handles session issuance, the current-user endpoint, and
// session termination.
type Authenticate struct {
	sessionStore  sessions.SessionStore
	decoder       encoding.Unmarshaler
	authenticator identity.Authenticator
}

// New assembles the authenticate service from configuration: the
// verification codec (trust model), the cookie store built on it, and the
// issuance strategy.
func New(ctx context.Context, opts *config.Options) (*Authenticate, error) {
	decoder, err := NewVerifier(ctx, opts)
	if err != nil {
		return nil, err
	}

	store, err := sessions.NewCookieStore(&sessions.CookieOptions{
		Name:   opts.CookieName,
		Expire: opts.CookieExpire,
		Secure: opts.CookieSecure,
	}, decoder)
	if err != nil {
		return nil, err
	}

	authenticator, err := newAuthenticator(ctx, opts, decoder)
	if err != nil {
		return nil, err
	}

	return &Authenticate{
		sessionStore:  store,
		decoder:       decoder,
		authenticator: authenticator,
	}, nil
}

// NewVerifier builds the session verification codec selected by
// configuration.
func NewVerifier(ctx context.Context, opts *config.Options) (encoding.Unmarshaler, error) {
	switch opts.VerificationStrategy {
	case config.VerificationStrategySharedSecret:
		return jws.NewHS256Signer(opts.GetSharedKey())
	case config.VerificationStrategyRemoteJWKS:
		return jwks.New(ctx, opts.IDPProviderURL)
	default:
		return nil, fmt.Errorf("authenticate: unknown verification strategy %q", opts.VerificationStrategy)
	}
}

func newAuthenticator(ctx context.Context, opts *config.Options, decoder encoding.Unmarshaler) (identity.Authenticator, error) {
	switch opts.AuthenticateStrategy {
	case config.AuthenticateStrategyLocal:
		encoder, ok := decoder.(encoding.Marshaler)
		if !ok {
			return nil, fmt.Errorf("authenticate: local issuance requires a signing codec")
		}
		return identity.NewLocalAuthenticator(identity.DefaultUsers, encoder, opts.CookieExpire), nil
	case config.AuthenticateStrategyOIDC:
		return identity.NewOIDCAuthenticator(ctx, identity.OIDCOptions{
			ProviderURL:        opts.IDPProviderURL,
			ClientID:           opts.IDPClientID,
			ClientSecret:       opts.IDPClientSecret,
			SignOutRedirectURL: opts.SignOutRedirectURL,
		})
	default:
		return nil, fmt.Errorf("authenticate: unknown authenticate strategy %q", opts.AuthenticateStrategy)
	}
}

// SessionStore exposes the store so other services share the same cookie
// handling.
func (a *Authenticate) SessionStore() sessions.SessionStore {
	return a.sessionStore
}

// Mount registers the auth endpoints on the router.
func (a *Authenticate) Mount(r *mux.Router) {
	r.Handle("/api/auth/login", httputil.HandlerFunc(a.SignIn)).Methods(http.MethodPost)
	r.Handle("/api/auth/me", httputil.HandlerFunc(a.CurrentUser)).Methods(http.MethodGet)
	r.Handle("/api/auth/logout", httputil.HandlerFunc(a.SignOut)).Methods(http.MethodGet, http.MethodPost)
}
