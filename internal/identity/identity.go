// Package identity implements session issuance strategies.
//
// An Authenticator exchanges a credential pair for a set of session tokens.
// Exactly one strategy is active, selected by static configuration: either
// the built-in user table or delegation to an external OpenID Connect
// provider.
package identity

import (
	"context"
	"errors"

	"github.com/pucrs-ages/sarc-gateway/internal/sessions"
)

// ErrInvalidCredentials is returned when the identifier/secret pair does not
// match any user.
var ErrInvalidCredentials = errors.New("identity: invalid credentials")

// An Authenticator issues and revokes sessions.
type Authenticator interface {
	// Name identifies the strategy ("local" or "oidc").
	Name() string
	// Authenticate exchanges credentials for session tokens. It returns
	// ErrInvalidCredentials on a mismatch; any other error is an upstream
	// failure.
	Authenticate(ctx context.Context, username, password string) (*sessions.Session, error)
	// SignOut best-effort revokes the refresh credential and returns the
	// provider's end-session URL, or "" when the provider has none. An
	// upstream failure is returned but never blocks local sign out.
	SignOut(ctx context.Context, refreshToken, idToken string) (endSessionURL string, err error)
}
