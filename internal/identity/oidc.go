package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	go_oidc "github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/pucrs-ages/sarc-gateway/internal/log"
	"github.com/pucrs-ages/sarc-gateway/internal/sessions"
)

var defaultScopes = []string{go_oidc.ScopeOpenID, "profile", "email", "offline_access"}

// OIDCOptions configures delegation to an external OpenID Connect provider.
type OIDCOptions struct {
	// ProviderURL is the issuer URL, e.g. a Keycloak realm.
	ProviderURL  string
	ClientID     string
	ClientSecret string
	// SignOutRedirectURL is passed to the provider's end-session endpoint as
	// the post-logout landing page.
	SignOutRedirectURL string
}

// OIDCAuthenticator delegates credential validation to an OpenID Connect
// provider's token endpoint using the resource-owner password grant, and
// provider-side sign out to its end-session and revocation endpoints.
type OIDCAuthenticator struct {
	opts OIDCOptions
	oa   *oauth2.Config

	// non-standard discovery claims
	RevocationURL string `json:"revocation_endpoint,omitempty"`
	EndSessionURL string `json:"end_session_endpoint,omitempty"`
}

// NewOIDCAuthenticator discovers the provider and returns an authenticator
// bound to it.
func NewOIDCAuthenticator(ctx context.Context, opts OIDCOptions) (*OIDCAuthenticator, error) {
	a := &OIDCAuthenticator{opts: opts}

	provider, err := go_oidc.NewProvider(ctx, opts.ProviderURL)
	if err != nil {
		return nil, fmt.Errorf("identity/oidc: could not connect to %s: %w", opts.ProviderURL, err)
	}
	// add non-standard claims like end-session and revocation
	if err := provider.Claims(a); err != nil {
		return nil, fmt.Errorf("identity/oidc: could not retrieve additional claims: %w", err)
	}

	a.oa = &oauth2.Config{
		ClientID:     opts.ClientID,
		ClientSecret: opts.ClientSecret,
		Endpoint:     provider.Endpoint(),
		Scopes:       defaultScopes,
	}
	return a, nil
}

// Name implements Authenticator.
func (a *OIDCAuthenticator) Name() string { return "oidc" }

// Authenticate implements Authenticator.
func (a *OIDCAuthenticator) Authenticate(ctx context.Context, username, password string) (*sessions.Session, error) {
	token, err := a.oa.PasswordCredentialsToken(ctx, username, password)
	if err != nil {
		if isCredentialRejection(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("identity/oidc: token endpoint: %w", err)
	}

	s := &sessions.Session{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
	}
	if rawIDToken, ok := token.Extra("id_token").(string); ok {
		s.IDToken = rawIDToken
	}
	return s, nil
}

// SignOut implements Authenticator. The refresh credential is revoked
// best-effort and the provider's end-session URL, when advertised, is
// returned with the id_token hint and post-logout redirect attached.
func (a *OIDCAuthenticator) SignOut(ctx context.Context, refreshToken, idToken string) (string, error) {
	var revokeErr error
	if refreshToken != "" && a.RevocationURL != "" {
		revokeErr = a.revoke(ctx, refreshToken)
	}

	if a.EndSessionURL == "" {
		return "", revokeErr
	}
	endSession, err := url.Parse(a.EndSessionURL)
	if err != nil {
		return "", fmt.Errorf("identity/oidc: bad end_session_endpoint: %w", err)
	}
	q := endSession.Query()
	if idToken != "" {
		q.Set("id_token_hint", idToken)
	}
	if a.opts.SignOutRedirectURL != "" {
		q.Set("post_logout_redirect_uri", a.opts.SignOutRedirectURL)
		q.Set("redirect_uri", a.opts.SignOutRedirectURL)
	}
	endSession.RawQuery = q.Encode()
	return endSession.String(), revokeErr
}

func (a *OIDCAuthenticator) revoke(ctx context.Context, refreshToken string) error {
	form := url.Values{
		"token":           {refreshToken},
		"token_type_hint": {"refresh_token"},
		"client_id":       {a.oa.ClientID},
		"client_secret":   {a.oa.ClientSecret},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.RevocationURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("identity/oidc: revocation endpoint: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode/100 != 2 {
		return fmt.Errorf("identity/oidc: revocation endpoint returned %d", res.StatusCode)
	}
	log.Debug(ctx).Msg("identity/oidc: refresh token revoked")
	return nil
}

func isCredentialRejection(err error) bool {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return retrieveErr.Response != nil &&
			(retrieveErr.Response.StatusCode == http.StatusBadRequest ||
				retrieveErr.Response.StatusCode == http.StatusUnauthorized)
	}
	return false
}
