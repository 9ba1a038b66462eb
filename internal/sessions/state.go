package sessions

import (
	"errors"
	"time"

	"github.com/go-jose/go-jose/v3/jwt"

	"github.com/pucrs-ages/sarc-gateway/pkg/roles"
)

// timeNow is time.Now but pulled out as a variable for tests.
var timeNow = time.Now

// RealmAccess carries the role claim in the shape Keycloak emits it.
type RealmAccess struct {
	Roles []string `json:"roles"`
}

// State is the verified session token's claim set.
type State struct {
	// Public claim values (as specified in RFC 7519).
	Issuer   string           `json:"iss,omitempty"`
	Subject  string           `json:"sub,omitempty"`
	Audience jwt.Audience     `json:"aud,omitempty"`
	Expiry   *jwt.NumericDate `json:"exp,omitempty"`
	IssuedAt *jwt.NumericDate `json:"iat,omitempty"`
	ID       string           `json:"jti,omitempty"`

	PreferredUsername string      `json:"preferred_username,omitempty"`
	Email             string      `json:"email,omitempty"`
	RealmAccess       RealmAccess `json:"realm_access,omitempty"`
}

// Valid returns an error if the session state is expired.
func (s *State) Valid() error {
	if s.Expiry != nil && timeNow().After(s.Expiry.Time()) {
		return ErrExpired
	}
	return nil
}

// Roles returns the recognized roles held by the session's subject.
// Unrecognized role strings in the claim are dropped.
func (s *State) Roles() []roles.Role {
	return roles.Parse(s.RealmAccess.Roles)
}

// A User is the identity derived from a verified session, in the shape the
// auth endpoints respond with.
type User struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
}

// User derives the identity from the session state.
func (s *State) User() *User {
	rs := roles.Strings(s.Roles())
	if rs == nil {
		rs = []string{}
	}
	return &User{
		ID:       s.Subject,
		Username: s.PreferredUsername,
		Email:    s.Email,
		Roles:    rs,
	}
}

// A Session is the set of tokens established at issuance. AccessToken is
// always present; RefreshToken and IDToken only when an external identity
// provider issued the session.
type Session struct {
	AccessToken  string
	RefreshToken string
	IDToken      string
}

// ErrMissingAccessToken is returned when saving a session without a token.
var ErrMissingAccessToken = errors.New("invalid session: missing access token")
