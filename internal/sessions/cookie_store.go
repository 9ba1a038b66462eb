package sessions

import (
	"fmt"
	"net/http"
	"time"

	"github.com/pucrs-ages/sarc-gateway/internal/encoding"
)

const (
	// DefaultCookieName is the name of the session cookie.
	DefaultCookieName = "token"
	// RefreshCookieName is the name of the refresh-credential cookie, set
	// only for sessions issued by an external identity provider.
	RefreshCookieName = "refreshToken"
	// IDTokenCookieName is the name of the identity-provider session token
	// cookie, used as a hint for provider-side sign out.
	IDTokenCookieName = "id_token"
)

// CookieStore stores sessions in HTTP-only cookies.
type CookieStore struct {
	Name     string
	Expire   time.Duration
	HTTPOnly bool
	Secure   bool

	decoder encoding.Unmarshaler
}

// CookieOptions holds options for CookieStore.
type CookieOptions struct {
	Name   string
	Expire time.Duration
	Secure bool
}

// NewCookieStore returns a cookie store whose sessions are verified with the
// given decoder.
func NewCookieStore(opts *CookieOptions, decoder encoding.Unmarshaler) (*CookieStore, error) {
	if decoder == nil {
		return nil, fmt.Errorf("internal/sessions: decoder cannot be nil")
	}
	if opts.Name == "" {
		return nil, fmt.Errorf("internal/sessions: cookie name cannot be empty")
	}
	return &CookieStore{
		Name:     opts.Name,
		Expire:   opts.Expire,
		HTTPOnly: true,
		Secure:   opts.Secure,
		decoder:  decoder,
	}, nil
}

func (cs *CookieStore) makeCookie(name, value string, maxAge time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: cs.HTTPOnly,
		Secure:   cs.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(maxAge.Seconds()),
		Expires:  timeNow().Add(maxAge),
	}
}

// SaveSession stores the session's tokens as cookies. All cookies are
// computed before any is written, so issuance is all-or-nothing.
func (cs *CookieStore) SaveSession(w http.ResponseWriter, _ *http.Request, s *Session) error {
	if s == nil || s.AccessToken == "" {
		return ErrMissingAccessToken
	}
	cookies := []*http.Cookie{cs.makeCookie(cs.Name, s.AccessToken, cs.Expire)}
	if s.RefreshToken != "" {
		// the refresh credential outlives the session so it can renew it
		cookies = append(cookies, cs.makeCookie(RefreshCookieName, s.RefreshToken, 2*cs.Expire))
	}
	if s.IDToken != "" {
		cookies = append(cookies, cs.makeCookie(IDTokenCookieName, s.IDToken, cs.Expire))
	}
	for _, c := range cookies {
		http.SetCookie(w, c)
	}
	return nil
}

// ClearSession clears every session cookie. Clearing an absent session is a
// no-op.
func (cs *CookieStore) ClearSession(w http.ResponseWriter, _ *http.Request) {
	for _, name := range []string{cs.Name, RefreshCookieName, IDTokenCookieName} {
		c := cs.makeCookie(name, "", 0)
		c.MaxAge = -1
		c.Expires = timeNow().Add(-time.Hour)
		http.SetCookie(w, c)
	}
}

// LoadSession returns a verified State from the session cookie in the
// request.
func (cs *CookieStore) LoadSession(req *http.Request) (*State, error) {
	raw := cs.RawToken(req)
	if raw == "" {
		return nil, ErrNoSessionFound
	}
	var session State
	if err := cs.decoder.Unmarshal([]byte(raw), &session); err != nil {
		return nil, ErrMalformed
	}
	return &session, nil
}

// RawToken returns the unverified session token string from the request.
func (cs *CookieStore) RawToken(req *http.Request) string {
	return cookieValue(req, cs.Name)
}

// RawRefreshToken returns the refresh credential from the request, if any.
func RawRefreshToken(req *http.Request) string {
	return cookieValue(req, RefreshCookieName)
}

// RawIDToken returns the identity-provider session token from the request,
// if any.
func RawIDToken(req *http.Request) string {
	return cookieValue(req, IDTokenCookieName)
}

func cookieValue(req *http.Request, name string) string {
	cookie, err := req.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
