package sessions

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-jose/go-jose/v3/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pucrs-ages/sarc-gateway/internal/encoding/jws"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func testStore(t *testing.T) *CookieStore {
	t.Helper()
	signer, err := jws.NewHS256Signer(testKey)
	require.NoError(t, err)
	cs, err := NewCookieStore(&CookieOptions{Name: DefaultCookieName, Expire: 24 * time.Hour}, signer)
	require.NoError(t, err)
	return cs
}

func signedToken(t *testing.T, state *State) string {
	t.Helper()
	signer, err := jws.NewHS256Signer(testKey)
	require.NoError(t, err)
	raw, err := signer.Marshal(state)
	require.NoError(t, err)
	return string(raw)
}

func requestWithCookies(cookies []*http.Cookie) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		r.AddCookie(c)
	}
	return r
}

func TestNewCookieStore(t *testing.T) {
	t.Parallel()
	signer, err := jws.NewHS256Signer(testKey)
	require.NoError(t, err)

	_, err = NewCookieStore(&CookieOptions{Name: ""}, signer)
	assert.Error(t, err)
	_, err = NewCookieStore(&CookieOptions{Name: "token"}, nil)
	assert.Error(t, err)
}

func TestCookieStore_RoundTrip(t *testing.T) {
	t.Parallel()
	cs := testStore(t)

	token := signedToken(t, &State{
		Subject:           "3",
		PreferredUsername: "john@edu.pucrs.br",
		Expiry:            jwt.NewNumericDate(time.Now().Add(time.Hour)),
		RealmAccess:       RealmAccess{Roles: []string{"PROFESSOR"}},
	})

	w := httptest.NewRecorder()
	require.NoError(t, cs.SaveSession(w, nil, &Session{AccessToken: token}))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, DefaultCookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
	assert.Equal(t, "/", cookies[0].Path)

	state, err := cs.LoadSession(requestWithCookies(cookies))
	require.NoError(t, err)
	assert.Equal(t, "3", state.Subject)
	assert.Equal(t, []string{"PROFESSOR"}, state.RealmAccess.Roles)
}

func TestCookieStore_SaveSession_AllOrNothing(t *testing.T) {
	t.Parallel()
	cs := testStore(t)

	w := httptest.NewRecorder()
	assert.ErrorIs(t, cs.SaveSession(w, nil, &Session{}), ErrMissingAccessToken)
	assert.Empty(t, w.Result().Cookies(), "no cookie may be set on a failed issuance")
}

func TestCookieStore_SaveSession_ProviderTokens(t *testing.T) {
	t.Parallel()
	cs := testStore(t)

	w := httptest.NewRecorder()
	require.NoError(t, cs.SaveSession(w, nil, &Session{
		AccessToken:  "access",
		RefreshToken: "refresh",
		IDToken:      "id",
	}))

	byName := map[string]*http.Cookie{}
	for _, c := range w.Result().Cookies() {
		byName[c.Name] = c
	}
	require.Len(t, byName, 3)
	assert.Equal(t, int((24 * time.Hour).Seconds()), byName[DefaultCookieName].MaxAge)
	assert.Equal(t, int((48 * time.Hour).Seconds()), byName[RefreshCookieName].MaxAge)
	assert.Equal(t, "id", byName[IDTokenCookieName].Value)

	r := requestWithCookies(w.Result().Cookies())
	assert.Equal(t, "refresh", RawRefreshToken(r))
	assert.Equal(t, "id", RawIDToken(r))
}

func TestCookieStore_ClearSession(t *testing.T) {
	t.Parallel()
	cs := testStore(t)

	w := httptest.NewRecorder()
	cs.ClearSession(w, nil)
	cleared := w.Result().Cookies()
	require.Len(t, cleared, 3)
	for _, c := range cleared {
		assert.Equal(t, -1, c.MaxAge)
		assert.Empty(t, c.Value)
	}

	// clearing twice is a no-op success
	w = httptest.NewRecorder()
	cs.ClearSession(w, nil)
	assert.Len(t, w.Result().Cookies(), 3)
}

func TestCookieStore_LoadSession_Errors(t *testing.T) {
	t.Parallel()
	cs := testStore(t)

	_, err := cs.LoadSession(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.ErrorIs(t, err, ErrNoSessionFound)

	r := requestWithCookies([]*http.Cookie{{Name: DefaultCookieName, Value: "garbage"}})
	_, err = cs.LoadSession(r)
	assert.ErrorIs(t, err, ErrMalformed)
}
