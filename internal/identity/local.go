package identity

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/go-jose/go-jose/v3/jwt"
	"github.com/google/uuid"

	"github.com/pucrs-ages/sarc-gateway/internal/encoding"
	"github.com/pucrs-ages/sarc-gateway/internal/sessions"
)

// LocalIssuer is the "iss" claim on locally minted sessions.
const LocalIssuer = "sarc-gateway"

// A StaticUser is an entry in the built-in user table.
type StaticUser struct {
	ID       string
	Username string
	Email    string
	Password string
	Roles    []string
}

// DefaultUsers is the institution's built-in user table.
var DefaultUsers = []StaticUser{
	{ID: "1", Username: "edgardossantos@edu.pucrs.br", Email: "edgardossantos@edu.pucrs.br", Password: "123456", Roles: []string{"ADMIN"}},
	{ID: "2", Username: "mariaeduarda@edu.pucrs.br", Email: "mariaeduarda@edu.pucrs.br", Password: "123456", Roles: []string{"COORDENADOR"}},
	{ID: "3", Username: "john@edu.pucrs.br", Email: "john@edu.pucrs.br", Password: "123456", Roles: []string{"PROFESSOR"}},
	{ID: "4", Username: "andresilva@edu.pucrs.br", Email: "andresilva@edu.pucrs.br", Password: "123456", Roles: []string{"ALUNO"}},
}

// LocalAuthenticator validates credentials against a static user table and
// mints its own signed session tokens.
type LocalAuthenticator struct {
	users   []StaticUser
	encoder encoding.Marshaler
	expire  time.Duration
}

// NewLocalAuthenticator creates a LocalAuthenticator. Sessions are signed by
// encoder and expire after expire.
func NewLocalAuthenticator(users []StaticUser, encoder encoding.Marshaler, expire time.Duration) *LocalAuthenticator {
	return &LocalAuthenticator{users: users, encoder: encoder, expire: expire}
}

// Name implements Authenticator.
func (a *LocalAuthenticator) Name() string { return "local" }

// Authenticate implements Authenticator.
func (a *LocalAuthenticator) Authenticate(_ context.Context, username, password string) (*sessions.Session, error) {
	user, ok := a.lookup(username, password)
	if !ok {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	state := &sessions.State{
		Issuer:            LocalIssuer,
		Subject:           user.ID,
		IssuedAt:          jwt.NewNumericDate(now),
		Expiry:            jwt.NewNumericDate(now.Add(a.expire)),
		ID:                uuid.NewString(),
		PreferredUsername: user.Username,
		Email:             user.Email,
		RealmAccess:       sessions.RealmAccess{Roles: user.Roles},
	}
	raw, err := a.encoder.Marshal(state)
	if err != nil {
		return nil, err
	}
	return &sessions.Session{AccessToken: string(raw)}, nil
}

// SignOut implements Authenticator. Local sessions have no upstream to
// notify and no end-session endpoint.
func (a *LocalAuthenticator) SignOut(context.Context, string, string) (string, error) {
	return "", nil
}

func (a *LocalAuthenticator) lookup(username, password string) (StaticUser, bool) {
	// compare against every entry so timing does not reveal which usernames
	// exist
	var found StaticUser
	var ok bool
	for _, u := range a.users {
		nameEq := subtle.ConstantTimeCompare([]byte(u.Username), []byte(username)) == 1
		passEq := subtle.ConstantTimeCompare([]byte(u.Password), []byte(password)) == 1
		if nameEq && passEq {
			found, ok = u, true
		}
	}
	return found, ok
}
