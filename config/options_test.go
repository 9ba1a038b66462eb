package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions_Validate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		mutate  func(*Options)
		wantErr bool
	}{
		{"defaults with shared secret", func(o *Options) {
			o.SharedKey = "0123456789abcdef0123456789abcdef"
		}, false},
		{"missing shared secret", func(*Options) {}, true},
		{"empty address", func(o *Options) {
			o.SharedKey = "k"
			o.Address = ""
		}, true},
		{"bad backend url", func(o *Options) {
			o.SharedKey = "k"
			o.BackendURL = "not a url"
		}, true},
		{"bad log level", func(o *Options) {
			o.SharedKey = "k"
			o.LogLevel = "loud"
		}, true},
		{"unknown verification strategy", func(o *Options) {
			o.SharedKey = "k"
			o.VerificationStrategy = "hope"
		}, true},
		{"local issuance with remote verification", func(o *Options) {
			o.VerificationStrategy = VerificationStrategyRemoteJWKS
			o.IDPProviderURL = "https://idp.example.com/realms/sarc"
		}, true},
		{"oidc without client", func(o *Options) {
			o.AuthenticateStrategy = AuthenticateStrategyOIDC
			o.VerificationStrategy = VerificationStrategyRemoteJWKS
			o.IDPProviderURL = "https://idp.example.com/realms/sarc"
		}, true},
		{"oidc complete", func(o *Options) {
			o.AuthenticateStrategy = AuthenticateStrategyOIDC
			o.VerificationStrategy = VerificationStrategyRemoteJWKS
			o.IDPProviderURL = "https://idp.example.com/realms/sarc"
			o.IDPClientID = "sarc"
			o.IDPClientSecret = "secret"
		}, false},
		{"oidc with shared secret verification", func(o *Options) {
			o.AuthenticateStrategy = AuthenticateStrategyOIDC
			o.SharedKey = "k"
			o.IDPProviderURL = "https://idp.example.com/realms/sarc"
			o.IDPClientID = "sarc"
			o.IDPClientSecret = "secret"
		}, false},
		{"zero cookie expire", func(o *Options) {
			o.SharedKey = "k"
			o.CookieExpire = 0
		}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			o := NewDefaultOptions()
			tt.mutate(o)
			err := o.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewOptionsFromConfig(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte(`
address: ":4000"
shared_secret: "0123456789abcdef0123456789abcdef"
backend_url: "http://backend:8081"
cookie_expire: 1h
`), 0o600))

	o, err := newOptionsFromConfig(configFile)
	require.NoError(t, err)
	assert.Equal(t, ":4000", o.Address)
	assert.Equal(t, "http://backend:8081", o.BackendURL)
	assert.Equal(t, time.Hour, o.CookieExpire)
	// unset values keep their defaults
	assert.Equal(t, AuthenticateStrategyLocal, o.AuthenticateStrategy)
	assert.Equal(t, "token", o.CookieName)
}

func TestNewOptionsFromConfig_Environment(t *testing.T) {
	t.Setenv("SHARED_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("ADDRESS", ":5000")

	o, err := newOptionsFromConfig("")
	require.NoError(t, err)
	assert.Equal(t, ":5000", o.Address)
	assert.Equal(t, "0123456789abcdef0123456789abcdef", o.SharedKey)
}

func TestNewOptionsFromConfig_Invalid(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte(`
authenticate_strategy: "both"
shared_secret: "k"
`), 0o600))

	_, err := newOptionsFromConfig(configFile)
	assert.Error(t, err)
}
