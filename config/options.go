// Package config holds the gateway's configuration options.
package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Session issuance strategies.
const (
	// AuthenticateStrategyLocal validates credentials against the built-in
	// user table and self-signs sessions.
	AuthenticateStrategyLocal = "local"
	// AuthenticateStrategyOIDC delegates credential validation to an
	// external OpenID Connect provider.
	AuthenticateStrategyOIDC = "oidc"
)

// Token verification trust models. The model is fixed by configuration and
// never inferred from a token.
const (
	// VerificationStrategySharedSecret verifies sessions with the HS256
	// shared key.
	VerificationStrategySharedSecret = "shared_secret"
	// VerificationStrategyRemoteJWKS verifies sessions against the identity
	// provider's published key set.
	VerificationStrategyRemoteJWKS = "remote_jwks"
)

// Options are the global environmental flags used to set up the gateway.
// Use NewDefaultOptions() for a safely initialized data structure.
type Options struct {
	// Address specifies the host and port to serve HTTP requests from.
	Address string `mapstructure:"address" yaml:"address,omitempty"`

	// BackendURL is the base address of the SARC data backend all
	// /api/data requests are proxied to.
	BackendURL string `mapstructure:"backend_url" yaml:"backend_url,omitempty"`

	// AuthenticateStrategy selects how sessions are issued: "local" or
	// "oidc".
	AuthenticateStrategy string `mapstructure:"authenticate_strategy" yaml:"authenticate_strategy,omitempty"`

	// VerificationStrategy selects how session tokens are verified:
	// "shared_secret" or "remote_jwks".
	VerificationStrategy string `mapstructure:"verification_strategy" yaml:"verification_strategy,omitempty"`

	// SharedKey is the HS256 key used to sign and verify locally issued
	// sessions.
	SharedKey string `mapstructure:"shared_secret" yaml:"shared_secret,omitempty"`

	// IDPProviderURL is the OpenID Connect issuer, e.g. a Keycloak realm
	// URL.
	IDPProviderURL  string `mapstructure:"idp_provider_url" yaml:"idp_provider_url,omitempty"`
	IDPClientID     string `mapstructure:"idp_client_id" yaml:"idp_client_id,omitempty"`
	IDPClientSecret string `mapstructure:"idp_client_secret" yaml:"idp_client_secret,omitempty"`

	// SignOutRedirectURL is where the identity provider sends the browser
	// after a provider-side sign out.
	SignOutRedirectURL string `mapstructure:"sign_out_redirect_url" yaml:"sign_out_redirect_url,omitempty"`

	// CookieName is the name of the session cookie.
	CookieName string `mapstructure:"cookie_name" yaml:"cookie_name,omitempty"`
	// CookieSecure marks session cookies Secure. Enable in production.
	CookieSecure bool `mapstructure:"cookie_secure" yaml:"cookie_secure,omitempty"`
	// CookieExpire is the session lifetime. The refresh cookie lives twice
	// as long.
	CookieExpire time.Duration `mapstructure:"cookie_expire" yaml:"cookie_expire,omitempty"`

	// LogLevel sets the global log level. Possible options are "trace",
	// "debug", "info", "warn" and "error". Defaults to "info".
	LogLevel string `mapstructure:"log_level" yaml:"log_level,omitempty"`

	// MetricsAddress is the listen address for the prometheus endpoint.
	// Empty disables it.
	MetricsAddress string `mapstructure:"metrics_address" yaml:"metrics_address,omitempty"`
}

var defaultOptions = Options{
	Address:              ":3000",
	BackendURL:           "http://localhost:8081",
	AuthenticateStrategy: AuthenticateStrategyLocal,
	VerificationStrategy: VerificationStrategySharedSecret,
	CookieName:           "token",
	CookieExpire:         24 * time.Hour,
	LogLevel:             "info",
}

// NewDefaultOptions returns an Options struct with the default values set.
func NewDefaultOptions() *Options {
	o := defaultOptions
	return &o
}

// configurable environment variables, bound explicitly so a bare environment
// deployment needs no config file
var envBindings = map[string]string{
	"address":               "ADDRESS",
	"backend_url":           "BACKEND_URL",
	"authenticate_strategy": "AUTHENTICATE_STRATEGY",
	"verification_strategy": "VERIFICATION_STRATEGY",
	"shared_secret":         "SHARED_SECRET",
	"idp_provider_url":      "IDP_PROVIDER_URL",
	"idp_client_id":         "IDP_CLIENT_ID",
	"idp_client_secret":     "IDP_CLIENT_SECRET",
	"sign_out_redirect_url": "SIGN_OUT_REDIRECT_URL",
	"cookie_name":           "COOKIE_NAME",
	"cookie_secure":         "COOKIE_SECURE",
	"cookie_expire":         "COOKIE_EXPIRE",
	"log_level":             "LOG_LEVEL",
	"metrics_address":       "METRICS_ADDRESS",
}

// newOptionsFromConfig loads options from the given config file (optional)
// and the environment, then validates them.
func newOptionsFromConfig(configFile string) (*Options, error) {
	v := viper.New()
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("config: failed to bind %s: %w", env, err)
		}
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: failed to read %s: %w", configFile, err)
		}
	}

	o := NewDefaultOptions()
	if err := v.Unmarshal(o, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
	))); err != nil {
		return nil, fmt.Errorf("config: failed to parse options: %w", err)
	}

	if err := o.Validate(); err != nil {
		return nil, err
	}
	return o, nil
}

// Validate ensures the Options are usable.
func (o *Options) Validate() error {
	if o.Address == "" {
		return fmt.Errorf("config: address cannot be empty")
	}
	if _, err := o.GetBackendURL(); err != nil {
		return err
	}
	if _, err := o.GetLogLevel(); err != nil {
		return err
	}

	switch o.VerificationStrategy {
	case VerificationStrategySharedSecret:
		if o.SharedKey == "" {
			return fmt.Errorf("config: 'shared_secret' is required for shared_secret verification")
		}
	case VerificationStrategyRemoteJWKS:
		if o.IDPProviderURL == "" {
			return fmt.Errorf("config: 'idp_provider_url' is required for remote_jwks verification")
		}
	default:
		return fmt.Errorf("config: invalid 'verification_strategy': %q", o.VerificationStrategy)
	}

	switch o.AuthenticateStrategy {
	case AuthenticateStrategyLocal:
		// a locally issued session can only verify against the shared key
		if o.VerificationStrategy != VerificationStrategySharedSecret {
			return fmt.Errorf("config: local sessions require shared_secret verification")
		}
	case AuthenticateStrategyOIDC:
		if o.IDPProviderURL == "" || o.IDPClientID == "" || o.IDPClientSecret == "" {
			return fmt.Errorf("config: 'idp_provider_url', 'idp_client_id' and 'idp_client_secret' are required for oidc authentication")
		}
	default:
		return fmt.Errorf("config: invalid 'authenticate_strategy': %q", o.AuthenticateStrategy)
	}

	if o.CookieName == "" {
		return fmt.Errorf("config: 'cookie_name' cannot be empty")
	}
	if o.CookieExpire <= 0 {
		return fmt.Errorf("config: 'cookie_expire' must be positive")
	}
	return nil
}

// GetBackendURL returns the parsed backend base URL.
func (o *Options) GetBackendURL() (*url.URL, error) {
	u, err := url.Parse(o.BackendURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("config: invalid 'backend_url': %q", o.BackendURL)
	}
	return u, nil
}

// GetSharedKey returns the shared secret as bytes.
func (o *Options) GetSharedKey() []byte {
	return []byte(o.SharedKey)
}

// GetLogLevel returns the parsed zerolog level.
func (o *Options) GetLogLevel() (zerolog.Level, error) {
	lvl, err := zerolog.ParseLevel(o.LogLevel)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("config: invalid 'log_level': %q", o.LogLevel)
	}
	return lvl, nil
}
