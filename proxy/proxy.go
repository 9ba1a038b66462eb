// Package proxy relays data requests to the SARC backend, substituting the
// browser's cookie session for a bearer credential, and serves the
// role-gated portal pages.
package proxy

import (
	"html/template"
	"net/http"
	"net/url"
	"time"

	"github.com/pucrs-ages/sarc-gateway/config"
	"github.com/pucrs-ages/sarc-gateway/internal/frontend"
)

// A TokenLoader extracts the raw session token from a request.
type TokenLoader interface {
	RawToken(*http.Request) string
}

// Proxy forwards data requests to the backend and renders portal pages.
type Proxy struct {
	backendURL *url.URL
	tokens     TokenLoader
	client     *http.Client
	templates  *template.Template
}

// New creates a Proxy from options. Session verification is expected to have
// run already via the sessions middleware.
func New(opts *config.Options, tokens TokenLoader) (*Proxy, error) {
	backendURL, err := opts.GetBackendURL()
	if err != nil {
		return nil, err
	}
	templates, err := frontend.NewTemplates()
	if err != nil {
		return nil, err
	}
	return &Proxy{
		backendURL: backendURL,
		tokens:     tokens,
		client:     &http.Client{Timeout: 30 * time.Second},
		templates:  templates,
	}, nil
}
