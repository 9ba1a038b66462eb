package proxy

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/pucrs-ages/sarc-gateway/internal/httputil"
	"github.com/pucrs-ages/sarc-gateway/internal/log"
	"github.com/pucrs-ages/sarc-gateway/internal/sessions"
)

// DataPathPrefix is stripped from inbound request paths before forwarding.
const DataPathPrefix = "/api/data"

// Mount registers the data proxy on the router.
func (p *Proxy) Mount(r *mux.Router) {
	r.PathPrefix(DataPathPrefix + "/").Handler(httputil.HandlerFunc(p.Data)).
		Methods(http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete)
}

// Data forwards the request to the backend and relays the response. The
// proxy is a transparent relay: no retries, no transformation beyond path
// and header rewriting.
func (p *Proxy) Data(w http.ResponseWriter, r *http.Request) error {
	if _, err := sessions.FromContext(r.Context()); err != nil {
		return httputil.NewErrorMessage(http.StatusUnauthorized, err, "Authentication required.")
	}

	u := *p.backendURL
	u.Path = strings.TrimSuffix(u.Path, "/") + strings.TrimPrefix(r.URL.Path, DataPathPrefix)
	u.RawQuery = r.URL.RawQuery

	body, contentType := p.requestBody(r)
	req, err := http.NewRequestWithContext(r.Context(), r.Method, u.String(), body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	// never trust a client-supplied credential; the session's token is the
	// only one forwarded
	req.Header.Set("Authorization", "Bearer "+p.tokens.RawToken(r))

	res, err := p.client.Do(req)
	if err != nil {
		log.Error(r.Context()).Err(err).Str("backend", p.backendURL.String()).
			Msg("proxy: backend unreachable")
		return httputil.NewErrorMessage(http.StatusInternalServerError, err, "Internal server error during proxying.")
	}
	defer res.Body.Close()

	if res.StatusCode/100 != 2 {
		text, _ := io.ReadAll(io.LimitReader(res.Body, 1<<20))
		log.Warn(r.Context()).Int("status", res.StatusCode).Str("path", u.Path).
			Msg("proxy: backend returned non-success status")
		httputil.RenderJSON(w, res.StatusCode, map[string]string{
			"message": "Backend error: " + string(text),
		})
		return nil
	}

	if ct := res.Header.Get("Content-Type"); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.WriteHeader(res.StatusCode)
	if _, err := io.Copy(w, res.Body); err != nil {
		log.Warn(r.Context()).Err(err).Msg("proxy: relaying response body failed")
	}
	return nil
}

// requestBody returns the body to forward. Update requests tolerate a
// missing or malformed body: if the declared content type is not JSON, or
// the payload does not parse, the request is forwarded without a body.
func (p *Proxy) requestBody(r *http.Request) (io.Reader, string) {
	if r.Body == nil {
		return nil, ""
	}
	contentType := r.Header.Get("Content-Type")
	if r.Method != http.MethodPut {
		return r.Body, contentType
	}

	if !strings.HasPrefix(contentType, "application/json") {
		return nil, ""
	}
	raw, err := io.ReadAll(r.Body)
	if err != nil || len(raw) == 0 || !json.Valid(raw) {
		if err == nil && len(raw) > 0 {
			log.Debug(r.Context()).Msg("proxy: dropping malformed update body")
		}
		return nil, ""
	}
	return bytes.NewReader(raw), contentType
}
