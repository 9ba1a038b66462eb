package httputil

import (
	"errors"
	"net/http"

	"github.com/pucrs-ages/sarc-gateway/internal/log"
	"github.com/pucrs-ages/sarc-gateway/pkg/telemetry/requestid"
)

// HTTPError contains an HTTP status code and wrapped error.
type HTTPError struct {
	// HTTP status codes as registered with IANA.
	Status int
	// Err is the wrapped error.
	Err error
	// Message overrides the user-facing message. When empty the wrapped
	// error's text is used.
	Message string
}

// NewError returns an error that contains a HTTP status and error.
func NewError(status int, err error) error {
	return &HTTPError{Status: status, Err: err}
}

// NewErrorMessage returns an error with a HTTP status and a user-facing
// message distinct from the wrapped error.
func NewErrorMessage(status int, err error, message string) error {
	return &HTTPError{Status: status, Err: err, Message: message}
}

// Error implements the `error` interface.
func (e *HTTPError) Error() string {
	return http.StatusText(e.Status) + ": " + e.Err.Error()
}

// Unwrap implements the `error` Unwrap interface.
func (e *HTTPError) Unwrap() error { return e.Err }

// ErrorResponse replies to the request with the specified error message and
// HTTP code. It does not otherwise end the request; the caller should ensure
// no further writes are done to w.
func (e *HTTPError) ErrorResponse(w http.ResponseWriter, r *http.Request) {
	msg := e.Message
	if msg == "" {
		msg = e.Err.Error()
	}

	evt := log.Warn(r.Context())
	if e.Status >= http.StatusInternalServerError {
		evt = log.Error(r.Context())
	}
	evt.Err(e.Err).
		Int("status", e.Status).
		Str("request-id", requestid.FromContext(r.Context())).
		Msg("httputil: error response")

	RenderJSON(w, e.Status, map[string]string{"message": msg})
}

// ErrorFor converts err into an *HTTPError, defaulting to an internal server
// error for unrecognized errors.
func ErrorFor(err error) *HTTPError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return &HTTPError{Status: http.StatusInternalServerError, Err: err}
}
