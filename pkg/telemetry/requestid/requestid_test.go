package requestid

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("generates", func(t *testing.T) {
		t.Parallel()
		var got string
		h := HTTPMiddleware()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			got = FromContext(r.Context())
		}))
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		assert.NotEmpty(t, got)
	})

	t.Run("propagates header", func(t *testing.T) {
		t.Parallel()
		var got string
		h := HTTPMiddleware()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			got = FromContext(r.Context())
		}))
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set(headerName, "example-request-id")
		h.ServeHTTP(httptest.NewRecorder(), r)
		assert.Equal(t, "example-request-id", got)
	})
}
