// Package requestid tracks a unique id for each request.
package requestid

import (
	"context"

	"github.com/google/uuid"
)

const headerName = "X-Request-Id"

type contextKey struct{}

// New creates a new request id.
func New() string {
	return uuid.NewString()
}

// WithValue appends the request id to the context.
func WithValue(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextKey{}, requestID)
}

// FromContext returns the request id in the context. If no request id exists,
// an empty string is returned.
func FromContext(ctx context.Context) string {
	requestID, _ := ctx.Value(contextKey{}).(string)
	return requestID
}
