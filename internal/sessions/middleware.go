package sessions

import (
	"context"
	"net/http"
)

type contextKey struct {
	name string
}

// Context keys
var (
	sessionCtxKey = &contextKey{"Session"}
	errorCtxKey   = &contextKey{"Error"}
)

// RetrieveSession is an http middleware that verifies the session cookie on
// every request and stashes the result in the request context. Downstream
// gates read it with FromContext; verification is never skipped or cached
// across requests.
func RetrieveSession(s SessionLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			state, err := loadAndValidate(s, r)
			ctx := NewContext(r.Context(), state, err)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func loadAndValidate(s SessionLoader, r *http.Request) (*State, error) {
	state, err := s.LoadSession(r)
	if err != nil {
		return nil, err
	}
	if err := state.Valid(); err != nil {
		// a little unusual but we want to return the expired state too
		return state, err
	}
	return state, nil
}

// NewContext sets context values for the user session state and error.
func NewContext(ctx context.Context, t *State, err error) context.Context {
	ctx = context.WithValue(ctx, sessionCtxKey, t)
	ctx = context.WithValue(ctx, errorCtxKey, err)
	return ctx
}

// FromContext retrieves context values for the user session state and error.
func FromContext(ctx context.Context) (*State, error) {
	state, _ := ctx.Value(sessionCtxKey).(*State)
	err, _ := ctx.Value(errorCtxKey).(error)
	return state, err
}
