// Package httputil contains HTTP server helpers.
package httputil

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"
)

// ServeWithGracefulStop serves the handler on the given listener until the
// context is canceled, at which point it gracefully stops the server,
// forcibly closing connections after gracefulTimeout has elapsed.
func ServeWithGracefulStop(ctx context.Context, handler http.Handler, li net.Listener, gracefulTimeout time.Duration) error {
	srv := &http.Server{
		Handler: handler,
		BaseContext: func(net.Listener) context.Context {
			return context.WithoutCancel(ctx)
		},
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(li)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), gracefulTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		_ = srv.Close()
	}

	err := <-errCh
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
