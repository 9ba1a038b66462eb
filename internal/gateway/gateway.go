// Package gateway assembles the authenticate service, the data proxy and
// the portal pages into a single HTTP handler, rebuilt on config change.
package gateway

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/pucrs-ages/sarc-gateway/authenticate"
	"github.com/pucrs-ages/sarc-gateway/config"
	"github.com/pucrs-ages/sarc-gateway/internal/atomicutil"
	"github.com/pucrs-ages/sarc-gateway/internal/httputil"
	"github.com/pucrs-ages/sarc-gateway/internal/log"
	"github.com/pucrs-ages/sarc-gateway/internal/sessions"
	"github.com/pucrs-ages/sarc-gateway/internal/telemetry/metrics"
	"github.com/pucrs-ages/sarc-gateway/pkg/telemetry/requestid"
	"github.com/pucrs-ages/sarc-gateway/proxy"
)

// Gateway is the top-level handler. Requests always hit the router built
// from the most recent valid configuration.
type Gateway struct {
	currentRouter *atomicutil.Value[*mux.Router]
}

// New builds a Gateway from the initial configuration and subscribes it to
// the source's changes.
func New(ctx context.Context, src config.Source) (*Gateway, error) {
	gw := &Gateway{
		currentRouter: atomicutil.NewValue(httputil.NewRouter()),
	}
	if err := gw.update(ctx, src.GetConfig()); err != nil {
		return nil, err
	}
	src.OnConfigChange(ctx, func(ctx context.Context, cfg *config.Config) {
		if err := gw.update(ctx, cfg); err != nil {
			log.Error(ctx).Err(err).Msg("gateway: rejecting new config")
		}
	})
	return gw, nil
}

func (gw *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	gw.currentRouter.Load().ServeHTTP(w, r)
}

func (gw *Gateway) update(ctx context.Context, cfg *config.Config) error {
	if lvl, err := cfg.Options.GetLogLevel(); err == nil {
		log.SetLevel(lvl)
	}

	router, err := newRouter(ctx, cfg.Options)
	if err != nil {
		return err
	}
	gw.currentRouter.Store(router)
	log.Info(ctx).
		Str("authenticate_strategy", cfg.Options.AuthenticateStrategy).
		Str("verification_strategy", cfg.Options.VerificationStrategy).
		Msg("gateway: router updated")
	return nil
}

func newRouter(ctx context.Context, opts *config.Options) (*mux.Router, error) {
	authn, err := authenticate.New(ctx, opts)
	if err != nil {
		return nil, err
	}

	tokens, ok := authn.SessionStore().(proxy.TokenLoader)
	if !ok {
		return nil, fmt.Errorf("gateway: session store cannot produce raw tokens")
	}
	dataProxy, err := proxy.New(opts, tokens)
	if err != nil {
		return nil, err
	}

	r := httputil.NewRouter()
	r.Use(requestid.HTTPMiddleware())
	r.Use(log.NewHandler(log.Logger))
	r.Use(log.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		log.Info(r.Context()).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("http-request")
	}))
	r.Use(log.RemoteAddrHandler("ip"))
	r.Use(log.RequestIDHandler("request-id"))
	r.Use(metrics.HTTPMiddleware())
	r.Use(sessions.RetrieveSession(authn.SessionStore()))

	r.HandleFunc("/healthz", httputil.HealthCheck)
	authn.Mount(r)
	dataProxy.Mount(r)
	dataProxy.MountPages(r)
	return r, nil
}
