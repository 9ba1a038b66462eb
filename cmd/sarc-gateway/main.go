// Package main contains the sarc-gateway server.
package main

import (
	"context"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/pucrs-ages/sarc-gateway/config"
	"github.com/pucrs-ages/sarc-gateway/internal/gateway"
	"github.com/pucrs-ages/sarc-gateway/internal/log"
	"github.com/pucrs-ages/sarc-gateway/internal/telemetry/metrics"
	"github.com/pucrs-ages/sarc-gateway/internal/version"
	"github.com/pucrs-ages/sarc-gateway/pkg/httputil"
)

func main() {
	var configFile string
	root := &cobra.Command{
		Use:          "sarc-gateway",
		Version:      version.FullVersion(),
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "Specify configuration file location")
	log.SetLevel(zerolog.InfoLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root.RunE = func(_ *cobra.Command, _ []string) error {
		defer log.Ctx(ctx).Info().Msg("cmd/sarc-gateway: exiting")
		return run(ctx, configFile)
	}

	if err := root.ExecuteContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("cmd/sarc-gateway")
	}
}

func run(ctx context.Context, configFile string) error {
	src, err := config.NewFileOrEnvironmentSource(ctx, configFile)
	if err != nil {
		return err
	}

	gw, err := gateway.New(ctx, src)
	if err != nil {
		return err
	}

	opts := src.GetConfig().Options
	li, err := net.Listen("tcp", opts.Address)
	if err != nil {
		return err
	}
	log.Info(ctx).Str("address", opts.Address).Str("version", version.FullVersion()).
		Msg("cmd/sarc-gateway: listening")

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return httputil.ServeWithGracefulStop(ctx, gw, li, 10*time.Second)
	})
	if opts.MetricsAddress != "" {
		mli, err := net.Listen("tcp", opts.MetricsAddress)
		if err != nil {
			return err
		}
		log.Info(ctx).Str("address", opts.MetricsAddress).Msg("cmd/sarc-gateway: metrics listening")
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		eg.Go(func() error {
			return httputil.ServeWithGracefulStop(ctx, mux, mli, 10*time.Second)
		})
	}
	return eg.Wait()
}
