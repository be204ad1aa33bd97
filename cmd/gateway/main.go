// Command gateway runs the same-origin API gateway fronting the user
// service. It forwards credentials verbatim, relays responses unmodified,
// and downgrades transport failures to a uniform 503.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/pairprep/identity/internal/gateway"
	"github.com/pairprep/identity/internal/infrastructure/config"
	"github.com/pairprep/identity/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	cfg, err := config.LoadGateway(startupCtx)
	if err != nil {
		boot := zerolog.New(os.Stderr).With().Timestamp().Logger()
		boot.Fatal().Err(err).Msg("load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Console: cfg.Env != "production",
	}).With().Str("app", "gateway").Logger()

	log.Info().
		Str("port", cfg.Port).
		Str("upstream", cfg.UserServiceURL).
		Msg("starting gateway")

	proxy := gateway.NewProxy(cfg.UserServiceURL, cfg.UpstreamTimeout, log)
	e := gateway.NewRouter(proxy)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-serverErr:
		log.Error().Err(err).Msg("server error")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
		os.Exit(1)
	}
	log.Info().Msg("gateway stopped cleanly")
}
