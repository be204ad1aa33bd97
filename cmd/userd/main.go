// Command userd runs the user-account microservice: registration, login,
// token-guarded profile routes, admin user management, and audit logging.
//
// Startup order: logger, configuration, MongoDB, Redis, token codec, domain
// wiring, HTTP server with graceful shutdown. No business logic lives here.
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

	"github.com/pairprep/identity/internal/api"
	"github.com/pairprep/identity/internal/core/service"
	"github.com/pairprep/identity/internal/infrastructure/config"
	"github.com/pairprep/identity/internal/infrastructure/db/mongo"
	"github.com/pairprep/identity/internal/infrastructure/db/redis"
	"github.com/pairprep/identity/internal/infrastructure/queue"
	"github.com/pairprep/identity/internal/token"
	"github.com/pairprep/identity/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// Configuration first: the log level comes from it. Until the logger
	// exists, a bootstrap logger reports load failures.
	cfg, err := config.Load(startupCtx)
	if err != nil {
		boot := zerolog.New(os.Stderr).With().Timestamp().Logger()
		boot.Fatal().Err(err).Msg("load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Console: !cfg.Production(),
	}).With().Str("app", "userd").Logger()

	log.Info().Str("env", cfg.Env).Str("port", cfg.Port).Msg("starting user service")

	// ── Stores ────────────────────────────────────────────────────────────
	mongoClient, db, err := mongo.Connect(startupCtx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	must(log, err, "connect to mongodb")
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(ctx); err != nil {
			log.Error().Err(err).Msg("mongo disconnect")
		}
	}()

	redisClient, err := redis.Connect(startupCtx, redis.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	must(log, err, "connect to redis")
	defer redisClient.Close()

	userRepo := mongo.NewUserRepository(db)
	must(log, userRepo.EnsureIndexes(startupCtx), "ensure user indexes")

	// ── Domain wiring ─────────────────────────────────────────────────────
	codec, err := token.NewCodec(cfg.JWTSecret, cfg.TokenTTL)
	must(log, err, "build token codec")

	throttle := redis.NewLoginThrottle(redisClient)
	authService := service.NewAuthService(userRepo, codec, throttle)
	userService := service.NewUserService(userRepo)

	auditCtx, auditCancel := context.WithCancel(context.Background())
	defer auditCancel()
	audit := queue.NewAuditWriter(mongo.NewAuditRepository(db), logger.Component("audit"))
	audit.Start(auditCtx)

	e := api.NewRouter(api.Deps{
		Codec:         codec,
		AuthService:   authService,
		UserService:   userService,
		Audit:         audit,
		Mongo:         db,
		Redis:         redisClient,
		Log:           log,
		CookieTTL:     cfg.TokenTTL,
		SecureCookies: cfg.Production(),
	})

	// ── Serve until signalled ─────────────────────────────────────────────
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
	log.Info().Msg("server stopped cleanly")
}

// must terminates the process on a startup error. After startup, errors are
// always returned and handled explicitly.
func must(log zerolog.Logger, err error, context string) {
	if err != nil {
		log.Fatal().Err(err).Str("context", context).Msg("startup failure")
	}
}
