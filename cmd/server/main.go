// @title                      Admin Console API
// @version                    1.0
// @description                Session authentication and role-gated administration.
// @BasePath                   /
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	_ "github.com/taskflow/admin-console/docs"
	"github.com/taskflow/admin-console/internal/api"
	"github.com/taskflow/admin-console/internal/api/handler"
	"github.com/taskflow/admin-console/internal/core/ports"
	"github.com/taskflow/admin-console/internal/core/service"
	"github.com/taskflow/admin-console/internal/infrastructure/config"
	mongodb "github.com/taskflow/admin-console/internal/infrastructure/db/mongo"
	redisdb "github.com/taskflow/admin-console/internal/infrastructure/db/redis"
	"github.com/taskflow/admin-console/internal/infrastructure/queue"
	"github.com/taskflow/admin-console/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "admin-console",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- MongoDB ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	userRepo := mongodb.NewUserRepository(db)
	auditRepo := mongodb.NewAuditRepository(db)
	if err := mongodb.EnsureIndexes(ctx, userRepo, auditRepo); err != nil {
		log.Fatal().Err(err).Msg("failed to create indexes")
	}

	healthChecks := []handler.DependencyCheck{
		{Name: "mongodb", Ping: func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) }},
	}

	// --- Redis (optional: login throttling only) ---
	var limiter ports.LoginLimiter
	loginLimiter, rdb, err := redisdb.OpenLoginLimiter(ctx, redisdb.Config{
		Addr:      cfg.Redis.Addr,
		DB:        cfg.Redis.DB,
		OpTimeout: cfg.Redis.Timeout,
	}, cfg.Login.RateLimit, cfg.Login.RateWindow)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, login throttling disabled")
	} else {
		defer rdb.Close()
		limiter = loginLimiter
		healthChecks = append(healthChecks, handler.DependencyCheck{
			Name: "redis",
			Ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		})
	}

	// --- Core services ---
	codec, err := service.NewTokenCodec([]byte(cfg.JWTSecret))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build token codec")
	}

	auditService := service.NewAuditService(auditRepo, log)
	dispatcher := queue.NewDispatcher(cfg.Audit.Workers, auditService, log)
	// Audit workers outlive the signal context so logins still in flight
	// during shutdown are recorded.
	auditCtx, cancelAudit := context.WithCancel(context.Background())
	defer cancelAudit()
	dispatcher.Start(auditCtx)

	authService := service.NewAuthService(userRepo, codec, dispatcher, service.BootstrapAccount{
		Name:     cfg.Bootstrap.Name,
		Email:    cfg.Bootstrap.Email,
		Password: cfg.Bootstrap.Password,
	}, log)
	userService := service.NewUserService(userRepo, log)

	router, err := api.NewRouter(api.Dependencies{
		Config:       cfg,
		Log:          log,
		Codec:        codec,
		AuthService:  authService,
		UserService:  userService,
		Limiter:      limiter,
		Registerer:   prometheus.DefaultRegisterer,
		HealthChecks: healthChecks,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build router")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errorCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("env", cfg.Env).
			Str("transport", cfg.Session.Transport).
			Msg("admin console starting")
		errorCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("graceful shutdown failed")
		}
		if err := dispatcher.Stop(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("audit queue not fully drained")
		}
		cancelAudit()
		log.Info().Msg("admin console stopped")
	case err := <-errorCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server error")
			os.Exit(1)
		}
	}
}
