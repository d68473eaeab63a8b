// Command api serves the multi-disease platform HTTP API.
//
// @title                       Multi-Disease Platform API
// @version                     1.0
// @description                 Multi-tenant healthcare platform API.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the JWT.
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
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	_ "github.com/multidisease/platform-api/docs"
	"github.com/multidisease/platform-api/internal/api"
	"github.com/multidisease/platform-api/internal/api/handler"
	"github.com/multidisease/platform-api/internal/api/middleware"
	"github.com/multidisease/platform-api/internal/core/service"
	"github.com/multidisease/platform-api/internal/infrastructure/db/mongo"
	"github.com/multidisease/platform-api/internal/infrastructure/db/redis"
	"github.com/multidisease/platform-api/internal/pkg/config"
	"github.com/multidisease/platform-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.MustLoad()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "platform-api",
		Env:     cfg.Env,
	})

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Auth.JWTSecret == "" {
		log.Error().Msg("JWT_SECRET is not set; every protected request will fail with a configuration error")
	}

	// --- Storage ---
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  "platform-api",
	})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := mongoClient.Disconnect(dctx); err != nil {
			log.Error().Err(err).Msg("mongo disconnect failed")
		}
		log.Info().Msg("mongo disconnected")
	}()

	userRepo := mongo.NewUserRepository(db)
	orgRepo := mongo.NewOrganizationRepository(db)
	if err := mongo.EnsureIndexes(ctx, userRepo, orgRepo); err != nil {
		return err
	}

	checks := []handler.DependencyCheck{{
		Name: "mongodb",
		Ping: func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) },
	}}

	// Redis only backs the login rate limiter; the API runs without it.
	var limiter middleware.Limiter
	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, login rate limiting disabled")
	} else {
		defer closeRedis(rdb, log)
		limiter = redis.NewRateLimiter(rdb, "auth", cfg.RateLimit.Max, cfg.RateLimit.Window)
		checks = append(checks, handler.DependencyCheck{
			Name: "redis",
			Ping: redis.Ping(rdb),
		})
	}

	// --- Services ---
	issuer := service.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	authService := service.NewAuthService(userRepo, issuer, log)
	authenticator := service.NewAuthenticator(
		service.NewTokenVerifier(cfg.Auth.JWTSecret),
		service.NewIdentityLoader(userRepo, log),
	)
	orgService := service.NewOrganizationService(orgRepo, log)

	if cfg.Bootstrap.AdminEmail != "" {
		if err := authService.EnsureSuperAdmin(ctx, cfg.Bootstrap.AdminEmail, cfg.Bootstrap.AdminPassword); err != nil {
			return err
		}
	}

	e := api.NewRouter(api.Options{
		Config:              cfg,
		Log:                 log,
		Authenticator:       authenticator,
		AuthService:         authService,
		OrganizationService: orgService,
		LoginLimiter:        limiter,
		Checks:              checks,
		MetricsRegisterer:   prometheus.DefaultRegisterer,
		MetricsGatherer:     prometheus.DefaultGatherer,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutdown signal received")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(sctx); err != nil {
		return err
	}
	log.Info().Msg("http server stopped")
	return nil
}

func closeRedis(rdb *goredis.Client, log zerolog.Logger) {
	if err := rdb.Close(); err != nil {
		log.Error().Err(err).Msg("redis close failed")
		return
	}
	log.Info().Msg("redis closed")
}
