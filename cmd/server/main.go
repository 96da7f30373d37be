package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/haulmatic/user-directory/internal/api"
	"github.com/haulmatic/user-directory/internal/api/handler"
	"github.com/haulmatic/user-directory/internal/core/ports"
	"github.com/haulmatic/user-directory/internal/core/service"
	"github.com/haulmatic/user-directory/internal/infrastructure/config"
	mongostore "github.com/haulmatic/user-directory/internal/infrastructure/db/mongo"
	pgstore "github.com/haulmatic/user-directory/internal/infrastructure/db/postgres"
	redisstore "github.com/haulmatic/user-directory/internal/infrastructure/db/redis"
	"github.com/haulmatic/user-directory/internal/infrastructure/security"
	"github.com/haulmatic/user-directory/pkg/logger"
)

const (
	serviceName     = "user-directory"
	bootstrapLockID = "user-directory:bootstrap"
	shutdownTimeout = 10 * time.Second
)

// @title                       User Directory API
// @version                     1.0
// @description                 Authentication and role-gated user administration.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	// A missing .env is fine: the environment may be set by the orchestrator.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: serviceName,
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	repo, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	checks := []handler.DependencyCheck{{Name: cfg.StoreDriver, Ping: repo.Ping}}

	var lock service.BootstrapLock
	if cfg.Redis.Addr != "" {
		rdb, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer rdb.Close()

		lock = redisstore.NewBootstrapLock(rdb, bootstrapLockID, cfg.Bootstrap.LockTTL)
		checks = append(checks, handler.DependencyCheck{Name: "redis", Ping: pingRedis(rdb)})
	}

	hasher := security.NewBcryptHasher(cfg.Auth.BcryptCost)
	tokens, err := security.NewJWTCodec(cfg.Auth.JWTSecret, security.DefaultTokenTTL)
	if err != nil {
		return fmt.Errorf("token codec: %w", err)
	}

	boot := service.NewBootstrapper(repo, hasher, lock, service.BootstrapOptions{
		AdminUsername:  cfg.Bootstrap.AdminUsername,
		AdminPassword:  cfg.Bootstrap.AdminPassword,
		AdminFirstname: cfg.Bootstrap.AdminFirstname,
		AdminLastname:  cfg.Bootstrap.AdminLastname,
		ResetSchema:    cfg.Bootstrap.ResetSchema,
	}, logger.For("bootstrap"))
	if err := boot.Run(ctx); err != nil {
		return err
	}

	e := api.NewRouter(api.Dependencies{
		AuthService: service.NewAuthService(repo, hasher, tokens, logger.For("auth")),
		UserService: service.NewUserService(repo, hasher, logger.For("users")),
		Tokens:      tokens,
		Checks:      checks,
		Registerer:  prometheus.DefaultRegisterer,
		Gatherer:    prometheus.DefaultGatherer,
		Logger:      logger.For("http"),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.StoreDriver).Msg("starting server")
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

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// openStore connects the configured user store and returns it with its
// cleanup function.
func openStore(ctx context.Context, cfg *config.Config) (ports.UserRepository, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		pool, err := pgstore.Connect(ctx, pgstore.Config{DSN: cfg.Postgres.DSN})
		if err != nil {
			return nil, nil, err
		}
		return pgstore.NewUserRepository(pool), pool.Close, nil
	default:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = client.Disconnect(disconnectCtx)
		}
		return mongostore.NewUserRepository(db), closeFn, nil
	}
}

func pingRedis(rdb *goredis.Client) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	}
}
