package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/piercey/auth-service/internal/api/http"
	"github.com/piercey/auth-service/internal/api/http/handlers"
	"github.com/piercey/auth-service/internal/auth"
	"github.com/piercey/auth-service/internal/config"
	"github.com/piercey/auth-service/internal/events"
	"github.com/piercey/auth-service/internal/identity"
	"github.com/piercey/auth-service/internal/observability"
	"github.com/piercey/auth-service/internal/persistence"
	"github.com/piercey/auth-service/internal/repository"
	"github.com/piercey/auth-service/internal/service"
	"github.com/piercey/auth-service/internal/session"
	"github.com/piercey/auth-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(cfg.Postgres.DSN, persistence.MigrateUp, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(logger)
	worker.StartAuditWorker(service.NewAuditService(dispatcher, logger, metrics))

	pool := pg.PoolHandle()
	identityRepo := repository.NewIdentityRepository(pool)
	credentialRepo := repository.NewCredentialRepository(pool)
	roleRepo := repository.NewRoleRepository(pool)

	tokenService := service.NewTokenService(cfg.Auth, service.TokenDependencies{
		Registry:   identityRepo,
		Provider:   identity.NewDirectoryProvider(identityRepo, credentialRepo),
		Roles:      roleRepo,
		Sessions:   session.NewRedisStore(redis.Client, cfg.Auth.SessionNamespace, cfg.Auth.SessionTTL()),
		Dispatcher: dispatcher,
		Logger:     logger,
		Metrics:    metrics,
	})

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: !cfg.App.IsDevelopment(),
		ProxyHeader:           cfg.App.ProxyHeader,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Tokens:         handlers.NewTokenHandler(tokenService),
		Roles:          handlers.NewRolesHandler(tokenService),
		AuthMiddleware: auth.NewAuthMiddleware(tokenService),
		Entitlements:   tokenService,
		AdminResource:  cfg.Auth.RevokeResource,
		RateLimit:      cfg.RateLimit,
		Metrics:        metrics,
		Logger:         logger,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(cfg.App.RequestTimeout()); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
