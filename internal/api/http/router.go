package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"go.uber.org/zap"

	"github.com/piercey/auth-service/internal/api/http/handlers"
	"github.com/piercey/auth-service/internal/auth"
	"github.com/piercey/auth-service/internal/config"
	"github.com/piercey/auth-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Tokens         *handlers.TokenHandler
	Roles          *handlers.RolesHandler
	AuthMiddleware *auth.AuthMiddleware
	Entitlements   auth.EntitlementChecker
	AdminResource  string
	RateLimit      config.RateLimitConfig
	Metrics        *observability.Metrics
	Logger         *zap.Logger
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	api := app.Group("/api")

	oauth := api.Group("/oauth")
	oauth.Post("/token", RateLimit(cfg.RateLimit, ClientIP, logger), cfg.Tokens.Token)
	oauth.Post("/validate", cfg.Tokens.Validate)
	oauth.Post("/logout", cfg.Tokens.Logout)
	oauth.Post("/revoke", cfg.Tokens.Revoke)

	authenticated := []fiber.Handler{cfg.AuthMiddleware.Handle, auth.RequirePrincipal()}
	api.Get("/roles", append(authenticated, cfg.Roles.List)...)
	oauth.Get("/sessions/:user_id", append(authenticated,
		auth.RequireEntitlement(cfg.Entitlements, cfg.AdminResource),
		cfg.Tokens.Session)...)
}
