package app

import (
	"context"
	"fmt"

	"github.com/upb/resource-api/config"
	"github.com/upb/resource-api/handlers"
	"github.com/upb/resource-api/middleware"
	"github.com/upb/resource-api/oidc"
	"go.uber.org/zap"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	Logger *zap.Logger

	// Auth
	Verifier       *oidc.Verifier
	Policy         *middleware.RoutePolicy
	AuthMiddleware *middleware.AuthMiddleware

	// Handlers
	HealthHandler *handlers.HealthHandler
	UserHandler   *handlers.UserHandler
}

// NewDependencies creates and wires up all application dependencies.
// The issuer must be reachable: discovery or key loading failures abort startup.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
		Policy: middleware.DefaultRoutePolicy(),
	}

	if err := deps.initAuth(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize auth: %w", err)
	}

	deps.initHandlers(cfg)

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

func (d *Dependencies) initAuth(ctx context.Context, cfg *config.Config) error {
	verifier, err := oidc.NewVerifier(ctx, oidc.Config{
		IssuerURI:       cfg.Auth.IssuerURI,
		Audience:        cfg.Auth.Audience,
		ClockSkew:       cfg.Auth.ClockSkew,
		RefreshInterval: cfg.Auth.JWKSRefreshInterval,
		HTTPTimeout:     cfg.Auth.HTTPTimeout,
	}, d.Logger.Named("oidc"))
	if err != nil {
		return err
	}

	d.Verifier = verifier
	d.AuthMiddleware = middleware.NewAuthMiddleware(verifier, d.Policy, d.Logger)

	for _, rule := range d.Policy.Rules() {
		d.Logger.Debug("route rule",
			zap.String("pattern", rule.Pattern),
			zap.Stringer("disposition", rule.Disposition))
	}
	d.Logger.Info("auth initialized", zap.String("issuer", verifier.Issuer()))
	return nil
}

func (d *Dependencies) initHandlers(cfg *config.Config) {
	d.HealthHandler = handlers.NewHealthHandler(cfg.Service, cfg.Environment, d.Verifier, d.Logger)
	d.UserHandler = handlers.NewUserHandler(d.Logger)
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	// Sync logger; stdout sync errors are expected on some platforms
	if d.Logger != nil {
		_ = d.Logger.Sync()
	}

	return nil
}
