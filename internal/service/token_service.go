package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/piercey/auth-service/internal/auth"
	"github.com/piercey/auth-service/internal/config"
	"github.com/piercey/auth-service/internal/domain"
	"github.com/piercey/auth-service/internal/events"
	"github.com/piercey/auth-service/internal/observability"
	"github.com/piercey/auth-service/internal/session"
)

// IdentityRegistry resolves a username to the identities registered under it.
type IdentityRegistry interface {
	FindByUsername(ctx context.Context, username string) ([]domain.Identity, error)
}

// IdentityProvider authenticates an identity and returns the identity it
// vouches for.
type IdentityProvider interface {
	Authenticate(ctx context.Context, identity, passwordDigest string) (string, error)
	AuthenticateRefresh(ctx context.Context, refreshToken string) (string, error)
}

// RoleStore resolves the roles held by an identity.
type RoleStore interface {
	FindRoleAssociationsByIdentity(ctx context.Context, identity string) ([]domain.RoleAssociation, error)
	FindRole(ctx context.Context, roleID string) (*domain.Role, error)
}

// TokenDependencies encapsulates the collaborators of the token engine.
type TokenDependencies struct {
	Registry   IdentityRegistry
	Provider   IdentityProvider
	Roles      RoleStore
	Sessions   session.Store
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Metrics    *observability.Metrics

	// Signer and Clock default to ones built from the auth config.
	Signer *auth.Signer
	Clock  func() time.Time
}

// TokenService issues, validates and revokes token pairs.
type TokenService struct {
	signer         *auth.Signer
	sessions       session.Store
	registry       IdentityRegistry
	provider       IdentityProvider
	roles          RoleStore
	dispatcher     events.Dispatcher
	logger         *zap.Logger
	metrics        *observability.Metrics
	revokeResource string
	now            func() time.Time
}

// NewTokenService builds the service.
func NewTokenService(cfg config.AuthConfig, deps TokenDependencies) *TokenService {
	now := deps.Clock
	if now == nil {
		now = time.Now
	}
	signer := deps.Signer
	if signer == nil {
		signer = auth.NewSigner(auth.SignerConfig{
			Secret:   cfg.TokenSecret,
			Issuer:   cfg.TokenIssuer,
			Lifespan: cfg.TokenLifespan(),
		}, auth.WithClock(now))
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	resource := cfg.RevokeResource
	if resource == "" {
		resource = "Users"
	}

	return &TokenService{
		signer:         signer,
		sessions:       deps.Sessions,
		registry:       deps.Registry,
		provider:       deps.Provider,
		roles:          deps.Roles,
		dispatcher:     deps.Dispatcher,
		logger:         logger,
		metrics:        deps.Metrics,
		revokeResource: resource,
		now:            now,
	}
}

func (s *TokenService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}
