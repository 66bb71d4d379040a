package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/piercey/auth-service/internal/auth"
	"github.com/piercey/auth-service/internal/domain"
	"github.com/piercey/auth-service/internal/events"
	"github.com/piercey/auth-service/internal/observability"
	apperrors "github.com/piercey/auth-service/pkg/util/errorutil"
)

const (
	GrantPassword = "password"
	GrantRefresh  = "refresh_token"
)

// TokenRequest carries either credentials or a refresh token.
type TokenRequest struct {
	Username     string
	Password     string
	RefreshToken string
}

// AcquireTokens authenticates the request and replaces the caller's session
// with a freshly minted token pair. A refresh token takes precedence over
// credentials when both are present.
func (s *TokenService) AcquireTokens(ctx context.Context, req TokenRequest) (pair *domain.TokenPair, err error) {
	defer observability.Track(s.logger, s.metrics, "acquire_tokens")(&err)

	username := strings.TrimSpace(req.Username)
	refresh := strings.TrimSpace(req.RefreshToken)
	if username == "" && refresh == "" {
		return nil, apperrors.NewValidationError("missing credentials", nil)
	}

	var (
		identity      string
		authenticated string
		grant         string
	)
	if refresh != "" {
		grant = GrantRefresh
		identity = auth.SubjectFromToken(refresh)
		if err := s.Validate(ctx, identity, refresh, domain.TokenTypeRefresh); err != nil {
			return nil, err
		}
		authenticated, err = s.provider.AuthenticateRefresh(ctx, refresh)
	} else {
		grant = GrantPassword
		if req.Password == "" {
			return nil, apperrors.NewValidationError("password is required", nil)
		}
		identity, err = s.resolveIdentity(ctx, username)
		if err != nil {
			return nil, err
		}
		authenticated, err = s.provider.Authenticate(ctx, identity, auth.CredentialDigest(req.Password))
	}
	if err != nil {
		return nil, collaboratorError(err)
	}
	if authenticated != identity {
		return nil, apperrors.NewUnauthorizedReason(ErrIdentityMismatch)
	}

	pair, err = s.issue(ctx, identity)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordTokensIssued(grant)
	eventType := events.EventSessionIssued
	if grant == GrantRefresh {
		eventType = events.EventSessionRefreshed
	}
	s.publish(ctx, events.NewEvent(eventType, identity, identity, events.SessionIssuedPayload{
		Grant:     grant,
		ExpiresAt: pair.ExpiresAt,
	}))
	s.logger.Info("token pair issued", zap.String("identity", identity), zap.String("grant", grant))
	return pair, nil
}

func (s *TokenService) resolveIdentity(ctx context.Context, username string) (string, error) {
	matches, err := s.registry.FindByUsername(ctx, username)
	if err != nil {
		return "", apperrors.NewInternalError(fmt.Errorf("find identity: %w", err))
	}
	if len(matches) != 1 || matches[0].ID == "" {
		return "", apperrors.NewUnauthorizedReason(fmt.Errorf("%w %s", ErrAuthenticationFailed, username))
	}
	return matches[0].ID, nil
}

// issue mints both tokens and records their hashes. Nothing is returned
// unless the session write succeeded.
func (s *TokenService) issue(ctx context.Context, identity string) (*domain.TokenPair, error) {
	now := s.now()

	access, err := s.signer.Sign(identity, domain.TokenTypeAccess, now)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	refresh, err := s.signer.Sign(identity, domain.TokenTypeRefresh, now)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	if err := s.sessions.Put(ctx, identity, auth.HashToken(access), auth.HashToken(refresh)); err != nil {
		return nil, apperrors.NewInternalError(fmt.Errorf("store session: %w", err))
	}

	lifespan := s.signer.Lifespan()
	return &domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    now.Add(lifespan),
		ExpiresIn:    lifespan,
	}, nil
}

// collaboratorError keeps domain errors from collaborators and treats
// anything else as a transport failure.
func collaboratorError(err error) error {
	var domainErr *apperrors.DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	return apperrors.NewInternalError(err)
}
