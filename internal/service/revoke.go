package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/piercey/auth-service/internal/domain"
	"github.com/piercey/auth-service/internal/events"
	"github.com/piercey/auth-service/internal/observability"
	apperrors "github.com/piercey/auth-service/pkg/util/errorutil"
)

// Logout ends the session of the identity that owns bearerToken.
func (s *TokenService) Logout(ctx context.Context, bearerToken string) (err error) {
	defer observability.Track(s.logger, s.metrics, "logout")(&err)

	if strings.TrimSpace(bearerToken) == "" {
		return apperrors.NewUnauthorizedReason(ErrMissingBearerToken)
	}
	identity, err := s.ValidateBearer(ctx, bearerToken, domain.TokenTypeAccess)
	if err != nil {
		return err
	}

	if err := s.sessions.Evict(ctx, identity); err != nil {
		return apperrors.NewInternalError(fmt.Errorf("evict session: %w", err))
	}

	s.metrics.RecordSessionEvicted("logout")
	s.publish(ctx, events.NewEvent(events.EventLoggedOut, identity, identity, nil))
	s.logger.Info("session logged out", zap.String("identity", identity))
	return nil
}

// Revoke ends the session of target on behalf of the owner of callerToken.
// Revoking another identity requires full entitlement on the privileged
// resource.
func (s *TokenService) Revoke(ctx context.Context, callerToken, target string) (err error) {
	defer observability.Track(s.logger, s.metrics, "revoke")(&err)

	target = strings.TrimSpace(target)
	if target == "" {
		return apperrors.NewValidationError("user id is required", nil)
	}
	if strings.TrimSpace(callerToken) == "" {
		return apperrors.NewValidationError("access token is required", nil)
	}

	caller, err := s.ValidateBearer(ctx, callerToken, domain.TokenTypeAccess)
	if err != nil {
		return err
	}

	if caller != target {
		entitled, err := s.Entitled(ctx, caller, s.revokeResource)
		if err != nil {
			return err
		}
		if !entitled {
			s.logger.Warn("revocation denied", zap.String("caller", caller), zap.String("target", target))
			return apperrors.NewForbidden("unauthorized to revoke token")
		}
	}

	if err := s.sessions.Evict(ctx, target); err != nil {
		return apperrors.NewInternalError(fmt.Errorf("evict session: %w", err))
	}

	s.metrics.RecordSessionEvicted("revoke")
	s.publish(ctx, events.NewEvent(events.EventSessionRevoked, target, caller, nil))
	s.logger.Info("session revoked", zap.String("identity", target), zap.String("caller", caller))
	return nil
}
