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

// Validate succeeds only when token is correctly signed for identity, has
// not expired, is of type typ and is the token currently recorded in the
// identity's session.
func (s *TokenService) Validate(ctx context.Context, identity, token string, typ domain.TokenType) (err error) {
	defer observability.Track(s.logger, s.metrics, "validate_token")(&err)

	if err := s.validate(ctx, identity, token, typ); err != nil {
		s.recordFailure(ctx, identity, typ, err)
		return err
	}
	return nil
}

// ValidateBearer validates token against the subject it carries and returns
// that subject.
func (s *TokenService) ValidateBearer(ctx context.Context, token string, typ domain.TokenType) (string, error) {
	identity := auth.SubjectFromToken(token)
	if err := s.Validate(ctx, identity, token, typ); err != nil {
		return "", err
	}
	return identity, nil
}

func (s *TokenService) validate(ctx context.Context, identity, token string, typ domain.TokenType) error {
	if strings.TrimSpace(identity) == "" {
		return apperrors.NewUnauthorizedReason(ErrMissingIdentity)
	}
	if strings.TrimSpace(token) == "" {
		return apperrors.NewUnauthorizedReason(ErrMissingToken)
	}

	verified, err := s.signer.Verify(token, identity)
	if err != nil {
		return apperrors.NewUnauthorizedReason(err)
	}
	if verified.Type != typ {
		return apperrors.NewUnauthorizedReason(&auth.VerificationError{
			Kind: auth.KindInvalidClaim,
			Err:  fmt.Errorf("token type %s, want %s", verified.Type, typ),
		})
	}

	record, found, err := s.sessions.Get(ctx, identity)
	if err != nil {
		return apperrors.NewInternalError(fmt.Errorf("load session: %w", err))
	}
	if !found || record.RefreshHash == "" {
		return apperrors.NewUnauthorizedReason(ErrTokenInvalidated)
	}
	if !auth.HashMatches(token, record.HashFor(typ)) {
		return apperrors.NewUnauthorizedReason(ErrTokenMismatch)
	}
	return nil
}

func (s *TokenService) recordFailure(ctx context.Context, identity string, typ domain.TokenType, err error) {
	if !apperrors.HasCode(err, apperrors.CodeUnauthorized) {
		return
	}
	reason := failureReason(err)
	s.metrics.RecordValidationFailure(reason)
	s.logger.Warn("token validation failed",
		zap.String("identity", identity),
		zap.String("token_type", string(typ)),
		zap.String("reason", reason),
		zap.Error(err))
	s.publish(ctx, events.NewEvent(events.EventValidationFailed, identity, "", events.ValidationFailedPayload{
		TokenType: string(typ),
		Reason:    reason,
	}))
}

// failureReason is a low-cardinality label for a validation failure.
func failureReason(err error) string {
	if kind, ok := auth.KindOf(err); ok {
		return string(kind)
	}
	switch {
	case errors.Is(err, ErrMissingIdentity):
		return "missing_identity"
	case errors.Is(err, ErrMissingToken):
		return "missing_token"
	case errors.Is(err, ErrTokenInvalidated):
		return "invalidated"
	case errors.Is(err, ErrTokenMismatch):
		return "mismatch"
	default:
		return "unknown"
	}
}
