package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/piercey/auth-service/internal/domain"
	apperrors "github.com/piercey/auth-service/pkg/util/errorutil"
)

// SessionStatus reports whether identity has a live session record and how
// long it has left.
func (s *TokenService) SessionStatus(ctx context.Context, identity string) (*domain.SessionStatus, error) {
	identity = strings.TrimSpace(identity)
	if identity == "" {
		return nil, apperrors.NewValidationError("user id is required", nil)
	}

	_, found, err := s.sessions.Get(ctx, identity)
	if err != nil {
		return nil, apperrors.NewInternalError(fmt.Errorf("load session: %w", err))
	}
	status := &domain.SessionStatus{Identity: identity, Active: found}
	if !found {
		return status, nil
	}

	ttl, err := s.sessions.TTL(ctx, identity)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if ttl > 0 {
		status.ExpiresIn = ttl.Round(time.Second)
	}
	return status, nil
}
