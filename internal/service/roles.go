package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/piercey/auth-service/internal/domain"
	"github.com/piercey/auth-service/internal/repository"
	apperrors "github.com/piercey/auth-service/pkg/util/errorutil"
)

// Entitled reports whether identity holds a role with every action on
// resource. Associations pointing at missing roles are skipped.
func (s *TokenService) Entitled(ctx context.Context, identity, resource string) (bool, error) {
	roles, err := s.rolesOf(ctx, identity)
	if err != nil {
		return false, err
	}
	for _, role := range roles {
		if role.HasFullEntitlement(resource) {
			return true, nil
		}
	}
	return false, nil
}

// ListRoles returns the roles of target, or of caller when target is blank.
// Listing someone else's roles needs the same entitlement as revoking them.
func (s *TokenService) ListRoles(ctx context.Context, caller, target string) ([]domain.Role, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		target = caller
	}
	if target != caller {
		entitled, err := s.Entitled(ctx, caller, s.revokeResource)
		if err != nil {
			return nil, err
		}
		if !entitled {
			return nil, apperrors.NewForbidden("unauthorized to list roles")
		}
	}
	return s.rolesOf(ctx, target)
}

func (s *TokenService) rolesOf(ctx context.Context, identity string) ([]domain.Role, error) {
	assocs, err := s.roles.FindRoleAssociationsByIdentity(ctx, identity)
	if err != nil {
		return nil, apperrors.NewInternalError(fmt.Errorf("find role associations: %w", err))
	}

	roles := make([]domain.Role, 0, len(assocs))
	for _, assoc := range assocs {
		role, err := s.roles.FindRole(ctx, assoc.RoleID)
		if errors.Is(err, repository.ErrNotFound) || (err == nil && role == nil) {
			continue
		}
		if err != nil {
			return nil, apperrors.NewInternalError(fmt.Errorf("find role %s: %w", assoc.RoleID, err))
		}
		roles = append(roles, *role)
	}
	return roles, nil
}
