// Package identity authenticates identities against the local directory
// tables: identities and their bcrypt credentials.
package identity

import (
	"context"
	"errors"

	"github.com/piercey/auth-service/internal/auth"
	"github.com/piercey/auth-service/internal/repository"
	apperrors "github.com/piercey/auth-service/pkg/util/errorutil"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactive           = errors.New("identity is inactive")
	ErrUnknownSubject     = errors.New("refresh token has no known subject")
)

// DirectoryProvider verifies credentials stored in Postgres.
type DirectoryProvider struct {
	identities  repository.IdentityRepository
	credentials repository.CredentialRepository
}

// NewDirectoryProvider builds the provider.
func NewDirectoryProvider(identities repository.IdentityRepository, credentials repository.CredentialRepository) *DirectoryProvider {
	return &DirectoryProvider{identities: identities, credentials: credentials}
}

// Authenticate checks passwordDigest (the hex SHA-256 of the password)
// against the stored bcrypt hash and returns the authenticated identity id.
func (p *DirectoryProvider) Authenticate(ctx context.Context, identityID, passwordDigest string) (string, error) {
	if identityID == "" || passwordDigest == "" {
		return "", apperrors.NewUnauthorizedReason(ErrInvalidCredentials)
	}

	id, err := p.activeIdentity(ctx, identityID, ErrInvalidCredentials)
	if err != nil {
		return "", err
	}

	credential, err := p.credentials.GetByIdentity(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", apperrors.NewUnauthorizedReason(ErrInvalidCredentials)
		}
		return "", apperrors.NewInternalError(err)
	}
	if err := auth.ComparePassword(credential.PasswordHash, passwordDigest); err != nil {
		return "", apperrors.NewUnauthorizedReason(ErrInvalidCredentials)
	}
	return id, nil
}

// AuthenticateRefresh confirms the subject of a refresh token is still an
// active identity. The token itself is verified by the caller.
func (p *DirectoryProvider) AuthenticateRefresh(ctx context.Context, refreshToken string) (string, error) {
	subject := auth.SubjectFromToken(refreshToken)
	if subject == "" {
		return "", apperrors.NewUnauthorizedReason(ErrUnknownSubject)
	}
	return p.activeIdentity(ctx, subject, ErrUnknownSubject)
}

func (p *DirectoryProvider) activeIdentity(ctx context.Context, id string, notFound error) (string, error) {
	identity, err := p.identities.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", apperrors.NewUnauthorizedReason(notFound)
		}
		return "", apperrors.NewInternalError(err)
	}
	if !identity.Active {
		return "", apperrors.NewUnauthorizedReason(ErrInactive)
	}
	return identity.ID, nil
}
