package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/piercey/auth-service/internal/domain"
)

// CredentialRepository stores password hashes apart from identity data.
type CredentialRepository interface {
	Upsert(ctx context.Context, credential *domain.Credential) error
	GetByIdentity(ctx context.Context, identityID string) (*domain.Credential, error)
}

type credentialRepository struct {
	pool *pgxpool.Pool
}

// NewCredentialRepository constructs repository.
func NewCredentialRepository(pool *pgxpool.Pool) CredentialRepository {
	return &credentialRepository{pool: pool}
}

func (r *credentialRepository) Upsert(ctx context.Context, credential *domain.Credential) error {
	const query = `
        INSERT INTO credentials (identity_id, password_hash)
        VALUES ($1, $2)
        ON CONFLICT (identity_id) DO UPDATE SET password_hash=EXCLUDED.password_hash, updated_at=NOW()
        RETURNING updated_at`

	return r.pool.QueryRow(ctx, query,
		credential.IdentityID,
		credential.PasswordHash,
	).Scan(&credential.UpdatedAt)
}

func (r *credentialRepository) GetByIdentity(ctx context.Context, identityID string) (*domain.Credential, error) {
	const query = `
        SELECT identity_id, password_hash, updated_at
        FROM credentials WHERE identity_id=$1`

	var credential domain.Credential
	if err := r.pool.QueryRow(ctx, query, identityID).Scan(
		&credential.IdentityID,
		&credential.PasswordHash,
		&credential.UpdatedAt,
	); err != nil {
		return nil, mapNoRows(err)
	}
	return &credential, nil
}
