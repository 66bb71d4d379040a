package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/piercey/auth-service/internal/domain"
)

// IdentityRepository is the identity registry: it maps usernames to identities.
type IdentityRepository interface {
	// Create assigns a random id unless identity.ID is set.
	Create(ctx context.Context, identity *domain.Identity) error
	GetByID(ctx context.Context, id string) (*domain.Identity, error)
	FindByUsername(ctx context.Context, username string) ([]domain.Identity, error)
}

type identityRepository struct {
	pool *pgxpool.Pool
}

// NewIdentityRepository returns a Postgres-backed implementation.
func NewIdentityRepository(pool *pgxpool.Pool) IdentityRepository {
	return &identityRepository{pool: pool}
}

func (r *identityRepository) Create(ctx context.Context, identity *domain.Identity) error {
	const query = `
        INSERT INTO identities (id, username, active)
        VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, $3)
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		identity.ID,
		identity.Username,
		identity.Active,
	).Scan(&identity.ID, &identity.CreatedAt)
}

func (r *identityRepository) GetByID(ctx context.Context, id string) (*domain.Identity, error) {
	const query = `
        SELECT id, username, active, created_at
        FROM identities WHERE id=$1`

	var identity domain.Identity
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&identity.ID,
		&identity.Username,
		&identity.Active,
		&identity.CreatedAt,
	); err != nil {
		return nil, mapNoRows(err)
	}
	return &identity, nil
}

func (r *identityRepository) FindByUsername(ctx context.Context, username string) ([]domain.Identity, error) {
	const query = `
        SELECT id, username, active, created_at
        FROM identities WHERE lower(username)=lower($1)
        ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var identities []domain.Identity
	for rows.Next() {
		var identity domain.Identity
		if err := rows.Scan(
			&identity.ID,
			&identity.Username,
			&identity.Active,
			&identity.CreatedAt,
		); err != nil {
			return nil, err
		}
		identities = append(identities, identity)
	}
	return identities, rows.Err()
}
