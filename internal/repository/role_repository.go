package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/piercey/auth-service/internal/domain"
)

// RoleRepository is the role assignment store.
type RoleRepository interface {
	FindRoleAssociationsByIdentity(ctx context.Context, identityID string) ([]domain.RoleAssociation, error)
	FindRole(ctx context.Context, roleID string) (*domain.Role, error)
	Assign(ctx context.Context, identityID, roleID string) error
}

type roleRepository struct {
	pool *pgxpool.Pool
}

// NewRoleRepository instantiates the repository.
func NewRoleRepository(pool *pgxpool.Pool) RoleRepository {
	return &roleRepository{pool: pool}
}

func (r *roleRepository) FindRoleAssociationsByIdentity(ctx context.Context, identityID string) ([]domain.RoleAssociation, error) {
	const query = `
        SELECT id, identity_id, role_id
        FROM identity_roles WHERE identity_id=$1`

	rows, err := r.pool.Query(ctx, query, identityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assocs []domain.RoleAssociation
	for rows.Next() {
		var assoc domain.RoleAssociation
		if err := rows.Scan(&assoc.ID, &assoc.IdentityID, &assoc.RoleID); err != nil {
			return nil, err
		}
		assocs = append(assocs, assoc)
	}
	return assocs, rows.Err()
}

func (r *roleRepository) FindRole(ctx context.Context, roleID string) (*domain.Role, error) {
	const roleQuery = `
        SELECT id, name, COALESCE(company_id::text, '')
        FROM roles WHERE id=$1`

	var role domain.Role
	if err := r.pool.QueryRow(ctx, roleQuery, roleID).Scan(&role.ID, &role.Name, &role.CompanyID); err != nil {
		return nil, mapNoRows(err)
	}

	const permQuery = `
        SELECT resource, actions
        FROM role_permissions WHERE role_id=$1
        ORDER BY resource`

	rows, err := r.pool.Query(ctx, permQuery, roleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			resource string
			actions  []string
		)
		if err := rows.Scan(&resource, &actions); err != nil {
			return nil, err
		}
		perm := domain.Permission{Resource: resource}
		for _, a := range actions {
			perm.Actions = append(perm.Actions, domain.Action(a))
		}
		role.Permissions = append(role.Permissions, perm)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) Assign(ctx context.Context, identityID, roleID string) error {
	const query = `
        INSERT INTO identity_roles (identity_id, role_id)
        VALUES ($1, $2)
        ON CONFLICT (identity_id, role_id) DO NOTHING`

	_, err := r.pool.Exec(ctx, query, identityID, roleID)
	return err
}
