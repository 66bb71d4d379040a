package dto

import "github.com/piercey/auth-service/internal/domain"

// PermissionResponse describes a permission of a role.
type PermissionResponse struct {
	Resource string          `json:"resource"`
	Actions  []domain.Action `json:"actions"`
}

// RoleResponse describes a role.
type RoleResponse struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	CompanyID   string               `json:"company_id,omitempty"`
	Permissions []PermissionResponse `json:"permissions"`
}

// NewRoleResponses converts roles for output.
func NewRoleResponses(roles []domain.Role) []RoleResponse {
	out := make([]RoleResponse, 0, len(roles))
	for _, role := range roles {
		perms := make([]PermissionResponse, 0, len(role.Permissions))
		for _, p := range role.Permissions {
			perms = append(perms, PermissionResponse{Resource: p.Resource, Actions: p.Actions})
		}
		out = append(out, RoleResponse{
			ID:          role.ID,
			Name:        role.Name,
			CompanyID:   role.CompanyID,
			Permissions: perms,
		})
	}
	return out
}
