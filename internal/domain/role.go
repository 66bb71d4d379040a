package domain

import "strings"

// Action enumerates what a permission allows on a resource.
type Action string

const (
	ActionCreate Action = "CREATE"
	ActionRead   Action = "READ"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
)

// AllActions lists every action a permission may grant.
var AllActions = []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete}

// Permission grants actions on a resource class.
type Permission struct {
	Resource string
	Actions  []Action
}

// HasAction reports whether the permission grants action.
func (p Permission) HasAction(action Action) bool {
	for _, a := range p.Actions {
		if a == action {
			return true
		}
	}
	return false
}

// HasAllActions reports whether every action is granted.
func (p Permission) HasAllActions() bool {
	for _, action := range AllActions {
		if !p.HasAction(action) {
			return false
		}
	}
	return true
}

// Role is a named set of permissions scoped to a company.
type Role struct {
	ID          string
	Name        string
	CompanyID   string
	Permissions []Permission
}

// HasFullEntitlement reports whether the role allows every action on resource.
// Resource names compare case-insensitively.
func (r Role) HasFullEntitlement(resource string) bool {
	for _, p := range r.Permissions {
		if strings.EqualFold(p.Resource, resource) && p.HasAllActions() {
			return true
		}
	}
	return false
}

// RoleAssociation links an identity to a role.
type RoleAssociation struct {
	ID         string
	IdentityID string
	RoleID     string
}
