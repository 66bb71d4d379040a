package handlers

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/piercey/auth-service/internal/api/dto"
	"github.com/piercey/auth-service/internal/auth"
	"github.com/piercey/auth-service/internal/domain"
)

// RoleLister lists the roles of an identity on behalf of a caller.
type RoleLister interface {
	ListRoles(ctx context.Context, caller, target string) ([]domain.Role, error)
}

// RolesHandler exposes role lookups.
type RolesHandler struct {
	roles RoleLister
}

// NewRolesHandler constructs handler.
func NewRolesHandler(roles RoleLister) *RolesHandler {
	return &RolesHandler{roles: roles}
}

// List handles GET /api/roles.
func (h *RolesHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	roles, err := h.roles.ListRoles(c.UserContext(), principal.Identity, c.Query("user_id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRoleResponses(roles)})
}
