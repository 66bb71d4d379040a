package auth

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/piercey/auth-service/pkg/util/errorutil"
)

// EntitlementChecker reports whether an identity holds every action on a
// resource.
type EntitlementChecker interface {
	Entitled(ctx context.Context, identity, resource string) (bool, error)
}

// RequireEntitlement ensures the principal has full entitlement on resource.
// It must run after AuthMiddleware.Handle.
func RequireEntitlement(checker EntitlementChecker, resource string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
		}
		entitled, err := checker.Entitled(c.UserContext(), principal.Identity, resource)
		if err != nil {
			return err
		}
		if !entitled {
			return apperrors.NewForbidden("insufficient entitlement")
		}
		return c.Next()
	}
}

// RequirePrincipal ensures a caller is authenticated.
func RequirePrincipal() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
		}
		return c.Next()
	}
}
