package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/piercey/auth-service/internal/domain"
	apperrors "github.com/piercey/auth-service/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	Identity string
	Token    string
}

// BearerValidator validates a token against the subject it carries.
type BearerValidator interface {
	ValidateBearer(ctx context.Context, token string, typ domain.TokenType) (string, error)
}

// AuthMiddleware validates bearer access tokens and loads principals.
type AuthMiddleware struct {
	validator BearerValidator
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(validator BearerValidator) *AuthMiddleware {
	return &AuthMiddleware{validator: validator}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	token, ok := BearerToken(c.Get(fiber.HeaderAuthorization))
	if !ok {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	identity, err := m.validator.ValidateBearer(c.UserContext(), token, domain.TokenTypeAccess)
	if err != nil {
		return err
	}

	c.Locals(principalKey, &Principal{Identity: identity, Token: token})
	return c.Next()
}

// BearerToken extracts the token from an Authorization header. Both
// "Bearer <token>" and "Bearer:<token>" are accepted.
func BearerToken(header string) (string, bool) {
	header = strings.TrimSpace(header)
	const scheme = "bearer"
	if len(header) <= len(scheme) || !strings.EqualFold(header[:len(scheme)], scheme) {
		return "", false
	}

	rest := header[len(scheme):]
	switch {
	case rest[0] == ':':
		rest = rest[1:]
	case rest[0] == ' ' || rest[0] == '\t':
	default:
		return "", false
	}

	token := strings.TrimSpace(rest)
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", false
	}
	return token, true
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
