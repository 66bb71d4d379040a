package handlers

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/piercey/auth-service/internal/api/dto"
	"github.com/piercey/auth-service/internal/auth"
	"github.com/piercey/auth-service/internal/domain"
	"github.com/piercey/auth-service/internal/service"
)

// TokenEngine is the part of the token service exposed over HTTP.
type TokenEngine interface {
	AcquireTokens(ctx context.Context, req service.TokenRequest) (*domain.TokenPair, error)
	ValidateBearer(ctx context.Context, token string, typ domain.TokenType) (string, error)
	Logout(ctx context.Context, bearerToken string) error
	Revoke(ctx context.Context, callerToken, target string) error
	SessionStatus(ctx context.Context, identity string) (*domain.SessionStatus, error)
}

// TokenHandler exposes the OAuth-style token endpoints.
type TokenHandler struct {
	tokens TokenEngine
}

// NewTokenHandler constructs handler.
func NewTokenHandler(tokens TokenEngine) *TokenHandler {
	return &TokenHandler{tokens: tokens}
}

// Token handles POST /api/oauth/token.
func (h *TokenHandler) Token(c *fiber.Ctx) error {
	var req dto.TokenRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	req.Normalize()

	pair, err := h.tokens.AcquireTokens(c.UserContext(), service.TokenRequest{
		Username:     req.Username,
		Password:     req.Password,
		RefreshToken: req.RefreshToken,
	})
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.JSON(dto.NewTokenResponse(pair))
}

// Validate handles POST /api/oauth/validate. The token is read from the body,
// or from the Authorization header when the body carries none.
func (h *TokenHandler) Validate(c *fiber.Ctx) error {
	var req dto.ValidateRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(http.StatusBadRequest, "invalid payload")
		}
	}
	req.Normalize()
	if req.AccessToken == "" {
		req.AccessToken, _ = auth.BearerToken(c.Get(fiber.HeaderAuthorization))
	}

	identity, err := h.tokens.ValidateBearer(c.UserContext(), req.AccessToken, domain.TokenTypeAccess)
	if err != nil {
		return err
	}
	return c.JSON(dto.ValidateResponse{Valid: true, Identity: identity})
}

// Logout handles POST /api/oauth/logout.
func (h *TokenHandler) Logout(c *fiber.Ctx) error {
	token, _ := auth.BearerToken(c.Get(fiber.HeaderAuthorization))
	if err := h.tokens.Logout(c.UserContext(), token); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "logged_out"}})
}

// Revoke handles POST /api/oauth/revoke.
func (h *TokenHandler) Revoke(c *fiber.Ctx) error {
	var req dto.RevokeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	req.Normalize()

	token, _ := auth.BearerToken(c.Get(fiber.HeaderAuthorization))
	if err := h.tokens.Revoke(c.UserContext(), token, req.UserID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "revoked", "user_id": req.UserID}})
}

// Session handles GET /api/oauth/sessions/:user_id.
func (h *TokenHandler) Session(c *fiber.Ctx) error {
	status, err := h.tokens.SessionStatus(c.UserContext(), c.Params("user_id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSessionStatusResponse(status)})
}
