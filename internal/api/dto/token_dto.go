package dto

import (
	"strings"
	"time"

	"github.com/piercey/auth-service/internal/domain"
)

// TokenRequest payload for POST /api/oauth/token.
type TokenRequest struct {
	Username     string `json:"username" form:"username"`
	Password     string `json:"password" form:"password"`
	RefreshToken string `json:"refresh_token" form:"refresh_token"`
}

// Normalize trims surrounding whitespace. The password is left as sent.
func (r *TokenRequest) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
	r.RefreshToken = strings.TrimSpace(r.RefreshToken)
}

// TokenResponse is the OAuth-style token pair response.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// NewTokenResponse converts a token pair.
func NewTokenResponse(pair *domain.TokenPair) TokenResponse {
	return TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(pair.ExpiresIn / time.Second),
	}
}

// ValidateRequest payload for POST /api/oauth/validate.
type ValidateRequest struct {
	AccessToken string `json:"access_token" form:"access_token"`
}

func (r *ValidateRequest) Normalize() {
	r.AccessToken = strings.TrimSpace(r.AccessToken)
}

// ValidateResponse reports the identity owning a valid token.
type ValidateResponse struct {
	Valid    bool   `json:"valid"`
	Identity string `json:"user_id"`
}

// RevokeRequest payload for POST /api/oauth/revoke.
type RevokeRequest struct {
	UserID string `json:"user_id" form:"user_id"`
}

func (r *RevokeRequest) Normalize() {
	r.UserID = strings.TrimSpace(r.UserID)
}

// SessionStatusResponse describes a session record.
type SessionStatusResponse struct {
	UserID    string `json:"user_id"`
	Active    bool   `json:"active"`
	ExpiresIn int64  `json:"expires_in"`
}

// NewSessionStatusResponse converts a session status.
func NewSessionStatusResponse(status *domain.SessionStatus) SessionStatusResponse {
	return SessionStatusResponse{
		UserID:    status.Identity,
		Active:    status.Active,
		ExpiresIn: int64(status.ExpiresIn / time.Second),
	}
}
