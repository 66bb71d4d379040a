package domain

import "time"

// TokenType differentiates access tokens from refresh tokens.
type TokenType string

const (
	TokenTypeAccess  TokenType = "ACCESS"
	TokenTypeRefresh TokenType = "REFRESH"
)

// HeaderValue is the JWT "typ" header written for the token type.
func (t TokenType) HeaderValue() string {
	if t == TokenTypeRefresh {
		return "Refresh"
	}
	return "JWT"
}

// TokenTypeFromHeader maps a JWT "typ" header back to a TokenType.
func TokenTypeFromHeader(typ string) (TokenType, bool) {
	switch typ {
	case "JWT":
		return TokenTypeAccess, true
	case "Refresh":
		return TokenTypeRefresh, true
	default:
		return "", false
	}
}

// Token describes the verified contents of a signed token.
type Token struct {
	ID        string
	Subject   string
	Issuer    string
	Type      TokenType
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenPair is the result of a successful token acquisition.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	ExpiresIn    time.Duration
}

// SessionRecord holds the hashes of the only valid token pair of an identity.
type SessionRecord struct {
	AccessHash  string `redis:"access_token"`
	RefreshHash string `redis:"refresh_token"`
}

// HashFor returns the stored hash for the token type.
func (r SessionRecord) HashFor(t TokenType) string {
	if t == TokenTypeRefresh {
		return r.RefreshHash
	}
	return r.AccessHash
}

// SessionStatus describes the session record of an identity without
// exposing its hashes.
type SessionStatus struct {
	Identity  string
	Active    bool
	ExpiresIn time.Duration
}
