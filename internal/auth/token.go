package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/piercey/auth-service/internal/domain"
)

// DefaultLifespan applies when SignerConfig.Lifespan is not set.
const DefaultLifespan = 120 * time.Minute

var errUnexpectedAlgorithm = errors.New("unexpected signing method")

// SignerConfig is the key material and claim policy of a Signer.
type SignerConfig struct {
	Secret   string
	Issuer   string
	Lifespan time.Duration
}

// Signer issues and verifies HS256 tokens.
type Signer struct {
	secret   []byte
	issuer   string
	lifespan time.Duration
	now      func() time.Time
}

// SignerOption customizes a Signer.
type SignerOption func(*Signer)

// WithClock overrides the clock used to check expiry during verification.
func WithClock(now func() time.Time) SignerOption {
	return func(s *Signer) {
		s.now = now
	}
}

// NewSigner builds a signer from explicit configuration.
func NewSigner(cfg SignerConfig, opts ...SignerOption) *Signer {
	lifespan := cfg.Lifespan
	if lifespan <= 0 {
		lifespan = DefaultLifespan
	}
	s := &Signer{
		secret:   []byte(cfg.Secret),
		issuer:   cfg.Issuer,
		lifespan: lifespan,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Lifespan returns the signed lifetime of issued tokens.
func (s *Signer) Lifespan() time.Duration {
	return s.lifespan
}

// Sign builds and signs a token of the given type for subject.
func (s *Signer) Sign(subject string, typ domain.TokenType, now time.Time) (string, error) {
	if subject == "" {
		return "", errors.New("sign: subject is required")
	}

	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    s.issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.lifespan)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token.Header["typ"] = typ.HeaderValue()

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", typ, err)
	}
	return signed, nil
}

// Verify checks the signature, issuer, subject and expiry of tokenStr.
// Failures are returned as *VerificationError.
func (s *Signer) Verify(tokenStr, expectedSubject string) (*domain.Token, error) {
	if expectedSubject == "" {
		return nil, &VerificationError{Kind: KindMissingClaim, Err: errors.New("expected subject is empty")}
	}

	parser := jwt.NewParser(
		jwt.WithIssuer(s.issuer),
		jwt.WithSubject(expectedSubject),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(s.now),
	)

	var claims jwt.RegisteredClaims
	parsed, err := parser.ParseWithClaims(tokenStr, &claims, s.keyFunc)
	if err != nil {
		return nil, classify(err)
	}

	typ, _ := parsed.Header["typ"].(string)
	tokenType, ok := domain.TokenTypeFromHeader(typ)
	if !ok {
		return nil, &VerificationError{Kind: KindInvalidClaim, Err: fmt.Errorf("unknown token type %q", typ)}
	}

	token := &domain.Token{
		ID:      claims.ID,
		Subject: claims.Subject,
		Issuer:  claims.Issuer,
		Type:    tokenType,
	}
	if claims.IssuedAt != nil {
		token.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		token.ExpiresAt = claims.ExpiresAt.Time
	}
	return token, nil
}

func (s *Signer) keyFunc(token *jwt.Token) (interface{}, error) {
	if token.Method != jwt.SigningMethodHS256 {
		return nil, fmt.Errorf("%w: %v", errUnexpectedAlgorithm, token.Header["alg"])
	}
	return s.secret, nil
}

func classify(err error) *VerificationError {
	kind := KindInvalidClaim
	switch {
	case errors.Is(err, errUnexpectedAlgorithm), errors.Is(err, jwt.ErrTokenUnverifiable):
		kind = KindAlgorithmMismatch
	case errors.Is(err, jwt.ErrTokenMalformed):
		kind = KindMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrSignatureInvalid):
		kind = KindBadSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		kind = KindExpired
	case errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		kind = KindMissingClaim
	}
	return &VerificationError{Kind: kind, Err: err}
}

// SubjectFromToken reads the "sub" claim without verifying the token.
// It returns an empty string when the token cannot be decoded.
func SubjectFromToken(tokenStr string) string {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, &claims); err != nil {
		return ""
	}
	return claims.Subject
}
