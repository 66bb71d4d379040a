package auth

import (
	"errors"
	"fmt"
)

// VerificationKind identifies why a token failed verification.
type VerificationKind string

const (
	KindAlgorithmMismatch VerificationKind = "algorithm_mismatch"
	KindBadSignature      VerificationKind = "bad_signature"
	KindExpired           VerificationKind = "expired"
	KindMissingClaim      VerificationKind = "missing_claim"
	KindInvalidClaim      VerificationKind = "invalid_claim"
	KindMalformed         VerificationKind = "malformed"
)

// Sentinels for errors.Is; they match any VerificationError of the same kind.
var (
	ErrAlgorithmMismatch = &VerificationError{Kind: KindAlgorithmMismatch}
	ErrBadSignature      = &VerificationError{Kind: KindBadSignature}
	ErrExpired           = &VerificationError{Kind: KindExpired}
	ErrMissingClaim      = &VerificationError{Kind: KindMissingClaim}
	ErrInvalidClaim      = &VerificationError{Kind: KindInvalidClaim}
	ErrMalformed         = &VerificationError{Kind: KindMalformed}
)

// VerificationError is returned by Signer.Verify.
type VerificationError struct {
	Kind VerificationKind
	Err  error
}

func (e *VerificationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("token verification failed: %s", e.Kind)
	}
	return fmt.Sprintf("token verification failed: %s: %v", e.Kind, e.Err)
}

func (e *VerificationError) Unwrap() error {
	return e.Err
}

// Is matches sentinels by kind.
func (e *VerificationError) Is(target error) bool {
	t, ok := target.(*VerificationError)
	if !ok {
		return false
	}
	return t.Err == nil && t.Kind == e.Kind
}

// KindOf extracts the verification kind carried by err.
func KindOf(err error) (VerificationKind, bool) {
	var verr *VerificationError
	if !errors.As(err, &verr) {
		return "", false
	}
	return verr.Kind, true
}
