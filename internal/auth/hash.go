package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// HashToken returns the hex SHA-256 digest stored in place of a token.
// Empty input hashes to an empty string so a blank token never matches.
func HashToken(token string) string {
	if token == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// HashMatches compares the digest of token with expectedHash in constant time.
func HashMatches(token, expectedHash string) bool {
	if token == "" || expectedHash == "" {
		return false
	}
	actual := HashToken(token)
	return subtle.ConstantTimeCompare([]byte(actual), []byte(expectedHash)) == 1
}
