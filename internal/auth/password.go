package auth

import "golang.org/x/crypto/bcrypt"

// CredentialDigest is the form in which a password is handed to the identity
// provider. The plaintext never leaves the token endpoint.
func CredentialDigest(password string) string {
	return HashToken(password)
}

// HashPassword hashes a credential digest with configured cost.
func HashPassword(digest string, cost int) (string, error) {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(digest), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a credential digest against its hashed value.
func ComparePassword(hashed, digest string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(digest))
}
