package domain

import "time"

// Identity is a principal known to the identity registry.
type Identity struct {
	ID        string
	Username  string
	Active    bool
	CreatedAt time.Time
}

// Credential is the provider-side secret of an identity.
type Credential struct {
	IdentityID   string
	PasswordHash string
	UpdatedAt    time.Time
}
