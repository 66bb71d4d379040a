// Package session keeps the single authoritative session record of every
// identity. A record holds the hashes of the only token pair that is still
// usable; deleting or expiring it invalidates that pair regardless of the
// tokens' signed expiry.
package session

import (
	"context"
	"time"

	"github.com/piercey/auth-service/internal/domain"
)

// DefaultTTL is how long a record lives after its last write.
const DefaultTTL = 10 * time.Minute

// DefaultNamespace prefixes every session key.
const DefaultNamespace = "auth-token"

// Store is a TTL-bound key-value store of session records, one per identity.
type Store interface {
	// Put replaces the record of identity. Both hashes are written together.
	Put(ctx context.Context, identity, accessHash, refreshHash string) error
	// Get returns the record of identity and whether it exists.
	Get(ctx context.Context, identity string) (domain.SessionRecord, bool, error)
	// Evict removes the record of identity. Evicting an absent record is a no-op.
	Evict(ctx context.Context, identity string) error
	// TTL is the remaining lifetime of the record, negative when absent.
	TTL(ctx context.Context, identity string) (time.Duration, error)
}
