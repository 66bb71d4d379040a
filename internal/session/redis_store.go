package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/piercey/auth-service/internal/domain"
)

const (
	fieldAccess  = "access_token"
	fieldRefresh = "refresh_token"
)

// RedisStore keeps session records as Redis hashes under "<namespace>:<identity>".
type RedisStore struct {
	client    redis.Cmdable
	namespace string
	ttl       time.Duration
}

// NewRedisStore builds a store over client.
func NewRedisStore(client redis.Cmdable, namespace string, ttl time.Duration) *RedisStore {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, namespace: namespace, ttl: ttl}
}

// Put overwrites the record and restarts its TTL in one MULTI/EXEC block.
func (s *RedisStore) Put(ctx context.Context, identity, accessHash, refreshHash string) error {
	key := s.key(identity)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, fieldAccess, accessHash, fieldRefresh, refreshHash)
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("put session %s: %w", identity, err)
	}
	return nil
}

// Get does not extend the TTL.
func (s *RedisStore) Get(ctx context.Context, identity string) (domain.SessionRecord, bool, error) {
	var record domain.SessionRecord

	res := s.client.HGetAll(ctx, s.key(identity))
	if err := res.Err(); err != nil {
		return record, false, fmt.Errorf("get session %s: %w", identity, err)
	}
	if len(res.Val()) == 0 {
		return record, false, nil
	}
	if err := res.Scan(&record); err != nil {
		return record, false, fmt.Errorf("decode session %s: %w", identity, err)
	}
	return record, true, nil
}

func (s *RedisStore) Evict(ctx context.Context, identity string) error {
	if err := s.client.Del(ctx, s.key(identity)).Err(); err != nil {
		return fmt.Errorf("evict session %s: %w", identity, err)
	}
	return nil
}

// TTL returns the remaining lifetime of the record, or a negative duration
// when the record does not exist.
func (s *RedisStore) TTL(ctx context.Context, identity string) (time.Duration, error) {
	ttl, err := s.client.TTL(ctx, s.key(identity)).Result()
	if err != nil {
		return 0, fmt.Errorf("ttl session %s: %w", identity, err)
	}
	return ttl, nil
}

func (s *RedisStore) key(identity string) string {
	return s.namespace + ":" + identity
}
