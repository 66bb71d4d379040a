package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

const identity = "0191c825-3a39-75d2-a90f-8e9bbde70698"

func newTestStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, "auth-token", ttl), mr
}

func TestRedisStorePutGet(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestStore(t, 10*time.Minute)

	_, found, err := store.Get(ctx, identity)
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, store.Put(ctx, identity, "access-1", "refresh-1"))

	rec, found, err := store.Get(ctx, identity)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "access-1", rec.AccessHash)
	require.Equal(t, "refresh-1", rec.RefreshHash)

	require.True(t, mr.Exists("auth-token:"+identity))
	require.Equal(t, "access-1", mr.HGet("auth-token:"+identity, "access_token"))
	require.Equal(t, 10*time.Minute, mr.TTL("auth-token:"+identity))
}

func TestRedisStorePutOverwrites(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestStore(t, 10*time.Minute)

	require.NoError(t, store.Put(ctx, identity, "access-1", "refresh-1"))
	mr.FastForward(4 * time.Minute)
	require.NoError(t, store.Put(ctx, identity, "access-2", "refresh-2"))

	rec, found, err := store.Get(ctx, identity)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "access-2", rec.AccessHash)
	require.Equal(t, "refresh-2", rec.RefreshHash)

	// TTL restarts from the last write.
	require.Equal(t, 10*time.Minute, mr.TTL("auth-token:"+identity))
}

func TestRedisStoreTTLExpiry(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestStore(t, 10*time.Minute)

	require.NoError(t, store.Put(ctx, identity, "access-1", "refresh-1"))

	mr.FastForward(9 * time.Minute)
	_, found, err := store.Get(ctx, identity)
	require.NoError(t, err)
	require.True(t, found)

	// Reads do not refresh the TTL.
	mr.FastForward(2 * time.Minute)
	_, found, err = store.Get(ctx, identity)
	require.NoError(t, err)
	require.False(t, found)
}

func TestRedisStoreEvict(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t, time.Minute)

	require.NoError(t, store.Put(ctx, identity, "a", "r"))
	require.NoError(t, store.Evict(ctx, identity))

	_, found, err := store.Get(ctx, identity)
	require.NoError(t, err)
	require.False(t, found)

	// absent key
	require.NoError(t, store.Evict(ctx, identity))
}

func TestRedisStoreTTL(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t, 5*time.Minute)

	ttl, err := store.TTL(ctx, identity)
	require.NoError(t, err)
	require.Less(t, ttl, time.Duration(0))

	require.NoError(t, store.Put(ctx, identity, "a", "r"))
	ttl, err = store.TTL(ctx, identity)
	require.NoError(t, err)
	require.Equal(t, 5*time.Minute, ttl)
}

func TestRedisStoreConcurrentPutsKeepWholeRecords(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			suffix := string(rune('a' + i))
			_ = store.Put(ctx, identity, "access-"+suffix, "refresh-"+suffix)
		}(i)
	}
	wg.Wait()

	rec, found, err := store.Get(ctx, identity)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, rec.AccessHash[len("access-"):], rec.RefreshHash[len("refresh-"):])
}

func TestRedisStoreDefaults(t *testing.T) {
	store := NewRedisStore(nil, "", 0)
	require.Equal(t, DefaultNamespace, store.namespace)
	require.Equal(t, DefaultTTL, store.ttl)
	require.Equal(t, "auth-token:x", store.key("x"))
}

func TestRedisStoreSurfacesErrors(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestStore(t, time.Minute)
	mr.SetError("ERR store unavailable")

	require.Error(t, store.Put(ctx, identity, "a", "r"))
	_, _, err := store.Get(ctx, identity)
	require.Error(t, err)
	require.Error(t, store.Evict(ctx, identity))
}
