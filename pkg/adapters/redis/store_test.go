package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/docu/pkg/adapters/redis"
	"github.com/aretw0/docu/pkg/domain"
	"github.com/aretw0/docu/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	return mr, backend.NewClient(&backend.Options{Addr: mr.Addr()})
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newClient(t)
	ports.RunCounterStoreContract(t, redis.NewFromClient(client))
}

func TestRedisStore_SharedBetweenReplicas(t *testing.T) {
	_, client := newClient(t)
	ctx := context.Background()

	a := redis.NewFromClient(client)
	b := redis.NewFromClient(client)

	_, err := a.Increment(ctx, "hero")
	require.NoError(t, err)
	count, err := b.Increment(ctx, "hero")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := newClient(t)
	ctx := context.Background()

	store := redis.NewFromClient(client, redis.WithTTL(time.Second), redis.WithPrefix("test:"))

	_, err := store.Mount(ctx, "abandoned")
	require.NoError(t, err)
	assert.True(t, mr.Exists("test:abandoned"))

	mr.FastForward(2 * time.Second)

	_, err = store.Load(ctx, "abandoned")
	assert.ErrorIs(t, err, domain.ErrCounterNotFound)
}

func TestRedisStore_RemountRenewsTTL(t *testing.T) {
	mr, client := newClient(t)
	ctx := context.Background()

	store := redis.NewFromClient(client, redis.WithTTL(time.Second), redis.WithPrefix("test:"))

	_, err := store.Mount(ctx, "visited")
	require.NoError(t, err)
	_, err = store.Increment(ctx, "visited")
	require.NoError(t, err)

	mr.FastForward(600 * time.Millisecond)
	count, err := store.Mount(ctx, "visited")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, time.Second, mr.TTL("test:visited"))

	mr.FastForward(600 * time.Millisecond)
	count, err = store.Load(ctx, "visited")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRedisStore_CorruptValue(t *testing.T) {
	mr, client := newClient(t)
	require.NoError(t, mr.Set("docu:counter:bad", "not-a-number"))

	_, err := redis.NewFromClient(client).Load(context.Background(), "bad")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrCounterNotFound)
}

func TestNew_InvalidURL(t *testing.T) {
	_, err := redis.New("http://not-redis")
	assert.Error(t, err)
}
