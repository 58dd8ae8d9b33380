package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	backend "github.com/redis/go-redis/v9"

	"github.com/botwalk/botwalk/pkg/adapters/redis"
	"github.com/botwalk/botwalk/pkg/flow"
	"github.com/botwalk/botwalk/pkg/ports"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newTestClient(t)

	store := redis.NewFromClient(client)
	ports.RunStateStoreContract(t, store)
}

func TestRedisStore_TTL(t *testing.T) {
	mr, client := newTestClient(t)
	ctx := context.Background()

	store := redis.NewFromClient(client, redis.WithTTL(time.Minute))
	require.NoError(t, store.Save(ctx, "sim-1", flow.NewState("start")))

	mr.FastForward(2 * time.Minute)

	_, err := store.Load(ctx, "sim-1")
	assert.ErrorIs(t, err, flow.ErrSessionNotFound)
}

func TestRedisStore_CustomPrefix(t *testing.T) {
	mr, client := newTestClient(t)
	ctx := context.Background()

	store := redis.NewFromClient(client, redis.WithPrefix("other:"))
	require.NoError(t, store.Save(ctx, "sim-1", flow.NewState("start")))

	assert.True(t, mr.Exists("other:sim-1"))

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"sim-1"}, ids)
}
