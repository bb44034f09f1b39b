package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/delta/pkg/adapters/redis"
	"github.com/aretw0/delta/pkg/domain"
	"github.com/aretw0/delta/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.AlgorithmStore = (*redis.Store)(nil)

func TestRedisStore_Contract(t *testing.T) {
	_, client := newClient(t)
	store := redis.NewFromClient(client)
	ports.RunAlgorithmStoreContract(t, store)
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client, redis.WithTTL(time.Second))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &domain.Record{LocalID: 9, Name: "short lived"}))

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{9}, ids)

	mr.FastForward(2 * time.Second)

	_, err = store.Load(ctx, 9)
	assert.ErrorIs(t, err, domain.ErrAlgorithmNotFound)

	ids, err = store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	members, err := mr.ZMembers("delta:algorithm:index")
	if err == nil {
		assert.Empty(t, members, "expired entries should be pruned from the index")
	}
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &domain.Record{LocalID: 4, Name: "four"}))

	assert.True(t, mr.Exists("custom:app:4"), "Expected key with custom prefix to exist")
	assert.True(t, mr.Exists("custom:app:index"), "Expected index with custom prefix to exist")

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{4}, ids)
}

func TestRedisStore_Client(t *testing.T) {
	_, client := newClient(t)
	store := redis.NewFromClient(client)
	assert.Same(t, client, store.Client())
}
