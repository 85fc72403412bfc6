package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/washrent/internal/ledger"
)

func setupCache(t *testing.T) (*ledger.Cache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return ledger.NewCache(client, time.Minute), mr
}

func TestBuilder_ServesFromCache(t *testing.T) {
	cache, _ := setupCache(t)
	bk := scenarioBooks()
	builder := newBuilder(bk, ledger.WithCache(cache))

	first, err := builder.Build(context.Background(), monthStart, monthEnd)
	require.NoError(t, err)

	calls := bk.callCount()
	assert.Equal(t, 5, calls)

	second, err := builder.Build(context.Background(), monthStart, monthEnd)
	require.NoError(t, err)
	assert.Equal(t, calls, bk.callCount(), "second build should not touch the sources")

	require.Len(t, second, len(first))

	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.Equal(t, first[i].Running, second[i].Running)
		assert.True(t, first[i].Date.Equal(second[i].Date))
	}

	require.NoError(t, cache.Bump(context.Background()))

	_, err = builder.Build(context.Background(), monthStart, monthEnd)
	require.NoError(t, err)
	assert.Equal(t, 2*calls, bk.callCount())
}

func TestBuilder_FailuresAreNotCached(t *testing.T) {
	cache, _ := setupCache(t)
	bk := scenarioBooks()
	bk.failMovements = true
	builder := newBuilder(bk, ledger.WithCache(cache))

	_, err := builder.Build(context.Background(), monthStart, monthEnd)
	require.ErrorIs(t, err, ledger.ErrSourceUnavailable)

	bk.failMovements = false

	entries, err := builder.Build(context.Background(), monthStart, monthEnd)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestBuilder_CacheDownFallsBack(t *testing.T) {
	cache, mr := setupCache(t)
	mr.Close()

	entries, err := newBuilder(scenarioBooks(), ledger.WithCache(cache)).Build(context.Background(), monthStart, monthEnd)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestCache_Version(t *testing.T) {
	cache, _ := setupCache(t)
	ctx := context.Background()

	v, err := cache.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)

	require.NoError(t, cache.Bump(ctx))

	v, err = cache.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)

	key, err := cache.BuildKey(ctx, "ledger", "a", "b")
	require.NoError(t, err)
	assert.Equal(t, "washrent:ledger:a:b:v2", key)
}

func TestCache_Nil(t *testing.T) {
	var cache *ledger.Cache

	assert.NoError(t, cache.Bump(context.Background()))

	var got []int

	err := cache.FetchJSON(context.Background(), "k", &got, func(context.Context) (any, error) {
		return []int{1, 2}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, got)
}
