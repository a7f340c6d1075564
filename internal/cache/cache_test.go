package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

type feedPage struct {
	IDs []int64 `json:"ids"`
}

func TestAside_MissThenHit(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	calls := 0
	fetch := func(dest *feedPage) func() error {
		return func() error {
			calls++
			dest.IDs = []int64{3, 2, 1}
			return nil
		}
	}

	var first feedPage
	require.NoError(t, Aside(ctx, FeedKey(20, 0), &first, time.Minute, fetch(&first)))
	assert.Equal(t, 1, calls)
	assert.Equal(t, []int64{3, 2, 1}, first.IDs)

	// Second read is served from the cache.
	var second feedPage
	require.NoError(t, Aside(ctx, FeedKey(20, 0), &second, time.Minute, fetch(&second)))
	assert.Equal(t, 1, calls)
	assert.Equal(t, []int64{3, 2, 1}, second.IDs)
}

func TestInvalidateFeed_DropsAllPages(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, FeedKey(20, 0), feedPage{IDs: []int64{1}}, time.Minute))
	require.NoError(t, SetJSON(ctx, FeedKey(20, 20), feedPage{IDs: []int64{2}}, time.Minute))
	require.NoError(t, SetJSON(ctx, "other:key", feedPage{IDs: []int64{3}}, time.Minute))

	InvalidateFeed(ctx)

	assert.False(t, mr.Exists(FeedKey(20, 0)))
	assert.False(t, mr.Exists(FeedKey(20, 20)))
	assert.True(t, mr.Exists("other:key"))
}

func TestNilClientIsNoop(t *testing.T) {
	SetClient(nil)
	ctx := context.Background()

	var dest feedPage
	found, err := GetJSON(ctx, "k", &dest)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, SetJSON(ctx, "k", feedPage{}, time.Minute))
	Invalidate(ctx, "k")
	InvalidateFeed(ctx)
}
