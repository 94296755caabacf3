package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/andresuchdata/hypnoscale/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedView struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

func newTestCache(t *testing.T) (ViewCache, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisViewCache(client, time.Minute), srv
}

func TestRedisViewCache_MissThenHit(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	var got cachedView
	ok, err := c.Get(ctx, "finance", "2025-01-01_2025-01-31", &got)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "finance", "2025-01-01_2025-01-31", cachedView{Name: "jan", Items: []string{"a", "b"}}))

	ok, err = c.Get(ctx, "finance", "2025-01-01_2025-01-31", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, cachedView{Name: "jan", Items: []string{"a", "b"}}, got)
}

func TestRedisViewCache_SetReplacesWholeValue(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "inventory", "", cachedView{Name: "old", Items: []string{"x", "y", "z"}}))
	require.NoError(t, c.Set(ctx, "inventory", "", cachedView{Name: "new"}))

	var got cachedView
	ok, err := c.Get(ctx, "inventory", "", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "new", got.Name)
	assert.Empty(t, got.Items)
}

func TestRedisViewCache_InvalidateOnlyTouchesView(t *testing.T) {
	c, srv := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "inventory", "a", cachedView{Name: "a"}))
	require.NoError(t, c.Set(ctx, "inventory", "b", cachedView{Name: "b"}))
	require.NoError(t, c.Set(ctx, "finance", "a", cachedView{Name: "f"}))

	require.NoError(t, c.Invalidate(ctx, "inventory"))

	var got cachedView
	ok, err := c.Get(ctx, "inventory", "a", &got)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = c.Get(ctx, "finance", "a", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Len(t, srv.Keys(), 1)
}

func TestRedisViewCache_InvalidateAcrossScanBatches(t *testing.T) {
	c, srv := newTestCache(t)
	ctx := context.Background()

	for i := 0; i < 2*viewScanBatchSize+5; i++ {
		require.NoError(t, c.Set(ctx, "finance", fmt.Sprintf("range-%d", i), cachedView{Name: "f"}))
	}
	require.NoError(t, c.Set(ctx, "cfo", "", cachedView{Name: "cfo"}))

	require.NoError(t, c.Invalidate(ctx, "finance"))

	assert.Equal(t, []string{buildViewKey("cfo", "")}, srv.Keys())
}

func TestNewViewCache_Redis(t *testing.T) {
	srv := miniredis.RunT(t)

	c, err := NewViewCache(config.CacheConfig{Enabled: true, RedisURL: "redis://" + srv.Addr(), ViewTTLSeconds: 30})
	require.NoError(t, err)

	require.NoError(t, c.Set(context.Background(), "team", "", cachedView{Name: "burn"}))
	assert.Equal(t, 30*time.Second, srv.TTL(buildViewKey("team", "")))
}

func TestNewViewCache_PingFailure(t *testing.T) {
	srv := miniredis.RunT(t)
	addr := srv.Addr()
	srv.Close()

	_, err := NewViewCache(config.CacheConfig{Enabled: true, RedisURL: "redis://" + addr})

	assert.Error(t, err)
}

func TestRedisViewCache_TTL(t *testing.T) {
	c, srv := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "team", "", cachedView{Name: "burn"}))
	srv.FastForward(2 * time.Minute)

	var got cachedView
	ok, err := c.Get(ctx, "team", "", &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewViewCache_DisabledIsNoop(t *testing.T) {
	c, err := NewViewCache(config.CacheConfig{Enabled: false})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "finance", "", cachedView{Name: "x"}))

	var got cachedView
	ok, err := c.Get(ctx, "finance", "", &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBuildViewKey(t *testing.T) {
	assert.Equal(t, "view:finance:default", buildViewKey("finance", " "))
	assert.Equal(t, buildViewKey("finance", "2025-01-01_2025-01-31"), buildViewKey("finance", "2025-01-01_2025-01-31"))
	assert.NotEqual(t, buildViewKey("finance", "a"), buildViewKey("finance", "b"))
}

func TestRedisOptions(t *testing.T) {
	opts, err := redisOptions(config.CacheConfig{})
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:6379", opts.Addr)

	opts, err = redisOptions(config.CacheConfig{RedisURL: "redis://:secret@cache:6380/2"})
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, "secret", opts.Password)

	_, err = redisOptions(config.CacheConfig{RedisURL: "://bad"})
	assert.Error(t, err)
}
