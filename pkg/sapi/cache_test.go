package sapi_test

import (
	"context"
	"testing"
	"time"

	"github.com/scrapeworks-io/sapi/pkg/sapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_GetSet(t *testing.T) {
	t.Parallel()

	cache := sapi.NewMemoryCache(10)
	ctx := context.Background()

	entry := &sapi.CacheEntry{
		Data:      []byte(`{"items": []}`),
		ExpiresAt: time.Now().Add(time.Minute),
	}

	err := cache.Set(ctx, "GET:/v2/acts", entry)
	require.NoError(t, err)

	got, err := cache.Get(ctx, "GET:/v2/acts")
	require.NoError(t, err)
	assert.Equal(t, entry.Data, got.Data)
	assert.True(t, cache.Has(ctx, "GET:/v2/acts"))
}

func TestMemoryCache_MissingKey(t *testing.T) {
	t.Parallel()

	cache := sapi.NewMemoryCache(10)

	_, err := cache.Get(context.Background(), "GET:/v2/datasets")
	require.ErrorIs(t, err, sapi.ErrCacheKeyNotFound)
}

func TestMemoryCache_Expiry(t *testing.T) {
	t.Parallel()

	cache := sapi.NewMemoryCache(10)
	ctx := context.Background()

	err := cache.Set(ctx, "GET:/v2/acts", &sapi.CacheEntry{
		Data:      []byte("stale"),
		ExpiresAt: time.Now().Add(-time.Second),
	})
	require.NoError(t, err)

	_, err = cache.Get(ctx, "GET:/v2/acts")
	require.ErrorIs(t, err, sapi.ErrCacheEntryExpired)
	assert.False(t, cache.Has(ctx, "GET:/v2/acts"))
}

func TestMemoryCache_EvictsWhenFull(t *testing.T) {
	t.Parallel()

	cache := sapi.NewMemoryCache(2)
	ctx := context.Background()

	err := cache.Set(ctx, "soonest", &sapi.CacheEntry{
		Data:      []byte("a"),
		ExpiresAt: time.Now().Add(time.Minute),
	})
	require.NoError(t, err)

	err = cache.Set(ctx, "later", &sapi.CacheEntry{
		Data:      []byte("b"),
		ExpiresAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	err = cache.Set(ctx, "newest", &sapi.CacheEntry{
		Data:      []byte("c"),
		ExpiresAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	// The entry expiring soonest makes room for the new one.
	assert.False(t, cache.Has(ctx, "soonest"))
	assert.True(t, cache.Has(ctx, "later"))
	assert.True(t, cache.Has(ctx, "newest"))
}

func TestMemoryCache_DeleteAndClear(t *testing.T) {
	t.Parallel()

	cache := sapi.NewMemoryCache(10)
	ctx := context.Background()

	for _, key := range []string{"one", "two"} {
		err := cache.Set(ctx, key, &sapi.CacheEntry{
			Data:      []byte(key),
			ExpiresAt: time.Now().Add(time.Minute),
		})
		require.NoError(t, err)
	}

	require.NoError(t, cache.Delete(ctx, "one"))
	assert.False(t, cache.Has(ctx, "one"))
	assert.True(t, cache.Has(ctx, "two"))

	require.NoError(t, cache.Clear(ctx))
	assert.False(t, cache.Has(ctx, "two"))
}

func TestMemoryCache_Cleanup(t *testing.T) {
	t.Parallel()

	cache := sapi.NewMemoryCache(10)
	ctx := context.Background()

	err := cache.Set(ctx, "fresh", &sapi.CacheEntry{
		Data:      []byte("a"),
		ExpiresAt: time.Now().Add(time.Minute),
	})
	require.NoError(t, err)

	err = cache.Set(ctx, "expired", &sapi.CacheEntry{
		Data:      []byte("b"),
		ExpiresAt: time.Now().Add(-time.Minute),
	})
	require.NoError(t, err)

	cache.Cleanup()

	assert.True(t, cache.Has(ctx, "fresh"))
	assert.False(t, cache.Has(ctx, "expired"))
}

//nolint:funlen // Test functions can be longer for detailed testing
func TestCachingPolicy_ShouldCache(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		policy     *sapi.CachingPolicy
		method     string
		path       string
		statusCode int
		expected   bool
	}{
		{
			name:       "default policy caches GET",
			policy:     sapi.DefaultCachingPolicy(),
			method:     "GET",
			path:       "/v2/acts",
			statusCode: 200,
			expected:   true,
		},
		{
			name:       "default policy skips POST",
			policy:     sapi.DefaultCachingPolicy(),
			method:     "POST",
			path:       "/v2/acts",
			statusCode: 201,
			expected:   false,
		},
		{
			name:       "default policy skips errors",
			policy:     sapi.DefaultCachingPolicy(),
			method:     "GET",
			path:       "/v2/acts",
			statusCode: 404,
			expected:   false,
		},
		{
			name:       "default policy excludes run listings",
			policy:     sapi.DefaultCachingPolicy(),
			method:     "GET",
			path:       "/v2/actor-runs/run-1",
			statusCode: 200,
			expected:   false,
		},
		{
			name:       "default policy excludes queue heads",
			policy:     sapi.DefaultCachingPolicy(),
			method:     "GET",
			path:       "/v2/request-queues/rq-1/head",
			statusCode: 200,
			expected:   false,
		},
		{
			name: "include paths restrict caching",
			policy: &sapi.CachingPolicy{
				CacheGET:     true,
				IncludePaths: []string{"/v2/datasets"},
			},
			method:     "GET",
			path:       "/v2/acts",
			statusCode: 200,
			expected:   false,
		},
		{
			name: "include paths admit matching prefix",
			policy: &sapi.CachingPolicy{
				CacheGET:     true,
				IncludePaths: []string{"/v2/datasets"},
			},
			method:     "GET",
			path:       "/v2/datasets/ds-1",
			statusCode: 200,
			expected:   true,
		},
		{
			name: "errors cacheable when opted in",
			policy: &sapi.CachingPolicy{
				CacheGET:    true,
				CacheErrors: true,
			},
			method:     "GET",
			path:       "/v2/acts/missing",
			statusCode: 404,
			expected:   true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := tt.policy.ShouldCache(tt.method, tt.path, tt.statusCode)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestCacheManager_GetCacheKey(t *testing.T) {
	t.Parallel()

	manager := sapi.NewCacheManager(sapi.NewMemoryCache(10), nil)

	t.Run("no parameters", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "GET:/v2/acts", manager.GetCacheKey("GET", "/v2/acts", nil))
	})

	t.Run("parameters sorted", func(t *testing.T) {
		t.Parallel()

		key := manager.GetCacheKey("GET", "/v2/acts", map[string]string{
			"offset": "20",
			"limit":  "10",
			"desc":   "true",
		})

		assert.Equal(t, "GET:/v2/acts:desc=true&limit=10&offset=20", key)
	})

	t.Run("equivalent requests share a key", func(t *testing.T) {
		t.Parallel()

		first := manager.GetCacheKey("GET", "/v2/acts", map[string]string{"a": "1", "b": "2"})
		second := manager.GetCacheKey("GET", "/v2/acts", map[string]string{"b": "2", "a": "1"})

		assert.Equal(t, first, second)
	})
}

func TestCacheManager_Stats(t *testing.T) {
	t.Parallel()

	manager := sapi.NewCacheManager(sapi.NewMemoryCache(10), nil)
	ctx := context.Background()

	_, err := manager.Get(ctx, "GET:/v2/acts")
	require.Error(t, err)

	err = manager.Set(ctx, "GET:/v2/acts", []byte(`{"items": []}`), time.Minute)
	require.NoError(t, err)

	data, err := manager.Get(ctx, "GET:/v2/acts")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"items": []}`), data)

	stats := manager.GetStats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, int64(1), stats.Sets)
	assert.InDelta(t, 0.5, stats.GetHitRate(), 0.001)
}

func TestCacheStats_GetHitRate_NoLookups(t *testing.T) {
	t.Parallel()

	stats := &sapi.CacheStats{}

	assert.Zero(t, stats.GetHitRate())
}

func TestNewCacheFromConfig(t *testing.T) {
	t.Parallel()
	t.Run("nil config defaults to memory", func(t *testing.T) {
		t.Parallel()

		cache, err := sapi.NewCacheFromConfig(nil)
		require.NoError(t, err)
		assert.IsType(t, &sapi.MemoryCache{}, cache)
	})

	t.Run("memory", func(t *testing.T) {
		t.Parallel()

		cache, err := sapi.NewCacheFromConfig(&sapi.CacheConfig{Type: sapi.CacheTypeMemory})
		require.NoError(t, err)
		assert.IsType(t, &sapi.MemoryCache{}, cache)
	})

	t.Run("none", func(t *testing.T) {
		t.Parallel()

		cache, err := sapi.NewCacheFromConfig(&sapi.CacheConfig{Type: sapi.CacheTypeNone})
		require.NoError(t, err)
		assert.IsType(t, &sapi.NoOpCache{}, cache)
	})

	t.Run("nats without config", func(t *testing.T) {
		t.Parallel()

		_, err := sapi.NewCacheFromConfig(&sapi.CacheConfig{Type: sapi.CacheTypeNATS})
		require.ErrorIs(t, err, sapi.ErrNATSConfigRequired)
	})

	t.Run("unsupported type", func(t *testing.T) {
		t.Parallel()

		_, err := sapi.NewCacheFromConfig(&sapi.CacheConfig{Type: "redis"})
		require.ErrorIs(t, err, sapi.ErrUnsupportedCacheType)
	})
}

func TestNoOpCache(t *testing.T) {
	t.Parallel()

	cache := sapi.NewNoOpCache()
	ctx := context.Background()

	err := cache.Set(ctx, "key", &sapi.CacheEntry{Data: []byte("value")})
	require.NoError(t, err)

	_, err = cache.Get(ctx, "key")
	require.ErrorIs(t, err, sapi.ErrCacheDisabled)
	assert.False(t, cache.Has(ctx, "key"))
}

func TestCacheChain(t *testing.T) {
	t.Parallel()
	t.Run("set writes every layer", func(t *testing.T) {
		t.Parallel()

		fast := sapi.NewMemoryCache(10)
		slow := sapi.NewMemoryCache(10)
		chain := sapi.NewCacheChain(fast, slow)
		ctx := context.Background()

		err := chain.Set(ctx, "key", &sapi.CacheEntry{
			Data:      []byte("value"),
			ExpiresAt: time.Now().Add(time.Minute),
		})
		require.NoError(t, err)

		assert.True(t, fast.Has(ctx, "key"))
		assert.True(t, slow.Has(ctx, "key"))
	})

	t.Run("hit in later layer back-fills earlier layers", func(t *testing.T) {
		t.Parallel()

		fast := sapi.NewMemoryCache(10)
		slow := sapi.NewMemoryCache(10)
		chain := sapi.NewCacheChain(fast, slow)
		ctx := context.Background()

		err := slow.Set(ctx, "key", &sapi.CacheEntry{
			Data:      []byte("value"),
			ExpiresAt: time.Now().Add(time.Minute),
		})
		require.NoError(t, err)

		entry, err := chain.Get(ctx, "key")
		require.NoError(t, err)
		assert.Equal(t, []byte("value"), entry.Data)
		assert.True(t, fast.Has(ctx, "key"))
	})

	t.Run("miss in every layer", func(t *testing.T) {
		t.Parallel()

		chain := sapi.NewCacheChain(sapi.NewMemoryCache(10), sapi.NewMemoryCache(10))

		_, err := chain.Get(context.Background(), "missing")
		require.ErrorIs(t, err, sapi.ErrCacheKeyNotFound)
	})
}
