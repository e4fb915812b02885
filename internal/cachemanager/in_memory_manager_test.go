package cachemanager

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type parsedManifest struct {
	Path string
	Keys []string
}

func TestNewInMemoryCacheManager(t *testing.T) {
	require.NotPanics(t, func() {
		NewInMemoryCacheManager[string, string]("manifests", DefaultExpiration, DefaultCleanupInterval)
	})
}

func TestInMemoryCacheManager_GetExistingValue_StructType(t *testing.T) {
	cache := NewInMemoryCacheManager[string, parsedManifest]("manifests", DefaultExpiration, DefaultCleanupInterval)
	manifest := parsedManifest{
		Path: "workflows/registry.yaml",
		Keys: []string{"writer"},
	}
	cache.Set(context.Background(), "workflows/registry.yaml", manifest, DefaultExpiration)

	got, ok := cache.Get(context.Background(), "workflows/registry.yaml")
	require.True(t, ok)
	require.Equal(t, manifest, got)
}

func TestInMemoryCacheManager_GetWithNoExistingValue(t *testing.T) {
	cache := NewInMemoryCacheManager[string, parsedManifest]("manifests", DefaultExpiration, DefaultCleanupInterval)

	got, ok := cache.Get(context.Background(), "missing/registry.yaml")
	require.False(t, ok)
	require.Empty(t, got)
}

func TestInMemoryCacheManager_GetExpiredValue(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("manifests", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(context.Background(), "k", "v", 10*time.Millisecond)

	time.Sleep(20 * time.Millisecond)

	_, ok := cache.Get(context.Background(), "k")
	require.False(t, ok)
}

func TestInMemoryCacheManager_Delete(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("manifests", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(context.Background(), "a", "1", DefaultExpiration)
	cache.Set(context.Background(), "b", "2", DefaultExpiration)

	require.NoError(t, cache.Delete(context.Background(), "a"))

	_, ok := cache.Get(context.Background(), "a")
	require.False(t, ok)
	_, ok = cache.Get(context.Background(), "b")
	require.True(t, ok)

	// deleting nothing is a no-op
	require.NoError(t, cache.Delete(context.Background()))
}

func TestInMemoryCacheManager_Flush(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("manifests", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(context.Background(), "a", "1", DefaultExpiration)
	cache.Set(context.Background(), "b", "2", DefaultExpiration)

	require.NoError(t, cache.Flush(context.Background()))

	_, ok := cache.Get(context.Background(), "a")
	require.False(t, ok)
	_, ok = cache.Get(context.Background(), "b")
	require.False(t, ok)
}

func TestInMemoryCacheManager_GetWithRefresh(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("manifests", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(context.Background(), "k", "v", 50*time.Millisecond)

	// refresh extends the ttl past the original expiration
	got, ok := cache.GetWithRefresh(context.Background(), "k", time.Minute)
	require.True(t, ok)
	require.Equal(t, "v", got)

	time.Sleep(60 * time.Millisecond)

	_, ok = cache.Get(context.Background(), "k")
	require.True(t, ok)
}
