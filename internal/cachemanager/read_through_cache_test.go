package cachemanager

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newManifestCache() *InMemoryCacheManager[string, parsedManifest] {
	return NewInMemoryCacheManager[string, parsedManifest]("manifests", DefaultExpiration, DefaultCleanupInterval)
}

func TestReadThroughCache_LoadsOnMiss(t *testing.T) {
	loads := 0
	rtc := NewReadThroughCache(newManifestCache(),
		func(ctx context.Context, path string) (parsedManifest, error) {
			loads++
			return parsedManifest{Path: path}, nil
		}, false)

	got, err := rtc.Get(context.Background(), "a/registry.yaml", "a/registry.yaml", time.Minute)
	require.NoError(t, err)
	require.Equal(t, "a/registry.yaml", got.Path)
	require.Equal(t, 1, loads)

	// second get is served from cache
	_, err = rtc.Get(context.Background(), "a/registry.yaml", "a/registry.yaml", time.Minute)
	require.NoError(t, err)
	require.Equal(t, 1, loads)
}

func TestReadThroughCache_LoaderErrorNotCached(t *testing.T) {
	loads := 0
	rtc := NewReadThroughCache(newManifestCache(),
		func(ctx context.Context, path string) (parsedManifest, error) {
			loads++
			return parsedManifest{}, fmt.Errorf("parse failed")
		}, false)

	_, err := rtc.Get(context.Background(), "bad.yaml", "bad.yaml", time.Minute)
	require.Error(t, err)

	_, err = rtc.Get(context.Background(), "bad.yaml", "bad.yaml", time.Minute)
	require.Error(t, err)
	require.Equal(t, 2, loads, "errors are not cached")
}

func TestReadThroughCache_SkipCache(t *testing.T) {
	loads := 0
	rtc := NewReadThroughCache(newManifestCache(),
		func(ctx context.Context, path string) (parsedManifest, error) {
			loads++
			return parsedManifest{Path: path}, nil
		}, true)

	for i := 0; i < 3; i++ {
		_, err := rtc.Get(context.Background(), "a.yaml", "a.yaml", time.Minute)
		require.NoError(t, err)
	}
	require.Equal(t, 3, loads)
}

func TestReadThroughCache_Invalidate(t *testing.T) {
	loads := 0
	rtc := NewReadThroughCache(newManifestCache(),
		func(ctx context.Context, path string) (parsedManifest, error) {
			loads++
			return parsedManifest{Path: path}, nil
		}, false)

	_, err := rtc.Get(context.Background(), "a.yaml", "a.yaml", time.Minute)
	require.NoError(t, err)

	require.NoError(t, rtc.Invalidate(context.Background(), "a.yaml"))

	_, err = rtc.Get(context.Background(), "a.yaml", "a.yaml", time.Minute)
	require.NoError(t, err)
	require.Equal(t, 2, loads, "invalidated key is reloaded")
}

func TestReadThroughCache_Flush(t *testing.T) {
	loads := 0
	rtc := NewReadThroughCache(newManifestCache(),
		func(ctx context.Context, path string) (parsedManifest, error) {
			loads++
			return parsedManifest{Path: path}, nil
		}, false)

	_, _ = rtc.Get(context.Background(), "a.yaml", "a.yaml", time.Minute)
	_, _ = rtc.Get(context.Background(), "b.yaml", "b.yaml", time.Minute)
	require.NoError(t, rtc.Flush(context.Background()))

	_, _ = rtc.Get(context.Background(), "a.yaml", "a.yaml", time.Minute)
	_, _ = rtc.Get(context.Background(), "b.yaml", "b.yaml", time.Minute)
	require.Equal(t, 4, loads)
}
