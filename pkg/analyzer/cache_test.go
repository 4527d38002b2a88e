package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/propscan/pkg/props"
)

func TestResultCache_GetValidatesHashAndOptions(t *testing.T) {
	rc, err := NewResultCache(8, nil)
	require.NoError(t, err)

	res := &props.FileResult{File: "/a.tsx"}
	hash := ContentHash([]byte(`<A />`))
	fp := props.DefaultOptions().Fingerprint()
	rc.Put("/a.tsx", hash, fp, res)

	got, ok := rc.Get("/a.tsx", hash, fp)
	require.True(t, ok)
	assert.Same(t, res, got)

	_, ok = rc.Get("/a.tsx", ContentHash([]byte(`<B />`)), fp)
	assert.False(t, ok)

	other := props.DefaultOptions()
	other.IncludeIntrinsic = true
	_, ok = rc.Get("/a.tsx", hash, other.Fingerprint())
	assert.False(t, ok)

	stats := rc.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(2), stats.Misses)
	assert.Equal(t, 1, stats.Entries)
}

func TestResultCache_EvictsLeastRecentlyUsed(t *testing.T) {
	rc, err := NewResultCache(2, nil)
	require.NoError(t, err)

	for _, p := range []string{"/a", "/b", "/c"} {
		rc.Put(p, 1, "fp", &props.FileResult{File: p})
	}
	assert.Equal(t, 2, rc.Len())
	_, ok := rc.Get("/a", 1, "fp")
	assert.False(t, ok)
	assert.Equal(t, int64(1), rc.Stats().Evictions)
}

func TestResultCache_InvalidateAndPurge(t *testing.T) {
	rc, err := NewResultCache(8, nil)
	require.NoError(t, err)

	rc.Put("/a", 1, "fp", &props.FileResult{})
	rc.Put("/b", 1, "fp", &props.FileResult{})
	rc.Invalidate("/a")
	rc.Invalidate("/never-added")
	assert.Equal(t, 1, rc.Len())

	rc.Purge()
	assert.Equal(t, 0, rc.Len())
}

func TestResultCache_NilIsNoop(t *testing.T) {
	var rc *ResultCache
	rc.Put("/a", 1, "fp", &props.FileResult{})
	_, ok := rc.Get("/a", 1, "fp")
	assert.False(t, ok)
	rc.Invalidate("/a")
	rc.Purge()
	assert.Equal(t, 0, rc.Len())
	assert.Equal(t, CacheStats{}, rc.Stats())
}

func TestNewResultCache_InvalidSize(t *testing.T) {
	_, err := NewResultCache(0, nil)
	assert.Error(t, err)
}
