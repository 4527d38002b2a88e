package analyzer

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/gnana997/propscan/pkg/props"
)

// DefaultCacheSize is the number of per-file results kept between requests.
const DefaultCacheSize = 4096

// ResultCache keeps per-file extraction results across requests.
//
// An entry is only served when both the content hash and the extraction
// options fingerprint match, so a stale entry is never returned even without
// a watcher; the watcher only frees memory early. Cached results are shared
// and must be treated as read-only.
//
// A nil *ResultCache is valid and caches nothing.
type ResultCache struct {
	entries *lru.Cache[string, cacheEntry]
	logger  *slog.Logger

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

type cacheEntry struct {
	hash        uint64
	fingerprint string
	result      *props.FileResult
}

// CacheStats reports cache counters.
type CacheStats struct {
	Entries   int   `json:"entries"`
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
}

// NewResultCache creates a cache holding up to size files.
func NewResultCache(size int, logger *slog.Logger) (*ResultCache, error) {
	if logger == nil {
		logger = slog.Default()
	}
	rc := &ResultCache{logger: logger}
	entries, err := lru.NewWithEvict(size, func(key string, _ cacheEntry) {
		rc.evictions.Add(1)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create result cache: %w", err)
	}
	rc.entries = entries
	return rc, nil
}

// ContentHash hashes file content for cache validation.
func ContentHash(content []byte) uint64 {
	return xxhash.Sum64(content)
}

// Get returns the cached result for path if it was produced from the same
// content with the same options.
func (rc *ResultCache) Get(path string, hash uint64, fingerprint string) (*props.FileResult, bool) {
	if rc == nil {
		return nil, false
	}
	entry, ok := rc.entries.Get(path)
	if !ok || entry.hash != hash || entry.fingerprint != fingerprint {
		rc.misses.Add(1)
		return nil, false
	}
	rc.hits.Add(1)
	return entry.result, true
}

// Put stores a result.
func (rc *ResultCache) Put(path string, hash uint64, fingerprint string, result *props.FileResult) {
	if rc == nil {
		return
	}
	rc.entries.Add(path, cacheEntry{hash: hash, fingerprint: fingerprint, result: result})
}

// Invalidate drops the entry for path.
func (rc *ResultCache) Invalidate(path string) {
	if rc == nil {
		return
	}
	if rc.entries.Remove(path) {
		rc.logger.Debug("cache entry invalidated", "file", path)
	}
}

// Purge drops every entry.
func (rc *ResultCache) Purge() {
	if rc == nil {
		return
	}
	rc.entries.Purge()
}

// Len returns the number of cached files.
func (rc *ResultCache) Len() int {
	if rc == nil {
		return 0
	}
	return rc.entries.Len()
}

// Stats returns cache counters.
func (rc *ResultCache) Stats() CacheStats {
	if rc == nil {
		return CacheStats{}
	}
	return CacheStats{
		Entries:   rc.entries.Len(),
		Hits:      rc.hits.Load(),
		Misses:    rc.misses.Load(),
		Evictions: rc.evictions.Load(),
	}
}
