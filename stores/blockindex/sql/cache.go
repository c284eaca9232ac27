package sql

import (
	"sync/atomic"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/jellydator/ttlcache/v3"
)

// ResponseCache is a TTL cache with generation-based invalidation. Without
// the generation counter a lookup that misses, queries the database and then
// writes its result could race DeleteAll and cache a stale row:
//
//  1. lookup misses, starts the query
//  2. a write invalidates the cache
//  3. the query completes against the pre-write state
//  4. the stale result is written back and served until its TTL expires
//
// Begin captures the generation, DeleteAll increments it and
// CacheOperation.Set only writes when the generation still matches.
type ResponseCache struct {
	ttlCache   *ttlcache.Cache[chainhash.Hash, any]
	generation atomic.Uint64
	stopped    atomic.Bool
}

func NewResponseCache() *ResponseCache {
	rc := &ResponseCache{
		ttlCache: ttlcache.New[chainhash.Hash, any](
			ttlcache.WithDisableTouchOnHit[chainhash.Hash, any](),
		),
	}

	go rc.ttlCache.Start()

	return rc
}

// Begin starts a get-query-set sequence against the current generation.
func (rc *ResponseCache) Begin(key chainhash.Hash) *CacheOperation {
	return &CacheOperation{
		cache:      rc,
		key:        key,
		generation: rc.generation.Load(),
	}
}

// DeleteAll clears the cache and invalidates every in-flight operation.
func (rc *ResponseCache) DeleteAll() {
	rc.ttlCache.DeleteAll()
	rc.generation.Add(1)
}

// Stop halts the expiry goroutine. Safe to call more than once.
func (rc *ResponseCache) Stop() {
	if rc.stopped.CompareAndSwap(false, true) {
		rc.ttlCache.Stop()
	}
}

// CacheOperation pins the generation observed at Begin time.
type CacheOperation struct {
	cache      *ResponseCache
	key        chainhash.Hash
	generation uint64
}

func (co *CacheOperation) Get() *ttlcache.Item[chainhash.Hash, any] {
	return co.cache.ttlCache.Get(co.key)
}

// Set caches value unless the cache was invalidated since Begin. Reports
// whether the value was written.
func (co *CacheOperation) Set(value any, ttl time.Duration) bool {
	if co.generation == co.cache.generation.Load() {
		co.cache.ttlCache.Set(co.key, value, ttl)
		return true
	}

	return false
}
