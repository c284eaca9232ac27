package sql

import (
	"testing"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseCacheSetGet(t *testing.T) {
	rc := NewResponseCache()
	defer rc.Stop()

	key := chainhash.HashH([]byte("GetBestBlockIndex"))

	op := rc.Begin(key)
	assert.Nil(t, op.Get())

	assert.True(t, op.Set("cached response", time.Minute))

	item := rc.Begin(key).Get()
	require.NotNil(t, item)
	assert.Equal(t, "cached response", item.Value())
}

func TestResponseCacheDeleteAll(t *testing.T) {
	rc := NewResponseCache()
	defer rc.Stop()

	key := chainhash.HashH([]byte("key"))

	require.True(t, rc.Begin(key).Set("v", time.Minute))
	require.NotNil(t, rc.Begin(key).Get())

	rc.DeleteAll()

	assert.Nil(t, rc.Begin(key).Get())
}

func TestResponseCacheStaleWriteDropped(t *testing.T) {
	rc := NewResponseCache()
	defer rc.Stop()

	key := chainhash.HashH([]byte("key"))

	// op began before the invalidation, its result is stale
	op := rc.Begin(key)

	rc.DeleteAll()

	assert.False(t, op.Set("stale", time.Minute))
	assert.Nil(t, rc.Begin(key).Get())

	// an operation begun after the invalidation writes fine
	assert.True(t, rc.Begin(key).Set("fresh", time.Minute))
}

func TestResponseCacheExpiry(t *testing.T) {
	rc := NewResponseCache()
	defer rc.Stop()

	key := chainhash.HashH([]byte("key"))

	require.True(t, rc.Begin(key).Set("v", 10*time.Millisecond))

	assert.Eventually(t, func() bool {
		return rc.Begin(key).Get() == nil
	}, time.Second, 10*time.Millisecond)
}

func TestResponseCacheStopTwice(t *testing.T) {
	rc := NewResponseCache()

	rc.Stop()
	rc.Stop()
}
