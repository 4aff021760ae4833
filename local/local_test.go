package local

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutGetRoundTrip(t *testing.T) {
	tier := NewTier(Config{Capacity: 4, TTL: time.Minute})

	tier.Put("a", []byte("1"))
	v, ok := tier.Get("a")
	require.True(t, ok)
	assert.Equal(t, []byte("1"), v)

	_, ok = tier.Get("missing")
	assert.False(t, ok)

	snap := tier.Snapshot("ns")
	assert.Equal(t, int64(1), snap.HitCount)
	assert.Equal(t, int64(1), snap.MissCount)
	assert.Equal(t, int64(1), snap.CurrentSize)
	assert.InDelta(t, 0.5, snap.HitRate, 1e-9)
}

func TestCapacityEvictsLeastRecentlyUsed(t *testing.T) {
	tier := NewTier(Config{Capacity: 2, TTL: time.Minute})

	tier.Put("a", []byte("1"))
	tier.Put("b", []byte("2"))

	// touch "a" so "b" becomes the LRU victim
	_, ok := tier.Get("a")
	require.True(t, ok)

	tier.Put("c", []byte("3"))

	_, ok = tier.Get("b")
	assert.False(t, ok, "b should have been evicted as least recently used")
	_, ok = tier.Get("a")
	assert.True(t, ok)
	_, ok = tier.Get("c")
	assert.True(t, ok)

	snap := tier.Snapshot("ns")
	assert.Equal(t, int64(1), snap.EvictionCount, "exactly one capacity eviction")
	assert.Equal(t, int64(2), snap.CurrentSize)
}

func TestOverwriteDoesNotEvict(t *testing.T) {
	tier := NewTier(Config{Capacity: 2, TTL: time.Minute})

	tier.Put("a", []byte("1"))
	tier.Put("b", []byte("2"))
	tier.Put("a", []byte("1b"))

	v, ok := tier.Get("a")
	require.True(t, ok)
	assert.Equal(t, []byte("1b"), v)
	assert.Equal(t, int64(0), tier.Snapshot("ns").EvictionCount)
	assert.Equal(t, 2, tier.Len())
}

func TestTTLExpiryOnRead(t *testing.T) {
	tier := NewTier(Config{Capacity: 4, TTL: 10 * time.Second})

	base := time.Now()
	tier.now = func() time.Time { return base }
	tier.Put("a", []byte("1"))

	// access inside the TTL refreshes recency but not the insertion time
	tier.now = func() time.Time { return base.Add(9 * time.Second) }
	_, ok := tier.Get("a")
	require.True(t, ok)

	tier.now = func() time.Time { return base.Add(11 * time.Second) }
	_, ok = tier.Get("a")
	assert.False(t, ok, "entry older than TTL must read as absent")

	snap := tier.Snapshot("ns")
	assert.Equal(t, int64(1), snap.MissCount, "expiry counts as a miss")
	assert.Equal(t, int64(1), snap.EvictionCount, "expiry counts as an eviction")
	assert.Equal(t, 0, tier.Len(), "expired entry is removed")
}

func TestEvictDoesNotTouchHitMissCounters(t *testing.T) {
	tier := NewTier(Config{Capacity: 4, TTL: time.Minute})

	tier.Put("a", []byte("1"))
	require.True(t, tier.Evict("a"))
	assert.False(t, tier.Evict("a"), "second evict finds nothing")

	snap := tier.Snapshot("ns")
	assert.Equal(t, int64(0), snap.HitCount)
	assert.Equal(t, int64(0), snap.MissCount)
	assert.Equal(t, int64(1), snap.EvictionCount)
}

func TestEvictAll(t *testing.T) {
	tier := NewTier(Config{Capacity: 8, TTL: time.Minute})

	for _, k := range []string{"a", "b", "c"} {
		tier.Put(k, []byte(k))
	}
	assert.Equal(t, 3, tier.EvictAll())
	assert.Equal(t, 0, tier.Len())
	assert.Equal(t, int64(3), tier.Snapshot("ns").EvictionCount)
	assert.Equal(t, 0, tier.EvictAll(), "empty tier evicts nothing")
}

func TestZeroCapacityDisablesTier(t *testing.T) {
	tier := NewTier(Config{Capacity: 0, TTL: time.Minute})

	tier.Put("a", []byte("1"))
	_, ok := tier.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, tier.Len())
	assert.Equal(t, int64(1), tier.Snapshot("ns").MissCount)
}

func TestLoadFailureCounter(t *testing.T) {
	tier := NewTier(Config{Capacity: 4, TTL: time.Minute})
	tier.LoadFailure()
	tier.LoadFailure()
	assert.Equal(t, int64(2), tier.Snapshot("ns").LoadFailureCount)
}

func TestSnapshotNamespaceAndRate(t *testing.T) {
	tier := NewTier(Config{Capacity: 4, TTL: time.Minute})

	snap := tier.Snapshot("translations")
	assert.Equal(t, "translations", snap.Namespace)
	assert.Zero(t, snap.HitRate, "no traffic means rate 0, not NaN")

	tier.Put("a", []byte("1"))
	tier.Get("a")
	tier.Get("a")
	tier.Get("x")
	snap = tier.Snapshot("translations")
	assert.InDelta(t, 2.0/3.0, snap.HitRate, 1e-9)
}
