// Package local implements the in-process cache tier: one size- and
// time-bounded LRU store per namespace. All operations are in-memory and
// non-blocking; each Tier has its own lock so namespaces never contend with
// each other.
package local

import (
	"container/list"
	"sync"
	"time"
)

// Config bounds a single namespace's tier. Capacity 0 disables the tier:
// Get always misses and Put is a no-op.
type Config struct {
	Capacity int
	TTL      time.Duration // 0 => entries never expire passively
}

type entry struct {
	key            string
	value          []byte
	insertedAt     time.Time
	lastAccessedAt time.Time
}

// Tier is a thread-safe LRU store for one namespace.
type Tier struct {
	mu    sync.Mutex
	cfg   Config
	items map[string]*list.Element
	order *list.List // front = most recently used

	stats   *Statistics
	metrics *tierMetrics // optional Prometheus mirror

	now func() time.Time // test hook
}

func NewTier(cfg Config) *Tier {
	return &Tier{
		cfg:   cfg,
		items: make(map[string]*list.Element),
		order: list.New(),
		stats: NewStatistics(),
		now:   time.Now,
	}
}

// Get returns the cached value for key. A hit refreshes recency; an entry
// older than the configured TTL is removed and reported as a miss plus an
// eviction.
func (t *Tier) Get(key string) ([]byte, bool) {
	if t.cfg.Capacity == 0 {
		t.miss()
		return nil, false
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	el, ok := t.items[key]
	if !ok {
		t.miss()
		return nil, false
	}
	e := el.Value.(*entry)
	if t.cfg.TTL > 0 && t.now().Sub(e.insertedAt) > t.cfg.TTL {
		t.removeLocked(el)
		t.miss()
		t.evicted()
		t.sizeLocked()
		return nil, false
	}
	e.lastAccessedAt = t.now()
	t.order.MoveToFront(el)
	t.stats.hits.Add(1)
	if t.metrics != nil {
		t.metrics.hits.Inc()
	}
	return e.value, true
}

// Put inserts or overwrites key. When the namespace is at capacity the least
// recently accessed entry is evicted first.
func (t *Tier) Put(key string, value []byte) {
	if t.cfg.Capacity == 0 {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	if el, ok := t.items[key]; ok {
		e := el.Value.(*entry)
		e.value = value
		e.insertedAt = now
		e.lastAccessedAt = now
		t.order.MoveToFront(el)
		return
	}

	el := t.order.PushFront(&entry{
		key:            key,
		value:          value,
		insertedAt:     now,
		lastAccessedAt: now,
	})
	t.items[key] = el

	if len(t.items) > t.cfg.Capacity {
		if back := t.order.Back(); back != nil {
			t.removeLocked(back)
			t.evicted()
		}
	}
	t.sizeLocked()
}

// Evict removes key if present. Used by the invalidation path; counts as an
// eviction, never as a hit or miss.
func (t *Tier) Evict(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	el, ok := t.items[key]
	if !ok {
		return false
	}
	t.removeLocked(el)
	t.evicted()
	t.sizeLocked()
	return true
}

// EvictAll removes every entry and returns how many were removed.
func (t *Tier) EvictAll() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := len(t.items)
	if n == 0 {
		return 0
	}
	t.items = make(map[string]*list.Element)
	t.order.Init()
	t.stats.evictions.Add(int64(n))
	if t.metrics != nil {
		t.metrics.evictions.Add(float64(n))
	}
	t.sizeLocked()
	return n
}

// Len returns the current number of entries.
func (t *Tier) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.items)
}

// LoadFailure records a loader failure for this namespace. The facade calls
// this; the tier only owns the counter.
func (t *Tier) LoadFailure() {
	t.stats.loadFailures.Add(1)
	if t.metrics != nil {
		t.metrics.loadFailures.Inc()
	}
}

// Snapshot returns the current statistics for this namespace.
func (t *Tier) Snapshot(namespace string) Snapshot {
	t.mu.Lock()
	size := len(t.items)
	t.mu.Unlock()
	return t.stats.snapshot(namespace, size)
}

func (t *Tier) miss() {
	t.stats.misses.Add(1)
	if t.metrics != nil {
		t.metrics.misses.Inc()
	}
}

func (t *Tier) evicted() {
	t.stats.evictions.Add(1)
	if t.metrics != nil {
		t.metrics.evictions.Inc()
	}
}

func (t *Tier) sizeLocked() {
	if t.metrics != nil {
		t.metrics.size.Set(float64(len(t.items)))
	}
}

// removeLocked removes an element from both the list and the map.
// Caller holds the lock.
func (t *Tier) removeLocked(el *list.Element) {
	e := el.Value.(*entry)
	delete(t.items, e.key)
	t.order.Remove(el)
}
