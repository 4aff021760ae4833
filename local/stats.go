package local

import "sync/atomic"

// Statistics tracks per-namespace counters. All fields are atomic so hot
// paths never take an extra lock to count.
type Statistics struct {
	hits         atomic.Int64
	misses       atomic.Int64
	evictions    atomic.Int64
	loadFailures atomic.Int64
}

func NewStatistics() *Statistics { return &Statistics{} }

// Snapshot is a derived, read-only view of one namespace's counters,
// computed on demand.
type Snapshot struct {
	Namespace        string  `json:"namespace"`
	HitCount         int64   `json:"hitCount"`
	MissCount        int64   `json:"missCount"`
	EvictionCount    int64   `json:"evictionCount"`
	LoadFailureCount int64   `json:"loadFailureCount"`
	CurrentSize      int64   `json:"currentSize"`
	HitRate          float64 `json:"hitRate"`
}

func (s *Statistics) snapshot(namespace string, size int) Snapshot {
	hits := s.hits.Load()
	misses := s.misses.Load()
	var rate float64
	if total := hits + misses; total > 0 {
		rate = float64(hits) / float64(total)
	}
	return Snapshot{
		Namespace:        namespace,
		HitCount:         hits,
		MissCount:        misses,
		EvictionCount:    s.evictions.Load(),
		LoadFailureCount: s.loadFailures.Load(),
		CurrentSize:      int64(size),
		HitRate:          rate,
	}
}
