package local

import "github.com/prometheus/client_golang/prometheus"

// tierMetrics mirrors the tier counters as Prometheus metrics when a
// Registerer is supplied. The atomic Statistics remain the source of truth;
// metrics are an additional, optional surface.
type tierMetrics struct {
	hits         prometheus.Counter
	misses       prometheus.Counter
	evictions    prometheus.Counter
	loadFailures prometheus.Counter
	size         prometheus.Gauge
}

func newTierMetrics(reg prometheus.Registerer, namespace string) (*tierMetrics, error) {
	labels := prometheus.Labels{"namespace": namespace}
	m := &tierMetrics{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "tiercache",
			Subsystem:   "local",
			Name:        "hits_total",
			ConstLabels: labels,
			Help:        "Total number of local tier hits",
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "tiercache",
			Subsystem:   "local",
			Name:        "misses_total",
			ConstLabels: labels,
			Help:        "Total number of local tier misses",
		}),
		evictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "tiercache",
			Subsystem:   "local",
			Name:        "evictions_total",
			ConstLabels: labels,
			Help:        "Total number of local tier evictions (capacity, TTL, or invalidation)",
		}),
		loadFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "tiercache",
			Subsystem:   "local",
			Name:        "load_failures_total",
			ConstLabels: labels,
			Help:        "Total number of loader failures",
		}),
		size: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "tiercache",
			Subsystem:   "local",
			Name:        "size",
			ConstLabels: labels,
			Help:        "Current number of entries in the local tier",
		}),
	}
	for _, c := range []prometheus.Collector{m.hits, m.misses, m.evictions, m.loadFailures, m.size} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// EnableMetrics registers Prometheus mirrors for this tier's counters.
// Call before the tier is handed to concurrent users.
func (t *Tier) EnableMetrics(reg prometheus.Registerer, namespace string) error {
	m, err := newTierMetrics(reg, namespace)
	if err != nil {
		return err
	}
	t.metrics = m
	return nil
}
