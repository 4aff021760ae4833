package tiercache

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/unkn0wn-root/tiercache/bus"
	"github.com/unkn0wn-root/tiercache/local"
	"github.com/unkn0wn-root/tiercache/registry"
	"github.com/unkn0wn-root/tiercache/store"
)

// NamespaceConfig is the per-namespace configuration supplied at startup.
type NamespaceConfig = registry.Config

// StatisticsSnapshot is the derived per-namespace counter view.
type StatisticsSnapshot = local.Snapshot

// Loader computes a value when both cache tiers miss. The error is returned
// verbatim to every caller waiting on the same key; nothing is cached on
// failure.
type Loader func(ctx context.Context) ([]byte, error)

// KeyLoader is the per-key form used by WarmUp.
type KeyLoader func(ctx context.Context, key string) ([]byte, error)

// Cache is the read-through facade consumed by business code. Values are
// opaque bytes; serialization belongs to the caller (see Typed for a
// codec-backed wrapper).
type Cache interface {
	// GetOrLoad checks the local tier, then the remote tier, and finally
	// runs loader under a per-(namespace,key) single flight. Concurrent
	// callers for the same key share one loader invocation and its result.
	// The wait is bounded by ctx; a waiter that gives up does not cancel
	// the in-flight load.
	GetOrLoad(ctx context.Context, namespace, key string, loader Loader) ([]byte, error)

	// Invalidate evicts one key everywhere: local tier, remote tier, and a
	// ONE_KEY message on the bus for every other process.
	Invalidate(ctx context.Context, namespace, key string) error

	// InvalidateNamespace evicts a whole namespace the same way.
	InvalidateNamespace(ctx context.Context, namespace string) error

	// WarmUp pre-populates both tiers for the given keys at startup.
	// Individual loader failures are logged and skipped.
	WarmUp(ctx context.Context, namespace string, keys []string, loader KeyLoader) error

	// Stats returns the counter snapshot for one namespace.
	Stats(namespace string) (StatisticsSnapshot, error)

	// SnapshotAll returns snapshots for every registered namespace.
	SnapshotAll() map[string]StatisticsSnapshot

	// Close stops the bus subscriber and releases the store and bus.
	Close(ctx context.Context) error
}

// Options tune the facade. Only Namespaces is required; a nil Store or Bus
// simply disables that tier (reads then go local tier -> loader).
type Options struct {
	// Required: one config per namespace, registered once at startup.
	Namespaces []NamespaceConfig

	Store store.Store // remote tier backend; nil => no remote tier
	Bus   bus.Bus     // invalidation transport; nil => no cross-process invalidation

	Logger   Logger // if nil, NopLogger is used
	OriginID string // identifies this process in messages; "" => host-pid

	ReadTimeout  time.Duration // remote reads; 0 => 200ms
	WriteTimeout time.Duration // remote writes and bus publishes; 0 => 500ms

	Metrics prometheus.Registerer // optional Prometheus mirror of tier counters
}

// New builds a Cache owning its registry, local tiers, remote client, and
// bus subscription. Construct one per process and pass it to collaborators;
// call Close on shutdown.
func New(opts Options) (Cache, error) {
	return newFacade(opts)
}
