package tiercache

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/unkn0wn-root/tiercache/bus"
	"github.com/unkn0wn-root/tiercache/local"
	"github.com/unkn0wn-root/tiercache/registry"
)

const (
	defaultReadTimeout  = 200 * time.Millisecond
	defaultWriteTimeout = 500 * time.Millisecond
)

type facade struct {
	reg    *registry.Registry
	tiers  map[string]*local.Tier
	remote *remoteTier // nil when no store configured
	bus    bus.Bus     // nil when no bus configured
	log    Logger

	originID     string
	writeTimeout time.Duration

	flight singleflight.Group

	unsubscribe func()
	closeOnce   sync.Once
}

var _ Cache = (*facade)(nil)

func newFacade(opts Options) (*facade, error) {
	if len(opts.Namespaces) == 0 {
		return nil, fmt.Errorf("tiercache: at least one namespace is required")
	}

	f := &facade{
		reg:   registry.New(),
		tiers: make(map[string]*local.Tier, len(opts.Namespaces)),
	}

	f.log = coalesce[Logger](opts.Logger, NopLogger{})
	f.originID = coalesce[string](opts.OriginID, defaultOriginID())
	f.writeTimeout = coalesce[time.Duration](opts.WriteTimeout, defaultWriteTimeout)
	readTimeout := coalesce[time.Duration](opts.ReadTimeout, defaultReadTimeout)

	for _, cfg := range opts.Namespaces {
		if err := f.reg.Register(cfg); err != nil {
			return nil, err
		}
		tier := local.NewTier(local.Config{Capacity: cfg.LocalCapacity, TTL: cfg.LocalTTL})
		if opts.Metrics != nil {
			if err := tier.EnableMetrics(opts.Metrics, cfg.Name); err != nil {
				return nil, fmt.Errorf("tiercache: metrics for namespace %q: %w", cfg.Name, err)
			}
		}
		f.tiers[cfg.Name] = tier
	}

	if opts.Store != nil {
		f.remote = newRemoteTier(opts.Store, f.log, readTimeout, f.writeTimeout)
	}

	if opts.Bus != nil {
		f.bus = opts.Bus
		unsub, err := opts.Bus.Subscribe(f.handleInvalidation)
		if err != nil {
			// degraded start: staleness is bounded by the local TTL backstop
			f.log.Warn("bus subscribe failed; running without cross-process invalidation",
				Fields{"err": err})
		} else {
			f.unsubscribe = unsub
		}
	}

	return f, nil
}

func defaultOriginID() string {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}
	return fmt.Sprintf("%s-%d", host, os.Getpid())
}

func (f *facade) GetOrLoad(ctx context.Context, namespace, key string, loader Loader) ([]byte, error) {
	st, err := f.reg.Get(namespace)
	if err != nil {
		return nil, err
	}
	tier := f.tiers[namespace]

	if v, ok := tier.Get(key); ok {
		return v, nil
	}

	// Collapse concurrent misses for the same key into one load. The flight
	// runs detached from this caller's ctx so a waiter timing out does not
	// cancel the load for everyone else.
	loadCtx := context.WithoutCancel(ctx)
	ch := f.flight.DoChan(namespace+"\x1f"+key, func() (any, error) {
		return f.load(loadCtx, st, tier, key, loader)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %s/%s: %w", ErrWaitTimeout, namespace, key, ctx.Err())
	}
}

// load runs inside the single flight: remote tier first, then the loader,
// populating both tiers on success.
func (f *facade) load(ctx context.Context, st *registry.State, tier *local.Tier, key string, loader Loader) ([]byte, error) {
	if f.remote != nil {
		if v, ok := f.remote.get(ctx, st, key); ok {
			tier.Put(key, v)
			return v, nil
		}
	}

	// observe the wipe floor before loading; the remote put is skipped if a
	// whole-namespace invalidation lands while the loader runs
	observedFloor := st.WipeFloor()

	v, err := loader(ctx)
	if err != nil {
		tier.LoadFailure()
		return nil, err
	}

	tier.Put(key, v)
	if f.remote != nil {
		f.remote.put(ctx, st, key, v, observedFloor)
	}
	return v, nil
}

func (f *facade) Invalidate(ctx context.Context, namespace, key string) error {
	st, err := f.reg.Get(namespace)
	if err != nil {
		return err
	}

	f.tiers[namespace].Evict(key)
	version := st.Bump()
	if f.remote != nil {
		f.remote.del(ctx, st, key)
	}
	f.publish(ctx, bus.Message{
		Namespace:   namespace,
		Scope:       bus.ScopeOneKey,
		Key:         key,
		Version:     version,
		OriginID:    f.originID,
		PublishedAt: time.Now().UTC(),
	})
	return nil
}

func (f *facade) InvalidateNamespace(ctx context.Context, namespace string) error {
	st, err := f.reg.Get(namespace)
	if err != nil {
		return err
	}

	f.tiers[namespace].EvictAll()
	version := st.Bump()
	st.RaiseWipeFloor(version)
	if f.remote != nil {
		f.remote.delNamespace(ctx, st)
	}
	f.publish(ctx, bus.Message{
		Namespace:   namespace,
		Scope:       bus.ScopeWholeNamespace,
		Version:     version,
		OriginID:    f.originID,
		PublishedAt: time.Now().UTC(),
	})
	return nil
}

// publish broadcasts best-effort: a dead bus costs convergence speed, never
// a request failure.
func (f *facade) publish(ctx context.Context, m bus.Message) {
	if f.bus == nil {
		return
	}
	opCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), f.writeTimeout)
	defer cancel()

	if err := f.bus.Publish(opCtx, m); err != nil {
		f.log.Warn("invalidation publish failed", Fields{
			"namespace": m.Namespace, "scope": m.Scope, "key": m.Key, "err": err,
		})
	}
}

// handleInvalidation applies one bus message. Only messages that move the
// namespace version forward are applied, which makes duplicate and
// out-of-order delivery harmless.
func (f *facade) handleInvalidation(m bus.Message) {
	st, err := f.reg.Get(m.Namespace)
	if err != nil {
		f.log.Debug("invalidation for unregistered namespace ignored", Fields{"namespace": m.Namespace})
		return
	}
	if !st.AdvanceTo(m.Version) {
		return // already applied, or our own message
	}

	switch m.Scope {
	case bus.ScopeWholeNamespace:
		st.RaiseWipeFloor(m.Version)
		n := f.tiers[m.Namespace].EvictAll()
		f.log.Debug("applied namespace invalidation", Fields{
			"namespace": m.Namespace, "version": m.Version, "origin": m.OriginID, "evicted": n,
		})
	case bus.ScopeOneKey:
		f.tiers[m.Namespace].Evict(m.Key)
		f.log.Debug("applied key invalidation", Fields{
			"namespace": m.Namespace, "key": m.Key, "version": m.Version, "origin": m.OriginID,
		})
	default:
		f.log.Warn("invalidation with unknown scope dropped", Fields{"scope": m.Scope})
	}
}

func (f *facade) WarmUp(ctx context.Context, namespace string, keys []string, loader KeyLoader) error {
	if _, err := f.reg.Get(namespace); err != nil {
		return err
	}
	for _, k := range keys {
		if err := ctx.Err(); err != nil {
			return err
		}
		key := k
		if _, err := f.GetOrLoad(ctx, namespace, key, func(ctx context.Context) ([]byte, error) {
			return loader(ctx, key)
		}); err != nil {
			f.log.Warn("warmup load failed", Fields{"namespace": namespace, "key": key, "err": err})
		}
	}
	return nil
}

func (f *facade) Stats(namespace string) (StatisticsSnapshot, error) {
	if _, err := f.reg.Get(namespace); err != nil {
		return StatisticsSnapshot{}, err
	}
	return f.tiers[namespace].Snapshot(namespace), nil
}

func (f *facade) SnapshotAll() map[string]StatisticsSnapshot {
	out := make(map[string]StatisticsSnapshot, len(f.tiers))
	for ns, tier := range f.tiers {
		out[ns] = tier.Snapshot(ns)
	}
	return out
}

func (f *facade) Close(ctx context.Context) error {
	var err error
	f.closeOnce.Do(func() {
		if f.unsubscribe != nil {
			f.unsubscribe()
		}
		if f.bus != nil {
			if cerr := f.bus.Close(ctx); cerr != nil {
				err = cerr
			}
		}
		if f.remote != nil {
			if cerr := f.remote.close(ctx); cerr != nil && err == nil {
				err = cerr
			}
		}
	})
	return err
}
