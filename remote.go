package tiercache

import (
	"context"
	"time"

	"github.com/unkn0wn-root/tiercache/internal/wire"
	"github.com/unkn0wn-root/tiercache/registry"
	"github.com/unkn0wn-root/tiercache/store"
)

// remoteTier wraps a store.Store with per-operation timeouts and the failure
// discipline the facade requires: every transport failure degrades to a miss
// (reads) or a logged no-op (writes), never to a caller-visible error.
type remoteTier struct {
	store        store.Store
	log          Logger
	readTimeout  time.Duration
	writeTimeout time.Duration
}

func newRemoteTier(s store.Store, log Logger, readTimeout, writeTimeout time.Duration) *remoteTier {
	return &remoteTier{
		store:        s,
		log:          log,
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
	}
}

func remoteKey(namespace, key string) string { return "tc:" + namespace + ":" + key }
func remotePrefix(namespace string) string   { return "tc:" + namespace + ":" }

// get returns the remote value for key, treating unavailability, corruption,
// and wipe-stale entries all as absence. Corrupt and stale entries are
// deleted best-effort (self-heal).
func (r *remoteTier) get(ctx context.Context, st *registry.State, key string) ([]byte, bool) {
	ns := st.Config.Name
	k := remoteKey(ns, key)

	opCtx, cancel := context.WithTimeout(ctx, r.readTimeout)
	defer cancel()

	raw, ok, err := r.store.Get(opCtx, k)
	if err != nil {
		r.log.Warn("remote tier unavailable on read", Fields{"namespace": ns, "key": key, "err": err})
		return nil, false
	}
	if !ok {
		return nil, false
	}

	stamp, payload, err := wire.Decode(raw)
	if err != nil {
		r.del(ctx, st, key) // self-heal corrupt
		return nil, false
	}
	if stamp < st.WipeFloor() {
		// written before the last whole-namespace invalidation
		r.del(ctx, st, key)
		return nil, false
	}
	return payload, true
}

// put stores value stamped with the wipe floor observed before the load
// started. If the floor moved in the meantime the write is skipped: caching
// a value computed against wiped state would resurrect it.
func (r *remoteTier) put(ctx context.Context, st *registry.State, key string, value []byte, observedFloor uint64) {
	ns := st.Config.Name
	if st.WipeFloor() != observedFloor {
		r.log.Debug("remote put skipped (namespace wiped during load)", Fields{"namespace": ns, "key": key})
		return
	}

	opCtx, cancel := context.WithTimeout(ctx, r.writeTimeout)
	defer cancel()

	ok, err := r.store.Set(opCtx, remoteKey(ns, key), wire.Encode(observedFloor, value), st.Config.RemoteTTL)
	if err != nil {
		r.log.Warn("remote tier unavailable on write", Fields{"namespace": ns, "key": key, "err": err})
		return
	}
	if !ok {
		r.log.Debug("remote put rejected by store (pressure)", Fields{"namespace": ns, "key": key})
	}
}

func (r *remoteTier) del(ctx context.Context, st *registry.State, key string) {
	ns := st.Config.Name

	opCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.writeTimeout)
	defer cancel()

	if err := r.store.Del(opCtx, remoteKey(ns, key)); err != nil {
		r.log.Warn("remote tier unavailable on delete", Fields{"namespace": ns, "key": key, "err": err})
	}
}

// delNamespace bulk-deletes the namespace prefix when the store supports it.
// Stores without prefix deletion rely on the wipe stamp alone; entries die
// lazily on read or by TTL.
func (r *remoteTier) delNamespace(ctx context.Context, st *registry.State) {
	ns := st.Config.Name
	pd, ok := r.store.(store.PrefixDeleter)
	if !ok {
		r.log.Debug("store has no prefix delete; relying on lazy wipe validation", Fields{"namespace": ns})
		return
	}

	opCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.writeTimeout)
	defer cancel()

	if err := pd.DelPrefix(opCtx, remotePrefix(ns)); err != nil {
		r.log.Warn("remote namespace delete failed", Fields{"namespace": ns, "err": err})
	}
}

func (r *remoteTier) close(ctx context.Context) error {
	return r.store.Close(ctx)
}
