// Package tiercache implements a multi-tier read-through cache for reference
// data that is read far more often than it changes: a per-process LRU tier,
// an optional shared byte store (e.g. Redis), and a publish/subscribe
// invalidation protocol that converges every process's local tier.
//
// Components:
//   - registry: per-namespace config and monotonic version counters.
//   - local: in-process, size- and time-bounded LRU tier with statistics.
//   - store: byte store with TTL behind the remote tier (Redis, Ristretto, BigCache).
//   - bus: invalidation message transport (NATS, Redis pub/sub, in-process).
//
// Keys in the shared store: tc:<namespace>:<key>. Entries are framed with
// the namespace wipe version; a whole-namespace invalidation bumps the
// version and stale entries are rejected lazily on read, so stores without
// prefix deletion still converge.
//
// Failure discipline: the remote tier and the bus are best-effort. Their
// failures are absorbed and logged; a read still succeeds via the loader
// with both of them down. Loader errors are the only failures surfaced to
// callers. Missed bus messages are bounded by the local tier TTL.
package tiercache
