// Package registry holds per-namespace configuration and the per-namespace
// monotonic version counters that drive invalidation.
//
// A Registry is populated once at process startup and is read-mostly after
// that: the only mutations are atomic counter movements on State, so lookups
// never contend with invalidation traffic and namespaces never share a
// counter.
package registry

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

var (
	ErrUnknownNamespace   = errors.New("tiercache: unknown namespace")
	ErrDuplicateNamespace = errors.New("tiercache: duplicate namespace")
)

// Config is the immutable per-namespace configuration, supplied at startup.
// LocalCapacity == 0 disables the local tier for the namespace; every read
// then falls through to the remote tier and the loader.
type Config struct {
	Name          string
	LocalCapacity int
	LocalTTL      time.Duration
	RemoteTTL     time.Duration
}

// State is the live per-namespace state. The version counter starts at 0 and
// moves forward only: bumped by the local invalidate path, or adopted from a
// higher version seen on the invalidation bus. The wipe floor is the version
// of the last whole-namespace invalidation; remote entries stamped below it
// are stale.
type State struct {
	Config Config

	version   atomic.Uint64
	wipeFloor atomic.Uint64
}

// Version returns the current namespace version.
func (s *State) Version() uint64 { return s.version.Load() }

// Bump atomically increments the version and returns the new value.
func (s *State) Bump() uint64 { return s.version.Add(1) }

// AdvanceTo moves the version forward to v and reports whether it moved.
// Versions at or below the current value are ignored, which makes
// at-least-once bus delivery idempotent.
func (s *State) AdvanceTo(v uint64) bool {
	for {
		cur := s.version.Load()
		if v <= cur {
			return false
		}
		if s.version.CompareAndSwap(cur, v) {
			return true
		}
	}
}

// WipeFloor returns the version of the last whole-namespace invalidation.
func (s *State) WipeFloor() uint64 { return s.wipeFloor.Load() }

// RaiseWipeFloor moves the wipe floor up to v; lower values are ignored.
func (s *State) RaiseWipeFloor(v uint64) {
	for {
		cur := s.wipeFloor.Load()
		if v <= cur {
			return
		}
		if s.wipeFloor.CompareAndSwap(cur, v) {
			return
		}
	}
}

// Registry maps namespace names to their State. Register is called at
// startup only; Get and BumpVersion are safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	namespaces map[string]*State
}

func New() *Registry {
	return &Registry{namespaces: make(map[string]*State)}
}

// Register adds a namespace. Registering the same name twice is a
// configuration error.
func (r *Registry) Register(cfg Config) error {
	if cfg.Name == "" {
		return fmt.Errorf("tiercache: namespace name is required")
	}
	if cfg.LocalCapacity < 0 {
		return fmt.Errorf("tiercache: namespace %q: negative local capacity", cfg.Name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.namespaces[cfg.Name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateNamespace, cfg.Name)
	}
	r.namespaces[cfg.Name] = &State{Config: cfg}
	return nil
}

// Get returns the State for a registered namespace.
func (r *Registry) Get(name string) (*State, error) {
	r.mu.RLock()
	st, ok := r.namespaces[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNamespace, name)
	}
	return st, nil
}

// BumpVersion atomically increments the namespace version and returns the
// new value.
func (r *Registry) BumpVersion(name string) (uint64, error) {
	st, err := r.Get(name)
	if err != nil {
		return 0, err
	}
	return st.Bump(), nil
}

// Names returns the registered namespace names in unspecified order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.namespaces))
	for n := range r.namespaces {
		out = append(out, n)
	}
	return out
}
