package tiercache

import (
	"errors"

	"github.com/unkn0wn-root/tiercache/registry"
)

var (
	// ErrUnknownNamespace: the namespace was never registered. A programming
	// error; fail fast.
	ErrUnknownNamespace = registry.ErrUnknownNamespace

	// ErrDuplicateNamespace: the same namespace was registered twice at
	// startup.
	ErrDuplicateNamespace = registry.ErrDuplicateNamespace

	// ErrUnavailable: the remote tier or bus could not be reached within its
	// timeout. Custom store.Store or bus.Bus implementations may return it to
	// mark outages explicitly; the facade absorbs it either way, treating
	// reads as misses and writes as logged no-ops. Callers of GetOrLoad
	// never see it.
	ErrUnavailable = errors.New("tiercache: backend unavailable")

	// ErrWaitTimeout: a caller's deadline expired while waiting on another
	// caller's in-flight load. The load itself continues and still populates
	// the cache.
	ErrWaitTimeout = errors.New("tiercache: timed out waiting for in-flight load")
)
