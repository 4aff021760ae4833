// Package bus defines the invalidation message and the publish/subscribe
// transport used to broadcast evictions to every process.
//
// Delivery is best-effort and at-least-once. There is no cross-namespace
// ordering; within a namespace the monotonic message version, not transport
// order, decides what applies. A process may receive its own messages —
// handlers must be idempotent (the version check makes them so).
package bus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Scope says how much of a namespace an invalidation covers.
type Scope string

const (
	ScopeOneKey         Scope = "ONE_KEY"
	ScopeWholeNamespace Scope = "WHOLE_NAMESPACE"
)

// Message is the invalidation wire message. Transient: transmitted over the
// bus, never persisted. Key is set iff Scope is ONE_KEY.
type Message struct {
	Namespace   string    `json:"namespace"`
	Scope       Scope     `json:"scope"`
	Key         string    `json:"key,omitempty"`
	Version     uint64    `json:"version"`
	OriginID    string    `json:"originId"`
	PublishedAt time.Time `json:"publishedAt"`
}

// Encode serializes m to its JSON wire form.
func (m Message) Encode() ([]byte, error) { return json.Marshal(m) }

// Decode parses a wire message and rejects structurally invalid ones.
func Decode(b []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(b, &m); err != nil {
		return Message{}, fmt.Errorf("bus: decode message: %w", err)
	}
	if m.Namespace == "" {
		return Message{}, fmt.Errorf("bus: message without namespace")
	}
	switch m.Scope {
	case ScopeOneKey, ScopeWholeNamespace:
	default:
		return Message{}, fmt.Errorf("bus: unknown scope %q", m.Scope)
	}
	return m, nil
}

// Handler processes one delivered message. Handlers must not block: the
// subscriber loop calls them inline.
type Handler func(Message)

// Bus delivers Messages to every subscribed process.
type Bus interface {
	// Publish broadcasts m, best-effort.
	Publish(ctx context.Context, m Message) error

	// Subscribe registers a long-lived handler and returns its unsubscribe
	// function. One subscription per process is the intended use.
	Subscribe(h Handler) (unsubscribe func(), err error)

	// Close releases the transport.
	Close(ctx context.Context) error
}
