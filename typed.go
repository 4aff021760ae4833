package tiercache

import (
	"context"

	c "github.com/unkn0wn-root/tiercache/codec"
)

// Typed binds one namespace of a Cache to a value type V via a Codec. The
// core stays byte-opaque; this is a convenience layer for business code
// that does not want to touch serialization.
type Typed[V any] struct {
	cache Cache
	ns    string
	codec c.Codec[V]
}

func NewTyped[V any](cache Cache, namespace string, codec c.Codec[V]) Typed[V] {
	return Typed[V]{cache: cache, ns: namespace, codec: codec}
}

// GetOrLoad is Cache.GetOrLoad with encode-on-store and decode-on-return.
// Loader errors pass through verbatim.
func (t Typed[V]) GetOrLoad(ctx context.Context, key string, load func(ctx context.Context) (V, error)) (V, error) {
	raw, err := t.cache.GetOrLoad(ctx, t.ns, key, func(ctx context.Context) ([]byte, error) {
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return t.codec.Encode(v)
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return t.codec.Decode(raw)
}

func (t Typed[V]) Invalidate(ctx context.Context, key string) error {
	return t.cache.Invalidate(ctx, t.ns, key)
}

func (t Typed[V]) InvalidateAll(ctx context.Context) error {
	return t.cache.InvalidateNamespace(ctx, t.ns)
}
