package membus

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unkn0wn-root/tiercache/bus"
)

func TestFanOutToAllSubscribers(t *testing.T) {
	b := New()
	ctx := context.Background()

	var got1, got2 []bus.Message
	unsub1, err := b.Subscribe(func(m bus.Message) { got1 = append(got1, m) })
	require.NoError(t, err)
	_, err = b.Subscribe(func(m bus.Message) { got2 = append(got2, m) })
	require.NoError(t, err)

	m := bus.Message{Namespace: "x", Scope: bus.ScopeOneKey, Key: "k", Version: 1}
	require.NoError(t, b.Publish(ctx, m))
	assert.Len(t, got1, 1)
	assert.Len(t, got2, 1)

	unsub1()
	require.NoError(t, b.Publish(ctx, m))
	assert.Len(t, got1, 1, "unsubscribed handler must not receive")
	assert.Len(t, got2, 2)
}

func TestClosedBusRejects(t *testing.T) {
	b := New()
	require.NoError(t, b.Close(context.Background()))

	err := b.Publish(context.Background(), bus.Message{Namespace: "x", Scope: bus.ScopeOneKey})
	assert.ErrorIs(t, err, ErrClosed)

	_, err = b.Subscribe(func(bus.Message) {})
	assert.ErrorIs(t, err, ErrClosed)
}
