package bus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageRoundTrip(t *testing.T) {
	in := Message{
		Namespace:   "translations",
		Scope:       ScopeOneKey,
		Key:         "greet:en",
		Version:     7,
		OriginID:    "api-1-4242",
		PublishedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
	data, err := in.Encode()
	require.NoError(t, err)

	out, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestWholeNamespaceOmitsKey(t *testing.T) {
	m := Message{Namespace: "menus", Scope: ScopeWholeNamespace, Version: 3, OriginID: "x"}
	data, err := m.Encode()
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"key"`)

	out, err := Decode(data)
	require.NoError(t, err)
	assert.Empty(t, out.Key)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode([]byte("not json"))
	assert.Error(t, err)

	_, err = Decode([]byte(`{"scope":"ONE_KEY","version":1}`))
	assert.Error(t, err, "missing namespace")

	_, err = Decode([]byte(`{"namespace":"x","scope":"SOME_KEYS","version":1}`))
	assert.Error(t, err, "unknown scope")
}
