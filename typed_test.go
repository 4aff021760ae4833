package tiercache

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	c "github.com/unkn0wn-root/tiercache/codec"
)

type translation struct {
	Locale string `json:"locale"`
	Text   string `json:"text"`
}

func TestTypedRoundTrip(t *testing.T) {
	ctx := context.Background()
	cc := newTestCache(t, Options{
		Namespaces: []NamespaceConfig{
			{Name: "translations", LocalCapacity: 8, LocalTTL: time.Minute, RemoteTTL: time.Minute},
		},
		Store: newMemStore(),
	})

	typed := NewTyped[translation](cc, "translations", c.JSON[translation]{})

	var calls atomic.Int64
	want := translation{Locale: "en", Text: "hello"}
	load := func(context.Context) (translation, error) {
		calls.Add(1)
		return want, nil
	}

	got, err := typed.GetOrLoad(ctx, Key("greet", "en"), load)
	if err != nil || got != want {
		t.Fatalf("first load: got=%+v err=%v", got, err)
	}

	// second read decodes the cached bytes without the loader
	got, err = typed.GetOrLoad(ctx, Key("greet", "en"), load)
	if err != nil || got != want {
		t.Fatalf("cached read: got=%+v err=%v", got, err)
	}
	if calls.Load() != 1 {
		t.Fatalf("loader ran %d times, want 1", calls.Load())
	}

	if err := typed.Invalidate(ctx, Key("greet", "en")); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if _, err := typed.GetOrLoad(ctx, Key("greet", "en"), load); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("loader ran %d times after invalidate, want 2", calls.Load())
	}
}

func TestKeyBuilder(t *testing.T) {
	if got := Key("menu", "42", "en"); got != "menu:42:en" {
		t.Fatalf("Key = %q", got)
	}
	long := Key("menu", string(make([]byte, 400)))
	if len(long) > maxKeyLen {
		t.Fatalf("overlong key not bounded: len=%d", len(long))
	}
	if long == Key("menu", string(make([]byte, 401))) {
		t.Fatalf("different inputs should hash to different keys")
	}
}
