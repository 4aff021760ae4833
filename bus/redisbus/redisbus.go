// Package redisbus carries invalidation messages over a Redis pub/sub
// channel. Handy when Redis is already the remote tier: one backend serves
// both the warm set and the invalidation fan-out.
package redisbus

import (
	"context"
	"errors"
	"sync"

	goredis "github.com/redis/go-redis/v9"

	"github.com/unkn0wn-root/tiercache/bus"
)

const DefaultChannel = "tiercache:invalidate"

var ErrNilClient = errors.New("redisbus: nil client")

type Config struct {
	Client      goredis.UniversalClient
	Channel     string // "" => DefaultChannel
	CloseClient bool   // set true only if this bus exclusively owns the client
}

type Redis struct {
	rdb         goredis.UniversalClient
	channel     string
	closeClient bool

	mu   sync.Mutex
	subs []*goredis.PubSub
}

var _ bus.Bus = (*Redis)(nil)

func New(cfg Config) (*Redis, error) {
	if cfg.Client == nil {
		return nil, ErrNilClient
	}
	channel := cfg.Channel
	if channel == "" {
		channel = DefaultChannel
	}
	return &Redis{rdb: cfg.Client, channel: channel, closeClient: cfg.CloseClient}, nil
}

func (b *Redis) Publish(ctx context.Context, m bus.Message) error {
	data, err := m.Encode()
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, data).Err()
}

// Subscribe runs a background receive loop for the channel. go-redis
// reconnects the pub/sub connection itself; messages published while
// disconnected are lost, which the TTL backstop covers.
func (b *Redis) Subscribe(h bus.Handler) (func(), error) {
	ps := b.rdb.Subscribe(context.Background(), b.channel)
	// force the subscription onto the wire before returning
	if _, err := ps.Receive(context.Background()); err != nil {
		_ = ps.Close()
		return nil, err
	}

	b.mu.Lock()
	b.subs = append(b.subs, ps)
	b.mu.Unlock()

	go func() {
		for nm := range ps.Channel() {
			m, err := bus.Decode([]byte(nm.Payload))
			if err != nil {
				continue
			}
			h(m)
		}
	}()

	return func() { _ = ps.Close() }, nil
}

func (b *Redis) Close(context.Context) error {
	b.mu.Lock()
	subs := b.subs
	b.subs = nil
	b.mu.Unlock()
	for _, ps := range subs {
		_ = ps.Close()
	}
	if b.closeClient {
		if err := b.rdb.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
			return err
		}
	}
	return nil
}
