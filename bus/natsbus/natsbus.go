// Package natsbus carries invalidation messages over a NATS subject.
// Plain core NATS is enough: delivery is best-effort by design and the
// local-tier TTL bounds staleness when a message is missed.
package natsbus

import (
	"context"
	"errors"

	"github.com/nats-io/nats.go"

	"github.com/unkn0wn-root/tiercache/bus"
)

const DefaultSubject = "tiercache.invalidate"

var ErrNilConn = errors.New("natsbus: nil connection")

type Config struct {
	Conn      *nats.Conn
	Subject   string // "" => DefaultSubject
	CloseConn bool   // set true only if this bus exclusively owns the connection
}

type NATS struct {
	nc        *nats.Conn
	subject   string
	closeConn bool
}

var _ bus.Bus = (*NATS)(nil)

func New(cfg Config) (*NATS, error) {
	if cfg.Conn == nil {
		return nil, ErrNilConn
	}
	subject := cfg.Subject
	if subject == "" {
		subject = DefaultSubject
	}
	return &NATS{nc: cfg.Conn, subject: subject, closeConn: cfg.CloseConn}, nil
}

func (b *NATS) Publish(_ context.Context, m bus.Message) error {
	data, err := m.Encode()
	if err != nil {
		return err
	}
	return b.nc.Publish(b.subject, data)
}

// Subscribe delivers each subject message to h on NATS's callback goroutine.
// Undecodable payloads are dropped; the transport is shared, so a foreign
// message must not take the subscriber down.
func (b *NATS) Subscribe(h bus.Handler) (func(), error) {
	sub, err := b.nc.Subscribe(b.subject, func(nm *nats.Msg) {
		m, err := bus.Decode(nm.Data)
		if err != nil {
			return
		}
		h(m)
	})
	if err != nil {
		return nil, err
	}
	return func() { _ = sub.Unsubscribe() }, nil
}

// Close drains the connection when this bus owns it, so in-flight
// invalidations are still delivered.
func (b *NATS) Close(context.Context) error {
	if !b.closeConn {
		return nil
	}
	if b.nc.IsClosed() {
		return nil
	}
	return b.nc.Drain()
}
