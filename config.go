package cooldown

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/devzbysiu/cooldown-buffer/accumulator"
	"github.com/devzbysiu/cooldown-buffer/internal"
)

type Option[Item any] = func(*config[Item])

// WithAccumulator replaces the default appending accumulator. The buffer
// derives its own instance from it, so the passed accumulator is never
// touched concurrently.
func WithAccumulator[Item any](acc internal.Accumulator[Item]) Option[Item] {
	if acc == nil {
		panic("accumulator can't be nil")
	}
	return func(c *config[Item]) {
		c.accumulator = acc
	}
}

// WithTransport supplies the inbound transport channel instead of the
// default-constructed one. Closing it from the producer side shuts the
// buffer down.
func WithTransport[Item any](transport chan Item) Option[Item] {
	if transport == nil {
		panic("transport can't be nil")
	}
	return func(c *config[Item]) {
		c.transport = transport
	}
}

// WithCapacity sets the capacity of the default-constructed inbound transport.
// It is ignored when [WithTransport] is used.
func WithCapacity[Item any](capacity int) Option[Item] {
	if capacity < 0 {
		panic("capacity can't be < 0")
	}
	return func(c *config[Item]) {
		c.capacity = capacity
	}
}

// WithFlushOnClose delivers the pending batch on close instead of discarding
// it. The delivery does not block: if the previous batch was not yet consumed,
// the final one is dropped.
func WithFlushOnClose[Item any]() Option[Item] {
	return func(c *config[Item]) {
		c.flushOnClose = true
	}
}

func WithPrometheus[Item any](
	registerer prometheus.Registerer,
	namespace, subsystem string,
) Option[Item] {
	return func(c *config[Item]) {
		c.metrics = newMetrics(registerer, namespace, subsystem)
	}
}

type config[Item any] struct {
	cooldown     time.Duration
	accumulator  internal.Accumulator[Item]
	transport    chan Item
	capacity     int
	flushOnClose bool
	metrics      *metrics
}

func newConfig[Item any](cooldown time.Duration, options ...Option[Item]) *config[Item] {
	options = append([]Option[Item]{
		WithAccumulator[Item](accumulator.Appending[Item]()),
		WithCapacity[Item](64),
		WithPrometheus[Item](nil, "namespace", "subsystem"),
	}, options...)

	cfg := config[Item]{cooldown: cooldown}
	for _, opt := range options {
		opt(&cfg)
	}

	return &cfg
}
