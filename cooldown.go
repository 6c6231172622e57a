// Package cooldown buffers items sent through a channel until no more activity
// happens on that channel for a specified amount of time. Every arriving item
// postpones the flush, so a burst of related items (for example files appearing
// on a filesystem) ends up in a single batch once the burst is over.
package cooldown

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/devzbysiu/cooldown-buffer/internal"
)

var (
	// ErrClosed is returned by Send and Receive after the buffer has terminated.
	ErrClosed = errors.New("buffer is closed")
	// ErrInvalidCooldown is returned by New when the cooldown is not positive.
	ErrInvalidCooldown = errors.New("cooldown must be positive")
)

// Buffer accumulates items until its inbound side cools down for the configured
// duration, then delivers everything accumulated so far as one batch.
//
// Producers call [Buffer.Send], the consumer calls [Buffer.Receive] or selects
// on [Buffer.Batches]. A delivered batch is never empty and no item ever
// appears in two batches.
type Buffer[Item any] struct {
	cfg *config[Item]

	closing *atomic.Bool

	in  chan Item
	out chan []Item

	runCtx   context.Context
	runStop  func()
	runGroup *errgroup.Group
}

// New creates a buffer that flushes after cooldown of inactivity. The cooldown
// must be positive.
func New[Item any](cooldown time.Duration, options ...Option[Item]) (*Buffer[Item], error) {
	if cooldown <= 0 {
		return nil, fmt.Errorf("cooldown %v: %w", cooldown, ErrInvalidCooldown)
	}
	cfg := newConfig(cooldown, options...)

	in := cfg.transport
	if in == nil {
		in = make(chan Item, cfg.capacity)
	}

	runCtx_, runStop := context.WithCancel(context.Background())
	runGroup, runCtx := errgroup.WithContext(runCtx_)

	buffer := Buffer[Item]{
		cfg: cfg,

		closing: new(atomic.Bool),

		in:  in,
		out: make(chan []Item, 1),

		runCtx:   runCtx,
		runStop:  runStop,
		runGroup: runGroup,
	}

	buffer.runGroup.Go(buffer.run)

	return &buffer, nil
}

// Send hands a single item to the buffer. It blocks while the inbound
// transport is full and returns [ErrClosed] after the buffer has terminated.
func (b *Buffer[Item]) Send(ctx context.Context, item Item) error {
	if b.closing.Load() {
		return ErrClosed
	}

	select {
	case b.in <- item:
		return nil
	case <-b.runCtx.Done():
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Receive blocks until the next batch is flushed. Once the buffer has
// terminated and all flushed batches were received, it returns [ErrClosed].
func (b *Buffer[Item]) Receive(ctx context.Context) ([]Item, error) {
	select {
	case batch, ok := <-b.out:
		if !ok {
			return nil, ErrClosed
		}
		return batch, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Batches exposes the outbound side of the buffer as a channel. Each receive
// yields exactly one complete batch. The channel is closed when the buffer
// terminates.
func (b *Buffer[Item]) Batches() <-chan []Item {
	return b.out
}

// Close terminates the buffer. Any armed flush timer is cancelled and items
// that were buffered but not yet flushed are discarded, unless
// [WithFlushOnClose] was set. A second call returns [ErrClosed].
func (b *Buffer[Item]) Close() error {
	if b.closing.Swap(true) {
		return ErrClosed
	}

	b.runStop()
	if err := b.runGroup.Wait(); err != nil {
		return fmt.Errorf("run loop: %w", err)
	}

	return nil
}

// run owns all mutable state of the buffer: the accumulator and the flush
// timer are only ever touched from this goroutine, so an item arriving at the
// same instant the timer fires is either appended before the flush takes the
// batch or starts the next cycle. It never ends up in both or neither.
func (b *Buffer[Item]) run() error {
	var (
		acc   = b.cfg.accumulator.Derive()
		m     = b.cfg.metrics
		timer = time.NewTimer(b.cfg.cooldown)
	)
	timer.Stop()
	defer timer.Stop()
	defer close(b.out)

	// Whatever ends the loop, subsequent Send and Close calls must observe
	// the buffer as closed instead of touching a dead transport.
	defer b.runStop()
	defer b.closing.Store(true)
	defer m.items.Set(0)

	for {
		select {
		case <-b.runCtx.Done():
			if b.cfg.flushOnClose {
				b.drain(acc)
				b.offer(acc, m)
			}
			return nil

		case item, ok := <-b.in:
			if !ok {
				// Producer closed the transport.
				if b.cfg.flushOnClose {
					b.offer(acc, m)
				}
				return nil
			}
			acc.Push(item)
			timer.Reset(b.cfg.cooldown)
			m.itemsPushed.Inc()
			m.items.Inc()

		case <-timer.C:
			if acc.Size() == 0 {
				continue
			}
			batch := take(acc)
			m.items.Set(0)
			select {
			case b.out <- batch:
				m.flushes.WithLabelValues("cooldown").Inc()
				m.batchSize.Observe(float64(len(batch)))
			case <-b.runCtx.Done():
				// Consumer is gone, the batch is lost.
				return nil
			}
		}
	}
}

// drain moves items that are still sitting in the transport into the
// accumulator so that a close-time flush does not lose them.
func (b *Buffer[Item]) drain(acc internal.Accumulator[Item]) {
	for {
		select {
		case item, ok := <-b.in:
			if !ok {
				return
			}
			acc.Push(item)
		default:
			return
		}
	}
}

// offer makes the final batch available without blocking. If the outbound slot
// is still occupied the batch is dropped, since nobody is consuming anymore.
func (b *Buffer[Item]) offer(acc internal.Accumulator[Item], m *metrics) {
	if acc.Size() == 0 {
		return
	}

	batch := take(acc)
	m.items.Set(0)

	select {
	case b.out <- batch:
		m.flushes.WithLabelValues("close").Inc()
		m.batchSize.Observe(float64(len(batch)))
	default:
	}
}

func take[Item any](acc internal.Accumulator[Item]) []Item {
	batch := slices.Collect(acc.Iter())
	acc.Reset()
	return batch
}
