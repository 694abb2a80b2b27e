package audit

import (
	"context"
	"sync"
	"sync/atomic"
)

// Config controls dispatch buffering.
type Config struct {
	Enabled bool

	// BufferSize is the number of events that may sit between the request
	// path and the sink.
	BufferSize int

	// DropIfFull discards events when the buffer is full instead of making
	// the token request wait on audit I/O. Drops are counted and surfaced
	// through Dropped.
	DropIfFull bool
}

// Dispatcher decouples the authorize/issue pipeline from sink I/O: Emit
// hands the event to a single forwarding goroutine and returns. A slow sink
// therefore delays audit delivery, never token issuance.
type Dispatcher struct {
	cfg     Config
	sink    Sink
	events  chan Event
	quit    chan struct{}
	wg      sync.WaitGroup
	dropped atomic.Uint64
	closed  atomic.Bool
	stop    sync.Once
}

// NewDispatcher starts the forwarding goroutine. It returns nil when
// auditing is disabled; a nil Dispatcher accepts Emit, Close, and Dropped
// as no-ops.
func NewDispatcher(cfg Config, sink Sink) *Dispatcher {
	if !cfg.Enabled {
		return nil
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 1
	}
	if sink == nil {
		sink = NoOpSink{}
	}

	d := &Dispatcher{
		cfg:    cfg,
		sink:   sink,
		events: make(chan Event, cfg.BufferSize),
		quit:   make(chan struct{}),
	}

	d.wg.Add(1)
	go d.forward()

	return d
}

func (d *Dispatcher) forward() {
	defer d.wg.Done()

	for {
		select {
		case event := <-d.events:
			d.sink.Emit(context.Background(), event)
		case <-d.quit:
			d.drain()
			return
		}
	}
}

// drain flushes events buffered before Close so a shutdown does not lose
// the tail of the audit trail.
func (d *Dispatcher) drain() {
	for {
		select {
		case event := <-d.events:
			d.sink.Emit(context.Background(), event)
		default:
			return
		}
	}
}

// Emit queues event for delivery. With DropIfFull a full buffer discards
// the event and counts the drop; otherwise Emit waits until there is room,
// the context is canceled, or the dispatcher shuts down.
func (d *Dispatcher) Emit(ctx context.Context, event Event) {
	if d == nil || d.closed.Load() {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if d.cfg.DropIfFull {
		select {
		case d.events <- event:
		case <-d.quit:
		default:
			d.dropped.Add(1)
		}
		return
	}

	select {
	case d.events <- event:
	case <-ctx.Done():
	case <-d.quit:
	}
}

// Close stops the forwarding goroutine after draining buffered events. Safe
// to call more than once; Emit calls after Close are ignored.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	d.stop.Do(func() {
		d.closed.Store(true)
		close(d.quit)
		d.wg.Wait()
	})
}

// Dropped reports how many events were discarded because the buffer was
// full.
func (d *Dispatcher) Dropped() uint64 {
	if d == nil {
		return 0
	}
	return d.dropped.Load()
}
