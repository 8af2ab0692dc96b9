// Package eventbus provides an in-process pub/sub bus for analysis events.
// Transports publish after an analysis completes; subscribers process events
// asynchronously so that logging and metrics never delay a response.
package eventbus

import (
	"context"
	"log/slog"
	"sync"

	"github.com/matthewbaird/crisis/internal/event"
)

// Handler processes a domain event. Implementations must be safe for
// concurrent calls from different goroutines.
type Handler interface {
	HandleEvent(ctx context.Context, evt event.DomainEvent) error
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(ctx context.Context, evt event.DomainEvent) error

func (f HandlerFunc) HandleEvent(ctx context.Context, evt event.DomainEvent) error {
	return f(ctx, evt)
}

// Option configures a Bus.
type Option func(*Bus)

// WithDropHook calls fn for every event dropped because the buffer was full.
func WithDropHook(fn func(event.DomainEvent)) Option {
	return func(b *Bus) { b.onDrop = fn }
}

// WithLogger sets the logger used for drops and handler errors.
func WithLogger(l *slog.Logger) Option {
	return func(b *Bus) { b.log = l }
}

// Bus is an in-process event bus. Events are published to a buffered
// channel and dispatched to all subscribers in a single consumer goroutine,
// so handlers see events in publish order.
type Bus struct {
	mu          sync.RWMutex
	subscribers []namedHandler
	closed      bool
	events      chan event.DomainEvent
	done        chan struct{}
	onDrop      func(event.DomainEvent)
	log         *slog.Logger
}

type namedHandler struct {
	name    string
	handler Handler
}

// New creates a Bus with the given channel buffer size.
func New(bufSize int, opts ...Option) *Bus {
	if bufSize < 1 {
		bufSize = 256
	}
	b := &Bus{
		events: make(chan event.DomainEvent, bufSize),
		done:   make(chan struct{}),
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers a named handler. Must be called before Start.
func (b *Bus) Subscribe(name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = append(b.subscribers, namedHandler{name: name, handler: h})
}

// Publish sends an event to the bus. It never blocks: if the buffer is full,
// or the bus is stopped, the event is dropped.
func (b *Bus) Publish(_ context.Context, evt event.DomainEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.closed {
		select {
		case b.events <- evt:
			return
		default:
		}
	}
	b.log.Warn("eventbus: dropping event", "type", evt.EventType, "id", evt.ID)
	if b.onDrop != nil {
		b.onDrop(evt)
	}
}

// Start begins the consumer goroutine. It processes events until Stop is
// called or ctx is cancelled; on cancellation buffered events are drained
// first.
func (b *Bus) Start(ctx context.Context) {
	go func() {
		defer close(b.done)
		for {
			select {
			case evt, ok := <-b.events:
				if !ok {
					return
				}
				b.dispatch(ctx, evt)
			case <-ctx.Done():
				for {
					select {
					case evt, ok := <-b.events:
						if !ok {
							return
						}
						b.dispatch(ctx, evt)
					default:
						return
					}
				}
			}
		}
	}()
}

// Stop closes the bus and waits for the consumer goroutine to finish
// dispatching buffered events. Safe to call more than once.
func (b *Bus) Stop() {
	b.mu.Lock()
	if !b.closed {
		b.closed = true
		close(b.events)
	}
	b.mu.Unlock()
	<-b.done
}

func (b *Bus) dispatch(ctx context.Context, evt event.DomainEvent) {
	b.mu.RLock()
	subs := b.subscribers
	b.mu.RUnlock()

	for _, s := range subs {
		if err := s.handler.HandleEvent(ctx, evt); err != nil {
			b.log.Error("eventbus: handler failed", "handler", s.name, "type", evt.EventType, "error", err)
		}
	}
}
