package dispatcher

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/openhousing/processes/internal/domain/event"
)

// Dispatcher routes process change events to registered handlers. It is the
// in-process implementation of the event publisher port; consumers that need
// a real bus adapt a handler to their transport.
type Dispatcher interface {
	// Subscribe registers a handler for one event kind
	Subscribe(kind event.Kind, name string, handler Handler)

	// SubscribeAll registers a handler for every defined event kind
	SubscribeAll(name string, handler Handler)

	// Publish sends the event to all registered handlers synchronously and
	// returns the first handler error. Implements port.EventPublisher.
	Publish(ctx context.Context, evt *event.Event) error

	// PublishAsync sends the event to handlers without waiting for them
	PublishAsync(ctx context.Context, evt *event.Event)

	// Close shuts down the dispatcher and waits for async handlers
	Close() error
}

// Logger is the minimal logging dependency of the dispatcher
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// eventDispatcher is the concrete implementation of Dispatcher
type eventDispatcher struct {
	mu       sync.RWMutex
	handlers map[event.Kind][]HandlerInfo
	logger   Logger

	wg     sync.WaitGroup
	closed atomic.Bool
}

// Option configures the dispatcher
type Option func(*eventDispatcher)

// WithLogger sets a logger for the dispatcher
func WithLogger(logger Logger) Option {
	return func(d *eventDispatcher) {
		d.logger = logger
	}
}

// New creates an event dispatcher
func New(opts ...Option) Dispatcher {
	d := &eventDispatcher{
		handlers: make(map[event.Kind][]HandlerInfo),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Subscribe registers a handler for one event kind
func (d *eventDispatcher) Subscribe(kind event.Kind, name string, handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.handlers[kind] = append(d.handlers[kind], HandlerInfo{
		Name:    name,
		Kind:    kind,
		Handler: handler,
	})

	if d.logger != nil {
		d.logger.Info("Handler registered",
			"event_kind", kind,
			"handler_name", name,
		)
	}
}

// SubscribeAll registers a handler for every defined event kind
func (d *eventDispatcher) SubscribeAll(name string, handler Handler) {
	for _, kind := range event.Kinds() {
		d.Subscribe(kind, name, handler)
	}
}

// Publish sends the event to all registered handlers synchronously
func (d *eventDispatcher) Publish(ctx context.Context, evt *event.Event) error {
	if d.closed.Load() {
		return fmt.Errorf("dispatcher is closed")
	}

	d.mu.RLock()
	handlers := d.handlers[evt.Kind]
	d.mu.RUnlock()

	for _, info := range handlers {
		if err := d.safeExecute(ctx, evt, info); err != nil {
			if d.logger != nil {
				d.logger.Error("Handler error",
					"event_kind", evt.Kind,
					"event_id", evt.ID,
					"handler_name", info.Name,
					"error", err,
				)
			}
			return fmt.Errorf("handler %s failed: %w", info.Name, err)
		}
	}

	return nil
}

// PublishAsync sends the event to handlers without waiting for them
func (d *eventDispatcher) PublishAsync(ctx context.Context, evt *event.Event) {
	if d.closed.Load() {
		if d.logger != nil {
			d.logger.Error("Cannot publish async event, dispatcher is closed",
				"event_kind", evt.Kind,
				"event_id", evt.ID,
			)
		}
		return
	}

	d.mu.RLock()
	handlers := d.handlers[evt.Kind]
	d.mu.RUnlock()

	for _, info := range handlers {
		d.wg.Add(1)
		go func(h HandlerInfo) {
			defer d.wg.Done()

			if err := d.safeExecute(ctx, evt, h); err != nil {
				if d.logger != nil {
					d.logger.Error("Async handler error",
						"event_kind", evt.Kind,
						"event_id", evt.ID,
						"handler_name", h.Name,
						"error", err,
					)
				}
			}
		}(info)
	}
}

// Close shuts down the dispatcher and waits for async handlers to complete
func (d *eventDispatcher) Close() error {
	if !d.closed.CompareAndSwap(false, true) {
		return fmt.Errorf("dispatcher already closed")
	}

	d.wg.Wait()

	if d.logger != nil {
		d.logger.Info("Dispatcher closed")
	}

	return nil
}

// safeExecute runs a handler with panic recovery
func (d *eventDispatcher) safeExecute(ctx context.Context, evt *event.Event, info HandlerInfo) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()

	return info.Handler(ctx, evt)
}
