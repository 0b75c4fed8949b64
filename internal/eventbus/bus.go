// internal/eventbus/bus.go
package eventbus

import (
	"context"
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"learnhub/internal/domain"
)

// Handler consumes domain events. Name identifies the handler for
// unsubscription and logging.
type Handler interface {
	Name() string
	Handle(ctx context.Context, event domain.Event) error
}

// HandlerFunc adapts a named function to the Handler interface.
type HandlerFunc struct {
	HandlerName string
	Fn          func(ctx context.Context, event domain.Event) error
}

func (h HandlerFunc) Name() string { return h.HandlerName }

func (h HandlerFunc) Handle(ctx context.Context, event domain.Event) error {
	return h.Fn(ctx, event)
}

type workerState int

const (
	workerIdle workerState = iota
	workerRunning
)

// Bus is an in-process event bus. Publish enqueues and hands off to a worker
// goroutine that drains the queue and exits when empty; PublishSync delivers
// on the caller's goroutine. Handler errors and panics are logged, never
// propagated, so one bad subscriber cannot starve the rest.
type Bus struct {
	mu          sync.Mutex
	subscribers map[string][]Handler
	queue       []domain.Event
	state       workerState
	cycleDone   chan struct{}
	deliveries  int
	tracer      trace.Tracer
}

// New returns an empty bus with the worker idle.
func New() *Bus {
	return &Bus{
		subscribers: make(map[string][]Handler),
		state:       workerIdle,
		tracer:      otel.Tracer("learnhub/eventbus"),
	}
}

// Subscribe registers a handler for one event type. Handlers fire in
// subscription order.
func (b *Bus) Subscribe(eventType string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], h)
}

// Unsubscribe removes a handler by name. Unknown handlers are a no-op.
func (b *Bus) Unsubscribe(eventType string, handlerName string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	handlers := b.subscribers[eventType]
	for i, h := range handlers {
		if h.Name() == handlerName {
			b.subscribers[eventType] = append(handlers[:i], handlers[i+1:]...)
			return
		}
	}
}

// Publish enqueues the event for asynchronous delivery, starting the worker
// if it is idle.
func (b *Bus) Publish(ctx context.Context, event domain.Event) {
	b.mu.Lock()
	b.queue = append(b.queue, event)
	if b.state == workerIdle {
		b.state = workerRunning
		b.cycleDone = make(chan struct{})
		go b.drain(context.WithoutCancel(ctx), b.cycleDone)
	}
	b.mu.Unlock()
}

// PublishSync delivers the event to all subscribers on the caller's
// goroutine before returning.
func (b *Bus) PublishSync(ctx context.Context, event domain.Event) {
	b.dispatch(ctx, event)
}

func (b *Bus) drain(ctx context.Context, done chan struct{}) {
	for {
		b.mu.Lock()
		if len(b.queue) == 0 {
			b.state = workerIdle
			close(done)
			b.mu.Unlock()
			return
		}
		event := b.queue[0]
		b.queue = b.queue[1:]
		b.mu.Unlock()

		b.dispatch(ctx, event)
	}
}

func (b *Bus) dispatch(ctx context.Context, event domain.Event) {
	ctx, span := b.tracer.Start(ctx, "eventbus.dispatch",
		trace.WithAttributes(
			attribute.String("event.type", event.EventType()),
			attribute.String("aggregate.id", event.AggregateID()),
		),
	)
	defer span.End()

	b.mu.Lock()
	handlers := make([]Handler, len(b.subscribers[event.EventType()]))
	copy(handlers, b.subscribers[event.EventType()])
	b.mu.Unlock()

	for _, h := range handlers {
		b.deliver(ctx, h, event)
	}
	span.SetAttributes(attribute.Int("handler.count", len(handlers)))
}

func (b *Bus) deliver(ctx context.Context, h Handler, event domain.Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("eventbus: handler %s panicked on %s: %v", h.Name(), event.EventType(), r)
		}
	}()
	if err := h.Handle(ctx, event); err != nil {
		log.Printf("eventbus: handler %s failed on %s: %v", h.Name(), event.EventType(), err)
		return
	}
	b.mu.Lock()
	b.deliveries++
	b.mu.Unlock()
}

// Wait blocks until the async queue is drained and the worker has exited.
// Each drain cycle gets its own done channel, so a Publish racing with Wait
// simply starts a new cycle that the loop picks up on the next pass.
func (b *Bus) Wait() {
	for {
		b.mu.Lock()
		if b.state == workerIdle {
			b.mu.Unlock()
			return
		}
		done := b.cycleDone
		b.mu.Unlock()
		<-done
	}
}

// Deliveries reports how many handler invocations completed without error.
func (b *Bus) Deliveries() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.deliveries
}
