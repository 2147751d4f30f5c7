package eventbus

import (
	"runtime/debug"
	"sync"

	"overpass/internal/domain"
	"overpass/internal/logger"
)

// Re-export domain types for convenience
type DomainEvent = domain.DomainEvent
type EventType = domain.EventType

// Event type constants
const (
	EventSearchRequested      = domain.EventSearchRequested
	EventSearchStarted        = domain.EventSearchStarted
	EventOpportunitiesUpdated = domain.EventOpportunitiesUpdated
	EventSearchFailed         = domain.EventSearchFailed
	EventProductsUpdated      = domain.EventProductsUpdated
	EventProductsFailed       = domain.EventProductsFailed
	EventConfigLoaded         = domain.EventConfigLoaded
	EventConfigSaved          = domain.EventConfigSaved
	EventError                = domain.EventError
)

// Re-export domain event types
type SearchRequestedEvent = domain.SearchRequestedEvent
type SearchStartedEvent = domain.SearchStartedEvent
type OpportunitiesUpdatedEvent = domain.OpportunitiesUpdatedEvent
type SearchFailedEvent = domain.SearchFailedEvent
type ProductsUpdatedEvent = domain.ProductsUpdatedEvent
type ProductsFailedEvent = domain.ProductsFailedEvent
type ConfigLoadedEvent = domain.ConfigLoadedEvent
type ConfigSavedEvent = domain.ConfigSavedEvent
type ErrorEvent = domain.ErrorEvent

// EventHandler is a function that handles domain events
type EventHandler func(DomainEvent)

// EventBus is the interface for the event bus
type EventBus interface {
	Publish(event DomainEvent)
	Subscribe(eventType EventType, handler EventHandler) func()
	Close()
}

// subscription pairs a handler with a token so unsubscribing removes
// exactly this handler, regardless of what else was removed before it.
type subscription struct {
	id      uint64
	handler EventHandler
}

// bus is the concrete implementation of EventBus
type bus struct {
	mu        sync.RWMutex
	nextID    uint64
	handlers  map[EventType][]subscription
	eventChan chan DomainEvent
	wg        sync.WaitGroup
	quit      chan struct{}
	closeOnce sync.Once
}

// New creates a new event bus
func New() EventBus {
	b := &bus{
		handlers:  make(map[EventType][]subscription),
		eventChan: make(chan DomainEvent, 256),
		quit:      make(chan struct{}),
	}

	b.wg.Add(1)
	go b.dispatch()

	return b
}

// Publish publishes an event to all subscribers. It never blocks; when the
// buffer is full the event is dropped with a log line.
func (b *bus) Publish(event DomainEvent) {
	select {
	case b.eventChan <- event:
	default:
		logger.Get(logger.InfoLevel).Warnw("event bus full, dropping event", "type", event.Type())
	}
}

// Subscribe subscribes to events of a specific type.
// Returns an unsubscribe function.
func (b *bus) Subscribe(eventType EventType, handler EventHandler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.handlers[eventType] = append(b.handlers[eventType], subscription{id: id, handler: handler})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		subs := b.handlers[eventType]
		for i := range subs {
			if subs[i].id == id {
				b.handlers[eventType] = append(subs[:i], subs[i+1:]...)
				return
			}
		}
	}
}

// Close stops the dispatcher. Events published afterwards are discarded.
func (b *bus) Close() {
	b.closeOnce.Do(func() {
		close(b.quit)
		b.wg.Wait()
	})
}

// dispatch handles event distribution to subscribers
func (b *bus) dispatch() {
	defer b.wg.Done()

	for {
		select {
		case event := <-b.eventChan:
			b.mu.RLock()
			subs := b.handlers[event.Type()]
			subsCopy := make([]subscription, len(subs))
			copy(subsCopy, subs)
			b.mu.RUnlock()

			for _, sub := range subsCopy {
				b.invoke(sub.handler, event)
			}

		case <-b.quit:
			// Drain remaining events
			for {
				select {
				case <-b.eventChan:
				default:
					return
				}
			}
		}
	}
}

// invoke calls a handler synchronously, containing panics so one bad
// subscriber cannot take the dispatcher down.
func (b *bus) invoke(handler EventHandler, event DomainEvent) {
	defer func() {
		if r := recover(); r != nil {
			logger.Get(logger.InfoLevel).Errorw("event handler panic",
				"type", event.Type(), "panic", r, "stack", string(debug.Stack()))
		}
	}()
	handler(event)
}
