// Package bus implements the named-event dispatcher every component talks
// through. Dispatch is synchronous: Publish invokes each handler registered
// for the name, in registration order, and returns once all have run. A
// handler may publish further events (they run to completion before the outer
// Publish returns) and may subscribe or unsubscribe during dispatch.
package bus

import (
	"sync"

	"github.com/rs/zerolog"
)

// Handler receives the payload published for an event name. The payload type
// for each name is agreed in the events package.
type Handler func(payload any)

// Subscription identifies one registration and is the only way to remove it.
type Subscription struct {
	bus   *Bus
	event string
	id    uint64
}

// Unsubscribe removes this registration. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.bus == nil {
		return
	}
	s.bus.remove(s.event, s.id)
	s.bus = nil
}

type registration struct {
	id      uint64
	handler Handler
}

type Bus struct {
	mu       sync.Mutex
	nextID   uint64
	handlers map[string][]registration
	log      zerolog.Logger
}

func New(log zerolog.Logger) *Bus {
	return &Bus{
		handlers: make(map[string][]registration),
		log:      log.With().Str("component", "bus").Logger(),
	}
}

// Subscribe registers handler for event. Multiple handlers per event are
// allowed; registration order is preserved for dispatch.
func (b *Bus) Subscribe(event string, handler Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	b.handlers[event] = append(b.handlers[event], registration{id: b.nextID, handler: handler})
	return &Subscription{bus: b, event: event, id: b.nextID}
}

// Publish invokes every handler currently registered for event, in
// registration order. A panicking handler is logged and skipped; it does not
// stop dispatch to the remaining handlers or unwind the publisher.
func (b *Bus) Publish(event string, payload any) {
	b.mu.Lock()
	regs := make([]registration, len(b.handlers[event]))
	copy(regs, b.handlers[event])
	b.mu.Unlock()

	for _, reg := range regs {
		b.dispatch(event, reg.handler, payload)
	}
}

func (b *Bus) dispatch(event string, handler Handler, payload any) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error().Str("event", event).Interface("panic", r).Msg("handler panicked")
		}
	}()
	handler(payload)
}

// Clear removes all handlers for the given event names, or every handler on
// the bus when called with no arguments.
func (b *Bus) Clear(events ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(events) == 0 {
		b.handlers = make(map[string][]registration)
		return
	}
	for _, event := range events {
		delete(b.handlers, event)
	}
}

func (b *Bus) remove(event string, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	regs := b.handlers[event]
	for i, reg := range regs {
		if reg.id == id {
			b.handlers[event] = append(regs[:i:i], regs[i+1:]...)
			return
		}
	}
}
