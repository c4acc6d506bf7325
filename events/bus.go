package events

import (
	"sync"
	"time"

	"github.com/jchou1989/XuanteaPOS-sub001/metrics"
)

type Handler func(Event)

type subscription struct {
	id      uint64
	name    Name // empty = every event
	handler Handler
}

// Bus delivers each published event synchronously, in registration order, to the
// subscribers registered when Publish is called. Nothing is buffered or replayed.
type Bus struct {
	mu   sync.RWMutex
	subs []subscription
	next uint64
	now  func() time.Time
}

func NewBus() *Bus {
	return &Bus{now: time.Now}
}

// Subscribe registers h for one event name and returns its unsubscribe func.
func (b *Bus) Subscribe(name Name, h Handler) func() {
	return b.add(name, h)
}

// SubscribeAll registers h for every event.
func (b *Bus) SubscribeAll(h Handler) func() {
	return b.add("", h)
}

func (b *Bus) add(name Name, h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.next++
	id := b.next
	b.subs = append(b.subs, subscription{id: id, name: name, handler: h})

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(id) })
	}
}

func (b *Bus) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// Publish validates e and hands it to the current subscribers. Handlers run on the
// caller's goroutine outside the bus lock, so a handler may publish in turn.
func (b *Bus) Publish(e Event) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if e.At.IsZero() {
		e.At = b.now().UTC()
	}

	b.mu.RLock()
	targets := make([]Handler, 0, len(b.subs))
	for _, s := range b.subs {
		if s.name == "" || s.name == e.Name {
			targets = append(targets, s.handler)
		}
	}
	b.mu.RUnlock()

	metrics.RecordEvent(string(e.Name))
	for _, h := range targets {
		h(e)
	}
	return nil
}

// Subscribers reports how many handlers would receive an event named name.
func (b *Bus) Subscribers(name Name) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n := 0
	for _, s := range b.subs {
		if s.name == "" || s.name == name {
			n++
		}
	}
	return n
}
