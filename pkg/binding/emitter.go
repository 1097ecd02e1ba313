package binding

import "sync"

type subscription struct {
	id      uint64
	handler Handler
}

// Emitter is an output that fans events out to its subscribers. It is the
// Subscribable that targets normally expose.
type Emitter struct {
	mu     sync.Mutex
	nextID uint64
	subs   []subscription
}

var _ Subscribable = (*Emitter)(nil)

// NewEmitter creates an Emitter with no subscribers.
func NewEmitter() *Emitter {
	return &Emitter{}
}

// Subscribe attaches h until lt ends. Subscribing under an ended lifetime
// does nothing.
func (e *Emitter) Subscribe(h Handler, lt *Lifetime) error {
	if h == nil {
		return errNilHandler
	}
	if lt == nil || !lt.Alive() {
		return nil
	}

	e.mu.Lock()
	e.nextID++
	id := e.nextID
	e.subs = append(e.subs, subscription{id: id, handler: h})
	e.mu.Unlock()

	lt.OnEnd(func() { e.unsubscribe(id) })
	return nil
}

func (e *Emitter) unsubscribe(id uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i, s := range e.subs {
		if s.id == id {
			e.subs = append(e.subs[:i], e.subs[i+1:]...)
			return
		}
	}
}

// Emit delivers event to every current subscriber in subscription order and
// returns how many handlers ran.
func (e *Emitter) Emit(event any) int {
	e.mu.Lock()
	subs := make([]subscription, len(e.subs))
	copy(subs, e.subs)
	e.mu.Unlock()

	for _, s := range subs {
		s.handler(event)
	}
	return len(subs)
}

// Subscribers returns the number of live subscriptions.
func (e *Emitter) Subscribers() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.subs)
}
