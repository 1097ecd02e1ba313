package binding

import (
	"context"
	"sync"
)

// Lifetime scopes the output subscriptions made to one target. Subscriptions
// created under a Lifetime are valid while it is alive; ending it releases
// them all.
type Lifetime struct {
	gen    uint64
	ctx    context.Context
	cancel context.CancelFunc

	mu    sync.Mutex
	ended bool
	onEnd []func()
}

func newLifetime(gen uint64) *Lifetime {
	ctx, cancel := context.WithCancel(context.Background())
	return &Lifetime{
		gen:    gen,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Generation returns the epoch number of this lifetime. Generations start at
// 1 and increase by one on every renewal.
func (l *Lifetime) Generation() uint64 {
	return l.gen
}

// Context returns a context that is cancelled when the lifetime ends.
func (l *Lifetime) Context() context.Context {
	return l.ctx
}

// Done returns a channel that is closed when the lifetime ends.
func (l *Lifetime) Done() <-chan struct{} {
	return l.ctx.Done()
}

// Alive reports whether the lifetime has not ended yet.
func (l *Lifetime) Alive() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return !l.ended
}

// OnEnd registers fn to run when the lifetime ends. If it has already ended,
// fn runs immediately.
func (l *Lifetime) OnEnd(fn func()) {
	l.mu.Lock()
	if l.ended {
		l.mu.Unlock()
		fn()
		return
	}
	l.onEnd = append(l.onEnd, fn)
	l.mu.Unlock()
}

// End ends the lifetime and runs the registered functions in registration
// order. Only the first call has any effect; it reports true.
func (l *Lifetime) End() bool {
	l.mu.Lock()
	if l.ended {
		l.mu.Unlock()
		return false
	}
	l.ended = true
	fns := l.onEnd
	l.onEnd = nil
	l.mu.Unlock()

	l.cancel()
	for _, fn := range fns {
		fn()
	}
	return true
}

// Lifetimes hands out one live Lifetime at a time.
type Lifetimes struct {
	mu      sync.Mutex
	current *Lifetime
	closed  bool
}

// NewLifetimes creates a manager with generation 1 armed.
func NewLifetimes() *Lifetimes {
	return &Lifetimes{current: newLifetime(1)}
}

// Current returns the live lifetime, or the final ended one after Close.
func (ls *Lifetimes) Current() *Lifetime {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return ls.current
}

// Renew ends the current lifetime and then arms the next generation. After
// Close it returns the final, already ended lifetime.
func (ls *Lifetimes) Renew() *Lifetime {
	ls.mu.Lock()
	old := ls.current
	if ls.closed {
		ls.mu.Unlock()
		return old
	}
	ls.mu.Unlock()

	old.End()

	ls.mu.Lock()
	defer ls.mu.Unlock()
	if ls.closed {
		return ls.current
	}
	ls.current = newLifetime(old.gen + 1)
	return ls.current
}

// Close ends the current lifetime for good. It reports true on the first
// call and is a no-op afterwards.
func (ls *Lifetimes) Close() bool {
	ls.mu.Lock()
	if ls.closed {
		ls.mu.Unlock()
		return false
	}
	ls.closed = true
	cur := ls.current
	ls.mu.Unlock()

	cur.End()
	return true
}

// Closed reports whether Close has been called.
func (ls *Lifetimes) Closed() bool {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return ls.closed
}
