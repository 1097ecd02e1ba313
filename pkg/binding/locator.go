package binding

import "sync"

// TargetLocator resolves the component instance currently owned by the host.
// Current returns nil when there is no instance yet.
type TargetLocator interface {
	Current() any
}

// LocatorFunc adapts a function to TargetLocator.
type LocatorFunc func() any

// Current calls f.
func (f LocatorFunc) Current() any { return f() }

// Outlet is a structural host that renders a component in place and knows
// the instance it created.
type Outlet interface {
	Instance() any
}

// Injector is a registry-style provider of the component instance, consulted
// when no outlet resolves one.
type Injector interface {
	Instance() any
}

type locator struct {
	outlet   Outlet
	injector Injector
}

// NewLocator returns a TargetLocator that prefers the outlet's instance and
// falls back to the injector's. Either collaborator may be nil.
func NewLocator(outlet Outlet, injector Injector) TargetLocator {
	return &locator{outlet: outlet, injector: injector}
}

func (l *locator) Current() any {
	if l.outlet != nil {
		if inst := l.outlet.Instance(); inst != nil {
			return inst
		}
	}
	if l.injector != nil {
		return l.injector.Instance()
	}
	return nil
}

// ComponentRef holds the instance a host has mounted. It satisfies both
// Outlet and Injector.
type ComponentRef struct {
	mu       sync.RWMutex
	instance any
}

var (
	_ Outlet   = (*ComponentRef)(nil)
	_ Injector = (*ComponentRef)(nil)
)

// NewComponentRef creates a ComponentRef holding instance, which may be nil.
func NewComponentRef(instance any) *ComponentRef {
	return &ComponentRef{instance: instance}
}

// Instance returns the mounted instance, or nil.
func (r *ComponentRef) Instance() any {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.instance
}

// Set mounts instance, replacing any previous one.
func (r *ComponentRef) Set(instance any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.instance = instance
}

// Clear unmounts the instance.
func (r *ComponentRef) Clear() {
	r.Set(nil)
}
