// Package binding keeps a dynamically created component instance in sync
// with a host-supplied map of inputs and map of output handlers.
//
// A Coordinator is driven by the host once per evaluation pass. On every
// pass it resolves the current target through a TargetLocator and then
// either:
//
//   - the target changed identity: every current input is assigned, the
//     target receives a ChangeSet in which every entry is a first change,
//     and all outputs are unbound from the old target and bound to the new
//     one; or
//   - the target is the same: a MapDiffer compares the inputs with the
//     previous pass, and the added and changed entries are assigned and
//     delivered as one ChangeSet.
//
// # Capabilities
//
// Targets opt in to behaviour by implementing small interfaces:
//
//	type Counter struct {
//	    Count   int             `bind:"count"`
//	    Clicked *binding.Emitter `bind:"clicked"`
//	}
//
//	func (c *Counter) OnChanges(changes binding.Changes) {
//	    if ch, ok := changes["count"]; ok && ch.IsFirstChange() {
//	        // first assignment
//	    }
//	}
//
// Plain struct targets get reflective field assignment. Targets that need
// control implement InputsReceiver and OutputsProvider instead.
//
// # Output lifetimes
//
// Every subscription made for an output is scoped to a Lifetime. A
// Coordinator keeps exactly one live Lifetime; ending it releases every
// subscription made under it. Rebinding always ends the old Lifetime
// before binding under a fresh one.
//
// # Thread Safety
//
// A Coordinator is not safe for concurrent passes. The host must issue
// passes sequentially, in order. Emitter and Lifetime are safe for use
// from multiple goroutines.
package binding
