package binding

import (
	"go.uber.org/multierr"

	"github.com/vango-dev/dynbind/internal/errors"
)

type boundTarget struct {
	target any
	keys   map[string]struct{}
}

// OutputBinder subscribes output handlers to a target's outputs, scoping
// every subscription to a Lifetime.
type OutputBinder struct {
	lt    *Lifetime
	bound []*boundTarget
}

// NewOutputBinder creates an OutputBinder.
func NewOutputBinder() *OutputBinder {
	return &OutputBinder{}
}

// Bind subscribes each handler in outputs to the target output of the same
// name, until lt ends. Outputs the target does not have, or that are not
// subscribable, are skipped. A (target, name) pair is bound at most once per
// lifetime.
//
// A nil handler or a failing Subscribe does not stop the remaining outputs;
// all such failures are returned together.
func (b *OutputBinder) Bind(target any, outputs Outputs, lt *Lifetime) error {
	if isNil(target) || lt == nil || !lt.Alive() {
		return nil
	}
	if lt != b.lt {
		b.lt = lt
		b.bound = nil
	}
	bt := b.entry(target)

	var errs error
	for _, name := range sortedKeys(outputs) {
		if _, done := bt.keys[name]; done {
			continue
		}
		out, ok := outputOf(target, name)
		if !ok {
			continue
		}
		h := outputs[name]
		if h == nil {
			errs = multierr.Append(errs, errors.New("B002").WithDetailf("output %q", name))
			continue
		}
		if err := out.Subscribe(h, lt); err != nil {
			errs = multierr.Append(errs, errors.New("B003").WithDetailf("output %q", name).Wrap(err))
			continue
		}
		bt.keys[name] = struct{}{}
	}
	return errs
}

// Bound returns the output names bound to target under the current
// lifetime, sorted.
func (b *OutputBinder) Bound(target any) []string {
	if b.lt == nil || !b.lt.Alive() {
		return nil
	}
	for _, bt := range b.bound {
		if identical(bt.target, target) {
			return sortedKeys(bt.keys)
		}
	}
	return nil
}

func (b *OutputBinder) entry(target any) *boundTarget {
	for _, bt := range b.bound {
		if identical(bt.target, target) {
			return bt
		}
	}
	bt := &boundTarget{target: target, keys: make(map[string]struct{})}
	b.bound = append(b.bound, bt)
	return bt
}
