package scenario

import (
	"github.com/vango-dev/dynbind/pkg/binding"
)

// Component is a scenario target. It accepts inputs through SetInput and
// exposes its outputs by name; every interaction is recorded.
type Component struct {
	name    string
	accepts map[string]bool
	props   map[string]any
	outputs map[string]*output
	rec     *recorder
}

// ReactiveComponent is a Component that also receives change batches.
type ReactiveComponent struct {
	*Component
}

var (
	_ binding.InputsReceiver  = (*Component)(nil)
	_ binding.OutputsProvider = (*Component)(nil)
	_ binding.ChangesReceiver = (*ReactiveComponent)(nil)
)

func newComponent(spec TargetSpec, rec *recorder) *Component {
	c := &Component{
		name:    spec.Name,
		props:   make(map[string]any),
		outputs: make(map[string]*output, len(spec.Outputs)),
		rec:     rec,
	}
	if len(spec.Inputs) > 0 {
		c.accepts = make(map[string]bool, len(spec.Inputs))
		for _, in := range spec.Inputs {
			c.accepts[in] = true
		}
	}
	for _, name := range spec.Outputs {
		c.outputs[name] = &output{
			target:  spec.Name,
			name:    name,
			emitter: binding.NewEmitter(),
			rec:     rec,
		}
	}
	return c
}

// Name returns the target name.
func (c *Component) Name() string { return c.name }

// SetInput records and stores an input.
func (c *Component) SetInput(name string, value any) error {
	if c.accepts != nil && !c.accepts[name] {
		return binding.ErrUnknownInput
	}
	c.props[name] = value
	c.rec.add(Event{Kind: KindAssign, Target: c.name, Key: name, Value: value})
	return nil
}

// Output returns the named output.
func (c *Component) Output(name string) (binding.Subscribable, bool) {
	out, ok := c.outputs[name]
	if !ok {
		return nil, false
	}
	return out, true
}

// Props returns a copy of the assigned inputs.
func (c *Component) Props() map[string]any {
	props := make(map[string]any, len(c.props))
	for k, v := range c.props {
		props[k] = v
	}
	return props
}

// OnChanges records a change batch.
func (r *ReactiveComponent) OnChanges(changes binding.Changes) {
	views := make([]ChangeView, 0, len(changes))
	for _, key := range changes.Keys() {
		ch := changes[key]
		views = append(views, ChangeView{
			Key:      ch.Key,
			Previous: ch.Previous,
			Current:  ch.Current,
			First:    ch.IsFirstChange(),
		})
	}
	r.rec.add(Event{Kind: KindNotify, Target: r.name, Changes: views})
}

// output wraps an Emitter so subscriptions show up in the trace.
type output struct {
	target  string
	name    string
	emitter *binding.Emitter
	rec     *recorder
}

func (o *output) Subscribe(h binding.Handler, lt *binding.Lifetime) error {
	if !lt.Alive() {
		return nil
	}
	if err := o.emitter.Subscribe(h, lt); err != nil {
		return err
	}
	o.rec.add(Event{Kind: KindSubscribe, Target: o.target, Key: o.name, Value: lt.Generation()})
	lt.OnEnd(func() {
		o.rec.add(Event{Kind: KindUnsubscribe, Target: o.target, Key: o.name, Value: lt.Generation()})
	})
	return nil
}
