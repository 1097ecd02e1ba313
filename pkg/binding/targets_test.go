package binding

import "errors"

// counter is a reactive target with struct-field inputs and outputs.
type counter struct {
	Count   int      `bind:"count"`
	Label   string
	Ratio   float64
	Clicked *Emitter `bind:"clicked"`
	Closed  *Emitter

	batches []Changes
}

func newCounter() *counter {
	return &counter{Clicked: NewEmitter(), Closed: NewEmitter()}
}

func (c *counter) OnChanges(changes Changes) {
	c.batches = append(c.batches, changes)
}

func (c *counter) lastBatch() Changes {
	if len(c.batches) == 0 {
		return nil
	}
	return c.batches[len(c.batches)-1]
}

// pair has two plain inputs and no change notification.
type pair struct {
	A int
	B int
}

// recorder takes inputs and exposes outputs through interfaces.
type recorder struct {
	props   map[string]any
	outputs map[string]Subscribable
	reject  map[string]bool
}

func newRecorder(outputs ...string) *recorder {
	r := &recorder{
		props:   map[string]any{},
		outputs: map[string]Subscribable{},
		reject:  map[string]bool{},
	}
	for _, name := range outputs {
		r.outputs[name] = NewEmitter()
	}
	return r
}

func (r *recorder) SetInput(name string, value any) error {
	if r.reject[name] {
		return ErrUnknownInput
	}
	r.props[name] = value
	return nil
}

func (r *recorder) Output(name string) (Subscribable, bool) {
	out, ok := r.outputs[name]
	return out, ok
}

// countingOutput counts subscriptions and the unsubscriptions its lifetimes
// cause.
type countingOutput struct {
	subscribed   int
	unsubscribed int
	fail         bool
}

func (o *countingOutput) Subscribe(h Handler, lt *Lifetime) error {
	if o.fail {
		return errors.New("boom")
	}
	o.subscribed++
	lt.OnEnd(func() { o.unsubscribed++ })
	return nil
}

type countingTarget struct {
	Out *countingOutput `bind:"out"`
}
