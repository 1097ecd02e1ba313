package binding

// Handler receives the events emitted by one output.
type Handler func(event any)

// Inputs maps input property names to their desired values.
type Inputs map[string]any

// Outputs maps output names to the handlers bound to them.
type Outputs map[string]Handler

// ChangesReceiver is implemented by targets that want a batch of input
// changes after every pass that assigns inputs.
type ChangesReceiver interface {
	OnChanges(changes Changes)
}

// Subscribable is an output a handler can be attached to. The attachment
// must end when lt ends.
type Subscribable interface {
	Subscribe(h Handler, lt *Lifetime) error
}

// OutputsProvider is implemented by targets that expose outputs by name.
// ok is false when the target has no such output.
type OutputsProvider interface {
	Output(name string) (out Subscribable, ok bool)
}

// InputsReceiver is implemented by targets that take input assignment
// themselves instead of through struct fields.
type InputsReceiver interface {
	SetInput(name string, value any) error
}
