package scenario

import (
	"context"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/multierr"

	"github.com/vango-dev/dynbind/internal/errors"
	"github.com/vango-dev/dynbind/pkg/binding"
)

// Result is the outcome of running a scenario.
type Result struct {
	// Scenario is the scenario name.
	Scenario string `json:"scenario"`

	// Pass is true when every expectation held.
	Pass bool `json:"pass"`

	// Trace is every recorded event, in order.
	Trace []Event `json:"trace"`

	// Outcomes holds the outcome of each step's hook.
	Outcomes []string `json:"outcomes"`

	// State maps target name to its final assigned inputs.
	State map[string]map[string]any `json:"state"`

	// Subscribers maps target name and output to live subscriptions after
	// the last step.
	Subscribers map[string]map[string]int `json:"subscribers"`

	// Errors lists failed expectations.
	Errors []string `json:"errors,omitempty"`
}

// Err returns nil for a passing result and an S002 error otherwise.
func (r *Result) Err() error {
	if r.Pass {
		return nil
	}
	return errors.New("S002").
		WithDetailf("%s: %s", r.Scenario, strings.Join(r.Errors, "; "))
}

// Runner runs scenarios against fresh coordinators.
type Runner struct {
	logger   *slog.Logger
	metrics  *binding.Metrics
	tracer   trace.Tracer
	observer func(Event)
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger passed to coordinators.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithMetrics records coordinator metrics on m.
func WithMetrics(m *binding.Metrics) Option {
	return func(r *Runner) {
		r.metrics = m
	}
}

// WithTracer sets the tracer passed to coordinators.
func WithTracer(tracer trace.Tracer) Option {
	return func(r *Runner) {
		r.tracer = tracer
	}
}

// WithObserver calls fn for every event as it is recorded.
func WithObserver(fn func(Event)) Option {
	return func(r *Runner) {
		r.observer = fn
	}
}

// NewRunner creates a Runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default().With("component", "scenario")
	}
	return r
}

// Run replays s step by step. It returns an error only when s is invalid or
// ctx is cancelled; failed expectations are reported in the Result.
func (r *Runner) Run(ctx context.Context, s *Scenario) (*Result, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	rec := &recorder{observer: r.observer}
	components := make(map[string]*Component, len(s.Targets))
	instances := make(map[string]any, len(s.Targets))
	for _, spec := range s.Targets {
		c := newComponent(spec, rec)
		components[spec.Name] = c
		if spec.Reactive {
			instances[spec.Name] = &ReactiveComponent{Component: c}
		} else {
			instances[spec.Name] = c
		}
	}

	outlet := binding.NewComponentRef(nil)
	injector := binding.NewComponentRef(nil)

	opts := []binding.Option{
		binding.WithLogger(r.logger.With("scenario", s.Name)),
		binding.WithMetrics(r.metrics),
	}
	if r.tracer != nil {
		opts = append(opts, binding.WithTracer(r.tracer))
	}
	coord := binding.NewCoordinator(binding.NewLocator(outlet, injector), opts...)
	defer func() {
		rec.observer = nil
		coord.Teardown()
	}()

	inputs := binding.Inputs{}
	coord.SetInputs(inputs)

	result := &Result{Scenario: s.Name, Pass: true}

	for i, step := range s.Steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec.step = i

		if m := step.Mount; m != nil {
			ref := outlet
			if m.Via == ViaInjector {
				ref = injector
			}
			if m.Target == "" {
				ref.Clear()
			} else {
				ref.Set(instances[m.Target])
			}
		}

		if step.Inputs != nil {
			inputs = make(binding.Inputs, len(step.Inputs))
			for k, v := range step.Inputs {
				inputs[k] = v
			}
			coord.SetInputs(inputs)
		}
		for k, v := range step.Set {
			inputs[k] = v
		}
		for _, k := range step.Unset {
			delete(inputs, k)
		}

		if step.Outputs != nil {
			outputs := make(binding.Outputs, len(step.Outputs))
			for _, name := range step.Outputs {
				outputs[name] = recordingHandler(rec, name)
			}
			coord.SetOutputs(outputs)
		}

		outcome, err := runHook(ctx, coord, step.Hook)
		rec.add(Event{Kind: KindPass, Key: hookName(step.Hook), Outcome: outcome})
		for _, e := range multierr.Errors(err) {
			rec.add(Event{Kind: KindError, Error: e.Error()})
		}
		result.Outcomes = append(result.Outcomes, outcome)

		for _, e := range step.Emit {
			rec.add(Event{Kind: KindEmit, Target: e.Target, Key: e.Output, Value: e.Event})
			components[e.Target].outputs[e.Output].emitter.Emit(e.Event)
		}
	}

	result.Trace = rec.events
	result.State = make(map[string]map[string]any, len(components))
	result.Subscribers = make(map[string]map[string]int, len(components))
	for name, c := range components {
		result.State[name] = c.Props()
		subs := make(map[string]int, len(c.outputs))
		for out, o := range c.outputs {
			subs[out] = o.emitter.Subscribers()
		}
		result.Subscribers[name] = subs
	}

	for _, msg := range checkExpectations(s, result) {
		result.Errors = append(result.Errors, msg)
		result.Pass = false
	}
	return result, nil
}

// Run replays s with a default Runner.
func Run(ctx context.Context, s *Scenario) (*Result, error) {
	return NewRunner().Run(ctx, s)
}

func runHook(ctx context.Context, coord *binding.Coordinator, hook string) (string, error) {
	switch hook {
	case HookChanged:
		err := coord.InputsChanged(ctx)
		return string(coord.LastOutcome()), err
	case HookTeardown:
		coord.Teardown()
		return HookTeardown, nil
	case HookNone:
		return HookNone, nil
	default:
		err := coord.Check(ctx)
		return string(coord.LastOutcome()), err
	}
}

func hookName(hook string) string {
	if hook == "" {
		return HookCheck
	}
	return hook
}

func recordingHandler(rec *recorder, output string) binding.Handler {
	return func(event any) {
		rec.add(Event{Kind: KindHandle, Key: output, Value: event})
	}
}
