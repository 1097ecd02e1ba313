package scenario

import (
	"bytes"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/dynbind/internal/errors"
)

// Hook names accepted in a step.
const (
	HookCheck    = "check"
	HookChanged  = "changed"
	HookTeardown = "teardown"
	HookNone     = "none"
)

// Mount placements.
const (
	ViaOutlet   = "outlet"
	ViaInjector = "injector"
)

// Expectation types.
const (
	ExpectTraceCount  = "trace_count"
	ExpectFinalState  = "final_state"
	ExpectHandled     = "handled"
	ExpectOutcome     = "outcome"
	ExpectSubscribers = "subscribers"
)

// Scenario is a replayable sequence of host passes.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description,omitempty"`

	// Targets are the component instances steps can mount.
	Targets []TargetSpec `yaml:"targets"`

	// Steps run in order, one host hook each.
	Steps []Step `yaml:"steps"`

	// Expect is checked after the last step.
	Expect []Expectation `yaml:"expect,omitempty"`
}

// TargetSpec declares one target.
type TargetSpec struct {
	Name string `yaml:"name"`

	// Reactive targets receive change batches.
	Reactive bool `yaml:"reactive,omitempty"`

	// Inputs lists the inputs the target accepts. Empty accepts any.
	Inputs []string `yaml:"inputs,omitempty"`

	// Outputs lists the outputs the target exposes.
	Outputs []string `yaml:"outputs,omitempty"`
}

// Step is one host pass.
type Step struct {
	// Hook is check (default), changed, teardown or none.
	Hook string `yaml:"hook,omitempty"`

	// Mount replaces the instance in the outlet or the injector before the
	// hook runs.
	Mount *Mount `yaml:"mount,omitempty"`

	// Inputs replaces the input map.
	Inputs map[string]any `yaml:"inputs,omitempty"`

	// Set changes entries of the current input map in place.
	Set map[string]any `yaml:"set,omitempty"`

	// Unset removes entries of the current input map in place.
	Unset []string `yaml:"unset,omitempty"`

	// Outputs replaces the output map with recording handlers.
	Outputs []string `yaml:"outputs,omitempty"`

	// Emit fires output events after the hook.
	Emit []Emit `yaml:"emit,omitempty"`
}

// Mount places a target. An empty Target clears the placement.
type Mount struct {
	Target string `yaml:"target"`
	Via    string `yaml:"via,omitempty"`
}

// Emit fires one event on a target output.
type Emit struct {
	Target string `yaml:"target"`
	Output string `yaml:"output"`
	Event  any    `yaml:"event,omitempty"`
}

// Expectation is checked against the result of a run.
type Expectation struct {
	Type string `yaml:"type"`

	// Kind and Key filter trace events (trace_count).
	Kind string `yaml:"kind,omitempty"`
	Key  string `yaml:"key,omitempty"`

	// Target names a target (trace_count, final_state, subscribers).
	Target string `yaml:"target,omitempty"`

	// Output names an output (handled, subscribers).
	Output string `yaml:"output,omitempty"`

	// Count is the expected number (trace_count, handled, subscribers).
	Count int `yaml:"count,omitempty"`

	// State is a subset of the target's final properties (final_state).
	State map[string]any `yaml:"state,omitempty"`

	// Step and Outcome check the outcome of one step (outcome).
	Step    int    `yaml:"step,omitempty"`
	Outcome string `yaml:"outcome,omitempty"`
}

// Parse decodes and validates a scenario.
func Parse(data []byte) (*Scenario, error) {
	return Decode(bytes.NewReader(data))
}

// Decode reads, decodes and validates a scenario. Unknown fields are
// rejected.
func Decode(r io.Reader) (*Scenario, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var s Scenario
	if err := dec.Decode(&s); err != nil {
		if err == io.EOF {
			return nil, errors.New("S001").WithDetail("empty scenario")
		}
		return nil, errors.New("S001").Wrap(err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks names and references.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return invalid("scenario has no name")
	}

	targets := make(map[string]TargetSpec, len(s.Targets))
	for _, t := range s.Targets {
		if t.Name == "" {
			return invalid("target without a name")
		}
		if _, dup := targets[t.Name]; dup {
			return invalid("duplicate target %q", t.Name)
		}
		targets[t.Name] = t
	}

	hasOutput := func(target, output string) bool {
		for _, o := range targets[target].Outputs {
			if o == output {
				return true
			}
		}
		return false
	}

	for i, step := range s.Steps {
		switch step.Hook {
		case "", HookCheck, HookChanged, HookTeardown, HookNone:
		default:
			return invalid("step %d: unknown hook %q", i, step.Hook)
		}
		if m := step.Mount; m != nil {
			if m.Target != "" {
				if _, ok := targets[m.Target]; !ok {
					return invalid("step %d: unknown target %q", i, m.Target)
				}
			}
			switch m.Via {
			case "", ViaOutlet, ViaInjector:
			default:
				return invalid("step %d: unknown placement %q", i, m.Via)
			}
		}
		for _, e := range step.Emit {
			if _, ok := targets[e.Target]; !ok {
				return invalid("step %d: emit on unknown target %q", i, e.Target)
			}
			if !hasOutput(e.Target, e.Output) {
				return invalid("step %d: target %q has no output %q", i, e.Target, e.Output)
			}
		}
	}

	for i, e := range s.Expect {
		switch e.Type {
		case ExpectTraceCount, ExpectHandled:
		case ExpectFinalState:
			if _, ok := targets[e.Target]; !ok {
				return invalid("expect %d: unknown target %q", i, e.Target)
			}
		case ExpectSubscribers:
			if !hasOutput(e.Target, e.Output) {
				return invalid("expect %d: target %q has no output %q", i, e.Target, e.Output)
			}
		case ExpectOutcome:
			if e.Step < 0 || e.Step >= len(s.Steps) {
				return invalid("expect %d: step %d out of range", i, e.Step)
			}
		default:
			return invalid("expect %d: unknown type %q", i, e.Type)
		}
	}
	return nil
}

func invalid(format string, args ...any) error {
	return errors.New("S001").WithDetail(fmt.Sprintf(format, args...))
}
