package binding

import (
	"context"
	stderrors "errors"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/multierr"
)

// Default tracer name for coordinators.
const defaultTracerName = "dynbind"

// Outcome classifies what a pass did.
type Outcome string

const (
	// OutcomeIdentityChange: the target changed; inputs were assigned as
	// first changes and outputs rebound.
	OutcomeIdentityChange Outcome = "identity_change"
	// OutcomeApplied: the inputs changed and were applied.
	OutcomeApplied Outcome = "applied"
	// OutcomeCaptured: the first diff against a target was recorded but
	// not applied.
	OutcomeCaptured Outcome = "captured"
	// OutcomeUnchanged: nothing to do.
	OutcomeUnchanged Outcome = "unchanged"
	// OutcomeNoTarget: the inputs changed but there was no target to
	// apply them to.
	OutcomeNoTarget Outcome = "no_target"
	// OutcomeDestroyed: the pass was rejected after Teardown.
	OutcomeDestroyed Outcome = "destroyed"
)

// baseline records whether the differ has produced its first result since
// the coordinator was created.
type baseline uint8

const (
	noBaseline baseline = iota
	hasBaseline
)

// placeholder is the type of the last-target value before the first pass.
type placeholder struct{ _ byte }

// unresolved never equals a real target nor nil, so the first pass always
// counts as an identity change.
var unresolved any = &placeholder{}

// Coordinator reconciles one host's inputs and outputs with the component
// instance the host currently owns.
type Coordinator struct {
	id        string
	locator   TargetLocator
	differ    *MapDiffer
	binder    *OutputBinder
	lifetimes *Lifetimes

	inputs  Inputs
	outputs Outputs

	lastTarget  any
	baseline    baseline
	lastChanges Changes
	lastOutcome Outcome
	destroyed   bool

	logger  *slog.Logger
	metrics *Metrics
	tracer  trace.Tracer
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger. Default: slog.Default() with
// component=binding.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

// WithMetrics records pass outcomes and failures on m.
func WithMetrics(m *Metrics) Option {
	return func(c *Coordinator) {
		c.metrics = m
	}
}

// WithTracer sets the tracer used for one span per pass.
// Default: otel.Tracer("dynbind").
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Coordinator) {
		c.tracer = tracer
	}
}

// WithID overrides the generated coordinator id used in logs and spans.
func WithID(id string) Option {
	return func(c *Coordinator) {
		c.id = id
	}
}

// NewCoordinator creates a Coordinator that resolves its target through
// locator. A nil locator never resolves a target.
func NewCoordinator(locator TargetLocator, opts ...Option) *Coordinator {
	if locator == nil {
		locator = LocatorFunc(func() any { return nil })
	}
	c := &Coordinator{
		id:         uuid.NewString(),
		locator:    locator,
		differ:     NewMapDiffer(),
		binder:     NewOutputBinder(),
		lifetimes:  NewLifetimes(),
		inputs:     Inputs{},
		outputs:    Outputs{},
		lastTarget: unresolved,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default().With("component", "binding")
	}
	if c.tracer == nil {
		c.tracer = otel.Tracer(defaultTracerName)
	}
	c.logger = c.logger.With("coordinator", c.id)
	return c
}

// SetInputs replaces the desired inputs. The map is read on every pass and
// may be mutated in place by the host between passes.
func (c *Coordinator) SetInputs(inputs Inputs) {
	if inputs == nil {
		inputs = Inputs{}
	}
	c.inputs = inputs
}

// SetOutputs replaces the output handlers. They are bound on the next
// identity change.
func (c *Coordinator) SetOutputs(outputs Outputs) {
	if outputs == nil {
		outputs = Outputs{}
	}
	c.outputs = outputs
}

// Evaluate sets inputs and outputs and runs a full pass.
func (c *Coordinator) Evaluate(ctx context.Context, inputs Inputs, outputs Outputs) error {
	c.SetInputs(inputs)
	c.SetOutputs(outputs)
	return c.Check(ctx)
}

// InputsChanged is the host hook for "bound inputs or outlet changed". It
// only checks the target identity and, if it changed, assigns every input
// as a first change and rebinds the outputs.
func (c *Coordinator) InputsChanged(ctx context.Context) error {
	ctx, span := c.startPass(ctx, "inputs_changed")
	if c.destroyed {
		return c.finishPass(span, OutcomeDestroyed, ErrDestroyed)
	}

	target := c.resolve()
	if !c.targetChanged(target) {
		return c.finishPass(span, OutcomeUnchanged, nil)
	}
	return c.finishPass(span, OutcomeIdentityChange, c.rebuild(ctx, target))
}

// Check is the host hook for every evaluation pass.
func (c *Coordinator) Check(ctx context.Context) error {
	ctx, span := c.startPass(ctx, "check")
	if c.destroyed {
		return c.finishPass(span, OutcomeDestroyed, ErrDestroyed)
	}

	target := c.resolve()
	if c.targetChanged(target) {
		return c.finishPass(span, OutcomeIdentityChange, c.rebuild(ctx, target))
	}

	diff := c.differ.Diff(c.inputs)
	if diff == nil {
		return c.finishPass(span, OutcomeUnchanged, nil)
	}

	changes := collectChanges(diff)
	c.lastChanges = changes
	span.SetAttributes(
		attribute.Int("dynbind.changes.added", len(diff.Added())),
		attribute.Int("dynbind.changes.changed", len(diff.Changed())),
		attribute.Int("dynbind.changes.removed", len(diff.Removed())),
	)

	if c.baseline == noBaseline {
		c.baseline = hasBaseline
		return c.finishPass(span, OutcomeCaptured, nil)
	}
	if target == nil {
		return c.finishPass(span, OutcomeNoTarget, nil)
	}
	return c.finishPass(span, OutcomeApplied, c.updateInputs(target, changes, false))
}

// Teardown ends the output lifetime for good. Later passes return
// ErrDestroyed. Calling it again does nothing.
func (c *Coordinator) Teardown() {
	if c.destroyed {
		return
	}
	c.destroyed = true
	c.lifetimes.Close()
	c.logger.Debug("coordinator torn down")
}

// resolve asks the locator for the target. A typed nil pointer counts as no
// target.
func (c *Coordinator) resolve() any {
	target := c.locator.Current()
	if isNil(target) {
		return nil
	}
	return target
}

// targetChanged records target as the last target and reports whether its
// identity differs from the previous one.
func (c *Coordinator) targetChanged(target any) bool {
	if identical(c.lastTarget, target) {
		return false
	}
	c.lastTarget = target
	return true
}

// rebuild handles an identity change: the new target gets every input as a
// first change, and outputs move to a fresh lifetime. The differ starts over
// against the new target, but the baseline is kept: only the first diff after
// construction is held back.
func (c *Coordinator) rebuild(ctx context.Context, target any) error {
	c.differ.Reset()

	c.logger.DebugContext(ctx, "target changed", "present", target != nil)

	err := c.updateInputs(target, nil, true)
	return multierr.Append(err, c.bindOutputs(target))
}

// updateInputs assigns every current input to target and notifies it.
func (c *Coordinator) updateInputs(target any, changes Changes, forceFirst bool) error {
	if target == nil {
		return nil
	}

	var errs error
	for _, key := range sortedKeys(c.inputs) {
		err := setInput(target, key, c.inputs[key])
		switch {
		case err == nil:
			c.metrics.assigned()
		case stderrors.Is(err, ErrUnknownInput):
			c.logger.Debug("target has no such input", "input", key)
		default:
			c.metrics.failed("input")
			c.logger.Warn("input assignment failed", "input", key, "error", err)
			errs = multierr.Append(errs, err)
		}
	}

	c.notify(target, changes, forceFirst)
	return errs
}

// notify delivers changes to target if it accepts them. With forceFirst the
// given changes are replaced by a first change for every current input.
func (c *Coordinator) notify(target any, changes Changes, forceFirst bool) {
	r, ok := target.(ChangesReceiver)
	if !ok {
		return
	}
	if forceFirst {
		changes = c.firstChanges()
	}
	if changes == nil {
		changes = Changes{}
	}
	r.OnChanges(changes)
	c.metrics.notified()
}

// bindOutputs ends the current lifetime, arms a new one and binds the
// outputs under it. The old lifetime always ends before the new bindings
// are made.
func (c *Coordinator) bindOutputs(target any) error {
	lt := c.lifetimes.Renew()
	c.metrics.rebind()

	if target == nil {
		return nil
	}
	if err := c.binder.Bind(target, c.outputs, lt); err != nil {
		for range multierr.Errors(err) {
			c.metrics.failed("output")
		}
		c.logger.Warn("output binding failed", "error", err)
		return err
	}
	return nil
}

func (c *Coordinator) firstChanges() Changes {
	changes := make(Changes, len(c.inputs))
	for key, value := range c.inputs {
		changes[key] = FirstChange(key, value)
	}
	return changes
}

// collectChanges turns the added and changed records of diff into Changes.
// Removed keys are not reported to the target.
func collectChanges(diff *MapDiff) Changes {
	changes := make(Changes, len(diff.Added())+len(diff.Changed()))
	for _, rec := range diff.Changed() {
		changes[rec.Key] = NewChange(rec.Key, rec.Previous, rec.Current)
	}
	for _, rec := range diff.Added() {
		changes[rec.Key] = NewChange(rec.Key, Uninitialized, rec.Current)
	}
	return changes
}

func (c *Coordinator) startPass(ctx context.Context, hook string) (context.Context, trace.Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	return c.tracer.Start(ctx, "dynbind.pass",
		trace.WithAttributes(
			attribute.String("dynbind.coordinator", c.id),
			attribute.String("dynbind.hook", hook),
		),
	)
}

func (c *Coordinator) finishPass(span trace.Span, outcome Outcome, err error) error {
	defer span.End()

	c.lastOutcome = outcome
	c.metrics.pass(outcome)
	span.SetAttributes(attribute.String("dynbind.outcome", string(outcome)))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

// ID returns the coordinator id used in logs and spans.
func (c *Coordinator) ID() string { return c.id }

// Target returns the target seen on the last pass, or nil.
func (c *Coordinator) Target() any {
	if c.lastTarget == unresolved {
		return nil
	}
	return c.lastTarget
}

// LastChanges returns the last changes computed by the differ for the
// current target, or nil if there are none yet.
func (c *Coordinator) LastChanges() Changes { return c.lastChanges }

// LastOutcome returns the outcome of the most recent pass.
func (c *Coordinator) LastOutcome() Outcome { return c.lastOutcome }

// Lifetime returns the lifetime current outputs are bound under.
func (c *Coordinator) Lifetime() *Lifetime { return c.lifetimes.Current() }

// BoundOutputs returns the outputs bound to the current target, sorted.
func (c *Coordinator) BoundOutputs() []string {
	target := c.Target()
	if target == nil {
		return nil
	}
	return c.binder.Bound(target)
}

// Destroyed reports whether Teardown has been called.
func (c *Coordinator) Destroyed() bool { return c.destroyed }
