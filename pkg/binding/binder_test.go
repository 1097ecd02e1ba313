package binding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/vango-dev/dynbind/internal/errors"
)

func TestBindSkipsAbsentOutputs(t *testing.T) {
	target := newCounter()
	lt := newLifetime(1)
	var got []any

	err := NewOutputBinder().Bind(target, Outputs{
		"clicked": func(ev any) { got = append(got, ev) },
		"missing": func(any) {},
		"Label":   func(any) {},
	}, lt)
	require.NoError(t, err)

	target.Clicked.Emit(1)
	assert.Equal(t, []any{1}, got)
	assert.Equal(t, 0, target.Closed.Subscribers())
}

func TestBindFieldNameFallback(t *testing.T) {
	target := newCounter()
	calls := 0

	require.NoError(t, NewOutputBinder().Bind(target, Outputs{"closed": func(any) { calls++ }}, newLifetime(1)))
	target.Closed.Emit(nil)
	assert.Equal(t, 1, calls)
}

func TestBindNeverTwicePerLifetime(t *testing.T) {
	b := NewOutputBinder()
	target := newCounter()
	lt := newLifetime(1)
	outputs := Outputs{"clicked": func(any) {}}

	require.NoError(t, b.Bind(target, outputs, lt))
	require.NoError(t, b.Bind(target, outputs, lt))
	assert.Equal(t, 1, target.Clicked.Subscribers())
	assert.Equal(t, []string{"clicked"}, b.Bound(target))

	lt.End()
	next := newLifetime(2)
	require.NoError(t, b.Bind(target, outputs, next))
	assert.Equal(t, 1, target.Clicked.Subscribers())
}

func TestBindNilTargetOrEndedLifetime(t *testing.T) {
	b := NewOutputBinder()
	target := newCounter()
	ended := newLifetime(1)
	ended.End()

	assert.NoError(t, b.Bind(nil, Outputs{"clicked": func(any) {}}, newLifetime(1)))
	assert.NoError(t, b.Bind(target, Outputs{"clicked": func(any) {}}, ended))
	assert.Equal(t, 0, target.Clicked.Subscribers())
}

func TestBindNilEmitterFieldIsAbsent(t *testing.T) {
	target := &counter{}
	assert.NoError(t, NewOutputBinder().Bind(target, Outputs{"clicked": func(any) {}}, newLifetime(1)))
}

func TestBindCollectsMisuse(t *testing.T) {
	target := newRecorder("a", "b")
	target.outputs["c"] = &countingOutput{fail: true}

	err := NewOutputBinder().Bind(target, Outputs{
		"a": nil,
		"b": func(any) {},
		"c": func(any) {},
	}, newLifetime(1))
	require.Error(t, err)

	errs := multierr.Errors(err)
	require.Len(t, errs, 2)
	assert.True(t, errors.HasCode(errs[0], "B002"))
	assert.True(t, errors.HasCode(errs[1], "B003"))
	assert.Equal(t, 1, target.outputs["b"].(*Emitter).Subscribers(), "valid outputs still bound")
}

func TestBindOutputsProvider(t *testing.T) {
	target := newRecorder("changed")
	var got []any

	require.NoError(t, NewOutputBinder().Bind(target, Outputs{
		"changed": func(ev any) { got = append(got, ev) },
		"other":   func(any) {},
	}, newLifetime(1)))

	target.outputs["changed"].(*Emitter).Emit("x")
	assert.Equal(t, []any{"x"}, got)
}

func TestBindTypedNilTarget(t *testing.T) {
	b := NewOutputBinder()
	lt := NewLifetimes().Current()

	var err error
	assert.NotPanics(t, func() {
		err = b.Bind((*recorder)(nil), Outputs{"clicked": func(any) {}}, lt)
	})
	assert.NoError(t, err)
	assert.Empty(t, b.Bound((*recorder)(nil)))
}
