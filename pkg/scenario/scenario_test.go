package scenario

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/dynbind/internal/errors"
)

func TestParse(t *testing.T) {
	s, err := Parse([]byte(`
name: basic
targets:
  - name: a
    reactive: true
    inputs: [count]
    outputs: [clicked]
steps:
  - mount: {target: a, via: injector}
    inputs: {count: 1}
    outputs: [clicked]
  - hook: changed
expect:
  - {type: final_state, target: a, state: {count: 1}}
`))
	require.NoError(t, err)

	assert.Equal(t, "basic", s.Name)
	require.Len(t, s.Targets, 1)
	assert.True(t, s.Targets[0].Reactive)
	require.Len(t, s.Steps, 2)
	assert.Equal(t, ViaInjector, s.Steps[0].Mount.Via)
	assert.Equal(t, 1, s.Steps[0].Inputs["count"])
	assert.Equal(t, HookChanged, s.Steps[1].Hook)
	assert.Equal(t, ExpectFinalState, s.Expect[0].Type)
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"empty", ``, "empty scenario"},
		{"no name", `targets: []`, "no name"},
		{"unknown field", "name: x\nbogus: 1", "bogus"},
		{"unnamed target", "name: x\ntargets: [{inputs: [a]}]", "without a name"},
		{"duplicate target", "name: x\ntargets: [{name: a}, {name: a}]", `duplicate target "a"`},
		{"unknown hook", "name: x\nsteps: [{hook: sometimes}]", `unknown hook "sometimes"`},
		{"unknown mount target", "name: x\nsteps: [{mount: {target: nope}}]", `unknown target "nope"`},
		{"unknown placement", "name: x\ntargets: [{name: a}]\nsteps: [{mount: {target: a, via: window}}]", `unknown placement "window"`},
		{"unknown output", "name: x\ntargets: [{name: a}]\nsteps: [{emit: [{target: a, output: clicked}]}]", `no output "clicked"`},
		{"unknown expectation", "name: x\nexpect: [{type: vibes}]", `unknown type "vibes"`},
		{"outcome out of range", "name: x\nexpect: [{type: outcome, step: 3}]", "out of range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, "S001"), "got %v", err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDecodeReader(t *testing.T) {
	s, err := Decode(strings.NewReader("name: from-reader\n"))
	require.NoError(t, err)
	assert.Equal(t, "from-reader", s.Name)
}
