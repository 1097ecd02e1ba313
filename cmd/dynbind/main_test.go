package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/dynbind/internal/errors"
	"github.com/vango-dev/dynbind/pkg/scenario"
)

const testdata = "../../pkg/scenario/testdata/"

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestReplayCommand(t *testing.T) {
	out, err := execute(t, "replay", testdata+"rebind.yaml", testdata+"removed.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "rebind (9 steps")
	assert.Contains(t, out, "removed-keys (4 steps")
}

func TestReplayCommandJSON(t *testing.T) {
	out, err := execute(t, "replay", "--json", testdata+"removed.yaml")
	require.NoError(t, err)

	var results []scenario.Result
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.True(t, results[0].Pass)
}

func TestReplayCommandFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "failing.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: failing
targets:
  - name: a
steps:
  - mount: {target: a}
    inputs: {x: 1}
expect:
  - {type: final_state, target: a, state: {x: 2}}
`), 0o644))

	out, err := execute(t, "replay", path)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, "S002"))
	assert.Contains(t, out, "failing")
	assert.Contains(t, out, `input "x" = 1, want 2`)
}

func TestReplayCommandLoadError(t *testing.T) {
	_, err := execute(t, "replay", testdata+"broken.yaml")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, "S001"))
}

func TestReplayCommandBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dynbind.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"log": {"level": "loud"}}`), 0o644))

	_, err := execute(t, "--config", path, "replay", testdata+"rebind.yaml")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, "C002"))
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, "dev\n", out)
}
