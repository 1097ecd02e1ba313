package binding

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keysOf(records []Record) []string {
	keys := make([]string, 0, len(records))
	for _, r := range records {
		keys = append(keys, r.Key)
	}
	return keys
}

func TestMapDifferFirstDiffReportsAdded(t *testing.T) {
	d := NewMapDiffer()

	diff := d.Diff(map[string]any{"b": 2, "a": 1})
	require.NotNil(t, diff)
	assert.Equal(t, []string{"a", "b"}, keysOf(diff.Added()))
	assert.Empty(t, diff.Changed())
	assert.Empty(t, diff.Removed())
	for _, rec := range diff.Added() {
		assert.True(t, IsUninitialized(rec.Previous))
	}
}

func TestMapDifferEmptyMapsAreClean(t *testing.T) {
	d := NewMapDiffer()
	assert.Nil(t, d.Diff(nil))
	assert.Nil(t, d.Diff(map[string]any{}))
}

func TestMapDifferUnchangedReturnsNil(t *testing.T) {
	d := NewMapDiffer()
	require.NotNil(t, d.Diff(map[string]any{"a": 1}))
	assert.Nil(t, d.Diff(map[string]any{"a": 1}))
}

func TestMapDifferChangedAndRemoved(t *testing.T) {
	d := NewMapDiffer()
	d.Diff(map[string]any{"a": 1, "b": 2, "c": 3})

	diff := d.Diff(map[string]any{"a": 1, "b": 20, "d": 4})
	require.NotNil(t, diff)
	assert.Equal(t, []string{"d"}, keysOf(diff.Added()))
	assert.Equal(t, []string{"b"}, keysOf(diff.Changed()))
	assert.Equal(t, []string{"c"}, keysOf(diff.Removed()))
	assert.Equal(t, []string{"a", "b", "d"}, keysOf(diff.Items()))

	changed := diff.Changed()[0]
	assert.Equal(t, 2, changed.Previous)
	assert.Equal(t, 20, changed.Current)

	removed := diff.Removed()[0]
	assert.Equal(t, 3, removed.Previous)
	assert.True(t, IsUninitialized(removed.Current))
}

func TestMapDifferOnlyRemoval(t *testing.T) {
	d := NewMapDiffer()
	d.Diff(map[string]any{"a": 1, "b": 2})

	diff := d.Diff(map[string]any{"a": 1})
	require.NotNil(t, diff)
	assert.Empty(t, diff.Added())
	assert.Empty(t, diff.Changed())
	assert.Equal(t, []string{"b"}, keysOf(diff.Removed()))
}

func TestMapDifferSnapshotIsCopied(t *testing.T) {
	d := NewMapDiffer()
	inputs := map[string]any{"a": 1}
	d.Diff(inputs)

	inputs["a"] = 2
	diff := d.Diff(inputs)
	require.NotNil(t, diff)
	assert.Equal(t, 1, diff.Changed()[0].Previous)
	assert.Equal(t, 2, diff.Changed()[0].Current)
}

func TestMapDifferIdentityNotDeepEquality(t *testing.T) {
	d := NewMapDiffer()
	items := []string{"x"}
	d.Diff(map[string]any{"items": items})

	items[0] = "y"
	assert.Nil(t, d.Diff(map[string]any{"items": items}), "in-place mutation keeps identity")

	assert.NotNil(t, d.Diff(map[string]any{"items": []string{"y"}}), "new slice is a change")
}

func TestMapDifferReset(t *testing.T) {
	d := NewMapDiffer()
	d.Diff(map[string]any{"a": 1})
	d.Reset()

	diff := d.Diff(map[string]any{"a": 1})
	require.NotNil(t, diff)
	assert.Equal(t, []string{"a"}, keysOf(diff.Added()))
}

func TestMapDifferNaNIsUnchanged(t *testing.T) {
	d := NewMapDiffer()
	require.NotNil(t, d.Diff(map[string]any{"ratio": math.NaN()}))
	assert.Nil(t, d.Diff(map[string]any{"ratio": math.NaN()}))
}
