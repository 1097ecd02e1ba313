package binding

import "sort"

// uninitialized is the type of the Uninitialized sentinel. It is not
// zero-sized so its address is unique.
type uninitialized struct{ _ byte }

func (*uninitialized) String() string { return "<uninitialized>" }

// MarshalJSON renders the sentinel as a marker string in traces.
func (*uninitialized) MarshalJSON() ([]byte, error) {
	return []byte(`"<uninitialized>"`), nil
}

// Uninitialized marks "no previous value" in a Change. It never compares
// equal to nil, a zero value or any value a host can place in an input map.
var Uninitialized any = &uninitialized{}

// IsUninitialized reports whether v is the Uninitialized sentinel.
func IsUninitialized(v any) bool {
	return v == Uninitialized
}

// Change describes one input property before and after a pass.
type Change struct {
	Key      string
	Previous any
	Current  any
	First    bool
}

// NewChange creates a Change for a key whose value moved from previous to
// current. previous may be Uninitialized for a key added since the last pass.
func NewChange(key string, previous, current any) Change {
	return Change{
		Key:      key,
		Previous: previous,
		Current:  current,
	}
}

// FirstChange creates the first assignment of current to key.
func FirstChange(key string, current any) Change {
	return Change{
		Key:      key,
		Previous: Uninitialized,
		Current:  current,
		First:    true,
	}
}

// IsFirstChange reports whether this is the first assignment to the key on
// the current target.
func (c Change) IsFirstChange() bool {
	return c.First
}

// Changes is the batch of changes delivered to a target in one pass.
type Changes map[string]Change

// Keys returns the changed keys in sorted order.
func (c Changes) Keys() []string {
	return sortedKeys(c)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
