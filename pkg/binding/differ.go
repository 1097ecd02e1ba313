package binding

// Record is one entry of a MapDiff.
type Record struct {
	Key      string
	Previous any
	Current  any
}

// MapDiff is the result of comparing an input map with the previous pass.
// Every slice is sorted by key.
type MapDiff struct {
	items   []Record
	added   []Record
	changed []Record
	removed []Record
}

// Items returns every key present in the current map. Unchanged keys carry
// the same value as Previous and Current; added keys carry Uninitialized as
// Previous.
func (d *MapDiff) Items() []Record { return d.items }

// Added returns keys that were not present on the previous pass. Previous is
// Uninitialized.
func (d *MapDiff) Added() []Record { return d.added }

// Changed returns keys whose value identity changed.
func (d *MapDiff) Changed() []Record { return d.changed }

// Removed returns keys that are no longer present. Current is Uninitialized.
func (d *MapDiff) Removed() []Record { return d.removed }

// MapDiffer compares successive snapshots of a flat input map.
//
// Values are compared by identity (see identical), not deeply: a host that
// mutates a slice or map in place must pass a new value to be seen as a
// change.
type MapDiffer struct {
	prev map[string]any
}

// NewMapDiffer creates a MapDiffer with an empty snapshot.
func NewMapDiffer() *MapDiffer {
	return &MapDiffer{}
}

// Reset forgets the stored snapshot. The next Diff reports every key as
// added.
func (d *MapDiffer) Reset() {
	d.prev = nil
}

// Diff compares current with the stored snapshot. It returns nil when no key
// was added, removed or changed. Otherwise it returns the differences and
// stores a copy of current as the new snapshot.
func (d *MapDiffer) Diff(current map[string]any) *MapDiff {
	result := &MapDiff{}
	dirty := false

	for _, key := range sortedKeys(current) {
		cur := current[key]
		prev, existed := d.prev[key]
		switch {
		case !existed:
			rec := Record{Key: key, Previous: Uninitialized, Current: cur}
			result.added = append(result.added, rec)
			result.items = append(result.items, rec)
			dirty = true
		case !identical(prev, cur):
			rec := Record{Key: key, Previous: prev, Current: cur}
			result.changed = append(result.changed, rec)
			result.items = append(result.items, rec)
			dirty = true
		default:
			result.items = append(result.items, Record{Key: key, Previous: prev, Current: cur})
		}
	}

	for _, key := range sortedKeys(d.prev) {
		if _, ok := current[key]; !ok {
			result.removed = append(result.removed, Record{Key: key, Previous: d.prev[key], Current: Uninitialized})
			dirty = true
		}
	}

	if !dirty {
		return nil
	}

	snapshot := make(map[string]any, len(current))
	for k, v := range current {
		snapshot[k] = v
	}
	d.prev = snapshot

	return result
}
