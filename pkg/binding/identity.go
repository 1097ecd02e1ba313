package binding

import (
	"math"
	"reflect"
)

// identical reports whether a and b are the same value by identity.
//
// Comparable values use ==, except that two NaNs are identical. Maps,
// funcs and chans compare by their underlying pointer; slices compare by
// backing array and length. Values that cannot be compared at all (structs
// holding slices, for example) are never identical, so they always count as
// changed.
func identical(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	va := reflect.ValueOf(a)
	vb := reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}

	switch va.Kind() {
	case reflect.Map, reflect.Func, reflect.Chan, reflect.Pointer, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	case reflect.Float32, reflect.Float64:
		fa, fb := va.Float(), vb.Float()
		return fa == fb || (math.IsNaN(fa) && math.IsNaN(fb))
	}

	if va.Comparable() && vb.Comparable() {
		return a == b
	}
	return false
}
