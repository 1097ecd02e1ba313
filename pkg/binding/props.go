package binding

import (
	stderrors "errors"
	"reflect"
	"strings"

	"github.com/vango-dev/dynbind/internal/errors"
)

// bindTag names a struct field for binding when it differs from the Go name.
const bindTag = "bind"

// ErrUnknownInput reports that a target has no input with the given name.
// InputsReceiver implementations may return it to mark an absent input.
// It is an absent capability, not a failure.
var ErrUnknownInput = stderrors.New("binding: unknown input")

// structOf returns the addressable struct behind target, which must be a
// non-nil pointer to a struct.
func structOf(target any) (reflect.Value, bool) {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return reflect.Value{}, false
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return reflect.Value{}, false
	}
	return v, true
}

// fieldByName looks a property up by bind tag first, then by exported field
// name, ignoring case.
func fieldByName(v reflect.Value, name string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		if tag, ok := f.Tag.Lookup(bindTag); ok {
			if tag == name {
				return v.Field(i), true
			}
			continue
		}
		if strings.EqualFold(f.Name, name) {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

// setInput assigns value to the property name on target.
func setInput(target any, name string, value any) error {
	if r, ok := target.(InputsReceiver); ok {
		return r.SetInput(name, value)
	}

	v, ok := structOf(target)
	if !ok {
		return ErrUnknownInput
	}
	field, ok := fieldByName(v, name)
	if !ok {
		return ErrUnknownInput
	}
	if !field.CanSet() {
		return errors.New("B001").WithDetailf("input %q: field cannot be set", name)
	}

	if value == nil {
		field.Set(reflect.Zero(field.Type()))
		return nil
	}

	rv := reflect.ValueOf(value)
	switch {
	case rv.Type().AssignableTo(field.Type()):
		field.Set(rv)
	case convertible(rv.Type(), field.Type()):
		field.Set(rv.Convert(field.Type()))
	default:
		return errors.New("B001").WithDetailf("input %q: cannot assign %s to %s", name, rv.Type(), field.Type())
	}
	return nil
}

// convertible limits reflective conversion to numeric widening and named
// types sharing a kind, so an int never silently becomes a string.
func convertible(from, to reflect.Type) bool {
	if !from.ConvertibleTo(to) {
		return false
	}
	if isNumeric(from.Kind()) && isNumeric(to.Kind()) {
		return true
	}
	return from.Kind() == to.Kind()
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// outputOf returns the subscribable output name on target, if any.
func outputOf(target any, name string) (Subscribable, bool) {
	if p, ok := target.(OutputsProvider); ok {
		out, ok := p.Output(name)
		if !ok || out == nil {
			return nil, false
		}
		return out, true
	}

	v, ok := structOf(target)
	if !ok {
		return nil, false
	}
	field, ok := fieldByName(v, name)
	if !ok || !field.CanInterface() {
		return nil, false
	}
	if isNilValue(field) {
		return nil, false
	}
	out, ok := field.Interface().(Subscribable)
	return out, ok
}

// isNil reports whether v is nil or a typed nil pointer, map, slice, func,
// chan or interface.
func isNil(v any) bool {
	return v == nil || isNilValue(reflect.ValueOf(v))
}

func isNilValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}
