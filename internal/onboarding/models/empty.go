package models

import (
	"reflect"
	"strings"
)

// IsEmpty is the emptiness rule behind every merge and prefill decision.
//
// Strings are empty when blank after trimming. Nil interfaces and pointers are
// empty, and pointers are judged by what they point at. Slices and maps are
// empty when they have no elements, nil or not. Every other value is present,
// including 0 and false: a defined zero or false is a real answer and must not
// be overwritten by prefill.
func IsEmpty(v any) bool {
	if v == nil {
		return true
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t) == ""
	case *string:
		return t == nil || strings.TrimSpace(*t) == ""
	case Intent:
		return t == IntentUnset
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return true
		}
		return IsEmpty(rv.Elem().Interface())
	case reflect.Slice, reflect.Map:
		return rv.Len() == 0
	case reflect.String:
		return strings.TrimSpace(rv.String()) == ""
	default:
		return false
	}
}
