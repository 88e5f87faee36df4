package value

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
)

// Three-way comparison results.
const (
	Incomparable = -2
	Less         = -1
	Equal        = 0
	Greater      = 1
)

// ErrElementType is returned by In when the array's element type does not
// match the value's kind.
var ErrElementType = errors.New("array element type does not match value kind")

// Compare returns Less, Equal or Greater for two values of the same kind and
// Incomparable when the kinds differ. NaN equals NaN and sorts before every
// other float; NULL strings equal each other and sort before non-NULL ones.
func Compare(l, r Value) int {
	if l == nil || r == nil || l.Kind() != r.Kind() {
		return Incomparable
	}
	switch a := l.(type) {
	case Bool:
		b := r.(Bool)
		switch {
		case a == b:
			return Equal
		case !bool(a):
			return Less
		default:
			return Greater
		}
	case Char:
		return cmp.Compare(a, r.(Char))
	case Float32:
		return cmp.Compare(a, r.(Float32))
	case Float64:
		return cmp.Compare(a, r.(Float64))
	case String:
		return compareStrings(a, r.(String))
	case Pointer:
		return cmp.Compare(a, r.(Pointer))
	case Int:
		return cmp.Compare(a, r.(Int))
	case Int8:
		return cmp.Compare(a, r.(Int8))
	case Int16:
		return cmp.Compare(a, r.(Int16))
	case Int32:
		return cmp.Compare(a, r.(Int32))
	case Int64:
		return cmp.Compare(a, r.(Int64))
	case Uint:
		return cmp.Compare(a, r.(Uint))
	case Uint8:
		return cmp.Compare(a, r.(Uint8))
	case Uint16:
		return cmp.Compare(a, r.(Uint16))
	case Uint32:
		return cmp.Compare(a, r.(Uint32))
	case Uint64:
		return cmp.Compare(a, r.(Uint64))
	}
	return Incomparable
}

func compareStrings(l, r String) int {
	switch {
	case !l.Valid && !r.Valid:
		return Equal
	case !l.Valid:
		return Less
	case !r.Valid:
		return Greater
	}
	return strings.Compare(l.S, r.S)
}

// In reports whether v occurs in array, which must be a slice or array of
// v's underlying Go type (byte for Char, uintptr or any pointer type for
// Pointer, string, *string or String for String). Floats match NaN to NaN.
func In(v Value, array any) (bool, error) {
	switch x := v.(type) {
	case Bool:
		return contains(array, bool(x))
	case Char:
		return contains(array, byte(x))
	case Float32:
		return containsFloat(array, float32(x))
	case Float64:
		return containsFloat(array, float64(x))
	case String:
		return containsString(array, x)
	case Pointer:
		return containsPointer(array, x)
	case Int:
		return contains(array, int(x))
	case Int8:
		return contains(array, int8(x))
	case Int16:
		return contains(array, int16(x))
	case Int32:
		return contains(array, int32(x))
	case Int64:
		return contains(array, int64(x))
	case Uint:
		return contains(array, uint(x))
	case Uint8:
		return contains(array, uint8(x))
	case Uint16:
		return contains(array, uint16(x))
	case Uint32:
		return contains(array, uint32(x))
	case Uint64:
		return contains(array, uint64(x))
	}
	return false, fmt.Errorf("%w: %s", ErrElementType, KindOf(v))
}

// elements returns the items of a []T or [N]T.
func elements[T any](array any) ([]T, error) {
	if s, ok := array.([]T); ok {
		return s, nil
	}
	rv := reflect.ValueOf(array)
	if rv.Kind() == reflect.Array && rv.Type().Elem() == reflect.TypeOf((*T)(nil)).Elem() {
		out := make([]T, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface().(T)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: want []%s, got %T", ErrElementType, reflect.TypeOf((*T)(nil)).Elem(), array)
}

func contains[T comparable](array any, want T) (bool, error) {
	items, err := elements[T](array)
	if err != nil {
		return false, err
	}
	for _, item := range items {
		if item == want {
			return true, nil
		}
	}
	return false, nil
}

func containsFloat[T float32 | float64](array any, want T) (bool, error) {
	items, err := elements[T](array)
	if err != nil {
		return false, err
	}
	wantNaN := math.IsNaN(float64(want))
	for _, item := range items {
		if math.IsNaN(float64(item)) {
			if wantNaN {
				return true, nil
			}
			continue
		}
		if item == want {
			return true, nil
		}
	}
	return false, nil
}

func containsString(array any, want String) (bool, error) {
	items, err := stringElements(array)
	if err != nil {
		return false, err
	}
	for _, item := range items {
		if compareStrings(item, want) == Equal {
			return true, nil
		}
	}
	return false, nil
}

// stringElements accepts slices or arrays of String, string or *string.
func stringElements(array any) ([]String, error) {
	if items, err := elements[String](array); err == nil {
		return items, nil
	}
	if plain, err := elements[string](array); err == nil {
		items := make([]String, len(plain))
		for i, s := range plain {
			items[i] = Str(s)
		}
		return items, nil
	}
	if ptrs, err := elements[*string](array); err == nil {
		items := make([]String, len(ptrs))
		for i, p := range ptrs {
			items[i] = StrPtr(p)
		}
		return items, nil
	}
	return nil, fmt.Errorf("%w: want []string, got %T", ErrElementType, array)
}

func containsPointer(array any, want Pointer) (bool, error) {
	if a, ok := array.([]uintptr); ok {
		for _, p := range a {
			if Pointer(p) == want {
				return true, nil
			}
		}
		return false, nil
	}
	rv := reflect.ValueOf(array)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return false, fmt.Errorf("%w: want a slice of pointers, got %T", ErrElementType, array)
	}
	switch rv.Type().Elem().Kind() {
	case reflect.Pointer, reflect.UnsafePointer, reflect.Interface:
	default:
		return false, fmt.Errorf("%w: want a slice of pointers, got %T", ErrElementType, array)
	}
	for i := 0; i < rv.Len(); i++ {
		if PointerOf(rv.Index(i).Interface()) == want {
			return true, nil
		}
	}
	return false, nil
}
