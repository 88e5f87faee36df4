package value

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	KindInvalid Kind = iota
	KindBool
	KindChar
	KindFloat32
	KindFloat64
	KindString
	KindPointer
	KindInt
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint
	KindUint8
	KindUint16
	KindUint32
	KindUint64
)

var kindNames = [...]string{
	KindInvalid: "invalid",
	KindBool:    "bool",
	KindChar:    "char",
	KindFloat32: "float32",
	KindFloat64: "float64",
	KindString:  "string",
	KindPointer: "pointer",
	KindInt:     "int",
	KindInt8:    "int8",
	KindInt16:   "int16",
	KindInt32:   "int32",
	KindInt64:   "int64",
	KindUint:    "uint",
	KindUint8:   "uint8",
	KindUint16:  "uint16",
	KindUint32:  "uint32",
	KindUint64:  "uint64",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// ErrUnsupportedType is returned by Of for Go types that have no variant.
var ErrUnsupportedType = errors.New("unsupported value type")

// Value is a closed sum type; only the variants declared in this package
// implement it.
type Value interface {
	Kind() Kind
	String() string
	isValue()
}

type (
	Bool    bool
	Char    byte
	Float32 float32
	Float64 float64
	Pointer uintptr
	Int     int
	Int8    int8
	Int16   int16
	Int32   int32
	Int64   int64
	Uint    uint
	Uint8   uint8
	Uint16  uint16
	Uint32  uint32
	Uint64  uint64
)

// String is a nullable string. The zero value is the NULL string.
type String struct {
	S     string
	Valid bool
}

// Str returns a non-NULL String.
func Str(s string) String { return String{S: s, Valid: true} }

// Null returns the NULL String.
func Null() String { return String{} }

// StrPtr converts a *string, mapping nil to NULL.
func StrPtr(p *string) String {
	if p == nil {
		return Null()
	}
	return Str(*p)
}

// PointerOf returns the address held by p. Nil pointers, nil interfaces and
// non-pointer values map to the zero address.
func PointerOf(p any) Pointer {
	if p == nil {
		return 0
	}
	if u, ok := p.(uintptr); ok {
		return Pointer(u)
	}
	rv := reflect.ValueOf(p)
	switch rv.Kind() {
	case reflect.Pointer, reflect.UnsafePointer, reflect.Map, reflect.Chan, reflect.Func, reflect.Slice:
		return Pointer(rv.Pointer())
	}
	return 0
}

func (Bool) Kind() Kind    { return KindBool }
func (Char) Kind() Kind    { return KindChar }
func (Float32) Kind() Kind { return KindFloat32 }
func (Float64) Kind() Kind { return KindFloat64 }
func (String) Kind() Kind  { return KindString }
func (Pointer) Kind() Kind { return KindPointer }
func (Int) Kind() Kind     { return KindInt }
func (Int8) Kind() Kind    { return KindInt8 }
func (Int16) Kind() Kind   { return KindInt16 }
func (Int32) Kind() Kind   { return KindInt32 }
func (Int64) Kind() Kind   { return KindInt64 }
func (Uint) Kind() Kind    { return KindUint }
func (Uint8) Kind() Kind   { return KindUint8 }
func (Uint16) Kind() Kind  { return KindUint16 }
func (Uint32) Kind() Kind  { return KindUint32 }
func (Uint64) Kind() Kind  { return KindUint64 }

func (Bool) isValue()    {}
func (Char) isValue()    {}
func (Float32) isValue() {}
func (Float64) isValue() {}
func (String) isValue()  {}
func (Pointer) isValue() {}
func (Int) isValue()     {}
func (Int8) isValue()    {}
func (Int16) isValue()   {}
func (Int32) isValue()   {}
func (Int64) isValue()   {}
func (Uint) isValue()    {}
func (Uint8) isValue()   {}
func (Uint16) isValue()  {}
func (Uint32) isValue()  {}
func (Uint64) isValue()  {}

func (v Bool) String() string    { return strconv.FormatBool(bool(v)) }
func (v Char) String() string    { return string(rune(v)) }
func (v Float32) String() string { return fmt.Sprintf("%f", float32(v)) }
func (v Float64) String() string { return fmt.Sprintf("%f", float64(v)) }
func (v Int) String() string     { return strconv.FormatInt(int64(v), 10) }
func (v Int8) String() string    { return strconv.FormatInt(int64(v), 10) }
func (v Int16) String() string   { return strconv.FormatInt(int64(v), 10) }
func (v Int32) String() string   { return strconv.FormatInt(int64(v), 10) }
func (v Int64) String() string   { return strconv.FormatInt(int64(v), 10) }
func (v Uint) String() string    { return strconv.FormatUint(uint64(v), 10) }
func (v Uint8) String() string   { return strconv.FormatUint(uint64(v), 10) }
func (v Uint16) String() string  { return strconv.FormatUint(uint64(v), 10) }
func (v Uint32) String() string  { return strconv.FormatUint(uint64(v), 10) }
func (v Uint64) String() string  { return strconv.FormatUint(uint64(v), 10) }

func (v String) String() string {
	if !v.Valid {
		return "(null)"
	}
	return v.S
}

func (v Pointer) String() string {
	if v == 0 {
		return "(nil)"
	}
	return fmt.Sprintf("0x%x", uintptr(v))
}

// KindOf returns the kind of v, or KindInvalid for a nil Value.
func KindOf(v Value) Kind {
	if v == nil {
		return KindInvalid
	}
	return v.Kind()
}

// Format renders v for diagnostics; a nil Value prints as "(invalid)".
func Format(v Value) string {
	if v == nil {
		return "(invalid)"
	}
	return v.String()
}

// Of wraps a Go primitive in its matching variant. Plain strings become
// non-NULL Strings, *string maps nil to NULL and uintptr becomes a Pointer.
// Runes are int32 in Go, so use Char explicitly for single bytes.
func Of(x any) (Value, error) {
	switch v := x.(type) {
	case Value:
		return v, nil
	case bool:
		return Bool(v), nil
	case float32:
		return Float32(v), nil
	case float64:
		return Float64(v), nil
	case string:
		return Str(v), nil
	case *string:
		return StrPtr(v), nil
	case uintptr:
		return Pointer(v), nil
	case int:
		return Int(v), nil
	case int8:
		return Int8(v), nil
	case int16:
		return Int16(v), nil
	case int32:
		return Int32(v), nil
	case int64:
		return Int64(v), nil
	case uint:
		return Uint(v), nil
	case uint8:
		return Uint8(v), nil
	case uint16:
		return Uint16(v), nil
	case uint32:
		return Uint32(v), nil
	case uint64:
		return Uint64(v), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedType, x)
	}
}

// MustOf is like Of but panics on unsupported types.
func MustOf(x any) Value {
	v, err := Of(x)
	if err != nil {
		panic(err)
	}
	return v
}

// Swap exchanges the kind and payload of two values.
func Swap(l, r *Value) {
	*l, *r = *r, *l
}
