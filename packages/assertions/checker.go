package assertions

import (
	"fmt"
	"reflect"

	"github.com/abdul-hamid-achik/unitspec/packages/core/callsite"
	"github.com/abdul-hamid-achik/unitspec/packages/value"
)

var pkgPath = reflect.TypeOf(Checker{}).PkgPath()

// helperPrefixes are skipped when locating the caller of a check.
var helperPrefixes = []string{
	pkgPath + ".(*Checker).",
	pkgPath + ".(*Asserter).",
}

// Checker runs checks and reports failures to a Reporter. A nil Reporter
// makes the Checker a plain predicate evaluator.
type Checker struct {
	reporter Reporter
}

func NewChecker(r Reporter) *Checker {
	return &Checker{reporter: r}
}

func (c *Checker) fail(f *Failure, msgAndArgs []any) bool {
	f.Context = callsite.Caller(helperPrefixes...)
	f.Message = formatMessage(msgAndArgs)
	if c.reporter != nil {
		c.reporter.Fail(f)
	}
	return false
}

func (c *Checker) fatal() {
	if c.reporter != nil {
		c.reporter.Fatal(callsite.Caller(helperPrefixes...))
	}
}

// Compare checks that value.Compare(l, r) satisfies p. Values of different
// kinds always fail.
func (c *Checker) Compare(l, r value.Value, p Predicate, msgAndArgs ...any) bool {
	result := value.Compare(l, r)
	if p.Accepts(result) {
		return true
	}

	f := &Failure{
		Check:    "compare",
		Left:     value.Format(l),
		Right:    value.Format(r),
		Operator: p.Symbol(),
	}
	if result == value.Incomparable {
		f.Detail = fmt.Sprintf("%s ? %s (incomparable kinds %s and %s)",
			f.Left, f.Right, value.KindOf(l), value.KindOf(r))
	} else {
		f.Detail = fmt.Sprintf("%s %s %s (want %s)", f.Left, OutcomeSymbol(result), f.Right, f.Operator)
	}
	return c.fail(f, msgAndArgs)
}

func (c *Checker) compareAny(l, r any, p Predicate, msgAndArgs []any) bool {
	lv, err := value.Of(l)
	if err == nil {
		var rv value.Value
		if rv, err = value.Of(r); err == nil {
			return c.Compare(lv, rv, p, msgAndArgs...)
		}
	}
	return c.fail(&Failure{
		Check:    "compare",
		Left:     fmt.Sprintf("%v", l),
		Right:    fmt.Sprintf("%v", r),
		Operator: p.Symbol(),
		Detail:   fmt.Sprintf("cannot compare %T and %T: %v", l, r, err),
	}, msgAndArgs)
}

// Eq, Ne, Lt, Le, Gt and Ge wrap both operands with value.Of, so they must
// have the same Go type: Eq(int32(1), 1) fails as incomparable.
func (c *Checker) Eq(l, r any, msgAndArgs ...any) bool {
	return c.compareAny(l, r, Equal, msgAndArgs)
}

func (c *Checker) Ne(l, r any, msgAndArgs ...any) bool {
	return c.compareAny(l, r, NotEqual, msgAndArgs)
}

func (c *Checker) Lt(l, r any, msgAndArgs ...any) bool {
	return c.compareAny(l, r, Less, msgAndArgs)
}

func (c *Checker) Le(l, r any, msgAndArgs ...any) bool {
	return c.compareAny(l, r, LessEqual, msgAndArgs)
}

func (c *Checker) Gt(l, r any, msgAndArgs ...any) bool {
	return c.compareAny(l, r, Greater, msgAndArgs)
}

func (c *Checker) Ge(l, r any, msgAndArgs ...any) bool {
	return c.compareAny(l, r, GreaterEqual, msgAndArgs)
}

func (c *Checker) Bool(l, r bool, msgAndArgs ...any) bool {
	return c.Compare(value.Bool(l), value.Bool(r), Equal, msgAndArgs...)
}

func (c *Checker) True(v bool, msgAndArgs ...any) bool {
	return c.Compare(value.Bool(v), value.Bool(true), Equal, msgAndArgs...)
}

func (c *Checker) False(v bool, msgAndArgs ...any) bool {
	return c.Compare(value.Bool(v), value.Bool(false), Equal, msgAndArgs...)
}

func (c *Checker) Char(l, r byte, msgAndArgs ...any) bool {
	return c.Compare(value.Char(l), value.Char(r), Equal, msgAndArgs...)
}

// PtrEq compares the addresses held by two pointers.
func (c *Checker) PtrEq(l, r any, msgAndArgs ...any) bool {
	return c.Compare(value.PointerOf(l), value.PointerOf(r), Equal, msgAndArgs...)
}

func (c *Checker) PtrNe(l, r any, msgAndArgs ...any) bool {
	return c.Compare(value.PointerOf(l), value.PointerOf(r), NotEqual, msgAndArgs...)
}

func (c *Checker) Int(l, r int, p Predicate, msgAndArgs ...any) bool {
	return c.Compare(value.Int(l), value.Int(r), p, msgAndArgs...)
}

func (c *Checker) Int8(l, r int8, p Predicate, msgAndArgs ...any) bool {
	return c.Compare(value.Int8(l), value.Int8(r), p, msgAndArgs...)
}

func (c *Checker) Int16(l, r int16, p Predicate, msgAndArgs ...any) bool {
	return c.Compare(value.Int16(l), value.Int16(r), p, msgAndArgs...)
}

func (c *Checker) Int32(l, r int32, p Predicate, msgAndArgs ...any) bool {
	return c.Compare(value.Int32(l), value.Int32(r), p, msgAndArgs...)
}

func (c *Checker) Int64(l, r int64, p Predicate, msgAndArgs ...any) bool {
	return c.Compare(value.Int64(l), value.Int64(r), p, msgAndArgs...)
}

func (c *Checker) Uint(l, r uint, p Predicate, msgAndArgs ...any) bool {
	return c.Compare(value.Uint(l), value.Uint(r), p, msgAndArgs...)
}

func (c *Checker) Uint8(l, r uint8, p Predicate, msgAndArgs ...any) bool {
	return c.Compare(value.Uint8(l), value.Uint8(r), p, msgAndArgs...)
}

func (c *Checker) Uint16(l, r uint16, p Predicate, msgAndArgs ...any) bool {
	return c.Compare(value.Uint16(l), value.Uint16(r), p, msgAndArgs...)
}

func (c *Checker) Uint32(l, r uint32, p Predicate, msgAndArgs ...any) bool {
	return c.Compare(value.Uint32(l), value.Uint32(r), p, msgAndArgs...)
}

func (c *Checker) Uint64(l, r uint64, p Predicate, msgAndArgs ...any) bool {
	return c.Compare(value.Uint64(l), value.Uint64(r), p, msgAndArgs...)
}

// Float32 and Float64 compare exactly; NaN equals NaN and is less than
// every other value.
func (c *Checker) Float32(l, r float32, p Predicate, msgAndArgs ...any) bool {
	return c.Compare(value.Float32(l), value.Float32(r), p, msgAndArgs...)
}

func (c *Checker) Float64(l, r float64, p Predicate, msgAndArgs ...any) bool {
	return c.Compare(value.Float64(l), value.Float64(r), p, msgAndArgs...)
}

// InArray checks that v occurs in array (see value.In for accepted types).
func (c *Checker) InArray(v value.Value, array any, msgAndArgs ...any) bool {
	found, err := value.In(v, array)
	if err == nil && found {
		return true
	}
	f := &Failure{Check: "in_array", Left: value.Format(v), Right: fmt.Sprintf("%v", array)}
	if err != nil {
		f.Detail = fmt.Sprintf("%s: %v", f.Left, err)
	} else {
		f.Detail = f.Left + " is not in array"
	}
	return c.fail(f, msgAndArgs)
}

// NotInArray checks that v does not occur in array. An array whose element
// type does not match v fails rather than passing vacuously.
func (c *Checker) NotInArray(v value.Value, array any, msgAndArgs ...any) bool {
	found, err := value.In(v, array)
	if err == nil && !found {
		return true
	}
	f := &Failure{Check: "not_in_array", Left: value.Format(v), Right: fmt.Sprintf("%v", array)}
	if err != nil {
		f.Detail = fmt.Sprintf("%s: %v", f.Left, err)
	} else {
		f.Detail = f.Left + " is in array"
	}
	return c.fail(f, msgAndArgs)
}

// Nil checks that v is nil, including typed nils stored in an interface.
func (c *Checker) Nil(v any, msgAndArgs ...any) bool {
	if isNil(v) {
		return true
	}
	left := fmt.Sprintf("%v", v)
	if p := value.PointerOf(v); p != 0 {
		left = p.String()
	}
	return c.fail(&Failure{Check: "null", Left: left, Detail: left + " is not nil"}, msgAndArgs)
}

func (c *Checker) NotNil(v any, msgAndArgs ...any) bool {
	if !isNil(v) {
		return true
	}
	return c.fail(&Failure{Check: "not_null", Left: "(nil)", Detail: "(nil) is nil"}, msgAndArgs)
}

// Ret checks that a status code is zero.
func (c *Checker) Ret(code int, msgAndArgs ...any) bool {
	if code == 0 {
		return true
	}
	return c.fail(&Failure{
		Check:  "ret",
		Left:   fmt.Sprint(code),
		Detail: fmt.Sprintf("return value is %d", code),
	}, msgAndArgs)
}

func (c *Checker) NoErr(err error, msgAndArgs ...any) bool {
	if err == nil {
		return true
	}
	return c.fail(&Failure{Check: "no_error", Left: err.Error(), Detail: "unexpected error: " + err.Error()}, msgAndArgs)
}

func (c *Checker) Err(err error, msgAndArgs ...any) bool {
	if err != nil {
		return true
	}
	return c.fail(&Failure{Check: "error", Left: "(nil)", Detail: "expected an error, got nil"}, msgAndArgs)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.UnsafePointer, reflect.Map, reflect.Chan, reflect.Func, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
