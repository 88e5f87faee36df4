package assertions

import "github.com/abdul-hamid-achik/unitspec/packages/value"

// Asserter runs the same checks as Checker; a failed check is followed by
// Reporter.Fatal, which may end the test or the process.
type Asserter struct {
	c *Checker
}

func NewAsserter(r Reporter) *Asserter {
	return &Asserter{c: NewChecker(r)}
}

func (a *Asserter) check(ok bool) bool {
	if !ok {
		a.c.fatal()
	}
	return ok
}

func (a *Asserter) Compare(l, r value.Value, p Predicate, msgAndArgs ...any) bool {
	return a.check(a.c.Compare(l, r, p, msgAndArgs...))
}

func (a *Asserter) Eq(l, r any, msgAndArgs ...any) bool {
	return a.check(a.c.Eq(l, r, msgAndArgs...))
}

func (a *Asserter) Ne(l, r any, msgAndArgs ...any) bool {
	return a.check(a.c.Ne(l, r, msgAndArgs...))
}

func (a *Asserter) Lt(l, r any, msgAndArgs ...any) bool {
	return a.check(a.c.Lt(l, r, msgAndArgs...))
}

func (a *Asserter) Le(l, r any, msgAndArgs ...any) bool {
	return a.check(a.c.Le(l, r, msgAndArgs...))
}

func (a *Asserter) Gt(l, r any, msgAndArgs ...any) bool {
	return a.check(a.c.Gt(l, r, msgAndArgs...))
}

func (a *Asserter) Ge(l, r any, msgAndArgs ...any) bool {
	return a.check(a.c.Ge(l, r, msgAndArgs...))
}

func (a *Asserter) Bool(l, r bool, msgAndArgs ...any) bool {
	return a.check(a.c.Bool(l, r, msgAndArgs...))
}

func (a *Asserter) True(v bool, msgAndArgs ...any) bool {
	return a.check(a.c.True(v, msgAndArgs...))
}

func (a *Asserter) False(v bool, msgAndArgs ...any) bool {
	return a.check(a.c.False(v, msgAndArgs...))
}

func (a *Asserter) Char(l, r byte, msgAndArgs ...any) bool {
	return a.check(a.c.Char(l, r, msgAndArgs...))
}

func (a *Asserter) PtrEq(l, r any, msgAndArgs ...any) bool {
	return a.check(a.c.PtrEq(l, r, msgAndArgs...))
}

func (a *Asserter) PtrNe(l, r any, msgAndArgs ...any) bool {
	return a.check(a.c.PtrNe(l, r, msgAndArgs...))
}

func (a *Asserter) Int(l, r int, p Predicate, msgAndArgs ...any) bool {
	return a.check(a.c.Int(l, r, p, msgAndArgs...))
}

func (a *Asserter) Int8(l, r int8, p Predicate, msgAndArgs ...any) bool {
	return a.check(a.c.Int8(l, r, p, msgAndArgs...))
}

func (a *Asserter) Int16(l, r int16, p Predicate, msgAndArgs ...any) bool {
	return a.check(a.c.Int16(l, r, p, msgAndArgs...))
}

func (a *Asserter) Int32(l, r int32, p Predicate, msgAndArgs ...any) bool {
	return a.check(a.c.Int32(l, r, p, msgAndArgs...))
}

func (a *Asserter) Int64(l, r int64, p Predicate, msgAndArgs ...any) bool {
	return a.check(a.c.Int64(l, r, p, msgAndArgs...))
}

func (a *Asserter) Uint(l, r uint, p Predicate, msgAndArgs ...any) bool {
	return a.check(a.c.Uint(l, r, p, msgAndArgs...))
}

func (a *Asserter) Uint8(l, r uint8, p Predicate, msgAndArgs ...any) bool {
	return a.check(a.c.Uint8(l, r, p, msgAndArgs...))
}

func (a *Asserter) Uint16(l, r uint16, p Predicate, msgAndArgs ...any) bool {
	return a.check(a.c.Uint16(l, r, p, msgAndArgs...))
}

func (a *Asserter) Uint32(l, r uint32, p Predicate, msgAndArgs ...any) bool {
	return a.check(a.c.Uint32(l, r, p, msgAndArgs...))
}

func (a *Asserter) Uint64(l, r uint64, p Predicate, msgAndArgs ...any) bool {
	return a.check(a.c.Uint64(l, r, p, msgAndArgs...))
}

func (a *Asserter) Float32(l, r float32, p Predicate, msgAndArgs ...any) bool {
	return a.check(a.c.Float32(l, r, p, msgAndArgs...))
}

func (a *Asserter) Float64(l, r float64, p Predicate, msgAndArgs ...any) bool {
	return a.check(a.c.Float64(l, r, p, msgAndArgs...))
}

func (a *Asserter) InArray(v value.Value, array any, msgAndArgs ...any) bool {
	return a.check(a.c.InArray(v, array, msgAndArgs...))
}

func (a *Asserter) NotInArray(v value.Value, array any, msgAndArgs ...any) bool {
	return a.check(a.c.NotInArray(v, array, msgAndArgs...))
}

func (a *Asserter) Nil(v any, msgAndArgs ...any) bool {
	return a.check(a.c.Nil(v, msgAndArgs...))
}

func (a *Asserter) NotNil(v any, msgAndArgs ...any) bool {
	return a.check(a.c.NotNil(v, msgAndArgs...))
}

func (a *Asserter) Ret(code int, msgAndArgs ...any) bool {
	return a.check(a.c.Ret(code, msgAndArgs...))
}

func (a *Asserter) NoErr(err error, msgAndArgs ...any) bool {
	return a.check(a.c.NoErr(err, msgAndArgs...))
}

func (a *Asserter) Err(err error, msgAndArgs ...any) bool {
	return a.check(a.c.Err(err, msgAndArgs...))
}

func (a *Asserter) StrEq(l, r *string, msgAndArgs ...any) bool {
	return a.check(a.c.StrEq(l, r, msgAndArgs...))
}

func (a *Asserter) StrNe(l, r *string, msgAndArgs ...any) bool {
	return a.check(a.c.StrNe(l, r, msgAndArgs...))
}

func (a *Asserter) Str(l, r string, msgAndArgs ...any) bool {
	return a.check(a.c.Str(l, r, msgAndArgs...))
}

func (a *Asserter) StrN(l, r *string, n int, msgAndArgs ...any) bool {
	return a.check(a.c.StrN(l, r, n, msgAndArgs...))
}

func (a *Asserter) StrCase(l, r *string, msgAndArgs ...any) bool {
	return a.check(a.c.StrCase(l, r, msgAndArgs...))
}

func (a *Asserter) Hex(l, r []byte, n int, msgAndArgs ...any) bool {
	return a.check(a.c.Hex(l, r, n, msgAndArgs...))
}
