package main

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/abdul-hamid-achik/unitspec/packages/assertions"
	"github.com/abdul-hamid-achik/unitspec/packages/core/runner"
	"github.com/abdul-hamid-achik/unitspec/packages/value"
)

func registerSuites(r *runner.Registry) {
	registerNumbers(r)
	registerStrings(r)
	registerBuffers(r)
	registerStack(r)
}

func registerNumbers(r *runner.Registry) {
	r.AddSuite("numbers", nil, nil)

	must(r.AddTest("integer ordering", func(t *runner.T) {
		t.Check.Int(1+1, 2, assertions.Equal)
		t.Check.Int64(-5, 3, assertions.Less)
		t.Check.Uint8(255, 0, assertions.GreaterEqual)
		t.Check.Uint64(math.MaxUint64, 0, assertions.NotEqual)
	}))

	must(r.AddTest("floats and NaN", func(t *runner.T) {
		t.Check.Float64(0.5, 0.25*2, assertions.Equal)
		t.Check.Float64(math.NaN(), math.NaN(), assertions.Equal, "NaN equals NaN here")
		t.Check.Float32(float32(math.Inf(-1)), 0, assertions.Less)
	}))

	must(r.AddTest("membership", func(t *runner.T) {
		primes := []int{2, 3, 5, 7, 11}
		t.Check.InArray(value.Int(7), primes)
		t.Check.NotInArray(value.Int(9), primes)
		t.Check.InArray(value.Float64(math.NaN()), []float64{1, math.NaN()})
	}))

	must(r.AddTest("parse", func(t *runner.T) {
		n, err := strconv.Atoi("42")
		t.Assert.NoErr(err)
		t.Check.Eq(n, 42)

		_, err = strconv.Atoi("forty-two")
		t.Check.Err(err, "non-numeric input must fail")
	}))
}

func registerStrings(r *runner.Registry) {
	var words []string
	r.AddSuite("strings",
		func() { words = strings.Fields("alpha Beta gamma") },
		func() { words = nil },
	)

	must(r.AddTest("fields", func(t *runner.T) {
		t.Assert.Int(len(words), 3, assertions.Equal)
		t.Check.Str(words[0], "alpha")
		t.Check.StrCase(&words[1], ptr("BETA"))
		t.Check.StrN(&words[2], ptr("gamut"), 3, "shared prefix")
	}))

	must(r.AddTest("null strings", func(t *runner.T) {
		t.Check.StrEq(nil, nil)
		t.Check.StrNe(nil, ptr(""))
		t.Check.Compare(value.Null(), value.Str(""), assertions.Less)
	}))
}

func registerBuffers(r *runner.Registry) {
	r.AddSuite("buffers", nil, nil)

	must(r.AddTest("hex", func(t *runner.T) {
		header := []byte{0xCA, 0xFE, 0xBA, 0xBE, 0x00}
		t.Check.Hex(header, []byte{0xCA, 0xFE, 0xBA, 0xBE}, 4)
		t.Check.Nil(errors.Unwrap(errors.New("plain")))
	}))
}

// stack is a tiny type under test.
type stack []int

func (s *stack) push(v int) { *s = append(*s, v) }

func (s *stack) pop() (int, bool) {
	if len(*s) == 0 {
		return 0, false
	}
	v := (*s)[len(*s)-1]
	*s = (*s)[:len(*s)-1]
	return v, true
}

func registerStack(r *runner.Registry) {
	var s *stack
	r.AddSuite("stack", func() { s = &stack{} }, nil)

	must(r.AddTest("push pop", func(t *runner.T) {
		s.push(1)
		s.push(2)
		v, ok := s.pop()
		t.Assert.True(ok)
		t.Check.Int(v, 2, assertions.Equal)
		t.Check.Int(len(*s), 1, assertions.Equal)
	}))

	must(r.AddTest("empty pop", func(t *runner.T) {
		_, ok := s.pop()
		t.Check.False(ok, "setup gives every test a fresh stack")
	}))
}

func ptr(s string) *string { return &s }

func must(err error) {
	if err != nil {
		panic(err)
	}
}
