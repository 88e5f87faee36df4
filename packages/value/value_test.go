package value

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samples() [][2]Value {
	return [][2]Value{
		{Bool(false), Bool(true)},
		{Char('a'), Char('b')},
		{Float32(-1.5), Float32(2.25)},
		{Float64(0.1), Float64(0.2)},
		{Null(), Str("")},
		{Str("abc"), Str("abd")},
		{Pointer(0x10), Pointer(0x20)},
		{Int(math.MinInt), Int(math.MaxInt)},
		{Int8(math.MinInt8), Int8(math.MaxInt8)},
		{Int16(math.MinInt16), Int16(math.MaxInt16)},
		{Int32(math.MinInt32), Int32(math.MaxInt32)},
		{Int64(math.MinInt64), Int64(math.MaxInt64)},
		{Uint(0), Uint(math.MaxUint)},
		{Uint8(0), Uint8(math.MaxUint8)},
		{Uint16(0), Uint16(math.MaxUint16)},
		{Uint32(0), Uint32(math.MaxUint32)},
		{Uint64(0), Uint64(math.MaxUint64)},
	}
}

func TestCompare_Ordering(t *testing.T) {
	for _, pair := range samples() {
		lo, hi := pair[0], pair[1]
		t.Run(lo.Kind().String(), func(t *testing.T) {
			assert.Equal(t, Less, Compare(lo, hi))
			assert.Equal(t, Greater, Compare(hi, lo))
			assert.Equal(t, Equal, Compare(lo, lo))
			assert.Equal(t, Equal, Compare(hi, hi))
		})
	}
}

func TestCompare_Antisymmetric(t *testing.T) {
	for _, pair := range samples() {
		assert.Equal(t, -Compare(pair[0], pair[1]), Compare(pair[1], pair[0]), pair[0].Kind().String())
	}
}

func TestCompare_KindMismatch(t *testing.T) {
	assert.Equal(t, Incomparable, Compare(Int32(1), Int64(1)))
	assert.Equal(t, Incomparable, Compare(Uint8(1), Char(1)))
	assert.Equal(t, Incomparable, Compare(nil, Int(1)))
	assert.Equal(t, Incomparable, Compare(Int(1), nil))
}

func TestCompare_NaN(t *testing.T) {
	nan64 := Float64(math.NaN())
	nan32 := Float32(float32(math.NaN()))

	assert.Equal(t, Equal, Compare(nan64, nan64))
	assert.Equal(t, Less, Compare(nan64, Float64(0)))
	assert.Equal(t, Greater, Compare(Float64(0), nan64))
	assert.Equal(t, Less, Compare(nan64, Float64(math.Inf(-1))))

	assert.Equal(t, Equal, Compare(nan32, nan32))
	assert.Equal(t, Less, Compare(nan32, Float32(0)))
	assert.Equal(t, Greater, Compare(Float32(0), nan32))
}

func TestCompare_FloatIsExact(t *testing.T) {
	assert.Equal(t, Less, Compare(Float64(1.0), Float64(1.0+1e-12)))
	assert.Equal(t, Equal, Compare(Float64(math.Copysign(0, -1)), Float64(0)))
}

func TestCompare_NullStrings(t *testing.T) {
	assert.Equal(t, Equal, Compare(Null(), Null()))
	assert.Equal(t, Less, Compare(Null(), Str("x")))
	assert.Equal(t, Greater, Compare(Str("x"), Null()))
	assert.Equal(t, Greater, Compare(Str("b"), Str("abc")))
}

func TestSwap(t *testing.T) {
	var l Value = Int8(3)
	var r Value = Str("three")
	Swap(&l, &r)
	assert.Equal(t, Str("three"), l)
	assert.Equal(t, Int8(3), r)
}

func TestString(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{Bool(true), "true"},
		{Char('z'), "z"},
		{Float32(1.5), "1.500000"},
		{Float64(math.NaN()), "NaN"},
		{Str("hi"), "hi"},
		{Null(), "(null)"},
		{Pointer(0), "(nil)"},
		{Pointer(0xff), "0xff"},
		{Int8(-8), "-8"},
		{Uint64(math.MaxUint64), "18446744073709551615"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.v.String())
	}
	assert.Equal(t, "(invalid)", Format(nil))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "float32", KindFloat32.String())
	assert.Equal(t, "invalid", KindInvalid.String())
	assert.Equal(t, "kind(99)", Kind(99).String())
}

func TestOf(t *testing.T) {
	s := "x"
	tests := []struct {
		in   any
		want Value
	}{
		{true, Bool(true)},
		{float32(1), Float32(1)},
		{2.5, Float64(2.5)},
		{"a", Str("a")},
		{&s, Str("x")},
		{(*string)(nil), Null()},
		{uintptr(7), Pointer(7)},
		{int(1), Int(1)},
		{int8(1), Int8(1)},
		{int16(1), Int16(1)},
		{int32(1), Int32(1)},
		{int64(1), Int64(1)},
		{uint(1), Uint(1)},
		{uint8(1), Uint8(1)},
		{uint16(1), Uint16(1)},
		{uint32(1), Uint32(1)},
		{uint64(1), Uint64(1)},
		{Char('c'), Char('c')},
	}
	for _, tt := range tests {
		got, err := Of(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := Of(struct{}{})
	assert.ErrorIs(t, err, ErrUnsupportedType)
	assert.Panics(t, func() { MustOf([]int{1}) })
}

func TestPointerOf(t *testing.T) {
	x := 1
	var nilPtr *int
	assert.NotZero(t, PointerOf(&x))
	assert.Equal(t, PointerOf(&x), PointerOf(&x))
	assert.Zero(t, PointerOf(nil))
	assert.Zero(t, PointerOf(nilPtr))
	assert.Zero(t, PointerOf(42))
}

func TestIn(t *testing.T) {
	nan := math.NaN()
	x, y := 1, 2
	s := "b"

	tests := []struct {
		name  string
		v     Value
		array any
		want  bool
	}{
		{"bool", Bool(true), []bool{false, true}, true},
		{"char", Char('q'), []byte("abc"), false},
		{"int", Int(3), []int{1, 2, 3}, true},
		{"int array", Int16(5), [3]int16{5, 6, 7}, true},
		{"uint64", Uint64(9), []uint64{1, 2}, false},
		{"nan in array", Float64(nan), []float64{nan, 1, 2}, true},
		{"nan not in array", Float64(nan), []float64{1, 2, 3}, false},
		{"number skips nan", Float32(1), []float32{float32(nan), 1}, true},
		{"string", Str("b"), []string{"a", "b"}, true},
		{"string ptrs", Str("b"), []*string{nil, &s}, true},
		{"null in ptrs", Null(), []*string{nil}, true},
		{"null not in strings", Null(), []string{""}, false},
		{"string array", Str("b"), [3]string{"a", "b", "c"}, true},
		{"string array miss", Str("d"), [3]string{"a", "b", "c"}, false},
		{"string ptr array", Null(), [2]*string{&s, nil}, true},
		{"String array", Str("b"), [1]String{Str("b")}, true},
		{"pointer", PointerOf(&y), []*int{&x, &y}, true},
		{"pointer miss", PointerOf(&y), []*int{&x}, false},
		{"uintptr", Pointer(5), []uintptr{5}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := In(tt.v, tt.array)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIn_WrongElementType(t *testing.T) {
	_, err := In(Int32(1), []int64{1})
	assert.ErrorIs(t, err, ErrElementType)

	_, err = In(Str("a"), []int{1})
	assert.ErrorIs(t, err, ErrElementType)

	_, err = In(Str("a"), [2]int{1, 2})
	assert.ErrorIs(t, err, ErrElementType)

	_, err = In(Pointer(1), []int{1})
	assert.ErrorIs(t, err, ErrElementType)

	_, err = In(nil, []int{1})
	assert.ErrorIs(t, err, ErrElementType)
}
