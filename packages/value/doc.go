// Package value provides the dynamically-typed value used by unitspec checks.
//
// A Value is one of sixteen primitive variants:
//   - Bool, Char
//   - Float32, Float64
//   - String (nullable), Pointer (address)
//   - Int, Int8, Int16, Int32, Int64
//   - Uint, Uint8, Uint16, Uint32, Uint64
//
// The variant type is the discriminator, so a Value can never be read as
// a different kind. Compare orders two values of the same kind and reports
// Incomparable for mismatched kinds. Floats treat NaN as equal to NaN and
// less than every other number.
package value
