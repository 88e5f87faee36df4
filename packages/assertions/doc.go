// Package assertions provides the checks used inside unitspec tests.
//
// Supported checks:
//   - Generic comparisons of two Values under a Predicate (==, !=, <, <=, >, >=)
//   - Typed comparisons for every numeric kind, bools, chars and pointers
//   - Array membership (in / not in), NaN-aware for floats and NULL-safe for strings
//   - String equality: exact, first n bytes, case-insensitive
//   - Byte buffer comparison printed as hex
//   - Nil / not nil, zero return codes and nil errors
//
// A Checker reports each failure to its Reporter and returns false. An
// Asserter runs the same checks and additionally escalates a failure
// through Reporter.Fatal.
package assertions
