package assertions

import (
	"bytes"
	"fmt"
	"strings"
)

// nullable renders a *string, printing nil as "(null)".
func nullable(s *string) string {
	if s == nil {
		return "(null)"
	}
	return *s
}

// sameString reports whether l and r are equal under the NULL-safe rule:
// two nils are equal, one nil is not, the same pointer is equal without
// being read.
func sameString(l, r *string, eq func(a, b string) bool) bool {
	if l == r {
		return true
	}
	if l == nil || r == nil {
		return false
	}
	return eq(*l, *r)
}

func exact(a, b string) bool { return a == b }

// StrEq checks that two nullable strings are equal.
func (c *Checker) StrEq(l, r *string, msgAndArgs ...any) bool {
	if sameString(l, r, exact) {
		return true
	}
	return c.failStrings("str", l, r, "!=", "", msgAndArgs)
}

// StrNe checks that two nullable strings differ.
func (c *Checker) StrNe(l, r *string, msgAndArgs ...any) bool {
	if !sameString(l, r, exact) {
		return true
	}
	return c.failStrings("str_ne", l, r, "==", "", msgAndArgs)
}

// Str is StrEq for plain strings.
func (c *Checker) Str(l, r string, msgAndArgs ...any) bool {
	return c.StrEq(&l, &r, msgAndArgs...)
}

// StrN checks that the first n bytes of two nullable strings match. Shorter
// strings compare up to their end, like strncmp.
func (c *Checker) StrN(l, r *string, n int, msgAndArgs ...any) bool {
	prefixEq := func(a, b string) bool {
		return truncate(a, n) == truncate(b, n)
	}
	if sameString(l, r, prefixEq) {
		return true
	}
	return c.failStrings("str_n", l, r, "!=", fmt.Sprintf(" (first %d bytes)", n), msgAndArgs)
}

// StrCase checks two nullable strings for equality ignoring ASCII case.
// Bytes outside A-Z and a-z must match exactly.
func (c *Checker) StrCase(l, r *string, msgAndArgs ...any) bool {
	if sameString(l, r, asciiEqualFold) {
		return true
	}
	return c.failStrings("str_case", l, r, "!=", " (ignoring case)", msgAndArgs)
}

func asciiEqualFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		if lowerASCII(a[i]) != lowerASCII(b[i]) {
			return false
		}
	}
	return true
}

func lowerASCII(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}

func (c *Checker) failStrings(check string, l, r *string, op, suffix string, msgAndArgs []any) bool {
	f := &Failure{Check: check, Left: nullable(l), Right: nullable(r), Operator: op}
	f.Detail = fmt.Sprintf("%s %s %s%s", f.Left, op, f.Right, suffix)
	return c.fail(f, msgAndArgs)
}

func truncate(s string, n int) string {
	if n < 0 {
		n = 0
	}
	if len(s) > n {
		return s[:n]
	}
	return s
}

// CompareBytes compares the first n bytes of l and r byte by byte and
// returns -1, 0 or 1. Buffers shorter than n compare up to their length
// and the shorter one sorts first.
func CompareBytes(l, r []byte, n int) int {
	if n < 0 {
		n = 0
	}
	return bytes.Compare(l[:min(n, len(l))], r[:min(n, len(r))])
}

// Hex checks that the first n bytes of two buffers are identical. Two nil
// buffers are equal, one nil buffer is not, and buffers sharing the same
// backing array are equal without being compared.
func (c *Checker) Hex(l, r []byte, n int, msgAndArgs ...any) bool {
	switch {
	case l == nil && r == nil:
		return true
	case l == nil || r == nil:
	case len(l) > 0 && len(r) > 0 && &l[0] == &r[0] && len(l) >= n && len(r) >= n:
		return true
	case len(l) >= n && len(r) >= n && CompareBytes(l, r, n) == 0:
		return true
	}

	f := &Failure{Check: "hex", Left: FormatHex(l, n), Right: FormatHex(r, n), Operator: "!="}
	f.Detail = fmt.Sprintf("`%s` != `%s`", f.Left, f.Right)
	if l != nil && r != nil && (len(l) < n || len(r) < n) {
		f.Detail += fmt.Sprintf(" (want %d bytes, have %d and %d)", n, len(l), len(r))
	}
	return c.fail(f, msgAndArgs)
}

// FormatHex prints up to n bytes of b as space separated upper-case hex.
func FormatHex(b []byte, n int) string {
	if b == nil {
		return "(null)"
	}
	n = max(0, min(n, len(b)))
	var sb strings.Builder
	for i := 0; i < n; i++ {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%02X", b[i])
	}
	return sb.String()
}
