package callsite

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

// Context is the location of a check.
type Context struct {
	File string
	Func string
	Line int
}

// Here returns the Context of the caller skip frames above Here's caller.
// Here(0) describes the function that called Here.
func Here(skip int) Context {
	pc, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return Context{}
	}
	ctx := Context{File: file, Line: line}
	if fn := runtime.FuncForPC(pc); fn != nil {
		ctx.Func = fn.Name()
	}
	return ctx
}

// IsZero reports whether the location is unknown.
func (c Context) IsZero() bool {
	return c.File == "" && c.Line == 0
}

// String formats the context as file:line using the path relative to the
// current root (see SetRoot).
func (c Context) String() string {
	return fmt.Sprintf("%s:%d", Relative(c.File), c.Line)
}

// RelFile is File relative to the current root, or "" when unknown.
func (c Context) RelFile() string {
	if c.File == "" {
		return ""
	}
	return Relative(c.File)
}

var root string

// SetRoot sets the directory that diagnostic paths are made relative to.
// An empty root prints paths unchanged.
func SetRoot(dir string) {
	if dir == "" {
		root = ""
		return
	}
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	root = filepath.Clean(dir)
}

// Relative strips the root prefix from path. Paths outside the root are
// returned unchanged; an empty path prints as "(nil)".
func Relative(path string) string {
	if path == "" {
		return "(nil)"
	}
	if root == "" || !filepath.IsAbs(path) {
		return path
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

// Caller returns the first frame above Caller whose function name does not
// start with one of the given prefixes. It lets check helpers report the
// line in the test instead of their own.
func Caller(skipPrefixes ...string) Context {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		f, more := frames.Next()
		if !hasAnyPrefix(f.Function, skipPrefixes) {
			return Context{File: f.File, Func: f.Function, Line: f.Line}
		}
		if !more {
			return Context{}
		}
	}
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
