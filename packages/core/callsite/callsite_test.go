package callsite

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func caller() Context {
	return Here(1)
}

func TestHere(t *testing.T) {
	ctx := Here(0)
	assert.True(t, strings.HasSuffix(ctx.File, "callsite_test.go"))
	assert.Contains(t, ctx.Func, "TestHere")
	assert.Positive(t, ctx.Line)
	assert.False(t, ctx.IsZero())
}

func TestHere_Skip(t *testing.T) {
	ctx := caller()
	assert.Contains(t, ctx.Func, "TestHere_Skip")
}

func TestHere_OutOfRange(t *testing.T) {
	assert.True(t, Here(1000).IsZero())
}

func TestRelative(t *testing.T) {
	t.Cleanup(func() { SetRoot("") })

	dir := t.TempDir()
	SetRoot(dir)

	tests := []struct {
		name string
		path string
		want string
	}{
		{"inside root", filepath.Join(dir, "pkg", "a_test.go"), filepath.Join("pkg", "a_test.go")},
		{"root itself", dir, dir},
		{"sibling with shared prefix", dir + "x/a.go", dir + "x/a.go"},
		{"relative path", "a.go", "a.go"},
		{"empty", "", "(nil)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Relative(tt.path))
		})
	}
}

func TestContext_String(t *testing.T) {
	t.Cleanup(func() { SetRoot("") })
	SetRoot("")

	ctx := Context{File: "/src/a_test.go", Line: 12}
	assert.Equal(t, "/src/a_test.go:12", ctx.String())

	SetRoot("/src")
	assert.Equal(t, "a_test.go:12", ctx.String())
	assert.Equal(t, "a_test.go", ctx.RelFile())
	assert.Equal(t, "", Context{}.RelFile())
	assert.Equal(t, "(nil):0", Context{}.String())
}

type helper struct{}

func (helper) locate() Context {
	return Caller("github.com/abdul-hamid-achik/unitspec/packages/core/callsite.helper.")
}

func TestCaller_SkipsHelpers(t *testing.T) {
	ctx := helper{}.locate()
	assert.Contains(t, ctx.Func, "TestCaller_SkipsHelpers")
	assert.True(t, strings.HasSuffix(ctx.File, "callsite_test.go"))
}

func TestCaller_NoPrefixes(t *testing.T) {
	ctx := Caller()
	assert.Contains(t, ctx.Func, "TestCaller_NoPrefixes")
}
