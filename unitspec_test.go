package unitspec

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdul-hamid-achik/unitspec/packages/assertions"
	"github.com/abdul-hamid-achik/unitspec/packages/core/runner"
	"github.com/abdul-hamid-achik/unitspec/packages/output"
)

// captureExit replaces stdout and osExit for the duration of the test.
func captureExit(t *testing.T) (*bytes.Buffer, *[]int) {
	t.Helper()
	var buf bytes.Buffer
	var codes []int

	oldOut, oldExit, oldNoColor := stdout, osExit, color.NoColor
	stdout = &buf
	osExit = func(code int) { codes = append(codes, code) }
	color.NoColor = true
	t.Cleanup(func() {
		stdout, osExit, color.NoColor = oldOut, oldExit, oldNoColor
	})
	return &buf, &codes
}

func TestPass(t *testing.T) {
	buf, codes := captureExit(t)
	Pass()
	assert.Equal(t, []int{0}, *codes)
	assert.Contains(t, buf.String(), "unitspec_test.go:")
	assert.Contains(t, buf.String(), " test passed!\n")
}

func TestFatal(t *testing.T) {
	buf, codes := captureExit(t)
	Fatal()
	assert.Equal(t, []int{1}, *codes)
	assert.Contains(t, buf.String(), "unitspec_test.go:")
	assert.Contains(t, buf.String(), " test failed!\n")
}

func TestBare_CheckContinues(t *testing.T) {
	buf, codes := captureExit(t)
	b := Bare()

	assert.True(t, b.Check.Int(1, 1, assertions.Equal))
	assert.False(t, b.Failed())
	assert.False(t, b.Check.Int(1, 2, assertions.Equal, "values %d", 7))
	assert.True(t, b.Failed())
	assert.Empty(t, *codes)

	out := buf.String()
	assert.Contains(t, out, "unitspec_test.go:")
	assert.Contains(t, out, "CHECK 1 < 2 (want ==)")
	assert.Contains(t, out, "    values 7\n")

	b.Done()
	assert.Equal(t, []int{1}, *codes)
}

func TestBare_AssertExits(t *testing.T) {
	buf, codes := captureExit(t)
	b := Bare()

	b.Assert.True(false)
	assert.Equal(t, []int{1}, *codes)
	assert.Contains(t, buf.String(), "test failed!")
}

func TestBare_DoneSuccess(t *testing.T) {
	_, codes := captureExit(t)
	b := Bare()
	b.Check.Str("a", "a")
	b.Done()
	assert.Equal(t, []int{0}, *codes)
}

func TestDefaultRegistry(t *testing.T) {
	var buf bytes.Buffer
	reg := Default()
	require.Same(t, reg, Default())
	reg.SetListener(output.NewConsoleFormatter(output.WithWriter(&buf), output.WithNoColor(true)))
	t.Cleanup(Cleanup)

	Init()
	AddSuite("first", nil, nil)
	require.NoError(t, AddTest("passes", func(rt *runner.T) { rt.Check.True(true) }))
	require.NoError(t, AddTest("fails", func(rt *runner.T) { rt.Check.False(true) }))
	AddSuite("second", nil, nil)
	require.NoError(t, AddTest("passes", func(rt *runner.T) {}))

	assert.Equal(t, 3, TestCount())
	assert.Equal(t, 2, SuiteCount())

	assert.Equal(t, 0, RunSuite("second"))
	assert.Equal(t, -1, RunSuite("missing"))
	assert.Equal(t, 3, TestCount(), "RunSuite keeps the registry")

	SetErrorMode(runner.CollectAll)
	assert.Equal(t, 1, Run())
	assert.Equal(t, 0, TestCount(), "Run cleans up")
	assert.Equal(t, 0, SuiteCount())
	assert.Equal(t, 0, FailureCount())

	assert.Contains(t, buf.String(), "Final Summary: 2 passed, 1 failed, 3 total")
}
