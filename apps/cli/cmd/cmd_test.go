package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdul-hamid-achik/unitspec/packages/assertions"
	"github.com/abdul-hamid-achik/unitspec/packages/core/runner"
	"github.com/abdul-hamid-achik/unitspec/packages/history"
)

// sampleSuites registers one failing and one passing suite.
func sampleSuites(r *runner.Registry) {
	r.AddSuite("math", nil, nil)
	_ = r.AddTest("add", func(t *runner.T) { t.Check.Int(1+1, 2, assertions.Equal) })
	_ = r.AddTest("sub", func(t *runner.T) { t.Check.Int(3-1, 1, assertions.Equal) })
	r.AddSuite("strings", nil, nil)
	_ = r.AddTest("equal", func(t *runner.T) { t.Check.Str("a", "a") })
}

func passingSuites(r *runner.Registry) {
	r.AddSuite("ok", nil, nil)
	_ = r.AddTest("fine", func(t *runner.T) { t.Check.True(true) })
}

// runCLI runs the command line in a scratch directory.
func runCLI(t *testing.T, register Register, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := execute(args, &stdout, &stderr, register)
	return code, stdout.String(), stderr.String()
}

func TestRun_AllSuites(t *testing.T) {
	chdir(t, t.TempDir())

	code, out, _ := runCLI(t, sampleSuites, "run", "--no-color")
	assert.Equal(t, ExitTestFailure, code)
	assert.Contains(t, out, "Running test suite: math")
	assert.Contains(t, out, "Running test suite: strings")
	assert.Contains(t, out, "[ FAILED ] sub")
	assert.Contains(t, out, "Final Summary: 2 passed, 1 failed, 3 total")
}

func TestRun_DefaultsToRun(t *testing.T) {
	chdir(t, t.TempDir())

	code, out, _ := runCLI(t, passingSuites)
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "[ PASSED ] fine")
}

func TestRun_NamedSuites(t *testing.T) {
	chdir(t, t.TempDir())

	code, out, _ := runCLI(t, sampleSuites, "run", "strings")
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "Running test suite: strings")
	assert.NotContains(t, out, "Running test suite: math")

	code, _, errOut := runCLI(t, sampleSuites, "run", "strings", "nope")
	assert.Equal(t, ExitUsageError, code)
	assert.Contains(t, errOut, `unknown suite "nope"`)
}

func TestRun_FailFast(t *testing.T) {
	chdir(t, t.TempDir())

	code, out, _ := runCLI(t, sampleSuites, "run", "--fail-fast")
	assert.Equal(t, ExitTestFailure, code)
	assert.Contains(t, out, "[ FAILED ] sub")
	assert.NotContains(t, out, "Running test suite: strings")
	assert.Contains(t, out, "Stopped after first failure")
}

func TestRun_FailFastFromEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("UNITSPEC_FAIL_FAST", "true")

	_, out, _ := runCLI(t, sampleSuites, "run")
	assert.NotContains(t, out, "Running test suite: strings")
}

func TestRun_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(".unitspec.yaml", []byte("output: tap\nsuites: [strings]\n"), 0644))

	code, out, _ := runCLI(t, sampleSuites, "run")
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "TAP version 13")
	assert.Contains(t, out, "ok 1 - strings/equal")

	// flags win over the file
	code, out, _ = runCLI(t, sampleSuites, "run", "-o", "console", "math")
	assert.Equal(t, ExitTestFailure, code)
	assert.Contains(t, out, "Running test suite: math")
}

func TestRun_ConfigErrors(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	code, _, errOut := runCLI(t, sampleSuites, "run", "--config", filepath.Join(dir, "missing.yaml"))
	assert.Equal(t, ExitConfigError, code)
	assert.Contains(t, errOut, "reading config")

	code, _, errOut = runCLI(t, sampleSuites, "run", "-o", "xml")
	assert.Equal(t, ExitUsageError, code)
	assert.Contains(t, errOut, "unknown output")

	code, _, _ = runCLI(t, sampleSuites, "run", "--no-such-flag")
	assert.Equal(t, ExitUsageError, code)
}

func TestRun_JSONReportRoundTrip(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	reportPath := filepath.Join(dir, "report.json")

	code, out, _ := runCLI(t, sampleSuites, "run", "-o", "json", "--output-file", reportPath)
	assert.Equal(t, ExitTestFailure, code)
	assert.Empty(t, out)

	code, out, _ = runCLI(t, nil, "report", reportPath)
	assert.Equal(t, ExitTestFailure, code)
	assert.Contains(t, out, "(collect-all)")
	assert.Contains(t, out, "Suites: 2  Tests: 3")
	assert.Contains(t, out, "Failed tests:")
	assert.Contains(t, out, "math/sub (")
	assert.Contains(t, out, "cmd_test.go:")
	assert.Contains(t, out, ": 2 > 1 (want ==)")

	require.NoError(t, os.WriteFile(reportPath, []byte(`{"id":1}`), 0644))
	code, _, errOut := runCLI(t, nil, "report", reportPath)
	assert.Equal(t, ExitReportError, code)
	assert.Contains(t, errOut, "invalid report")

	code, out, _ = runCLI(t, nil, "report", "--schema")
	assert.Equal(t, ExitSuccess, code)
	assert.True(t, strings.HasPrefix(out, "{"))
}

func TestRun_MultipleSuitesMergeIntoOneReport(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	reportPath := filepath.Join(dir, "report.json")

	runCLI(t, sampleSuites, "run", "-o", "json", "--output-file", reportPath, "strings", "math")
	code, out, _ := runCLI(t, nil, "report", reportPath)
	assert.Equal(t, ExitTestFailure, code)
	assert.Contains(t, out, "Suites: 2  Tests: 3")
}

func TestRun_HistoryAndMetrics(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	db := filepath.Join(dir, "runs.db")
	prom := filepath.Join(dir, "unitspec.prom")

	code, _, _ := runCLI(t, sampleSuites, "run", "--history", db, "--metrics-file", prom)
	assert.Equal(t, ExitTestFailure, code)
	code, _, _ = runCLI(t, passingSuites, "run", "--history", db)
	assert.Equal(t, ExitSuccess, code)

	data, err := os.ReadFile(prom)
	require.NoError(t, err)
	assert.Contains(t, string(data), "unitspec_tests_failed_total 1 ")

	code, out, _ := runCLI(t, nil, "history", "--db", db)
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "RUN")
	assert.Equal(t, 3, strings.Count(out, "\n"), "header and two runs")

	store, err := history.Open(context.Background(), db)
	require.NoError(t, err)
	runs, err := store.Runs(context.Background(), 0)
	require.NoError(t, err)
	require.NoError(t, store.Close())
	require.Len(t, runs, 2)

	// the oldest run is the failing one
	code, out, _ = runCLI(t, nil, "history", "show", runs[1].ID, "--db", db)
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "2 passed, 1 failed, 3 total")
	assert.Contains(t, out, "FAILED")

	code, out, _ = runCLI(t, nil, "history", "--db", db, "--prune", "1")
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "Removed 1 run")

	code, _, errOut := runCLI(t, nil, "history")
	assert.Equal(t, ExitUsageError, code)
	assert.Contains(t, errOut, "--db is required")

	code, _, _ = runCLI(t, nil, "history", "show", "missing", "--db", db)
	assert.Equal(t, ExitReportError, code)
}

func TestList(t *testing.T) {
	chdir(t, t.TempDir())

	code, out, _ := runCLI(t, sampleSuites, "list")
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "math (2 tests):")
	assert.Contains(t, out, "strings (1 test):")
	assert.Contains(t, out, "  - add  ")
	assert.Contains(t, out, "cmd_test.go:")
	assert.Contains(t, out, "2 suites, 3 tests")

	_, out, _ = runCLI(t, func(*runner.Registry) {}, "list")
	assert.Contains(t, out, "No suites registered")
}

func TestVersion(t *testing.T) {
	code, out, _ := runCLI(t, nil, "version")
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "unitspec version dev")
}

func TestInitAndValidate(t *testing.T) {
	chdir(t, t.TempDir())

	code, out, _ := runCLI(t, nil, "init")
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, ".unitspec.yaml")

	code, _, _ = runCLI(t, nil, "init")
	assert.Equal(t, ExitConfigError, code)
	code, _, _ = runCLI(t, nil, "init", "--force")
	assert.Equal(t, ExitSuccess, code)

	code, out, _ = runCLI(t, nil, "validate", ".unitspec.yaml")
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "Valid: .unitspec.yaml")

	require.NoError(t, os.WriteFile("bad.yaml", []byte("bail: true\n"), 0644))
	code, _, errOut := runCLI(t, nil, "validate", "bad.yaml")
	assert.Equal(t, ExitConfigError, code)
	assert.Contains(t, errOut, "Error in bad.yaml")
}

func TestCompletion(t *testing.T) {
	code, out, _ := runCLI(t, sampleSuites, "completion", "bash")
	assert.Equal(t, ExitSuccess, code)
	assert.NotEmpty(t, out)

	// suite names are offered after "run"
	code, out, _ = runCLI(t, sampleSuites, "__complete", "run", "")
	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "math")
	assert.Contains(t, out, "strings")
}

// chdir changes the working directory for the duration of the test,
// mirroring testing.T.Chdir (Go 1.24+) on older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
