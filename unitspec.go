package unitspec

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"

	"github.com/abdul-hamid-achik/unitspec/packages/assertions"
	"github.com/abdul-hamid-achik/unitspec/packages/core/callsite"
	"github.com/abdul-hamid-achik/unitspec/packages/core/runner"
	"github.com/abdul-hamid-achik/unitspec/packages/output"
)

var (
	defaultOnce sync.Once
	defaultReg  *runner.Registry

	// replaced in tests
	osExit           = os.Exit
	stdout io.Writer = os.Stdout
)

// Default returns the process-wide registry, creating it with a console
// listener on first use.
func Default() *runner.Registry {
	defaultOnce.Do(func() {
		defaultReg = runner.New(runner.WithListener(output.NewConsoleFormatter()))
	})
	return defaultReg
}

func Init() { Default().Init() }

// AddSuite starts a new suite; tests added afterwards belong to it.
func AddSuite(name string, setup, teardown func()) *runner.Suite {
	return Default().AddSuite(name, setup, teardown)
}

func AddTest(name string, fn runner.TestFunc) error {
	return Default().AddTest(name, fn)
}

// Run runs every registered suite, clears the registry and returns the
// number of failed tests.
func Run() int { return Default().Run() }

// RunSuite runs one suite and returns its failure count, or -1 if no suite
// has that name.
func RunSuite(name string) int { return Default().RunSuite(name) }

func SetErrorMode(mode runner.ErrorMode) { Default().SetErrorMode(mode) }

func TestCount() int    { return Default().TestCount() }
func FailureCount() int { return Default().FailureCount() }
func SuiteCount() int   { return Default().SuiteCount() }
func Cleanup()          { Default().Cleanup() }

// Pass prints the caller's location with "test passed!" and exits with
// status 0. It is meant for programs that make a few bare checks instead
// of registering suites.
func Pass() {
	ctx := callsite.Here(1)
	fmt.Fprintf(stdout, "%s %s\n", ctx, color.GreenString("test passed!"))
	osExit(0)
}

// Fatal prints the caller's location with "test failed!" and exits with
// status 1. Inside a suite use T.FailNow instead.
func Fatal() {
	ctx := callsite.Here(1)
	fmt.Fprintf(stdout, "%s %s\n", ctx, color.RedString("test failed!"))
	osExit(1)
}

// BareRunner holds checks that are not part of any suite. Failed checks
// are printed; a failed assertion ends the process with status 1.
type BareRunner struct {
	Check  *assertions.Checker
	Assert *assertions.Asserter
	failed bool
}

type bareReporter struct {
	b *BareRunner
}

func (r bareReporter) Fail(f *assertions.Failure) {
	r.b.failed = true
	fmt.Fprintf(stdout, "%s %s %s\n", f.Context, color.RedString("CHECK"), f.Detail)
	if f.Message != "" {
		fmt.Fprintf(stdout, "    %s\n", f.Message)
	}
}

func (r bareReporter) Fatal(ctx callsite.Context) {
	fmt.Fprintf(stdout, "%s %s\n", ctx, color.RedString("test failed!"))
	osExit(1)
}

// Bare returns checks for a program without suites.
func Bare() *BareRunner {
	b := &BareRunner{}
	rep := bareReporter{b: b}
	b.Check = assertions.NewChecker(rep)
	b.Assert = assertions.NewAsserter(rep)
	return b
}

// Failed reports whether any check has failed.
func (b *BareRunner) Failed() bool {
	return b.failed
}

// Done exits with status 1 if a check failed and 0 otherwise.
func (b *BareRunner) Done() {
	if b.failed {
		osExit(1)
		return
	}
	osExit(0)
}
