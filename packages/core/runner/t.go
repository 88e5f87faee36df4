package runner

import (
	"fmt"
	"reflect"

	"github.com/abdul-hamid-achik/unitspec/packages/assertions"
	"github.com/abdul-hamid-achik/unitspec/packages/core/callsite"
)

var tFrame = reflect.TypeOf((*T)(nil)).Elem().PkgPath() + ".(*T)."

// abort is panicked to unwind a test body; run recovers it.
type abort struct{}

// T is the handle passed to a running test.
type T struct {
	// Check reports a failed check and lets the test continue.
	Check *assertions.Checker
	// Assert also reports the failure as fatal.
	Assert *assertions.Asserter

	registry *Registry
	suite    *Suite
	test     *Test
	mode     ErrorMode
	events   Listener
	failed   bool
	failures []*assertions.Failure
}

func newT(r *Registry, s *Suite, test *Test, mode ErrorMode) *T {
	t := &T{
		registry: r,
		suite:    s,
		test:     test,
		mode:     mode,
		events:   r.events(),
	}
	rep := reporter{t: t}
	t.Check = assertions.NewChecker(rep)
	t.Assert = assertions.NewAsserter(rep)
	return t
}

// reporter adapts T to assertions.Reporter.
type reporter struct {
	t *T
}

func (r reporter) Fail(f *assertions.Failure) {
	r.t.record(f)
}

func (r reporter) Fatal(ctx callsite.Context) {
	r.t.failed = true
	r.t.events.TestFatal(r.t, ctx)
	r.t.stopIfFailFast()
}

func (t *T) Name() string {
	return t.test.Name
}

func (t *T) SuiteName() string {
	return t.suite.Name
}

// Context is where the test was registered.
func (t *T) Context() callsite.Context {
	return t.test.Context
}

func (t *T) Mode() ErrorMode {
	return t.mode
}

func (t *T) Failed() bool {
	return t.failed
}

// Failures returns the failures recorded so far.
func (t *T) Failures() []*assertions.Failure {
	return t.failures
}

// Fail marks the test failed without stopping it.
func (t *T) Fail() {
	t.failed = true
}

// FailNow marks the test failed and stops it. Teardown still runs.
func (t *T) FailNow() {
	t.failed = true
	panic(abort{})
}

// Errorf records a failure with a formatted message.
func (t *T) Errorf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	t.record(&assertions.Failure{
		Context: callsite.Caller(tFrame),
		Check:   "error",
		Detail:  msg,
	})
}

// Fatalf is Errorf followed by FailNow.
func (t *T) Fatalf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	t.note(&assertions.Failure{
		Context: callsite.Caller(tFrame),
		Check:   "error",
		Detail:  msg,
	})
	t.FailNow()
}

func (t *T) Logf(format string, args ...any) {
	fmt.Fprintf(t.registry.logWriter(), "    %s: %s\n", t.test.Name, fmt.Sprintf(format, args...))
}

// note marks the test failed and forwards f to the listener.
func (t *T) note(f *assertions.Failure) {
	t.failed = true
	t.failures = append(t.failures, f)
	t.events.CheckFailed(t, f)
}

func (t *T) record(f *assertions.Failure) {
	t.note(f)
	t.stopIfFailFast()
}

func (t *T) stopIfFailFast() {
	if t.mode == FailFast {
		panic(abort{})
	}
}
