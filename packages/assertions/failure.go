package assertions

import (
	"fmt"
	"strings"

	"github.com/abdul-hamid-achik/unitspec/packages/core/callsite"
)

// Failure describes one failed check.
type Failure struct {
	Context  callsite.Context
	Check    string // check name, e.g. "compare" or "in_array"
	Left     string
	Right    string
	Operator string // the predicate that was required, if any
	Detail   string // the rendered mismatch, e.g. "1 > 0"
	Message  string // optional caller-supplied message
}

func (f *Failure) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", f.Context, f.Detail)
	if f.Message != "" {
		fmt.Fprintf(&b, ": %s", f.Message)
	}
	return b.String()
}

// Reporter receives check failures.
type Reporter interface {
	// Fail records a failed check. It may not return (fail-fast).
	Fail(f *Failure)
	// Fatal is called after a failed assertion.
	Fatal(ctx callsite.Context)
}

// formatMessage turns the trailing msgAndArgs of a check into a message.
// A leading string is used as a format for the remaining arguments.
func formatMessage(msgAndArgs []any) string {
	if len(msgAndArgs) == 0 {
		return ""
	}
	if format, ok := msgAndArgs[0].(string); ok {
		if len(msgAndArgs) == 1 {
			return format
		}
		return fmt.Sprintf(format, msgAndArgs[1:]...)
	}
	return fmt.Sprint(msgAndArgs...)
}

// Recorder is a Reporter that keeps every failure in memory.
type Recorder struct {
	Failures []*Failure
	Fatals   []callsite.Context
}

func (r *Recorder) Fail(f *Failure) {
	r.Failures = append(r.Failures, f)
}

func (r *Recorder) Fatal(ctx callsite.Context) {
	r.Fatals = append(r.Fatals, ctx)
}

// Last returns the most recent failure, or nil.
func (r *Recorder) Last() *Failure {
	if len(r.Failures) == 0 {
		return nil
	}
	return r.Failures[len(r.Failures)-1]
}

// Reset forgets everything recorded so far.
func (r *Recorder) Reset() {
	r.Failures = nil
	r.Fatals = nil
}
