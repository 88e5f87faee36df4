package runner

import (
	"time"

	"github.com/abdul-hamid-achik/unitspec/packages/assertions"
	"github.com/abdul-hamid-achik/unitspec/packages/core/callsite"
)

// RunResult is the outcome of one Run or RunSuite call.
type RunResult struct {
	ID        string
	StartedAt time.Time
	Duration  time.Duration
	Mode      ErrorMode
	Suites    []*SuiteResult
	Total     int // tests registered in the executed scope
	Passed    int
	Failed    int
	Skipped   int // tests not executed because the run was aborted
	Aborted   bool
	Timing    TimingStats
}

type SuiteResult struct {
	Name     string
	Tests    []*TestResult
	Total    int
	Passed   int
	Failed   int
	Duration time.Duration
}

type TestResult struct {
	Suite    string
	Name     string
	Context  callsite.Context // where the test was registered
	Passed   bool
	Duration time.Duration
	Failures []*assertions.Failure
}

// Success reports whether every executed test passed and nothing was skipped.
func (r *RunResult) Success() bool {
	return r.Failed == 0 && r.Skipped == 0
}

func (r *RunResult) add(sr *SuiteResult) {
	r.Suites = append(r.Suites, sr)
	r.Passed += sr.Passed
	r.Failed += sr.Failed
}
