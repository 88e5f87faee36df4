package runner

import (
	"github.com/abdul-hamid-achik/unitspec/packages/assertions"
	"github.com/abdul-hamid-achik/unitspec/packages/core/callsite"
)

// Listener receives run events in order. All calls happen on the goroutine
// that called Run or RunSuite.
type Listener interface {
	SuiteStarted(s *Suite)
	CheckFailed(t *T, f *assertions.Failure)
	TestFatal(t *T, ctx callsite.Context)
	TestFinished(s *Suite, r *TestResult)
	SuiteFinished(s *Suite, r *SuiteResult)
	RunFinished(r *RunResult)
}

// NopListener ignores every event. Embed it to implement part of Listener.
type NopListener struct{}

func (NopListener) SuiteStarted(*Suite) {}
func (NopListener) CheckFailed(*T, *assertions.Failure) {}
func (NopListener) TestFatal(*T, callsite.Context) {}
func (NopListener) TestFinished(*Suite, *TestResult) {}
func (NopListener) SuiteFinished(*Suite, *SuiteResult) {}
func (NopListener) RunFinished(*RunResult) {}
