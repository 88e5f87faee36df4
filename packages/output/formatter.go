package output

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/unitspec/packages/assertions"
	"github.com/abdul-hamid-achik/unitspec/packages/core/callsite"
	"github.com/abdul-hamid-achik/unitspec/packages/core/runner"
)

// Formatter is a run listener that can also print CLI errors and a header.
type Formatter interface {
	runner.Listener
	FormatError(err error)
	FormatHeader(version string)
}

// Flushable is implemented by formatters that write only once the run is
// over.
type Flushable interface {
	Flush() error
}

// Formats lists the names accepted by New.
var Formats = []string{"console", "json", "junit", "tap", "html"}

// Options configures New.
type Options struct {
	Writer  io.Writer
	Verbose bool
	NoColor bool
}

// New builds the formatter for a format name.
func New(format string, opts Options) (Formatter, error) {
	switch strings.ToLower(format) {
	case "json":
		return NewJSONFormatter(JSONWithWriter(opts.Writer)), nil
	case "junit":
		return NewJUnitFormatter(JUnitWithWriter(opts.Writer)), nil
	case "tap":
		return NewTAPFormatter(TAPWithWriter(opts.Writer)), nil
	case "html":
		return NewHTMLFormatter(HTMLWithWriter(opts.Writer)), nil
	case "console", "":
		return NewConsoleFormatter(
			WithWriter(opts.Writer),
			WithVerbose(opts.Verbose),
			WithNoColor(opts.NoColor),
		), nil
	}
	return nil, fmt.Errorf("unknown output format %q (want one of %s)", format, strings.Join(Formats, ", "))
}

// Flush flushes l if it accumulates output.
func Flush(l runner.Listener) error {
	if f, ok := l.(Flushable); ok {
		return f.Flush()
	}
	return nil
}

// collector keeps every RunResult it is given until Flush.
type collector struct {
	runner.NopListener
	results []*runner.RunResult
}

func (c *collector) RunFinished(r *runner.RunResult) {
	c.results = append(c.results, r)
}

// merged folds the collected results into one. Several results come from
// running suites one at a time.
func (c *collector) merged() *runner.RunResult {
	switch len(c.results) {
	case 0:
		return &runner.RunResult{StartedAt: time.Now()}
	case 1:
		return c.results[0]
	}

	first := c.results[0]
	out := &runner.RunResult{
		ID:        first.ID,
		StartedAt: first.StartedAt,
		Mode:      first.Mode,
	}
	timing := runner.NewTiming()
	for _, r := range c.results {
		out.Duration += r.Duration
		out.Suites = append(out.Suites, r.Suites...)
		out.Total += r.Total
		out.Passed += r.Passed
		out.Failed += r.Failed
		out.Skipped += r.Skipped
		out.Aborted = out.Aborted || r.Aborted
		for _, sr := range r.Suites {
			for _, tr := range sr.Tests {
				timing.Record(tr.Duration)
			}
		}
	}
	out.Timing = timing.Stats()
	return out
}

func (c *collector) reset() {
	c.results = nil
}

// multi fans every event out to several listeners.
type multi []runner.Listener

// Multi returns a listener that forwards to each of ls in order. Its Flush
// flushes every Flushable member.
func Multi(ls ...runner.Listener) runner.Listener {
	return multi(ls)
}

func (m multi) SuiteStarted(s *runner.Suite) {
	for _, l := range m {
		l.SuiteStarted(s)
	}
}

func (m multi) CheckFailed(t *runner.T, f *assertions.Failure) {
	for _, l := range m {
		l.CheckFailed(t, f)
	}
}

func (m multi) TestFatal(t *runner.T, ctx callsite.Context) {
	for _, l := range m {
		l.TestFatal(t, ctx)
	}
}

func (m multi) TestFinished(s *runner.Suite, r *runner.TestResult) {
	for _, l := range m {
		l.TestFinished(s, r)
	}
}

func (m multi) SuiteFinished(s *runner.Suite, r *runner.SuiteResult) {
	for _, l := range m {
		l.SuiteFinished(s, r)
	}
}

func (m multi) RunFinished(r *runner.RunResult) {
	for _, l := range m {
		l.RunFinished(r)
	}
}

func (m multi) Flush() error {
	var errs []error
	for _, l := range m {
		if err := Flush(l); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// firstDetail returns the first failure's detail, or fallback.
func firstDetail(fs []*assertions.Failure, fallback string) string {
	if len(fs) == 0 {
		return fallback
	}
	return fs[0].Detail
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
