package output

import (
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/abdul-hamid-achik/unitspec/packages/assertions"
	"github.com/abdul-hamid-achik/unitspec/packages/core/callsite"
	"github.com/abdul-hamid-achik/unitspec/packages/core/runner"
	"github.com/fatih/color"
)

// maxValueLen bounds how much of an operand is printed on a failure line.
const maxValueLen = 200

// truncate shortens long rendered values to at most maxLen bytes, cutting
// on a rune boundary.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

// ConsoleFormatter prints results as they happen.
type ConsoleFormatter struct {
	writer  io.Writer
	verbose bool
	noColor bool
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

// WithWriter sets the destination. A nil writer keeps os.Stdout.
func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		if w != nil {
			f.writer = w
		}
	}
}

func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

func (f *ConsoleFormatter) SuiteStarted(s *runner.Suite) {
	fmt.Fprintf(f.writer, "\n%s\n", bold("Running test suite: "+s.Name))
}

func (f *ConsoleFormatter) CheckFailed(_ *runner.T, fl *assertions.Failure) {
	fmt.Fprintf(f.writer, "  %s %s %s\n", fl.Context, red("CHECK"), truncate(fl.Detail, maxValueLen))
	if fl.Message != "" {
		fmt.Fprintf(f.writer, "    %s\n", fl.Message)
	}
}

func (f *ConsoleFormatter) TestFatal(_ *runner.T, ctx callsite.Context) {
	fmt.Fprintf(f.writer, "  %s %s\n", ctx, red("test failed!"))
}

func (f *ConsoleFormatter) TestFinished(_ *runner.Suite, r *runner.TestResult) {
	status := green("[ PASSED ]")
	if !r.Passed {
		status = red("[ FAILED ]")
	}
	fmt.Fprintf(f.writer, "%s %s", status, r.Name)
	if f.verbose {
		fmt.Fprintf(f.writer, " %s", cyan(fmt.Sprintf("(%s)", r.Duration)))
	}
	fmt.Fprintln(f.writer)
}

func (f *ConsoleFormatter) SuiteFinished(_ *runner.Suite, r *runner.SuiteResult) {
	fmt.Fprintf(f.writer, "Suite Summary: %s\n", f.counts(r.Passed, r.Failed, r.Total))
}

func (f *ConsoleFormatter) RunFinished(r *runner.RunResult) {
	fmt.Fprintf(f.writer, "\nFinal Summary: %s\n", f.counts(r.Passed, r.Failed, r.Total))
	if r.Aborted {
		fmt.Fprintf(f.writer, "%s\n", yellow(fmt.Sprintf("Stopped after first failure (%s), %d not run", r.Mode, r.Skipped)))
	}
	fmt.Fprintf(f.writer, "Time:  %dms\n", r.Duration.Milliseconds())
	if f.verbose && r.Timing.Count > 0 {
		t := r.Timing
		fmt.Fprintf(f.writer, "Timing: p50=%s p95=%s p99=%s max=%s\n", t.P50, t.P95, t.P99, t.Max)
	}
	if f.verbose && r.ID != "" {
		fmt.Fprintf(f.writer, "Run:   %s\n", r.ID)
	}
}

func (f *ConsoleFormatter) counts(passed, failed, total int) string {
	p := fmt.Sprintf("%d passed", passed)
	fl := fmt.Sprintf("%d failed", failed)
	if passed > 0 {
		p = green(p)
	}
	if failed > 0 {
		fl = red(fl)
	}
	return fmt.Sprintf("%s, %s, %d total", p, fl, total)
}

func (f *ConsoleFormatter) FormatError(err error) {
	fmt.Fprintf(f.writer, "%s %v\n", red("Error:"), err)
}

func (f *ConsoleFormatter) FormatHeader(version string) {
	fmt.Fprintf(f.writer, "%s %s\n", bold("unitspec"), version)
}
