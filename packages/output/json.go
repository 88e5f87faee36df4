package output

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/abdul-hamid-achik/unitspec/packages/assertions"
	"github.com/abdul-hamid-achik/unitspec/packages/core/runner"
)

// JSONOutput represents the complete JSON output structure
type JSONOutput struct {
	ID       string      `json:"id"`
	Mode     string      `json:"mode"`
	Time     string      `json:"time"`
	Duration float64     `json:"duration"`
	Aborted  bool        `json:"aborted"`
	Summary  JSONSummary `json:"summary"`
	Timing   JSONTiming  `json:"timing"`
	Suites   []JSONSuite `json:"suites"`
}

// JSONSummary represents the test summary
type JSONSummary struct {
	Total   int `json:"total"`
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

// JSONTiming holds test duration percentiles in milliseconds
type JSONTiming struct {
	Count int64   `json:"count"`
	P50   float64 `json:"p50"`
	P95   float64 `json:"p95"`
	P99   float64 `json:"p99"`
	Max   float64 `json:"max"`
	Mean  float64 `json:"mean"`
}

type JSONSuite struct {
	Name     string     `json:"name"`
	Total    int        `json:"total"`
	Passed   int        `json:"passed"`
	Failed   int        `json:"failed"`
	Duration float64    `json:"duration"`
	Tests    []JSONTest `json:"tests"`
}

// JSONTest represents a single test result
type JSONTest struct {
	Name     string        `json:"name"`
	Suite    string        `json:"suite"`
	File     string        `json:"file,omitempty"`
	Line     int           `json:"line,omitempty"`
	Passed   bool          `json:"passed"`
	Duration float64       `json:"duration"`
	Failures []JSONFailure `json:"failures,omitempty"`
}

// JSONFailure represents one failed check
type JSONFailure struct {
	Check    string `json:"check"`
	File     string `json:"file"`
	Line     int    `json:"line"`
	Function string `json:"function,omitempty"`
	Left     string `json:"left,omitempty"`
	Right    string `json:"right,omitempty"`
	Operator string `json:"operator,omitempty"`
	Detail   string `json:"detail"`
	Message  string `json:"message,omitempty"`
}

// JSONFormatter formats test results as JSON
type JSONFormatter struct {
	collector
	writer io.Writer
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JSONWithWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		if w != nil {
			f.writer = w
		}
	}
}

func (f *JSONFormatter) FormatError(err error) {
	// Errors are reported by the CLI on stderr
}

func (f *JSONFormatter) FormatHeader(version string) {
	// No header needed for JSON output
}

// Flush writes the accumulated JSON output
func (f *JSONFormatter) Flush() error {
	output := NewJSONOutput(f.merged())
	f.reset()

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// NewJSONOutput converts a run result into its JSON document.
func NewJSONOutput(r *runner.RunResult) JSONOutput {
	out := JSONOutput{
		ID:       r.ID,
		Mode:     r.Mode.String(),
		Time:     r.StartedAt.Format(time.RFC3339),
		Duration: millis(r.Duration),
		Aborted:  r.Aborted,
		Summary: JSONSummary{
			Total:   r.Total,
			Passed:  r.Passed,
			Failed:  r.Failed,
			Skipped: r.Skipped,
		},
		Timing: JSONTiming{
			Count: r.Timing.Count,
			P50:   millis(r.Timing.P50),
			P95:   millis(r.Timing.P95),
			P99:   millis(r.Timing.P99),
			Max:   millis(r.Timing.Max),
			Mean:  millis(r.Timing.Mean),
		},
		Suites: make([]JSONSuite, 0, len(r.Suites)),
	}

	for _, sr := range r.Suites {
		suite := JSONSuite{
			Name:     sr.Name,
			Total:    sr.Total,
			Passed:   sr.Passed,
			Failed:   sr.Failed,
			Duration: millis(sr.Duration),
			Tests:    make([]JSONTest, 0, len(sr.Tests)),
		}
		for _, tr := range sr.Tests {
			test := JSONTest{
				Name:     tr.Name,
				Suite:    tr.Suite,
				Passed:   tr.Passed,
				Duration: millis(tr.Duration),
			}
			if !tr.Context.IsZero() {
				test.File = tr.Context.RelFile()
				test.Line = tr.Context.Line
			}
			for _, fl := range tr.Failures {
				test.Failures = append(test.Failures, jsonFailure(fl))
			}
			suite.Tests = append(suite.Tests, test)
		}
		out.Suites = append(out.Suites, suite)
	}
	return out
}

func jsonFailure(f *assertions.Failure) JSONFailure {
	return JSONFailure{
		Check:    f.Check,
		File:     f.Context.RelFile(),
		Line:     f.Context.Line,
		Function: f.Context.Func,
		Left:     f.Left,
		Right:    f.Right,
		Operator: f.Operator,
		Detail:   f.Detail,
		Message:  f.Message,
	}
}
