package output

import (
	"fmt"
	"html/template"
	"io"
	"os"
)

// HTMLOutput represents the complete HTML output structure
type HTMLOutput struct {
	Version        string
	ID             string
	Mode           string
	Aborted        bool
	Summary        HTMLSummary
	Suites         []HTMLSuite
	Duration       float64
	Time           string
	P50, P95, P99  float64
	PassedPercent  float64
	FailedPercent  float64
	SkippedPercent float64
}

// HTMLSummary represents the test summary for HTML output
type HTMLSummary struct {
	Total   int
	Passed  int
	Failed  int
	Skipped int
}

type HTMLSuite struct {
	Name   string
	Passed int
	Failed int
	Total  int
	Tests  []HTMLTest
}

// HTMLTest represents a single test result for HTML output
type HTMLTest struct {
	Name        string
	Location    string
	Passed      bool
	Duration    float64
	StatusClass string
	Failures    []HTMLFailure
}

type HTMLFailure struct {
	Location string
	Detail   string
	Message  string
}

// HTMLFormatter formats test results as HTML
type HTMLFormatter struct {
	collector
	writer  io.Writer
	version string
}

// HTMLOption is a functional option for HTMLFormatter
type HTMLOption func(*HTMLFormatter)

// NewHTMLFormatter creates a new HTML formatter
func NewHTMLFormatter(opts ...HTMLOption) *HTMLFormatter {
	f := &HTMLFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// HTMLWithWriter sets the output writer
func HTMLWithWriter(w io.Writer) HTMLOption {
	return func(f *HTMLFormatter) {
		if w != nil {
			f.writer = w
		}
	}
}

func (f *HTMLFormatter) FormatError(err error) {
	// Errors are reported by the CLI on stderr
}

// FormatHeader captures the version for the HTML report
func (f *HTMLFormatter) FormatHeader(version string) {
	f.version = version
}

// Flush writes the accumulated HTML output
func (f *HTMLFormatter) Flush() error {
	r := f.merged()
	f.reset()

	output := HTMLOutput{
		Version: f.version,
		ID:      r.ID,
		Mode:    r.Mode.String(),
		Aborted: r.Aborted,
		Summary: HTMLSummary{
			Total:   r.Total,
			Passed:  r.Passed,
			Failed:  r.Failed,
			Skipped: r.Skipped,
		},
		Duration: millis(r.Duration),
		Time:     r.StartedAt.Format("2006-01-02 15:04:05"),
		P50:      millis(r.Timing.P50),
		P95:      millis(r.Timing.P95),
		P99:      millis(r.Timing.P99),
	}
	if r.Total > 0 {
		total := float64(r.Total)
		output.PassedPercent = float64(r.Passed) / total * 100
		output.FailedPercent = float64(r.Failed) / total * 100
		output.SkippedPercent = float64(r.Skipped) / total * 100
	}

	for _, sr := range r.Suites {
		suite := HTMLSuite{Name: sr.Name, Passed: sr.Passed, Failed: sr.Failed, Total: sr.Total}
		for _, tr := range sr.Tests {
			test := HTMLTest{
				Name:        tr.Name,
				Passed:      tr.Passed,
				Duration:    millis(tr.Duration),
				StatusClass: "passed",
			}
			if !tr.Context.IsZero() {
				test.Location = tr.Context.String()
			}
			if !tr.Passed {
				test.StatusClass = "failed"
			}
			for _, fl := range tr.Failures {
				test.Failures = append(test.Failures, HTMLFailure{
					Location: fl.Context.String(),
					Detail:   fl.Detail,
					Message:  fl.Message,
				})
			}
			suite.Tests = append(suite.Tests, test)
		}
		output.Suites = append(output.Suites, suite)
	}

	tmpl, err := template.New("report").Parse(htmlTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse HTML template: %w", err)
	}

	return tmpl.Execute(f.writer, output)
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>unitspec report</title>
<style>
body { font-family: -apple-system, sans-serif; margin: 2rem; color: #222; }
.bar { display: flex; height: 8px; border-radius: 4px; overflow: hidden; margin: 1rem 0; }
.bar .passed { background: #2da44e; } .bar .failed { background: #cf222e; } .bar .skipped { background: #bf8700; }
table { border-collapse: collapse; width: 100%; margin-bottom: 2rem; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #eee; }
tr.failed td.status { color: #cf222e; } tr.passed td.status { color: #2da44e; }
.failure { font-family: monospace; color: #cf222e; white-space: pre-wrap; }
.muted { color: #777; }
</style>
</head>
<body>
<h1>unitspec {{.Version}}</h1>
<p class="muted">{{.Time}} &middot; {{.Mode}} &middot; run {{.ID}}</p>
<p><strong>{{.Summary.Passed}}</strong> passed, <strong>{{.Summary.Failed}}</strong> failed,
{{if .Summary.Skipped}}<strong>{{.Summary.Skipped}}</strong> not run, {{end}}{{.Summary.Total}} total
in {{printf "%.1f" .Duration}}ms (p50 {{printf "%.2f" .P50}}ms, p95 {{printf "%.2f" .P95}}ms, p99 {{printf "%.2f" .P99}}ms)</p>
{{if .Aborted}}<p><strong>Stopped after the first failure.</strong></p>{{end}}
<div class="bar">
<div class="passed" style="width: {{printf "%.2f" .PassedPercent}}%"></div>
<div class="failed" style="width: {{printf "%.2f" .FailedPercent}}%"></div>
<div class="skipped" style="width: {{printf "%.2f" .SkippedPercent}}%"></div>
</div>
{{range .Suites}}
<h2>{{.Name}} <span class="muted">{{.Passed}} passed, {{.Failed}} failed, {{.Total}} total</span></h2>
<table>
<tr><th></th><th>Test</th><th>Location</th><th>Time</th></tr>
{{range .Tests}}
<tr class="{{.StatusClass}}">
<td class="status">{{if .Passed}}PASSED{{else}}FAILED{{end}}</td>
<td>{{.Name}}{{range .Failures}}<div class="failure">{{.Location}} {{.Detail}}{{if .Message}}: {{.Message}}{{end}}</div>{{end}}</td>
<td class="muted">{{.Location}}</td>
<td>{{printf "%.2f" .Duration}}ms</td>
</tr>
{{end}}
</table>
{{end}}
</body>
</html>
`
