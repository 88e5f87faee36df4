package metrics

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// PrometheusExporter exports metrics in Prometheus text format
type PrometheusExporter struct {
	mu        sync.Mutex
	aggregate *AggregateMetrics
	writer    io.Writer
	path      string
	now       func() time.Time
}

// PrometheusOption is a functional option for PrometheusExporter
type PrometheusOption func(*PrometheusExporter)

// WithPrometheusWriter sets the output writer for Prometheus metrics
func WithPrometheusWriter(w io.Writer) PrometheusOption {
	return func(p *PrometheusExporter) {
		p.writer = w
	}
}

// WithPrometheusFile writes each export to path, replacing the file
// atomically so a textfile collector never reads a partial file.
func WithPrometheusFile(path string) PrometheusOption {
	return func(p *PrometheusExporter) {
		p.path = path
	}
}

// NewPrometheusExporter creates a new Prometheus metrics exporter
func NewPrometheusExporter(opts ...PrometheusOption) *PrometheusExporter {
	p := &PrometheusExporter{
		aggregate: newAggregate(),
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Export writes the aggregate to the configured writer and file.
func (p *PrometheusExporter) Export(metrics *AggregateMetrics) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.aggregate = metrics

	var buf bytes.Buffer
	p.writeMetrics(&buf)

	if p.writer != nil {
		if _, err := p.writer.Write(buf.Bytes()); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
	}
	if p.path != "" {
		return writeFileAtomic(p.path, buf.Bytes())
	}
	return nil
}

// ExportSingle is a no-op; Prometheus output is written per run.
func (p *PrometheusExporter) ExportSingle(*TestMetrics) error {
	return nil
}

func (p *PrometheusExporter) writeMetrics(w io.Writer) {
	a := p.aggregate
	now := p.now().UnixMilli()

	counter := func(name, help string, v int64) {
		fmt.Fprintf(w, "# HELP %s %s\n", name, help)
		fmt.Fprintf(w, "# TYPE %s counter\n", name)
		fmt.Fprintf(w, "%s %d %d\n", name, v, now)
		fmt.Fprintln(w)
	}

	counter("unitspec_runs_total", "Total number of runs", a.Runs)
	counter("unitspec_runs_aborted_total", "Runs stopped early in fail-fast mode", a.AbortedRuns)
	counter("unitspec_tests_total", "Total number of tests executed", a.TotalTests)
	counter("unitspec_tests_passed_total", "Total number of passed tests", a.PassedCount)
	counter("unitspec_tests_failed_total", "Total number of failed tests", a.FailedCount)
	counter("unitspec_tests_skipped_total", "Tests not run after a fail-fast stop", a.SkippedCount)
	counter("unitspec_checks_failed_total", "Total number of failed checks", a.FailedChecks)

	// Duration metrics
	fmt.Fprintf(w, "# HELP unitspec_test_duration_ms Test duration in milliseconds\n")
	fmt.Fprintf(w, "# TYPE unitspec_test_duration_ms gauge\n")
	fmt.Fprintf(w, "unitspec_test_duration_ms{quantile=\"min\"} %.3f %d\n", a.MinDurationMs, now)
	fmt.Fprintf(w, "unitspec_test_duration_ms{quantile=\"max\"} %.3f %d\n", a.MaxDurationMs, now)
	fmt.Fprintf(w, "unitspec_test_duration_ms{quantile=\"avg\"} %.3f %d\n", a.AvgDurationMs, now)
	if a.P50DurationMs > 0 {
		fmt.Fprintf(w, "unitspec_test_duration_ms{quantile=\"0.50\"} %.3f %d\n", a.P50DurationMs, now)
	}
	if a.P95DurationMs > 0 {
		fmt.Fprintf(w, "unitspec_test_duration_ms{quantile=\"0.95\"} %.3f %d\n", a.P95DurationMs, now)
	}
	if a.P99DurationMs > 0 {
		fmt.Fprintf(w, "unitspec_test_duration_ms{quantile=\"0.99\"} %.3f %d\n", a.P99DurationMs, now)
	}

	if len(a.BySuite) == 0 {
		return
	}
	names := a.SuiteNames()

	fmt.Fprintln(w)
	fmt.Fprintf(w, "# HELP unitspec_suite_tests_total Tests per suite and result\n")
	fmt.Fprintf(w, "# TYPE unitspec_suite_tests_total counter\n")
	for _, name := range names {
		sa := a.BySuite[name]
		safe := sanitizeLabel(name)
		fmt.Fprintf(w, "unitspec_suite_tests_total{suite=\"%s\",result=\"passed\"} %d %d\n", safe, sa.PassedCount, now)
		fmt.Fprintf(w, "unitspec_suite_tests_total{suite=\"%s\",result=\"failed\"} %d %d\n", safe, sa.FailedCount, now)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "# HELP unitspec_suite_duration_avg_ms Average test duration per suite\n")
	fmt.Fprintf(w, "# TYPE unitspec_suite_duration_avg_ms gauge\n")
	for _, name := range names {
		sa := a.BySuite[name]
		fmt.Fprintf(w, "unitspec_suite_duration_avg_ms{suite=\"%s\"} %.3f %d\n", sanitizeLabel(name), sa.AvgDurationMs, now)
	}
}

// sanitizeLabel makes a string safe for use as a Prometheus label value
func sanitizeLabel(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".metrics-*")
	if err != nil {
		return fmt.Errorf("writing metrics: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing metrics: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing metrics: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("writing metrics: %w", err)
	}
	return nil
}

func (p *PrometheusExporter) Close() error {
	return nil
}
