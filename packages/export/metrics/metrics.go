// Package metrics exports run metrics for unitspec test results.
package metrics

import (
	"errors"
	"sort"
	"time"

	"github.com/abdul-hamid-achik/unitspec/packages/core/runner"
)

// TestMetrics is one finished test.
type TestMetrics struct {
	Suite        string    `json:"suite"`
	Test         string    `json:"test"`
	DurationMs   float64   `json:"duration_ms"`
	Passed       bool      `json:"passed"`
	FailedChecks int       `json:"failed_checks"`
	Timestamp    time.Time `json:"timestamp"`
}

// AggregateMetrics represents aggregated metrics from one or more runs
type AggregateMetrics struct {
	Runs            int64                      `json:"runs"`
	AbortedRuns     int64                      `json:"aborted_runs"`
	TotalTests      int64                      `json:"total_tests"`
	PassedCount     int64                      `json:"passed_count"`
	FailedCount     int64                      `json:"failed_count"`
	SkippedCount    int64                      `json:"skipped_count"`
	FailedChecks    int64                      `json:"failed_checks"`
	TotalDurationMs float64                    `json:"total_duration_ms"`
	MinDurationMs   float64                    `json:"min_duration_ms"`
	MaxDurationMs   float64                    `json:"max_duration_ms"`
	AvgDurationMs   float64                    `json:"avg_duration_ms"`
	P50DurationMs   float64                    `json:"p50_duration_ms"`
	P95DurationMs   float64                    `json:"p95_duration_ms"`
	P99DurationMs   float64                    `json:"p99_duration_ms"`
	BySuite         map[string]*SuiteAggregate `json:"by_suite"`
}

// SuiteAggregate represents aggregated metrics for a single suite
type SuiteAggregate struct {
	Name          string  `json:"name"`
	TestCount     int64   `json:"test_count"`
	PassedCount   int64   `json:"passed_count"`
	FailedCount   int64   `json:"failed_count"`
	AvgDurationMs float64 `json:"avg_duration_ms"`
	MinDurationMs float64 `json:"min_duration_ms"`
	MaxDurationMs float64 `json:"max_duration_ms"`
}

func newAggregate() *AggregateMetrics {
	return &AggregateMetrics{BySuite: make(map[string]*SuiteAggregate)}
}

// SuiteNames returns the suite names in sorted order.
func (a *AggregateMetrics) SuiteNames() []string {
	names := make([]string, 0, len(a.BySuite))
	for name := range a.BySuite {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Exporter is the interface for metrics exporters
type Exporter interface {
	// Export exports metrics to the target destination
	Export(metrics *AggregateMetrics) error

	// ExportSingle exports a single test metric
	ExportSingle(metric *TestMetrics) error

	// Close closes the exporter and flushes any buffered data
	Close() error
}

// Collector is a runner.Listener that aggregates test results and hands
// them to its exporters.
type Collector struct {
	runner.NopListener
	aggregate *AggregateMetrics
	exporters []Exporter
	errs      []error
}

// NewCollector creates a new metrics collector
func NewCollector(exporters ...Exporter) *Collector {
	return &Collector{
		exporters: exporters,
		aggregate: newAggregate(),
	}
}

func (c *Collector) TestFinished(_ *runner.Suite, tr *runner.TestResult) {
	c.Record(&TestMetrics{
		Suite:        tr.Suite,
		Test:         tr.Name,
		DurationMs:   millis(tr.Duration),
		Passed:       tr.Passed,
		FailedChecks: len(tr.Failures),
		Timestamp:    time.Now(),
	})
}

func (c *Collector) RunFinished(res *runner.RunResult) {
	c.aggregate.Runs++
	if res.Aborted {
		c.aggregate.AbortedRuns++
	}
	c.aggregate.SkippedCount += int64(res.Skipped)
	// percentiles come from the run's histogram; with several runs the last wins
	c.aggregate.P50DurationMs = millis(res.Timing.P50)
	c.aggregate.P95DurationMs = millis(res.Timing.P95)
	c.aggregate.P99DurationMs = millis(res.Timing.P99)
}

// Record records a test metric
func (c *Collector) Record(m *TestMetrics) {
	c.updateAggregate(m)

	for _, exp := range c.exporters {
		if err := exp.ExportSingle(m); err != nil {
			c.errs = append(c.errs, err)
		}
	}
}

func (c *Collector) updateAggregate(m *TestMetrics) {
	a := c.aggregate
	a.TotalTests++
	a.TotalDurationMs += m.DurationMs
	a.FailedChecks += int64(m.FailedChecks)

	if m.Passed {
		a.PassedCount++
	} else {
		a.FailedCount++
	}

	if a.TotalTests == 1 {
		a.MinDurationMs = m.DurationMs
		a.MaxDurationMs = m.DurationMs
	} else {
		a.MinDurationMs = min(a.MinDurationMs, m.DurationMs)
		a.MaxDurationMs = max(a.MaxDurationMs, m.DurationMs)
	}
	a.AvgDurationMs = a.TotalDurationMs / float64(a.TotalTests)

	sa, ok := a.BySuite[m.Suite]
	if !ok {
		sa = &SuiteAggregate{
			Name:          m.Suite,
			MinDurationMs: m.DurationMs,
			MaxDurationMs: m.DurationMs,
		}
		a.BySuite[m.Suite] = sa
	}
	sa.TestCount++
	if m.Passed {
		sa.PassedCount++
	} else {
		sa.FailedCount++
	}
	sa.MinDurationMs = min(sa.MinDurationMs, m.DurationMs)
	sa.MaxDurationMs = max(sa.MaxDurationMs, m.DurationMs)
	sa.AvgDurationMs = (sa.AvgDurationMs*float64(sa.TestCount-1) + m.DurationMs) / float64(sa.TestCount)
}

// GetAggregate returns the aggregated metrics
func (c *Collector) GetAggregate() *AggregateMetrics {
	return c.aggregate
}

// Flush exports the aggregate to every exporter, including any errors
// from earlier single-test exports.
func (c *Collector) Flush() error {
	errs := c.errs
	c.errs = nil
	for _, exp := range c.exporters {
		if err := exp.Export(c.aggregate); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes all exporters
func (c *Collector) Close() error {
	var errs []error
	for _, exp := range c.exporters {
		if err := exp.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
