package metrics

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdul-hamid-achik/unitspec/packages/assertions"
	"github.com/abdul-hamid-achik/unitspec/packages/core/runner"
)

func TestCollector_Aggregate(t *testing.T) {
	c := NewCollector()
	c.Record(&TestMetrics{Suite: "a", Test: "one", DurationMs: 2, Passed: true})
	c.Record(&TestMetrics{Suite: "a", Test: "two", DurationMs: 4, Passed: false, FailedChecks: 3})
	c.Record(&TestMetrics{Suite: "b", Test: "three", DurationMs: 9, Passed: true})

	a := c.GetAggregate()
	assert.EqualValues(t, 3, a.TotalTests)
	assert.EqualValues(t, 2, a.PassedCount)
	assert.EqualValues(t, 1, a.FailedCount)
	assert.EqualValues(t, 3, a.FailedChecks)
	assert.Equal(t, 2.0, a.MinDurationMs)
	assert.Equal(t, 9.0, a.MaxDurationMs)
	assert.Equal(t, 5.0, a.AvgDurationMs)

	assert.Equal(t, []string{"a", "b"}, a.SuiteNames())
	sa := a.BySuite["a"]
	assert.EqualValues(t, 2, sa.TestCount)
	assert.Equal(t, 3.0, sa.AvgDurationMs)
	assert.Equal(t, 2.0, sa.MinDurationMs)
	assert.Equal(t, 4.0, sa.MaxDurationMs)
}

func TestCollector_AsListener(t *testing.T) {
	var buf bytes.Buffer
	exp := NewPrometheusExporter(WithPrometheusWriter(&buf))
	c := NewCollector(exp)

	r := runner.New(runner.WithListener(c))
	r.AddSuite("math", nil, nil)
	require.NoError(t, r.AddTest("ok", func(rt *runner.T) { rt.Check.Int(1, 1, assertions.Equal) }))
	require.NoError(t, r.AddTest("bad", func(rt *runner.T) { rt.Check.Int(1, 2, assertions.Equal) }))
	require.NoError(t, r.AddTest("after", func(rt *runner.T) {}))
	r.SetErrorMode(runner.FailFast)
	r.Run()

	a := c.GetAggregate()
	assert.EqualValues(t, 1, a.Runs)
	assert.EqualValues(t, 1, a.AbortedRuns)
	assert.EqualValues(t, 2, a.TotalTests)
	assert.EqualValues(t, 1, a.SkippedCount)

	require.NoError(t, c.Flush())
	out := buf.String()
	assert.Contains(t, out, "# TYPE unitspec_tests_total counter")
	assert.Contains(t, out, "unitspec_tests_failed_total 1 ")
	assert.Contains(t, out, "unitspec_runs_aborted_total 1 ")
	assert.Contains(t, out, `unitspec_suite_tests_total{suite="math",result="passed"} 1 `)
	assert.NoError(t, c.Close())
}

func TestPrometheusExporter_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unitspec.prom")
	exp := NewPrometheusExporter(WithPrometheusFile(path))
	exp.now = func() time.Time { return time.UnixMilli(1700000000000) }

	agg := newAggregate()
	agg.Runs = 2
	agg.BySuite["we\"ird"] = &SuiteAggregate{Name: "we\"ird", PassedCount: 1}
	require.NoError(t, exp.Export(agg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "unitspec_runs_total 2 1700000000000\n")
	assert.Contains(t, string(data), `suite="we\"ird"`)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file should be renamed away")
}

type failingExporter struct{}

func (failingExporter) Export(*AggregateMetrics) error  { return errors.New("export down") }
func (failingExporter) ExportSingle(*TestMetrics) error { return errors.New("single down") }
func (failingExporter) Close() error                    { return nil }

func TestCollector_FlushJoinsErrors(t *testing.T) {
	c := NewCollector(failingExporter{})
	c.Record(&TestMetrics{Suite: "s", Test: "t", Passed: true})

	err := c.Flush()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "single down")
	assert.Contains(t, err.Error(), "export down")

	// single-export errors are reported once
	err = c.Flush()
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "single down")
}

func TestSanitizeLabel(t *testing.T) {
	assert.Equal(t, `a\\b\"c\nd`, sanitizeLabel("a\\b\"c\nd"))
}
