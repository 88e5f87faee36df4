package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdul-hamid-achik/unitspec/packages/assertions"
	"github.com/abdul-hamid-achik/unitspec/packages/core/runner"
	"github.com/abdul-hamid-achik/unitspec/packages/output"
)

const sampleReport = `{
  "id": "6f1c",
  "mode": "collect-all",
  "time": "2026-03-01T12:00:00Z",
  "duration": 12.5,
  "aborted": false,
  "summary": {"total": 3, "passed": 2, "failed": 1, "skipped": 0},
  "timing": {"count": 3, "p50": 1, "p95": 4.2, "p99": 4.2, "max": 4.2, "mean": 2},
  "suites": [
    {"name": "math", "total": 2, "passed": 1, "failed": 1, "duration": 5, "tests": [
      {"name": "add", "suite": "math", "passed": true, "duration": 1},
      {"name": "compare", "suite": "math", "file": "math_test.go", "line": 12, "passed": false, "duration": 4,
       "failures": [{"check": "Int", "file": "math_test.go", "line": 14, "detail": "3 > 2 (want <)"}]}
    ]},
    {"name": "strings", "total": 1, "passed": 1, "failed": 0, "duration": 1, "tests": [
      {"name": "equal", "suite": "strings", "passed": true, "duration": 1}
    ]}
  ]
}`

func TestSummarize(t *testing.T) {
	s, err := Summarize([]byte(sampleReport))
	require.NoError(t, err)

	assert.Equal(t, "6f1c", s.ID)
	assert.Equal(t, "collect-all", s.Mode)
	assert.Equal(t, 12.5, s.Duration)
	assert.Equal(t, 2, s.Suites)
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 2, s.Passed)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, 4.2, s.P95)
	assert.False(t, s.Success())

	require.Len(t, s.Failures, 1)
	assert.Equal(t, FailedTest{
		Suite:  "math",
		Name:   "compare",
		File:   "math_test.go",
		Line:   12,
		Detail: "3 > 2 (want <)",
	}, s.Failures[0])
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"not json", `{"id":`, "not valid JSON"},
		{"missing summary", `{"id":"x","mode":"collect-all","time":"t","duration":0,"aborted":false,"suites":[]}`, "summary"},
		{"bad mode", `{"id":"x","mode":"bail","time":"t","duration":0,"aborted":false,"summary":{"total":0,"passed":0,"failed":0,"skipped":0},"suites":[]}`, "mode"},
		{"count mismatch", `{"id":"x","mode":"fail-fast","time":"t","duration":0,"aborted":false,
			"summary":{"total":1,"passed":1,"failed":0,"skipped":0},
			"suites":[{"name":"s","total":1,"passed":0,"failed":1,"tests":[{"name":"a","suite":"s","passed":false}]}]}`, "summary.passed is 1 but 0 tests passed"},
		{"total mismatch", `{"id":"x","mode":"fail-fast","time":"t","duration":0,"aborted":true,
			"summary":{"total":1,"passed":0,"failed":0,"skipped":0},"suites":[]}`, "summary.total is 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate([]byte(tt.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidReport)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidate_FormatterOutput(t *testing.T) {
	var buf bytes.Buffer
	f := output.NewJSONFormatter(output.JSONWithWriter(&buf))

	r := runner.New(runner.WithListener(f))
	r.AddSuite("s", nil, nil)
	require.NoError(t, r.AddTest("one", func(rt *runner.T) { rt.Check.Int(1, 2, assertions.Equal) }))
	require.NoError(t, r.AddTest("two", func(rt *runner.T) { rt.Check.Int(2, 2, assertions.Equal) }))
	r.SetErrorMode(runner.FailFast)
	r.AddSuite("never", nil, nil)
	require.NoError(t, r.AddTest("three", func(rt *runner.T) {}))
	r.Run()
	require.NoError(t, f.Flush())

	s, err := Summarize(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "fail-fast", s.Mode)
	assert.True(t, s.Aborted)
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, 2, s.Skipped)
	require.Len(t, s.Failures, 1)
	assert.Equal(t, "1 < 2 (want ==)", s.Failures[0].Detail)
	assert.Equal(t, "report_test.go", filepath.Base(s.Failures[0].File))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleReport), 0644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Failed)

	_, err = Load(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSchema(t *testing.T) {
	assert.Contains(t, string(Schema()), `"unitspec JSON report"`)
}
