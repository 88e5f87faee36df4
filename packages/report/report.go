package report

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var schemaData []byte

var ErrInvalidReport = errors.New("invalid report")

// Summary is what Summarize reads back from a JSON report.
type Summary struct {
	ID       string
	Mode     string
	Time     string
	Duration float64 // milliseconds
	Aborted  bool
	Suites   int
	Total    int
	Passed   int
	Failed   int
	Skipped  int
	P95      float64 // milliseconds
	Failures []FailedTest
}

// FailedTest names a failed test and its first failure detail.
type FailedTest struct {
	Suite  string
	Name   string
	File   string
	Line   int
	Detail string
}

func (s *Summary) Success() bool {
	return s.Failed == 0 && !s.Aborted
}

// Schema returns the JSON schema reports are validated against.
func Schema() []byte {
	return schemaData
}

// Validate checks data against the report schema and the summary counts
// against the tests listed in the report.
func Validate(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("%w: not valid JSON", ErrInvalidReport)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaData),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if !result.Valid() {
		var msgs []string
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return fmt.Errorf("%w: %s", ErrInvalidReport, strings.Join(msgs, "; "))
	}

	doc := gjson.ParseBytes(data)
	var passed, failed int
	doc.Get("suites").ForEach(func(_, suite gjson.Result) bool {
		suite.Get("tests").ForEach(func(_, test gjson.Result) bool {
			if test.Get("passed").Bool() {
				passed++
			} else {
				failed++
			}
			return true
		})
		return true
	})
	if got := int(doc.Get("summary.passed").Int()); got != passed {
		return fmt.Errorf("%w: summary.passed is %d but %d tests passed", ErrInvalidReport, got, passed)
	}
	if got := int(doc.Get("summary.failed").Int()); got != failed {
		return fmt.Errorf("%w: summary.failed is %d but %d tests failed", ErrInvalidReport, got, failed)
	}
	total := doc.Get("summary.total").Int()
	if sum := doc.Get("summary.passed").Int() + doc.Get("summary.failed").Int() + doc.Get("summary.skipped").Int(); sum != total {
		return fmt.Errorf("%w: summary.total is %d but passed+failed+skipped is %d", ErrInvalidReport, total, sum)
	}
	return nil
}

// Summarize validates data and extracts its summary.
func Summarize(data []byte) (*Summary, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}

	doc := gjson.ParseBytes(data)
	s := &Summary{
		ID:       doc.Get("id").String(),
		Mode:     doc.Get("mode").String(),
		Time:     doc.Get("time").String(),
		Duration: doc.Get("duration").Float(),
		Aborted:  doc.Get("aborted").Bool(),
		Suites:   int(doc.Get("suites.#").Int()),
		Total:    int(doc.Get("summary.total").Int()),
		Passed:   int(doc.Get("summary.passed").Int()),
		Failed:   int(doc.Get("summary.failed").Int()),
		Skipped:  int(doc.Get("summary.skipped").Int()),
		P95:      doc.Get("timing.p95").Float(),
	}

	doc.Get("suites").ForEach(func(_, suite gjson.Result) bool {
		suite.Get("tests").ForEach(func(_, test gjson.Result) bool {
			if test.Get("passed").Bool() {
				return true
			}
			s.Failures = append(s.Failures, FailedTest{
				Suite:  test.Get("suite").String(),
				Name:   test.Get("name").String(),
				File:   test.Get("file").String(),
				Line:   int(test.Get("line").Int()),
				Detail: test.Get("failures.0.detail").String(),
			})
			return true
		})
		return true
	})
	return s, nil
}

// Load reads a report file and summarizes it.
func Load(path string) (*Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}
	s, err := Summarize(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}
