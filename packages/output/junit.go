package output

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// JUnit XML structures

// JUnitTestSuites is the root element
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Name       string           `xml:"name,attr,omitempty"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Errors     int              `xml:"errors,attr"`
	Skipped    int              `xml:"skipped,attr"`
	Time       float64          `xml:"time,attr"`
	Timestamp  string           `xml:"timestamp,attr,omitempty"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

// JUnitTestSuite represents one registered suite
type JUnitTestSuite struct {
	XMLName   xml.Name        `xml:"testsuite"`
	Name      string          `xml:"name,attr"`
	Tests     int             `xml:"tests,attr"`
	Failures  int             `xml:"failures,attr"`
	Errors    int             `xml:"errors,attr"`
	Skipped   int             `xml:"skipped,attr"`
	Time      float64         `xml:"time,attr"`
	Timestamp string          `xml:"timestamp,attr,omitempty"`
	TestCases []JUnitTestCase `xml:"testcase"`
}

// JUnitTestCase represents a single test case
type JUnitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Name      string        `xml:"name,attr"`
	ClassName string        `xml:"classname,attr"`
	File      string        `xml:"file,attr,omitempty"`
	Line      int           `xml:"line,attr,omitempty"`
	Time      float64       `xml:"time,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
	Error     *JUnitError   `xml:"error,omitempty"`
}

// JUnitFailure represents a test failure
type JUnitFailure struct {
	Message string `xml:"message,attr,omitempty"`
	Type    string `xml:"type,attr,omitempty"`
	Content string `xml:",chardata"`
}

// JUnitError represents a panic inside a test or its fixtures
type JUnitError struct {
	Message string `xml:"message,attr,omitempty"`
	Type    string `xml:"type,attr,omitempty"`
	Content string `xml:",chardata"`
}

// JUnitFormatter formats test results as JUnit XML
type JUnitFormatter struct {
	collector
	writer io.Writer
}

type JUnitOption func(*JUnitFormatter)

func NewJUnitFormatter(opts ...JUnitOption) *JUnitFormatter {
	f := &JUnitFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JUnitWithWriter(w io.Writer) JUnitOption {
	return func(f *JUnitFormatter) {
		if w != nil {
			f.writer = w
		}
	}
}

func (f *JUnitFormatter) FormatError(err error) {
	// Errors are reported by the CLI on stderr
}

func (f *JUnitFormatter) FormatHeader(version string) {
	// No header needed for JUnit XML
}

// Flush writes the accumulated JUnit XML output
func (f *JUnitFormatter) Flush() error {
	r := f.merged()
	f.reset()

	timestamp := r.StartedAt.Format(time.RFC3339)
	suites := JUnitTestSuites{
		Name:       "unitspec",
		Tests:      r.Total,
		Failures:   r.Failed,
		Skipped:    r.Skipped,
		Time:       r.Duration.Seconds(),
		Timestamp:  timestamp,
		TestSuites: make([]JUnitTestSuite, 0, len(r.Suites)),
	}

	for _, sr := range r.Suites {
		suite := JUnitTestSuite{
			Name:      sr.Name,
			Tests:     sr.Total,
			Failures:  sr.Failed,
			Skipped:   sr.Total - sr.Passed - sr.Failed,
			Time:      sr.Duration.Seconds(),
			Timestamp: timestamp,
			TestCases: make([]JUnitTestCase, 0, len(sr.Tests)),
		}

		for _, tr := range sr.Tests {
			tc := JUnitTestCase{
				Name:      tr.Name,
				ClassName: sr.Name,
				File:      tr.Context.RelFile(),
				Line:      tr.Context.Line,
				Time:      tr.Duration.Seconds(),
			}

			if !tr.Passed {
				var content strings.Builder
				var panicked bool
				for _, fl := range tr.Failures {
					fmt.Fprintf(&content, "%s\n", fl.Error())
					if fl.Check == "panic" || fl.Check == "fixture" {
						panicked = true
					}
				}
				switch {
				case panicked:
					suite.Errors++
					suites.Errors++
					tc.Error = &JUnitError{
						Message: firstDetail(tr.Failures, "test panicked"),
						Type:    "Panic",
						Content: content.String(),
					}
				default:
					tc.Failure = &JUnitFailure{
						Message: firstDetail(tr.Failures, "test failed"),
						Type:    "AssertionError",
						Content: content.String(),
					}
				}
			}

			suite.TestCases = append(suite.TestCases, tc)
		}

		suites.TestSuites = append(suites.TestSuites, suite)
	}

	fmt.Fprintf(f.writer, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	encoder := xml.NewEncoder(f.writer)
	encoder.Indent("", "  ")
	if err := encoder.Encode(suites); err != nil {
		return err
	}
	_, err := fmt.Fprintln(f.writer)
	return err
}
