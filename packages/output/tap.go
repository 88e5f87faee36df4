package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/abdul-hamid-achik/unitspec/packages/assertions"
)

// TAPFormatter formats test results in TAP (Test Anything Protocol) format
type TAPFormatter struct {
	collector
	writer io.Writer
}

type TAPOption func(*TAPFormatter)

func NewTAPFormatter(opts ...TAPOption) *TAPFormatter {
	f := &TAPFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func TAPWithWriter(w io.Writer) TAPOption {
	return func(f *TAPFormatter) {
		if w != nil {
			f.writer = w
		}
	}
}

func (f *TAPFormatter) FormatError(err error) {
	// Errors are reported by the CLI on stderr
}

func (f *TAPFormatter) FormatHeader(version string) {
	// Header is written in Flush
}

// Flush writes the accumulated TAP output
func (f *TAPFormatter) Flush() error {
	r := f.merged()
	f.reset()

	fmt.Fprintf(f.writer, "TAP version 13\n")
	fmt.Fprintf(f.writer, "1..%d\n", r.Passed+r.Failed)

	n := 0
	for _, sr := range r.Suites {
		fmt.Fprintf(f.writer, "# %s\n", sr.Name)
		for _, tr := range sr.Tests {
			n++
			name := sr.Name + "/" + tr.Name
			if tr.Passed {
				fmt.Fprintf(f.writer, "ok %d - %s\n", n, name)
				continue
			}

			fmt.Fprintf(f.writer, "not ok %d - %s\n", n, name)
			if len(tr.Failures) > 0 {
				fmt.Fprintf(f.writer, "  ---\n")
				fmt.Fprintf(f.writer, "  failures:\n")
				for _, fl := range tr.Failures {
					fmt.Fprintf(f.writer, "    - %s\n", escapeYAML(tapLine(fl)))
				}
				fmt.Fprintf(f.writer, "  ...\n")
			}
		}
	}

	if r.Aborted {
		fmt.Fprintf(f.writer, "Bail out! %s stopped the run, %d not run\n", r.Mode, r.Skipped)
	}

	_, err := fmt.Fprintln(f.writer)
	return err
}

func tapLine(f *assertions.Failure) string {
	line := f.Context.String() + " " + f.Detail
	if f.Message != "" {
		line += ": " + f.Message
	}
	return line
}

func escapeYAML(s string) string {
	// Simple YAML escaping - wrap in quotes if contains special chars
	if strings.ContainsAny(s, ":\n\"'[]{}#&*!|>%@`") {
		s = strings.ReplaceAll(s, "\\", "\\\\")
		s = strings.ReplaceAll(s, "\"", "\\\"")
		s = strings.ReplaceAll(s, "\n", "\\n")
		return "\"" + s + "\""
	}
	return s
}
