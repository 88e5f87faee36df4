// Package output provides formatters for displaying test results.
//
// Supported output formats:
//   - Console: live, coloured terminal output
//   - JSON: machine-readable report (see package report)
//   - JUnit: JUnit XML for CI integration
//   - TAP: Test Anything Protocol
//   - HTML: a standalone report page
//
// Every formatter is a runner.Listener. The console formatter prints as
// events arrive; the others collect RunResults and write them on Flush.
package output
