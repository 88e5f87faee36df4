// Package cmd implements the command line of unitspec test programs using
// Cobra. A test program hands its suite registration to Execute:
//
//	func main() {
//		cmd.Execute(version, buildTime, func(r *runner.Registry) {
//			r.AddSuite("math", nil, nil)
//			r.AddTest("add", testAdd)
//		})
//	}
//
// Available commands:
//   - run: Run all or the named suites (the default)
//   - list: Show registered suites and tests
//   - report: Validate and summarize a JSON report
//   - history: Show runs recorded in a SQLite database
//   - validate: Check configuration files
//   - init: Write a default configuration file
//   - version: Show version information
package cmd
