// Package report reads back JSON reports written by the json output format.
//
// Validate checks a report against an embedded JSON schema and cross-checks
// its summary counts; Summarize extracts totals and failed tests.
package report
