// Package history records run results in a SQLite database so that past
// runs can be listed and flaky tests found.
package history
