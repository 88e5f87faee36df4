// Package unitspec is a small unit-testing framework for programs that
// test themselves.
//
// Tests are grouped into suites and registered on a process-wide registry:
//
//	func main() {
//		unitspec.AddSuite("math", nil, nil)
//		unitspec.AddTest("add", func(t *runner.T) {
//			t.Check.Int(1+1, 2, assertions.Equal)
//		})
//		os.Exit(unitspec.Run())
//	}
//
// Checks record a failure and let the test continue; assertions (t.Assert)
// additionally end the test when the registry is in fail-fast mode.
//
// Programs without suites can use Bare, Pass and Fatal, which exit the
// process directly.
package unitspec
