// Package runner registers and executes test suites.
//
// A Registry holds an ordered list of suites, each with an ordered list of
// tests and an optional setup and teardown. Run executes every suite in
// registration order:
//
//	r := runner.New(runner.WithListener(output.NewConsoleFormatter()))
//	r.AddSuite("math", nil, nil)
//	r.AddTest("add", func(t *runner.T) {
//		t.Check.Int(1+1, 2, assertions.Equal)
//	})
//	os.Exit(r.Run())
//
// Failures are counted per suite and per registry. In CollectAll mode a
// failing check marks the test failed and execution continues; in FailFast
// mode the first failure stops the test, its teardown runs, and no further
// test is started. Run always reports a RunResult to the Listener.
package runner
