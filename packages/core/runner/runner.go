package runner

import (
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"slices"
	"sync"
	"time"

	"github.com/abdul-hamid-achik/unitspec/packages/core/callsite"
	"github.com/google/uuid"
)

var (
	ErrNoSuite    = errors.New("no suite to add the test to")
	ErrEmptyName  = errors.New("test name is empty")
	ErrNilTest    = errors.New("test function is nil")
	ErrNotFound   = errors.New("suite not found")
	registryFrame = reflect.TypeOf((*Registry)(nil)).Elem().PkgPath() + ".(*Registry)."
)

// ErrorMode decides what a failing check does to the rest of the run.
type ErrorMode int

const (
	// CollectAll marks the test failed and keeps going.
	CollectAll ErrorMode = iota
	// FailFast stops the run after the first failure.
	FailFast
)

func (m ErrorMode) String() string {
	switch m {
	case CollectAll:
		return "collect-all"
	case FailFast:
		return "fail-fast"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseErrorMode accepts the names printed by ErrorMode.String.
func ParseErrorMode(s string) (ErrorMode, error) {
	switch s {
	case "collect-all", "":
		return CollectAll, nil
	case "fail-fast":
		return FailFast, nil
	}
	return CollectAll, fmt.Errorf("unknown error mode %q", s)
}

// TestFunc is the body of a registered test.
type TestFunc func(t *T)

type Test struct {
	Name    string
	Func    TestFunc
	Context callsite.Context
}

// Suite groups tests that share one setup and teardown. The counters are
// updated by Run and RunSuite.
type Suite struct {
	Name        string
	Setup       func()
	Teardown    func()
	TestCount   int
	PassedCount int
	FailedCount int

	tests []*Test
}

// Tests returns the suite's tests in registration order.
func (s *Suite) Tests() []*Test {
	return slices.Clone(s.tests)
}

// Registry holds suites and runs them. The zero value is ready to use.
type Registry struct {
	mu   sync.Mutex
	once *sync.Once

	suites      []*Suite
	current     *Suite
	totalTests  int
	totalPassed int
	totalFailed int
	mode        ErrorMode
	initialized bool
	running     bool
	inits       int

	// kept across Cleanup
	listener Listener
	logOut   io.Writer
	last     *RunResult
}

type Option func(*Registry)

func WithListener(l Listener) Option {
	return func(r *Registry) {
		r.listener = l
	}
}

// WithLogWriter sets where T.Logf writes. Defaults to os.Stdout.
func WithLogWriter(w io.Writer) Option {
	return func(r *Registry) {
		r.logOut = w
	}
}

func New(opts ...Option) *Registry {
	r := &Registry{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetListener replaces the listener. It must not be called during a run.
func (r *Registry) SetListener(l Listener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listener = l
}

func (r *Registry) events() Listener {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listener == nil {
		return NopListener{}
	}
	return r.listener
}

func (r *Registry) logWriter() io.Writer {
	if r.logOut == nil {
		return os.Stdout
	}
	return r.logOut
}

// Init prepares the registry exactly once, even under concurrent callers.
// Every other method calls it, so calling it directly is optional.
func (r *Registry) Init() {
	r.mu.Lock()
	if r.once == nil {
		r.once = &sync.Once{}
	}
	once := r.once
	r.mu.Unlock()

	once.Do(func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.initialized = true
		r.mode = CollectAll
		r.inits++
	})
}

// AddSuite appends a suite and makes it the target of AddTest.
func (r *Registry) AddSuite(name string, setup, teardown func()) *Suite {
	r.Init()
	r.mu.Lock()
	defer r.mu.Unlock()

	s := &Suite{Name: name, Setup: setup, Teardown: teardown}
	r.suites = append(r.suites, s)
	r.current = s
	return s
}

// AddTest appends a test to the most recently added suite.
func (r *Registry) AddTest(name string, fn TestFunc) error {
	r.Init()
	r.mu.Lock()
	defer r.mu.Unlock()

	switch {
	case r.current == nil:
		return fmt.Errorf("adding test %q: %w", name, ErrNoSuite)
	case name == "":
		return ErrEmptyName
	case fn == nil:
		return fmt.Errorf("adding test %q: %w", name, ErrNilTest)
	}

	r.current.tests = append(r.current.tests, &Test{
		Name:    name,
		Func:    fn,
		Context: callsite.Caller(registryFrame),
	})
	r.current.TestCount++
	r.totalTests++
	return nil
}

func (r *Registry) SetErrorMode(mode ErrorMode) {
	r.Init()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mode = mode
}

func (r *Registry) ErrorMode() ErrorMode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mode
}

func (r *Registry) TestCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.totalTests
}

func (r *Registry) PassedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.totalPassed
}

func (r *Registry) FailureCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.totalFailed
}

func (r *Registry) SuiteCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.suites)
}

// Suites returns the registered suites in order.
func (r *Registry) Suites() []*Suite {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.suites)
}

// Suite returns the first suite with the given name, or nil.
func (r *Registry) Suite(name string) *Suite {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.findSuite(name)
}

func (r *Registry) findSuite(name string) *Suite {
	for _, s := range r.suites {
		if s.Name == name {
			return s
		}
	}
	return nil
}

func (r *Registry) Initialized() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.initialized
}

// Running reports whether Run or RunSuite is in progress.
func (r *Registry) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// LastResult returns the result of the most recent Run or RunSuite.
func (r *Registry) LastResult() *RunResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

// Cleanup drops every suite and test and returns the registry to its zero
// state. The listener, log writer and last result are kept.
func (r *Registry) Cleanup() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.suites = nil
	r.current = nil
	r.totalTests = 0
	r.totalPassed = 0
	r.totalFailed = 0
	r.mode = CollectAll
	r.initialized = false
	r.running = false
	r.once = nil
}

// Run executes every suite in order, reports the result to the listener,
// cleans up and returns the number of failed tests. It returns -1 if the
// registry is already running.
func (r *Registry) Run() int {
	r.Init()
	suites, ok := r.begin()
	if !ok {
		return -1
	}

	res := r.newResult()
	for _, s := range suites {
		res.Total += len(s.tests)
	}
	for _, s := range suites {
		if !r.runSuite(s, res) {
			res.Aborted = true
			break
		}
	}
	r.finish(res)

	r.Cleanup()
	return res.Failed
}

// RunSuite runs a single suite and returns its failure count. It returns -1
// when no suite has that name or when the registry is already running, as
// for a RunSuite call made from inside a test. The registry is not cleaned up.
func (r *Registry) RunSuite(name string) int {
	r.Init()
	r.mu.Lock()
	s := r.findSuite(name)
	r.mu.Unlock()
	if s == nil {
		return -1
	}
	if _, ok := r.begin(); !ok {
		return -1
	}

	res := r.newResult()
	res.Total = len(s.tests)
	s.PassedCount, s.FailedCount = 0, 0
	if !r.runSuite(s, res) {
		res.Aborted = true
	}
	r.finish(res)
	return s.FailedCount
}

func (r *Registry) begin() ([]*Suite, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return nil, false
	}
	r.running = true
	return slices.Clone(r.suites), true
}

func (r *Registry) newResult() *RunResult {
	return &RunResult{
		ID:        uuid.New().String(),
		StartedAt: time.Now(),
		Mode:      r.ErrorMode(),
	}
}

func (r *Registry) finish(res *RunResult) {
	res.Duration = time.Since(res.StartedAt)
	res.Skipped = res.Total - res.Passed - res.Failed

	timing := NewTiming()
	for _, sr := range res.Suites {
		for _, tr := range sr.Tests {
			timing.Record(tr.Duration)
		}
	}
	res.Timing = timing.Stats()

	r.mu.Lock()
	r.running = false
	r.last = res
	r.mu.Unlock()

	r.events().RunFinished(res)
}

// runSuite runs every test of s and adds the outcome to res. It returns
// false when the run must stop.
func (r *Registry) runSuite(s *Suite, res *RunResult) bool {
	events := r.events()
	events.SuiteStarted(s)

	start := time.Now()
	sr := &SuiteResult{Name: s.Name, Total: len(s.tests)}
	keepGoing := true
	for _, test := range s.tests {
		tr, mode := r.runTest(s, test)
		sr.Tests = append(sr.Tests, tr)

		r.mu.Lock()
		if tr.Passed {
			s.PassedCount++
			r.totalPassed++
			sr.Passed++
		} else {
			s.FailedCount++
			r.totalFailed++
			sr.Failed++
		}
		r.mu.Unlock()

		events.TestFinished(s, tr)
		if !tr.Passed && mode == FailFast {
			keepGoing = false
			break
		}
	}
	sr.Duration = time.Since(start)
	res.add(sr)

	events.SuiteFinished(s, sr)
	return keepGoing
}

func (r *Registry) runTest(s *Suite, test *Test) (*TestResult, ErrorMode) {
	mode := r.ErrorMode()
	t := newT(r, s, test, mode)

	start := time.Now()
	t.run(s.Setup, s.Teardown)

	return &TestResult{
		Suite:    s.Name,
		Name:     test.Name,
		Context:  test.Context,
		Passed:   !t.Failed(),
		Duration: time.Since(start),
		Failures: t.failures,
	}, mode
}
