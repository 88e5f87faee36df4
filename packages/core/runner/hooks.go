package runner

import (
	"fmt"

	"github.com/abdul-hamid-achik/unitspec/packages/assertions"
)

// run executes setup, the test body and teardown. A failing setup skips the
// body; teardown runs regardless.
func (t *T) run(setup, teardown func()) {
	if err := runFixture("setup", setup); err != nil {
		t.fixtureFailed(err)
	} else {
		t.invoke()
	}

	if err := runFixture("teardown", teardown); err != nil {
		t.fixtureFailed(err)
	}
}

// invoke calls the test body, turning panics into failures.
func (t *T) invoke() {
	defer func() {
		v := recover()
		if v == nil {
			return
		}
		if _, ok := v.(abort); ok {
			return
		}
		t.note(&assertions.Failure{
			Context: t.test.Context,
			Check:   "panic",
			Detail:  fmt.Sprintf("test panicked: %v", v),
		})
	}()
	t.test.Func(t)
}

func (t *T) fixtureFailed(err error) {
	t.note(&assertions.Failure{
		Context: t.test.Context,
		Check:   "fixture",
		Detail:  err.Error(),
	})
}

// runFixture calls fn, converting a panic into an error.
func runFixture(name string, fn func()) (err error) {
	if fn == nil {
		return nil
	}
	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("%s panicked: %v", name, v)
		}
	}()
	fn()
	return nil
}
