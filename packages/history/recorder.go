package history

import (
	"context"
	"errors"
	"time"

	"github.com/abdul-hamid-achik/unitspec/packages/core/runner"
)

// recordTimeout bounds each write made by a Recorder.
const recordTimeout = 10 * time.Second

// Recorder is a runner.Listener that stores every finished run.
type Recorder struct {
	runner.NopListener
	store *Store
	errs  []error
}

func NewRecorder(s *Store) *Recorder {
	return &Recorder{store: s}
}

func (r *Recorder) RunFinished(res *runner.RunResult) {
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()
	if err := r.store.Record(ctx, res); err != nil {
		r.errs = append(r.errs, err)
	}
}

// Err returns the errors from every failed write, joined.
func (r *Recorder) Err() error {
	return errors.Join(r.errs...)
}
