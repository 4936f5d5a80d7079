package recorder

import (
	"errors"

	"SignalBench/internal/model"

	"github.com/google/uuid"
)

// Recorder persists backtest results for later analysis.
type Recorder interface {
	RecordResult(res *model.Result) error
	Close() error
}

// MultiRecorder fans each result out to several recorders.
type MultiRecorder []Recorder

func (m MultiRecorder) RecordResult(res *model.Result) error {
	var errs []error
	for _, r := range m {
		if err := r.RecordResult(res); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m MultiRecorder) Close() error {
	var errs []error
	for _, r := range m {
		if err := r.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// runIDOf returns the result's run id, assigning one if the caller left it
// empty so every store in a MultiRecorder sees the same id.
func runIDOf(res *model.Result) string {
	if res.RunID == "" {
		res.RunID = uuid.NewString()
	}
	return res.RunID
}
