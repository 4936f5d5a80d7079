package backtest

import (
	"context"
	"time"

	"SignalBench/internal/model"
	"SignalBench/internal/recorder"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BarSource yields the indicator-enriched bars for a request.
type BarSource interface {
	Collect(ctx context.Context, req model.Request) ([]model.Bar, error)
}

// Runner evaluates requests one symbol at a time.
type Runner struct {
	Source   BarSource
	Options  Options
	Recorder recorder.Recorder
	Logger   *zap.Logger
	now      func() time.Time
	newID    func() string
}

// NewRunner creates a Runner. A nil recorder records nothing.
func NewRunner(src BarSource, opts Options, rec recorder.Recorder, logger *zap.Logger) *Runner {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Runner{Source: src, Options: opts, Recorder: rec, Logger: logger, now: time.Now, newID: uuid.NewString}
}

// Run evaluates every request in order. A failure on one symbol never stops
// the rest; it is reported as insufficient data for that symbol.
func (r *Runner) Run(ctx context.Context, reqs []model.Request) []model.Result {
	r.Logger.Info("backtest batch started", zap.Int("symbols", len(reqs)))
	results := make([]model.Result, 0, len(reqs))
	for _, req := range reqs {
		if ctx.Err() != nil {
			r.Logger.Warn("backtest batch cancelled", zap.Int("done", len(results)))
			break
		}
		results = append(results, r.RunOne(ctx, req))
	}
	r.Logger.Info("backtest batch finished", zap.Int("results", len(results)))
	return results
}

// RunOne fetches, simulates and records a single request.
func (r *Runner) RunOne(ctx context.Context, req model.Request) model.Result {
	log := r.Logger.With(zap.String("symbol", req.Symbol),
		zap.String("interval", string(req.Interval)), zap.String("period", string(req.Period)))

	var res model.Result
	bars, err := r.Source.Collect(ctx, req)
	if err != nil {
		log.Warn("collect failed, treating as insufficient data", zap.Error(err))
		res = model.Result{
			Symbol:  req.Symbol,
			Outcome: model.OutcomeInsufficientData,
			Trades:  []model.Trade{},
			Reason:  err.Error(),
		}
	} else {
		res = Simulate(req.Symbol, bars, r.Options)
	}
	res.RunID = r.newID()
	res.Request = req
	res.RunAt = r.now()

	log.Info("backtest finished",
		zap.String("run_id", res.RunID),
		zap.String("outcome", string(res.Outcome)),
		zap.Int("bars", res.Bars),
		zap.Int("trades", len(res.Trades)),
		zap.Float64("total_return", res.Summary.TotalReturn))

	if err := r.Recorder.RecordResult(&res); err != nil {
		log.Error("record result", zap.Error(err))
	}
	return res
}
