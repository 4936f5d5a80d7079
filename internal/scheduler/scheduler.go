package scheduler

import (
	"context"
	"fmt"
	"html"
	"strings"
	"sync"
	"time"

	"SignalBench/internal/model"
	"SignalBench/internal/notifier"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// BatchRunner evaluates a list of requests and returns one result per request.
type BatchRunner interface {
	Run(ctx context.Context, reqs []model.Request) []model.Result
}

// Sender delivers a rendered report.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler runs the configured backtest batch on a cron schedule and on demand.
type Scheduler struct {
	Cron     *cron.Cron
	Runner   BatchRunner
	Requests []model.Request
	Notifier Sender // nil disables delivery
	Logger   *zap.Logger
	Ctx      context.Context
	mu       sync.Mutex
	now      func() time.Time
}

// NewScheduler creates a new Scheduler. reqs is the default batch.
func NewScheduler(ctx context.Context, runner BatchRunner, reqs []model.Request, sender Sender, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Runner:   runner,
		Requests: reqs,
		Notifier: sender,
		Logger:   logger,
		Ctx:      ctx,
		now:      time.Now,
	}
}

// RegisterAll registers the recurring backtest task.
func (s *Scheduler) RegisterAll(batchCron string) error {
	if _, err := s.Cron.AddFunc(batchCron, s.batchTask); err != nil {
		return fmt.Errorf("register backtest task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Logger.Info("scheduler started", zap.Int("entries", len(s.Cron.Entries())))
}

// Stop stops the cron scheduler and waits for a running batch to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Logger.Info("scheduler stopped")
}

// RunNow runs the default batch immediately.
func (s *Scheduler) RunNow(ctx context.Context) notifier.Report {
	return s.runBatch(ctx, s.Requests)
}

func (s *Scheduler) batchTask() {
	s.Logger.Info("running scheduled backtest")
	report := s.runBatch(s.Ctx, s.Requests)
	s.trySend(s.Ctx, report.HTML())
}

// runBatch holds the batch lock so a cron run and a /run command never
// evaluate symbols at the same time.
func (s *Scheduler) runBatch(ctx context.Context, reqs []model.Request) notifier.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	results := s.Runner.Run(ctx, reqs)
	iv, period := batchWindow(reqs)
	return notifier.Report{Results: results, Interval: iv, Period: period, At: s.now()}
}

// HandleCommand answers a Telegram command with HTML text.
func (s *Scheduler) HandleCommand(ctx context.Context, cmd notifier.Command) string {
	switch cmd.Name {
	case "/run":
		reqs := s.Requests
		if len(cmd.Args) > 0 {
			reqs = overrideSymbols(s.Requests, cmd.Args)
		}
		if len(reqs) == 0 {
			return "No symbols configured."
		}
		return s.runBatch(ctx, reqs).HTML()
	case "/config":
		return s.describe()
	default:
		return helpText
	}
}

const helpText = "Available commands:\n• /run [SYMBOL ...]  backtest the configured or given symbols\n• /config  show the batch settings\n• /help  show this message"

func (s *Scheduler) describe() string {
	if len(s.Requests) == 0 {
		return "No symbols configured."
	}
	syms := make([]string, 0, len(s.Requests))
	for _, r := range s.Requests {
		syms = append(syms, html.EscapeString(r.Symbol))
	}
	iv, period := batchWindow(s.Requests)
	return fmt.Sprintf("Symbols: %s\nInterval: %s\nPeriod: %s", strings.Join(syms, ", "), iv, period)
}
// overrideSymbols keeps the interval and period of the default batch.
func overrideSymbols(base []model.Request, symbols []string) []model.Request {
	iv, period := batchWindow(base)
	if iv == "" {
		iv = model.IntervalDaily
	}
	if period == "" {
		period = model.Period3Months
	}
	reqs := make([]model.Request, 0, len(symbols))
	for _, sym := range symbols {
		reqs = append(reqs, model.Request{Symbol: strings.ToUpper(sym), Interval: iv, Period: period})
	}
	return reqs
}

func batchWindow(reqs []model.Request) (model.Interval, model.Period) {
	if len(reqs) == 0 {
		return "", ""
	}
	return reqs[0].Interval, reqs[0].Period
}

func (s *Scheduler) trySend(ctx context.Context, text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(ctx, text, 3); err != nil {
		s.Logger.Error("send notification", zap.Error(err))
	}
}
