package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"SignalBench/internal/backtest"
	"SignalBench/internal/collector"
	"SignalBench/internal/config"
	"SignalBench/internal/logger"
	"SignalBench/internal/notifier"
	"SignalBench/internal/recorder"
	"SignalBench/internal/scheduler"

	"go.uber.org/zap"
)

func main() {
	cfgFlag := flag.String("config", "", "path to config.yaml (default $CONFIG_PATH or configs/config.yaml)")
	once := flag.Bool("once", false, "run the batch once and exit, ignoring schedule.cron")
	flag.Parse()

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	if *cfgFlag != "" {
		cfgPath = *cfgFlag
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config validation: %v", err)
	}

	lg, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer lg.Sync()
	lg.Info("SignalBench starting", zap.String("config", cfgPath))

	fetcher := newFetcher(cfg)
	lg.Info("data source", zap.String("provider", fetcher.Name()))
	col := collector.NewCollector(fetcher, cfg.IndicatorParams(), lg)

	rec := newRecorder(cfg, lg)
	defer rec.Close()

	runner := backtest.NewRunner(col, cfg.BacktestOptions(), rec, lg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var sender scheduler.Sender
	var tn *notifier.TelegramNotifier
	if cfg.Telegram.BotToken != "" {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, lg)
		sender = tn
	}

	sched := scheduler.NewScheduler(ctx, runner, cfg.Requests(), sender, lg)

	if *once || cfg.Schedule.Cron == "" {
		sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		report := sched.RunNow(sigCtx)
		fmt.Print(report.Plain())
		if sender != nil {
			if err := sender.SendWithRetry(sigCtx, report.HTML(), 3); err != nil {
				lg.Error("send report", zap.Error(err))
			}
		}
		return
	}

	if err := sched.RegisterAll(cfg.Schedule.Cron); err != nil {
		lg.Fatal("register cron task", zap.Error(err))
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		lg.Info("telegram polling started")
	}

	lg.Info("SignalBench is running, press Ctrl+C to stop", zap.String("cron", cfg.Schedule.Cron))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	lg.Info("shutdown signal received, stopping")
	cancel()
}

func newFetcher(cfg *config.Config) collector.Fetcher {
	switch cfg.DataSource.Provider {
	case "rest":
		return collector.NewRESTFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	case "parquet":
		return collector.NewParquetFetcher(cfg.DataSource.ParquetDir)
	default:
		return collector.NewYahooFetcher(cfg.Proxy, cfg.DataSource.SymbolAliases)
	}
}

// newRecorder degrades to noop when a store cannot be opened.
func newRecorder(cfg *config.Config, lg *zap.Logger) recorder.Recorder {
	var recs recorder.MultiRecorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, lg)
		if err != nil {
			lg.Warn("init sqlite recorder failed, skipping", zap.Error(err))
		} else {
			recs = append(recs, sr)
		}
	}
	if cfg.Export.ParquetDir != "" {
		pr, err := recorder.NewParquetRecorder(cfg.Export.ParquetDir)
		if err != nil {
			lg.Warn("init parquet recorder failed, skipping", zap.Error(err))
		} else {
			recs = append(recs, pr)
		}
	}
	switch len(recs) {
	case 0:
		return recorder.NewNoopRecorder()
	case 1:
		return recs[0]
	default:
		return recs
	}
}
