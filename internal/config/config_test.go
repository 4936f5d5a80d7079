package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"SignalBench/internal/model"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if cfg.DataSource.Provider != "yahoo" || cfg.Backtest.Interval != "1d" || cfg.Backtest.Period != "3mo" {
		t.Errorf("unexpected defaults %+v", cfg.Backtest)
	}
	opts := cfg.BacktestOptions()
	if opts.MinBars != 60 || opts.EndPolicy != model.EndPolicyDrop || opts.Thresholds.Oversold != 30 || opts.Thresholds.Overbought != 70 {
		t.Errorf("unexpected options %+v", opts)
	}
	p := cfg.IndicatorParams()
	if p.EMAPeriod != 50 || p.RSIPeriod != 14 || p.MACDFast != 12 || p.MACDSlow != 26 || p.MACDSignal != 9 {
		t.Errorf("unexpected params %+v", p)
	}
}

func TestLoad_YAMLAndEnv(t *testing.T) {
	path := writeConfig(t, `
backtest:
  symbols: [AAPL]
  interval: 1wk
  period: 2y
  end_policy: force-close-at-end
  rsi_oversold: 35
telegram:
  bot_token: abc
  chat_id: "1"
`)
	t.Setenv("BACKTEST_SYMBOLS", "msft, nvda ,")
	t.Setenv("BACKTEST_PERIOD", "1y")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	reqs := cfg.Requests()
	if len(reqs) != 2 || reqs[0].Symbol != "msft" || reqs[1].Symbol != "nvda" {
		t.Fatalf("env symbols not applied: %+v", reqs)
	}
	if reqs[0].Interval != model.IntervalWeekly || reqs[0].Period != model.Period1Year {
		t.Errorf("unexpected request %+v", reqs[0])
	}
	opts := cfg.BacktestOptions()
	if opts.EndPolicy != model.EndPolicyForceClose || opts.Thresholds.Oversold != 35 {
		t.Errorf("unexpected options %+v", opts)
	}
}

func TestLoad_BadYAML(t *testing.T) {
	if _, err := Load(writeConfig(t, "backtest: [")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"interval", func(c *Config) { c.Backtest.Interval = "5m" }, "interval"},
		{"period", func(c *Config) { c.Backtest.Period = "10y" }, "period"},
		{"end policy", func(c *Config) { c.Backtest.EndPolicy = "keep" }, "end_policy"},
		{"provider", func(c *Config) { c.DataSource.Provider = "csv" }, "provider"},
		{"rest needs url", func(c *Config) { c.DataSource.Provider = "rest" }, "base_url"},
		{"parquet needs dir", func(c *Config) { c.DataSource.Provider = "parquet" }, "parquet_dir"},
		{"thresholds", func(c *Config) { c.Backtest.RSIOversold = 80 }, "rsi_oversold"},
		{"chat id", func(c *Config) { c.Telegram.BotToken = "x" }, "chat_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
			if err != nil {
				t.Fatal(err)
			}
			tt.mutate(cfg)
			err = cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}
