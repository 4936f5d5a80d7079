package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"SignalBench/internal/backtest"
	"SignalBench/internal/calculator"
	"SignalBench/internal/model"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		Provider      string            `yaml:"provider"` // yahoo | rest | parquet
		BaseURL       string            `yaml:"base_url"`
		APIKey        string            `yaml:"api_key"`
		ParquetDir    string            `yaml:"parquet_dir"`
		SymbolAliases map[string]string `yaml:"symbol_aliases"`
	} `yaml:"data_source"`
	Backtest struct {
		Symbols       []string `yaml:"symbols"`
		Interval      string   `yaml:"interval"`
		Period        string   `yaml:"period"`
		MinBars       int      `yaml:"min_bars"`
		EndPolicy     string   `yaml:"end_policy"`
		EMAPeriod     int      `yaml:"ema_period"`
		RSIPeriod     int      `yaml:"rsi_period"`
		RSIOversold   float64  `yaml:"rsi_oversold"`
		RSIOverbought float64  `yaml:"rsi_overbought"`
		MACDFast      int      `yaml:"macd_fast"`
		MACDSlow      int      `yaml:"macd_slow"`
		MACDSignal    int      `yaml:"macd_signal"`
	} `yaml:"backtest"`
	Schedule struct {
		Cron string `yaml:"cron"`
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Export struct {
		ParquetDir string `yaml:"parquet_dir"`
	} `yaml:"export"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file is not an error; defaults fill every unset field.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	applyDefaults(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("BARS_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("BARS_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("PARQUET_DIR"); v != "" {
		cfg.DataSource.ParquetDir = v
	}
	if v := os.Getenv("BACKTEST_SYMBOLS"); v != "" {
		cfg.Backtest.Symbols = splitSymbols(v)
	}
	if v := os.Getenv("BACKTEST_INTERVAL"); v != "" {
		cfg.Backtest.Interval = v
	}
	if v := os.Getenv("BACKTEST_PERIOD"); v != "" {
		cfg.Backtest.Period = v
	}
	if v := os.Getenv("BACKTEST_END_POLICY"); v != "" {
		cfg.Backtest.EndPolicy = v
	}
	if v := os.Getenv("BACKTEST_MIN_BARS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Backtest.MinBars = n
		}
	}
	if v := os.Getenv("CRON_SCHEDULE"); v != "" {
		cfg.Schedule.Cron = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("EXPORT_PARQUET_DIR"); v != "" {
		cfg.Export.ParquetDir = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.DataSource.Provider == "" {
		cfg.DataSource.Provider = "yahoo"
	}
	if cfg.DataSource.SymbolAliases == nil {
		cfg.DataSource.SymbolAliases = map[string]string{
			"SPX500": "^GSPC",
			"SPX":    "^GSPC",
			"SP500":  "^GSPC",
			"EURUSD": "EURUSD=X",
		}
	}
	if len(cfg.Backtest.Symbols) == 0 {
		cfg.Backtest.Symbols = []string{"AAPL", "BTC-USD"}
	}
	if cfg.Backtest.Interval == "" {
		cfg.Backtest.Interval = string(model.IntervalDaily)
	}
	if cfg.Backtest.Period == "" {
		cfg.Backtest.Period = string(model.Period3Months)
	}
	if cfg.Backtest.MinBars == 0 {
		cfg.Backtest.MinBars = backtest.DefaultMinBars
	}
	if cfg.Backtest.EndPolicy == "" {
		cfg.Backtest.EndPolicy = string(model.EndPolicyDrop)
	}
	p := calculator.DefaultParams()
	if cfg.Backtest.EMAPeriod == 0 {
		cfg.Backtest.EMAPeriod = p.EMAPeriod
	}
	if cfg.Backtest.RSIPeriod == 0 {
		cfg.Backtest.RSIPeriod = p.RSIPeriod
	}
	if cfg.Backtest.MACDFast == 0 {
		cfg.Backtest.MACDFast = p.MACDFast
	}
	if cfg.Backtest.MACDSlow == 0 {
		cfg.Backtest.MACDSlow = p.MACDSlow
	}
	if cfg.Backtest.MACDSignal == 0 {
		cfg.Backtest.MACDSignal = p.MACDSignal
	}
	th := backtest.DefaultThresholds()
	if cfg.Backtest.RSIOversold == 0 {
		cfg.Backtest.RSIOversold = th.Oversold
	}
	if cfg.Backtest.RSIOverbought == 0 {
		cfg.Backtest.RSIOverbought = th.Overbought
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

// Validate checks that all fields hold supported values.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case "yahoo":
	case "rest":
		if c.DataSource.BaseURL == "" {
			return fmt.Errorf("data_source.base_url is required for the rest provider")
		}
	case "parquet":
		if c.DataSource.ParquetDir == "" {
			return fmt.Errorf("data_source.parquet_dir is required for the parquet provider")
		}
	default:
		return fmt.Errorf("data_source.provider %q is not one of yahoo, rest, parquet", c.DataSource.Provider)
	}
	if len(c.Backtest.Symbols) == 0 {
		return fmt.Errorf("backtest.symbols must not be empty")
	}
	if _, err := model.ParseInterval(c.Backtest.Interval); err != nil {
		return fmt.Errorf("backtest.interval: %w", err)
	}
	if _, err := model.ParsePeriod(c.Backtest.Period); err != nil {
		return fmt.Errorf("backtest.period: %w", err)
	}
	if _, err := model.ParseEndPolicy(c.Backtest.EndPolicy); err != nil {
		return fmt.Errorf("backtest.end_policy: %w", err)
	}
	if c.Backtest.MinBars < 2 {
		return fmt.Errorf("backtest.min_bars must be at least 2")
	}
	if c.Backtest.RSIOversold >= c.Backtest.RSIOverbought {
		return fmt.Errorf("backtest.rsi_oversold must be below rsi_overbought")
	}
	if c.Telegram.BotToken != "" && c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required when bot_token is set")
	}
	return nil
}

// Requests builds one explicit request per configured symbol. Validate first.
func (c *Config) Requests() []model.Request {
	reqs := make([]model.Request, 0, len(c.Backtest.Symbols))
	for _, s := range c.Backtest.Symbols {
		reqs = append(reqs, model.Request{
			Symbol:   s,
			Interval: model.Interval(c.Backtest.Interval),
			Period:   model.Period(c.Backtest.Period),
		})
	}
	return reqs
}

// IndicatorParams returns the configured indicator periods.
func (c *Config) IndicatorParams() calculator.Params {
	return calculator.Params{
		EMAPeriod:  c.Backtest.EMAPeriod,
		RSIPeriod:  c.Backtest.RSIPeriod,
		MACDFast:   c.Backtest.MACDFast,
		MACDSlow:   c.Backtest.MACDSlow,
		MACDSignal: c.Backtest.MACDSignal,
	}
}

// BacktestOptions returns the simulator options. Validate first.
func (c *Config) BacktestOptions() backtest.Options {
	policy, _ := model.ParseEndPolicy(c.Backtest.EndPolicy)
	return backtest.Options{
		MinBars:   c.Backtest.MinBars,
		EndPolicy: policy,
		Thresholds: backtest.Thresholds{
			Oversold:   c.Backtest.RSIOversold,
			Overbought: c.Backtest.RSIOverbought,
		},
	}
}

func splitSymbols(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
