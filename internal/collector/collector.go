package collector

import (
	"context"
	"fmt"
	"time"

	"SignalBench/internal/calculator"
	"SignalBench/internal/model"

	"go.uber.org/zap"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price float64
	Count int
	Data  map[string][]model.OHLCV
	Err   map[string]error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchBars(_ context.Context, req model.Request) ([]model.OHLCV, error) {
	if err, ok := m.Err[req.Symbol]; ok {
		return nil, err
	}
	if bars, ok := m.Data[req.Symbol]; ok {
		return bars, nil
	}
	return generateMockBars(m.Price, m.Count), nil
}

// generateMockBars produces a slow sine-shaped walk so the indicators move.
func generateMockBars(basePrice float64, count int) []model.OHLCV {
	bars := make([]model.OHLCV, count)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < count; i++ {
		step := float64(i%40) - 20
		if (i/40)%2 == 1 {
			step = -step
		}
		p := basePrice * (1 + step*0.004)
		bars[i] = model.OHLCV{
			Time:   start.AddDate(0, 0, i),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}

// Collector orchestrates data fetching and indicator computation.
type Collector struct {
	Fetcher Fetcher
	Params  calculator.Params
	Logger  *zap.Logger
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, params calculator.Params, logger *zap.Logger) *Collector {
	return &Collector{Fetcher: fetcher, Params: params, Logger: logger}
}

// Collect fetches bars for req and computes all indicators.
func (c *Collector) Collect(ctx context.Context, req model.Request) ([]model.Bar, error) {
	raw, err := c.Fetcher.FetchBars(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s from %s: %w", req, c.Fetcher.Name(), err)
	}
	c.Logger.Debug("bars fetched",
		zap.String("symbol", req.Symbol),
		zap.String("source", c.Fetcher.Name()),
		zap.Int("count", len(raw)))
	return calculator.Enrich(raw, c.Params), nil
}
