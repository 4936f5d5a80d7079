package calculator

import (
	"math"
	"testing"
	"time"

	"SignalBench/internal/model"
)

func series(n int, f func(i int) float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = f(i)
	}
	return out
}

func TestEMA_WarmupAndConstant(t *testing.T) {
	prices := series(80, func(int) float64 { return 42 })
	ema := EMA(prices, 50)
	if len(ema) != len(prices) {
		t.Fatalf("length mismatch: %d", len(ema))
	}
	for i := 0; i < 49; i++ {
		if !math.IsNaN(ema[i]) {
			t.Fatalf("expected NaN at %d, got %f", i, ema[i])
		}
	}
	for i := 49; i < len(ema); i++ {
		if math.Abs(ema[i]-42) > 1e-9 {
			t.Fatalf("expected 42 at %d, got %f", i, ema[i])
		}
	}
}

func TestEMA_TracksTrend(t *testing.T) {
	prices := series(100, func(i int) float64 { return 100 + float64(i) })
	ema := EMA(prices, 10)
	last := len(prices) - 1
	if !(ema[last] < prices[last] && ema[last] > prices[last-10]) {
		t.Errorf("EMA %f should lag a rising price %f", ema[last], prices[last])
	}
}

func TestRSI_RisingSeries(t *testing.T) {
	prices := series(40, func(i int) float64 { return 10 + float64(i) })
	rsi := RSI(prices, 14)
	for i := 0; i < 14; i++ {
		if !math.IsNaN(rsi[i]) {
			t.Fatalf("expected NaN at %d", i)
		}
	}
	for i := 14; i < len(rsi); i++ {
		if math.Abs(rsi[i]-100) > 1e-9 {
			t.Fatalf("expected 100 at %d, got %f", i, rsi[i])
		}
	}
}

func TestRSI_Bounded(t *testing.T) {
	prices := series(120, func(i int) float64 { return 100 + 10*math.Sin(float64(i)/5) })
	for i, v := range RSI(prices, 14) {
		if math.IsNaN(v) {
			continue
		}
		if v < 0 || v > 100 {
			t.Fatalf("RSI out of range at %d: %f", i, v)
		}
	}
}

func TestMACDHist_Constant(t *testing.T) {
	prices := series(60, func(int) float64 { return 7 })
	hist := MACDHist(prices, 12, 26, 9)
	for i := 0; i < 33; i++ {
		if !math.IsNaN(hist[i]) {
			t.Fatalf("expected NaN at %d, got %f", i, hist[i])
		}
	}
	for i := 33; i < len(hist); i++ {
		if math.Abs(hist[i]) > 1e-9 {
			t.Fatalf("expected 0 at %d, got %f", i, hist[i])
		}
	}
}

func TestShortSeriesIsAllNaN(t *testing.T) {
	prices := []float64{1, 2, 3, 4, 5}
	for name, out := range map[string][]float64{
		"ema":  EMA(prices, 50),
		"rsi":  RSI(prices, 14),
		"macd": MACDHist(prices, 12, 26, 9),
	} {
		if len(out) != len(prices) {
			t.Fatalf("%s: length %d", name, len(out))
		}
		for i, v := range out {
			if !math.IsNaN(v) {
				t.Errorf("%s: expected NaN at %d, got %f", name, i, v)
			}
		}
	}
	if out := EMA(nil, 50); len(out) != 0 {
		t.Errorf("expected empty EMA for empty input")
	}
}

func TestEnrich(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	raw := make([]model.OHLCV, 90)
	for i := range raw {
		raw[i] = model.OHLCV{Time: start.AddDate(0, 0, i), Close: 100 + float64(i%7)}
	}
	bars := Enrich(raw, DefaultParams())
	if len(bars) != len(raw) {
		t.Fatalf("expected %d bars, got %d", len(raw), len(bars))
	}
	if !bars[10].Time.Equal(raw[10].Time) || bars[10].Close != raw[10].Close {
		t.Errorf("bar 10 not aligned with input")
	}
	if !math.IsNaN(bars[48].EMA) || math.IsNaN(bars[49].EMA) {
		t.Errorf("EMA warm-up boundary wrong: %f %f", bars[48].EMA, bars[49].EMA)
	}
	if math.IsNaN(bars[89].RSI) || math.IsNaN(bars[89].MACDHist) {
		t.Errorf("expected indicators on the last bar")
	}
}

// The first EMA value is the simple average of the first period closes, not
// the first close; later values apply the usual 2/(period+1) smoothing.
func TestEMA_SeededWithSMA(t *testing.T) {
	prices := []float64{10, 20, 30, 40, 50, 60}
	ema := EMA(prices, 3)
	if math.Abs(ema[2]-20) > 1e-9 {
		t.Fatalf("expected seed 20 (mean of 10,20,30), got %f", ema[2])
	}
	k := 2.0 / 4.0
	want := (40-20)*k + 20
	if math.Abs(ema[3]-want) > 1e-9 {
		t.Errorf("expected %f at 3, got %f", want, ema[3])
	}
}
