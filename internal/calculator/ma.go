package calculator

import (
	"math"

	"SignalBench/internal/model"

	"github.com/markcheno/go-talib"
)

// EMA returns the exponential moving average series of prices over period.
// The first period-1 values are NaN.
func EMA(prices []float64, period int) []float64 {
	if period <= 0 || len(prices) < period {
		return nanSeries(len(prices))
	}
	out := talib.Ema(prices, period)
	maskWarmup(out, period-1)
	return out
}

func extractCloses(bars []model.OHLCV) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}

func nanSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// maskWarmup overwrites the first n values, which talib leaves as zero.
func maskWarmup(series []float64, n int) {
	for i := 0; i < n && i < len(series); i++ {
		series[i] = math.NaN()
	}
}
