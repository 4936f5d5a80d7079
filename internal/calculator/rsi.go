package calculator

import "github.com/markcheno/go-talib"

// RSI computes the Wilder-smoothed RSI series over the given period.
// Requires at least period+1 prices; the first period values are NaN.
func RSI(prices []float64, period int) []float64 {
	if period < 2 || len(prices) <= period {
		return nanSeries(len(prices))
	}
	out := talib.Rsi(prices, period)
	maskWarmup(out, period)
	return out
}
