package calculator

import "github.com/markcheno/go-talib"

// MACDHist returns the MACD histogram (MACD line minus signal line).
// The first slow+signal-2 values are NaN.
func MACDHist(prices []float64, fast, slow, signal int) []float64 {
	if fast <= 0 || slow <= 0 || signal <= 0 {
		return nanSeries(len(prices))
	}
	if slow < fast {
		fast, slow = slow, fast
	}
	lookback := slow + signal - 2
	if len(prices) <= lookback {
		return nanSeries(len(prices))
	}
	_, _, hist := talib.Macd(prices, fast, slow, signal)
	maskWarmup(hist, lookback)
	return hist
}
