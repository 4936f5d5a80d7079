package calculator

import "SignalBench/internal/model"

// Params holds the indicator periods.
type Params struct {
	EMAPeriod  int
	RSIPeriod  int
	MACDFast   int
	MACDSlow   int
	MACDSignal int
}

// DefaultParams returns EMA50, RSI14 and MACD 12/26/9.
func DefaultParams() Params {
	return Params{EMAPeriod: 50, RSIPeriod: 14, MACDFast: 12, MACDSlow: 26, MACDSignal: 9}
}

// Enrich computes the indicator columns for bars and returns them row by row.
func Enrich(bars []model.OHLCV, p Params) []model.Bar {
	closes := extractCloses(bars)
	ema := EMA(closes, p.EMAPeriod)
	rsi := RSI(closes, p.RSIPeriod)
	hist := MACDHist(closes, p.MACDFast, p.MACDSlow, p.MACDSignal)

	out := make([]model.Bar, len(bars))
	for i, b := range bars {
		out[i] = model.Bar{
			Time:     b.Time,
			Close:    b.Close,
			EMA:      ema[i],
			RSI:      rsi[i],
			MACDHist: hist[i],
		}
	}
	return out
}
