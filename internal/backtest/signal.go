package backtest

import "SignalBench/internal/model"

// Thresholds are the RSI levels the rule treats as oversold and overbought.
type Thresholds struct {
	Oversold   float64
	Overbought float64
}

// DefaultThresholds returns RSI 30/70.
func DefaultThresholds() Thresholds {
	return Thresholds{Oversold: 30, Overbought: 70}
}

// Signals evaluates the buy and sell conditions for cur given the bar before it.
//
// Buy fires on a MACD histogram upcross while price is above its EMA and RSI
// is oversold; sell is the mirror image. NaN inputs make both false.
func Signals(prev, cur model.Bar, th Thresholds) (buy, sell bool) {
	buy = cur.Close > cur.EMA &&
		cur.RSI < th.Oversold &&
		cur.MACDHist > 0 &&
		prev.MACDHist < 0
	sell = cur.Close < cur.EMA &&
		cur.RSI > th.Overbought &&
		cur.MACDHist < 0 &&
		prev.MACDHist > 0
	return buy, sell
}
