package backtest

import (
	"fmt"

	"SignalBench/internal/model"
)

// DefaultMinBars is the shortest series the simulator will scan.
const DefaultMinBars = 60

// Options tune a single simulation.
type Options struct {
	MinBars    int
	EndPolicy  model.EndPolicy
	Thresholds Thresholds
}

// DefaultOptions returns 60 bars minimum, the drop end policy and RSI 30/70.
func DefaultOptions() Options {
	return Options{
		MinBars:    DefaultMinBars,
		EndPolicy:  model.EndPolicyDrop,
		Thresholds: DefaultThresholds(),
	}
}

type state int

const (
	flat state = iota
	long
)

// Simulate scans bars once, opening a long on a buy signal and closing it on
// the next sell signal. At most one position is open at any bar.
func Simulate(symbol string, bars []model.Bar, opts Options) model.Result {
	res := model.Result{
		Symbol: symbol,
		Bars:   len(bars),
		Trades: []model.Trade{},
	}
	minBars := opts.MinBars
	if minBars <= 0 {
		minBars = DefaultMinBars
	}
	if len(bars) == 0 || len(bars) < minBars {
		res.Outcome = model.OutcomeInsufficientData
		res.Reason = fmt.Sprintf("%d bars, need %d", len(bars), minBars)
		return res
	}

	st := flat
	var pos model.Position
	for i := 1; i < len(bars); i++ {
		buy, sell := Signals(bars[i-1], bars[i], opts.Thresholds)
		switch {
		case st == flat && buy:
			st = long
			pos = model.Position{EntryTime: bars[i].Time, EntryPrice: bars[i].Close}
		case st == long && sell:
			st = flat
			res.Trades = append(res.Trades, closeTrade(pos, bars[i], false))
		}
	}

	if st == long {
		last := bars[len(bars)-1]
		if opts.EndPolicy == model.EndPolicyForceClose {
			res.Trades = append(res.Trades, closeTrade(pos, last, true))
		} else {
			open := pos
			res.OpenPosition = &open
		}
	}

	if len(res.Trades) == 0 {
		res.Outcome = model.OutcomeNoCompletedTrades
		return res
	}
	res.Outcome = model.OutcomeCompleted
	res.Summary = Summarize(res.Trades)
	return res
}

func closeTrade(pos model.Position, exit model.Bar, forced bool) model.Trade {
	return model.Trade{
		EntryTime:  pos.EntryTime,
		ExitTime:   exit.Time,
		EntryPrice: pos.EntryPrice,
		ExitPrice:  exit.Close,
		ReturnPct:  (exit.Close - pos.EntryPrice) / pos.EntryPrice * 100,
		Forced:     forced,
	}
}
