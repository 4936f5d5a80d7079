package backtest

import "SignalBench/internal/model"

// Summarize rolls up win rate, average and total return. An empty slice
// yields the zero Summary.
func Summarize(trades []model.Trade) model.Summary {
	var s model.Summary
	s.Trades = len(trades)
	if s.Trades == 0 {
		return s
	}
	s.Best = trades[0].ReturnPct
	s.Worst = trades[0].ReturnPct
	for _, t := range trades {
		s.TotalReturn += t.ReturnPct
		if t.ReturnPct > 0 {
			s.Wins++
		} else {
			s.Losses++
		}
		if t.ReturnPct > s.Best {
			s.Best = t.ReturnPct
		}
		if t.ReturnPct < s.Worst {
			s.Worst = t.ReturnPct
		}
	}
	s.WinRate = float64(s.Wins) / float64(s.Trades) * 100
	s.AvgReturn = s.TotalReturn / float64(s.Trades)
	return s
}
