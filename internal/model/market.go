package model

import (
	"fmt"
	"time"
)

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Bar is one sampled interval with the indicator values the rule reads.
// Indicator values are NaN during warm-up.
type Bar struct {
	Time     time.Time
	Close    float64
	EMA      float64
	RSI      float64
	MACDHist float64
}

// Interval is the sampling interval of a bar series.
type Interval string

const (
	IntervalDaily  Interval = "1d"
	IntervalHourly Interval = "1h"
	IntervalWeekly Interval = "1wk"
)

// Intervals lists the supported sampling intervals.
var Intervals = []Interval{IntervalDaily, IntervalHourly, IntervalWeekly}

// Period is the lookback window fetched for a symbol.
type Period string

const (
	Period1Month  Period = "1mo"
	Period3Months Period = "3mo"
	Period6Months Period = "6mo"
	Period1Year   Period = "1y"
	Period2Years  Period = "2y"
)

// Periods lists the supported lookback windows.
var Periods = []Period{Period1Month, Period3Months, Period6Months, Period1Year, Period2Years}

// ParseInterval validates s against the supported intervals.
func ParseInterval(s string) (Interval, error) {
	for _, iv := range Intervals {
		if string(iv) == s {
			return iv, nil
		}
	}
	return "", fmt.Errorf("unsupported interval %q", s)
}

// ParsePeriod validates s against the supported lookback windows.
func ParsePeriod(s string) (Period, error) {
	for _, p := range Periods {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("unsupported period %q", s)
}

// Since returns the start of the window that ends at end.
func (p Period) Since(end time.Time) time.Time {
	switch p {
	case Period1Month:
		return end.AddDate(0, -1, 0)
	case Period3Months:
		return end.AddDate(0, -3, 0)
	case Period6Months:
		return end.AddDate(0, -6, 0)
	case Period1Year:
		return end.AddDate(-1, 0, 0)
	case Period2Years:
		return end.AddDate(-2, 0, 0)
	default:
		return time.Time{}
	}
}

// Request selects what to fetch for one backtest.
type Request struct {
	Symbol   string
	Interval Interval
	Period   Period
}

func (r Request) String() string {
	return fmt.Sprintf("%s %s/%s", r.Symbol, r.Interval, r.Period)
}
