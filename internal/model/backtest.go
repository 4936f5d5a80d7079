package model

import (
	"fmt"
	"time"
)

// Outcome classifies how a backtest for one symbol ended.
type Outcome string

const (
	OutcomeCompleted         Outcome = "completed"
	OutcomeInsufficientData  Outcome = "insufficient_data"
	OutcomeNoCompletedTrades Outcome = "no_completed_trades"
)

// EndPolicy decides what happens to a position still open on the last bar.
type EndPolicy string

const (
	EndPolicyDrop       EndPolicy = "drop"
	EndPolicyForceClose EndPolicy = "force-close-at-end"
)

// ParseEndPolicy validates s; an empty string means drop.
func ParseEndPolicy(s string) (EndPolicy, error) {
	switch EndPolicy(s) {
	case "", EndPolicyDrop:
		return EndPolicyDrop, nil
	case EndPolicyForceClose:
		return EndPolicyForceClose, nil
	default:
		return "", fmt.Errorf("unsupported end policy %q", s)
	}
}

// Position is the single open long leg.
type Position struct {
	EntryTime  time.Time
	EntryPrice float64
}

// Trade is a closed long leg.
type Trade struct {
	EntryTime  time.Time
	ExitTime   time.Time
	EntryPrice float64
	ExitPrice  float64
	ReturnPct  float64
	Forced     bool // closed by force-close-at-end, not by a sell signal
}

// Summary aggregates the closed trades of one run.
type Summary struct {
	Trades      int
	Wins        int
	Losses      int
	WinRate     float64 // percent of trades with ReturnPct > 0
	AvgReturn   float64
	TotalReturn float64
	Best        float64
	Worst       float64
}

// Result is the full outcome of backtesting one Request.
type Result struct {
	RunID        string // shared by every store that records this result
	Symbol       string
	Request      Request
	Outcome      Outcome
	Bars         int
	Trades       []Trade
	Summary      Summary
	OpenPosition *Position // set when the drop policy discarded an open leg
	Reason       string
	RunAt        time.Time
}
