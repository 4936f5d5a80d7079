package notifier

import (
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"SignalBench/internal/model"
)

// pct renders v rounded to two decimals from its binary value, as printf does.
func pct(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func plain(s string) string { return s }

// FormatResult renders one symbol's backtest as a plain text block.
func FormatResult(res *model.Result) string {
	return formatResult(res, plain)
}

func formatResult(res *model.Result, esc func(string) string) string {
	sym := esc(res.Symbol)
	switch res.Outcome {
	case model.OutcomeInsufficientData:
		return fmt.Sprintf("⚠️ Not enough data for %s", sym)
	case model.OutcomeNoCompletedTrades:
		return fmt.Sprintf("📊 %s: No complete trades found in backtest.", sym)
	}

	s := res.Summary
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📈 %s Backtest Results:\n", sym))
	b.WriteString(fmt.Sprintf("Trades: %d\n", s.Trades))
	b.WriteString(fmt.Sprintf("Win Rate: %s%%\n", pct(s.WinRate)))
	b.WriteString(fmt.Sprintf("Avg Return: %s%%\n", pct(s.AvgReturn)))
	b.WriteString(fmt.Sprintf("Total Return: %s%%\n", pct(s.TotalReturn)))
	if res.OpenPosition != nil {
		b.WriteString(fmt.Sprintf("Open position from %s @ %s not counted\n",
			res.OpenPosition.EntryTime.Format("2006-01-02"), pct(res.OpenPosition.EntryPrice)))
	}
	return b.String()
}

// Report is one finished batch, ready to render for a terminal or for Telegram.
type Report struct {
	Results  []model.Result
	Interval model.Interval
	Period   model.Period
	At       time.Time
}

// Plain renders the report without markup.
func (r Report) Plain() string {
	return r.render(fmt.Sprintf("📈 SignalBench | %s", r.window()), plain)
}

// HTML renders the report for Telegram's HTML parse mode. Symbols are escaped.
func (r Report) HTML() string {
	return r.render(fmt.Sprintf("📈 <b>SignalBench</b> | %s", html.EscapeString(r.window())), html.EscapeString)
}

func (r Report) window() string {
	return fmt.Sprintf("%s | %s/%s", r.At.Format("2006-01-02 15:04"), r.Interval, r.Period)
}

func (r Report) render(header string, esc func(string) string) string {
	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n\n")
	for i := range r.Results {
		b.WriteString(strings.TrimRight(formatResult(&r.Results[i], esc), "\n"))
		b.WriteString("\n\n")
	}
	return b.String()
}
