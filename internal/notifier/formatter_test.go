package notifier

import (
	"strings"
	"testing"
	"time"

	"SignalBench/internal/model"
)

func TestFormatResult(t *testing.T) {
	entry := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		res  model.Result
		want string
	}{
		{
			name: "insufficient",
			res:  model.Result{Symbol: "AAPL", Outcome: model.OutcomeInsufficientData},
			want: "⚠️ Not enough data for AAPL",
		},
		{
			name: "no trades",
			res:  model.Result{Symbol: "AAPL", Outcome: model.OutcomeNoCompletedTrades},
			want: "📊 AAPL: No complete trades found in backtest.",
		},
		{
			name: "completed",
			res: model.Result{
				Symbol:  "AAPL",
				Outcome: model.OutcomeCompleted,
				Summary: model.Summary{Trades: 3, WinRate: 200.0 / 3.0, AvgReturn: 2, TotalReturn: 6},
			},
			want: "📈 AAPL Backtest Results:\nTrades: 3\nWin Rate: 66.67%\nAvg Return: 2.00%\nTotal Return: 6.00%\n",
		},
		{
			name: "completed with open leg",
			res: model.Result{
				Symbol:       "BTC-USD",
				Outcome:      model.OutcomeCompleted,
				Summary:      model.Summary{Trades: 1, WinRate: 100, AvgReturn: 10, TotalReturn: 10},
				OpenPosition: &model.Position{EntryTime: entry, EntryPrice: 61234.5},
			},
			want: "📈 BTC-USD Backtest Results:\nTrades: 1\nWin Rate: 100.00%\nAvg Return: 10.00%\nTotal Return: 10.00%\n" +
				"Open position from 2024-03-05 @ 61234.50 not counted\n",
		},
		{
			// rounded from the binary value: 0.625 -> 0.62, 6.5149999... -> 6.51
			name: "half cent from prices",
			res: model.Result{
				Symbol:  "AAPL",
				Outcome: model.OutcomeCompleted,
				Summary: model.Summary{Trades: 32, WinRate: 100.0 / 32, AvgReturn: (161.0 - 160.0) / 160.0 * 100, TotalReturn: (213.03 - 200.0) / 200.0 * 100},
			},
			want: "📈 AAPL Backtest Results:\nTrades: 32\nWin Rate: 3.12%\nAvg Return: 0.62%\nTotal Return: 6.51%\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatResult(&tt.res); got != tt.want {
				t.Errorf("got %q\nwant %q", got, tt.want)
			}
		})
	}
}

func TestPct(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0.625, "0.62"},
		{3.125, "3.12"},
		{(231.0 - 224.0) / 224.0 * 100, "3.12"},
		{-2, "-2.00"},
		{66.66666666666667, "66.67"},
	}
	for _, tt := range tests {
		if got := pct(tt.in); got != tt.want {
			t.Errorf("pct(%v) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestReport(t *testing.T) {
	r := Report{
		Results: []model.Result{
			{Symbol: "AT&T", Outcome: model.OutcomeInsufficientData},
			{Symbol: "MSFT", Outcome: model.OutcomeNoCompletedTrades},
		},
		Interval: model.IntervalDaily,
		Period:   model.Period3Months,
		At:       time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC),
	}

	wantPlain := "📈 SignalBench | 2024-06-01 09:30 | 1d/3mo\n\n" +
		"⚠️ Not enough data for AT&T\n\n" +
		"📊 MSFT: No complete trades found in backtest.\n\n"
	if got := r.Plain(); got != wantPlain {
		t.Errorf("plain: got %q\nwant %q", got, wantPlain)
	}

	wantHTML := "📈 <b>SignalBench</b> | 2024-06-01 09:30 | 1d/3mo\n\n" +
		"⚠️ Not enough data for AT&amp;T\n\n" +
		"📊 MSFT: No complete trades found in backtest.\n\n"
	if got := r.HTML(); got != wantHTML {
		t.Errorf("html: got %q\nwant %q", got, wantHTML)
	}
	if strings.Contains(r.Plain(), "<b>") {
		t.Error("plain report must not carry markup")
	}
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		text string
		ok   bool
		name string
		args int
	}{
		{"/run", true, "/run", 0},
		{"  /RUN aapl  msft ", true, "/run", 2},
		{"/run@SignalBenchBot AT&T", true, "/run", 1},
		{"run AAPL", false, "", 0},
		{"", false, "", 0},
	}
	for _, tt := range tests {
		cmd, ok := ParseCommand(tt.text)
		if ok != tt.ok || cmd.Name != tt.name || len(cmd.Args) != tt.args {
			t.Errorf("%q: got %+v ok=%v", tt.text, cmd, ok)
		}
	}
}

func TestSplitMessage(t *testing.T) {
	if parts := splitMessage("short", 10); len(parts) != 1 || parts[0] != "short" {
		t.Fatalf("unexpected %q", parts)
	}

	text := "header\n\nblock one\n\nblock two\n\n"
	parts := splitMessage(text, 12)
	if strings.Join(parts, "") != text {
		t.Fatalf("parts lose text: %q", parts)
	}
	want := []string{"header\n\n", "block one\n\n", "block two\n\n"}
	if len(parts) != len(want) {
		t.Fatalf("got %q, want %q", parts, want)
	}
	for i := range want {
		if parts[i] != want[i] {
			t.Errorf("part %d: got %q, want %q", i, parts[i], want[i])
		}
	}

	long := strings.Repeat("é", 25)
	for _, p := range splitMessage(long, 10) {
		if n := len([]rune(p)); n > 10 {
			t.Errorf("part of %d runes exceeds limit", n)
		}
	}
}
