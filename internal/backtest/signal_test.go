package backtest

import (
	"math"
	"testing"

	"SignalBench/internal/model"
)

func TestSignals(t *testing.T) {
	th := DefaultThresholds()
	tests := []struct {
		name      string
		prev, cur model.Bar
		buy, sell bool
	}{
		{"buy", model.Bar{MACDHist: -0.2}, model.Bar{Close: 101, EMA: 100, RSI: 25, MACDHist: 0.1}, true, false},
		{"sell", model.Bar{MACDHist: 0.2}, model.Bar{Close: 99, EMA: 100, RSI: 75, MACDHist: -0.1}, false, true},
		{"buy needs upcross", model.Bar{MACDHist: 0.1}, model.Bar{Close: 101, EMA: 100, RSI: 25, MACDHist: 0.2}, false, false},
		{"buy needs oversold", model.Bar{MACDHist: -0.2}, model.Bar{Close: 101, EMA: 100, RSI: 30, MACDHist: 0.1}, false, false},
		{"buy needs close above ema", model.Bar{MACDHist: -0.2}, model.Bar{Close: 100, EMA: 100, RSI: 25, MACDHist: 0.1}, false, false},
		{"zero hist is no cross", model.Bar{MACDHist: 0}, model.Bar{Close: 101, EMA: 100, RSI: 25, MACDHist: 0.1}, false, false},
		{"sell needs overbought", model.Bar{MACDHist: 0.2}, model.Bar{Close: 99, EMA: 100, RSI: 70, MACDHist: -0.1}, false, false},
		{"nan prev", model.Bar{MACDHist: math.NaN()}, model.Bar{Close: 101, EMA: 100, RSI: 25, MACDHist: 0.1}, false, false},
		{"nan rsi", model.Bar{MACDHist: 0.2}, model.Bar{Close: 99, EMA: 100, RSI: math.NaN(), MACDHist: -0.1}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buy, sell := Signals(tt.prev, tt.cur, th)
			if buy != tt.buy || sell != tt.sell {
				t.Errorf("got buy=%v sell=%v, want buy=%v sell=%v", buy, sell, tt.buy, tt.sell)
			}
		})
	}
}

func TestSignals_CustomThresholds(t *testing.T) {
	prev := model.Bar{MACDHist: -0.2}
	cur := model.Bar{Close: 101, EMA: 100, RSI: 38, MACDHist: 0.1}
	if buy, _ := Signals(prev, cur, DefaultThresholds()); buy {
		t.Fatal("RSI 38 is not oversold at 30")
	}
	if buy, _ := Signals(prev, cur, Thresholds{Oversold: 40, Overbought: 60}); !buy {
		t.Fatal("RSI 38 is oversold at 40")
	}
}
