package recorder

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"SignalBench/internal/model"

	"github.com/parquet-go/parquet-go"
)

// TradeRow is the parquet layout of one exported trade.
type TradeRow struct {
	RunID      string  `parquet:"run_id"`
	Symbol     string  `parquet:"symbol"`
	Interval   string  `parquet:"interval"`
	Seq        int64   `parquet:"seq"`
	EntryTime  int64   `parquet:"entry_time"` // Unix milliseconds
	ExitTime   int64   `parquet:"exit_time"`
	EntryPrice float64 `parquet:"entry_price"`
	ExitPrice  float64 `parquet:"exit_price"`
	ReturnPct  float64 `parquet:"return_pct"`
	Forced     bool    `parquet:"forced"`
}

// ParquetRecorder writes the trades of each run to <dir>/<run_id>_<symbol>.parquet.
// Runs without trades are skipped.
type ParquetRecorder struct {
	Dir string
}

// NewParquetRecorder creates dir if needed.
func NewParquetRecorder(dir string) (*ParquetRecorder, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}
	return &ParquetRecorder{Dir: dir}, nil
}

func (p *ParquetRecorder) RecordResult(res *model.Result) error {
	if len(res.Trades) == 0 {
		return nil
	}
	runID := runIDOf(res)
	rows := make([]TradeRow, len(res.Trades))
	for i, t := range res.Trades {
		rows[i] = TradeRow{
			RunID:      runID,
			Symbol:     res.Symbol,
			Interval:   string(res.Request.Interval),
			Seq:        int64(i),
			EntryTime:  t.EntryTime.UnixMilli(),
			ExitTime:   t.ExitTime.UnixMilli(),
			EntryPrice: t.EntryPrice,
			ExitPrice:  t.ExitPrice,
			ReturnPct:  t.ReturnPct,
			Forced:     t.Forced,
		}
	}
	path := filepath.Join(p.Dir, fmt.Sprintf("%s_%s.parquet", runID, safeName(res.Symbol)))
	if err := parquet.WriteFile(path, rows); err != nil {
		return fmt.Errorf("write parquet %s: %w", path, err)
	}
	return nil
}

func (p *ParquetRecorder) Close() error { return nil }

func safeName(symbol string) string {
	return strings.NewReplacer("/", "_", "^", "", "=", "_").Replace(symbol)
}
