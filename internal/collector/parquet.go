package collector

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"SignalBench/internal/model"

	"github.com/parquet-go/parquet-go"
)

// ParquetBar is the on-disk bar layout written by the bar crawler.
type ParquetBar struct {
	Timestamp    int64   `parquet:"t"` // Unix timestamp in milliseconds
	Open         float64 `parquet:"o"`
	High         float64 `parquet:"h"`
	Low          float64 `parquet:"l"`
	Close        float64 `parquet:"c"`
	Volume       int64   `parquet:"v"`
	VWAP         float64 `parquet:"vw,optional"`
	Transactions int64   `parquet:"n,optional"`
}

// ParquetFetcher implements Fetcher over a directory of <SYMBOL>_<interval>.parquet files.
type ParquetFetcher struct {
	Dir string
}

func NewParquetFetcher(dir string) *ParquetFetcher {
	return &ParquetFetcher{Dir: dir}
}

func (f *ParquetFetcher) Name() string { return "parquet" }

// Path returns the file holding bars for symbol at interval.
func (f *ParquetFetcher) Path(symbol string, interval model.Interval) string {
	name := strings.NewReplacer("/", "_", "^", "", "=", "_").Replace(strings.ToUpper(symbol))
	return filepath.Join(f.Dir, fmt.Sprintf("%s_%s.parquet", name, interval))
}

// FetchBars reads the file for req and keeps the bars within req.Period of the latest bar.
func (f *ParquetFetcher) FetchBars(ctx context.Context, req model.Request) ([]model.OHLCV, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := f.Path(req.Symbol, req.Interval)
	rows, err := parquet.ReadFile[ParquetBar](path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("parquet %s: %w", path, ErrNoData)
		}
		return nil, fmt.Errorf("read parquet %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	bars := make([]model.OHLCV, len(rows))
	for i, r := range rows {
		bars[i] = model.OHLCV{
			Time:   time.UnixMilli(r.Timestamp).UTC(),
			Open:   r.Open,
			High:   r.High,
			Low:    r.Low,
			Close:  r.Close,
			Volume: float64(r.Volume),
		}
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })

	since := req.Period.Since(bars[len(bars)-1].Time)
	start := sort.Search(len(bars), func(i int) bool { return !bars[i].Time.Before(since) })
	return bars[start:], nil
}
