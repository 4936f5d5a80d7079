package collector

import (
	"context"
	"errors"

	"SignalBench/internal/model"
)

// ErrNoData is returned by a Fetcher when the source has no bars for a request.
var ErrNoData = errors.New("no data returned")

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	FetchBars(ctx context.Context, req model.Request) ([]model.OHLCV, error)
	Name() string
}
