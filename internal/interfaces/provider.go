package interfaces

import (
	"context"
	"time"

	"llm-hedge-fund/internal/types"
)

// PriceProvider returns daily candles for a ticker, dates ascending,
// one record per trading day. Non-trading days and missing data are
// simply absent, never null-filled.
type PriceProvider interface {
	GetPrices(ctx context.Context, ticker string, start, end time.Time) ([]types.Candle, error)
}
