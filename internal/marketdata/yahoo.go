package marketdata

import (
	"context"
	"fmt"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"

	"llm-hedge-fund/internal/interfaces"
	"llm-hedge-fund/internal/types"
)

// YahooProvider pulls daily candles from the Yahoo Finance chart API.
// No credentials required, which makes it the default online source.
type YahooProvider struct{}

var _ interfaces.PriceProvider = (*YahooProvider)(nil)

func NewYahooProvider() *YahooProvider {
	return &YahooProvider{}
}

func (p *YahooProvider) GetPrices(_ context.Context, ticker string, start, end time.Time) ([]types.Candle, error) {
	params := &chart.Params{
		Symbol:   ticker,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.OneDay,
	}

	iter := chart.Get(params)
	var candles []types.Candle
	for iter.Next() {
		bar := iter.Bar()
		day := time.Unix(int64(bar.Timestamp), 0).UTC()
		candles = append(candles, types.Candle{
			Date:   time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC),
			Open:   bar.Open,
			High:   bar.High,
			Low:    bar.Low,
			Close:  bar.Close,
			Volume: int64(bar.Volume),
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("yahoo chart for %s: %w", ticker, err)
	}
	return candles, nil
}
