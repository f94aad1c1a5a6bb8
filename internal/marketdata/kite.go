package marketdata

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	kiteconnect "github.com/zerodha/gokiteconnect/v4"

	"llm-hedge-fund/internal/interfaces"
	"llm-hedge-fund/internal/types"
)

// KiteProvider fetches daily candles from the Zerodha Kite historical
// API. Tickers map to Kite instrument tokens, which the caller supplies
// since the mapping depends on the exchange segment.
type KiteProvider struct {
	client *kiteconnect.Client
	tokens map[string]int
}

var _ interfaces.PriceProvider = (*KiteProvider)(nil)

func NewKiteProvider(apiKey, accessToken string, tokens map[string]int) *KiteProvider {
	kc := kiteconnect.New(apiKey)
	kc.SetAccessToken(accessToken)
	return &KiteProvider{client: kc, tokens: tokens}
}

func (p *KiteProvider) GetPrices(_ context.Context, ticker string, start, end time.Time) ([]types.Candle, error) {
	token, ok := p.tokens[ticker]
	if !ok {
		return nil, fmt.Errorf("no instrument token configured for %s", ticker)
	}

	bars, err := p.client.GetHistoricalData(token, "day", start, end, false, false)
	if err != nil {
		return nil, fmt.Errorf("kite historical data for %s: %w", ticker, err)
	}

	candles := make([]types.Candle, 0, len(bars))
	for _, bar := range bars {
		day := bar.Date.Time.UTC()
		candles = append(candles, types.Candle{
			Date:   time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC),
			Open:   decimal.NewFromFloat(bar.Open),
			High:   decimal.NewFromFloat(bar.High),
			Low:    decimal.NewFromFloat(bar.Low),
			Close:  decimal.NewFromFloat(bar.Close),
			Volume: int64(bar.Volume),
		})
	}
	return candles, nil
}
