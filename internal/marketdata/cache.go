package marketdata

import (
	"context"
	"fmt"
	"sync"
	"time"

	"llm-hedge-fund/internal/interfaces"
	"llm-hedge-fund/internal/logger"
	"llm-hedge-fund/internal/types"
)

// CachedProvider wraps a PriceProvider and memoizes results per
// ticker and date range. Evicts the oldest entry once maxEntries is
// reached. A backtest asks for each ticker's series exactly once per
// run, so the cache mostly pays off across repeated runs in the same
// process (parameter sweeps).
type CachedProvider struct {
	inner      interfaces.PriceProvider
	maxEntries int

	mu      sync.Mutex
	entries map[string][]types.Candle
	order   []string
}

var _ interfaces.PriceProvider = (*CachedProvider)(nil)

func NewCachedProvider(inner interfaces.PriceProvider, maxEntries int) *CachedProvider {
	if maxEntries <= 0 {
		maxEntries = 64
	}
	return &CachedProvider{
		inner:      inner,
		maxEntries: maxEntries,
		entries:    make(map[string][]types.Candle),
	}
}

func (c *CachedProvider) GetPrices(ctx context.Context, ticker string, start, end time.Time) ([]types.Candle, error) {
	key := cacheKey(ticker, start, end)

	c.mu.Lock()
	if candles, ok := c.entries[key]; ok {
		c.mu.Unlock()
		logger.Debug(ctx, "price cache hit", "ticker", ticker, "candles", len(candles))
		return candles, nil
	}
	c.mu.Unlock()

	candles, err := c.inner.GetPrices(ctx, ticker, start, end)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if _, ok := c.entries[key]; !ok {
		if len(c.order) >= c.maxEntries {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}
		c.entries[key] = candles
		c.order = append(c.order, key)
	}
	c.mu.Unlock()

	return candles, nil
}

// Len reports the number of cached series.
func (c *CachedProvider) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func cacheKey(ticker string, start, end time.Time) string {
	return fmt.Sprintf("%s|%s|%s", ticker, start.Format(csvDateLayout), end.Format(csvDateLayout))
}
