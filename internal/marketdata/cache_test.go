package marketdata

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"llm-hedge-fund/internal/types"
)

type countingProvider struct {
	calls int
}

func (p *countingProvider) GetPrices(_ context.Context, ticker string, start, end time.Time) ([]types.Candle, error) {
	p.calls++
	return []types.Candle{{
		Date:  start,
		Close: decimal.NewFromInt(100),
	}}, nil
}

func TestCachedProviderMemoizes(t *testing.T) {
	inner := &countingProvider{}
	cache := NewCachedProvider(inner, 8)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		candles, err := cache.GetPrices(context.Background(), "AAPL", start, end)
		if err != nil {
			t.Fatalf("GetPrices: %v", err)
		}
		if len(candles) != 1 {
			t.Fatalf("expected 1 candle, got %d", len(candles))
		}
	}
	if inner.calls != 1 {
		t.Errorf("expected 1 upstream call, got %d", inner.calls)
	}
}

func TestCachedProviderDistinctRanges(t *testing.T) {
	inner := &countingProvider{}
	cache := NewCachedProvider(inner, 8)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ctx := context.Background()

	if _, err := cache.GetPrices(ctx, "AAPL", start, start.AddDate(0, 0, 10)); err != nil {
		t.Fatalf("GetPrices: %v", err)
	}
	if _, err := cache.GetPrices(ctx, "AAPL", start, start.AddDate(0, 0, 20)); err != nil {
		t.Fatalf("GetPrices: %v", err)
	}
	if inner.calls != 2 {
		t.Errorf("expected 2 upstream calls for distinct ranges, got %d", inner.calls)
	}
}

func TestCachedProviderEvictsOldest(t *testing.T) {
	inner := &countingProvider{}
	cache := NewCachedProvider(inner, 2)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	ctx := context.Background()

	for _, ticker := range []string{"AAPL", "MSFT", "NVDA"} {
		if _, err := cache.GetPrices(ctx, ticker, start, end); err != nil {
			t.Fatalf("GetPrices %s: %v", ticker, err)
		}
	}
	if cache.Len() != 2 {
		t.Fatalf("expected 2 cached series, got %d", cache.Len())
	}

	// AAPL was evicted, so this refetches.
	if _, err := cache.GetPrices(ctx, "AAPL", start, end); err != nil {
		t.Fatalf("GetPrices: %v", err)
	}
	if inner.calls != 4 {
		t.Errorf("expected 4 upstream calls after eviction, got %d", inner.calls)
	}
}

func TestCacheKeyStable(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	got := cacheKey("AAPL", start, end)
	want := fmt.Sprintf("AAPL|%s|%s", "2024-01-01", "2024-06-30")
	if got != want {
		t.Errorf("cacheKey = %q, want %q", got, want)
	}
}
