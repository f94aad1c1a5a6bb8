package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"llm-hedge-fund/internal/portfolio"
	"llm-hedge-fund/internal/risk"
	"llm-hedge-fund/internal/types"
)

func newTestExecutor(cash float64, maxFraction float64) *orderExecutor {
	ledger := portfolio.NewLedger(decimal.NewFromFloat(cash), decimal.NewFromFloat(0.5))
	return newOrderExecutor(ledger, risk.NewLimits(maxFraction, 0.5))
}

func TestExecuteClipsBuyToPositionCap(t *testing.T) {
	oe := newTestExecutor(100000, 0.05)
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	prices := map[string]decimal.Decimal{"AAPL": decimal.NewFromInt(100)}

	trade, err := oe.execute(context.Background(), day, types.Order{
		Ticker: "AAPL", Action: types.Buy, Quantity: 100,
	}, prices)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	// 5% of 100000 is 5000, so at most 50 shares at 100.
	if trade.Executed != 50 {
		t.Errorf("executed = %d, want 50", trade.Executed)
	}
	if trade.Requested != 100 {
		t.Errorf("requested = %d, want 100", trade.Requested)
	}
}

func TestExecuteHoldsWhenCapIsFull(t *testing.T) {
	oe := newTestExecutor(100000, 0.05)
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	prices := map[string]decimal.Decimal{"AAPL": decimal.NewFromInt(100)}

	if _, err := oe.execute(context.Background(), day, types.Order{
		Ticker: "AAPL", Action: types.Buy, Quantity: 50,
	}, prices); err != nil {
		t.Fatalf("first buy: %v", err)
	}

	trade, err := oe.execute(context.Background(), day, types.Order{
		Ticker: "AAPL", Action: types.Buy, Quantity: 10,
	}, prices)
	if err != nil {
		t.Fatalf("second buy: %v", err)
	}
	if trade.Action != types.Hold || trade.Executed != 0 {
		t.Errorf("trade = %s %d, want HOLD 0", trade.Action, trade.Executed)
	}
}

func TestExecuteMissingPrice(t *testing.T) {
	oe := newTestExecutor(100000, 0.20)
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	trade, err := oe.execute(context.Background(), day, types.Order{
		Ticker: "AAPL", Action: types.Buy, Quantity: 10,
	}, map[string]decimal.Decimal{})
	if !errors.Is(err, ErrNoPriceData) {
		t.Fatalf("expected ErrNoPriceData, got %v", err)
	}
	if trade.Action != types.Hold {
		t.Errorf("action = %s, want HOLD", trade.Action)
	}
}

func TestExecuteSellNotClipped(t *testing.T) {
	oe := newTestExecutor(100000, 0.05)
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	prices := map[string]decimal.Decimal{"AAPL": decimal.NewFromInt(100)}

	if _, err := oe.execute(context.Background(), day, types.Order{
		Ticker: "AAPL", Action: types.Buy, Quantity: 50,
	}, prices); err != nil {
		t.Fatalf("buy: %v", err)
	}

	trade, err := oe.execute(context.Background(), day, types.Order{
		Ticker: "AAPL", Action: types.Sell, Quantity: 50,
	}, prices)
	if err != nil {
		t.Fatalf("sell: %v", err)
	}
	if trade.Executed != 50 {
		t.Errorf("executed = %d, want 50", trade.Executed)
	}
}
