package portfolio

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"llm-hedge-fund/internal/types"
)

var day = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

func d(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func newTestLedger(cash float64) *Ledger {
	return NewLedger(d(cash), d(0.5))
}

func TestBuySellCashExact(t *testing.T) {
	l := newTestLedger(100000)
	prices := map[string]decimal.Decimal{"AAPL": d(100)}

	tr, err := l.Apply(day, types.Order{Ticker: "AAPL", Action: types.Buy, Quantity: 100, Price: d(100)}, prices)
	if err != nil {
		t.Fatalf("unexpected buy error: %v", err)
	}
	if tr.Executed != 100 {
		t.Fatalf("expected 100 shares executed, got %d", tr.Executed)
	}
	if !l.Cash().Equal(d(90000)) {
		t.Fatalf("expected cash 90000, got %s", l.Cash())
	}

	tr, err = l.Apply(day, types.Order{Ticker: "AAPL", Action: types.Sell, Quantity: 40, Price: d(110)}, prices)
	if err != nil {
		t.Fatalf("unexpected sell error: %v", err)
	}
	if tr.Executed != 40 {
		t.Fatalf("expected 40 shares sold, got %d", tr.Executed)
	}
	// 90000 + 40*110 exactly, no float drift.
	if !l.Cash().Equal(d(94400)) {
		t.Fatalf("expected cash 94400, got %s", l.Cash())
	}
	if got := l.Position("AAPL").LongShares; got != 60 {
		t.Fatalf("expected 60 long shares, got %d", got)
	}
}

func TestBuyCostBasisWeightedAverage(t *testing.T) {
	l := newTestLedger(100000)
	prices := map[string]decimal.Decimal{"MSFT": d(100)}

	mustApply(t, l, types.Order{Ticker: "MSFT", Action: types.Buy, Quantity: 100, Price: d(100)}, prices)
	mustApply(t, l, types.Order{Ticker: "MSFT", Action: types.Buy, Quantity: 100, Price: d(120)}, prices)

	if basis := l.Position("MSFT").LongCostBasis; !basis.Equal(d(110)) {
		t.Fatalf("expected cost basis 110, got %s", basis)
	}

	// Selling the whole position resets the basis for future buys.
	mustApply(t, l, types.Order{Ticker: "MSFT", Action: types.Sell, Quantity: 200, Price: d(115)}, prices)
	if basis := l.Position("MSFT").LongCostBasis; !basis.IsZero() {
		t.Fatalf("expected cost basis reset to zero, got %s", basis)
	}
}

func TestSellClipsToHeldShares(t *testing.T) {
	l := newTestLedger(100000)
	prices := map[string]decimal.Decimal{"AAPL": d(50)}

	mustApply(t, l, types.Order{Ticker: "AAPL", Action: types.Buy, Quantity: 10, Price: d(50)}, prices)

	tr, err := l.Apply(day, types.Order{Ticker: "AAPL", Action: types.Sell, Quantity: 25, Price: d(50)}, prices)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.Executed != 10 {
		t.Fatalf("expected clip to 10 shares, got %d", tr.Executed)
	}
	if got := l.Position("AAPL").LongShares; got != 0 {
		t.Fatalf("long shares went negative-ish: %d", got)
	}
}

func TestBuyInsufficientCashAtomic(t *testing.T) {
	l := newTestLedger(1000)
	prices := map[string]decimal.Decimal{"AAPL": d(100)}

	_, err := l.Apply(day, types.Order{Ticker: "AAPL", Action: types.Buy, Quantity: 11, Price: d(100)}, prices)
	if !errors.Is(err, ErrInsufficientCash) {
		t.Fatalf("expected ErrInsufficientCash, got %v", err)
	}
	if !l.Cash().Equal(d(1000)) {
		t.Fatalf("cash changed on rejected trade: %s", l.Cash())
	}
	if got := l.Position("AAPL").LongShares; got != 0 {
		t.Fatalf("shares changed on rejected trade: %d", got)
	}
}

func TestShortMarginAndCover(t *testing.T) {
	l := newTestLedger(100000)
	prices := map[string]decimal.Decimal{"TSLA": d(200)}

	tr, err := l.Apply(day, types.Order{Ticker: "TSLA", Action: types.Short, Quantity: 100, Price: d(200)}, prices)
	if err != nil {
		t.Fatalf("unexpected short error: %v", err)
	}
	if tr.Executed != 100 {
		t.Fatalf("expected 100 shares shorted, got %d", tr.Executed)
	}
	if !l.Cash().Equal(d(100000)) {
		t.Fatalf("shorting must not change cash, got %s", l.Cash())
	}
	if !l.MarginUsed().Equal(d(20000)) {
		t.Fatalf("expected margin used 20000, got %s", l.MarginUsed())
	}

	// Cover half at a lower price.
	tr, err = l.Apply(day, types.Order{Ticker: "TSLA", Action: types.Cover, Quantity: 50, Price: d(150)}, prices)
	if err != nil {
		t.Fatalf("unexpected cover error: %v", err)
	}
	if tr.Executed != 50 {
		t.Fatalf("expected 50 covered, got %d", tr.Executed)
	}
	if !l.Cash().Equal(d(92500)) {
		t.Fatalf("expected cash 92500 after cover, got %s", l.Cash())
	}
	if !l.MarginUsed().Equal(d(10000)) {
		t.Fatalf("expected margin released to 10000, got %s", l.MarginUsed())
	}
	if got := l.Position("TSLA").ShortShares; got != 50 {
		t.Fatalf("expected 50 short shares, got %d", got)
	}
}

func TestShortMarginExceededLeavesStateUnchanged(t *testing.T) {
	l := newTestLedger(10000)
	prices := map[string]decimal.Decimal{"NVDA": d(100)}

	// Margin limit is 0.5 * 10000 = 5000. 60 shares at 100 needs 6000.
	_, err := l.Apply(day, types.Order{Ticker: "NVDA", Action: types.Short, Quantity: 60, Price: d(100)}, prices)
	if !errors.Is(err, ErrMarginExceeded) {
		t.Fatalf("expected ErrMarginExceeded, got %v", err)
	}
	if !l.MarginUsed().IsZero() {
		t.Fatalf("margin changed on rejected short: %s", l.MarginUsed())
	}
	if got := l.Position("NVDA").ShortShares; got != 0 {
		t.Fatalf("short shares changed on rejected trade: %d", got)
	}
	if !l.Cash().Equal(d(10000)) {
		t.Fatalf("cash changed on rejected trade: %s", l.Cash())
	}
}

func TestCoverClipsToShortShares(t *testing.T) {
	l := newTestLedger(100000)
	prices := map[string]decimal.Decimal{"AMD": d(100)}

	mustApply(t, l, types.Order{Ticker: "AMD", Action: types.Short, Quantity: 30, Price: d(100)}, prices)

	tr, err := l.Apply(day, types.Order{Ticker: "AMD", Action: types.Cover, Quantity: 100, Price: d(90)}, prices)
	if err != nil {
		t.Fatalf("unexpected cover error: %v", err)
	}
	if tr.Executed != 30 {
		t.Fatalf("expected clip to 30 shares, got %d", tr.Executed)
	}
	if !l.MarginUsed().IsZero() {
		t.Fatalf("expected all margin released, got %s", l.MarginUsed())
	}
	if basis := l.Position("AMD").ShortCostBasis; !basis.IsZero() {
		t.Fatalf("expected short basis reset, got %s", basis)
	}
}

func TestHoldIsNoOp(t *testing.T) {
	l := newTestLedger(5000)
	prices := map[string]decimal.Decimal{}

	tr, err := l.Apply(day, types.Order{Ticker: "AAPL", Action: types.Hold}, prices)
	if err != nil {
		t.Fatalf("hold must always succeed: %v", err)
	}
	if tr.Executed != 0 {
		t.Fatalf("hold executed shares: %d", tr.Executed)
	}
	if !l.Cash().Equal(d(5000)) {
		t.Fatalf("hold changed cash: %s", l.Cash())
	}
}

func TestValueAtMarksShortsToMarket(t *testing.T) {
	l := newTestLedger(100000)
	open := map[string]decimal.Decimal{"AAPL": d(100), "TSLA": d(200)}

	mustApply(t, l, types.Order{Ticker: "AAPL", Action: types.Buy, Quantity: 100, Price: d(100)}, open)
	mustApply(t, l, types.Order{Ticker: "TSLA", Action: types.Short, Quantity: 50, Price: d(200)}, open)

	// Next day: AAPL up to 110, TSLA down to 180.
	marks := map[string]decimal.Decimal{"AAPL": d(110), "TSLA": d(180)}
	v := l.ValueAt(day, marks)

	if !v.Cash.Equal(d(90000)) {
		t.Fatalf("expected cash 90000, got %s", v.Cash)
	}
	if !v.PositionsValue.Equal(d(11000)) {
		t.Fatalf("expected positions value 11000, got %s", v.PositionsValue)
	}
	if !v.ShortLiability.Equal(d(9000)) {
		t.Fatalf("expected short liability 9000, got %s", v.ShortLiability)
	}
	if !v.TotalValue.Equal(d(92000)) {
		t.Fatalf("expected total 92000, got %s", v.TotalValue)
	}
}

func TestExposureCombinesLongAndShort(t *testing.T) {
	l := newTestLedger(100000)
	prices := map[string]decimal.Decimal{"GOOG": d(100)}

	mustApply(t, l, types.Order{Ticker: "GOOG", Action: types.Buy, Quantity: 50, Price: d(100)}, prices)
	mustApply(t, l, types.Order{Ticker: "GOOG", Action: types.Short, Quantity: 20, Price: d(100)}, prices)

	if exp := l.Exposure("GOOG", d(100)); !exp.Equal(d(7000)) {
		t.Fatalf("expected exposure 7000, got %s", exp)
	}
	if exp := l.Exposure("MISSING", d(100)); !exp.IsZero() {
		t.Fatalf("expected zero exposure for unknown ticker, got %s", exp)
	}
}

func mustApply(t *testing.T, l *Ledger, o types.Order, prices map[string]decimal.Decimal) types.Trade {
	t.Helper()
	tr, err := l.Apply(day, o, prices)
	if err != nil {
		t.Fatalf("apply %s %s: %v", o.Action, o.Ticker, err)
	}
	return tr
}
