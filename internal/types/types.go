package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Candle is one daily OHLCV record for a ticker.
type Candle struct {
	Date   time.Time
	Open   decimal.Decimal
	High   decimal.Decimal
	Low    decimal.Decimal
	Close  decimal.Decimal
	Volume int64
}

// Stance is an analyst's directional view on a ticker.
type Stance string

const (
	Bullish Stance = "BULLISH"
	Bearish Stance = "BEARISH"
	Neutral Stance = "NEUTRAL"
)

// AgentSignal is one analyst's view on one ticker for one day.
// Confidence is 0-100.
type AgentSignal struct {
	Agent      string  `json:"agent"`
	Stance     Stance  `json:"stance"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning,omitempty"`
}

// Signal is the per-ticker consensus after combining agent signals.
type Signal struct {
	Stance     Stance  `json:"stance"`
	Confidence float64 `json:"confidence"`
}

// Action is what an order asks the ledger to do.
type Action string

const (
	Buy   Action = "BUY"
	Sell  Action = "SELL"
	Short Action = "SHORT"
	Cover Action = "COVER"
	Hold  Action = "HOLD"
)

// Order is a proposed trade. Quantity is whole shares.
type Order struct {
	Ticker   string
	Action   Action
	Quantity int64
	Price    decimal.Decimal
}

// Trade is an order that passed validation and was applied to the ledger.
// Executed may be lower than Requested when limits clipped the order.
type Trade struct {
	Day       time.Time       `json:"day"`
	Ticker    string          `json:"ticker"`
	Action    Action          `json:"action"`
	Requested int64           `json:"requested"`
	Executed  int64           `json:"executed"`
	Price     decimal.Decimal `json:"price"`
	CashDelta decimal.Decimal `json:"cash_delta"`
}

// PositionView is a read-only copy of one ticker's position.
type PositionView struct {
	LongShares     int64
	LongCostBasis  decimal.Decimal
	ShortShares    int64
	ShortCostBasis decimal.Decimal
}

// PortfolioView is a read-only snapshot of the ledger, marked to the
// supplied prices. Consumed by order policies.
type PortfolioView struct {
	Cash       decimal.Decimal
	TotalValue decimal.Decimal
	MarginUsed decimal.Decimal
	Positions  map[string]PositionView
}

// DailyValuation is one end-of-day mark of the whole portfolio.
type DailyValuation struct {
	Date           time.Time       `json:"date"`
	Cash           decimal.Decimal `json:"cash"`
	PositionsValue decimal.Decimal `json:"positions_value"`
	ShortLiability decimal.Decimal `json:"short_liability"`
	TotalValue     decimal.Decimal `json:"total_value"`
}

// MarketSnapshot is what analysts see on a given day: per-ticker candle
// history up to and including that day. Analysts must treat it as
// immutable.
type MarketSnapshot struct {
	Date    time.Time
	Tickers []string
	History map[string][]Candle
}

// Closes returns the closing-price series for a ticker as float64s,
// oldest first. Convenience for indicator math.
func (s MarketSnapshot) Closes(ticker string) []float64 {
	candles := s.History[ticker]
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Close.InexactFloat64()
	}
	return out
}

// PerformanceReport summarizes a completed backtest.
type PerformanceReport struct {
	TotalReturn  float64 `json:"total_return"`
	SharpeRatio  float64 `json:"sharpe_ratio"`
	MaxDrawdown  float64 `json:"max_drawdown"`
	WinRate      float64 `json:"win_rate"`
	TradingDays  int     `json:"trading_days"`
	InitialValue float64 `json:"initial_value"`
	FinalValue   float64 `json:"final_value"`
}

// BacktestResult is the full output of one run.
type BacktestResult struct {
	Valuations []DailyValuation  `json:"valuations"`
	Trades     []Trade           `json:"trades"`
	Report     PerformanceReport `json:"report"`
}
