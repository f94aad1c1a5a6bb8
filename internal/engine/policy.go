package engine

import (
	"github.com/shopspring/decimal"

	"llm-hedge-fund/internal/interfaces"
	"llm-hedge-fund/internal/types"
)

// ConfidencePolicy is the default signal-to-order translation: act only
// on signals at or above a confidence threshold, sizing new positions
// as a fixed fraction of total portfolio value. A bullish signal covers
// any open short before buying; a bearish signal exits a long before
// considering a new short.
type ConfidencePolicy struct {
	Threshold     float64
	OrderFraction decimal.Decimal
	AllowShort    bool
}

var _ interfaces.OrderPolicy = ConfidencePolicy{}

func NewConfidencePolicy(threshold, orderFraction float64, allowShort bool) ConfidencePolicy {
	return ConfidencePolicy{
		Threshold:     threshold,
		OrderFraction: decimal.NewFromFloat(orderFraction),
		AllowShort:    allowShort,
	}
}

func (p ConfidencePolicy) Propose(ticker string, signal types.Signal, price decimal.Decimal, view types.PortfolioView) types.Order {
	hold := types.Order{Ticker: ticker, Action: types.Hold, Price: price}
	if signal.Stance == types.Neutral || signal.Confidence < p.Threshold {
		return hold
	}
	if !price.IsPositive() {
		return hold
	}

	pos := view.Positions[ticker]
	budget := view.TotalValue.Mul(p.OrderFraction)
	qty := budget.Div(price).Floor().IntPart()

	switch signal.Stance {
	case types.Bullish:
		if pos.ShortShares > 0 {
			return types.Order{Ticker: ticker, Action: types.Cover, Quantity: pos.ShortShares, Price: price}
		}
		if qty > 0 {
			return types.Order{Ticker: ticker, Action: types.Buy, Quantity: qty, Price: price}
		}
	case types.Bearish:
		if pos.LongShares > 0 {
			return types.Order{Ticker: ticker, Action: types.Sell, Quantity: pos.LongShares, Price: price}
		}
		if p.AllowShort && qty > 0 {
			return types.Order{Ticker: ticker, Action: types.Short, Quantity: qty, Price: price}
		}
	}
	return hold
}
