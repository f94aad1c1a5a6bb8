package engine

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"llm-hedge-fund/internal/logger"
	"llm-hedge-fund/internal/portfolio"
	"llm-hedge-fund/internal/risk"
	"llm-hedge-fund/internal/types"
)

// orderExecutor sizes orders against the risk limits and delegates the
// clipped order to the ledger. It is the only writer of ledger state;
// the simulation loop calls it strictly one order at a time.
type orderExecutor struct {
	ledger *portfolio.Ledger
	limits risk.Limits
}

func newOrderExecutor(ledger *portfolio.Ledger, limits risk.Limits) *orderExecutor {
	return &orderExecutor{ledger: ledger, limits: limits}
}

// execute runs one order at the day's prices. Buys and shorts are first
// clipped so the ticker's exposure stays under the position cap; an
// allowance of zero converts the order to a hold instead of erroring.
// Ledger rejections come back as errors; the caller records them and
// treats the order as a hold.
func (oe *orderExecutor) execute(ctx context.Context, day time.Time, o types.Order, prices map[string]decimal.Decimal) (types.Trade, error) {
	price, ok := prices[o.Ticker]
	if !ok || !price.IsPositive() {
		return types.Trade{Day: day, Ticker: o.Ticker, Action: types.Hold, Requested: o.Quantity}, ErrNoPriceData
	}
	o.Price = price
	requested := o.Quantity

	if o.Action == types.Buy || o.Action == types.Short {
		total := oe.ledger.TotalValue(prices)
		exposure := oe.ledger.Exposure(o.Ticker, price)
		allowed := oe.limits.MaxAllowed(total, exposure)
		maxQty := oe.limits.MaxShares(allowed, price)

		if maxQty == 0 {
			logger.Risk(ctx, o.Ticker, "POSITION_LIMIT_FULL",
				"action", string(o.Action),
				"requested", o.Quantity,
				"exposure", exposure.String(),
				"portfolio_value", total.String(),
			)
			return types.Trade{Day: day, Ticker: o.Ticker, Action: types.Hold, Requested: o.Quantity, Price: price}, nil
		}
		if o.Quantity > maxQty {
			logger.Risk(ctx, o.Ticker, "ORDER_CLIPPED",
				"action", string(o.Action),
				"requested", o.Quantity,
				"clipped_to", maxQty,
			)
			o.Quantity = maxQty
		}
	}

	trade, err := oe.ledger.Apply(day, o, prices)
	trade.Requested = requested
	if err != nil {
		return trade, err
	}

	if trade.Executed > 0 {
		logger.Trade(ctx, trade.Ticker, string(trade.Action), trade.Executed, trade.Price.String(),
			"cash_delta", trade.CashDelta.String(),
		)
	}
	return trade, nil
}
