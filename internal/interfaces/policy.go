package interfaces

import (
	"github.com/shopspring/decimal"

	"llm-hedge-fund/internal/types"
)

// OrderPolicy translates per-ticker consensus signals into proposed
// orders against the current portfolio. Prices contains the last known
// close per ticker; tickers without a price get no new orders.
type OrderPolicy interface {
	Propose(ticker string, signal types.Signal, price decimal.Decimal, view types.PortfolioView) types.Order
}
