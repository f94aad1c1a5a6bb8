package portfolio

import (
	"time"

	"github.com/shopspring/decimal"

	"llm-hedge-fund/internal/types"
)

// position tracks one ticker's long and short book. Cost bases are
// running weighted averages and reset to zero when the side is flat.
type position struct {
	longShares     int64
	longCostBasis  decimal.Decimal
	shortShares    int64
	shortCostBasis decimal.Decimal
}

// Ledger is the authoritative portfolio state: cash, per-ticker
// positions and margin backing open shorts. It is a single-writer
// structure; the simulation loop applies trades one at a time. Every
// mutation is validated up front so a failed Apply leaves the state
// untouched.
type Ledger struct {
	cash        decimal.Decimal
	marginUsed  decimal.Decimal
	marginRatio decimal.Decimal
	positions   map[string]*position
}

// NewLedger creates a ledger with the configured starting cash and no
// open positions. marginRatio bounds margin used as a fraction of total
// portfolio value at the moment a short is opened.
func NewLedger(initialCash, marginRatio decimal.Decimal) *Ledger {
	return &Ledger{
		cash:        initialCash,
		marginRatio: marginRatio,
		positions:   make(map[string]*position),
	}
}

func (l *Ledger) pos(ticker string) *position {
	p := l.positions[ticker]
	if p == nil {
		p = &position{}
		l.positions[ticker] = p
	}
	return p
}

// Apply validates and applies one order at the order's price. Quantity
// is clipped against held shares for sells and covers. Buys and shorts
// fail outright when cash or margin cannot back them; the caller decides
// whether that degrades the order to a hold. prices is the current
// per-ticker mark used for the margin check on shorts.
func (l *Ledger) Apply(day time.Time, o types.Order, prices map[string]decimal.Decimal) (types.Trade, error) {
	trade := types.Trade{
		Day:       day,
		Ticker:    o.Ticker,
		Action:    o.Action,
		Requested: o.Quantity,
		Price:     o.Price,
		CashDelta: decimal.Zero,
	}

	if o.Action == types.Hold || o.Quantity <= 0 {
		trade.Action = types.Hold
		return trade, nil
	}

	switch o.Action {
	case types.Buy:
		return l.applyBuy(trade, o)
	case types.Sell:
		return l.applySell(trade, o)
	case types.Short:
		return l.applyShort(trade, o, prices)
	case types.Cover:
		return l.applyCover(trade, o)
	}
	trade.Action = types.Hold
	return trade, nil
}

func (l *Ledger) applyBuy(trade types.Trade, o types.Order) (types.Trade, error) {
	qty := decimal.NewFromInt(o.Quantity)
	cost := o.Price.Mul(qty)
	if cost.GreaterThan(l.cash) {
		return trade, ErrInsufficientCash
	}

	p := l.pos(o.Ticker)
	oldQty := decimal.NewFromInt(p.longShares)
	newShares := p.longShares + o.Quantity
	p.longCostBasis = p.longCostBasis.Mul(oldQty).Add(cost).Div(decimal.NewFromInt(newShares))
	p.longShares = newShares
	l.cash = l.cash.Sub(cost)

	trade.Executed = o.Quantity
	trade.CashDelta = cost.Neg()
	return trade, nil
}

func (l *Ledger) applySell(trade types.Trade, o types.Order) (types.Trade, error) {
	p := l.pos(o.Ticker)
	qty := o.Quantity
	if qty > p.longShares {
		qty = p.longShares
	}
	if qty == 0 {
		trade.Action = types.Hold
		return trade, nil
	}

	proceeds := o.Price.Mul(decimal.NewFromInt(qty))
	l.cash = l.cash.Add(proceeds)
	p.longShares -= qty
	if p.longShares == 0 {
		p.longCostBasis = decimal.Zero
	}

	trade.Executed = qty
	trade.CashDelta = proceeds
	return trade, nil
}

func (l *Ledger) applyShort(trade types.Trade, o types.Order, prices map[string]decimal.Decimal) (types.Trade, error) {
	qty := decimal.NewFromInt(o.Quantity)
	value := o.Price.Mul(qty)
	limit := l.marginRatio.Mul(l.TotalValue(prices))
	if l.marginUsed.Add(value).GreaterThan(limit) {
		return trade, ErrMarginExceeded
	}

	p := l.pos(o.Ticker)
	oldQty := decimal.NewFromInt(p.shortShares)
	newShares := p.shortShares + o.Quantity
	p.shortCostBasis = p.shortCostBasis.Mul(oldQty).Add(value).Div(decimal.NewFromInt(newShares))
	p.shortShares = newShares
	l.marginUsed = l.marginUsed.Add(value)
	// Proceeds are held as margin, so cash is unchanged.

	trade.Executed = o.Quantity
	return trade, nil
}

func (l *Ledger) applyCover(trade types.Trade, o types.Order) (types.Trade, error) {
	p := l.pos(o.Ticker)
	qty := o.Quantity
	if qty > p.shortShares {
		qty = p.shortShares
	}
	if qty == 0 {
		trade.Action = types.Hold
		return trade, nil
	}

	cost := o.Price.Mul(decimal.NewFromInt(qty))
	if cost.GreaterThan(l.cash) {
		return trade, ErrInsufficientCash
	}

	// Release margin in proportion to the shares covered, valued at the
	// short's cost basis.
	release := p.shortCostBasis.Mul(decimal.NewFromInt(qty))
	l.marginUsed = l.marginUsed.Sub(release)
	if l.marginUsed.IsNegative() {
		l.marginUsed = decimal.Zero
	}

	l.cash = l.cash.Sub(cost)
	p.shortShares -= qty
	if p.shortShares == 0 {
		p.shortCostBasis = decimal.Zero
	}

	trade.Executed = qty
	trade.CashDelta = cost.Neg()
	return trade, nil
}

// TotalValue marks the whole portfolio to the supplied prices:
// cash + long value - short liability.
func (l *Ledger) TotalValue(prices map[string]decimal.Decimal) decimal.Decimal {
	total := l.cash
	for ticker, p := range l.positions {
		price, ok := prices[ticker]
		if !ok {
			continue
		}
		total = total.Add(price.Mul(decimal.NewFromInt(p.longShares)))
		total = total.Sub(price.Mul(decimal.NewFromInt(p.shortShares)))
	}
	return total
}

// ValueAt produces the end-of-day valuation record. Short liability is
// marked to the current price, not cost basis; that difference is the
// unrealized short P&L.
func (l *Ledger) ValueAt(date time.Time, prices map[string]decimal.Decimal) types.DailyValuation {
	longValue := decimal.Zero
	shortLiability := decimal.Zero
	for ticker, p := range l.positions {
		price, ok := prices[ticker]
		if !ok {
			continue
		}
		longValue = longValue.Add(price.Mul(decimal.NewFromInt(p.longShares)))
		shortLiability = shortLiability.Add(price.Mul(decimal.NewFromInt(p.shortShares)))
	}
	return types.DailyValuation{
		Date:           date,
		Cash:           l.cash,
		PositionsValue: longValue,
		ShortLiability: shortLiability,
		TotalValue:     l.cash.Add(longValue).Sub(shortLiability),
	}
}

// Exposure returns the ticker's combined long and short value at the
// given price. Used by the risk limiter before sizing new orders.
func (l *Ledger) Exposure(ticker string, price decimal.Decimal) decimal.Decimal {
	p := l.positions[ticker]
	if p == nil {
		return decimal.Zero
	}
	shares := decimal.NewFromInt(p.longShares + p.shortShares)
	return price.Mul(shares)
}

// Cash returns the current free cash balance.
func (l *Ledger) Cash() decimal.Decimal {
	return l.cash
}

// MarginUsed returns the value currently backing open shorts.
func (l *Ledger) MarginUsed() decimal.Decimal {
	return l.marginUsed
}

// Position returns a copy of the ticker's position.
func (l *Ledger) Position(ticker string) types.PositionView {
	p := l.positions[ticker]
	if p == nil {
		return types.PositionView{
			LongCostBasis:  decimal.Zero,
			ShortCostBasis: decimal.Zero,
		}
	}
	return types.PositionView{
		LongShares:     p.longShares,
		LongCostBasis:  p.longCostBasis,
		ShortShares:    p.shortShares,
		ShortCostBasis: p.shortCostBasis,
	}
}

// View builds a read-only snapshot for order policies, marked to the
// supplied prices.
func (l *Ledger) View(prices map[string]decimal.Decimal) types.PortfolioView {
	positions := make(map[string]types.PositionView, len(l.positions))
	for ticker, p := range l.positions {
		if p.longShares == 0 && p.shortShares == 0 {
			continue
		}
		positions[ticker] = types.PositionView{
			LongShares:     p.longShares,
			LongCostBasis:  p.longCostBasis,
			ShortShares:    p.shortShares,
			ShortCostBasis: p.shortCostBasis,
		}
	}
	return types.PortfolioView{
		Cash:       l.cash,
		TotalValue: l.TotalValue(prices),
		MarginUsed: l.marginUsed,
		Positions:  positions,
	}
}
