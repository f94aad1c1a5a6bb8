package risk

import (
	"github.com/shopspring/decimal"
)

// Limits caps how much additional value a single ticker may take on.
// Immutable for the duration of a run.
type Limits struct {
	// MaxPositionFraction is the per-ticker cap as a fraction of total
	// portfolio value. Default 0.20.
	MaxPositionFraction decimal.Decimal

	// MarginRatio bounds margin used for shorts as a fraction of total
	// portfolio value. Enforced by the ledger; carried here so one
	// config object describes all limits.
	MarginRatio decimal.Decimal
}

// NewLimits builds Limits from plain config fractions.
func NewLimits(maxPositionFraction, marginRatio float64) Limits {
	return Limits{
		MaxPositionFraction: decimal.NewFromFloat(maxPositionFraction),
		MarginRatio:         decimal.NewFromFloat(marginRatio),
	}
}

// MaxAllowed returns the additional position value permitted for one
// ticker given the current total portfolio value and the ticker's
// existing exposure. Never negative: positions pushed over the cap by
// market movement are not force-liquidated, they just cannot grow.
func (l Limits) MaxAllowed(portfolioValue, currentExposure decimal.Decimal) decimal.Decimal {
	limit := l.MaxPositionFraction.Mul(portfolioValue)
	allowed := limit.Sub(currentExposure)
	if allowed.IsNegative() {
		return decimal.Zero
	}
	return allowed
}

// MaxShares converts a value allowance into a whole-share quantity at
// the given price, rounding down.
func (l Limits) MaxShares(allowed, price decimal.Decimal) int64 {
	if price.IsZero() || !price.IsPositive() {
		return 0
	}
	return allowed.Div(price).Floor().IntPart()
}
