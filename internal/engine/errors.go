package engine

import "errors"

var (
	// ErrEmptyDateRange aborts a run whose requested range contains no days.
	ErrEmptyDateRange = errors.New("empty date range")

	// ErrNoMarketData aborts a run when no ticker has a single price
	// observation inside the range.
	ErrNoMarketData = errors.New("no market data in range")

	// ErrNoPriceData rejects an order for a ticker with no usable price
	// on the current day. The order degrades to a hold.
	ErrNoPriceData = errors.New("no price data for ticker")
)
