package portfolio

import "errors"

var (
	// ErrInsufficientCash rejects a buy or cover whose cost exceeds
	// available cash.
	ErrInsufficientCash = errors.New("insufficient cash")

	// ErrMarginExceeded rejects a short that would push margin used over
	// the configured ratio of total portfolio value.
	ErrMarginExceeded = errors.New("margin limit exceeded")
)
