package interfaces

import (
	"context"

	"llm-hedge-fund/internal/types"
)

type Backtester interface {
	Run(ctx context.Context) (*types.BacktestResult, error)
}
