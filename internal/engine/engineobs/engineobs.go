package engineobs

import (
	"context"
	"time"

	"llm-hedge-fund/internal/interfaces"
	"llm-hedge-fund/internal/logger"
	"llm-hedge-fund/internal/trace"
	"llm-hedge-fund/internal/types"
)

type observableBacktester struct {
	backtester interfaces.Backtester
}

var _ interfaces.Backtester = (*observableBacktester)(nil)

func Wrap(b interfaces.Backtester) interfaces.Backtester {
	return &observableBacktester{
		backtester: b,
	}
}

func (ob *observableBacktester) Run(ctx context.Context) (*types.BacktestResult, error) {
	ctx, span := trace.StartSpan(ctx, "backtester.Run")
	defer span.End()

	start := time.Now()

	logger.InfoSkip(ctx, 1, "Starting backtest")

	result, err := ob.backtester.Run(ctx)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Backtest failed", err,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	logger.InfoSkip(ctx, 1, "Backtest completed",
		"trading_days", result.Report.TradingDays,
		"trades", len(result.Trades),
		"total_return", result.Report.TotalReturn,
		"sharpe_ratio", result.Report.SharpeRatio,
		"max_drawdown", result.Report.MaxDrawdown,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return result, nil
}
