// Package perf turns the daily valuation series of a completed backtest
// into summary statistics.
package perf

import (
	"errors"
	"math"

	"llm-hedge-fund/internal/types"
)

// tradingDaysPerYear annualizes daily Sharpe.
const tradingDaysPerYear = 252

// ErrInsufficientHistory is returned when fewer than two valuations
// exist, so no daily return can be computed.
var ErrInsufficientHistory = errors.New("insufficient valuation history")

// Summarize computes total return, annualized Sharpe ratio, max drawdown
// and win rate over an ordered valuation series.
//
// The Sharpe ratio uses the sample standard deviation (n-1) of daily
// returns and degenerates to 0 when the deviation is 0. Max drawdown is
// the deepest peak-to-trough decline, reported as a negative fraction.
func Summarize(valuations []types.DailyValuation) (types.PerformanceReport, error) {
	if len(valuations) < 2 {
		return types.PerformanceReport{}, ErrInsufficientHistory
	}

	values := make([]float64, len(valuations))
	for i, v := range valuations {
		values[i] = v.TotalValue.InexactFloat64()
	}

	returns := make([]float64, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		if values[i-1] == 0 {
			returns = append(returns, 0)
			continue
		}
		returns = append(returns, (values[i]-values[i-1])/values[i-1])
	}

	report := types.PerformanceReport{
		TradingDays:  len(valuations),
		InitialValue: values[0],
		FinalValue:   values[len(values)-1],
	}
	if values[0] != 0 {
		report.TotalReturn = (values[len(values)-1] - values[0]) / values[0]
	}
	report.SharpeRatio = sharpe(returns)
	report.MaxDrawdown = maxDrawdown(values)
	report.WinRate = winRate(returns)
	return report, nil
}

func sharpe(returns []float64) float64 {
	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	if len(returns) < 2 {
		return 0
	}
	variance := 0.0
	for _, r := range returns {
		d := r - mean
		variance += d * d
	}
	variance /= float64(len(returns) - 1)

	stdev := math.Sqrt(variance)
	if stdev == 0 {
		return 0
	}
	return mean / stdev * math.Sqrt(tradingDaysPerYear)
}

func maxDrawdown(values []float64) float64 {
	peak := values[0]
	worst := 0.0
	for _, v := range values {
		if v > peak {
			peak = v
		}
		if peak > 0 {
			dd := (v - peak) / peak
			if dd < worst {
				worst = dd
			}
		}
	}
	return worst
}

func winRate(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	wins := 0
	for _, r := range returns {
		if r > 0 {
			wins++
		}
	}
	return float64(wins) / float64(len(returns))
}
