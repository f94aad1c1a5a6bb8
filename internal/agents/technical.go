package agents

import (
	"context"
	"fmt"
	"math"

	"llm-hedge-fund/internal/interfaces"
	"llm-hedge-fund/internal/ta"
	"llm-hedge-fund/internal/types"
)

// TechnicalAnalyst scores each ticker from indicator readings: RSI
// extremes, fast/slow SMA trend and Bollinger band breaks. Confidence
// is the share of indicators agreeing on a direction.
type TechnicalAnalyst struct {
	RSIPeriod int
	SMAFast   int
	SMASlow   int
}

var _ interfaces.Analyst = TechnicalAnalyst{}

func NewTechnicalAnalyst(rsiPeriod, smaFast, smaSlow int) TechnicalAnalyst {
	return TechnicalAnalyst{RSIPeriod: rsiPeriod, SMAFast: smaFast, SMASlow: smaSlow}
}

func (TechnicalAnalyst) Name() string { return "technical" }

func (t TechnicalAnalyst) Analyze(_ context.Context, snapshot types.MarketSnapshot) (map[string]types.AgentSignal, error) {
	out := make(map[string]types.AgentSignal, len(snapshot.Tickers))
	for _, ticker := range snapshot.Tickers {
		out[ticker] = t.scoreTicker(snapshot.Closes(ticker))
	}
	return out, nil
}

func (t TechnicalAnalyst) scoreTicker(closes []float64) types.AgentSignal {
	signal := types.AgentSignal{Agent: t.Name(), Stance: types.Neutral}
	if len(closes) == 0 {
		signal.Reasoning = "no price history"
		return signal
	}
	price := closes[len(closes)-1]

	score := 0.0
	used := 0

	rsi := ta.RSI(closes, t.RSIPeriod)
	if !math.IsNaN(rsi) {
		used++
		if rsi < 30 {
			score++
		} else if rsi > 70 {
			score--
		}
	}

	fast := ta.SMA(closes, t.SMAFast)
	slow := ta.SMA(closes, t.SMASlow)
	if !math.IsNaN(fast) && !math.IsNaN(slow) {
		used++
		if fast > slow {
			score++
		} else if fast < slow {
			score--
		}
	}

	_, upper, lower := ta.Bollinger(closes, t.SMAFast, 2.0)
	if !math.IsNaN(upper) && !math.IsNaN(lower) {
		used++
		if price < lower {
			score++
		} else if price > upper {
			score--
		}
	}

	if used == 0 {
		signal.Reasoning = "insufficient history for indicators"
		return signal
	}

	switch {
	case score > 0:
		signal.Stance = types.Bullish
	case score < 0:
		signal.Stance = types.Bearish
	}
	signal.Confidence = math.Abs(score) / float64(used) * 100
	signal.Reasoning = fmt.Sprintf("rsi=%.1f fast=%.2f slow=%.2f score=%.0f/%d", rsi, fast, slow, score, used)
	return signal
}
