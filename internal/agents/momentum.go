package agents

import (
	"context"
	"fmt"
	"math"

	"llm-hedge-fund/internal/interfaces"
	"llm-hedge-fund/internal/ta"
	"llm-hedge-fund/internal/types"
)

// momentumThreshold is the trailing return below which a move is noise.
const momentumThreshold = 0.02

// MomentumAnalyst scores each ticker on its trailing return over a
// configured window.
type MomentumAnalyst struct {
	Window int
}

var _ interfaces.Analyst = MomentumAnalyst{}

func NewMomentumAnalyst(window int) MomentumAnalyst {
	return MomentumAnalyst{Window: window}
}

func (MomentumAnalyst) Name() string { return "momentum" }

func (m MomentumAnalyst) Analyze(_ context.Context, snapshot types.MarketSnapshot) (map[string]types.AgentSignal, error) {
	out := make(map[string]types.AgentSignal, len(snapshot.Tickers))
	for _, ticker := range snapshot.Tickers {
		signal := types.AgentSignal{Agent: m.Name(), Stance: types.Neutral}

		mom := ta.Momentum(snapshot.Closes(ticker), m.Window)
		if math.IsNaN(mom) {
			signal.Reasoning = "insufficient history for momentum window"
			out[ticker] = signal
			continue
		}

		switch {
		case mom > momentumThreshold:
			signal.Stance = types.Bullish
		case mom < -momentumThreshold:
			signal.Stance = types.Bearish
		}
		signal.Confidence = math.Min(95, math.Abs(mom)*500)
		signal.Reasoning = fmt.Sprintf("trailing %d-day return %.2f%%", m.Window, mom*100)
		out[ticker] = signal
	}
	return out, nil
}
