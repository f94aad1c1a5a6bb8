package agents

import (
	"context"
	"sort"

	"llm-hedge-fund/internal/interfaces"
	"llm-hedge-fund/internal/logger"
	"llm-hedge-fund/internal/types"
)

// Aggregator fans a market snapshot out to every analyst concurrently
// and collects their per-ticker signals. Analysts are independent pure
// functions, so the fan-out carries no shared mutable state; the merge
// step re-sorts by agent name to keep the output deterministic.
type Aggregator struct {
	analysts []interfaces.Analyst
}

var _ interfaces.SignalAggregator = (*Aggregator)(nil)

func NewAggregator(analysts ...interfaces.Analyst) *Aggregator {
	return &Aggregator{analysts: analysts}
}

type analystResult struct {
	name    string
	signals map[string]types.AgentSignal
	err     error
}

// GetSignals returns every analyst's view per ticker. An analyst that
// fails contributes nothing for the day; that is a data-unavailable
// condition, not an error for the whole pipeline.
func (a *Aggregator) GetSignals(ctx context.Context, snapshot types.MarketSnapshot) (map[string][]types.AgentSignal, error) {
	results := make(chan analystResult, len(a.analysts))
	for _, analyst := range a.analysts {
		go func(an interfaces.Analyst) {
			signals, err := an.Analyze(ctx, snapshot)
			results <- analystResult{name: an.Name(), signals: signals, err: err}
		}(analyst)
	}

	out := make(map[string][]types.AgentSignal, len(snapshot.Tickers))
	for range a.analysts {
		res := <-results
		if res.err != nil {
			logger.Warn(ctx, "Analyst failed, skipping its signals",
				"agent", res.name,
				"error", res.err,
			)
			continue
		}
		for ticker, signal := range res.signals {
			out[ticker] = append(out[ticker], signal)
		}
	}

	for ticker := range out {
		signals := out[ticker]
		sort.Slice(signals, func(i, j int) bool { return signals[i].Agent < signals[j].Agent })
	}
	return out, nil
}

// Combine merges agent signals into one consensus by confidence-weighted
// vote. The consensus confidence is the winning side's share of total
// confidence, scaled to 0-100.
func (a *Aggregator) Combine(signals []types.AgentSignal) types.Signal {
	var bull, bear, neutral float64
	for _, s := range signals {
		switch s.Stance {
		case types.Bullish:
			bull += s.Confidence
		case types.Bearish:
			bear += s.Confidence
		default:
			neutral += s.Confidence
		}
	}

	total := bull + bear + neutral
	if total == 0 {
		return types.Signal{Stance: types.Neutral}
	}

	switch {
	case bull > bear && bull > neutral:
		return types.Signal{Stance: types.Bullish, Confidence: bull / total * 100}
	case bear > bull && bear > neutral:
		return types.Signal{Stance: types.Bearish, Confidence: bear / total * 100}
	default:
		max := neutral
		if bull > max {
			max = bull
		}
		if bear > max {
			max = bear
		}
		return types.Signal{Stance: types.Neutral, Confidence: max / total * 100}
	}
}
