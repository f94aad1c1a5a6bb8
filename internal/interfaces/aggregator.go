package interfaces

import (
	"context"

	"llm-hedge-fund/internal/types"
)

// SignalAggregator collects every analyst's view for one trading day.
// The returned lists are ordered deterministically by agent name.
type SignalAggregator interface {
	GetSignals(ctx context.Context, snapshot types.MarketSnapshot) (map[string][]types.AgentSignal, error)
	Combine(signals []types.AgentSignal) types.Signal
}
