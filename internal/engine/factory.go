package engine

import (
	"llm-hedge-fund/internal/interfaces"
	"llm-hedge-fund/internal/store"
	"llm-hedge-fund/internal/tradelog"
)

func New(cfg *store.Config, provider interfaces.PriceProvider, aggregator interfaces.SignalAggregator, policy interfaces.OrderPolicy, recorder *tradelog.Recorder) interfaces.Backtester {
	return newBacktester(cfg, provider, aggregator, policy, recorder)
}
