package interfaces

import (
	"context"

	"llm-hedge-fund/internal/types"
)

// Analyst is a pure scoring function over an immutable market snapshot.
// Implementations must not keep mutable state between calls.
type Analyst interface {
	Name() string
	Analyze(ctx context.Context, snapshot types.MarketSnapshot) (map[string]types.AgentSignal, error)
}
