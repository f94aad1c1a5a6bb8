package agents

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"

	"llm-hedge-fund/internal/interfaces"
	"llm-hedge-fund/internal/types"
)

// HeadlineFetcher returns recent news headlines for a ticker.
type HeadlineFetcher interface {
	FetchHeadlines(ctx context.Context, ticker string) ([]string, error)
}

// SentimentAnalyst scores tickers from news headlines using keyword
// patterns. A fetch failure makes the ticker neutral for the day rather
// than failing the whole analyst.
type SentimentAnalyst struct {
	fetcher         HeadlineFetcher
	bullishPatterns []*regexp.Regexp
	bearishPatterns []*regexp.Regexp
}

var _ interfaces.Analyst = (*SentimentAnalyst)(nil)

func NewSentimentAnalyst(fetcher HeadlineFetcher) *SentimentAnalyst {
	return &SentimentAnalyst{
		fetcher: fetcher,
		bullishPatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(beat|beats|surge|surges|rally|record|upgrade|upgraded|growth|profit|gains?)\b`),
			regexp.MustCompile(`(?i)\b(undervalued|oversold|buyback|dividend hike|outperform)\b`),
		},
		bearishPatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(miss|misses|plunge|plunges|slump|downgrade|downgraded|loss|losses|lawsuit|probe)\b`),
			regexp.MustCompile(`(?i)\b(overvalued|overbought|layoffs?|recall|bankruptcy|underperform)\b`),
		},
	}
}

func (*SentimentAnalyst) Name() string { return "sentiment" }

func (s *SentimentAnalyst) Analyze(ctx context.Context, snapshot types.MarketSnapshot) (map[string]types.AgentSignal, error) {
	out := make(map[string]types.AgentSignal, len(snapshot.Tickers))
	for _, ticker := range snapshot.Tickers {
		signal := types.AgentSignal{Agent: s.Name(), Stance: types.Neutral}

		headlines, err := s.fetcher.FetchHeadlines(ctx, ticker)
		if err != nil || len(headlines) == 0 {
			signal.Reasoning = "no headlines available"
			out[ticker] = signal
			continue
		}

		text := strings.ToLower(strings.Join(headlines, " "))
		pos := countMatches(s.bullishPatterns, text)
		neg := countMatches(s.bearishPatterns, text)

		if pos+neg == 0 {
			signal.Reasoning = fmt.Sprintf("%d headlines, no sentiment keywords", len(headlines))
			out[ticker] = signal
			continue
		}

		score := float64(pos-neg) / float64(pos+neg)
		switch {
		case score > 0:
			signal.Stance = types.Bullish
		case score < 0:
			signal.Stance = types.Bearish
		}
		signal.Confidence = math.Abs(score) * 100
		signal.Reasoning = fmt.Sprintf("%d headlines, %d bullish vs %d bearish keywords", len(headlines), pos, neg)
		out[ticker] = signal
	}
	return out, nil
}

func countMatches(patterns []*regexp.Regexp, text string) int {
	count := 0
	for _, p := range patterns {
		count += len(p.FindAllString(text, -1))
	}
	return count
}
