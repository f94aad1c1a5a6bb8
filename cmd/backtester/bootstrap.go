package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"llm-hedge-fund/internal/agents"
	"llm-hedge-fund/internal/engine"
	"llm-hedge-fund/internal/engine/engineobs"
	"llm-hedge-fund/internal/interfaces"
	"llm-hedge-fund/internal/logger"
	"llm-hedge-fund/internal/marketdata"
	"llm-hedge-fund/internal/news"
	"llm-hedge-fund/internal/store"
	"llm-hedge-fund/internal/trace"
	"llm-hedge-fund/internal/tradelog"

	"github.com/joho/godotenv"
)

// initializeSystem initializes environment, logger and tracer.
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	return nil
}

// loadConfig loads and returns the configuration.
func loadConfig(ctx context.Context, path string) (*store.Config, error) {
	cfg, err := store.LoadConfig(path)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err)
		return nil, err
	}
	logger.Info(ctx, "Config loaded",
		"tickers", cfg.Tickers,
		"start", cfg.StartDate,
		"end", cfg.EndDate,
		"source", cfg.Data.Source,
	)
	return cfg, nil
}

// initializeRecorder opens the JSONL trade and decision logs under the
// report directory.
func initializeRecorder(ctx context.Context, cfg *store.Config) (*tradelog.Recorder, error) {
	recorder, err := tradelog.NewRecorder(cfg.Report.Dir)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to open trade log", err)
		return nil, err
	}
	return recorder, nil
}

// initializeProvider builds the price source selected by config and
// wraps it in the range cache.
func initializeProvider(ctx context.Context, cfg *store.Config) interfaces.PriceProvider {
	var base interfaces.PriceProvider
	switch cfg.Data.Source {
	case "YAHOO":
		logger.Info(ctx, "Using Yahoo Finance daily candles")
		base = marketdata.NewYahooProvider()
	case "KITE":
		logger.Info(ctx, "Using Zerodha Kite historical candles")
		base = marketdata.NewKiteProvider(
			os.Getenv("KITE_API_KEY"),
			os.Getenv("KITE_ACCESS_TOKEN"),
			parseKiteTokens(os.Getenv("KITE_INSTRUMENT_TOKENS")),
		)
	default:
		logger.Info(ctx, "Using local CSV candles", "dir", cfg.Data.Dir)
		base = marketdata.NewCSVProvider(cfg.Data.Dir)
	}
	return marketdata.NewCachedProvider(base, cfg.Data.CacheEntries)
}

// initializeAnalysts assembles the analyst roster per config toggles.
func initializeAnalysts(ctx context.Context, cfg *store.Config) []interfaces.Analyst {
	var roster []interfaces.Analyst
	if cfg.Analysts.Technical {
		roster = append(roster, agents.NewTechnicalAnalyst(cfg.Analysts.RSIPeriod, cfg.Analysts.SMAFast, cfg.Analysts.SMASlow))
	}
	if cfg.Analysts.Momentum {
		roster = append(roster, agents.NewMomentumAnalyst(cfg.Analysts.MomentumWindow))
	}
	if cfg.Analysts.Sentiment {
		roster = append(roster, agents.NewSentimentAnalyst(news.NewScraper(10*time.Second)))
	}
	names := make([]string, len(roster))
	for i, a := range roster {
		names[i] = a.Name()
	}
	logger.Info(ctx, "Analysts enabled", "analysts", names)
	return roster
}

// initializeBacktester wires the full pipeline and wraps it with the
// observability middleware.
func initializeBacktester(ctx context.Context, cfg *store.Config, recorder *tradelog.Recorder) interfaces.Backtester {
	provider := initializeProvider(ctx, cfg)
	aggregator := agents.NewAggregator(initializeAnalysts(ctx, cfg)...)
	policy := engine.NewConfidencePolicy(cfg.Policy.ConfidenceThreshold, cfg.Policy.OrderFraction, cfg.Policy.AllowShort)

	bt := engine.New(cfg, provider, aggregator, policy, recorder)
	return engineobs.Wrap(bt)
}

// parseKiteTokens parses "TICKER:token,TICKER:token" pairs.
func parseKiteTokens(s string) map[string]int {
	tokens := make(map[string]int)
	for _, pair := range strings.Split(s, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), ":", 2)
		if len(parts) != 2 {
			continue
		}
		n, err := strconv.Atoi(parts[1])
		if err != nil {
			continue
		}
		tokens[parts[0]] = n
	}
	return tokens
}
