package engine

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"llm-hedge-fund/internal/interfaces"
	"llm-hedge-fund/internal/logger"
	"llm-hedge-fund/internal/perf"
	"llm-hedge-fund/internal/portfolio"
	"llm-hedge-fund/internal/risk"
	"llm-hedge-fund/internal/store"
	"llm-hedge-fund/internal/trace"
	"llm-hedge-fund/internal/tradelog"
	"llm-hedge-fund/internal/types"
)

const dayLayout = "2006-01-02"

// backtester replays the signal pipeline day by day over historical
// prices. Days run strictly in order: each day's ledger state depends on
// the previous day's, so there is exactly one logical thread of control
// through order execution. Ticker iteration is always over the sorted
// config list; given the same prices and signals, two runs produce
// identical valuation sequences.
type backtester struct {
	cfg        *store.Config
	provider   interfaces.PriceProvider
	aggregator interfaces.SignalAggregator
	policy     interfaces.OrderPolicy
	recorder   *tradelog.Recorder
}

func newBacktester(cfg *store.Config, provider interfaces.PriceProvider, aggregator interfaces.SignalAggregator, policy interfaces.OrderPolicy, recorder *tradelog.Recorder) *backtester {
	return &backtester{
		cfg:        cfg,
		provider:   provider,
		aggregator: aggregator,
		policy:     policy,
		recorder:   recorder,
	}
}

func (b *backtester) Run(ctx context.Context) (*types.BacktestResult, error) {
	start, err := b.cfg.Start()
	if err != nil {
		return nil, err
	}
	end, err := b.cfg.End()
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, ErrEmptyDateRange
	}

	series, calendar, err := b.loadSeries(ctx, start, end)
	if err != nil {
		return nil, err
	}

	ledger := portfolio.NewLedger(
		decimal.NewFromFloat(b.cfg.InitialCash),
		decimal.NewFromFloat(b.cfg.MarginRatio),
	)
	executor := newOrderExecutor(ledger, risk.NewLimits(b.cfg.MaxPositionFraction, b.cfg.MarginRatio))

	cursors := make(map[string]int, len(b.cfg.Tickers))
	lastKnown := make(map[string]decimal.Decimal, len(b.cfg.Tickers))

	valuations := make([]types.DailyValuation, 0, len(calendar))
	trades := make([]types.Trade, 0)

	for _, day := range calendar {
		dayCtx, span := trace.StartSpan(ctx, "backtest.day")

		pricedToday := b.advanceDay(day, series, cursors, lastKnown)
		snapshot := b.snapshotAt(day, series, cursors)

		dayTrades := b.stepOrders(dayCtx, day, snapshot, pricedToday, lastKnown, ledger, executor)
		trades = append(trades, dayTrades...)

		valuation := ledger.ValueAt(day, lastKnown)
		valuations = append(valuations, valuation)

		logger.Debug(dayCtx, "Day completed",
			"day", day.Format(dayLayout),
			"total_value", valuation.TotalValue.String(),
			"cash", valuation.Cash.String(),
			"trades", len(dayTrades),
		)
		span.End()
	}

	report, err := perf.Summarize(valuations)
	if err != nil {
		return nil, err
	}

	return &types.BacktestResult{
		Valuations: valuations,
		Trades:     trades,
		Report:     report,
	}, nil
}

// loadSeries fetches every ticker's candles and derives the trading
// calendar as the ascending union of observed dates. A ticker the
// provider cannot serve is logged and skipped; a range with no
// observations at all is fatal.
func (b *backtester) loadSeries(ctx context.Context, start, end time.Time) (map[string][]types.Candle, []time.Time, error) {
	series := make(map[string][]types.Candle, len(b.cfg.Tickers))
	seen := make(map[time.Time]struct{})

	for _, ticker := range b.cfg.Tickers {
		candles, err := b.provider.GetPrices(ctx, ticker, start, end)
		if err != nil {
			logger.Warn(ctx, "No price series for ticker, skipping",
				"ticker", ticker,
				"error", err,
			)
			continue
		}
		for i := range candles {
			candles[i].Date = normalizeDay(candles[i].Date)
			seen[candles[i].Date] = struct{}{}
		}
		series[ticker] = candles
	}

	if len(seen) == 0 {
		return nil, nil, ErrNoMarketData
	}

	calendar := make([]time.Time, 0, len(seen))
	for day := range seen {
		calendar = append(calendar, day)
	}
	sort.Slice(calendar, func(i, j int) bool { return calendar[i].Before(calendar[j]) })
	return series, calendar, nil
}

// advanceDay moves each ticker's cursor past the candles up to and
// including day, refreshes last-known prices, and reports which tickers
// have a price observation on this exact day. Tickers without one keep
// their last-known mark for valuation but get no new orders today.
func (b *backtester) advanceDay(day time.Time, series map[string][]types.Candle, cursors map[string]int, lastKnown map[string]decimal.Decimal) map[string]bool {
	pricedToday := make(map[string]bool, len(b.cfg.Tickers))
	for _, ticker := range b.cfg.Tickers {
		s := series[ticker]
		i := cursors[ticker]
		for i < len(s) && !s[i].Date.After(day) {
			i++
		}
		cursors[ticker] = i
		if i > 0 && s[i-1].Date.Equal(day) {
			lastKnown[ticker] = s[i-1].Close
			pricedToday[ticker] = true
		}
	}
	return pricedToday
}

// snapshotAt builds the immutable per-day view analysts score against.
func (b *backtester) snapshotAt(day time.Time, series map[string][]types.Candle, cursors map[string]int) types.MarketSnapshot {
	history := make(map[string][]types.Candle, len(b.cfg.Tickers))
	tickers := make([]string, 0, len(b.cfg.Tickers))
	for _, ticker := range b.cfg.Tickers {
		if n := cursors[ticker]; n > 0 {
			history[ticker] = series[ticker][:n]
			tickers = append(tickers, ticker)
		}
	}
	return types.MarketSnapshot{Date: day, Tickers: tickers, History: history}
}

// stepOrders runs one day's pipeline: signals, policy, execution. Order
// execution is serialized in sorted ticker order so risk-limit reads are
// never racing the trades that update them. Per-order failures degrade
// to a hold and never abort the loop.
func (b *backtester) stepOrders(ctx context.Context, day time.Time, snapshot types.MarketSnapshot, pricedToday map[string]bool, lastKnown map[string]decimal.Decimal, ledger *portfolio.Ledger, executor *orderExecutor) []types.Trade {
	signals, err := b.aggregator.GetSignals(ctx, snapshot)
	if err != nil {
		// Signals unavailable counts as a data-unavailable day, not a
		// fatal condition: positions stay on and get valued.
		logger.Warn(ctx, "Signals unavailable, holding all positions",
			"day", day.Format(dayLayout),
			"error", err,
		)
		return nil
	}

	var trades []types.Trade
	for _, ticker := range b.cfg.Tickers {
		agentSignals := signals[ticker]
		if len(agentSignals) == 0 {
			continue
		}
		consensus := b.aggregator.Combine(agentSignals)

		logger.Decision(ctx, ticker, string(consensus.Stance), consensus.Confidence,
			"day", day.Format(dayLayout),
		)
		_ = b.recorder.Decision(tradelog.DecisionEntry{
			Day:        day.Format(dayLayout),
			Ticker:     ticker,
			Stance:     string(consensus.Stance),
			Confidence: consensus.Confidence,
			Agents:     agentSignals,
		})

		if !pricedToday[ticker] {
			logger.Debug(ctx, "Ticker has no price today, skipping orders",
				"ticker", ticker,
				"day", day.Format(dayLayout),
			)
			continue
		}

		order := b.policy.Propose(ticker, consensus, lastKnown[ticker], ledger.View(lastKnown))
		if order.Action == types.Hold {
			continue
		}

		trade, err := executor.execute(ctx, day, order, lastKnown)
		if err != nil {
			logger.Warn(ctx, "Order degraded to hold",
				"ticker", ticker,
				"day", day.Format(dayLayout),
				"action", string(order.Action),
				"requested", order.Quantity,
				"error", err,
			)
			_ = b.recorder.Trade(tradelog.TradeEntry{
				Day:       day.Format(dayLayout),
				Ticker:    ticker,
				Action:    string(order.Action),
				Requested: order.Quantity,
				Price:     order.Price.String(),
				Note:      err.Error(),
			})
			continue
		}
		if trade.Executed == 0 {
			continue
		}

		trades = append(trades, trade)
		_ = b.recorder.Trade(tradelog.TradeEntry{
			Day:       day.Format(dayLayout),
			Ticker:    trade.Ticker,
			Action:    string(trade.Action),
			Requested: trade.Requested,
			Executed:  trade.Executed,
			Price:     trade.Price.String(),
			CashDelta: trade.CashDelta.String(),
		})
	}
	return trades
}

func normalizeDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
