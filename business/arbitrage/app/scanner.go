package app

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"

	"github.com/omniarb/engine/business/arbitrage/domain"
	pricingDomain "github.com/omniarb/engine/business/pricing/domain"
	"github.com/omniarb/engine/internal/apm"
	"github.com/omniarb/engine/internal/logger"
	"github.com/omniarb/engine/internal/ratelimit"
)

// ScannerOptions tunes the scan loop.
type ScannerOptions struct {
	Capital        decimal.Decimal
	ScansPerMinute int
	MaxConcurrency int
	SnapshotMaxAge time.Duration
}

// Scanner drives the analysis pipeline: it pulls a market snapshot on a
// rate-limited loop, fans the per-symbol evaluation out across a bounded
// worker group and hands the ranked opportunities to the reporter.
type Scanner struct {
	source   SnapshotSource
	reporter Reporter

	multiHop *MultiHopCalculator
	risk     *RiskAnalyzer
	flash    *FlashLoanOptimizer
	yield    *RealYieldCalculator

	opts    ScannerOptions
	limiter *ratelimit.Limiter
	log     logger.LoggerInterface
	tracer  apm.Tracer

	scansTotal         metric.Int64Counter
	opportunitiesTotal metric.Int64Counter
	profitableTotal    metric.Int64Counter
	scanDuration       metric.Float64Histogram
}

// NewScanner wires the scan loop. Instrument creation failures are
// reported once and the affected instrument stays nil (recording on a nil
// instrument would panic, so each record site checks).
func NewScanner(
	source SnapshotSource,
	reporter Reporter,
	multiHop *MultiHopCalculator,
	risk *RiskAnalyzer,
	flash *FlashLoanOptimizer,
	yield *RealYieldCalculator,
	opts ScannerOptions,
	log logger.LoggerInterface,
) *Scanner {
	s := &Scanner{
		source:   source,
		reporter: reporter,
		multiHop: multiHop,
		risk:     risk,
		flash:    flash,
		yield:    yield,
		opts:     opts,
		limiter:  ratelimit.New(opts.ScansPerMinute),
		log:      log,
		tracer:   apm.NewTracer("scanner"),
	}

	meter := otel.Meter("omniarb/scanner")
	var err error
	if s.scansTotal, err = meter.Int64Counter("scans_total",
		metric.WithDescription("Completed market scans")); err != nil {
		log.Warn(context.Background(), "failed to create scans counter", "error", err)
	}
	if s.opportunitiesTotal, err = meter.Int64Counter("opportunities_total",
		metric.WithDescription("Opportunities analyzed across all scans")); err != nil {
		log.Warn(context.Background(), "failed to create opportunities counter", "error", err)
	}
	if s.profitableTotal, err = meter.Int64Counter("profitable_opportunities_total",
		metric.WithDescription("Opportunities that passed every profitability check")); err != nil {
		log.Warn(context.Background(), "failed to create profitable counter", "error", err)
	}
	if s.scanDuration, err = meter.Float64Histogram("scan_duration_seconds",
		metric.WithDescription("Wall time of one full scan cycle")); err != nil {
		log.Warn(context.Background(), "failed to create duration histogram", "error", err)
	}

	return s
}

// Run scans until the context is canceled. Individual scan failures are
// logged and the loop continues; only context cancellation stops it.
func (s *Scanner) Run(ctx context.Context) error {
	s.log.Info(ctx, "scanner started",
		"scans_per_minute", s.opts.ScansPerMinute,
		"capital", s.opts.Capital.String(),
	)

	for {
		if err := s.limiter.Wait(ctx); err != nil {
			s.log.Info(ctx, "scanner stopped", "reason", ctx.Err())
			return ctx.Err()
		}
		if err := s.ScanOnce(ctx); err != nil {
			s.log.Warn(ctx, "scan cycle failed", "error", err)
		}
	}
}

// ScanOnce runs a single scan cycle: snapshot, per-symbol analysis,
// ranking, report.
func (s *Scanner) ScanOnce(ctx context.Context) error {
	ctx, span := s.tracer.StartSpanFromContext(ctx, "scanner.scan")
	defer span.End()

	started := time.Now()

	snapshot, err := s.source.Snapshot(ctx)
	if err != nil {
		span.NoticeError(err)
		return fmt.Errorf("fetching snapshot: %w", err)
	}
	if snapshot.IsStale(time.Now(), s.opts.SnapshotMaxAge) {
		s.log.Warn(ctx, "skipping stale snapshot",
			"snapshot_age", time.Since(snapshot.Timestamp).String(),
			"max_age", s.opts.SnapshotMaxAge.String(),
		)
		return nil
	}

	opportunities := s.analyze(ctx, snapshot)

	sort.Slice(opportunities, func(i, j int) bool {
		return opportunities[i].NetProfit().GreaterThan(opportunities[j].NetProfit())
	})

	if s.scansTotal != nil {
		s.scansTotal.Add(ctx, 1)
	}
	if s.opportunitiesTotal != nil {
		s.opportunitiesTotal.Add(ctx, int64(len(opportunities)))
	}
	if s.scanDuration != nil {
		s.scanDuration.Record(ctx, time.Since(started).Seconds())
	}
	for _, opp := range opportunities {
		if opp.Decision.Execute && s.profitableTotal != nil {
			s.profitableTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("symbol", opp.Symbol)))
		}
	}

	if err := s.reporter.Report(ctx, opportunities); err != nil {
		span.NoticeError(err)
		return fmt.Errorf("reporting opportunities: %w", err)
	}
	return nil
}

// analyze fans the per-symbol evaluation out over a bounded worker group.
// Every evaluation is a pure function of the snapshot, so workers share
// nothing but the result slice.
func (s *Scanner) analyze(ctx context.Context, snapshot *pricingDomain.Snapshot) []*domain.Opportunity {
	grouped := snapshot.PairsBySymbol()

	var (
		mu            sync.Mutex
		opportunities []*domain.Opportunity
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.MaxConcurrency)

	for symbol, quotes := range grouped {
		g.Go(func() error {
			opp, ok := s.evaluateSymbol(symbol, quotes, snapshot)
			if !ok {
				return nil
			}
			mu.Lock()
			opportunities = append(opportunities, opp)
			mu.Unlock()
			return nil
		})
	}

	// Workers never return errors; Wait only collects them.
	_ = g.Wait()

	select {
	case <-ctx.Done():
		return nil
	default:
	}
	return opportunities
}

// evaluateSymbol picks the cheapest ask and richest bid across venues for
// one symbol and runs the full pipeline over that pair of quotes.
func (s *Scanner) evaluateSymbol(symbol string, quotes []pricingDomain.Pair, snapshot *pricingDomain.Snapshot) (*domain.Opportunity, bool) {
	buy, sell, ok := bestQuotes(quotes)
	if !ok {
		return nil, false
	}
	if !pricingDomain.CalculateSpread(buy.Ask, sell.Bid).IsPositive() {
		return nil, false
	}

	route, ok := s.multiHop.Evaluate2Hop(buy, sell, s.opts.Capital)
	if !ok {
		return nil, false
	}

	risk := s.risk.Analyze(route, s.opts.Capital)

	pool, ok := snapshot.Pool(symbol)
	if !ok {
		pool = fallbackPool(buy, sell)
	}

	gasCost := buy.Venue.GasCost.Add(sell.Venue.GasCost)

	flash := s.flash.Calculate(FlashLoanInput{
		PriceSell:        sell.Bid,
		PriceBuy:         buy.Ask,
		Pool:             pool,
		LiquiditySell:    sell.Liquidity,
		LiquidityBuy:     buy.Liquidity,
		BaseSlippageSell: sell.Venue.SlippageFactor,
		BaseSlippageBuy:  buy.Venue.SlippageFactor,
		GasCost:          gasCost,
	})

	volume, yield := s.yield.OptimizeTradeSize(sell.Bid, buy.Ask, pool, gasCost, pool.FeeRate)

	now := time.Now()
	return &domain.Opportunity{
		ID:        fmt.Sprintf("%s-%d", symbol, now.UnixNano()),
		Timestamp: now,
		Symbol:    symbol,
		BuyVenue:  buy.Venue.Name,
		SellVenue: sell.Venue.Name,
		Capital:   volume,
		Route:     route,
		Risk:      risk,
		Flash:     flash,
		Yield:     yield,
		Decision:  s.yield.Decide(yield),
	}, true
}

// bestQuotes returns the lowest-ask and highest-bid quotes of a symbol.
// Requires at least two distinct venues with usable prices.
func bestQuotes(quotes []pricingDomain.Pair) (buy, sell pricingDomain.Pair, ok bool) {
	found := false
	for _, q := range quotes {
		if !q.HasPositivePrices() {
			continue
		}
		if !found {
			buy, sell = q, q
			found = true
			continue
		}
		if q.Ask.LessThan(buy.Ask) {
			buy = q
		}
		if q.Bid.GreaterThan(sell.Bid) {
			sell = q
		}
	}
	if !found || buy.Venue.Name == sell.Venue.Name {
		return pricingDomain.Pair{}, pricingDomain.Pair{}, false
	}
	return buy, sell, true
}

// fallbackPool approximates a pool from quote liquidity when the snapshot
// carries no pool state for the symbol: the thinner side's depth as TVL,
// a standard flash fee and a 5-20% loan window.
func fallbackPool(buy, sell pricingDomain.Pair) pricingDomain.LiquidityPool {
	tvl := buy.Liquidity
	if sell.Liquidity.LessThan(tvl) {
		tvl = sell.Liquidity
	}
	return pricingDomain.LiquidityPool{
		TVL:            tvl,
		FeeRate:        decimal.RequireFromString("0.0009"),
		MinCoefficient: decimal.RequireFromString("0.05"),
		MaxCoefficient: decimal.RequireFromString("0.20"),
	}
}
