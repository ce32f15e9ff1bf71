package app

import (
	"testing"

	"github.com/shopspring/decimal"

	pricingDomain "github.com/omniarb/engine/business/pricing/domain"
)

func frictionlessVenue(name string) pricingDomain.Venue {
	return pricingDomain.Venue{
		Name:           name,
		TradingFee:     decimal.Zero,
		GasCost:        decimal.Zero,
		LiquidityDepth: decimal.NewFromInt(1_000_000),
		SlippageFactor: decimal.Zero,
	}
}

func quote(venue pricingDomain.Venue, bid, ask string) pricingDomain.Pair {
	return pricingDomain.Pair{
		Base:      "BTC",
		Quote:     "USDT",
		Venue:     venue,
		Bid:       decimal.RequireFromString(bid),
		Ask:       decimal.RequireFromString(ask),
		Liquidity: decimal.NewFromInt(1_000_000),
	}
}

func TestEvaluate2Hop_FrictionlessMatchesRawSpread(t *testing.T) {
	calc := NewMultiHopCalculator(decimal.Zero, decimal.NewFromInt(50), decimal.Zero)

	buy := quote(frictionlessVenue("alpha"), "41990", "42000")
	sell := quote(frictionlessVenue("beta"), "42300", "42310")

	route, ok := calc.Evaluate2Hop(buy, sell, decimal.NewFromInt(10_000))
	if !ok {
		t.Fatal("frictionless positive spread should produce a route")
	}

	// With zero fees, slippage and gas, profit bps collapses to the raw
	// spread: (42300 - 42000) / 42000 * 10000.
	want := decimal.RequireFromString("300").
		Div(decimal.RequireFromString("42000")).
		Mul(decimal.NewFromInt(10_000))
	if diff := route.GrossProfitBps.Sub(want).Abs(); diff.GreaterThan(decimal.RequireFromString("0.00000001")) {
		t.Errorf("GrossProfitBps = %s, want %s (diff %s)", route.GrossProfitBps, want, diff)
	}
	if !route.ExpectedProfitBps.Equal(route.GrossProfitBps) {
		t.Errorf("zero safety margin should leave bps undiscounted: %s != %s",
			route.ExpectedProfitBps, route.GrossProfitBps)
	}
}

func TestEvaluate2Hop_MonotoneInSellPrice(t *testing.T) {
	calc := NewMultiHopCalculator(decimal.Zero, decimal.NewFromInt(50), decimal.Zero)
	capital := decimal.NewFromInt(10_000)
	buy := quote(frictionlessVenue("alpha"), "41990", "42000")

	prev := decimal.New(-1, 6)
	for _, bid := range []string{"42100", "42200", "42300", "42400", "42500"} {
		sell := quote(frictionlessVenue("beta"), bid, "99999")
		route, ok := calc.Evaluate2Hop(buy, sell, capital)
		if !ok {
			t.Fatalf("bid %s: expected a route", bid)
		}
		if !route.GrossProfit.GreaterThan(prev) {
			t.Fatalf("gross profit not strictly increasing at bid %s: %s <= %s", bid, route.GrossProfit, prev)
		}
		prev = route.GrossProfit
	}
}

func TestEvaluate2Hop_RegressionFixture(t *testing.T) {
	// Two real-ish venues: 0.10% and 0.26% taker fees, $1 and $1.50 gas,
	// $10k capital across a 42,000 -> 42,300 spread. Expected values are
	// pinned from the decimal arithmetic of the hop simulation.
	calc := NewMultiHopCalculator(
		decimal.NewFromInt(20),
		decimal.NewFromInt(50),
		decimal.RequireFromString("0.20"),
	)

	cheap := pricingDomain.Venue{
		Name:           "dex-a",
		TradingFee:     decimal.RequireFromString("0.001"),
		GasCost:        decimal.NewFromInt(1),
		LiquidityDepth: decimal.NewFromInt(1_000_000),
		SlippageFactor: decimal.Zero,
	}
	rich := pricingDomain.Venue{
		Name:           "dex-b",
		TradingFee:     decimal.RequireFromString("0.0026"),
		GasCost:        decimal.RequireFromString("1.5"),
		LiquidityDepth: decimal.NewFromInt(1_000_000),
		SlippageFactor: decimal.Zero,
	}

	route, ok := calc.Evaluate2Hop(
		quote(cheap, "41990", "42000"),
		quote(rich, "42300", "42310"),
		decimal.NewFromInt(10_000),
	)
	if !ok {
		t.Fatal("expected a profitable route")
	}

	assertNear := func(name string, got decimal.Decimal, want string) {
		t.Helper()
		w := decimal.RequireFromString(want)
		if diff := got.Sub(w).Abs(); diff.GreaterThan(decimal.RequireFromString("0.000001")) {
			t.Errorf("%s = %s, want %s (diff %s)", name, got, w, diff)
		}
	}

	assertNear("GrossProfit", route.GrossProfit, "32.697614285716093858")
	assertNear("ExpectedProfit", route.ExpectedProfit, "26.158091428572875086")
	assertNear("GrossProfitBps", route.GrossProfitBps, "32.697614285716")
	assertNear("ExpectedProfitBps", route.ExpectedProfitBps, "26.1580914285728")
	assertNear("TotalFees", route.TotalFees, "36.159528571428576142")
	assertNear("TotalGas", route.TotalGas, "2.5")

	if route.RiskScore < 0 || route.RiskScore > 100 {
		t.Errorf("RiskScore = %f, want within [0, 100]", route.RiskScore)
	}
	if want := decimal.NewFromInt(100_000); !route.MaxCapitalRecommended.Equal(want) {
		t.Errorf("MaxCapitalRecommended = %s, want %s", route.MaxCapitalRecommended, want)
	}
}

func TestEvaluate2Hop_BelowThresholdReturnsNoRoute(t *testing.T) {
	calc := NewMultiHopCalculator(
		decimal.NewFromInt(30),
		decimal.NewFromInt(50),
		decimal.RequireFromString("0.20"),
	)

	// 10 bps raw spread cannot clear a 30 bps floor after the discount.
	buy := quote(frictionlessVenue("alpha"), "41990", "42000")
	sell := quote(frictionlessVenue("beta"), "42042", "42050")

	if route, ok := calc.Evaluate2Hop(buy, sell, decimal.NewFromInt(10_000)); ok {
		t.Fatalf("expected no route, got %s bps", route.ExpectedProfitBps)
	}
}

func TestEvaluate2Hop_InvalidQuote(t *testing.T) {
	calc := NewMultiHopCalculator(decimal.Zero, decimal.NewFromInt(50), decimal.Zero)

	buy := quote(frictionlessVenue("alpha"), "41990", "42000")
	broken := quote(frictionlessVenue("beta"), "0", "42310")

	if _, ok := calc.Evaluate2Hop(buy, broken, decimal.NewFromInt(10_000)); ok {
		t.Fatal("zero bid should not produce a route")
	}
	if _, ok := calc.Evaluate2Hop(buy, quote(frictionlessVenue("beta"), "42300", "42310"), decimal.Zero); ok {
		t.Fatal("zero capital should not produce a route")
	}
}

func TestEvaluate4Hop_TighterCapacityBound(t *testing.T) {
	calc := NewMultiHopCalculator(decimal.Zero, decimal.NewFromInt(50), decimal.Zero)
	capital := decimal.NewFromInt(10_000)

	// A contrived cycle trading 1:1 everywhere except a cheap final leg,
	// so the route clears the zero threshold.
	v := frictionlessVenue("quad")
	unit := func(bid, ask string) pricingDomain.Pair {
		return pricingDomain.Pair{
			Base: "X", Quote: "Y", Venue: v,
			Bid:       decimal.RequireFromString(bid),
			Ask:       decimal.RequireFromString(ask),
			Liquidity: decimal.NewFromInt(1_000_000),
		}
	}

	route, ok := calc.Evaluate4Hop(
		unit("0.99", "1"), unit("1", "1.01"),
		unit("0.99", "1"), unit("1.05", "1.06"),
		capital,
	)
	if !ok {
		t.Fatal("expected a route")
	}

	// 5% of the thinnest leg's liquidity, not the 10% of shorter routes.
	if want := decimal.NewFromInt(50_000); !route.MaxCapitalRecommended.Equal(want) {
		t.Errorf("MaxCapitalRecommended = %s, want %s", route.MaxCapitalRecommended, want)
	}
	if route.ExecutionTimeMs != 200.0 {
		t.Errorf("ExecutionTimeMs = %f, want 200", route.ExecutionTimeMs)
	}
}

func TestHopSlippage_CapAndBoost(t *testing.T) {
	venue := pricingDomain.Venue{SlippageFactor: decimal.RequireFromString("0.0001")}

	tests := []struct {
		name     string
		notional string
		want     string
	}{
		// 100k notional: size factor 1, no boost.
		{"linear_region", "100000", "0.0001"},
		// 500k: size factor 5, boundary, still unboosted.
		{"boost_boundary", "500000", "0.0005"},
		// 600k: size factor 6, boost 1.1 -> 0.0006 * 1.1.
		{"boosted", "600000", "0.00066"},
		// Huge trade saturates the 5% cap.
		{"capped", "500000000", "0.05"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := hopSlippage(decimal.RequireFromString(tt.notional), venue)
			if want := decimal.RequireFromString(tt.want); !got.Equal(want) {
				t.Errorf("hopSlippage(%s) = %s, want %s", tt.notional, got, want)
			}
		})
	}
}
