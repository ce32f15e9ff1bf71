package app

import (
	"testing"

	"github.com/shopspring/decimal"

	pricingDomain "github.com/omniarb/engine/business/pricing/domain"
)

func testOptimizer() *FlashLoanOptimizer {
	return NewFlashLoanOptimizer(
		decimal.NewFromInt(30),
		decimal.RequireFromString("0.005"),
		decimal.RequireFromString("0.20"),
		decimal.RequireFromString("0.00001"),
	)
}

func wideOpenPool(tvl string) pricingDomain.LiquidityPool {
	return pricingDomain.LiquidityPool{
		TVL:            decimal.RequireFromString(tvl),
		FeeRate:        decimal.RequireFromString("0.0009"),
		MinCoefficient: decimal.Zero,
		MaxCoefficient: decimal.RequireFromString("0.20"),
	}
}

func TestOptimalVolume_NonPositiveSpread(t *testing.T) {
	opt := testOptimizer()
	pool := wideOpenPool("1000000")

	for _, prices := range [][2]string{{"100", "100"}, {"99", "100"}} {
		got := opt.OptimalVolume(pool,
			decimal.RequireFromString(prices[0]),
			decimal.RequireFromString(prices[1]),
		)
		if !got.IsZero() {
			t.Errorf("OptimalVolume(sell=%s, buy=%s) = %s, want 0", prices[0], prices[1], got)
		}
	}
}

func TestOptimalVolume_VanishingSlippageFallsBackToMax(t *testing.T) {
	opt := NewFlashLoanOptimizer(
		decimal.NewFromInt(30),
		decimal.RequireFromString("0.005"),
		decimal.RequireFromString("0.20"),
		decimal.Zero, // no volume impact at all
	)
	pool := wideOpenPool("1000000")

	got := opt.OptimalVolume(pool, decimal.NewFromInt(101), decimal.NewFromInt(100))
	if want := pool.VMax(); !got.Equal(want) {
		t.Errorf("OptimalVolume = %s, want v_max %s", got, want)
	}
}

func TestOptimalVolume_ZeroesProfitDerivative(t *testing.T) {
	opt := testOptimizer()
	pool := wideOpenPool("100000000") // wide loan window so the clamp never binds

	priceSell := 101.0
	priceBuy := 100.0
	feeRate := 0.0009
	k := 0.00001 * (priceSell + priceBuy)

	vStar := opt.OptimalVolume(pool,
		decimal.NewFromFloat(priceSell),
		decimal.NewFromFloat(priceBuy),
	).InexactFloat64()

	// The optimizer maximizes profit(V) = V*(spread - fee - k*V); the
	// central difference at V* must vanish.
	profit := func(v float64) float64 {
		return v * ((priceSell - priceBuy) - feeRate - k*v)
	}
	h := 1e-3
	derivative := (profit(vStar+h) - profit(vStar-h)) / (2 * h)
	if !near(derivative, 0, 1e-6) {
		t.Errorf("d(profit)/dV at V* = %g, want ~0 (V* = %f)", derivative, vStar)
	}
}

func TestOptimalVolume_ClampedToLoanWindow(t *testing.T) {
	opt := testOptimizer()
	pool := pricingDomain.LiquidityPool{
		TVL:            decimal.NewFromInt(1_000_000),
		FeeRate:        decimal.Zero,
		MinCoefficient: decimal.RequireFromString("0.05"),
		MaxCoefficient: decimal.RequireFromString("0.20"),
	}

	// Tiny spread: analytic optimum far below the 50k floor.
	lo := opt.OptimalVolume(pool, decimal.RequireFromString("100.001"), decimal.NewFromInt(100))
	if want := pool.VMin(); !lo.Equal(want) {
		t.Errorf("small spread: volume = %s, want v_min %s", lo, want)
	}

	// With a near-zero impact factor the optimum shoots far above the
	// 200k ceiling and gets clamped down.
	gentle := NewFlashLoanOptimizer(
		decimal.NewFromInt(30),
		decimal.RequireFromString("0.005"),
		decimal.RequireFromString("0.20"),
		decimal.RequireFromString("0.0000001"),
	)
	hi := gentle.OptimalVolume(pool, decimal.NewFromInt(200), decimal.NewFromInt(100))
	if want := pool.VMax(); !hi.Equal(want) {
		t.Errorf("large spread: volume = %s, want v_max %s", hi, want)
	}
}

func TestDynamicSlippage_CapAndZeroLiquidityFallback(t *testing.T) {
	opt := testOptimizer()

	// Zero liquidity falls back to the punitive impact and saturates the cap.
	got := opt.DynamicSlippage(decimal.NewFromInt(10_000), decimal.Zero, decimal.Zero, 0)
	if want := decimal.RequireFromString("0.005"); !got.Equal(want) {
		t.Errorf("zero liquidity slippage = %s, want cap %s", got, want)
	}

	// Small volume against deep liquidity stays under the cap.
	got = opt.DynamicSlippage(decimal.NewFromInt(1_000), decimal.RequireFromString("0.001"), decimal.NewFromInt(10_000_000), 0)
	if got.GreaterThanOrEqual(decimal.RequireFromString("0.005")) {
		t.Errorf("deep liquidity slippage = %s, want below cap", got)
	}
	if !got.GreaterThan(decimal.RequireFromString("0.001")) {
		t.Errorf("slippage %s should exceed the base rate", got)
	}
}

func TestCalculate_ProfitableSpread(t *testing.T) {
	opt := testOptimizer()
	pool := wideOpenPool("10000000")

	result := opt.Calculate(FlashLoanInput{
		PriceSell:        decimal.NewFromInt(102),
		PriceBuy:         decimal.NewFromInt(100),
		Pool:             pool,
		LiquiditySell:    decimal.NewFromInt(10_000_000),
		LiquidityBuy:     decimal.NewFromInt(10_000_000),
		BaseSlippageSell: decimal.RequireFromString("0.0005"),
		BaseSlippageBuy:  decimal.RequireFromString("0.0005"),
		GasCost:          decimal.NewFromInt(5),
	})

	if !result.IsProfitable {
		t.Fatalf("2%% spread should be profitable, got bps %s, adjusted %s",
			result.ProfitBps, result.GasAdjustedProfit)
	}
	if !result.NetProfit.Equal(result.GrossProfit.Sub(result.FlashFee)) {
		t.Errorf("NetProfit %s != GrossProfit %s - FlashFee %s",
			result.NetProfit, result.GrossProfit, result.FlashFee)
	}
	if !result.GasAdjustedProfit.Equal(result.NetProfit.Sub(decimal.NewFromInt(5))) {
		t.Errorf("GasAdjustedProfit %s != NetProfit %s - gas", result.GasAdjustedProfit, result.NetProfit)
	}
	if result.ExecutionProbability != 1.0 || result.TimeDecayFactor != 1.0 {
		t.Errorf("calm market should not discount: exec %f decay %f",
			result.ExecutionProbability, result.TimeDecayFactor)
	}
}

func TestCalculate_InvertedSpreadNotProfitable(t *testing.T) {
	opt := testOptimizer()

	result := opt.Calculate(FlashLoanInput{
		PriceSell:     decimal.NewFromInt(99),
		PriceBuy:      decimal.NewFromInt(100),
		Pool:          wideOpenPool("1000000"),
		LiquiditySell: decimal.NewFromInt(1_000_000),
		LiquidityBuy:  decimal.NewFromInt(1_000_000),
	})

	if result.IsProfitable {
		t.Error("inverted spread must not be profitable")
	}
	if !result.LoanVolume.IsZero() {
		t.Errorf("inverted spread volume = %s, want 0", result.LoanVolume)
	}
	if !result.ProfitBps.IsZero() {
		t.Errorf("zero-volume bps = %s, want 0", result.ProfitBps)
	}
}

func TestCalculate_VolatilityDecay(t *testing.T) {
	opt := testOptimizer()
	in := FlashLoanInput{
		PriceSell:     decimal.NewFromInt(102),
		PriceBuy:      decimal.NewFromInt(100),
		Pool:          wideOpenPool("10000000"),
		LiquiditySell: decimal.NewFromInt(10_000_000),
		LiquidityBuy:  decimal.NewFromInt(10_000_000),
		Volatility:    0.4,
	}

	result := opt.Calculate(in)
	if want := 1.0 - 0.4*0.5; !near(result.TimeDecayFactor, want, 1e-12) {
		t.Errorf("TimeDecayFactor = %f, want %f", result.TimeDecayFactor, want)
	}

	// Extreme volatility floors the decay at 0.5.
	in.Volatility = 1.0
	if result := opt.Calculate(in); !near(result.TimeDecayFactor, 0.5, 1e-12) {
		t.Errorf("TimeDecayFactor = %f, want floor 0.5", result.TimeDecayFactor)
	}
}
