package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func mustPool(t *testing.T, tvl, fee, minC, maxC string) LiquidityPool {
	t.Helper()
	pool, err := NewLiquidityPool(
		decimal.RequireFromString(tvl),
		decimal.RequireFromString(fee),
		decimal.RequireFromString(minC),
		decimal.RequireFromString(maxC),
	)
	if err != nil {
		t.Fatalf("NewLiquidityPool: %v", err)
	}
	return pool
}

func TestNewLiquidityPool_CoefficientInvariant(t *testing.T) {
	tests := []struct {
		name    string
		minC    string
		maxC    string
		wantErr bool
	}{
		{"valid_range", "0.05", "0.20", false},
		{"equal_coefficients", "0.10", "0.10", false},
		{"zero_to_one", "0", "1", false},
		{"min_above_max", "0.30", "0.20", true},
		{"negative_min", "-0.01", "0.20", true},
		{"max_above_one", "0.05", "1.01", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLiquidityPool(
				decimal.NewFromInt(1_000_000),
				decimal.RequireFromString("0.0009"),
				decimal.RequireFromString(tt.minC),
				decimal.RequireFromString(tt.maxC),
			)
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr = %v", err, tt.wantErr)
			}
		})
	}
}

func TestLiquidityPool_VolumeBounds(t *testing.T) {
	pool := mustPool(t, "1000000", "0.0009", "0.05", "0.20")

	if got, want := pool.VMin(), decimal.NewFromInt(50_000); !got.Equal(want) {
		t.Errorf("VMin = %s, want %s", got, want)
	}
	if got, want := pool.VMax(), decimal.NewFromInt(200_000); !got.Equal(want) {
		t.Errorf("VMax = %s, want %s", got, want)
	}
}

func TestDynamicSlippage_ZeroAtZeroVolume(t *testing.T) {
	pool := mustPool(t, "1000000", "0", "0", "1")

	if got := pool.DynamicSlippage(decimal.Zero); !got.IsZero() {
		t.Errorf("DynamicSlippage(0) = %s, want 0", got)
	}
}

func TestDynamicSlippage_StrictlyIncreasing(t *testing.T) {
	pool := mustPool(t, "1000000", "0", "0", "1")

	prev := pool.DynamicSlippage(decimal.Zero)
	for _, size := range []int64{100, 1_000, 10_000, 100_000, 1_000_000, 10_000_000} {
		cur := pool.DynamicSlippage(decimal.NewFromInt(size))
		if !cur.GreaterThan(prev) {
			t.Fatalf("slippage not strictly increasing: S(%d) = %s, previous = %s", size, cur, prev)
		}
		prev = cur
	}
}

func TestDynamicSlippage_ConstantProductForm(t *testing.T) {
	pool := mustPool(t, "1000000", "0", "0", "1")

	// S = dx / (x + dx): 100k against 1M TVL gives 1/11.
	got := pool.DynamicSlippage(decimal.NewFromInt(100_000))
	want := decimal.NewFromInt(100_000).Div(decimal.NewFromInt(1_100_000))
	if !got.Equal(want) {
		t.Errorf("DynamicSlippage(100k) = %s, want %s", got, want)
	}
}

func TestDynamicSlippage_EmptyPool(t *testing.T) {
	pool := LiquidityPool{TVL: decimal.Zero}

	if got := pool.DynamicSlippage(decimal.NewFromInt(1)); !got.Equal(decimal.NewFromInt(1)) {
		t.Errorf("empty pool slippage = %s, want 1", got)
	}
}

func TestIsTradeSizeSafe_Boundary(t *testing.T) {
	pool := mustPool(t, "1000000", "0", "0", "1")
	maxFraction := decimal.RequireFromString("0.10")

	// Exactly 10% of TVL passes.
	if !pool.IsTradeSizeSafe(decimal.NewFromInt(100_000), maxFraction) {
		t.Error("volume == 0.10*TVL should be safe")
	}
	// A hair above fails.
	if pool.IsTradeSizeSafe(decimal.RequireFromString("100000.1"), maxFraction) {
		t.Error("volume just above 0.10*TVL should not be safe")
	}
	// Empty pool is never safe.
	empty := LiquidityPool{TVL: decimal.Zero}
	if empty.IsTradeSizeSafe(decimal.NewFromInt(1), maxFraction) {
		t.Error("empty pool should never be safe")
	}
}

func TestOptimalTradeSize_InvertsSlippage(t *testing.T) {
	pool := mustPool(t, "1000000", "0", "0", "1")
	target := decimal.RequireFromString("0.005")

	size := pool.OptimalTradeSize(target)

	// Feeding the solved size back through the slippage formula must
	// reproduce the target within decimal division precision.
	back := pool.DynamicSlippage(size)
	if diff := back.Sub(target).Abs(); diff.GreaterThan(decimal.RequireFromString("0.0000000001")) {
		t.Errorf("round-trip slippage = %s, want %s (diff %s)", back, target, diff)
	}
}

func TestOptimalTradeSize_DegenerateTargets(t *testing.T) {
	pool := mustPool(t, "1000000", "0", "0", "1")

	for _, target := range []string{"0", "-0.1", "1", "1.5"} {
		if got := pool.OptimalTradeSize(decimal.RequireFromString(target)); !got.IsZero() {
			t.Errorf("OptimalTradeSize(%s) = %s, want 0", target, got)
		}
	}
}
