package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestTriangularQuote_CycleRatio(t *testing.T) {
	q := TriangularQuote{
		TokenA:  "USDT",
		TokenB:  "BTC",
		TokenC:  "ETH",
		PriceAB: decimal.RequireFromString("42000"),
		PriceBC: decimal.RequireFromString("0.0532"),
		PriceAC: decimal.RequireFromString("2230"),
	}

	// 42000 * 0.0532 / 2230 = 2234.4 / 2230
	want := decimal.RequireFromString("2234.4").Div(decimal.RequireFromString("2230"))
	if got := q.CycleRatio(); !got.Equal(want) {
		t.Errorf("CycleRatio = %s, want %s", got, want)
	}
}

func TestTriangularQuote_UnpricedDirectLeg(t *testing.T) {
	q := TriangularQuote{
		PriceAB: decimal.NewFromInt(42000),
		PriceBC: decimal.RequireFromString("0.0532"),
		PriceAC: decimal.Zero,
	}

	if got := q.CycleRatio(); !got.IsZero() {
		t.Errorf("CycleRatio with zero AC = %s, want 0", got)
	}
	if q.IsProfitable() {
		t.Error("unpriced triangle should not be profitable")
	}
}

func TestTriangularQuote_StrictProfitBoundary(t *testing.T) {
	tests := []struct {
		name    string
		priceAC string
		fees    string
		want    bool
	}{
		// AB*BC = 1.003 in every case.
		{"ratio_exactly_one_plus_fees", "1", "0.003", false},
		{"ratio_just_above_fees", "0.9999", "0.003", true},
		{"ratio_just_below_fees", "1.0001", "0.003", false},
		{"zero_fees_ratio_above_one", "1", "0", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := TriangularQuote{
				PriceAB:   decimal.RequireFromString("1.003"),
				PriceBC:   decimal.NewFromInt(1),
				PriceAC:   decimal.RequireFromString(tt.priceAC),
				TotalFees: decimal.RequireFromString(tt.fees),
			}
			if got := q.IsProfitable(); got != tt.want {
				t.Errorf("IsProfitable = %v, want %v (ratio %s)", got, tt.want, q.CycleRatio())
			}
		})
	}
}

func TestTriangularQuote_ProfitFractionFlooredAtZero(t *testing.T) {
	q := TriangularQuote{
		PriceAB:   decimal.NewFromInt(1),
		PriceBC:   decimal.NewFromInt(1),
		PriceAC:   decimal.NewFromInt(1),
		TotalFees: decimal.RequireFromString("0.003"),
	}

	if got := q.ProfitFraction(); !got.IsZero() {
		t.Errorf("ProfitFraction = %s, want 0", got)
	}
}

func TestExecutionCost_Total(t *testing.T) {
	cost := ExecutionCost{
		GasCost:      decimal.RequireFromString("12.50"),
		FlashLoanFee: decimal.RequireFromString("9.00"),
		BridgeFee:    decimal.RequireFromString("3.00"),
		PriorityFee:  decimal.RequireFromString("1.25"),
	}

	if got, want := cost.Total(), decimal.RequireFromString("25.75"); !got.Equal(want) {
		t.Errorf("Total = %s, want %s", got, want)
	}
}

func TestFlashSourceOption_Accepts(t *testing.T) {
	opt := FlashSourceOption{
		Source:  FlashSourceBalancer,
		FeeRate: decimal.Zero,
		MinLoan: decimal.NewFromInt(5_000),
		MaxLoan: decimal.NewFromInt(50_000_000),
	}

	if !opt.Accepts(decimal.NewFromInt(5_000)) {
		t.Error("volume at MinLoan should be accepted")
	}
	if !opt.Accepts(decimal.NewFromInt(50_000_000)) {
		t.Error("volume at MaxLoan should be accepted")
	}
	if opt.Accepts(decimal.RequireFromString("4999.99")) {
		t.Error("volume below MinLoan should be rejected")
	}
	if opt.Accepts(decimal.RequireFromString("50000000.01")) {
		t.Error("volume above MaxLoan should be rejected")
	}
}
