package app

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/omniarb/engine/business/arbitrage/domain"
)

func sampleRoute() *domain.Route {
	return &domain.Route{
		Type:              domain.TwoHop,
		ExpectedProfit:    decimal.NewFromInt(80),
		ExpectedProfitBps: decimal.NewFromInt(80),
		RiskScore:         30,
		ExecutionTimeMs:   100,
		TotalFees:         decimal.NewFromInt(36),
		TotalGas:          decimal.RequireFromString("2.5"),
		SlippageEstimate:  decimal.RequireFromString("0.002"),
	}
}

func TestAnalyze_ComponentRisks(t *testing.T) {
	metrics := NewRiskAnalyzer().Analyze(sampleRoute(), decimal.NewFromInt(10_000))

	assertEqual := func(name string, got decimal.Decimal, want string) {
		t.Helper()
		if w := decimal.RequireFromString(want); !got.Equal(w) {
			t.Errorf("%s = %s, want %s", name, got, w)
		}
	}

	assertEqual("SlippageRisk", metrics.SlippageRisk, "40")    // 10000 * 0.002 * 2
	assertEqual("FeeRisk", metrics.FeeRisk, "54")              // 36 * 1.5
	assertEqual("GasRisk", metrics.GasRisk, "5")               // 2.5 * 2
	assertEqual("LiquidityRisk", metrics.LiquidityRisk, "100") // 10000 * 0.01
	assertEqual("ExecutionRisk", metrics.ExecutionRisk, "1")   // 10000 * 0.1 * 0.001
	assertEqual("TotalRisk", metrics.TotalRisk, "200")
	assertEqual("TotalRiskBps", metrics.TotalRiskBps, "200")
	assertEqual("MaxDrawdownEstimate", metrics.MaxDrawdownEstimate, "300")

	// p = min(0.95, 80/200) * (100-30)/100 = 0.4 * 0.7 = 0.28
	if got, want := metrics.ProfitProbability, 0.28; !near(got, want, 1e-12) {
		t.Errorf("ProfitProbability = %f, want %f", got, want)
	}

	// EV = 80*0.28 - 200*0.72 = 22.4 - 144 = -121.6
	if w := decimal.RequireFromString("-121.6"); metrics.ExpectedValue.Sub(w).Abs().GreaterThan(decimal.RequireFromString("0.0000001")) {
		t.Errorf("ExpectedValue = %s, want %s", metrics.ExpectedValue, w)
	}

	// break-even = 200 / (80 + 200)
	if got, want := metrics.BreakEvenSuccessRate, 200.0/280.0; !near(got, want, 1e-12) {
		t.Errorf("BreakEvenSuccessRate = %f, want %f", got, want)
	}
}

func TestProfitProbability_Clamps(t *testing.T) {
	tests := []struct {
		name      string
		profitBps float64
		riskScore float64
		want      float64
	}{
		{"floor_at_ten_percent", 1, 99, 0.10},
		{"ceiling_margin", 10_000, 0, 0.95},
		{"mid_range", 100, 50, 0.25}, // 0.5 * 0.5
		{"max_risk_floors", 200, 100, 0.10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := profitProbability(tt.profitBps, tt.riskScore); !near(got, tt.want, 1e-12) {
				t.Errorf("profitProbability(%f, %f) = %f, want %f", tt.profitBps, tt.riskScore, got, tt.want)
			}
		})
	}
}

func TestKellyFraction_AlwaysWithinQuarterKelly(t *testing.T) {
	probs := []float64{0, 0.1, 0.25, 0.5, 0.75, 0.9, 1}
	wins := []float64{0, 1, 10, 100, 10_000}
	losses := []float64{0.5, 1, 50, 1_000}

	for _, p := range probs {
		for _, win := range wins {
			for _, loss := range losses {
				f := kellyFraction(p, win, loss)
				if f < 0 || f > 0.25 {
					t.Fatalf("kellyFraction(%f, %f, %f) = %f, outside [0, 0.25]", p, win, loss, f)
				}
			}
		}
	}
}

func TestKellyFraction_EdgeCases(t *testing.T) {
	if got := kellyFraction(0.9, 100, 0); got != 0 {
		t.Errorf("zero loss amount: got %f, want 0", got)
	}
	if got := kellyFraction(0.9, 0, 100); got != 0 {
		t.Errorf("zero win amount: got %f, want 0", got)
	}
	// Certain win with 2:1 payoff saturates at the quarter-Kelly cap.
	if got := kellyFraction(1, 200, 100); !near(got, 0.25, 1e-12) {
		t.Errorf("certain win: got %f, want 0.25", got)
	}
	// p=0.6, b=2: f = (1.2-0.4)/2 = 0.4, quartered to 0.1.
	if got := kellyFraction(0.6, 200, 100); !near(got, 0.1, 1e-12) {
		t.Errorf("standard case: got %f, want 0.1", got)
	}
}

func near(got, want, tol float64) bool {
	diff := got - want
	if diff < 0 {
		diff = -diff
	}
	return diff <= tol
}
