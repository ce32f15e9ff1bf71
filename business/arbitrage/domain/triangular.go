package domain

import "github.com/shopspring/decimal"

// TriangularQuote holds the three cross rates of a single-venue triangle
// A -> B -> C -> A, quoted as B/A, C/B and C/A.
type TriangularQuote struct {
	TokenA string
	TokenB string
	TokenC string

	PriceAB decimal.Decimal // units of A per B
	PriceBC decimal.Decimal // units of B per C
	PriceAC decimal.Decimal // units of A per C

	TotalFees decimal.Decimal // summed taker fees across the three legs, as a fraction
}

// CycleRatio returns (PriceAB * PriceBC) / PriceAC, the gross multiplier of
// one unit of A pushed around the triangle. Returns zero when the direct
// leg is unpriced.
func (q TriangularQuote) CycleRatio() decimal.Decimal {
	if !q.PriceAC.IsPositive() {
		return decimal.Zero
	}
	return q.PriceAB.Mul(q.PriceBC).Div(q.PriceAC)
}

// IsProfitable reports whether the cycle beats its own fees. The comparison
// is strict: a ratio exactly equal to 1 + fees nets zero and is rejected.
func (q TriangularQuote) IsProfitable() bool {
	threshold := decimal.NewFromInt(1).Add(q.TotalFees)
	return q.CycleRatio().GreaterThan(threshold)
}

// ProfitFraction returns the net fractional edge after fees, floored at zero.
func (q TriangularQuote) ProfitFraction() decimal.Decimal {
	edge := q.CycleRatio().Sub(decimal.NewFromInt(1)).Sub(q.TotalFees)
	if edge.IsNegative() {
		return decimal.Zero
	}
	return edge
}
