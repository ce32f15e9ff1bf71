// Package domain contains the core domain types for the arbitrage context.
package domain

import (
	"fmt"

	"github.com/shopspring/decimal"

	pricingDomain "github.com/omniarb/engine/business/pricing/domain"
)

// RouteType identifies the number of hops in an arbitrage cycle.
type RouteType int

const (
	TwoHop   RouteType = 2
	ThreeHop RouteType = 3
	FourHop  RouteType = 4
)

// Hops returns the hop count of the route type.
func (r RouteType) Hops() int {
	return int(r)
}

// String returns a human-readable route type name.
func (r RouteType) String() string {
	return fmt.Sprintf("%d-hop", int(r))
}

// Route is a fully evaluated arbitrage cycle. Derived from a set of venue
// quotes and never mutated after construction.
type Route struct {
	Type  RouteType
	Pairs []pricingDomain.Pair
	Path  []string // currency symbols, e.g. ["USDT", "BTC", "USDT"]

	// Profit before the safety margin discount.
	GrossProfit    decimal.Decimal
	GrossProfitBps decimal.Decimal

	// Profit after the safety margin discount; the values gated against
	// the minimum profit threshold.
	ExpectedProfit    decimal.Decimal
	ExpectedProfitBps decimal.Decimal

	RiskScore        float64 // 0-100, lower is better
	ExecutionTimeMs  float64
	TotalFees        decimal.Decimal
	TotalGas         decimal.Decimal
	SlippageEstimate decimal.Decimal // summed hop slippage, as a fraction

	MinCapitalRequired    decimal.Decimal
	MaxCapitalRecommended decimal.Decimal
}

// PathString renders the currency path (e.g. "USDT -> BTC -> USDT").
func (r *Route) PathString() string {
	out := ""
	for i, sym := range r.Path {
		if i > 0 {
			out += " -> "
		}
		out += sym
	}
	return out
}
