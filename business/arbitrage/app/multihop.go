// Package app contains the application services of the arbitrage context:
// the profitability calculators and the scan orchestration around them.
//
// Every calculator is a pure function over immutable inputs. "Not
// profitable" is an expected outcome and is signaled with a comma-ok
// return, never an error.
package app

import (
	"github.com/shopspring/decimal"

	"github.com/omniarb/engine/business/arbitrage/domain"
	pricingDomain "github.com/omniarb/engine/business/pricing/domain"
)

var (
	oneHundredK = decimal.NewFromInt(100_000)
	tenThousand = decimal.NewFromInt(10_000)
	one         = decimal.NewFromInt(1)
)

// MultiHopCalculator evaluates 2, 3 and 4-hop arbitrage cycles by simulating
// the capital through each hop: trading fee, size-dependent slippage, price
// conversion, then gas at the end.
type MultiHopCalculator struct {
	minProfitBps   decimal.Decimal
	maxSlippageBps decimal.Decimal
	safetyMargin   decimal.Decimal
}

// NewMultiHopCalculator builds a calculator with the given thresholds.
// minProfitBps gates the safety-margin-discounted profit; maxSlippageBps
// scales the slippage term of the risk score; safetyMargin is a fraction
// in [0, 1).
func NewMultiHopCalculator(minProfitBps, maxSlippageBps, safetyMargin decimal.Decimal) *MultiHopCalculator {
	return &MultiHopCalculator{
		minProfitBps:   minProfitBps,
		maxSlippageBps: maxSlippageBps,
		safetyMargin:   safetyMargin,
	}
}

type hopSide int

const (
	hopBuy hopSide = iota
	hopSell
)

type hop struct {
	pair pricingDomain.Pair
	side hopSide
}

// Evaluate2Hop simulates buying on one venue and selling on another
// (A -> B -> A). Returns false when the discounted profit does not clear
// the minimum threshold or a quote is unusable.
func (c *MultiHopCalculator) Evaluate2Hop(buy, sell pricingDomain.Pair, capital decimal.Decimal) (*domain.Route, bool) {
	return c.evaluate(
		[]hop{{buy, hopBuy}, {sell, hopSell}},
		domain.TwoHop,
		capital,
		[]string{buy.Quote, buy.Base, sell.Quote},
		100.0,
		decimal.NewFromInt(1_000),
		decimal.RequireFromString("0.10"),
	)
}

// Evaluate3Hop simulates a triangular cycle A -> B -> C -> A. The first two
// hops buy through their pair's ask, the last sells at its bid.
func (c *MultiHopCalculator) Evaluate3Hop(p1, p2, p3 pricingDomain.Pair, capital decimal.Decimal) (*domain.Route, bool) {
	return c.evaluate(
		[]hop{{p1, hopBuy}, {p2, hopBuy}, {p3, hopSell}},
		domain.ThreeHop,
		capital,
		[]string{p1.Quote, p1.Base, p2.Base, p3.Quote},
		150.0,
		decimal.NewFromInt(2_000),
		decimal.RequireFromString("0.10"),
	)
}

// Evaluate4Hop simulates a rectangular cycle A -> B -> C -> D -> A with
// alternating buy and sell legs. The capacity bound is tighter than the
// shorter routes because slippage compounds across four venues.
func (c *MultiHopCalculator) Evaluate4Hop(p1, p2, p3, p4 pricingDomain.Pair, capital decimal.Decimal) (*domain.Route, bool) {
	return c.evaluate(
		[]hop{{p1, hopBuy}, {p2, hopSell}, {p3, hopBuy}, {p4, hopSell}},
		domain.FourHop,
		capital,
		[]string{p1.Quote, p1.Base, p2.Base, p3.Base, p4.Quote},
		200.0,
		decimal.NewFromInt(5_000),
		decimal.RequireFromString("0.05"),
	)
}

func (c *MultiHopCalculator) evaluate(
	hops []hop,
	routeType domain.RouteType,
	capital decimal.Decimal,
	path []string,
	executionTimeMs float64,
	minCapital decimal.Decimal,
	maxCapitalFraction decimal.Decimal,
) (*domain.Route, bool) {
	if !capital.IsPositive() {
		return nil, false
	}

	current := capital
	totalFees := decimal.Zero
	totalGas := decimal.Zero
	totalSlippage := decimal.Zero
	minLiquidity := hops[0].pair.Liquidity
	pairs := make([]pricingDomain.Pair, 0, len(hops))

	for _, h := range hops {
		if !h.pair.HasPositivePrices() {
			return nil, false
		}
		venue := h.pair.Venue

		// Sell legs convert first so the fee and slippage apply to the
		// quote-side notional, same as buy legs.
		if h.side == hopSell {
			current = current.Mul(h.pair.Bid)
		}

		fee := current.Mul(venue.TradingFee)
		totalFees = totalFees.Add(fee)
		current = current.Sub(fee)

		slip := hopSlippage(current, venue)
		totalSlippage = totalSlippage.Add(slip)
		current = current.Mul(one.Sub(slip))

		if h.side == hopBuy {
			current = current.Div(h.pair.Ask)
		}

		totalGas = totalGas.Add(venue.GasCost)
		if h.pair.Liquidity.LessThan(minLiquidity) {
			minLiquidity = h.pair.Liquidity
		}
		pairs = append(pairs, h.pair)
	}

	finalAmount := current.Sub(totalGas)
	grossProfit := finalAmount.Sub(capital)
	grossProfitBps := grossProfit.Div(capital).Mul(tenThousand)

	riskScore := c.riskScore(
		grossProfitBps.InexactFloat64(),
		totalSlippage.InexactFloat64(),
		minLiquidity.InexactFloat64(),
		routeType.Hops(),
	)

	discount := one.Sub(c.safetyMargin)
	netProfitBps := grossProfitBps.Mul(discount)
	if netProfitBps.LessThan(c.minProfitBps) {
		return nil, false
	}

	return &domain.Route{
		Type:                  routeType,
		Pairs:                 pairs,
		Path:                  path,
		GrossProfit:           grossProfit,
		GrossProfitBps:        grossProfitBps,
		ExpectedProfit:        grossProfit.Mul(discount),
		ExpectedProfitBps:     netProfitBps,
		RiskScore:             riskScore,
		ExecutionTimeMs:       executionTimeMs,
		TotalFees:             totalFees,
		TotalGas:              totalGas,
		SlippageEstimate:      totalSlippage,
		MinCapitalRequired:    minCapital,
		MaxCapitalRecommended: minLiquidity.Mul(maxCapitalFraction),
	}, true
}

// hopSlippage models per-hop price impact: linear in notional per $100k,
// boosted beyond a 5x size factor, capped at 5%.
func hopSlippage(notional decimal.Decimal, venue pricingDomain.Venue) decimal.Decimal {
	sizeFactor := notional.Div(oneHundredK)
	slip := venue.SlippageFactor.Mul(sizeFactor)

	five := decimal.NewFromInt(5)
	if sizeFactor.GreaterThan(five) {
		boost := one.Add(sizeFactor.Sub(five).Mul(decimal.RequireFromString("0.1")))
		slip = slip.Mul(boost)
	}

	cap := decimal.RequireFromString("0.05")
	if slip.GreaterThan(cap) {
		return cap
	}
	return slip
}

// riskScore grades a route 0-100, lower is better. Each component is
// clamped to its weight before summing: profit shortfall 30, slippage 25,
// liquidity shortfall 25, hop-count complexity 10 per hop past two.
func (c *MultiHopCalculator) riskScore(profitBps, slippage, minLiquidity float64, hops int) float64 {
	profitTerm := clampFloat((50-profitBps)/50*30, 0, 30)

	maxSlipBps := c.maxSlippageBps.InexactFloat64()
	slipTerm := 25.0
	if maxSlipBps > 0 {
		slipTerm = clampFloat(slippage/maxSlipBps*10_000*25, 0, 25)
	}

	liquidityTerm := clampFloat((1_000_000-minLiquidity)/1_000_000*25, 0, 25)
	complexityTerm := float64(hops-2) * 10

	return clampFloat(profitTerm+slipTerm+liquidityTerm+complexityTerm, 0, 100)
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
