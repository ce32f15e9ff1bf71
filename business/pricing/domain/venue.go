// Package domain contains the core domain types for the pricing context.
package domain

import "github.com/shopspring/decimal"

// Venue describes one trading venue as observed in a market snapshot.
// Immutable; a new value is created per snapshot.
type Venue struct {
	Name           string
	TradingFee     decimal.Decimal // fraction, 0.003 = 0.30%
	GasCost        decimal.Decimal // USD per transaction
	LiquidityDepth decimal.Decimal // available liquidity in USD
	SlippageFactor decimal.Decimal // slippage fraction per $100k notional
}

// Pair represents one quote for a trading pair on a venue.
// Short-lived: re-created on every market scan.
type Pair struct {
	Base      string
	Quote     string
	Venue     Venue
	Bid       decimal.Decimal
	Ask       decimal.Decimal
	Liquidity decimal.Decimal // available liquidity in USD
}

// Symbol returns the pair symbol (e.g., "BTC-USDT").
func (p Pair) Symbol() string {
	return p.Base + "-" + p.Quote
}

// HasPositivePrices reports whether both sides of the book are quoted.
func (p Pair) HasPositivePrices() bool {
	return p.Bid.IsPositive() && p.Ask.IsPositive()
}
