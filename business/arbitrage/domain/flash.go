package domain

import "github.com/shopspring/decimal"

// FlashLoanSource identifies a flash loan provider.
type FlashLoanSource string

const (
	FlashSourceNone     FlashLoanSource = ""
	FlashSourceDydx     FlashLoanSource = "dydx"
	FlashSourceBalancer FlashLoanSource = "balancer"
	FlashSourceUniswap  FlashLoanSource = "uniswap_v3"
	FlashSourceAave     FlashLoanSource = "aave_v3"
)

// FlashSourceOption describes one provider's fee and loan size window.
type FlashSourceOption struct {
	Source  FlashLoanSource
	FeeRate decimal.Decimal // fraction, e.g. 0.0009
	MinLoan decimal.Decimal // USD
	MaxLoan decimal.Decimal // USD
}

// Accepts reports whether the provider can serve a loan of the given volume.
func (o FlashSourceOption) Accepts(volume decimal.Decimal) bool {
	return volume.GreaterThanOrEqual(o.MinLoan) && volume.LessThanOrEqual(o.MaxLoan)
}

// Fee returns the flash loan fee for a volume, in USD.
func (o FlashSourceOption) Fee(volume decimal.Decimal) decimal.Decimal {
	return volume.Mul(o.FeeRate)
}

// Chain identifies an execution network.
type Chain string

const (
	ChainArbitrum Chain = "arbitrum"
	ChainOptimism Chain = "optimism"
	ChainPolygon  Chain = "polygon"
	ChainBase     Chain = "base"
	ChainBSC      Chain = "bsc"
	ChainMainnet  Chain = "ethereum_mainnet"
)

// ChainOption describes one network's cost profile for routing decisions.
type ChainOption struct {
	Chain        Chain
	AvgGasCost   decimal.Decimal // USD per arbitrage round trip
	MinTradeSize decimal.Decimal // USD below which gas dominates
	IsL2         bool
}
