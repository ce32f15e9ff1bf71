package domain

import "github.com/shopspring/decimal"

// FlashLoanResult is the output of the flash loan volume optimizer for one
// buy/sell venue pair.
type FlashLoanResult struct {
	LoanVolume    decimal.Decimal
	OptimalVolume decimal.Decimal // analytic optimum after the loan window clamp
	MinLoan       decimal.Decimal
	MaxLoan       decimal.Decimal

	EffectiveBuyPrice  decimal.Decimal
	EffectiveSellPrice decimal.Decimal
	SlippageBuy        decimal.Decimal
	SlippageSell       decimal.Decimal

	GrossProfit  decimal.Decimal
	FlashFee     decimal.Decimal
	NetProfit    decimal.Decimal // gross minus flash fee, before gas
	ProfitBps    decimal.Decimal
	IsProfitable bool

	ExecutionProbability float64
	TimeDecayFactor      float64
	GasAdjustedProfit    decimal.Decimal // net minus gas, discounted by safety margin, execution probability and time decay
}

// YieldResult is the full cost-accounted outcome of the real-yield pipeline
// for one trade: gross to net with every deduction itemized, plus the
// pass/fail state of each pre-flight check.
type YieldResult struct {
	Volume    decimal.Decimal
	BuyPrice  decimal.Decimal
	SellPrice decimal.Decimal
	SpreadPct decimal.Decimal // (sell - buy) / buy * 100

	DynamicSlippage decimal.Decimal // fraction applied to both legs
	SlippageCost    decimal.Decimal // volume * slippage, in USD
	TokensBought    decimal.Decimal

	GrossProfit decimal.Decimal
	Cost        ExecutionCost
	NetProfit   decimal.Decimal
	ProfitBps   decimal.Decimal

	PassedGasCheck      bool
	PassedSlippageGuard bool
	IsProfitable        bool
	AbortReason         string // empty when profitable

	FlashSource FlashLoanSource // empty when no provider fits the volume
	Chain       Chain
}

// Abort reasons, in the order they are checked.
const (
	AbortGasTooHigh     = "gas_exceeds_profit_threshold"
	AbortSlippageGuard  = "volume_exceeds_liquidity_guard"
	AbortNegativeProfit = "negative_net_profit"
	AbortLowProfitBps   = "profit_below_minimum_bps"
	AbortInvalidInput   = "invalid_input"
	AbortCycleBelowFees = "cycle_ratio_below_fees"
	AbortNoViableSize   = "no_viable_trade_size"
)

// Decision is the final execute/skip verdict for an opportunity.
type Decision struct {
	Execute bool
	Reason  string
}
