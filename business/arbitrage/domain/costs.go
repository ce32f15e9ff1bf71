package domain

import "github.com/shopspring/decimal"

// ExecutionCost aggregates every fixed cost of executing a trade, in USD.
type ExecutionCost struct {
	GasCost      decimal.Decimal
	FlashLoanFee decimal.Decimal
	BridgeFee    decimal.Decimal
	PriorityFee  decimal.Decimal
}

// Total returns the sum of all cost components.
func (c ExecutionCost) Total() decimal.Decimal {
	return c.GasCost.Add(c.FlashLoanFee).Add(c.BridgeFee).Add(c.PriorityFee)
}
