package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Opportunity is a fully analyzed arbitrage candidate: the route, its risk
// profile, the cost-accounted yield and the final verdict. This is the unit
// handed to reporters.
type Opportunity struct {
	ID        string
	Timestamp time.Time

	Symbol    string
	BuyVenue  string
	SellVenue string
	Capital   decimal.Decimal

	Route    *Route
	Risk     *RiskMetrics
	Flash    *FlashLoanResult
	Yield    *YieldResult
	Decision Decision
}

// NetProfit returns the cost-accounted net profit, or zero when the yield
// stage was never reached.
func (o *Opportunity) NetProfit() decimal.Decimal {
	if o.Yield == nil {
		return decimal.Zero
	}
	return o.Yield.NetProfit
}
