package domain

import "github.com/shopspring/decimal"

// Spread represents the price difference between a buy and a sell quote.
type Spread struct {
	BuyPrice    decimal.Decimal // ask on the buy venue
	SellPrice   decimal.Decimal // bid on the sell venue
	Absolute    decimal.Decimal // sell - buy
	BasisPoints decimal.Decimal // (sell - buy) / buy * 10000
}

// CalculateSpread computes the spread between a buy-side ask and a sell-side bid.
func CalculateSpread(buyPrice, sellPrice decimal.Decimal) Spread {
	absolute := sellPrice.Sub(buyPrice)
	bps := decimal.Zero
	if !buyPrice.IsZero() {
		bps = absolute.Div(buyPrice).Mul(decimal.NewFromInt(10000))
	}

	return Spread{
		BuyPrice:    buyPrice,
		SellPrice:   sellPrice,
		Absolute:    absolute,
		BasisPoints: bps,
	}
}

// IsPositive reports whether the sell side is priced above the buy side.
func (s Spread) IsPositive() bool {
	return s.Absolute.IsPositive()
}
