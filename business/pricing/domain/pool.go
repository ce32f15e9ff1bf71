package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// LiquidityPool describes a TVL-bounded pool used for flash-loan sizing.
//
// MinCoefficient and MaxCoefficient bound the loan volume as fractions of TVL:
// VMin = MinCoefficient * TVL, VMax = MaxCoefficient * TVL.
type LiquidityPool struct {
	TVL            decimal.Decimal // total value locked in USD
	FeeRate        decimal.Decimal // flash loan fee, 0.0009 = 0.09%
	MinCoefficient decimal.Decimal
	MaxCoefficient decimal.Decimal
}

// NewLiquidityPool builds a pool, enforcing 0 <= min <= max <= 1.
func NewLiquidityPool(tvl, feeRate, minCoeff, maxCoeff decimal.Decimal) (LiquidityPool, error) {
	if minCoeff.IsNegative() || minCoeff.GreaterThan(maxCoeff) || maxCoeff.GreaterThan(decimal.NewFromInt(1)) {
		return LiquidityPool{}, fmt.Errorf("pool coefficients out of range: min=%s max=%s", minCoeff, maxCoeff)
	}
	if feeRate.IsNegative() {
		return LiquidityPool{}, fmt.Errorf("pool fee rate must be >= 0, got %s", feeRate)
	}

	return LiquidityPool{
		TVL:            tvl,
		FeeRate:        feeRate,
		MinCoefficient: minCoeff,
		MaxCoefficient: maxCoeff,
	}, nil
}

// VMin returns the minimum loan volume allowed by the pool.
func (p LiquidityPool) VMin() decimal.Decimal {
	return p.MinCoefficient.Mul(p.TVL)
}

// VMax returns the maximum loan volume allowed by the pool.
func (p LiquidityPool) VMax() decimal.Decimal {
	return p.MaxCoefficient.Mul(p.TVL)
}

// DynamicSlippage returns the constant-product slippage for a trade of the
// given size: S = dx / (x + dx), where x is the pool TVL.
// An empty pool yields maximal slippage (1).
func (p LiquidityPool) DynamicSlippage(tradeSize decimal.Decimal) decimal.Decimal {
	if !p.TVL.IsPositive() {
		return decimal.NewFromInt(1)
	}
	return tradeSize.Div(p.TVL.Add(tradeSize))
}

// IsTradeSizeSafe reports whether the trade stays within maxTVLFraction of the pool.
func (p LiquidityPool) IsTradeSizeSafe(tradeSize, maxTVLFraction decimal.Decimal) bool {
	if !p.TVL.IsPositive() {
		return false
	}
	return tradeSize.LessThanOrEqual(maxTVLFraction.Mul(p.TVL))
}

// OptimalTradeSize inverts the constant-product slippage formula for a target
// slippage: dx = S*x / (1-S). Targets outside (0, 1) yield zero.
func (p LiquidityPool) OptimalTradeSize(targetSlippage decimal.Decimal) decimal.Decimal {
	one := decimal.NewFromInt(1)
	if !targetSlippage.IsPositive() || targetSlippage.GreaterThanOrEqual(one) {
		return decimal.Zero
	}
	return targetSlippage.Mul(p.TVL).Div(one.Sub(targetSlippage))
}
