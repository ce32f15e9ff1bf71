// Package di contains dependency injection tokens for the arbitrage context.
package di

import (
	"github.com/omniarb/engine/business/arbitrage/app"
	"github.com/omniarb/engine/internal/di"
)

// Public service tokens - exposed to other modules and the binary
var (
	Scanner  = di.NewToken[*app.Scanner]("arbitrage.Scanner")
	Reporter = di.NewToken[app.Reporter]("arbitrage.Reporter")
)

// Private dependency tokens - internal to arbitrage module
var (
	MultiHopCalculator  = di.NewToken[*app.MultiHopCalculator]("arbitrage:multiHopCalculator")
	RiskAnalyzer        = di.NewToken[*app.RiskAnalyzer]("arbitrage:riskAnalyzer")
	FlashLoanOptimizer  = di.NewToken[*app.FlashLoanOptimizer]("arbitrage:flashLoanOptimizer")
	RealYieldCalculator = di.NewToken[*app.RealYieldCalculator]("arbitrage:realYieldCalculator")
)

// Helper functions for type-safe access
func GetScanner(c di.ServiceRegistry) *app.Scanner {
	return di.GetToken(c, Scanner)
}

func GetReporter(c di.ServiceRegistry) app.Reporter {
	return di.GetToken(c, Reporter)
}

func GetMultiHopCalculator(c di.ServiceRegistry) *app.MultiHopCalculator {
	return di.GetToken(c, MultiHopCalculator)
}

func GetRiskAnalyzer(c di.ServiceRegistry) *app.RiskAnalyzer {
	return di.GetToken(c, RiskAnalyzer)
}

func GetFlashLoanOptimizer(c di.ServiceRegistry) *app.FlashLoanOptimizer {
	return di.GetToken(c, FlashLoanOptimizer)
}

func GetRealYieldCalculator(c di.ServiceRegistry) *app.RealYieldCalculator {
	return di.GetToken(c, RealYieldCalculator)
}
