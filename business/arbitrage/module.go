// Package arbitrage implements the arbitrage bounded context: route
// profitability, risk analysis, trade sizing and the scan loop.
package arbitrage

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/omniarb/engine/business/arbitrage/app"
	arbitrageDI "github.com/omniarb/engine/business/arbitrage/di"
	"github.com/omniarb/engine/business/arbitrage/domain"
	"github.com/omniarb/engine/business/arbitrage/infra"
	pricingDI "github.com/omniarb/engine/business/pricing/di"
	"github.com/omniarb/engine/internal/config"
	"github.com/omniarb/engine/internal/di"
	"github.com/omniarb/engine/internal/logger"
	"github.com/omniarb/engine/internal/monolith"
)

// Module implements the arbitrage bounded context.
type Module struct{}

// RegisterServices registers all arbitrage services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, arbitrageDI.MultiHopCalculator, func(sr di.ServiceRegistry) *app.MultiHopCalculator {
		cfg := sr.Get("config").(*config.Config)
		return app.NewMultiHopCalculator(
			cfg.Engine.MinProfitBpsDecimal(),
			cfg.Engine.MaxSlippageBpsDecimal(),
			cfg.Engine.SafetyMarginDecimal(),
		)
	})

	di.RegisterToken(c, arbitrageDI.RiskAnalyzer, func(sr di.ServiceRegistry) *app.RiskAnalyzer {
		return app.NewRiskAnalyzer()
	})

	di.RegisterToken(c, arbitrageDI.FlashLoanOptimizer, func(sr di.ServiceRegistry) *app.FlashLoanOptimizer {
		cfg := sr.Get("config").(*config.Config)
		return app.NewFlashLoanOptimizer(
			cfg.Engine.MinProfitBpsDecimal(),
			cfg.Engine.TargetSlippageDecimal(),
			cfg.Engine.SafetyMarginDecimal(),
			cfg.Engine.SlippageImpactFactorDecimal(),
		)
	})

	di.RegisterToken(c, arbitrageDI.RealYieldCalculator, func(sr di.ServiceRegistry) *app.RealYieldCalculator {
		cfg := sr.Get("config").(*config.Config)
		return app.NewRealYieldCalculator(
			cfg.Engine.MinProfitBpsDecimal(),
			cfg.Engine.GasSafetyMultiplierDecimal(),
			cfg.Engine.MaxTVLFractionDecimal(),
			cfg.Engine.TargetSlippageDecimal(),
			flashSourceTable(cfg.Flash.Sources),
			chainTable(cfg.Chains),
		)
	})

	di.RegisterToken(c, arbitrageDI.Reporter, func(sr di.ServiceRegistry) app.Reporter {
		cfg := sr.Get("config").(*config.Config)
		if cfg.Scanner.TUIMode {
			return infra.NewTUIReporter()
		}
		return infra.NewConsoleReporter()
	})

	di.RegisterToken(c, arbitrageDI.Scanner, func(sr di.ServiceRegistry) *app.Scanner {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		return app.NewScanner(
			pricingDI.GetPricingService(sr),
			arbitrageDI.GetReporter(sr),
			arbitrageDI.GetMultiHopCalculator(sr),
			arbitrageDI.GetRiskAnalyzer(sr),
			arbitrageDI.GetFlashLoanOptimizer(sr),
			arbitrageDI.GetRealYieldCalculator(sr),
			app.ScannerOptions{
				Capital:        cfg.Scanner.CapitalDecimal(),
				ScansPerMinute: cfg.Scanner.ScansPerMinute,
				MaxConcurrency: cfg.Scanner.MaxConcurrency,
				SnapshotMaxAge: cfg.Scanner.SnapshotMaxAge,
			},
			log,
		)
	})

	return nil
}

// Startup initializes the arbitrage module.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	// Force scanner construction so wiring errors surface at startup. The
	// binary decides when to run it.
	arbitrageDI.GetScanner(mono.Services())

	mono.Logger().Info(ctx, "arbitrage module started",
		"min_profit_bps", mono.Config().Engine.MinProfitBps,
		"capital", mono.Config().Scanner.Capital,
	)
	return nil
}

// flashSourceNames maps configuration names to provider identifiers.
var flashSourceNames = map[string]domain.FlashLoanSource{
	"dydx":       domain.FlashSourceDydx,
	"balancer":   domain.FlashSourceBalancer,
	"uniswap":    domain.FlashSourceUniswap,
	"uniswap_v3": domain.FlashSourceUniswap,
	"aave":       domain.FlashSourceAave,
	"aave_v3":    domain.FlashSourceAave,
}

// flashSourceTable converts the configured provider list, preserving its
// order and skipping unavailable or unknown entries.
func flashSourceTable(sources []config.FlashSourceConfig) []domain.FlashSourceOption {
	options := make([]domain.FlashSourceOption, 0, len(sources))
	for _, src := range sources {
		if !src.Available {
			continue
		}
		name, ok := flashSourceNames[src.Name]
		if !ok {
			continue
		}
		options = append(options, domain.FlashSourceOption{
			Source:  name,
			FeeRate: decimal.NewFromFloat(src.FeeRate),
			MinLoan: decimal.NewFromFloat(src.MinLoanUSD),
			MaxLoan: decimal.NewFromFloat(src.MaxLoanUSD),
		})
	}
	return options
}

func chainTable(chains []config.ChainConfig) []domain.ChainOption {
	options := make([]domain.ChainOption, 0, len(chains))
	for _, ch := range chains {
		options = append(options, domain.ChainOption{
			Chain:        domain.Chain(ch.Name),
			AvgGasCost:   decimal.NewFromFloat(ch.AvgGasCostUSD),
			MinTradeSize: decimal.NewFromFloat(ch.RecommendedMinTradeUSD),
			IsL2:         ch.IsL2,
		})
	}
	return options
}
