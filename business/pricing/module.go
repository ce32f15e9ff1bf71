// Package pricing implements the pricing bounded context: market snapshot
// acquisition and freshness control.
package pricing

import (
	"context"

	"github.com/omniarb/engine/business/pricing/app"
	pricingDI "github.com/omniarb/engine/business/pricing/di"
	"github.com/omniarb/engine/business/pricing/infra/snapshotfile"
	"github.com/omniarb/engine/internal/config"
	"github.com/omniarb/engine/internal/di"
	"github.com/omniarb/engine/internal/logger"
	"github.com/omniarb/engine/internal/monolith"
)

// Module implements the pricing bounded context.
type Module struct{}

// RegisterServices registers all pricing services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	// Snapshot provider - private dependency
	di.RegisterToken(c, pricingDI.SnapshotProvider, func(sr di.ServiceRegistry) app.SnapshotProvider {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		return snapshotfile.NewProvider(cfg.Scanner.SnapshotFile, log)
	})

	// PricingService (public - exposed to other modules)
	di.RegisterToken(c, pricingDI.PricingService, func(sr di.ServiceRegistry) *app.PricingService {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		provider := pricingDI.GetSnapshotProvider(sr)

		return app.NewPricingService(provider, cfg.Scanner.SnapshotMaxAge, log)
	})

	return nil
}

// Startup initializes the pricing module.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()

	// Force construction early so a bad snapshot path surfaces at startup,
	// not on the first scan.
	svc := pricingDI.GetPricingService(mono.Services())
	if _, err := svc.Snapshot(ctx); err != nil {
		log.Warn(ctx, "initial snapshot fetch failed, scans will retry", "error", err)
	}

	log.Info(ctx, "pricing module started",
		"snapshot_file", mono.Config().Scanner.SnapshotFile,
	)
	return nil
}
