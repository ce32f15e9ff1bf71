// Package di contains dependency injection tokens for the pricing context.
package di

import (
	"github.com/omniarb/engine/business/pricing/app"
	"github.com/omniarb/engine/internal/di"
)

// Public service tokens - exposed to other modules
var (
	PricingService = di.NewToken[*app.PricingService]("pricing.PricingService")
)

// Private dependency tokens - internal to pricing module
var (
	SnapshotProvider = di.NewToken[app.SnapshotProvider]("pricing:snapshotProvider")
)

// Helper functions for type-safe access
func GetPricingService(c di.ServiceRegistry) *app.PricingService {
	return di.GetToken(c, PricingService)
}

func GetSnapshotProvider(c di.ServiceRegistry) app.SnapshotProvider {
	return di.GetToken(c, SnapshotProvider)
}
