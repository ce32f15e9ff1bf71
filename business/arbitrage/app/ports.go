package app

import (
	"context"

	"github.com/omniarb/engine/business/arbitrage/domain"
	pricingDomain "github.com/omniarb/engine/business/pricing/domain"
)

// SnapshotSource supplies the market snapshot a scan runs against.
type SnapshotSource interface {
	Snapshot(ctx context.Context) (*pricingDomain.Snapshot, error)
}

// Reporter receives the analyzed opportunities of one scan cycle.
type Reporter interface {
	Report(ctx context.Context, opportunities []*domain.Opportunity) error
}
