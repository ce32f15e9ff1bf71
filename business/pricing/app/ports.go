// Package app contains application services and port definitions for the pricing context.
package app

import (
	"context"

	"github.com/omniarb/engine/business/pricing/domain"
)

// SnapshotProvider fetches a raw market snapshot from its backing store.
type SnapshotProvider interface {
	Fetch(ctx context.Context) (*domain.Snapshot, error)
}
