package app

import (
	"context"
	"time"

	"github.com/omniarb/engine/business/pricing/domain"
	"github.com/omniarb/engine/internal/apperror"
	"github.com/omniarb/engine/internal/circuitbreaker"
	"github.com/omniarb/engine/internal/logger"
)

// PricingService serves market snapshots to the rest of the system. The
// provider sits behind a circuit breaker so a flapping source fails fast
// instead of stalling every scan, and snapshots past their age limit are
// rejected here rather than at each consumer.
type PricingService struct {
	provider SnapshotProvider
	breaker  *circuitbreaker.CircuitBreaker[*domain.Snapshot]
	maxAge   time.Duration
	log      logger.LoggerInterface
}

// NewPricingService wraps the provider. maxAge of zero disables the
// staleness check.
func NewPricingService(provider SnapshotProvider, maxAge time.Duration, log logger.LoggerInterface) *PricingService {
	return &PricingService{
		provider: provider,
		breaker:  circuitbreaker.New[*domain.Snapshot](circuitbreaker.DefaultConfig("pricing-snapshot")),
		maxAge:   maxAge,
		log:      log,
	}
}

// Snapshot returns the current market snapshot. Fails when the source is
// unavailable, the breaker is open, or the data is past its age limit.
func (s *PricingService) Snapshot(ctx context.Context) (*domain.Snapshot, error) {
	snapshot, err := s.breaker.Execute(func() (*domain.Snapshot, error) {
		return s.provider.Fetch(ctx)
	})
	if err != nil {
		return nil, err
	}

	if snapshot.IsStale(time.Now(), s.maxAge) {
		s.log.Warn(ctx, "snapshot is stale",
			"snapshot_timestamp", snapshot.Timestamp,
			"max_age", s.maxAge.String(),
		)
		return nil, apperror.New(
			apperror.CodeSnapshotStale,
			apperror.WithContext("pricing.Snapshot"),
		)
	}
	return snapshot, nil
}
