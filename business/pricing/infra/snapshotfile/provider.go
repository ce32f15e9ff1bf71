// Package snapshotfile reads market snapshots from a JSON file on disk.
// An external collector process rewrites the file atomically; reading it
// fresh on every fetch keeps this side of the pipe stateless.
package snapshotfile

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/omniarb/engine/business/pricing/domain"
	"github.com/omniarb/engine/internal/apperror"
	"github.com/omniarb/engine/internal/logger"
)

type venueDoc struct {
	Name           string          `json:"name"`
	TradingFee     decimal.Decimal `json:"trading_fee"`
	GasCost        decimal.Decimal `json:"gas_cost"`
	LiquidityDepth decimal.Decimal `json:"liquidity_depth"`
	SlippageFactor decimal.Decimal `json:"slippage_factor"`
}

type pairDoc struct {
	Base      string          `json:"base"`
	Quote     string          `json:"quote"`
	Venue     venueDoc        `json:"venue"`
	Bid       decimal.Decimal `json:"bid"`
	Ask       decimal.Decimal `json:"ask"`
	Liquidity decimal.Decimal `json:"liquidity"`
}

type poolDoc struct {
	TVL            decimal.Decimal `json:"tvl"`
	FeeRate        decimal.Decimal `json:"fee_rate"`
	MinCoefficient decimal.Decimal `json:"min_coefficient"`
	MaxCoefficient decimal.Decimal `json:"max_coefficient"`
}

type snapshotDoc struct {
	Timestamp time.Time          `json:"timestamp"`
	Pairs     []pairDoc          `json:"pairs"`
	Pools     map[string]poolDoc `json:"pools"`
}

// Provider loads snapshots from a single JSON file.
type Provider struct {
	path string
	log  logger.LoggerInterface
}

// NewProvider creates a file-backed snapshot provider.
func NewProvider(path string, log logger.LoggerInterface) *Provider {
	return &Provider{path: path, log: log}
}

// Fetch reads and decodes the snapshot file.
func (p *Provider) Fetch(ctx context.Context) (*domain.Snapshot, error) {
	raw, err := os.ReadFile(p.path)
	if err != nil {
		return nil, apperror.New(
			apperror.CodeSnapshotUnavailable,
			apperror.WithContext("snapshotfile.Fetch"),
			apperror.WithCause(err),
		)
	}

	var doc snapshotDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, apperror.New(
			apperror.CodeSnapshotMalformed,
			apperror.WithContext("snapshotfile.Fetch"),
			apperror.WithCause(err),
		)
	}

	snapshot := &domain.Snapshot{
		Timestamp: doc.Timestamp,
		Pairs:     make([]domain.Pair, 0, len(doc.Pairs)),
		Pools:     make(map[string]domain.LiquidityPool, len(doc.Pools)),
	}

	for _, pd := range doc.Pairs {
		snapshot.Pairs = append(snapshot.Pairs, domain.Pair{
			Base:  pd.Base,
			Quote: pd.Quote,
			Venue: domain.Venue{
				Name:           pd.Venue.Name,
				TradingFee:     pd.Venue.TradingFee,
				GasCost:        pd.Venue.GasCost,
				LiquidityDepth: pd.Venue.LiquidityDepth,
				SlippageFactor: pd.Venue.SlippageFactor,
			},
			Bid:       pd.Bid,
			Ask:       pd.Ask,
			Liquidity: pd.Liquidity,
		})
	}

	for symbol, pl := range doc.Pools {
		pool, err := domain.NewLiquidityPool(pl.TVL, pl.FeeRate, pl.MinCoefficient, pl.MaxCoefficient)
		if err != nil {
			p.log.Warn(ctx, "skipping invalid pool", "symbol", symbol, "error", err)
			continue
		}
		snapshot.Pools[symbol] = pool
	}

	return snapshot, nil
}
